// Package authz decides what an actor may see and do. Rules never perform
// I/O: callers pass already-loaded entity snapshots.
package authz

import (
	"github.com/rpggio/shughuli/internal/apperr"
	"github.com/rpggio/shughuli/internal/model"
)

// Decision is the outcome of a rule.
type Decision struct {
	Allowed bool
	Kind    apperr.Kind
	Message string
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision of the given kind.
func Deny(kind apperr.Kind, message string) Decision {
	return Decision{Kind: kind, Message: message}
}

// Err returns nil for allowed decisions and an *apperr.Error otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.New(d.Kind, d.Message)
}

const msgUnauthorized = "Unauthorized"

var unauthenticated = Deny(apperr.KindUnauthorized, msgUnauthorized)

// CanViewProject allows only the owner. IsPublic is not consulted.
func CanViewProject(actor *model.Identity, p *model.Project) Decision {
	if actor == nil {
		return unauthenticated
	}
	if p.OwnerID != actor.UserID {
		return Deny(apperr.KindForbidden, msgUnauthorized)
	}
	return Allow()
}

// CanEditProject uses the same ownership rule as CanViewProject.
func CanEditProject(actor *model.Identity, p *model.Project) Decision {
	return CanViewProject(actor, p)
}

// CanDeleteProject uses the same ownership rule as CanViewProject.
func CanDeleteProject(actor *model.Identity, p *model.Project) Decision {
	return CanViewProject(actor, p)
}

// CanToggleVisibility allows the owner to flip IsPublic to a different value.
func CanToggleVisibility(actor *model.Identity, p *model.Project, requestedPublic bool) Decision {
	if actor == nil {
		return unauthenticated
	}
	if p.OwnerID != actor.UserID {
		return Deny(apperr.KindForbidden, "You do not have permission to change this project's visibility")
	}
	if p.IsPublic == requestedPublic {
		return Deny(apperr.KindConflict, "Project is already "+visibilityLabel(requestedPublic))
	}
	return Allow()
}

func visibilityLabel(public bool) string {
	if public {
		return "public"
	}
	return "private"
}

// CanViewTask allows the creator and the assignee.
func CanViewTask(actor *model.Identity, t *model.Task) Decision {
	if actor == nil {
		return unauthenticated
	}
	if t.CreatorID == actor.UserID || t.IsAssignedTo(actor.UserID) {
		return Allow()
	}
	return Deny(apperr.KindForbidden, "Forbidden")
}

// CanEditTask allows the creator, the assignee and the owner of the task's project.
func CanEditTask(actor *model.Identity, t *model.Task, p *model.Project) Decision {
	if d := CanViewTask(actor, t); d.Allowed || d.Kind == apperr.KindUnauthorized {
		return d
	}
	if p != nil && p.ID == t.ProjectID && p.OwnerID == actor.UserID {
		return Allow()
	}
	return Deny(apperr.KindForbidden, "Forbidden")
}

// CanCreateTask allows the project owner and members of the team the project
// belongs to. team may be nil for projects without a team.
func CanCreateTask(actor *model.Identity, p *model.Project, team *model.Team) Decision {
	if actor == nil {
		return unauthenticated
	}
	if p.OwnerID == actor.UserID {
		return Allow()
	}
	if team != nil && p.TeamID != nil && *p.TeamID == team.ID && team.IsMember(actor.UserID) {
		return Allow()
	}
	return Deny(apperr.KindForbidden, "You do not have permission to add tasks to this project")
}

// CanDeleteTask allows the creator and the owner of the task's project.
func CanDeleteTask(actor *model.Identity, t *model.Task, p *model.Project) Decision {
	if actor == nil {
		return unauthenticated
	}
	if t.CreatorID == actor.UserID {
		return Allow()
	}
	if p != nil && p.ID == t.ProjectID && p.OwnerID == actor.UserID {
		return Allow()
	}
	return Deny(apperr.KindForbidden, "Forbidden")
}

// CanViewNotification allows only the recipient.
func CanViewNotification(actor *model.Identity, n *model.Notification) Decision {
	if actor == nil {
		return unauthenticated
	}
	if n.UserID != actor.UserID {
		return Deny(apperr.KindForbidden, "Forbidden")
	}
	return Allow()
}
