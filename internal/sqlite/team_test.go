package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/shughuli/internal/model"
	"github.com/rpggio/shughuli/internal/repository"
	"github.com/stretchr/testify/require"
)

func newTeam(id, ownerID string) *model.Team {
	now := time.Now().UTC()
	lead := ownerID
	return &model.Team{
		ID:        id,
		Name:      "Team " + id,
		Slug:      "team-" + id,
		OwnerID:   ownerID,
		LeadID:    &lead,
		Members:   []model.Member{{UserID: ownerID, Role: model.TeamRoleLead, JoinedAt: now}},
		CreatedAt: now,
	}
}

func TestTeamRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()
	seedUser(t, db, "owner")
	seedUser(t, db, "helper")

	require.NoError(t, repo.Create(ctx, newTeam("team1", "owner")))
	require.NoError(t, repo.AddMember(ctx, "team1", model.Member{UserID: "helper", Role: model.TeamRoleMember, JoinedAt: time.Now()}))

	got, err := repo.Get(ctx, "team1")
	require.NoError(t, err)
	require.Len(t, got.Members, 2)
	require.True(t, got.IsMember("helper"))
	require.Equal(t, "owner", *got.LeadID)

	bySlug, err := repo.GetBySlug(ctx, "team-team1")
	require.NoError(t, err)
	require.Equal(t, "team1", bySlug.ID)

	require.ErrorIs(t, repo.AddMember(ctx, "team1", model.Member{UserID: "helper", Role: model.TeamRoleMember}), repository.ErrConflict)

	teams, err := repo.ListForUser(ctx, "helper")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Len(t, teams[0].Members, 2)

	require.NoError(t, repo.RemoveMember(ctx, "team1", "helper"))
	require.ErrorIs(t, repo.RemoveMember(ctx, "team1", "helper"), repository.ErrNotFound)
}

func TestTeamRepository_Invitations(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTeamRepository(db)
	ctx := context.Background()
	seedUser(t, db, "owner")
	seedUser(t, db, "neema")
	require.NoError(t, repo.Create(ctx, newTeam("team1", "owner")))

	expires := time.Now().UTC().Add(7 * 24 * time.Hour)
	inv := &model.TeamInvitation{
		ID:          "i1",
		TeamID:      "team1",
		Email:       "neema@example.com",
		InvitedByID: "owner",
		Role:        model.TeamRoleMember,
		Token:       "tok",
		ExpiresAt:   &expires,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, repo.CreateInvitation(ctx, inv))

	got, err := repo.GetInvitationByToken(ctx, "tok")
	require.NoError(t, err)
	require.False(t, got.Accepted)
	require.NotNil(t, got.ExpiresAt)

	list, err := repo.ListInvitations(ctx, "team1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	now := time.Now().UTC()
	got.Accepted = true
	got.AcceptedAt = &now
	member := model.Member{UserID: "neema", Role: model.TeamRoleMember, JoinedAt: now}
	require.NoError(t, repo.AcceptInvitation(ctx, got, member))

	team, err := repo.Get(ctx, "team1")
	require.NoError(t, err)
	require.True(t, team.IsMember("neema"))

	// A second acceptance changes nothing.
	require.ErrorIs(t, repo.AcceptInvitation(ctx, got, member), repository.ErrConflict)

	_, err = repo.GetInvitationByToken(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
