// Package breadcrumb turns URL paths into display labels and icon keys.
package breadcrumb

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Crumb is one resolved path segment.
type Crumb struct {
	Segment string `json:"segment"`
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Href    string `json:"href"`
}

const (
	IconHome     = "home"
	IconFolder   = "folder"
	IconTask     = "check-square"
	IconUsers    = "users"
	IconUser     = "user"
	IconBell     = "bell"
	IconSettings = "settings"
	IconCalendar = "calendar"
	IconCreate   = "plus"
	IconDocument = "file"
)

const createPrefix = "create-"

// identifierMinLength is the length above which any segment counts as an id.
// Long slugs are misclassified by it.
const identifierMinLength = 10

var entityTypes = map[string]string{
	"tasks":    "Task",
	"projects": "Project",
	"users":    "User",
	"teams":    "Team",
}

var labelOverrides = map[string]string{
	"dashboard":     "Dashboard",
	"my-tasks":      "My Tasks",
	"settings":      "Settings",
	"notifications": "Notifications",
}

var sectionIcons = map[string]string{
	"dashboard":     IconHome,
	"projects":      IconFolder,
	"tasks":         IconTask,
	"my-tasks":      IconTask,
	"teams":         IconUsers,
	"users":         IconUsers,
	"profile":       IconUser,
	"notifications": IconBell,
	"settings":      IconSettings,
	"calendar":      IconCalendar,
}

// IsIdentifierSegment reports whether a segment looks like an entity id: a
// UUID, all digits, or longer than identifierMinLength characters.
func IsIdentifierSegment(segment string) bool {
	if segment == "" {
		return false
	}
	if uuid.Validate(segment) == nil {
		return true
	}
	if isNumeric(segment) {
		return true
	}
	return utf8.RuneCountInString(segment) > identifierMinLength
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Resolve labels segments[index]. An out of range index yields a zero Crumb.
func Resolve(segments []string, index int) Crumb {
	if index < 0 || index >= len(segments) {
		return Crumb{}
	}
	return Crumb{
		Segment: segments[index],
		Label:   label(segments, index),
		Icon:    icon(segments, index),
		Href:    "/" + strings.Join(segments[:index+1], "/"),
	}
}

// Build resolves every segment of a slash-delimited path.
func Build(path string) []Crumb {
	segments := Split(path)
	crumbs := make([]Crumb, 0, len(segments))
	for i := range segments {
		crumbs = append(crumbs, Resolve(segments, i))
	}
	return crumbs
}

// Split breaks a path into its non-empty segments, dropping any query string.
func Split(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func label(segments []string, index int) string {
	segment := segments[index]
	if override, ok := labelOverrides[segment]; ok {
		return override
	}
	if rest, ok := strings.CutPrefix(segment, createPrefix); ok {
		return "New " + strings.ReplaceAll(rest, "-", " ")
	}
	if IsIdentifierSegment(segment) {
		return entityType(segments, index) + " Details"
	}
	return capitalize(strings.ReplaceAll(segment, "-", " "))
}

func icon(segments []string, index int) string {
	segment := segments[index]
	if known, ok := sectionIcons[segment]; ok {
		return known
	}
	if strings.HasPrefix(segment, createPrefix) {
		return IconCreate
	}
	if IsIdentifierSegment(segment) {
		if index == 0 {
			return IconDocument
		}
		return icon(segments, index-1)
	}
	return IconDocument
}

func entityType(segments []string, index int) string {
	if index > 0 {
		if name, ok := entityTypes[segments[index-1]]; ok {
			return name
		}
	}
	return "Item"
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
