package types

import (
	"regexp"
	"time"
)

// DefaultLabelColor is used when a label is created without a color
const DefaultLabelColor = "FBCA04"

var colorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Label is a repository label as returned by the API
type Label struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// WithDefaults fills the optional fields of a label that is about to be created.
func (l Label) WithDefaults() Label {
	if l.Color == "" {
		l.Color = DefaultLabelColor
	}
	return l
}

// ValidColor reports whether s is a six digit hex color without the leading '#'.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// Comment is a comment created on a pull request
type Comment struct {
	CreatedAt time.Time `json:"createdAt"`
	Body      string    `json:"body"`
}

// RemovalResult reports which labels a bulk removal touched
type RemovalResult struct {
	Removed []string
	Skipped []string
}
