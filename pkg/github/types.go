package github

import (
	"fmt"
	"time"
)

// Repository represents the observed state of a GitHub repository
type Repository struct {
	ID                  int64     `json:"id"`
	Owner               string    `json:"owner"`
	Name                string    `json:"name"`
	FullName            string    `json:"full_name"`
	Private             bool      `json:"private"`
	Visibility          string    `json:"visibility,omitempty"`
	Description         string    `json:"description"`
	Homepage            string    `json:"homepage"`
	HasIssues           bool      `json:"has_issues"`
	HasProjects         bool      `json:"has_projects"`
	HasWiki             bool      `json:"has_wiki"`
	HasDiscussions      bool      `json:"has_discussions"`
	AllowSquashMerge    bool      `json:"allow_squash_merge"`
	AllowMergeCommit    bool      `json:"allow_merge_commit"`
	AllowRebaseMerge    bool      `json:"allow_rebase_merge"`
	AllowAutoMerge      bool      `json:"allow_auto_merge"`
	DeleteBranchOnMerge bool      `json:"delete_branch_on_merge"`
	Archived            bool      `json:"archived"`
	DefaultBranch       string    `json:"default_branch,omitempty"`
	HTMLURL             string    `json:"html_url,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Label represents an issue label
type Label struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (l Label) String() string {
	return l.Name
}

// LabelSet indexes labels by name.
type LabelSet map[string]Label

// NewLabelSet builds a LabelSet from a list.
func NewLabelSet(labels []Label) LabelSet {
	set := make(LabelSet, len(labels))
	for _, l := range labels {
		set[l.Name] = l
	}
	return set
}

// Has reports whether a label named name is in the set.
func (s LabelSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Get returns the label named name.
func (s LabelSet) Get(name string) (Label, bool) {
	l, ok := s[name]
	return l, ok
}

// Team represents an organization team
type Team struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Privacy     Privacy `json:"privacy"`
	ParentID    int64   `json:"parent_id,omitempty"`
	Parent      string  `json:"parent,omitempty"`
}

// TeamRole is a member's role within a team
type TeamRole string

const (
	TeamRoleMember     TeamRole = "member"
	TeamRoleMaintainer TeamRole = "maintainer"
)

// Roster is a team's membership split by role
type Roster struct {
	Members     []string `json:"members"`
	Maintainers []string `json:"maintainers"`
}

// MemberChange records a membership change for one user
type MemberChange struct {
	Login string   `json:"login"`
	Role  TeamRole `json:"role,omitempty"`
}

func (m MemberChange) String() string {
	if m.Role == "" {
		return m.Login
	}
	return fmt.Sprintf("%s (%s)", m.Login, m.Role)
}

// Collaborator represents a repository collaborator
type Collaborator struct {
	Login       string         `json:"login"`
	Permission  Permission     `json:"permission"`
	Permissions PermissionsMap `json:"permissions"`
}

func (c Collaborator) String() string {
	return fmt.Sprintf("%s (%s)", c.Login, c.Permission)
}
