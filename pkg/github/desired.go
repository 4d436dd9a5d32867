package github

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// State is the desired existence of a resource
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

func (s State) valid() bool {
	return s == StatePresent || s == StateAbsent
}

// Privacy is a team's visibility within its organization
type Privacy string

const (
	PrivacyClosed Privacy = "closed"
	PrivacySecret Privacy = "secret"
)

func (p Privacy) valid() bool {
	return p == PrivacyClosed || p == PrivacySecret
}

var validVisibilities = map[string]bool{
	"public":   true,
	"private":  true,
	"internal": true,
}

// RepositorySpec is the desired state of a repository. Every field is
// optional; unset fields leave the remote value alone. Fields tagged
// diff:"-" only apply when the repository is created.
type RepositorySpec struct {
	Private             Optional[bool]   `yaml:"private"`
	Visibility          Optional[string] `yaml:"visibility"`
	Description         Optional[string] `yaml:"description"`
	Homepage            Optional[string] `yaml:"homepage"`
	HasIssues           Optional[bool]   `yaml:"has_issues"`
	HasProjects         Optional[bool]   `yaml:"has_projects"`
	HasWiki             Optional[bool]   `yaml:"has_wiki"`
	HasDiscussions      Optional[bool]   `yaml:"has_discussions"`
	AllowSquashMerge    Optional[bool]   `yaml:"allow_squash_merge"`
	AllowMergeCommit    Optional[bool]   `yaml:"allow_merge_commit"`
	AllowRebaseMerge    Optional[bool]   `yaml:"allow_rebase_merge"`
	AllowAutoMerge      Optional[bool]   `yaml:"allow_auto_merge"`
	DeleteBranchOnMerge Optional[bool]   `yaml:"delete_branch_on_merge"`
	Archived            Optional[bool]   `yaml:"archived"`

	AutoInit          Optional[bool]   `yaml:"auto_init" diff:"-"`
	GitignoreTemplate Optional[string] `yaml:"gitignore_template" diff:"-"`
	LicenseTemplate   Optional[string] `yaml:"license_template" diff:"-"`
}

func (s *RepositorySpec) validate(errs *ValidationErrors, path string) {
	if v, ok := s.Visibility.Get(); ok && !validVisibilities[v] {
		errs.Add(path+".visibility", v, "must be one of: public, private, internal")
	}
	if len(s.Description.OrElse("")) > 350 {
		errs.Add(path+".description", "", "must be 350 characters or less")
	}
}

// LabelSpec is the desired state of one label. The color is stored
// without a leading '#'.
type LabelSpec struct {
	Name        string           `yaml:"name"`
	Description Optional[string] `yaml:"description"`
	Color       Optional[string] `yaml:"color"`
}

// UnmarshalYAML decodes the label and normalizes its color.
func (l *LabelSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain LabelSpec
	if err := node.Decode((*plain)(l)); err != nil {
		return err
	}
	l.Normalize()
	return nil
}

// Normalize strips one leading '#' from the color. Hex digits and case are
// left as given.
func (l *LabelSpec) Normalize() {
	if c, ok := l.Color.Get(); ok {
		l.Color = Some(strings.TrimPrefix(c, "#"))
	}
}

// TeamRequest is the desired state of a team as written by the caller.
// Parent is the display name of the parent team.
type TeamRequest struct {
	Name        string            `yaml:"name"`
	Description Optional[string]  `yaml:"description"`
	Privacy     Optional[Privacy] `yaml:"privacy"`
	Parent      Optional[string]  `yaml:"parent"`
}

// TeamUpdate holds the team fields sent on create and update, with the
// parent already resolved to an ID.
type TeamUpdate struct {
	Description Optional[string]  `yaml:"description"`
	Privacy     Optional[Privacy] `yaml:"privacy"`
	ParentID    Optional[int64]   `yaml:"parent_id"`
}

// MembershipSpec is the desired roster of a team
type MembershipSpec struct {
	Name        string   `yaml:"name"`
	Members     []string `yaml:"members"`
	Maintainers []string `yaml:"maintainers"`
	Exclusive   bool     `yaml:"exclusive"`
}

// CollaboratorSpec is the desired access of one user
type CollaboratorSpec struct {
	Username   string `yaml:"username"`
	Permission string `yaml:"permission"`
}
