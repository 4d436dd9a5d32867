package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Kind selects the reconciler a manifest is applied with
type Kind string

const (
	KindRepository     Kind = "repository"
	KindLabels         Kind = "labels"
	KindTeam           Kind = "team"
	KindTeamMembership Kind = "team_membership"
	KindCollaborators  Kind = "collaborators"
)

var (
	validRepoName = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	validLogin    = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
)

// Manifest is one desired-state document
type Manifest interface {
	Kind() Kind
	// Validate checks the document without contacting GitHub.
	Validate() error
	// Apply reconciles GitHub towards the document.
	Apply(ctx context.Context, gw Gateway, log logrus.FieldLogger) (Reportable, error)
}

// header carries the kind discriminator shared by every manifest.
type header struct {
	Type Kind `yaml:"kind"`
}

// RepositoryManifest declares one repository
type RepositoryManifest struct {
	header     `yaml:",inline"`
	State      State          `yaml:"state"`
	Name       string         `yaml:"name"`
	Repository RepositorySpec `yaml:"repository"`
}

// LabelsManifest declares the labels of one repository
type LabelsManifest struct {
	header    `yaml:",inline"`
	Repo      string      `yaml:"repo"`
	State     State       `yaml:"state"`
	Exclusive bool        `yaml:"exclusive"`
	Labels    []LabelSpec `yaml:"labels"`
}

// TeamManifest declares one organization team
type TeamManifest struct {
	header       `yaml:",inline"`
	Organization string      `yaml:"organization"`
	State        State       `yaml:"state"`
	Team         TeamRequest `yaml:"team"`
}

// MembershipManifest declares the roster of one team
type MembershipManifest struct {
	header       `yaml:",inline"`
	Organization string         `yaml:"organization"`
	State        State          `yaml:"state"`
	Team         MembershipSpec `yaml:"team"`
}

// CollaboratorsManifest declares the direct collaborators of one repository
type CollaboratorsManifest struct {
	header        `yaml:",inline"`
	Repo          string             `yaml:"repo"`
	State         State              `yaml:"state"`
	Exclusive     bool               `yaml:"exclusive"`
	Collaborators []CollaboratorSpec `yaml:"collaborators"`
}

// LoadManifestFromFile reads and validates a manifest file
func LoadManifestFromFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file %s: %w", path, err)
	}

	m, err := LoadManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// LoadManifest decodes a manifest, fills defaults and validates it. Unknown
// keys are rejected.
func LoadManifest(data []byte) (Manifest, error) {
	var h header
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var m Manifest
	switch h.Type {
	case KindRepository:
		m = &RepositoryManifest{}
	case KindLabels:
		m = &LabelsManifest{State: StatePresent}
	case KindTeam:
		m = &TeamManifest{State: StatePresent}
	case KindTeamMembership:
		m = &MembershipManifest{State: StatePresent}
	case KindCollaborators:
		m = &CollaboratorsManifest{State: StatePresent}
	case "":
		return nil, ValidationErrors{{Field: "kind", Message: "kind is required"}}.Err()
	default:
		return nil, ValidationErrors{{
			Field:   "kind",
			Value:   string(h.Type),
			Message: "must be one of: repository, labels, team, team_membership, collaborators",
		}}.Err()
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s manifest: %w", h.Type, err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *RepositoryManifest) Kind() Kind { return KindRepository }

// Validate validates the repository manifest
func (m *RepositoryManifest) Validate() error {
	var errs ValidationErrors
	validateState(&errs, m.State, true)
	validateRef(&errs, "name", m.Name)
	m.Repository.validate(&errs, "repository")
	return errs.Err()
}

// Apply runs the repository reconciler
func (m *RepositoryManifest) Apply(ctx context.Context, gw Gateway, log logrus.FieldLogger) (Reportable, error) {
	name, err := resolveRef(ctx, gw, m.Name)
	if err != nil {
		return nil, err
	}
	result, err := NewRepositoryReconciler(gw, log).Run(ctx, name, m.State, m.Repository)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *LabelsManifest) Kind() Kind { return KindLabels }

// Validate validates the labels manifest
func (m *LabelsManifest) Validate() error {
	if m.Exclusive && m.State == StateAbsent {
		return exclusiveAbsent("labels of " + m.Repo)
	}

	var errs ValidationErrors
	validateState(&errs, m.State, false)
	validateRef(&errs, "repo", m.Repo)

	seen := make(map[string]bool, len(m.Labels))
	for i, label := range m.Labels {
		path := fmt.Sprintf("labels[%d]", i)
		if label.Name == "" {
			errs.Add(path+".name", "", "label name is required")
			continue
		}
		if seen[label.Name] {
			errs.Add(path+".name", label.Name, "duplicate label")
		}
		seen[label.Name] = true
		if len(label.Name) > 50 {
			errs.Add(path+".name", label.Name, "must be 50 characters or less")
		}
		if len(label.Description.OrElse("")) > 100 {
			errs.Add(path+".description", "", "must be 100 characters or less")
		}
	}
	return errs.Err()
}

// Apply runs the label reconciler
func (m *LabelsManifest) Apply(ctx context.Context, gw Gateway, log logrus.FieldLogger) (Reportable, error) {
	repo, err := resolveRef(ctx, gw, m.Repo)
	if err != nil {
		return nil, err
	}
	result, err := NewLabelReconciler(gw, log).Run(ctx, repo, m.State, m.Exclusive, m.Labels)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *TeamManifest) Kind() Kind { return KindTeam }

// Validate validates the team manifest
func (m *TeamManifest) Validate() error {
	var errs ValidationErrors
	validateState(&errs, m.State, false)
	validateOrganization(&errs, m.Organization)

	if m.Team.Name == "" {
		errs.Add("team.name", "", "team name is required")
	}
	if p, ok := m.Team.Privacy.Get(); ok && !p.valid() {
		errs.Add("team.privacy", string(p), "must be one of: closed, secret")
	}
	if parent, ok := m.Team.Parent.Get(); ok {
		switch {
		case parent == "":
			errs.Add("team.parent", "", "parent team name must not be empty")
		case parent == m.Team.Name:
			errs.Add("team.parent", parent, "a team cannot be its own parent")
		}
	}
	return errs.Err()
}

// Apply runs the team reconciler
func (m *TeamManifest) Apply(ctx context.Context, gw Gateway, log logrus.FieldLogger) (Reportable, error) {
	result, err := NewTeamReconciler(gw, log).Run(ctx, m.Organization, m.State, m.Team)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *MembershipManifest) Kind() Kind { return KindTeamMembership }

// Validate validates the team membership manifest
func (m *MembershipManifest) Validate() error {
	if m.Team.Exclusive && m.State == StateAbsent {
		return exclusiveAbsent("members of team " + m.Organization + "/" + m.Team.Name)
	}

	var errs ValidationErrors
	validateState(&errs, m.State, false)
	validateOrganization(&errs, m.Organization)
	if m.Team.Name == "" {
		errs.Add("team.name", "", "team name is required")
	}

	maintainers := validateLogins(&errs, "team.maintainers", m.Team.Maintainers)
	members := validateLogins(&errs, "team.members", m.Team.Members)
	for key, login := range members {
		if _, ok := maintainers[key]; ok {
			errs.Add("team.members", login, "user is also listed as a maintainer")
		}
	}
	return errs.Err()
}

// Apply runs the team membership reconciler
func (m *MembershipManifest) Apply(ctx context.Context, gw Gateway, log logrus.FieldLogger) (Reportable, error) {
	result, err := NewMembershipReconciler(gw, log).Run(ctx, m.Organization, m.State, m.Team)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *CollaboratorsManifest) Kind() Kind { return KindCollaborators }

// Validate validates the collaborators manifest
func (m *CollaboratorsManifest) Validate() error {
	if m.Exclusive && m.State == StateAbsent {
		return exclusiveAbsent("collaborators of " + m.Repo)
	}

	var errs ValidationErrors
	validateState(&errs, m.State, false)
	validateRef(&errs, "repo", m.Repo)

	seen := make(map[string]bool, len(m.Collaborators))
	for i, c := range m.Collaborators {
		path := fmt.Sprintf("collaborators[%d]", i)
		if err := validateUsername(c.Username); err != nil {
			errs.Add(path+".username", c.Username, err.Error())
		}
		key := strings.ToLower(c.Username)
		if seen[key] {
			errs.Add(path+".username", c.Username, "duplicate collaborator")
		}
		seen[key] = true

		if m.State == StateAbsent && c.Permission == "" {
			continue
		}
		if _, ok := ParsePermission(c.Permission); !ok {
			errs.Add(path+".permission", c.Permission, "must be one of: pull, triage, push, maintain, admin, read, write")
		}
	}
	return errs.Err()
}

// Apply runs the collaborator reconciler
func (m *CollaboratorsManifest) Apply(ctx context.Context, gw Gateway, log logrus.FieldLogger) (Reportable, error) {
	repo, err := resolveRef(ctx, gw, m.Repo)
	if err != nil {
		return nil, err
	}
	result, err := NewCollaboratorReconciler(gw, log).Run(ctx, repo, m.State, m.Exclusive, m.Collaborators)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveRef parses a repository reference against the authenticated login.
func resolveRef(ctx context.Context, gw UserGateway, ref string) (ResourceName, error) {
	login, err := gw.AuthenticatedLogin(ctx)
	if err != nil {
		return ResourceName{}, err
	}
	return ParseName(ref, login)
}

func validateState(errs *ValidationErrors, state State, required bool) {
	if state == "" {
		if required {
			errs.Add("state", "", "state is required")
		}
		return
	}
	if !state.valid() {
		errs.Add("state", string(state), "must be one of: present, absent")
	}
}

// validateRef checks the shape of an "owner/name" or "name" reference.
func validateRef(errs *ValidationErrors, field, ref string) {
	if ref == "" {
		errs.Add(field, "", "repository reference is required")
		return
	}

	parts := strings.Split(ref, "/")
	if len(parts) > 2 {
		errs.Add(field, ref, "invalid reference: expected owner/name or name")
		return
	}

	name := parts[len(parts)-1]
	if len(parts) == 2 {
		if err := validateUsername(parts[0]); err != nil {
			errs.Add(field, ref, "invalid owner: "+err.Error())
		}
	}
	if err := validateRepositoryName(name); err != nil {
		errs.Add(field, ref, err.Error())
	}
}

func validateOrganization(errs *ValidationErrors, org string) {
	if org == "" {
		errs.Add("organization", "", "organization is required")
		return
	}
	if err := validateUsername(org); err != nil {
		errs.Add("organization", org, err.Error())
	}
}

// validateLogins checks each login and reports duplicates, ignoring case. It
// returns the logins seen keyed by loginKey.
func validateLogins(errs *ValidationErrors, field string, logins []string) map[string]string {
	seen := make(map[string]string, len(logins))
	for i, login := range logins {
		path := fmt.Sprintf("%s[%d]", field, i)
		if err := validateUsername(login); err != nil {
			errs.Add(path, login, err.Error())
			continue
		}
		key := loginKey(login)
		if _, ok := seen[key]; ok {
			errs.Add(path, login, "duplicate user")
		}
		seen[key] = login
	}
	return seen
}

// validateRepositoryName validates repository name according to GitHub rules
func validateRepositoryName(name string) error {
	if name == "" {
		return errors.New("repository name is required")
	}
	if len(name) > 100 {
		return errors.New("repository name must be 100 characters or less")
	}
	if !validRepoName.MatchString(name) {
		return errors.New("repository name can only contain alphanumeric characters, periods, hyphens, and underscores")
	}
	if name == "." || name == ".." {
		return errors.New("repository name cannot be . or ..")
	}
	return nil
}

// validateUsername validates a GitHub login according to GitHub's rules
func validateUsername(username string) error {
	if username == "" {
		return errors.New("username cannot be empty")
	}
	if len(username) > 39 {
		return errors.New("username must be 39 characters or less")
	}
	if !validLogin.MatchString(username) || strings.Contains(username, "--") {
		return errors.New("must contain only alphanumeric characters and single hyphens, and cannot start or end with a hyphen")
	}
	return nil
}
