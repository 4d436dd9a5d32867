package github

import (
	"context"
	"fmt"
	"iter"
	"net/http"

	"github.com/google/go-github/v66/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// DefaultPerPage is the page size used when none is configured.
const DefaultPerPage = 30

// lowRateLimit is the remaining-requests threshold that triggers a warning.
const lowRateLimit = 100

// ClientOptions configures a Client
type ClientOptions struct {
	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise Server.
	BaseURL string
	// PerPage is the page size of listing calls.
	PerPage int
	Logger  logrus.FieldLogger
}

// Client implements Gateway using the GitHub REST API
type Client struct {
	client  *github.Client
	perPage int
	log     logrus.FieldLogger
}

// NewClient creates a new GitHub API client with the provided token
func NewClient(token string, opts ClientOptions) (*Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	gh := github.NewClient(tc)
	if opts.BaseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub URL %q: %w", opts.BaseURL, err)
		}
	}

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Client{client: gh, perPage: perPage, log: log}, nil
}

// AuthenticatedLogin returns the login of the token's owner
func (c *Client) AuthenticatedLogin(ctx context.Context) (string, error) {
	user, resp, err := c.client.Users.Get(ctx, "")
	c.observe(resp)
	if err != nil {
		return "", WrapGitHubError(err, "look up", "authenticated user")
	}
	return user.GetLogin(), nil
}

// GetRepository retrieves a repository by name
func (c *Client) GetRepository(ctx context.Context, name ResourceName) (Lookup[Repository], error) {
	repo, resp, err := c.client.Repositories.Get(ctx, name.Owner, name.Name)
	c.observe(resp)
	if err != nil {
		if isNotFoundResponse(resp) {
			return NotFound[Repository](), nil
		}
		return Lookup[Repository]{}, WrapGitHubError(err, "look up", "repository "+name.FQRN())
	}
	return Found(convertRepository(repo)), nil
}

// CreateRepository creates a repository in name.Org, or for the
// authenticated user when Org is empty
func (c *Client) CreateRepository(ctx context.Context, name ResourceName, spec RepositorySpec) (Repository, error) {
	req := repositoryRequest(spec)
	req.Name = github.String(name.Name)
	req.AutoInit = spec.AutoInit.Ptr()
	req.GitignoreTemplate = spec.GitignoreTemplate.Ptr()
	req.LicenseTemplate = spec.LicenseTemplate.Ptr()

	repo, resp, err := c.client.Repositories.Create(ctx, name.Org, req)
	c.observe(resp)
	if err != nil {
		return Repository{}, WrapGitHubError(err, "create", "repository "+name.FQRN())
	}
	return convertRepository(repo), nil
}

// UpdateRepository sends the fields set in delta
func (c *Client) UpdateRepository(ctx context.Context, name ResourceName, delta RepositorySpec) (Repository, error) {
	req := repositoryRequest(delta)
	req.Archived = delta.Archived.Ptr()

	repo, resp, err := c.client.Repositories.Edit(ctx, name.Owner, name.Name, req)
	c.observe(resp)
	if err != nil {
		return Repository{}, WrapGitHubError(err, "update", "repository "+name.FQRN())
	}
	return convertRepository(repo), nil
}

// DeleteRepository deletes a repository
func (c *Client) DeleteRepository(ctx context.Context, name ResourceName) error {
	resp, err := c.client.Repositories.Delete(ctx, name.Owner, name.Name)
	c.observe(resp)
	if err != nil {
		return WrapGitHubError(err, "delete", "repository "+name.FQRN())
	}
	return nil
}

// repositoryRequest maps the settings shared by create and edit.
func repositoryRequest(spec RepositorySpec) *github.Repository {
	return &github.Repository{
		Private:             spec.Private.Ptr(),
		Visibility:          spec.Visibility.Ptr(),
		Description:         spec.Description.Ptr(),
		Homepage:            spec.Homepage.Ptr(),
		HasIssues:           spec.HasIssues.Ptr(),
		HasProjects:         spec.HasProjects.Ptr(),
		HasWiki:             spec.HasWiki.Ptr(),
		HasDiscussions:      spec.HasDiscussions.Ptr(),
		AllowSquashMerge:    spec.AllowSquashMerge.Ptr(),
		AllowMergeCommit:    spec.AllowMergeCommit.Ptr(),
		AllowRebaseMerge:    spec.AllowRebaseMerge.Ptr(),
		AllowAutoMerge:      spec.AllowAutoMerge.Ptr(),
		DeleteBranchOnMerge: spec.DeleteBranchOnMerge.Ptr(),
	}
}

// ListLabels lists the labels of a repository
func (c *Client) ListLabels(ctx context.Context, repo ResourceName) iter.Seq2[Label, error] {
	return paginate(c.perPage, func(opts github.ListOptions) ([]*github.Label, *github.Response, error) {
		labels, resp, err := c.client.Issues.ListLabels(ctx, repo.Owner, repo.Name, &opts)
		c.observe(resp)
		if err != nil {
			return nil, resp, WrapGitHubError(err, "list labels of", "repository "+repo.FQRN())
		}
		return labels, resp, nil
	}, convertLabel)
}

// CreateLabel creates a label
func (c *Client) CreateLabel(ctx context.Context, repo ResourceName, label LabelSpec) (Label, error) {
	req := &github.Label{
		Name:        github.String(label.Name),
		Color:       label.Color.Ptr(),
		Description: label.Description.Ptr(),
	}

	created, resp, err := c.client.Issues.CreateLabel(ctx, repo.Owner, repo.Name, req)
	c.observe(resp)
	if err != nil {
		return Label{}, WrapGitHubError(err, "create", fmt.Sprintf("label %q in %s", label.Name, repo.FQRN()))
	}
	return convertLabel(created), nil
}

// UpdateLabel sends the color and description set in delta
func (c *Client) UpdateLabel(ctx context.Context, repo ResourceName, delta LabelSpec) (Label, error) {
	req := &github.Label{
		Color:       delta.Color.Ptr(),
		Description: delta.Description.Ptr(),
	}

	updated, resp, err := c.client.Issues.EditLabel(ctx, repo.Owner, repo.Name, delta.Name, req)
	c.observe(resp)
	if err != nil {
		return Label{}, WrapGitHubError(err, "update", fmt.Sprintf("label %q in %s", delta.Name, repo.FQRN()))
	}
	return convertLabel(updated), nil
}

// DeleteLabel deletes a label
func (c *Client) DeleteLabel(ctx context.Context, repo ResourceName, name string) error {
	resp, err := c.client.Issues.DeleteLabel(ctx, repo.Owner, repo.Name, name)
	c.observe(resp)
	if err != nil {
		return WrapGitHubError(err, "delete", fmt.Sprintf("label %q in %s", name, repo.FQRN()))
	}
	return nil
}

// GetTeam retrieves a team by slug
func (c *Client) GetTeam(ctx context.Context, org, slug string) (Lookup[Team], error) {
	team, resp, err := c.client.Teams.GetTeamBySlug(ctx, org, slug)
	c.observe(resp)
	if err != nil {
		if isNotFoundResponse(resp) {
			return NotFound[Team](), nil
		}
		return Lookup[Team]{}, WrapGitHubError(err, "look up", "team "+org+"/"+slug)
	}
	return Found(convertTeam(team)), nil
}

// ListTeams lists the teams of an organization
func (c *Client) ListTeams(ctx context.Context, org string) iter.Seq2[Team, error] {
	return paginate(c.perPage, func(opts github.ListOptions) ([]*github.Team, *github.Response, error) {
		teams, resp, err := c.client.Teams.ListTeams(ctx, org, &opts)
		c.observe(resp)
		if err != nil {
			return nil, resp, WrapGitHubError(err, "list teams of", "organization "+org)
		}
		return teams, resp, nil
	}, convertTeam)
}

// CreateTeam creates a team
func (c *Client) CreateTeam(ctx context.Context, org, name string, fields TeamUpdate) (Team, error) {
	team, resp, err := c.client.Teams.CreateTeam(ctx, org, newTeamRequest(name, fields))
	c.observe(resp)
	if err != nil {
		return Team{}, WrapGitHubError(err, "create", "team "+org+"/"+name)
	}
	return convertTeam(team), nil
}

// UpdateTeam sends the fields set in delta. GitHub requires the name on
// every edit, so the current name is passed along.
func (c *Client) UpdateTeam(ctx context.Context, org, slug, name string, delta TeamUpdate) (Team, error) {
	team, resp, err := c.client.Teams.EditTeamBySlug(ctx, org, slug, newTeamRequest(name, delta), false)
	c.observe(resp)
	if err != nil {
		return Team{}, WrapGitHubError(err, "update", "team "+org+"/"+slug)
	}
	return convertTeam(team), nil
}

// DeleteTeam deletes a team
func (c *Client) DeleteTeam(ctx context.Context, org, slug string) error {
	resp, err := c.client.Teams.DeleteTeamBySlug(ctx, org, slug)
	c.observe(resp)
	if err != nil {
		return WrapGitHubError(err, "delete", "team "+org+"/"+slug)
	}
	return nil
}

func newTeamRequest(name string, fields TeamUpdate) github.NewTeam {
	req := github.NewTeam{
		Name:         name,
		Description:  fields.Description.Ptr(),
		ParentTeamID: fields.ParentID.Ptr(),
	}
	if privacy, ok := fields.Privacy.Get(); ok {
		req.Privacy = github.String(string(privacy))
	}
	return req
}

// ListTeamMembers lists the logins holding role in a team
func (c *Client) ListTeamMembers(ctx context.Context, org, slug string, role TeamRole) iter.Seq2[string, error] {
	return paginate(c.perPage, func(opts github.ListOptions) ([]*github.User, *github.Response, error) {
		users, resp, err := c.client.Teams.ListTeamMembersBySlug(ctx, org, slug, &github.TeamListTeamMembersOptions{
			Role:        string(role),
			ListOptions: opts,
		})
		c.observe(resp)
		if err != nil {
			return nil, resp, WrapGitHubError(err, "list "+string(role)+"s of", "team "+org+"/"+slug)
		}
		return users, resp, nil
	}, (*github.User).GetLogin)
}

// AddTeamMembership adds or updates a user's membership
func (c *Client) AddTeamMembership(ctx context.Context, org, slug, login string, role TeamRole) error {
	_, resp, err := c.client.Teams.AddTeamMembershipBySlug(ctx, org, slug, login, &github.TeamAddTeamMembershipOptions{
		Role: string(role),
	})
	c.observe(resp)
	if err != nil {
		return WrapGitHubError(err, "add "+login+" to", "team "+org+"/"+slug)
	}
	return nil
}

// RemoveTeamMembership removes a user from a team
func (c *Client) RemoveTeamMembership(ctx context.Context, org, slug, login string) error {
	resp, err := c.client.Teams.RemoveTeamMembershipBySlug(ctx, org, slug, login)
	c.observe(resp)
	if err != nil {
		return WrapGitHubError(err, "remove "+login+" from", "team "+org+"/"+slug)
	}
	return nil
}

// ListCollaborators lists the direct collaborators of a repository
func (c *Client) ListCollaborators(ctx context.Context, repo ResourceName) iter.Seq2[Collaborator, error] {
	return paginate(c.perPage, func(opts github.ListOptions) ([]*github.User, *github.Response, error) {
		users, resp, err := c.client.Repositories.ListCollaborators(ctx, repo.Owner, repo.Name, &github.ListCollaboratorsOptions{
			Affiliation: "direct",
			ListOptions: opts,
		})
		c.observe(resp)
		if err != nil {
			return nil, resp, WrapGitHubError(err, "list collaborators of", "repository "+repo.FQRN())
		}
		return users, resp, nil
	}, convertCollaborator)
}

// AddCollaborator adds a collaborator or changes their permission
func (c *Client) AddCollaborator(ctx context.Context, repo ResourceName, login string, permission Permission) error {
	_, resp, err := c.client.Repositories.AddCollaborator(ctx, repo.Owner, repo.Name, login, &github.RepositoryAddCollaboratorOptions{
		Permission: string(permission),
	})
	c.observe(resp)
	if err != nil {
		return WrapGitHubError(err, "add collaborator "+login+" to", "repository "+repo.FQRN())
	}
	return nil
}

// RemoveCollaborator removes a collaborator
func (c *Client) RemoveCollaborator(ctx context.Context, repo ResourceName, login string) error {
	resp, err := c.client.Repositories.RemoveCollaborator(ctx, repo.Owner, repo.Name, login)
	c.observe(resp)
	if err != nil {
		return WrapGitHubError(err, "remove collaborator "+login+" from", "repository "+repo.FQRN())
	}
	return nil
}

// observe warns when the rate limit is nearly exhausted.
func (c *Client) observe(resp *github.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}
	entry := c.log.WithFields(logrus.Fields{
		"remaining": resp.Rate.Remaining,
		"reset":     resp.Rate.Reset.Time,
	})
	if resp.Rate.Remaining < lowRateLimit {
		entry.Warn("GitHub API rate limit nearly exhausted")
		return
	}
	entry.Trace("GitHub API rate limit")
}

func isNotFoundResponse(resp *github.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusNotFound
}

func convertRepository(repo *github.Repository) Repository {
	return Repository{
		ID:                  repo.GetID(),
		Owner:               repo.GetOwner().GetLogin(),
		Name:                repo.GetName(),
		FullName:            repo.GetFullName(),
		Private:             repo.GetPrivate(),
		Visibility:          repo.GetVisibility(),
		Description:         repo.GetDescription(),
		Homepage:            repo.GetHomepage(),
		HasIssues:           repo.GetHasIssues(),
		HasProjects:         repo.GetHasProjects(),
		HasWiki:             repo.GetHasWiki(),
		HasDiscussions:      repo.GetHasDiscussions(),
		AllowSquashMerge:    repo.GetAllowSquashMerge(),
		AllowMergeCommit:    repo.GetAllowMergeCommit(),
		AllowRebaseMerge:    repo.GetAllowRebaseMerge(),
		AllowAutoMerge:      repo.GetAllowAutoMerge(),
		DeleteBranchOnMerge: repo.GetDeleteBranchOnMerge(),
		Archived:            repo.GetArchived(),
		DefaultBranch:       repo.GetDefaultBranch(),
		HTMLURL:             repo.GetHTMLURL(),
		CreatedAt:           repo.GetCreatedAt().Time,
		UpdatedAt:           repo.GetUpdatedAt().Time,
	}
}

func convertLabel(label *github.Label) Label {
	return Label{
		Name:        label.GetName(),
		Description: label.GetDescription(),
		Color:       label.GetColor(),
	}
}

func convertTeam(team *github.Team) Team {
	return Team{
		ID:          team.GetID(),
		Name:        team.GetName(),
		Slug:        team.GetSlug(),
		Description: team.GetDescription(),
		Privacy:     Privacy(team.GetPrivacy()),
		ParentID:    team.GetParent().GetID(),
		Parent:      team.GetParent().GetSlug(),
	}
}

// convertCollaborator prefers the permissions object and falls back to the
// role name when GitHub omits it.
func convertCollaborator(user *github.User) Collaborator {
	c := Collaborator{
		Login:       user.GetLogin(),
		Permissions: PermissionsFromFlags(user.Permissions),
	}
	if c.Permissions == (PermissionsMap{}) {
		if perm, ok := ParsePermission(user.GetRoleName()); ok {
			c.Permissions = PermissionsFor(perm)
		}
	}
	c.Permission = c.Permissions.Role()
	return c
}
