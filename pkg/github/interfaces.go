package github

import (
	"context"
	"iter"
)

// Lookup is the result of a single-resource read. Found is false when the
// resource does not exist; any other failure is returned as an error.
type Lookup[T any] struct {
	Value T
	Found bool
}

// Found wraps a value that exists remotely.
func Found[T any](v T) Lookup[T] {
	return Lookup[T]{Value: v, Found: true}
}

// NotFound is the empty lookup.
func NotFound[T any]() Lookup[T] {
	return Lookup[T]{}
}

// UserGateway identifies the authenticated caller
type UserGateway interface {
	AuthenticatedLogin(ctx context.Context) (string, error)
}

// RepositoryGateway defines repository operations
type RepositoryGateway interface {
	GetRepository(ctx context.Context, name ResourceName) (Lookup[Repository], error)
	CreateRepository(ctx context.Context, name ResourceName, spec RepositorySpec) (Repository, error)
	UpdateRepository(ctx context.Context, name ResourceName, delta RepositorySpec) (Repository, error)
	DeleteRepository(ctx context.Context, name ResourceName) error
}

// LabelGateway defines issue label operations
type LabelGateway interface {
	GetRepository(ctx context.Context, name ResourceName) (Lookup[Repository], error)
	ListLabels(ctx context.Context, repo ResourceName) iter.Seq2[Label, error]
	CreateLabel(ctx context.Context, repo ResourceName, label LabelSpec) (Label, error)
	UpdateLabel(ctx context.Context, repo ResourceName, delta LabelSpec) (Label, error)
	DeleteLabel(ctx context.Context, repo ResourceName, name string) error
}

// TeamFinder reads teams; it is all ResolveTeam needs.
type TeamFinder interface {
	GetTeam(ctx context.Context, org, slug string) (Lookup[Team], error)
	ListTeams(ctx context.Context, org string) iter.Seq2[Team, error]
}

// TeamGateway defines team operations
type TeamGateway interface {
	TeamFinder
	CreateTeam(ctx context.Context, org, name string, fields TeamUpdate) (Team, error)
	UpdateTeam(ctx context.Context, org, slug, name string, delta TeamUpdate) (Team, error)
	DeleteTeam(ctx context.Context, org, slug string) error
}

// MembershipGateway defines team membership operations
type MembershipGateway interface {
	TeamFinder
	ListTeamMembers(ctx context.Context, org, slug string, role TeamRole) iter.Seq2[string, error]
	// AddTeamMembership adds login with role, moving them if they hold the other role.
	AddTeamMembership(ctx context.Context, org, slug, login string, role TeamRole) error
	RemoveTeamMembership(ctx context.Context, org, slug, login string) error
}

// CollaboratorGateway defines direct collaborator operations
type CollaboratorGateway interface {
	GetRepository(ctx context.Context, name ResourceName) (Lookup[Repository], error)
	ListCollaborators(ctx context.Context, repo ResourceName) iter.Seq2[Collaborator, error]
	// AddCollaborator adds login or changes their permission.
	AddCollaborator(ctx context.Context, repo ResourceName, login string, permission Permission) error
	RemoveCollaborator(ctx context.Context, repo ResourceName, login string) error
}

// Gateway is the full set of remote operations
type Gateway interface {
	UserGateway
	RepositoryGateway
	LabelGateway
	TeamGateway
	MembershipGateway
	CollaboratorGateway
}

// collect drains a listing. An empty listing yields an empty, non-nil slice.
func collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	items := []T{}
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
