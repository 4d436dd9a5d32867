package github

import (
	"context"
	"io"
	"iter"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

// MockGateway is a mock implementation of Gateway for testing. Listing
// methods are stubbed with a slice and an error; the error, if any, is
// yielded after the items.
type MockGateway struct {
	mock.Mock
}

var _ Gateway = (*MockGateway)(nil)

func seqOf[T any](items []T, err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
		if err != nil {
			var zero T
			yield(zero, err)
		}
	}
}

func listResult[T any](args mock.Arguments) iter.Seq2[T, error] {
	var items []T
	if args.Get(0) != nil {
		items = args.Get(0).([]T)
	}
	return seqOf(items, args.Error(1))
}

func (m *MockGateway) AuthenticatedLogin(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) GetRepository(ctx context.Context, name ResourceName) (Lookup[Repository], error) {
	args := m.Called(ctx, name)
	return args.Get(0).(Lookup[Repository]), args.Error(1)
}

func (m *MockGateway) CreateRepository(ctx context.Context, name ResourceName, spec RepositorySpec) (Repository, error) {
	args := m.Called(ctx, name, spec)
	return args.Get(0).(Repository), args.Error(1)
}

func (m *MockGateway) UpdateRepository(ctx context.Context, name ResourceName, delta RepositorySpec) (Repository, error) {
	args := m.Called(ctx, name, delta)
	return args.Get(0).(Repository), args.Error(1)
}

func (m *MockGateway) DeleteRepository(ctx context.Context, name ResourceName) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockGateway) ListLabels(ctx context.Context, repo ResourceName) iter.Seq2[Label, error] {
	return listResult[Label](m.Called(ctx, repo))
}

func (m *MockGateway) CreateLabel(ctx context.Context, repo ResourceName, label LabelSpec) (Label, error) {
	args := m.Called(ctx, repo, label)
	return args.Get(0).(Label), args.Error(1)
}

func (m *MockGateway) UpdateLabel(ctx context.Context, repo ResourceName, delta LabelSpec) (Label, error) {
	args := m.Called(ctx, repo, delta)
	return args.Get(0).(Label), args.Error(1)
}

func (m *MockGateway) DeleteLabel(ctx context.Context, repo ResourceName, name string) error {
	args := m.Called(ctx, repo, name)
	return args.Error(0)
}

func (m *MockGateway) GetTeam(ctx context.Context, org, slug string) (Lookup[Team], error) {
	args := m.Called(ctx, org, slug)
	return args.Get(0).(Lookup[Team]), args.Error(1)
}

func (m *MockGateway) ListTeams(ctx context.Context, org string) iter.Seq2[Team, error] {
	return listResult[Team](m.Called(ctx, org))
}

func (m *MockGateway) CreateTeam(ctx context.Context, org, name string, fields TeamUpdate) (Team, error) {
	args := m.Called(ctx, org, name, fields)
	return args.Get(0).(Team), args.Error(1)
}

func (m *MockGateway) UpdateTeam(ctx context.Context, org, slug, name string, delta TeamUpdate) (Team, error) {
	args := m.Called(ctx, org, slug, name, delta)
	return args.Get(0).(Team), args.Error(1)
}

func (m *MockGateway) DeleteTeam(ctx context.Context, org, slug string) error {
	args := m.Called(ctx, org, slug)
	return args.Error(0)
}

func (m *MockGateway) ListTeamMembers(ctx context.Context, org, slug string, role TeamRole) iter.Seq2[string, error] {
	return listResult[string](m.Called(ctx, org, slug, role))
}

func (m *MockGateway) AddTeamMembership(ctx context.Context, org, slug, login string, role TeamRole) error {
	args := m.Called(ctx, org, slug, login, role)
	return args.Error(0)
}

func (m *MockGateway) RemoveTeamMembership(ctx context.Context, org, slug, login string) error {
	args := m.Called(ctx, org, slug, login)
	return args.Error(0)
}

func (m *MockGateway) ListCollaborators(ctx context.Context, repo ResourceName) iter.Seq2[Collaborator, error] {
	return listResult[Collaborator](m.Called(ctx, repo))
}

func (m *MockGateway) AddCollaborator(ctx context.Context, repo ResourceName, login string, permission Permission) error {
	args := m.Called(ctx, repo, login, permission)
	return args.Error(0)
}

func (m *MockGateway) RemoveCollaborator(ctx context.Context, repo ResourceName, login string) error {
	args := m.Called(ctx, repo, login)
	return args.Error(0)
}

// quietLogger discards reconciler logs.
func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
