package github

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var widgets = ResourceName{Owner: "acme", Name: "widgets", Org: "acme"}

func TestRepositoryReconciler_Create(t *testing.T) {
	gw := new(MockGateway)
	spec := RepositorySpec{Private: Some(true), Description: Some("Widgets"), AutoInit: Some(true)}
	created := Repository{Name: "widgets", FullName: "acme/widgets", Private: true, Description: "Widgets"}

	gw.On("GetRepository", mock.Anything, widgets).Return(NotFound[Repository](), nil)
	gw.On("CreateRepository", mock.Anything, widgets, spec).Return(created, nil)

	result, err := NewRepositoryReconciler(gw, quietLogger()).Run(context.Background(), widgets, StatePresent, spec)
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, OpCreate, result.Op)
	assert.Equal(t, []string{"acme/widgets"}, result.Added)
	assert.Equal(t, &created, result.State)
	gw.AssertExpectations(t)
}

func TestRepositoryReconciler_UpdateOnlyDifferingFields(t *testing.T) {
	gw := new(MockGateway)
	current := Repository{Name: "widgets", Private: true, Description: "old", HasWiki: true, HasIssues: true}
	spec := RepositorySpec{
		Private:     Some(true),
		Description: Some("new"),
		HasWiki:     Some(false),
		AutoInit:    Some(true),
	}
	expectedDelta := RepositorySpec{Description: Some("new"), HasWiki: Some(false), AutoInit: Some(true)}
	updated := current
	updated.Description = "new"
	updated.HasWiki = false

	gw.On("GetRepository", mock.Anything, widgets).Return(Found(current), nil)
	gw.On("UpdateRepository", mock.Anything, widgets, expectedDelta).Return(updated, nil).Once()

	result, err := NewRepositoryReconciler(gw, quietLogger()).Run(context.Background(), widgets, StatePresent, spec)
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, OpUpdate, result.Op)
	assert.Equal(t, []string{"description", "has_wiki"}, result.Updated)
	assert.Equal(t, &updated, result.State)
	gw.AssertNumberOfCalls(t, "UpdateRepository", 1)
}

func TestRepositoryReconciler_Idempotent(t *testing.T) {
	gw := new(MockGateway)
	current := Repository{Name: "widgets", Private: true, Description: "same"}

	gw.On("GetRepository", mock.Anything, widgets).Return(Found(current), nil)

	result, err := NewRepositoryReconciler(gw, quietLogger()).Run(context.Background(), widgets, StatePresent,
		RepositorySpec{Private: Some(true), Description: Some("same")})
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Equal(t, OpNoop, result.Op)
	assert.Empty(t, result.Updated)
	assert.Equal(t, &current, result.State)
	gw.AssertNotCalled(t, "UpdateRepository", mock.Anything, mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "CreateRepository", mock.Anything, mock.Anything, mock.Anything)
}

func TestRepositoryReconciler_Delete(t *testing.T) {
	gw := new(MockGateway)
	gw.On("GetRepository", mock.Anything, widgets).Return(Found(Repository{Name: "widgets"}), nil)
	gw.On("DeleteRepository", mock.Anything, widgets).Return(nil)

	result, err := NewRepositoryReconciler(gw, quietLogger()).Run(context.Background(), widgets, StateAbsent, RepositorySpec{})
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, OpDelete, result.Op)
	assert.Equal(t, []string{"acme/widgets"}, result.Removed)
	assert.Nil(t, result.State)
}

func TestRepositoryReconciler_AbsentAndMissing(t *testing.T) {
	gw := new(MockGateway)
	gw.On("GetRepository", mock.Anything, widgets).Return(NotFound[Repository](), nil)

	result, err := NewRepositoryReconciler(gw, quietLogger()).Run(context.Background(), widgets, StateAbsent, RepositorySpec{})
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Equal(t, OpNoop, result.Op)
	gw.AssertNotCalled(t, "DeleteRepository", mock.Anything, mock.Anything)
}

func TestRepositoryReconciler_PropagatesErrors(t *testing.T) {
	gw := new(MockGateway)
	permErr := &GitHubError{Type: ErrorTypePermission, Message: "insufficient permissions"}
	gw.On("GetRepository", mock.Anything, widgets).Return(Found(Repository{Description: "old"}), nil)
	gw.On("UpdateRepository", mock.Anything, widgets, mock.Anything).Return(Repository{}, permErr)

	result, err := NewRepositoryReconciler(gw, quietLogger()).Run(context.Background(), widgets, StatePresent,
		RepositorySpec{Description: Some("new")})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, permErr)
}
