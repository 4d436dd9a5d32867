package github

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTeamReconciler_Create(t *testing.T) {
	gw := new(MockGateway)
	platform := Team{ID: 10, Name: "Platform", Slug: "platform"}
	created := Team{ID: 11, Name: "Core Team", Slug: "core-team", Privacy: PrivacyClosed, ParentID: 10, Parent: "platform"}
	fields := TeamUpdate{Privacy: Some(PrivacyClosed), ParentID: Some(int64(10))}

	gw.On("GetTeam", mock.Anything, "acme", "Core Team").Return(NotFound[Team](), nil)
	gw.On("ListTeams", mock.Anything, "acme").Return([]Team{platform}, nil)
	gw.On("GetTeam", mock.Anything, "acme", "Platform").Return(NotFound[Team](), nil)
	gw.On("GetTeam", mock.Anything, "acme", "platform").Return(Found(platform), nil)
	gw.On("CreateTeam", mock.Anything, "acme", "Core Team", fields).Return(created, nil)

	result, err := NewTeamReconciler(gw, quietLogger()).Run(context.Background(), "acme", StatePresent, TeamRequest{
		Name:    "Core Team",
		Privacy: Some(PrivacyClosed),
		Parent:  Some("Platform"),
	})
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, OpCreate, result.Op)
	assert.Equal(t, []string{"Core Team"}, result.Added)
	assert.Equal(t, &created, result.State)
	gw.AssertExpectations(t)
}

func TestTeamReconciler_UpdateRereadsBySlug(t *testing.T) {
	gw := new(MockGateway)
	current := Team{ID: 11, Name: "Core Team", Slug: "core-team", Description: "old", Privacy: PrivacySecret}
	refreshed := Team{ID: 11, Name: "Core Team", Slug: "core-team", Description: "new", Privacy: PrivacyClosed}
	delta := TeamUpdate{Description: Some("new"), Privacy: Some(PrivacyClosed)}

	gw.On("GetTeam", mock.Anything, "acme", "core-team").Return(Found(current), nil).Once()
	gw.On("UpdateTeam", mock.Anything, "acme", "core-team", "Core Team", delta).Return(refreshed, nil)
	gw.On("GetTeam", mock.Anything, "acme", "core-team").Return(Found(refreshed), nil).Once()

	result, err := NewTeamReconciler(gw, quietLogger()).Run(context.Background(), "acme", StatePresent, TeamRequest{
		Name:        "core-team",
		Description: Some("new"),
		Privacy:     Some(PrivacyClosed),
	})
	require.NoError(t, err)

	assert.Equal(t, OpUpdate, result.Op)
	assert.Equal(t, []string{"description", "privacy"}, result.Updated)
	assert.Equal(t, &refreshed, result.State)
	gw.AssertExpectations(t)
}

func TestTeamReconciler_Idempotent(t *testing.T) {
	gw := new(MockGateway)
	current := Team{ID: 11, Name: "core", Slug: "core", Description: "same", Privacy: PrivacyClosed}

	gw.On("GetTeam", mock.Anything, "acme", "core").Return(Found(current), nil)

	result, err := NewTeamReconciler(gw, quietLogger()).Run(context.Background(), "acme", StatePresent, TeamRequest{
		Name:        "core",
		Description: Some("same"),
		Privacy:     Some(PrivacyClosed),
	})
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Equal(t, OpNoop, result.Op)
	assert.Equal(t, &current, result.State)
	gw.AssertNotCalled(t, "UpdateTeam", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTeamReconciler_Delete(t *testing.T) {
	gw := new(MockGateway)
	current := Team{ID: 11, Name: "Core Team", Slug: "core-team"}

	gw.On("GetTeam", mock.Anything, "acme", "Core Team").Return(NotFound[Team](), nil)
	gw.On("ListTeams", mock.Anything, "acme").Return([]Team{current}, nil)
	gw.On("GetTeam", mock.Anything, "acme", "core-team").Return(Found(current), nil)
	gw.On("DeleteTeam", mock.Anything, "acme", "core-team").Return(nil)

	result, err := NewTeamReconciler(gw, quietLogger()).Run(context.Background(), "acme", StateAbsent, TeamRequest{Name: "Core Team"})
	require.NoError(t, err)

	assert.Equal(t, OpDelete, result.Op)
	assert.Equal(t, []string{"Core Team"}, result.Removed)
	assert.Nil(t, result.State)
}

func TestTeamReconciler_AbsentAndMissing(t *testing.T) {
	gw := new(MockGateway)
	gw.On("GetTeam", mock.Anything, "acme", "ghosts").Return(NotFound[Team](), nil)
	gw.On("ListTeams", mock.Anything, "acme").Return([]Team{}, nil)

	result, err := NewTeamReconciler(gw, quietLogger()).Run(context.Background(), "acme", StateAbsent, TeamRequest{Name: "ghosts"})
	require.NoError(t, err)

	assert.False(t, result.Changed)
	gw.AssertNotCalled(t, "DeleteTeam", mock.Anything, mock.Anything, mock.Anything)
}

func TestTeamReconciler_MissingParent(t *testing.T) {
	gw := new(MockGateway)
	gw.On("GetTeam", mock.Anything, "acme", mock.Anything).Return(NotFound[Team](), nil)
	gw.On("ListTeams", mock.Anything, "acme").Return([]Team{}, nil)

	_, err := NewTeamReconciler(gw, quietLogger()).Run(context.Background(), "acme", StatePresent, TeamRequest{
		Name:   "core",
		Parent: Some("nowhere"),
	})

	assert.True(t, IsNotFound(err))
	gw.AssertNotCalled(t, "CreateTeam", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
