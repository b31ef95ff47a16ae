package labels

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sunrun/approve-label/internal/github"
	"github.com/sunrun/approve-label/pkg/types"
)

func TestFindLabelID(t *testing.T) {
	m := NewManager(newFakeAPI("bug", "feature"), zap.NewNop())
	ctx := context.Background()

	id, err := m.FindLabelID(ctx, "R_1", "feature")
	require.NoError(t, err)
	assert.Equal(t, "L_1", id)

	_, err = m.FindLabelID(ctx, "R_1", "missing")
	assert.ErrorIs(t, err, ErrLabelNotFound)

	_, err = m.FindLabelID(ctx, "R_other", "bug")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLabelNotFound)
}

func TestCreateLabel_DefaultColor(t *testing.T) {
	api := newFakeAPI()
	m := NewManager(api, zap.NewNop())

	id, err := m.CreateLabel(context.Background(), "R_1", types.Label{Name: "Label Action"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	l, ok := api.label("Label Action")
	require.True(t, ok)
	assert.Equal(t, "FBCA04", l.Color)
	assert.Equal(t, "", l.Description)
}

func TestCreatePRLabel_Idempotent(t *testing.T) {
	api := newFakeAPI("bug")
	m := NewManager(api, zap.NewNop())
	ctx := context.Background()
	label := types.Label{Name: "Label Action", Description: "gated"}

	require.NoError(t, m.CreatePRLabel(ctx, "sunrun", "app", 7, label))
	require.NoError(t, m.CreatePRLabel(ctx, "sunrun", "app", 7, label))

	assert.Equal(t, 1, api.created)
	assert.Equal(t, []string{"Label Action"}, api.attached())
}

func TestCreatePRLabel_ReusesExisting(t *testing.T) {
	api := newFakeAPI("bug")
	m := NewManager(api, zap.NewNop())

	require.NoError(t, m.CreatePRLabel(context.Background(), "sunrun", "app", 7, types.Label{Name: "bug"}))
	assert.Equal(t, 0, api.created)
	assert.Equal(t, []string{"bug"}, api.attached())
}

func TestCreatePRLabel_MatchesNameIgnoringCase(t *testing.T) {
	api := newFakeAPI("bug")
	m := NewManager(api, zap.NewNop())
	ctx := context.Background()

	id, err := m.FindLabelID(ctx, "R_1", "Bug")
	require.NoError(t, err)
	assert.Equal(t, "L_0", id)

	require.NoError(t, m.CreatePRLabel(ctx, "sunrun", "app", 7, types.Label{Name: "Bug"}))
	assert.Equal(t, 0, api.created)
	assert.Equal(t, []string{"bug"}, api.attached())
}

func TestCreatePRLabel_StageErrors(t *testing.T) {
	api := newFakeAPI()
	m := NewManager(api, zap.NewNop())
	ctx := context.Background()

	err := m.CreatePRLabel(ctx, "sunrun", "nope", 7, types.Label{Name: "x"})
	assert.ErrorIs(t, err, github.ErrRepositoryNotFound)
	assert.Contains(t, err.Error(), "resolve repository")

	err = m.CreatePRLabel(ctx, "sunrun", "app", 8, types.Label{Name: "x"})
	assert.ErrorIs(t, err, github.ErrPullRequestNotFound)
	assert.Contains(t, err.Error(), "resolve pull request")

	api.failAdd = errors.New("boom")
	err = m.CreatePRLabel(ctx, "sunrun", "app", 7, types.Label{Name: "x"})
	assert.Contains(t, err.Error(), "add label")
}

func TestRemovePRLabels_Partial(t *testing.T) {
	api := newFakeAPI("bug", "feature", "docs")
	m := NewManager(api, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, api.AddLabels(ctx, "PR_7", []string{"L_0", "L_1", "L_2"}))

	result, err := m.RemovePRLabels(ctx, "sunrun", "app", 7, []string{"bug", "ghost", "docs"})
	require.NoError(t, err)

	assert.Equal(t, []string{"bug", "docs"}, result.Removed)
	assert.Equal(t, []string{"ghost"}, result.Skipped)
	assert.Equal(t, []string{"feature"}, api.attached())
}

func TestRemovePRLabels_MatchesNameIgnoringCase(t *testing.T) {
	api := newFakeAPI("bug", "feature")
	m := NewManager(api, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, api.AddLabels(ctx, "PR_7", []string{"L_0", "L_1"}))

	result, err := m.RemovePRLabels(ctx, "sunrun", "app", 7, []string{"BUG", "bug"})
	require.NoError(t, err)

	assert.Equal(t, []string{"BUG"}, result.Removed)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, []string{"feature"}, api.attached())
}

func TestRemovePRLabels_NothingToRemove(t *testing.T) {
	m := NewManager(newFakeAPI("bug"), zap.NewNop())

	result, err := m.RemovePRLabels(context.Background(), "sunrun", "app", 7, []string{"ghost"})
	require.NoError(t, err)
	assert.Empty(t, result.Removed)
	assert.Equal(t, []string{"ghost"}, result.Skipped)
}

func TestClearPRLabels(t *testing.T) {
	api := newFakeAPI("bug", "feature")
	m := NewManager(api, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, api.AddLabels(ctx, "PR_7", []string{"L_0", "L_1"}))

	require.NoError(t, m.ClearPRLabels(ctx, "sunrun", "app", 7))
	assert.Empty(t, api.attached())

	assert.ErrorIs(t, m.ClearPRLabels(ctx, "sunrun", "app", 9), github.ErrPullRequestNotFound)
}

func TestCreatePRComment(t *testing.T) {
	api := newFakeAPI()
	m := NewManager(api, zap.NewNop())

	c, err := m.CreatePRComment(context.Background(), "sunrun", "app", 7, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", c.Body)
	assert.Equal(t, []string{"hello"}, api.comments)
}
