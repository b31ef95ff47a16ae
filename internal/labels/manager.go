package labels

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sunrun/approve-label/pkg/types"
)

var ErrLabelNotFound = errors.New("label not found")

// API is the subset of the GitHub client the manager needs
type API interface {
	RepositoryID(ctx context.Context, owner, name string) (string, error)
	PullRequestID(ctx context.Context, owner, name string, number int) (string, error)
	RepositoryLabels(ctx context.Context, repositoryID string) ([]types.Label, error)
	CreateLabel(ctx context.Context, repositoryID string, label types.Label) (types.Label, error)
	AddLabels(ctx context.Context, subjectID string, labelIDs []string) error
	RemoveLabels(ctx context.Context, subjectID string, labelIDs []string) error
	ClearLabels(ctx context.Context, subjectID string) error
	AddComment(ctx context.Context, subjectID, body string) (types.Comment, error)
}

// Manager manages labels and comments on pull requests
type Manager struct {
	api    API
	logger *zap.Logger
}

// NewManager creates a new label manager
func NewManager(api API, logger *zap.Logger) *Manager {
	return &Manager{
		api:    api,
		logger: logger,
	}
}

// ResolveRepositoryID returns the node id of owner/repo
func (m *Manager) ResolveRepositoryID(ctx context.Context, owner, repo string) (string, error) {
	return m.api.RepositoryID(ctx, owner, repo)
}

// ResolvePullRequestID returns the node id of a pull request
func (m *Manager) ResolvePullRequestID(ctx context.Context, owner, repo string, number int) (string, error) {
	return m.api.PullRequestID(ctx, owner, repo, number)
}

// FindLabelID looks a label up by name among the first page of repository labels.
func (m *Manager) FindLabelID(ctx context.Context, repositoryID, name string) (string, error) {
	labels, err := m.api.RepositoryLabels(ctx, repositoryID)
	if err != nil {
		return "", err
	}
	for _, l := range labels {
		// label names are unique regardless of case
		if strings.EqualFold(l.Name, name) {
			return l.ID, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrLabelNotFound)
}

// CreateLabel creates a label, defaulting the color when none is given.
func (m *Manager) CreateLabel(ctx context.Context, repositoryID string, label types.Label) (string, error) {
	created, err := m.api.CreateLabel(ctx, repositoryID, label.WithDefaults())
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// AddLabelToSubject attaches a label to a pull request
func (m *Manager) AddLabelToSubject(ctx context.Context, subjectID, labelID string) error {
	return m.api.AddLabels(ctx, subjectID, []string{labelID})
}

// RemoveLabelsFromSubject detaches labels from a pull request
func (m *Manager) RemoveLabelsFromSubject(ctx context.Context, subjectID string, labelIDs []string) error {
	return m.api.RemoveLabels(ctx, subjectID, labelIDs)
}

// ClearAllLabels detaches every label from a pull request
func (m *Manager) ClearAllLabels(ctx context.Context, subjectID string) error {
	return m.api.ClearLabels(ctx, subjectID)
}

// CreatePRLabel makes sure the label exists on the repository and attaches
// it to the pull request. An existing label with the same name is reused.
func (m *Manager) CreatePRLabel(ctx context.Context, owner, repo string, number int, label types.Label) error {
	repoID, err := m.ResolveRepositoryID(ctx, owner, repo)
	if err != nil {
		return fmt.Errorf("resolve repository: %w", err)
	}

	prID, err := m.ResolvePullRequestID(ctx, owner, repo, number)
	if err != nil {
		return fmt.Errorf("resolve pull request: %w", err)
	}

	labelID, err := m.FindLabelID(ctx, repoID, label.Name)
	switch {
	case errors.Is(err, ErrLabelNotFound):
		m.logger.Info("label not found, creating it", zap.String("label", label.Name))
		labelID, err = m.CreateLabel(ctx, repoID, label)
		if err != nil {
			return fmt.Errorf("create label: %w", err)
		}
	case err != nil:
		return fmt.Errorf("find label: %w", err)
	}

	if err := m.AddLabelToSubject(ctx, prID, labelID); err != nil {
		return fmt.Errorf("add label: %w", err)
	}

	m.logger.Info("added label to pull request",
		zap.String("repo", owner+"/"+repo),
		zap.Int("number", number),
		zap.String("label", label.Name),
	)
	return nil
}

// RemovePRLabels removes the named labels from a pull request. Names that
// do not exist on the repository are skipped and reported in the result.
func (m *Manager) RemovePRLabels(ctx context.Context, owner, repo string, number int, names []string) (types.RemovalResult, error) {
	result := types.RemovalResult{
		Removed: make([]string, 0),
		Skipped: make([]string, 0),
	}

	repoID, err := m.ResolveRepositoryID(ctx, owner, repo)
	if err != nil {
		return result, fmt.Errorf("resolve repository: %w", err)
	}

	prID, err := m.ResolvePullRequestID(ctx, owner, repo, number)
	if err != nil {
		return result, fmt.Errorf("resolve pull request: %w", err)
	}

	labels, err := m.api.RepositoryLabels(ctx, repoID)
	if err != nil {
		return result, fmt.Errorf("list labels: %w", err)
	}
	byName := make(map[string]string, len(labels))
	for _, l := range labels {
		byName[strings.ToLower(l.Name)] = l.ID
	}

	ids := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		id, ok := byName[strings.ToLower(name)]
		if !ok {
			m.logger.Info("label not found, skipping", zap.String("label", name))
			result.Skipped = append(result.Skipped, name)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		result.Removed = append(result.Removed, name)
	}

	if len(ids) == 0 {
		return result, nil
	}

	if err := m.RemoveLabelsFromSubject(ctx, prID, ids); err != nil {
		return types.RemovalResult{Removed: make([]string, 0), Skipped: result.Skipped}, fmt.Errorf("remove labels: %w", err)
	}
	return result, nil
}

// ClearPRLabels removes every label from a pull request
func (m *Manager) ClearPRLabels(ctx context.Context, owner, repo string, number int) error {
	prID, err := m.ResolvePullRequestID(ctx, owner, repo, number)
	if err != nil {
		return fmt.Errorf("resolve pull request: %w", err)
	}
	if err := m.ClearAllLabels(ctx, prID); err != nil {
		return fmt.Errorf("clear labels: %w", err)
	}
	return nil
}

// CreatePRComment posts a comment on a pull request
func (m *Manager) CreatePRComment(ctx context.Context, owner, repo string, number int, body string) (types.Comment, error) {
	prID, err := m.ResolvePullRequestID(ctx, owner, repo, number)
	if err != nil {
		return types.Comment{}, fmt.Errorf("resolve pull request: %w", err)
	}

	comment, err := m.api.AddComment(ctx, prID, body)
	if err != nil {
		return types.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	return comment, nil
}
