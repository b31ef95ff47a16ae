package github

import (
	"context"
	"errors"
	"fmt"

	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"

	"github.com/sunrun/approve-label/pkg/types"
)

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrRepositoryNotFound  = errors.New("repository not found")
	ErrPullRequestNotFound = errors.New("pull request not found")
)

// TeamMembers lists up to 50 members of an organization team.
func (c *Client) TeamMembers(ctx context.Context, org, slug string) ([]types.Member, error) {
	var q teamMembersQuery
	err := c.api.Query(ctx, &q, map[string]any{
		"owner":    githubv4.String(org),
		"teamSlug": githubv4.String(slug),
	})
	if err != nil && !IsNotFound(err) {
		return nil, fmt.Errorf("failed to list members of %s/%s: %w", org, slug, err)
	}

	// an unknown team comes back as a null team, an unknown org as NOT_FOUND
	if err != nil || q.Organization == nil || q.Organization.Team == nil {
		return nil, fmt.Errorf("can't find %s in %s organization: %w", slug, org, ErrTeamNotFound)
	}

	members := make([]types.Member, 0, len(q.Organization.Team.Members.Edges))
	for _, edge := range q.Organization.Team.Members.Edges {
		members = append(members, edge.Node.member())
	}
	return members, nil
}

// RepositoryID resolves the node id of owner/name.
func (c *Client) RepositoryID(ctx context.Context, owner, name string) (string, error) {
	var q repositoryIDQuery
	err := c.api.Query(ctx, &q, map[string]any{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	})
	if err != nil && !IsNotFound(err) {
		return "", fmt.Errorf("failed to get repository %s/%s: %w", owner, name, err)
	}
	if err != nil || q.Repository == nil {
		return "", fmt.Errorf("%s/%s: %w", owner, name, ErrRepositoryNotFound)
	}
	return q.Repository.ID, nil
}

// PullRequestID resolves the node id of pull request number in owner/name.
func (c *Client) PullRequestID(ctx context.Context, owner, name string, number int) (string, error) {
	var q pullRequestIDQuery
	err := c.api.Query(ctx, &q, map[string]any{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(name),
		"number": githubv4.Int(number),
	})
	if err != nil && !IsNotFound(err) {
		return "", fmt.Errorf("failed to get pull request %s/%s#%d: %w", owner, name, number, err)
	}
	if err != nil || q.Repository == nil || q.Repository.PullRequest == nil {
		return "", fmt.Errorf("%s/%s#%d: %w", owner, name, number, ErrPullRequestNotFound)
	}
	return q.Repository.PullRequest.ID, nil
}

// RepositoryLabels returns the first page of labels defined on a repository.
func (c *Client) RepositoryLabels(ctx context.Context, repositoryID string) ([]types.Label, error) {
	var q repositoryLabelsQuery
	err := c.labels.Query(ctx, &q, map[string]any{
		"id": ID(repositoryID),
	})
	if err != nil && !IsNotFound(err) {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	if err != nil || q.Node == nil {
		return nil, fmt.Errorf("repository %s: %w", repositoryID, ErrRepositoryNotFound)
	}

	labels := make([]types.Label, 0, len(q.Node.Repository.Labels.Nodes))
	for _, n := range q.Node.Repository.Labels.Nodes {
		labels = append(labels, n.label())
	}

	c.logger.Debug("listed labels",
		zap.String("repository_id", repositoryID),
		zap.Int("count", len(labels)),
	)
	return labels, nil
}

// CreateLabel creates a label on the repository and returns it with its id.
func (c *Client) CreateLabel(ctx context.Context, repositoryID string, label types.Label) (types.Label, error) {
	input := CreateLabelInput{
		RepositoryID: githubv4.ID(repositoryID),
		Name:         githubv4.String(label.Name),
		Color:        githubv4.String(label.Color),
	}
	if label.Description != "" {
		input.Description = githubv4.NewString(githubv4.String(label.Description))
	}

	var m createLabelMutation
	if err := c.labels.Mutate(ctx, &m, input, nil); err != nil {
		return types.Label{}, fmt.Errorf("failed to create label %q: %w", label.Name, err)
	}

	created := m.CreateLabel.Label.label()
	c.logger.Info("created label",
		zap.String("name", created.Name),
		zap.String("id", created.ID),
	)
	return created, nil
}

// AddLabels attaches labels to a labelable subject such as a pull request.
func (c *Client) AddLabels(ctx context.Context, subjectID string, labelIDs []string) error {
	var m addLabelsMutation
	input := githubv4.AddLabelsToLabelableInput{
		LabelableID: githubv4.ID(subjectID),
		LabelIDs:    nodeIDs(labelIDs),
	}
	if err := c.labels.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("failed to add labels: %w", err)
	}
	return nil
}

// RemoveLabels detaches labels from a labelable subject.
func (c *Client) RemoveLabels(ctx context.Context, subjectID string, labelIDs []string) error {
	var m removeLabelsMutation
	input := githubv4.RemoveLabelsFromLabelableInput{
		LabelableID: githubv4.ID(subjectID),
		LabelIDs:    nodeIDs(labelIDs),
	}
	if err := c.labels.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("failed to remove labels: %w", err)
	}
	return nil
}

// ClearLabels detaches every label from a labelable subject.
func (c *Client) ClearLabels(ctx context.Context, subjectID string) error {
	var m clearLabelsMutation
	input := githubv4.ClearLabelsFromLabelableInput{
		LabelableID: githubv4.ID(subjectID),
	}
	if err := c.labels.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("failed to clear labels: %w", err)
	}
	return nil
}

// AddComment posts a comment on the subject.
func (c *Client) AddComment(ctx context.Context, subjectID, body string) (types.Comment, error) {
	var m addCommentMutation
	input := githubv4.AddCommentInput{
		SubjectID: githubv4.ID(subjectID),
		Body:      githubv4.String(body),
	}
	if err := c.api.Mutate(ctx, &m, input, nil); err != nil {
		return types.Comment{}, fmt.Errorf("failed to add comment: %w", err)
	}

	node := m.AddComment.CommentEdge.Node
	return types.Comment{
		CreatedAt: node.CreatedAt.Time,
		Body:      node.Body,
	}, nil
}

func nodeIDs(ids []string) []githubv4.ID {
	out := make([]githubv4.ID, 0, len(ids))
	for _, id := range ids {
		out = append(out, githubv4.ID(id))
	}
	return out
}
