package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/go-github/v57/github"

	"github.com/sunrun/approve-label/pkg/types"
)

const (
	EvPullRequest              = "pull_request"
	EvPullRequestTarget        = "pull_request_target"
	EvIssueComment             = "issue_comment"
	EvPullRequestReviewComment = "pull_request_review_comment"
)

var (
	ErrNoEventPath      = errors.New("event payload path is empty")
	ErrUnsupportedEvent = errors.New("unsupported event")
)

// ReadEvent loads the webhook payload the runner stored at path.
func ReadEvent(name, path string) (types.TriggerEvent, error) {
	if path == "" {
		return types.TriggerEvent{}, ErrNoEventPath
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return types.TriggerEvent{}, fmt.Errorf("failed to read event payload: %w", err)
	}
	return ParseEvent(name, content)
}

// ParseEvent decodes a webhook payload of the given event type.
func ParseEvent(name string, content []byte) (types.TriggerEvent, error) {
	messageType := name
	if name == EvPullRequestTarget {
		messageType = EvPullRequest
	}

	switch messageType {
	case EvPullRequest, EvIssueComment, EvPullRequestReviewComment:
	default:
		return types.TriggerEvent{}, fmt.Errorf("%w: %q", ErrUnsupportedEvent, name)
	}

	payload, err := github.ParseWebHook(messageType, content)
	if err != nil {
		return types.TriggerEvent{}, fmt.Errorf("failed to parse %s payload: %w", name, err)
	}

	ev := types.TriggerEvent{EventName: name}
	var repo *github.Repository

	switch v := payload.(type) {
	case *github.PullRequestEvent:
		ev.Action = v.GetAction()
		ev.Sender = v.GetSender().GetLogin()
		ev.LabelName = v.GetLabel().GetName()
		ev.Number = v.GetPullRequest().GetNumber()
		if ev.Number == 0 {
			ev.Number = v.GetNumber()
		}
		repo = v.GetRepo()
	case *github.IssueCommentEvent:
		ev.Action = v.GetAction()
		ev.Sender = v.GetSender().GetLogin()
		ev.CommentBody = v.GetComment().GetBody()
		if issue := v.GetIssue(); issue != nil && issue.IsPullRequest() {
			ev.Number = v.GetIssue().GetNumber()
		}
		repo = v.GetRepo()
	case *github.PullRequestReviewCommentEvent:
		ev.Action = v.GetAction()
		ev.Sender = v.GetSender().GetLogin()
		ev.CommentBody = v.GetComment().GetBody()
		ev.Number = v.GetPullRequest().GetNumber()
		repo = v.GetRepo()
	default:
		return types.TriggerEvent{}, fmt.Errorf("%w: %q", ErrUnsupportedEvent, name)
	}

	ev.Owner = repo.GetOwner().GetLogin()
	ev.Repo = repo.GetName()

	// organization is only present for repositories owned by an organization
	var envelope struct {
		Organization *github.Organization `json:"organization"`
	}
	if err := json.Unmarshal(content, &envelope); err != nil {
		return types.TriggerEvent{}, fmt.Errorf("failed to parse %s payload: %w", name, err)
	}
	ev.Organization = envelope.Organization.GetLogin()

	return ev, nil
}
