package labels

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sunrun/approve-label/internal/github"
	"github.com/sunrun/approve-label/pkg/types"
)

// fakeAPI is an in-memory repository "sunrun/app" with pull request #7.
type fakeAPI struct {
	labels   []types.Label
	prLabels map[string]struct{}
	comments []string
	created  int

	failAdd error
}

func newFakeAPI(existing ...string) *fakeAPI {
	f := &fakeAPI{prLabels: make(map[string]struct{})}
	for i, name := range existing {
		f.labels = append(f.labels, types.Label{ID: fmt.Sprintf("L_%d", i), Name: name, Color: "ededed"})
	}
	return f
}

func (f *fakeAPI) RepositoryID(_ context.Context, owner, name string) (string, error) {
	if owner != "sunrun" || name != "app" {
		return "", fmt.Errorf("%s/%s: %w", owner, name, github.ErrRepositoryNotFound)
	}
	return "R_1", nil
}

func (f *fakeAPI) PullRequestID(_ context.Context, owner, name string, number int) (string, error) {
	if number != 7 {
		return "", fmt.Errorf("%s/%s#%d: %w", owner, name, number, github.ErrPullRequestNotFound)
	}
	return "PR_7", nil
}

func (f *fakeAPI) RepositoryLabels(_ context.Context, repositoryID string) ([]types.Label, error) {
	if repositoryID != "R_1" {
		return nil, errors.New("unexpected repository id")
	}
	out := make([]types.Label, len(f.labels))
	copy(out, f.labels)
	return out, nil
}

func (f *fakeAPI) CreateLabel(_ context.Context, _ string, label types.Label) (types.Label, error) {
	for _, l := range f.labels {
		if strings.EqualFold(l.Name, label.Name) {
			return types.Label{}, errors.New("name already taken")
		}
	}
	f.created++
	label.ID = fmt.Sprintf("L_new_%d", f.created)
	f.labels = append(f.labels, label)
	return label, nil
}

func (f *fakeAPI) AddLabels(_ context.Context, _ string, labelIDs []string) error {
	if f.failAdd != nil {
		return f.failAdd
	}
	for _, id := range labelIDs {
		f.prLabels[id] = struct{}{}
	}
	return nil
}

func (f *fakeAPI) RemoveLabels(_ context.Context, _ string, labelIDs []string) error {
	for _, id := range labelIDs {
		delete(f.prLabels, id)
	}
	return nil
}

func (f *fakeAPI) ClearLabels(_ context.Context, _ string) error {
	f.prLabels = make(map[string]struct{})
	return nil
}

func (f *fakeAPI) AddComment(_ context.Context, _ string, body string) (types.Comment, error) {
	f.comments = append(f.comments, body)
	return types.Comment{CreatedAt: time.Unix(0, 0), Body: body}, nil
}

func (f *fakeAPI) attached() []string {
	names := make([]string, 0)
	for _, l := range f.labels {
		if _, ok := f.prLabels[l.ID]; ok {
			names = append(names, l.Name)
		}
	}
	sort.Strings(names)
	return names
}

func (f *fakeAPI) label(name string) (types.Label, bool) {
	for _, l := range f.labels {
		if l.Name == name {
			return l, true
		}
	}
	return types.Label{}, false
}
