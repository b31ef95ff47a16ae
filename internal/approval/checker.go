package approval

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sunrun/approve-label/internal/github"
	"github.com/sunrun/approve-label/pkg/types"
)

var (
	ErrMissingSender       = errors.New("sender login is empty")
	ErrMissingOrganization = errors.New("organization login is empty")
)

// TeamLister lists the members of an organization team
type TeamLister interface {
	TeamMembers(ctx context.Context, org, slug string) ([]types.Member, error)
}

// Checker decides whether a sender belongs to any approval team
type Checker struct {
	teams  TeamLister
	logger *zap.Logger
}

// NewChecker creates a new approval checker
func NewChecker(teams TeamLister, logger *zap.Logger) *Checker {
	return &Checker{
		teams:  teams,
		logger: logger,
	}
}

// IsApprover looks the sender up in every team concurrently and waits for
// all lookups. A failing lookup only affects the result of its own team.
func (c *Checker) IsApprover(ctx context.Context, sender, org string, slugs []string) (types.Decision, error) {
	if sender == "" {
		return types.Decision{}, ErrMissingSender
	}
	if org == "" {
		return types.Decision{}, ErrMissingOrganization
	}

	decision := types.Decision{
		Sender:       sender,
		Organization: org,
		Teams:        make([]types.TeamResult, len(slugs)),
	}

	var g errgroup.Group
	for i, slug := range slugs {
		i, slug := i, slug
		g.Go(func() error {
			decision.Teams[i] = c.checkTeam(ctx, sender, org, slug)
			return nil
		})
	}
	_ = g.Wait()

	c.logger.Info("approval check finished",
		zap.String("sender", sender),
		zap.String("organization", org),
		zap.Int("teams", len(slugs)),
		zap.Bool("approved", decision.Approved()),
	)
	return decision, nil
}

func (c *Checker) checkTeam(ctx context.Context, sender, org, slug string) types.TeamResult {
	result := types.TeamResult{Slug: slug}

	members, err := c.teams.TeamMembers(ctx, org, slug)
	if err != nil {
		result.Err = err
		if errors.Is(err, github.ErrTeamNotFound) {
			result.Status = types.StatusTeamNotFound
			c.logger.Warn("team not found",
				zap.String("team", slug),
				zap.String("organization", org),
			)
		} else {
			result.Status = types.StatusTransportError
			c.logger.Warn("failed to list team members",
				zap.String("team", slug),
				zap.Error(err),
			)
		}
		return result
	}

	for _, m := range members {
		// logins are case-insensitive on GitHub
		if strings.EqualFold(m.Login, sender) {
			result.Status = types.StatusMember
			return result
		}
	}
	result.Status = types.StatusNotAMember
	return result
}
