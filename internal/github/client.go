package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultGraphQLURL is the public GitHub GraphQL endpoint
const DefaultGraphQLURL = "https://api.github.com/graphql"

// Client wraps the GitHub GraphQL API
type Client struct {
	api      *githubv4.Client
	labels   *githubv4.Client // sends the label preview media type
	logger   *zap.Logger
	endpoint string
}

// Option configures a Client
type Option func(*Client) error

// WithGraphQLURL points the client at a different GraphQL endpoint,
// e.g. a GitHub Enterprise Server instance.
func WithGraphQLURL(endpoint string) Option {
	return func(c *Client) error {
		u, err := url.Parse(endpoint)
		if err != nil {
			return fmt.Errorf("invalid graphql url %q: %w", endpoint, err)
		}
		if !u.IsAbs() {
			return fmt.Errorf("graphql url %q must be absolute", endpoint)
		}
		c.endpoint = u.String()
		return nil
	}
}

// NewClient creates a new GitHub client authenticated with accessToken
func NewClient(accessToken string, logger *zap.Logger, opts ...Option) (*Client, error) {
	c := &Client{
		logger:   logger,
		endpoint: DefaultGraphQLURL,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: accessToken},
	)
	tc := oauth2.NewClient(ctx, ts)
	preview := &http.Client{Transport: WithPreview(LabelPreview, tc.Transport)}

	c.api = githubv4.NewEnterpriseClient(c.endpoint, tc)
	c.labels = githubv4.NewEnterpriseClient(c.endpoint, preview)
	return c, nil
}
