// Package config loads the action inputs.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sunrun/approve-label/pkg/types"
)

const envFile = ".env"

var (
	ErrMissingToken      = errors.New("github-token input is required")
	ErrInvalidLabelColor = errors.New("label-color must be six hex digits")
)

// Config holds the action inputs and the runner environment
type Config struct {
	Token            string
	Organization     string
	ApprovalTeams    string
	ExpectedLabel    string
	LabelName        string
	LabelColor       string
	LabelDescription string
	TriggerAdd       string
	TriggerRemove    string
	TriggerRemoveAll string
	LogLevel         string
	GraphQLURL       string
	EventName        string
	EventPath        string
	OutputPath       string
}

// Label returns the label described by the label-* inputs.
func (c *Config) Label() types.Label {
	return types.Label{
		Name:        c.LabelName,
		Color:       c.LabelColor,
		Description: c.LabelDescription,
	}
}

// Validate checks the inputs that have no usable default.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.LabelColor != "" && !types.ValidColor(c.LabelColor) {
		return fmt.Errorf("%w: %q", ErrInvalidLabelColor, c.LabelColor)
	}
	return nil
}

// Load reads the inputs the runner exposes as INPUT_<NAME> environment
// variables. GH_TOKEN takes precedence over the github-token input. A .env
// file in the working directory is read first for local runs and never
// overrides variables that are already set.
func Load() (*Config, error) {
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, val := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, val)
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix("INPUT")
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnvs(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	cfg := &Config{
		Token:            strings.TrimSpace(v.GetString("github-token")),
		Organization:     strings.TrimSpace(v.GetString("organization")),
		ApprovalTeams:    v.GetString("valid-approval-teams"),
		ExpectedLabel:    v.GetString("expected-label-name"),
		LabelName:        strings.TrimSpace(v.GetString("label-name")),
		LabelColor:       strings.TrimPrefix(strings.TrimSpace(v.GetString("label-color")), "#"),
		LabelDescription: v.GetString("label-description"),
		TriggerAdd:       v.GetString("comment-trigger-add"),
		TriggerRemove:    v.GetString("comment-trigger-remove"),
		TriggerRemoveAll: v.GetString("comment-trigger-remove-all"),
		LogLevel:         v.GetString("log-level"),
		GraphQLURL:       v.GetString("graphql-url"),
		EventName:        v.GetString("event-name"),
		EventPath:        v.GetString("event-path"),
		OutputPath:       v.GetString("output-path"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("expected-label-name", "Label Action")
	v.SetDefault("label-color", types.DefaultLabelColor)
	v.SetDefault("comment-trigger-add", "add labels")
	v.SetDefault("comment-trigger-remove", "remove labels")
	v.SetDefault("comment-trigger-remove-all", "remove all labels")
	v.SetDefault("log-level", "prod")
	v.SetDefault("graphql-url", "https://api.github.com/graphql")
}

func bindEnvs(v *viper.Viper) error {
	bindings := map[string][]string{
		"github-token": {"GH_TOKEN", "INPUT_GITHUB-TOKEN"},
		"graphql-url":  {"INPUT_GRAPHQL-URL", "GITHUB_GRAPHQL_URL"},
		"event-name":   {"GITHUB_EVENT_NAME"},
		"event-path":   {"GITHUB_EVENT_PATH"},
		"output-path":  {"GITHUB_OUTPUT"},
	}

	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}
