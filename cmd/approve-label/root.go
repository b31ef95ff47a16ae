package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sunrun/approve-label/internal/action"
	"github.com/sunrun/approve-label/internal/approval"
	"github.com/sunrun/approve-label/internal/config"
	"github.com/sunrun/approve-label/internal/github"
	"github.com/sunrun/approve-label/internal/labels"
	"github.com/sunrun/approve-label/pkg/logger"
	"github.com/sunrun/approve-label/pkg/types"
)

const version = "1.0.0"

type options struct {
	showVersion bool
	eventPath   string
	eventName   string
}

// env is everything a command needs, built once per invocation
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	runner *action.Runner
	client *github.Client
	event  types.TriggerEvent
	org    string
}

// run executes the command line and returns the process exit code. Errors
// are reported once, here, as a workflow error annotation.
func run(ctx context.Context, args []string, stdout io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stdout)

	if err := cmd.ExecuteContext(ctx); err != nil {
		action.NewRunner(stdout, "", zap.NewNop()).Fail(err.Error())
		return 1
	}
	return 0
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "approve-label",
		Short:         "approve-label gates a pull request label on organization team membership",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			}
			return withEnv(cmd, stdout, opts, checkApproval)
		},
	}

	rootCmd.Flags().BoolVarP(&opts.showVersion, "version", "v", false, "version of approve-label")
	rootCmd.PersistentFlags().StringVar(&opts.eventPath, "event-path", "", "event payload file (defaults to GITHUB_EVENT_PATH)")
	rootCmd.PersistentFlags().StringVar(&opts.eventName, "event-name", "", "event name (defaults to GITHUB_EVENT_NAME)")

	rootCmd.AddCommand(
		newApproveCmd(stdout, opts),
		newLabelsCmd(stdout, opts),
	)
	return rootCmd
}

// newApproveCmd runs the same check as the root command. It lets the
// action metadata select the mode with a single argument.
func newApproveCmd(stdout io.Writer, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "approve",
		Short: "Check that the sender may apply the expected label",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, stdout, opts, checkApproval)
		},
	}
}

func newLabelsCmd(stdout io.Writer, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "Apply the label command found in a pull request comment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, stdout, opts, dispatchLabels)
		},
	}
}

func withEnv(cmd *cobra.Command, stdout io.Writer, opts *options, fn func(context.Context, *env) error) error {
	e, err := setup(stdout, opts)
	if err != nil {
		return err
	}
	defer e.logger.Sync() //nolint:errcheck

	return fn(cmd.Context(), e)
}

func setup(stdout io.Writer, opts *options) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	eventName := cfg.EventName
	if opts.eventName != "" {
		eventName = opts.eventName
	}
	eventPath := cfg.EventPath
	if opts.eventPath != "" {
		eventPath = opts.eventPath
	}

	ev, err := action.ReadEvent(eventName, eventPath)
	if err != nil {
		return nil, err
	}

	client, err := github.NewClient(cfg.Token, log, github.WithGraphQLURL(cfg.GraphQLURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create github client: %w", err)
	}

	org := cfg.Organization
	if org == "" {
		org = ev.Organization
	}
	if org == "" {
		org = ev.Owner
	}
	log.Info("using org", zap.String("org", org))

	return &env{
		cfg:    cfg,
		logger: log,
		runner: action.NewRunner(stdout, cfg.OutputPath, log),
		client: client,
		event:  ev,
		org:    org,
	}, nil
}

func decide(ctx context.Context, e *env) (types.Decision, error) {
	checker := approval.NewChecker(e.client, e.logger)
	return checker.IsApprover(ctx, e.event.Sender, e.org, approval.ParseTeamSlugs(e.cfg.ApprovalTeams))
}

func checkApproval(ctx context.Context, e *env) error {
	decision, err := decide(ctx, e)
	if err != nil {
		return err
	}

	gateErr := approval.Gate(decision, e.event.LabelName, e.cfg.ExpectedLabel)
	if err := e.runner.SetOutput("approved", strconv.FormatBool(gateErr == nil)); err != nil {
		return err
	}
	if gateErr != nil {
		return gateErr
	}

	e.logger.Info("sender approved",
		zap.String("sender", decision.Sender),
		zap.String("label", e.event.LabelName),
	)
	return nil
}

func dispatchLabels(ctx context.Context, e *env) error {
	decision, err := decide(ctx, e)
	if err != nil {
		return err
	}
	// comment events carry no label, so only membership is gated here
	if err := approval.Gate(decision, e.cfg.ExpectedLabel, e.cfg.ExpectedLabel); err != nil {
		return err
	}

	dispatcher := labels.NewDispatcher(
		labels.NewManager(e.client, e.logger),
		labels.Triggers{
			Add:       e.cfg.TriggerAdd,
			Remove:    e.cfg.TriggerRemove,
			RemoveAll: e.cfg.TriggerRemoveAll,
		},
		e.cfg.Label(),
		e.logger,
	)

	handled, err := dispatcher.Dispatch(ctx, e.event)
	if err != nil {
		return err
	}
	if !handled {
		e.runner.Notice("no label command found in comment")
	}
	return nil
}
