package labels

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sunrun/approve-label/pkg/types"
)

const (
	DefaultTriggerAdd       = "add labels"
	DefaultTriggerRemove    = "remove labels"
	DefaultTriggerRemoveAll = "remove all labels"
)

// ActionCreated is the only comment action the dispatcher reacts to
const ActionCreated = "created"

var ErrNoPullRequest = errors.New("event has no pull request number")

// CommandKind is the operation requested by a comment
type CommandKind int

const (
	CommandAdd CommandKind = iota
	CommandRemove
	CommandRemoveAll
)

func (k CommandKind) String() string {
	switch k {
	case CommandAdd:
		return "add"
	case CommandRemove:
		return "remove"
	case CommandRemoveAll:
		return "remove-all"
	default:
		return "unknown"
	}
}

// Triggers are the comment phrases that start a label command
type Triggers struct {
	Add       string
	Remove    string
	RemoveAll string
}

// Complete fills empty phrases with their defaults.
func (t *Triggers) Complete() {
	if strings.TrimSpace(t.Add) == "" {
		t.Add = DefaultTriggerAdd
	}
	if strings.TrimSpace(t.Remove) == "" {
		t.Remove = DefaultTriggerRemove
	}
	if strings.TrimSpace(t.RemoveAll) == "" {
		t.RemoveAll = DefaultTriggerRemoveAll
	}
}

// Command is a parsed comment command
type Command struct {
	Kind   CommandKind
	Labels []string
}

// ParseCommand matches body against the trigger phrases, case-insensitively.
// The text after the phrase is a single label name or a comma separated list.
func ParseCommand(body string, triggers Triggers) (Command, bool) {
	triggers.Complete()
	text := strings.TrimSpace(body)

	// the longest phrase wins so "remove all labels" is not read as "remove labels"
	candidates := []struct {
		phrase string
		kind   CommandKind
	}{
		{triggers.RemoveAll, CommandRemoveAll},
		{triggers.Remove, CommandRemove},
		{triggers.Add, CommandAdd},
	}
	var (
		best     = -1
		bestLen  int
		bestRest string
	)
	for i, c := range candidates {
		phrase := strings.TrimSpace(c.phrase)
		rest, ok := cutPhrase(text, phrase)
		if !ok {
			continue
		}
		if best == -1 || len(phrase) > bestLen {
			best, bestLen, bestRest = i, len(phrase), rest
		}
	}
	if best == -1 {
		return Command{}, false
	}

	return Command{
		Kind:   candidates[best].kind,
		Labels: splitLabels(bestRest),
	}, true
}

// cutPhrase strips phrase from the start of text, comparing rune by rune
// with case folding. The phrase must end at a word boundary.
func cutPhrase(text, phrase string) (string, bool) {
	if phrase == "" {
		return "", false
	}

	n := 0
	for _, want := range phrase {
		got, size := utf8.DecodeRuneInString(text[n:])
		if size == 0 || !strings.EqualFold(string(got), string(want)) {
			return "", false
		}
		n += size
	}

	rest := text[n:]
	if next, _ := utf8.DecodeRuneInString(rest); rest != "" && !unicode.IsSpace(next) && next != ':' {
		return "", false
	}
	return rest, true
}

func splitLabels(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), ":"))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Dispatcher turns comment commands into label operations
type Dispatcher struct {
	manager  *Manager
	triggers Triggers
	label    types.Label
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher. label supplies the color and
// description of created labels and the name used when a command lists none.
func NewDispatcher(manager *Manager, triggers Triggers, label types.Label, logger *zap.Logger) *Dispatcher {
	triggers.Complete()
	return &Dispatcher{
		manager:  manager,
		triggers: triggers,
		label:    label,
		logger:   logger,
	}
}

// Dispatch runs the command found in the event comment, if any, and posts a
// summary comment on the pull request. handled is false when the comment
// carries no command.
func (d *Dispatcher) Dispatch(ctx context.Context, ev types.TriggerEvent) (handled bool, err error) {
	if ev.Action != "" && ev.Action != ActionCreated {
		d.logger.Debug("ignoring comment action", zap.String("action", ev.Action))
		return false, nil
	}

	cmd, ok := ParseCommand(ev.CommentBody, d.triggers)
	if !ok {
		return false, nil
	}
	if !ev.HasPullRequest() {
		return true, ErrNoPullRequest
	}
	if len(cmd.Labels) == 0 && cmd.Kind != CommandRemoveAll && d.label.Name != "" {
		cmd.Labels = []string{d.label.Name}
	}

	d.logger.Info("dispatching label command",
		zap.String("command", cmd.Kind.String()),
		zap.Strings("labels", cmd.Labels),
		zap.Int("number", ev.Number),
	)

	var summary string
	switch cmd.Kind {
	case CommandAdd:
		summary, err = d.add(ctx, ev, cmd.Labels)
	case CommandRemove:
		summary, err = d.remove(ctx, ev, cmd.Labels)
	case CommandRemoveAll:
		err = d.manager.ClearPRLabels(ctx, ev.Owner, ev.Repo, ev.Number)
		summary = "Removed all labels."
	}
	if err != nil {
		return true, err
	}
	if summary == "" {
		return true, nil
	}

	if _, err := d.manager.CreatePRComment(ctx, ev.Owner, ev.Repo, ev.Number, summary); err != nil {
		return true, err
	}
	return true, nil
}

func (d *Dispatcher) add(ctx context.Context, ev types.TriggerEvent, names []string) (string, error) {
	for _, name := range names {
		label := d.label
		label.Name = name
		if err := d.manager.CreatePRLabel(ctx, ev.Owner, ev.Repo, ev.Number, label); err != nil {
			return "", err
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	return fmt.Sprintf("Added labels: %s", strings.Join(names, ", ")), nil
}

func (d *Dispatcher) remove(ctx context.Context, ev types.TriggerEvent, names []string) (string, error) {
	if len(names) == 0 {
		return "", nil
	}
	result, err := d.manager.RemovePRLabels(ctx, ev.Owner, ev.Repo, ev.Number, names)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if len(result.Removed) > 0 {
		sb.WriteString("Removed labels: " + strings.Join(result.Removed, ", "))
	}
	if len(result.Skipped) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Labels not found: " + strings.Join(result.Skipped, ", "))
	}
	return sb.String(), nil
}
