package action

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Runner talks to the workflow runner through workflow commands on stdout
// and the GITHUB_OUTPUT file.
type Runner struct {
	out        io.Writer
	outputPath string
	logger     *zap.Logger
	mu         sync.Mutex
}

// NewRunner creates a runner writing commands to out. outputPath may be empty
// outside of a runner, in which case outputs are only logged.
func NewRunner(out io.Writer, outputPath string, logger *zap.Logger) *Runner {
	return &Runner{
		out:        out,
		outputPath: outputPath,
		logger:     logger,
	}
}

// Fail reports msg as an error annotation. The caller sets the exit code.
func (r *Runner) Fail(msg string) {
	r.command("error", msg)
}

// Notice reports msg as a notice annotation.
func (r *Runner) Notice(msg string) {
	r.command("notice", msg)
}

// SetOutput records a step output.
func (r *Runner) SetOutput(name, value string) error {
	if r.outputPath == "" {
		r.logger.Debug("no output file, skipping output",
			zap.String("name", name),
			zap.String("value", value),
		)
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	defer f.Close()

	if strings.ContainsAny(value, "\r\n") {
		delimiter := "ghadelimiter_" + name
		_, err = fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	} else {
		_, err = fmt.Fprintf(f, "%s=%s\n", name, value)
	}
	if err != nil {
		return fmt.Errorf("failed to write output %s: %w", name, err)
	}
	return nil
}

func (r *Runner) command(name, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "::%s::%s\n", name, escapeData(msg))
}

func escapeData(s string) string {
	return strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(s)
}
