package action

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunner_Fail(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner(&out, "", zap.NewNop())

	r.Fail("bob is not a valid approver for label Label Action")
	assert.Equal(t, "::error::bob is not a valid approver for label Label Action\n", out.String())
}

func TestRunner_EscapesMessage(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner(&out, "", zap.NewNop())

	r.Notice("100% done\nnext")
	assert.Equal(t, "::notice::100%25 done%0Anext\n", out.String())
}

func TestRunner_SetOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	r := NewRunner(&bytes.Buffer{}, path, zap.NewNop())

	require.NoError(t, r.SetOutput("approved", "true"))
	require.NoError(t, r.SetOutput("summary", "a\nb"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"approved=true\nsummary<<ghadelimiter_summary\na\nb\nghadelimiter_summary\n",
		string(content))
}

func TestRunner_SetOutputWithoutFile(t *testing.T) {
	r := NewRunner(&bytes.Buffer{}, "", zap.NewNop())
	assert.NoError(t, r.SetOutput("approved", "false"))
}
