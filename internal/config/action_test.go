package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// inputs read by Load through INPUT_<NAME>
var actionInputs = []string{
	"github-token",
	"organization",
	"valid-approval-teams",
	"expected-label-name",
	"label-name",
	"label-color",
	"label-description",
	"comment-trigger-add",
	"comment-trigger-remove",
	"comment-trigger-remove-all",
	"log-level",
	"graphql-url",
}

type actionMetadata struct {
	Inputs map[string]struct {
		Required bool    `yaml:"required"`
		Default  *string `yaml:"default"`
	} `yaml:"inputs"`
	Outputs map[string]struct{} `yaml:"outputs"`
	Runs    struct {
		Using string   `yaml:"using"`
		Image string   `yaml:"image"`
		Args  []string `yaml:"args"`
	} `yaml:"runs"`
}

func readActionMetadata(t *testing.T) actionMetadata {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("..", "..", "action.yml"))
	require.NoError(t, err)

	var meta actionMetadata
	require.NoError(t, yaml.Unmarshal(content, &meta))
	return meta
}

func TestActionMetadata_DeclaresEveryInput(t *testing.T) {
	meta := readActionMetadata(t)

	for _, name := range actionInputs {
		_, ok := meta.Inputs[name]
		assert.True(t, ok, "action.yml is missing input %q", name)
	}
	assert.Contains(t, meta.Outputs, "approved")
}

func TestActionMetadata_DefaultsMatchLoad(t *testing.T) {
	meta := readActionMetadata(t)
	v := viper.New()
	setDefaults(v)

	for _, name := range actionInputs {
		input, ok := meta.Inputs[name]
		if !ok || input.Default == nil || *input.Default == "" {
			continue
		}
		if name == "github-token" {
			continue
		}
		assert.Equal(t, v.GetString(name), *input.Default, "default of %q", name)
	}
	assert.True(t, meta.Inputs["valid-approval-teams"].Required)
}

func TestActionMetadata_RunsBinary(t *testing.T) {
	meta := readActionMetadata(t)

	assert.Equal(t, "docker", meta.Runs.Using)
	assert.Equal(t, "Dockerfile", meta.Runs.Image)
	assert.Equal(t, []string{"${{ inputs.command }}"}, meta.Runs.Args)
	_, err := os.Stat(filepath.Join("..", "..", meta.Runs.Image))
	assert.NoError(t, err)
	assert.Equal(t, "approve", *meta.Inputs["command"].Default)
}
