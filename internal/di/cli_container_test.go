package di

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/phish-detector/internal/adapters/frontend"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
)

func TestParseFlagsDefaults(t *testing.T) {
	flags, err := ParseFlags(nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "analyze", flags.Command)
	assert.Empty(t, flags.Args)
	assert.Equal(t, 5, flags.Limit)
	assert.False(t, flags.IsSet("store"))
}

func TestParseFlagsCommands(t *testing.T) {
	tests := []struct {
		args    []string
		command string
		rest    []string
	}{
		{[]string{"-file", "mail.eml"}, "analyze", []string{}},
		{[]string{"history"}, "history", []string{}},
		{[]string{"urls"}, "urls", []string{"list"}},
		{[]string{"-store", "sqlite", "urls", "add", "evil.example", "High"}, "urls", []string{"add", "evil.example", "High"}},
	}

	for _, tt := range tests {
		flags, err := ParseFlags(tt.args, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, tt.command, flags.Command)
		assert.ElementsMatch(t, tt.rest, flags.Args)
	}

	_, err := ParseFlags([]string{"frobnicate"}, io.Discard)
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	flags, err := ParseFlags([]string{"-model", "/tmp/model.yaml", "-store", "json", "-format", "yaml"}, io.Discard)
	require.NoError(t, err)

	cfg := config.NewFromViper(config.NewEmptyViper())
	cfg.Set("classifier.watch", true)
	applyFlags(cfg, flags)

	classifier, err := cfg.GetClassifier()
	require.NoError(t, err)
	assert.Equal(t, "file", classifier.Kind)
	assert.Equal(t, "/tmp/model.yaml", classifier.ModelPath)
	assert.False(t, classifier.Watch)
	assert.Equal(t, "json", cfg.GetString("store.type"))
	assert.Equal(t, "yaml", cfg.GetString("report.format"))
}

func TestBuildCLIContainer(t *testing.T) {
	flags, err := ParseFlags([]string{"-store", "memory"}, io.Discard)
	require.NoError(t, err)

	container, err := BuildCLIContainer(flags)
	require.NoError(t, err)

	err = container.Invoke(func(cli *frontend.CLIFrontend, registry *core.Registry, res Resources) {
		assert.NotNil(t, cli)
		assert.NotNil(t, registry)
		assert.Nil(t, res.Watcher)
		assert.Nil(t, res.Publisher)
		res.Close(time.Second)
	})
	assert.NoError(t, err)
}
