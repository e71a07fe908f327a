package config_test

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grahms/bbweaver"
	"github.com/grahms/bbweaver/internal/config"
)

var bbweaverVars = []string{
	"BBWEAVER_ADDR",
	"BBWEAVER_BARE_TAGS",
	"BBWEAVER_URL_SCHEMES",
	"BBWEAVER_LOG_FORMAT",
	"BBWEAVER_LOG_LEVEL",
	"BBWEAVER_TAGS_FILE",
	"BBWEAVER_CACHE_SIZE",
	"BBWEAVER_ESCAPE_MARKER",
	"BBWEAVER_ESCAPE_ATTRS",
	"BBWEAVER_SHUTDOWN_TIMEOUT",
	"BBWEAVER_MAX_BODY_BYTES",
}

// clearEnv unsets the variables for the test and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range bbweaverVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, `\`, cfg.EscapeMarker)
	assert.False(t, cfg.BareTags)
	assert.Equal(t, 1024, cfg.CacheSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.URLSchemes)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("testdata/.env.test")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.True(t, cfg.BareTags)
	assert.Equal(t, []string{"https", "mailto"}, cfg.URLSchemes)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_ProcessEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("BBWEAVER_ADDR", ":7000")

	cfg, err := config.Load("testdata/.env.test")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("testdata/missing.env")
	require.Error(t, err)
	assert.Panics(t, func() { config.MustLoad("testdata/missing.env") })
}

func TestLoad_InvalidValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("BBWEAVER_CACHE_SIZE", "lots")

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrParsingConfig))
}

func TestLoad_OutOfRange(t *testing.T) {
	cases := map[string]string{
		"BBWEAVER_CACHE_SIZE":       "0",
		"BBWEAVER_MAX_BODY_BYTES":   "-1",
		"BBWEAVER_SHUTDOWN_TIMEOUT": "0s",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := config.Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := config.Config{LogLevel: "debug", LogFormat: "json"}.Logger(&buf)
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	_, err = config.Config{LogLevel: "loud"}.Logger(&buf)
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func TestConfig_TagSet(t *testing.T) {
	tags, err := config.Config{}.TagSet()
	require.NoError(t, err)
	assert.Len(t, tags, len(bbweaver.DefaultTagSet()))

	tags, err = config.Config{TagsFile: "testdata/tags.yaml"}.TagSet()
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "a", tags[1].Name())
}

func TestConfig_EngineOptions(t *testing.T) {
	cfg := config.Config{
		EscapeMarker: "!",
		BareTags:     true,
		EscapeAttrs:  true,
		URLSchemes:   []string{"https"},
	}
	tags, err := config.Config{TagsFile: "testdata/tags.yaml"}.TagSet()
	require.NoError(t, err)

	logger, err := config.Config{LogLevel: "error"}.Logger(&bytes.Buffer{})
	require.NoError(t, err)

	engine := bbweaver.NewEngine(tags, cfg.EngineOptions(logger)...)
	out := engine.Render(`[b]x[/b] ![b]y[/b] [a href="http://e.com"]z[/a] [a href="https://e.com/?a&b"]w[/a]`)
	assert.Equal(t, `<b >x</b> ![b]y[/b] <a >z</a> <a href="https://e.com/?a&amp;b">w</a>`, out)
}
