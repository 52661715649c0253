package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thep200/github-trending/cfg"
	"github.com/thep200/github-trending/internal/cleaner"
)

const rawDump = `[
  {
    "name": "hello",
    "full_name": "octo/hello",
    "description": "<p>Say <a href=\"https://example.com\">hi</a></p>",
    "stargazers_count": "1,204",
    "topics": ["go", null, 3],
    "owner": {"login": "octo"}
  },
  {"full_name": "acme/empty"}
]`

func TestCleanRecords_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cleanRecords(strings.NewReader(rawDump), &out, formatJSON, true))

	var recs []cleaner.CanonicalRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &recs))
	require.Len(t, recs, 2)

	assert.Equal(t, "Say hi", recs[0].Description)
	assert.Equal(t, 1204, recs[0].Stars)
	assert.Equal(t, []string{"go"}, recs[0].Topics)
	assert.Equal(t, "octo", recs[0].Owner)
	assert.Equal(t, []string{"https://example.com"}, recs[0].Links)

	assert.Equal(t, "acme/empty", recs[1].FullName)
	assert.Equal(t, "main", recs[1].Metadata.DefaultBranch)
	assert.Equal(t, []string{}, recs[1].Topics)
}

func TestCleanRecords_CSV(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cleanRecords(strings.NewReader(rawDump), &out, formatCSV, false))

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "name", rows[0][0])
	assert.Equal(t, "octo/hello", rows[1][1])
}

func TestCleanRecords_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.ErrorContains(t, cleanRecords(strings.NewReader(rawDump), &out, "xml", false), "unsupported format")
	assert.Error(t, cleanRecords(strings.NewReader("not json"), &out, formatJSON, false))
}

func TestCleanCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "raw.json")
	outPath := filepath.Join(dir, "clean.csv")
	require.NoError(t, os.WriteFile(in, []byte(rawDump), 0o600))

	rootCmd.SetArgs([]string{"clean", "--in", in, "--out", outPath, "--format", "csv"})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "octo/hello")
}

func TestApplyRunFlags(t *testing.T) {
	newConfig := func() *cfg.Config {
		loader, err := cfg.NewMockLoader()
		require.NoError(t, err)
		config, err := loader.Load()
		require.NoError(t, err)
		return config
	}

	c := &cobra.Command{}
	registerRunFlags(c)
	require.NoError(t, c.ParseFlags([]string{"--no-csv", "--no-upload", "--kafka", "--every", "90m"}))

	config := newConfig()
	every, err := applyRunFlags(c, config)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, every)
	assert.False(t, config.Export.Enabled)
	assert.False(t, config.Upload.Enabled)
	assert.True(t, config.Kafka.Enabled)

	c = &cobra.Command{}
	registerRunFlags(c)
	require.NoError(t, c.ParseFlags(nil))

	config = newConfig()
	config.Schedule.Interval = "6h"
	every, err = applyRunFlags(c, config)
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, every)
	assert.True(t, config.Export.Enabled)

	config.Schedule.Interval = "soon"
	_, err = applyRunFlags(c, config)
	assert.Error(t, err)
}

type reloadingLoader struct {
	config    *cfg.Config
	callbacks []func(*cfg.Config)
}

func (l *reloadingLoader) Load() (*cfg.Config, error) {
	return l.config, nil
}

func (l *reloadingLoader) RegisterConfigChangeCallback(callback func(*cfg.Config)) {
	l.callbacks = append(l.callbacks, callback)
}

func newTestCommand(t *testing.T, args ...string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	c := &cobra.Command{}
	c.Flags().BoolP("verbose", "v", false, "")
	require.NoError(t, c.ParseFlags(args))

	var buf bytes.Buffer
	c.SetErr(&buf)
	return c, &buf
}

func TestConfigure_MockLoader(t *testing.T) {
	loader, err := cfg.NewMockLoader()
	require.NoError(t, err)

	c, buf := newTestCommand(t, "--verbose")
	config, logger, err := configure(c, loader)
	require.NoError(t, err)
	assert.Equal(t, "debug", config.Log.Level)

	logger.Debug(context.Background(), "visible")
	assert.Contains(t, buf.String(), "[DEBUG] visible")
}

func TestConfigure_ReloadAppliesLogLevel(t *testing.T) {
	mock, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := mock.Load()
	require.NoError(t, err)
	config.Log.Level = "error"

	loader := &reloadingLoader{config: config}
	c, buf := newTestCommand(t)
	_, logger, err := configure(c, loader)
	require.NoError(t, err)
	require.Len(t, loader.callbacks, 1)

	ctx := context.Background()
	logger.Info(ctx, "before reload")
	assert.NotContains(t, buf.String(), "before reload")

	next := *config
	next.Log.Level = "info"
	loader.callbacks[0](&next)

	logger.Info(ctx, "after reload")
	assert.Contains(t, buf.String(), "[INFO] after reload")
}

func TestConfigure_VerboseIgnoresReload(t *testing.T) {
	mock, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := mock.Load()
	require.NoError(t, err)

	loader := &reloadingLoader{config: config}
	c, _ := newTestCommand(t, "--verbose")
	_, _, err = configure(c, loader)
	require.NoError(t, err)
	assert.Empty(t, loader.callbacks)
}
