package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ValentinaAkpan/Datacleaner/internal/cleaning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolateHome(t)

	c, err := Load("")
	require.NoError(t, err)
	assert.False(t, c.RemoveDuplicates)
	assert.Equal(t, "none", c.MissingStrategy)
	assert.Equal(t, "cleaned_data.csv", c.ExportName)
	assert.Empty(t, c.Delimiter)
	assert.Equal(t, 4, c.BatchWorkers)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, filepath.Join(home, ".datacleaner", "sessions"), c.SessionsDir)

	cc, err := c.CleaningConfig()
	require.NoError(t, err)
	assert.Equal(t, cleaning.Config{}, cc)
}

func TestEnvOverridesFile(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("missing_strategy: mean\nbatch_workers: 2\nremove_duplicates: true\n"), 0o644))

	t.Setenv("DATACLEANER_MISSING_STRATEGY", "median")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "median", c.MissingStrategy)
	assert.Equal(t, 2, c.BatchWorkers)
	assert.True(t, c.RemoveDuplicates)

	cc, err := c.CleaningConfig()
	require.NoError(t, err)
	assert.Equal(t, cleaning.StrategyFillMedian, cc.MissingStrategy)
	assert.True(t, cc.RemoveDuplicates)
}

func TestSaveRoundTrip(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.SetValue("missing_strategy", "drop"))
	require.NoError(t, c.SetValue("allow_empty_result", "true"))
	require.NoError(t, c.SetValue("batch_workers", "8"))
	require.NoError(t, c.SetValue("delimiter", "tab"))
	require.NoError(t, Save(c, path))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "drop-rows", again.MissingStrategy)
	assert.True(t, again.AllowEmptyResult)
	assert.Equal(t, 8, again.BatchWorkers)
	comma, err := again.Comma()
	require.NoError(t, err)
	assert.Equal(t, '\t', comma)
}

func TestSaveDefaultLocation(t *testing.T) {
	home := isolateHome(t)
	c, err := Load("")
	require.NoError(t, err)
	require.NoError(t, Save(c, ""))
	assert.FileExists(t, filepath.Join(home, ".datacleaner", "config.yaml"))
}

func TestSetValueRejectsInvalid(t *testing.T) {
	c := &Global{Delimiter: ","}
	assert.ErrorIs(t, c.SetValue("nope", "1"), ErrUnknownKey)
	assert.ErrorIs(t, c.SetValue("missing_strategy", "interpolate"), cleaning.ErrUnknownStrategy)
	assert.Error(t, c.SetValue("remove_duplicates", "maybe"))
	assert.Error(t, c.SetValue("batch_workers", "0"))
	assert.Error(t, c.SetValue("log_format", "xml"))
	assert.Error(t, c.SetValue("delimiter", ";;"))
	assert.Equal(t, ",", c.Delimiter)
}

func TestGet(t *testing.T) {
	c := &Global{RemoveDuplicates: true, BatchWorkers: 3, MissingStrategy: "fill-mean"}
	for key, want := range map[string]string{
		"remove_duplicates": "true",
		"batch_workers":     "3",
		"missing_strategy":  "fill-mean",
	} {
		got, err := c.Get(key)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}
	_, err := c.Get("api_key")
	assert.ErrorIs(t, err, ErrUnknownKey)
	for _, k := range Keys {
		_, err := c.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestCommaForms(t *testing.T) {
	cases := map[string]rune{"": ',', ",": ',', ";": ';', `\t`: '\t', "TAB": '\t', "|": '|'}
	for in, want := range cases {
		got, err := (&Global{Delimiter: in}).Comma()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := (&Global{Delimiter: `"`}).Comma()
	assert.Error(t, err)
}

func TestInvalidStrategyInConfig(t *testing.T) {
	c := &Global{MissingStrategy: "bogus"}
	_, err := c.CleaningConfig()
	assert.ErrorIs(t, err, cleaning.ErrUnknownStrategy)
}
