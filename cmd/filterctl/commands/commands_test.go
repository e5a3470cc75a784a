package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONTENT_FILTER_PATH", "")
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckClean(t *testing.T) {
	out, err := run(t, "check", "what", "a", "nice", "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "clean")
}

func TestCheckBlocked(t *testing.T) {
	out, err := run(t, "check", "please", "BUY", "FOLLOWERS")
	assert.ErrorIs(t, err, errBlocked)
	assert.Contains(t, out, "blocked")
	assert.Contains(t, out, "reason=blocked_word")
	assert.Contains(t, out, "category=spam")
	assert.Contains(t, out, "word=buy followers")
}

func TestCheckRequiresText(t *testing.T) {
	_, err := run(t, "check")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errBlocked)
}

func TestWords(t *testing.T) {
	out, err := run(t, "words")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines, "buy followers")
	assert.Equal(t, "fuck", lines[0])
}

func TestInfoWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.json")
	cfg := `{
  "version": "2.1.0",
  "categories": {"custom": ["Frobnicate"]},
  "patterns": [],
  "settings": {"maxCapsRatio": 0.5, "minLengthForCapsCheck": 4, "maxRepeatedChars": 3, "autoHideReportThreshold": 7}
}`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	out, err := run(t, "--config", path, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "2.1.0")
	assert.Contains(t, out, "custom")
	assert.Contains(t, out, "7")

	out, err = run(t, "--config", path, "check", "frobnicate it")
	assert.ErrorIs(t, err, errBlocked)
	assert.Contains(t, out, "word=frobnicate")
}

func TestMissingConfigFile(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.json"), "words")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load filter")
}
