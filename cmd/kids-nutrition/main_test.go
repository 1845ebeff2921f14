package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-kids-nutrition/internal/config"
	"mcp-kids-nutrition/internal/models"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "kids-nutrition version "+version+"\n", out)
}

func TestExplain_JSON(t *testing.T) {
	out, err := execute(t, "", "explain",
		"--question", "What should a 2 year old eat?",
		"--response", "Offer eggs.",
		"--json")
	require.NoError(t, err)

	var e models.Explanation
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, models.QuestionMealRecommendation, e.Reasoning.QuestionType)
	assert.Equal(t, models.AgeToddler, e.AgeAppropriateness.AgeGroup)
	assert.Contains(t, e.KeyFactors, "year")
}

func TestExplain_ReportFromStdin(t *testing.T) {
	out, err := execute(t, strings.Repeat("Yogurt with berries. ", 10), "explain",
		"-q", "Snack ideas?",
		"--response-file", "-",
		"--preview", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "## Question: Snack ideas?")
	assert.Contains(t, out, "## Recommendation: Yogurt wit...")
}

func TestExplain_ResponseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.txt")
	require.NoError(t, os.WriteFile(path, []byte("Broccoli has vitamin C."), 0o644))

	out, err := execute(t, "", "explain", "-q", "Is broccoli healthy?", "--response-file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Broccoli has vitamin C.")
}

func TestExplain_RequiresResponse(t *testing.T) {
	_, err := execute(t, "", "explain", "-q", "Snack ideas?")
	assert.Error(t, err)

	_, err = execute(t, "", "explain", "-q", "q", "-r", "a", "--response-file", "x")
	assert.Error(t, err)
}

func TestApplyServeFlags(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	cmd := newServeCommand(&app{cfg: cfg})
	require.NoError(t, cmd.ParseFlags([]string{"--port", "9001", "--address", "127.0.0.1", "--db-path", "/tmp/n.db"}))
	applyServeFlags(cmd, cfg)

	assert.Equal(t, 9001, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "/tmp/n.db", cfg.Storage.DBPath)
	assert.Equal(t, "http", cfg.Server.Transport)
}

func TestApplyServeFlags_KeepsConfigWhenUnset(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.Port = 7777

	cmd := newServeCommand(&app{cfg: cfg})
	require.NoError(t, cmd.ParseFlags(nil))
	applyServeFlags(cmd, cfg)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}
