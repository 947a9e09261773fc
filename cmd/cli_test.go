package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suggestbox/internal/config"
	"suggestbox/internal/domain"
	"suggestbox/internal/logger"
	"suggestbox/internal/source"
)

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[autocomplete]\nmin_length = 4\ndebounce_wait_ms = 10\n"), 0644))

	root := NewCLI()
	require.NoError(t, root.ParseFlags([]string{"--config", path, "--min-length", "3", "--copy"}))

	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Autocomplete.MinLength)
	assert.Equal(t, 10, cfg.Autocomplete.DebounceWaitMs)
	assert.True(t, cfg.UI.CopyOnSelect)
}

func TestUnknownSourceIsRejected(t *testing.T) {
	root := NewCLI()
	require.NoError(t, root.ParseFlags([]string{
		"--config", filepath.Join(t.TempDir(), "none.toml"),
		"--source", "telepathy",
	}))

	_, err := loadConfig(root)
	assert.ErrorIs(t, err, config.ErrUnknownSource)
}

func TestConfigCommandPrintsAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suggestbox", "config.toml")

	root := NewCLI()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"config", "--config", path, "--dictionary", "/tmp/words.tsv", "--save"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "# "+path)
	assert.Contains(t, out.String(), "[autocomplete]")
	assert.Contains(t, errOut.String(), "Config saved")

	saved, err := config.NewConfigServiceAt(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/words.tsv", saved.Source.Dictionary)
}

func TestBuildWordsLayersSources(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source.LatencyMs = 1
	cfg.Source.JitterMs = 0
	cfg.Source.CacheSize = 8

	fetcher, closeFn, err := buildWords(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	defer closeFn()

	cached, ok := fetcher.(*source.Cached)
	require.True(t, ok, "cache sits in front")

	fetch := func() []*domain.Candidate {
		got := make(chan []*domain.Candidate, 1)
		cached.Fetch("ap", func(c []*domain.Candidate) { got <- c })
		select {
		case items := <-got:
			return items
		case <-time.After(time.Second):
			t.Fatal("no delivery")
			return nil
		}
	}

	first := fetch()
	require.NotEmpty(t, first)
	assert.LessOrEqual(t, len(first), cfg.Autocomplete.Limit)
	assert.Same(t, first[0], fetch()[0], "second answer comes from the cache")
}

func TestBuildWordsFromDictionaryDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tools.tsv"), []byte("hammer\t5\ttool\nhacksaw\t3\ttool\n"), 0644))

	cfg := config.DefaultConfig()
	cfg.Source.Dictionary = dir
	cfg.Source.LatencyMs = 0
	cfg.Source.JitterMs = 0
	cfg.Source.CacheSize = 0

	fetcher, closeFn, err := buildWords(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	defer closeFn()

	var labels []string
	fetcher.Fetch("ha", func(c []*domain.Candidate) {
		for _, x := range c {
			labels = append(labels, x.Label)
		}
	})
	assert.Equal(t, []string{"hammer", "hacksaw"}, labels)
}
