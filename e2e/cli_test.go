//go:build e2e && unix

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelpCommand(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)

	out, err := tf.Command("--help").CombinedOutput()
	require.NoError(t, err, "Help command should run without error")

	output := string(out)
	require.Contains(t, output, "Usage")
	require.Contains(t, output, "--dictionary")
	require.Contains(t, output, "serve")
}

func TestConfigCommandPrintsEffectiveConfig(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)

	_, err := tf.WriteFile(".config/suggestbox/config.toml", "[autocomplete]\nmin_length = 3\n")
	require.NoError(t, err)

	out, err := tf.Command("config", "--dictionary", "/tmp/words.tsv").Output()
	require.NoError(t, err)

	output := string(out)
	require.Contains(t, output, "min_length = 3")
	require.Contains(t, output, "/tmp/words.tsv")
	require.True(t, strings.HasPrefix(output, "# "+tf.Path(".config/suggestbox/config.toml")))
}

func TestServeAnswersUntilStdinCloses(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)

	// {"id": "1", "p": "ap", "l": 3} as a msgpack fixmap
	req := []byte{0x83, 0xa2, 'i', 'd', 0xa1, '1', 0xa1, 'p', 0xa2, 'a', 'p', 0xa1, 'l', 0x03}

	cmd := tf.Command("serve", "--log-level", "error")
	cmd.Stdin = bytes.NewReader(req)
	out, err := cmd.Output()
	require.NoError(t, err)
	require.Contains(t, string(out), "apple")
}
