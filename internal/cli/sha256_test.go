package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karpathy/cryptos-go/internal/config"
	"github.com/karpathy/cryptos-go/internal/output"
)

// newTestCmd returns a bare command wired with a fresh CommandContext writing
// to buf, for directly exercising a RunE function outside of rootCmd.
func newTestCmd(buf *bytes.Buffer, format output.Format) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	SetCmdContext(cmd, NewCommandContext(config.Defaults(), config.NullLogger(), output.NewFormatter(format, buf)))
	return cmd
}

func TestRunSHA256_File(t *testing.T) {
	origFile, origHex := sha256File, sha256Hex
	defer func() { sha256File, sha256Hex = origFile, origHex }()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "message.txt")
	require.NoError(t, os.WriteFile(path, []byte("some test file lol\n"), 0o600))

	sha256File = path
	sha256Hex = ""

	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatText)

	require.NoError(t, runSHA256(cmd, nil))
	assert.Contains(t, buf.String(), "4a79aed64097a0cd9e87f1e88e9ad771ddb5c5d762b3c3bbf02adf3112d5d375")
}

func TestRunSHA256_Hex(t *testing.T) {
	origFile, origHex := sha256File, sha256Hex
	defer func() { sha256File, sha256Hex = origFile, origHex }()

	sha256File = ""
	sha256Hex = "68656c6c6f"

	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatText)

	require.NoError(t, runSHA256(cmd, nil))
	assert.Contains(t, buf.String(), "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824")
}

func TestRunSHA256_InvalidHex(t *testing.T) {
	origFile, origHex := sha256File, sha256Hex
	defer func() { sha256File, sha256Hex = origFile, origHex }()

	sha256File = ""
	sha256Hex = "not-hex"

	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatText)

	err := runSHA256(cmd, nil)
	require.Error(t, err)
}

func TestRunSHA256_MissingFile(t *testing.T) {
	origFile, origHex := sha256File, sha256Hex
	defer func() { sha256File, sha256Hex = origFile, origHex }()

	sha256File = filepath.Join(t.TempDir(), "does-not-exist.txt")
	sha256Hex = ""

	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatText)

	err := runSHA256(cmd, nil)
	require.Error(t, err)
}

func TestRunSHA256_JSON(t *testing.T) {
	origFile, origHex := sha256File, sha256Hex
	defer func() { sha256File, sha256Hex = origFile, origHex }()

	sha256File = ""
	sha256Hex = ""

	var buf bytes.Buffer
	cmd := newTestCmd(&buf, output.FormatJSON)

	require.NoError(t, runSHA256(cmd, nil))
	assert.Contains(t, buf.String(), `"digest"`)
	assert.Contains(t, buf.String(), "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")
}

func TestSHA256Cmd_FlagGroups(t *testing.T) {
	require.NoError(t, sha256Cmd.Flags().Set("file", "a"))
	require.NoError(t, sha256Cmd.Flags().Set("hex", "ab"))
	t.Cleanup(func() {
		sha256File = ""
		sha256Hex = ""
		sha256Cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Name == "file" || f.Name == "hex" {
				f.Changed = false
			}
		})
	})

	err := sha256Cmd.ValidateFlagGroups()
	require.Error(t, err)
}
