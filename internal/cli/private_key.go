package cli

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/karpathy/cryptos-go/internal/entropy"
	"github.com/karpathy/cryptos-go/internal/keys"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var privateKeyMode string

var privateKeyModes = []string{"os", "user", "mastering"} //nolint:gochecknoglobals // fixed choice set for flag validation

// privateKeyResult is the structured result of the private-key command.
type privateKeyResult struct {
	PrivateKey string `json:"private_key"`
	Mode       string `json:"mode"`
}

func (r privateKeyResult) String() string {
	return r.PrivateKey
}

// privateKeyCmd generates a new private key scalar.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var privateKeyCmd = &cobra.Command{
	Use:   "private-key",
	Short: "Generate a new private key",
	Long: `Generate a new secp256k1 private key scalar and print it as
0x-prefixed hex.

Mode selects the entropy source:
  os        draw 32 bytes from the OS CSPRNG (default)
  user      mix timed keystroke entries via a hidden prompt
  mastering use the fixed test vector from the Mastering Bitcoin book`,
	Example: `  cryptos private-key
  cryptos private-key --mode user
  cryptos private-key --mode mastering`,
	RunE: runPrivateKey,
}

func init() {
	rootCmd.AddCommand(privateKeyCmd)

	privateKeyCmd.Flags().StringVarP(&privateKeyMode, "mode", "m", "os",
		"entropy source: os, user, mastering")
}

func runPrivateKey(cmd *cobra.Command, _ []string) error {
	if err := validateFlagChoice("mode", privateKeyMode, privateKeyModes); err != nil {
		return err
	}

	pk, err := generatePrivateKey(privateKeyMode)
	if err != nil {
		return err
	}

	result := privateKeyResult{
		PrivateKey: fmt.Sprintf("0x%x", pk.Secret),
		Mode:       privateKeyMode,
	}

	cc := GetCmdContext(cmd)
	return cc.Formatter.Print(result)
}

// generatePrivateKey dispatches to the entropy source named by mode,
// falling back to a plain stdin line reader for "user" mode when stdin
// isn't a terminal (piped input, non-interactive test runs).
func generatePrivateKey(mode string) (keys.PrivateKey, error) {
	switch mode {
	case "mastering":
		return keys.GenerateMastering(), nil
	case "user":
		return keys.GenerateFromUserEntropy(entropyPromptFunc())
	default:
		return keys.GenerateFromOSRandom()
	}
}

// entropyPromptFunc returns the terminal-backed entropy prompt when stdin
// is a tty, and a plain line-reading fallback otherwise.
func entropyPromptFunc() entropy.PromptFunc {
	if term.IsTerminal(int(os.Stdin.Fd())) { //nolint:gosec // G115: Fd() returns uintptr, safe conversion for term.IsTerminal
		return promptEntropyLine
	}

	reader := bufio.NewReader(os.Stdin)
	return func(prompt string) (string, time.Duration, error) {
		return promptStdinEntropyLine(reader, prompt)
	}
}
