package cli

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/karpathy/cryptos-go/internal/sha256core"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	sha256File string
	sha256Hex  string
)

// sha256Result is the structured result of the sha256 command, printed as
// JSON or text depending on the active formatter.
type sha256Result struct {
	Digest string `json:"digest"`
}

func (r sha256Result) String() string {
	return r.Digest
}

// sha256Cmd hashes a file or an inline hex payload with the hand-rolled
// SHA-256 core.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sha256Cmd = &cobra.Command{
	Use:   "sha256",
	Short: "Compute the SHA-256 digest of a file or hex payload",
	Long: `Compute the SHA-256 digest using the hand-rolled FIPS 180-4 core
in internal/sha256core, not the standard library implementation.

Exactly one of --file or --hex must be given.`,
	Example: `  cryptos sha256 --file ./message.txt
  cryptos sha256 --hex 68656c6c6f`,
	RunE: runSHA256,
}

func init() {
	rootCmd.AddCommand(sha256Cmd)

	sha256Cmd.Flags().StringVarP(&sha256File, "file", "f", "", "path to the file to hash")
	sha256Cmd.Flags().StringVarP(&sha256Hex, "hex", "x", "", "hex-encoded bytes to hash")
	sha256Cmd.MarkFlagsMutuallyExclusive("file", "hex")
	sha256Cmd.MarkFlagsOneRequired("file", "hex")
}

func runSHA256(cmd *cobra.Command, _ []string) error {
	var data []byte

	switch {
	case sha256File != "":
		// #nosec G304 -- file path is an explicit CLI argument
		b, err := os.ReadFile(sha256File)
		if err != nil {
			return coreerr.Wrap(err, "reading %s", sha256File)
		}
		data = b
	case sha256Hex != "":
		b, err := hex.DecodeString(sha256Hex)
		if err != nil {
			return coreerr.WithSuggestion(coreerr.ErrInvalidInput,
				fmt.Sprintf("invalid hex payload: %v", err))
		}
		data = b
	}

	digest := sha256core.Sum256(data)
	result := sha256Result{Digest: hex.EncodeToString(digest[:])}

	cc := GetCmdContext(cmd)
	return cc.Formatter.Print(result)
}
