package cli

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/karpathy/cryptos-go/internal/keys"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

// publicKeyResult is the structured result of the public-key command.
type publicKeyResult struct {
	X string `json:"x"`
	Y string `json:"y"`
}

func (r publicKeyResult) String() string {
	return fmt.Sprintf("X: %s\nY: %s", r.X, r.Y)
}

// publicKeyCmd derives the public key point for a private key scalar.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var publicKeyCmd = &cobra.Command{
	Use:   "public-key <hex_scalar>",
	Short: "Derive the public key for a private key scalar",
	Long: `Derive the secp256k1 public key point e*G for a private key
scalar given as hex, and print its X and Y coordinates in uppercase hex.`,
	Example: `  cryptos public-key 3aba4162c7251c891207b747840551a71939b0de081f85c4e44cf7c13e41daa6`,
	Args:    cobra.ExactArgs(1),
	RunE:    runPublicKey,
}

func init() {
	rootCmd.AddCommand(publicKeyCmd)
}

func runPublicKey(cmd *cobra.Command, args []string) error {
	secret, ok := new(big.Int).SetString(args[0], 16)
	if !ok {
		return coreerr.WithSuggestion(coreerr.ErrInvalidInput,
			fmt.Sprintf("invalid hex scalar: %q", args[0]))
	}

	pk, err := keys.NewPrivateKey(secret)
	if err != nil {
		return err
	}

	pub := pk.PublicKey()
	result := publicKeyResult{
		X: fmt.Sprintf("%X", pub.Point.X),
		Y: fmt.Sprintf("%X", pub.Point.Y),
	}

	cc := GetCmdContext(cmd)
	return cc.Formatter.Print(result)
}
