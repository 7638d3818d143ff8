package cli

import (
	"github.com/spf13/cobra"

	"github.com/karpathy/cryptos-go/internal/keys"
	"github.com/karpathy/cryptos-go/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	getNewAddressMode string
	getNewAddressNet  string
)

var getNewAddressNets = []string{"main", "test"} //nolint:gochecknoglobals // fixed choice set for flag validation

// getNewAddressResult is the structured result of the getnewaddress command.
type getNewAddressResult struct {
	Address string `json:"address"`
	Network string `json:"network"`
	Mode    string `json:"mode"`
}

func (r getNewAddressResult) String() string {
	return r.Address
}

// getNewAddressCmd generates a new compressed P2PKH address.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var getNewAddressCmd = &cobra.Command{
	Use:   "getnewaddress",
	Short: "Generate a new Bitcoin address",
	Long: `Generate a new private key, derive its compressed public key, and
print the resulting Base58Check P2PKH address. When stdout is a terminal,
a QR code of the address is rendered alongside it.

Mode selects the entropy source, as in private-key.`,
	Example: `  cryptos getnewaddress --net test
  cryptos getnewaddress --mode mastering --net main`,
	RunE: runGetNewAddress,
}

func init() {
	rootCmd.AddCommand(getNewAddressCmd)

	getNewAddressCmd.Flags().StringVarP(&getNewAddressMode, "mode", "m", "os",
		"entropy source: os, user, mastering")
	getNewAddressCmd.Flags().StringVarP(&getNewAddressNet, "net", "n", "main",
		"network: main, test")
}

func runGetNewAddress(cmd *cobra.Command, _ []string) error {
	if err := validateFlagChoice("mode", getNewAddressMode, privateKeyModes); err != nil {
		return err
	}
	if err := validateFlagChoice("net", getNewAddressNet, getNewAddressNets); err != nil {
		return err
	}

	pk, err := generatePrivateKey(getNewAddressMode)
	if err != nil {
		return err
	}

	version := keys.VersionMainnet
	if getNewAddressNet == "test" {
		version = keys.VersionTestnet
	}

	addr := pk.PublicKey().Address(version, true)
	result := getNewAddressResult{
		Address: addr,
		Network: getNewAddressNet,
		Mode:    getNewAddressMode,
	}

	cc := GetCmdContext(cmd)
	if err := cc.Formatter.Print(result); err != nil {
		return err
	}

	if cc.Formatter.Format() != output.FormatJSON {
		return output.RenderQR(cc.Formatter.Writer(), addr, output.DefaultQRConfig())
	}
	return nil
}
