package cli

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/karpathy/cryptos-go/internal/output"
	"github.com/karpathy/cryptos-go/internal/p2p"
	coreerr "github.com/karpathy/cryptos-go/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	headersSeed  string
	headersNet   string
	headersCount int
)

// headerResult is one block header's JSON/text projection.
type headerResult struct {
	ID        string `json:"id"`
	PrevBlock string `json:"prev_block"`
	Timestamp uint32 `json:"timestamp"`
}

func (r headerResult) String() string {
	return r.ID
}

// headersCmd walks block headers from a P2P seed node.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var headersCmd = &cobra.Command{
	Use:   "headers",
	Short: "Walk block headers from a P2P seed node",
	Long: `Dial a peer over TCP, perform the version/verack handshake, and
walk block headers forward from genesis via repeated getheaders requests,
printing each header's id and previous-block hash.`,
	Example: `  cryptos headers --seed seed.bitcoin.sipa.be:8333 --count 5
  cryptos headers --seed testnet-seed.bitcoin.jonasschnelli.ch:18333 --net test --count 2000`,
	RunE: runHeaders,
}

func init() {
	rootCmd.AddCommand(headersCmd)

	headersCmd.Flags().StringVar(&headersSeed, "seed", "", "peer address, host:port (required)")
	headersCmd.Flags().StringVarP(&headersNet, "net", "n", "main", "network: main, test")
	headersCmd.Flags().IntVarP(&headersCount, "count", "c", 2000, "number of headers to walk")

	_ = headersCmd.MarkFlagRequired("seed")
}

func runHeaders(cmd *cobra.Command, _ []string) error {
	if err := validateFlagChoice("net", headersNet, getNewAddressNets); err != nil {
		return err
	}

	magic := p2p.MagicMainnet
	if headersNet == "test" {
		magic = p2p.MagicTestnet
	}

	cc := GetCmdContext(cmd)
	timeout := time.Duration(cc.Config.P2P.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := contextWithTimeout(cmd, timeout)
	defer cancel()

	node, err := p2p.Dial(ctx, headersSeed, magic)
	if err != nil {
		return coreerr.Wrap(err, "dialing %s", headersSeed)
	}
	defer node.Close() //nolint:errcheck

	if err := node.Handshake("/cryptos:0.1.0/"); err != nil {
		return err
	}

	headers, err := node.WalkHeaders(ctx, headersCount)
	if err != nil {
		return coreerr.Wrap(err, "walking headers")
	}

	results := make([]headerResult, len(headers))
	for i, h := range headers {
		results[i] = headerResult{
			ID:        h.ID(),
			PrevBlock: reverseHex(h.PrevBlock),
			Timestamp: h.Timestamp,
		}
	}

	if cc.Formatter.Format() == output.FormatJSON {
		return cc.Formatter.Print(results)
	}

	table := output.NewTable("ID", "PREV_BLOCK", "TIMESTAMP")
	for _, r := range results {
		table.AddRow(r.ID, r.PrevBlock, fmt.Sprintf("%d", r.Timestamp))
	}
	return table.Render(cc.Formatter.Writer())
}

// reverseHex renders a 32-byte internal-order digest in the conventional
// big-endian display order, matching block.Header.ID.
func reverseHex(digest [32]byte) string {
	reversed := make([]byte, len(digest))
	for i, v := range digest {
		reversed[len(digest)-1-i] = v
	}
	return hex.EncodeToString(reversed)
}
