package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/karpathy/cryptos-go/internal/config"
	"github.com/karpathy/cryptos-go/internal/output"
	"github.com/karpathy/cryptos-go/internal/txn"
)

// CommandContext holds dependencies for CLI commands.
type CommandContext struct {
	Config    *config.Config
	Logger    *config.Logger
	Formatter *output.Formatter
	Fetcher   txn.PrevTxFetcher
}

// NewCommandContext creates a context with the given dependencies.
func NewCommandContext(
	cfg *config.Config,
	logger *config.Logger,
	formatter *output.Formatter,
) *CommandContext {
	return &CommandContext{
		Config:    cfg,
		Logger:    logger,
		Formatter: formatter,
		Fetcher:   txn.NewMemoryFetcher(),
	}
}

// WithFetcher sets the previous-transaction fetcher used to validate inputs.
func (c *CommandContext) WithFetcher(f txn.PrevTxFetcher) *CommandContext {
	c.Fetcher = f
	return c
}

// cmdContextKey is the context.Context key a *CommandContext is stored
// under via SetCmdContext.
type cmdContextKey struct{}

// SetCmdContext attaches cc to cmd's context so subcommands can retrieve
// it via GetCmdContext without relying on package-level globals.
func SetCmdContext(cmd *cobra.Command, cc *CommandContext) {
	cmd.SetContext(context.WithValue(cmd.Context(), cmdContextKey{}, cc))
}

// GetCmdContext retrieves the *CommandContext attached by SetCmdContext,
// or nil if none was set.
func GetCmdContext(cmd *cobra.Command) *CommandContext {
	v := cmd.Context().Value(cmdContextKey{})
	cc, _ := v.(*CommandContext)
	return cc
}
