package cmd

import (
	"github.com/spf13/cobra"

	"github.com/obinexus/sinphase/internal/ghmetrics"
	"github.com/obinexus/sinphase/internal/iocache"
	"github.com/obinexus/sinphase/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Sinphasé MCP server",
	Long:  `Launch an MCP server that allows AI agents to run organization cost analysis and governance queries via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Header logs would pollute stdio which carries the protocol,
		// so the MCP handlers run analyses with output suppressed.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		client := ghmetrics.NewClient(cfg.Token, 0)
		return mcp.StartMCPServer(rootCtx, cfg, client, iocache.Manager)
	},
}
