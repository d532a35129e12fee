// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/obinexus/sinphase/internal/contract"
)

// NewMCPServer initializes and configures the Sinphasé MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.MetricsClient, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Sinphase Governance Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_organization ---
	s.AddTool(mcp.NewTool("analyze_organization",
		mcp.WithDescription("Run a division-aware cost analysis over a GitHub organization and return the full governance report."),
		mcp.WithString("organization", mcp.Description("GitHub organization to analyze (defaults to the configured organization).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of repositories analyzed.")),
	), h.handleAnalyzeOrganization)

	// --- 2. Tool: get_isolation_candidates ---
	s.AddTool(mcp.NewTool("get_isolation_candidates",
		mcp.WithDescription("Return the repositories whose cost score or structural violations require architectural isolation."),
		mcp.WithString("organization", mcp.Description("GitHub organization to analyze.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of repositories analyzed.")),
	), h.handleGetIsolationCandidates)

	// --- 3. Tool: get_division_report ---
	s.AddTool(mcp.NewTool("get_division_report",
		mcp.WithDescription("Return the governance compliance report for one organizational division."),
		mcp.WithString("division", mcp.Description("Division name (Computing, UCHE Nnamdi, Publishing, OBIAxis R&D, TDA, Nkwakọba, Aegis Engineering)."), mcp.Required()),
		mcp.WithString("organization", mcp.Description("GitHub organization to analyze.")),
	), h.handleGetDivisionReport)

	return s
}

// StartMCPServer starts the Sinphasé MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.MetricsClient, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
