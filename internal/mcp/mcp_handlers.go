package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/obinexus/sinphase/core"
	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.MetricsClient
	mgr     contract.StoreManager
}

// requestConfig clones the base config with per-request overrides applied.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) *contract.Config {
	cfg := h.baseCfg.Clone()
	if org := request.GetString("organization", ""); org != "" {
		cfg.Organization = org
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	return cfg
}

func (h *toolHandler) handleAnalyzeOrganization(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)

	report, err := core.RunOrganizationAnalysis(core.WithSuppressedHeader(ctx), cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	report.RepositoryScores = core.RankResults(report.RepositoryScores, cfg.ResultLimit)

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetIsolationCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)

	report, err := core.RunOrganizationAnalysis(core.WithSuppressedHeader(ctx), cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report.GetIsolationCandidates(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDivisionReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.requestConfig(request)

	division, err := schema.ParseDivision(request.GetString("division", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid division parameters: %v", err)), nil
	}
	metadata, err := cfg.DivisionFor(division)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid division parameters: %v", err)), nil
	}

	report, err := core.RunOrganizationAnalysis(core.WithSuppressedHeader(ctx), cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	results := core.FilterByDivision(report.RepositoryScores, division)
	governance := metadata.GenerateGovernanceReport(results)

	jsonData, _ := json.MarshalIndent(governance, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
