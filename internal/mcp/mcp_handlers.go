package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/pactsafe/core"
	"github.com/huangsam/pactsafe/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	client *core.Client
}

// groupResult is what load_group returns.
type groupResult struct {
	Group          *schema.Group         `json:"group"`
	AcceptanceText string                `json:"acceptance_text"`
	Links          []schema.ContractLink `json:"links"`
}

func (h *toolHandler) handleLoadGroup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := request.GetString("group_key", "")
	if key == "" {
		return mcp.NewToolResultError("group_key is required"), nil
	}
	var opts []core.CallOption
	if request.GetBool("from_cache", false) {
		opts = append(opts, core.FromCache())
	}

	group, err := h.client.LoadGroup(ctx, key, opts...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	return jsonResult(groupResult{
		Group:          group,
		AcceptanceText: group.AcceptanceText(),
		Links:          group.ContractLinks(),
	})
}

func (h *toolHandler) handlePreloadGroup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := request.GetString("group_key", "")
	if key == "" {
		return mcp.NewToolResultError("group_key is required"), nil
	}
	refresh := request.GetBool("refresh", false)

	if err := h.client.Preload(ctx, key, refresh); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("preload failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("group %s preloaded", key)), nil
}

func (h *toolHandler) handleSignedStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	signer := request.GetString("signer_id", "")
	key := request.GetString("group_key", "")

	status, err := h.client.SignedStatus(ctx, signer, key)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status check failed: %v", err)), nil
	}
	return jsonResult(status)
}

func (h *toolHandler) handleSendActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	event, err := schema.ParseActivityEvent(request.GetString("event", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key := request.GetString("group_key", "")
	if key == "" {
		return mcp.NewToolResultError("group_key is required"), nil
	}

	signer := schema.NewSigner(request.GetString("signer_id", ""))
	signer.CustomData.FirstName = request.GetString("first_name", "")
	signer.CustomData.LastName = request.GetString("last_name", "")
	signer.CustomData.CompanyName = request.GetString("company_name", "")
	if err := signer.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	group, err := h.client.LoadGroup(ctx, key, core.FromCache())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	err = h.client.SendActivity(ctx, core.ActivityRequest{
		Event:    event,
		Signer:   signer,
		Group:    group,
		TestMode: request.GetBool("test_mode", false),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("send failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s activity recorded for %s on %s", event, signer.ID, key)), nil
}

func (h *toolHandler) handleCacheStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.client.CacheStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cache status failed: %v", err)), nil
	}
	return jsonResult(status)
}

func (h *toolHandler) handleClearCache(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.client.RefreshCache(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cache clear failed: %v", err)), nil
	}
	return mcp.NewToolResultText("response cache cleared"), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
