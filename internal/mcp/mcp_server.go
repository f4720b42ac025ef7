// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/pactsafe/core"
	"github.com/huangsam/pactsafe/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer registers the consent tools against client without starting the server.
func NewMCPServer(client *core.Client) *server.MCPServer {
	s := server.NewMCPServer(
		"PactSafe Consent Server",
		schema.ClientVersion,
		server.WithLogging(),
	)

	h := &toolHandler{client: client}

	s.AddTool(mcp.NewTool("load_group",
		mcp.WithDescription("Load a contract group with its contracts, versions and rendered acceptance text."),
		mcp.WithString("group_key", mcp.Description("Key of the group to load."), mcp.Required()),
		mcp.WithBoolean("from_cache", mcp.Description("Serve the group from the response cache when present.")),
	), h.handleLoadGroup)

	s.AddTool(mcp.NewTool("preload_group",
		mcp.WithDescription("Fetch a group into the response cache so later loads skip the network."),
		mcp.WithString("group_key", mcp.Description("Key of the group to preload."), mcp.Required()),
		mcp.WithBoolean("refresh", mcp.Description("Replace a cached copy with a live fetch.")),
	), h.handlePreloadGroup)

	s.AddTool(mcp.NewTool("signed_status",
		mcp.WithDescription("Report which contracts of a group a signer still has to accept."),
		mcp.WithString("signer_id", mcp.Description("Identifier of the signer, usually an email address."), mcp.Required()),
		mcp.WithString("group_key", mcp.Description("Key of the group to check."), mcp.Required()),
	), h.handleSignedStatus)

	s.AddTool(mcp.NewTool("send_activity",
		mcp.WithDescription("Record a signer activity such as agreed or displayed against a group."),
		mcp.WithString("event", mcp.Description("Activity event."), mcp.Required(), mcp.Enum(activityEventNames()...)),
		mcp.WithString("signer_id", mcp.Description("Identifier of the signer."), mcp.Required()),
		mcp.WithString("group_key", mcp.Description("Key of the group the activity applies to."), mcp.Required()),
		mcp.WithBoolean("test_mode", mcp.Description("Mark the activity as test data.")),
		mcp.WithString("first_name", mcp.Description("Signer first name.")),
		mcp.WithString("last_name", mcp.Description("Signer last name.")),
		mcp.WithString("company_name", mcp.Description("Signer company.")),
	), h.handleSendActivity)

	s.AddTool(mcp.NewTool("cache_status",
		mcp.WithDescription("Describe the response cache."),
	), h.handleCacheStatus)

	s.AddTool(mcp.NewTool("clear_cache",
		mcp.WithDescription("Drop every cached response."),
	), h.handleClearCache)

	return s
}

// StartMCPServer serves the tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, client *core.Client) error {
	return server.ServeStdio(NewMCPServer(client))
}

func activityEventNames() []string {
	names := make([]string, len(schema.AllActivityEvents))
	for i, e := range schema.AllActivityEvents {
		names[i] = string(e)
	}
	return names
}
