package registry

import (
	"context"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolHandler executes a registered tool. Arguments arrive as a map decoded
// from the MCP request; the result is marshaled back into the response.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

// LocalToolOption configures registration via RegisterLocalFunc.
type LocalToolOption func(*localToolConfig)

type localToolConfig struct {
	namespace string
	tags      []string
}

// WithNamespace qualifies the tool's ID as namespace:name.
func WithNamespace(ns string) LocalToolOption {
	return func(c *localToolConfig) { c.namespace = ns }
}

// WithTags attaches search tags to the tool. Tags are normalized before
// storage.
func WithTags(tags ...string) LocalToolOption {
	return func(c *localToolConfig) { c.tags = tags }
}

// newLocalTool assembles the tool record for a registered handler. Tools
// carry the registry's version rather than one of their own, so tools/list
// and the credit line always report the same number.
func newLocalTool(name, description string, inputSchema map[string]any, version string, opts []LocalToolOption) model.Tool {
	cfg := localToolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return model.Tool{
		Tool: mcp.Tool{
			Name:        name,
			Description: description,
			InputSchema: inputSchema,
		},
		Namespace: cfg.namespace,
		Version:   version,
		Tags:      model.NormalizeTags(cfg.tags),
	}
}
