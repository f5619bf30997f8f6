// Package registry provides the host registry for the DeathNote tool:
// tool metadata (version, canonical URL), named capability modules, and
// locally registered operations exposed over MCP.
//
// The registry is an explicitly injected object, not ambient global state.
// Callers construct one, register modules (such as the settings store),
// and pass it to whatever needs it. Missing metadata is tolerated
// everywhere: an empty version or URL is a normal case handled by the
// credit package's fallbacks, and an unknown module name yields (nil,
// false) rather than an error.
//
// Features:
//   - Named capability modules with silent lookup
//   - Local tool registration with handlers
//   - MCP protocol handlers (initialize, tools/list, tools/call)
//   - Multiple transports (stdio, HTTP, SSE)
//
// Example usage:
//
//	reg := registry.New(registry.Config{
//	    Info: registry.ToolInfo{
//	        Name:    "DeathNote Tool",
//	        Version: "v1.2",
//	        ToolURL: "https://mistial-dev.github.io/DeathNote/",
//	    },
//	})
//
//	reg.RegisterLocalFunc(
//	    "generate_output",
//	    "Generates the shareable lobby settings text",
//	    map[string]any{"type": "object"},
//	    func(ctx context.Context, args map[string]any) (any, error) {
//	        return gen.Generate(), nil
//	    },
//	    registry.WithNamespace("deathnote"),
//	)
//
//	ctx := context.Background()
//	registry.ServeStdio(ctx, reg)
package registry
