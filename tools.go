package deathnote

import (
	"context"
	"fmt"

	"github.com/mistial-dev/deathnote/registry"
	"github.com/mistial-dev/deathnote/settings"
)

// registerTools exposes the facade operations as local MCP tools.
func (d *DeathNote) registerTools() error {
	tools := []struct {
		name    string
		desc    string
		schema  map[string]any
		handler registry.ToolHandler
		tags    []string
	}{
		{
			name:    "settings_list",
			desc:    "List all lobby settings with their current and default values",
			schema:  objectSchema(nil, nil),
			handler: d.handleSettingsList,
			tags:    []string{"settings"},
		},
		{
			name: "settings_get",
			desc: "Get one setting's definition and current value",
			schema: objectSchema(map[string]any{
				"key": map[string]any{"type": "string", "description": "Setting key"},
			}, []string{"key"}),
			handler: d.handleSettingsGet,
			tags:    []string{"settings"},
		},
		{
			name: "settings_update",
			desc: "Update a setting to a new value",
			schema: objectSchema(map[string]any{
				"key":   map[string]any{"type": "string", "description": "Setting key"},
				"value": map[string]any{"description": "New value, matching the setting's type"},
			}, []string{"key", "value"}),
			handler: d.handleSettingsUpdate,
			tags:    []string{"settings"},
		},
		{
			name: "settings_reset",
			desc: "Reset one setting, or every setting when no key is given",
			schema: objectSchema(map[string]any{
				"key": map[string]any{"type": "string", "description": "Setting key; omit to reset all"},
			}, nil),
			handler: d.handleSettingsReset,
			tags:    []string{"settings"},
		},
		{
			name: "settings_search",
			desc: "Search setting definitions by free text",
			schema: objectSchema(map[string]any{
				"query": map[string]any{"type": "string", "description": "Search query"},
				"limit": map[string]any{"type": "integer", "description": "Maximum results (default 10)"},
			}, nil),
			handler: d.handleSettingsSearch,
			tags:    []string{"settings", "search"},
		},
		{
			name:    "generate_output",
			desc:    "Generate the shareable settings summary with attribution",
			schema:  objectSchema(nil, nil),
			handler: d.handleGenerateOutput,
			tags:    []string{"output"},
		},
	}

	for _, t := range tools {
		err := d.reg.RegisterLocalFunc(t.name, t.desc, t.schema, t.handler,
			registry.WithNamespace(Namespace),
			registry.WithTags(t.tags...),
		)
		if err != nil {
			return fmt.Errorf("register %s: %w", t.name, err)
		}
	}
	return nil
}

func objectSchema(props map[string]any, required []string) map[string]any {
	schema := map[string]any{"type": "object"}
	if len(props) > 0 {
		schema["properties"] = props
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func settingPayload(s settings.Setting) map[string]any {
	return map[string]any{
		"key":     s.Definition.Key,
		"title":   s.Definition.Title,
		"bin":     s.Definition.Bin,
		"type":    s.Definition.Type,
		"value":   s.Value,
		"default": s.Definition.Default,
		"changed": s.Changed(),
	}
}

func (d *DeathNote) handleSettingsList(ctx context.Context, args map[string]any) (any, error) {
	all := d.store.AllSettings()
	out := make([]map[string]any, 0, len(all))
	for _, s := range all {
		out = append(out, settingPayload(s))
	}
	return map[string]any{"settings": out}, nil
}

func (d *DeathNote) handleSettingsGet(ctx context.Context, args map[string]any) (any, error) {
	key, err := stringArg(args, "key")
	if err != nil {
		return nil, err
	}
	def, ok := d.store.Definition(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", settings.ErrUnknownKey, key)
	}
	value, _ := d.store.Value(key)
	payload := settingPayload(settings.Setting{Definition: def, Value: value})
	payload["help"] = def.Help
	if len(def.Choices) > 0 {
		payload["choices"] = def.Choices
	}
	return payload, nil
}

func (d *DeathNote) handleSettingsUpdate(ctx context.Context, args map[string]any) (any, error) {
	key, err := stringArg(args, "key")
	if err != nil {
		return nil, err
	}
	value, ok := args["value"]
	if !ok {
		return nil, fmt.Errorf("missing required argument: value")
	}
	if err := d.store.Update(key, value); err != nil {
		return nil, err
	}
	v, _ := d.store.Value(key)
	return map[string]any{"key": key, "value": v}, nil
}

func (d *DeathNote) handleSettingsReset(ctx context.Context, args map[string]any) (any, error) {
	key, _ := args["key"].(string)
	if key == "" {
		d.store.ResetAll()
		return map[string]any{"reset": "all"}, nil
	}
	if err := d.store.Reset(key); err != nil {
		return nil, err
	}
	v, _ := d.store.Value(key)
	return map[string]any{"reset": key, "value": v}, nil
}

func (d *DeathNote) handleSettingsSearch(ctx context.Context, args map[string]any) (any, error) {
	query, _ := args["query"].(string)
	limit := 10
	if raw, ok := args["limit"]; ok {
		switch n := raw.(type) {
		case float64:
			limit = int(n)
		case int:
			limit = n
		default:
			return nil, fmt.Errorf("limit must be a number, got %T", raw)
		}
	}
	results, err := d.SearchSettings(query, limit)
	if err != nil {
		return nil, err
	}
	return map[string]any{"results": results}, nil
}

func (d *DeathNote) handleGenerateOutput(ctx context.Context, args map[string]any) (any, error) {
	return map[string]any{"text": d.Generate()}, nil
}

func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing required argument: %s", name)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("argument %s must be a non-empty string", name)
	}
	return s, nil
}
