package registry

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonwraymond/toolfoundation/model"
)

type fakeModule struct {
	name string
	desc string
}

func (m fakeModule) Name() string        { return m.name }
func (m fakeModule) Description() string { return m.desc }

func newTestRegistry() *Registry {
	return New(Config{
		Info: ToolInfo{
			Name:    "DeathNote Tool",
			Version: "v1.2",
			ToolURL: "https://mistial-dev.github.io/DeathNote/",
		},
	})
}

func TestNew(t *testing.T) {
	reg := newTestRegistry()

	if reg == nil {
		t.Fatal("expected non-nil registry")
	}
	if reg.Info().Name != "DeathNote Tool" {
		t.Errorf("expected tool name 'DeathNote Tool', got %s", reg.Info().Name)
	}
	if reg.Info().Version != "v1.2" {
		t.Errorf("expected version 'v1.2', got %s", reg.Info().Version)
	}
}

func TestNew_DefaultName(t *testing.T) {
	reg := New(Config{})
	if reg.Info().Name != DefaultToolName {
		t.Errorf("expected default name %q, got %q", DefaultToolName, reg.Info().Name)
	}
}

func TestWellFormedVersion(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"v1.0", true},
		{"v1.2", true},
		{"v2.0.1", true},
		{"v10.23.456", true},
		{"1.2", false},
		{"v1", false},
		{"vnext", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			if got := WellFormedVersion(tt.version); got != tt.want {
				t.Errorf("WellFormedVersion(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestSetVersion(t *testing.T) {
	reg := newTestRegistry()

	reg.SetVersion("v2.0")
	if reg.Info().Version != "v2.0" {
		t.Errorf("expected version 'v2.0', got %s", reg.Info().Version)
	}

	// Clearing the version is allowed; consumers fall back.
	reg.SetVersion("")
	if reg.Info().Version != "" {
		t.Errorf("expected empty version, got %s", reg.Info().Version)
	}
}

func TestSetToolURL(t *testing.T) {
	reg := newTestRegistry()

	reg.SetToolURL("https://example.com/DeathNote/")
	if reg.Info().ToolURL != "https://example.com/DeathNote/" {
		t.Errorf("unexpected tool URL %s", reg.Info().ToolURL)
	}
}

func TestRegisterModule(t *testing.T) {
	reg := newTestRegistry()

	if err := reg.RegisterModule(fakeModule{name: "settings", desc: "lobby settings"}); err != nil {
		t.Fatalf("RegisterModule failed: %v", err)
	}

	m, ok := reg.Module("settings")
	if !ok {
		t.Fatal("expected settings module to be found")
	}
	if m.Description() != "lobby settings" {
		t.Errorf("unexpected description %q", m.Description())
	}
}

func TestRegisterModule_Duplicate(t *testing.T) {
	reg := newTestRegistry()

	if err := reg.RegisterModule(fakeModule{name: "settings"}); err != nil {
		t.Fatalf("RegisterModule failed: %v", err)
	}
	err := reg.RegisterModule(fakeModule{name: "settings"})
	if !errors.Is(err, ErrModuleExists) {
		t.Errorf("expected ErrModuleExists, got %v", err)
	}
}

func TestRegisterModule_Invalid(t *testing.T) {
	reg := newTestRegistry()

	if err := reg.RegisterModule(nil); !errors.Is(err, ErrInvalidModule) {
		t.Errorf("expected ErrInvalidModule for nil module, got %v", err)
	}
	if err := reg.RegisterModule(fakeModule{name: "  "}); !errors.Is(err, ErrInvalidModule) {
		t.Errorf("expected ErrInvalidModule for blank name, got %v", err)
	}
}

func TestModule_Absent(t *testing.T) {
	reg := newTestRegistry()

	// Unknown module names are a normal case, not an error.
	m, ok := reg.Module("output")
	if ok {
		t.Errorf("expected ok=false for unknown module, got %v", m)
	}
}

func TestRegisterLocal(t *testing.T) {
	reg := newTestRegistry()

	callCount := 0
	handler := func(ctx context.Context, args map[string]any) (any, error) {
		callCount++
		return map[string]any{"echo": args["message"]}, nil
	}

	err := reg.RegisterLocalFunc(
		"echo",
		"Echoes back input",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"message": map[string]any{"type": "string"},
			},
		},
		handler,
		WithNamespace("deathnote"),
		WithTags("echo", "utility"),
	)

	if err != nil {
		t.Fatalf("RegisterLocalFunc failed: %v", err)
	}

	ctx := context.Background()
	result, err := reg.Execute(ctx, "deathnote:echo", map[string]any{"message": "hello"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected handler to be called once, got %d", callCount)
	}

	resultMap, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("expected result to be map[string]any, got %T", result)
	}

	if resultMap["echo"] != "hello" {
		t.Errorf("expected echo='hello', got %v", resultMap["echo"])
	}
}

func TestRegisterLocal_Duplicate(t *testing.T) {
	reg := newTestRegistry()

	handler := func(ctx context.Context, args map[string]any) (any, error) {
		return nil, nil
	}

	if err := reg.RegisterLocalFunc("echo", "Echo", map[string]any{"type": "object"}, handler); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	err := reg.RegisterLocalFunc("echo", "Echo", map[string]any{"type": "object"}, handler)
	if !errors.Is(err, ErrToolExists) {
		t.Errorf("expected ErrToolExists, got %v", err)
	}
}

func TestExecute_NotFound(t *testing.T) {
	reg := newTestRegistry()

	_, err := reg.Execute(context.Background(), "missing", nil)
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound, got %v", err)
	}
}

func TestExecute_HandlerError(t *testing.T) {
	reg := newTestRegistry()

	_ = reg.RegisterLocalFunc("boom", "Always fails", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) {
			return nil, errors.New("boom")
		})

	_, err := reg.Execute(context.Background(), "boom", nil)
	if !errors.Is(err, ErrExecutionFailed) {
		t.Errorf("expected ErrExecutionFailed, got %v", err)
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	reg := newTestRegistry()

	req := MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	}

	resp := reg.HandleRequest(context.Background(), req)

	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}

	resultMap, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("expected result to be map, got %T", resp.Result)
	}

	if resultMap["protocolVersion"] != model.MCPVersion {
		t.Errorf("expected protocolVersion %s, got %v", model.MCPVersion, resultMap["protocolVersion"])
	}

	serverInfo := resultMap["serverInfo"].(map[string]any)
	if serverInfo["name"] != "DeathNote Tool" {
		t.Errorf("expected name 'DeathNote Tool', got %v", serverInfo["name"])
	}
	if serverInfo["version"] != "v1.2" {
		t.Errorf("expected version 'v1.2', got %v", serverInfo["version"])
	}
}

func TestHandleRequest_ToolsList(t *testing.T) {
	reg := newTestRegistry()

	handler := func(ctx context.Context, args map[string]any) (any, error) {
		return nil, nil
	}

	_ = reg.RegisterLocalFunc("generate_output", "Generates lobby settings text", map[string]any{"type": "object"}, handler)

	req := MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/list",
	}

	resp := reg.HandleRequest(context.Background(), req)

	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}

	resultMap := resp.Result.(map[string]any)
	tools := resultMap["tools"].([]map[string]any)

	if len(tools) == 0 {
		t.Fatal("expected at least one tool")
	}

	if tools[0]["name"] != "generate_output" {
		t.Errorf("expected tool name 'generate_output', got %v", tools[0]["name"])
	}
}

func TestHandleRequest_ToolsCall(t *testing.T) {
	reg := newTestRegistry()

	handler := func(ctx context.Context, args map[string]any) (any, error) {
		return map[string]any{"result": args["input"]}, nil
	}

	_ = reg.RegisterLocalFunc("process", "Processes input", map[string]any{"type": "object"}, handler)

	params, _ := json.Marshal(map[string]any{
		"name":      "process",
		"arguments": map[string]any{"input": "test"},
	})

	req := MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	}

	resp := reg.HandleRequest(context.Background(), req)

	if resp.Error != nil {
		t.Fatalf("expected no error, got %v", resp.Error)
	}

	resultMap := resp.Result.(map[string]any)
	if resultMap["result"] != "test" {
		t.Errorf("expected result='test', got %v", resultMap["result"])
	}
}

func TestHandleRequest_ToolsCall_NamespacedTool(t *testing.T) {
	reg := newTestRegistry()

	handler := func(ctx context.Context, args map[string]any) (any, error) {
		return map[string]any{"result": args["input"]}, nil
	}

	_ = reg.RegisterLocalFunc("process", "Processes input", map[string]any{"type": "object"}, handler,
		WithNamespace("deathnote"))

	// tools/list advertises the bare name, so tools/call must accept it even
	// though the handler is keyed by the namespaced ID.
	for _, name := range []string{"process", "deathnote:process"} {
		params, _ := json.Marshal(map[string]any{
			"name":      name,
			"arguments": map[string]any{"input": "test"},
		})

		req := MCPRequest{
			JSONRPC: "2.0",
			ID:      1,
			Method:  "tools/call",
			Params:  params,
		}

		resp := reg.HandleRequest(context.Background(), req)

		if resp.Error != nil {
			t.Fatalf("call %q: expected no error, got %v", name, resp.Error)
		}
		resultMap := resp.Result.(map[string]any)
		if resultMap["result"] != "test" {
			t.Errorf("call %q: expected result='test', got %v", name, resultMap["result"])
		}
	}
}

func TestHandleRequest_ToolsCall_NotFound(t *testing.T) {
	reg := newTestRegistry()

	params, _ := json.Marshal(map[string]any{
		"name":      "missing",
		"arguments": map[string]any{},
	})

	req := MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  params,
	}

	resp := reg.HandleRequest(context.Background(), req)

	if resp.Error == nil {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != ErrCodeToolNotFound {
		t.Errorf("expected ErrCodeToolNotFound, got %d", resp.Error.Code)
	}
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	reg := newTestRegistry()

	req := MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "resources/list",
	}

	resp := reg.HandleRequest(context.Background(), req)

	if resp.Error == nil {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != ErrCodeMethodNotFound {
		t.Errorf("expected ErrCodeMethodNotFound, got %d", resp.Error.Code)
	}
}

func TestStats(t *testing.T) {
	reg := newTestRegistry()

	_ = reg.RegisterModule(fakeModule{name: "settings"})
	_ = reg.RegisterLocalFunc("echo", "Echo", map[string]any{"type": "object"},
		func(ctx context.Context, args map[string]any) (any, error) { return nil, nil })

	stats := reg.Stats()
	if stats.Modules != 1 {
		t.Errorf("expected 1 module, got %d", stats.Modules)
	}
	if stats.Tools != 1 {
		t.Errorf("expected 1 tool, got %d", stats.Tools)
	}
}

func TestServeHTTP(t *testing.T) {
	reg := newTestRegistry()
	_ = reg.RegisterLocalFunc("echo", "Echo", map[string]any{"type": "object"}, func(ctx context.Context, args map[string]any) (any, error) {
		return args, nil
	})

	srv := httptest.NewServer(ServeHTTP(reg))
	defer srv.Close()

	body := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp, err := http.Post(srv.URL, "application/json", body)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var mcpResp MCPResponse
	if err := json.NewDecoder(resp.Body).Decode(&mcpResp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if mcpResp.Error != nil {
		t.Fatalf("expected no error, got %v", mcpResp.Error)
	}
	resultMap, ok := mcpResp.Result.(map[string]any)
	if !ok {
		t.Fatalf("expected result map, got %T", mcpResp.Result)
	}
	tools, ok := resultMap["tools"].([]any)
	if !ok || len(tools) == 0 {
		t.Fatal("expected at least one tool")
	}
}

func TestServeHTTP_MethodNotAllowed(t *testing.T) {
	reg := newTestRegistry()

	srv := httptest.NewServer(ServeHTTP(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", resp.StatusCode)
	}
}

func TestServeHTTP_InvalidJSON(t *testing.T) {
	reg := newTestRegistry()

	srv := httptest.NewServer(ServeHTTP(reg))
	defer srv.Close()

	body := bytes.NewBufferString(`{not json`)
	resp, err := http.Post(srv.URL, "application/json", body)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var mcpResp MCPResponse
	if err := json.NewDecoder(resp.Body).Decode(&mcpResp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if mcpResp.Error == nil {
		t.Fatal("expected parse error response")
	}
	if mcpResp.Error.Code != ErrCodeParseError {
		t.Errorf("expected ErrCodeParseError, got %d", mcpResp.Error.Code)
	}
}

func TestServeSSE(t *testing.T) {
	reg := newTestRegistry()
	_ = reg.RegisterLocalFunc("echo", "Echo", map[string]any{"type": "object"}, func(ctx context.Context, args map[string]any) (any, error) {
		return args, nil
	})

	srv := httptest.NewServer(ServeSSE(reg))
	defer srv.Close()

	reqBody := bytes.NewBufferString(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp, err := http.Post(srv.URL, "application/json", reqBody)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	scanner := bufio.NewScanner(resp.Body)
	var dataLine string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			dataLine = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scanner failed: %v", err)
	}
	if dataLine == "" {
		t.Fatal("expected SSE data line")
	}

	var mcpResp MCPResponse
	if err := json.Unmarshal([]byte(dataLine), &mcpResp); err != nil {
		t.Fatalf("unmarshal SSE data failed: %v", err)
	}
	if mcpResp.Error != nil {
		t.Fatalf("expected no error, got %v", mcpResp.Error)
	}
	resultMap, ok := mcpResp.Result.(map[string]any)
	if !ok {
		t.Fatalf("expected result map, got %T", mcpResp.Result)
	}
	tools, ok := resultMap["tools"].([]any)
	if !ok || len(tools) == 0 {
		t.Fatal("expected at least one tool")
	}
}
