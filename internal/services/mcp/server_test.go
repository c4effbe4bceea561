package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/temirov/codedoc/internal/types"
)

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "src", "a.py"), []byte("print(1)"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "README"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return root
}

func TestHandleGenerate(t *testing.T) {
	root := writeProject(t)
	server := NewServer(Config{Version: "test"})

	testCases := []struct {
		name           string
		input          GenerateInput
		expectError    bool
		expectIncluded int
		expectDocument bool
	}{
		{name: "writes document", input: GenerateInput{Path: root}, expectIncluded: 2},
		{name: "returns document", input: GenerateInput{Path: root, IncludeDocument: true}, expectIncluded: 2, expectDocument: true},
		{name: "extra exclusion", input: GenerateInput{Path: root, Exclude: []string{"src"}}, expectIncluded: 1},
		{name: "missing path", input: GenerateInput{Path: ""}, expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result, output, err := server.handleGenerate(context.Background(), nil, testCase.input)
			if testCase.expectError {
				if err == nil || result == nil || !result.IsError {
					t.Fatalf("expected an error result, got %v / %+v", err, result)
				}
				if output.State != string(types.StateFailed) {
					t.Fatalf("unexpected state %q", output.State)
				}
				return
			}
			if err != nil {
				t.Fatalf("handleGenerate error: %v", err)
			}
			if output.IncludedCount != testCase.expectIncluded || !output.Written {
				t.Fatalf("unexpected output %+v", output)
			}
			if output.OutputPath != filepath.Join(root, types.OutputFileName) {
				t.Fatalf("unexpected output path %s", output.OutputPath)
			}
			if testCase.expectDocument != strings.HasPrefix(output.Document, "# Codebase Documentation") {
				t.Fatalf("unexpected document presence: %q", output.Document)
			}
		})
	}
}

func TestServerServesToolOverTransport(t *testing.T) {
	root := writeProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	server := NewServer(Config{Version: "test"})
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Run(ctx, serverTransport)
	}()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, connectError := client.Connect(ctx, clientTransport, nil)
	if connectError != nil {
		t.Fatalf("connect: %v", connectError)
	}
	defer session.Close()

	tools, listError := session.ListTools(ctx, nil)
	if listError != nil {
		t.Fatalf("list tools: %v", listError)
	}
	if len(tools.Tools) != 1 || tools.Tools[0].Name != ToolName {
		t.Fatalf("unexpected tools %+v", tools.Tools)
	}

	callResult, callError := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      ToolName,
		Arguments: map[string]any{"path": root},
	})
	if callError != nil {
		t.Fatalf("call tool: %v", callError)
	}
	if callResult.IsError {
		t.Fatalf("tool reported an error: %+v", callResult.Content)
	}
	encoded, marshalError := json.Marshal(callResult.StructuredContent)
	if marshalError != nil {
		t.Fatalf("marshal structured content: %v", marshalError)
	}
	var output GenerateOutput
	if err := json.Unmarshal(encoded, &output); err != nil {
		t.Fatalf("decode structured content: %v", err)
	}
	if output.IncludedCount != 2 || output.State != string(types.StateComplete) {
		t.Fatalf("unexpected output %+v", output)
	}
	if _, statError := os.Stat(filepath.Join(root, types.OutputFileName)); statError != nil {
		t.Fatalf("document not written: %v", statError)
	}
}
