// Package mcp exposes document generation as a Model Context Protocol tool.
package mcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/temirov/codedoc/internal/services/stream"
	"github.com/temirov/codedoc/internal/types"
)

const (
	// ToolName is the name clients call to generate a document.
	ToolName        = "generate_codebase_document"
	toolDescription = "Scan a directory and write codebase.md at its root: a directory tree of source files followed by the contents of each file in a language-tagged code block. Returns the output path, file count and per-file log."

	defaultServerName = "codedoc"
)

type (
	// GenerateInput contains parameters for generating a document.
	GenerateInput struct {
		Path            string   `json:"path" jsonschema:"Absolute path of the directory to document"`
		Exclude         []string `json:"exclude,omitempty" jsonschema:"Extra exclusion tokens matched case-insensitively against file names, directory paths and extensions"`
		UseGitignore    bool     `json:"useGitignore,omitempty" jsonschema:"Also skip paths matched by the root .gitignore (default: false)"`
		IncludeDocument bool     `json:"includeDocument,omitempty" jsonschema:"Return the generated markdown in the result (default: false)"`
	}

	// GenerateOutput contains the result of a scan.
	GenerateOutput struct {
		OutputPath    string   `json:"outputPath,omitempty"`
		Written       bool     `json:"written"`
		IncludedCount int      `json:"includedCount"`
		State         string   `json:"state"`
		Message       string   `json:"message,omitempty"`
		Digest        string   `json:"digest,omitempty"`
		Log           []string `json:"log"`
		Document      string   `json:"document,omitempty"`
	}
)

// Config defines runtime options for the MCP server.
type Config struct {
	Name    string
	Version string
	Logger  *zap.Logger
}

// Server serves the generate tool.
type Server struct {
	server *sdkmcp.Server
	logger *zap.Logger
}

// NewServer creates a Server with the generate tool registered.
func NewServer(config Config) *Server {
	name := config.Name
	if name == "" {
		name = defaultServerName
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	server := &Server{
		server: sdkmcp.NewServer(&sdkmcp.Implementation{
			Name:    name,
			Version: config.Version,
		}, nil),
		logger: logger,
	}
	sdkmcp.AddTool(server.server, &sdkmcp.Tool{
		Name:        ToolName,
		Description: toolDescription,
	}, server.handleGenerate)
	return server
}

// Run serves requests on transport until the client disconnects or ctx ends.
func (server *Server) Run(ctx context.Context, transport sdkmcp.Transport) error {
	if err := server.server.Run(ctx, transport); err != nil {
		return fmt.Errorf("run MCP server: %w", err)
	}
	return nil
}

func (server *Server) handleGenerate(ctx context.Context, req *sdkmcp.CallToolRequest, input GenerateInput) (*sdkmcp.CallToolResult, GenerateOutput, error) {
	options := stream.Options{
		Root:            strings.TrimSpace(input.Path),
		ExtraExclusions: input.Exclude,
		UseGitignore:    input.UseGitignore,
		Logger:          server.logger,
	}
	result, scanError := stream.Run(ctx, options, func(event stream.Event) error {
		if event.Kind == stream.EventKindLog && event.Message != nil {
			server.logger.Debug(event.Message.Message, zap.String("root", event.Path))
		}
		return nil
	})
	output := newGenerateOutput(result)
	if scanError != nil {
		return &sdkmcp.CallToolResult{IsError: true}, output, scanError
	}
	if input.IncludeDocument && result.DocumentWritten {
		content, readError := os.ReadFile(result.OutputPath)
		if readError != nil {
			return &sdkmcp.CallToolResult{IsError: true}, output, fmt.Errorf("read %s: %w", result.OutputPath, readError)
		}
		output.Document = string(content)
	}
	return nil, output, nil
}

func newGenerateOutput(result types.ScanResult) GenerateOutput {
	log := result.Log
	if log == nil {
		log = []string{}
	}
	return GenerateOutput{
		OutputPath:    result.OutputPath,
		Written:       result.DocumentWritten,
		IncludedCount: result.IncludedCount,
		State:         string(result.State),
		Message:       result.Message,
		Digest:        result.Digest,
		Log:           log,
	}
}
