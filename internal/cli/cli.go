// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/fang"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/codedoc/internal/config"
	"github.com/temirov/codedoc/internal/output"
	"github.com/temirov/codedoc/internal/services/clipboard"
	"github.com/temirov/codedoc/internal/services/mcp"
	"github.com/temirov/codedoc/internal/services/stream"
	"github.com/temirov/codedoc/internal/tokenizer"
	"github.com/temirov/codedoc/internal/types"
	"github.com/temirov/codedoc/internal/utils"
)

const (
	exclusionFlagName     = "e"
	excludeFromFlagName   = "exclude-from"
	gitignoreFlagName     = "gitignore"
	formatFlagName        = "format"
	copyFlagName          = "copy"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	progressFlagName      = "progress"
	configFlagName        = "config"
	verboseFlagName       = "verbose"
	globalFlagName        = "global"
	forceFlagName         = "force"
	defaultPath           = "."
	rootUse               = "codedoc"
	rootShortDescription  = "Generate a single markdown document describing a codebase"
	rootLongDescription   = `codedoc scans a directory and writes codebase.md at its root.
The document holds a directory tree of every source-like file followed by the
contents of each file in a language-tagged code block.
Binary assets, build output and dependency folders are excluded automatically.`
	generateUse              = types.CommandGenerate + " [path]"
	generateAlias            = "g"
	generateShortDescription = "write codebase.md for a directory (" + generateAlias + ")"
	generateLongDescription  = `Scan a directory (default: the working directory) and write codebase.md at its root.
Use -e to add exclusion tokens, --format to select raw or json event output,
--tokens to estimate the token cost and --copy to place the document on the clipboard.`
	generateUsageExample = `  # Document the current directory
  codedoc generate

  # Exclude tests and docs, honour .gitignore
  codedoc generate -e "test,docs" --gitignore ./service

  # Stream machine-readable events
  codedoc g --format json .`
	initUse              = types.CommandInit
	initShortDescription = "write a default " + utils.ConfigFileName
	initLongDescription  = `Write the default configuration file to the working directory,
or to ~/` + utils.GlobalConfigDirectoryName + ` with --global.`
	mcpUse              = types.CommandMCP
	mcpShortDescription = "serve document generation over MCP on stdio"
	mcpLongDescription  = `Run a Model Context Protocol server on standard input and output.
The server exposes the ` + mcp.ToolName + ` tool.`

	exclusionFlagDescription   = "exclusion tokens, separated by commas, semicolons or spaces (repeatable)"
	excludeFromFlagDescription = "read exclusion tokens from a file"
	gitignoreFlagDescription   = "also skip paths matched by the root .gitignore"
	formatFlagDescription      = "event output format (raw or json)"
	copyFlagDescription        = "copy the generated document to the clipboard"
	tokensFlagDescription      = "estimate the token count of the generated document"
	modelFlagDescription       = "tokenizer model to use for token counting"
	progressFlagDescription    = "draw a progress bar on stderr (raw format only)"
	configFlagDescription      = "path to a configuration file"
	verboseFlagDescription     = "log scan state transitions"
	globalFlagDescription      = "write the configuration under the home directory"
	forceFlagDescription       = "overwrite an existing configuration file"

	invalidFormatMessage        = "invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	loadConfigurationFormat     = "load configuration: %w"
	loadExclusionFileFormat     = "load exclusions: %w"
	tokenizerErrorFormat        = "initialize tokenizer: %w"
	flushOutputFormat           = "flush output: %w"
	copyWarningFormat           = "Warning: clipboard copy skipped: %v"
	configurationWrittenFormat  = "Configuration written to %s\n"
)

type dependencies struct {
	newLogger func(verbose bool) (*zap.Logger, error)
	copier    clipboard.Copier
}

func defaultDependencies() dependencies {
	return dependencies{
		newLogger: utils.NewApplicationLogger,
		copier:    clipboard.NewService(),
	}
}

type application struct {
	dependencies
	verbose bool
	logger  *zap.Logger
}

// Execute runs the codedoc application.
func Execute(ctx context.Context) error {
	rootCommand := createRootCommand(defaultDependencies())
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return fang.Execute(
		ctx,
		rootCommand,
		fang.WithVersion(utils.GetApplicationVersion()),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	)
}

func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON:
		return true
	default:
		return false
	}
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	app := &application{dependencies: deps}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			logger, loggerError := app.newLogger(app.verbose)
			if loggerError != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
			}
			app.logger = logger
			return nil
		},
		PersistentPostRun: func(command *cobra.Command, arguments []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&app.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.AddCommand(
		createGenerateCommand(app),
		createInitCommand(),
		createMCPCommand(app),
	)
	rootCommand.InitDefaultHelpCmd()
	return rootCommand
}

// generateFlags stores the generate command's flag values.
type generateFlags struct {
	exclusionArguments []string
	excludeFrom        string
	useGitignore       bool
	format             string
	copyDocument       bool
	tokens             bool
	model              string
	progress           bool
	configPath         string
}

// generateSettings is the outcome of merging configuration with explicit flags.
type generateSettings struct {
	root         string
	exclusions   []string
	useGitignore bool
	format       string
	copyDocument bool
	tokens       bool
	model        string
	progress     bool
}

func createGenerateCommand(app *application) *cobra.Command {
	var flags generateFlags

	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			settings, settingsError := resolveGenerateSettings(command, flags, arguments)
			if settingsError != nil {
				return settingsError
			}
			return app.runGenerate(command, settings)
		},
	}

	commandFlags := generateCommand.Flags()
	commandFlags.StringArrayVarP(&flags.exclusionArguments, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	commandFlags.StringVar(&flags.excludeFrom, excludeFromFlagName, utils.EmptyString, excludeFromFlagDescription)
	commandFlags.StringVar(&flags.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	commandFlags.StringVar(&flags.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	commandFlags.StringVar(&flags.configPath, configFlagName, utils.EmptyString, configFlagDescription)
	registerToggleFlag(commandFlags, &flags.useGitignore, gitignoreFlagName, false, gitignoreFlagDescription)
	registerToggleFlag(commandFlags, &flags.copyDocument, copyFlagName, false, copyFlagDescription)
	registerToggleFlag(commandFlags, &flags.tokens, tokensFlagName, false, tokensFlagDescription)
	registerToggleFlag(commandFlags, &flags.progress, progressFlagName, true, progressFlagDescription)
	return generateCommand
}

// resolveGenerateSettings layers explicitly set flags over the configuration
// files over built-in defaults.
func resolveGenerateSettings(command *cobra.Command, flags generateFlags, arguments []string) (generateSettings, error) {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return generateSettings{}, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
	})
	if configurationError != nil {
		return generateSettings{}, fmt.Errorf(loadConfigurationFormat, configurationError)
	}
	defaults := applicationConfiguration.Generate
	changed := command.Flags().Changed

	settings := generateSettings{
		root:         defaultPath,
		format:       types.FormatRaw,
		useGitignore: config.BoolOrDefault(defaults.UseGitignore, false),
		copyDocument: config.BoolOrDefault(defaults.Clipboard, false),
		tokens:       config.BoolOrDefault(defaults.Tokens.Enabled, false),
		progress:     config.BoolOrDefault(defaults.Progress, true),
		model:        tokenizer.DefaultModel,
	}
	if len(arguments) > 0 {
		settings.root = arguments[0]
	}
	if defaults.Format != utils.EmptyString {
		settings.format = defaults.Format
	}
	if changed(formatFlagName) {
		settings.format = flags.format
	}
	settings.format = strings.ToLower(strings.TrimSpace(settings.format))
	if !isSupportedFormat(settings.format) {
		return generateSettings{}, fmt.Errorf(invalidFormatMessage, settings.format)
	}
	if defaults.Tokens.Model != utils.EmptyString {
		settings.model = defaults.Tokens.Model
	}
	if changed(modelFlagName) {
		settings.model = flags.model
	}
	if changed(gitignoreFlagName) {
		settings.useGitignore = flags.useGitignore
	}
	if changed(copyFlagName) {
		settings.copyDocument = flags.copyDocument
	}
	if changed(tokensFlagName) {
		settings.tokens = flags.tokens
	}
	if changed(progressFlagName) {
		settings.progress = flags.progress
	}

	exclusionFile := defaults.ExcludeFile
	if changed(excludeFromFlagName) {
		exclusionFile = flags.excludeFrom
	}
	settings.exclusions = append(settings.exclusions, defaults.Exclude...)
	if exclusionFile != utils.EmptyString {
		if !filepath.IsAbs(exclusionFile) {
			exclusionFile = filepath.Join(workingDirectory, exclusionFile)
		}
		fileTokens, exclusionFileError := config.LoadExclusionFile(exclusionFile)
		if exclusionFileError != nil {
			return generateSettings{}, fmt.Errorf(loadExclusionFileFormat, exclusionFileError)
		}
		settings.exclusions = append(settings.exclusions, fileTokens...)
	}
	settings.exclusions = append(settings.exclusions, config.ParseExclusionArguments(flags.exclusionArguments)...)
	return settings, nil
}

func (app *application) runGenerate(command *cobra.Command, settings generateSettings) error {
	options := stream.Options{
		Root:            settings.root,
		ExtraExclusions: settings.exclusions,
		UseGitignore:    settings.useGitignore,
		Logger:          app.logger,
	}
	if settings.tokens {
		counter, resolvedModel, tokenizerError := tokenizer.NewCounter(tokenizer.Config{Model: settings.model})
		if tokenizerError != nil {
			return fmt.Errorf(tokenizerErrorFormat, tokenizerError)
		}
		options.TokenCounter = counter
		options.TokenModel = resolvedModel
	}

	renderer := app.newRenderer(command.OutOrStdout(), command.ErrOrStderr(), settings)
	result, scanError := stream.Run(command.Context(), options, renderer.Handle)
	if flushError := renderer.Flush(); flushError != nil && scanError == nil {
		return fmt.Errorf(flushOutputFormat, flushError)
	}
	if scanError != nil {
		return scanError
	}

	if settings.copyDocument && result.DocumentWritten {
		if copyError := clipboard.CopyDocument(app.copier, result.OutputPath); copyError != nil {
			if !errors.Is(copyError, clipboard.ErrUnsupported) {
				return copyError
			}
			app.logger.Warn(fmt.Sprintf(copyWarningFormat, copyError))
		}
	}
	return nil
}

func (app *application) newRenderer(stdout io.Writer, stderr io.Writer, settings generateSettings) output.StreamRenderer {
	if settings.format == types.FormatJSON {
		return output.NewJSONStreamRenderer(stdout)
	}
	var progressWriter io.Writer
	if settings.progress {
		progressWriter = stderr
	}
	return output.NewRawStreamRenderer(stdout, progressWriter, app.logger)
}

func createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  force,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, destinationPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

func createMCPCommand(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   mcpUse,
		Short: mcpShortDescription,
		Long:  mcpLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			server := mcp.NewServer(mcp.Config{
				Name:    rootUse,
				Version: utils.GetApplicationVersion(),
				Logger:  app.logger,
			})
			return server.Run(command.Context(), &sdkmcp.StdioTransport{})
		},
	}
}
