package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/quocvuong92/ai-terminal/internal/api"
	"github.com/quocvuong92/ai-terminal/internal/config"
	"github.com/quocvuong92/ai-terminal/internal/constants"
	"github.com/quocvuong92/ai-terminal/internal/display"
	"github.com/quocvuong92/ai-terminal/internal/logging"
	"github.com/quocvuong92/ai-terminal/internal/session"
)

var logger = logging.Named("commands")

// App holds the parsed flags and the collaborators the commands run with
type App struct {
	start      bool
	terminal   bool
	helpAI     bool
	build      bool
	initConfig bool
	configPath string

	stdin  *os.File
	out    io.Writer
	errOut io.Writer

	// reader and client replace the terminal input and the completion
	// client, nil means the real ones
	reader session.LineReader
	client api.AIClient

	exitCode int
}

// NewApp creates an App wired to the process streams
func NewApp() *App {
	return &App{
		stdin:  os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// Execute runs the root command and exits with its status
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Unexpected failure", fmt.Errorf("%v", r))
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := NewApp().Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// Run parses args, performs the selected behaviour and returns the exit
// status
func (app *App) Run(ctx context.Context, args []string) int {
	logging.ConfigureFromEnv()

	rootCmd := app.newRootCmd()
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		p := display.NewPrinter(app.errOut, !color.NoColor)
		p.ShowWarning(err.Error())
		fmt.Fprintln(app.out)
		app.usage(rootCmd)
		return 1
	}
	return app.exitCode
}

func (app *App) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   constants.AppName + " [CMD]",
		Short: "An AI-assisted terminal helper for learning the shell",
		Long: `tool runs shell commands behind a safety check and asks an AI model to
explain commands, suggest commands for a task or diagnose errors.

Examples:
  tool --terminal                    # Interactive terminal helper
  tool -h                            # One question to the AI helper
  tool --terminal --config ./.toolrc # Use an explicit config file
  tool --init-config                 # Write a commented config file`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.run(cmd)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVar(&app.start, "start", false, "Starts the app")
	flags.BoolVarP(&app.terminal, "terminal", "t", false, "Runs the interactive terminal helper")
	flags.BoolVarP(&app.helpAI, "help-ai", "h", false, "Asks the AI helper one question")
	flags.BoolVar(&app.build, "build", false, "Builds the app")
	flags.BoolVar(&app.initConfig, "init-config", false, "Writes a commented config file to the user config directory")
	flags.StringVar(&app.configPath, "config", "", "Loads this config file instead of searching for one")
	rootCmd.MarkFlagsMutuallyExclusive("start", "terminal", "help-ai", "build", "init-config")

	rootCmd.SetOut(app.out)
	rootCmd.SetErr(app.errOut)
	rootCmd.SetUsageFunc(func(c *cobra.Command) error {
		app.usage(c)
		return nil
	})
	rootCmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		fmt.Fprintln(app.out, c.Long)
		app.usage(c)
	})
	return rootCmd
}

func (app *App) usage(c *cobra.Command) {
	fmt.Fprintf(app.out, "\n%s\n%s\n", c.UseLine(), c.Flags().FlagUsages())
}

func (app *App) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	switch {
	case app.start:
		app.runStart()
	case app.terminal:
		app.exitCode = app.runTerminal(ctx)
	case app.helpAI:
		app.runAIHelp(ctx)
	case app.build:
		fmt.Fprintln(app.out, "building the app!")
	case app.initConfig:
		app.exitCode = app.runInitConfig()
	default:
		app.usage(cmd)
	}
	return nil
}

func (app *App) loadConfig() config.Config {
	return config.Load(app.configPath, app.out)
}

func (app *App) printer(cfg config.Config) *display.Printer {
	return display.NewPrinter(app.out, cfg.EnableColors && !color.NoColor)
}

func (app *App) lineReader() session.LineReader {
	if app.reader != nil {
		return app.reader
	}
	return session.NewLineReader(app.stdin, app.out)
}
