// Package cli implements the incident command line: the HTTP server, an
// interactive chat client and a backend check.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/smartallies/incident/internal/app"
)

// App carries the process-level hooks the commands depend on.
type App struct {
	Build         func(ctx context.Context, opts app.Options) (*app.Runtime, error)
	IsInteractive func() bool
	NewSessionID  func() string
	In            io.Reader
	Out           io.Writer
}

func (a *App) defaults() {
	if a.Build == nil {
		a.Build = app.Build
	}
	if a.IsInteractive == nil {
		a.IsInteractive = func() bool { return false }
	}
	if a.NewSessionID == nil {
		a.NewSessionID = uuid.NewString
	}
	if a.In == nil {
		a.In = os.Stdin
	}
	if a.Out == nil {
		a.Out = os.Stdout
	}
}

// NewRootCmd creates the top-level "incident" command.
func NewRootCmd(a *App) *cobra.Command {
	a.defaults()
	opts := &app.Options{}

	root := &cobra.Command{
		Use:           "incident",
		Short:         "Conversational incident reporting assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.Out)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", os.Getenv("INCIDENT_CONFIG"), "path to YAML config file")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.Provider, "provider", "", "completion backend (ollama, openai, anthropic, gemini)")
	flags.StringVar(&opts.Model, "model", "", "model name for the completion backend")

	root.AddCommand(
		newServeCmd(a, opts),
		newChatCmd(a, opts),
		newCheckCmd(a, opts),
	)
	return root
}
