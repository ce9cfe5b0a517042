package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartallies/incident/internal/app"
	"github.com/smartallies/incident/internal/cli/formatter"
	"github.com/smartallies/incident/internal/intelligence"
	"github.com/smartallies/incident/internal/llm"
)

const checkTimeout = 30 * time.Second

func newCheckCmd(a *App, opts *app.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration and the completion backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.Build(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
			defer cancel()
			return runCheck(ctx, rt, a.Out)
		},
	}
}

func runCheck(ctx context.Context, rt *app.Runtime, out io.Writer) error {
	cfg := rt.LLMConfig
	fmt.Fprintln(out, formatter.Header("Backend"))
	fmt.Fprintf(out, "  provider  %s\n", cfg.Provider)
	fmt.Fprintf(out, "  model     %s\n", cfg.Model)
	if cfg.Endpoint != "" {
		fmt.Fprintf(out, "  endpoint  %s\n", cfg.Endpoint)
	}

	err := probe(ctx, rt.Client)
	if err != nil {
		fmt.Fprintf(out, "  status    %s\n", formatter.StyleRed.Render("unavailable: "+err.Error()))
		return fmt.Errorf("backend check failed: %w", err)
	}
	fmt.Fprintf(out, "  status    %s\n", formatter.StyleGreen.Render("ok"))
	return nil
}

// probe uses the backend's health endpoint when it has one and otherwise
// spends one tiny affirmation call.
func probe(ctx context.Context, client llm.LLMClient) error {
	if hc, ok := client.(llm.HealthChecker); ok {
		if !hc.Available(ctx) {
			return llm.ErrOllamaUnavailable
		}
		return nil
	}
	_, err := intelligence.NewAffirmationService(client).IsAffirmative(ctx, "yes")
	return err
}
