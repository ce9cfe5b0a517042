package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smartallies/incident/internal/app"
	"github.com/smartallies/incident/internal/cli/formatter"
	"github.com/smartallies/incident/internal/contract"
)

func newChatCmd(a *App, opts *app.Options) *cobra.Command {
	var (
		sessionID string
		plain     bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Report an incident from the terminal",
		Long: `Start a conversation with the assistant in this process. The full-screen
interface is used on a terminal; piped input falls back to one line per turn.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.Build(cmd.Context(), *opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if sessionID == "" {
				sessionID = a.NewSessionID()
			}

			if plain || !a.IsInteractive() {
				return runLineChat(cmd.Context(), rt.Engine, sessionID, a.NewSessionID, a.In, a.Out)
			}

			// The TUI owns the terminal; keep log lines from tearing it.
			previous := rt.Level.Level()
			rt.Level.SetLevel(zap.ErrorLevel)
			defer rt.Level.SetLevel(previous)

			model := newChatModel(cmd.Context(), rt.Engine, sessionID, a.NewSessionID, formatter.NewMarkdownRenderer(0))
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "resume or name a session (default: new random id)")
	cmd.Flags().BoolVar(&plain, "plain", false, "use line mode even on a terminal")
	return cmd
}

// runLineChat is the non-interactive loop: one input line per turn.
func runLineChat(ctx context.Context, engine app.ChatUseCase, sessionID string, newID func() string, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, formatter.FormatWelcome(sessionID))

	scanner := bufio.NewScanner(in)
	var (
		actions []string
		image   string
	)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		input := parseInput(scanner.Text(), actions)
		switch input.kind {
		case inputEmpty:
			continue
		case inputQuit:
			return nil
		case inputReset:
			engine.Reset(sessionID)
			sessionID = newID()
			actions = nil
			fmt.Fprintln(out, formatter.Dim("Started a new session "+sessionID))
			continue
		case inputImage:
			image = input.text
			fmt.Fprintln(out, formatter.Dim("Image attached to your next message."))
			continue
		}

		resp := engine.Respond(ctx, contract.ChatRequest{SessionID: sessionID, Message: input.text, ImageURL: image})
		image = ""
		actions = resp.SuggestedActions

		fmt.Fprintln(out, formatter.FormatReply(resp, nil))
		if len(actions) > 0 {
			fmt.Fprintln(out, formatter.FormatActions(actions))
		}
	}
}
