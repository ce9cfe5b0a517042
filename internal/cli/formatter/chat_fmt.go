package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/smartallies/incident/internal/contract"
)

const replyWrapWidth = 88

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// NewMarkdownRenderer returns a glamour renderer wrapped at width. A nil
// renderer (on error) makes FormatReply fall back to plain wrapped text.
func NewMarkdownRenderer(width int) *glamour.TermRenderer {
	if width <= 0 {
		width = replyWrapWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// FormatWelcome is printed once when a chat starts.
func FormatWelcome(sessionID string) string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("Incident reporting assistant"))
	b.WriteString("\n")
	b.WriteString(Dim("Session " + sessionID))
	b.WriteString("\n")
	b.WriteString(Dim("Describe what happened. /image <url> attaches a picture, /reset starts over, /quit exits."))
	return b.String()
}

// FormatUser echoes a user turn into the transcript.
func FormatUser(text string) string {
	return StylePurple.Render("you ") + Dim("❯ ") + text
}

// FormatReply renders the assistant's reply with its incident badge and
// state. The message is rendered as markdown when renderer is non-nil.
func FormatReply(resp *contract.ChatResponse, renderer *glamour.TermRenderer) string {
	var b strings.Builder
	b.WriteString(IncidentBadge(resp.IncidentType))
	b.WriteString(" ")
	b.WriteString(StatePill(resp.WorkflowState))
	b.WriteString("\n")

	body := strings.TrimSpace(resp.Message)
	if renderer != nil {
		if rendered, err := renderer.Render(markdownSafe(body)); err == nil {
			body = strings.Trim(rendered, "\n")
		}
	} else {
		body = wrapText(body, replyWrapWidth)
	}
	b.WriteString(body)

	if summary, ok := resp.Metadata[contract.MetaSummary].(string); ok && summary != "" {
		b.WriteString("\n")
		b.WriteString(RenderBox("Report", wrapText(summary, replyWrapWidth-6)))
	}
	return b.String()
}

// FormatActions lists suggested replies with 1-based numbers.
func FormatActions(actions []string) string {
	if len(actions) == 0 {
		return ""
	}
	var b strings.Builder
	for i, a := range actions {
		fmt.Fprintf(&b, "  %s %s\n", StyleGreen.Render(fmt.Sprintf("%d)", i+1)), a)
	}
	return strings.TrimRight(b.String(), "\n")
}

// markdownSafe keeps single line breaks in replies; markdown would
// otherwise join consecutive lines into one paragraph.
func markdownSafe(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" && i < len(lines)-1 && lines[i+1] != "" && !strings.HasPrefix(strings.TrimSpace(lines[i+1]), "•") {
			lines[i] = line + "  "
		}
	}
	return strings.ReplaceAll(strings.Join(lines, "\n"), "• ", "- ")
}

func wrapText(text string, width int) string {
	if width <= 0 {
		return strings.TrimSpace(text)
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			if len(current)+1+len(word) <= width {
				current += " " + word
				continue
			}
			out = append(out, current)
			current = word
		}
		out = append(out, current)
	}
	return strings.Join(out, "\n")
}
