package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/smartallies/incident/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// IncidentStyle colors an incident type by urgency.
func IncidentStyle(t domain.IncidentType) lipgloss.Style {
	switch t {
	case domain.IncidentEmergency:
		return StyleRed.Bold(true)
	case domain.IncidentFacility:
		return StyleYellow
	case domain.IncidentHuman:
		return StyleBlue
	default:
		return StyleDim
	}
}

// IncidentBadge renders "● EMERGENCY" style badges; unset types render as
// "● UNCLASSIFIED".
func IncidentBadge(t domain.IncidentType) string {
	label := string(t)
	if label == "" {
		label = "UNCLASSIFIED"
	}
	return IncidentStyle(t).Render("● " + label)
}

// StatePill renders a workflow state in a muted, readable form.
func StatePill(s domain.WorkflowState) string {
	text := strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
	switch s {
	case domain.StateEmergencyActive:
		return StyleRed.Render("[" + text + "]")
	case domain.StateReportReady, domain.StateCompleted:
		return StyleGreen.Render("[" + text + "]")
	default:
		return StyleDim.Render("[" + text + "]")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
