package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const rule = "--------------------------------"

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	ruleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	soberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	tipsyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	drunkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	barStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// permilleStyle colours a concentration by common legal thresholds:
// 0.3 ‰, 0.5 ‰ and 1.1 ‰.
func permilleStyle(p float64) lipgloss.Style {
	switch {
	case p < 0.3:
		return soberStyle
	case p < 0.5:
		return tipsyStyle
	case p < 1.1:
		return drunkStyle
	default:
		return dangerStyle
	}
}

func formatPermille(p float64) string {
	return permilleStyle(p).Render(fmt.Sprintf("%.2f ‰", p))
}
