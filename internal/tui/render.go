package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatus renders the environment dashboard
func renderStatus(s Status) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700")).MarginTop(1)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7af"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(1)

	b.WriteString(titleStyle.Render("torchenv — Environment Status"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Torch"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("  Installed build: "))
	b.WriteString(valueStyle.Render(torchLine(s)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("  Package manager: "))
	if s.PipAvailable {
		b.WriteString(valueStyle.Render("available"))
	} else {
		b.WriteString(warnStyle.Render("not found"))
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("GPU"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("  Driver: "))
	if s.GPUReport.NVMLOk {
		b.WriteString(valueStyle.Render(gpuLine(s.GPUReport)))
	} else {
		b.WriteString(warnStyle.Render(gpuLine(s.GPUReport)))
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Paths"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("  Config dir: "))
	b.WriteString(valueStyle.Render(s.ConfigDir))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("  Log dir:    "))
	b.WriteString(valueStyle.Render(s.LogDir))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("  State dir:  "))
	b.WriteString(valueStyle.Render(s.StateDir))
	b.WriteString("\n")

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Refresh: r | Quit: q"))
	b.WriteString("\n")

	return b.String()
}
