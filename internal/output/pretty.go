package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hamed0406/urlchecker/internal/domain"
)

func RenderPretty(results []domain.ProbeResult) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render("urlcheck")
	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	okStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warnStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	failStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	lines := []string{title, ""}
	failed := 0
	for i, r := range results {
		if r.Failed() {
			failed++
			line := fmt.Sprintf("%s %02d %s -> error: %s", failStyle.Render("FAIL"), i+1, r.URL, r.Error)
			lines = append(lines, rowStyle.Render(line))
			continue
		}

		label := okStyle.Render("OK  ")
		if *r.StatusCode >= 400 || !r.SSLValid {
			label = warnStyle.Render("WARN")
		}
		line := fmt.Sprintf("%s %02d %s -> %d %dms ip=%s ssl=%s",
			label, i+1, r.URL, *r.StatusCode, *r.ResponseTimeMS, r.IP, yesNo(r.SSLValid))
		if r.Redirected {
			line += " redirected"
		}
		lines = append(lines, rowStyle.Render(line))
	}

	lines = append(lines, "")
	summary := fmt.Sprintf("%d checked, %d failed", len(results), failed)
	if failed == 0 {
		lines = append(lines, okStyle.Render(summary))
	} else {
		lines = append(lines, failStyle.Render(summary))
	}
	return strings.Join(lines, "\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
