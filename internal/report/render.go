// Package report renders a pipeline run for the terminal and exports
// its per-entry outcomes to CSV.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailgroom/internal/pipeline"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	stepStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	skippedStyle = lipgloss.NewStyle().Faint(true)
)

// Render formats a full run result: the summary line, the final lists,
// and one section per executed step.
func Render(result *pipeline.Result) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Clean summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf(
		"  %d processed, %d remaining, %d step(s) executed\n\n",
		result.Summary.TotalProcessed,
		result.Summary.TotalRemaining,
		result.Summary.StepsExecuted,
	))

	writeList(&b, "To", result.To)
	writeList(&b, "Cc", result.Cc)
	writeList(&b, "Bcc", result.Bcc)

	for _, action := range result.Actions {
		b.WriteString("\n")
		b.WriteString(renderAction(action))
	}

	return b.String()
}

func writeList(b *strings.Builder, label string, entries []string) {
	if len(entries) == 0 {
		return
	}
	b.WriteString(titleStyle.Render(label))
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString("  " + e + "\n")
	}
}

// renderAction formats one step's action record.
func renderAction(action pipeline.ActionRecord) string {
	var b strings.Builder

	header := stepStyle.Render(action.Step)
	if action.Skipped {
		header += " " + skippedStyle.Render("(skipped)")
	} else {
		header += mutedStyle.Render(fmt.Sprintf(
			"  processed %d, changed %d", action.Processed, action.Changed,
		))
	}
	b.WriteString(header + "\n")

	for _, r := range action.Removed {
		b.WriteString(fmt.Sprintf(
			"  %s %s: %s (%s)\n",
			errStyle.Render("removed"), r.Field, r.Entry, r.Reason,
		))
	}

	for _, o := range action.Outcomes {
		switch o.Status {
		case pipeline.StatusWarning:
			line := fmt.Sprintf(
				"  %s %s: %s (%s)",
				warnStyle.Render("warning"), o.Field, o.Entry, o.Reason,
			)
			if o.Suggestion != "" {
				line += mutedStyle.Render(" did you mean " + o.Suggestion + "?")
			}
			b.WriteString(line + "\n")
		case pipeline.StatusError:
			// Already reported through Removed.
		default:
			// Valid entries are not worth a line each.
		}
	}

	if action.External != nil {
		ext := action.External
		b.WriteString(fmt.Sprintf(
			"  %s of %d recipients, %d internal, %d external across %d domain(s)\n",
			okStyle.Render("flagged"), ext.Total, ext.Internal, ext.External,
			len(ext.Domains),
		))
		for _, domain := range sortedDomains(ext.Domains) {
			b.WriteString(fmt.Sprintf(
				"    %s: %s\n", domain, strings.Join(ext.Domains[domain], ", "),
			))
		}
	}

	return b.String()
}

// sortedDomains returns the external report's domains in a stable order.
func sortedDomains(groups map[string][]string) []string {
	domains := make([]string, 0, len(groups))
	for d := range groups {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
