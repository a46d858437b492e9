// Package observability provides structured logging, Prometheus metrics and
// formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/profile-evaluator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintProfile outputs a summary of a normalized profile
func (p *Printer) PrintProfile(profile *types.NormalizedProfile, source string) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	if source != "" {
		sb.WriteString(fmt.Sprintf("Parser:   %s\n", source))
	}
	sb.WriteString(fmt.Sprintf("Roles:    %d (%d bullets)\n", len(profile.Roles), profile.BulletCount()))
	sb.WriteString(fmt.Sprintf("Schools:  %d\n", len(profile.Education)))
	sb.WriteString(fmt.Sprintf("Extras:   %d\n", len(profile.Extracurriculars)))
	if t := profile.Tests; t != nil {
		sb.WriteString(fmt.Sprintf("Test:     %s\n", describeTest(t)))
	}

	count := min(len(profile.Roles), maxItemsToShow)
	if count > 0 {
		sb.WriteString("\n")
	}
	for i := 0; i < count; i++ {
		role := profile.Roles[i]
		sb.WriteString(fmt.Sprintf("• %s\n", joinNonEmpty(" @ ", role.Title, role.Company)))
		if role.Start != "" || role.End != "" {
			end := role.End
			if end == "" {
				end = "present"
			}
			sb.WriteString(fmt.Sprintf("  %s to %s\n", role.Start, end))
		}
	}
	if len(profile.Roles) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Roles)-maxItemsToShow))
	}

	p.printBox("NORMALIZED PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

func describeTest(t *types.Tests) string {
	parts := []string{}
	if t.Type != "" {
		parts = append(parts, string(t.Type))
	}
	if t.Actual != nil {
		parts = append(parts, fmt.Sprintf("%d", *t.Actual))
	}
	if t.Target != nil {
		parts = append(parts, fmt.Sprintf("(target %d)", *t.Target))
	}
	if t.Descriptor != "" {
		parts = append(parts, t.Descriptor)
	}
	return strings.Join(parts, " ")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return "(untitled role)"
	}
	return strings.Join(kept, sep)
}

// PrintAnalysis outputs the bullet-level detector summary
func (p *Printer) PrintAnalysis(out *types.AnalyzeOutput) {
	if out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Metric density:   %.2f (confidence %.2f)\n", out.Metrics.Density, out.Metrics.Confidence))
	sb.WriteString(fmt.Sprintf("Strong verbs:     %.0f%%\n", out.Verbs.StrongShare*100))
	sb.WriteString(fmt.Sprintf("Passive bullets:  %d\n", out.Verbs.PassiveCount))
	sb.WriteString(fmt.Sprintf("Avg words:        %.1f (%.0f%% long)\n", out.Length.AvgWords, out.Length.LongShare*100))
	if out.Keywords.Track != "" {
		sb.WriteString(fmt.Sprintf("Keywords:         %.0f%% of %s\n", out.Keywords.Coverage*100, out.Keywords.Track))
		if len(out.Keywords.Missing) > 0 {
			sb.WriteString(fmt.Sprintf("  missing: %s\n", strings.Join(out.Keywords.Missing, ", ")))
		}
	}
	sb.WriteString(fmt.Sprintf("Duplicate pairs:  %d\n", len(out.Duplicates.Pairs)))
	for _, issue := range out.Consistency.Issues {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", issue.Detail))
	}

	p.printBox("BULLET ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
	p.printFixes(out.TopBulletsToFix)
}

// printFixes outputs the bullets most worth rewriting
func (p *Printer) printFixes(fixes []types.BulletFix) {
	if len(fixes) == 0 {
		return
	}

	var sb strings.Builder
	for i, fix := range fixes {
		sb.WriteString(fmt.Sprintf("#%d  %s[%d]  score %d\n", i+1, fix.RoleID, fix.Index, fix.Score))
		sb.WriteString(fmt.Sprintf("    %s\n", fix.Text))
		sb.WriteString(fmt.Sprintf("    %s", strings.Join(fix.Reasons, "; ")))
		if i < len(fixes)-1 {
			sb.WriteString("\n\n")
		}
	}

	p.printBox("TOP BULLETS TO FIX", sb.String())
}

// PrintEvaluation outputs readiness, dimension scores and the plan
func (p *Printer) PrintEvaluation(out *types.EvaluationOutput) {
	if out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Readiness:  %s (%.1f / 10)\n", out.Readiness.Band, out.Readiness.Score))
	sb.WriteString(fmt.Sprintf("Persona:    %s\n", out.Persona))
	if out.Track != "" {
		sb.WriteString(fmt.Sprintf("Track:      %s\n", out.Track))
	}
	sb.WriteString("\n")
	for _, dim := range types.Dimensions {
		score := out.Dimensions.Get(dim)
		sb.WriteString(fmt.Sprintf("%-22s %2d  %s\n", dim, score, strings.Repeat("■", score)))
	}

	p.printBox("MBA READINESS", strings.TrimSuffix(sb.String(), "\n"))
	p.printFixes(out.Gaps.TopBulletsToFix)
	p.printPlan(out.Gaps)

	if len(out.Trace.RulesFired) > 0 {
		var rules strings.Builder
		for i, r := range out.Trace.RulesFired {
			rules.WriteString(fmt.Sprintf("• %s\n  %s", r.ID, r.Summary))
			if i < len(out.Trace.RulesFired)-1 {
				rules.WriteString("\n")
			}
		}
		p.printBox("RULES FIRED", rules.String())
	}
}

func (p *Printer) printPlan(gaps types.Gaps) {
	var sb strings.Builder
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(title + ":\n")
		for _, item := range items {
			sb.WriteString(fmt.Sprintf("  • %s\n", item))
		}
	}

	section("Weakest", gaps.WeakestDimensions)
	section("Next 6 weeks", gaps.Next6Weeks)
	section("Next 90 days", gaps.Next90Days)
	section("Essay angles", gaps.EssayAngles)

	if sb.Len() == 0 {
		return
	}
	p.printBox("PLAN", strings.TrimSuffix(sb.String(), "\n"))
}
