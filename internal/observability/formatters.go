// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/internship-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 76
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out   io.Writer
	box   lipgloss.Style
	title lipgloss.Style
	label lipgloss.Style
	good  lipgloss.Style
	warn  lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer. Colors are
// used only when the writer is a color terminal.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out: out,
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1).
			Width(boxWidth),
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label: r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		good:  r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// printBox prints a bordered box with a title line above the content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title, content string) {
	body := p.title.Render(title) + "\n\n" + strings.TrimRight(content, "\n")
	fmt.Fprintln(p.out, p.box.Render(body))
}

func (p *Printer) field(sb *strings.Builder, name, value string) {
	sb.WriteString(p.label.Render(fmt.Sprintf("%-10s", name+":")))
	sb.WriteString(" " + value + "\n")
}

// writeList writes up to limit items as bullets, noting how many were cut.
func writeList(sb *strings.Builder, items []string, limit int) {
	for _, item := range items[:min(len(items), limit)] {
		sb.WriteString("  • " + truncate(item, 52) + "\n")
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintExtractedText outputs provenance and a preview of extracted text.
func (p *Printer) PrintExtractedText(text *types.ExtractedText) {
	if text == nil {
		return
	}

	var sb strings.Builder
	p.field(&sb, "Type", text.MediaType)
	p.field(&sb, "Size", fmt.Sprintf("%d bytes", text.SourceBytes))
	if text.Pages > 0 {
		p.field(&sb, "Pages", fmt.Sprintf("%d", text.Pages))
	}
	p.field(&sb, "Chars", fmt.Sprintf("%d", len([]rune(text.Text))))
	p.field(&sb, "Hash", truncate(text.Hash, 19))
	sb.WriteString("\n")

	lines := strings.Split(text.Text, "\n")
	for _, line := range lines[:min(len(lines), maxItemsToShow)] {
		sb.WriteString(truncate(line, 60) + "\n")
	}
	if len(lines) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... %d more lines\n", len(lines)-maxItemsToShow))
	}

	p.printBox("EXTRACTED TEXT", sb.String())
}

// PrintResume outputs a human-readable summary of the structured resume.
func (p *Printer) PrintResume(resume *types.StructuredResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	p.field(&sb, "Name", resume.Name)
	p.field(&sb, "Email", resume.Email)
	p.field(&sb, "Degree", fmt.Sprintf("%s (%s)", resume.Degree, resume.DegreeLevel.Label()))
	p.field(&sb, "Graduates", resume.GraduationDate)
	if gpa, ok := resume.GPA.Get(); ok {
		p.field(&sb, "GPA", fmt.Sprintf("%.2f", gpa))
	}
	if auth, ok := resume.WorkAuthorization.Get(); ok {
		p.field(&sb, "Work auth", string(auth))
	}
	sb.WriteString("\n")

	if len(resume.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills (%d):\n", len(resume.Skills)))
		sb.WriteString("  " + truncate(strings.Join(resume.Skills, ", "), 120) + "\n\n")
	}

	if len(resume.Experience) > 0 {
		sb.WriteString("Experience:\n")
		entries := make([]string, 0, len(resume.Experience))
		for _, e := range resume.Experience {
			entries = append(entries, fmt.Sprintf("%s at %s", e.Role, e.Company))
		}
		writeList(&sb, entries, maxItemsToShow)
		sb.WriteString("\n")
	}

	if len(resume.Projects) > 0 {
		sb.WriteString("Projects:\n")
		names := make([]string, 0, len(resume.Projects))
		for _, pr := range resume.Projects {
			names = append(names, pr.Name)
		}
		writeList(&sb, names, 3)
	}

	p.printBox("STRUCTURED RESUME", sb.String())
}

// PrintAnalysis outputs a skills-gap analysis for one job.
func (p *Printer) PrintAnalysis(job *types.JobListing, analysis *types.SkillsAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	if job != nil {
		p.field(&sb, "Job", fmt.Sprintf("%s at %s", job.Title, job.Company))
		sb.WriteString("\n")
	}

	if len(analysis.AlignedSkills) > 0 {
		sb.WriteString(p.good.Render(fmt.Sprintf("Aligned (%d):", len(analysis.AlignedSkills))) + "\n")
		items := make([]string, 0, len(analysis.AlignedSkills))
		for _, s := range analysis.AlignedSkills {
			items = append(items, fmt.Sprintf("%s [%s, from %s]", s.Skill, s.Relevance, s.MatchedFrom))
		}
		writeList(&sb, items, maxItemsToShow)
		sb.WriteString("\n")
	}

	if len(analysis.MissingSkills) > 0 {
		sb.WriteString(p.warn.Render(fmt.Sprintf("Missing (%d):", len(analysis.MissingSkills))) + "\n")
		items := make([]string, 0, len(analysis.MissingSkills))
		for _, s := range analysis.MissingSkills {
			items = append(items, fmt.Sprintf("%s [%s]", s.Skill, s.Priority))
		}
		writeList(&sb, items, maxItemsToShow)
		sb.WriteString("\n")
	}

	if len(analysis.ImprovementSuggestions) > 0 {
		sb.WriteString("Suggestions:\n")
		items := make([]string, 0, len(analysis.ImprovementSuggestions))
		for _, s := range analysis.ImprovementSuggestions {
			items = append(items, s.Suggestion)
		}
		writeList(&sb, items, 3)
		sb.WriteString("\n")
	}

	sb.WriteString(analysis.OverallFit)
	p.printBox("SKILLS ANALYSIS", sb.String())
}

// PrintMatches outputs ranked matches with their score breakdowns. jobs is
// used to show titles; matches whose job is absent show the job key.
func (p *Printer) PrintMatches(matches []*types.MatchResult, jobs []types.JobListing) {
	if len(matches) == 0 {
		p.printBox("RANKED MATCHES", "No jobs could be scored.")
		return
	}

	byKey := make(map[string]*types.JobListing, len(jobs))
	for i := range jobs {
		byKey[jobs[i].Key()] = &jobs[i]
	}

	var sb strings.Builder
	count := min(len(matches), maxItemsToShow*2)
	for i, m := range matches[:count] {
		name := m.JobID
		if job, ok := byKey[m.JobID]; ok {
			name = fmt.Sprintf("%s at %s", job.Title, job.Company)
		}
		score := fmt.Sprintf("%3d", m.Score)
		if m.Analysis != nil {
			score += " *"
		}
		sb.WriteString(fmt.Sprintf("#%-2d %s  %s\n", i+1, p.label.Render(score), truncate(name, 44)))
		b := m.Breakdown
		sb.WriteString(fmt.Sprintf("    skills %d · experience %d · education %d · eligibility %d\n",
			b.Skills, b.Experience, b.Education, b.Eligibility))
		if len(m.MatchingSkills) > 0 {
			sb.WriteString("    matched: " + truncate(strings.Join(m.MatchingSkills, ", "), 48) + "\n")
		}
	}
	if len(matches) > count {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs\n", len(matches)-count))
	}

	p.printBox("RANKED MATCHES", sb.String())
}

// PrintFailures lists jobs that were skipped or could not be analyzed.
func (p *Printer) PrintFailures(title string, failures map[string]string) {
	if len(failures) == 0 {
		return
	}

	var sb strings.Builder
	for _, key := range slices.Sorted(maps.Keys(failures)) {
		reason := failures[key]
		sb.WriteString(p.warn.Render("⚠ "+key) + "\n")
		sb.WriteString("  " + truncate(reason, 56) + "\n")
	}
	p.printBox(title, sb.String())
}
