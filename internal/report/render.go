package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aymerick/raymond"
	"github.com/mattn/go-runewidth"
)

// WriteJSON writes the machine-readable report.
func (r *MigrationReport) WriteJSON(outputDir string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "migration_report.json"), data, 0o644)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Course Migration Report</title>
	<style>
		body { font-family: Arial, sans-serif; margin: 20px; background: #f5f5f5; }
		.container { max-width: 1200px; margin: 0 auto; background: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
		h1 { color: #333; border-bottom: 3px solid #4CAF50; padding-bottom: 10px; }
		h2 { color: #555; margin-top: 30px; }
		.status { display: inline-block; padding: 5px 15px; border-radius: 4px; font-weight: bold; color: white; }
		.status.success { background: #4CAF50; }
		.status.success_with_warnings { background: #FF9800; }
		.status.partial_failure { background: #FF5722; }
		.status.failure { background: #f44336; }
		.summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 20px; margin: 20px 0; }
		.summary-card { background: #f9f9f9; padding: 15px; border-radius: 4px; border-left: 4px solid #4CAF50; }
		.summary-card h3 { margin: 0 0 10px 0; color: #666; font-size: 14px; }
		.summary-card .value { font-size: 32px; font-weight: bold; color: #333; }
		table { width: 100%; border-collapse: collapse; margin: 20px 0; }
		th, td { padding: 12px; text-align: left; border-bottom: 1px solid #ddd; }
		th { background: #4CAF50; color: white; }
		.finding { margin: 10px 0; padding: 10px; border-left: 4px solid #2196F3; background: #e3f2fd; }
		.finding.warning { border-left-color: #FF9800; background: #fff8e1; }
		.finding.error, .finding.critical { border-left-color: #f44336; background: #fff3f3; }
		code { background: #f4f4f4; padding: 2px 6px; border-radius: 3px; font-family: monospace; }
	</style>
</head>
<body>
	<div class="container">
		<h1>Course Migration Report</h1>

		<p><strong>Run ID:</strong> <code>{{run_id}}</code></p>
		<p><strong>Migration Date:</strong> {{migration_date}}</p>
		<p><strong>Status:</strong> <span class="status {{status}}">{{status_label}}</span></p>
		<p><strong>Source Course:</strong> {{source_course}}</p>
		<p><strong>Execution Time:</strong> {{execution_time}}</p>

		<h2>Migrated Content</h2>
		<div class="summary">
			{{#each migrated}}
			<div class="summary-card"><h3>{{this.name}}</h3><div class="value">{{this.count}}</div></div>
			{{/each}}
		</div>

		<h2>Question Type Mappings</h2>
		<table>
			<tr><th>Source Type</th><th>Count</th></tr>
			{{#each question_types}}
			<tr><td><code>{{this.name}}</code></td><td>{{this.count}}</td></tr>
			{{/each}}
		</table>

		<h2>Findings ({{finding_count}})</h2>
		{{#each findings}}
		<div class="finding {{this.severity}}">
			<strong>[{{this.severity}}] {{this.kind}}</strong>: {{this.message}}
			{{#if this.action}}<br><em>{{this.action}}</em>{{/if}}
		</div>
		{{/each}}
	</div>
</body>
</html>`

// WriteHTML renders the human-readable report.
func (r *MigrationReport) WriteHTML(outputDir string) error {
	findings := make([]map[string]interface{}, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		findings = append(findings, map[string]interface{}{
			"severity": string(d.Severity),
			"kind":     d.Kind,
			"message":  d.Message,
			"action":   d.SuggestedAction,
		})
	}

	data := map[string]interface{}{
		"run_id":         r.RunID,
		"migration_date": r.MigrationDate.Format("2006-01-02 15:04:05"),
		"status":         string(r.Status),
		"status_label":   strings.ToUpper(strings.ReplaceAll(string(r.Status), "_", " ")),
		"source_course":  r.SourceCourseTitle,
		"execution_time": fmt.Sprintf("%.2f seconds", r.ExecutionSecs),
		"migrated":       sortedCounts(r.MigratedContent),
		"question_types": sortedCounts(r.Counters.QuestionTypes),
		"findings":       findings,
		"finding_count":  len(r.Diagnostics),
	}

	out, err := raymond.Render(htmlTemplate, data)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "migration_report.html"), []byte(out), 0o644)
}

func sortedCounts(m map[string]int) []map[string]interface{} {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]map[string]interface{}, 0, len(keys))
	for _, k := range keys {
		out = append(out, map[string]interface{}{"name": k, "count": m[k]})
	}
	return out
}

// Summary renders a boxed terminal summary. Widths are computed with
// runewidth so non-ASCII course titles keep the box aligned.
func (r *MigrationReport) Summary() string {
	lines := []string{
		"Migration " + strings.ToUpper(strings.ReplaceAll(string(r.Status), "_", " ")),
		"",
		fmt.Sprintf("Course:   %s", r.SourceCourseTitle),
		fmt.Sprintf("Output:   %s", r.OutputDirectory),
		fmt.Sprintf("Topics:   %d  Lessons: %d  Quizzes: %d", r.Counters.Topics, r.Counters.Lessons, r.Counters.Quizzes),
		fmt.Sprintf("Questions: %d  Assignments: %d", r.Counters.Questions, r.Counters.Assignments),
		fmt.Sprintf("Errors:   %d  Warnings: %d  Info: %d", r.TotalErrors, r.TotalWarnings, r.TotalInfo),
		fmt.Sprintf("Elapsed:  %.2fs", r.ExecutionSecs),
	}

	width := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > width {
			width = w
		}
	}

	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", width+2) + "┐\n")
	for _, line := range lines {
		pad := width - runewidth.StringWidth(line)
		b.WriteString("│ " + line + strings.Repeat(" ", pad) + " │\n")
	}
	b.WriteString("└" + strings.Repeat("─", width+2) + "┘")
	return b.String()
}
