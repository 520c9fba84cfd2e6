package output

import (
	"fmt"
	"strings"

	"github.com/geolens/geolens/internal/core"
)

// FormatAuditMarkdown renders the audit as the exportable coaching document.
// The output depends only on the audit's stored fields, so repeated exports of
// an unchanged audit are byte-identical.
func FormatAuditMarkdown(audit *core.Audit) string {
	if audit == nil {
		return ""
	}

	lines := []string{
		"# GEO/AEO Copy Coach",
		fmt.Sprintf("URL: %s", audit.URL),
		fmt.Sprintf("Scores — Who: %d | What: %d | Where: %d | Entity: %d",
			audit.ScoreWho, audit.ScoreWhat, audit.ScoreWhere, audit.EntityScore),
		"",
		"## Recommended Literal Sentences",
	}

	for _, rec := range audit.Recommendations {
		lines = append(lines, fmt.Sprintf("- [%s • P%d] %s", rec.Kind, rec.Priority, rec.Sentence))
	}

	lines = append(lines, "", "## Issues")
	for _, issue := range audit.Issues {
		lines = append(lines, fmt.Sprintf("- %s", issue))
	}

	return strings.Join(lines, "\n")
}

// ExportFilename names the attachment for one audit export.
func ExportFilename(auditID string) string {
	return fmt.Sprintf("audit-%s.md", auditID)
}
