package output

import (
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/geolens/geolens/internal/core"
)

// FormatAuditTable renders audit summaries as an ASCII table, newest first as
// provided by the store.
func FormatAuditTable(summaries []core.AuditSummary) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "URL", "Who", "What", "Where", "Entity", "Created"})

	for _, summary := range summaries {
		t.AppendRow(table.Row{
			summary.ID,
			summary.URL,
			summary.ScoreWho,
			summary.ScoreWhat,
			summary.ScoreWhere,
			summary.EntityScore,
			summary.CreatedAt.Format(time.RFC3339),
		})
	}

	return t.Render()
}
