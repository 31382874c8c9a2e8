// Package output renders operator-facing summaries for the send command.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/KIRKR101/Streamline/internal/transfer"
)

var (
	headerCellStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	okStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderBatch renders one send batch as an aligned table with a totals
// line: per file the byte count, elapsed time, throughput, and status.
func RenderBatch(report transfer.BatchReport) string {
	if len(report.Files) == 0 {
		return dimStyle.Render("No files in batch.") + "\n"
	}

	rows := make([][4]string, 0, len(report.Files))
	statuses := make([]string, 0, len(report.Files))
	for _, f := range report.Files {
		if f.Err != nil {
			rows = append(rows, [4]string{f.Name, "-", "-", "-"})
			statuses = append(statuses, failStyle.Render("skipped: "+f.Err.Error()))
			continue
		}
		rows = append(rows, [4]string{
			f.Name,
			humanBytes(f.Bytes),
			f.Elapsed.Round(time.Millisecond).String(),
			rate(f.Bytes, f.Elapsed),
		})
		statuses = append(statuses, okStyle.Render("sent"))
	}

	widths := [4]int{len("FILE"), len("BYTES"), len("TIME"), len("RATE")}
	for _, r := range rows {
		for i, cell := range r {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	head := [4]string{"FILE", "BYTES", "TIME", "RATE"}
	for i, h := range head {
		b.WriteString(headerCellStyle.Render(pad(h, widths[i])))
		b.WriteString("  ")
	}
	b.WriteString(headerCellStyle.Render("STATUS"))
	b.WriteString("\n")

	for i, r := range rows {
		for j, cell := range r {
			b.WriteString(pad(cell, widths[j]))
			b.WriteString("  ")
		}
		b.WriteString(statuses[i])
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"%d sent, %d skipped, %s in %s (%s)",
		report.Sent,
		report.Skipped,
		humanBytes(report.Bytes),
		report.Elapsed.Round(time.Millisecond),
		rate(report.Bytes, report.Elapsed),
	)))
	b.WriteString("\n")
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func humanBytes(n uint64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.2f GiB", float64(n)/float64(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.2f MiB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.2f KiB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func rate(bytes uint64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}
	mbps := float64(bytes) / elapsed.Seconds() / float64(1<<20)
	return fmt.Sprintf("%.2f MiB/s", mbps)
}
