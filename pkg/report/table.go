package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

const maxCellWidth = 60

// FormatAnalysisTable renders one row per competitor, in order. Competitors
// missing from order are appended alphabetically.
func FormatAnalysisTable(results map[string]model.Result[model.CompetitorAnalysis], order []string) string {
	header := []string{"Competitor", "Articles", "Top headline", "Status"}
	rows := [][]string{header}

	for _, name := range rowOrder(results, order) {
		r := results[name]
		if r.IsErr() {
			rows = append(rows, []string{name, "-", r.Message(), "error"})
			continue
		}

		a := r.Value()
		headline := ""
		if len(a.RecentHeadlines) > 0 {
			headline = a.RecentHeadlines[0]
		}
		rows = append(rows, []string{name, strconv.Itoa(a.NewsCount), headline, "ok"})
	}

	for _, row := range rows {
		for i := range row {
			row[i] = runewidth.Truncate(strings.ReplaceAll(row[i], "\n", " "), maxCellWidth, "...")
		}
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	for idx, row := range rows {
		writeRow(&sb, row, widths)
		if idx == 0 {
			sep := make([]string, len(widths))
			for i, w := range widths {
				sep[i] = strings.Repeat("-", w)
			}
			writeRow(&sb, sep, widths)
		}
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	sb.WriteString("|")
	for i, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(cell, widths[i]))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func rowOrder(results map[string]model.Result[model.CompetitorAnalysis], order []string) []string {
	seen := make(map[string]bool, len(results))
	var names []string
	for _, name := range order {
		if _, ok := results[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	var rest []string
	for name := range results {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)

	return append(names, rest...)
}
