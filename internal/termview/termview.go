// Package termview renders dashboard pages and views for the terminal.
//
// Badged table cells are coloured by their category. Colour output follows
// lipgloss' terminal detection, so piped output is plain text.
package termview

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"vantage/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

// placeholder stands in for skeleton values
const placeholder = "░░░░"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)

	categoryColors = map[domain.Category]lipgloss.Color{
		domain.CategorySuccess: lipgloss.Color("42"),
		domain.CategoryInfo:    lipgloss.Color("39"),
		domain.CategoryWarning: lipgloss.Color("214"),
		domain.CategoryDanger:  lipgloss.Color("196"),
		domain.CategoryNeutral: lipgloss.Color("245"),
	}

	changeColors = map[domain.ChangeType]lipgloss.Color{
		domain.ChangePositive: lipgloss.Color("42"),
		domain.ChangeNegative: lipgloss.Color("196"),
		domain.ChangeNeutral:  lipgloss.Color("245"),
	}
)

// CategoryStyle returns the badge style of a category. Unknown categories
// are drawn as neutral.
func CategoryStyle(c domain.Category) lipgloss.Style {
	color, ok := categoryColors[c]
	if !ok {
		color = categoryColors[domain.CategoryNeutral]
	}
	return cellStyle.Foreground(color).Bold(c == domain.CategoryDanger)
}

// RenderPage draws the navigation, the header and the view
func RenderPage(p domain.Page) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(p.DomainName))
	b.WriteString("\n")
	if nav := renderNav(p.Nav); nav != "" {
		b.WriteString(nav)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render(p.Header.Title))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("[%s] [%s]", p.Header.PrimaryLabel, p.Header.ExportLabel)))
	b.WriteString("\n\n")

	b.WriteString(renderBody(p.View))
	return b.String()
}

// RenderView draws a view on its own
func RenderView(v domain.View) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Title))
	if v.Loading {
		b.WriteString(" ")
		b.WriteString(dimStyle.Render("loading"))
	}
	b.WriteString("\n\n")
	b.WriteString(renderBody(v))
	return b.String()
}

func renderNav(items []domain.NavItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item.Active {
			parts = append(parts, activeStyle.Render("▸ "+item.Name))
			continue
		}
		parts = append(parts, dimStyle.Render(item.Name))
	}
	return strings.Join(parts, dimStyle.Render(" │ "))
}

func renderBody(v domain.View) string {
	var sections []string

	if len(v.Metrics) > 0 {
		sections = append(sections, renderMetrics(v.Metrics))
	}
	for _, c := range v.Charts {
		sections = append(sections, renderChart(c))
	}
	for _, t := range v.Tables {
		sections = append(sections, renderTable(t))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

func renderMetrics(metrics []domain.Metric) string {
	cards := make([]string, 0, len(metrics))
	for _, m := range metrics {
		if m.Skeleton {
			cards = append(cards, cardStyle.Render(dimStyle.Render(placeholder)+"\n"+dimStyle.Render(placeholder)))
			continue
		}

		change := lipgloss.NewStyle().Foreground(changeColors[m.ChangeType]).Render(m.Change)
		lines := []string{
			dimStyle.Render(m.Name),
			lipgloss.NewStyle().Bold(true).Render(m.Value) + " " + change,
		}
		if m.Description != "" {
			lines = append(lines, dimStyle.Render(m.Description))
		}
		cards = append(cards, cardStyle.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// renderChart prints a chart's points as a table, one column per series
func renderChart(c domain.Chart) string {
	headers := []string{""}
	for _, s := range c.Series {
		headers = append(headers, s.Label)
	}

	rows := make([][]string, 0, len(c.Points))
	for _, p := range c.Points {
		row := []string{p.Label}
		for _, s := range c.Series {
			if p.Skeleton || c.Skeleton {
				row = append(row, placeholder)
				continue
			}
			row = append(row, formatValue(p.Values[s.Key]))
		}
		if p.Skeleton || c.Skeleton {
			row[0] = placeholder
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return cellStyle.Foreground(lipgloss.Color("245"))
			}
			return cellStyle.Align(lipgloss.Right)
		})

	title := fmt.Sprintf("%s (%s)", c.Title, c.Kind)
	return sectionStyle.Render(title) + "\n" + t.String()
}

func renderTable(tbl domain.Table) string {
	headers := make([]string, len(tbl.Columns))
	for i, c := range tbl.Columns {
		headers[i] = c.Label
	}

	rows := make([][]string, len(tbl.Rows))
	for i, r := range tbl.Rows {
		row := make([]string, len(tbl.Columns))
		for j := range row {
			if j >= len(r.Cells) {
				continue
			}
			if r.Cells[j].Skeleton {
				row[j] = placeholder
				continue
			}
			row[j] = r.Cells[j].Value
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(tbl.Rows) || col >= len(tbl.Rows[row].Cells) {
				return cellStyle
			}
			cell := tbl.Rows[row].Cells[col]
			if cell.Category == "" || cell.Skeleton {
				return cellStyle
			}
			return CategoryStyle(cell.Category)
		})

	return sectionStyle.Render(tbl.Title) + "\n" + t.String()
}

// formatValue prints chart values with thousands separators
func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return humanize.Comma(int64(v))
	}
	return humanize.CommafWithDigits(v, 2)
}

// RenderDomains lists the catalog, one line per tool
func RenderDomains(domains []domain.Domain) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Domain", "Tool", "Name").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, d := range domains {
		for i, tool := range d.Tools {
			name := ""
			if i == 0 {
				name = d.ID
			}
			t.Row(name, tool.ID, tool.Name)
		}
	}
	return t.String() + "\n"
}

// RenderTools lists the tools of one domain. dedicated, when non-nil,
// marks tools with their own content.
func RenderTools(tools []domain.Tool, dedicated func(domain.Tool) bool) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Tool", "Name", "Icon", "Content").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, tool := range tools {
		content := "generic"
		if dedicated != nil && dedicated(tool) {
			content = "dedicated"
		}
		t.Row(tool.ID, tool.Name, tool.Icon, content)
	}
	return t.String() + "\n"
}

// RenderActions lists recorded header actions with times relative to now
func RenderActions(events []domain.ActionEvent, now time.Time) string {
	if len(events) == 0 {
		return dimStyle.Render("no actions recorded") + "\n"
	}

	sorted := append([]domain.ActionEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OccurredAt.After(sorted[j].OccurredAt) })

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("When", "Kind", "View", "Session", "Format").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return cellStyle.Foreground(lipgloss.Color("245"))
			}
			return cellStyle
		})

	for _, ev := range sorted {
		t.Row(
			humanize.RelTime(ev.OccurredAt, now, "ago", "from now"),
			string(ev.Kind),
			ev.Key().String(),
			ev.Session,
			ev.Format,
		)
	}
	return t.String() + "\n" + dimStyle.Render(humanize.Comma(int64(len(events)))+" actions") + "\n"
}
