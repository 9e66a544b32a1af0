package fallback

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vantage/internal/classify"
	"vantage/internal/domain"
)

// RendererName identifies fallback output in a rendered view
const RendererName = "fallback"

// GenericLabel titles fallback content when no tool name is known
const GenericLabel = "Analytics"

// Input is everything a fallback render depends on
type Input struct {
	ToolName string
	Loading  bool
	Seed     uint64
	Now      time.Time
}

// Renderer produces placeholder views for tools without dedicated content
type Renderer struct {
	classifier *classify.Classifier
}

// NewRenderer creates a fallback renderer that badges row statuses with the
// given classifier. A nil classifier leaves every badge neutral.
func NewRenderer(classifier *classify.Classifier) *Renderer {
	return &Renderer{classifier: classifier}
}

// Render synthesizes the fallback view. With Loading set, the result has the
// same layout with every value replaced by a skeleton marker.
func (r *Renderer) Render(in Input) domain.View {
	name := strings.TrimSpace(in.ToolName)
	if name == "" {
		name = GenericLabel
	}

	s := Synthesize(name, newRand(in.Seed), in.Now)
	v := s.View(name, r.classifier)
	if in.Loading {
		return v.Skeleton()
	}
	return v
}

// View formats a sample into a presentational view
func (s Sample) View(toolName string, classifier *classify.Classifier) domain.View {
	v := domain.NewView(RendererName, toolName)

	for _, m := range s.Metrics {
		change := domain.ChangePositive
		if m.ChangeTenths < 0 {
			change = domain.ChangeNegative
		}
		v.AddMetric(domain.Metric{
			Name:        m.Name,
			Value:       strconv.Itoa(m.Percent) + "%",
			Change:      formatChange(m.ChangeTenths),
			ChangeType:  change,
			Description: "vs. last period",
		})
	}

	table := domain.Table{
		Title: fmt.Sprintf("%s Activity", toolName),
		Columns: []domain.Column{
			{Key: "id", Label: "ID"},
			{Key: "name", Label: "Name"},
			{Key: "status", Label: "Status", Axis: string(classify.AxisStatus)},
			{Key: "date", Label: "Date"},
			{Key: "progress", Label: "Progress"},
			{Key: "owner", Label: "Owner"},
		},
		Rows: make([]domain.Row, 0, len(s.Rows)),
	}
	for _, row := range s.Rows {
		table.Rows = append(table.Rows, domain.Row{Cells: []domain.Cell{
			{Value: row.ID},
			{Value: row.Name},
			{Value: row.Status, Category: classifier.Classify(classify.AxisStatus, row.Status)},
			{Value: row.Date.Format("2006-01-02")},
			{Value: strconv.Itoa(row.Progress) + "%"},
			{Value: row.Owner},
		}})
	}

	chart := domain.Chart{
		Title: fmt.Sprintf("%s Trend", toolName),
		Kind:  domain.ChartArea,
		Series: []domain.Series{
			{Key: "actual", Label: "Actual"},
			{Key: "predicted", Label: "Predicted"},
		},
		Points: make([]domain.ChartPoint, 0, len(s.Points)),
	}
	for _, p := range s.Points {
		chart.Points = append(chart.Points, domain.ChartPoint{
			Label: p.Month,
			Values: map[string]float64{
				"actual":    float64(p.Actual),
				"predicted": float64(p.Predicted),
			},
		})
	}

	v.AddChart(chart)
	v.AddTable(table)
	return *v
}
