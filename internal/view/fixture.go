package view

import (
	"fmt"

	"vantage/internal/classify"
	"vantage/internal/domain"
)

// FixtureRendererName identifies views built from fixtures
const FixtureRendererName = "dedicated"

// MetricFixture is a fixed metric card
type MetricFixture struct {
	Name        string            `yaml:"name"`
	Value       string            `yaml:"value"`
	Change      string            `yaml:"change"`
	ChangeType  domain.ChangeType `yaml:"change_type"`
	Description string            `yaml:"description,omitempty"`
}

// PointFixture is one chart position with a value per series key
type PointFixture struct {
	Label  string             `yaml:"label"`
	Values map[string]float64 `yaml:"values"`
}

// ChartFixture is a fixed chart
type ChartFixture struct {
	Title  string           `yaml:"title"`
	Kind   domain.ChartKind `yaml:"kind"`
	Series []domain.Series  `yaml:"series"`
	Points []PointFixture   `yaml:"points"`
}

// TableFixture is a fixed table. Each row lists cell values in column order.
type TableFixture struct {
	Title   string          `yaml:"title"`
	Columns []domain.Column `yaml:"columns"`
	Rows    [][]string      `yaml:"rows"`
}

// ViewFixture is the content of one dedicated view
type ViewFixture struct {
	Tool    string          `yaml:"tool"`
	Title   string          `yaml:"title,omitempty"`
	Header  HeaderOverride  `yaml:"header,omitempty"`
	Metrics []MetricFixture `yaml:"metrics"`
	Charts  []ChartFixture  `yaml:"charts,omitempty"`
	Tables  []TableFixture  `yaml:"tables,omitempty"`
}

// Validate checks that rows and points line up with their declared layout
func (f ViewFixture) Validate() error {
	if f.Tool == "" {
		return fmt.Errorf("fixture without tool id: %w", ErrInvalidFixture)
	}
	for _, c := range f.Charts {
		keys := make(map[string]bool, len(c.Series))
		for _, s := range c.Series {
			keys[s.Key] = true
		}
		for _, p := range c.Points {
			for k := range p.Values {
				if !keys[k] {
					return fmt.Errorf("%s: chart %q point %q: unknown series %q: %w",
						f.Tool, c.Title, p.Label, k, ErrInvalidFixture)
				}
			}
		}
	}
	for _, t := range f.Tables {
		for i, row := range t.Rows {
			if len(row) != len(t.Columns) {
				return fmt.Errorf("%s: table %q row %d has %d cells, want %d: %w",
					f.Tool, t.Title, i, len(row), len(t.Columns), ErrInvalidFixture)
			}
		}
	}
	return nil
}

// FixtureRenderer renders a dedicated view from fixture data. Cells of columns
// that name a classifier axis are badged with the matching category.
type FixtureRenderer struct {
	fixture    ViewFixture
	classifier *classify.Classifier
}

// NewFixtureRenderer creates a renderer for one fixture
func NewFixtureRenderer(f ViewFixture, classifier *classify.Classifier) *FixtureRenderer {
	return &FixtureRenderer{fixture: f, classifier: classifier}
}

// Render implements Renderer
func (r *FixtureRenderer) Render(req Request) domain.View {
	title := r.fixture.Title
	if title == "" {
		title = toolLabel(req.Selection)
	}

	v := domain.NewView(FixtureRendererName, title)
	for _, m := range r.fixture.Metrics {
		v.AddMetric(domain.Metric{
			Name:        m.Name,
			Value:       m.Value,
			Change:      m.Change,
			ChangeType:  m.ChangeType,
			Description: m.Description,
		})
	}

	for _, c := range r.fixture.Charts {
		chart := domain.Chart{
			Title:  c.Title,
			Kind:   c.Kind,
			Series: append([]domain.Series(nil), c.Series...),
			Points: make([]domain.ChartPoint, 0, len(c.Points)),
		}
		for _, p := range c.Points {
			values := make(map[string]float64, len(p.Values))
			for k, val := range p.Values {
				values[k] = val
			}
			chart.Points = append(chart.Points, domain.ChartPoint{Label: p.Label, Values: values})
		}
		v.AddChart(chart)
	}

	for _, t := range r.fixture.Tables {
		table := domain.Table{
			Title:   t.Title,
			Columns: append([]domain.Column(nil), t.Columns...),
			Rows:    make([]domain.Row, 0, len(t.Rows)),
		}
		for _, values := range t.Rows {
			cells := make([]domain.Cell, len(values))
			for i, val := range values {
				cells[i] = domain.Cell{Value: val}
				if axis := t.Columns[i].Axis; axis != "" {
					cells[i].Category = r.classifier.Classify(classify.Axis(axis), val)
				}
			}
			table.Rows = append(table.Rows, domain.Row{Cells: cells})
		}
		v.AddTable(table)
	}

	if req.Selection.Loading {
		return v.Skeleton()
	}
	return *v
}
