package domain

import (
	"testing"
)

func sampleView() View {
	v := NewView("sample", "Sample")
	v.AddMetric(Metric{Name: "Revenue", Value: "$1.2M", Change: "+4.0%", ChangeType: ChangePositive})
	v.AddMetric(Metric{Name: "Churn", Value: "2.1%", Change: "-0.3%", ChangeType: ChangeNegative})
	v.AddChart(Chart{
		Title:  "Trend",
		Kind:   ChartLine,
		Series: []Series{{Key: "actual", Label: "Actual"}},
		Points: []ChartPoint{
			{Label: "Jan", Values: map[string]float64{"actual": 10}},
			{Label: "Feb", Values: map[string]float64{"actual": 12}},
		},
	})
	v.AddTable(Table{
		Title: "Accounts",
		Columns: []Column{
			{Key: "name", Label: "Name"},
			{Key: "status", Label: "Status", Axis: "status"},
		},
		Rows: []Row{
			{Cells: []Cell{{Value: "Acme"}, {Value: "Active", Category: CategorySuccess}}},
			{Cells: []Cell{{Value: "Globex"}, {Value: "Pending", Category: CategoryWarning}}},
			{Cells: []Cell{{Value: "Initech"}, {Value: "Closed", Category: CategoryNeutral}}},
		},
	})
	return *v
}

func TestNewView(t *testing.T) {
	t.Run("creates empty sections", func(t *testing.T) {
		v := NewView("fallback", "Widgets")
		if v.Renderer != "fallback" {
			t.Errorf("expected renderer 'fallback', got %s", v.Renderer)
		}
		if v.Title != "Widgets" {
			t.Errorf("expected title 'Widgets', got %s", v.Title)
		}
		if v.Metrics == nil || v.Charts == nil || v.Tables == nil {
			t.Error("expected sections to be initialized")
		}
		if v.Loading {
			t.Error("expected new view not to be loading")
		}
	})
}

func TestViewSkeleton(t *testing.T) {
	v := sampleView()
	s := v.Skeleton()

	t.Run("marks view loading", func(t *testing.T) {
		if !s.Loading {
			t.Error("expected skeleton to be loading")
		}
		if s.Renderer != v.Renderer || s.Title != v.Title {
			t.Error("expected renderer and title to be preserved")
		}
	})

	t.Run("keeps section counts", func(t *testing.T) {
		if len(s.Metrics) != len(v.Metrics) {
			t.Errorf("expected %d metrics, got %d", len(v.Metrics), len(s.Metrics))
		}
		if len(s.Charts) != len(v.Charts) {
			t.Errorf("expected %d charts, got %d", len(v.Charts), len(s.Charts))
		}
		if len(s.Tables) != len(v.Tables) {
			t.Errorf("expected %d tables, got %d", len(v.Tables), len(s.Tables))
		}
		if len(s.Charts[0].Points) != len(v.Charts[0].Points) {
			t.Errorf("expected %d points, got %d", len(v.Charts[0].Points), len(s.Charts[0].Points))
		}
		if len(s.Tables[0].Rows) != len(v.Tables[0].Rows) {
			t.Errorf("expected %d rows, got %d", len(v.Tables[0].Rows), len(s.Tables[0].Rows))
		}
		if len(s.Tables[0].Columns) != len(v.Tables[0].Columns) {
			t.Errorf("expected %d columns, got %d", len(v.Tables[0].Columns), len(s.Tables[0].Columns))
		}
	})

	t.Run("replaces every value", func(t *testing.T) {
		for i, m := range s.Metrics {
			if !m.Skeleton || m.Name != "" || m.Value != "" || m.Change != "" {
				t.Errorf("metric %d not a skeleton: %+v", i, m)
			}
		}
		for i, p := range s.Charts[0].Points {
			if !p.Skeleton || p.Label != "" || len(p.Values) != 0 {
				t.Errorf("point %d not a skeleton: %+v", i, p)
			}
		}
		for i, r := range s.Tables[0].Rows {
			if len(r.Cells) != len(s.Tables[0].Columns) {
				t.Errorf("row %d has %d cells, want %d", i, len(r.Cells), len(s.Tables[0].Columns))
			}
			for j, c := range r.Cells {
				if !c.Skeleton || c.Value != "" || c.Category != "" {
					t.Errorf("cell %d/%d not a skeleton: %+v", i, j, c)
				}
			}
		}
	})

	t.Run("does not alias source", func(t *testing.T) {
		s.Tables[0].Columns[0].Label = "changed"
		if v.Tables[0].Columns[0].Label == "changed" {
			t.Error("expected skeleton columns to be copied")
		}
	})
}

func TestTableColumnIndex(t *testing.T) {
	table := sampleView().Tables[0]

	tests := []struct {
		key      string
		expected int
	}{
		{"name", 0},
		{"status", 1},
		{"missing", -1},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := table.ColumnIndex(tt.key); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestRowValues(t *testing.T) {
	row := Row{Cells: []Cell{{Value: "a"}, {Value: "b"}}}
	got := row.Values()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected values: %v", got)
	}
}
