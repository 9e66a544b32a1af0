package domain

// ChangeType is the direction of a metric's change
type ChangeType string

const (
	ChangePositive ChangeType = "positive"
	ChangeNegative ChangeType = "negative"
	ChangeNeutral  ChangeType = "neutral"
)

// ChartKind selects how the front end draws a chart
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
	ChartArea ChartKind = "area"
	ChartPie  ChartKind = "pie"
)

// Metric is a single metric card
type Metric struct {
	Name        string     `json:"name" yaml:"name"`
	Value       string     `json:"value" yaml:"value"`
	Change      string     `json:"change" yaml:"change"`
	ChangeType  ChangeType `json:"change_type" yaml:"change_type"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Skeleton    bool       `json:"skeleton,omitempty" yaml:"skeleton,omitempty"`
}

// Column describes a table column. Axis names the classifier axis used to
// badge the column's cells; empty means plain text.
type Column struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Axis  string `json:"axis,omitempty" yaml:"axis,omitempty"`
}

// Cell is one table cell
type Cell struct {
	Value    string   `json:"value" yaml:"value"`
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
	Skeleton bool     `json:"skeleton,omitempty" yaml:"skeleton,omitempty"`
}

// Row is a table row; Cells line up with the table's Columns
type Row struct {
	Cells []Cell `json:"cells" yaml:"cells"`
}

// Table is a detail table
type Table struct {
	Title   string   `json:"title" yaml:"title"`
	Columns []Column `json:"columns" yaml:"columns"`
	Rows    []Row    `json:"rows" yaml:"rows"`
}

// Series is one plotted series of a chart
type Series struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// ChartPoint is one x-axis position with a value per series key
type ChartPoint struct {
	Label    string             `json:"label" yaml:"label"`
	Values   map[string]float64 `json:"values,omitempty" yaml:"values,omitempty"`
	Skeleton bool               `json:"skeleton,omitempty" yaml:"skeleton,omitempty"`
}

// Chart is a chart section
type Chart struct {
	Title    string       `json:"title" yaml:"title"`
	Kind     ChartKind    `json:"kind" yaml:"kind"`
	Series   []Series     `json:"series" yaml:"series"`
	Points   []ChartPoint `json:"points" yaml:"points"`
	Skeleton bool         `json:"skeleton,omitempty" yaml:"skeleton,omitempty"`
}

// View is the presentational tree a renderer produces
type View struct {
	Renderer string   `json:"renderer" yaml:"renderer"`
	Title    string   `json:"title" yaml:"title"`
	Loading  bool     `json:"loading" yaml:"loading"`
	Metrics  []Metric `json:"metrics" yaml:"metrics"`
	Charts   []Chart  `json:"charts" yaml:"charts"`
	Tables   []Table  `json:"tables" yaml:"tables"`
}

// NewView creates an empty view for the named renderer
func NewView(renderer, title string) *View {
	return &View{
		Renderer: renderer,
		Title:    title,
		Metrics:  make([]Metric, 0),
		Charts:   make([]Chart, 0),
		Tables:   make([]Table, 0),
	}
}

// AddMetric appends a metric card
func (v *View) AddMetric(m Metric) {
	v.Metrics = append(v.Metrics, m)
}

// AddChart appends a chart
func (v *View) AddChart(c Chart) {
	v.Charts = append(v.Charts, c)
}

// AddTable appends a table
func (v *View) AddTable(t Table) {
	v.Tables = append(v.Tables, t)
}

// ColumnIndex returns the position of the column with the given key, or -1
func (t Table) ColumnIndex(key string) int {
	for i, c := range t.Columns {
		if c.Key == key {
			return i
		}
	}
	return -1
}

// Values returns the row's cell values in column order
func (r Row) Values() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Value
	}
	return out
}

// Skeleton returns a copy of the view with the same layout and every value
// replaced by a placeholder. Section titles, column headers and series keys
// are layout and survive; names, values, labels and badges do not.
func (v View) Skeleton() View {
	out := View{
		Renderer: v.Renderer,
		Title:    v.Title,
		Loading:  true,
		Metrics:  make([]Metric, len(v.Metrics)),
		Charts:   make([]Chart, len(v.Charts)),
		Tables:   make([]Table, len(v.Tables)),
	}

	for i := range v.Metrics {
		out.Metrics[i] = Metric{Skeleton: true}
	}

	for i, c := range v.Charts {
		points := make([]ChartPoint, len(c.Points))
		for j := range points {
			points[j] = ChartPoint{Skeleton: true}
		}
		out.Charts[i] = Chart{
			Title:    c.Title,
			Kind:     c.Kind,
			Series:   append([]Series(nil), c.Series...),
			Points:   points,
			Skeleton: true,
		}
	}

	for i, t := range v.Tables {
		rows := make([]Row, len(t.Rows))
		for j, r := range t.Rows {
			cells := make([]Cell, len(r.Cells))
			for k := range cells {
				cells[k] = Cell{Skeleton: true}
			}
			rows[j] = Row{Cells: cells}
		}
		out.Tables[i] = Table{
			Title:   t.Title,
			Columns: append([]Column(nil), t.Columns...),
			Rows:    rows,
		}
	}

	return out
}

// NavItem is one tab of the tool selector. Target is the selection the
// shell applies when the tab is chosen.
type NavItem struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Icon   string  `json:"icon"`
	Active bool    `json:"active"`
	Target ViewKey `json:"target"`
}

// Header is the content header above a view
type Header struct {
	Title        string `json:"title"`
	PrimaryLabel string `json:"primary_label"`
	ExportLabel  string `json:"export_label"`
}

// Page is a composed dashboard screen: navigation, header and content
type Page struct {
	DomainID   string    `json:"domain_id"`
	DomainName string    `json:"domain_name"`
	Nav        []NavItem `json:"nav"`
	Header     Header    `json:"header"`
	View       View      `json:"view"`
}
