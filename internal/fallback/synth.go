// Package fallback implements the Generic Fallback Renderer.
//
// Any (domain, tool) pair without a dedicated view gets a presentable
// placeholder synthesized from the tool's display name: three percentage
// metrics, a five-row activity table and a six-month actual/predicted chart.
//
// Synthesis is a pure function of (tool name, seed, clock). Randomness comes
// from a PCG generator built per call, so concurrent renders never share
// generator state and the same inputs always yield the same view. Which seed
// a render gets is decided by a Seeder: MemoSeeds keeps numbers stable per
// session and view, FreshSeeds draws a new seed every time.
package fallback

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"
)

// Value bands. Each pair is (minimum, span): values fall in [min, min+span).
const (
	efficiencyMin, efficiencySpan   = 70, 30   // 70-99 %
	utilizationMin, utilizationSpan = 75, 20   // 75-94 %
	performanceMin, performanceSpan = 80, 15   // 80-94 %
	changeMinTenths, changeSpan     = -50, 150 // -5.0 to +9.9
	progressMin, progressSpan       = 0, 101   // 0-100 %
	actualMin, actualSpan           = 1000, 4000
	predictedMin, predictedSpan     = 1200, 4000

	// DateWindowDays bounds how far back a synthesized row date can fall
	DateWindowDays = 115

	// MetricCount, RowCount and PointCount are the fixed section sizes
	MetricCount = 3
	RowCount    = 5
	PointCount  = 6

	firstRowNumber = 1001
	pcgStream      = 0x9e3779b97f4a7c15
)

// Statuses is the closed status vocabulary of synthesized rows
var Statuses = [...]string{"Active", "Pending", "Completed"}

// Owners is the fixed roster synthesized rows are assigned to
var Owners = [...]string{
	"John Smith",
	"Sarah Johnson",
	"Michael Chen",
	"Emily Davis",
	"Robert Wilson",
}

// Months labels the chart points
var Months = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

// MetricSample is a synthesized metric before formatting
type MetricSample struct {
	Name         string
	Percent      int
	ChangeTenths int // Signed change in tenths of a percentage point
}

// RowSample is a synthesized table row before formatting
type RowSample struct {
	ID       string
	Name     string
	Status   string
	Date     time.Time
	Progress int
	Owner    string
}

// PointSample is a synthesized chart point
type PointSample struct {
	Month     string
	Actual    int
	Predicted int
}

// Sample is the complete synthesized content of one fallback render
type Sample struct {
	Metrics [MetricCount]MetricSample
	Rows    [RowCount]RowSample
	Points  [PointCount]PointSample
}

// Synthesize draws a sample for the tool from the given generator.
// Dates are counted back from now, truncated to the day.
func Synthesize(toolName string, r *rand.Rand, now time.Time) Sample {
	var s Sample

	bands := [MetricCount]struct {
		suffix    string
		min, span int
	}{
		{"Efficiency", efficiencyMin, efficiencySpan},
		{"Utilization", utilizationMin, utilizationSpan},
		{"Performance", performanceMin, performanceSpan},
	}
	for i, b := range bands {
		s.Metrics[i] = MetricSample{
			Name:         fmt.Sprintf("%s %s", toolName, b.suffix),
			Percent:      b.min + r.IntN(b.span),
			ChangeTenths: changeMinTenths + r.IntN(changeSpan),
		}
	}

	prefix := idPrefix(toolName)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := range s.Rows {
		s.Rows[i] = RowSample{
			ID:       fmt.Sprintf("%s-%d", prefix, firstRowNumber+i),
			Name:     fmt.Sprintf("%s Item %d", toolName, i+1),
			Status:   Statuses[r.IntN(len(Statuses))],
			Date:     today.AddDate(0, 0, -r.IntN(DateWindowDays+1)),
			Progress: progressMin + r.IntN(progressSpan),
			Owner:    Owners[r.IntN(len(Owners))],
		}
	}

	for i := range s.Points {
		s.Points[i] = PointSample{
			Month:     Months[i],
			Actual:    actualMin + r.IntN(actualSpan),
			Predicted: predictedMin + r.IntN(predictedSpan),
		}
	}

	return s
}

// newRand builds a request-scoped generator from a seed
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// idPrefix builds a row ID prefix from the tool name's initials
func idPrefix(toolName string) string {
	var b strings.Builder
	for _, word := range strings.Fields(toolName) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
		if b.Len() >= 4 {
			break
		}
	}
	if b.Len() == 0 {
		return "GEN"
	}
	return b.String()
}

// formatChange renders tenths of a point as a signed percentage
func formatChange(tenths int) string {
	sign := "+"
	if tenths < 0 {
		sign = "-"
		tenths = -tenths
	}
	return fmt.Sprintf("%s%d.%d%%", sign, tenths/10, tenths%10)
}
