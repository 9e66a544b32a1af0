// Package classify maps status, priority and severity literals to badge
// categories.
//
// Every view badges a handful of columns (status, priority, risk, readiness,
// ...). Instead of one lookup function per column per view, a single
// Classifier holds a literal table per semantic axis and answers every
// question with the same total function. Unknown axes and unknown literals
// resolve to domain.CategoryNeutral; classification never fails.
package classify

import (
	"sort"
	"strings"

	"vantage/internal/domain"

	"golang.org/x/text/cases"
)

// Axis names a semantic vocabulary (status, priority, risk, ...)
type Axis string

// Table maps literals of one axis to categories
type Table map[string]domain.Category

// Classifier holds one table per axis. It is immutable once built.
type Classifier struct {
	tables map[Axis]Table // Original literals, for listing
	index  map[Axis]Table // Normalized literals, for lookup
}

// New builds a classifier from per-axis tables. Categories outside the fixed
// set are stored as neutral.
func New(tables map[Axis]Table) *Classifier {
	c := &Classifier{
		tables: make(map[Axis]Table, len(tables)),
		index:  make(map[Axis]Table, len(tables)),
	}
	for axis, t := range tables {
		c.put(axis, t)
	}
	return c
}

func (c *Classifier) put(axis Axis, t Table) {
	axis = Axis(normalize(string(axis)))
	if c.tables[axis] == nil {
		c.tables[axis] = make(Table, len(t))
		c.index[axis] = make(Table, len(t))
	}
	for literal, cat := range t {
		if !cat.Valid() {
			cat = domain.CategoryNeutral
		}
		c.tables[axis][literal] = cat
		c.index[axis][normalize(literal)] = cat
	}
}

// Classify returns the category of a literal on an axis. It is total: a nil
// classifier, an unknown axis or an unknown literal all yield neutral.
func (c *Classifier) Classify(axis Axis, literal string) domain.Category {
	if c == nil {
		return domain.CategoryNeutral
	}
	t, ok := c.index[Axis(normalize(string(axis)))]
	if !ok {
		return domain.CategoryNeutral
	}
	return Lookup(t, normalize(literal))
}

// Lookup resolves a literal against a single table, defaulting to neutral
func Lookup(t Table, literal string) domain.Category {
	if cat, ok := t[literal]; ok {
		return cat
	}
	return domain.CategoryNeutral
}

// Merge returns a new classifier with extra entries layered on top of c.
// Entries in extra win over existing ones.
func (c *Classifier) Merge(extra map[Axis]Table) *Classifier {
	out := New(nil)
	if c != nil {
		for axis, t := range c.tables {
			out.put(axis, t)
		}
	}
	for axis, t := range extra {
		out.put(axis, t)
	}
	return out
}

// Axes returns the known axes in sorted order
func (c *Classifier) Axes() []Axis {
	if c == nil {
		return nil
	}
	axes := make([]Axis, 0, len(c.tables))
	for axis := range c.tables {
		axes = append(axes, axis)
	}
	sort.Slice(axes, func(i, j int) bool { return axes[i] < axes[j] })
	return axes
}

// Table returns a copy of one axis table, or nil for unknown axes
func (c *Classifier) Table(axis Axis) Table {
	if c == nil {
		return nil
	}
	t, ok := c.tables[Axis(normalize(string(axis)))]
	if !ok {
		return nil
	}
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Literals returns every catalogued literal per axis, sorted
func (c *Classifier) Literals() map[Axis][]string {
	out := make(map[Axis][]string)
	if c == nil {
		return out
	}
	for axis, t := range c.tables {
		lits := make([]string, 0, len(t))
		for lit := range t {
			lits = append(lits, lit)
		}
		sort.Strings(lits)
		out[axis] = lits
	}
	return out
}

// normalize folds case and collapses whitespace. A Caser keeps state, so
// each call gets its own.
func normalize(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}
