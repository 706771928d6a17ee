package model

import "time"

// Row is one key/value line inside a group card. Keys are stable,
// machine-style identifiers; values are already reduced for display.
type Row struct {
	Key string `json:"key"`
	Val Value  `json:"value"`
}

// Group is one card worth of probe output.
type Group struct {
	Name  string `json:"name"`  // stable probe name, e.g. "battery"
	Title string `json:"title"` // human heading, e.g. "Battery"
	Rows  []Row  `json:"rows"`
}

// Add appends one row to the group.
func (g *Group) Add(key string, v Value) {
	g.Rows = append(g.Rows, Row{Key: key, Val: v})
}

// Get returns the value for key, or the unknown sentinel when the group
// has no such row.
func (g *Group) Get(key string) Value {
	for _, r := range g.Rows {
		if r.Key == key {
			return r.Val
		}
	}
	return Absent()
}

// Report is the output of one full probe run. Each run produces a fresh
// Report; nothing is merged across runs.
type Report struct {
	Taken     time.Time `json:"taken"`
	ElapsedMs int64     `json:"elapsed_ms"`
	Groups    []Group   `json:"groups"`
}

// Group returns the group with the given probe name, or nil.
func (r *Report) Group(name string) *Group {
	for i := range r.Groups {
		if r.Groups[i].Name == name {
			return &r.Groups[i]
		}
	}
	return nil
}

// Rows counts the rows across all groups.
func (r *Report) Rows() int {
	n := 0
	for i := range r.Groups {
		n += len(r.Groups[i].Rows)
	}
	return n
}
