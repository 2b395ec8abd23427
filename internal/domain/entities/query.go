package entities

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Filter is a single column-equality predicate, the only filter shape the
// change feed can evaluate server-side.
type Filter struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// ParseFilter parses the "column=eq.value" form used on the realtime endpoint.
func ParseFilter(s string) (*Filter, error) {
	if s == "" {
		return nil, nil
	}
	col, rest, ok := strings.Cut(s, "=")
	if !ok || col == "" {
		return nil, fmt.Errorf("invalid filter %q", s)
	}
	val, ok := strings.CutPrefix(rest, "eq.")
	if !ok {
		return nil, fmt.Errorf("unsupported filter operator in %q", s)
	}
	return &Filter{Column: col, Value: val}, nil
}

// String renders the filter in "column=eq.value" form.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.Column + "=eq." + f.Value
}

// MatchesJSON reports whether the encoded row has Column equal to Value.
func (f *Filter) MatchesJSON(row json.RawMessage) bool {
	if f == nil {
		return true
	}
	if len(row) == 0 {
		return false
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(row, &fields); err != nil {
		return false
	}
	v, ok := fields[f.Column]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t == f.Value
	default:
		return fmt.Sprint(t) == f.Value
	}
}

// Order is a single-column ordering
type Order struct {
	Column     string `json:"column"`
	Descending bool   `json:"descending"`
}

// String renders the ordering as "column.asc" or "column.desc".
func (o *Order) String() string {
	if o == nil {
		return ""
	}
	if o.Descending {
		return o.Column + ".desc"
	}
	return o.Column + ".asc"
}

// ParseOrder parses "column.asc" / "column.desc"; a bare column sorts ascending.
func ParseOrder(s string) *Order {
	if s == "" {
		return nil
	}
	if col, ok := strings.CutSuffix(s, ".desc"); ok {
		return &Order{Column: col, Descending: true}
	}
	col, _ := strings.CutSuffix(s, ".asc")
	return &Order{Column: col}
}
