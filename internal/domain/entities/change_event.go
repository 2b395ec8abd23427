package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// Table names used on the change feed
const (
	TableUsers         = "users"
	TableProjects      = "projects"
	TableInvestments   = "investments"
	TableKYCDocuments  = "kyc_documents"
	TableNotifications = "notifications"
)

// ChangeType is the kind of row change
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent is a row-level change notification
type ChangeEvent struct {
	Table           string          `json:"table"`
	Type            ChangeType      `json:"type"`
	New             json.RawMessage `json:"new,omitempty"`
	Old             json.RawMessage `json:"old,omitempty"`
	CommitTimestamp time.Time       `json:"commit_timestamp"`
}

// NewChangeEvent encodes the new and old rows of a change. Either row may be nil.
func NewChangeEvent(table string, typ ChangeType, newRow, oldRow interface{}) (ChangeEvent, error) {
	ev := ChangeEvent{Table: table, Type: typ, CommitTimestamp: time.Now().UTC()}
	if newRow != nil {
		b, err := json.Marshal(newRow)
		if err != nil {
			return ChangeEvent{}, fmt.Errorf("encode new row: %w", err)
		}
		ev.New = b
	}
	if oldRow != nil {
		b, err := json.Marshal(oldRow)
		if err != nil {
			return ChangeEvent{}, fmt.Errorf("encode old row: %w", err)
		}
		ev.Old = b
	}
	return ev, nil
}

// Row returns the row the event is about: the new row, or the old one for deletes.
func (e ChangeEvent) Row() json.RawMessage {
	if e.Type == ChangeDelete || len(e.New) == 0 {
		return e.Old
	}
	return e.New
}

// Matches reports whether the event's row satisfies f. A nil filter matches everything.
func (e ChangeEvent) Matches(f *Filter) bool {
	if f == nil {
		return true
	}
	return f.MatchesJSON(e.Row())
}
