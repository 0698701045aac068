package engine

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/MirandaEdu/Tally/internal/subjects"
)

// Optional is an explicit present/absent string value. A cleared field and a
// never-set field are both Absent; the empty string is never a valid value.
// On the wire it is a plain string or null.
type Optional struct {
	Value   string
	Present bool
}

// Some wraps a value as present.
func Some(v string) Optional {
	return Optional{Value: v, Present: true}
}

// None is the absent value.
func None() Optional {
	return Optional{}
}

// Equal reports whether two optionals carry the same state and value.
func (o Optional) Equal(other Optional) bool {
	if o.Present != other.Present {
		return false
	}
	return !o.Present || o.Value == other.Value
}

// MarshalJSON renders Absent as null and Present as the bare string.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Present {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON accepts a string or null. The empty string collapses to
// Absent, so "cleared" and "never set" are one state.
func (o *Optional) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = None()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*o = None()
		return nil
	}
	*o = Some(s)
	return nil
}

// SubjectRow is one input slot of a comparison. The ID is generated once and
// never reused after deletion; callers key maps by it.
type SubjectRow struct {
	ID      uuid.UUID     `json:"id"`
	Subject Optional      `json:"subject"`
	Raw     Optional      `json:"raw_result"`
	Lower   Optional      `json:"lower_result"`
	Upper   Optional      `json:"upper_result"`
	Rule    subjects.Rule `json:"validation_rule,omitempty"`
}

// NewRow allocates an empty row with a fresh identity.
func NewRow() *SubjectRow {
	return &SubjectRow{ID: uuid.New()}
}

// clone returns a copy of the row sharing the same identity.
func (r *SubjectRow) clone() *SubjectRow {
	c := *r
	return &c
}
