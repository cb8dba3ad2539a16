package prediction

import (
	"encoding/json"
	"fmt"
)

// Alignment formats understood by the service.
const (
	FormatStockholm = "sto"
	FormatA3M       = "a3m"
)

// Reference databases the service can search.
const (
	DatabaseUniref90 = "uniref90"
	DatabaseMgnify   = "mgnify"
	DatabaseSmallBFD = "small_bfd"
)

// AlignmentEntry is one database's alignment for a query sequence.
// On the wire it is the array [database, text, format].
type AlignmentEntry struct {
	Database string
	Text     string
	Format   string
}

// MarshalJSON encodes the entry as a 3-element array.
func (e AlignmentEntry) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal([3]string{e.Database, e.Text, e.Format})
	if err != nil {
		return nil, fmt.Errorf("marshal alignment entry: %w", err)
	}
	return b, nil
}

// UnmarshalJSON decodes a 3-element array.
func (e *AlignmentEntry) UnmarshalJSON(data []byte) error {
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("unmarshal alignment entry: %w", err)
	}
	if len(parts) != 3 {
		return fmt.Errorf("alignment entry must have 3 elements, got %d", len(parts))
	}
	e.Database, e.Text, e.Format = parts[0], parts[1], parts[2]
	return nil
}

// Alignment maps database name to that database's alignment for one query sequence.
type Alignment map[string]AlignmentEntry

// NewAlignment builds an Alignment keyed by each entry's database name.
func NewAlignment(entries ...AlignmentEntry) Alignment {
	a := make(Alignment, len(entries))
	for _, e := range entries {
		a[e.Database] = e
	}
	return a
}
