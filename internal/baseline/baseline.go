// Package baseline holds opening positions: funds a user holds outside the
// payment ledger, such as deposits recorded before the ledger existed.
package baseline

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/josh-kwaku/ledger-reconciler/internal/domain"
)

// Table is immutable once built and safe for concurrent lookups.
type Table struct {
	byUserID map[int64]decimal.Decimal
	byName   map[string]decimal.Decimal
}

// Amount decodes a YAML scalar straight into a decimal so values such as
// 0.1 never pass through float64.
type Amount decimal.Decimal

func (a *Amount) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", value.Line)
	}
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid amount %q: %w", value.Line, value.Value, err)
	}
	*a = Amount(d)
	return nil
}

type file struct {
	ByUserID map[int64]Amount  `yaml:"by_user_id"`
	ByName   map[string]Amount `yaml:"by_name"`
}

func New(byUserID map[int64]decimal.Decimal, byName map[string]decimal.Decimal) *Table {
	t := &Table{
		byUserID: make(map[int64]decimal.Decimal, len(byUserID)),
		byName:   make(map[string]decimal.Decimal, len(byName)),
	}
	for id, amt := range byUserID {
		t.byUserID[id] = amt
	}
	for name, amt := range byName {
		t.byName[name] = amt
	}
	return t
}

// Empty returns a table in which every user's opening position is zero.
func Empty() *Table {
	return New(nil, nil)
}

// Load reads a YAML baseline file. An empty path yields an empty table.
func Load(path string) (*Table, error) {
	if path == "" {
		return Empty(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("baseline.Load: %w", err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("baseline.Load: %s: %w", path, err)
	}
	return t, nil
}

func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("Parse: %w", err)
	}

	byUserID := make(map[int64]decimal.Decimal, len(f.ByUserID))
	for id, amt := range f.ByUserID {
		byUserID[id] = decimal.Decimal(amt)
	}
	byName := make(map[string]decimal.Decimal, len(f.ByName))
	for name, amt := range f.ByName {
		if name == "" {
			return nil, fmt.Errorf("Parse: empty name key")
		}
		byName[name] = decimal.Decimal(amt)
	}
	return New(byUserID, byName), nil
}

// Lookup returns the user's opening position. An entry keyed by user ID
// wins over one keyed by name; a user with neither gets zero.
func (t *Table) Lookup(u domain.User) decimal.Decimal {
	if amt, ok := t.byUserID[u.ID]; ok {
		return amt
	}
	if amt, ok := t.byName[u.Key()]; ok {
		return amt
	}
	return decimal.Zero
}

func (t *Table) Len() int {
	return len(t.byUserID) + len(t.byName)
}
