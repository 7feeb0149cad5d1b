package domain

import "github.com/shopspring/decimal"

// nullNamePart is how a NULL name column appears in a report key. Existing
// baseline tables were keyed this way (e.g. "Charlesnull").
const nullNamePart = "null"

type User struct {
	ID            int64
	FirstName     string
	LastName      string
	FirstNameNull bool
	LastNameNull  bool
	Balance       *decimal.Decimal
}

// Key is the legacy join key between the roster, the baseline table and
// the report: first and last name concatenated, case-sensitive, with a
// NULL part rendered as "null".
func (u User) Key() string {
	return namePart(u.FirstName, u.FirstNameNull) + namePart(u.LastName, u.LastNameNull)
}

func namePart(s string, null bool) string {
	if null {
		return nullNamePart
	}
	return s
}
