package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/ledger-reconciler/internal/domain"
)

const sampleBaseline = `
by_user_id:
  7: 5250
  8: -12400.50
by_name:
  AndyMa: 0
  LeonLin: 0.1
  JohnDoe: 99
`

func TestLookup(t *testing.T) {
	table, err := Parse([]byte(sampleBaseline))
	require.NoError(t, err)

	tests := []struct {
		name string
		user domain.User
		want string
	}{
		{
			name: "keyed by user id",
			user: domain.User{ID: 7, FirstName: "Jane", LastName: "Doe"},
			want: "5250",
		},
		{
			name: "negative opening position",
			user: domain.User{ID: 8, FirstName: "Kevin", LastName: "Zhu"},
			want: "-12400.5",
		},
		{
			name: "user id wins over name",
			user: domain.User{ID: 7, FirstName: "John", LastName: "Doe"},
			want: "5250",
		},
		{
			name: "falls back to name key",
			user: domain.User{ID: 1, FirstName: "Leon", LastName: "Lin"},
			want: "0.1",
		},
		{
			name: "name key is case-sensitive",
			user: domain.User{ID: 2, FirstName: "leon", LastName: "lin"},
			want: "0",
		},
		{
			name: "absent user is zero",
			user: domain.User{ID: 3, FirstName: "Vivian", LastName: "Xu"},
			want: "0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := table.Lookup(tc.user)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"got %s, want %s", got, tc.want)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "non-numeric amount", body: "by_name:\n  AndyMa: lots\n"},
		{name: "nested amount", body: "by_name:\n  AndyMa:\n    value: 1\n"},
		{name: "non-integer user id", body: "by_user_id:\n  abc: 1\n"},
		{name: "empty name key", body: "by_name:\n  \"\": 1\n"},
		{name: "malformed yaml", body: "by_name: [\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.body))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty path yields empty table", func(t *testing.T) {
		table, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 0, table.Len())
		assert.True(t, table.Lookup(domain.User{ID: 1}).IsZero())
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "baseline.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleBaseline), 0o600))

		table, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 5, table.Len())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestNew_CopiesInput(t *testing.T) {
	byName := map[string]decimal.Decimal{"AndyMa": decimal.NewFromInt(10)}
	table := New(nil, byName)
	byName["AndyMa"] = decimal.NewFromInt(20)

	got := table.Lookup(domain.User{FirstName: "Andy", LastName: "Ma"})
	assert.True(t, got.Equal(decimal.NewFromInt(10)))
}
