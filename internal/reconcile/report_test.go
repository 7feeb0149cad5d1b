package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := &Report{
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Tolerance:  DefaultTolerance,
		Entries: []Entry{
			{UserID: 1, Key: "AndyMa", Discrepancy: dec("50")},
			{UserID: 2, Key: "LeonLin", Discrepancy: decimal.Zero},
			{UserID: 3, Key: "KevinZhu", Discrepancy: dec("-0.5")},
		},
	}

	byKey := r.ByKey()
	assert.Len(t, byKey, 3)
	assert.True(t, byKey["AndyMa"].Equal(dec("50")))
	assert.True(t, byKey["LeonLin"].IsZero())

	byID := r.ByUserID()
	assert.Len(t, byID, 3)
	assert.True(t, byID[3].Equal(dec("-0.5")))

	discrepant := r.Discrepant()
	if assert.Len(t, discrepant, 2) {
		assert.Equal(t, "AndyMa", discrepant[0].Key)
		assert.Equal(t, "KevinZhu", discrepant[1].Key)
	}

	assert.True(t, r.Entries[1].Balanced())
	assert.False(t, r.Entries[0].Balanced())
	assert.Equal(t, 1500*time.Millisecond, r.Duration())
}
