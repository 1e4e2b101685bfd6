package contracts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreComponents_Total(t *testing.T) {
	c := ScoreComponents{
		BalanceSheet: 20, Treasury: -5, ReverseRepo: 10,
		US: 25, Dollar: -20, China: 15, Japan: -5, EM: 10,
	}

	assert.Equal(t, 25, c.Total())
	assert.Equal(t, 25.0, c.Factors()["us"])
	assert.Len(t, c.Factors(), 5)
}

func TestSnapshot_GetMissingIsZero(t *testing.T) {
	s := NewSnapshot(d("2024-01-03"))
	assert.Equal(t, 0.0, s.Get(BalanceSheet))
}

func TestSnapshot_WithDoesNotMutate(t *testing.T) {
	base := NewSnapshot(d("2024-01-03")).With(CarryPair, 150)
	next := base.With(CarryPair, 160)

	assert.Equal(t, 150.0, base.Get(CarryPair))
	assert.Equal(t, 160.0, next.Get(CarryPair))
	assert.Equal(t, []Indicator{CarryPair}, next.Indicators())
}

func TestDegraded(t *testing.T) {
	at := d("2024-01-03")
	r := Degraded(at, errors.New("division by zero"))

	assert.True(t, r.IsDegraded())
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, "division by zero", r.Recommendation)
	assert.Equal(t, at, r.Timestamp)
}

func TestIndicator_IsKnown(t *testing.T) {
	assert.True(t, BalanceSheet.IsKnown())
	assert.False(t, Indicator("walcl").IsKnown())
}
