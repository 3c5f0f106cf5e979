package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduledResolved(t *testing.T) {
	s := ScheduledTransaction{Ref: "cal/1"}
	assert.False(t, s.Resolved())

	s.PaidDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.True(t, s.Resolved())
}

func TestHoldKey(t *testing.T) {
	a := Hold{Account: "CHK", Amount: -1250, Description: "COFFEE SHOP"}
	b := Hold{Account: "CHK", Amount: -1250, Description: "COFFEE SHOP",
		DateApplied: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}
	c := Hold{Account: "CHK", Amount: -1250, Description: "GAS STATION"}

	assert.Equal(t, a.Key(), b.Key(), "dateApplied is not part of identity")
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("X", -5*3600)
	in := time.Date(2025, 3, 10, 23, 45, 1, 0, loc)
	got := DateOnly(in)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), got)

	assert.True(t, DateOnly(time.Time{}).IsZero(), "zero stays zero")
}
