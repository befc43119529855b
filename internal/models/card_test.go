package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCardStatus(t *testing.T) {
	for _, in := range []string{"ACTIVE", "active", "Blocked", "REQUEST_BLOCKED", "expired"} {
		st, ok := ParseCardStatus(in)
		assert.True(t, ok, in)
		assert.NotEmpty(t, st)
	}

	_, ok := ParseCardStatus("FROZEN")
	assert.False(t, ok)
	_, ok = ParseCardStatus("")
	assert.False(t, ok)
}

func TestCardExpired(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	assert.True(t, Card{ExpireAt: now.AddDate(0, 0, -1)}.Expired(now))
	assert.False(t, Card{ExpireAt: now.AddDate(0, 0, 1)}.Expired(now))

	// Expiry on the current day still counts as valid.
	assert.False(t, Card{ExpireAt: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)}.Expired(now))
}

func TestCardViewMasksNumber(t *testing.T) {
	c := Card{ID: "c1", Number: "1111222233334444", Status: CardActive, Balance: 100, OwnerUsername: "alex"}
	v := c.View()

	assert.Equal(t, "**** **** **** 4444", v.MaskedNumber)
	assert.Equal(t, "c1", v.ID)
	assert.Equal(t, int64(100), v.Balance)
	assert.Equal(t, "alex", v.OwnerUsername)
}
