package models

import (
	"strings"
	"time"

	"github.com/BasanLidzhiev/bank-rest/internal/cards"
)

type CardStatus string

const (
	CardActive         CardStatus = "ACTIVE"
	CardBlocked        CardStatus = "BLOCKED"
	CardRequestBlocked CardStatus = "REQUEST_BLOCKED"
	CardExpired        CardStatus = "EXPIRED"
)

// ParseCardStatus maps a status string to a known CardStatus.
func ParseCardStatus(s string) (CardStatus, bool) {
	st := CardStatus(strings.ToUpper(s))
	switch st {
	case CardActive, CardBlocked, CardRequestBlocked, CardExpired:
		return st, true
	}
	return "", false
}

// Card is a monetary account owned by exactly one user. Balance is kept
// in integer minor units (cents). The raw number never leaves the
// service; outward representations go through View.
type Card struct {
	ID            string     `json:"id"`
	Number        string     `json:"-"`
	OwnerID       string     `json:"-"`
	OwnerUsername string     `json:"owner_username"`
	Balance       int64      `json:"balance"`
	Status        CardStatus `json:"status"`
	ExpireAt      time.Time  `json:"expire_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Expired reports whether the card's expiry date lies before the given day.
func (c Card) Expired(now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ey, em, ed := c.ExpireAt.Date()
	return time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC).Before(today)
}

type CardView struct {
	ID            string     `json:"id"`
	MaskedNumber  string     `json:"masked_number"`
	Status        CardStatus `json:"status"`
	ExpireAt      time.Time  `json:"expire_at"`
	Balance       int64      `json:"balance"`
	OwnerUsername string     `json:"owner_username"`
}

func (c Card) View() CardView {
	return CardView{
		ID:            c.ID,
		MaskedNumber:  cards.Mask(c.Number),
		Status:        c.Status,
		ExpireAt:      c.ExpireAt,
		Balance:       c.Balance,
		OwnerUsername: c.OwnerUsername,
	}
}
