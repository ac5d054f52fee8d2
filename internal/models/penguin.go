package models

import "time"

// Penguin is a single tracked penguin record. Age, weight and height are
// optional and stay nil when the caller did not provide them. UserID is the
// owning user; legacy records imported before ownership existed have none.
type Penguin struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Species   string    `json:"species"`
	Age       *int      `json:"age"`
	Location  string    `json:"location"`
	Weight    *float64  `json:"weight"`
	Height    *float64  `json:"height"`
	UserID    *string   `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Owned reports whether the record carries an owner reference.
func (p *Penguin) Owned() bool {
	return p.UserID != nil && *p.UserID != ""
}

// PenguinStats is the aggregate returned by the stats endpoint.
type PenguinStats struct {
	TotalPenguins int64  `json:"total_penguins"`
	LatestPenguin string `json:"latest_penguin"`
}
