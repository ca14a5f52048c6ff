package player

import (
	"time"
)

// Player is the identity anchor every piece of village state hangs off. The
// id comes from the identity provider's token subject.
type Player struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
