package model

import "time"

// Player represents a registered competitor. The name is the unique identity;
// the secret is compared verbatim (the wire protocol is plaintext by design).
type Player struct {
	Name      string
	Secret    string
	CreatedAt time.Time

	// History is the append-only list of every flag the player submitted,
	// valid or not, in submission order.
	History []string

	// Successes counts submissions that matched a challenge.
	Successes int

	// TeamName is the back-reference to the player's team, empty until the
	// player joins one. A player belongs to at most one team.
	TeamName string
}
