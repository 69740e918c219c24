package model

import "time"

// Team groups players and accumulates their score.
type Team struct {
	Name      string
	Secret    string
	CreatedAt time.Time

	// Members holds the names of the players that joined the team.
	Members []string

	// Score is monotonically non-decreasing; it only grows through credited
	// flag submissions by members.
	Score int

	// Credited tracks which flags have already counted toward Score, so
	// resubmitting a valid flag never double-counts.
	Credited map[string]bool
}

// HasMember reports whether the named player already joined the team.
func (t *Team) HasMember(name string) bool {
	for _, m := range t.Members {
		if m == name {
			return true
		}
	}
	return false
}
