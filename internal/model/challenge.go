package model

// Challenge is one scoring target: an exact-match flag string worth a fixed
// number of points. The challenge set is seeded at startup and immutable
// afterwards, so it needs no synchronization.
type Challenge struct {
	Name   string
	Flag   string
	Points int
}
