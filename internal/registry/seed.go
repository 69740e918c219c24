package registry

import "github.com/mcoot/askgod-go/internal/model"

// DefaultChallenges is the stock challenge set the server is seeded with.
func DefaultChallenges() []model.Challenge {
	return []model.Challenge{
		{Name: "[Binary Breakthrough]", Flag: "CTF-B1n@ryBr34k!", Points: 20},
		{Name: "[Cipher Conundrum]", Flag: "CTF-C1ph3rC0nunDruM", Points: 10},
		{Name: "[Web Wonders]", Flag: "CTF-W3bW0nd3rsCTF", Points: 10},
		{Name: "[Forensic Frenzy]", Flag: "CTF-F0r3ns1cFr3nzY!", Points: 30},
		{Name: "[Crypto Quest]", Flag: "CTF-CrYpt0Qu35t!", Points: 10},
		{Name: "[Networking Nemesis]", Flag: "CTF-N3twork1ngN3m3sis", Points: 50},
		{Name: "[Steganography Saga]", Flag: "CTF-St3g4n0gr4phY", Points: 50},
		{Name: "[Reverse Engineering Riddle]", Flag: "CTF-R3v3rs3Eng1ne3r", Points: 10},
		{Name: "[Exploit Expedition]", Flag: "CTF-Explo1tExped!t10n", Points: 30},
		{Name: "[Mobile Mysteries]", Flag: "CTF-M0b1leMy5ter1es", Points: 20},
		{Name: "[Pwnable Puzzle]", Flag: "CTF-Pwn4blePuzzl3!", Points: 20},
		{Name: "[SQL Injection Safari]", Flag: "CTF-SQL1nj3ctionSafar1!", Points: 10},
	}
}
