// Package protocol defines the AskGod command grammar and response framing
// shared by the server session handler and the interactive client.
package protocol

import "strings"

// Command verbs.
const (
	VerbReg        = "REG"
	VerbRegTeam    = "REGTEAM"
	VerbStatus     = "STATUS"
	VerbHistory    = "HISTORY"
	VerbScoreboard = "SCOREBOARD"
	VerbSubmit     = "SUBMIT"
	VerbFlag       = "FLAG"
)

// Response codes. Codes 245-247 open a multi-line block terminated by one
// empty line; everything else is a single-line response.
const (
	CodeWelcome    = "201"
	CodeOK         = "200"
	CodeHistory    = "245"
	CodeScoreboard = "246"
	CodeStatus     = "247"
	CodeError      = "400"
	CodeInvalid    = "401"
)

// ParseCommand splits a protocol line into its verb and argument payload.
// The line is split on the first '|'; the left segment, trimmed and
// upper-cased, is the verb; the right segment, if any, is passed through
// untouched so handlers can trim at point of use.
func ParseCommand(line string) (verb, arg string) {
	verb, arg, _ = strings.Cut(strings.TrimSpace(line), "|")
	return strings.ToUpper(strings.TrimSpace(verb)), arg
}

// ParseCredentials splits a "<name> <secret>" argument. ok is false when the
// argument is empty or the secret is missing; name may still be empty after
// a successful split if the caller sent only whitespace, so callers check it.
func ParseCredentials(arg string) (name, secret string, ok bool) {
	fields := strings.SplitN(strings.TrimSpace(arg), " ", 2)
	if len(fields) < 2 {
		return "", "", false
	}
	secret = strings.TrimSpace(fields[1])
	if secret == "" {
		return fields[0], "", false
	}
	return fields[0], secret, true
}

// IsBlockResponse reports whether a response line opens a multi-line block
// that the client must drain until an empty line arrives.
func IsBlockResponse(line string) bool {
	return strings.HasPrefix(line, CodeHistory) ||
		strings.HasPrefix(line, CodeScoreboard) ||
		strings.HasPrefix(line, CodeStatus)
}
