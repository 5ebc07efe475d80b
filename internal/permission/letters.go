package permission

import "strings"

// Permission letters. Presence of a letter in an entry grants that verb.
const (
	LetterCreate  = 'C'
	LetterRead    = 'R'
	LetterUpdate  = 'U'
	LetterDelete  = 'D'
	LetterApprove = 'A'
)

// methodLetters maps HTTP verbs to the letter they require.
//
// DELETE is intentionally absent: the system this replaces never mapped
// it (a long-standing "DELTE" entry matched nothing), so deletes that
// reach the default module branch have always been denied. Callers may
// depend on that, so the behavior is kept until product confirms
// otherwise.
var methodLetters = map[string]rune{
	"GET":  LetterRead,
	"POST": LetterCreate,
	"PUT":  LetterUpdate,
}

// MethodLetter returns the permission letter required for an HTTP method
// and whether the method maps to one at all.
func MethodLetter(method string) (rune, bool) {
	l, ok := methodLetters[strings.ToUpper(method)]
	return l, ok
}

// Entry is one row of a caller's authorization profile, owned by the
// identity service and fetched fresh per decision.
type Entry struct {
	Module  string `json:"module"`
	Letters string `json:"permissions"`
}

// Grants reports whether the entry's letter set contains l.
func (e Entry) Grants(l rune) bool {
	return strings.ContainsRune(e.Letters, l)
}
