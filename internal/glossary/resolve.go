package glossary

import "strings"

// reserved modifiers are formatting switches, never classes.
var reserved = map[string]struct{}{
	"short": {},
	"long":  {},
	"caps":  {},
}

// Modifier picks the single class that resolution honours: the first one
// that is not reserved and not blank.
func Modifier(classes []string) (string, bool) {
	for _, c := range classes {
		if _, ok := reserved[c]; ok {
			continue
		}
		if strings.TrimSpace(c) == "" {
			continue
		}
		return c, true
	}
	return "", false
}

// Resolve computes the display text for id under the given classes.
// The boolean is false when id is not in the database.
func (db *Database) Resolve(id string, classes []string) (string, bool) {
	e, ok := db.items[id]
	if !ok {
		return "", false
	}

	long, short := e.Long, e.Short
	mod, ok := Modifier(classes)
	if !ok {
		return Full(long, short), true
	}

	v := e.Variants[mod]
	end := db.config.Endings[mod]

	long += firstOf(v.Long, end.Long)
	short += firstOf(v.Short, end.Short)

	if v.LongForm != nil && *v.LongForm != "" {
		long = *v.LongForm
	}
	if v.ShortForm != nil && *v.ShortForm != "" {
		short = *v.ShortForm
	}

	return Full(long, short), true
}

// firstOf returns the first defined value. A defined empty string wins over
// a later fallback.
func firstOf(vals ...*string) string {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return ""
}
