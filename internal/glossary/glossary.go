// Package glossary holds the acronym database: its data model, the YAML
// loader, the resolution rules for modifier classes and the Store that
// swaps complete snapshots in on every load.
package glossary

import "strings"

// Ending is the default suffix a class appends to every entry that has no
// override of its own. A nil field means the ending does not define it.
type Ending struct {
	Long  *string
	Short *string
}

// Variant is an entry's own behaviour for one class.
//
// Long and Short are appended to the base forms; LongForm and ShortForm
// replace the computed forms entirely when non-empty.
type Variant struct {
	Long      *string
	Short     *string
	LongForm  *string
	ShortForm *string
}

// Entry is one acronym.
type Entry struct {
	ID       string
	Long     string
	Short    string
	Variants map[string]Variant
}

// Full joins the unmodified forms as "long (short)".
func (e Entry) Full() string {
	return Full(e.Long, e.Short)
}

// Full formats a long and short form the way every surface displays them.
func Full(long, short string) string {
	return long + " (" + short + ")"
}

// Config is the non-entry part of the glossary.
type Config struct {
	// Options are free-form formatting switches; values are string or bool.
	Options map[string]any
	// Endings are keyed by class name.
	Endings map[string]Ending

	classes []string
}

// Classes returns the configured class names in file order.
func (c Config) Classes() []string {
	out := make([]string, len(c.classes))
	copy(out, c.classes)
	return out
}

// Summary is the listing view of an entry, decoupled from Entry so callers
// never see the variant table.
type Summary struct {
	ID    string `json:"id"`
	Full  string `json:"full"`
	Long  string `json:"long"`
	Short string `json:"short"`
}

// Database is an immutable snapshot of a loaded glossary.
type Database struct {
	order  []string
	items  map[string]Entry
	folded map[string]string
	config Config
}

// Empty returns a database with no entries and no configuration.
func Empty() *Database {
	return &Database{
		items:  map[string]Entry{},
		folded: map[string]string{},
		config: Config{Options: map[string]any{}, Endings: map[string]Ending{}},
	}
}

// Len reports the number of entries.
func (db *Database) Len() int {
	return len(db.order)
}

// Config returns the glossary configuration.
func (db *Database) Config() Config {
	return db.config
}

// Entry looks an identifier up exactly as written.
func (db *Database) Entry(id string) (Entry, bool) {
	e, ok := db.items[id]
	return e, ok
}

// Find looks an identifier up ignoring case. When several identifiers fold
// to the same key the first one in file order wins.
func (db *Database) Find(id string) (Entry, bool) {
	canonical, ok := db.folded[strings.ToLower(id)]
	if !ok {
		return Entry{}, false
	}
	return db.items[canonical], true
}

// IDs returns the identifiers in file order.
func (db *Database) IDs() []string {
	out := make([]string, len(db.order))
	copy(out, db.order)
	return out
}

// ListAcronyms lists every entry with its unmodified forms, in file order.
func (db *Database) ListAcronyms() []Summary {
	out := make([]Summary, 0, len(db.order))
	for _, id := range db.order {
		e := db.items[id]
		out = append(out, Summary{ID: id, Full: e.Full(), Long: e.Long, Short: e.Short})
	}
	return out
}

// ListClasses returns the known modifier classes. Classes come only from
// configured endings, never from entry variants.
func (db *Database) ListClasses() []string {
	return db.config.Classes()
}
