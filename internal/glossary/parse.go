package glossary

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/acro/internal/log"
)

// RootKey is the top-level key every glossary file nests its content under.
const RootKey = "acronyms"

const (
	keyOptions = "options"
	keyEndings = "endings"
	keyLong    = "long"
	keyShort   = "short"
	formSuffix = "-form"
)

var (
	// ErrMissingRoot means the document has no mapping under RootKey.
	ErrMissingRoot = errors.New("glossary: missing acronyms mapping")
	// ErrInvalidOption means an option value is not a string or bool.
	ErrInvalidOption = errors.New("glossary: option must be a string or bool")
	// ErrInvalidEnding means an ending is not a mapping.
	ErrInvalidEnding = errors.New("glossary: ending must be a mapping")
)

// Parse builds a database from a YAML document. File order of entries and
// endings is kept. Entries missing long or short are skipped with a warning
// so that one bad entry does not discard the whole glossary.
func Parse(data []byte) (*Database, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrMissingRoot
	}

	root := deref(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, ErrMissingRoot
	}
	acronyms := lookup(root, RootKey)
	if acronyms == nil || acronyms.Kind != yaml.MappingNode {
		return nil, ErrMissingRoot
	}

	db := Empty()
	for i := 0; i+1 < len(acronyms.Content); i += 2 {
		key := acronyms.Content[i].Value
		val := deref(acronyms.Content[i+1])

		switch key {
		case keyOptions:
			opts, err := parseOptions(val)
			if err != nil {
				return nil, err
			}
			db.config.Options = opts
		case keyEndings:
			endings, order, err := parseEndings(val)
			if err != nil {
				return nil, err
			}
			db.config.Endings = endings
			db.config.classes = order
		default:
			entry, ok := parseEntry(key, val)
			if !ok {
				continue
			}
			db.add(entry)
		}
	}

	return db, nil
}

// add inserts or replaces an entry. A repeated key keeps its first position.
func (db *Database) add(e Entry) {
	if _, exists := db.items[e.ID]; !exists {
		db.order = append(db.order, e.ID)
	}
	db.items[e.ID] = e

	folded := strings.ToLower(e.ID)
	if _, taken := db.folded[folded]; !taken {
		db.folded[folded] = e.ID
	}
}

func parseOptions(n *yaml.Node) (map[string]any, error) {
	opts := map[string]any{}
	if isNull(n) {
		return opts, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: options is not a mapping", ErrInvalidOption)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := deref(n.Content[i+1])
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: %s", ErrInvalidOption, key)
		}
		if val.ShortTag() == "!!bool" {
			var b bool
			if err := val.Decode(&b); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOption, key, err)
			}
			opts[key] = b
			continue
		}
		opts[key] = val.Value
	}
	return opts, nil
}

func parseEndings(n *yaml.Node) (map[string]Ending, []string, error) {
	endings := map[string]Ending{}
	var order []string
	if isNull(n) {
		return endings, order, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("%w: endings is not a mapping", ErrInvalidEnding)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		class := n.Content[i].Value
		val := deref(n.Content[i+1])

		var end Ending
		switch {
		case isNull(val):
		case val.Kind == yaml.MappingNode:
			end.Long = scalar(lookup(val, keyLong))
			end.Short = scalar(lookup(val, keyShort))
		default:
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidEnding, class)
		}

		if _, seen := endings[class]; !seen {
			order = append(order, class)
		}
		endings[class] = end
	}
	return endings, order, nil
}

func parseEntry(id string, n *yaml.Node) (Entry, bool) {
	if n.Kind != yaml.MappingNode {
		log.Warn(log.CatGlossary, "Skipping acronym that is not a mapping", "id", id)
		return Entry{}, false
	}

	e := Entry{ID: id, Variants: map[string]Variant{}}
	var hasLong, hasShort bool

	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := scalar(deref(n.Content[i+1]))
		if val == nil {
			continue
		}

		switch {
		case key == keyLong:
			e.Long, hasLong = *val, true
		case key == keyShort:
			e.Short, hasShort = *val, true
		case strings.HasPrefix(key, keyLong+"-"):
			setVariant(e.Variants, strings.TrimPrefix(key, keyLong+"-"), val, true)
		case strings.HasPrefix(key, keyShort+"-"):
			setVariant(e.Variants, strings.TrimPrefix(key, keyShort+"-"), val, false)
		default:
			log.Debug(log.CatGlossary, "Ignoring unknown acronym key", "id", id, "key", key)
		}
	}

	if !hasLong || !hasShort {
		log.Warn(log.CatGlossary, "Skipping acronym without long and short form", "id", id)
		return Entry{}, false
	}
	return e, true
}

// setVariant records one dynamic key. "long-x-form" is both the form of
// class "x" and the append override of a class literally named "x-form".
func setVariant(variants map[string]Variant, rest string, val *string, long bool) {
	if rest == "" {
		return
	}

	v := variants[rest]
	if long {
		v.Long = val
	} else {
		v.Short = val
	}
	variants[rest] = v

	class, isForm := strings.CutSuffix(rest, formSuffix)
	if !isForm || class == "" {
		return
	}
	f := variants[class]
	if long {
		f.LongForm = val
	} else {
		f.ShortForm = val
	}
	variants[class] = f
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return deref(m.Content[i+1])
		}
	}
	return nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// scalar returns the string value of a non-null scalar node.
func scalar(n *yaml.Node) *string {
	if isNull(n) || n.Kind != yaml.ScalarNode {
		return nil
	}
	s := n.Value
	return &s
}
