package glossary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
acronyms:
  options:
    capitalize: true
    style: footnote
  endings:
    pl:
      long: s
      short: s
    gen:
      short: "'s"
  plos:
    long: Public Library of Science
    short: PLOS
  NATO:
    long: North Atlantic Treaty Organization
    short: NATO
    long-pl: " members"
    short-gen-form: "NATO's"
  mouse:
    long: mouse
    short: M
    long-pl-form: mice
`

func TestParse_SplitsOptionsEndingsAndEntries(t *testing.T) {
	db, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	require.Equal(t, []string{"plos", "NATO", "mouse"}, db.IDs())
	require.Equal(t, 3, db.Len())

	cfg := db.Config()
	require.Equal(t, true, cfg.Options["capitalize"])
	require.Equal(t, "footnote", cfg.Options["style"])
	require.Equal(t, []string{"pl", "gen"}, cfg.Classes())
	require.Nil(t, cfg.Endings["gen"].Long)
	require.Equal(t, "'s", *cfg.Endings["gen"].Short)
}

func TestParse_BuildsVariants(t *testing.T) {
	db, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	nato, ok := db.Entry("NATO")
	require.True(t, ok)
	require.Equal(t, " members", *nato.Variants["pl"].Long)
	require.Equal(t, "NATO's", *nato.Variants["gen"].ShortForm)
	// the same key doubles as the append override of a class named "gen-form"
	require.Equal(t, "NATO's", *nato.Variants["gen-form"].Short)
}

func TestParse_MissingRoot(t *testing.T) {
	for name, doc := range map[string]string{
		"empty document": "",
		"no root key":    "glossary:\n  a: {long: x, short: y}\n",
		"root is a list": "acronyms:\n  - a\n",
		"root is null":   "acronyms:\n",
		"top is scalar":  "hello",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.ErrorIs(t, err, ErrMissingRoot)
		})
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("acronyms: [unclosed"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMissingRoot)
}

func TestParse_RejectsNestedOption(t *testing.T) {
	_, err := Parse([]byte("acronyms:\n  options:\n    nested:\n      a: b\n"))
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestParse_RejectsScalarEnding(t *testing.T) {
	_, err := Parse([]byte("acronyms:\n  endings:\n    pl: s\n"))
	require.ErrorIs(t, err, ErrInvalidEnding)
}

func TestParse_SkipsIncompleteEntries(t *testing.T) {
	db, err := Parse([]byte(`
acronyms:
  good: {long: Good, short: G}
  nolong: {short: N}
  noshort: {long: No short}
  scalar: just text
`))
	require.NoError(t, err)
	require.Equal(t, []string{"good"}, db.IDs())
}

func TestParse_NullValuesAreAbsent(t *testing.T) {
	db, err := Parse([]byte(`
acronyms:
  endings:
    pl:
      long:
      short: s
  a:
    long: A
    short: B
    long-pl: ~
`))
	require.NoError(t, err)

	cfg := db.Config()
	require.Nil(t, cfg.Endings["pl"].Long)

	e, ok := db.Entry("a")
	require.True(t, ok)
	require.Nil(t, e.Variants["pl"].Long)
}

func TestParse_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	db, err := Parse([]byte(`
acronyms:
  a: {long: First, short: F}
  b: {long: Bee, short: B}
`))
	require.NoError(t, err)
	db.add(Entry{ID: "a", Long: "Second", Short: "S"})

	require.Equal(t, []string{"a", "b"}, db.IDs())
	e, _ := db.Entry("a")
	require.Equal(t, "Second", e.Long)
}

func TestParse_FollowsAliases(t *testing.T) {
	db, err := Parse([]byte(`
base: &who {long: World Health Organization, short: WHO}
acronyms:
  who: *who
`))
	require.NoError(t, err)
	text, ok := db.Resolve("who", nil)
	require.True(t, ok)
	require.Equal(t, "World Health Organization (WHO)", text)
}

func TestDatabase_FindIgnoresCase(t *testing.T) {
	db, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	e, ok := db.Find("nato")
	require.True(t, ok)
	require.Equal(t, "NATO", e.ID)

	_, ok = db.Entry("nato")
	require.False(t, ok, "exact lookup is case-sensitive")
}

func TestDatabase_ListAcronyms(t *testing.T) {
	db, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	list := db.ListAcronyms()
	require.Len(t, list, 3)
	require.Equal(t, Summary{
		ID:    "plos",
		Full:  "Public Library of Science (PLOS)",
		Long:  "Public Library of Science",
		Short: "PLOS",
	}, list[0])
	require.Equal(t, "mouse (M)", list[2].Full, "listing never applies classes")
}

func TestEmpty(t *testing.T) {
	db := Empty()
	require.Zero(t, db.Len())
	require.Empty(t, db.ListAcronyms())
	require.Empty(t, db.ListClasses())
}
