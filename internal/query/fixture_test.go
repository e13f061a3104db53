package query

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/acro/internal/glossary"
)

const glossaryYAML = `
acronyms:
  endings:
    pl:
      long: s
      short: s
  plos:
    long: Public Library of Science
    short: PLOS
  NATO:
    long: North Atlantic Treaty Organization
    short: NATO
`

// loadedStore writes contents to a temp glossary and loads it.
func loadedStore(t *testing.T, contents string) (*glossary.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "acronyms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	store := glossary.NewStore()
	t.Cleanup(store.Close)
	require.NoError(t, store.Load(context.Background(), path))
	return store, path
}
