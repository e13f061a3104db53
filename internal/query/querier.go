// Package query is the read boundary over the glossary: the Querier
// interface, a memoizing wrapper, and an HTTP handler and client that carry
// the same three operations between processes.
package query

import (
	"errors"

	"github.com/zjrosen/acro/internal/glossary"
)

// ErrUnknownAcronym is the not-found sentinel for resolution.
var ErrUnknownAcronym = errors.New("unknown acronym")

// Querier answers resolution and listing requests against the current
// glossary snapshot. *glossary.Store implements it.
type Querier interface {
	Resolve(id string, classes []string) (string, bool)
	ListAcronyms() []glossary.Summary
	ListClasses() []string
}

var _ Querier = (*glossary.Store)(nil)
