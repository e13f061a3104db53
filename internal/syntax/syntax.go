// Package syntax recognizes inline acronym references in text.
//
// Two forms are recognized:
//
//	[+ID]{.class .other}   bracketed, with zero or more classes
//	+ID                    bare, no classes
//
// ID is one or more Unicode letters. A class is one or more ASCII word
// characters, introduced by a dot and optionally followed by a single
// whitespace character.
package syntax

import (
	"unicode"
	"unicode/utf8"
)

// Span is one recognized reference. From and To are byte offsets into the
// scanned text, To exclusive.
type Span struct {
	From      int
	To        int
	ID        string
	Classes   []string
	Bracketed bool
}

// Text returns the source text the span covers.
func (s Span) Text(doc string) string {
	return doc[s.From:s.To]
}

// Match reports the reference starting exactly at byte pos, if any.
func Match(text string, pos int) (Span, bool) {
	if pos < 0 || pos >= len(text) {
		return Span{}, false
	}
	if sp, ok := matchBracketed(text, pos); ok {
		return sp, true
	}
	return matchBare(text, pos)
}

// Scan returns every reference in text, left to right, non-overlapping.
func Scan(text string) []Span {
	var spans []Span
	for pos := 0; pos < len(text); {
		c := text[pos]
		if c == '[' || c == '+' {
			if sp, ok := Match(text, pos); ok {
				spans = append(spans, sp)
				pos = sp.To
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
	}
	return spans
}

// matchBracketed matches [+ID]{classes} at pos.
func matchBracketed(text string, pos int) (Span, bool) {
	s := scanner{text: text, pos: pos}
	if !s.accept('[') || !s.accept('+') {
		return Span{}, false
	}
	id, ok := s.letters()
	if !ok || !s.accept(']') || !s.accept('{') {
		return Span{}, false
	}

	var classes []string
	for s.accept('.') {
		class, ok := s.word()
		if !ok {
			return Span{}, false
		}
		classes = append(classes, class)
		s.space()
	}
	if !s.accept('}') {
		return Span{}, false
	}

	return Span{From: pos, To: s.pos, ID: id, Classes: classes, Bracketed: true}, true
}

// matchBare matches +ID at pos, unless pos directly follows '['.
func matchBare(text string, pos int) (Span, bool) {
	if pos > 0 && text[pos-1] == '[' {
		return Span{}, false
	}
	s := scanner{text: text, pos: pos}
	if !s.accept('+') {
		return Span{}, false
	}
	id, ok := s.letters()
	if !ok {
		return Span{}, false
	}
	return Span{From: pos, To: s.pos, ID: id}, true
}

type scanner struct {
	text string
	pos  int
}

func (s *scanner) accept(c byte) bool {
	if s.pos < len(s.text) && s.text[s.pos] == c {
		s.pos++
		return true
	}
	return false
}

// letters consumes one or more Unicode letters.
func (s *scanner) letters() (string, bool) {
	start := s.pos
	for s.pos < len(s.text) {
		r, size := utf8.DecodeRuneInString(s.text[s.pos:])
		if !unicode.IsLetter(r) {
			break
		}
		s.pos += size
	}
	return s.text[start:s.pos], s.pos > start
}

// word consumes one or more ASCII word characters.
func (s *scanner) word() (string, bool) {
	start := s.pos
	for s.pos < len(s.text) && IsWordByte(s.text[s.pos]) {
		s.pos++
	}
	return s.text[start:s.pos], s.pos > start
}

// space consumes at most one whitespace character.
func (s *scanner) space() {
	if s.pos >= len(s.text) {
		return
	}
	r, size := utf8.DecodeRuneInString(s.text[s.pos:])
	if unicode.IsSpace(r) {
		s.pos += size
	}
}

// IsWordByte reports whether c is an ASCII letter, digit or underscore.
func IsWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
