// Package qaparser finds numbered "N. Question?\nAnswer" entries in plain text.
package qaparser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"docqa/internal/domain"
)

// Parser scans text for numbered question/answer pairs.
//
// An entry starts at a run of digits followed by a period. The question is the
// shortest run of text ending in '?' whose trailing whitespace holds at least one
// newline; it may span lines. The answer starts after that whitespace and runs up
// to the next newline followed by digits and a period, or the end of the text.
// Numbers are delimiters only: gaps, repeats and out-of-order numbering are accepted.
type Parser struct{}

// New returns a Parser.
func New() *Parser { return &Parser{} }

// Parse returns the pairs in order of appearance. Both fields are trimmed,
// the question before its closing '?' is re-attached. Duplicates are kept.
func (p *Parser) Parse(text string) []domain.QAPair {
	var pairs []domain.QAPair
	pos := 0
	for pos < len(text) {
		m, ok := matchAt(text, pos)
		if !ok {
			break
		}
		pairs = append(pairs, domain.QAPair{
			Question: trim(text[m.qStart:m.qEnd-1]) + "?",
			Answer:   trim(text[m.aStart:m.aEnd]),
		})
		pos = m.aEnd
	}
	return pairs
}

type match struct {
	start        int
	qStart, qEnd int
	aStart, aEnd int
}

// matchAt finds the leftmost entry starting at or after pos.
func matchAt(text string, pos int) (match, bool) {
	for s := pos; s < len(text); {
		r, size := utf8.DecodeRuneInString(text[s:])
		if !unicode.IsDigit(r) {
			s += size
			continue
		}
		digitsEnd := skipDigits(text, s)
		if digitsEnd >= len(text) || text[digitsEnd] != '.' {
			s = digitsEnd
			continue
		}
		qStart := skipSpace(text, digitsEnd+1)
		qEnd, aStart, found := findQuestionEnd(text, qStart)
		if !found {
			// Any later entry starts after qStart and would search a suffix of
			// the same text, so it cannot succeed either.
			return match{}, false
		}
		return match{
			start:  s,
			qStart: qStart,
			qEnd:   qEnd,
			aStart: aStart,
			aEnd:   findAnswerEnd(text, aStart),
		}, true
	}
	return match{}, false
}

// findQuestionEnd returns the offset just past the first '?' followed by
// whitespace containing a newline, and the offset where that whitespace ends.
func findQuestionEnd(text string, from int) (qEnd, aStart int, ok bool) {
	for i := from; i < len(text); i++ {
		if text[i] != '?' {
			continue
		}
		wsEnd := skipSpace(text, i+1)
		if strings.IndexByte(text[i+1:wsEnd], '\n') >= 0 {
			return i + 1, wsEnd, true
		}
	}
	return 0, 0, false
}

// findAnswerEnd returns the first offset at or after from where a newline is
// followed by digits and a period, or len(text).
func findAnswerEnd(text string, from int) int {
	for i := from; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		end := skipDigits(text, i+1)
		if end > i+1 && end < len(text) && text[end] == '.' {
			return i
		}
	}
	return len(text)
}

func skipDigits(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsDigit(r) {
			break
		}
		i += size
	}
	return i
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isSpace(r) {
			break
		}
		i += size
	}
	return i
}

// isSpace extends unicode.IsSpace with the information separators
// U+001C..U+001F, which documents use as whitespace too.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r >= 0x1C && r <= 0x1F
}

func trim(s string) string { return strings.TrimFunc(s, isSpace) }
