package qaparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func TestParse_TwoEntries(t *testing.T) {
	text := "1. What is the capital of France?\nParis.\n2. What is 2+2?\n4."

	pairs := New().Parse(text)

	require.Len(t, pairs, 2)
	assert.Equal(t, domain.QAPair{Question: "What is the capital of France?", Answer: "Paris."}, pairs[0])
	assert.Equal(t, domain.QAPair{Question: "What is 2+2?", Answer: "4."}, pairs[1])
	assert.Equal(t, "What is the capital of France?\nParis.", pairs[0].Text())
}

func TestParse_MultilineAnswerAndDuplicates(t *testing.T) {
	text := "Intro\n1. Q one?\nline a\nline b\n\n3. Q two?  \n  \n  ans two\n3. Q two?\nans two"

	pairs := New().Parse(text)

	require.Len(t, pairs, 3)
	assert.Equal(t, "Q one?", pairs[0].Question)
	assert.Equal(t, "line a\nline b", pairs[0].Answer)
	assert.Equal(t, pairs[1], pairs[2])
	assert.Equal(t, "ans two", pairs[1].Answer)
}

func TestParse_QuestionSpansUntilQualifyingMark(t *testing.T) {
	// A '?' followed by text on the same line does not end a question.
	text := "1. Not a question\n2. Is it? yes\nmore\n3. Real?\nA"

	pairs := New().Parse(text)

	require.Len(t, pairs, 1)
	assert.Equal(t, "Not a question\n2. Is it? yes\nmore\n3. Real?", pairs[0].Question)
	assert.Equal(t, "A", pairs[0].Answer)
}

func TestParse_NoPattern(t *testing.T) {
	assert.Empty(t, New().Parse("just some prose without numbering"))
	assert.Empty(t, New().Parse(""))
	assert.Empty(t, New().Parse("1. no question mark\nanswer"))
	assert.Empty(t, New().Parse("1. Question? answer on same line"))
}

func TestParse_NonSequentialNumbers(t *testing.T) {
	text := "7. First?\nA\n7. Second?\nB\n100. Third?\nC"

	pairs := New().Parse(text)

	require.Len(t, pairs, 3)
	assert.Equal(t, []string{"First?", "Second?", "Third?"},
		[]string{pairs[0].Question, pairs[1].Question, pairs[2].Question})
}

func TestParse_AnswerEndsOnlyAtNumberedLine(t *testing.T) {
	text := "1. Steps?\nDo this 2. then that\n 3. indented is not a marker\n2. Next?\nok"

	pairs := New().Parse(text)

	require.Len(t, pairs, 2)
	assert.Equal(t, "Do this 2. then that\n 3. indented is not a marker", pairs[0].Answer)
	assert.Equal(t, "ok", pairs[1].Answer)
}

func TestParse_EmptyAnswerAtEnd(t *testing.T) {
	pairs := New().Parse("1. Anyone?\n   ")

	require.Len(t, pairs, 1)
	assert.Equal(t, "Anyone?", pairs[0].Question)
	assert.Equal(t, "", pairs[0].Answer)
}

func TestParse_SpreadsheetRendering(t *testing.T) {
	pairs := New().Parse("1. Color of sky?\nBlue")

	require.Len(t, pairs, 1)
	assert.Equal(t, domain.QAPair{Question: "Color of sky?", Answer: "Blue"}, pairs[0])
}

func TestParse_Idempotent(t *testing.T) {
	text := "1. A?\nx\n2. B?\ny\nz\n3. C?\n"
	p := New()

	assert.Equal(t, p.Parse(text), p.Parse(text))
}

func TestParse_CountMatchesEntries(t *testing.T) {
	text := ""
	for i, q := range []string{"one", "two", "three", "four"} {
		if i > 0 {
			text += "\n"
		}
		text += string(rune('1'+i)) + ". " + q + "?\n  answer " + q + "  "
	}

	pairs := New().Parse(text)

	require.Len(t, pairs, 4)
	for _, p := range pairs {
		assert.Equal(t, p.Answer, "answer "+p.Question[:len(p.Question)-1])
	}
}

func TestParse_SpaceBeforeQuestionMarkTrimmed(t *testing.T) {
	pairs := New().Parse("1. What is it ?\nA thing.\n2.   Tabbed\t?\n\tB ")

	require.Len(t, pairs, 2)
	assert.Equal(t, "What is it?", pairs[0].Question)
	assert.Equal(t, "Tabbed?", pairs[1].Question)
	assert.Equal(t, "B", pairs[1].Answer)
}

func TestParse_InformationSeparatorsAreWhitespace(t *testing.T) {
	pairs := New().Parse("1.\x1cQ\x1f?\x1e\n\x1dA\x1c")

	require.Len(t, pairs, 1)
	assert.Equal(t, domain.QAPair{Question: "Q?", Answer: "A"}, pairs[0])
}
