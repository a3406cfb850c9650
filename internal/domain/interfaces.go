package domain

import "context"

// Document is a single uploaded file.
type Document struct {
	ID     string
	Name   string
	Format string
	Data   []byte
}

// QAPair is a question and its answer as found in a document, both trimmed.
type QAPair struct {
	Question string
	Answer   string
}

// Text is the combined form that gets embedded and displayed.
func (p QAPair) Text() string { return p.Question + "\n" + p.Answer }

// Match is the nearest stored pair for a query.
type Match struct {
	Position int
	Pair     QAPair
	Distance float32
}

// Extractor converts an uploaded file into plain text.
type Extractor interface {
	Extract(name string, data []byte) (string, error)
}

// PairParser finds numbered question/answer pairs in plain text.
type PairParser interface {
	Parse(text string) []QAPair
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Hit is a single nearest-neighbour result: the corpus position and its distance.
type Hit struct {
	Position int
	Distance float32
}

// Index holds corpus vectors and answers nearest-neighbour queries.
type Index interface {
	Len() int
	Dimension() int
	Search(query []float32, k int) ([]Hit, error)
}

// IndexBuilder builds an immutable index over the full corpus in one shot.
type IndexBuilder func(vectors [][]float32) (Index, error)
