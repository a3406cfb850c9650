package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"docqa/internal/domain"
	"docqa/internal/extract"
	logpkg "docqa/internal/logger"
	"docqa/internal/metrics"
)

// Session is everything built from one upload. It is replaced wholesale by the
// next upload and never merged.
type Session struct {
	ID       string
	Document string
	Format   string
	Pairs    []domain.QAPair
	Vectors  [][]float32
	Index    domain.Index
	Embedder domain.Embedder
	LoadedAt time.Time
}

// QAService runs the upload pipeline and answers queries against the current session.
// It is not safe for concurrent use.
type QAService struct {
	extractor  domain.Extractor
	parser     domain.PairParser
	embedder   domain.Embedder
	buildIndex domain.IndexBuilder
	logger     *zap.Logger
	current    *Session
}

// NewQAService wires the pipeline. The embedder is reused by every session so the
// model is only set up once per process.
func NewQAService(extractor domain.Extractor, parser domain.PairParser, embedder domain.Embedder, buildIndex domain.IndexBuilder, logger *zap.Logger) *QAService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QAService{extractor: extractor, parser: parser, embedder: embedder, buildIndex: buildIndex, logger: logger}
}

// Current returns the loaded session, or nil when no document is loaded.
func (s *QAService) Current() *Session { return s.current }

// Reset discards the current session.
func (s *QAService) Reset() {
	s.current = nil
	metrics.IndexSize.Set(0)
}

// LoadFile reads path and loads it as an upload named after its base name.
func (s *QAService) LoadFile(ctx context.Context, path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Load(ctx, filepath.Base(path), data)
}

// Load replaces the current session with one built from the uploaded file.
// On any failure the service is left with no document loaded.
func (s *QAService) Load(ctx context.Context, name string, data []byte) (*Session, error) {
	s.Reset()

	doc := domain.Document{ID: uuid.NewString(), Name: name, Format: extract.Ext(name), Data: data}
	ctx = logpkg.WithSession(ctx, s.logger, doc.ID, doc.Name)

	sess, err := s.build(ctx, doc)
	format := doc.Format
	if errors.Is(err, domain.ErrUnsupportedFormat) {
		format = "other"
	}
	metrics.UploadsTotal.WithLabelValues(format, uploadOutcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	s.current = sess
	metrics.IndexSize.Set(float64(len(sess.Pairs)))
	return sess, nil
}

func (s *QAService) build(ctx context.Context, doc domain.Document) (*Session, error) {
	log := logpkg.FromContext(ctx)
	start := time.Now()

	text, err := s.extractor.Extract(doc.Name, doc.Data)
	if err != nil {
		log.Warn("Extraction failed", zap.Error(err))
		return nil, err
	}

	pairs := s.parser.Parse(text)
	if len(pairs) == 0 {
		log.Warn("No Q&A pairs found", zap.Int("text_len", len(text)))
		return nil, fmt.Errorf("%s: %w", doc.Name, domain.ErrNoPairsFound)
	}

	corpus := make([]string, len(pairs))
	for i, p := range pairs {
		corpus[i] = p.Text()
	}
	if err := s.embedder.Prepare(ctx, corpus); err != nil {
		return nil, err
	}
	vectors, err := s.embedder.Embed(ctx, corpus)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(pairs) {
		return nil, fmt.Errorf("embedded %d of %d pairs: %w", len(vectors), len(pairs), domain.ErrEmbeddingProviderError)
	}

	idx, err := s.buildIndex(vectors)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if idx.Len() != len(pairs) {
		return nil, fmt.Errorf("index holds %d vectors for %d pairs", idx.Len(), len(pairs))
	}

	log.Info("Document loaded",
		zap.String("format", doc.Format),
		zap.Int("pairs", len(pairs)),
		zap.Int("dimension", idx.Dimension()),
		zap.String("embedder", s.embedder.Name()),
		zap.Duration("duration", time.Since(start)),
	)
	return &Session{
		ID:       doc.ID,
		Document: doc.Name,
		Format:   doc.Format,
		Pairs:    pairs,
		Vectors:  vectors,
		Index:    idx,
		Embedder: s.embedder,
		LoadedAt: time.Now(),
	}, nil
}

// Ask returns the stored pair nearest to query. A blank query is a no-op and
// reports ok=false without searching.
func (s *QAService) Ask(ctx context.Context, query string) (domain.Match, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		metrics.QueriesTotal.WithLabelValues("empty").Inc()
		return domain.Match{}, false, nil
	}
	sess := s.current
	if sess == nil {
		metrics.QueriesTotal.WithLabelValues("no_document").Inc()
		return domain.Match{}, false, domain.ErrNoDocumentLoaded
	}

	m, err := sess.nearest(ctx, query)
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("error").Inc()
		s.logger.Error("Query failed", zap.String("session", sess.ID), zap.Error(err))
		return domain.Match{}, false, err
	}
	metrics.QueriesTotal.WithLabelValues("answered").Inc()
	s.logger.Debug("Query answered",
		zap.String("session", sess.ID),
		zap.Int("position", m.Position),
		zap.Float32("distance", m.Distance),
	)
	return m, true, nil
}

func (sess *Session) nearest(ctx context.Context, query string) (domain.Match, error) {
	vecs, err := sess.Embedder.Embed(ctx, []string{query})
	if err != nil {
		return domain.Match{}, err
	}
	if len(vecs) != 1 {
		return domain.Match{}, fmt.Errorf("got %d query embeddings: %w", len(vecs), domain.ErrEmbeddingProviderError)
	}
	hits, err := sess.Index.Search(vecs[0], 1)
	if err != nil {
		return domain.Match{}, fmt.Errorf("search: %w", err)
	}
	h := hits[0]
	return domain.Match{Position: h.Position, Pair: sess.Pairs[h.Position], Distance: h.Distance}, nil
}

func uploadOutcome(err error) string {
	switch {
	case err == nil:
		return "loaded"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "unsupported"
	case errors.Is(err, domain.ErrDecodeFailure):
		return "decode_error"
	case errors.Is(err, domain.ErrNoPairsFound):
		return "no_pairs"
	default:
		return "error"
	}
}
