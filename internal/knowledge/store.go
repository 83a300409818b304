// Package knowledge stores text snippets with pre-computed embeddings
// and retrieves them by cosine similarity. Embeddings are always
// supplied by the caller; this service never generates them.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"

	"github.com/taskhive/taskhive/internal/sqlc"
)

// EmbeddingDim is the only accepted embedding length. It matches the
// vector(1536) column and the match_knowledge_items function signature.
const EmbeddingDim = 1536

// DefaultDomain groups items that were stored without one.
const DefaultDomain = "general"

var (
	// ErrEmptyContent is returned when the item text is empty.
	ErrEmptyContent = errors.New("content must not be empty")

	// ErrBadEmbedding is returned when an embedding is missing or has
	// the wrong number of dimensions.
	ErrBadEmbedding = errors.New("embedding must have exactly 1536 dimensions")

	// ErrInvalidCount is returned for a non-positive match count.
	ErrInvalidCount = errors.New("match count must be positive")
)

// Item is a stored knowledge snippet. The embedding itself is write-only
// and never read back out.
type Item struct {
	ID        uuid.UUID      `json:"id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	Domain    string         `json:"domain"`
	CreatedAt time.Time      `json:"created_at"`
}

// Result is a search hit. Similarity is cosine similarity in [-1, 1],
// higher is closer.
type Result struct {
	Item
	Similarity float64 `json:"similarity"`
}

// Querier is the subset of generated queries the store needs.
type Querier interface {
	InsertKnowledgeItem(ctx context.Context, arg sqlc.InsertKnowledgeItemParams) (sqlc.InsertKnowledgeItemRow, error)
	MatchKnowledgeItems(ctx context.Context, arg sqlc.MatchKnowledgeItemsParams) ([]sqlc.MatchKnowledgeItemsRow, error)
	DeleteKnowledgeItem(ctx context.Context, id pgtype.UUID) (int64, error)
	CountKnowledgeItems(ctx context.Context) (int64, error)
}

// Store persists knowledge items in PostgreSQL with pgvector.
type Store struct {
	querier Querier
	logger  *slog.Logger
}

// New creates a knowledge store.
func New(querier Querier, logger *slog.Logger) *Store {
	return &Store{querier: querier, logger: logger}
}

// Add stores one item with its caller-computed embedding.
func (s *Store) Add(ctx context.Context, content string, embedding []float32, metadata map[string]any, domain string) (Item, error) {
	if strings.TrimSpace(content) == "" {
		return Item{}, ErrEmptyContent
	}
	if len(embedding) != EmbeddingDim {
		return Item{}, fmt.Errorf("%w, got %d", ErrBadEmbedding, len(embedding))
	}
	if domain == "" {
		domain = DefaultDomain
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return Item{}, fmt.Errorf("marshal metadata: %w", err)
	}

	vec := pgvector.NewVector(embedding)
	row, err := s.querier.InsertKnowledgeItem(ctx, sqlc.InsertKnowledgeItemParams{
		Content:   content,
		Embedding: &vec,
		Metadata:  metaJSON,
		Domain:    domain,
	})
	if err != nil {
		return Item{}, fmt.Errorf("insert knowledge item: %w", err)
	}

	s.logger.Debug("knowledge item stored", "item_id", uuid.UUID(row.ID.Bytes), "domain", domain)
	return itemFromInsert(row)
}

// Search returns up to count items whose cosine similarity to the query
// embedding exceeds threshold, best matches first. A threshold above 1
// is legal and simply matches nothing.
func (s *Store) Search(ctx context.Context, embedding []float32, threshold float64, count int) ([]Result, error) {
	if len(embedding) != EmbeddingDim {
		return nil, fmt.Errorf("%w, got %d", ErrBadEmbedding, len(embedding))
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	vec := pgvector.NewVector(embedding)
	rows, err := s.querier.MatchKnowledgeItems(ctx, sqlc.MatchKnowledgeItemsParams{
		QueryEmbedding: &vec,
		MatchThreshold: threshold,
		MatchCount:     int32(count),
	})
	if err != nil {
		return nil, fmt.Errorf("match knowledge items: %w", err)
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		item, err := itemFromMatch(row)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Item: item, Similarity: row.Similarity})
	}
	return results, nil
}

// Delete removes an item. Deleting an unknown ID is not an error.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.querier.DeleteKnowledgeItem(ctx, pgtype.UUID{Bytes: id, Valid: true})
	if err != nil {
		return fmt.Errorf("delete knowledge item: %w", err)
	}
	return nil
}

// Count returns the total number of stored items.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.querier.CountKnowledgeItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("count knowledge items: %w", err)
	}
	return n, nil
}

func itemFromInsert(row sqlc.InsertKnowledgeItemRow) (Item, error) {
	meta, err := decodeMetadata(row.Metadata)
	if err != nil {
		return Item{}, err
	}
	return Item{
		ID:        uuid.UUID(row.ID.Bytes),
		Content:   row.Content,
		Metadata:  meta,
		Domain:    row.Domain,
		CreatedAt: row.CreatedAt.Time,
	}, nil
}

func itemFromMatch(row sqlc.MatchKnowledgeItemsRow) (Item, error) {
	meta, err := decodeMetadata(row.Metadata)
	if err != nil {
		return Item{}, err
	}
	return Item{
		ID:        uuid.UUID(row.ID.Bytes),
		Content:   row.Content,
		Metadata:  meta,
		Domain:    row.Domain,
		CreatedAt: row.CreatedAt.Time,
	}, nil
}

func decodeMetadata(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return meta, nil
}
