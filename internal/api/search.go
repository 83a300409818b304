package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/knowledge"
)

const (
	defaultMatchThreshold = 0.7
	defaultMatchCount     = 10
	maxMatchCount         = 100
	maxAddBatch           = 100
)

// knowledgeHandler serves the /api/vector-search endpoints. Embeddings
// arrive pre-computed from the caller; the server never generates them.
type knowledgeHandler struct {
	store  KnowledgeStore
	logger *slog.Logger
}

type searchRequest struct {
	Embedding      []float32 `json:"embedding"`
	MatchThreshold *float64  `json:"match_threshold"`
	MatchCount     *int      `json:"match_count"`
}

type searchResponse struct {
	Results []knowledge.Result `json:"results"`
	Count   int                `json:"count"`
}

type addItemRequest struct {
	Content   string         `json:"content"`
	Embedding []float32      `json:"embedding"`
	Metadata  map[string]any `json:"metadata"`
	Domain    string         `json:"domain"`
}

type addRequest struct {
	Items []addItemRequest `json:"items"`
}

// search runs a cosine-similarity query over the knowledge base.
func (h *knowledgeHandler) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	threshold := defaultMatchThreshold
	if req.MatchThreshold != nil {
		threshold = *req.MatchThreshold
	}
	count := defaultMatchCount
	if req.MatchCount != nil {
		count = *req.MatchCount
	}
	if count > maxMatchCount {
		count = maxMatchCount
	}

	results, err := h.store.Search(r.Context(), req.Embedding, threshold, count)
	if err != nil {
		h.writeKnowledgeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Results: results, Count: len(results)})
}

// add stores a batch of documents with their embeddings. Items are
// stored in order; the first invalid item aborts the request, and
// items stored before it stay stored.
func (h *knowledgeHandler) add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "items must not be empty")
		return
	}
	if len(req.Items) > maxAddBatch {
		writeError(w, http.StatusBadRequest, "bad_request", "too many items in one request")
		return
	}

	stored := make([]knowledge.Item, 0, len(req.Items))
	for i, item := range req.Items {
		saved, err := h.store.Add(r.Context(), item.Content, item.Embedding, item.Metadata, item.Domain)
		if err != nil {
			h.logger.Debug("knowledge add rejected", "index", i, "error", err)
			h.writeKnowledgeError(w, err)
			return
		}
		stored = append(stored, saved)
	}

	writeJSON(w, http.StatusCreated, map[string]any{"items": stored, "count": len(stored)})
}

// stats reports the knowledge base size.
func (h *knowledgeHandler) stats(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Count(r.Context())
	if err != nil {
		h.writeKnowledgeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": count})
}

// delete removes a stored document. Deleting an unknown ID succeeds;
// the outcome is the same either way.
func (h *knowledgeHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid item ID")
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeKnowledgeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *knowledgeHandler) writeKnowledgeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, knowledge.ErrEmptyContent),
		errors.Is(err, knowledge.ErrBadEmbedding),
		errors.Is(err, knowledge.ErrInvalidCount):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		h.logger.Error("knowledge operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
