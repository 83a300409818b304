package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/task"
)

func TestTaskList(t *testing.T) {
	userID := uuid.New()

	t.Run("returns tasks with pagination metadata", func(t *testing.T) {
		store := &mockTaskStore{
			listFn: func(ctx context.Context, uid uuid.UUID, limit, offset int) ([]task.Task, int64, error) {
				if uid != userID {
					t.Errorf("store called with user %s, want %s", uid, userID)
				}
				return []task.Task{
					{ID: uuid.New(), UserID: uid, Title: "first", OrderPosition: 1, Priority: task.PriorityNone, Tags: []string{}},
					{ID: uuid.New(), UserID: uid, Title: "second", OrderPosition: 2, Priority: task.PriorityHigh, Tags: []string{"work"}},
				}, 2, nil
			},
		}
		ts, tokens := newTestServer(t, testServerOptions{tasks: store})
		token := mintToken(t, tokens, userID)

		resp := doJSON(t, http.MethodGet, ts.URL+"/api/tasks", token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		body := decodeBody[taskListResponse](t, resp)
		if len(body.Tasks) != 2 || body.Total != 2 {
			t.Errorf("tasks = %d total = %d, want 2/2", len(body.Tasks), body.Total)
		}
		if body.Limit != defaultListLimit {
			t.Errorf("limit = %d, want default %d", body.Limit, defaultListLimit)
		}
	})

	t.Run("passes limit and offset query parameters", func(t *testing.T) {
		var gotLimit, gotOffset int
		store := &mockTaskStore{
			listFn: func(ctx context.Context, uid uuid.UUID, limit, offset int) ([]task.Task, int64, error) {
				gotLimit, gotOffset = limit, offset
				return []task.Task{}, 0, nil
			},
		}
		ts, tokens := newTestServer(t, testServerOptions{tasks: store})
		token := mintToken(t, tokens, userID)

		resp := doJSON(t, http.MethodGet, ts.URL+"/api/tasks?limit=25&offset=50", token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if gotLimit != 25 || gotOffset != 50 {
			t.Errorf("store called with limit=%d offset=%d, want 25/50", gotLimit, gotOffset)
		}
	})

	t.Run("rejects non-numeric pagination", func(t *testing.T) {
		ts, tokens := newTestServer(t, testServerOptions{})
		token := mintToken(t, tokens, userID)

		resp := doJSON(t, http.MethodGet, ts.URL+"/api/tasks?limit=abc", token, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestTaskCreate(t *testing.T) {
	userID := uuid.New()

	t.Run("creates task and returns 201", func(t *testing.T) {
		store := &mockTaskStore{
			createFn: func(ctx context.Context, uid uuid.UUID, params task.CreateParams) (task.Task, error) {
				return task.Task{
					ID:            uuid.New(),
					UserID:        uid,
					Title:         params.Title,
					OrderPosition: 4, // pretend three tasks already exist
					Priority:      task.PriorityMedium,
					Tags:          params.Tags,
					CreatedAt:     time.Now(),
					UpdatedAt:     time.Now(),
				}, nil
			},
		}
		ts, tokens := newTestServer(t, testServerOptions{tasks: store})
		token := mintToken(t, tokens, userID)

		resp := doJSON(t, http.MethodPost, ts.URL+"/api/tasks", token,
			`{"title":"write report","priority":"medium","tags":["work"]}`)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}
		body := decodeBody[task.Task](t, resp)
		if body.Title != "write report" {
			t.Errorf("title = %q, want write report", body.Title)
		}
		if body.OrderPosition != 4 {
			t.Errorf("order_position = %d, want 4", body.OrderPosition)
		}
	})

	t.Run("empty title is rejected with 400", func(t *testing.T) {
		store := &mockTaskStore{
			createFn: func(ctx context.Context, uid uuid.UUID, params task.CreateParams) (task.Task, error) {
				return task.Task{}, task.ErrEmptyTitle
			},
		}
		ts, tokens := newTestServer(t, testServerOptions{tasks: store})
		token := mintToken(t, tokens, userID)

		for _, body := range []string{`{"title":""}`, `{"title":"   "}`, `{}`} {
			resp := doJSON(t, http.MethodPost, ts.URL+"/api/tasks", token, body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("POST %s status = %d, want 400", body, resp.StatusCode)
			}
			errBody := decodeBody[ErrorResponse](t, resp)
			if errBody.Error == "" {
				t.Error("error body missing error field")
			}
		}
	})

	t.Run("malformed JSON is rejected with 400", func(t *testing.T) {
		ts, tokens := newTestServer(t, testServerOptions{})
		token := mintToken(t, tokens, userID)

		resp := doJSON(t, http.MethodPost, ts.URL+"/api/tasks", token, `{"title":`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestTaskGet(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("another user's task reads as 404", func(t *testing.T) {
		owner := uuid.New()
		store := &mockTaskStore{
			getFn: func(ctx context.Context, uid, tid uuid.UUID) (task.Task, error) {
				if uid != owner {
					return task.Task{}, task.ErrNotFound
				}
				return task.Task{ID: tid, UserID: owner, Title: "private"}, nil
			},
		}
		ts, tokens := newTestServer(t, testServerOptions{tasks: store})
		intruderToken := mintToken(t, tokens, uuid.New())

		resp := doJSON(t, http.MethodGet, ts.URL+"/api/tasks/"+taskID.String(), intruderToken, "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("invalid UUID in path is 400", func(t *testing.T) {
		ts, tokens := newTestServer(t, testServerOptions{})
		token := mintToken(t, tokens, userID)

		resp := doJSON(t, http.MethodGet, ts.URL+"/api/tasks/not-a-uuid", token, "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestTaskUpdate(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("completed toggle round-trips", func(t *testing.T) {
		store := &mockTaskStore{
			updateFn: func(ctx context.Context, uid, tid uuid.UUID, params task.UpdateParams) (task.Task, error) {
				if params.Completed == nil || !*params.Completed {
					t.Error("completed flag not passed through")
				}
				now := time.Now()
				return task.Task{ID: tid, UserID: uid, Title: "done", Completed: true, CompletedAt: &now}, nil
			},
		}
		ts, tokens := newTestServer(t, testServerOptions{tasks: store})
		token := mintToken(t, tokens, userID)

		resp := doJSON(t, http.MethodPut, ts.URL+"/api/tasks/"+taskID.String(), token, `{"completed":true}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		body := decodeBody[task.Task](t, resp)
		if !body.Completed || body.CompletedAt == nil {
			t.Errorf("completed = %v completed_at = %v, want true/non-nil", body.Completed, body.CompletedAt)
		}
	})

	t.Run("updating a missing task is 404", func(t *testing.T) {
		ts, tokens := newTestServer(t, testServerOptions{})
		token := mintToken(t, tokens, userID)

		resp := doJSON(t, http.MethodPut, ts.URL+"/api/tasks/"+taskID.String(), token, `{"title":"x"}`)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestTaskDelete(t *testing.T) {
	userID := uuid.New()

	t.Run("delete returns 204 then 404", func(t *testing.T) {
		deleted := false
		store := &mockTaskStore{
			deleteFn: func(ctx context.Context, uid, tid uuid.UUID) error {
				if deleted {
					return task.ErrNotFound
				}
				deleted = true
				return nil
			},
		}
		ts, tokens := newTestServer(t, testServerOptions{tasks: store})
		token := mintToken(t, tokens, userID)
		url := ts.URL + "/api/tasks/" + uuid.NewString()

		resp := doJSON(t, http.MethodDelete, url, token, "")
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("first delete status = %d, want 204", resp.StatusCode)
		}

		resp = doJSON(t, http.MethodDelete, url, token, "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("second delete status = %d, want 404", resp.StatusCode)
		}
	})
}

func TestTaskReorder(t *testing.T) {
	userID := uuid.New()

	t.Run("passes IDs through in order", func(t *testing.T) {
		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		var got []uuid.UUID
		store := &mockTaskStore{
			reorderFn: func(ctx context.Context, uid uuid.UUID, reqIDs []uuid.UUID) error {
				got = reqIDs
				return nil
			},
		}
		ts, tokens := newTestServer(t, testServerOptions{tasks: store})
		token := mintToken(t, tokens, userID)

		body := fmt.Sprintf(`{"task_ids":["%s","%s","%s"]}`, ids[0], ids[1], ids[2])
		resp := doJSON(t, http.MethodPut, ts.URL+"/api/tasks/reorder", token, body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}
		if len(got) != 3 {
			t.Fatalf("store received %d IDs, want 3", len(got))
		}
		for i := range ids {
			if got[i] != ids[i] {
				t.Errorf("position %d: got %s, want %s", i+1, got[i], ids[i])
			}
		}
	})

	t.Run("unknown task ID is 404", func(t *testing.T) {
		store := &mockTaskStore{
			reorderFn: func(ctx context.Context, uid uuid.UUID, reqIDs []uuid.UUID) error {
				return task.ErrNotFound
			},
		}
		ts, tokens := newTestServer(t, testServerOptions{tasks: store})
		token := mintToken(t, tokens, userID)

		resp := doJSON(t, http.MethodPut, ts.URL+"/api/tasks/reorder", token,
			fmt.Sprintf(`{"task_ids":["%s"]}`, uuid.New()))
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("empty sequence is 400", func(t *testing.T) {
		store := &mockTaskStore{
			reorderFn: func(ctx context.Context, uid uuid.UUID, reqIDs []uuid.UUID) error {
				return task.ErrEmptyReorder
			},
		}
		ts, tokens := newTestServer(t, testServerOptions{tasks: store})
		token := mintToken(t, tokens, userID)

		resp := doJSON(t, http.MethodPut, ts.URL+"/api/tasks/reorder", token, `{"task_ids":[]}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}
