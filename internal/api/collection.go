package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pbaille/jobtrack/internal/domain"
	"github.com/pbaille/jobtrack/internal/insight"
)

// repository is the part of a tracker repository the routes need
type repository[T any] interface {
	Add(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id string, patch map[string]interface{}) (T, bool, error)
	All(ctx context.Context) []T
	Get(ctx context.Context, id string) (T, bool)
}

// listFilter narrows a listing from query parameters. ok=false means the
// request was rejected and the response already written.
type listFilter[T any] func(w http.ResponseWriter, r *http.Request, recs []T) ([]T, bool)

type collection[T any] struct {
	s      *Server
	kind   domain.Kind
	repo   repository[T]
	filter listFilter[T]
}

// mountCollection registers list, create, get and patch routes under
// /<kind>s
func mountCollection[T any](mux *http.ServeMux, s *Server, kind domain.Kind, repo repository[T], filter listFilter[T]) {
	c := &collection[T]{s: s, kind: kind, repo: repo, filter: filter}
	base := "/" + kind.Collection()

	mux.HandleFunc("GET "+base, c.list)
	mux.HandleFunc("POST "+base, c.create)
	mux.HandleFunc("GET "+base+"/{id}", c.get)
	mux.HandleFunc("PATCH "+base+"/{id}", c.patch)
}

func (c *collection[T]) list(w http.ResponseWriter, r *http.Request) {
	recs := c.repo.All(r.Context())
	if c.filter != nil {
		var ok bool
		if recs, ok = c.filter(w, r, recs); !ok {
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		c.kind.Collection(): recs,
		"count":             len(recs),
	})
}

func (c *collection[T]) create(w http.ResponseWriter, r *http.Request) {
	var rec T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	created, err := c.repo.Add(r.Context(), rec)
	if err != nil {
		c.s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (c *collection[T]) get(w http.ResponseWriter, r *http.Request) {
	rec, ok := c.repo.Get(r.Context(), r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, string(c.kind)+" not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (c *collection[T]) patch(w http.ResponseWriter, r *http.Request) {
	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rec, found, err := c.repo.Update(r.Context(), r.PathValue("id"), patch)
	c.s.writeUpdated(w, c.kind, rec, found, err)
}

func filterTasks(w http.ResponseWriter, r *http.Request, tasks []domain.Task) ([]domain.Task, bool) {
	f, ok := insight.ParseTaskFilter(r.URL.Query().Get("filter"))
	if !ok {
		writeError(w, http.StatusBadRequest, "filter must be one of all, active, completed")
		return nil, false
	}
	return insight.FilterTasks(tasks, f), true
}
