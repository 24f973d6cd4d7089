// Package mockapi is an in-memory implementation of the items REST API
// for running the client locally and in tests.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/idilsaglam/items/internal/model"
)

// Server holds the items and serves them under /api.
type Server struct {
	mu       sync.Mutex
	items    []model.Item
	snapshot *Snapshot
	newID    func() string
	log      *zap.Logger
}

type Option func(*Server)

// WithSnapshot loads items from path at start and rewrites it after every change.
func WithSnapshot(path string) Option {
	return func(s *Server) {
		if path != "" {
			s.snapshot = &Snapshot{Path: path}
		}
	}
}

// WithItems seeds the server.
func WithItems(items ...model.Item) Option {
	return func(s *Server) { s.items = append(s.items, items...) }
}

// WithIDFunc replaces uuid generation, mostly for tests.
func WithIDFunc(fn func() string) Option {
	return func(s *Server) { s.newID = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

func New(opts ...Option) (*Server, error) {
	s := &Server{
		items: []model.Item{},
		newID: uuid.NewString,
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.snapshot != nil {
		saved, err := s.snapshot.Load()
		if err != nil {
			return nil, err
		}
		s.items = append(saved, s.items...)
	}
	return s, nil
}

// Router returns the API mounted at /api.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/items", s.listHandler).Methods(http.MethodGet)
	api.HandleFunc("/items", s.createHandler).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}", s.updateHandler).Methods(http.MethodPut)
	api.HandleFunc("/items/{id}", s.deleteHandler).Methods(http.MethodDelete)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK\n"))
	}).Methods(http.MethodGet)
	r.Use(s.logRequests)
	return r
}

// Items returns a copy of the current items.
func (s *Server) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Info("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Items())
}

func (s *Server) createHandler(w http.ResponseWriter, r *http.Request) {
	d, ok := readDraft(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	it := model.Item{ID: model.ID(s.newID()), Title: d.Title, Description: d.Description}
	next := make([]model.Item, 0, len(s.items)+1)
	next = append(append(next, s.items...), it)
	err := s.commitLocked(next)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("persist", zap.Error(err))
		http.Error(w, "persist failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) updateHandler(w http.ResponseWriter, r *http.Request) {
	id := model.ID(mux.Vars(r)["id"])
	d, ok := readDraft(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	it := model.Item{ID: id, Title: d.Title, Description: d.Description}
	next := append([]model.Item(nil), s.items...)
	next[idx] = it
	err := s.commitLocked(next)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("persist", zap.Error(err))
		http.Error(w, "persist failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	id := model.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	next := make([]model.Item, 0, len(s.items)-1)
	next = append(append(next, s.items[:idx]...), s.items[idx+1:]...)
	err := s.commitLocked(next)
	s.mu.Unlock()
	if err != nil {
		s.log.Error("persist", zap.Error(err))
		http.Error(w, "persist failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) indexLocked(id model.ID) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// commitLocked saves next to the snapshot and only then makes it current.
// A failed save leaves the items as they were.
func (s *Server) commitLocked(next []model.Item) error {
	if s.snapshot != nil {
		if err := s.snapshot.Save(next); err != nil {
			return err
		}
	}
	s.items = next
	return nil
}

func readDraft(w http.ResponseWriter, r *http.Request) (model.Draft, bool) {
	var d model.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return d, false
	}
	if strings.TrimSpace(d.Title) == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return d, false
	}
	return d, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
