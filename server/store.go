package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"paperhub/storage"
)

const maxStoreBody = 64 << 10

func (s *Server) registerStore(r *mux.Router) {
	// /api/tools/{id}/...
	r.HandleFunc("/tools/{id}/comments", s.listComments).Methods(http.MethodGet)
	r.HandleFunc("/tools/{id}/comments", s.addComment).Methods(http.MethodPost)
	r.HandleFunc("/tools/{id}/comments/count", s.countComments).Methods(http.MethodGet)
	r.HandleFunc("/tools/{id}/likes", s.getLikes).Methods(http.MethodGet)
	r.HandleFunc("/tools/{id}/likes", s.setLikes).Methods(http.MethodPut)

	// /api/comments/{id}
	r.HandleFunc("/comments/{id}", s.deleteComment).Methods(http.MethodDelete)
}

type countResponse struct {
	Count int `json:"count"`
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	toolID := mux.Vars(r)["id"]
	comments, err := s.store.ListComments(r.Context(), toolID)
	if err != nil {
		s.storeFailed(w, "list_comments", err)
		return
	}
	s.metrics.storeOps.WithLabelValues("list_comments", "ok").Inc()
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) countComments(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.CountComments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.storeFailed(w, "count_comments", err)
		return
	}
	s.metrics.storeOps.WithLabelValues("count_comments", "ok").Inc()
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	var in storage.NewComment
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxStoreBody)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json", err)
		return
	}
	// The path wins over the body.
	in.ToolID = mux.Vars(r)["id"]

	c, err := s.store.AddComment(r.Context(), in)
	if err != nil {
		s.storeFailed(w, "add_comment", err)
		return
	}
	s.metrics.storeOps.WithLabelValues("add_comment", "ok").Inc()
	s.logger.Info("comment_created", "tool", c.ToolID, "id", c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxStoreBody)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json", err)
		return
	}

	id := mux.Vars(r)["id"]
	if err := s.store.DeleteComment(r.Context(), id, in.Password); err != nil {
		s.storeFailed(w, "delete_comment", err)
		return
	}
	s.metrics.storeOps.WithLabelValues("delete_comment", "ok").Inc()
	s.logger.Info("comment_deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getLikes(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.GetLikes(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.storeFailed(w, "get_likes", err)
		return
	}
	s.metrics.storeOps.WithLabelValues("get_likes", "ok").Inc()
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

func (s *Server) setLikes(w http.ResponseWriter, r *http.Request) {
	var in countResponse
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxStoreBody)).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json", err)
		return
	}

	toolID := mux.Vars(r)["id"]
	if err := s.store.SetLikes(r.Context(), toolID, in.Count); err != nil {
		s.storeFailed(w, "set_likes", err)
		return
	}
	s.metrics.storeOps.WithLabelValues("set_likes", "ok").Inc()
	writeJSON(w, http.StatusOK, in)
}

// storeFailed maps store errors onto the statuses RemoteStore understands.
func (s *Server) storeFailed(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrWrongPassword):
		s.metrics.storeOps.WithLabelValues(op, "forbidden").Inc()
		writeError(w, http.StatusForbidden, "wrong password", nil)
	case errors.Is(err, storage.ErrNotFound):
		s.metrics.storeOps.WithLabelValues(op, "not_found").Inc()
		writeError(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, storage.ErrInvalid):
		s.metrics.storeOps.WithLabelValues(op, "invalid").Inc()
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		s.metrics.storeOps.WithLabelValues(op, "error").Inc()
		s.logger.Error("store_failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "store failure", err)
	}
}
