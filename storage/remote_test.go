package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRemoteStoreStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		substr string
	}{
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"wrong password"}`, want: ErrWrongPassword},
		{name: "not found", status: http.StatusNotFound, body: `{"error":"comment not found"}`, want: ErrNotFound},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"database is locked"}`, substr: "database is locked"},
		{name: "plain text error", status: http.StatusBadGateway, body: "bad gateway", substr: "502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			store := NewRemoteStore(srv.URL, srv.Client())
			err := store.DeleteComment(context.Background(), "c1", "pw")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if tt.substr != "" && !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.substr)
			}
			if tt.want == nil && (errors.Is(err, ErrWrongPassword) || errors.Is(err, ErrNotFound)) {
				t.Errorf("generic failure mapped to sentinel: %v", err)
			}
		})
	}
}

func TestRemoteStoreRequests(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotBody = nil
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&gotBody)
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/likes") && r.Method == http.MethodGet:
			w.Write([]byte(`{"count":12}`))
		case strings.HasSuffix(r.URL.Path, "/count"):
			w.Write([]byte(`{"count":3}`))
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"srv-1","tool_id":"overleaf","nickname":"Researcher","content":"hi"}`))
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	store := NewRemoteStore(srv.URL+"/", srv.Client())

	if n, err := store.GetLikes(ctx, "overleaf"); err != nil || n != 12 {
		t.Errorf("GetLikes() = %d, %v", n, err)
	}
	if gotPath != "/api/tools/overleaf/likes" {
		t.Errorf("path = %q", gotPath)
	}

	if err := store.SetLikes(ctx, "overleaf", 13); err != nil {
		t.Fatalf("SetLikes() error: %v", err)
	}
	if gotMethod != http.MethodPut || gotBody["count"] != float64(13) {
		t.Errorf("SetLikes sent %s %v", gotMethod, gotBody)
	}

	if n, err := store.CountComments(ctx, "overleaf"); err != nil || n != 3 {
		t.Errorf("CountComments() = %d, %v", n, err)
	}

	c, err := store.AddComment(ctx, NewComment{ToolID: "overleaf", Body: "hi", Password: "pw"})
	if err != nil {
		t.Fatalf("AddComment() error: %v", err)
	}
	if c.ID != "srv-1" || gotPath != "/api/tools/overleaf/comments" || gotBody["password"] != "pw" {
		t.Errorf("AddComment() = %+v via %s %v", c, gotPath, gotBody)
	}

	if err := store.DeleteComment(ctx, "srv-1", "pw"); err != nil {
		t.Fatalf("DeleteComment() error: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/comments/srv-1" || gotBody["password"] != "pw" {
		t.Errorf("DeleteComment sent %s %s %v", gotMethod, gotPath, gotBody)
	}
}
