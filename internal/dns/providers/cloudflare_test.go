package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"pickaxeclub/wither/internal/dns/domain"

	"github.com/google/go-cmp/cmp"
)

// newCloudflareServer routes "METHOD /path" keys to handlers.
func newCloudflareServer(t *testing.T, handlers map[string]http.HandlerFunc) *CloudflareProvider {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer cf-token" {
			t.Errorf("Authorization = %q", got)
		}
		h, ok := handlers[r.Method+" "+r.URL.Path]
		if !ok {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewCloudflareProvider("cf-token", srv.Client())
	c.baseURL = srv.URL
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func zoneHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"result":  []any{map[string]any{"id": "zone-1", "name": r.URL.Query().Get("name")}},
	})
}

func TestCloudflare_ListRecords_Paginates(t *testing.T) {
	c := newCloudflareServer(t, map[string]http.HandlerFunc{
		"GET /zones": zoneHandler,
		"GET /zones/zone-1/dns_records": func(w http.ResponseWriter, r *http.Request) {
			page := r.URL.Query().Get("page")
			n, _ := strconv.Atoi(page)
			id := "rec-" + page
			writeJSON(w, http.StatusOK, map[string]any{
				"success":     true,
				"result":      []any{map[string]any{"id": id, "name": "survival.pickaxe.club", "type": "A", "content": "10.0.0." + page, "ttl": 1}},
				"result_info": map[string]any{"page": n, "total_pages": 2},
			})
		},
	})

	got, err := c.ListRecords(context.Background(), "pickaxe.club")
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}

	want := []domain.Record{
		{ID: "rec-1", Zone: "pickaxe.club", Name: "survival.pickaxe.club", Type: domain.RecordTypeA, Content: "10.0.0.1", TTL: 1},
		{ID: "rec-2", Zone: "pickaxe.club", Name: "survival.pickaxe.club", Type: domain.RecordTypeA, Content: "10.0.0.2", TTL: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListRecords() mismatch (-want +got):\n%s", diff)
	}
}

func TestCloudflare_CreateAndUpdate(t *testing.T) {
	var created, patched cfRecordBody
	c := newCloudflareServer(t, map[string]http.HandlerFunc{
		"GET /zones": zoneHandler,
		"POST /zones/zone-1/dns_records": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&created)
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"result":  map[string]any{"id": "rec-9", "name": created.Name, "type": created.Type, "content": created.Content, "ttl": created.TTL},
			})
		},
		"PATCH /zones/zone-1/dns_records/rec-9": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&patched)
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": map[string]any{"id": "rec-9"}})
		},
	})

	opts := domain.RecordOpts{Name: "survival", Type: domain.RecordTypeA, Content: "203.0.113.5", TTL: 600}
	rec, err := c.CreateRecord(context.Background(), "pickaxe.club", opts)
	if err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}
	if rec.ID != "rec-9" || rec.Name != "survival.pickaxe.club" {
		t.Errorf("CreateRecord() = %+v", rec)
	}

	if err := c.UpdateRecord(context.Background(), "pickaxe.club", "rec-9", opts); err != nil {
		t.Fatalf("UpdateRecord() error = %v", err)
	}

	want := cfRecordBody{Type: "A", Name: "survival.pickaxe.club", Content: "203.0.113.5", TTL: 600}
	if diff := cmp.Diff(want, created); diff != "" {
		t.Errorf("create body mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, patched); diff != "" {
		t.Errorf("patch body mismatch (-want +got):\n%s", diff)
	}
}

func TestCloudflare_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		errs   []any
		want   error
	}{
		{"forbidden", http.StatusForbidden, nil, domain.ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, nil, domain.ErrRateLimited},
		{"auth code", http.StatusBadRequest, []any{map[string]any{"code": 10000, "message": "Authentication error"}}, domain.ErrUnauthorized},
		{"exists code", http.StatusBadRequest, []any{map[string]any{"code": 81057, "message": "Record already exists."}}, domain.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCloudflareServer(t, map[string]http.HandlerFunc{
				"GET /zones": func(w http.ResponseWriter, r *http.Request) {
					writeJSON(w, tt.status, map[string]any{"success": false, "errors": tt.errs})
				},
			})
			_, err := c.ListRecords(context.Background(), "pickaxe.club")
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCloudflare_ZoneNotFound(t *testing.T) {
	c := newCloudflareServer(t, map[string]http.HandlerFunc{
		"GET /zones": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "result": []any{}})
		},
	})
	_, err := c.ListRecords(context.Background(), "pickaxe.club")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
