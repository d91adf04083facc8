package droplet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"pickaxeclub/wither/internal/httpclient"
)

func TestHTTPArchive_Exists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		if r.URL.Path == "/archives/week042a.tar.gz" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	a := NewHTTPArchive(httpclient.New(zerolog.Nop(), 0), srv.URL+"/archives/", zerolog.Nop())

	tests := map[string]bool{"042a": true, "017": false}
	for week, want := range tests {
		got, err := a.Exists(context.Background(), week)
		if err != nil {
			t.Fatalf("Exists(%s) error = %v", week, err)
		}
		if got != want {
			t.Errorf("Exists(%s) = %v, want %v", week, got, want)
		}
	}
}

func TestHTTPUserData_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user-data" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("#cloud-config\n"))
	}))
	defer srv.Close()

	client := httpclient.New(zerolog.Nop(), 0)

	got, err := NewHTTPUserData(client, srv.URL+"/user-data").Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got != "#cloud-config\n" {
		t.Errorf("Fetch() = %q", got)
	}

	_, err = NewHTTPUserData(client, srv.URL+"/missing").Fetch(context.Background())
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Fetch(missing) error = %v, want status error", err)
	}
}
