// cmd/server/server_test.go
package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ruafit/ruafit/internal/config"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Name = "ruafit"
	cfg.App.Environment = "test"
	cfg.App.Port = 0
	cfg.App.BaseURL = "https://ruafit.example"
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = ":memory:"

	a, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	t.Cleanup(a.close)
	return a
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServerServesPages(t *testing.T) {
	a := newTestApp(t)

	for _, path := range []string{"/", "/programme.html", "/sports.html", "/contact.html", "/manage/sports.html"} {
		w := get(t, a.server.Handler, path)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}

	if w := get(t, a.server.Handler, "/nope.html"); w.Code != http.StatusNotFound {
		t.Errorf("GET /nope.html = %d, want 404", w.Code)
	}
}

func TestServerServesDataAndStatic(t *testing.T) {
	a := newTestApp(t)

	w := get(t, a.server.Handler, "/data/sports.json")
	if w.Code != http.StatusOK {
		t.Fatalf("data status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Netball") {
		t.Error("seed sports data missing")
	}

	w = get(t, a.server.Handler, "/static/css/styles.css")
	if w.Code != http.StatusOK {
		t.Errorf("static status = %d", w.Code)
	}

	w = get(t, a.server.Handler, "/manifest.webmanifest")
	if ct := w.Header().Get("Content-Type"); ct != "application/manifest+json" {
		t.Errorf("manifest Content-Type = %q", ct)
	}
}

func TestServerHealth(t *testing.T) {
	a := newTestApp(t)

	w := get(t, a.server.Handler, "/health")
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("health = %d %q", w.Code, w.Body.String())
	}
}

func TestServerPrecacheAndOfflineFallback(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	if err := a.offline.Install(ctx); err != nil {
		t.Fatalf("Install: %v", err)
	}
	a.offline.Activate(ctx)

	// Site pages keep serving through the cache service.
	w := get(t, a.server.Handler, "/sports.html")
	if w.Code != http.StatusOK {
		t.Errorf("post-activate page status = %d", w.Code)
	}
}

func TestServerManagerFlow(t *testing.T) {
	a := newTestApp(t)

	body := `{"selectedKey": "Netball", "teams": "Kahu\nKea\nTui\nRuru"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sports/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Imported 4 teams") {
		t.Errorf("import response = %s", w.Body.String())
	}

	page := get(t, a.server.Handler, "/sports.html")
	if !strings.Contains(page.Body.String(), "Kahu") {
		t.Error("imported roster not visible on sports page")
	}
}
