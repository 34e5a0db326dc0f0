// cmd/server/server.go
package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ruafit/ruafit/internal/api"
	"github.com/ruafit/ruafit/internal/api/pages"
	"github.com/ruafit/ruafit/internal/api/sportsmanager"
	"github.com/ruafit/ruafit/internal/config"
	"github.com/ruafit/ruafit/internal/content"
	"github.com/ruafit/ruafit/internal/db"
	"github.com/ruafit/ruafit/internal/manager"
	"github.com/ruafit/ruafit/internal/notify"
	"github.com/ruafit/ruafit/internal/offline"
	"github.com/ruafit/ruafit/internal/ratelimit"
	"github.com/ruafit/ruafit/internal/store"
	"github.com/ruafit/ruafit/web"
)

type app struct {
	server  *http.Server
	offline *offline.Service
	hub     *notify.Hub
	sqlDB   *sql.DB
	limiter *ratelimit.Limiter
}

func (a *app) close() {
	a.limiter.Close()
	if err := a.sqlDB.Close(); err != nil {
		log.Error().Err(err).Msg("Database close error")
	}
}

func newApp(cfg *config.Config) (*app, error) {
	database, err := db.New(cfg.Database.Filename)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	var contentFS fs.FS = web.DataFS()
	if cfg.Content.Dir != "" {
		contentFS = os.DirFS(cfg.Content.Dir)
	}
	library := content.NewLibrary(contentFS)

	builtIns, err := library.Sports()
	if err != nil {
		return nil, fmt.Errorf("loading built-in sports: %w", err)
	}

	appStore := store.NewSQLite(database)
	mgr := manager.New(appStore, builtIns, nil)

	hub := notify.NewHub()
	hub.Start()

	pages.InitHandlers(library, appStore, mgr, cfg.App.BaseURL)
	sportsmanager.InitHandlers(mgr)
	sportsmanager.InitPage(library)

	site := newSiteMux()

	var fetcher offline.Fetcher = offline.HandlerFetcher{Handler: site}
	if cfg.Offline.Origin != "" {
		fetcher = offline.HTTPFetcher{BaseURL: cfg.Offline.Origin}
	}
	svc := offline.New(fetcher, offline.NewSQLiteCache(database), hub, site)

	limiter := ratelimit.New(nil)

	router := http.NewServeMux()
	registerRoutes(router, svc, hub, limiter)

	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	return &app{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.App.Port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		offline: svc,
		hub:     hub,
		sqlDB:   database,
		limiter: limiter,
	}, nil
}

// newSiteMux builds the origin: the public pages, data documents and
// static assets. The offline service fronts this mux so every response
// can feed the cache generations.
func newSiteMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", pages.HandleHome)
	mux.HandleFunc("/index.html", pages.HandleHome)
	mux.HandleFunc("/programme.html", pages.HandleProgramme)
	mux.HandleFunc("/sports.html", pages.HandleSports)
	mux.HandleFunc("/venue.html", pages.HandleVenue)
	mux.HandleFunc("/gallery.html", pages.HandleGallery)
	mux.HandleFunc("/announcements.html", pages.HandleAnnouncements)
	mux.HandleFunc("/contact.html", pages.HandleContact)
	mux.HandleFunc("/offline.html", pages.HandleOffline)
	mux.HandleFunc("/404.html", pages.HandleNotFoundPage)
	mux.HandleFunc("/data/", pages.HandleData)
	mux.HandleFunc("/qr/share.png", pages.HandleShareQR)

	mux.HandleFunc("/manifest.webmanifest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/manifest+json")
		w.Write(web.Manifest())
	})
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS()))))

	return mux
}

// registerRoutes lays out the outer surface. The public site goes
// through the offline cache service; management and live API routes
// bypass it so they always hit fresh state.
func registerRoutes(mux *http.ServeMux, svc *offline.Service, hub *notify.Hub, limiter *ratelimit.Limiter) {
	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/ws", hub.ServeWs)

	// Management routes; mutations are rate limited per client IP.
	mux.HandleFunc("/manage/sports.html", sportsmanager.HandleManagePage)
	mux.HandleFunc("/api/v1/sports", sportsmanager.HandleList)

	actions := map[string]http.HandlerFunc{
		"/api/v1/sports/import":          sportsmanager.HandleImportTeams,
		"/api/v1/sports/import-file":     sportsmanager.HandleImportFile,
		"/api/v1/sports/import-freeform": sportsmanager.HandleImportFreeform,
		"/api/v1/sports/add-team":        sportsmanager.HandleAddTeam,
		"/api/v1/sports/clear-teams":     sportsmanager.HandleClearTeams,
		"/api/v1/sports/clear-draw":      sportsmanager.HandleClearDraw,
		"/api/v1/sports/clear-all":       sportsmanager.HandleClearAll,
		"/api/v1/sports/generate-pool":   sportsmanager.HandleGeneratePool,
		"/api/v1/sports/preview-rounds":  sportsmanager.HandlePreviewRounds,
		"/api/v1/sports/save-rounds":     sportsmanager.HandleSaveRounds,
	}
	for path, handler := range actions {
		mux.Handle(path, limiter.Middleware(handler))
	}

	// Everything else is the public site behind the cache service.
	mux.Handle("/", svc)
}
