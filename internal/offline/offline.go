// internal/offline/offline.go
package offline

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Cache generation names. Bumping a version retires the previous
// generation's entries on the next activation.
const (
	StaticCacheName = "ruafit-static-v2"
	AssetCacheName  = "ruafit-assets-v2"
)

// OfflinePath is the designated fallback document served when both the
// network and the caches come up empty for a page.
const OfflinePath = "/offline.html"

// CoreAssets is the fixed precache manifest: every document, script and
// data URL the app needs to run with no network at all.
var CoreAssets = []string{
	"/",
	"/index.html",
	"/offline.html",
	"/programme.html",
	"/sports.html",
	"/venue.html",
	"/gallery.html",
	"/announcements.html",
	"/contact.html",
	"/404.html",
	"/static/css/styles.css",
	"/static/js/app.js",
	"/manifest.webmanifest",
	"/data/event.json",
	"/data/programme.json",
	"/data/sports.json",
	"/data/gallery.json",
	"/data/announcements.json",
}

// State of the cache lifecycle.
type State int

const (
	StateInstalling State = iota
	StateActive
	StateUpdating
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateActive:
		return "active-serving"
	case StateUpdating:
		return "updating"
	default:
		return "unknown"
	}
}

// Response is a cached or fetched representation of one asset.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// OK reports whether the response is cacheable.
func (r Response) OK() bool {
	return r.Status == http.StatusOK
}

// Fetcher retrieves an asset from the origin. A returned error means
// the network path failed entirely and the caller should fall back to
// cache.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (Response, error)
}

// CacheStorage persists named cache generations of asset responses.
type CacheStorage interface {
	Put(ctx context.Context, cacheName, path string, resp Response) error
	Match(ctx context.Context, cacheName, path string) (Response, bool)
	// DropOtherCaches removes every entry whose cache name is not in keep.
	DropOtherCaches(ctx context.Context, keep []string) error
}

// Notifier pushes a one-way refresh signal to open pages.
type Notifier interface {
	NotifyReload(cacheName string)
}

// Service implements the offline cache protocol: precache on install,
// stale-generation cleanup plus opportunistic refresh on activate, and
// per-request strategy dispatch. It runs independently of in-page
// state and only talks to pages through the Notifier.
type Service struct {
	fetcher     Fetcher
	cache       CacheStorage
	notifier    Notifier
	passthrough http.Handler

	mu    sync.RWMutex
	state State
}

// New builds a Service. passthrough handles non-GET requests untouched;
// notifier may be nil when no pages can listen (tests, CLI tools).
func New(fetcher Fetcher, cache CacheStorage, notifier Notifier, passthrough http.Handler) *Service {
	return &Service{
		fetcher:     fetcher,
		cache:       cache,
		notifier:    notifier,
		passthrough: passthrough,
		state:       StateInstalling,
	}
}

// State reports the current lifecycle state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Service) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Install precaches the core asset manifest into the static cache.
// Every asset must be fetchable; a failed install leaves the service in
// the installing state so a later attempt can retry.
func (s *Service) Install(ctx context.Context) error {
	for _, path := range CoreAssets {
		resp, err := s.fetcher.Fetch(ctx, path)
		if err != nil {
			return err
		}
		if !resp.OK() {
			continue
		}
		if err := s.cache.Put(ctx, cacheFor(path), path, resp); err != nil {
			return err
		}
	}
	s.setState(StateActive)
	log.Info().Int("assets", len(CoreAssets)).Msg("Offline cache installed")
	return nil
}

// Activate drops cache generations that no longer match the current
// names, refreshes each core asset from the network best-effort, and
// then signals every open page to reload. It never fails the caller:
// a dead network simply leaves the previous cache contents serving.
func (s *Service) Activate(ctx context.Context) {
	s.setState(StateUpdating)
	defer s.setState(StateActive)

	if err := s.cache.DropOtherCaches(ctx, []string{StaticCacheName, AssetCacheName}); err != nil {
		log.Warn().Err(err).Msg("Stale cache cleanup failed")
	}

	s.Refresh(ctx)

	if s.notifier != nil {
		s.notifier.NotifyReload(StaticCacheName)
	}
	log.Info().Msg("Offline cache activated")
}

// Refresh re-fetches every core asset, replacing cached copies that
// could be retrieved. Failures are skipped; the stale copy keeps serving.
func (s *Service) Refresh(ctx context.Context) {
	for _, path := range CoreAssets {
		resp, err := s.fetcher.Fetch(ctx, path)
		if err != nil || !resp.OK() {
			continue
		}
		if err := s.cache.Put(ctx, cacheFor(path), path, resp); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Cache refresh write failed")
		}
	}
}

// ServeHTTP dispatches one request through the fetch strategy table:
// non-GET passes through untouched; navigations are network-first with
// static-cache then offline-document fallback; data paths are
// network-first with asset-cache fallback; every other GET is
// cache-first with network fallback, ending at the offline document.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.passthrough.ServeHTTP(w, r)
		return
	}

	path := r.URL.Path
	switch {
	case isNavigation(r):
		s.serveNavigation(w, r, path)
	case isDataPath(path):
		s.serveData(w, r, path)
	default:
		s.serveAsset(w, r, path)
	}
}

func (s *Service) serveNavigation(w http.ResponseWriter, r *http.Request, path string) {
	ctx := r.Context()
	resp, err := s.fetcher.Fetch(ctx, path)
	if err == nil && resp.OK() {
		if putErr := s.cache.Put(ctx, StaticCacheName, path, resp); putErr != nil {
			log.Warn().Err(putErr).Str("path", path).Msg("Navigation cache write failed")
		}
		writeResponse(w, resp)
		return
	}
	if err == nil {
		// Origin answered with an error page; pass it along rather
		// than masking it with stale content.
		writeResponse(w, resp)
		return
	}

	if cached, ok := s.cache.Match(ctx, StaticCacheName, path); ok {
		writeResponse(w, cached)
		return
	}
	s.serveOfflineDocument(w, r)
}

func (s *Service) serveData(w http.ResponseWriter, r *http.Request, path string) {
	ctx := r.Context()
	resp, err := s.fetcher.Fetch(ctx, path)
	if err == nil && resp.OK() {
		if putErr := s.cache.Put(ctx, AssetCacheName, path, resp); putErr != nil {
			log.Warn().Err(putErr).Str("path", path).Msg("Data cache write failed")
		}
		writeResponse(w, resp)
		return
	}

	if cached, ok := s.cache.Match(ctx, AssetCacheName, path); ok {
		writeResponse(w, cached)
		return
	}
	if err == nil {
		writeResponse(w, resp)
		return
	}
	http.Error(w, "Data unavailable offline", http.StatusServiceUnavailable)
}

func (s *Service) serveAsset(w http.ResponseWriter, r *http.Request, path string) {
	ctx := r.Context()
	if cached, ok := s.cache.Match(ctx, AssetCacheName, path); ok {
		writeResponse(w, cached)
		return
	}

	resp, err := s.fetcher.Fetch(ctx, path)
	if err == nil {
		if resp.OK() {
			if putErr := s.cache.Put(ctx, AssetCacheName, path, resp); putErr != nil {
				log.Warn().Err(putErr).Str("path", path).Msg("Asset cache write failed")
			}
		}
		writeResponse(w, resp)
		return
	}
	s.serveOfflineDocument(w, r)
}

func (s *Service) serveOfflineDocument(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.cache.Match(r.Context(), StaticCacheName, OfflinePath); ok {
		writeResponse(w, cached)
		return
	}
	http.Error(w, "You're offline and this page isn't cached yet.", http.StatusServiceUnavailable)
}

func writeResponse(w http.ResponseWriter, resp Response) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	w.Write(resp.Body)
}

// cacheFor routes core assets to the cache generation their fetch
// strategy reads from.
func cacheFor(path string) string {
	if isDataPath(path) || strings.HasPrefix(path, "/static/") || path == "/manifest.webmanifest" {
		return AssetCacheName
	}
	return StaticCacheName
}

func isDataPath(path string) bool {
	return strings.HasPrefix(path, "/data/")
}

// isNavigation approximates the browser's navigate mode: an explicit
// Sec-Fetch-Mode header wins, otherwise document-looking paths count.
func isNavigation(r *http.Request) bool {
	if mode := r.Header.Get("Sec-Fetch-Mode"); mode != "" {
		return mode == "navigate"
	}
	path := r.URL.Path
	if path == "/" || strings.HasSuffix(path, ".html") {
		return true
	}
	return !strings.Contains(path[strings.LastIndex(path, "/"):], ".") &&
		strings.Contains(r.Header.Get("Accept"), "text/html")
}
