// internal/api/pages/handlers.go
package pages

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/ruafit/ruafit/internal/content"
	"github.com/ruafit/ruafit/internal/manager"
	"github.com/ruafit/ruafit/internal/qr"
	"github.com/ruafit/ruafit/internal/store"
)

var (
	library   *content.Library
	appStore  store.Store
	sportsMgr *manager.Manager
	shareURL  string
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(lib *content.Library, s store.Store, mgr *manager.Manager, baseURL string) {
	library = lib
	appStore = s
	sportsMgr = mgr
	shareURL = baseURL
}

type navLink struct {
	Href  string
	Label string
}

var navLinks = []navLink{
	{"/index.html", "Home"},
	{"/programme.html", "Programme"},
	{"/sports.html", "Sports"},
	{"/venue.html", "Venue"},
	{"/gallery.html", "Gallery"},
	{"/announcements.html", "Announcements"},
	{"/contact.html", "Contact"},
}

// GET / and /index.html
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		HandleNotFound(w, r)
		return
	}
	event, err := loadEvent(w, r)
	if err != nil {
		return
	}

	var body strings.Builder
	body.WriteString(`<section class="card">`)
	body.WriteString(fmt.Sprintf(`<h1>%s</h1>`, html.EscapeString(event.Name)))
	body.WriteString(fmt.Sprintf(`<p class="small">%s</p>`, html.EscapeString(event.Dates)))
	body.WriteString(fmt.Sprintf(`<p class="small">%s</p>`, html.EscapeString(event.Location)))
	body.WriteString(`</section><section class="grid two home-links">`)
	for _, link := range navLinks[1:] {
		body.WriteString(fmt.Sprintf(`<a class="link-button" href="%s">%s</a>`,
			link.Href, html.EscapeString(link.Label)))
	}
	body.WriteString(`</section>`)

	renderPage(w, r, event, "index", event.Name, body.String())
}

// GET /programme.html
func HandleProgramme(w http.ResponseWriter, r *http.Request) {
	event, err := loadEvent(w, r)
	if err != nil {
		return
	}
	days, err := library.Programme()
	if err != nil {
		renderLoadError(w, r, err)
		return
	}

	var body strings.Builder
	body.WriteString(`<h1>Programme</h1>`)
	for _, day := range days {
		body.WriteString(`<section class="card">`)
		body.WriteString(fmt.Sprintf(`<h2>%s</h2>`, html.EscapeString(day.Day)))
		body.WriteString(fmt.Sprintf(`<p class="small">%s</p>`, html.EscapeString(day.Date)))
		body.WriteString(`<ul>`)
		for _, item := range day.Items {
			body.WriteString(fmt.Sprintf(`<li><strong>%s</strong> %s</li>`,
				html.EscapeString(item.Time), html.EscapeString(item.Activity)))
		}
		body.WriteString(`</ul></section>`)
	}

	renderPage(w, r, event, "programme", "Programme", body.String())
}

// GET /sports.html
func HandleSports(w http.ResponseWriter, r *http.Request) {
	event, err := loadEvent(w, r)
	if err != nil {
		return
	}

	var body strings.Builder
	body.WriteString(`<h1>Sports</h1>`)
	for _, sport := range sportsMgr.Sports(r.Context()) {
		body.WriteString(`<section class="card">`)
		body.WriteString(fmt.Sprintf(`<h2>%s</h2>`, html.EscapeString(sport.Code)))
		if sport.Location != "" {
			body.WriteString(fmt.Sprintf(`<p>Location: %s</p>`, html.EscapeString(sport.Location)))
		}
		if sport.Notes != "" {
			body.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(sport.Notes)))
		}
		if len(sport.Teams) > 0 {
			body.WriteString(`<p class="small">Teams: `)
			names := make([]string, len(sport.Teams))
			for i, team := range sport.Teams {
				names[i] = html.EscapeString(team)
			}
			body.WriteString(strings.Join(names, ", "))
			body.WriteString(`</p>`)
		}
		if sport.DrawURL != "" {
			body.WriteString(fmt.Sprintf(`<a href="%s" target="_blank" rel="noreferrer">View draw</a>`,
				html.EscapeString(sport.DrawURL)))
		}
		body.WriteString(buildDrawHTML(sport.Draw))
		body.WriteString(`</section>`)
	}

	renderPage(w, r, event, "sports", "Sports", body.String())
}

// GET /venue.html
func HandleVenue(w http.ResponseWriter, r *http.Request) {
	event, err := loadEvent(w, r)
	if err != nil {
		return
	}

	var body strings.Builder
	body.WriteString(`<section class="card"><h1>Venue</h1>`)
	body.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(event.Location)))
	body.WriteString(`<p class="small">Maps, parking, kai stalls, medical assistance and other venue details.</p>`)
	body.WriteString(`</section>`)

	renderPage(w, r, event, "venue", "Venue", body.String())
}

// GET /gallery.html
func HandleGallery(w http.ResponseWriter, r *http.Request) {
	event, err := loadEvent(w, r)
	if err != nil {
		return
	}
	photos, err := library.Gallery()
	if err != nil {
		renderLoadError(w, r, err)
		return
	}

	var body strings.Builder
	body.WriteString(`<h1>Gallery</h1><div class="grid two gallery">`)
	for _, photo := range photos {
		body.WriteString(`<figure class="card">`)
		body.WriteString(fmt.Sprintf(`<img src="%s" alt="%s" loading="lazy" />`,
			html.EscapeString(photo.Image), html.EscapeString(photo.Caption)))
		body.WriteString(fmt.Sprintf(`<figcaption>%s</figcaption>`, html.EscapeString(photo.Caption)))
		body.WriteString(`</figure>`)
	}
	body.WriteString(`</div>`)

	renderPage(w, r, event, "gallery", "Gallery", body.String())
}

// GET /announcements.html
func HandleAnnouncements(w http.ResponseWriter, r *http.Request) {
	event, err := loadEvent(w, r)
	if err != nil {
		return
	}
	items, err := library.Announcements()
	if err != nil {
		renderLoadError(w, r, err)
		return
	}

	var body strings.Builder
	body.WriteString(`<h1>Announcements</h1>`)
	if len(items) == 0 {
		body.WriteString(`<p>No announcements yet.</p>`)
	}
	for _, item := range items {
		body.WriteString(`<section class="card">`)
		body.WriteString(fmt.Sprintf(`<p>%s</p>`, html.EscapeString(item.Message)))
		body.WriteString(fmt.Sprintf(`<p class="small">%s</p>`, html.EscapeString(item.Timestamp)))
		body.WriteString(`</section>`)
	}

	renderPage(w, r, event, "announcements", "Announcements", body.String())
}

// GET /contact.html
func HandleContact(w http.ResponseWriter, r *http.Request) {
	event, err := loadEvent(w, r)
	if err != nil {
		return
	}

	var body strings.Builder
	body.WriteString(`<section class="card"><h1>Contact</h1>`)
	body.WriteString(fmt.Sprintf(`<p>Email: %s</p>`, html.EscapeString(event.Contact.Email)))
	body.WriteString(fmt.Sprintf(`<p>Phone: %s</p>`, html.EscapeString(event.Contact.Phone)))
	if shareURL != "" {
		body.WriteString(`<figure><img src="/qr/share.png" alt="QR code linking to this site" width="160" height="160" />`)
		body.WriteString(`<figcaption class="small">Scan to open this site</figcaption></figure>`)
	}
	body.WriteString(`</section>`)

	renderPage(w, r, event, "contact", "Contact", body.String())
}

// GET /offline.html
func HandleOffline(w http.ResponseWriter, r *http.Request) {
	event, _ := library.Event()
	body := `<section class="card"><h1>You're offline</h1>` +
		`<p>It looks like you don't have an internet connection right now.</p>` +
		`<a class="button" href="">Try again</a></section>`
	renderPage(w, r, event, "offline", "Offline", body)
}

// HandleNotFound serves the not-found document with a 404 status for
// unknown paths.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	event, _ := library.Event()
	w.WriteHeader(http.StatusNotFound)
	writeComponent(w, r, pageComponent(event, "404", notFoundBody))
}

// GET /404.html
//
// The document itself is a cacheable page, so it serves with a 200 like
// any other; only unknown paths get the 404 status.
func HandleNotFoundPage(w http.ResponseWriter, r *http.Request) {
	event, _ := library.Event()
	writeComponent(w, r, pageComponent(event, "404", notFoundBody))
}

const notFoundBody = `<section class="card"><h1>Page Not Found</h1>` +
	`<p>The page you're looking for does not exist.</p>` +
	`<a class="link-button" href="/index.html">Go back home</a></section>`

// GET /data/{file}.json
func HandleData(w http.ResponseWriter, r *http.Request) {
	name := path.Base(r.URL.Path)
	if !strings.HasSuffix(name, ".json") {
		http.NotFound(w, r)
		return
	}
	data, err := library.Raw(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// GET /qr/share.png
func HandleShareQR(w http.ResponseWriter, r *http.Request) {
	png, err := qr.SharePNG(shareURL, 256)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Share QR unavailable")
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func loadEvent(w http.ResponseWriter, r *http.Request) (content.Event, error) {
	event, err := library.Event()
	if err != nil {
		renderLoadError(w, r, err)
	}
	return event, err
}

func renderLoadError(w http.ResponseWriter, r *http.Request, err error) {
	log.Ctx(r.Context()).Error().Err(err).Msg("Content load failed")
	w.WriteHeader(http.StatusInternalServerError)
	body := fmt.Sprintf(`<section class="card"><h1>Unable to load app content</h1><p>%s</p></section>`,
		html.EscapeString(err.Error()))
	writeComponent(w, r, pageComponent(content.Event{}, "error", body))
}

// renderPage writes the full document and records the visit the way the
// client app did: session first, cached-data marker after a successful
// render. Both writes are best-effort.
func renderPage(w http.ResponseWriter, r *http.Request, event content.Event, page, title, body string) {
	appStore.SetSession(r.Context(), store.Session{
		LastVisited: time.Now().UTC().Format(time.RFC3339),
		Page:        page,
	})

	writeComponent(w, r, pageComponent(event, title, body))

	appStore.SetCachedData(r.Context(), store.CachedData{
		LoadedAt: time.Now().UnixMilli(),
		Page:     page,
	})
}

func writeComponent(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Render failed")
	}
}

// Document wraps a page body in the shared site shell. Other handler
// packages use it to render within the same chrome.
func Document(event content.Event, title, body string) templ.Component {
	return pageComponent(event, title, body)
}

func pageComponent(event content.Event, title, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, buildShellHTML(event, title, body)); err != nil {
			return err
		}
		return nil
	})
}

func buildShellHTML(event content.Event, title, body string) string {
	name := event.Name
	if name == "" {
		name = "RUAfit"
	}

	var links strings.Builder
	for _, link := range navLinks {
		links.WriteString(fmt.Sprintf(`<a href="%s">%s</a>`, link.Href, html.EscapeString(link.Label)))
	}

	var doc strings.Builder
	doc.WriteString(`<!doctype html><html lang="en"><head><meta charset="utf-8" />`)
	doc.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1" />`)
	doc.WriteString(fmt.Sprintf(`<title>%s | %s</title>`, html.EscapeString(title), html.EscapeString(name)))
	doc.WriteString(`<link rel="stylesheet" href="/static/css/styles.css" />`)
	doc.WriteString(`<link rel="manifest" href="/manifest.webmanifest" />`)
	doc.WriteString(`</head><body>`)
	doc.WriteString(`<header class="site-header"><div class="header-inner">`)
	doc.WriteString(fmt.Sprintf(`<strong>%s</strong>`, html.EscapeString(name)))
	doc.WriteString(fmt.Sprintf(`<nav class="primary-nav">%s</nav>`, links.String()))
	doc.WriteString(`</div></header>`)
	doc.WriteString(`<main id="app">`)
	doc.WriteString(body)
	doc.WriteString(`</main>`)
	doc.WriteString(`<footer class="site-footer">`)
	doc.WriteString(fmt.Sprintf(`<div>%s</div>`, html.EscapeString(name)))
	doc.WriteString(fmt.Sprintf(`<div>%s</div>`, html.EscapeString(event.Dates)))
	doc.WriteString(fmt.Sprintf(`<div>Contact: %s</div>`, html.EscapeString(event.Contact.Email)))
	doc.WriteString(`</footer>`)
	doc.WriteString(`<script src="/static/js/app.js"></script>`)
	doc.WriteString(`</body></html>`)
	return doc.String()
}
