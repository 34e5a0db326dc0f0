// internal/api/sportsmanager/page.go
package sportsmanager

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ruafit/ruafit/internal/api/pages"
	"github.com/ruafit/ruafit/internal/content"
)

var library *content.Library

// InitPage wires the content library used by the management page shell.
func InitPage(lib *content.Library) {
	library = lib
}

// GET /manage/sports.html
func HandleManagePage(w http.ResponseWriter, r *http.Request) {
	event, err := library.Event()
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Content load failed")
		http.Error(w, "Unable to load app content", http.StatusInternalServerError)
		return
	}

	var body strings.Builder
	body.WriteString(`<h1>Sports Manager</h1>`)
	body.WriteString(`<p class="small">Import rosters, generate pool play and build finals brackets. Actions post to /api/v1/sports.</p>`)

	body.WriteString(`<section class="card"><h2>Sports</h2>`)
	body.WriteString(`<select id="sport-select" name="selectedKey">`)
	body.WriteString(`<option value="">Select a sport</option>`)
	for _, sport := range mgr.Sports(r.Context()) {
		code := html.EscapeString(sport.Code)
		body.WriteString(fmt.Sprintf(`<option value="%s">%s (%d teams)</option>`,
			code, code, len(sport.Teams)))
	}
	body.WriteString(`</select>`)
	body.WriteString(`<input id="sport-name" name="typedName" type="text" placeholder="Or type a new sport name" />`)
	body.WriteString(`</section>`)

	body.WriteString(`<section class="card"><h2>Teams</h2>`)
	body.WriteString(`<textarea id="team-input" rows="8" placeholder="One team per line"></textarea>`)
	body.WriteString(`<label><input type="checkbox" id="append-mode" /> Append to existing roster</label>`)
	body.WriteString(`<div class="actions">`)
	body.WriteString(`<button data-action="import">Import teams</button>`)
	body.WriteString(`<button data-action="add-team">Add one team</button>`)
	body.WriteString(`<button data-action="clear-teams">Clear teams</button>`)
	body.WriteString(`</div></section>`)

	body.WriteString(`<section class="card"><h2>Draws</h2>`)
	body.WriteString(`<label><input type="checkbox" id="shuffle-teams" /> Shuffle before pairing</label>`)
	body.WriteString(`<label>Rounds <input type="number" id="round-count" min="1" max="6" value="2" /></label>`)
	body.WriteString(`<label>Pairing <select id="pairing-mode">`)
	body.WriteString(`<option value="sequential">Sequential</option><option value="random">Random</option>`)
	body.WriteString(`</select></label>`)
	body.WriteString(`<div class="actions">`)
	body.WriteString(`<button data-action="generate-pool">Generate pool play</button>`)
	body.WriteString(`<button data-action="preview-rounds">Preview custom rounds</button>`)
	body.WriteString(`<button data-action="save-rounds">Save custom rounds</button>`)
	body.WriteString(`<button data-action="clear-draw">Clear draw</button>`)
	body.WriteString(`<button data-action="clear-all" class="danger">Clear everything</button>`)
	body.WriteString(`</div></section>`)

	body.WriteString(`<p id="status" role="status"></p>`)
	body.WriteString(`<div id="preview"></div>`)
	body.WriteString(`<script src="/static/js/manage.js"></script>`)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	component := pages.Document(event, "Sports Manager", body.String())
	if err := component.Render(r.Context(), w); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Render failed")
	}
}
