// internal/api/sportsmanager/handlers.go
package sportsmanager

import (
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ruafit/ruafit/internal/api/apiutil"
	"github.com/ruafit/ruafit/internal/draws"
	"github.com/ruafit/ruafit/internal/importer"
	"github.com/ruafit/ruafit/internal/manager"
	"github.com/ruafit/ruafit/internal/sports"
)

// Import files larger than this are rejected before parsing.
const maxImportBytes = 1 << 20

var mgr *manager.Manager

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(m *manager.Manager) {
	mgr = m
}

type actionRequest struct {
	SelectedKey string `json:"selectedKey"`
	TypedName   string `json:"typedName"`
	Teams       string `json:"teams"`
	Name        string `json:"name"`
	Text        string `json:"text"`
	Append      bool   `json:"append"`
	Shuffle     bool   `json:"shuffle"`
	Confirmed   bool   `json:"confirmed"`
	RoundCount  int    `json:"roundCount"`
	PairingMode string `json:"pairingMode"`
}

type actionResponse struct {
	Status  string `json:"status"`
	Changed bool   `json:"changed"`
	Key     string `json:"key,omitempty"`
}

type previewResponse struct {
	actionResponse
	Preview *sports.CustomRounds `json:"preview,omitempty"`
}

type importResponse struct {
	actionResponse
	Unparsed      []string `json:"unparsed,omitempty"`
	IgnoredLabels []string `json:"ignoredLabels,omitempty"`
}

// GET /api/v1/sports
func HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	apiutil.WriteJSON(w, http.StatusOK, mgr.Sports(r.Context()))
}

// POST /api/v1/sports/import
//
// Newline-separated roster for one sport. The sport is resolved from
// the selection or a typed new name, mirroring the management form.
func HandleImportTeams(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}

	key, resolved := resolveTarget(w, r, req)
	if key == "" {
		return
	}
	result := mgr.ImportTeams(r.Context(), key, req.Teams, req.Append)
	writeResult(w, key, combine(resolved, result))
}

// POST /api/v1/sports/import-file
//
// Body is the import file itself: a JSON object of sport codes to team
// lists. Unknown codes register new user sports.
func HandleImportFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes+1))
	if err != nil {
		http.Error(w, "Failed to read import file", http.StatusBadRequest)
		return
	}
	if len(body) > maxImportBytes {
		http.Error(w, "Import file too large", http.StatusRequestEntityTooLarge)
		return
	}

	byCode, err := importer.ParseFile(body)
	if err != nil {
		apiutil.WriteJSON(w, http.StatusBadRequest, actionResponse{Status: err.Error()})
		return
	}

	appendMode := r.URL.Query().Get("append") == "true"
	result := mgr.ImportMany(r.Context(), byCode, appendMode)
	writeResult(w, "", result)
}

// POST /api/v1/sports/import-freeform
//
// Pasted text import. Labels that match no known sport are reported
// back rather than silently dropped.
func HandleImportFreeform(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		apiutil.WriteJSON(w, http.StatusOK, actionResponse{Status: "Paste some team lines first."})
		return
	}

	known := make([]string, 0)
	for _, sport := range mgr.Sports(r.Context()) {
		known = append(known, sport.Code)
	}
	parsed := importer.ParseFreeform(req.Text, known)

	result := mgr.ImportMany(r.Context(), parsed.Teams, req.Append)
	apiutil.WriteJSON(w, http.StatusOK, importResponse{
		actionResponse: actionResponse{Status: result.Status, Changed: result.Changed},
		Unparsed:       parsed.Unparsed,
		IgnoredLabels:  parsed.IgnoredLabels,
	})
}

// POST /api/v1/sports/add-team
func HandleAddTeam(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}
	key, resolved := resolveTarget(w, r, req)
	if key == "" {
		return
	}
	result := mgr.AddTeam(r.Context(), key, req.Name)
	writeResult(w, key, combine(resolved, result))
}

// POST /api/v1/sports/clear-teams
func HandleClearTeams(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}
	key := sports.LookupKey(req.SelectedKey)
	writeResult(w, key, mgr.ClearTeams(r.Context(), key))
}

// POST /api/v1/sports/clear-draw
func HandleClearDraw(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}
	key := sports.LookupKey(req.SelectedKey)
	writeResult(w, key, mgr.ClearDraw(r.Context(), key))
}

// POST /api/v1/sports/clear-all
func HandleClearAll(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}
	writeResult(w, "", mgr.ClearAll(r.Context(), req.Confirmed))
}

// POST /api/v1/sports/generate-pool
func HandleGeneratePool(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}
	key, resolved := resolveTarget(w, r, req)
	if key == "" {
		return
	}
	result := mgr.GeneratePoolPlay(r.Context(), key, req.Shuffle)
	writeResult(w, key, combine(resolved, result))
}

// POST /api/v1/sports/preview-rounds
func HandlePreviewRounds(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}
	key := sports.LookupKey(req.SelectedKey)

	mode := draws.PairSequential
	if req.PairingMode == string(draws.PairRandom) {
		mode = draws.PairRandom
	}

	preview, result := mgr.PreviewCustomRounds(r.Context(), key, req.RoundCount, mode)
	apiutil.WriteJSON(w, http.StatusOK, previewResponse{
		actionResponse: actionResponse{Status: result.Status, Changed: result.Changed, Key: key},
		Preview:        preview,
	})
}

// POST /api/v1/sports/save-rounds
func HandleSaveRounds(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}
	key := sports.LookupKey(req.SelectedKey)
	writeResult(w, key, mgr.SaveCustomRounds(r.Context(), key, req.Confirmed))
}

func decodeAction(w http.ResponseWriter, r *http.Request) (actionRequest, bool) {
	var req actionRequest
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return req, false
	}
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("Bad sports action request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

// resolveTarget picks the sport an action applies to. On failure it
// writes the guidance response itself and returns an empty key.
func resolveTarget(w http.ResponseWriter, r *http.Request, req actionRequest) (string, manager.Result) {
	key, result := mgr.ResolveSport(r.Context(), req.SelectedKey, req.TypedName)
	if key == "" {
		apiutil.WriteJSON(w, http.StatusOK, actionResponse{Status: result.Status})
	}
	return key, result
}

// combine folds a resolution note (such as "Added new sport") into the
// action's own status so the user sees a single message.
func combine(resolved, action manager.Result) manager.Result {
	if resolved.Status == "" {
		return action
	}
	return manager.Result{
		Status:  resolved.Status + " " + action.Status,
		Changed: resolved.Changed || action.Changed,
	}
}

func writeResult(w http.ResponseWriter, key string, result manager.Result) {
	apiutil.WriteJSON(w, http.StatusOK, actionResponse{
		Status:  result.Status,
		Changed: result.Changed,
		Key:     key,
	})
}
