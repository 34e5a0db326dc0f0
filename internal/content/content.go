// internal/content/content.go
package content

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/ruafit/ruafit/internal/sports"
)

// Event is the top-level event record shown in the shell, home, venue
// and contact pages.
type Event struct {
	Name     string  `json:"name"`
	Dates    string  `json:"dates"`
	Location string  `json:"location"`
	Contact  Contact `json:"contact"`
}

type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ProgrammeDay is one day of the event programme.
type ProgrammeDay struct {
	Day   string          `json:"day"`
	Date  string          `json:"date"`
	Items []ProgrammeItem `json:"items"`
}

type ProgrammeItem struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

// Photo is one gallery entry.
type Photo struct {
	Image   string `json:"image"`
	Caption string `json:"caption"`
}

// Announcement is one message in the announcements feed.
type Announcement struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Library loads the content JSON documents from a filesystem, typically
// the data directory (or its embedded seed copy). Parsing is tolerant:
// absent optional fields default to empty strings.
type Library struct {
	fsys fs.FS
}

func NewLibrary(fsys fs.FS) *Library {
	return &Library{fsys: fsys}
}

func (l *Library) load(name string, dst any) error {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// Raw returns the bytes of one content document, for serving under
// /data/ without a decode and re-encode round trip.
func (l *Library) Raw(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}
	return data, nil
}

func (l *Library) Event() (Event, error) {
	var event Event
	err := l.load("event.json", &event)
	return event, err
}

func (l *Library) Programme() ([]ProgrammeDay, error) {
	var days []ProgrammeDay
	if err := l.load("programme.json", &days); err != nil {
		return nil, err
	}
	return days, nil
}

// Sports returns the built-in sport definitions, sanitized: entries
// without a non-empty code are dropped.
func (l *Library) Sports() ([]sports.Sport, error) {
	var list []sports.Sport
	if err := l.load("sports.json", &list); err != nil {
		return nil, err
	}
	kept := list[:0]
	for _, sport := range list {
		if strings.TrimSpace(sport.Code) == "" {
			continue
		}
		kept = append(kept, sport)
	}
	return kept, nil
}

func (l *Library) Gallery() ([]Photo, error) {
	var photos []Photo
	if err := l.load("gallery.json", &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// Announcements returns the feed sorted newest first. Entries whose
// timestamps do not parse sort last, in source order.
func (l *Library) Announcements() ([]Announcement, error) {
	var items []Announcement
	if err := l.load("announcements.json", &items); err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		ti, iOK := parseTimestamp(items[i].Timestamp)
		tj, jOK := parseTimestamp(items[j].Timestamp)
		if iOK != jOK {
			return iOK
		}
		return ti.After(tj)
	})
	return items, nil
}

func parseTimestamp(raw string) (time.Time, bool) {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
