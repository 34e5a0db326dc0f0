// internal/api/pages/draws.go
package pages

import (
	"fmt"
	"html"
	"strings"

	"github.com/ruafit/ruafit/internal/sports"
)

// buildDrawHTML renders a sport's generated schedule: the pool-play
// fixture list grouped by round, followed by the saved elimination
// bracket when one exists.
func buildDrawHTML(draw sports.Draw) string {
	if draw.IsEmpty() {
		return ""
	}

	var b strings.Builder
	if len(draw.PoolMatches) > 0 {
		b.WriteString(`<div class="draw"><h3>Pool Play</h3>`)
		current := 0
		for _, match := range draw.PoolMatches {
			if match.Round != current {
				if current != 0 {
					b.WriteString(`</ul>`)
				}
				current = match.Round
				b.WriteString(fmt.Sprintf(`<h4>Round %d</h4><ul>`, current))
			}
			b.WriteString(fmt.Sprintf(`<li>%s vs %s</li>`,
				html.EscapeString(match.Home), html.EscapeString(match.Away)))
		}
		if current != 0 {
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</div>`)
	}

	if cr := draw.CustomRounds; cr != nil {
		b.WriteString(`<div class="draw"><h3>Finals</h3>`)
		for _, round := range cr.Rounds {
			b.WriteString(fmt.Sprintf(`<h4>%s</h4><ul>`, html.EscapeString(round.Name)))
			for _, pairing := range round.Matches {
				b.WriteString(fmt.Sprintf(`<li>%s vs %s</li>`,
					html.EscapeString(pairing.Home), html.EscapeString(pairing.Away)))
			}
			b.WriteString(`</ul>`)
		}
		b.WriteString(`</div>`)
	}
	return b.String()
}
