package schedule

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rajeev-sr/iPlanFarmHouse/entities"
)

// task types in match priority; titles like "Pest check after irrigation" are pest
var taskTypes = []string{"pest", "irrigation", "sowing", "fertilizer", "harvest", "transplant", "weeding"}

const DefaultType = "default"

var zoneRe = regexp.MustCompile(`(?i)zone\s*(\d)`)

// TaskType derives the category of a task from its free-text title.
func TaskType(title string) string {
	lower := strings.ToLower(title)
	for _, t := range taskTypes {
		if strings.Contains(lower, t) {
			return t
		}
	}
	return DefaultType
}

// ZoneCode returns "Z<n>" for the first "zone <n>" in title, or "Z?".
func ZoneCode(title string) string {
	if m := zoneRe.FindStringSubmatch(title); m != nil {
		return "Z" + m[1]
	}
	return "Z?"
}

type Label struct {
	Text string `json:"label"`
	Type string `json:"type"`
}

// Labels groups a day's tasks by zone and type, e.g. "Z1: Pest ×2".
// Groups keep the order in which they first appear.
func Labels(ts []entities.Task) []Label {
	type group struct {
		zone, typ string
		n         int
	}
	var order []string
	groups := map[string]*group{}
	for _, t := range ts {
		z, typ := ZoneCode(t.Title), TaskType(t.Title)
		key := z + ":" + typ
		g, ok := groups[key]
		if !ok {
			g = &group{zone: z, typ: typ}
			groups[key] = g
			order = append(order, key)
		}
		g.n++
	}

	out := make([]Label, 0, len(order))
	for _, k := range order {
		g := groups[k]
		out = append(out, Label{
			Text: fmt.Sprintf("%s: %s ×%d", g.zone, strings.ToUpper(g.typ[:1])+g.typ[1:], g.n),
			Type: g.typ,
		})
	}
	return out
}
