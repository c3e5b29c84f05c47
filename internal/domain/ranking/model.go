package ranking

import (
	"sort"
	"strings"
)

const DefaultPoll = "AP Top 25"

// Entry is one team's position in one poll for one week.
type Entry struct {
	Season          int    `json:"season"`
	SeasonType      string `json:"seasonType"`
	Week            int    `json:"week"`
	Poll            string `json:"poll"`
	Rank            int    `json:"rank"`
	Team            string `json:"team"`
	Conference      string `json:"conference,omitempty"`
	FirstPlaceVotes int    `json:"firstPlaceVotes,omitempty"`
	Points          int    `json:"points,omitempty"`
}

// Tier buckets a 1..25 rank into one of five right-closed bins.
type Tier string

const (
	TierNone  Tier = ""
	TierTop5  Tier = "Top 5"
	TierTop10 Tier = "Top 10"
	TierTop15 Tier = "Top 15"
	TierTop20 Tier = "Top 20"
	TierTop25 Tier = "Top 25"
)

func AllTiers() []Tier {
	return []Tier{TierTop5, TierTop10, TierTop15, TierTop20, TierTop25}
}

// TierFor maps (0,5] to Top 5 through (20,25] to Top 25. Anything else has no tier.
func TierFor(rank int) Tier {
	switch {
	case rank < 1 || rank > 25:
		return TierNone
	case rank <= 5:
		return TierTop5
	case rank <= 10:
		return TierTop10
	case rank <= 15:
		return TierTop15
	case rank <= 20:
		return TierTop20
	default:
		return TierTop25
	}
}

func ParseTier(value string) (Tier, bool) {
	for _, t := range AllTiers() {
		if strings.EqualFold(string(t), strings.TrimSpace(value)) {
			return t, true
		}
	}
	return TierNone, false
}

// Select picks the entries of one poll for one week. Week 0 means the latest
// week present; a week with no poll falls back to the latest earlier one.
// When the preferred poll has no entries that week, the first poll with
// entries (in provider order) is used instead.
func Select(entries []Entry, poll string, week int) []Entry {
	if len(entries) == 0 {
		return nil
	}
	week = pollWeek(entries, week)

	byPoll := make(map[string][]Entry)
	order := make([]string, 0, 4)
	for _, e := range entries {
		if e.Week != week {
			continue
		}
		if _, seen := byPoll[e.Poll]; !seen {
			order = append(order, e.Poll)
		}
		byPoll[e.Poll] = append(byPoll[e.Poll], e)
	}

	selected := byPoll[strings.TrimSpace(poll)]
	if len(selected) == 0 && len(order) > 0 {
		selected = byPoll[order[0]]
	}

	out := append([]Entry(nil), selected...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

func pollWeek(entries []Entry, week int) int {
	best := 0
	for _, e := range entries {
		if e.Week == week && week > 0 {
			return week
		}
		if (week <= 0 || e.Week < week) && e.Week > best {
			best = e.Week
		}
	}
	return best
}

// RankByTeam indexes a single poll's entries. The best rank wins on duplicates.
func RankByTeam(entries []Entry) map[string]int {
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		team := strings.TrimSpace(e.Team)
		if team == "" || e.Rank <= 0 {
			continue
		}
		if current, ok := out[team]; !ok || e.Rank < current {
			out[team] = e.Rank
		}
	}
	return out
}
