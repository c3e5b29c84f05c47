package teaminfo

import "strings"

// Team is FBS team metadata as published by the schedule provider.
type Team struct {
	School         string `json:"school"`
	Mascot         string `json:"mascot,omitempty"`
	Abbreviation   string `json:"abbreviation,omitempty"`
	Conference     string `json:"conference,omitempty"`
	Classification string `json:"classification,omitempty"`
}

// DisplayName is how the odds provider names the team, e.g. "Texas Longhorns".
func (t Team) DisplayName() string {
	school := strings.TrimSpace(t.School)
	mascot := strings.TrimSpace(t.Mascot)
	if mascot == "" {
		return school
	}
	return school + " " + mascot
}

var power5 = map[string]struct{}{
	"sec":     {},
	"big ten": {},
	"big 12":  {},
	"acc":     {},
	"pac-12":  {},
}

func Power5Conferences() []string {
	return []string{"SEC", "Big Ten", "Big 12", "ACC", "Pac-12"}
}

func IsPower5(conference string) bool {
	_, ok := power5[strings.ToLower(strings.TrimSpace(conference))]
	return ok
}

// Directory resolves conference membership and provider name variants.
type Directory struct {
	conferenceBySchool map[string]string
	schoolByName       map[string]string
}

// NewDirectory indexes teams. Aliases map provider names to schools and take
// precedence over the derived "School Mascot" names.
func NewDirectory(teams []Team, aliases map[string]string) *Directory {
	d := &Directory{
		conferenceBySchool: make(map[string]string, len(teams)),
		schoolByName:       make(map[string]string, len(teams)+len(aliases)),
	}
	for _, t := range teams {
		school := strings.TrimSpace(t.School)
		if school == "" {
			continue
		}
		if conf := strings.TrimSpace(t.Conference); conf != "" {
			d.conferenceBySchool[school] = conf
		}
		if display := t.DisplayName(); display != school {
			d.schoolByName[display] = school
		}
	}
	for from, to := range aliases {
		d.schoolByName[strings.TrimSpace(from)] = strings.TrimSpace(to)
	}
	return d
}

func (d *Directory) Conference(school string) (string, bool) {
	if d == nil {
		return "", false
	}
	conf, ok := d.conferenceBySchool[strings.TrimSpace(school)]
	return conf, ok
}

// Canonical returns the schedule-provider school for a provider team name.
// Unknown names are returned trimmed and otherwise unchanged.
func (d *Directory) Canonical(name string) string {
	name = strings.TrimSpace(name)
	if d == nil {
		return name
	}
	if school, ok := d.schoolByName[name]; ok {
		return school
	}
	return name
}

func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.conferenceBySchool)
}
