package game

import (
	"fmt"
	"strings"
	"time"
)

type SeasonType string

const (
	SeasonRegular    SeasonType = "regular"
	SeasonPostseason SeasonType = "postseason"
)

func ParseSeasonType(value string) (SeasonType, error) {
	switch SeasonType(strings.ToLower(strings.TrimSpace(value))) {
	case "", SeasonRegular:
		return SeasonRegular, nil
	case SeasonPostseason:
		return SeasonPostseason, nil
	default:
		return "", fmt.Errorf("unknown season type %q", value)
	}
}

// Weather is the coarse kickoff condition used by dashboard filters.
type Weather string

const (
	WeatherClear   Weather = "Clear"
	WeatherRain    Weather = "Rain"
	WeatherSnow    Weather = "Snow"
	WeatherWind    Weather = "Wind"
	WeatherUnknown Weather = "Unknown"
)

// WindThresholdMPH is the sustained wind speed that marks a game windy.
const WindThresholdMPH = 15.0

func AllWeather() []Weather {
	return []Weather{WeatherClear, WeatherRain, WeatherSnow, WeatherWind, WeatherUnknown}
}

func ParseWeather(value string) (Weather, bool) {
	for _, w := range AllWeather() {
		if strings.EqualFold(string(w), strings.TrimSpace(value)) {
			return w, true
		}
	}
	return "", false
}

// BucketWeather folds provider readings into one label. Snow wins over rain
// and rain wins over wind.
func BucketWeather(precipitation, snowfall, windSpeed *float64) Weather {
	if precipitation == nil && snowfall == nil && windSpeed == nil {
		return WeatherUnknown
	}
	switch {
	case snowfall != nil && *snowfall > 0:
		return WeatherSnow
	case precipitation != nil && *precipitation > 0:
		return WeatherRain
	case windSpeed != nil && *windSpeed >= WindThresholdMPH:
		return WeatherWind
	default:
		return WeatherClear
	}
}

// Game represents one scheduled or completed matchup.
type Game struct {
	ID             int64      `json:"id"`
	Season         int        `json:"season"`
	Week           int        `json:"week"`
	SeasonType     SeasonType `json:"seasonType"`
	StartDate      time.Time  `json:"startDate"`
	HomeTeam       string     `json:"homeTeam"`
	AwayTeam       string     `json:"awayTeam"`
	HomeConference string     `json:"homeConference,omitempty"`
	AwayConference string     `json:"awayConference,omitempty"`
	Venue          string     `json:"venue,omitempty"`
	ConferenceGame bool       `json:"conferenceGame"`
	NeutralSite    bool       `json:"neutralSite"`
	Completed      bool       `json:"completed"`
	HomePoints     *int       `json:"homePoints,omitempty"`
	AwayPoints     *int       `json:"awayPoints,omitempty"`
	Weather        Weather    `json:"weather"`
}

func (g Game) Key() MatchKey {
	return NewMatchKey(g.HomeTeam, g.AwayTeam, g.StartDate)
}

func (g Game) HasFinalScore() bool {
	return g.Completed && g.HomePoints != nil && g.AwayPoints != nil
}

// MatchKey joins a game to its odds: exact team names plus the UTC calendar day.
type MatchKey struct {
	Home string
	Away string
	Date string
}

func NewMatchKey(home, away string, at time.Time) MatchKey {
	return MatchKey{
		Home: strings.TrimSpace(home),
		Away: strings.TrimSpace(away),
		Date: at.UTC().Format(time.DateOnly),
	}
}

func (k MatchKey) String() string {
	return k.Away + "@" + k.Home + "/" + k.Date
}

// Query selects a slice of the schedule. Week 0 means the whole season.
type Query struct {
	Year       int
	Week       int
	SeasonType SeasonType
	Team       string
}

func (q Query) Validate() error {
	if q.Year < 1869 || q.Year > 2100 {
		return fmt.Errorf("year %d out of range", q.Year)
	}
	if q.Week < 0 || q.Week > 20 {
		return fmt.Errorf("week %d out of range", q.Week)
	}
	if _, err := ParseSeasonType(string(q.SeasonType)); err != nil {
		return err
	}
	return nil
}
