package cfbd

// Payloads accept both the current camelCase API and the legacy snake_case
// field names.

type gamePayload struct {
	ID                   int64  `json:"id"`
	Season               int    `json:"season"`
	Week                 int    `json:"week"`
	SeasonType           string `json:"seasonType"`
	SeasonTypeLegacy     string `json:"season_type"`
	StartDate            string `json:"startDate"`
	StartDateLegacy      string `json:"start_date"`
	Completed            bool   `json:"completed"`
	NeutralSite          *bool  `json:"neutralSite"`
	NeutralSiteLegacy    *bool  `json:"neutral_site"`
	ConferenceGame       *bool  `json:"conferenceGame"`
	ConferenceGameLegacy *bool  `json:"conference_game"`
	Venue                string `json:"venue"`
	HomeTeam             string `json:"homeTeam"`
	HomeTeamLegacy       string `json:"home_team"`
	HomeConference       string `json:"homeConference"`
	HomeConferenceLegacy string `json:"home_conference"`
	HomePoints           *int   `json:"homePoints"`
	HomePointsLegacy     *int   `json:"home_points"`
	AwayTeam             string `json:"awayTeam"`
	AwayTeamLegacy       string `json:"away_team"`
	AwayConference       string `json:"awayConference"`
	AwayConferenceLegacy string `json:"away_conference"`
	AwayPoints           *int   `json:"awayPoints"`
	AwayPointsLegacy     *int   `json:"away_points"`
}

type rankingWeekPayload struct {
	Season           int           `json:"season"`
	SeasonType       string        `json:"seasonType"`
	SeasonTypeLegacy string        `json:"season_type"`
	Week             int           `json:"week"`
	Polls            []pollPayload `json:"polls"`
}

type pollPayload struct {
	Poll  string        `json:"poll"`
	Ranks []rankPayload `json:"ranks"`
}

type rankPayload struct {
	Rank                  int    `json:"rank"`
	School                string `json:"school"`
	Conference            string `json:"conference"`
	FirstPlaceVotes       int    `json:"firstPlaceVotes"`
	FirstPlaceVotesLegacy int    `json:"first_place_votes"`
	Points                int    `json:"points"`
}

type teamPayload struct {
	ID             int64  `json:"id"`
	School         string `json:"school"`
	Mascot         string `json:"mascot"`
	Abbreviation   string `json:"abbreviation"`
	Conference     string `json:"conference"`
	Classification string `json:"classification"`
}

type weatherPayload struct {
	ID                  int64    `json:"id"`
	Precipitation       *float64 `json:"precipitation"`
	Snowfall            *float64 `json:"snowfall"`
	WindSpeed           *float64 `json:"windSpeed"`
	WindSpeedLegacy     *float64 `json:"wind_speed"`
	GameIndoors         bool     `json:"gameIndoors"`
	GameIndoorsLegacy   bool     `json:"game_indoors"`
	WeatherCondition    string   `json:"weatherCondition"`
	WeatherConditionOld string   `json:"weather_condition"`
}
