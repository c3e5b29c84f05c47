package oddsapi

type eventPayload struct {
	ID           string             `json:"id"`
	SportKey     string             `json:"sport_key"`
	CommenceTime string             `json:"commence_time"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	Bookmakers   []bookmakerPayload `json:"bookmakers"`
}

type bookmakerPayload struct {
	Key        string          `json:"key"`
	Title      string          `json:"title"`
	LastUpdate string          `json:"last_update"`
	Markets    []marketPayload `json:"markets"`
}

type marketPayload struct {
	Key      string           `json:"key"`
	Outcomes []outcomePayload `json:"outcomes"`
}

type outcomePayload struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point"`
}
