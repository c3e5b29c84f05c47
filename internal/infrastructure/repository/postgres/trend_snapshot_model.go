package postgres

import (
	"database/sql"
	"strings"
	"time"

	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
)

const trendSnapshotTable = "trend_snapshots"

type trendSnapshotTableModel struct {
	RunID          string          `db:"run_id"`
	Season         int             `db:"season"`
	SeasonType     string          `db:"season_type"`
	Week           int             `db:"week"`
	GameID         int64           `db:"game_id"`
	GameDate       string          `db:"game_date"`
	StartDate      time.Time       `db:"start_date"`
	HomeTeam       string          `db:"home_team"`
	AwayTeam       string          `db:"away_team"`
	HomeConference string          `db:"home_conference"`
	AwayConference string          `db:"away_conference"`
	ConferenceGame bool            `db:"conference_game"`
	NeutralSite    bool            `db:"neutral_site"`
	Completed      bool            `db:"completed"`
	HomePoints     sql.NullInt64   `db:"home_points"`
	AwayPoints     sql.NullInt64   `db:"away_points"`
	Weather        string          `db:"weather"`
	Bookmaker      string          `db:"bookmaker"`
	HomeSpread     sql.NullFloat64 `db:"home_spread"`
	AwaySpread     sql.NullFloat64 `db:"away_spread"`
	Total          sql.NullFloat64 `db:"total"`
	HomeMoneyline  sql.NullInt64   `db:"home_moneyline"`
	AwayMoneyline  sql.NullInt64   `db:"away_moneyline"`
	HasOdds        bool            `db:"has_odds"`
	HomeRank       int             `db:"home_rank"`
	AwayRank       int             `db:"away_rank"`
	HomePower5     bool            `db:"home_power5"`
	AwayPower5     bool            `db:"away_power5"`
	Flags          string          `db:"flags"`
	HomeATS        string          `db:"home_ats"`
	RecordedAt     time.Time       `db:"recorded_at"`
}

type trendWeekTableModel struct {
	RunID      string    `db:"run_id"`
	Season     int       `db:"season"`
	SeasonType string    `db:"season_type"`
	Week       int       `db:"week"`
	RecordedAt time.Time `db:"recorded_at"`
	Rows       int       `db:"row_count"`
}

func newTrendSnapshotModel(snapshot trend.WeekSnapshot, row trend.Row) trendSnapshotTableModel {
	flags := make([]string, 0, len(row.Flags))
	for _, f := range row.Flags {
		flags = append(flags, string(f))
	}
	return trendSnapshotTableModel{
		RunID:          snapshot.RunID,
		Season:         snapshot.Season,
		SeasonType:     snapshot.SeasonType,
		Week:           snapshot.Week,
		GameID:         row.ID,
		GameDate:       row.Key().Date,
		StartDate:      row.StartDate.UTC(),
		HomeTeam:       row.HomeTeam,
		AwayTeam:       row.AwayTeam,
		HomeConference: row.HomeConference,
		AwayConference: row.AwayConference,
		ConferenceGame: row.ConferenceGame,
		NeutralSite:    row.NeutralSite,
		Completed:      row.Completed,
		HomePoints:     intPtrToNull(row.HomePoints),
		AwayPoints:     intPtrToNull(row.AwayPoints),
		Weather:        string(row.Weather),
		Bookmaker:      row.Bookmaker,
		HomeSpread:     floatPtrToNull(row.HomeSpread),
		AwaySpread:     floatPtrToNull(row.AwaySpread),
		Total:          floatPtrToNull(row.Total),
		HomeMoneyline:  intPtrToNull(row.HomeMoneyline),
		AwayMoneyline:  intPtrToNull(row.AwayMoneyline),
		HasOdds:        row.HasOdds,
		HomeRank:       row.HomeRank,
		AwayRank:       row.AwayRank,
		HomePower5:     row.HomePower5,
		AwayPower5:     row.AwayPower5,
		Flags:          strings.Join(flags, ","),
		HomeATS:        string(row.HomeATS),
		RecordedAt:     snapshot.RecordedAt.UTC(),
	}
}

func (m trendSnapshotTableModel) toDomain() trend.Row {
	flags := make([]trend.Heuristic, 0, 3)
	for _, raw := range strings.Split(m.Flags, ",") {
		if h, ok := trend.ParseHeuristic(strings.TrimSpace(raw)); ok {
			flags = append(flags, h)
		}
	}
	weather, ok := game.ParseWeather(m.Weather)
	if !ok {
		weather = game.WeatherUnknown
	}

	return trend.Row{
		Game: game.Game{
			ID:             m.GameID,
			Season:         m.Season,
			Week:           m.Week,
			SeasonType:     game.SeasonType(m.SeasonType),
			StartDate:      m.StartDate.UTC(),
			HomeTeam:       m.HomeTeam,
			AwayTeam:       m.AwayTeam,
			HomeConference: m.HomeConference,
			AwayConference: m.AwayConference,
			ConferenceGame: m.ConferenceGame,
			NeutralSite:    m.NeutralSite,
			Completed:      m.Completed,
			HomePoints:     nullToIntPtr(m.HomePoints),
			AwayPoints:     nullToIntPtr(m.AwayPoints),
			Weather:        weather,
		},
		Bookmaker:     m.Bookmaker,
		HomeSpread:    nullToFloatPtr(m.HomeSpread),
		AwaySpread:    nullToFloatPtr(m.AwaySpread),
		Total:         nullToFloatPtr(m.Total),
		HomeMoneyline: nullToIntPtr(m.HomeMoneyline),
		AwayMoneyline: nullToIntPtr(m.AwayMoneyline),
		HasOdds:       m.HasOdds,
		HomeRank:      m.HomeRank,
		AwayRank:      m.AwayRank,
		HomeRankTier:  ranking.TierFor(m.HomeRank),
		AwayRankTier:  ranking.TierFor(m.AwayRank),
		HomePower5:    m.HomePower5,
		AwayPower5:    m.AwayPower5,
		Flags:         flags,
		HomeATS:       trend.Result(m.HomeATS),
	}
}
