package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/odds"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/teaminfo"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
)

// TrendOptions tunes how a slate becomes a trends table.
type TrendOptions struct {
	// Poll is the preferred poll. Empty means the AP poll.
	Poll string
	// Aliases map odds-provider team names to schedule schools.
	Aliases map[string]string
}

// TrendReport is a processed slate ready for display.
type TrendReport struct {
	Query       SlateQuery    `json:"-"`
	Poll        string        `json:"poll"`
	RankingWeek int           `json:"rankingWeek"`
	Rows        []trend.Row   `json:"rows"`
	Summary     trend.Summary `json:"summary"`
	FetchedAt   time.Time     `json:"fetchedAt"`
}

type slateLoader interface {
	Load(ctx context.Context, query SlateQuery) (Slate, error)
}

type TrendService struct {
	slates  slateLoader
	options TrendOptions
}

func NewTrendService(slates slateLoader, options TrendOptions) *TrendService {
	return &TrendService{slates: slates, options: options}
}

// Build loads a slate and processes it.
func (s *TrendService) Build(ctx context.Context, query SlateQuery) (TrendReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrendService.Build", query.spanAttrs()...)
	defer span.End()

	slate, err := s.slates.Load(ctx, query)
	if err != nil {
		return TrendReport{}, err
	}
	return s.Process(slate), nil
}

func (s *TrendService) Process(slate Slate) TrendReport {
	polls := ranking.Select(slate.Rankings, pollOrDefault(s.options.Poll), slate.Query.Week)
	report := TrendReport{
		Query:     slate.Query,
		Rows:      ProcessTrends(slate, s.options),
		FetchedAt: slate.FetchedAt,
	}
	if len(polls) > 0 {
		report.Poll = polls[0].Poll
		report.RankingWeek = polls[0].Week
	}
	report.Summary = trend.Summarize(report.Rows)
	return report
}

// ProcessTrends left-joins games with their odds, attaches poll ranks and
// conference context, flags the betting angles, and grades finished games.
// It returns exactly one row per game, ordered by kickoff then home team.
func ProcessTrends(slate Slate, options TrendOptions) []trend.Row {
	directory := teaminfo.NewDirectory(slate.Teams, options.Aliases)
	ranks := ranking.RankByTeam(ranking.Select(slate.Rankings, pollOrDefault(options.Poll), slate.Query.Week))
	quotes := indexQuotes(slate.Odds, directory)

	rows := make([]trend.Row, 0, len(slate.Games))
	for _, g := range slate.Games {
		row := trend.Row{Game: g}
		if row.Weather == "" {
			row.Weather = game.WeatherUnknown
		}

		if q, ok := quotes[g.Key()]; ok {
			row.HasOdds = true
			row.Bookmaker = q.Bookmaker
			row.HomeSpread = q.HomeSpread
			row.AwaySpread = q.AwaySpread
			row.Total = q.Total
			row.HomeMoneyline = q.HomeMoneyline
			row.AwayMoneyline = q.AwayMoneyline
		}

		row.HomeRank = ranks[strings.TrimSpace(g.HomeTeam)]
		row.AwayRank = ranks[strings.TrimSpace(g.AwayTeam)]
		row.HomeRankTier = ranking.TierFor(row.HomeRank)
		row.AwayRankTier = ranking.TierFor(row.AwayRank)

		row.HomeConference = resolveConference(directory, g.HomeTeam, g.HomeConference)
		row.AwayConference = resolveConference(directory, g.AwayTeam, g.AwayConference)
		row.HomePower5 = teaminfo.IsPower5(row.HomeConference)
		row.AwayPower5 = teaminfo.IsPower5(row.AwayConference)

		row.Flags = trend.Evaluate(row)
		if row.Flags == nil {
			row.Flags = []trend.Heuristic{}
		}
		row.HomeATS = trend.GradeRow(row)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].StartDate.Equal(rows[j].StartDate) {
			return rows[i].StartDate.Before(rows[j].StartDate)
		}
		return rows[i].HomeTeam < rows[j].HomeTeam
	})
	return rows
}

// indexQuotes rewrites odds team names to schedule schools, then keeps the
// first quote per match key.
func indexQuotes(quotes []odds.Quote, directory *teaminfo.Directory) map[game.MatchKey]odds.Quote {
	canonical := make([]odds.Quote, 0, len(quotes))
	for _, q := range quotes {
		q.HomeTeam = directory.Canonical(q.HomeTeam)
		q.AwayTeam = directory.Canonical(q.AwayTeam)
		canonical = append(canonical, q)
	}

	deduped := odds.Dedupe(canonical)
	out := make(map[game.MatchKey]odds.Quote, len(deduped))
	for _, q := range deduped {
		out[q.Key()] = q
	}
	return out
}

func resolveConference(directory *teaminfo.Directory, school, fallback string) string {
	if conf, ok := directory.Conference(school); ok {
		return conf
	}
	return strings.TrimSpace(fallback)
}

func pollOrDefault(poll string) string {
	if strings.TrimSpace(poll) == "" {
		return ranking.DefaultPoll
	}
	return poll
}
