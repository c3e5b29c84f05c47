package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/odds"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/teaminfo"
	"github.com/riskibarqy/cfb-edge/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

// SlateQuery selects one slate. Week 0 loads the whole season.
type SlateQuery struct {
	Year       int
	Week       int
	SeasonType game.SeasonType
}

func (q SlateQuery) gameQuery() game.Query {
	return game.Query{Year: q.Year, Week: q.Week, SeasonType: q.SeasonType}
}

func (q SlateQuery) validate() error {
	if err := q.gameQuery().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// Slate is the raw provider data behind one trends table.
type Slate struct {
	Query     SlateQuery
	Games     []game.Game
	Rankings  []ranking.Entry
	Teams     []teaminfo.Team
	Odds      []odds.Quote
	FetchedAt time.Time
}

type SlateService struct {
	gameRepo       game.Repository
	rankingRepo    ranking.Repository
	teamRepo       teaminfo.Repository
	oddsRepo       odds.Repository
	weatherEnabled bool
	logger         *logging.Logger
	now            func() time.Time
}

func NewSlateService(
	gameRepo game.Repository,
	rankingRepo ranking.Repository,
	teamRepo teaminfo.Repository,
	oddsRepo odds.Repository,
	weatherEnabled bool,
	logger *logging.Logger,
) *SlateService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SlateService{
		gameRepo:       gameRepo,
		rankingRepo:    rankingRepo,
		teamRepo:       teamRepo,
		oddsRepo:       oddsRepo,
		weatherEnabled: weatherEnabled,
		logger:         logger,
		now:            time.Now,
	}
}

// Load fetches every source of a slate concurrently. The first failing source
// cancels the rest and fails the load.
func (s *SlateService) Load(ctx context.Context, query SlateQuery) (Slate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.Load", query.spanAttrs()...)
	defer span.End()

	if err := query.validate(); err != nil {
		return Slate{}, err
	}

	var (
		slate   = Slate{Query: query}
		weather map[int64]game.Weather
	)

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		games, err := s.gameRepo.ListGames(ctx, query.gameQuery())
		if err != nil {
			return fmt.Errorf("fetch games: %w", err)
		}
		slate.Games = games
		return nil
	})
	p.Go(func(ctx context.Context) error {
		entries, err := s.rankingRepo.ListRankings(ctx, query.gameQuery())
		if err != nil {
			return fmt.Errorf("fetch rankings: %w", err)
		}
		slate.Rankings = entries
		return nil
	})
	p.Go(func(ctx context.Context) error {
		teams, err := s.teamRepo.ListTeams(ctx, query.Year)
		if err != nil {
			return fmt.Errorf("fetch teams: %w", err)
		}
		slate.Teams = teams
		return nil
	})
	p.Go(func(ctx context.Context) error {
		quotes, err := s.oddsRepo.ListOdds(ctx, odds.Query{})
		if err != nil {
			return fmt.Errorf("fetch odds: %w", err)
		}
		slate.Odds = quotes
		return nil
	})
	if s.weatherEnabled {
		p.Go(func(ctx context.Context) error {
			byGame, err := s.gameRepo.ListWeather(ctx, query.gameQuery())
			if err != nil {
				// Weather only enriches the table.
				s.logger.WarnContext(ctx, "weather unavailable, continuing without it", "year", query.Year, "week", query.Week, "error", err)
				return nil
			}
			weather = byGame
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return Slate{}, err
	}

	if len(weather) > 0 {
		for i := range slate.Games {
			if w, ok := weather[slate.Games[i].ID]; ok {
				slate.Games[i].Weather = w
			}
		}
	}
	slate.Games = orEmpty(slate.Games)
	slate.Rankings = orEmpty(slate.Rankings)
	slate.Teams = orEmpty(slate.Teams)
	slate.Odds = orEmpty(slate.Odds)
	slate.FetchedAt = s.now().UTC()

	s.logger.DebugContext(ctx, "slate loaded",
		"year", query.Year,
		"week", query.Week,
		"games", len(slate.Games),
		"rankings", len(slate.Rankings),
		"teams", len(slate.Teams),
		"odds", len(slate.Odds),
	)
	return slate, nil
}

func (s *SlateService) ListGames(ctx context.Context, query game.Query) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.ListGames")
	defer span.End()

	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	games, err := s.gameRepo.ListGames(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch games: %w", err)
	}
	return orEmpty(games), nil
}

// ListRankings returns one poll for one week. An empty poll name selects the
// default poll.
func (s *SlateService) ListRankings(ctx context.Context, query game.Query, poll string) ([]ranking.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.ListRankings")
	defer span.End()

	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(poll) == "" {
		poll = ranking.DefaultPoll
	}
	entries, err := s.rankingRepo.ListRankings(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch rankings: %w", err)
	}
	return orEmpty(ranking.Select(entries, poll, query.Week)), nil
}

func (s *SlateService) ListTeams(ctx context.Context, year int) ([]teaminfo.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.ListTeams")
	defer span.End()

	if year < 1869 || year > 2100 {
		return nil, fmt.Errorf("%w: year %d out of range", ErrInvalidInput, year)
	}
	teams, err := s.teamRepo.ListTeams(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}
	return orEmpty(teams), nil
}

func (s *SlateService) ListOdds(ctx context.Context, query odds.Query) ([]odds.Quote, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SlateService.ListOdds")
	defer span.End()

	if !query.CommenceFrom.IsZero() && !query.CommenceTo.IsZero() && query.CommenceTo.Before(query.CommenceFrom) {
		return nil, fmt.Errorf("%w: commence window ends before it starts", ErrInvalidInput)
	}
	quotes, err := s.oddsRepo.ListOdds(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch odds: %w", err)
	}
	return orEmpty(quotes), nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
