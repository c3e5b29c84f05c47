package cache

import (
	"context"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/odds"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/teaminfo"
	basecache "github.com/riskibarqy/cfb-edge/internal/platform/cache"
)

const (
	prefixGames    = "cfbd:games:"
	prefixWeather  = "cfbd:weather:"
	prefixRankings = "cfbd:rankings:"
	prefixTeams    = "cfbd:teams:"
	prefixOdds     = "odds:"
)

// purgeScopes maps a purge scope to the key prefixes it drops.
var purgeScopes = map[string][]string{
	"games":    {prefixGames},
	"weather":  {prefixWeather},
	"rankings": {prefixRankings},
	"teams":    {prefixTeams},
	"odds":     {prefixOdds},
	"cfbd":     {prefixGames, prefixWeather, prefixRankings, prefixTeams},
	"all":      {prefixGames, prefixWeather, prefixRankings, prefixTeams, prefixOdds},
}

// Purge drops the cached provider responses of one scope and reports how many
// entries went. An unknown scope removes nothing.
func Purge(ctx context.Context, store *basecache.Store, scope string) int {
	removed := 0
	for _, prefix := range purgeScopes[strings.ToLower(strings.TrimSpace(scope))] {
		removed += store.DeletePrefix(ctx, prefix)
	}
	return removed
}

type GameRepository struct {
	next  game.Repository
	cache *basecache.Store
}

func NewGameRepository(next game.Repository, cache *basecache.Store) *GameRepository {
	return &GameRepository{next: next, cache: cache}
}

func (r *GameRepository) ListGames(ctx context.Context, query game.Query) ([]game.Game, error) {
	items, err := basecache.Load(ctx, r.cache, prefixGames+gameQueryKey(query), func(ctx context.Context) ([]game.Game, error) {
		items, err := r.next.ListGames(ctx, query)
		if err != nil {
			return nil, err
		}
		return append([]game.Game(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]game.Game(nil), items...), nil
}

func (r *GameRepository) ListWeather(ctx context.Context, query game.Query) (map[int64]game.Weather, error) {
	items, err := basecache.Load(ctx, r.cache, prefixWeather+gameQueryKey(query), func(ctx context.Context) (map[int64]game.Weather, error) {
		items, err := r.next.ListWeather(ctx, query)
		if err != nil {
			return nil, err
		}
		return maps.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}
	return maps.Clone(items), nil
}

type RankingRepository struct {
	next  ranking.Repository
	cache *basecache.Store
}

func NewRankingRepository(next ranking.Repository, cache *basecache.Store) *RankingRepository {
	return &RankingRepository{next: next, cache: cache}
}

func (r *RankingRepository) ListRankings(ctx context.Context, query game.Query) ([]ranking.Entry, error) {
	items, err := basecache.Load(ctx, r.cache, prefixRankings+gameQueryKey(query), func(ctx context.Context) ([]ranking.Entry, error) {
		items, err := r.next.ListRankings(ctx, query)
		if err != nil {
			return nil, err
		}
		return append([]ranking.Entry(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]ranking.Entry(nil), items...), nil
}

type TeamRepository struct {
	next  teaminfo.Repository
	cache *basecache.Store
}

func NewTeamRepository(next teaminfo.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListTeams(ctx context.Context, year int) ([]teaminfo.Team, error) {
	items, err := basecache.Load(ctx, r.cache, prefixTeams+strconv.Itoa(year), func(ctx context.Context) ([]teaminfo.Team, error) {
		items, err := r.next.ListTeams(ctx, year)
		if err != nil {
			return nil, err
		}
		return append([]teaminfo.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]teaminfo.Team(nil), items...), nil
}

type OddsRepository struct {
	next  odds.Repository
	cache *basecache.Store
}

func NewOddsRepository(next odds.Repository, cache *basecache.Store) *OddsRepository {
	return &OddsRepository{next: next, cache: cache}
}

func (r *OddsRepository) ListOdds(ctx context.Context, query odds.Query) ([]odds.Quote, error) {
	key := prefixOdds + timeKey(query.CommenceFrom) + ":" + timeKey(query.CommenceTo)
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]odds.Quote, error) {
		items, err := r.next.ListOdds(ctx, query)
		if err != nil {
			return nil, err
		}
		return append([]odds.Quote(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]odds.Quote(nil), items...), nil
}

func gameQueryKey(query game.Query) string {
	return strings.Join([]string{
		strconv.Itoa(query.Year),
		strconv.Itoa(query.Week),
		string(query.SeasonType),
		strings.ToLower(strings.TrimSpace(query.Team)),
	}, ":")
}

func timeKey(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return strconv.FormatInt(t.UTC().Unix(), 10)
}
