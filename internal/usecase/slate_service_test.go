package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/odds"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/teaminfo"
	gamemock "github.com/riskibarqy/cfb-edge/internal/mocks/domain/game"
	oddsmock "github.com/riskibarqy/cfb-edge/internal/mocks/domain/odds"
	rankingmock "github.com/riskibarqy/cfb-edge/internal/mocks/domain/ranking"
	teaminfomock "github.com/riskibarqy/cfb-edge/internal/mocks/domain/teaminfo"
	"github.com/stretchr/testify/mock"
)

type slateMocks struct {
	games    *gamemock.Repository
	rankings *rankingmock.Repository
	teams    *teaminfomock.Repository
	odds     *oddsmock.Repository
}

func newSlateMocks(t *testing.T) slateMocks {
	return slateMocks{
		games:    gamemock.NewRepository(t),
		rankings: rankingmock.NewRepository(t),
		teams:    teaminfomock.NewRepository(t),
		odds:     oddsmock.NewRepository(t),
	}
}

func TestSlateService_Load_MergesWeather(t *testing.T) {
	t.Parallel()

	m := newSlateMocks(t)
	query := SlateQuery{Year: 2025, Week: 6, SeasonType: game.SeasonRegular}
	gq := game.Query{Year: 2025, Week: 6, SeasonType: game.SeasonRegular}

	m.games.On("ListGames", mock.Anything, gq).
		Return([]game.Game{{ID: 1, HomeTeam: "Vanderbilt", AwayTeam: "Alabama"}, {ID: 2, HomeTeam: "Army", AwayTeam: "Tulane"}}, nil).
		Once()
	m.games.On("ListWeather", mock.Anything, gq).
		Return(map[int64]game.Weather{1: game.WeatherRain}, nil).
		Once()
	m.rankings.On("ListRankings", mock.Anything, gq).
		Return([]ranking.Entry{{Week: 6, Poll: ranking.DefaultPoll, Rank: 4, Team: "Alabama"}}, nil).
		Once()
	m.teams.On("ListTeams", mock.Anything, 2025).
		Return(nil, nil).
		Once()
	m.odds.On("ListOdds", mock.Anything, odds.Query{}).
		Return([]odds.Quote{{HomeTeam: "Vanderbilt Commodores"}}, nil).
		Once()

	service := NewSlateService(m.games, m.rankings, m.teams, m.odds, true, nil)
	slate, err := service.Load(context.Background(), query)
	if err != nil {
		t.Fatalf("load slate: %v", err)
	}
	if len(slate.Games) != 2 || slate.Games[0].Weather != game.WeatherRain {
		t.Fatalf("expected weather merged by game id, got %+v", slate.Games)
	}
	if slate.Games[1].Weather != "" {
		t.Fatalf("game without weather report should stay untouched, got %q", slate.Games[1].Weather)
	}
	if slate.Teams == nil || len(slate.Teams) != 0 {
		t.Fatalf("empty source should become an empty table, got %#v", slate.Teams)
	}
	if slate.Query != query || slate.FetchedAt.IsZero() {
		t.Fatalf("unexpected slate metadata: %+v", slate)
	}
}

func TestSlateService_Load_WeatherFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	m := newSlateMocks(t)
	m.games.On("ListGames", mock.Anything, mock.Anything).Return([]game.Game{{ID: 1}}, nil).Once()
	m.games.On("ListWeather", mock.Anything, mock.Anything).Return(nil, errors.New("weather tier required")).Once()
	m.rankings.On("ListRankings", mock.Anything, mock.Anything).Return([]ranking.Entry{}, nil).Once()
	m.teams.On("ListTeams", mock.Anything, 2025).Return([]teaminfo.Team{}, nil).Once()
	m.odds.On("ListOdds", mock.Anything, mock.Anything).Return([]odds.Quote{}, nil).Once()

	service := NewSlateService(m.games, m.rankings, m.teams, m.odds, true, nil)
	slate, err := service.Load(context.Background(), SlateQuery{Year: 2025, Week: 1, SeasonType: game.SeasonRegular})
	if err != nil {
		t.Fatalf("weather failure should not fail the slate: %v", err)
	}
	if len(slate.Games) != 1 {
		t.Fatalf("unexpected games: %+v", slate.Games)
	}
}

func TestSlateService_Load_NamesFailingSource(t *testing.T) {
	t.Parallel()

	m := newSlateMocks(t)
	m.games.On("ListGames", mock.Anything, mock.Anything).Return([]game.Game{}, nil).Maybe()
	m.rankings.On("ListRankings", mock.Anything, mock.Anything).Return([]ranking.Entry{}, nil).Maybe()
	m.teams.On("ListTeams", mock.Anything, mock.Anything).Return([]teaminfo.Team{}, nil).Maybe()
	m.odds.On("ListOdds", mock.Anything, mock.Anything).Return(nil, ErrDependencyUnavailable).Once()

	service := NewSlateService(m.games, m.rankings, m.teams, m.odds, false, nil)
	_, err := service.Load(context.Background(), SlateQuery{Year: 2025, Week: 6, SeasonType: game.SeasonRegular})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !strings.Contains(err.Error(), "fetch odds") {
		t.Fatalf("error should name the odds source, got %v", err)
	}
}

func TestSlateService_Load_InvalidQuery(t *testing.T) {
	t.Parallel()

	m := newSlateMocks(t)
	service := NewSlateService(m.games, m.rankings, m.teams, m.odds, false, nil)

	cases := []SlateQuery{
		{Year: 1800, Week: 1, SeasonType: game.SeasonRegular},
		{Year: 2025, Week: 21, SeasonType: game.SeasonRegular},
		{Year: 2025, Week: 1, SeasonType: "spring"},
	}
	for _, query := range cases {
		if _, err := service.Load(context.Background(), query); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", query, err)
		}
	}
}

func TestSlateService_ListRankings_SelectsPoll(t *testing.T) {
	t.Parallel()

	m := newSlateMocks(t)
	query := game.Query{Year: 2025, Week: 6, SeasonType: game.SeasonRegular}
	m.rankings.On("ListRankings", mock.Anything, query).Return([]ranking.Entry{
		{Week: 6, Poll: "Coaches Poll", Rank: 1, Team: "Ohio State"},
		{Week: 6, Poll: ranking.DefaultPoll, Rank: 2, Team: "Miami"},
		{Week: 6, Poll: ranking.DefaultPoll, Rank: 1, Team: "Ohio State"},
	}, nil).Once()

	service := NewSlateService(m.games, m.rankings, m.teams, m.odds, false, nil)
	got, err := service.ListRankings(context.Background(), query, "")
	if err != nil {
		t.Fatalf("list rankings: %v", err)
	}
	if len(got) != 2 || got[0].Team != "Ohio State" || got[1].Team != "Miami" {
		t.Fatalf("unexpected AP selection: %+v", got)
	}
}

func TestSlateService_ListOdds_RejectsInvertedWindow(t *testing.T) {
	t.Parallel()

	m := newSlateMocks(t)
	service := NewSlateService(m.games, m.rankings, m.teams, m.odds, false, nil)
	_, err := service.ListOdds(context.Background(), odds.Query{
		CommenceFrom: kickoff,
		CommenceTo:   kickoff.Add(-1),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
