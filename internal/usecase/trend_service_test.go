package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/odds"
	"github.com/riskibarqy/cfb-edge/internal/domain/ranking"
	"github.com/riskibarqy/cfb-edge/internal/domain/teaminfo"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
)

func ptrInt(v int) *int           { return &v }
func ptrFloat(v float64) *float64 { return &v }

var kickoff = time.Date(2025, 10, 4, 19, 30, 0, 0, time.UTC)

func sampleSlate() Slate {
	return Slate{
		Query: SlateQuery{Year: 2025, Week: 6, SeasonType: game.SeasonRegular},
		Games: []game.Game{
			{
				ID: 3, Season: 2025, Week: 6, StartDate: kickoff.Add(4 * time.Hour),
				HomeTeam: "Army", AwayTeam: "Tulane", AwayConference: "American Athletic",
			},
			{
				ID: 1, Season: 2025, Week: 6, StartDate: kickoff, Completed: true, ConferenceGame: true,
				HomeTeam: "Vanderbilt", AwayTeam: "Alabama",
				HomePoints: ptrInt(30), AwayPoints: ptrInt(14),
			},
			{
				ID: 2, Season: 2025, Week: 6, StartDate: kickoff, ConferenceGame: true,
				HomeTeam: "Arizona", AwayTeam: "Utah", HomeConference: "Big 12",
			},
			{
				ID: 4, Season: 2025, Week: 6, StartDate: kickoff.Add(-time.Hour), Completed: true,
				HomeTeam: "Ole Miss", AwayTeam: "Washington State",
				HomePoints: ptrInt(24), AwayPoints: ptrInt(10),
			},
		},
		Rankings: []ranking.Entry{
			{Week: 6, Poll: "Coaches Poll", Rank: 3, Team: "Tulane"},
			{Week: 6, Poll: "AP Top 25", Rank: 4, Team: "Alabama"},
			{Week: 6, Poll: "AP Top 25", Rank: 12, Team: "Ole Miss"},
			{Week: 5, Poll: "AP Top 25", Rank: 1, Team: "Army"},
		},
		Teams: []teaminfo.Team{
			{School: "Vanderbilt", Mascot: "Commodores", Conference: "SEC"},
			{School: "Alabama", Mascot: "Crimson Tide", Conference: "SEC"},
			{School: "Utah", Mascot: "Utes", Conference: "Big 12"},
			{School: "Ole Miss", Mascot: "Rebels", Conference: "SEC"},
		},
		Odds: []odds.Quote{
			{
				HomeTeam: "Vanderbilt Commodores", AwayTeam: "Alabama Crimson Tide", CommenceTime: kickoff,
				Bookmaker: "draftkings", HomeSpread: ptrFloat(12.5), AwaySpread: ptrFloat(-12.5),
				HomeMoneyline: ptrInt(380), AwayMoneyline: ptrInt(-500), Total: ptrFloat(54.5),
			},
			{
				HomeTeam: "Vanderbilt Commodores", AwayTeam: "Alabama Crimson Tide", CommenceTime: kickoff,
				Bookmaker: "late-duplicate", HomeSpread: ptrFloat(1),
			},
			{
				HomeTeam: "Arizona Wildcats", AwayTeam: "Utah Utes", CommenceTime: kickoff,
				HomeSpread: ptrFloat(3),
			},
			{
				HomeTeam: "Mississippi Rebels", AwayTeam: "Washington State Cougars", CommenceTime: kickoff.Add(-time.Hour),
				HomeSpread: ptrFloat(-14),
			},
		},
		FetchedAt: kickoff,
	}
}

func TestProcessTrends_JoinsRanksAndFlags(t *testing.T) {
	t.Parallel()

	aliases := map[string]string{
		"Arizona Wildcats":         "Arizona",
		"Mississippi Rebels":       "Ole Miss",
		"Washington State Cougars": "Washington State",
	}
	rows := ProcessTrends(sampleSlate(), TrendOptions{Poll: "AP Top 25", Aliases: aliases})

	if len(rows) != 4 {
		t.Fatalf("expected one row per game, got %d", len(rows))
	}

	wantOrder := []string{"Ole Miss", "Arizona", "Vanderbilt", "Army"}
	for i, home := range wantOrder {
		if rows[i].HomeTeam != home {
			t.Fatalf("row %d home=%s, want %s", i, rows[i].HomeTeam, home)
		}
	}

	vandy := rows[2]
	if !vandy.HasOdds || vandy.Bookmaker != "draftkings" || *vandy.HomeSpread != 12.5 {
		t.Fatalf("expected first quote joined to Vanderbilt, got %+v", vandy)
	}
	if vandy.HomeRank != 0 || vandy.AwayRank != 4 || vandy.AwayRankTier != ranking.TierTop5 {
		t.Fatalf("unexpected ranks: home=%d away=%d tier=%s", vandy.HomeRank, vandy.AwayRank, vandy.AwayRankTier)
	}
	if vandy.HomeConference != "SEC" || !vandy.HomePower5 {
		t.Fatalf("expected SEC home team, got %q power5=%t", vandy.HomeConference, vandy.HomePower5)
	}
	for _, h := range trend.AllHeuristics() {
		if !vandy.HasFlag(h) {
			t.Fatalf("expected %s flagged on Vanderbilt", h)
		}
	}
	if vandy.HomeATS != trend.ResultWin {
		t.Fatalf("expected home cover, got %q", vandy.HomeATS)
	}

	arizona := rows[1]
	if !arizona.HasOdds || !arizona.HasFlag(trend.ConferenceHomeDog) || len(arizona.Flags) != 1 {
		t.Fatalf("expected conference home dog via alias and game conference, got %+v", arizona.Flags)
	}
	if arizona.HomeATS != trend.ResultNone {
		t.Fatalf("unplayed game must not be graded, got %q", arizona.HomeATS)
	}

	oleMiss := rows[0]
	if oleMiss.HomeRank != 12 || oleMiss.HomeRankTier != ranking.TierTop15 || len(oleMiss.Flags) != 0 {
		t.Fatalf("unexpected ranked favorite row: %+v", oleMiss)
	}
	if oleMiss.HomeATS != trend.ResultPush {
		t.Fatalf("24-10 with -14 should push, got %q", oleMiss.HomeATS)
	}

	army := rows[3]
	if army.HasOdds || army.HomeSpread != nil || army.Flags == nil || len(army.Flags) != 0 {
		t.Fatalf("unmatched game should keep empty odds and no flags, got %+v", army)
	}
	if army.HomeRank != 0 {
		t.Fatalf("stale week rank leaked into latest poll: %d", army.HomeRank)
	}
	if army.AwayConference != "American Athletic" || army.Weather != game.WeatherUnknown {
		t.Fatalf("unexpected fallback fields: %+v", army)
	}
}

func TestProcessTrends_PollFallback(t *testing.T) {
	t.Parallel()

	slate := sampleSlate()
	rows := ProcessTrends(slate, TrendOptions{Poll: "Playoff Committee Rankings"})
	for _, row := range rows {
		if row.AwayTeam == "Alabama" && row.AwayRank != 0 {
			t.Fatalf("fallback should use first poll present, not AP: %d", row.AwayRank)
		}
		if row.AwayTeam == "Tulane" && row.AwayRank != 3 {
			t.Fatalf("expected coaches rank for Tulane, got %d", row.AwayRank)
		}
	}
}

func TestTrendService_ProcessUsesSlateWeekPoll(t *testing.T) {
	t.Parallel()

	slate := sampleSlate()
	slate.Query.Week = 5
	report := NewTrendService(&stubSlateLoader{}, TrendOptions{}).Process(slate)
	if report.RankingWeek != 5 {
		t.Fatalf("expected week 5 poll, got week %d", report.RankingWeek)
	}
	for _, row := range report.Rows {
		switch row.HomeTeam {
		case "Army":
			if row.HomeRank != 1 {
				t.Fatalf("expected Army ranked 1 in week 5, got %d", row.HomeRank)
			}
		case "Vanderbilt":
			if row.AwayRank != 0 || row.HasFlag(trend.UnrankedHomeDog) || row.HasFlag(trend.DoubleDigitRoadFavorite) {
				t.Fatalf("week 6 rank leaked into week 5 slate: %+v", row)
			}
		}
	}
}

func TestProcessTrends_EmptySlate(t *testing.T) {
	t.Parallel()

	rows := ProcessTrends(Slate{}, TrendOptions{})
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil rows, got %#v", rows)
	}
}

type stubSlateLoader struct {
	slate Slate
	err   error
	calls int
}

func (s *stubSlateLoader) Load(_ context.Context, query SlateQuery) (Slate, error) {
	s.calls++
	if s.err != nil {
		return Slate{}, s.err
	}
	slate := s.slate
	slate.Query = query
	return slate, nil
}

func TestTrendService_Build(t *testing.T) {
	t.Parallel()

	loader := &stubSlateLoader{slate: sampleSlate()}
	service := NewTrendService(loader, TrendOptions{})

	report, err := service.Build(context.Background(), SlateQuery{Year: 2025, Week: 6, SeasonType: game.SeasonRegular})
	if err != nil {
		t.Fatalf("build trends: %v", err)
	}
	if report.Poll != "AP Top 25" || report.RankingWeek != 6 {
		t.Fatalf("unexpected poll selection: %s week %d", report.Poll, report.RankingWeek)
	}
	if report.Summary.Games != 4 || len(report.Rows) != 4 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if !report.FetchedAt.Equal(kickoff) {
		t.Fatalf("unexpected fetched at: %s", report.FetchedAt)
	}
}

func TestTrendService_BuildPropagatesLoadError(t *testing.T) {
	t.Parallel()

	loader := &stubSlateLoader{err: errors.New("fetch odds: boom")}
	service := NewTrendService(loader, TrendOptions{})

	if _, err := service.Build(context.Background(), SlateQuery{Year: 2025}); err == nil || err.Error() != "fetch odds: boom" {
		t.Fatalf("expected load error, got %v", err)
	}
}
