package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/cfb-edge/internal/domain/game"
	"github.com/riskibarqy/cfb-edge/internal/domain/trend"
)

func TestTrendRepository_SaveReplacesWeek(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewTrendRepository()
	row := func(home string) trend.Row {
		return trend.Row{Game: game.Game{HomeTeam: home, AwayTeam: "Alabama"}}
	}

	snaps := []trend.WeekSnapshot{
		{RunID: "a", Season: 2024, SeasonType: "regular", Week: 3, Rows: []trend.Row{row("Vanderbilt")}},
		{RunID: "b", Season: 2024, SeasonType: "regular", Week: 1, Rows: []trend.Row{row("Army"), row("Navy")}},
		{RunID: "c", Season: 2024, SeasonType: "regular", Week: 3, Rows: []trend.Row{row("Georgia")}, RecordedAt: time.Unix(10, 0)},
		{RunID: "d", Season: 2023, SeasonType: "regular", Week: 1, Rows: []trend.Row{row("Texas")}},
	}
	for _, snap := range snaps {
		if err := repo.SaveWeek(ctx, snap); err != nil {
			t.Fatalf("save week: %v", err)
		}
	}

	rows, err := repo.ListSeason(ctx, 2024)
	if err != nil {
		t.Fatalf("list season: %v", err)
	}
	if len(rows) != 3 || rows[0].HomeTeam != "Army" || rows[2].HomeTeam != "Georgia" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	weeks, err := repo.ListWeeks(ctx, 2024)
	if err != nil {
		t.Fatalf("list weeks: %v", err)
	}
	if len(weeks) != 2 || weeks[1].RunID != "c" || weeks[1].Rows != 1 || weeks[0].Rows != 2 {
		t.Fatalf("unexpected weeks: %+v", weeks)
	}
}

func TestTrendRepository_CopiesRows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewTrendRepository()
	rows := []trend.Row{{Game: game.Game{HomeTeam: "Army"}}}
	if err := repo.SaveWeek(ctx, trend.WeekSnapshot{Season: 2024, Week: 1, Rows: rows}); err != nil {
		t.Fatalf("save week: %v", err)
	}
	rows[0].HomeTeam = "mutated"

	got, _ := repo.ListSeason(ctx, 2024)
	if got[0].HomeTeam != "Army" {
		t.Fatalf("stored rows must not alias caller slice")
	}
}

func TestTrendRepository_KeepsRepeatedMatchups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewTrendRepository()
	row := trend.Row{Game: game.Game{HomeTeam: "Army", AwayTeam: "Navy", StartDate: time.Date(2024, 12, 14, 20, 0, 0, 0, time.UTC)}}
	if err := repo.SaveWeek(ctx, trend.WeekSnapshot{Season: 2024, SeasonType: "regular", Week: 16, Rows: []trend.Row{row, row}}); err != nil {
		t.Fatalf("save week: %v", err)
	}

	rows, err := repo.ListSeason(ctx, 2024)
	if err != nil || len(rows) != 2 {
		t.Fatalf("expected both copies kept, got %d err=%v", len(rows), err)
	}
}
