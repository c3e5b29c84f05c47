package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("home_team", "away_team").
		From("trend_snapshots").
		Where(Eq("season", 2025), Expr("week <= ?", 6)).
		OrderBy("start_date", "home_team").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT home_team, away_team FROM trend_snapshots WHERE season = $1 AND week <= $2 ORDER BY start_date, home_team LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 2025 || args[1] != 6 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_QuestionPlaceholders(t *testing.T) {
	query, _, err := Select("*").
		PlaceholderFormat(Question).
		From("trend_snapshots").
		Where(Eq("season", 2025), In("week", 1, 2)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM trend_snapshots WHERE season = ? AND week IN (?, ?)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
}

func TestSelectBuilder_GroupBy(t *testing.T) {
	query, args, err := Select("week", "COUNT(*) AS row_count").
		From("trend_snapshots").
		Where(Eq("season", 2024)).
		GroupBy("week").
		OrderBy("week").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT week, COUNT(*) AS row_count FROM trend_snapshots WHERE season = $1 GROUP BY week ORDER BY week"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("trend_snapshots").
		Columns("season", "home_team").
		Values(2025, "Texas").
		Values(2025, "Ohio State").
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO trend_snapshots (season, home_team) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[3] != "Ohio State" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder_RequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("trend_snapshots").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditioned delete")
	}

	query, args, err := DeleteFrom("trend_snapshots").
		Where(Eq("season", 2025), Eq("week", 3)).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM trend_snapshots WHERE season = $1 AND week = $2" || len(args) != 2 {
		t.Fatalf("unexpected delete: %s %+v", query, args)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		Season int    `db:"season"`
		Home   string `db:"home_team"`
		Note   string `db:"-"`
	}

	query, args, err := InsertModels(Question, "trend_snapshots", []row{
		{Season: 2025, Home: "Texas"},
		{Season: 2025, Home: "Georgia"},
	}, "")
	if err != nil {
		t.Fatalf("build insert: %v", err)
	}
	if query != "INSERT INTO trend_snapshots (season, home_team) VALUES (?, ?), (?, ?)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
	if cols := Columns(row{}); len(cols) != 2 {
		t.Fatalf("unexpected columns: %v", cols)
	}
}
