package ranking

import "testing"

func TestTierFor_BucketsFiveBins(t *testing.T) {
	t.Parallel()

	want := map[int]Tier{
		0: TierNone, 1: TierTop5, 5: TierTop5, 6: TierTop10, 10: TierTop10,
		11: TierTop15, 15: TierTop15, 16: TierTop20, 20: TierTop20,
		21: TierTop25, 25: TierTop25, 26: TierNone, -3: TierNone,
	}
	for rank, tier := range want {
		if got := TierFor(rank); got != tier {
			t.Fatalf("TierFor(%d)=%q, want %q", rank, got, tier)
		}
	}

	counts := make(map[Tier]int)
	for rank := 1; rank <= 25; rank++ {
		counts[TierFor(rank)]++
	}
	for _, tier := range AllTiers() {
		if counts[tier] != 5 {
			t.Fatalf("tier %s holds %d ranks, want 5", tier, counts[tier])
		}
	}
}

func TestParseTier(t *testing.T) {
	t.Parallel()

	if tier, ok := ParseTier("top 10"); !ok || tier != TierTop10 {
		t.Fatalf("expected Top 10, got %q ok=%t", tier, ok)
	}
	if _, ok := ParseTier("Top 30"); ok {
		t.Fatalf("expected unknown tier")
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Week: 4, Poll: "Coaches Poll", Rank: 2, Team: "Georgia"},
		{Week: 4, Poll: "AP Top 25", Rank: 1, Team: "Texas"},
		{Week: 5, Poll: "Coaches Poll", Rank: 1, Team: "Ohio State"},
		{Week: 5, Poll: "Coaches Poll", Rank: 3, Team: "Oregon"},
		{Week: 5, Poll: "AP Top 25", Rank: 2, Team: "Ohio State"},
		{Week: 5, Poll: "AP Top 25", Rank: 1, Team: "Texas"},
	}

	t.Run("latest week of preferred poll", func(t *testing.T) {
		got := Select(entries, DefaultPoll, 0)
		if len(got) != 2 || got[0].Team != "Texas" || got[1].Team != "Ohio State" {
			t.Fatalf("unexpected selection: %+v", got)
		}
	})

	t.Run("explicit week", func(t *testing.T) {
		got := Select(entries, "Coaches Poll", 4)
		if len(got) != 1 || got[0].Team != "Georgia" {
			t.Fatalf("unexpected selection: %+v", got)
		}
	})

	t.Run("week without a poll uses the latest earlier week", func(t *testing.T) {
		got := Select(entries, DefaultPoll, 7)
		if len(got) != 2 || got[0].Week != 5 {
			t.Fatalf("unexpected selection: %+v", got)
		}
		if got := Select(entries, DefaultPoll, 2); len(got) != 0 {
			t.Fatalf("expected nothing before the first poll, got %+v", got)
		}
	})

	t.Run("falls back to first poll with entries", func(t *testing.T) {
		got := Select(entries, "Playoff Committee Rankings", 5)
		if len(got) != 2 || got[0].Poll != "Coaches Poll" {
			t.Fatalf("unexpected fallback: %+v", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Select(nil, DefaultPoll, 0); len(got) != 0 {
			t.Fatalf("expected empty selection, got %+v", got)
		}
	})
}

func TestRankByTeam_KeepsBestRank(t *testing.T) {
	t.Parallel()

	got := RankByTeam([]Entry{
		{Rank: 9, Team: "LSU"},
		{Rank: 7, Team: "LSU"},
		{Rank: 0, Team: "Tulane"},
	})
	if got["LSU"] != 7 {
		t.Fatalf("expected best rank 7, got %d", got["LSU"])
	}
	if _, ok := got["Tulane"]; ok {
		t.Fatalf("rank 0 must be ignored")
	}
}
