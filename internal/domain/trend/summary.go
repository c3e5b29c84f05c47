package trend

// Record is the graded history of one heuristic within a set of rows.
type Record struct {
	Heuristic Heuristic `json:"heuristic"`
	Label     string    `json:"label"`
	Flagged   int       `json:"flagged"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	Pushes    int       `json:"pushes"`
	WinRate   *float64  `json:"winRate,omitempty"`
}

func (r Record) Graded() int {
	return r.Wins + r.Losses + r.Pushes
}

type Summary struct {
	Games    int      `json:"games"`
	WithOdds int      `json:"withOdds"`
	Ranked   int      `json:"ranked"`
	Graded   int      `json:"graded"`
	Records  []Record `json:"records"`
}

func Summarize(rows []Row) Summary {
	records := make(map[Heuristic]*Record, 3)
	out := Summary{Games: len(rows), Records: make([]Record, 0, 3)}
	for _, h := range AllHeuristics() {
		records[h] = &Record{Heuristic: h, Label: h.Label()}
	}

	for _, row := range rows {
		if row.HasOdds {
			out.WithOdds++
		}
		if row.HomeRanked() || row.AwayRanked() {
			out.Ranked++
		}
		if row.HomeATS != ResultNone {
			out.Graded++
		}
		for _, h := range row.Flags {
			rec, ok := records[h]
			if !ok {
				continue
			}
			rec.Flagged++
			switch row.HomeATS {
			case ResultWin:
				rec.Wins++
			case ResultLoss:
				rec.Losses++
			case ResultPush:
				rec.Pushes++
			}
		}
	}

	for _, h := range AllHeuristics() {
		rec := records[h]
		if graded := rec.Graded(); graded > 0 {
			rate := (float64(rec.Wins) + 0.5*float64(rec.Pushes)) / float64(graded)
			rec.WinRate = &rate
		}
		out.Records = append(out.Records, *rec)
	}
	return out
}
