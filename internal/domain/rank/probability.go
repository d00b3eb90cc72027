package rank

// DeriveProbabilities computes wins/games cell by cell. A cell is nil when
// either count is missing or games is zero. Rows are paired by index; the
// result has one row per wins row and keeps its rank label.
func DeriveProbabilities(wins, games []Row) []Row {
	out := make([]Row, 0, len(wins))
	for i, winRow := range wins {
		var gameRow Row
		if i < len(games) {
			gameRow = games[i]
		}

		prob := Row{RowKey: winRow[RowKey]}
		for _, h := range order {
			w, okW := asFloat(winRow[h])
			g, okG := asFloat(gameRow[h])
			if !okW || !okG || g == 0 {
				prob[h] = nil
				continue
			}
			prob[h] = w / g
		}
		out = append(out, prob)
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}
