package forecast

// expandMonths clones the newest month forward until the newest month is at
// or past the expense horizon. Cloned categories keep the source figures;
// the simulator adjusts them later.
func (bd *build) expandMonths() error {
	b := bd.b
	if len(b.Months) == 0 {
		return ErrNoMonths
	}

	var added int
	for latest := b.Months[0]; latest.Month.Before(bd.expenseEnd); latest = b.Months[0] {
		next := latest.Clone()
		next.Month = latest.Month.AddDate(0, 1, 0)
		b.Months = append(b.Months, next)
		copy(b.Months[1:], b.Months[:len(b.Months)-1])
		b.Months[0] = next
		added++
	}

	bd.log.Debug().Int("added", added).Int("total", len(b.Months)).Msg("months expanded")
	return nil
}
