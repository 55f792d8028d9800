package forecast

import (
	"time"

	"github.com/theirongolddev/envcast/internal/model"
)

// fundStatus reports need against funding for every outflow from ref's
// month through the end of the following month. It only reads item state.
func (bd *build) fundStatus(ref time.Time) []model.FundStatus {
	start := model.MonthStart(ref)
	end := start.AddDate(0, 2, 0)

	var out []model.FundStatus
	for _, it := range bd.items {
		if it.kind == kindProjected || it.amount >= 0 {
			continue
		}
		if it.date.Before(start) || !it.date.Before(end) {
			continue
		}
		name := CategoryNotFoundName
		if cat, ok := bd.category(it.categoryID); ok {
			name = cat.Name
		}
		out = append(out, model.FundStatus{
			ID:           it.categoryID,
			CategoryName: name,
			PayeeName:    it.payeeName,
			Date:         it.date,
			Amount:       it.amount,
			Funded:       it.funded,
		})
	}
	return out
}
