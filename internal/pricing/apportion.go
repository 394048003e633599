package pricing

import (
	"sort"

	"github.com/tgfc/som/internal/money"
	"github.com/tgfc/som/internal/order"
)

// Apportion distributes an authorized override delta across the lines
// sharing the work type: every line gets |delta| div n, the first
// |delta| mod n lines by ascending serial each get one extra unit, and the
// delta's sign is reapplied uniformly. The per-line sum always equals the
// delta exactly.
func Apportion(override order.WorkTypeOverride, lines []*order.Line) order.Apportionment {
	result := order.Apportionment{
		Kind:         override.Kind,
		WorkTypeID:   override.WorkTypeID,
		TotalDelta:   override.Delta(),
		AuthorizedBy: override.AuthorizedBy,
	}
	delta := override.Delta()
	if delta.IsZero() || len(lines) == 0 {
		return result
	}

	sorted := make([]*order.Line, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SerialNo < sorted[j].SerialNo })

	sign := int64(1)
	if delta.IsNegative() {
		sign = -1
	}
	total := delta.Abs().Int64()
	n := int64(len(sorted))
	base := total / n
	remainder := total % n

	result.PerLine = make([]order.LineDelta, 0, len(sorted))
	for i, line := range sorted {
		amount := base
		if int64(i) < remainder {
			amount++
		}
		result.PerLine = append(result.PerLine, order.LineDelta{
			LineID:   line.ID,
			SerialNo: line.SerialNo,
			Amount:   money.New(amount * sign),
		})
	}
	return result
}
