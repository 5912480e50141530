package ingredient

import (
	"strconv"
	"strings"
)

// FormatAmount renders a parsed entry's amount for display. The raw
// quantity/unit text is preferred so "¼ cup" stays "¼ cup" instead of
// "0.25 cup". A unit with no quantity ("to taste") is shown alone. When the
// entry carries no amount at all, ok is false and there is nothing to show.
func FormatAmount(p Parsed) (string, bool) {
	quantity := strings.TrimSpace(p.QuantityText)
	unit := strings.TrimSpace(p.UnitText)
	if unit == "" {
		unit = strings.TrimSpace(p.Unit)
	}

	if quantity == "" && p.Quantity > 0 {
		quantity = strconv.FormatFloat(p.Quantity, 'f', -1, 64)
	}

	switch {
	case quantity != "" && unit != "":
		return quantity + " " + unit, true
	case quantity != "":
		return quantity, true
	case unit != "":
		return unit, true
	}
	return "", false
}
