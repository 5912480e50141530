// Package convert reconciles a purchasable package size against a recipe
// requirement, e.g. "64 fl oz" against "2 cups". Both inputs are freeform
// strings; the leading number and the unit token are scanned out and the
// first quantity is converted into the second quantity's unit.
package convert

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	units "github.com/bcicen/go-units"
)

// ErrMissingAmount is returned when either size string lacks a readable
// quantity or unit. Callers treat this as "nothing to compare", not a fault.
var ErrMissingAmount = errors.New("both sizes need a quantity and a unit")

var (
	numberRe = regexp.MustCompile(`[\d.]+`)
	unitRe   = regexp.MustCompile(`[a-zA-Z]+\s*[a-zA-Z]*`)
)

// go-units ships metric and imperial volumes but not the US kitchen trio, so
// they are registered here against liter. Ratio conversions are transitive,
// which also covers cup ↔ fl oz and friends.
var (
	teaspoon   = units.NewUnit("teaspoon", "tsp.", units.UnitOptionQuantity("volume"))
	tablespoon = units.NewUnit("tablespoon", "tbsp.", units.UnitOptionQuantity("volume"))
	cup        = units.NewUnit("cup", "cp", units.UnitOptionQuantity("volume"))
)

func init() {
	units.NewRatioConversion(teaspoon, units.Liter, 0.00492892159375)
	units.NewRatioConversion(tablespoon, units.Liter, 0.01478676478125)
	units.NewRatioConversion(cup, units.Liter, 0.2365882365)
}

// Colloquial recipe spellings mapped to the conversion library's unit names.
// Bare "oz" on grocery packaging almost always means fluid ounces, matching
// the upstream storefront's usage.
var unitAliases = map[string]string{
	"tbsp":  "tablespoon",
	"tsp":   "teaspoon",
	"cup":   "cup",
	"cups":  "cup",
	"oz":    "fluid ounce",
	"fl oz": "fluid ounce",
	"ml":    "milliliter",
	"l":     "liter",
	"g":     "gram",
	"kg":    "kilogram",
	"lb":    "pound",
	"lbs":   "pound",
}

type OriginalValues struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// Result describes how many units of the first size cover the second size.
type Result struct {
	Multiplier     float64        `json:"multiplier"`
	OriginalValues OriginalValues `json:"originalValues"`
	ConversionText string         `json:"conversion"`
}

// Multiplier converts the first size into the second size's unit and returns
// second ÷ converted-first. Sizes in different dimensions (weight against
// volume) fail with an explicit error rather than a silent number.
//
// The TypeScript original guarded this with `!value1 || value2 || ...`,
// rejecting every input whose second quantity parsed, which left the feature
// dead in production. Both quantities are required here; see DESIGN.md.
func Multiplier(first, second string) (*Result, error) {
	value1, unit1, ok1 := scanSize(first)
	value2, unit2, ok2 := scanSize(second)
	if !ok1 || !ok2 {
		return nil, ErrMissingAmount
	}

	from, err := units.Find(resolveUnit(unit1))
	if err != nil {
		return nil, fmt.Errorf("unknown unit %q: %w", unit1, err)
	}
	to, err := units.Find(resolveUnit(unit2))
	if err != nil {
		return nil, fmt.Errorf("unknown unit %q: %w", unit2, err)
	}

	converted, err := units.ConvertFloat(value1, from, to)
	if err != nil {
		return nil, fmt.Errorf("cannot convert %s to %s: %w", unit1, unit2, err)
	}

	multiplier := value2 / converted.Float()

	return &Result{
		Multiplier: multiplier,
		OriginalValues: OriginalValues{
			First:  fmt.Sprintf("%s %s", trimFloat(value1), unit1),
			Second: fmt.Sprintf("%s %s", trimFloat(value2), unit2),
		},
		ConversionText: fmt.Sprintf("1 %s = %.3f %s", unit1, 1/multiplier, unit2),
	}, nil
}

// scanSize pulls the leading number and the following unit token out of a
// freeform size string.
func scanSize(s string) (value float64, unit string, ok bool) {
	numberMatch := numberRe.FindString(s)
	if numberMatch == "" {
		return 0, "", false
	}
	value, err := strconv.ParseFloat(numberMatch, 64)
	if err != nil || value == 0 {
		return 0, "", false
	}

	unitMatch := unitRe.FindString(s)
	unit = strings.ToLower(strings.TrimSpace(unitMatch))
	if unit == "" {
		return 0, "", false
	}

	return value, unit, true
}

func resolveUnit(unit string) string {
	if mapped, ok := unitAliases[unit]; ok {
		return mapped
	}
	return unit
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
