package ingredient

import (
	"strconv"
	"strings"
)

// Parser turns freeform ingredient text into structured entries. Two input
// layouts are supported: "Name(amount, prep)" lines and alternating
// name/amount line pairs. Parsing is best-effort per line: a line the grammar
// cannot handle degrades to a minimal entry instead of failing the batch.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run parses a multi-line ingredient block. Blank lines are dropped; the
// output order matches the input order of the remaining lines.
func (p *Parser) Run(input string) []Parsed {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(input), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 {
		return []Parsed{}
	}

	// The first line decides the layout: a parenthetical amount marks the
	// "Name(amount)" format, otherwise lines alternate name / amount.
	if strings.Contains(lines[0], "(") {
		return p.parseParenFormat(lines)
	}
	return p.parsePairFormat(lines)
}

// RunLines parses an ingredient array (e.g. a recipe page's ingredient list)
// element by element. Blank elements are dropped, order is preserved.
func (p *Parser) RunLines(lines []string) []Parsed {
	results := make([]Parsed, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		results = append(results, p.parseLine(line))
	}
	return results
}

// parseParenFormat handles "Chicken thigh, boneless skinless(2 lb, cut into
// pieces)" style lines. The amount clause is the LAST parenthetical: names
// may contain commas and even parentheses, so the split anchors on the last
// "(" and last ")" rather than the first.
func (p *Parser) parseParenFormat(lines []string) []Parsed {
	results := make([]Parsed, 0, len(lines))
	for _, line := range lines {
		results = append(results, p.parseParenLine(line))
	}
	return results
}

func (p *Parser) parseParenLine(line string) Parsed {
	open := strings.LastIndex(line, "(")
	closing := strings.LastIndex(line, ")")
	if open == -1 || closing == -1 || closing < open {
		return minimal(line)
	}

	name := strings.TrimSpace(line[:open])
	interior := line[open+1 : closing]

	amountPart := interior
	extraPart := ""
	if i := strings.Index(interior, ","); i != -1 {
		amountPart = interior[:i]
		extraPart = strings.TrimSpace(interior[i+1:])
	}

	if amt, ok := parseAmount(amountPart); ok {
		result := amt.toParsed()
		result.Ingredient = name
		result.Extra = extraPart
		return result
	}

	// The amount may contain the comma itself ("2 lb, or to taste" split the
	// wrong way); retry against the whole interior.
	if amt, ok := parseAmount(interior); ok {
		result := amt.toParsed()
		result.Ingredient = name
		result.Extra = strings.TrimSpace(amt.rest)
		return result
	}

	// Lines like "2 lb chicken (frozen)" carry the amount up front; parse the
	// whole line but keep the pre-parenthesis text as the display name.
	if full, ok := p.parseFullLine(line); ok {
		full.Ingredient = name
		return full
	}

	return minimal(name)
}

// parsePairFormat handles alternating name/amount lines. A trailing unpaired
// name line still yields an entry.
func (p *Parser) parsePairFormat(lines []string) []Parsed {
	results := make([]Parsed, 0, (len(lines)+1)/2)
	for i := 0; i < len(lines); i += 2 {
		name := strings.TrimSpace(lines[i])

		var amountLine string
		if i+1 < len(lines) {
			amountLine = strings.TrimSpace(lines[i+1])
		}

		// Serialized front-ends hand us the literal strings "null" and
		// "undefined" for a missing amount; that means "no amount", not an
		// invitation to re-scan the name line for one.
		if amountLine == "null" || amountLine == "undefined" {
			results = append(results, minimal(name))
			continue
		}

		// A trailing unpaired line may itself be a full "2 cups flour" entry.
		if amountLine == "" {
			results = append(results, p.parseNameFallback(name))
			continue
		}

		if amt, ok := parseAmount(amountLine); ok {
			result := amt.toParsed()
			result.Ingredient = name
			results = append(results, result)
			continue
		}

		results = append(results, p.parseNameFallback(name))
	}
	return results
}

// parseNameFallback tries the line itself through the grammar, covering a
// dangling "2 cups flour" style trailing line, before degrading to a minimal
// entry.
func (p *Parser) parseNameFallback(name string) Parsed {
	if full, ok := p.parseFullLine(name); ok {
		return full
	}
	return minimal(name)
}

// parseLine parses a single freeform ingredient line: an optional leading
// amount, the ingredient name, and an optional trailing parenthetical that
// becomes the prep note.
func (p *Parser) parseLine(line string) Parsed {
	if full, ok := p.parseFullLine(line); ok {
		return full
	}
	return minimal(line)
}

func (p *Parser) parseFullLine(line string) (Parsed, bool) {
	amt, ok := parseAmount(line)
	if !ok {
		return Parsed{}, false
	}

	result := amt.toParsed()
	name := strings.TrimSpace(amt.rest)

	// A trailing parenthetical on an amount-bearing line is a prep note:
	// "1 red chili ((de-seeded and sliced))".
	if extra, trimmed, found := trailingParenthetical(name); found {
		result.Extra = extra
		name = trimmed
	}

	if name == "" {
		return Parsed{}, false
	}
	result.Ingredient = name
	return result, true
}

// trailingParenthetical splits "garlic ((minced))" into "garlic" and
// "minced", tolerating the doubled parentheses some recipe plugins emit.
func trailingParenthetical(s string) (extra, rest string, found bool) {
	if !strings.HasSuffix(s, ")") {
		return "", s, false
	}
	open := strings.Index(s, "(")
	if open == -1 {
		return "", s, false
	}

	inner := strings.TrimSuffix(s[open:], ")")
	inner = strings.TrimPrefix(inner, "(")
	inner = strings.TrimSpace(strings.Trim(inner, "()"))

	rest = strings.TrimSpace(s[:open])
	return inner, rest, true
}

// amount is a successfully matched quantity/unit prefix plus whatever text
// followed it.
type amount struct {
	quantity     float64
	quantityText string
	unit         string
	unitText     string
	rest         string
}

func (a amount) toParsed() Parsed {
	return Parsed{
		Quantity:              a.quantity,
		QuantityText:          a.quantityText,
		MinQuantity:           a.quantity,
		MaxQuantity:           a.quantity,
		Unit:                  a.unit,
		UnitText:              a.unitText,
		AlternativeQuantities: []AlternativeQuantity{},
	}
}

// parseAmount matches the amount grammar at the start of s: a number token
// (integer, decimal, simple fraction, or unicode vulgar fraction) optionally
// followed by a unit from the closed vocabulary.
func parseAmount(s string) (amount, bool) {
	m := amountRe.FindStringSubmatchIndex(s)
	if m == nil {
		return amount{}, false
	}

	numberText := s[m[2]:m[3]]
	quantity, ok := parseQuantity(numberText)
	if !ok {
		return amount{}, false
	}

	var unitText string
	if m[4] != -1 {
		unitText = s[m[4]:m[5]]
	}

	return amount{
		quantity:     quantity,
		quantityText: numberText,
		unit:         canonicalUnit(unitText),
		unitText:     unitText,
		rest:         s[m[1]:],
	}, true
}

func parseQuantity(text string) (float64, bool) {
	if v, ok := vulgarFrac[text]; ok {
		return v, true
	}

	if num, den, found := strings.Cut(text, "/"); found {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// minimal is the degraded entry for a line the grammar cannot handle: the
// display name survives, everything else is zeroed.
func minimal(name string) Parsed {
	return Parsed{
		Ingredient:            strings.TrimSpace(name),
		AlternativeQuantities: []AlternativeQuantity{},
	}
}
