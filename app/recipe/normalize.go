package recipe

import (
	"fmt"
	"strings"

	"github.com/sosodev/duration"
)

// normalizeRecipe maps a Recipe-typed linked-data object to a Document.
// Returns nil when the object is not a recipe or normalization yields
// neither a name nor ingredients.
func normalizeRecipe(ldjson map[string]any) *Document {
	if !isRecipeType(ldjson["@type"]) {
		return nil
	}

	doc := &Document{
		Name:         stringField(ldjson["name"]),
		Image:        normalizeImages(ldjson["image"]),
		Description:  stringField(ldjson["description"]),
		CookTime:     durationToText(stringField(ldjson["cookTime"])),
		PrepTime:     durationToText(stringField(ldjson["prepTime"])),
		TotalTime:    durationToText(stringField(ldjson["totalTime"])),
		Category:     stringSlice(ldjson["recipeCategory"]),
		Cuisine:      stringSlice(ldjson["recipeCuisine"]),
		Ingredients:  stringSlice(ldjson["recipeIngredient"]),
		Instructions: normalizeInstructions(ldjson["recipeInstructions"]),
		Yield:        firstString(ldjson["recipeYield"]),
	}

	if doc.Name == "" && len(doc.Ingredients) == 0 {
		return nil
	}
	return doc
}

// normalizeImages coerces the image field's four source shapes (string,
// []string, []{url}, {url}) into a plain string slice.
func normalizeImages(v any) []string {
	switch img := v.(type) {
	case string:
		if img == "" {
			return []string{}
		}
		return []string{img}
	case []any:
		images := make([]string, 0, len(img))
		for _, item := range img {
			if url := imageURL(item); url != "" {
				images = append(images, url)
			}
		}
		return images
	case map[string]any:
		if url := imageURL(img); url != "" {
			return []string{url}
		}
	}
	return []string{}
}

func imageURL(v any) string {
	switch item := v.(type) {
	case string:
		return item
	case map[string]any:
		return stringField(item["url"])
	}
	return ""
}

func normalizeInstructions(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	steps := make([]string, 0, len(items))
	for _, item := range items {
		switch step := item.(type) {
		case string:
			steps = append(steps, step)
		case map[string]any:
			text := stringField(step["text"])
			if text == "" {
				text = stringField(step["name"])
			}
			steps = append(steps, text)
		}
	}
	return steps
}

// durationToText renders an ISO-8601 duration as natural language, keeping
// only the nonzero components: "PT1H30M" becomes "1 hour and 30 minutes".
// Unparseable input yields an empty string.
func durationToText(iso string) string {
	if iso == "" {
		return ""
	}

	d, err := duration.Parse(iso)
	if err != nil {
		return ""
	}

	var parts []string
	if d.Hours > 0 {
		parts = append(parts, pluralize(d.Hours, "hour"))
	}
	if d.Minutes > 0 {
		parts = append(parts, pluralize(d.Minutes, "minute"))
	}
	if d.Seconds > 0 {
		parts = append(parts, pluralize(d.Seconds, "second"))
	}

	return joinConjunction(parts)
}

func pluralize(v float64, unit string) string {
	if v == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%g %ss", v, unit)
}

// joinConjunction joins like an English list: "a", "a and b", "a, b, and c".
func joinConjunction(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
}

func stringField(v any) string {
	s, _ := v.(string)
	return s
}

// stringSlice coerces a string-or-array field into a string slice, empty if
// absent.
func stringSlice(v any) []string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return []string{}
		}
		return []string{val}
	case []any:
		values := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		return values
	}
	return []string{}
}

// firstString takes a scalar field that some sites publish as an array.
func firstString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return s
			}
		}
	}
	return ""
}
