package services

import "strings"

// QueryAttributes are the product attributes extracted from a free-text
// chat query. Empty fields mean the query did not mention that attribute.
type QueryAttributes struct {
	Gender      string
	Color       string
	ProductType string
}

// Empty reports whether no attribute was recognized at all.
func (a QueryAttributes) Empty() bool {
	return a.Gender == "" && a.Color == "" && a.ProductType == ""
}

// TextAnalyzer extracts catalog attributes from chat queries with simple
// keyword matching. It is deliberately small; anything it misses falls
// through to the language model.
type TextAnalyzer struct {
	genders map[string]string
	colors  []string
	types   map[string]string
}

// NewTextAnalyzer builds an analyzer with the vocabulary of the catalog.
func NewTextAnalyzer() *TextAnalyzer {
	return &TextAnalyzer{
		genders: map[string]string{
			"men":   "men",
			"women": "women",
			"boys":  "boys",
			"girls": "girls",
		},
		colors: []string{"red", "blue", "black", "white"},
		types: map[string]string{
			"bras":     "bra",
			"bra":      "bra",
			"shirts":   "shirt",
			"shirt":    "shirt",
			"t-shirts": "t-shirt",
			"t-shirt":  "t-shirt",
			"tshirts":  "t-shirt",
			"tshirt":   "t-shirt",
			"pants":    "pants",
			"jeans":    "jeans",
			"dresses":  "dress",
			"dress":    "dress",
		},
	}
}

// Analyze tokenizes the query and picks out gender, color and product type
// keywords. Matching is case-insensitive and the first hit per attribute
// wins. The compound "t shirt" is folded before tokenizing so it matches
// the hyphenated form.
func (ta *TextAnalyzer) Analyze(query string) QueryAttributes {
	var attrs QueryAttributes

	normalized := strings.ToLower(query)
	normalized = strings.ReplaceAll(normalized, "t shirt", "t-shirt")

	tokens := strings.FieldsFunc(normalized, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', ',', '.', '?', '!', ';', ':':
			return true
		}
		return false
	})

	for _, token := range tokens {
		if attrs.Gender == "" {
			if g, ok := ta.genders[token]; ok {
				attrs.Gender = g
				continue
			}
		}
		if attrs.Color == "" {
			for _, c := range ta.colors {
				if token == c {
					attrs.Color = c
					break
				}
			}
			if attrs.Color != "" {
				continue
			}
		}
		if attrs.ProductType == "" {
			if pt, ok := ta.types[token]; ok {
				attrs.ProductType = pt
			}
		}
	}

	return attrs
}
