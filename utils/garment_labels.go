package utils

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"embroidery-backoffice/models"
)

// sizeAliases maps the spellings staff type into order forms to the size code printed on invoices
var sizeAliases = map[string]string{
	"EXTRA SMALL": "XS",
	"SMALL":       "S",
	"MEDIUM":      "M",
	"LARGE":       "L",
	"EXTRA LARGE": "XL",
	"XXL":         "2XL",
	"XXXL":        "3XL",
	"XXXXL":       "4XL",
}

// NormalizeSize maps a garment size to its invoice code
// Input is trimmed and uppercased before mapping
func NormalizeSize(size string) string {
	sizeUpper := strings.ToUpper(strings.Join(strings.Fields(size), " "))
	if code, ok := sizeAliases[sizeUpper]; ok {
		return code
	}
	return sizeUpper
}

// NormalizeColor title-cases a color name, e.g. "royal  BLUE" -> "Royal Blue"
func NormalizeColor(color string) string {
	words := strings.Fields(strings.ToLower(color))
	for i, w := range words {
		first, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(first)) + w[size:]
	}
	return strings.Join(words, " ")
}

// SizeBreakdown summarizes the lines of a group as "Navy: M x5, L x7; Black: S x2".
// Colors and sizes keep the order in which they first appear.
func SizeBreakdown(lines []models.OrderLine) string {
	type sizeCount struct {
		size  string
		count int
	}
	var colors []string
	counts := make(map[string][]sizeCount)

	for _, line := range lines {
		color := NormalizeColor(line.Color)
		size := NormalizeSize(line.Size)
		if size == "" {
			size = "-"
		}
		entries, seen := counts[color]
		if !seen {
			colors = append(colors, color)
		}
		found := false
		for i := range entries {
			if entries[i].size == size {
				entries[i].count += line.Quantity
				found = true
				break
			}
		}
		if !found {
			entries = append(entries, sizeCount{size: size, count: line.Quantity})
		}
		counts[color] = entries
	}

	parts := make([]string, 0, len(colors))
	for _, color := range colors {
		sizes := make([]string, 0, len(counts[color]))
		for _, e := range counts[color] {
			sizes = append(sizes, fmt.Sprintf("%s x%d", e.size, e.count))
		}
		joined := strings.Join(sizes, ", ")
		if color != "" {
			joined = color + ": " + joined
		}
		parts = append(parts, joined)
	}
	return strings.Join(parts, "; ")
}
