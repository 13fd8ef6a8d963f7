package insider

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// NormalizeText normalizes Unicode and HTML entity issues that appear in the
// plain-text region of SEC filings, ahead of header pattern matching.
// Line boundaries are preserved.
//
// Normalizations performed:
// - HTML entities (&nbsp;, &mdash;, ...) → Unicode equivalents
// - Unicode whitespace variants → regular spaces
// - Zero-width characters → removed
// - Line endings (CRLF → LF)
func NormalizeText(data []byte) []byte {
	text := string(data)

	text = normalizeHTMLEntities(text)
	text = normalizeWhitespace(text)
	text = removeInvisibleChars(text)

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return []byte(text)
}

// normalizeHTMLEntities converts common HTML entities to their Unicode equivalents
func normalizeHTMLEntities(text string) string {
	// Common entities found in SEC filings
	replacements := map[string]string{
		"&nbsp;":   " ",      // Non-breaking space
		"&mdash;":  "—", // Em dash
		"&ndash;":  "–", // En dash
		"&ldquo;":  "“", // Left double quote
		"&rdquo;":  "”", // Right double quote
		"&lsquo;":  "‘", // Left single quote
		"&rsquo;":  "’", // Right single quote
		"&amp;":    "&",      // Ampersand
		"&lt;":     "<",      // Less than
		"&gt;":     ">",      // Greater than
		"&quot;":   "\"",     // Quote
		"&apos;":   "'",      // Apostrophe
		"&hellip;": "...",    // Ellipsis
		"&bull;":   "•", // Bullet
		"&trade;":  "™", // Trademark
		"&reg;":    "®", // Registered
		"&copy;":   "©", // Copyright
		"&sect;":   "§", // Section sign
		"&para;":   "¶", // Paragraph sign
	}

	for entity, replacement := range replacements {
		text = strings.ReplaceAll(text, entity, replacement)
	}

	// Handle numeric entities (&#NNN;)
	numericEntityPattern := regexp.MustCompile(`&#(\d+);`)
	text = numericEntityPattern.ReplaceAllStringFunc(text, func(match string) string {
		var code int
		if _, err := fmt.Sscanf(match, "&#%d;", &code); err == nil {
			switch code {
			case 160: // nbsp
				return " "
			default:
				if code < 0x110000 { // Valid Unicode range
					return string(rune(code))
				}
			}
		}
		return match // Leave unchanged if we can't parse
	})

	return text
}

// normalizeWhitespace converts various Unicode whitespace characters to regular spaces
func normalizeWhitespace(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch r {
		case ' ': // Non-breaking space (NBSP)
			result.WriteRune(' ')
		case ' ', ' ', ' ', ' ', ' ', ' ',
			' ', ' ', ' ', ' ', ' ': // Quad/figure spaces
			result.WriteRune(' ')
		case ' ': // Narrow no-break space
			result.WriteRune(' ')
		case ' ': // Medium mathematical space
			result.WriteRune(' ')
		case '　': // Ideographic space
			result.WriteRune(' ')
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// removeInvisibleChars removes zero-width and other invisible characters
func removeInvisibleChars(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		switch r {
		case '​', '‌', '‍': // Zero-width space/joiners
			continue
		case '\uFEFF': // Zero-width no-break space (BOM)
			continue
		default:
			if unicode.Is(unicode.Cf, r) && r != '\t' && r != '\n' && r != '\r' {
				continue
			}
			result.WriteRune(r)
		}
	}

	return result.String()
}

var collapseWhitespacePattern = regexp.MustCompile(`\s+`)

// CleanExtractedText cleans text AFTER extraction from a parsed document:
// collapses runs of whitespace into single spaces and trims. Used for
// footnote text, where internal layout carries no meaning.
func CleanExtractedText(text string) string {
	return strings.TrimSpace(collapseWhitespacePattern.ReplaceAllString(text, " "))
}
