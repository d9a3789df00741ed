package internal

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NumberFormat formats metric values with locale-aware grouping and decimals
type NumberFormat struct {
	Tag     language.Tag
	printer *message.Printer
}

// NewNumberFormat returns a formatter for the given BCP 47 or POSIX locale
// ("sv-SE", "sv_SE.UTF-8"). An empty locale uses the system locale, and
// English when none can be detected.
func NewNumberFormat(locale string) NumberFormat {
	if locale == "" {
		locale = detectSystemLocale()
	}
	tag, ok := parseLocaleTag(locale)
	if !ok {
		tag = language.English
	}
	return NumberFormatFor(tag)
}

// NumberFormatFor returns a formatter for a parsed language tag.
func NumberFormatFor(tag language.Tag) NumberFormat {
	return NumberFormat{Tag: tag, printer: message.NewPrinter(tag)}
}

// Int formats a whole number with thousands separators.
func (n NumberFormat) Int(v int) string {
	return n.printer.Sprint(number.Decimal(v))
}

// Float formats v with exactly the given number of fraction digits.
func (n NumberFormat) Float(v float64, decimals int) string {
	return n.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(decimals),
		number.MaxFractionDigits(decimals)))
}

// localeFromEnv returns the first usable locale from the environment.
// Priority follows POSIX: LC_ALL overrides LC_NUMERIC, which overrides LANG.
func localeFromEnv() string {
	for _, envVar := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		locale := os.Getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" {
			return locale
		}
	}
	return ""
}

// parseLocaleTag converts a locale string to a language tag.
// Examples: "sv_SE.UTF-8" -> sv-SE, "de_DE@euro" -> de-DE, "en-US" -> en-US
func parseLocaleTag(locale string) (language.Tag, bool) {
	// Remove encoding suffix (everything after .)
	base := locale
	if idx := strings.Index(base, "."); idx != -1 {
		base = base[:idx]
	}

	// Remove modifier suffix (everything after @)
	if idx := strings.Index(base, "@"); idx != -1 {
		base = base[:idx]
	}

	if base == "" || base == "C" || base == "POSIX" {
		return language.Und, false
	}

	// Convert to BCP 47 format: "sv_SE" -> "sv-SE"
	tag, err := language.Parse(strings.Replace(base, "_", "-", 1))
	if err != nil {
		return language.Und, false
	}
	return tag, true
}
