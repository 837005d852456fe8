package acl

import "strings"

const (
	defaultLocale  = "en-US"
	defaultLang    = "en"
	defaultCountry = "NO"
)

// LocaleForLanguage converts a two-letter language code to the locale Connect
// stores as preferred_language. Unknown codes fall back to en-US.
func LocaleForLanguage(code string) string {
	switch strings.ToLower(code) {
	case "en":
		return "en-US"
	case "sv":
		return "sv-SE"
	case "no", "nb":
		return "nb-NO"
	case "da":
		return "da-DK"
	case "fi":
		return "fi-FI"
	default:
		return defaultLocale
	}
}

// LanguageForLocale is the inverse of LocaleForLanguage. Unknown locales
// fall back to en.
func LanguageForLocale(locale string) string {
	switch strings.ToLower(locale) {
	case "en-us":
		return "en"
	case "sv-se":
		return "sv"
	case "nb-no":
		return "no"
	case "da-dk":
		return "da"
	case "fi-fi":
		return "fi"
	default:
		return defaultLang
	}
}

// CountryForLanguage derives the Connect country_code from a language code.
// English and unknown codes map to Norway.
func CountryForLanguage(code string) string {
	switch strings.ToLower(code) {
	case "sv":
		return "SE"
	case "no", "nb":
		return "NO"
	case "da":
		return "DK"
	case "fi":
		return "FI"
	default:
		return defaultCountry
	}
}
