//go:build !windows && !darwin

package internal

// skipSystemLocale can be set to true in tests to skip OS-level locale detection
var skipSystemLocale = false

// detectSystemLocale returns the system locale string on Unix-like systems.
// For number formatting, priority is: LC_ALL, LC_NUMERIC, LANG.
// Returns empty string if no valid locale is found.
func detectSystemLocale() string {
	return localeFromEnv()
}
