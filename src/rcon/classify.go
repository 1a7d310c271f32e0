package rcon

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// §x§R§R§G§G§B§B hex colors must go first, otherwise the single-code
	// pattern eats the pairs one by one and leaves the §x behind.
	hexColors  = regexp.MustCompile(`(?i)§x(?:§[0-9a-f]){6}`)
	colorCodes = regexp.MustCompile(`(?i)§[0-9a-fk-or]`)
)

// StripColors removes Minecraft formatting codes from a server response,
// both the extended hex form and the single-character color/style codes.
func StripColors(text string) string {
	text = hexColors.ReplaceAllString(text, "")
	return colorCodes.ReplaceAllString(text, "")
}

// RenderPattern substitutes the {player} and {amount} placeholders into a
// configured success or error pattern.
func RenderPattern(pattern string, playerName string, amount int64) string {
	pattern = strings.ReplaceAll(pattern, "{player}", playerName)
	return strings.ReplaceAll(pattern, "{amount}", strconv.FormatInt(amount, 10))
}

// Classify decides whether a server response indicates a successful credit.
// The response is color-stripped and compared case-insensitively; patterns
// are placeholder-substituted but never color-stripped. Precedence:
//
//  1. any error pattern found in the response -> failure
//  2. any success pattern found in the response -> success
//  3. no success patterns configured -> success
//  4. success patterns configured but none matched -> failure
//
// Error patterns are checked even when no success patterns exist.
func Classify(response string, playerName string, amount int64, successPatterns []string, errorPatterns []string) bool {
	cleaned := strings.ToLower(StripColors(response))

	for _, p := range errorPatterns {
		rendered := strings.ToLower(RenderPattern(p, playerName, amount))
		if strings.Contains(cleaned, rendered) {
			logrus.Debugf("rcon response matched error pattern %q", p)
			return false
		}
	}

	for _, p := range successPatterns {
		rendered := strings.ToLower(RenderPattern(p, playerName, amount))
		if strings.Contains(cleaned, rendered) {
			logrus.Debugf("rcon response matched success pattern %q", p)
			return true
		}
	}

	if len(successPatterns) == 0 {
		return true
	}

	logrus.Debugf("rcon response matched no success pattern: %s", cleaned)
	return false
}
