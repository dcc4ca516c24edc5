// Package extract pulls candidate TV model identifiers out of free text.
// Pure functions, no external calls.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Tunable heuristics. MinHeuristicScore is the acceptance bar for the token
// scan fallback; tokens below it are never treated as models.
const (
	MinHeuristicScore = 3
	MinModelLength    = 3
	MaxModelLength    = 25
)

var affirmativeWords = []string{
	"yes", "yeah", "yep", "yup", "sure", "ok", "okay", "alright",
	"affirmative", "indeed", "certainly", "please", "go", "do",
}

var negativeWords = []string{
	"no", "nope", "nah", "negative", "don't", "do not", "cancel", "stop", "not", "never",
}

var commonTVTerms = []string{
	"TV", "MODEL", "ISSUE", "HELP", "FIX", "PROBLEM", "POWER", "SOUND", "VIDEO", "REMOTE", "INPUT", "SCREEN",
	"DISPLAY", "IMAGE", "AUDIO", "CHANNEL", "PICTURE", "HDMI", "USB", "MENU", "THANKS", "THANK",
	"YOU", "HELLO", "HI", "GOOD", "DAY", "WHAT", "HOW", "IS", "MY", "THE", "A", "AN", "FOR", "WITH",
	"ON", "IT", "ITS", "SHOW", "ME", "VIEW", "OF", "LIST", "COMPONENTS", "DIAGRAM", "SCHEMATIC",
	"PHOTO", "LAYOUT", "SORRY", "ERROR", "INVALID", "GENERAL", "SPECIFIC", "STANDARD",
}

var brandNames = []string{"SONY", "LG", "SAMSUNG", "VIZIO", "TCL", "HISENSE", "PHILIPS", "PANASONIC"}

// Manufacturer model prefixes worth a score bump.
var modelPrefixes = []string{"EL", "UA", "QN", "OLED", "KD", "KDL", "XR", "UN", "LN", "UE", "LC", "TH", "TC"}

var commonWords = buildCommonWords()

func buildCommonWords() map[string]struct{} {
	set := make(map[string]struct{})
	for _, group := range [][]string{affirmativeWords, negativeWords, commonTVTerms, brandNames} {
		for _, w := range group {
			set[strings.ToUpper(w)] = struct{}{}
		}
	}
	// Bare small integers are years, counts, channel numbers; never models.
	for n := 0; n < 1000; n++ {
		set[strconv.Itoa(n)] = struct{}{}
	}
	return set
}

// IsCommonWord reports whether the token is on the stop list and therefore
// can never be a model identifier.
func IsCommonWord(token string) bool {
	_, ok := commonWords[strings.ToUpper(strings.TrimSpace(token))]
	return ok
}

var (
	// "model is UA55C300", "tv model number EL.RT2864-FG48"
	keywordFullPattern = regexp.MustCompile(`(?:MODEL\s*(?:IS|:|NUMBER\s*(?:IS|NO\.?)?)?|TV\s*MODEL\s*(?:IS|:|NUMBER\s*(?:IS|NO\.?)?)?)\s+([A-Z0-9_.\-]+[A-Z0-9])`)
	// "tv UA55C300 problem", "model EL.RT2864-FG48 manual"
	keywordPhrasePattern = regexp.MustCompile(`\b(?:TV|TELEVISION|MODEL)\s+([A-Z0-9_.\-]{3,25})\b`)
	tokenPattern         = regexp.MustCompile(`[A-Z0-9_.\-]+`)
	letterPattern        = regexp.MustCompile(`[A-Z]`)
	digitPattern         = regexp.MustCompile(`[0-9]`)
	punctPattern         = regexp.MustCompile(`[.\-_]`)
)

// ProductModel extracts a potential TV model identifier from a user query.
// Deterministic: pattern matches first, then a scored token scan. Returns the
// uppercase candidate and whether one was found.
func ProductModel(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	upper := strings.ToUpper(text)

	if m := keywordFullPattern.FindStringSubmatch(upper); m != nil {
		candidate := strings.TrimSpace(m[1])
		if len(candidate) >= MinModelLength && candidate != "TV" && candidate != "MODEL" && candidate != "TELEVISION" {
			return candidate, true
		}
	}

	if m := keywordPhrasePattern.FindStringSubmatch(upper); m != nil {
		candidate := strings.TrimSpace(m[1])
		hasLetter := letterPattern.MatchString(candidate)
		hasDigit := digitPattern.MatchString(candidate)
		if ((hasLetter && hasDigit) || len(candidate) > 4) &&
			candidate != "TV" && candidate != "MODEL" && candidate != "TELEVISION" &&
			!isBrand(candidate) {
			return candidate, true
		}
	}

	for _, token := range tokenPattern.FindAllString(upper, -1) {
		if _, common := commonWords[token]; common {
			continue
		}
		if len(token) < MinModelLength || len(token) > MaxModelLength {
			continue
		}
		hasLetter := letterPattern.MatchString(token)
		hasDigit := digitPattern.MatchString(token)
		if !hasLetter || !hasDigit {
			continue
		}
		if scoreToken(token, hasLetter, hasDigit) < MinHeuristicScore {
			continue
		}
		if excludeToken(token) {
			continue
		}
		return token, true
	}

	return "", false
}

func scoreToken(token string, hasLetter, hasDigit bool) int {
	score := 0
	if hasLetter {
		score += 2
	}
	if hasDigit {
		score += 2
	}
	if punctPattern.MatchString(token) {
		score++
	}
	if len(token) > 5 {
		score++
	}
	if len(token) > 8 {
		score++
	}
	for _, prefix := range modelPrefixes {
		if strings.HasPrefix(token, prefix) {
			score += 2
			break
		}
	}
	return score
}

// excludeToken filters tokens that scored well but look structurally wrong:
// too much punctuation, odd leading/trailing characters, short all-digit runs.
func excludeToken(token string) bool {
	if strings.Count(token, ".") > 3 || strings.Count(token, "-") > 4 || strings.Count(token, "_") > 3 {
		return true
	}
	if strings.HasPrefix(token, "_") {
		return true
	}
	if strings.HasSuffix(token, "-") || strings.HasSuffix(token, ".") || strings.HasSuffix(token, "_") {
		return true
	}
	if len(token) < 4 && !punctPattern.MatchString(token) && (allLetters(token) || allDigits(token)) {
		return true
	}
	if allDigits(token) && len(token) < 5 {
		return true
	}
	return false
}

func isBrand(token string) bool {
	for _, b := range brandNames {
		if token == b {
			return true
		}
	}
	return false
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func allLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return len(s) > 0
}
