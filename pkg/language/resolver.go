// Package language classifies each turn's language and dialect using layered
// heuristics plus a confidence-scored external detection call.
package language

import (
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/pemistahl/lingua-go"

	"tv-assist-be/pkg/dialect"
)

const (
	DefaultLanguageCode = "en"
	DefaultLanguageName = "English"
)

var supportedLanguages = map[string]string{
	"en": "English",
	"fr": "French",
	"ar": "Arabic",
}

// Dialect tags carried on the session. Style hints for generation; business
// logic never branches on them except the explicit-request short-circuit.
const (
	TagDarijaExplicitRequest          = "darija_explicit_request"
	TagDarijaConfirmedExplicitRequest = "darija_confirmed_service_explicit_request"
	TagFrenchRequest                  = "french_request"
	TagArabicMSARequest               = "arabic_msa_request"
	TagEnglishRequest                 = "english_request"
	TagDarijaConfirmedShortText       = "darija_confirmed_service_short_text"
	TagDarijaConfirmed                = "darija_confirmed_service"
	TagArabicNotDarija                = "arabic_generic_not_darija"
	TagDarijaHeuristicInconclusive    = "darija_heuristic_service_inconclusive"
	TagArabicInconclusive             = "arabic_generic_service_inconclusive"
	TagDarijaHeuristicOnly            = "darija_heuristic_keywords_only"
	TagArabicGenericContent           = "arabic_generic_content"
)

// Resolution is the outcome of one resolve call. Detection is the raw service
// verdict when one was obtained, nil otherwise.
type Resolution struct {
	LanguageCode string
	LanguageName string
	DialectTag   string
	Detection    *dialect.Detection
}

// ExplicitRequest reports whether the user explicitly asked for a language.
func (r *Resolution) ExplicitRequest() bool {
	switch r.DialectTag {
	case TagDarijaExplicitRequest, TagDarijaConfirmedExplicitRequest,
		TagFrenchRequest, TagArabicMSARequest, TagEnglishRequest:
		return true
	}
	return false
}

// Resolver implements the detection cascade. Never returns an error: every
// failure degrades to the default language with no dialect tag.
type Resolver struct {
	keywords            *Keywords
	detector            lingua.LanguageDetector
	service             dialect.Detector
	confidenceThreshold float64
	indicatorThreshold  int
	logger              *log.Logger

	latinIndicatorPatterns []*regexp.Regexp
}

// NewResolver builds a resolver over the supported set (English, French,
// Arabic). service may be nil when no detection service is configured.
func NewResolver(keywords *Keywords, service dialect.Detector, confidenceThreshold float64, indicatorThreshold int, logger *log.Logger) *Resolver {
	if keywords == nil {
		keywords = DefaultKeywords()
	}
	if confidenceThreshold <= 0 {
		confidenceThreshold = 0.7
	}
	if indicatorThreshold <= 0 {
		indicatorThreshold = 2
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[LANGUAGE] ", log.LstdFlags)
	}

	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.English, lingua.French, lingua.Arabic).
		Build()

	r := &Resolver{
		keywords:            keywords,
		detector:            detector,
		service:             service,
		confidenceThreshold: confidenceThreshold,
		indicatorThreshold:  indicatorThreshold,
		logger:              logger,
	}

	// Word-boundary matching only works for ASCII in RE2, so Latin
	// indicators get compiled patterns and Arabic-script ones use substring
	// matching below.
	for _, kw := range keywords.DarijaIndicatorsLatin {
		p, err := regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(kw)) + `\b`)
		if err != nil {
			continue
		}
		r.latinIndicatorPatterns = append(r.latinIndicatorPatterns, p)
	}
	return r
}

// LanguageName maps a supported code to its display name.
func LanguageName(code string) string {
	if name, ok := supportedLanguages[code]; ok {
		return name
	}
	return DefaultLanguageName
}

// Resolve runs the cascade: explicit-request keywords, statistical detection,
// short-text service delegation, then Arabic dialect indicator scoring
// combined with the confidence-gated service verdict.
func (r *Resolver) Resolve(ctx context.Context, text string) *Resolution {
	lowered := strings.ToLower(text)

	// 1. Explicit language requests short-circuit everything.
	if r.matchesAny(text, lowered, r.keywords.ExplicitRequests[RequestDarija]) {
		res := &Resolution{LanguageCode: "ar", LanguageName: LanguageName("ar"), DialectTag: TagDarijaExplicitRequest}
		if detection := r.callService(ctx, text); detection != nil {
			res.Detection = detection
			if detection.IsMatch {
				res.DialectTag = TagDarijaConfirmedExplicitRequest
			}
		}
		return res
	}
	if r.matchesAny(text, lowered, r.keywords.ExplicitRequests[RequestFrench]) {
		return &Resolution{LanguageCode: "fr", LanguageName: LanguageName("fr"), DialectTag: TagFrenchRequest}
	}
	if r.matchesAny(text, lowered, r.keywords.ExplicitRequests[RequestArabicMSA]) {
		return &Resolution{LanguageCode: "ar", LanguageName: LanguageName("ar"), DialectTag: TagArabicMSARequest}
	}
	if r.matchesAny(text, lowered, r.keywords.ExplicitRequests[RequestEnglish]) {
		return &Resolution{LanguageCode: "en", LanguageName: LanguageName("en"), DialectTag: TagEnglishRequest}
	}

	// 2. Statistical detection, reliable from 3 characters up.
	langCode := DefaultLanguageCode
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) >= 3 {
		if detected, ok := r.detector.DetectLanguageOf(trimmed); ok {
			switch detected {
			case lingua.English:
				langCode = "en"
			case lingua.French:
				langCode = "fr"
			case lingua.Arabic:
				langCode = "ar"
			}
		}
	} else if r.service != nil {
		// 3. Too short for the detector; trust the service above threshold.
		if detection := r.callService(ctx, text); detection != nil &&
			detection.IsMatch && detection.Confidence >= r.confidenceThreshold {
			return &Resolution{
				LanguageCode: "ar",
				LanguageName: LanguageName("ar"),
				DialectTag:   TagDarijaConfirmedShortText,
				Detection:    detection,
			}
		}
	}

	// 4. Dialect indicator scoring plus confidence-gated service verdict.
	score := r.indicatorScore(text, lowered)
	callService := langCode == "ar"
	if score >= r.indicatorThreshold {
		callService = true
		langCode = "ar"
	}

	var detection *dialect.Detection
	if callService {
		detection = r.callService(ctx, text)
	}

	tag := ""
	if detection != nil {
		if detection.IsMatch && detection.Confidence >= r.confidenceThreshold {
			langCode = "ar"
			tag = TagDarijaConfirmed
		} else if !detection.IsMatch && langCode == "ar" {
			tag = TagArabicNotDarija
		} else if langCode == "ar" {
			if score >= r.indicatorThreshold {
				tag = TagDarijaHeuristicInconclusive
			} else {
				tag = TagArabicInconclusive
			}
		}
	}
	if langCode == "ar" && tag == "" {
		if score >= r.indicatorThreshold {
			tag = TagDarijaHeuristicOnly
		} else {
			tag = TagArabicGenericContent
		}
	}

	return &Resolution{
		LanguageCode: langCode,
		LanguageName: LanguageName(langCode),
		DialectTag:   tag,
		Detection:    detection,
	}
}

// matchesAny checks keywords case-insensitively for Latin script and as exact
// substrings for non-ASCII script.
func (r *Resolver) matchesAny(text, lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if isASCII(kw) {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				return true
			}
		} else if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func (r *Resolver) indicatorScore(text, lowered string) int {
	score := 0
	for _, p := range r.latinIndicatorPatterns {
		if p.MatchString(lowered) {
			score++
		}
	}
	for _, kw := range r.keywords.DarijaIndicatorsArabic {
		if strings.Contains(text, kw) {
			score++
		}
	}
	return score
}

// callService wraps the detection call; any failure logs and returns nil,
// which callers treat as inconclusive.
func (r *Resolver) callService(ctx context.Context, text string) *dialect.Detection {
	if r.service == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	detection, err := r.service.Detect(ctx, text)
	if err != nil {
		r.logger.Printf("dialect detection unavailable: %v", err)
		return nil
	}
	return detection
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}
