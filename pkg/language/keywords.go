package language

import (
	"encoding/json"
	"fmt"
	"os"
)

// Keywords holds the curated phrase lists driving language resolution and
// session-control shortcuts. Loaded from JSON with embedded defaults.
type Keywords struct {
	ExplicitRequests       map[string][]string `json:"explicit_requests"`
	DarijaIndicatorsLatin  []string            `json:"darija_indicators_latin"`
	DarijaIndicatorsArabic []string            `json:"darija_indicators_arabic"`
	SessionResetKeywords   map[string][]string `json:"session_reset_keywords"`
	SimpleClosingRemarks   map[string][]string `json:"simple_closing_remarks"`
	ListAllIssuesKeywords  map[string][]string `json:"list_all_issues_keywords"`
}

// Explicit-request group names inside ExplicitRequests.
const (
	RequestDarija    = "darija"
	RequestFrench    = "french"
	RequestArabicMSA = "arabic_msa"
	RequestEnglish   = "english"
)

// DefaultKeywords returns the built-in lists used when no keywords file is
// configured or the file cannot be read.
func DefaultKeywords() *Keywords {
	return &Keywords{
		ExplicitRequests: map[string][]string{
			RequestDarija: {
				"bel darija", "b darija", "bderija", "hder bedarija", "speak darija",
				"بالدارجة", "الدارجة",
			},
			RequestFrench: {
				"en français", "en francais", "parle français", "parle francais",
				"in french", "french please", "réponds en français",
			},
			RequestArabicMSA: {
				"in arabic", "speak arabic", "en arabe", "بالعربية", "بالفصحى", "باللغة العربية",
			},
			RequestEnglish: {
				"in english", "speak english", "english please", "en anglais",
			},
		},
		DarijaIndicatorsLatin: []string{
			"wach", "wash", "kayn", "makanch", "bezzaf", "chwiya", "rani",
			"dyali", "mzyan", "khdam", "makhdamch", "3lach", "kifach", "daba",
		},
		DarijaIndicatorsArabic: []string{
			"واش", "كاين", "بزاف", "ديالي", "علاش", "كيفاش", "دابا", "مزيان",
		},
		SessionResetKeywords: map[string][]string{
			"en": {"start over", "new session", "reset session", "restart conversation", "forget everything"},
			"fr": {"recommencer", "nouvelle session", "réinitialiser", "reinitialiser"},
			"ar": {"ابدأ من جديد", "جلسة جديدة", "نبداو من جديد"},
		},
		SimpleClosingRemarks: map[string][]string{
			"en": {"bye", "goodbye", "that's all", "thats all", "exit", "quit", "thanks bye"},
			"fr": {"au revoir", "c'est tout", "merci au revoir"},
			"ar": {"مع السلامة", "بسلامة", "شكرا وداعا"},
		},
		ListAllIssuesKeywords: map[string][]string{
			"en": {"list all issues", "all the issues", "what issues", "known issues", "common problems", "documented issues"},
			"fr": {"tous les problèmes", "liste des problèmes", "problèmes connus"},
			"ar": {"كل المشاكل", "قائمة المشاكل"},
		},
	}
}

// LoadKeywords reads the lists from path, falling back to the defaults on an
// empty path or unreadable file. A partial file keeps defaults for the
// missing groups.
func LoadKeywords(path string) (*Keywords, error) {
	defaults := DefaultKeywords()
	if path == "" {
		return defaults, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Errorf("language: read keywords %s: %w", path, err)
	}

	var loaded Keywords
	if err := json.Unmarshal(raw, &loaded); err != nil {
		return defaults, fmt.Errorf("language: decode keywords %s: %w", path, err)
	}

	if loaded.ExplicitRequests == nil {
		loaded.ExplicitRequests = defaults.ExplicitRequests
	}
	if len(loaded.DarijaIndicatorsLatin) == 0 {
		loaded.DarijaIndicatorsLatin = defaults.DarijaIndicatorsLatin
	}
	if len(loaded.DarijaIndicatorsArabic) == 0 {
		loaded.DarijaIndicatorsArabic = defaults.DarijaIndicatorsArabic
	}
	if loaded.SessionResetKeywords == nil {
		loaded.SessionResetKeywords = defaults.SessionResetKeywords
	}
	if loaded.SimpleClosingRemarks == nil {
		loaded.SimpleClosingRemarks = defaults.SimpleClosingRemarks
	}
	if loaded.ListAllIssuesKeywords == nil {
		loaded.ListAllIssuesKeywords = defaults.ListAllIssuesKeywords
	}
	return &loaded, nil
}

// ResetKeywords returns the session-reset phrases for the language, falling
// back to English when the language has no list.
func (k *Keywords) ResetKeywords(langCode string) []string {
	return k.localized(k.SessionResetKeywords, langCode)
}

// ClosingRemarks returns the goodbye phrases for the language, falling back
// to English.
func (k *Keywords) ClosingRemarks(langCode string) []string {
	return k.localized(k.SimpleClosingRemarks, langCode)
}

// ListIssuesKeywords returns the phrases that ask for every documented issue
// of the focus model, falling back to English.
func (k *Keywords) ListIssuesKeywords(langCode string) []string {
	return k.localized(k.ListAllIssuesKeywords, langCode)
}

func (k *Keywords) localized(group map[string][]string, langCode string) []string {
	if list, ok := group[langCode]; ok && len(list) > 0 {
		return list
	}
	return group[DefaultLanguageCode]
}
