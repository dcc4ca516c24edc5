package store

import (
	"strings"
	"time"
)

// Expectation kinds: the typed questions the assistant can park while it
// waits for the user's next turn.
const (
	ExpectModelForProblem    = "model_for_problem"
	ExpectModelForMedia      = "model_for_media"
	ExpectElaborationConfirm = "elaboration_confirm"
	ExpectNewProblemConfirm  = "new_problem_confirm"
	ExpectModelSwitchConfirm = "model_switch_confirm"
)

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Expectation is the single outstanding question the session is waiting on.
// At most one is active; setting a new one replaces the previous.
type Expectation struct {
	Kind    string            `json:"kind"`
	Details map[string]string `json:"details"`
}

// Turn is one message in the rolling LLM context window.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryEntry is one message in the (larger) UI-facing history.
type HistoryEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session represents the active conversation state in memory.
// It is NOT internally synchronized: the session registry serializes turns
// per session id, so at most one goroutine mutates a Session at a time.
type Session struct {
	ID string `json:"id"`

	// Locale
	LanguageCode string `json:"language_code"`
	LanguageName string `json:"language_name"`
	DialectTag   string `json:"dialect_tag,omitempty"`

	// Product focus
	RecognizedModels []string          `json:"recognized_models"`
	FocusModel       string            `json:"focus_model,omitempty"`
	FocusImages      map[string]string `json:"focus_images,omitempty"`

	// Troubleshooting flow
	InFlow             bool   `json:"in_flow"`
	ProblemDescription string `json:"problem_description"`

	// THE WAITING ROOM: the one question we are waiting for an answer to
	Expectation *Expectation `json:"expectation,omitempty"`

	turnWindow []Turn
	uiHistory  []HistoryEntry

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	turnWindowLimit int
	uiHistoryLimit  int
}

// NewSession creates an empty session in the given default language.
// turnWindow is the number of exchanges kept as LLM context (K exchanges =
// 2K messages); uiHistory is the display cap in messages.
func NewSession(id, languageCode, languageName string, turnWindow, uiHistory int) *Session {
	now := time.Now()
	return &Session{
		ID:               id,
		LanguageCode:     languageCode,
		LanguageName:     languageName,
		RecognizedModels: []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
		turnWindowLimit:  turnWindow * 2,
		uiHistoryLimit:   uiHistory,
	}
}

// SetLanguage updates the session locale. dialectTag may be empty.
func (s *Session) SetLanguage(code, name, dialectTag string) {
	s.LanguageCode = code
	s.LanguageName = name
	s.DialectTag = dialectTag
	s.touch()
}

// AddRecognizedModel appends a model to the recognized set (dedup, uppercase).
// The first recognized model becomes the focus if none is set.
func (s *Session) AddRecognizedModel(model string) {
	m := strings.ToUpper(strings.TrimSpace(model))
	if m == "" {
		return
	}
	for _, existing := range s.RecognizedModels {
		if existing == m {
			if s.FocusModel == "" {
				s.SetFocus(m)
			}
			return
		}
	}
	s.RecognizedModels = append(s.RecognizedModels, m)
	if s.FocusModel == "" {
		s.SetFocus(m)
	}
	s.touch()
}

// IsRecognized reports whether the model was mentioned earlier in the session.
func (s *Session) IsRecognized(model string) bool {
	m := strings.ToUpper(strings.TrimSpace(model))
	for _, existing := range s.RecognizedModels {
		if existing == m {
			return true
		}
	}
	return false
}

// SetFocus makes the model the one under discussion. No-op when it already
// is: the problem description must be cleared exactly once per switch.
func (s *Session) SetFocus(model string) {
	m := strings.ToUpper(strings.TrimSpace(model))
	if m == "" || m == s.FocusModel {
		return
	}
	if !s.IsRecognized(m) {
		s.RecognizedModels = append(s.RecognizedModels, m)
	}
	s.FocusModel = m
	s.ProblemDescription = ""
	s.InFlow = false
	s.FocusImages = nil
	s.touch()
}

// StartFlow begins troubleshooting the given problem. An empty model keeps
// the current focus. Any outstanding expectation is consumed.
func (s *Session) StartFlow(problem, model string) {
	if model != "" {
		s.SetFocus(model)
	}
	s.InFlow = true
	s.ProblemDescription = strings.TrimSpace(problem)
	s.ClearExpectation()
	s.touch()
}

// SetExpectation replaces any outstanding expectation with a new one.
func (s *Session) SetExpectation(kind string, details map[string]string) {
	if details == nil {
		details = map[string]string{}
	}
	s.Expectation = &Expectation{Kind: kind, Details: details}
	s.touch()
}

// TakeExpectation returns the outstanding expectation and clears it, so an
// error later in the turn can never leave it dangling.
func (s *Session) TakeExpectation() *Expectation {
	exp := s.Expectation
	s.Expectation = nil
	return exp
}

func (s *Session) ClearExpectation() {
	s.Expectation = nil
}

// ResolveProblem marks the current problem as solved. Focus and recognized
// models survive: a solved problem does not forget the product.
func (s *Session) ResolveProblem() {
	s.ProblemDescription = ""
	s.InFlow = false
	s.ClearExpectation()
	s.touch()
}

// End resets every field including the rolling memory.
func (s *Session) End() {
	s.RecognizedModels = []string{}
	s.FocusModel = ""
	s.FocusImages = nil
	s.InFlow = false
	s.ProblemDescription = ""
	s.Expectation = nil
	s.turnWindow = nil
	s.uiHistory = nil
	s.touch()
}

// AddTurn records a message in both the LLM window (FIFO at fixed capacity)
// and the UI history (larger cap). Empty content is skipped.
func (s *Session) AddTurn(role, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	s.turnWindow = append(s.turnWindow, Turn{Role: role, Content: content})
	if s.turnWindowLimit > 0 && len(s.turnWindow) > s.turnWindowLimit {
		s.turnWindow = s.turnWindow[len(s.turnWindow)-s.turnWindowLimit:]
	}
	s.uiHistory = append(s.uiHistory, HistoryEntry{Role: role, Content: content, Timestamp: time.Now()})
	if s.uiHistoryLimit > 0 && len(s.uiHistory) > s.uiHistoryLimit {
		s.uiHistory = s.uiHistory[len(s.uiHistory)-s.uiHistoryLimit:]
	}
	s.touch()
}

// TurnWindow returns a copy of the rolling LLM context.
func (s *Session) TurnWindow() []Turn {
	out := make([]Turn, len(s.turnWindow))
	copy(out, s.turnWindow)
	return out
}

// UIHistory returns a copy of the display history.
func (s *Session) UIHistory() []HistoryEntry {
	out := make([]HistoryEntry, len(s.uiHistory))
	copy(out, s.uiHistory)
	return out
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}
