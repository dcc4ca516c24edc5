// Package dialogue routes each conversation turn: expectation resolution,
// ongoing-flow handling or initial intent classification, composed over the
// entity extractor, retrieval engine and the generation backend.
package dialogue

import (
	"context"
	"fmt"
	"log"
	"strings"

	"tv-assist-be/pkg/catalog"
	"tv-assist-be/pkg/language"
	"tv-assist-be/pkg/llm"
	"tv-assist-be/pkg/retrieval"
	"tv-assist-be/pkg/store"
	"tv-assist-be/pkg/translate"
)

// reply is a handler result. final replies (rendered Markdown, error
// strings) bypass the localization pass.
type reply struct {
	text  string
	final bool
}

func englishReply(text string) reply { return reply{text: text} }
func finalReply(text string) reply   { return reply{text: text, final: true} }

// Orchestrator is the per-turn state machine over a session.
type Orchestrator struct {
	gen        *Generator
	resolver   *language.Resolver
	keywords   *language.Keywords
	engine     *retrieval.Engine
	records    []catalog.Record
	translator translate.Translator
	topK       int
	logger     *log.Logger
}

// NewOrchestrator wires the turn router. translator may be nil; topK is the
// retrieval candidate count (precision/recall knob).
func NewOrchestrator(
	gen *Generator,
	resolver *language.Resolver,
	keywords *language.Keywords,
	engine *retrieval.Engine,
	records []catalog.Record,
	translator translate.Translator,
	topK int,
	logger *log.Logger,
) *Orchestrator {
	if keywords == nil {
		keywords = language.DefaultKeywords()
	}
	if topK <= 0 {
		topK = 5
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[DIALOGUE] ", log.LstdFlags)
	}
	return &Orchestrator{
		gen:        gen,
		resolver:   resolver,
		keywords:   keywords,
		engine:     engine,
		records:    records,
		translator: translator,
		topK:       topK,
		logger:     logger,
	}
}

// ProcessTurn handles one user turn against the session and returns the
// assistant reply. Downstream failures degrade to fallback strings; the
// session is always left able to make progress on the next turn.
func (o *Orchestrator) ProcessTurn(ctx context.Context, sess *store.Session, input string) string {
	// 1. Language detection and explicit switch.
	res := o.resolver.Resolve(ctx, input)
	if res.ExplicitRequest() {
		if res.LanguageCode != sess.LanguageCode || res.DialectTag != sess.DialectTag {
			sess.SetLanguage(res.LanguageCode, res.LanguageName, res.DialectTag)
			return o.languageSwitchAck(ctx, sess)
		}
	} else if res.LanguageCode != sess.LanguageCode && sess.Expectation == nil {
		sess.SetLanguage(res.LanguageCode, res.LanguageName, res.DialectTag)
	}

	// 2. Session reset and closing remarks.
	if sess.Expectation == nil && o.isClosingTurn(sess, input) {
		o.logger.Printf("session %s reset by user: %.50q", sess.ID, input)
		sess.End()
		return o.localizedOrDefault(ctx, sess,
			"Okay, session ended. How can I help you next?", "Session ended.")
	}

	// 3. Route by derived state: Expecting, InFlow/focused, Idle.
	var r reply
	if sess.Expectation != nil {
		r = o.handleExpectation(ctx, sess, input)
	} else if sess.InFlow || sess.FocusModel != "" {
		r = o.handleOngoing(ctx, sess, input)
	} else {
		r = o.handleInitial(ctx, sess, input)
	}

	// 4. Localization of the English core response.
	answer := r.text
	if answer != "" && !r.final {
		answer = o.localize(ctx, sess, answer)
	}

	// 5. Final fallback. Never return an empty turn.
	if answer == "" {
		o.logger.Printf("session %s: empty response for %.50q, using fallback", sess.ID, input)
		answer = o.localizedOrDefault(ctx, sess, fallbackRephrase, fallbackUnavailable)
	}
	return answer
}

// languageSwitchAck acknowledges an explicit language request in the new
// language.
func (o *Orchestrator) languageSwitchAck(ctx context.Context, sess *store.Session) string {
	dialect := sess.DialectTag
	if dialect == "" {
		dialect = "general"
	}
	ackContext := fmt.Sprintf("Language switched to %s (%s). How can I help?", sess.LanguageName, dialect)
	system := fmt.Sprintf("You are a helpful AI assistant. Respond ENTIRELY in %s. %s",
		sess.LanguageName, o.dialectInstruction(sess))
	answer, err := o.gen.Respond(ctx, system, ackContext, historyMessages(sess))
	if err != nil || answer == "" {
		return fmt.Sprintf("Language set to %s.", sess.LanguageName)
	}
	return answer
}

// isClosingTurn matches localized reset keywords as substrings and closing
// remarks as whole-message matches.
func (o *Orchestrator) isClosingTurn(sess *store.Session, input string) bool {
	lowered := strings.ToLower(strings.TrimSpace(input))
	for _, kw := range o.keywords.ResetKeywords(sess.LanguageCode) {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	for _, kw := range o.keywords.ClosingRemarks(sess.LanguageCode) {
		if kw != "" && lowered == strings.ToLower(kw) {
			return true
		}
	}
	return false
}

// localize renders an English core response in the session language.
// Rendered Markdown and error strings pass through untranslated.
func (o *Orchestrator) localize(ctx context.Context, sess *store.Session, english string) string {
	if sess.LanguageCode == "en" {
		return english
	}
	if strings.Contains(english, "![") || strings.Contains(english, "## ") ||
		strings.Contains(english, "```") || strings.HasPrefix(english, "Error:") {
		return english
	}

	// Confirmed-dialect sessions try the dedicated translation service first.
	if sess.LanguageCode == "ar" && o.translator != nil &&
		strings.Contains(strings.ToLower(sess.DialectTag), "darija") {
		if translated, err := o.translator.Translate(ctx, english); err == nil && translated != "" {
			return translated
		}
		o.logger.Printf("dialect translation service failed, falling back to LLM")
	}

	translated, err := o.gen.Translate(ctx, english, "English", sess.LanguageName, sess.DialectTag, "Chatbot response.")
	if err != nil || translated == "" {
		return english
	}
	return translated
}

// localizedOrDefault generates a localized rendering of an English context
// line, degrading to the fixed fallback when generation fails.
func (o *Orchestrator) localizedOrDefault(ctx context.Context, sess *store.Session, english, fixed string) string {
	system := fmt.Sprintf("You are a helpful AI assistant. Respond ENTIRELY in %s based on the English context. %s",
		sess.LanguageName, o.dialectInstruction(sess))
	answer, err := o.gen.Respond(ctx, system, english, historyMessages(sess))
	if err != nil || answer == "" {
		return fixed
	}
	return answer
}

// dialectInstruction builds the style hint consumed by generation prompts.
func (o *Orchestrator) dialectInstruction(sess *store.Session) string {
	tag := strings.ToLower(sess.DialectTag)
	if sess.LanguageCode != "ar" || tag == "" {
		return ""
	}
	if strings.Contains(tag, "darija") {
		return "The user is likely communicating in or expecting Algerian Darija. When responding in Arabic, use clear, simple, natural-sounding Algerian Darija."
	}
	return "Ensure your Arabic response is in clear Modern Standard Arabic (Fusha)."
}

// generalAnswer produces a fully localized Markdown answer to a general
// question. Already final; skips the localization pass.
func (o *Orchestrator) generalAnswer(ctx context.Context, sess *store.Session, input string) reply {
	system := fmt.Sprintf(systemGeneralAssistant, sess.LanguageName, o.dialectInstruction(sess))
	userContext := fmt.Sprintf("The user's question or statement is: %q\n\nProvide a concise and informative answer using Markdown formatting.", input)
	answer, err := o.gen.Respond(ctx, system, userContext, historyMessages(sess))
	if err != nil || answer == "" {
		return englishReply(fallbackRephrase)
	}
	return finalReply(answer)
}

// historyMessages maps the rolling turn window to provider messages.
func historyMessages(sess *store.Session) []llm.Message {
	window := sess.TurnWindow()
	messages := make([]llm.Message, len(window))
	for i, turn := range window {
		messages[i] = llm.Message{Role: turn.Role, Content: turn.Content}
	}
	return messages
}

// lastAssistantMessage returns the most recent assistant turn, or empty.
func lastAssistantMessage(sess *store.Session) string {
	window := sess.TurnWindow()
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].Role == store.RoleAssistant {
			return window[i].Content
		}
	}
	return ""
}

// historySummary condenses the last exchange for the intent classifier.
func historySummary(sess *store.Session) string {
	window := sess.TurnWindow()
	if len(window) == 0 {
		return ""
	}
	start := len(window) - 2
	if start < 0 {
		start = 0
	}
	var parts []string
	for _, turn := range window[start:] {
		role := "User"
		if turn.Role == store.RoleAssistant {
			role = "Assistant"
		}
		parts = append(parts, fmt.Sprintf("%s: %s...", role, truncate(turn.Content, 50)))
	}
	return strings.Join(parts, " ")
}
