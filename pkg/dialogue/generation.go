package dialogue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"tv-assist-be/pkg/extract"
	"tv-assist-be/pkg/llm"
)

// Main intent categories returned by the initial classifier.
type MainIntent string

const (
	IntentGeneralQuestion     MainIntent = "general_question"
	IntentTroubleshootNoModel MainIntent = "standard_tv_troubleshooting"
	IntentTroubleshootModel   MainIntent = "specific_tv_troubleshooting"
	IntentMediaWithModel      MainIntent = "media_request_model_specific"
	IntentMediaNoModel        MainIntent = "media_request_generic"
	IntentFollowUpNoContext   MainIntent = "follow_up_clarification"
	IntentUnclear             MainIntent = "other_unclear"
)

// Follow-up intent categories returned when an expectation is pending.
type FollowUpIntent string

const (
	FollowUpAffirmative   FollowUpIntent = "affirmative"
	FollowUpNegative      FollowUpIntent = "negative"
	FollowUpProvidedModel FollowUpIntent = "provided_model"
	FollowUpProblemSolved FollowUpIntent = "problem_solved"
	FollowUpNewTopic      FollowUpIntent = "new_topic_unrelated"
	FollowUpUnclear       FollowUpIntent = "unclear_or_other"
)

// Outcome kinds for ongoing-turn analysis. Decoded once here instead of
// string markers parsed deep in business logic.
type OutcomeKind string

const (
	OutcomePlain         OutcomeKind = "continue"
	OutcomeGeneralAside  OutcomeKind = "general_question"
	OutcomeProblemSolved OutcomeKind = "problem_solved"
	OutcomeNewProblem    OutcomeKind = "new_problem"
	OutcomeMediaRequest  OutcomeKind = "media_request"
)

// IntentResult is the initial classifier's verdict.
type IntentResult struct {
	Intent MainIntent
	Model  string
}

// FollowUpResult is the expectation-reply classifier's verdict.
type FollowUpResult struct {
	Intent FollowUpIntent
	Model  string
}

// TurnOutcome is the structured result of an ongoing-turn analysis.
type TurnOutcome struct {
	Kind    OutcomeKind
	Reply   string
	Problem string
	Model   string
}

// Generator adapts the LLM backend to the structured calls the orchestrator
// needs. All structured outputs are decoded here at the boundary.
type Generator struct {
	llm    llm.LLMProvider
	logger *log.Logger
}

func NewGenerator(provider llm.LLMProvider, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(log.Writer(), "[GENERATION] ", log.LstdFlags)
	}
	return &Generator{llm: provider, logger: logger}
}

// Respond generates a free-form answer from a system prompt, the rolling
// history and the current-turn context.
func (g *Generator) Respond(ctx context.Context, systemPrompt, userContext string, history []llm.Message) (string, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: userContext})

	answer, err := g.llm.Chat(ctx, messages, llm.WithTemperature(0.5))
	if err != nil {
		g.logger.Printf("respond failed: %v", err)
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// Translate renders text from one language into another. dialectHint narrows
// the source or target register; contextHint describes what the text is.
func (g *Generator) Translate(ctx context.Context, text, sourceLang, targetLang, dialectHint, contextHint string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	contextLine := ""
	if contextHint != "" {
		contextLine = fmt.Sprintf("The text to translate is related to: %s.", contextHint)
	}
	source := sourceLang
	if sourceLang == "Arabic" && strings.Contains(strings.ToLower(dialectHint), "darija") {
		source = "Algerian Darija (an Arabic dialect)"
	}
	target := targetLang
	if targetLang == "Arabic" && strings.Contains(strings.ToLower(dialectHint), "darija") {
		target = "Algerian Darija (an Arabic dialect)"
	}

	system := fmt.Sprintf(systemTranslator, contextLine, source, target)
	user := fmt.Sprintf("Text to translate:\n\"\"\"\n%s\n\"\"\"", text)

	translated, err := g.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, llm.WithTemperature(0.05))
	if err != nil {
		g.logger.Printf("translate to %s failed: %v", targetLang, err)
		return "", err
	}
	return strings.Trim(strings.TrimSpace(translated), `"'`), nil
}

// HypotheticalTitle rewrites an English problem description into the short
// technical title a matching guide would carry.
func (g *Generator) HypotheticalTitle(ctx context.Context, problemEnglish string) (string, error) {
	raw, err := g.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: systemHyde},
		{Role: "user", Content: fmt.Sprintf(hydeUserTemplate, problemEnglish)},
	}, llm.WithTemperature(0.05))
	if err != nil {
		g.logger.Printf("hyde generation failed: %v", err)
		return "", err
	}
	title := strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "", "Title:", "").Replace(raw))
	if title == "" {
		return "", fmt.Errorf("empty hypothetical title")
	}
	return title, nil
}

type intentPayload struct {
	Intent         string `json:"intent"`
	ExtractedModel string `json:"extracted_model"`
}

// ClassifyIntent runs the structured initial-turn classifier. An invalid
// model extraction is nulled rather than propagated.
func (g *Generator) ClassifyIntent(ctx context.Context, query, languageName, dialectHint, historySummary string) (*IntentResult, error) {
	historyBlock := ""
	if historySummary != "" {
		historyBlock = "\nBrief Chat History Context (for ambiguity resolution only):\n" + historySummary
	}
	system := fmt.Sprintf(systemIntentClassifier, languageName, orGeneral(dialectHint), historyBlock)

	raw, err := g.llm.Chat(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: fmt.Sprintf(intentUserTemplate, query)},
	}, llm.WithTemperature(0), llm.WithJSONMode())
	if err != nil {
		return nil, err
	}

	var payload intentPayload
	if err := decodeJSONObject(raw, &payload); err != nil {
		g.logger.Printf("intent classification decode failed: %v (raw %.120q)", err, raw)
		return nil, err
	}

	result := &IntentResult{Intent: MainIntent(payload.Intent)}
	switch result.Intent {
	case IntentGeneralQuestion, IntentTroubleshootNoModel, IntentTroubleshootModel,
		IntentMediaWithModel, IntentMediaNoModel, IntentFollowUpNoContext, IntentUnclear:
	default:
		result.Intent = IntentUnclear
	}
	if model, ok := validModel(payload.ExtractedModel); ok {
		result.Model = model
	}
	return result, nil
}

// ClassifyFollowUp interprets the user's reply against a pending question.
// Errors degrade to an unclear verdict so the caller can re-prompt.
func (g *Generator) ClassifyFollowUp(ctx context.Context, query, botQuestionContext, languageName, dialectHint string, history []llm.Message) *FollowUpResult {
	system := fmt.Sprintf(systemFollowUpClassifier, languageName, orGeneral(dialectHint), botQuestionContext)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: fmt.Sprintf(followUpUserTemplate, botQuestionContext, query)})

	unclear := &FollowUpResult{Intent: FollowUpUnclear}

	raw, err := g.llm.Chat(ctx, messages, llm.WithTemperature(0), llm.WithJSONMode())
	if err != nil {
		g.logger.Printf("follow-up classification failed: %v", err)
		return unclear
	}

	var payload intentPayload
	if err := decodeJSONObject(raw, &payload); err != nil {
		g.logger.Printf("follow-up decode failed: %v (raw %.120q)", err, raw)
		return unclear
	}

	intent := FollowUpIntent(payload.Intent)
	switch intent {
	case FollowUpAffirmative, FollowUpNegative, FollowUpProvidedModel,
		FollowUpProblemSolved, FollowUpNewTopic, FollowUpUnclear:
	default:
		return unclear
	}

	if intent == FollowUpProvidedModel {
		model, ok := validModel(payload.ExtractedModel)
		if !ok {
			return unclear
		}
		return &FollowUpResult{Intent: intent, Model: model}
	}
	return &FollowUpResult{Intent: intent}
}

type outcomePayload struct {
	Kind    string `json:"kind"`
	Reply   string `json:"reply"`
	Problem string `json:"problem"`
	Model   string `json:"model"`
}

// AnalyzeOngoing classifies a mid-flow turn and drafts the English reply.
func (g *Generator) AnalyzeOngoing(ctx context.Context, query, focusModel, problem, lastBotMessage string, history []llm.Message) (*TurnOutcome, error) {
	if focusModel == "" {
		focusModel = "Not specifically set yet."
	}
	if problem == "" {
		problem = "General discussion about the TV."
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemOngoingAnalyzer})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{
		Role:    "user",
		Content: fmt.Sprintf(ongoingUserTemplate, focusModel, problem, truncate(lastBotMessage, 200), query),
	})

	raw, err := g.llm.Chat(ctx, messages, llm.WithTemperature(0.3), llm.WithJSONMode())
	if err != nil {
		return nil, err
	}

	var payload outcomePayload
	if err := decodeJSONObject(raw, &payload); err != nil {
		g.logger.Printf("ongoing analysis decode failed: %v (raw %.120q)", err, raw)
		return nil, err
	}

	outcome := &TurnOutcome{
		Kind:    OutcomeKind(payload.Kind),
		Reply:   strings.TrimSpace(payload.Reply),
		Problem: strings.TrimSpace(payload.Problem),
	}
	switch outcome.Kind {
	case OutcomePlain, OutcomeGeneralAside, OutcomeProblemSolved, OutcomeNewProblem, OutcomeMediaRequest:
	default:
		outcome.Kind = OutcomePlain
	}
	if model, ok := validModel(payload.Model); ok {
		outcome.Model = model
	}
	return outcome, nil
}

// decodeJSONObject tolerates prose around the JSON object by slicing from
// the first '{' to the last '}'.
func decodeJSONObject(raw string, v any) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return fmt.Errorf("no JSON object in response")
	}
	return json.Unmarshal([]byte(raw[start:end+1]), v)
}

// validModel rejects classifier extractions that cannot be model numbers:
// wrong length, no alphanumerics, or a common short word.
func validModel(candidate string) (string, bool) {
	model := strings.ToUpper(strings.TrimSpace(candidate))
	if model == "" || model == "NULL" {
		return "", false
	}
	if len(model) < 3 || len(model) > 25 {
		return "", false
	}
	hasAlnum := false
	for _, r := range model {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			hasAlnum = true
			break
		}
	}
	if !hasAlnum {
		return "", false
	}
	if len(model) <= 4 && extract.IsCommonWord(model) {
		return "", false
	}
	return model, true
}

func orGeneral(dialectHint string) string {
	if dialectHint == "" {
		return "general"
	}
	return dialectHint
}

func truncate(s string, n int) string {
	runes := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}
