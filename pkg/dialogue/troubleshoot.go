package dialogue

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"tv-assist-be/pkg/catalog"
	"tv-assist-be/pkg/store"
)

// specificTroubleshoot runs the retrieval pipeline for the focus model:
// translate the problem to English, rewrite it into a hypothetical guide
// title, search the index with the hard model filter, then explain the found
// steps. Every stage degrades rather than fails the turn.
func (o *Orchestrator) specificTroubleshoot(ctx context.Context, sess *store.Session, problem string) reply {
	model := sess.FocusModel
	if model == "" {
		return englishReply("I need to know which TV model you're referring to for specific troubleshooting. Could you please provide the model name?")
	}

	// The catalog is indexed in English; translate non-English problems
	// before embedding.
	problemEnglish := problem
	if sess.LanguageCode != "en" {
		translated, err := o.gen.Translate(ctx, problem, sess.LanguageName, "English", sess.DialectTag,
			"TV problem description for troubleshooting lookup")
		if err == nil && translated != "" {
			problemEnglish = translated
		} else {
			o.logger.Printf("session %s: problem translation failed, searching with original text", sess.ID)
		}
	}

	query := problemEnglish
	if title, err := o.gen.HypotheticalTitle(ctx, problemEnglish); err == nil {
		query = title
	}

	record, found := o.engine.Search(query, model, o.topK)
	if !found {
		return englishReply(o.noGuideFound(sess, problemEnglish))
	}

	if len(record.Images) > 0 {
		sess.FocusImages = record.Images
	} else if len(sess.FocusImages) == 0 {
		sess.FocusImages = catalog.ImagesForModel(o.records, model)
	}

	if len(record.Steps) == 0 {
		return englishReply(fmt.Sprintf(
			"I found information related to '%s' for model '%s', but it lacks detailed steps. Would you like general advice or to check for diagrams?",
			record.Issue, model))
	}

	numbered := make([]string, 0, len(record.Steps))
	for i, step := range record.Steps {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		numbered = append(numbered, fmt.Sprintf("%d. %s", i+1, step))
	}
	rawSteps := strings.Join(numbered, "\n")

	explainContext := fmt.Sprintf(stepExplainTemplate, model, record.Issue, rawSteps, SafetyNote, model)
	explained, err := o.gen.Respond(ctx, systemStepExplainer, explainContext, historyMessages(sess))
	if err != nil || explained == "" {
		o.logger.Printf("session %s: step explanation failed, returning raw steps", sess.ID)
		return englishReply(fmt.Sprintf(
			"I found these steps for TV model '%s' regarding '%s':\n%s\n\n**%s**\nI had trouble elaborating on them, but I hope this list helps.",
			model, record.Issue, rawSteps, SafetyNote))
	}

	sess.StartFlow(problemEnglish, model)
	return englishReply(explained)
}

// noGuideFound reports a retrieval miss as a normal outcome, with an offer
// for whatever media the model does have.
func (o *Orchestrator) noGuideFound(sess *store.Session, problemEnglish string) string {
	offer := ""
	if offers := o.mediaOffers(sess); len(offers) > 0 {
		offer = fmt.Sprintf(" However, I can check if I have %s for this model if you'd like.", strings.Join(offers, ", "))
	}
	return fmt.Sprintf(
		"I searched for information on TV model '%s' regarding an issue like '%s', but I couldn't find a specific troubleshooting guide for it in my current knowledge base. Could you please try rephrasing the problem, or perhaps describe it in more detail?%s",
		sess.FocusModel, truncate(problemEnglish, 60), offer)
}

// mediaOffers names the media types available for the focus model.
func (o *Orchestrator) mediaOffers(sess *store.Session) []string {
	images := sess.FocusImages
	if len(images) == 0 {
		images = catalog.ImagesForModel(o.records, sess.FocusModel)
	}

	labels := map[string]string{
		"motherboard":    "a motherboard image",
		"key_components": "a key components image",
		"block_diagram":  "a block diagram",
	}
	var offers []string
	for key, label := range labels {
		if images[key] != "" {
			offers = append(offers, label)
		}
	}
	sort.Strings(offers)
	return offers
}

// standardAdvice generates generic model-less troubleshooting guidance.
// Callers decide whether a model request (and its expectation) follows.
func (o *Orchestrator) standardAdvice(ctx context.Context, sess *store.Session, problem string, askForModel bool) reply {
	tail := adviceNoModelAsk
	if askForModel {
		tail = adviceAskModel
	}
	adviceContext := fmt.Sprintf(genericAdviceTemplate, problem, SafetyNote, tail)

	advice, err := o.gen.Respond(ctx, systemGenericAdvice, adviceContext, historyMessages(sess))
	if err != nil || advice == "" {
		advice = fmt.Sprintf(
			"I understand you're having an issue: %q. Some general things to check: power connections, the selected input source, cable seating, and restarting both the TV and any connected devices.\n\n**%s**",
			problem, SafetyNote)
	}
	if askForModel && !strings.Contains(strings.ToLower(advice), "model") {
		advice += "\n\nTo help me provide more specific advice, could you please tell me the model number of your TV?"
	}
	return englishReply(advice)
}

// listAllIssues enumerates every documented issue for the focus model.
func (o *Orchestrator) listAllIssues(sess *store.Session) reply {
	issues := catalog.IssuesForModel(o.records, sess.FocusModel)
	if len(issues) == 0 {
		return englishReply(fmt.Sprintf(
			"I don't have a pre-compiled list of issues for TV model '%s'. If you describe a specific problem, I'll do my best to help, or you can ask about diagrams/components.",
			sess.FocusModel))
	}

	unique := make([]string, 0, len(issues))
	seen := map[string]struct{}{}
	for _, issue := range issues {
		if _, dup := seen[issue]; dup {
			continue
		}
		seen[issue] = struct{}{}
		unique = append(unique, issue)
	}
	sort.Strings(unique)

	return englishReply(fmt.Sprintf(
		"For TV model '%s', here are some of the documented issues I have information about:\n- %s\n\nYou can ask me for troubleshooting details on any specific issue from this list or about diagrams/components for this model.",
		sess.FocusModel, strings.Join(unique, "\n- ")))
}

// followUpAnswer handles a mid-flow clarification request with full session
// context.
func (o *Orchestrator) followUpAnswer(ctx context.Context, sess *store.Session, request string) reply {
	outcome, err := o.gen.AnalyzeOngoing(ctx, request, sess.FocusModel, sess.ProblemDescription,
		lastAssistantMessage(sess), historyMessages(sess))
	if err != nil || outcome.Reply == "" {
		return englishReply("I'm having a bit of trouble elaborating on that. Could you rephrase?")
	}
	return englishReply(outcome.Reply)
}

// mediaResponse fulfills a media request for the focus model with rendered
// Markdown; final, never re-translated.
func (o *Orchestrator) mediaResponse(sess *store.Session, query string) reply {
	model := sess.FocusModel
	if model == "" {
		return englishReply("I need to know which TV model you're asking about before I can look for media. What is the model number?")
	}

	images := sess.FocusImages
	if len(images) == 0 {
		images = catalog.ImagesForModel(o.records, model)
	}
	if len(images) == 0 {
		return englishReply(fmt.Sprintf(
			"I don't have any diagrams or component images for TV model '%s' in my current knowledge base. Is there anything else I can help with?", model))
	}
	sess.FocusImages = images

	keys := make([]string, 0, len(images))
	for key := range images {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	o.logger.Printf("session %s: media request %.50q for model %s, %d assets", sess.ID, query, model, len(keys))

	var b strings.Builder
	fmt.Fprintf(&b, "## Media for TV model %s\n\n", model)
	for _, key := range keys {
		label := strings.ReplaceAll(key, "_", " ")
		fmt.Fprintf(&b, "- **%s**: ![%s](troubleshooting/%s)\n", label, label, images[key])
	}
	b.WriteString("\nLet me know if you'd like troubleshooting steps that reference any of these.")
	return finalReply(b.String())
}
