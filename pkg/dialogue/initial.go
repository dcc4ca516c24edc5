package dialogue

import (
	"context"
	"fmt"
	"strings"

	"tv-assist-be/pkg/extract"
	"tv-assist-be/pkg/store"
)

// handleInitial classifies a turn arriving with no pending expectation and
// no active flow, and dispatches to the matching handler. Extraction backs
// up the classifier whenever its own model is absent or invalid.
func (o *Orchestrator) handleInitial(ctx context.Context, sess *store.Session, input string) reply {
	result, err := o.gen.ClassifyIntent(ctx, input, sess.LanguageName, sess.DialectTag, historySummary(sess))
	if err != nil {
		o.logger.Printf("session %s: intent classification failed: %v", sess.ID, err)
		if model, ok := extract.ProductModel(input); ok {
			sess.AddRecognizedModel(model)
			return englishReply(fmt.Sprintf("I recognized TV model '%s'. How can I help you with this model?", sess.FocusModel))
		}
		return englishReply(fallbackUnderstand)
	}

	if result.Model != "" {
		sess.AddRecognizedModel(result.Model)
	}
	if sess.FocusModel == "" &&
		(result.Intent == IntentTroubleshootModel || result.Intent == IntentMediaWithModel) {
		if model, ok := extract.ProductModel(input); ok {
			sess.AddRecognizedModel(model)
		}
	}

	o.logger.Printf("session %s: intent=%s model=%q focus=%q", sess.ID, result.Intent, result.Model, sess.FocusModel)

	switch result.Intent {
	case IntentTroubleshootModel:
		if sess.FocusModel != "" {
			sess.StartFlow(input, sess.FocusModel)
			return o.specificTroubleshoot(ctx, sess, input)
		}
		return o.troubleshootWithoutModel(ctx, sess, input)

	case IntentTroubleshootNoModel:
		return o.troubleshootWithoutModel(ctx, sess, input)

	case IntentMediaWithModel:
		if sess.FocusModel != "" {
			sess.StartFlow("Media request: "+truncate(input, 30), sess.FocusModel)
			return o.mediaResponse(sess, input)
		}
		return o.askModelForMedia(sess, input)

	case IntentMediaNoModel:
		return o.askModelForMedia(sess, input)

	case IntentGeneralQuestion:
		return o.generalAnswer(ctx, sess, input)

	case IntentFollowUpNoContext:
		if len(strings.Fields(strings.TrimSpace(input))) <= 2 {
			return englishReply("I'm not sure what that refers to. Could you please provide more context or ask a full question?")
		}
		return o.generalAnswer(ctx, sess, input)

	default:
		answer := o.generalAnswer(ctx, sess, input)
		if answer.text == "" || answer.text == fallbackRephrase {
			return englishReply("I'm not quite sure how to help with that. Could you try rephrasing your request, or tell me if you're looking for TV troubleshooting help or general information?")
		}
		return answer
	}
}

// troubleshootWithoutModel starts a model-less flow: generic advice plus a
// parked model_for_problem expectation.
func (o *Orchestrator) troubleshootWithoutModel(ctx context.Context, sess *store.Session, problem string) reply {
	sess.StartFlow(problem, "")
	advice := o.standardAdvice(ctx, sess, problem, true)
	sess.SetExpectation(store.ExpectModelForProblem, map[string]string{detailProblem: problem})
	return advice
}

// askModelForMedia parks a model_for_media expectation before any media
// lookup can run.
func (o *Orchestrator) askModelForMedia(sess *store.Session, query string) reply {
	sess.SetExpectation(store.ExpectModelForMedia, map[string]string{detailMediaQuery: query})
	return englishReply(fmt.Sprintf("I can help with images or component lists. Which TV model are you asking about for '%s'?", truncate(query, 30)))
}
