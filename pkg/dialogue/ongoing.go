package dialogue

import (
	"context"
	"fmt"
	"strings"

	"tv-assist-be/pkg/extract"
	"tv-assist-be/pkg/store"
)

// handleOngoing processes a turn inside an active session (flow running or
// focus set, no pending expectation).
func (o *Orchestrator) handleOngoing(ctx context.Context, sess *store.Session, input string) reply {
	// A mention of a different, already-recognized model parks a switch
	// confirmation before touching any state. Unrecognized mentions never
	// trigger the confirmation.
	if mentioned, ok := extract.ProductModel(input); ok {
		if sess.FocusModel != "" && mentioned != sess.FocusModel && sess.IsRecognized(mentioned) {
			o.logger.Printf("session %s: mention of recognized model %s while focused on %s, asking to confirm switch",
				sess.ID, mentioned, sess.FocusModel)
			sess.SetExpectation(store.ExpectModelSwitchConfirm, map[string]string{
				detailTargetModel: mentioned,
				"original_query":  input,
			})
			return englishReply(fmt.Sprintf(
				"I see you mentioned TV model '%s'. We are currently focused on model '%s'. Would you like to switch our focus to '%s' to address your query about '%s'? (yes/no)",
				mentioned, sess.FocusModel, mentioned, truncate(strings.TrimSpace(input), 50)))
		}
		if sess.FocusModel == "" && sess.IsRecognized(mentioned) {
			sess.SetFocus(mentioned)
		}
	}

	// Direct ask for every documented issue of the focus model.
	if sess.FocusModel != "" && o.wantsIssueList(sess, input) {
		return o.listAllIssues(sess)
	}

	if !sess.InFlow && sess.FocusModel == "" {
		// Context evaporated; treat as a general question.
		return o.generalAnswer(ctx, sess, input)
	}

	outcome, err := o.gen.AnalyzeOngoing(ctx, input, sess.FocusModel, sess.ProblemDescription,
		lastAssistantMessage(sess), historyMessages(sess))
	if err != nil {
		o.logger.Printf("session %s: ongoing analysis failed: %v", sess.ID, err)
		model := sess.FocusModel
		if model == "" {
			model = "your TV"
		}
		topic := sess.ProblemDescription
		if topic == "" {
			topic = "our topic"
		}
		return englishReply(fmt.Sprintf("I'm having a bit of trouble with that follow-up for model '%s' regarding '%s'. Could you rephrase?", model, topic))
	}

	switch outcome.Kind {
	case OutcomeGeneralAside:
		// Answer the aside, then offer to resume the parked flow. State is
		// deliberately untouched.
		return englishReply(outcome.Reply + o.resumeOffer(sess))

	case OutcomeProblemSolved:
		sess.ResolveProblem()
		ack := outcome.Reply
		if ack == "" {
			ack = "Great to hear it's resolved!"
		}
		return englishReply(ack + "\nWhat would you like to do next? Do you have another problem, or a general question?")

	case OutcomeNewProblem:
		return o.suggestNewProblem(sess, outcome)

	case OutcomeMediaRequest:
		return o.mediaResponse(sess, input)

	default:
		if outcome.Reply == "" {
			return englishReply(fallbackRephrase)
		}
		return englishReply(outcome.Reply)
	}
}

// suggestNewProblem parks a new_problem confirmation; focus only moves after
// an explicit yes.
func (o *Orchestrator) suggestNewProblem(sess *store.Session, outcome *TurnOutcome) reply {
	desc := outcome.Problem
	if desc == "" {
		desc = truncate(outcome.Reply, 60)
	}
	model := outcome.Model
	if model == "" {
		model = sess.FocusModel
	}
	if model == "" {
		return englishReply(outcome.Reply + " It sounds like you might be describing a new issue. Could you tell me more about it, and if it relates to a specific TV model?")
	}

	sess.AddRecognizedModel(model)
	sess.SetExpectation(store.ExpectNewProblemConfirm, map[string]string{
		detailDescription: desc,
		detailModel:       model,
	})
	return englishReply(fmt.Sprintf("%s It sounds like you might be describing a new issue: '%s' (for model '%s'). Would you like to focus on that now? (yes/no)",
		outcome.Reply, desc, model))
}

// resumeOffer builds the English tail that points the user back to the
// parked context after a general aside.
func (o *Orchestrator) resumeOffer(sess *store.Session) string {
	if sess.InFlow && sess.FocusModel != "" && sess.ProblemDescription != "" {
		return fmt.Sprintf("\n\nNow, back to our troubleshooting for TV model '%s' regarding '%s'. Where were we, or what's the next step?",
			sess.FocusModel, truncate(sess.ProblemDescription, 50))
	}
	if sess.FocusModel != "" {
		return fmt.Sprintf("\n\nRegarding TV model '%s', is there anything specific you'd like to discuss or troubleshoot?", sess.FocusModel)
	}
	return "\n\nIs there anything else I can help you with today?"
}

func (o *Orchestrator) wantsIssueList(sess *store.Session, input string) bool {
	lowered := strings.ToLower(input)
	for _, kw := range o.keywords.ListIssuesKeywords(sess.LanguageCode) {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
