package dialogue

import (
	"context"
	"fmt"

	"tv-assist-be/pkg/extract"
	"tv-assist-be/pkg/store"
)

// Expectation detail keys.
const (
	detailProblem     = "problem"
	detailMediaQuery  = "media_query"
	detailLastTopic   = "last_topic"
	detailDescription = "description"
	detailModel       = "model"
	detailTargetModel = "target_model"
)

// handleExpectation resolves the user's reply against the pending question.
// Extraction runs as a fast path before the structured classifier. On an
// unclear verdict the expectation is kept and re-asked once; every other
// branch consumes it.
func (o *Orchestrator) handleExpectation(ctx context.Context, sess *store.Session, input string) reply {
	exp := sess.Expectation
	if exp == nil {
		return reply{}
	}
	o.logger.Printf("session %s: resolving expectation %s against %.50q", sess.ID, exp.Kind, input)

	botQuestion := o.expectationContext(sess, exp)
	result := o.gen.ClassifyFollowUp(ctx, input, botQuestion, sess.LanguageName, sess.DialectTag, historyMessages(sess))

	model := result.Model
	if model == "" {
		if extracted, ok := extract.ProductModel(input); ok {
			model = extracted
		}
	}

	if model != "" {
		return o.expectationModelProvided(ctx, sess, exp, model)
	}

	switch result.Intent {
	case FollowUpAffirmative:
		return o.expectationAffirmed(ctx, sess, exp)
	case FollowUpNegative:
		return o.expectationDeclined(ctx, sess, exp)
	case FollowUpProblemSolved:
		sess.ResolveProblem()
		return englishReply("Great to hear it's resolved!\nWhat would you like to do next? Do you have another problem, or a general question?")
	case FollowUpNewTopic:
		sess.ClearExpectation()
		return englishReply("Okay. What would you like to do instead?")
	default:
		// One narrowed re-ask; state untouched so the next turn can still
		// answer the same question.
		return englishReply(o.expectationReprompt(sess, exp))
	}
}

// expectationContext reconstructs what the bot previously asked for the
// classifier prompt.
func (o *Orchestrator) expectationContext(sess *store.Session, exp *store.Expectation) string {
	switch exp.Kind {
	case store.ExpectModelForProblem:
		return fmt.Sprintf("I previously asked for the TV model related to the problem: '%s'.", truncate(exp.Details[detailProblem], 50))
	case store.ExpectModelForMedia:
		return fmt.Sprintf("I previously asked for the TV model to find media for: '%s'.", truncate(exp.Details[detailMediaQuery], 50))
	case store.ExpectElaborationConfirm:
		return fmt.Sprintf("I previously asked if you wanted more details on: '%s'.", truncate(exp.Details[detailLastTopic], 50))
	case store.ExpectNewProblemConfirm:
		model := exp.Details[detailModel]
		if model == "" {
			model = "the current TV"
		}
		return fmt.Sprintf("I asked if you want to focus on a new problem: '%s' for model '%s'.", truncate(exp.Details[detailDescription], 50), model)
	case store.ExpectModelSwitchConfirm:
		return fmt.Sprintf("I asked if you want to switch our focus to TV model '%s'.", exp.Details[detailTargetModel])
	default:
		return "I previously asked for more information or confirmation."
	}
}

func (o *Orchestrator) expectationModelProvided(ctx context.Context, sess *store.Session, exp *store.Expectation, model string) reply {
	sess.ClearExpectation()
	sess.AddRecognizedModel(model)

	switch exp.Kind {
	case store.ExpectModelForProblem:
		if problem := exp.Details[detailProblem]; problem != "" {
			sess.StartFlow(problem, model)
			return o.specificTroubleshoot(ctx, sess, problem)
		}
	case store.ExpectModelForMedia:
		if query := exp.Details[detailMediaQuery]; query != "" {
			sess.SetFocus(model)
			return o.mediaResponse(sess, query)
		}
	}

	sess.SetFocus(model)
	return englishReply(fmt.Sprintf("Okay, I've noted the TV model as '%s'. How can I help you with it?", sess.FocusModel))
}

func (o *Orchestrator) expectationAffirmed(ctx context.Context, sess *store.Session, exp *store.Expectation) reply {
	sess.ClearExpectation()

	switch exp.Kind {
	case store.ExpectElaborationConfirm:
		if topic := exp.Details[detailLastTopic]; topic != "" {
			return o.followUpAnswer(ctx, sess, fmt.Sprintf("Yes, please tell me more about '%s'.", topic))
		}
	case store.ExpectNewProblemConfirm:
		if desc := exp.Details[detailDescription]; desc != "" {
			model := exp.Details[detailModel]
			if model == "" {
				model = sess.FocusModel
			}
			sess.StartFlow(desc, model)
			return o.specificTroubleshoot(ctx, sess, desc)
		}
	case store.ExpectModelSwitchConfirm:
		if target := exp.Details[detailTargetModel]; target != "" {
			sess.SetFocus(target)
			return englishReply(fmt.Sprintf("Okay, we are now focusing on TV model '%s'. How can I assist you with this model?", target))
		}
	}

	return englishReply("Okay, understood. What would you like to do next?")
}

func (o *Orchestrator) expectationDeclined(ctx context.Context, sess *store.Session, exp *store.Expectation) reply {
	sess.ClearExpectation()

	switch exp.Kind {
	case store.ExpectModelForProblem:
		if problem := exp.Details[detailProblem]; problem != "" {
			advice := o.standardAdvice(ctx, sess, problem, false)
			return englishReply(fmt.Sprintf("Okay, we'll proceed without a specific model for now for the issue: '%s'.\n\n%s",
				truncate(problem, 50), advice.text))
		}
	case store.ExpectElaborationConfirm:
		return englishReply("Alright. How else can I assist you?")
	case store.ExpectNewProblemConfirm:
		topic := sess.ProblemDescription
		if topic == "" {
			topic = "the last discussion"
		}
		model := sess.FocusModel
		if model == "" {
			model = "your TV"
		}
		return englishReply(fmt.Sprintf("Okay, we'll stick to our previous topic then: '%s' for model '%s'.", topic, model))
	case store.ExpectModelSwitchConfirm:
		model := sess.FocusModel
		if model == "" {
			model = "our current TV model"
		}
		return englishReply(fmt.Sprintf("Okay, we'll continue focusing on model '%s'. How can I help?", model))
	}

	return englishReply("Okay. What would you like to do instead?")
}

// expectationReprompt narrows the pending question without consuming it.
func (o *Orchestrator) expectationReprompt(sess *store.Session, exp *store.Expectation) string {
	switch exp.Kind {
	case store.ExpectModelForProblem:
		return fmt.Sprintf("I wasn't sure if that was the TV model for the issue: '%s'. Could you please provide the model number, or say 'no' if you don't have it?",
			truncate(exp.Details[detailProblem], 50))
	case store.ExpectModelForMedia:
		query := exp.Details[detailMediaQuery]
		if query == "" {
			query = "your request"
		}
		return fmt.Sprintf("Sorry, I need the TV model to find the media for '%s'. What is the model?", truncate(query, 50))
	case store.ExpectElaborationConfirm:
		topic := exp.Details[detailLastTopic]
		if topic == "" {
			topic = "our last point"
		}
		return fmt.Sprintf("I didn't catch if you wanted more details on '%s'. Please say 'yes' or 'no'.", truncate(topic, 50))
	case store.ExpectNewProblemConfirm:
		desc := exp.Details[detailDescription]
		if desc == "" {
			desc = "the suggested topic"
		}
		return fmt.Sprintf("Sorry, I didn't understand if you want to switch to the new problem: '%s'. Please confirm with 'yes' or 'no'.", truncate(desc, 50))
	case store.ExpectModelSwitchConfirm:
		target := exp.Details[detailTargetModel]
		if target == "" {
			target = "the other model"
		}
		return fmt.Sprintf("I wasn't sure if you wanted to switch to model '%s'? Please say 'yes' or 'no'.", target)
	default:
		// No handler branch for this kind; clear it so the session cannot
		// get stuck.
		o.logger.Printf("session %s: expectation kind %q has no handler, clearing", sess.ID, exp.Kind)
		sess.ClearExpectation()
		return "I'm not sure how to proceed with that. Could you please clarify?"
	}
}
