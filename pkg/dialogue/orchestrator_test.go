package dialogue

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tv-assist-be/pkg/catalog"
	"tv-assist-be/pkg/embedding"
	"tv-assist-be/pkg/language"
	"tv-assist-be/pkg/llm"
	"tv-assist-be/pkg/retrieval"
	"tv-assist-be/pkg/store"
)

// fakeLLM answers each call type with a scripted response, dispatched on the
// system prompt. An empty script means that call type fails.
type fakeLLM struct {
	intentJSON    string
	followUpJSON  string
	ongoingJSON   string
	respondText   string
	translateText string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	system := ""
	if len(history) > 0 && history[0].Role == "system" {
		system = history[0].Content
	}
	pick := func(scripted string) (string, error) {
		if scripted == "" {
			return "", fmt.Errorf("backend unavailable")
		}
		return scripted, nil
	}
	switch {
	case strings.Contains(system, "intent classification assistant"):
		return pick(f.intentJSON)
	case strings.Contains(system, "interpreting the user's response"):
		return pick(f.followUpJSON)
	case strings.Contains(system, "formulating an intermediate ENGLISH"):
		return pick(f.ongoingJSON)
	case strings.Contains(system, "multilingual translator"):
		return pick(f.translateText)
	case strings.Contains(system, "search query titles"):
		return "", fmt.Errorf("hyde unavailable")
	default:
		return pick(f.respondText)
	}
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

// stubEmbedder returns fixed vectors keyed by exact text.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	vec, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: vec},
	}, nil
}

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func newTestOrchestrator(t *testing.T, backend *fakeLLM, records []catalog.Record, vectors map[string][]float32) *Orchestrator {
	t.Helper()
	engine := retrieval.NewEngine(&stubEmbedder{vectors: vectors}, records, discard())
	require.NoError(t, engine.Build())
	resolver := language.NewResolver(language.DefaultKeywords(), nil, 0.7, 2, discard())
	gen := NewGenerator(backend, discard())
	return NewOrchestrator(gen, resolver, language.DefaultKeywords(), engine, records, nil, 5, discard())
}

func defaultRecords() ([]catalog.Record, map[string][]float32) {
	records := []catalog.Record{
		{
			Model:  "EL-32DS4200",
			Issue:  "no picture but sound works",
			Steps:  []string{"Check the backlight", "Check the T-con board"},
			Images: map[string]string{"motherboard": "el32_mb.png"},
		},
	}
	vectors := map[string][]float32{
		"no picture but sound works": {0, 0},
		"my tv has no picture":       {0.1, 0},
	}
	return records, vectors
}

func newEnglishSession() *store.Session {
	return store.NewSession("sess-1", "en", "English", 7, 35)
}

func TestUnrecognizedMentionDoesNotParkSwitch(t *testing.T) {
	backend := &fakeLLM{
		ongoingJSON: `{"kind": "continue", "reply": "Try reseating the LVDS cable.", "problem": null, "model": null}`,
	}
	records, vectors := defaultRecords()
	o := newTestOrchestrator(t, backend, records, vectors)

	sess := newEnglishSession()
	sess.StartFlow("no picture", "EL-32DS4200")

	answer := o.ProcessTurn(context.Background(), sess, "would these steps work on model Y456X1 too?")

	assert.Nil(t, sess.Expectation, "a never-mentioned model must not trigger a switch confirmation")
	assert.Equal(t, "EL-32DS4200", sess.FocusModel)
	assert.Equal(t, "Try reseating the LVDS cable.", answer)
}

func TestRecognizedMentionParksSwitchConfirmation(t *testing.T) {
	backend := &fakeLLM{}
	records, vectors := defaultRecords()
	o := newTestOrchestrator(t, backend, records, vectors)

	sess := newEnglishSession()
	sess.AddRecognizedModel("EL-32DS4200")
	sess.AddRecognizedModel("Y456X1")
	sess.StartFlow("no picture", "EL-32DS4200")

	answer := o.ProcessTurn(context.Background(), sess, "actually what about model Y456X1?")

	require.NotNil(t, sess.Expectation)
	assert.Equal(t, store.ExpectModelSwitchConfirm, sess.Expectation.Kind)
	assert.Equal(t, "Y456X1", sess.Expectation.Details["target_model"])
	assert.Equal(t, "EL-32DS4200", sess.FocusModel, "focus only moves after an explicit yes")
	assert.Contains(t, answer, "Y456X1")
}

func TestProblemSolvedKeepsFocus(t *testing.T) {
	backend := &fakeLLM{
		ongoingJSON: `{"kind": "problem_solved", "reply": "Glad that sorted it out!", "problem": null, "model": null}`,
	}
	records, vectors := defaultRecords()
	o := newTestOrchestrator(t, backend, records, vectors)

	sess := newEnglishSession()
	sess.StartFlow("no picture", "EL-32DS4200")

	answer := o.ProcessTurn(context.Background(), sess, "that fixed it, thanks")

	assert.False(t, sess.InFlow)
	assert.Empty(t, sess.ProblemDescription)
	assert.Equal(t, "EL-32DS4200", sess.FocusModel, "the product survives a solved problem")
	assert.Contains(t, answer, "Glad that sorted it out!")
}

func TestUnclearReplyKeepsExpectation(t *testing.T) {
	backend := &fakeLLM{
		followUpJSON: `{"intent": "unclear_or_other", "extracted_model": null}`,
	}
	records, vectors := defaultRecords()
	o := newTestOrchestrator(t, backend, records, vectors)

	sess := newEnglishSession()
	sess.StartFlow("my tv has no picture", "")
	sess.SetExpectation(store.ExpectModelForProblem, map[string]string{"problem": "my tv has no picture"})

	answer := o.ProcessTurn(context.Background(), sess, "hmm not really sure")

	require.NotNil(t, sess.Expectation, "an unclear reply re-asks without consuming the question")
	assert.Equal(t, store.ExpectModelForProblem, sess.Expectation.Kind)
	assert.Equal(t, "my tv has no picture", sess.Expectation.Details["problem"])
	assert.NotEmpty(t, answer)
}

func TestModelReplyRunsTargetedSearch(t *testing.T) {
	backend := &fakeLLM{
		followUpJSON: `{"intent": "provided_model", "extracted_model": "EL-32DS4200"}`,
		respondText:  "Here is what to do:\n1. **Check the backlight** first.",
	}
	records, vectors := defaultRecords()
	o := newTestOrchestrator(t, backend, records, vectors)

	sess := newEnglishSession()
	sess.StartFlow("my tv has no picture", "")
	sess.SetExpectation(store.ExpectModelForProblem, map[string]string{"problem": "my tv has no picture"})

	answer := o.ProcessTurn(context.Background(), sess, "it's the EL-32DS4200")

	assert.Nil(t, sess.Expectation)
	assert.Equal(t, "EL-32DS4200", sess.FocusModel)
	assert.True(t, sess.InFlow)
	assert.Equal(t, "my tv has no picture", sess.ProblemDescription)
	assert.Contains(t, answer, "Check the backlight")
	assert.Equal(t, "el32_mb.png", sess.FocusImages["motherboard"], "guide media cached on the session")
}

func TestRetrievalMissIsANormalAnswer(t *testing.T) {
	backend := &fakeLLM{
		followUpJSON: `{"intent": "provided_model", "extracted_model": "Z999X1"}`,
	}
	records, vectors := defaultRecords()
	// The query embeds fine but no record for Z999X1 exists.
	vectors["a weird rainbow pattern on screen"] = []float32{0.2, 0}
	o := newTestOrchestrator(t, backend, records, vectors)

	sess := newEnglishSession()
	sess.StartFlow("a weird rainbow pattern on screen", "")
	sess.SetExpectation(store.ExpectModelForProblem, map[string]string{"problem": "a weird rainbow pattern on screen"})

	answer := o.ProcessTurn(context.Background(), sess, "model is Z999X1")

	assert.Contains(t, answer, "couldn't find a specific troubleshooting guide")
	assert.Equal(t, "Z999X1", sess.FocusModel)
	assert.Nil(t, sess.Expectation)
}

func TestClosingTurnEndsSession(t *testing.T) {
	backend := &fakeLLM{}
	records, vectors := defaultRecords()
	o := newTestOrchestrator(t, backend, records, vectors)

	sess := newEnglishSession()
	sess.StartFlow("no picture", "EL-32DS4200")
	sess.AddTurn(store.RoleUser, "hello")

	answer := o.ProcessTurn(context.Background(), sess, "bye")

	assert.Equal(t, "Session ended.", answer, "generation failure degrades to the fixed ack")
	assert.Empty(t, sess.FocusModel)
	assert.False(t, sess.InFlow)
	assert.Empty(t, sess.TurnWindow())
}

func TestClosingRemarkIgnoredWhileExpecting(t *testing.T) {
	backend := &fakeLLM{
		followUpJSON: `{"intent": "negative", "extracted_model": null}`,
		respondText:  "Some general advice.",
	}
	records, vectors := defaultRecords()
	o := newTestOrchestrator(t, backend, records, vectors)

	sess := newEnglishSession()
	sess.SetExpectation(store.ExpectModelForProblem, map[string]string{"problem": "no sound"})

	o.ProcessTurn(context.Background(), sess, "no")

	assert.Nil(t, sess.Expectation, "a negative reply consumes the expectation")
	assert.NotNil(t, sess.RecognizedModels, "session was not reset")
}

func TestInitialTroubleshootWithoutModelParksExpectation(t *testing.T) {
	backend := &fakeLLM{
		intentJSON:  `{"intent": "standard_tv_troubleshooting", "extracted_model": null}`,
		respondText: "General advice: check the power cable. What is your TV model number?",
	}
	records, vectors := defaultRecords()
	o := newTestOrchestrator(t, backend, records, vectors)

	sess := newEnglishSession()
	answer := o.ProcessTurn(context.Background(), sess, "my tv won't show anything")

	require.NotNil(t, sess.Expectation)
	assert.Equal(t, store.ExpectModelForProblem, sess.Expectation.Kind)
	assert.True(t, sess.InFlow)
	assert.Contains(t, answer, "model")
}

func TestMediaRequestWithoutModelAsksForOne(t *testing.T) {
	backend := &fakeLLM{
		intentJSON: `{"intent": "media_request_generic", "extracted_model": null}`,
	}
	records, vectors := defaultRecords()
	o := newTestOrchestrator(t, backend, records, vectors)

	sess := newEnglishSession()
	answer := o.ProcessTurn(context.Background(), sess, "show me the motherboard diagram")

	require.NotNil(t, sess.Expectation)
	assert.Equal(t, store.ExpectModelForMedia, sess.Expectation.Kind)
	assert.Contains(t, answer, "Which TV model")
}

func TestMediaResponseRendersMarkdown(t *testing.T) {
	backend := &fakeLLM{
		followUpJSON: `{"intent": "provided_model", "extracted_model": "EL-32DS4200"}`,
	}
	records, vectors := defaultRecords()
	o := newTestOrchestrator(t, backend, records, vectors)

	sess := newEnglishSession()
	sess.SetExpectation(store.ExpectModelForMedia, map[string]string{"media_query": "motherboard image"})

	answer := o.ProcessTurn(context.Background(), sess, "EL-32DS4200")

	assert.Contains(t, answer, "## Media for TV model EL-32DS4200")
	assert.Contains(t, answer, "![motherboard](troubleshooting/el32_mb.png)")
}

func TestIntentFailureFallsBackToExtraction(t *testing.T) {
	backend := &fakeLLM{} // every call fails
	records, vectors := defaultRecords()
	o := newTestOrchestrator(t, backend, records, vectors)

	sess := newEnglishSession()
	answer := o.ProcessTurn(context.Background(), sess, "model is EL-32DS4200")

	assert.Equal(t, "EL-32DS4200", sess.FocusModel, "regex extraction still recognizes the model")
	assert.Contains(t, answer, "EL-32DS4200")
}
