package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	return NewSession("test-session", "en", "English", 7, 35)
}

func TestAddRecognizedModel(t *testing.T) {
	s := newTestSession()

	s.AddRecognizedModel(" el-32ds4200 ")
	assert.Equal(t, []string{"EL-32DS4200"}, s.RecognizedModels)
	assert.Equal(t, "EL-32DS4200", s.FocusModel, "first model becomes focus")

	s.AddRecognizedModel("EL-32DS4200")
	assert.Len(t, s.RecognizedModels, 1, "duplicates are ignored")

	s.AddRecognizedModel("X123-A")
	assert.Len(t, s.RecognizedModels, 2)
	assert.Equal(t, "EL-32DS4200", s.FocusModel, "later models do not steal focus")
	assert.True(t, s.IsRecognized("x123-a"))
	assert.False(t, s.IsRecognized("Y456"))
}

func TestSetFocusClearsProblemExactlyOnce(t *testing.T) {
	s := newTestSession()
	s.AddRecognizedModel("EL-32DS4200")
	s.StartFlow("no picture", "EL-32DS4200")
	s.FocusImages = map[string]string{"motherboard": "mb.png"}

	// Same model again must not disturb the running flow.
	s.SetFocus("EL-32DS4200")
	assert.True(t, s.InFlow)
	assert.Equal(t, "no picture", s.ProblemDescription)
	assert.NotNil(t, s.FocusImages)

	// A genuine switch resets the flow context.
	s.SetFocus("X123-A")
	assert.Equal(t, "X123-A", s.FocusModel)
	assert.False(t, s.InFlow)
	assert.Empty(t, s.ProblemDescription)
	assert.Nil(t, s.FocusImages)
	assert.True(t, s.IsRecognized("EL-32DS4200"), "old model stays recognized")
}

func TestExpectationLifecycle(t *testing.T) {
	s := newTestSession()

	s.SetExpectation(ExpectModelForProblem, map[string]string{"problem": "no sound"})
	require.NotNil(t, s.Expectation)

	// Setting another replaces it; at most one is ever pending.
	s.SetExpectation(ExpectModelForMedia, map[string]string{"media_query": "diagram"})
	require.NotNil(t, s.Expectation)
	assert.Equal(t, ExpectModelForMedia, s.Expectation.Kind)

	taken := s.TakeExpectation()
	require.NotNil(t, taken)
	assert.Equal(t, ExpectModelForMedia, taken.Kind)
	assert.Nil(t, s.Expectation)

	// StartFlow consumes any pending expectation.
	s.SetExpectation(ExpectNewProblemConfirm, nil)
	s.StartFlow("flickering", "EL-32DS4200")
	assert.Nil(t, s.Expectation)
	assert.True(t, s.InFlow)
}

func TestResolveProblemKeepsFocus(t *testing.T) {
	s := newTestSession()
	s.StartFlow("no picture", "EL-32DS4200")
	s.SetExpectation(ExpectElaborationConfirm, nil)

	s.ResolveProblem()

	assert.False(t, s.InFlow)
	assert.Empty(t, s.ProblemDescription)
	assert.Nil(t, s.Expectation)
	assert.Equal(t, "EL-32DS4200", s.FocusModel)
	assert.True(t, s.IsRecognized("EL-32DS4200"))
}

func TestEndResetsEverything(t *testing.T) {
	s := newTestSession()
	s.StartFlow("no picture", "EL-32DS4200")
	s.AddTurn(RoleUser, "hello")
	s.AddTurn(RoleAssistant, "hi")
	s.SetExpectation(ExpectModelSwitchConfirm, nil)

	s.End()

	assert.Empty(t, s.RecognizedModels)
	assert.Empty(t, s.FocusModel)
	assert.False(t, s.InFlow)
	assert.Empty(t, s.ProblemDescription)
	assert.Nil(t, s.Expectation)
	assert.Empty(t, s.TurnWindow())
	assert.Empty(t, s.UIHistory())
}

func TestTurnWindowEviction(t *testing.T) {
	s := NewSession("test-session", "en", "English", 2, 6)

	for i := 0; i < 5; i++ {
		s.AddTurn(RoleUser, fmt.Sprintf("question %d", i))
		s.AddTurn(RoleAssistant, fmt.Sprintf("answer %d", i))
	}

	window := s.TurnWindow()
	require.Len(t, window, 4, "window holds 2 exchanges = 4 messages")
	assert.Equal(t, "question 3", window[0].Content, "oldest messages evicted first")
	assert.Equal(t, "answer 4", window[3].Content)

	history := s.UIHistory()
	require.Len(t, history, 6)
	assert.Equal(t, "question 2", history[0].Content)
}

func TestAddTurnSkipsEmptyContent(t *testing.T) {
	s := newTestSession()
	s.AddTurn(RoleUser, "   ")
	assert.Empty(t, s.TurnWindow())
	assert.Empty(t, s.UIHistory())
}
