package language

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tv-assist-be/pkg/dialect"
)

// fakeDetector returns a scripted verdict and records whether it was called.
type fakeDetector struct {
	detection *dialect.Detection
	err       error
	called    bool
}

func (f *fakeDetector) Detect(ctx context.Context, text string) (*dialect.Detection, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return f.detection, nil
}

func newTestResolver(service dialect.Detector) *Resolver {
	return NewResolver(DefaultKeywords(), service, 0.7, 2, log.New(io.Discard, "", 0))
}

func TestExplicitRequests(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCode string
		wantTag  string
	}{
		{"french request", "peux-tu répondre en français ?", "fr", TagFrenchRequest},
		{"english request", "please answer in english", "en", TagEnglishRequest},
		{"msa request", "أجبني بالفصحى من فضلك", "ar", TagArabicMSARequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(nil)
			res := r.Resolve(context.Background(), tt.text)
			assert.Equal(t, tt.wantCode, res.LanguageCode)
			assert.Equal(t, tt.wantTag, res.DialectTag)
			assert.True(t, res.ExplicitRequest())
		})
	}
}

func TestDarijaExplicitRequestOverridesService(t *testing.T) {
	// Even a "not darija" verdict cannot override the user's explicit ask.
	service := &fakeDetector{detection: &dialect.Detection{IsMatch: false, Confidence: 0.9}}
	r := newTestResolver(service)

	res := r.Resolve(context.Background(), "goul liya bel darija")
	assert.Equal(t, "ar", res.LanguageCode)
	assert.Equal(t, TagDarijaExplicitRequest, res.DialectTag)
	assert.True(t, res.ExplicitRequest())
	assert.True(t, service.called)
}

func TestDarijaExplicitRequestServiceConfirmation(t *testing.T) {
	service := &fakeDetector{detection: &dialect.Detection{IsMatch: true, Confidence: 0.95}}
	r := newTestResolver(service)

	res := r.Resolve(context.Background(), "hder bedarija afak")
	assert.Equal(t, "ar", res.LanguageCode)
	assert.Equal(t, TagDarijaConfirmedExplicitRequest, res.DialectTag)
	require.NotNil(t, res.Detection)
	assert.True(t, res.Detection.IsMatch)
}

func TestIndicatorScoringTriggersService(t *testing.T) {
	// Two Latin indicators hit the threshold; confirmed verdict yields darija.
	service := &fakeDetector{detection: &dialect.Detection{IsMatch: true, Confidence: 0.9}}
	r := newTestResolver(service)

	res := r.Resolve(context.Background(), "wach kayn chi solution for my tv")
	assert.True(t, service.called)
	assert.Equal(t, "ar", res.LanguageCode)
	assert.Equal(t, TagDarijaConfirmed, res.DialectTag)
}

func TestIndicatorScoringServiceUnavailable(t *testing.T) {
	// Indicators alone carry the decision when the service errors out.
	service := &fakeDetector{err: fmt.Errorf("connection refused")}
	r := newTestResolver(service)

	res := r.Resolve(context.Background(), "wach kayn chi solution for my tv")
	assert.Equal(t, "ar", res.LanguageCode)
	assert.Equal(t, TagDarijaHeuristicOnly, res.DialectTag)
	assert.Nil(t, res.Detection)
}

func TestLowConfidenceVerdictIsInconclusive(t *testing.T) {
	service := &fakeDetector{detection: &dialect.Detection{IsMatch: true, Confidence: 0.4}}
	r := newTestResolver(service)

	res := r.Resolve(context.Background(), "wach kayn chi solution for my tv")
	assert.Equal(t, "ar", res.LanguageCode)
	assert.Equal(t, TagDarijaHeuristicInconclusive, res.DialectTag)
}

func TestPlainEnglishDefault(t *testing.T) {
	service := &fakeDetector{detection: &dialect.Detection{IsMatch: true, Confidence: 0.99}}
	r := newTestResolver(service)

	res := r.Resolve(context.Background(), "my television screen went completely black yesterday")
	assert.Equal(t, "en", res.LanguageCode)
	assert.Empty(t, res.DialectTag)
	assert.False(t, service.called, "no indicators, no Arabic: service stays untouched")
}

func TestShortTextDelegation(t *testing.T) {
	service := &fakeDetector{detection: &dialect.Detection{IsMatch: true, Confidence: 0.85}}
	r := newTestResolver(service)

	res := r.Resolve(context.Background(), "ih")
	assert.True(t, service.called)
	assert.Equal(t, "ar", res.LanguageCode)
	assert.Equal(t, TagDarijaConfirmedShortText, res.DialectTag)
}

func TestNilServiceNeverPanics(t *testing.T) {
	r := newTestResolver(nil)
	res := r.Resolve(context.Background(), "wach kayn chi solution wach wach")
	assert.Equal(t, "ar", res.LanguageCode)
	assert.Equal(t, TagDarijaHeuristicOnly, res.DialectTag)
}

func TestLoadKeywordsFallbacks(t *testing.T) {
	kw, err := LoadKeywords("")
	require.NoError(t, err)
	assert.NotEmpty(t, kw.DarijaIndicatorsLatin)

	kw, err = LoadKeywords("/nonexistent/keywords.json")
	assert.Error(t, err)
	require.NotNil(t, kw, "defaults still returned on read failure")
	assert.NotEmpty(t, kw.ExplicitRequests)
}

func TestLocalizedFallsBackToEnglish(t *testing.T) {
	kw := DefaultKeywords()
	assert.Equal(t, kw.ResetKeywords("en"), kw.ResetKeywords("de"))
	assert.NotEmpty(t, kw.ClosingRemarks("fr"))
	assert.NotEmpty(t, kw.ListIssuesKeywords("ar"))
}
