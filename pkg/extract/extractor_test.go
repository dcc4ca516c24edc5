package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductModel(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantModel string
		wantFound bool
	}{
		{
			name:      "model keyword phrase",
			text:      "the model is X123-A",
			wantModel: "X123-A",
			wantFound: true,
		},
		{
			name:      "model number keyword",
			text:      "my tv model number is EL.RT2864-FG48 and it won't turn on",
			wantModel: "EL.RT2864-FG48",
			wantFound: true,
		},
		{
			name:      "tv keyword phrase",
			text:      "my tv UA55C300 has no sound",
			wantModel: "UA55C300",
			wantFound: true,
		},
		{
			name:      "bare token with letters and digits",
			text:      "EL-32DS4200 screen flickers",
			wantModel: "EL-32DS4200",
			wantFound: true,
		},
		{
			name:      "lowercase input is uppercased",
			text:      "model is qn65q80",
			wantModel: "QN65Q80",
			wantFound: true,
		},
		{
			name:      "plain question yields nothing",
			text:      "why does my screen go black sometimes?",
			wantFound: false,
		},
		{
			name:      "affirmative reply yields nothing",
			text:      "yes please",
			wantFound: false,
		},
		{
			name:      "brand alone is not a model",
			text:      "I have a Samsung TV",
			wantFound: false,
		},
		{
			name:      "small number is not a model",
			text:      "channel 105 is broken",
			wantFound: false,
		},
		{
			name:      "hdmi term is not a model",
			text:      "the HDMI input stopped working",
			wantFound: false,
		},
		{
			name:      "empty input",
			text:      "   ",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ProductModel(tt.text)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.wantModel, got)
			}
		})
	}
}

func TestProductModelDeterministic(t *testing.T) {
	text := "is it the EL-32DS4200 or something else, model is EL-32DS4200 anyway"
	first, found := ProductModel(text)
	assert.True(t, found)
	for i := 0; i < 10; i++ {
		again, ok := ProductModel(text)
		assert.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestIsCommonWord(t *testing.T) {
	assert.True(t, IsCommonWord("hdmi"))
	assert.True(t, IsCommonWord("Samsung"))
	assert.True(t, IsCommonWord("42"))
	assert.False(t, IsCommonWord("EL-32DS4200"))
}

func TestExcludeToken(t *testing.T) {
	assert.True(t, excludeToken("A.B.C.D.E1"), "too many dots")
	assert.True(t, excludeToken("_X123"), "leading underscore")
	assert.True(t, excludeToken("X123-"), "trailing dash")
	assert.True(t, excludeToken("1234"), "short all-digit run")
	assert.False(t, excludeToken("EL-32DS4200"))
}
