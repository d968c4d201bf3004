package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPredictionPrompt(t *testing.T) {
	prompt, err := RenderPredictionPrompt(PredictionPromptData{
		Route:    "PAR-NYC",
		Currency: "EUR",
		Mean:     122.1,
		Latest:   146.41,
		Points: []PredictionPoint{
			{SearchDate: "2026-10-01", AvgPrice: 100, MinPrice: 80, MaxPrice: 130, SampleSize: 12, DaysBeforeDeparture: 50},
			{SearchDate: "2026-10-02", AvgPrice: 110, MinPrice: 90, MaxPrice: 140, SampleSize: 9, DaysBeforeDeparture: 49},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Route: PAR-NYC")
	assert.Contains(t, prompt, "Cabin: any")
	assert.Contains(t, prompt, "Departure date: flexible")
	assert.Contains(t, prompt, "Latest average price: 146.41")
	assert.Contains(t, prompt, "2026-10-01,100.00,80.00,130.00,12,50")
	assert.Contains(t, prompt, "2026-10-02,110.00,90.00,140.00,9,49")
}
