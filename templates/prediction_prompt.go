package templates

import (
	"strings"
	"text/template"
)

// PredictionSystemPrompt fixes the answer contract of the price analyst model
const PredictionSystemPrompt = `You are a flight fare analyst. You receive the observed price history of one route and forecast where fares are heading.
Answer with exactly one JSON object and nothing else, using this shape:
{"trend":"increasing|decreasing|stable","forecast":{"in7Days":number,"in14Days":number,"in30Days":number},"recommendation":"book_now|wait|monitor","confidence":"low|medium|high","rationale":"at most two sentences"}
Forecast values are total fares in the currency of the history. Never invent data that is not in the history.`

// PredictionPoint is one history row shown to the model
type PredictionPoint struct {
	SearchDate          string
	AvgPrice            float64
	MinPrice            float64
	MaxPrice            float64
	SampleSize          int
	DaysBeforeDeparture int
}

// PredictionPromptData feeds the user prompt
type PredictionPromptData struct {
	Route         string
	CabinClass    string
	DepartureDate string
	Currency      string
	Mean          float64
	Latest        float64
	Points        []PredictionPoint
}

var predictionPrompt = template.Must(template.New("prediction").Parse(`Route: {{.Route}}
Cabin: {{if .CabinClass}}{{.CabinClass}}{{else}}any{{end}}
Departure date: {{if .DepartureDate}}{{.DepartureDate}}{{else}}flexible{{end}}
Currency: {{.Currency}}
Historical mean of average prices: {{printf "%.2f" .Mean}}
Latest average price: {{printf "%.2f" .Latest}}

History (oldest first):
searchDate,avgPrice,minPrice,maxPrice,sampleSize,daysBeforeDeparture
{{range .Points}}{{.SearchDate}},{{printf "%.2f" .AvgPrice}},{{printf "%.2f" .MinPrice}},{{printf "%.2f" .MaxPrice}},{{.SampleSize}},{{.DaysBeforeDeparture}}
{{end}}`))

// RenderPredictionPrompt builds the user prompt for a route history
func RenderPredictionPrompt(data PredictionPromptData) (string, error) {
	var sb strings.Builder
	if err := predictionPrompt.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
