package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validParams() SearchParams {
	return SearchParams{
		Origin:        " par",
		Destination:   "nyc ",
		DepartureDate: time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestSearchParamsNormalize(t *testing.T) {
	p := validParams()
	p.Normalize("eur")

	assert.Equal(t, "PAR", p.Origin)
	assert.Equal(t, "NYC", p.Destination)
	assert.Equal(t, 1, p.Adults)
	assert.Equal(t, CabinEconomy, p.CabinClass)
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, "PAR-NYC", p.Route().String())
	assert.NoError(t, p.Validate())
}

func TestSearchParamsNormalizeCanonicalizesCabin(t *testing.T) {
	for raw, want := range map[CabinClass]CabinClass{
		"business":         CabinBusiness,
		" Premium_Economy": CabinPremiumEconomy,
		"FIRST":            CabinFirst,
	} {
		p := validParams()
		p.CabinClass = raw
		p.Normalize("EUR")
		assert.Equal(t, want, p.CabinClass, string(raw))
		assert.NoError(t, p.Validate())
	}

	p := validParams()
	p.CabinClass = "sofa"
	p.Normalize("EUR")
	assert.Equal(t, CabinClass("sofa"), p.CabinClass)
	assert.Error(t, p.Validate())
}

func TestSearchParamsValidate(t *testing.T) {
	before := time.Date(2026, 11, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mutate    func(p *SearchParams)
		wantField string
	}{
		{"bad origin", func(p *SearchParams) { p.Origin = "PARIS" }, "origin"},
		{"bad destination", func(p *SearchParams) { p.Destination = "N1C" }, "destination"},
		{"same airports", func(p *SearchParams) { p.Destination = "PAR" }, "destination"},
		{"no date", func(p *SearchParams) { p.DepartureDate = time.Time{} }, "departureDate"},
		{"return before departure", func(p *SearchParams) { p.ReturnDate = &before }, "returnDate"},
		{"children only", func(p *SearchParams) { p.Adults, p.Children = 0, 2 }, "adults"},
		{"infant without lap", func(p *SearchParams) { p.Infants = 2 }, "infants"},
		{"too many", func(p *SearchParams) { p.Adults = 8; p.Children = 2 }, "travelers"},
		{"unknown cabin", func(p *SearchParams) { p.CabinClass = "SOFA" }, "cabinClass"},
		{"negative max", func(p *SearchParams) { p.MaxResults = -1 }, "maxResults"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			p.Normalize("EUR")
			tt.mutate(&p)

			err := p.Validate()
			var verr *ValidationError
			if assert.ErrorAs(t, err, &verr) {
				assert.Equal(t, tt.wantField, verr.Field)
			}
		})
	}
}

func TestIsIATACode(t *testing.T) {
	assert.True(t, IsIATACode("CDG"))
	assert.False(t, IsIATACode("cdg"))
	assert.False(t, IsIATACode("CD"))
	assert.False(t, IsIATACode("CDG1"))
}
