package usecase_test

import (
	"testing"

	"recruitment-portal-backend/internal/domain"
	"recruitment-portal-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func weldingJob() *domain.Job {
	return &domain.Job{
		ID:                     10,
		Title:                  "Welder (Overseas)",
		Countries:              []string{"UK", "Germany", "UAE"},
		Trades:                 []string{"Welding", "Pipefitting", "Rigging"},
		MaxCountriesSelectable: 2,
		MaxTradesSelectable:    1,
	}
}

func TestPreferenceToggle(t *testing.T) {
	engine := usecase.NewPreferenceEngine()
	job := weldingJob()

	t.Run("Should add a country from the allowed list", func(t *testing.T) {
		d := engine.ToggleCountry([]string{}, "UK", job)
		assert.True(t, d.Allowed)
		assert.Equal(t, []string{"UK"}, d.Selection)
	})

	t.Run("Should reject a country outside the allowed list", func(t *testing.T) {
		d := engine.ToggleCountry([]string{"UK"}, "France", job)
		assert.False(t, d.Allowed)
		assert.Equal(t, []string{"UK"}, d.Selection)
		assert.Equal(t, `"France" is not offered for this job`, d.Reason)
	})

	t.Run("Should reject adding beyond the country maximum", func(t *testing.T) {
		d := engine.ToggleCountry([]string{"UK", "Germany"}, "UAE", job)
		assert.False(t, d.Allowed)
		assert.Equal(t, []string{"UK", "Germany"}, d.Selection)
		assert.Equal(t, "You can select up to 2 countries for this job", d.Reason)
	})

	t.Run("Should use singular noun when maximum is one", func(t *testing.T) {
		d := engine.ToggleTrade([]string{"Welding"}, "Rigging", job)
		assert.False(t, d.Allowed)
		assert.Equal(t, "You can select up to 1 trade for this job", d.Reason)
	})

	t.Run("Should always allow removing a selected entry, even at the maximum", func(t *testing.T) {
		d := engine.ToggleCountry([]string{"UK", "Germany"}, "UK", job)
		assert.True(t, d.Allowed)
		assert.Equal(t, []string{"Germany"}, d.Selection)
	})

	t.Run("Should allow adding again after a removal frees a slot", func(t *testing.T) {
		current := []string{"UK", "Germany"}
		d := engine.ToggleCountry(current, "Germany", job)
		assert.True(t, d.Allowed)
		d = engine.ToggleCountry(d.Selection, "UAE", job)
		assert.True(t, d.Allowed)
		assert.Equal(t, []string{"UK", "UAE"}, d.Selection)
	})
}

func TestPreferenceReconcile(t *testing.T) {
	engine := usecase.NewPreferenceEngine()

	t.Run("Should purge entries the new job does not offer", func(t *testing.T) {
		sel := &domain.PreferenceSelection{
			Countries: []string{"UK", "France", "Germany"},
			Trades:    []string{"Masonry", "Welding"},
		}
		engine.ReconcileWithJob(sel, weldingJob())
		assert.Equal(t, []string{"UK", "Germany"}, sel.Countries)
		assert.Equal(t, []string{"Welding"}, sel.Trades)
	})

	t.Run("Should trim to the new job's maxima preserving order", func(t *testing.T) {
		job := weldingJob()
		job.MaxCountriesSelectable = 1
		sel := &domain.PreferenceSelection{Countries: []string{"Germany", "UK"}}
		engine.ReconcileWithJob(sel, job)
		assert.Equal(t, []string{"Germany"}, sel.Countries)
	})

	t.Run("Should follow the applied-for trade when the first trade is purged", func(t *testing.T) {
		sel := &domain.PreferenceSelection{Trades: []string{"Masonry", "Welding"}}
		assert.Equal(t, "Masonry", sel.TradeAppliedFor())
		engine.ReconcileWithJob(sel, weldingJob())
		assert.Equal(t, "Welding", sel.TradeAppliedFor())
	})
}

func TestPreferenceValidate(t *testing.T) {
	engine := usecase.NewPreferenceEngine()
	job := weldingJob()

	t.Run("Should accept a selection within all limits", func(t *testing.T) {
		err := engine.Validate([]string{"UK", "UAE"}, []string{"Pipefitting"}, job)
		assert.NoError(t, err)
	})

	t.Run("Should reject a selection over the maximum", func(t *testing.T) {
		err := engine.Validate([]string{"UK", "Germany", "UAE"}, nil, job)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "up to 2 countries")
	})

	t.Run("Should reject duplicates", func(t *testing.T) {
		err := engine.Validate([]string{"UK", "UK"}, nil, job)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unique")
	})

	t.Run("Should reject an entry outside the allowed list", func(t *testing.T) {
		err := engine.Validate(nil, []string{"Carpentry"}, job)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not offered")
	})
}
