package usecase

import (
	"fmt"

	"recruitment-portal-backend/internal/domain"
)

// PreferenceDecision is the outcome of one toggle attempt. Selection carries
// the resulting list; on a reject it is the unchanged input.
type PreferenceDecision struct {
	Allowed   bool     `json:"allowed"`
	Selection []string `json:"selection"`
	Reason    string   `json:"reason,omitempty"`
}

// PreferenceEngine validates country/trade toggles against a job's allowed
// lists and per-job maxima, and reconciles stale selections when the job
// context changes. Pure logic: reads only its arguments, returns a decision,
// no side effects.
type PreferenceEngine struct{}

func NewPreferenceEngine() *PreferenceEngine {
	return &PreferenceEngine{}
}

// ToggleCountry applies one country toggle for the given job.
func (e *PreferenceEngine) ToggleCountry(current []string, value string, job *domain.Job) PreferenceDecision {
	return e.toggle(current, value, job.Countries, job.MaxCountriesSelectable, "country", "countries")
}

// ToggleTrade applies one trade toggle for the given job.
func (e *PreferenceEngine) ToggleTrade(current []string, value string, job *domain.Job) PreferenceDecision {
	return e.toggle(current, value, job.Trades, job.MaxTradesSelectable, "trade", "trades")
}

// toggle removes value when already selected (always allowed), otherwise adds
// it when it belongs to the allowed list and the selection is under max.
func (e *PreferenceEngine) toggle(current []string, value string, allowed []string, max int, singular, plural string) PreferenceDecision {
	for i, v := range current {
		if v == value {
			next := make([]string, 0, len(current)-1)
			next = append(next, current[:i]...)
			next = append(next, current[i+1:]...)
			return PreferenceDecision{Allowed: true, Selection: next}
		}
	}

	if !containsString(allowed, value) {
		return PreferenceDecision{
			Selection: current,
			Reason:    fmt.Sprintf("%q is not offered for this job", value),
		}
	}

	if len(current) >= max {
		noun := plural
		if max == 1 {
			noun = singular
		}
		return PreferenceDecision{
			Selection: current,
			Reason:    fmt.Sprintf("You can select up to %d %s for this job", max, noun),
		}
	}

	next := make([]string, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, value)
	return PreferenceDecision{Allowed: true, Selection: next}
}

// ReconcileWithJob drops selections no longer allowed by the job and trims to
// the job's maxima, preserving selection order. This is the single place
// stale selections are reconciled after a job-context change; the applied-for
// trade follows automatically since it is derived from the first trade.
func (e *PreferenceEngine) ReconcileWithJob(sel *domain.PreferenceSelection, job *domain.Job) {
	sel.Countries = intersect(sel.Countries, job.Countries, job.MaxCountriesSelectable)
	sel.Trades = intersect(sel.Trades, job.Trades, job.MaxTradesSelectable)
}

// Validate checks a full selection against the job (used on section save,
// where the client supplies whole lists rather than toggles).
func (e *PreferenceEngine) Validate(countries, trades []string, job *domain.Job) error {
	if len(countries) > job.MaxCountriesSelectable {
		noun := "countries"
		if job.MaxCountriesSelectable == 1 {
			noun = "country"
		}
		return fmt.Errorf("you can select up to %d %s for this job", job.MaxCountriesSelectable, noun)
	}
	if len(trades) > job.MaxTradesSelectable {
		noun := "trades"
		if job.MaxTradesSelectable == 1 {
			noun = "trade"
		}
		return fmt.Errorf("you can select up to %d %s for this job", job.MaxTradesSelectable, noun)
	}
	for _, c := range countries {
		if !job.AllowsCountry(c) {
			return fmt.Errorf("country %q is not offered for this job", c)
		}
	}
	for _, t := range trades {
		if !job.AllowsTrade(t) {
			return fmt.Errorf("trade %q is not offered for this job", t)
		}
	}
	if hasDuplicates(countries) || hasDuplicates(trades) {
		return fmt.Errorf("preference selections must be unique")
	}
	return nil
}

func intersect(current, allowed []string, max int) []string {
	out := make([]string, 0, len(current))
	for _, v := range current {
		if containsString(allowed, v) {
			out = append(out, v)
		}
		if len(out) == max {
			break
		}
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func hasDuplicates(list []string) bool {
	seen := make(map[string]bool, len(list))
	for _, v := range list {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}
