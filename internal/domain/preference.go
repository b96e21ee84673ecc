package domain

import "time"

// PreferenceSelection holds the per-application country/trade choices.
// Invariants (enforced by the preference engine and re-checked on save):
// every element is a member of the job's allowed list, and each list length
// is within the job's selectable maximum. The applied-for trade is derived
// from the first trade, never stored independently.
type PreferenceSelection struct {
	ApplicationID int64     `json:"application_id"`
	Countries     []string  `json:"countries_preference"`
	Trades        []string  `json:"trades_preference"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TradeAppliedFor is the first selected trade ("" when none selected).
func (sel *PreferenceSelection) TradeAppliedFor() string {
	if len(sel.Trades) == 0 {
		return ""
	}
	return sel.Trades[0]
}
