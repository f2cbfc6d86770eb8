package entity

// Settings is read-only caller context for a pipeline run. The orchestrator
// never mutates it.
type Settings struct {
	BaseCurrency string `json:"base_currency"`
}
