package amqp

import (
	"encoding/json"
	"time"
)

// RecomputeMessage asks a worker to rebuild the wrapped snapshot for one year.
// It carries the filter options so the worker can reproduce the exact view the
// requester asked for; the worker reads the ledger itself.
type RecomputeMessage struct {
	Year                          int       `json:"year"`
	IncludeOffBudget              bool      `json:"include_off_budget"`
	IncludeOnBudgetTransfers      bool      `json:"include_on_budget_transfers"`
	IncludeAllTransfers           bool      `json:"include_all_transfers"`
	IncludeIncomeInCategoryTotals bool      `json:"include_income_in_category_totals"`
	Timestamp                     time.Time `json:"timestamp"`
}

// NewRecomputeMessage creates a recompute request with the default filter options.
func NewRecomputeMessage(year int) *RecomputeMessage {
	return &RecomputeMessage{
		Year:                          year,
		IncludeOnBudgetTransfers:      true,
		IncludeIncomeInCategoryTotals: true,
		Timestamp:                     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecomputeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func RecomputeMessageFromJSON(data []byte) (*RecomputeMessage, error) {
	var msg RecomputeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RecomputeCompletedMessage announces that a snapshot was rebuilt and stored.
type RecomputeCompletedMessage struct {
	Year           int       `json:"year"`
	Fingerprint    string    `json:"options_fingerprint"`
	LedgerChecksum string    `json:"ledger_checksum"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewRecomputeCompletedMessage(year int, fingerprint, checksum string) *RecomputeCompletedMessage {
	return &RecomputeCompletedMessage{
		Year:           year,
		Fingerprint:    fingerprint,
		LedgerChecksum: checksum,
		Timestamp:      time.Now(),
	}
}

func (m *RecomputeCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecomputeCompletedMessageFromJSON(data []byte) (*RecomputeCompletedMessage, error) {
	var msg RecomputeCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
