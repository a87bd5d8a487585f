// Package resolve turns raw ledger rows into display-ready transactions and
// applies the user's inclusion policy. It owns the transfer-direction logic,
// the tombstone ("deleted: ") labelling and the exclusion tagging that every
// downstream view depends on.
package resolve

import (
	"strings"

	"rewind/internal/core"
)

// Names used when no better label can be resolved.
const (
	NameUncategorized = "Uncategorized"
	NameOffBudget     = "Off Budget"
	NameUnknownPayee  = "Unknown"

	// deletedPrefix is the lowercase marker used by ranking views. The
	// budget comparison uses a capitalized variant; see internal/budget.
	deletedPrefix = "deleted: "

	startingBalancePayee = "starting balance"

	transferKeyPrefix = "transfer:"
)

// TransferKind classifies a transfer leg by the off-budget flags of the
// source and destination accounts.
type TransferKind int

const (
	TransferNone TransferKind = iota
	TransferOnToOn
	TransferOnToOff
	TransferOffToOn
	TransferOffToOff
)

func (k TransferKind) String() string {
	switch k {
	case TransferOnToOn:
		return "on-to-on"
	case TransferOnToOff:
		return "on-to-off"
	case TransferOffToOn:
		return "off-to-on"
	case TransferOffToOff:
		return "off-to-off"
	default:
		return "none"
	}
}

// ExcludeReason tags transactions the resolver rules out of every aggregate.
// Transfer filtering is a policy decision and lives in the filter, not here.
type ExcludeReason int

const (
	ExcludeNone ExcludeReason = iota
	ExcludeSplitParent
	ExcludeStartingBalance
)

// Transaction is an enriched ledger row: the raw record plus resolved
// names, grouping keys, transfer classification and exclusion tagging.
type Transaction struct {
	core.Transaction

	CategoryName string
	CategoryKey  string // grouping key; "transfer:{acct}" for transfers
	PayeeName    string
	PayeeKey     string
	AccountName  string
	OffBudget    bool // owning account is off-budget

	Transfer        TransferKind
	TransferAcctID  string // destination account, empty for non-transfers
	Exclude         ExcludeReason
	DeletedCategory bool
	DeletedPayee    bool
}

// Maps holds the id lookup tables built once per transform and passed
// explicitly into every stage.
type Maps struct {
	Categories map[string]core.Category
	Payees     map[string]core.Payee
	Accounts   map[string]core.Account
}

// NewMaps builds the lookup tables from the raw record arrays.
func NewMaps(records core.Records) Maps {
	m := Maps{
		Categories: make(map[string]core.Category, len(records.Categories)),
		Payees:     make(map[string]core.Payee, len(records.Payees)),
		Accounts:   make(map[string]core.Account, len(records.Accounts)),
	}
	for _, c := range records.Categories {
		m.Categories[c.ID] = c
	}
	for _, p := range records.Payees {
		m.Payees[p.ID] = p
	}
	for _, a := range records.Accounts {
		m.Accounts[a.ID] = a
	}
	return m
}

// Resolve enriches every raw transaction. Records without a usable date are
// dropped here rather than failing the transform; everything else resolves
// to some defensive default.
func Resolve(txs []core.Transaction, maps Maps) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, raw := range txs {
		if raw.Date.IsZero() {
			continue
		}
		out = append(out, resolveOne(raw, maps))
	}
	return out
}

func resolveOne(raw core.Transaction, maps Maps) Transaction {
	t := Transaction{Transaction: raw}

	acct, acctOK := maps.Accounts[raw.AccountID]
	if acctOK {
		t.AccountName = acct.Name
		t.OffBudget = acct.OffBudget
	} else {
		t.AccountName = NameUnknownPayee
	}

	t.PayeeName, t.DeletedPayee = resolvePayeeName(raw.PayeeID, maps)
	t.PayeeKey = t.PayeeName

	// Transfer pairs resolve to the receiving account's name regardless of
	// which leg is being looked at, and share a stable synthetic key so the
	// legs sum instead of fragmenting.
	if payee, ok := maps.Payees[raw.PayeeID]; ok && payee.TransferAccountID != "" {
		dest, destOK := maps.Accounts[payee.TransferAccountID]
		t.Transfer = transferKind(t.OffBudget, destOK && dest.OffBudget)
		t.TransferAcctID = payee.TransferAccountID
		destName := payee.TransferAccountID
		if destOK {
			destName = dest.Name
		}
		label := "Transfer: " + destName
		key := transferKeyPrefix + payee.TransferAccountID
		t.CategoryName, t.CategoryKey = label, key
		t.PayeeName, t.PayeeKey = label, key
	} else {
		t.CategoryName, t.DeletedCategory = resolveCategoryName(t, maps)
		t.CategoryKey = t.CategoryName
	}

	switch {
	case raw.ParentID != "" && raw.CategoryID == "":
		t.Exclude = ExcludeSplitParent
	case core.EqualFold(t.PayeeName, startingBalancePayee):
		t.Exclude = ExcludeStartingBalance
	}

	return t
}

// resolveCategoryName maps a category id to its current display name.
// Merged categories carry the surviving id, so a non-tombstoned entry is
// never marked deleted even if a tombstoned id logically preceded it.
func resolveCategoryName(t Transaction, maps Maps) (name string, deleted bool) {
	if t.CategoryID == "" {
		if t.OffBudget {
			return NameOffBudget, false
		}
		return NameUncategorized, false
	}
	cat, ok := maps.Categories[t.CategoryID]
	if !ok {
		// No resolver entry: prefer the raw row's embedded name, then the
		// raw id itself.
		if t.Transaction.CategoryName != "" {
			return t.Transaction.CategoryName, false
		}
		return t.CategoryID, false
	}
	if cat.Tombstone {
		return deletedPrefix + cat.Name, true
	}
	return cat.Name, false
}

func resolvePayeeName(payeeID string, maps Maps) (name string, deleted bool) {
	if payeeID == "" {
		return NameUnknownPayee, false
	}
	payee, ok := maps.Payees[payeeID]
	if !ok {
		return NameUnknownPayee, false
	}
	n := strings.TrimSpace(payee.Name)
	// A payee whose display name is itself a raw identifier must never leak
	// into output.
	if n == "" || LooksLikeRawID(n) {
		return NameUnknownPayee, false
	}
	if payee.Tombstone {
		return deletedPrefix + n, true
	}
	return n, false
}

func transferKind(srcOff, dstOff bool) TransferKind {
	switch {
	case !srcOff && !dstOff:
		return TransferOnToOn
	case !srcOff && dstOff:
		return TransferOnToOff
	case srcOff && !dstOff:
		return TransferOffToOn
	default:
		return TransferOffToOff
	}
}

// LooksLikeRawID reports whether a payee display name looks like an opaque
// record identifier rather than a human name: a long unbroken run of hex
// digits and dashes containing at least one digit. The heuristic is fuzzy
// on purpose, so a genuine payee named e.g. "deadbeefdeadbeef" is a false
// positive. Keep it exactly this loose; resolved output depends on it.
func LooksLikeRawID(s string) bool {
	if len(s) < 16 {
		return false
	}
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'f', r >= 'A' && r <= 'F', r == '-':
		default:
			return false
		}
	}
	return hasDigit
}
