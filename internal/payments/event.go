package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalid marks a webhook that failed verification or could not be
	// parsed. Invalid webhooks are rejected and never processed.
	ErrInvalid = errors.New("payments: invalid webhook")
	// ErrInvalidSignature is an ErrInvalid caused by a signature mismatch.
	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrInvalid)

	ErrUnknownProvider = errors.New("payments: unknown provider")
	ErrUnknownTenant   = errors.New("payments: unknown tenant")
	ErrNotFound        = errors.New("payments: not found")
)

type Method string

const (
	MethodBankTransfer Method = "bank_transfer"
	MethodEWallet      Method = "ewallet"
	MethodCard         Method = "card"
)

func (m Method) Valid() bool {
	switch m {
	case MethodBankTransfer, MethodEWallet, MethodCard:
		return true
	default:
		return false
	}
}

// PaymentEvent is a verified provider callback. ProviderEventID is unique
// per provider and drives replay detection.
type PaymentEvent struct {
	Provider        string
	ProviderEventID string
	TenantID        string
	Type            string
	Method          Method
	Amount          int64
	Currency        string
	Status          string
	Reference       string
	CreatedAt       time.Time
	Data            json.RawMessage
}

// paymentData is the data object shared by the gateway and standard
// webhook envelopes. Amount is in minor units.
type paymentData struct {
	Method    Method `json:"method"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

func (d paymentData) apply(evt *PaymentEvent) error {
	if d.Method != "" && !d.Method.Valid() {
		return fmt.Errorf("%w: unsupported payment method %q", ErrInvalid, d.Method)
	}
	evt.Method = d.Method
	evt.Amount = d.Amount
	evt.Currency = d.Currency
	evt.Status = d.Status
	evt.Reference = d.Reference
	return nil
}
