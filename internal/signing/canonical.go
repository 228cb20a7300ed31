package signing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Canonicalize renders v as compact JSON with object keys in lexicographic
// order and without HTML escaping. Raw JSON input ([]byte or
// json.RawMessage) is re-encoded; numbers keep their original text.
func Canonicalize(v any) ([]byte, error) {
	var generic any
	switch raw := v.(type) {
	case json.RawMessage:
		if err := decode(raw, &generic); err != nil {
			return nil, err
		}
	case []byte:
		if err := decode(raw, &generic); err != nil {
			return nil, err
		}
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("signing: failed to marshal payload: %w", err)
		}
		if err := decode(b, &generic); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("signing: failed to encode payload: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func decode(data []byte, dst *any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("signing: invalid json: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("signing: invalid json: trailing data")
	}
	return nil
}

// Envelope is the outbound webhook body.
type Envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	TenantID  string          `json:"tenant_id"`
	CreatedAt time.Time       `json:"created_at"`
	Data      json.RawMessage `json:"data"`
}

// Bytes returns the canonical encoding of the envelope.
func (e Envelope) Bytes() ([]byte, error) {
	if len(e.Data) == 0 {
		e.Data = json.RawMessage("null")
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return Canonicalize(e)
}
