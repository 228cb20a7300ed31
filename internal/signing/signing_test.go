package signing_test

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetwire/fleetwire/internal/signing"
)

func randomBytes(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.IntN(256))
	}
	return b
}

func TestSign_Deterministic(t *testing.T) {
	a, err := signing.Sign([]byte("secret"), []byte(`{"a":1}`))
	require.NoError(t, err)
	b, err := signing.Sign([]byte("secret"), []byte(`{"a":1}`))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.Equal(t, strings.ToLower(a), a)
}

func TestSign_KnownVector(t *testing.T) {
	// RFC 4231 test case 2
	sig, err := signing.Sign([]byte("Jefe"), []byte("what do ya want for nothing?"))
	require.NoError(t, err)
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", sig)
}

func TestSign_EmptySecret(t *testing.T) {
	_, err := signing.Sign(nil, []byte("payload"))
	require.Error(t, err)

	var signErr *signing.Error
	assert.True(t, errors.As(err, &signErr))
	assert.ErrorIs(t, err, signing.ErrEmptySecret)
}

func TestVerify_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := range 200 {
		secret := randomBytes(r, 1+r.IntN(64))
		payload := randomBytes(r, r.IntN(512))

		sig, err := signing.Sign(secret, payload)
		require.NoError(t, err)
		assert.True(t, signing.Verify(secret, payload, sig), "iteration %d", i)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := range 200 {
		s1 := randomBytes(r, 1+r.IntN(64))
		s2 := randomBytes(r, 1+r.IntN(64))
		if string(s1) == string(s2) {
			continue
		}
		payload := randomBytes(r, r.IntN(512))

		sig, err := signing.Sign(s2, payload)
		require.NoError(t, err)
		assert.False(t, signing.Verify(s1, payload, sig), "iteration %d", i)
	}
}

func TestVerify_ByteFlip(t *testing.T) {
	secret := []byte("whsec")
	payload := []byte(`{"id":"evt_1","type":"trip.completed"}`)
	sig, err := signing.Sign(secret, payload)
	require.NoError(t, err)

	for i := range payload {
		tampered := append([]byte(nil), payload...)
		tampered[i] ^= 0x01
		assert.False(t, signing.Verify(secret, tampered, sig), "flip at %d", i)
	}
}

func TestVerify_Malformed(t *testing.T) {
	secret := []byte("secret")
	payload := []byte("payload")
	valid, err := signing.Sign(secret, payload)
	require.NoError(t, err)

	tests := []struct {
		name string
		sig  string
	}{
		{"empty", ""},
		{"non hex", strings.Repeat("z", 64)},
		{"too short", valid[:62]},
		{"too long", valid + "00"},
		{"uppercase prefix", "0X" + valid[2:]},
		{"sha1 length", hex.EncodeToString(make([]byte, 20))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, signing.Verify(secret, payload, tt.sig))
		})
	}

	assert.False(t, signing.Verify(nil, payload, valid))
}

func TestCanonicalize_SortedCompact(t *testing.T) {
	out, err := signing.Canonicalize([]byte(`{ "b": 1, "a": {"z": true, "c": [3, 2, 1]} }`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"c":[3,2,1],"z":true},"b":1}`, string(out))
}

func TestCanonicalize_PreservesNumbersAndHTML(t *testing.T) {
	out, err := signing.Canonicalize([]byte(`{"amount": 12345678901234567890.10, "note": "<a&b>"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"amount":12345678901234567890.10,"note":"<a&b>"}`, string(out))
}

func TestCanonicalize_Stable(t *testing.T) {
	m := map[string]any{}
	for i := range 50 {
		m[fmt.Sprintf("k%02d", i)] = i
	}
	first, err := signing.Canonicalize(m)
	require.NoError(t, err)
	for range 20 {
		again, err := signing.Canonicalize(m)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCanonicalize_InvalidJSON(t *testing.T) {
	_, err := signing.Canonicalize([]byte(`{"a":`))
	assert.Error(t, err)

	_, err = signing.Canonicalize(json.RawMessage(`{} {}`))
	assert.Error(t, err)
}

func TestEnvelope_Bytes(t *testing.T) {
	env := signing.Envelope{
		ID:        "evt_1",
		Type:      "trip.completed",
		TenantID:  "acme",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Data:      json.RawMessage(`{"trip_id":"t1","distance_km":12.50}`),
	}

	out, err := env.Bytes()
	require.NoError(t, err)
	assert.Equal(t,
		`{"created_at":"2026-01-02T03:04:05Z","data":{"distance_km":12.50,"trip_id":"t1"},"id":"evt_1","tenant_id":"acme","type":"trip.completed"}`,
		string(out),
	)
}

func TestEnvelope_NilData(t *testing.T) {
	out, err := signing.Envelope{ID: "e", Type: "t", TenantID: "x"}.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"data":null`)
}
