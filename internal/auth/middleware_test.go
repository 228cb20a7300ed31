package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetwire/fleetwire/internal/auth"
	"github.com/fleetwire/fleetwire/internal/httptools"
)

const testAPIKey = "fw_test_admin_key"

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		setKey     bool
		wantStatus int
		wantDetail string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantDetail: "Missing API key"},
		{name: "empty header", setKey: true, wantStatus: http.StatusUnauthorized, wantDetail: "Missing API key"},
		{name: "wrong key", key: "fw_test_other_key", setKey: true, wantStatus: http.StatusUnauthorized, wantDetail: "Invalid API key"},
		{name: "prefix of key", key: "fw_test", setKey: true, wantStatus: http.StatusUnauthorized, wantDetail: "Invalid API key"},
		{name: "valid key", key: testAPIKey, setKey: true, wantStatus: http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			handler := auth.Middleware(testAPIKey)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				reached = true
				w.WriteHeader(http.StatusAccepted)
			}))

			req := httptest.NewRequest(http.MethodPost, "/v1/events", nil)
			if tt.setKey {
				req.Header.Set(auth.HeaderName, tt.key)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantDetail == "", reached)
			if tt.wantDetail == "" {
				return
			}

			var resp httptools.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, httptools.ErrTypeUnauthorized, resp.Error.Type)
			assert.Equal(t, tt.wantDetail, resp.Error.Detail)
		})
	}
}
