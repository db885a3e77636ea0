package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proyectoiso/recetario/internal/config"
	"github.com/proyectoiso/recetario/internal/constants"
)

func newVerifierServer(t *testing.T, status int, body string) (*httptest.Server, *url.URL) {
	t.Helper()
	captured := &url.URL{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = *r.URL
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestNewEmailVerifier(t *testing.T) {
	t.Run("Without API key", func(t *testing.T) {
		v := NewEmailVerifier(config.EmailVerificationSettings{})
		assert.IsType(t, NoopEmailVerifier{}, v)

		ok, msg := v.Verify(context.Background(), "nobody@invalid")
		assert.True(t, ok)
		assert.Empty(t, msg)
	})

	t.Run("With API key", func(t *testing.T) {
		v := NewEmailVerifier(config.EmailVerificationSettings{APIKey: "key", BaseURL: "http://localhost"})
		assert.IsType(t, &AbstractEmailVerifier{}, v)
	})
}

func TestAbstractEmailVerifier_Verify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantOK  bool
		wantMsg string
	}{
		{
			name:   "Deliverable",
			status: http.StatusOK,
			body:   `{"email_deliverability":{"status":"deliverable","is_format_valid":true,"is_mx_valid":true}}`,
			wantOK: true,
		},
		{
			name:    "Undeliverable",
			status:  http.StatusOK,
			body:    `{"email_deliverability":{"status":"undeliverable","is_format_valid":true,"is_mx_valid":true}}`,
			wantMsg: constants.MsgInvalidEmail,
		},
		{
			name:    "Bad format",
			status:  http.StatusOK,
			body:    `{"email_deliverability":{"status":"deliverable","is_format_valid":false,"is_mx_valid":true}}`,
			wantMsg: constants.MsgInvalidEmail,
		},
		{
			name:    "No MX record",
			status:  http.StatusOK,
			body:    `{"email_deliverability":{"status":"deliverable","is_format_valid":true,"is_mx_valid":false}}`,
			wantMsg: constants.MsgInvalidEmail,
		},
		{
			name:    "Service error",
			status:  http.StatusUnauthorized,
			body:    `{"error":"invalid key"}`,
			wantMsg: constants.MsgEmailUnverifiable,
		},
		{
			name:    "Malformed body",
			status:  http.StatusOK,
			body:    `not json`,
			wantMsg: constants.MsgEmailUnverifiable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, captured := newVerifierServer(t, tt.status, tt.body)
			v := NewAbstractEmailVerifier(config.EmailVerificationSettings{
				APIKey:  "secret-key",
				BaseURL: server.URL + "/v1/",
			}, server.Client())

			ok, msg := v.Verify(context.Background(), "ana@example.com")

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMsg, msg)
			assert.Equal(t, "/v1/", captured.Path)
			assert.Equal(t, "secret-key", captured.Query().Get("api_key"))
			assert.Equal(t, "ana@example.com", captured.Query().Get("email"))
		})
	}
}

func TestAbstractEmailVerifier_MalformedAddressSkipsLookup(t *testing.T) {
	server, captured := newVerifierServer(t, http.StatusOK,
		`{"email_deliverability":{"status":"deliverable","is_format_valid":true,"is_mx_valid":true}}`)
	v := NewAbstractEmailVerifier(config.EmailVerificationSettings{
		APIKey:  "secret-key",
		BaseURL: server.URL + "/v1/",
	}, server.Client())

	for _, email := range []string{"", "ana", "ana@", "@example.com"} {
		ok, msg := v.Verify(context.Background(), email)
		assert.False(t, ok, email)
		assert.Equal(t, constants.MsgInvalidEmail, msg, email)
	}
	assert.Empty(t, captured.Path, "the verification service is never called")
}

func TestAbstractEmailVerifier_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	v := NewAbstractEmailVerifier(config.EmailVerificationSettings{
		APIKey:  "key",
		BaseURL: server.URL,
		Timeout: 20 * time.Millisecond,
	}, nil)

	ok, msg := v.Verify(context.Background(), "ana@example.com")
	require.False(t, ok)
	assert.Equal(t, constants.MsgEmailUnverifiable, msg)
}
