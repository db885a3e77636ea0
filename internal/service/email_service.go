package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/proyectoiso/recetario/internal/config"
	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/utils"
)

// EmailVerifier checks whether an address can receive mail before an account is created
type EmailVerifier interface {
	// Verify reports whether email is deliverable. When it is not, the
	// returned message explains why.
	Verify(ctx context.Context, email string) (bool, string)
}

// NewEmailVerifier returns the Abstract API verifier when an API key is configured
// and a verifier accepting every address otherwise
func NewEmailVerifier(cfg config.EmailVerificationSettings) EmailVerifier {
	if cfg.APIKey == "" {
		log.Info().Msg("Email verification disabled, no API key configured")
		return NoopEmailVerifier{}
	}
	return NewAbstractEmailVerifier(cfg, nil)
}

// NoopEmailVerifier accepts every address
type NoopEmailVerifier struct{}

// Verify implements EmailVerifier
func (NoopEmailVerifier) Verify(context.Context, string) (bool, string) {
	return true, ""
}

// AbstractEmailVerifier queries the Abstract API email reputation endpoint
type AbstractEmailVerifier struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// abstractResponse is the part of the reputation response the verifier reads
type abstractResponse struct {
	EmailDeliverability struct {
		Status        string `json:"status"`
		IsFormatValid bool   `json:"is_format_valid"`
		IsMXValid     bool   `json:"is_mx_valid"`
	} `json:"email_deliverability"`
}

// NewAbstractEmailVerifier creates a verifier. A nil client gets one with the configured timeout.
func NewAbstractEmailVerifier(cfg config.EmailVerificationSettings, client *http.Client) *AbstractEmailVerifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultEmailVerifyTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &AbstractEmailVerifier{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  client,
	}
}

// Verify implements EmailVerifier.
// An address is deliverable when the API answers 200 with a deliverable status,
// a valid format and a valid MX record.
func (v *AbstractEmailVerifier) Verify(ctx context.Context, email string) (bool, string) {
	if !utils.IsValidEmail(email) {
		return false, constants.MsgInvalidEmail
	}

	endpoint, err := v.endpoint(email)
	if err != nil {
		log.Error().Err(err).Msg("Invalid email verification endpoint")
		return false, constants.MsgEmailUnverifiable
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build email verification request")
		return false, constants.MsgEmailUnverifiable
	}

	start := time.Now()
	resp, err := v.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("email", utils.MaskEmail(email)).Msg("Email verification request failed")
		return false, constants.MsgEmailUnverifiable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().
			Int("status", resp.StatusCode).
			Str("email", utils.MaskEmail(email)).
			Msg("Email verification service returned an error")
		return false, constants.MsgEmailUnverifiable
	}

	var result abstractResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		log.Warn().Err(err).Msg("Failed to decode email verification response")
		return false, constants.MsgEmailUnverifiable
	}

	d := result.EmailDeliverability
	valid := strings.EqualFold(d.Status, "deliverable") && d.IsFormatValid && d.IsMXValid

	log.Debug().
		Str("email", utils.MaskEmail(email)).
		Str("status", d.Status).
		Bool("valid", valid).
		Dur("latency", time.Since(start)).
		Msg("Email verified")

	if !valid {
		return false, constants.MsgInvalidEmail
	}
	return true, ""
}

func (v *AbstractEmailVerifier) endpoint(email string) (string, error) {
	u, err := url.Parse(v.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse %q: %w", v.baseURL, err)
	}
	q := u.Query()
	q.Set("api_key", v.apiKey)
	q.Set("email", email)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
