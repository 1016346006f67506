package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/datanauts/genie-chat/internal/auth/models"
	"github.com/datanauts/genie-chat/internal/config"
	"github.com/datanauts/genie-chat/internal/logger"
	"go.uber.org/zap"
)

const deviceCodeGrantType = "urn:ietf:params:oauth:grant-type:device_code"

// Provider performs the device-code exchanges against the identity provider.
type Provider interface {
	// RequestDeviceCode starts a device-code flow. A structured provider error
	// is returned as *ProviderError.
	RequestDeviceCode(ctx context.Context) (*models.DeviceCodeResponse, error)
	// RedeemDeviceCode polls the token endpoint once. The response is returned
	// even when it carries an OAuth error code; the caller classifies it. A
	// non-nil error means the endpoint could not be reached or parsed.
	RedeemDeviceCode(ctx context.Context, deviceCode string) (*models.TokenResponse, error)
	// FetchProfile fetches the signed-in user's profile. Failures come back as
	// *ProfileLookupError.
	FetchProfile(ctx context.Context, accessToken string) (*models.GraphProfile, error)
}

// AzureProvider talks to the Azure AD v2.0 endpoints and Microsoft Graph.
type AzureProvider struct {
	cfg    *config.AzureConfig
	client *http.Client
}

// NewAzureProvider creates a provider for the configured tenant.
func NewAzureProvider(cfg *config.AzureConfig) *AzureProvider {
	return &AzureProvider{
		cfg: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (p *AzureProvider) deviceCodeURL() string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/devicecode", strings.TrimRight(p.cfg.Authority, "/"), p.cfg.TenantID)
}

func (p *AzureProvider) tokenURL() string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", strings.TrimRight(p.cfg.Authority, "/"), p.cfg.TenantID)
}

func (p *AzureProvider) profileURL() string {
	return strings.TrimRight(p.cfg.GraphURL, "/") + "/v1.0/me"
}

func (p *AzureProvider) RequestDeviceCode(ctx context.Context) (*models.DeviceCodeResponse, error) {
	form := url.Values{
		"client_id": {p.cfg.ClientID},
		"scope":     {p.cfg.Scope},
	}

	var resp models.DeviceCodeResponse
	if err := p.postForm(ctx, p.deviceCodeURL(), form, &resp); err != nil {
		return nil, err
	}

	if resp.Error != "" {
		logger.Warn("device authorization rejected", zap.String("code", resp.Error))
		return nil, &ProviderError{Code: resp.Error, Description: resp.ErrorDescription}
	}

	logger.Info("device code issued",
		zap.String("user_code", resp.UserCode),
		zap.Int("expires_in", resp.ExpiresIn),
	)
	return &resp, nil
}

func (p *AzureProvider) RedeemDeviceCode(ctx context.Context, deviceCode string) (*models.TokenResponse, error) {
	form := url.Values{
		"grant_type":  {deviceCodeGrantType},
		"client_id":   {p.cfg.ClientID},
		"device_code": {deviceCode},
	}

	var resp models.TokenResponse
	if err := p.postForm(ctx, p.tokenURL(), form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *AzureProvider) FetchProfile(ctx context.Context, accessToken string) (*models.GraphProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL(), nil)
	if err != nil {
		return nil, &ProfileLookupError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProfileLookupError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProfileLookupError{Err: fmt.Errorf("graph returned status %d", resp.StatusCode)}
	}

	var profile models.GraphProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, &ProfileLookupError{Err: err}
	}
	return &profile, nil
}

func (p *AzureProvider) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
