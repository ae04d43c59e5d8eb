package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/ehub-epfl/founders-explorer-api/pkg/config"
)

// oauth2Provider exchanges an authorization code through the standard
// oauth2 flow and resolves the profile from the provider's userinfo
// endpoint.
type oauth2Provider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
	parse       func([]byte) (*OAuthProfile, error)
	client      *http.Client
}

func (p *oauth2Provider) Name() string {
	return p.name
}

func (p *oauth2Provider) Exchange(ctx context.Context, code string) (*OAuthProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info endpoint returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read user info: %w", err)
	}
	return p.parse(body)
}

// NewGoogleProvider builds the Google OAuth provider.
func NewGoogleProvider(client config.OAuthClientConfig) OAuthProvider {
	return &oauth2Provider{
		name: "google",
		config: &oauth2.Config{
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
			RedirectURL:  client.RedirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		parse: func(body []byte) (*OAuthProfile, error) {
			var payload struct {
				ID    string `json:"id"`
				Email string `json:"email"`
				Name  string `json:"name"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, fmt.Errorf("decode google profile: %w", err)
			}
			return &OAuthProfile{Subject: payload.ID, Email: payload.Email, FullName: payload.Name}, nil
		},
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewGitHubProvider builds the GitHub OAuth provider.
func NewGitHubProvider(client config.OAuthClientConfig) OAuthProvider {
	return &oauth2Provider{
		name: "github",
		config: &oauth2.Config{
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
			RedirectURL:  client.RedirectURL,
			Endpoint:     endpoints.GitHub,
			Scopes:       []string{"read:user", "user:email"},
		},
		userInfoURL: "https://api.github.com/user",
		parse: func(body []byte) (*OAuthProfile, error) {
			var payload struct {
				ID    int64  `json:"id"`
				Login string `json:"login"`
				Email string `json:"email"`
				Name  string `json:"name"`
			}
			if err := json.Unmarshal(body, &payload); err != nil {
				return nil, fmt.Errorf("decode github profile: %w", err)
			}
			name := payload.Name
			if name == "" {
				name = payload.Login
			}
			return &OAuthProfile{Subject: strconv.FormatInt(payload.ID, 10), Email: payload.Email, FullName: name}, nil
		},
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// BuildOAuthProviders assembles the providers enabled in configuration.
// Unknown names and providers without a client ID are skipped with a
// warning.
func BuildOAuthProviders(cfg config.AuthConfig, logger *zap.Logger) []OAuthProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	var providers []OAuthProvider
	for _, name := range cfg.OAuthProviders {
		key := strings.ToLower(strings.TrimSpace(name))
		client := cfg.OAuthClients[key]
		if client.ClientID == "" {
			logger.Warn("oauth provider missing client id, skipping", zap.String("provider", key))
			continue
		}
		switch key {
		case "google":
			providers = append(providers, NewGoogleProvider(client))
		case "github":
			providers = append(providers, NewGitHubProvider(client))
		default:
			logger.Warn("unknown oauth provider, skipping", zap.String("provider", key))
		}
	}
	return providers
}
