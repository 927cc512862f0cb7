// Package auth signs users in through Google with the OAuth2 authorization
// code flow. It only yields an identity: tokens are neither kept nor
// validated beyond the exchange.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"gofinances/internal/core"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var Scopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

type Option func(*GoogleProvider)

// WithEndpoint overrides the OAuth2 endpoint, used by tests.
func WithEndpoint(ep oauth2.Endpoint) Option {
	return func(p *GoogleProvider) { p.config.Endpoint = ep }
}

// WithUserInfoURL overrides the userinfo URL, used by tests.
func WithUserInfoURL(u string) Option {
	return func(p *GoogleProvider) { p.userInfoURL = u }
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string, opts ...Option) *GoogleProvider {
	p := &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
			Endpoint:     google.Endpoint,
		},
		userInfoURL: defaultUserInfoURL,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// AuthCodeURL returns the consent page URL carrying state.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

type googleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Exchange trades code for a token and fetches the user profile with it.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (core.User, error) {
	if code == "" {
		return core.User{}, errors.New("missing authorization code")
	}
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return core.User{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return core.User{}, fmt.Errorf("build userinfo request: %w", err)
	}
	resp, err := p.config.Client(ctx, tok).Do(req)
	if err != nil {
		return core.User{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return core.User{}, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, body)
	}

	var gu googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return core.User{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if gu.ID == "" {
		return core.User{}, errors.New("userinfo without id")
	}
	return core.User{ID: gu.ID, Name: gu.Name, Email: gu.Email, Photo: gu.Picture}, nil
}
