package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kurogitsune/gamesofni/internal/gamesvc/models"
)

// DefaultOAuthURL is Slack's code-for-token exchange endpoint.
const DefaultOAuthURL = "https://slack.com/api/oauth.access"

// OAuthStore persists the credentials of an installed workspace.
type OAuthStore interface {
	Put(ctx context.Context, team models.OAuthTeam) error
}

// OAuthService exchanges the code from the install redirect for an access
// token and webhook URL, and seeds the team's settings row.
type OAuthService struct {
	oauth        OAuthStore
	settings     SettingsStore
	client       *http.Client
	exchangeURL  string
	clientID     string
	clientSecret string
}

func NewOAuthService(oauth OAuthStore, settings SettingsStore, clientID, clientSecret string) *OAuthService {
	return &OAuthService{
		oauth:        oauth,
		settings:     settings,
		client:       &http.Client{Timeout: 15 * time.Second},
		exchangeURL:  DefaultOAuthURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// SetExchangeURL overrides the token endpoint, for tests.
func (s *OAuthService) SetExchangeURL(u string) {
	s.exchangeURL = u
}

type oauthAccessResponse struct {
	OK              bool   `json:"ok"`
	AccessToken     string `json:"access_token"`
	TeamID          string `json:"team_id"`
	TeamName        string `json:"team_name"`
	IncomingWebhook struct {
		URL string `json:"url"`
	} `json:"incoming_webhook"`
}

// Exchange performs the code exchange and registers the team.
func (s *OAuthService) Exchange(ctx context.Context, code string, now int64) error {
	form := url.Values{}
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.exchangeURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build oauth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to exchange oauth code: %w", err)
	}
	defer resp.Body.Close()

	var access oauthAccessResponse
	if err := json.NewDecoder(resp.Body).Decode(&access); err != nil {
		return fmt.Errorf("failed to decode oauth response: %w", err)
	}
	if !access.OK || access.AccessToken == "" {
		return fmt.Errorf("error when exchanging code for access_token")
	}
	if access.IncomingWebhook.URL == "" {
		return fmt.Errorf("oauth response carries no incoming webhook url")
	}

	team := models.OAuthTeam{
		TeamID:      access.TeamID,
		TeamName:    access.TeamName,
		AccessToken: access.AccessToken,
		WebhookURL:  access.IncomingWebhook.URL,
		CreatedAt:   now,
	}
	if err := s.oauth.Put(ctx, team); err != nil {
		return err
	}

	if err := s.settings.Seed(ctx, access.TeamID, now); err != nil {
		return err
	}

	log.Infof("new team registration: %s", access.TeamID)
	return nil
}
