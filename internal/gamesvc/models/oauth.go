package models

// OAuthTeam holds the credentials obtained when a workspace installs the
// app: the API token and the incoming-webhook URL settlements are posted to.
type OAuthTeam struct {
	TeamID      string `json:"team_id"`
	TeamName    string `json:"team_name,omitempty"`
	AccessToken string `json:"access_token"`
	WebhookURL  string `json:"webhook_url"`
	CreatedAt   int64  `json:"created_at"`
}
