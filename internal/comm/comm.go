package comm

import (
	"encoding/json"
)

// FeedMessage is the envelope pushed to websocket feed clients.
type FeedMessage struct {
	Type string          `json:"type"` // e.g. "settlement"
	Data json.RawMessage `json:"data"`
}

// SettlementNotice announces the settled games of one team, published on
// NATS by the sweeper and fanned out to feed clients.
type SettlementNotice struct {
	Team        string `json:"team"`
	Text        string `json:"text"`
	CompletedAt int64  `json:"completed_at"`
}

// SlackResponse is the payload returned to Slack for a slash command.
type SlackResponse struct {
	ResponseType string `json:"response_type"` // "ephemeral" or "in_channel"
	Text         string `json:"text"`
}

const (
	ResponseEphemeral = "ephemeral"
	ResponseInChannel = "in_channel"
)
