package models

// TeamSettings is the per-workspace settings row. UTCOffset is nil until
// the team runs /set_timezone.
type TeamSettings struct {
	TeamID     string `json:"team_id"`
	UTCOffset  *int   `json:"utc_offset,omitempty"`
	TeamDomain string `json:"team_domain,omitempty"`
	Joined     int64  `json:"joined"`
}
