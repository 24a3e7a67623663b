package models

import (
	"database/sql"
	"time"
)

// Team is a club or national side.
type Team struct {
	ID            int64         `db:"id" json:"id"`
	ExternalID    int64         `db:"external_id" json:"external_id"` // provider id, upsert key
	Name          string        `db:"name" json:"name"`
	Code          string        `db:"code" json:"code,omitempty"` // short code, e.g. "MUN"
	CountryID     sql.NullInt64 `db:"country_id" json:"country_id,omitempty"`
	Founded       sql.NullInt64 `db:"founded" json:"founded,omitempty"`
	National      bool          `db:"national" json:"national"`
	LogoURL       string        `db:"logo_url" json:"logo_url,omitempty"`
	VenueName     string        `db:"venue_name" json:"venue_name,omitempty"`
	VenueCity     string        `db:"venue_city" json:"venue_city,omitempty"`
	VenueCapacity sql.NullInt64 `db:"venue_capacity" json:"venue_capacity,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// TeamLeagueSeason maps a team to a league for one season.
// Rows are created by the import routine after the teams they reference.
type TeamLeagueSeason struct {
	TeamID   int64 `db:"team_id" json:"team_id"`
	LeagueID int64 `db:"league_id" json:"league_id"`
	Season   int   `db:"season" json:"season"`
}
