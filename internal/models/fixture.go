package models

import (
	"database/sql"
	"time"
)

// Fixture statuses as reported by the football-data provider.
const (
	FixtureScheduled = "NS" // not started
	FixtureLive      = "LIVE"
	FixtureHalfTime  = "HT"
	FixtureFullTime  = "FT"
	FixturePostponed = "PST"
	FixtureCancelled = "CANC"
)

// Fixture is a single match between two teams.
type Fixture struct {
	ID         int64         `db:"id" json:"id"`
	ExternalID int64         `db:"external_id" json:"external_id"`
	LeagueID   int64         `db:"league_id" json:"league_id"`
	Season     int           `db:"season" json:"season"`
	Round      string        `db:"round" json:"round,omitempty"`
	HomeTeamID int64         `db:"home_team_id" json:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id" json:"away_team_id"`
	KickoffAt  time.Time     `db:"kickoff_at" json:"kickoff_at"`
	Venue      string        `db:"venue" json:"venue,omitempty"`
	Referee    string        `db:"referee" json:"referee,omitempty"`
	Status     string        `db:"status" json:"status"`
	HomeGoals  sql.NullInt64 `db:"home_goals" json:"home_goals,omitempty"`
	AwayGoals  sql.NullInt64 `db:"away_goals" json:"away_goals,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

// Finished reports whether the fixture reached a terminal state.
func (f *Fixture) Finished() bool {
	return f.Status == FixtureFullTime || f.Status == FixtureCancelled
}
