package models

import "time"

// League is a national or international competition.
type League struct {
	ID         int64     `db:"id" json:"id"`
	ExternalID int64     `db:"external_id" json:"external_id"` // provider id
	Name       string    `db:"name" json:"name"`
	Type       string    `db:"type" json:"type"` // "league" or "cup"
	LogoURL    string    `db:"logo_url" json:"logo_url,omitempty"`
	CountryID  int64     `db:"country_id" json:"country_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Season is one edition of a league.
type Season struct {
	ID        int64     `db:"id" json:"id"`
	LeagueID  int64     `db:"league_id" json:"league_id"`
	Year      int       `db:"year" json:"year"` // season start year, e.g. 2023
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Current   bool      `db:"current" json:"current"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
