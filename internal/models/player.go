package models

import (
	"database/sql"
	"fmt"
	"time"
)

// Player is a registered footballer.
type Player struct {
	ID          int64          `db:"id" json:"id"`
	ExternalID  int64          `db:"external_id" json:"external_id"`
	Name        string         `db:"name" json:"name"`
	FirstName   string         `db:"first_name" json:"first_name,omitempty"`
	LastName    string         `db:"last_name" json:"last_name,omitempty"`
	BirthDate   sql.NullTime   `db:"birth_date" json:"birth_date,omitempty"`
	Nationality string         `db:"nationality" json:"nationality,omitempty"`
	Height      sql.NullString `db:"height" json:"height,omitempty"` // e.g. "180 cm"
	Weight      sql.NullString `db:"weight" json:"weight,omitempty"`
	Position    string         `db:"position" json:"position,omitempty"` // Goalkeeper/Defender/Midfielder/Attacker
	PhotoURL    string         `db:"photo_url" json:"photo_url,omitempty"`
	TeamID      sql.NullInt64  `db:"team_id" json:"team_id,omitempty"`
	Injured     bool           `db:"injured" json:"injured"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// Coach manages a team.
type Coach struct {
	ID          int64         `db:"id" json:"id"`
	ExternalID  int64         `db:"external_id" json:"external_id"`
	Name        string        `db:"name" json:"name"`
	Nationality string        `db:"nationality" json:"nationality,omitempty"`
	BirthDate   sql.NullTime  `db:"birth_date" json:"birth_date,omitempty"`
	PhotoURL    string        `db:"photo_url" json:"photo_url,omitempty"`
	TeamID      sql.NullInt64 `db:"team_id" json:"team_id,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// Transfer types.
const (
	TransferPermanent = "permanent"
	TransferLoan      = "loan"
	TransferFree      = "free"
)

// Transfer records a player moving between teams.
type Transfer struct {
	ID         int64         `db:"id" json:"id"`
	PlayerID   int64         `db:"player_id" json:"player_id"`
	FromTeamID sql.NullInt64 `db:"from_team_id" json:"from_team_id,omitempty"`
	ToTeamID   int64         `db:"to_team_id" json:"to_team_id"`
	Date       time.Time     `db:"date" json:"date"`
	Type       string        `db:"type" json:"type"` // "permanent", "loan", "free"
	Fee        sql.NullInt64 `db:"fee" json:"fee,omitempty"` // EUR, nullable for undisclosed
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

// NewTransfer validates and builds a transfer. date is "2006-01-02";
// fromTeamID zero means an unattached player, fee zero means undisclosed.
func NewTransfer(playerID, fromTeamID, toTeamID int64, date, transferType string, fee int64) (*Transfer, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid transfer date %q: want YYYY-MM-DD", date)
	}
	switch transferType {
	case TransferPermanent, TransferLoan, TransferFree:
	default:
		return nil, fmt.Errorf("invalid transfer type %q", transferType)
	}

	t := &Transfer{
		PlayerID: playerID,
		ToTeamID: toTeamID,
		Date:     day,
		Type:     transferType,
	}
	if fromTeamID > 0 {
		t.FromTeamID = sql.NullInt64{Int64: fromTeamID, Valid: true}
	}
	if fee > 0 {
		t.Fee = sql.NullInt64{Int64: fee, Valid: true}
	}
	return t, nil
}
