// Package models defines the persistent entities of KickOffHub.
package models

import "time"

// Country is a FIFA country/federation.
type Country struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"` // ISO-3166 alpha-2, e.g. "GB"
	FlagURL   string    `db:"flag_url" json:"flag_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
