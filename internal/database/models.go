package database

import (
	"database/sql"
	"time"
)

// profileRow is the persisted form of a user profile. The aggregate itself is
// stored as a JSON document; the pipeline does not require a relational
// decomposition of the nested groups.
type profileRow struct {
	UserID    string    `db:"user_id"`
	Profile   string    `db:"profile"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// messageRow is one archived conversation message. Unlike the capped history
// held on the profile document, this table keeps the full archive.
type messageRow struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Role      string         `db:"role"`
	Content   string         `db:"content"`
	Metadata  sql.NullString `db:"metadata"`
	Timestamp time.Time      `db:"timestamp"`
	CreatedAt time.Time      `db:"created_at"`
}
