package database

import "time"

// Query records one dispatched weather question and its outcome (the
// pipeline outcome string, or "error" on upstream failure). It exists for
// operator visibility only; the pipeline never reads this data.
type Query struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	ChannelID string `db:"channel_id"`
	AuthorID  string `db:"author_id"`
	Question  string `db:"question"`
	City      string `db:"city"`
	Outcome   string `db:"outcome"`
	Reply     string `db:"reply"`
}
