package models

import "time"

// SessionProgress counts answers in the current pass. 0 <= Completed <= Total.
type SessionProgress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Done reports whether every word of the pass has been answered.
func (p SessionProgress) Done() bool {
	return p.Completed >= p.Total
}

// WordUpdate is one buffered answer outcome, submitted in batches to PATCH /learning.
type WordUpdate struct {
	WordID        string `json:"wordId"`
	IsCorrect     bool   `json:"isCorrect"`
	IsAlreadyKnow bool   `json:"isAlreadyKnow,omitempty"`
}

// PendingUpdate is a WordUpdate parked in the durable outbox after a failed flush.
type PendingUpdate struct {
	ID            int64     `db:"id"`
	BatchID       string    `db:"batch_id"`
	Seq           int       `db:"seq"`
	WordID        string    `db:"word_id"`
	IsCorrect     bool      `db:"is_correct"`
	IsAlreadyKnow bool      `db:"is_already_know"`
	Attempts      int       `db:"attempts"`
	LastError     string    `db:"last_error"`
	CreatedAt     time.Time `db:"created_at"`
}

// Update converts the outbox row back into its wire form.
func (p PendingUpdate) Update() WordUpdate {
	return WordUpdate{WordID: p.WordID, IsCorrect: p.IsCorrect, IsAlreadyKnow: p.IsAlreadyKnow}
}

// OutboxBatch groups outbox rows that were submitted together.
type OutboxBatch struct {
	BatchID string
	Updates []PendingUpdate
}

// WordUpdates returns the batch in original answer order.
func (b OutboxBatch) WordUpdates() []WordUpdate {
	out := make([]WordUpdate, 0, len(b.Updates))
	for _, u := range b.Updates {
		out = append(out, u.Update())
	}
	return out
}

// OutboxStats summarises what is waiting in the outbox.
type OutboxStats struct {
	Batches int `json:"batches" db:"batches"`
	Updates int `json:"updates" db:"updates"`
}
