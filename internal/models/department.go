package models

import "time"

// Department is a top-level academic unit.
type Department struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Description *string   `db:"description" json:"description,omitempty"`
	HeadUserID  *string   `db:"head_user_id" json:"head_user_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
