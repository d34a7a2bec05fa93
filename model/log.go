package model

import "time"

// LogAktivitas is an audit trail row. Writes are fire-and-forget: a failed
// insert never fails the mutation it describes.
type LogAktivitas struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	Aksi      string    `json:"aksi"`
	Tabel     string    `json:"tabel"`
	RecordID  *int64    `json:"record_id,omitempty"`
	Detail    string    `json:"detail"`
	IPAddress *string   `json:"ip_address,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
