package model

import "time"

// Reminder は送信済みリマインダーの監査レコードを表す。
type Reminder struct {
	ID        string
	Message   string
	CallerKey string
	SentAt    time.Time
}
