package model

import "time"

// Session は管理者のログインセッションを表す。
// 本システムは単一の許可リスト登録者のみがログインできるため、
// usersテーブルは持たず、検証済みのemailとnameをセッションに直接保持する。
type Session struct {
	ID        string
	Email     string
	Name      string
	ExpiresAt time.Time
	CreatedAt time.Time
}
