// Package model はドメインモデルを定義する。
package model

import "time"

// MealEvent は食事の記録1件を表す。
// 作成後は削除以外で変更されないイミュータブルなレコード。
// IDはappend時にDBが採番する単調増加の識別子で、
// 同一タイムスタンプのレコードの順序付けにも使用する。
type MealEvent struct {
	ID        int64
	Ate       bool
	Timestamp time.Time
}
