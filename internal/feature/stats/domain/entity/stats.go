// Package entity はstatsフィーチャーのドメインエンティティを定義します。
package entity

// PromptStats はユーザーごとの送信プロンプト数です。
type PromptStats struct {
	UserID  string `gorm:"primaryKey;type:text"`
	Prompts int64  `gorm:"not null;default:0"`
}

// TableName はGORMが使用するテーブル名を返します。
func (PromptStats) TableName() string { return "prompt_stats" }

// Summary は全体とユーザー個別のプロンプト数です。
type Summary struct {
	TotalPrompts int64
	UserPrompts  int64
}
