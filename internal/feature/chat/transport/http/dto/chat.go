// Package dto はchatフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "planner_backend/internal/feature/chat/domain/entity"

// ChatReq は/api/chatのリクエストボディです。
type ChatReq struct {
	UserID string `json:"userId"`
	Prompt string `json:"prompt"`
}

// ChatRes は/api/chatの成功レスポンスです。
type ChatRes struct {
	Response string `json:"response"`
}

// ChatRejectedRes はプロンプトが空の場合のレスポンスです。
type ChatRejectedRes struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// SaveHistoryReq は/api/history/saveのリクエストボディです。
type SaveHistoryReq struct {
	UserID     string `json:"userId"`
	UserInput  string `json:"userInput"`
	AIResponse string `json:"aiResponse"`
}

// DeleteHistoryReq は/api/chat/deleteのリクエストボディです。
// PairIDが指定された場合は内容ではなくIDで削除します。
type DeleteHistoryReq struct {
	UserID     string `json:"userId"`
	UserInput  string `json:"userInput"`
	AIResponse string `json:"aiResponse"`
	PairID     string `json:"pairId"`
}

// ResultRes は履歴の保存・削除のレスポンスです。
type ResultRes struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HistoryRes は/api/history/:userIdのレスポンスです。
type HistoryRes struct {
	History []entity.Pair `json:"history"`
}
