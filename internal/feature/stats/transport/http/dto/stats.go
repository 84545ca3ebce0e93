// Package dto はstatsフィーチャーのHTTPレスポンスを定義します。
package dto

// StatsRes は/api/stats/:userIdのレスポンスです。
type StatsRes struct {
	TotalPrompts int64 `json:"totalPrompts"`
	UserPrompts  int64 `json:"userPrompts"`
}
