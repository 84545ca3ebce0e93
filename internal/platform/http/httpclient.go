// Package http provides the outbound HTTP client shared by upstream adapters.
package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultTimeout is used when NewHTTPClient is given a non-positive timeout.
const DefaultTimeout = 60 * time.Second

// NewHTTPClient は外部API（補完サービスなど）呼び出し用のHTTPクライアントを作成します。
//
// http.DefaultClient にはタイムアウトがないため使用しないこと。
// timeout はリクエスト全体（接続からボディ読み取りまで）の上限です。
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
