// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"bytes"
	"encoding/json"
)

// SendOTPReq は/send-otpエンドポイントのリクエストボディを表します。
type SendOTPReq struct {
	Email string `json:"email"`
}

// RegisterReq は/registerエンドポイントのリクエストボディを表します。
// 必須チェックはユースケース側で行い、互換メッセージを返します。
type RegisterReq struct {
	Username string  `json:"username"`
	Fullname string  `json:"fullname"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	OTP      OTPCode `json:"otp"`
}

// LoginReq は/loginエンドポイントのリクエストボディを表します。
type LoginReq struct {
	EmailOrUsername string `json:"emailOrUsername"`
	Password        string `json:"password"`
}

// UpdateUserReq は/api/users/update/:idのリクエストボディを表します。
// 省略または空文字のフィールドは更新しません。
type UpdateUserReq struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Fullname  *string `json:"fullname"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// OTPCode accepts the code as a JSON string ("123456") or number (123456).
type OTPCode string

// UnmarshalJSON implements json.Unmarshaler.
func (o *OTPCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*o = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*o = OTPCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*o = OTPCode(n.String())
	return nil
}
