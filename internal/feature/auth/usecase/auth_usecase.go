// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"planner_backend/internal/feature/auth/domain/entity"
)

const (
	// OTPTTL はワンタイムコードの有効期間です。
	OTPTTL = 5 * time.Minute

	// otpMin, otpSpan は6桁コードの範囲（100000〜999999）を定義します。
	otpMin  = 100000
	otpSpan = 900000
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// メールアドレスまたはユーザー名が重複する場合、ErrDuplicateUserを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByIdentifier はメールアドレスまたはユーザー名に一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// ExistsByEmailOrUsername はメールアドレスまたはユーザー名が使用済みかを返します。
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)

	// Update はユーザーのプロフィール項目を保存します。
	Update(ctx context.Context, user *entity.User) error
}

// TokenIssuer はセッショントークンの発行と検証を定義します。
// 実装はplatform/jwtにあります。
type TokenIssuer interface {
	// GenerateToken は指定されたIDの署名済みトークンを生成します。
	GenerateToken(identity entity.Identity) (string, error)
	// ParseToken は署名と有効期限を検証し、埋め込まれたIDを返します。
	ParseToken(token string) (*entity.Identity, error)
}

// RegisterInput は登録リクエストの入力値です。
type RegisterInput struct {
	Username string
	Fullname string
	Email    string
	Password string
	OTP      string
}

// AuthResult は登録・ログイン成功時の結果です。
type AuthResult struct {
	Token string
	User  *entity.User
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users  UserRepository
	otps   OTPRepository
	sender OTPSender
	tokens TokenIssuer

	hashCost int
	now      func() time.Time
	newCode  func() (string, error)
	newID    func() (string, error)
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, otps OTPRepository, sender OTPSender, tokens TokenIssuer) *authUsecase {
	return &authUsecase{
		users:    users,
		otps:     otps,
		sender:   sender,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
		newCode:  generateOTP,
		newID:    newUserID,
	}
}

// generateOTP は暗号論的乱数で6桁の数字コードを生成します。
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// newUserID は時刻順に並ぶUUIDv7をユーザーIDとして生成します。
func newUserID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// sameCode はコードを数値として比較します（"012345" と 12345 は等しい）。
func sameCode(stored, given string) bool {
	a, err := strconv.Atoi(strings.TrimSpace(stored))
	if err != nil {
		return false
	}
	b, err := strconv.Atoi(strings.TrimSpace(given))
	if err != nil {
		return false
	}
	return a == b
}

// normalizeEmail はOTPの保存キーとユーザーレコードで共通のメールアドレス表記を返します。
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// RequestOTP はメールアドレス宛のワンタイムコードを発行します。
// 同じメールアドレスの保留中コードは上書きされます。配送失敗はログに残すだけで、呼び出し元には返しません。
func (u *authUsecase) RequestOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	code, err := u.newCode()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}
	otp := &entity.OTP{Email: email, Code: code, ExpiresAt: u.now().Add(OTPTTL)}
	if err := u.otps.Upsert(ctx, otp); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := u.sender.SendOTP(ctx, email, code); err != nil {
		slog.Warn("otp delivery failed", "email", email, "error", err)
	}
	return nil
}

// Register はOTPを検証し、ハッシュ化されたパスワードで新規ユーザーを登録します。
// 成功時は消費済みOTPを削除し、セッショントークンを発行します。
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Username == "" || in.Fullname == "" || in.Email == "" || in.Password == "" || strings.TrimSpace(in.OTP) == "" {
		return nil, ErrAllFieldsRequired
	}

	otp, err := u.otps.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, ErrOTPNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("failed to load otp: %w", err)
	}
	if !sameCode(otp.Code, in.OTP) {
		return nil, ErrInvalidOTP
	}
	if otp.IsExpired(u.now()) {
		return nil, ErrOTPExpired
	}

	exists, err := u.users.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	id, err := u.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id: %w", err)
	}

	user := &entity.User{
		ID:           id,
		Username:     in.Username,
		Fullname:     in.Fullname,
		Email:        in.Email,
		PasswordHash: string(hashed),
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	// OTPの削除失敗で登録を失敗させない（コードは期限切れで無効になる）
	if err := u.otps.Delete(ctx, in.Email); err != nil {
		slog.Warn("failed to delete consumed otp", "email", in.Email, "error", err)
	}

	token, err := u.tokens.GenerateToken(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login はメールアドレスまたはユーザー名でユーザーを認証し、成功時にトークンを返します。
func (u *authUsecase) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrBothFieldsRequired
	}

	user, err := u.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := u.tokens.GenerateToken(user.Identity())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

// ValidateSession はトークンの署名と有効期限を検証し、埋め込まれたIDを返します。
func (u *authUsecase) ValidateSession(_ context.Context, token string) (*entity.Identity, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	identity, err := u.tokens.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return identity, nil
}

// CurrentUser はトークンのIDから最新のユーザーレコードを再取得します。
func (u *authUsecase) CurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

// UpdateProfile は指定された項目のみを上書きする部分更新を行います。
// ユーザー名・メールアドレスが他のユーザーと重複する場合はErrDuplicateUserを返します。
func (u *authUsecase) UpdateProfile(ctx context.Context, userID string, update entity.ProfileUpdate) (*entity.User, error) {
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		update.Email = &email
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, v := range []*string{update.Username, update.Email} {
		if v == nil || *v == "" {
			continue
		}
		other, err := u.users.FindByIdentifier(ctx, *v)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to check user: %w", err)
		}
		if other.ID != user.ID {
			return nil, ErrDuplicateUser
		}
	}

	if !update.Apply(user) {
		return user, nil
	}
	if err := u.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
