package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"planner_backend/internal/feature/auth/domain/entity"
	"planner_backend/internal/shared/apperr"
)

// memUserRepository is an in-memory implementation of UserRepository.
type memUserRepository struct {
	byID      map[string]*entity.User
	createErr error
}

func newMemUserRepository(users ...*entity.User) *memUserRepository {
	r := &memUserRepository{byID: map[string]*entity.User{}}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func (r *memUserRepository) Create(_ context.Context, user *entity.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *memUserRepository) FindByIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	for _, u := range r.byID {
		if u.Email == identifier || u.Username == identifier {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memUserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepository) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	for _, u := range r.byID {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepository) Update(_ context.Context, user *entity.User) error {
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

// memOTPRepository is an in-memory implementation of OTPRepository.
type memOTPRepository struct {
	byEmail map[string]entity.OTP
	upserts int
}

func newMemOTPRepository() *memOTPRepository {
	return &memOTPRepository{byEmail: map[string]entity.OTP{}}
}

func (r *memOTPRepository) Upsert(_ context.Context, otp *entity.OTP) error {
	r.upserts++
	r.byEmail[otp.Email] = *otp
	return nil
}

func (r *memOTPRepository) FindByEmail(_ context.Context, email string) (*entity.OTP, error) {
	o, ok := r.byEmail[email]
	if !ok {
		return nil, ErrOTPNotFound
	}
	return &o, nil
}

func (r *memOTPRepository) Delete(_ context.Context, email string) error {
	delete(r.byEmail, email)
	return nil
}

// mockSender records delivered codes.
type mockSender struct {
	sent    map[string]string
	sendErr error
}

func (m *mockSender) SendOTP(_ context.Context, email, code string) error {
	if m.sent == nil {
		m.sent = map[string]string{}
	}
	m.sent[email] = code
	return m.sendErr
}

// mockTokenIssuer is a mock implementation of TokenIssuer.
type mockTokenIssuer struct {
	GenerateTokenFunc func(identity entity.Identity) (string, error)
	ParseTokenFunc    func(token string) (*entity.Identity, error)
}

func (m *mockTokenIssuer) GenerateToken(identity entity.Identity) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(identity)
	}
	return "mock-jwt-token", nil
}

func (m *mockTokenIssuer) ParseToken(token string) (*entity.Identity, error) {
	if m.ParseTokenFunc != nil {
		return m.ParseTokenFunc(token)
	}
	return nil, errors.New("invalid token")
}

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestUsecase(users *memUserRepository, otps *memOTPRepository, tokens *mockTokenIssuer) (*authUsecase, *mockSender) {
	sender := &mockSender{}
	uc := NewAuthUsecase(users, otps, sender, tokens)
	uc.hashCost = bcrypt.MinCost
	uc.now = func() time.Time { return fixedNow }
	uc.newID = func() (string, error) { return "user-1", nil }
	return uc, sender
}

func TestGenerateOTP_SixDigits(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		code, err := generateOTP()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.NotEqual(t, '0', rune(code[0]))
	}
}

func TestSameCode(t *testing.T) {
	t.Parallel()

	assert.True(t, sameCode("123456", "123456"))
	assert.True(t, sameCode("123456", " 123456 "))
	assert.True(t, sameCode("012345", "12345"))
	assert.False(t, sameCode("123456", "654321"))
	assert.False(t, sameCode("123456", "abc"))
	assert.False(t, sameCode("", ""))
}

func TestAuthUsecase_RequestOTP(t *testing.T) {
	t.Run("missing email", func(t *testing.T) {
		uc, _ := newTestUsecase(newMemUserRepository(), newMemOTPRepository(), &mockTokenIssuer{})

		err := uc.RequestOTP(context.Background(), "  ")

		assert.ErrorIs(t, err, ErrEmailRequired)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("second request replaces pending code", func(t *testing.T) {
		otps := newMemOTPRepository()
		uc, sender := newTestUsecase(newMemUserRepository(), otps, &mockTokenIssuer{})
		codes := []string{"111111", "222222"}
		uc.newCode = func() (string, error) {
			c := codes[0]
			codes = codes[1:]
			return c, nil
		}

		require.NoError(t, uc.RequestOTP(context.Background(), "alice@x.com"))
		require.NoError(t, uc.RequestOTP(context.Background(), "alice@x.com"))

		assert.Len(t, otps.byEmail, 1)
		assert.Equal(t, "222222", otps.byEmail["alice@x.com"].Code)
		assert.Equal(t, fixedNow.Add(OTPTTL), otps.byEmail["alice@x.com"].ExpiresAt)
		assert.Equal(t, "222222", sender.sent["alice@x.com"])
	})

	t.Run("delivery failure is not returned", func(t *testing.T) {
		uc, sender := newTestUsecase(newMemUserRepository(), newMemOTPRepository(), &mockTokenIssuer{})
		sender.sendErr = errors.New("smtp down")

		assert.NoError(t, uc.RequestOTP(context.Background(), "alice@x.com"))
	})
}

func TestAuthUsecase_Register(t *testing.T) {
	validInput := RegisterInput{
		Username: "alice",
		Fullname: "Alice Liddell",
		Email:    "alice@x.com",
		Password: "wonderland",
		OTP:      "123456",
	}

	t.Run("successful registration", func(t *testing.T) {
		users := newMemUserRepository()
		otps := newMemOTPRepository()
		otps.byEmail["alice@x.com"] = entity.OTP{Email: "alice@x.com", Code: "123456", ExpiresAt: fixedNow.Add(time.Minute)}
		tokens := &mockTokenIssuer{
			GenerateTokenFunc: func(identity entity.Identity) (string, error) {
				assert.Equal(t, entity.Identity{UserID: "user-1", Email: "alice@x.com", Username: "alice"}, identity)
				return "signed", nil
			},
		}
		uc, _ := newTestUsecase(users, otps, tokens)

		res, err := uc.Register(context.Background(), validInput)

		require.NoError(t, err)
		assert.Equal(t, "signed", res.Token)
		assert.Equal(t, "user-1", res.User.ID)
		assert.NotEqual(t, "wonderland", res.User.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("wonderland")))
		assert.Empty(t, otps.byEmail, "consumed otp must be deleted")
		assert.Contains(t, users.byID, "user-1")
	})

	t.Run("numeric otp comparison", func(t *testing.T) {
		otps := newMemOTPRepository()
		otps.byEmail["alice@x.com"] = entity.OTP{Email: "alice@x.com", Code: "123456", ExpiresAt: fixedNow.Add(time.Minute)}
		uc, _ := newTestUsecase(newMemUserRepository(), otps, &mockTokenIssuer{})
		in := validInput
		in.OTP = " 123456"

		_, err := uc.Register(context.Background(), in)

		assert.NoError(t, err)
	})

	tests := []struct {
		name    string
		input   func() RegisterInput
		otp     *entity.OTP
		users   []*entity.User
		wantErr error
	}{
		{
			name:    "missing field",
			input:   func() RegisterInput { in := validInput; in.Fullname = ""; return in },
			wantErr: ErrAllFieldsRequired,
		},
		{
			name:    "no pending otp",
			input:   func() RegisterInput { return validInput },
			wantErr: ErrInvalidOTP,
		},
		{
			name:    "mismatched otp",
			input:   func() RegisterInput { in := validInput; in.OTP = "999999"; return in },
			otp:     &entity.OTP{Email: "alice@x.com", Code: "123456", ExpiresAt: fixedNow.Add(time.Minute)},
			wantErr: ErrInvalidOTP,
		},
		{
			name:    "expired otp",
			input:   func() RegisterInput { return validInput },
			otp:     &entity.OTP{Email: "alice@x.com", Code: "123456", ExpiresAt: fixedNow.Add(-time.Second)},
			wantErr: ErrOTPExpired,
		},
		{
			name:    "duplicate username",
			input:   func() RegisterInput { return validInput },
			otp:     &entity.OTP{Email: "alice@x.com", Code: "123456", ExpiresAt: fixedNow.Add(time.Minute)},
			users:   []*entity.User{{ID: "u0", Username: "alice", Email: "other@x.com"}},
			wantErr: ErrDuplicateUser,
		},
		{
			name:    "duplicate email",
			input:   func() RegisterInput { return validInput },
			otp:     &entity.OTP{Email: "alice@x.com", Code: "123456", ExpiresAt: fixedNow.Add(time.Minute)},
			users:   []*entity.User{{ID: "u0", Username: "someone", Email: "alice@x.com"}},
			wantErr: ErrDuplicateUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			otps := newMemOTPRepository()
			if tt.otp != nil {
				otps.byEmail[tt.otp.Email] = *tt.otp
			}
			uc, _ := newTestUsecase(newMemUserRepository(tt.users...), otps, &mockTokenIssuer{})

			res, err := uc.Register(context.Background(), tt.input())

			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.otp != nil {
				assert.Contains(t, otps.byEmail, tt.otp.Email, "otp must survive a failed registration")
			}
		})
	}

	t.Run("repository create failure", func(t *testing.T) {
		expectedErr := errors.New("database error")
		users := newMemUserRepository()
		users.createErr = expectedErr
		otps := newMemOTPRepository()
		otps.byEmail["alice@x.com"] = entity.OTP{Email: "alice@x.com", Code: "123456", ExpiresAt: fixedNow.Add(time.Minute)}
		uc, _ := newTestUsecase(users, otps, &mockTokenIssuer{})

		_, err := uc.Register(context.Background(), validInput)

		assert.ErrorIs(t, err, expectedErr)
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	stored := &entity.User{ID: "u1", Username: "alice", Email: "alice@x.com", PasswordHash: string(hashed)}

	t.Run("login by username", func(t *testing.T) {
		uc, _ := newTestUsecase(newMemUserRepository(stored), newMemOTPRepository(), &mockTokenIssuer{})

		res, err := uc.Login(context.Background(), "alice", "password123")

		require.NoError(t, err)
		assert.Equal(t, "mock-jwt-token", res.Token)
		assert.Equal(t, "u1", res.User.ID)
	})

	t.Run("login by email", func(t *testing.T) {
		uc, _ := newTestUsecase(newMemUserRepository(stored), newMemOTPRepository(), &mockTokenIssuer{})

		res, err := uc.Login(context.Background(), "alice@x.com", "password123")

		require.NoError(t, err)
		assert.Equal(t, "u1", res.User.ID)
	})

	t.Run("missing fields", func(t *testing.T) {
		uc, _ := newTestUsecase(newMemUserRepository(stored), newMemOTPRepository(), &mockTokenIssuer{})

		_, err := uc.Login(context.Background(), "alice", "")

		assert.ErrorIs(t, err, ErrBothFieldsRequired)
	})

	t.Run("user not found", func(t *testing.T) {
		uc, _ := newTestUsecase(newMemUserRepository(stored), newMemOTPRepository(), &mockTokenIssuer{})

		_, err := uc.Login(context.Background(), "bob", "password123")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		uc, _ := newTestUsecase(newMemUserRepository(stored), newMemOTPRepository(), &mockTokenIssuer{})

		_, err := uc.Login(context.Background(), "alice", "wrong-password")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, "Invalid credentials", err.Error())
	})

	t.Run("token generation failure", func(t *testing.T) {
		tokens := &mockTokenIssuer{
			GenerateTokenFunc: func(entity.Identity) (string, error) { return "", errors.New("failed to sign token") },
		}
		uc, _ := newTestUsecase(newMemUserRepository(stored), newMemOTPRepository(), tokens)

		_, err := uc.Login(context.Background(), "alice", "password123")

		assert.EqualError(t, err, "failed to generate token: failed to sign token")
	})
}

func TestAuthUsecase_ValidateSession(t *testing.T) {
	tokens := &mockTokenIssuer{
		ParseTokenFunc: func(token string) (*entity.Identity, error) {
			if token == "good" {
				return &entity.Identity{UserID: "u1", Email: "alice@x.com", Username: "alice"}, nil
			}
			return nil, errors.New("token is expired")
		},
	}
	uc, _ := newTestUsecase(newMemUserRepository(), newMemOTPRepository(), tokens)

	id, err := uc.ValidateSession(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)

	_, err = uc.ValidateSession(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = uc.ValidateSession(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestAuthUsecase_UpdateProfile(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	newRepo := func() *memUserRepository {
		return newMemUserRepository(
			&entity.User{ID: "u1", Username: "alice", Email: "alice@x.com", Fullname: "Alice"},
			&entity.User{ID: "u2", Username: "bob", Email: "bob@x.com"},
		)
	}

	t.Run("partial update", func(t *testing.T) {
		repo := newRepo()
		uc, _ := newTestUsecase(repo, newMemOTPRepository(), &mockTokenIssuer{})

		user, err := uc.UpdateProfile(context.Background(), "u1", entity.ProfileUpdate{FirstName: strPtr("Alice"), Username: strPtr("alice2")})

		require.NoError(t, err)
		assert.Equal(t, "alice2", user.Username)
		assert.Equal(t, "Alice", user.FirstName)
		assert.Equal(t, "alice@x.com", user.Email)
		assert.Equal(t, "alice2", repo.byID["u1"].Username)
	})

	t.Run("keeping own username is allowed", func(t *testing.T) {
		uc, _ := newTestUsecase(newRepo(), newMemOTPRepository(), &mockTokenIssuer{})

		_, err := uc.UpdateProfile(context.Background(), "u1", entity.ProfileUpdate{Username: strPtr("alice")})

		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		uc, _ := newTestUsecase(newRepo(), newMemOTPRepository(), &mockTokenIssuer{})

		_, err := uc.UpdateProfile(context.Background(), "nobody", entity.ProfileUpdate{Username: strPtr("x")})

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("email taken by another user", func(t *testing.T) {
		uc, _ := newTestUsecase(newRepo(), newMemOTPRepository(), &mockTokenIssuer{})

		_, err := uc.UpdateProfile(context.Background(), "u1", entity.ProfileUpdate{Email: strPtr("bob@x.com")})

		assert.ErrorIs(t, err, ErrDuplicateUser)
	})
}

func TestAuthUsecase_PaddedEmailRoundTrip(t *testing.T) {
	users := newMemUserRepository()
	otps := newMemOTPRepository()
	uc, sender := newTestUsecase(users, otps, &mockTokenIssuer{})
	ctx := context.Background()

	require.NoError(t, uc.RequestOTP(ctx, " alice@x.com "))
	code, ok := sender.sent["alice@x.com"]
	require.True(t, ok, "otp must be keyed by the trimmed email")

	res, err := uc.Register(ctx, RegisterInput{
		Username: "alice",
		Fullname: "Alice Liddell",
		Email:    " alice@x.com ",
		Password: "wonderland",
		OTP:      code,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", res.User.Email)
	assert.Equal(t, "alice@x.com", users.byID["user-1"].Email)

	login, err := uc.Login(ctx, "  alice@x.com", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, "user-1", login.User.ID)

	padded := "  alice@example.org "
	updated, err := uc.UpdateProfile(ctx, "user-1", entity.ProfileUpdate{Email: &padded})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.org", updated.Email)
}
