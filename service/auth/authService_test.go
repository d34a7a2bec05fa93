package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Sheila49/paket1-ukk-be/model"
	"github.com/Sheila49/paket1-ukk-be/util/hash"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	createFn     func(ctx context.Context, u *model.User) error
	byUsernameFn func(ctx context.Context, username string) (*model.User, error)
	byEmailFn    func(ctx context.Context, email string) (*model.User, error)
	byIDFn       func(ctx context.Context, id int64) (*model.User, error)
}

func (m *mockRepo) Create(ctx context.Context, u *model.User) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, u)
}

func (m *mockRepo) ByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.byUsernameFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.byUsernameFn(ctx, username)
}

func (m *mockRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.byEmailFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.byEmailFn(ctx, email)
}

func (m *mockRepo) ByID(ctx context.Context, id int64) (*model.User, error) {
	if m.byIDFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.byIDFn(ctx, id)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()

	h, err := hash.HashPassword(plain)
	require.NoError(t, err)
	return h
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			u.ID = 42
			return nil
		},
	}
	svc := New(m, "test-secret")

	u, err := svc.Register(ctx, model.RegisterReq{
		Username:    "sheila",
		Email:       "Sheila@Example.COM",
		Password:    "supersecret",
		NamaLengkap: "Sheila Putri",
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), u.ID)
	require.Equal(t, "sheila@example.com", u.Email)
	require.Equal(t, model.RolePeminjam, u.Role)
	require.True(t, u.IsActive)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "supersecret", u.PasswordHash)
}

func TestRegister_BadInput(t *testing.T) {
	svc := New(&mockRepo{}, "test-secret")

	_, err := svc.Register(context.Background(), model.RegisterReq{
		Username: " ",
		Email:    "a@b.c",
		Password: "123",
	})
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestRegister_UsernameTaken(t *testing.T) {
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			return &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "users_username_key",
			}
		},
	}
	svc := New(m, "test-secret")

	_, err := svc.Register(context.Background(), model.RegisterReq{
		Username:    "sheila",
		Email:       "sheila@example.com",
		Password:    "supersecret",
		NamaLengkap: "Sheila Putri",
	})
	require.Error(t, err)
	require.Equal(t, ErrUsernameTaken, Code(err))
}

func TestRegister_EmailTaken(t *testing.T) {
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			return &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "users_email_key",
			}
		},
	}
	svc := New(m, "test-secret")

	_, err := svc.Register(context.Background(), model.RegisterReq{
		Username:    "sheila",
		Email:       "sheila@example.com",
		Password:    "supersecret",
		NamaLengkap: "Sheila Putri",
	})
	require.Error(t, err)
	require.Equal(t, ErrEmailTaken, Code(err))
}

func TestLogin_ByUsername(t *testing.T) {
	pw := "supersecret"
	hashed := mustHash(t, pw)

	m := &mockRepo{
		byUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			require.Equal(t, "sheila", username)
			return &model.User{
				ID:           7,
				Username:     "sheila",
				PasswordHash: hashed,
				Role:         model.RolePeminjam,
				IsActive:     true,
			}, nil
		},
	}
	svc := New(m, "test-secret")

	u, tok, err := svc.Login(context.Background(), model.LoginReq{
		Username: "sheila",
		Password: pw,
	})
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.Equal(t, int64(7), u.ID)
}

func TestLogin_ByEmail(t *testing.T) {
	pw := "supersecret"
	hashed := mustHash(t, pw)

	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			require.Equal(t, "sheila@example.com", email)
			return &model.User{
				ID:           8,
				Email:        email,
				PasswordHash: hashed,
				Role:         model.RoleAdmin,
				IsActive:     true,
			}, nil
		},
	}
	svc := New(m, "test-secret")

	u, tok, err := svc.Login(context.Background(), model.LoginReq{
		Email:    "Sheila@Example.com",
		Password: pw,
	})
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.Equal(t, int64(8), u.ID)
}

func TestLogin_UserNotFound(t *testing.T) {
	svc := New(&mockRepo{}, "test-secret")

	_, _, err := svc.Login(context.Background(), model.LoginReq{
		Username: "missing",
		Password: "whatever",
	})
	require.Error(t, err)
	require.Equal(t, ErrInvalidCreds, Code(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	hashed := mustHash(t, "correct-password")

	m := &mockRepo{
		byUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 1, Username: username, PasswordHash: hashed, IsActive: true}, nil
		},
	}
	svc := New(m, "test-secret")

	_, _, err := svc.Login(context.Background(), model.LoginReq{
		Username: "sheila",
		Password: "wrong-password",
	})
	require.Error(t, err)
	require.Equal(t, ErrInvalidCreds, Code(err))
}

func TestLogin_InactiveAccount(t *testing.T) {
	hashed := mustHash(t, "supersecret")

	m := &mockRepo{
		byUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 2, Username: username, PasswordHash: hashed, IsActive: false}, nil
		},
	}
	svc := New(m, "test-secret")

	_, _, err := svc.Login(context.Background(), model.LoginReq{
		Username: "sheila",
		Password: "supersecret",
	})
	require.Error(t, err)
	require.Equal(t, ErrInvalidCreds, Code(err))
}

func TestMe_NotFound(t *testing.T) {
	svc := New(&mockRepo{}, "test-secret")

	_, err := svc.Me(context.Background(), 99)
	require.Error(t, err)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestCodeExtractor(t *testing.T) {
	require.Equal(t, ErrInvalidCreds, Code(makeErr(ErrInvalidCreds)))
	require.Equal(t, ErrCode(""), Code(errors.New("plain")))
}
