package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Sheila49/paket1-ukk-be/model"
	logsvc "github.com/Sheila49/paket1-ukk-be/service/log"
	"github.com/Sheila49/paket1-ukk-be/util/hash"
)

type ErrCode string

const (
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrTaken    ErrCode = "TAKEN"
	ErrBadInput ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int64) error
}

// Service is the admin-only user management surface.
type Service interface {
	Create(ctx context.Context, actorID int64, req model.CreateUserReq) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, actorID, id int64, req model.UpdateUserReq) (*model.User, error)
	Delete(ctx context.Context, actorID, id int64) error
}

type service struct {
	r   Repo
	rec logsvc.Recorder
}

func New(r Repo, rec logsvc.Recorder) Service { return &service{r: r, rec: rec} }

func (s *service) Create(ctx context.Context, actorID int64, req model.CreateUserReq) (*model.User, error) {
	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, makeErr(ErrBadInput)
	}
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
		NamaLengkap:  req.NamaLengkap,
		Role:         role,
		IsActive:     true,
	}
	if err := s.r.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrTaken)
		}
		return nil, err
	}

	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actorID,
		Aksi:     "CREATE",
		Tabel:    "users",
		RecordID: &u.ID,
		Detail:   fmt.Sprintf("User baru: %s (%s)", u.Username, u.Role),
	})
	return u, nil
}

func (s *service) ByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) List(ctx context.Context) ([]model.User, error) { return s.r.List(ctx) }

func (s *service) Update(ctx context.Context, actorID, id int64, req model.UpdateUserReq) (*model.User, error) {
	u, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Password != nil {
		hashed, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hashed
	}
	if req.NamaLengkap != nil {
		u.NamaLengkap = *req.NamaLengkap
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		if !role.Valid() {
			return nil, makeErr(ErrBadInput)
		}
		u.Role = role
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	if err := s.r.Update(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrTaken)
		}
		return nil, err
	}

	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actorID,
		Aksi:     "UPDATE",
		Tabel:    "users",
		RecordID: &id,
		Detail:   fmt.Sprintf("User diupdate: %s", u.Username),
	})
	return u, nil
}

func (s *service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actorID,
		Aksi:     "DELETE",
		Tabel:    "users",
		RecordID: &id,
		Detail:   "User dihapus",
	})
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
