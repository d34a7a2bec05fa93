package kategori

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Sheila49/paket1-ukk-be/model"
	logsvc "github.com/Sheila49/paket1-ukk-be/service/log"
)

type ErrCode string

const (
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrInUse    ErrCode = "IN_USE"
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
	Create(ctx context.Context, k *model.Kategori) error
	List(ctx context.Context) ([]model.Kategori, error)
	ByID(ctx context.Context, id int64) (*model.Kategori, error)
	Update(ctx context.Context, k *model.Kategori) error
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	Create(ctx context.Context, actorID int64, req model.KategoriReq) (*model.Kategori, error)
	List(ctx context.Context) ([]model.Kategori, error)
	ByID(ctx context.Context, id int64) (*model.Kategori, error)
	Update(ctx context.Context, actorID, id int64, req model.KategoriReq) (*model.Kategori, error)
	Delete(ctx context.Context, actorID, id int64) error
}

type service struct {
	r   Repo
	rec logsvc.Recorder
}

func New(r Repo, rec logsvc.Recorder) Service { return &service{r: r, rec: rec} }

func (s *service) Create(ctx context.Context, actorID int64, req model.KategoriReq) (*model.Kategori, error) {
	k := &model.Kategori{NamaKategori: req.NamaKategori, Deskripsi: req.Deskripsi}
	if err := s.r.Create(ctx, k); err != nil {
		return nil, err
	}
	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actorID,
		Aksi:     "CREATE",
		Tabel:    "kategori",
		RecordID: &k.ID,
		Detail:   fmt.Sprintf("Kategori baru: %s", k.NamaKategori),
	})
	return k, nil
}

func (s *service) List(ctx context.Context) ([]model.Kategori, error) { return s.r.List(ctx) }

func (s *service) ByID(ctx context.Context, id int64) (*model.Kategori, error) {
	k, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return k, nil
}

func (s *service) Update(ctx context.Context, actorID, id int64, req model.KategoriReq) (*model.Kategori, error) {
	k, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	k.NamaKategori = req.NamaKategori
	k.Deskripsi = req.Deskripsi
	if err := s.r.Update(ctx, k); err != nil {
		return nil, err
	}
	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actorID,
		Aksi:     "UPDATE",
		Tabel:    "kategori",
		RecordID: &id,
		Detail:   fmt.Sprintf("Kategori diupdate: %s", k.NamaKategori),
	})
	return k, nil
}

func (s *service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return makeErr(ErrInUse)
		}
		return err
	}
	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actorID,
		Aksi:     "DELETE",
		Tabel:    "kategori",
		RecordID: &id,
		Detail:   "Kategori dihapus",
	})
	return nil
}
