package alat

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
	ErrNotFound  ErrCode = "NOT_FOUND"
	ErrBadInput  ErrCode = "BAD_INPUT"
	ErrKodeTaken ErrCode = "KODE_TAKEN"
	ErrInUse     ErrCode = "IN_USE"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Create(ctx context.Context, a *model.Alat) error
	Update(ctx context.Context, a *model.Alat) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Alat, error)
	Detail(ctx context.Context, id int64) (*model.Alat, error)
}

type Service interface {
	Create(ctx context.Context, actorID int64, req model.CreateAlatReq) (*model.Alat, error)
	Update(ctx context.Context, actorID, id int64, req model.UpdateAlatReq) (*model.Alat, error)
	Delete(ctx context.Context, actorID, id int64) error
	List(ctx context.Context) ([]model.Alat, error)
	Detail(ctx context.Context, id int64) (*model.Alat, error)
}

type service struct {
	r   Repo
	rec logsvc.Recorder
}

func New(r Repo, rec logsvc.Recorder) Service { return &service{r: r, rec: rec} }

func (s *service) Create(ctx context.Context, actorID int64, req model.CreateAlatReq) (*model.Alat, error) {
	if req.JumlahTersedia > req.JumlahTotal {
		return nil, makeErr(ErrBadInput)
	}
	kondisi := model.Kondisi(req.Kondisi)
	if req.Kondisi == "" {
		kondisi = model.KondisiBaik
	}
	if !kondisi.Valid() {
		return nil, makeErr(ErrBadInput)
	}

	a := &model.Alat{
		KodeAlat:          req.KodeAlat,
		NamaAlat:          req.NamaAlat,
		KategoriID:        req.KategoriID,
		Deskripsi:         req.Deskripsi,
		Kondisi:           kondisi,
		JumlahTotal:       req.JumlahTotal,
		JumlahTersedia:    req.JumlahTersedia,
		NilaiAlat:         req.NilaiAlat,
		LokasiPenyimpanan: req.LokasiPenyimpanan,
		GambarURL:         req.GambarURL,
		Status:            model.AlatTersedia,
	}
	if err := s.r.Create(ctx, a); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrKodeTaken)
		}
		return nil, err
	}

	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actorID,
		Aksi:     "CREATE",
		Tabel:    "alat",
		RecordID: &a.ID,
		Detail:   fmt.Sprintf("Alat baru: %s (%s)", a.NamaAlat, a.KodeAlat),
	})
	return a, nil
}

func (s *service) Update(ctx context.Context, actorID, id int64, req model.UpdateAlatReq) (*model.Alat, error) {
	a, err := s.r.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	if req.KodeAlat != nil {
		a.KodeAlat = *req.KodeAlat
	}
	if req.NamaAlat != nil {
		a.NamaAlat = *req.NamaAlat
	}
	if req.KategoriID != nil {
		a.KategoriID = req.KategoriID
	}
	if req.Deskripsi != nil {
		a.Deskripsi = req.Deskripsi
	}
	if req.Kondisi != nil {
		k := model.Kondisi(*req.Kondisi)
		if !k.Valid() {
			return nil, makeErr(ErrBadInput)
		}
		a.Kondisi = k
	}
	if req.JumlahTotal != nil {
		a.JumlahTotal = *req.JumlahTotal
	}
	if req.JumlahTersedia != nil {
		a.JumlahTersedia = *req.JumlahTersedia
	}
	if req.NilaiAlat != nil {
		a.NilaiAlat = req.NilaiAlat
	}
	if req.LokasiPenyimpanan != nil {
		a.LokasiPenyimpanan = req.LokasiPenyimpanan
	}
	if req.GambarURL != nil {
		a.GambarURL = req.GambarURL
	}
	if a.JumlahTersedia > a.JumlahTotal || a.JumlahTersedia < 0 {
		return nil, makeErr(ErrBadInput)
	}

	if err := s.r.Update(ctx, a); err != nil {
		if isUniqueViolation(err) {
			return nil, makeErr(ErrKodeTaken)
		}
		return nil, err
	}

	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actorID,
		Aksi:     "UPDATE",
		Tabel:    "alat",
		RecordID: &id,
		Detail:   fmt.Sprintf("Alat diupdate: %s", a.NamaAlat),
	})
	return s.r.Detail(ctx, id)
}

func (s *service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		if isForeignKeyViolation(err) {
			return makeErr(ErrInUse)
		}
		return err
	}

	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actorID,
		Aksi:     "DELETE",
		Tabel:    "alat",
		RecordID: &id,
		Detail:   "Alat dihapus",
	})
	return nil
}

func (s *service) List(ctx context.Context) ([]model.Alat, error) { return s.r.List(ctx) }

func (s *service) Detail(ctx context.Context, id int64) (*model.Alat, error) {
	a, err := s.r.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
