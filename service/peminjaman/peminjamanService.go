package peminjaman

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Sheila49/paket1-ukk-be/model"
	alatrepo "github.com/Sheila49/paket1-ukk-be/repository/alat"
	pjmrepo "github.com/Sheila49/paket1-ukk-be/repository/peminjaman"
	logsvc "github.com/Sheila49/paket1-ukk-be/service/log"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrAlatNotFound      ErrCode = "ALAT_NOT_FOUND"
	ErrNoStock           ErrCode = "NO_STOCK"
	ErrAlreadyProcessed  ErrCode = "ALREADY_PROCESSED"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrBadInput          ErrCode = "BAD_INPUT"
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

// Actor is the authenticated caller identity attached to every command.
type Actor struct {
	ID   int64
	Role model.Role
}

type Repo interface {
	Insert(ctx context.Context, p *model.Peminjaman) error
	GetByID(ctx context.Context, id int64) (*model.Peminjaman, error)
	List(ctx context.Context, f pjmrepo.ListFilter) ([]model.Peminjaman, int64, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Peminjaman, error)
	SetApproval(ctx context.Context, tx *sql.Tx, id int64, status model.PeminjamanStatus, approverID int64, approvedAt time.Time, tanggalPinjam *time.Time, catatan *string) error
	SetDipinjam(ctx context.Context, tx *sql.Tx, id int64, when time.Time) error
	Update(ctx context.Context, p *model.Peminjaman) error
	Delete(ctx context.Context, id int64) error
}

type AlatRepo interface {
	Detail(ctx context.Context, id int64) (*model.Alat, error)
	ReserveStock(ctx context.Context, tx *sql.Tx, id int64, n int) error
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.AlatStatus) error
}

type Service interface {
	// Create files a loan request. Stock is checked but not reserved;
	// reservation happens at approval.
	Create(ctx context.Context, actor Actor, req model.CreatePeminjamanReq) (*model.Peminjaman, error)

	// Approve reserves stock and moves diajukan -> disetujui, atomically.
	Approve(ctx context.Context, actor Actor, id int64, catatan *string) (*model.Peminjaman, error)

	// Reject moves diajukan -> ditolak. No ledger effect.
	Reject(ctx context.Context, actor Actor, id int64, catatan *string) (*model.Peminjaman, error)

	// MarkDipinjam moves disetujui -> dipinjam and flips the alat display
	// status. The stock counter is untouched; it moved at approval.
	MarkDipinjam(ctx context.Context, actor Actor, id int64) (*model.Peminjaman, error)

	GetByID(ctx context.Context, actor Actor, id int64) (*model.Peminjaman, error)
	List(ctx context.Context, actor Actor, status *model.PeminjamanStatus, page, limit int) ([]model.Peminjaman, int64, error)

	// Update and Delete are administrative escape hatches that bypass the
	// state machine. No lifecycle invariants are enforced here.
	Update(ctx context.Context, actor Actor, id int64, req model.UpdatePeminjamanReq) (*model.Peminjaman, error)
	Delete(ctx context.Context, actor Actor, id int64) error
}

type service struct {
	db  *sql.DB
	r   Repo
	ar  AlatRepo
	rec logsvc.Recorder
}

func New(db *sql.DB, r Repo, ar AlatRepo, rec logsvc.Recorder) Service {
	return &service{db: db, r: r, ar: ar, rec: rec}
}

func (s *service) Create(ctx context.Context, actor Actor, req model.CreatePeminjamanReq) (*model.Peminjaman, error) {
	rencana, err := time.Parse("2006-01-02", req.TanggalKembaliRencana)
	if err != nil {
		return nil, makeErr(ErrBadInput)
	}

	alat, err := s.ar.Detail(ctx, req.AlatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrAlatNotFound)
		}
		return nil, err
	}

	// Advisory check only; approval re-validates under the row lock.
	if alat.JumlahTersedia < req.JumlahPinjam {
		return nil, makeErr(ErrNoStock)
	}

	now := time.Now()
	p := &model.Peminjaman{
		KodePeminjaman:        fmt.Sprintf("PJM-%d-%d", now.UnixNano(), actor.ID),
		UserID:                actor.ID,
		AlatID:                req.AlatID,
		JumlahPinjam:          req.JumlahPinjam,
		TanggalPengajuan:      now,
		TanggalKembaliRencana: rencana,
		Keperluan:             req.Keperluan,
		Status:                model.StatusDiajukan,
	}
	if err := s.r.Insert(ctx, p); err != nil {
		return nil, err
	}

	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actor.ID,
		Aksi:     "CREATE",
		Tabel:    "peminjaman",
		RecordID: &p.ID,
		Detail:   fmt.Sprintf("Peminjaman diajukan: %s (%d unit)", alat.NamaAlat, p.JumlahPinjam),
	})
	return p, nil
}

func (s *service) Approve(ctx context.Context, actor Actor, id int64, catatan *string) (_ *model.Peminjaman, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p, err := s.r.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if p.Status != model.StatusDiajukan {
		return nil, makeErr(ErrAlreadyProcessed)
	}

	// Stock may have moved since the request; the guarded update is the
	// re-validation.
	if err = s.ar.ReserveStock(ctx, tx, p.AlatID, p.JumlahPinjam); err != nil {
		if errors.Is(err, alatrepo.ErrInsufficientStock) {
			return nil, makeErr(ErrNoStock)
		}
		return nil, err
	}

	now := time.Now()
	if err = s.r.SetApproval(ctx, tx, id, model.StatusDisetujui, actor.ID, now, &now, catatan); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actor.ID,
		Aksi:     "APPROVE",
		Tabel:    "peminjaman",
		RecordID: &id,
		Detail:   fmt.Sprintf("Peminjaman %s disetujui", p.KodePeminjaman),
	})

	// The transition is committed; a failed re-read must not surface as a
	// failed approval.
	if fresh, rerr := s.r.GetByID(ctx, id); rerr == nil {
		return fresh, nil
	}
	p.Status = model.StatusDisetujui
	p.DisetujuiOleh = &actor.ID
	p.TanggalPersetujuan = &now
	p.TanggalPinjam = &now
	p.CatatanPersetujuan = catatan
	return p, nil
}

func (s *service) Reject(ctx context.Context, actor Actor, id int64, catatan *string) (_ *model.Peminjaman, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p, err := s.r.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if p.Status != model.StatusDiajukan {
		return nil, makeErr(ErrAlreadyProcessed)
	}

	now := time.Now()
	if err = s.r.SetApproval(ctx, tx, id, model.StatusDitolak, actor.ID, now, nil, catatan); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actor.ID,
		Aksi:     "REJECT",
		Tabel:    "peminjaman",
		RecordID: &id,
		Detail:   fmt.Sprintf("Peminjaman %s ditolak", p.KodePeminjaman),
	})

	if fresh, rerr := s.r.GetByID(ctx, id); rerr == nil {
		return fresh, nil
	}
	p.Status = model.StatusDitolak
	p.DisetujuiOleh = &actor.ID
	p.TanggalPersetujuan = &now
	p.CatatanPersetujuan = catatan
	return p, nil
}

func (s *service) MarkDipinjam(ctx context.Context, actor Actor, id int64) (_ *model.Peminjaman, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p, err := s.r.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if p.Status != model.StatusDisetujui {
		return nil, makeErr(ErrInvalidTransition)
	}

	now := time.Now()
	if err = s.r.SetDipinjam(ctx, tx, id, now); err != nil {
		return nil, err
	}
	if err = s.ar.SetStatus(ctx, tx, p.AlatID, model.AlatDipinjam); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actor.ID,
		Aksi:     "UPDATE",
		Tabel:    "peminjaman",
		RecordID: &id,
		Detail:   fmt.Sprintf("Peminjaman %s ditandai dipinjam", p.KodePeminjaman),
	})

	if fresh, rerr := s.r.GetByID(ctx, id); rerr == nil {
		return fresh, nil
	}
	p.Status = model.StatusDipinjam
	p.TanggalPinjam = &now
	return p, nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id int64) (*model.Peminjaman, error) {
	p, err := s.r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if actor.Role == model.RolePeminjam && p.UserID != actor.ID {
		return nil, makeErr(ErrForbidden)
	}
	return p, nil
}

func (s *service) List(ctx context.Context, actor Actor, status *model.PeminjamanStatus, page, limit int) ([]model.Peminjaman, int64, error) {
	f := pjmrepo.ListFilter{Status: status, Page: page, Limit: limit}
	if actor.Role == model.RolePeminjam {
		f.UserID = &actor.ID
	}
	return s.r.List(ctx, f)
}

func (s *service) Update(ctx context.Context, actor Actor, id int64, req model.UpdatePeminjamanReq) (*model.Peminjaman, error) {
	p, err := s.r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	if req.JumlahPinjam != nil {
		p.JumlahPinjam = *req.JumlahPinjam
	}
	if req.TanggalKembaliRencana != nil {
		d, err := time.Parse("2006-01-02", *req.TanggalKembaliRencana)
		if err != nil {
			return nil, makeErr(ErrBadInput)
		}
		p.TanggalKembaliRencana = d
	}
	if req.Keperluan != nil {
		p.Keperluan = req.Keperluan
	}
	if req.Status != nil {
		p.Status = model.PeminjamanStatus(*req.Status)
	}

	if err := s.r.Update(ctx, p); err != nil {
		return nil, err
	}

	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actor.ID,
		Aksi:     "UPDATE",
		Tabel:    "peminjaman",
		RecordID: &id,
		Detail:   fmt.Sprintf("Peminjaman %s diubah manual", p.KodePeminjaman),
	})

	if fresh, rerr := s.r.GetByID(ctx, id); rerr == nil {
		return fresh, nil
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actor.ID,
		Aksi:     "DELETE",
		Tabel:    "peminjaman",
		RecordID: &id,
		Detail:   "Peminjaman dihapus manual",
	})
	return nil
}
