package pengembalian

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Sheila49/paket1-ukk-be/model"
	alatrepo "github.com/Sheila49/paket1-ukk-be/repository/alat"
	"github.com/Sheila49/paket1-ukk-be/service/denda"
	logsvc "github.com/Sheila49/paket1-ukk-be/service/log"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrPeminjamanNotFound ErrCode = "PEMINJAMAN_NOT_FOUND"
	ErrAlatMissing        ErrCode = "ALAT_MISSING"
	ErrInvalidState       ErrCode = "INVALID_STATE"
	ErrDuplicate          ErrCode = "DUPLICATE_RETURN"
	ErrInvalidCondition   ErrCode = "INVALID_CONDITION"
	ErrInvalidInput       ErrCode = "INVALID_INPUT"
	ErrNoFee              ErrCode = "NO_FEE"
	ErrForbidden          ErrCode = "FORBIDDEN"
	ErrFatal              ErrCode = "STOCK_INVARIANT"
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

type Actor struct {
	ID   int64
	Role model.Role
}

type Repo interface {
	ExistsForPeminjaman(ctx context.Context, tx *sql.Tx, peminjamanID int64) (bool, error)
	Insert(ctx context.Context, tx *sql.Tx, p *model.Pengembalian) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Pengembalian, error)
	SetCatatan(ctx context.Context, tx *sql.Tx, id int64, catatan string) error
	GetByID(ctx context.Context, id int64) (*model.Pengembalian, error)
	List(ctx context.Context, page, limit int) ([]model.Pengembalian, int64, error)
}

type PeminjamanRepo interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Peminjaman, error)
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.PeminjamanStatus) error
	GetByID(ctx context.Context, id int64) (*model.Peminjaman, error)
}

type AlatRepo interface {
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Alat, error)
	ReleaseStock(ctx context.Context, tx *sql.Tx, id int64, n int) error
	SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.AlatStatus) error
}

type Service interface {
	// Create processes a return: validates the loan state, computes the fee,
	// records the return, releases stock and finalizes the loan in one
	// transaction.
	Create(ctx context.Context, actor Actor, req model.CreatePengembalianReq) (*model.Pengembalian, *denda.Rincian, error)

	// KonfirmasiPembayaran appends a payment annotation to the return's
	// note. Advisory bookkeeping only.
	KonfirmasiPembayaran(ctx context.Context, actor Actor, id int64, req model.BayarDendaReq) (*model.Pengembalian, error)

	// Estimasi previews the fee for an outstanding loan as if returned now.
	Estimasi(ctx context.Context, actor Actor, peminjamanID int64, kondisi model.Kondisi) (*denda.Rincian, error)

	GetByID(ctx context.Context, id int64) (*model.Pengembalian, error)
	List(ctx context.Context, page, limit int) ([]model.Pengembalian, int64, error)
}

type service struct {
	db   *sql.DB
	r    Repo
	pr   PeminjamanRepo
	ar   AlatRepo
	calc denda.Calculator
	rec  logsvc.Recorder
}

func New(db *sql.DB, r Repo, pr PeminjamanRepo, ar AlatRepo, calc denda.Calculator, rec logsvc.Recorder) Service {
	return &service{db: db, r: r, pr: pr, ar: ar, calc: calc, rec: rec}
}

// returnable reports whether a loan in the given state may be closed.
// Policy: both disetujui and dipinjam are returnable, applied uniformly.
func returnable(st model.PeminjamanStatus) bool {
	return st == model.StatusDisetujui || st == model.StatusDipinjam
}

func (s *service) Create(ctx context.Context, actor Actor, req model.CreatePengembalianReq) (_ *model.Pengembalian, _ *denda.Rincian, err error) {
	kondisi := model.Kondisi(strings.ToLower(strings.TrimSpace(req.KondisiAlat)))
	if !kondisi.Valid() {
		return nil, nil, makeErr(ErrInvalidCondition)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	p, err := s.pr.GetForUpdate(ctx, tx, req.PeminjamanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, makeErr(ErrPeminjamanNotFound)
		}
		return nil, nil, err
	}
	if !returnable(p.Status) {
		return nil, nil, makeErr(ErrInvalidState)
	}

	// Fast path; the unique index on peminjaman_id is the backstop for a
	// concurrent racer.
	exists, err := s.r.ExistsForPeminjaman(ctx, tx, p.ID)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, makeErr(ErrDuplicate)
	}

	alat, err := s.ar.GetForUpdate(ctx, tx, p.AlatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, makeErr(ErrAlatMissing)
		}
		return nil, nil, err
	}

	// Partial returns are not modeled: the returned quantity is always the
	// loan's full jumlah_pinjam, and a differing caller value is rejected.
	if req.JumlahDikembalikan != nil && *req.JumlahDikembalikan != p.JumlahPinjam {
		return nil, nil, makeErr(ErrInvalidInput)
	}

	now := time.Now()
	var nilai float64
	if alat.NilaiAlat != nil {
		nilai = *alat.NilaiAlat
	}
	rincian := s.calc.Hitung(p.TanggalKembaliRencana, now, kondisi, nilai)

	g := &model.Pengembalian{
		PeminjamanID:         p.ID,
		TanggalKembaliAktual: now,
		KondisiAlat:          kondisi,
		JumlahDikembalikan:   p.JumlahPinjam,
		KeterlambatanHari:    rincian.KeterlambatanHari,
		Denda:                rincian.Total,
		Catatan:              req.Catatan,
		DiterimaOleh:         &actor.ID,
	}
	if err = s.r.Insert(ctx, tx, g); err != nil {
		if isUniqueViolation(err) {
			err = makeErr(ErrDuplicate)
		}
		return nil, nil, err
	}

	if err = s.ar.ReleaseStock(ctx, tx, p.AlatID, p.JumlahPinjam); err != nil {
		if errors.Is(err, alatrepo.ErrStockOverflow) {
			err = makeErr(ErrFatal)
		}
		return nil, nil, err
	}
	if err = s.ar.SetStatus(ctx, tx, p.AlatID, model.AlatTersedia); err != nil {
		return nil, nil, err
	}
	if err = s.pr.SetStatus(ctx, tx, p.ID, model.StatusDikembalikan); err != nil {
		return nil, nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, nil, err
	}

	terlambat := "Tepat waktu"
	if rincian.KeterlambatanHari > 0 {
		terlambat = fmt.Sprintf("Terlambat %d hari", rincian.KeterlambatanHari)
	}
	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actor.ID,
		Aksi:     "CREATE",
		Tabel:    "pengembalian",
		RecordID: &g.ID,
		Detail: fmt.Sprintf("Pengembalian %s: %d unit | Kondisi: %s | %s | Denda: %s",
			alat.NamaAlat, g.JumlahDikembalikan, kondisi, terlambat, denda.FormatRupiah(g.Denda)),
	})
	return g, &rincian, nil
}

func (s *service) KonfirmasiPembayaran(ctx context.Context, actor Actor, id int64, req model.BayarDendaReq) (_ *model.Pengembalian, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	g, err := s.r.GetForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if g.Denda == 0 {
		return nil, makeErr(ErrNoFee)
	}

	parts := []string{}
	if g.Catatan != nil && *g.Catatan != "" {
		parts = append(parts, *g.Catatan)
	}
	parts = append(parts,
		fmt.Sprintf("Denda dibayar: %s", denda.FormatRupiah(g.Denda)),
		fmt.Sprintf("Metode: %s", req.MetodePembayaran),
		fmt.Sprintf("Tanggal: %s", time.Now().Format("2006-01-02 15:04:05")),
	)
	catatan := strings.Join(parts, " | ")
	if req.BuktiPembayaran != nil && *req.BuktiPembayaran != "" {
		catatan = catatan + fmt.Sprintf(" | Bukti: %s", *req.BuktiPembayaran)
	}

	if err = s.r.SetCatatan(ctx, tx, id, catatan); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	s.rec.Record(ctx, model.LogAktivitas{
		UserID:   &actor.ID,
		Aksi:     "UPDATE",
		Tabel:    "pengembalian",
		RecordID: &id,
		Detail:   fmt.Sprintf("Pembayaran denda %s - %s", denda.FormatRupiah(g.Denda), req.MetodePembayaran),
	})

	// Annotation is committed; a failed re-read must not surface as a
	// failed payment confirmation.
	if fresh, rerr := s.r.GetByID(ctx, id); rerr == nil {
		return fresh, nil
	}
	g.Catatan = &catatan
	return g, nil
}

func (s *service) Estimasi(ctx context.Context, actor Actor, peminjamanID int64, kondisi model.Kondisi) (*denda.Rincian, error) {
	if kondisi == "" {
		kondisi = model.KondisiBaik
	}
	if !kondisi.Valid() {
		return nil, makeErr(ErrInvalidCondition)
	}

	p, err := s.pr.GetByID(ctx, peminjamanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrPeminjamanNotFound)
		}
		return nil, err
	}
	if actor.Role == model.RolePeminjam && p.UserID != actor.ID {
		return nil, makeErr(ErrForbidden)
	}
	if !returnable(p.Status) {
		return nil, makeErr(ErrInvalidState)
	}

	r := s.calc.Estimasi(p.TanggalKembaliRencana, kondisi, 0)
	return &r, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*model.Pengembalian, error) {
	g, err := s.r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return g, nil
}

func (s *service) List(ctx context.Context, page, limit int) ([]model.Pengembalian, int64, error) {
	return s.r.List(ctx, page, limit)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
