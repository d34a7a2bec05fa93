package peminjaman

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/Sheila49/paket1-ukk-be/model"
	alatrepo "github.com/Sheila49/paket1-ukk-be/repository/alat"
	pjmrepo "github.com/Sheila49/paket1-ukk-be/repository/peminjaman"

	"github.com/stretchr/testify/require"
)

// fakeDriver backs a *sql.DB whose transactions are no-ops. The repos under
// the service are mocked, so nothing ever reaches the driver beyond
// Begin/Commit/Rollback.
type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return fakeConn{}, nil }

type fakeConn struct{}

func (fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (fakeConn) Close() error                        { return nil }
func (fakeConn) Begin() (driver.Tx, error)           { return fakeTx{}, nil }

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

func init() { sql.Register("peminjaman-fake", fakeDriver{}) }

func fakeDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("peminjaman-fake", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type mockRepo struct {
	insertFn       func(ctx context.Context, p *model.Peminjaman) error
	getFn          func(ctx context.Context, id int64) (*model.Peminjaman, error)
	listFn         func(ctx context.Context, f pjmrepo.ListFilter) ([]model.Peminjaman, int64, error)
	getForUpdateFn func(ctx context.Context, id int64) (*model.Peminjaman, error)
	setApprovalFn  func(ctx context.Context, id int64, status model.PeminjamanStatus, approverID int64, tanggalPinjam *time.Time, catatan *string) error
	setDipinjamFn  func(ctx context.Context, id int64, when time.Time) error
}

func (m *mockRepo) Insert(ctx context.Context, p *model.Peminjaman) error {
	if m.insertFn == nil {
		p.ID = 1
		return nil
	}
	return m.insertFn(ctx, p)
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*model.Peminjaman, error) {
	if m.getFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.getFn(ctx, id)
}

func (m *mockRepo) List(ctx context.Context, f pjmrepo.ListFilter) ([]model.Peminjaman, int64, error) {
	if m.listFn == nil {
		return nil, 0, nil
	}
	return m.listFn(ctx, f)
}

func (m *mockRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Peminjaman, error) {
	if m.getForUpdateFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.getForUpdateFn(ctx, id)
}

func (m *mockRepo) SetApproval(ctx context.Context, tx *sql.Tx, id int64, status model.PeminjamanStatus, approverID int64, approvedAt time.Time, tanggalPinjam *time.Time, catatan *string) error {
	if m.setApprovalFn == nil {
		return nil
	}
	return m.setApprovalFn(ctx, id, status, approverID, tanggalPinjam, catatan)
}

func (m *mockRepo) SetDipinjam(ctx context.Context, tx *sql.Tx, id int64, when time.Time) error {
	if m.setDipinjamFn == nil {
		return nil
	}
	return m.setDipinjamFn(ctx, id, when)
}

func (m *mockRepo) Update(ctx context.Context, p *model.Peminjaman) error { return nil }
func (m *mockRepo) Delete(ctx context.Context, id int64) error            { return sql.ErrNoRows }

// mockAlatRepo keeps a stock counter and mimics the guarded UPDATE: a
// reservation larger than the remaining stock affects zero rows.
type mockAlatRepo struct {
	detailFn func(ctx context.Context, id int64) (*model.Alat, error)

	stock        int
	reserveCalls int
	statusSet    []model.AlatStatus
}

func (m *mockAlatRepo) Detail(ctx context.Context, id int64) (*model.Alat, error) {
	if m.detailFn == nil {
		return nil, sql.ErrNoRows
	}
	return m.detailFn(ctx, id)
}

func (m *mockAlatRepo) ReserveStock(ctx context.Context, tx *sql.Tx, id int64, n int) error {
	m.reserveCalls++
	if m.stock < n {
		return alatrepo.ErrInsufficientStock
	}
	m.stock -= n
	return nil
}

func (m *mockAlatRepo) SetStatus(ctx context.Context, tx *sql.Tx, id int64, status model.AlatStatus) error {
	m.statusSet = append(m.statusSet, status)
	return nil
}

type noopRecorder struct{}

func (noopRecorder) Record(ctx context.Context, e model.LogAktivitas) {}

func newTestService(r Repo, ar AlatRepo) Service {
	return New(nil, r, ar, noopRecorder{})
}

func diajukanLoan(id, userID, alatID int64, jumlah int) *model.Peminjaman {
	return &model.Peminjaman{
		ID:                    id,
		KodePeminjaman:        "PJM-test",
		UserID:                userID,
		AlatID:                alatID,
		JumlahPinjam:          jumlah,
		Status:                model.StatusDiajukan,
		TanggalKembaliRencana: time.Now().AddDate(0, 0, 7),
	}
}

// --- tests ---

func TestCreate_Success(t *testing.T) {
	var inserted *model.Peminjaman
	r := &mockRepo{
		insertFn: func(ctx context.Context, p *model.Peminjaman) error {
			p.ID = 10
			inserted = p
			return nil
		},
	}
	ar := &mockAlatRepo{
		detailFn: func(ctx context.Context, id int64) (*model.Alat, error) {
			return &model.Alat{ID: id, NamaAlat: "Proyektor", JumlahTersedia: 5}, nil
		},
	}
	svc := newTestService(r, ar)

	p, err := svc.Create(context.Background(), Actor{ID: 3, Role: model.RolePeminjam}, model.CreatePeminjamanReq{
		AlatID:                1,
		JumlahPinjam:          2,
		TanggalKembaliRencana: "2024-06-01",
	})
	require.NoError(t, err)
	require.NotNil(t, inserted)
	require.Equal(t, int64(10), p.ID)
	require.Equal(t, int64(3), p.UserID)
	require.Equal(t, model.StatusDiajukan, p.Status)
	require.NotEmpty(t, p.KodePeminjaman)
	require.Contains(t, p.KodePeminjaman, "PJM-")
}

func TestCreate_BadDate(t *testing.T) {
	svc := newTestService(&mockRepo{}, &mockAlatRepo{})

	_, err := svc.Create(context.Background(), Actor{ID: 1}, model.CreatePeminjamanReq{
		AlatID:                1,
		JumlahPinjam:          1,
		TanggalKembaliRencana: "01-06-2024",
	})
	require.Error(t, err)
	require.Equal(t, ErrBadInput, Code(err))
}

func TestCreate_AlatNotFound(t *testing.T) {
	svc := newTestService(&mockRepo{}, &mockAlatRepo{})

	_, err := svc.Create(context.Background(), Actor{ID: 1}, model.CreatePeminjamanReq{
		AlatID:                99,
		JumlahPinjam:          1,
		TanggalKembaliRencana: "2024-06-01",
	})
	require.Error(t, err)
	require.Equal(t, ErrAlatNotFound, Code(err))
}

func TestCreate_InsufficientStock(t *testing.T) {
	ar := &mockAlatRepo{
		detailFn: func(ctx context.Context, id int64) (*model.Alat, error) {
			return &model.Alat{ID: id, JumlahTersedia: 1}, nil
		},
	}
	svc := newTestService(&mockRepo{}, ar)

	_, err := svc.Create(context.Background(), Actor{ID: 1}, model.CreatePeminjamanReq{
		AlatID:                1,
		JumlahPinjam:          3,
		TanggalKembaliRencana: "2024-06-01",
	})
	require.Error(t, err)
	require.Equal(t, ErrNoStock, Code(err))
}

func TestApprove_ReservesStockAndTransitions(t *testing.T) {
	loan := diajukanLoan(1, 3, 7, 3)
	var approvedStatus model.PeminjamanStatus
	r := &mockRepo{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			return loan, nil
		},
		setApprovalFn: func(ctx context.Context, id int64, status model.PeminjamanStatus, approverID int64, tanggalPinjam *time.Time, catatan *string) error {
			approvedStatus = status
			require.Equal(t, int64(9), approverID)
			require.NotNil(t, tanggalPinjam)
			return nil
		},
		getFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			out := *loan
			out.Status = model.StatusDisetujui
			return &out, nil
		},
	}
	// 5 in stock, 3 requested: approval leaves 2.
	ar := &mockAlatRepo{stock: 5}
	svc := New(fakeDB(t), r, ar, noopRecorder{})

	p, err := svc.Approve(context.Background(), Actor{ID: 9, Role: model.RolePetugas}, 1, nil)
	require.NoError(t, err)
	require.Equal(t, model.StatusDisetujui, p.Status)
	require.Equal(t, model.StatusDisetujui, approvedStatus)
	require.Equal(t, 1, ar.reserveCalls)
	require.Equal(t, 2, ar.stock)
}

func TestApprove_AlreadyProcessed(t *testing.T) {
	for _, st := range []model.PeminjamanStatus{
		model.StatusDisetujui, model.StatusDitolak, model.StatusDipinjam, model.StatusDikembalikan,
	} {
		t.Run(string(st), func(t *testing.T) {
			loan := diajukanLoan(1, 3, 7, 1)
			loan.Status = st
			r := &mockRepo{
				getForUpdateFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
					return loan, nil
				},
			}
			ar := &mockAlatRepo{stock: 10}
			svc := New(fakeDB(t), r, ar, noopRecorder{})

			_, err := svc.Approve(context.Background(), Actor{ID: 9, Role: model.RoleAdmin}, 1, nil)
			require.Error(t, err)
			require.Equal(t, ErrAlreadyProcessed, Code(err))
			require.Zero(t, ar.reserveCalls)
		})
	}
}

func TestApprove_StockGone(t *testing.T) {
	r := &mockRepo{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			return diajukanLoan(1, 3, 7, 4), nil
		},
	}
	ar := &mockAlatRepo{stock: 2}
	svc := New(fakeDB(t), r, ar, noopRecorder{})

	_, err := svc.Approve(context.Background(), Actor{ID: 9, Role: model.RolePetugas}, 1, nil)
	require.Error(t, err)
	require.Equal(t, ErrNoStock, Code(err))
	require.Equal(t, 2, ar.stock)
}

func TestApprove_SharedStockOnlyOneSucceeds(t *testing.T) {
	// Two pending loans of 2 against 3 in stock. The guarded reservation
	// admits exactly one; the other fails without touching the counter.
	loans := map[int64]*model.Peminjaman{
		1: diajukanLoan(1, 3, 7, 2),
		2: diajukanLoan(2, 4, 7, 2),
	}
	r := &mockRepo{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			return loans[id], nil
		},
		getFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			out := *loans[id]
			out.Status = model.StatusDisetujui
			return &out, nil
		},
	}
	ar := &mockAlatRepo{stock: 3}
	svc := New(fakeDB(t), r, ar, noopRecorder{})

	_, err1 := svc.Approve(context.Background(), Actor{ID: 9, Role: model.RolePetugas}, 1, nil)
	_, err2 := svc.Approve(context.Background(), Actor{ID: 9, Role: model.RolePetugas}, 2, nil)

	require.NoError(t, err1)
	require.Error(t, err2)
	require.Equal(t, ErrNoStock, Code(err2))
	require.Equal(t, 1, ar.stock)
}

func TestApprove_ReReadFailureStillReturnsApprovedLoan(t *testing.T) {
	r := &mockRepo{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			return diajukanLoan(1, 3, 7, 1), nil
		},
		getFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := New(fakeDB(t), r, &mockAlatRepo{stock: 5}, noopRecorder{})

	p, err := svc.Approve(context.Background(), Actor{ID: 9, Role: model.RolePetugas}, 1, nil)
	require.NoError(t, err)
	require.Equal(t, model.StatusDisetujui, p.Status)
	require.NotNil(t, p.DisetujuiOleh)
	require.Equal(t, int64(9), *p.DisetujuiOleh)
}

func TestReject_AlreadyProcessed(t *testing.T) {
	loan := diajukanLoan(1, 3, 7, 1)
	loan.Status = model.StatusDitolak
	r := &mockRepo{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			return loan, nil
		},
	}
	svc := New(fakeDB(t), r, &mockAlatRepo{}, noopRecorder{})

	_, err := svc.Reject(context.Background(), Actor{ID: 9, Role: model.RolePetugas}, 1, nil)
	require.Error(t, err)
	require.Equal(t, ErrAlreadyProcessed, Code(err))
}

func TestReject_NoLedgerEffect(t *testing.T) {
	r := &mockRepo{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			return diajukanLoan(1, 3, 7, 2), nil
		},
		getFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			out := *diajukanLoan(1, 3, 7, 2)
			out.Status = model.StatusDitolak
			return &out, nil
		},
	}
	ar := &mockAlatRepo{stock: 5}
	svc := New(fakeDB(t), r, ar, noopRecorder{})

	p, err := svc.Reject(context.Background(), Actor{ID: 9, Role: model.RoleAdmin}, 1, nil)
	require.NoError(t, err)
	require.Equal(t, model.StatusDitolak, p.Status)
	require.Zero(t, ar.reserveCalls)
	require.Equal(t, 5, ar.stock)
}

func TestMarkDipinjam_RequiresDisetujui(t *testing.T) {
	loan := diajukanLoan(1, 3, 7, 1)
	r := &mockRepo{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			return loan, nil
		},
	}
	svc := New(fakeDB(t), r, &mockAlatRepo{}, noopRecorder{})

	_, err := svc.MarkDipinjam(context.Background(), Actor{ID: 9, Role: model.RolePetugas}, 1)
	require.Error(t, err)
	require.Equal(t, ErrInvalidTransition, Code(err))
}

func TestMarkDipinjam_FlipsAlatStatus(t *testing.T) {
	loan := diajukanLoan(1, 3, 7, 1)
	loan.Status = model.StatusDisetujui
	r := &mockRepo{
		getForUpdateFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			return loan, nil
		},
		getFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			out := *loan
			out.Status = model.StatusDipinjam
			return &out, nil
		},
	}
	ar := &mockAlatRepo{}
	svc := New(fakeDB(t), r, ar, noopRecorder{})

	p, err := svc.MarkDipinjam(context.Background(), Actor{ID: 9, Role: model.RolePetugas}, 1)
	require.NoError(t, err)
	require.Equal(t, model.StatusDipinjam, p.Status)
	require.Equal(t, []model.AlatStatus{model.AlatDipinjam}, ar.statusSet)
}

func TestGetByID_PeminjamOwnOnly(t *testing.T) {
	r := &mockRepo{
		getFn: func(ctx context.Context, id int64) (*model.Peminjaman, error) {
			return &model.Peminjaman{ID: id, UserID: 7, Status: model.StatusDiajukan}, nil
		},
	}
	svc := newTestService(r, &mockAlatRepo{})

	// The owner sees it.
	p, err := svc.GetByID(context.Background(), Actor{ID: 7, Role: model.RolePeminjam}, 1)
	require.NoError(t, err)
	require.Equal(t, int64(7), p.UserID)

	// Another borrower does not.
	_, err = svc.GetByID(context.Background(), Actor{ID: 8, Role: model.RolePeminjam}, 1)
	require.Error(t, err)
	require.Equal(t, ErrForbidden, Code(err))

	// Staff see everything.
	_, err = svc.GetByID(context.Background(), Actor{ID: 8, Role: model.RolePetugas}, 1)
	require.NoError(t, err)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(&mockRepo{}, &mockAlatRepo{})

	_, err := svc.GetByID(context.Background(), Actor{ID: 1, Role: model.RoleAdmin}, 42)
	require.Error(t, err)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestList_ScopesPeminjamToOwnLoans(t *testing.T) {
	var captured pjmrepo.ListFilter
	r := &mockRepo{
		listFn: func(ctx context.Context, f pjmrepo.ListFilter) ([]model.Peminjaman, int64, error) {
			captured = f
			return nil, 0, nil
		},
	}
	svc := newTestService(r, &mockAlatRepo{})

	_, _, err := svc.List(context.Background(), Actor{ID: 5, Role: model.RolePeminjam}, nil, 1, 10)
	require.NoError(t, err)
	require.NotNil(t, captured.UserID)
	require.Equal(t, int64(5), *captured.UserID)

	_, _, err = svc.List(context.Background(), Actor{ID: 5, Role: model.RoleAdmin}, nil, 1, 10)
	require.NoError(t, err)
	require.Nil(t, captured.UserID)
}

func TestList_PassesStatusFilter(t *testing.T) {
	var captured pjmrepo.ListFilter
	r := &mockRepo{
		listFn: func(ctx context.Context, f pjmrepo.ListFilter) ([]model.Peminjaman, int64, error) {
			captured = f
			return nil, 0, nil
		},
	}
	svc := newTestService(r, &mockAlatRepo{})

	st := model.StatusDiajukan
	_, _, err := svc.List(context.Background(), Actor{ID: 1, Role: model.RolePetugas}, &st, 2, 20)
	require.NoError(t, err)
	require.NotNil(t, captured.Status)
	require.Equal(t, model.StatusDiajukan, *captured.Status)
	require.Equal(t, 2, captured.Page)
	require.Equal(t, 20, captured.Limit)
}
