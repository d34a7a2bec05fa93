package log

import (
	"context"
	"log/slog"

	"github.com/Sheila49/paket1-ukk-be/model"
	logrepo "github.com/Sheila49/paket1-ukk-be/repository/log"
)

// Recorder is the fire-and-forget activity log. A failed write is reported
// to slog and otherwise ignored; it must never fail the mutation that
// triggered it, so callers invoke Record after their transaction commits.
type Recorder interface {
	Record(ctx context.Context, e model.LogAktivitas)
}

type Service interface {
	Recorder
	List(ctx context.Context, page, limit int) ([]model.LogAktivitas, int64, error)
}

type service struct {
	r   logrepo.Repo
	log *slog.Logger
}

func New(r logrepo.Repo, log *slog.Logger) Service {
	return &service{r: r, log: log}
}

func (s *service) Record(ctx context.Context, e model.LogAktivitas) {
	// Detach from the request's cancellation; the mutation already happened.
	if err := s.r.Insert(context.WithoutCancel(ctx), &e); err != nil {
		s.log.Error("activity log write failed", "aksi", e.Aksi, "tabel", e.Tabel, "err", err)
	}
}

func (s *service) List(ctx context.Context, page, limit int) ([]model.LogAktivitas, int64, error) {
	return s.r.List(ctx, page, limit)
}
