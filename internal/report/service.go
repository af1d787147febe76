package report

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/snapshot"
)

type Service struct {
	loader snapshot.Loader
	logger *slog.Logger
}

func NewService(loader snapshot.Loader, logger *slog.Logger) *Service {
	return &Service{
		loader: loader,
		logger: logger,
	}
}

func (s *Service) Generate(ctx context.Context, name string) (*Report, error) {
	if !known(name) {
		return nil, errors.ErrReportNotFound
	}

	snap, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load inventory snapshot", "error", err, "report", name)
		return nil, errors.NewInternalError("failed to generate report", err)
	}

	r, _ := Build(name, snap)
	s.logger.Info("report generated", "report", name, "rows", len(r.Rows))
	return r, nil
}

func known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
