package service

import (
	"context"

	"github.com/galleryhub/display-relay/internal/repository"
)

type healthService struct {
	repo *repository.Repository
}

func newHealthService(repo *repository.Repository) Health {
	return &healthService{
		repo: repo,
	}
}

// Check pings every backing store. A nil entry means the store answered.
func (s *healthService) Check(ctx context.Context) map[string]error {
	return map[string]error{
		"postgres": s.repo.Postgres.Health.Ping(ctx),
		"redis":    s.repo.Redis.Default.Ping(ctx),
	}
}
