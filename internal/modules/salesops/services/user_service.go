package services

import (
	"context"

	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/models"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/modules/salesops/repositories"
	"github.com/MuhamadAgungGumelar/sales-ops-be/internal/shared/apperr"
)

type UserService struct {
	repo repositories.UserRepo
}

func NewUserService(repo repositories.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// ListSDRs returns active SDRs for assignment pickers and the overview filter.
func (s *UserService) ListSDRs(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListByRole(ctx, models.RoleSDR)
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return users, nil
}
