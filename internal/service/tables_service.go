package service

import (
	"context"

	"perevalFSTR/internal/repository"
)

type TablesService interface {
	GetCountTablesBD() (int, error)
	HealthCheck(ctx context.Context) error
}

type tablesService struct {
	tablesRepo repository.TablesRepository
}

func NewTablesService(tablesRepo repository.TablesRepository) TablesService {
	return &tablesService{tablesRepo: tablesRepo}
}

func (t *tablesService) GetCountTablesBD() (int, error) {
	countTables, err := t.tablesRepo.CountTablesDB()
	if err != nil {
		return 0, err
	}

	return countTables, nil
}

func (t *tablesService) HealthCheck(ctx context.Context) error {
	return t.tablesRepo.Ping(ctx)
}
