package service

import (
	"context"

	"perevalFSTR/internal/models"
	"perevalFSTR/internal/repository"
)

type AreaService interface {
	GetAreas(ctx context.Context) ([]models.Area, error)
}

type areaService struct {
	areaRepo repository.AreaRepository
}

func NewAreaService(areaRepo repository.AreaRepository) AreaService {
	return &areaService{areaRepo: areaRepo}
}

func (a *areaService) GetAreas(ctx context.Context) ([]models.Area, error) {
	areas, err := a.areaRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if areas == nil {
		areas = []models.Area{}
	}

	return areas, nil
}
