package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"perevalFSTR/internal/models"
)

const queryListAreas = `SELECT id, id_parent, title FROM pereval_areas ORDER BY id`

type areaRepository struct {
	db *sqlx.DB
}

func NewAreaRepository(db *sqlx.DB) AreaRepository {
	return &areaRepository{db: db}
}

func (r *areaRepository) List(ctx context.Context) ([]models.Area, error) {
	var areas []models.Area

	err := r.db.SelectContext(ctx, &areas, queryListAreas)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка районов: %w", err)
	}

	return areas, nil
}
