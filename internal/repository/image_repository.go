package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"perevalFSTR/internal/models"
)

const (
	queryInsertImage      = `INSERT INTO pereval_images (img, title) VALUES ($1, $2) RETURNING id`
	queryUpdateImageTitle = `UPDATE pereval_images SET title = $1 WHERE id = $2`
	queryImageExists      = `SELECT id FROM pereval_images WHERE id = $1`
	queryLinkImage        = `INSERT INTO pereval_added_images (pereval_id, image_id) VALUES ($1, $2)`
	queryLinkedImageIDs   = `SELECT image_id FROM pereval_added_images WHERE pereval_id = $1 ORDER BY image_id`
	queryUnlinkAll        = `DELETE FROM pereval_added_images WHERE pereval_id = $1`
	queryImagesMeta       = `SELECT i.id, i.title, i.date_added FROM pereval_images i JOIN pereval_added_images l ON l.image_id = i.id WHERE l.pereval_id = $1 ORDER BY i.id`
	// Удаляет только те картинки из списка, на которые больше не ссылается ни один перевал
	queryDeleteOrphans = `DELETE FROM pereval_images WHERE id = ANY($1) AND NOT EXISTS (SELECT 1 FROM pereval_added_images WHERE image_id = pereval_images.id)`
)

type imageRepository struct{}

func NewImageRepository() ImageRepository {
	return &imageRepository{}
}

func (r *imageRepository) Create(ctx context.Context, q sqlx.ExtContext, image *models.Image) error {
	err := sqlx.GetContext(ctx, q, &image.ID, queryInsertImage, image.Img, image.Title)
	if err != nil {
		return fmt.Errorf("ошибка при создании изображения: %w", err)
	}

	return nil
}

func (r *imageRepository) UpdateTitle(ctx context.Context, q sqlx.ExtContext, imageID int64, title string) error {
	result, err := q.ExecContext(ctx, queryUpdateImageTitle, title, imageID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении названия изображения: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return ErrImageNotFound
	}

	return nil
}

func (r *imageRepository) Exists(ctx context.Context, q sqlx.ExtContext, imageID int64) error {
	var id int64

	err := sqlx.GetContext(ctx, q, &id, queryImageExists, imageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrImageNotFound
		}
		return fmt.Errorf("ошибка при проверке изображения: %w", err)
	}

	return nil
}

func (r *imageRepository) Link(ctx context.Context, q sqlx.ExtContext, perevalID, imageID int64) error {
	_, err := q.ExecContext(ctx, queryLinkImage, perevalID, imageID)
	if err != nil {
		return fmt.Errorf("ошибка при привязке изображения к перевалу: %w", err)
	}

	return nil
}

func (r *imageRepository) LinkedIDs(ctx context.Context, q sqlx.ExtContext, perevalID int64) ([]int64, error) {
	var ids []int64

	err := sqlx.SelectContext(ctx, q, &ids, queryLinkedImageIDs, perevalID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении привязанных изображений: %w", err)
	}

	return ids, nil
}

func (r *imageRepository) UnlinkAll(ctx context.Context, q sqlx.ExtContext, perevalID int64) error {
	_, err := q.ExecContext(ctx, queryUnlinkAll, perevalID)
	if err != nil {
		return fmt.Errorf("ошибка при отвязке изображений перевала: %w", err)
	}

	return nil
}

func (r *imageRepository) DeleteOrphans(ctx context.Context, q sqlx.ExtContext, imageIDs []int64) error {
	if len(imageIDs) == 0 {
		return nil
	}

	_, err := q.ExecContext(ctx, queryDeleteOrphans, pq.Array(imageIDs))
	if err != nil {
		return fmt.Errorf("ошибка при удалении осиротевших изображений: %w", err)
	}

	return nil
}

func (r *imageRepository) MetaByPerevalID(ctx context.Context, q sqlx.ExtContext, perevalID int64) ([]models.Image, error) {
	var images []models.Image

	err := sqlx.SelectContext(ctx, q, &images, queryImagesMeta, perevalID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении изображений перевала: %w", err)
	}

	return images, nil
}
