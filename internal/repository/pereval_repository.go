package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"perevalFSTR/internal/models"
)

const (
	queryInsertCoords = `INSERT INTO coords (latitude, longitude, height) VALUES ($1, $2, $3) RETURNING id`
	queryUpdateCoords = `UPDATE coords SET latitude = $1, longitude = $2, height = $3 WHERE id = $4`
	queryCoordsByID   = `SELECT id, latitude, longitude, height FROM coords WHERE id = $1`

	// Статус нового перевала всегда new, из запроса он не принимается
	queryInsertPereval = `INSERT INTO pereval_added (beauty_title, title, other_titles, connect, winter_level, summer_level, autumn_level, spring_level, status, user_id, coords_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'new', $9, $10) RETURNING id`

	queryPerevalByID = `SELECT id, beauty_title, title, other_titles, connect, add_time, winter_level, summer_level, autumn_level, spring_level, status, user_id, coords_id FROM pereval_added WHERE id = $1`

	// Условие по статусу защищает от гонки: между проверкой статуса
	// в сервисе и записью статус мог смениться модерацией
	queryUpdatePereval = `UPDATE pereval_added SET beauty_title = $1, title = $2, other_titles = $3, connect = $4, winter_level = $5, summer_level = $6, autumn_level = $7, spring_level = $8 WHERE id = $9 AND status = 'new'`

	queryPerevalStatus = `SELECT status FROM pereval_added WHERE id = $1`

	queryPerevalsByEmail = `SELECT p.id, p.beauty_title, p.title, p.other_titles, p.connect, p.add_time, p.winter_level, p.summer_level, p.autumn_level, p.spring_level, p.status, p.user_id, p.coords_id FROM pereval_added p JOIN users u ON u.id = p.user_id WHERE u.email = $1 ORDER BY p.id`
)

type PerevalRepositoryImpl struct {
	db     *sqlx.DB
	users  UserRepository
	images ImageRepository
}

func NewPerevalRepository(db *sqlx.DB, users UserRepository, images ImageRepository) *PerevalRepositoryImpl {
	return &PerevalRepositoryImpl{db: db, users: users, images: images}
}

// Create создает перевал вместе с координатами, картинками и привязкой
// к пользователю одной транзакцией. Пользователь ищется по email:
// найден - поля перезаписываются при расхождении, не найден - создается.
func (r *PerevalRepositoryImpl) Create(ctx context.Context, p *CreatePerevalParams) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}
	defer tx.Rollback()

	user := p.User

	existing, err := r.users.GetByEmail(ctx, tx, user.Email)
	switch {
	case err == nil:
		user.ID = existing.ID
		if userFieldsDiffer(existing, &user) {
			if err := r.users.Update(ctx, tx, &user); err != nil {
				return 0, err
			}
		}
	case errors.Is(err, ErrUserNotFound):
		if err := r.users.Create(ctx, tx, &user); err != nil {
			return 0, err
		}
	default:
		return 0, err
	}

	coords := p.Coords
	err = sqlx.GetContext(ctx, tx, &coords.ID, queryInsertCoords,
		coords.Latitude, coords.Longitude, coords.Height)
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании координат: %w", err)
	}

	pereval := p.Pereval
	err = sqlx.GetContext(ctx, tx, &pereval.ID, queryInsertPereval,
		pereval.BeautyTitle, pereval.Title, pereval.OtherTitles, pereval.Connect,
		pereval.WinterLevel, pereval.SummerLevel, pereval.AutumnLevel, pereval.SpringLevel,
		user.ID, coords.ID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании перевала: %w", err)
	}

	for _, img := range p.Images {
		image := models.Image{Img: img.Data, Title: img.Title}

		if err := r.images.Create(ctx, tx, &image); err != nil {
			return 0, err
		}
		if err := r.images.Link(ctx, tx, pereval.ID, image.ID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return pereval.ID, nil
}

func (r *PerevalRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.PerevalDetail, error) {
	var pereval models.Pereval

	err := sqlx.GetContext(ctx, r.db, &pereval, queryPerevalByID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPerevalNotFound
		}
		return nil, fmt.Errorf("ошибка при получении перевала: %w", err)
	}

	return r.loadDetail(ctx, &pereval)
}

func (r *PerevalRepositoryImpl) ListByEmail(ctx context.Context, email string) ([]*models.PerevalDetail, error) {
	var perevals []models.Pereval

	err := sqlx.SelectContext(ctx, r.db, &perevals, queryPerevalsByEmail, email)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении перевалов пользователя: %w", err)
	}

	details := make([]*models.PerevalDetail, 0, len(perevals))
	for i := range perevals {
		detail, err := r.loadDetail(ctx, &perevals[i])
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	return details, nil
}

// Update применяет уже слитые поля перевала, координаты и список картинок
// одной транзакцией. Запись со статусом, отличным от new, не обновляется.
func (r *PerevalRepositoryImpl) Update(ctx context.Context, p *UpdatePerevalParams) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка при открытии транзакции: %w", err)
	}
	defer tx.Rollback()

	pereval := p.Pereval

	result, err := tx.ExecContext(ctx, queryUpdatePereval,
		pereval.BeautyTitle, pereval.Title, pereval.OtherTitles, pereval.Connect,
		pereval.WinterLevel, pereval.SummerLevel, pereval.AutumnLevel, pereval.SpringLevel,
		pereval.ID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении перевала: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		// ноль строк - либо статус сменился, либо запись успели удалить
		var status string
		err := sqlx.GetContext(ctx, tx, &status, queryPerevalStatus, pereval.ID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPerevalNotFound
		}
		if err != nil {
			return fmt.Errorf("ошибка при проверке статуса перевала: %w", err)
		}
		return ErrEditForbidden
	}

	if p.Coords != nil {
		_, err := tx.ExecContext(ctx, queryUpdateCoords,
			p.Coords.Latitude, p.Coords.Longitude, p.Coords.Height, p.Coords.ID)
		if err != nil {
			return fmt.Errorf("ошибка при обновлении координат: %w", err)
		}
	}

	if p.HasImages {
		if err := r.reconcileImages(ctx, tx, pereval.ID, p.Images); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	return nil
}

// reconcileImages приводит набор привязанных картинок к списку операций:
// существующие остаются (с переименованием, если задано), новые создаются,
// не упомянутые отвязываются, осиротевшие удаляются.
func (r *PerevalRepositoryImpl) reconcileImages(ctx context.Context, tx *sqlx.Tx, perevalID int64, ops []ImageOp) error {
	oldIDs, err := r.images.LinkedIDs(ctx, tx, perevalID)
	if err != nil {
		return err
	}

	keep := make([]int64, 0, len(ops))
	keepSet := make(map[int64]struct{}, len(ops))

	for _, op := range ops {
		if op.ID > 0 {
			// повтор одного id в запросе не должен плодить дубли привязок
			if _, ok := keepSet[op.ID]; ok {
				continue
			}

			if op.Title != nil {
				if err := r.images.UpdateTitle(ctx, tx, op.ID, *op.Title); err != nil {
					return err
				}
			} else if err := r.images.Exists(ctx, tx, op.ID); err != nil {
				return err
			}

			keepSet[op.ID] = struct{}{}
			keep = append(keep, op.ID)
			continue
		}

		title := "Без названия"
		if op.Title != nil {
			title = *op.Title
		}

		image := models.Image{Img: op.Data, Title: title}
		if err := r.images.Create(ctx, tx, &image); err != nil {
			return err
		}

		keepSet[image.ID] = struct{}{}
		keep = append(keep, image.ID)
	}

	if err := r.images.UnlinkAll(ctx, tx, perevalID); err != nil {
		return err
	}

	for _, imageID := range keep {
		if err := r.images.Link(ctx, tx, perevalID, imageID); err != nil {
			return err
		}
	}

	// кандидаты на удаление - бывшие привязки, не попавшие в новый набор
	var candidates []int64
	for _, id := range oldIDs {
		if _, ok := keepSet[id]; !ok {
			candidates = append(candidates, id)
		}
	}

	return r.images.DeleteOrphans(ctx, tx, candidates)
}

func (r *PerevalRepositoryImpl) loadDetail(ctx context.Context, pereval *models.Pereval) (*models.PerevalDetail, error) {
	detail := models.PerevalDetail{Pereval: *pereval}

	err := sqlx.GetContext(ctx, r.db, &detail.User, queryUserByID, pereval.UserID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении пользователя перевала: %w", err)
	}

	err = sqlx.GetContext(ctx, r.db, &detail.Coords, queryCoordsByID, pereval.CoordsID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении координат перевала: %w", err)
	}

	detail.Images, err = r.images.MetaByPerevalID(ctx, r.db, pereval.ID)
	if err != nil {
		return nil, err
	}

	return &detail, nil
}

func userFieldsDiffer(stored, incoming *models.User) bool {
	return stored.FirstName != incoming.FirstName ||
		stored.LastName != incoming.LastName ||
		stored.MiddleName != incoming.MiddleName ||
		stored.Phone != incoming.Phone
}
