package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"perevalFSTR/internal/models"
)

var (
	ErrUserNotFound    = errors.New("пользователь не найден")
	ErrPerevalNotFound = errors.New("перевал не найден")
	ErrImageNotFound   = errors.New("изображение не найдено")
	ErrEditForbidden   = errors.New("редактирование разрешено только для перевалов в статусе new")
)

// NewImage - новая картинка для создаваемого перевала
type NewImage struct {
	Data  []byte
	Title string
}

// ImageOp - операция над картинкой при обновлении перевала:
// ID > 0 означает существующую картинку, иначе Data содержит байты новой.
type ImageOp struct {
	ID    int64
	Data  []byte
	Title *string
}

type CreatePerevalParams struct {
	User    models.User
	Coords  models.Coords
	Pereval models.Pereval
	Images  []NewImage
}

// UpdatePerevalParams - уже слитые с текущим состоянием поля перевала.
// Coords == nil и HasImages == false означают "не трогать".
type UpdatePerevalParams struct {
	Pereval   models.Pereval
	Coords    *models.Coords
	Images    []ImageOp
	HasImages bool
}

type PerevalRepository interface {
	Create(ctx context.Context, p *CreatePerevalParams) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.PerevalDetail, error)
	ListByEmail(ctx context.Context, email string) ([]*models.PerevalDetail, error)
	Update(ctx context.Context, p *UpdatePerevalParams) error
}

type UserRepository interface {
	GetByEmail(ctx context.Context, q sqlx.ExtContext, email string) (*models.User, error)
	Create(ctx context.Context, q sqlx.ExtContext, user *models.User) error
	Update(ctx context.Context, q sqlx.ExtContext, user *models.User) error
}

type ImageRepository interface {
	Create(ctx context.Context, q sqlx.ExtContext, image *models.Image) error
	UpdateTitle(ctx context.Context, q sqlx.ExtContext, imageID int64, title string) error
	Exists(ctx context.Context, q sqlx.ExtContext, imageID int64) error
	Link(ctx context.Context, q sqlx.ExtContext, perevalID, imageID int64) error
	LinkedIDs(ctx context.Context, q sqlx.ExtContext, perevalID int64) ([]int64, error)
	UnlinkAll(ctx context.Context, q sqlx.ExtContext, perevalID int64) error
	DeleteOrphans(ctx context.Context, q sqlx.ExtContext, imageIDs []int64) error
	MetaByPerevalID(ctx context.Context, q sqlx.ExtContext, perevalID int64) ([]models.Image, error)
}

type AreaRepository interface {
	List(ctx context.Context) ([]models.Area, error)
}

type TablesRepository interface {
	CountTablesDB() (int, error)
	Ping(ctx context.Context) error
}

type Repository struct {
	Pereval PerevalRepository
	User    UserRepository
	Image   ImageRepository
	Area    AreaRepository
	Tables  TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	users := NewUserRepository()
	images := NewImageRepository()

	return &Repository{
		Pereval: NewPerevalRepository(db, users, images),
		User:    users,
		Image:   images,
		Area:    NewAreaRepository(db),
		Tables:  NewTablesRepository(db),
	}
}
