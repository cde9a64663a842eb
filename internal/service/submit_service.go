package service

import (
	"context"
	"encoding/base64"
	"strings"

	"perevalFSTR/internal/config"
	"perevalFSTR/internal/models"
	"perevalFSTR/internal/repository"
)

const defaultImageTitle = "Без названия"

type SubmitService interface {
	CreatePereval(ctx context.Context, req *models.SubmitRequest) (int64, error)
	GetPereval(ctx context.Context, id int64) (*models.PerevalDetail, error)
	UpdatePereval(ctx context.Context, id int64, req *models.UpdateRequest) error
	ListByEmail(ctx context.Context, email string) ([]*models.PerevalDetail, error)
}

type submitService struct {
	perevalRepo repository.PerevalRepository
	cfg         *config.Config
}

func NewSubmitService(perevalRepo repository.PerevalRepository, cfg *config.Config) SubmitService {
	return &submitService{perevalRepo: perevalRepo, cfg: cfg}
}

// CreatePereval переводит входящий запрос из внешнего формата ФСТР
// (fam/name/otc, вложенный level, base64-картинки) во внутреннее
// представление и создает перевал. Все проверки - до первой записи в БД.
func (s *submitService) CreatePereval(ctx context.Context, req *models.SubmitRequest) (int64, error) {
	if req.User == nil {
		return 0, newValidationError("отсутствует блок user")
	}
	if req.Coords == nil {
		return 0, newValidationError("отсутствует блок coords")
	}
	if req.Coords.Latitude == nil || req.Coords.Longitude == nil || req.Coords.Height == nil {
		return 0, newValidationError("в блоке coords должны быть заполнены latitude, longitude и height")
	}
	if req.Title == "" {
		return 0, newValidationError("отсутствует название перевала")
	}

	images := make([]repository.NewImage, 0, len(req.Images))
	for i, img := range req.Images {
		if img.Data == nil || *img.Data == "" {
			return 0, newValidationError("изображение #%d: новое изображение должно содержать data", i+1)
		}

		data, err := s.decodeImageData(*img.Data)
		if err != nil {
			return 0, err
		}

		title := defaultImageTitle
		if img.Title != nil && *img.Title != "" {
			title = *img.Title
		}

		images = append(images, repository.NewImage{Data: data, Title: title})
	}

	beautyTitle := req.BeautyTitle
	if beautyTitle == "" {
		beautyTitle = req.BeautyTitleAlt
	}

	pereval := models.Pereval{
		BeautyTitle: beautyTitle,
		Title:       req.Title,
		OtherTitles: req.OtherTitles,
		Connect:     req.Connect,
	}
	if req.Level != nil {
		pereval.WinterLevel = strValue(req.Level.Winter)
		pereval.SummerLevel = strValue(req.Level.Summer)
		pereval.AutumnLevel = strValue(req.Level.Autumn)
		pereval.SpringLevel = strValue(req.Level.Spring)
	}

	params := repository.CreatePerevalParams{
		User: models.User{
			Email:      req.User.Email,
			FirstName:  req.User.Name,
			LastName:   req.User.Fam,
			MiddleName: req.User.Otc,
			Phone:      req.User.Phone,
		},
		Coords: models.Coords{
			Latitude:  float64(*req.Coords.Latitude),
			Longitude: float64(*req.Coords.Longitude),
			Height:    int(*req.Coords.Height),
		},
		Pereval: pereval,
		Images:  images,
	}

	return s.perevalRepo.Create(ctx, &params)
}

func (s *submitService) GetPereval(ctx context.Context, id int64) (*models.PerevalDetail, error) {
	return s.perevalRepo.GetByID(ctx, id)
}

// UpdatePereval применяет частичное обновление: незаполненные поля
// не меняются, блок user игнорируется, статус должен быть new.
func (s *submitService) UpdatePereval(ctx context.Context, id int64, req *models.UpdateRequest) error {
	detail, err := s.perevalRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if detail.Pereval.Status != models.StatusNew {
		return newValidationError("редактирование запрещено: перевал в статусе %q", detail.Pereval.Status)
	}

	merged := detail.Pereval

	switch {
	case req.BeautyTitle != nil:
		merged.BeautyTitle = *req.BeautyTitle
	case req.BeautyTitleAlt != nil:
		merged.BeautyTitle = *req.BeautyTitleAlt
	}
	if req.Title != nil {
		merged.Title = *req.Title
	}
	if req.OtherTitles != nil {
		merged.OtherTitles = *req.OtherTitles
	}
	if req.Connect != nil {
		merged.Connect = *req.Connect
	}
	if req.Level != nil {
		if req.Level.Winter != nil {
			merged.WinterLevel = *req.Level.Winter
		}
		if req.Level.Summer != nil {
			merged.SummerLevel = *req.Level.Summer
		}
		if req.Level.Autumn != nil {
			merged.AutumnLevel = *req.Level.Autumn
		}
		if req.Level.Spring != nil {
			merged.SpringLevel = *req.Level.Spring
		}
	}

	params := repository.UpdatePerevalParams{Pereval: merged}

	if req.Coords != nil {
		coords := detail.Coords
		if req.Coords.Latitude != nil {
			coords.Latitude = float64(*req.Coords.Latitude)
		}
		if req.Coords.Longitude != nil {
			coords.Longitude = float64(*req.Coords.Longitude)
		}
		if req.Coords.Height != nil {
			coords.Height = int(*req.Coords.Height)
		}
		params.Coords = &coords
	}

	if req.Images != nil {
		params.HasImages = true
		params.Images = make([]repository.ImageOp, 0, len(*req.Images))

		for i, img := range *req.Images {
			switch {
			case img.ID != nil && *img.ID > 0:
				params.Images = append(params.Images, repository.ImageOp{ID: *img.ID, Title: img.Title})
			case img.Data != nil && *img.Data != "":
				data, err := s.decodeImageData(*img.Data)
				if err != nil {
					return err
				}
				params.Images = append(params.Images, repository.ImageOp{Data: data, Title: img.Title})
			default:
				return newValidationError("изображение #%d: новое изображение должно содержать data", i+1)
			}
		}
	}

	return s.perevalRepo.Update(ctx, &params)
}

// ListByEmail возвращает перевалы пользователя. Пустой email - пустой
// список, а не ошибка.
func (s *submitService) ListByEmail(ctx context.Context, email string) ([]*models.PerevalDetail, error) {
	if email == "" {
		return []*models.PerevalDetail{}, nil
	}

	return s.perevalRepo.ListByEmail(ctx, email)
}

// decodeImageData принимает и голую base64-строку, и data-URI вида
// data:image/png;base64,XXXX - префикс отбрасывается перед декодированием.
func (s *submitService) decodeImageData(data string) ([]byte, error) {
	payload := data

	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ";base64,")
		if idx < 0 {
			return nil, newValidationError("некорректный формат изображения: ожидается data:image/<тип>;base64,<данные>")
		}
		payload = payload[idx+len(";base64,"):]
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, newValidationError("некорректный формат изображения: не удалось декодировать base64")
	}

	if len(decoded) == 0 {
		return nil, newValidationError("изображение не содержит данных")
	}

	if s.cfg != nil && s.cfg.MaxImageSize > 0 && int64(len(decoded)) > s.cfg.MaxImageSize {
		return nil, newValidationError("изображение превышает максимальный размер %d байт", s.cfg.MaxImageSize)
	}

	return decoded, nil
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
