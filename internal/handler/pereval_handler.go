package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"perevalFSTR/internal/models"
	"perevalFSTR/internal/repository"
	"perevalFSTR/internal/service"
)

// SubmitResponse - ответ POST /submitData/ по протоколу ФСТР
type SubmitResponse struct {
	Status  int     `json:"status"`
	Message *string `json:"message"`
	ID      *int64  `json:"id"`
}

// UpdateResponse - ответ PATCH /submitData/{id}/: state 1 - успех, 0 - отказ
type UpdateResponse struct {
	State   int    `json:"state"`
	Message string `json:"message"`
}

type UserResponse struct {
	Email string `json:"email"`
	Fam   string `json:"fam"`
	Name  string `json:"name"`
	Otc   string `json:"otc"`
	Phone string `json:"phone"`
}

type CoordsResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Height    int     `json:"height"`
}

type LevelResponse struct {
	Winter string `json:"winter"`
	Summer string `json:"summer"`
	Autumn string `json:"autumn"`
	Spring string `json:"spring"`
}

type ImageResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	DateAdded time.Time `json:"date_added"`
}

type PerevalResponse struct {
	ID          int64           `json:"id"`
	BeautyTitle string          `json:"beauty_title"`
	Title       string          `json:"title"`
	OtherTitles string          `json:"other_titles"`
	Connect     string          `json:"connect"`
	AddTime     time.Time       `json:"add_time"`
	Status      string          `json:"status"`
	User        UserResponse    `json:"user"`
	Coords      CoordsResponse  `json:"coords"`
	Level       LevelResponse   `json:"level"`
	Images      []ImageResponse `json:"images"`
}

// SubmitData обрабатывает POST /submitData/ - создание перевала
func (h *Handlers) SubmitData(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSubmitError(w, "Неверный формат запроса: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeSubmitError(w, "Ошибка валидации: "+err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.SubmitService.CreatePereval(r.Context(), &req)
	if err != nil {
		if service.IsValidation(err) {
			writeSubmitError(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Printf("Ошибка при создании перевала: %v", err)
		writeSubmitError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, SubmitResponse{Status: http.StatusOK, ID: &id}, http.StatusOK)
}

// GetPereval обрабатывает GET /submitData/{id}/ - полное представление перевала
func (h *Handlers) GetPereval(w http.ResponseWriter, r *http.Request) {
	id, err := perevalID(r)
	if err != nil {
		WriteError(w, "Неверный идентификатор перевала", http.StatusBadRequest)
		return
	}

	detail, err := h.SubmitService.GetPereval(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPerevalNotFound) {
			WriteError(w, "Перевал не найден", http.StatusNotFound)
			return
		}

		log.Printf("Ошибка при получении перевала %d: %v", id, err)
		WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, toPerevalResponse(detail), http.StatusOK)
}

// UpdatePereval обрабатывает PATCH /submitData/{id}/ - частичное обновление.
// Обновление разрешено только для перевалов в статусе new.
func (h *Handlers) UpdatePereval(w http.ResponseWriter, r *http.Request) {
	id, err := perevalID(r)
	if err != nil {
		WriteSuccess(w, UpdateResponse{State: 0, Message: "Неверный идентификатор перевала"}, http.StatusBadRequest)
		return
	}

	var req models.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteSuccess(w, UpdateResponse{State: 0, Message: "Неверный формат запроса: " + err.Error()}, http.StatusBadRequest)
		return
	}

	if err := h.SubmitService.UpdatePereval(r.Context(), id, &req); err != nil {
		switch {
		case errors.Is(err, repository.ErrPerevalNotFound):
			WriteError(w, "Перевал не найден", http.StatusNotFound)
		case service.IsValidation(err),
			errors.Is(err, repository.ErrEditForbidden),
			errors.Is(err, repository.ErrImageNotFound):
			WriteSuccess(w, UpdateResponse{State: 0, Message: err.Error()}, http.StatusBadRequest)
		default:
			log.Printf("Ошибка при обновлении перевала %d: %v", id, err)
			WriteSuccess(w, UpdateResponse{State: 0, Message: "Внутренняя ошибка сервера"}, http.StatusInternalServerError)
		}
		return
	}

	WriteSuccess(w, UpdateResponse{State: 1, Message: "Запись успешно обновлена"}, http.StatusOK)
}

// ListPerevals обрабатывает GET /submitData/?user__email=<email>.
// Без email или без совпадений возвращается пустой список, не ошибка.
func (h *Handlers) ListPerevals(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("user__email")

	details, err := h.SubmitService.ListByEmail(r.Context(), email)
	if err != nil {
		log.Printf("Ошибка при получении перевалов по email %q: %v", email, err)
		WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	response := make([]PerevalResponse, 0, len(details))
	for _, detail := range details {
		response = append(response, toPerevalResponse(detail))
	}

	WriteSuccess(w, response, http.StatusOK)
}

func perevalID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func writeSubmitError(w http.ResponseWriter, message string, statusCode int) {
	WriteSuccess(w, SubmitResponse{Status: statusCode, Message: &message}, statusCode)
}

func toPerevalResponse(detail *models.PerevalDetail) PerevalResponse {
	images := make([]ImageResponse, 0, len(detail.Images))
	for _, img := range detail.Images {
		images = append(images, ImageResponse{ID: img.ID, Title: img.Title, DateAdded: img.DateAdded})
	}

	return PerevalResponse{
		ID:          detail.Pereval.ID,
		BeautyTitle: detail.Pereval.BeautyTitle,
		Title:       detail.Pereval.Title,
		OtherTitles: detail.Pereval.OtherTitles,
		Connect:     detail.Pereval.Connect,
		AddTime:     detail.Pereval.AddTime,
		Status:      detail.Pereval.Status,
		User: UserResponse{
			Email: detail.User.Email,
			Fam:   detail.User.LastName,
			Name:  detail.User.FirstName,
			Otc:   detail.User.MiddleName,
			Phone: detail.User.Phone,
		},
		Coords: CoordsResponse{
			Latitude:  detail.Coords.Latitude,
			Longitude: detail.Coords.Longitude,
			Height:    detail.Coords.Height,
		},
		Level: LevelResponse{
			Winter: detail.Pereval.WinterLevel,
			Summer: detail.Pereval.SummerLevel,
			Autumn: detail.Pereval.AutumnLevel,
			Spring: detail.Pereval.SpringLevel,
		},
		Images: images,
	}
}
