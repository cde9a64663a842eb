package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perevalFSTR/internal/models"
	"perevalFSTR/internal/repository"
	"perevalFSTR/internal/service"
)

type mockSubmitService struct {
	createID      int64
	createErr     error
	lastCreateReq *models.SubmitRequest

	detail *models.PerevalDetail
	getErr error

	updateErr     error
	lastUpdateReq *models.UpdateRequest

	list    []*models.PerevalDetail
	listErr error
}

func (m *mockSubmitService) CreatePereval(ctx context.Context, req *models.SubmitRequest) (int64, error) {
	m.lastCreateReq = req
	return m.createID, m.createErr
}

func (m *mockSubmitService) GetPereval(ctx context.Context, id int64) (*models.PerevalDetail, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.detail, nil
}

func (m *mockSubmitService) UpdatePereval(ctx context.Context, id int64, req *models.UpdateRequest) error {
	m.lastUpdateReq = req
	return m.updateErr
}

func (m *mockSubmitService) ListByEmail(ctx context.Context, email string) ([]*models.PerevalDetail, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.list, nil
}

func newTestRouter(svc service.SubmitService) *mux.Router {
	h := &Handlers{SubmitService: svc, Validate: validator.New()}

	router := mux.NewRouter()
	router.HandleFunc("/submitData/", h.SubmitData).Methods(http.MethodPost)
	router.HandleFunc("/submitData/", h.ListPerevals).Methods(http.MethodGet)
	router.HandleFunc("/submitData/{id:[0-9]+}/", h.GetPereval).Methods(http.MethodGet)
	router.HandleFunc("/submitData/{id:[0-9]+}/", h.UpdatePereval).Methods(http.MethodPatch)

	return router
}

func testDetail() *models.PerevalDetail {
	return &models.PerevalDetail{
		Pereval: models.Pereval{
			ID:          42,
			BeautyTitle: "пер. ",
			Title:       "Пхия",
			OtherTitles: "Триев",
			SummerLevel: "1А",
			Status:      models.StatusNew,
		},
		User:   models.User{Email: "qwerty@mail.ru", FirstName: "Василий", LastName: "Пупкин", MiddleName: "Иванович", Phone: "+7 555 55 55"},
		Coords: models.Coords{Latitude: 45.3842, Longitude: 7.1525, Height: 1200},
		Images: []models.Image{{ID: 100, Title: "Седловина"}},
	}
}

func submitBody() string {
	rawImage := base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff, 0xe0})

	return `{
		"beauty_title": "пер. ",
		"title": "Пхия",
		"other_titles": "Триев",
		"connect": "",
		"user": {"email": "qwerty@mail.ru", "fam": "Пупкин", "name": "Василий", "otc": "Иванович", "phone": "+7 555 55 55"},
		"coords": {"latitude": "45.3842", "longitude": "7.1525", "height": "1200"},
		"level": {"winter": "", "summer": "1А", "autumn": "1А", "spring": ""},
		"images": [{"data": "data:image/jpeg;base64,` + rawImage + `", "title": "Седловина"}]
	}`
}

func TestSubmitData(t *testing.T) {
	t.Run("Успешное создание перевала", func(t *testing.T) {
		svc := &mockSubmitService{createID: 42}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/submitData/", strings.NewReader(submitBody()))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp SubmitResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Nil(t, resp.Message)
		require.NotNil(t, resp.ID)
		assert.Equal(t, int64(42), *resp.ID)

		// числовые строки координат распарсились при декодировании
		require.NotNil(t, svc.lastCreateReq)
		assert.Equal(t, models.FlexFloat(45.3842), *svc.lastCreateReq.Coords.Latitude)
		assert.Equal(t, models.FlexInt(1200), *svc.lastCreateReq.Coords.Height)
	})

	t.Run("Ошибка валидации - 400 с id null", func(t *testing.T) {
		svc := &mockSubmitService{createErr: &service.ValidationError{Message: "некорректный формат изображения"}}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/submitData/", strings.NewReader(submitBody()))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp SubmitResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		require.NotNil(t, resp.Message)
		assert.Contains(t, *resp.Message, "некорректный формат")
		assert.Nil(t, resp.ID)
	})

	t.Run("Запрос без обязательных полей - 400 до вызова сервиса", func(t *testing.T) {
		svc := &mockSubmitService{}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/submitData/", strings.NewReader(`{"title": ""}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.lastCreateReq)
	})

	t.Run("Внутренняя ошибка - 500", func(t *testing.T) {
		svc := &mockSubmitService{createErr: errors.New("БД недоступна")}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/submitData/", strings.NewReader(submitBody()))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)

		var resp SubmitResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
		assert.Nil(t, resp.ID)
	})
}

func TestGetPereval(t *testing.T) {
	t.Run("Полное вложенное представление", func(t *testing.T) {
		svc := &mockSubmitService{detail: testDetail()}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/submitData/42/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp PerevalResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, int64(42), resp.ID)
		assert.Equal(t, "Пхия", resp.Title)
		assert.Equal(t, models.StatusNew, resp.Status)
		assert.Equal(t, "qwerty@mail.ru", resp.User.Email)
		assert.Equal(t, "Пупкин", resp.User.Fam)
		assert.Equal(t, "Василий", resp.User.Name)
		assert.Equal(t, 45.3842, resp.Coords.Latitude)
		assert.Equal(t, "1А", resp.Level.Summer)
		require.Len(t, resp.Images, 1)
		assert.Equal(t, "Седловина", resp.Images[0].Title)
	})

	t.Run("Перевал не найден - 404", func(t *testing.T) {
		svc := &mockSubmitService{getErr: repository.ErrPerevalNotFound}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/submitData/99/", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUpdatePereval(t *testing.T) {
	t.Run("Успешное обновление - state 1", func(t *testing.T) {
		svc := &mockSubmitService{}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPatch, "/submitData/42/", strings.NewReader(`{"title": "Updated Title"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp UpdateResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 1, resp.State)

		require.NotNil(t, svc.lastUpdateReq)
		assert.Equal(t, "Updated Title", *svc.lastUpdateReq.Title)
	})

	t.Run("Статус не new - 400 и state 0", func(t *testing.T) {
		svc := &mockSubmitService{updateErr: &service.ValidationError{Message: `редактирование запрещено: перевал в статусе "rejected"`}}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPatch, "/submitData/42/", strings.NewReader(`{"title": "Should Fail"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp UpdateResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 0, resp.State)
		assert.Contains(t, resp.Message, "редактирование запрещено")
	})

	t.Run("Несуществующий перевал - 404", func(t *testing.T) {
		svc := &mockSubmitService{updateErr: repository.ErrPerevalNotFound}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPatch, "/submitData/99/", strings.NewReader(`{"title": "x"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Внутренняя ошибка - 500 и state 0", func(t *testing.T) {
		svc := &mockSubmitService{updateErr: errors.New("БД недоступна")}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodPatch, "/submitData/42/", strings.NewReader(`{"title": "x"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)

		var resp UpdateResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 0, resp.State)
	})
}

func TestListPerevals(t *testing.T) {
	t.Run("Без совпадений - пустой массив и 200", func(t *testing.T) {
		svc := &mockSubmitService{list: []*models.PerevalDetail{}}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/submitData/?user__email=nobody@mail.ru", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	})

	t.Run("Перевалы пользователя", func(t *testing.T) {
		svc := &mockSubmitService{list: []*models.PerevalDetail{testDetail()}}
		router := newTestRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/submitData/?user__email=qwerty@mail.ru", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp []PerevalResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "qwerty@mail.ru", resp[0].User.Email)
		assert.Equal(t, "Триев", resp[0].OtherTitles)
	})
}
