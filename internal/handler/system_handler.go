package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

type TablesResponse struct {
	CountTables int `json:"countTables"`
}

func HomeHandler(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, MessageResponse{Message: "Pereval REST API"}, http.StatusOK)
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.TablesService.HealthCheck(r.Context()); err != nil {
		log.Printf("Проверка БД не пройдена: %v", err)
		WriteError(w, "БД недоступна", http.StatusServiceUnavailable)
		return
	}

	WriteSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *Handlers) TablesHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.TablesService.GetCountTablesBD()
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(TablesResponse{count})
}

// GetAreas обрабатывает GET /areas/ - иерархия горных районов
func (h *Handlers) GetAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.AreaService.GetAreas(r.Context())
	if err != nil {
		log.Printf("Ошибка при получении списка районов: %v", err)
		WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, areas, http.StatusOK)
}
