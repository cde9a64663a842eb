package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"perevalFSTR/cmd/app"
	"perevalFSTR/internal/config"
	handlers "perevalFSTR/internal/handler"
	"perevalFSTR/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	db, _, services := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(services, cfg)

	router := mux.NewRouter()

	// setting up routes
	router.HandleFunc("/", handlers.HomeHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", handler.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/tables", handler.TablesHandler).Methods(http.MethodGet)
	router.HandleFunc("/areas/", handler.GetAreas).Methods(http.MethodGet)

	router.HandleFunc("/submitData/", handler.SubmitData).Methods(http.MethodPost)
	router.HandleFunc("/submitData/", handler.ListPerevals).Methods(http.MethodGet)
	router.HandleFunc("/submitData/{id:[0-9]+}/", handler.GetPereval).Methods(http.MethodGet)
	router.HandleFunc("/submitData/{id:[0-9]+}/", handler.UpdatePereval).Methods(http.MethodPatch)

	handlerChain := middleware.Chain(
		router,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
		middleware.AuthMiddleware(cfg),
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	fmt.Printf("Сервер запущен на %s\n", addr)
	fmt.Printf("База данных: %s\n", cfg.DB.DbNAME)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
