package handlers

import (
	"github.com/go-playground/validator/v10"

	"perevalFSTR/internal/config"
	"perevalFSTR/internal/service"
)

type Handlers struct {
	SubmitService service.SubmitService
	AreaService   service.AreaService
	TablesService service.TablesService
	Cfg           *config.Config
	Validate      *validator.Validate
}

func NewHandlers(services *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		SubmitService: services.Submit,
		AreaService:   services.Area,
		TablesService: services.Tables,
		Cfg:           config,
		Validate:      validator.New(),
	}
}
