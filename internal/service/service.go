package service

import (
	"perevalFSTR/internal/config"
	"perevalFSTR/internal/repository"
)

type Service struct {
	Submit SubmitService
	Area   AreaService
	Tables TablesService
}

func NewService(repo *repository.Repository, cfg *config.Config) *Service {
	return &Service{
		Submit: NewSubmitService(repo.Pereval, cfg),
		Area:   NewAreaService(repo.Area),
		Tables: NewTablesService(repo.Tables),
	}
}
