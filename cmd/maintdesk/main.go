package main

import (
	"fmt"
	"os"

	"github.com/askarbek/maintdesk/internal/auth"
	"github.com/askarbek/maintdesk/internal/config"
	"github.com/askarbek/maintdesk/internal/db"
	"github.com/askarbek/maintdesk/internal/excel"
	httphandler "github.com/askarbek/maintdesk/internal/http"
	"github.com/askarbek/maintdesk/internal/http/middleware"
	"github.com/askarbek/maintdesk/internal/logger"
	"github.com/askarbek/maintdesk/internal/pdf"
	"github.com/askarbek/maintdesk/internal/repository"
	"github.com/askarbek/maintdesk/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	requestRepo := repository.NewRequestRepository(database)
	equipmentRepo := repository.NewEquipmentRepository(database)
	teamRepo := repository.NewTeamRepository(database)

	calendarExporter := excel.NewCalendarGenerator()
	workOrderGenerator := pdf.NewGenerator()

	requestService := service.NewRequestService(requestRepo, equipmentRepo, teamRepo, calendarExporter, workOrderGenerator, log)
	equipmentService := service.NewEquipmentService(equipmentRepo, log)
	teamService := service.NewTeamService(teamRepo, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(requestService, equipmentService, teamService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting maintdesk service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
