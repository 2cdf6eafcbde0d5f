package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tacticalsync/tacticalsync/internal/config"
	"github.com/tacticalsync/tacticalsync/internal/database"
	"github.com/tacticalsync/tacticalsync/internal/handlers"
	"github.com/tacticalsync/tacticalsync/internal/logger"
	"github.com/tacticalsync/tacticalsync/internal/middleware"
	"github.com/tacticalsync/tacticalsync/internal/realtime"
	"github.com/tacticalsync/tacticalsync/internal/repository"
	"github.com/tacticalsync/tacticalsync/internal/routes"
	agendaService "github.com/tacticalsync/tacticalsync/internal/service/agenda"
	authService "github.com/tacticalsync/tacticalsync/internal/service/auth"
	commentService "github.com/tacticalsync/tacticalsync/internal/service/comment"
	itemsService "github.com/tacticalsync/tacticalsync/internal/service/items"
	meetingService "github.com/tacticalsync/tacticalsync/internal/service/meeting"
	profileService "github.com/tacticalsync/tacticalsync/internal/service/profile"
	teamService "github.com/tacticalsync/tacticalsync/internal/service/team"
	templateService "github.com/tacticalsync/tacticalsync/internal/service/template"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.New("tacticalsync")
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg); err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}

	hub := realtime.NewHub(log)
	go hub.Run()

	users := repository.NewUserRepository(db)
	teams := repository.NewTeamRepository(db)
	series := repository.NewSeriesRepository(db)
	instances := repository.NewInstanceRepository(db)
	agendaItems := repository.NewAgendaRepository(db)
	priorities := repository.NewPriorityRepository(db)
	topics := repository.NewTopicRepository(db)
	actions := repository.NewActionItemRepository(db)
	templates := repository.NewTemplateRepository(db)
	invitations := repository.NewInvitationRepository(db)
	comments := repository.NewCommentRepository(db)

	auths := authService.NewService(users, cfg.JWTSecret, log)
	profiles := profileService.NewService(users, log)
	teamsSvc := teamService.NewService(teams, users, invitations, hub, log)
	meetings := meetingService.NewService(series, instances, teams, agendaItems, priorities, topics, actions, hub, log)
	agendas := agendaService.NewService(agendaItems, series, templates, teams, hub, log)
	items := itemsService.NewService(priorities, topics, actions, instances, series, teams, hub, log)
	templatesSvc := templateService.NewService(templates, log)
	commentsSvc := commentService.NewService(comments, agendaItems, priorities, topics, actions, instances, series, teams, log)

	authMW := middleware.NewAuth(cfg.JWTSecret)
	router := routes.RegisterAllRoutes(routes.Deps{
		Auth:      authMW,
		AuthH:     handlers.NewAuthHandler(auths),
		ProfileH:  handlers.NewProfileHandler(profiles),
		TeamH:     handlers.NewTeamHandler(teamsSvc),
		MeetingH:  handlers.NewMeetingHandler(meetings),
		AgendaH:   handlers.NewAgendaHandler(agendas),
		ItemsH:    handlers.NewItemsHandler(items),
		TemplateH: handlers.NewTemplateHandler(templatesSvc),
		CommentH:  handlers.NewCommentHandler(commentsSvc),
		WSH:       handlers.NewWebSocketHandler(hub, teams, log),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Info("Server is running", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}
}
