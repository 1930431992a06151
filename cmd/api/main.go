// @title ZenRoutine API
// @description API for the time-management app "ZenRoutine"
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/RogueKostas/ZenRoutine/internal/api"
	"github.com/RogueKostas/ZenRoutine/internal/repository"
	"github.com/RogueKostas/ZenRoutine/internal/service"
	"github.com/RogueKostas/ZenRoutine/pkg/config"
	jwtservice "github.com/RogueKostas/ZenRoutine/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	usersRepo := repository.NewUsersRepo(&dbCfg)
	activityTypesRepo := repository.NewActivityTypesRepo(&dbCfg)
	goalsRepo := repository.NewGoalsRepo(&dbCfg)
	routinesRepo := repository.NewRoutinesRepo(&dbCfg)
	trackingRepo := repository.NewTrackingRepo(&dbCfg)
	serv := api.New(&api.ServicesList{
		UserService:          service.NewUserService(usersRepo),
		ActivityTypesService: service.NewActivityTypesService(activityTypesRepo),
		GoalsService:         service.NewGoalsService(goalsRepo, routinesRepo, trackingRepo),
		RoutinesService:      service.NewRoutinesService(routinesRepo, activityTypesRepo),
		TrackingService:      service.NewTrackingService(trackingRepo, goalsRepo, activityTypesRepo),
		JwtService:           jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err := serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
