package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RogueKostas/ZenRoutine/internal/service"
)

type Server struct {
	mx                   *chi.Mux
	userService          service.UserServiceI
	activityTypesService service.ActivityTypesServiceI
	goalsService         service.GoalsServiceI
	routinesService      service.RoutinesServiceI
	trackingService      service.TrackingServiceI
	jwtService           JWTServiceI
}

type ServicesList struct {
	UserService          service.UserServiceI
	ActivityTypesService service.ActivityTypesServiceI
	GoalsService         service.GoalsServiceI
	RoutinesService      service.RoutinesServiceI
	TrackingService      service.TrackingServiceI
	JwtService           JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:                   chi.NewMux(),
		userService:          servicesOptions.UserService,
		activityTypesService: servicesOptions.ActivityTypesService,
		goalsService:         servicesOptions.GoalsService,
		routinesService:      servicesOptions.RoutinesService,
		trackingService:      servicesOptions.TrackingService,
		jwtService:           servicesOptions.JwtService,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)

	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)

			r.Delete("/account", s.DeleteAccount)

			r.Route("/activity-types", func(r chi.Router) {
				r.Get("/", s.ListActivityTypes)
				r.Post("/", s.CreateActivityType)
				r.Put("/{id}", s.UpdateActivityType)
				r.Delete("/{id}", s.DeleteActivityType)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Get("/", s.ListGoals)
				r.Post("/", s.CreateGoal)
				r.Get("/{id}", s.GetGoal)
				r.Put("/{id}", s.UpdateGoal)
				r.Delete("/{id}", s.DeleteGoal)
				r.Get("/{id}/prediction", s.PredictGoal)
			})
			r.Get("/predictions", s.PredictAllGoals)

			r.Route("/routines", func(r chi.Router) {
				r.Get("/", s.ListRoutines)
				r.Post("/", s.CreateRoutine)
				r.Get("/{id}", s.GetRoutine)
				r.Put("/{id}", s.RenameRoutine)
				r.Delete("/{id}", s.DeleteRoutine)
				r.Post("/{id}/activate", s.ActivateRoutine)
				r.Get("/{id}/breakdown", s.RoutineBreakdown)
				r.Post("/{id}/blocks", s.AddRoutineBlock)
				r.Put("/{id}/blocks/{blockID}", s.UpdateRoutineBlock)
				r.Delete("/{id}/blocks/{blockID}", s.DeleteRoutineBlock)
			})

			r.Route("/tracking", func(r chi.Router) {
				r.Post("/start", s.StartTracking)
				r.Post("/stop", s.StopTracking)
				r.Get("/current", s.CurrentTracking)
				r.Post("/entries", s.AddManualEntry)
				r.Get("/entries", s.ListTrackingEntries)
				r.Delete("/entries/{id}", s.DeleteTrackingEntry)
				r.Get("/breakdown", s.TrackedBreakdown)
			})
		})
	})
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.mx)
}

// Handler exposes the configured mux, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.mx
}
