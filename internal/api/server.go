package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/predictifylabs/predictify-api/docs"
	v1 "github.com/predictifylabs/predictify-api/internal/api/handler/v1"
	"github.com/predictifylabs/predictify-api/internal/api/middleware"
	"github.com/predictifylabs/predictify-api/internal/config"
	"github.com/predictifylabs/predictify-api/internal/pkg/gemini"
	"github.com/predictifylabs/predictify-api/internal/repository"
	"github.com/predictifylabs/predictify-api/internal/repository/dao"
	"github.com/predictifylabs/predictify-api/internal/service"
)

const textGeneratorBreaker = "gemini"

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	// Feed must be started with Run before predictions reach subscribers.
	Feed *v1.PredictionFeed
}

type handlers struct {
	auth         *v1.AuthHandler
	user         *v1.UserHandler
	event        *v1.EventHandler
	registration *v1.RegistrationHandler
	prediction   *v1.PredictionHandler
	ai           *v1.AIHandler
}

// NewServer wires every layer on top of db. Registration transitions go to publisher.
func NewServer(conf *config.AppConfig, db *gorm.DB, publisher service.RegistrationPublisher) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		Feed:   v1.NewPredictionFeed(),
	}

	s.MountMiddlewares()
	s.MountHandlers(s.initHandlers(db, publisher))

	return s
}

func (s *Server) initHandlers(db *gorm.DB, publisher service.RegistrationPublisher) handlers {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	registrationRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	predictionRepo := repository.NewPredictionRepository(dao.NewPredictionDAO(db))

	generator := gemini.NewBreakerGenerator(textGeneratorBreaker, gemini.NewClient(s.Config.Gemini))

	userSvc := service.NewUserService(userRepo)
	eventSvc := service.NewEventService(eventRepo)
	predictionSvc := service.NewPredictionService(predictionRepo, s.Feed)
	insightSvc := service.NewInsightService(eventRepo, predictionSvc, generator, s.Config.Gemini.Timeout)

	return handlers{
		auth:         v1.NewAuthHandler(s.Config.API, service.NewAuthService(userRepo)),
		user:         v1.NewUserHandler(userSvc),
		event:        v1.NewEventHandler(eventSvc, userSvc),
		registration: v1.NewRegistrationHandler(service.NewRegistrationService(registrationRepo, publisher), eventSvc),
		prediction:   v1.NewPredictionHandler(predictionSvc, insightSvc),
		ai:           v1.NewAIHandler(service.NewAIService(generator), s.Config.Gemini.Model),
	}
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	s.Router.Use(middleware.CountRequests())
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", h.auth.HandleSignup)
		auth.POST("/auth/login", h.auth.HandleLogin)
	}

	users := s.Router.Group(basePath, verifyJWT)
	{
		users.GET("/users/me", h.user.HandleGetCurrentUser)
		users.GET("/users/me/registrations", h.registration.HandleListMyRegistrations)
		users.GET("/users/:userID", h.user.HandleGetUser)
	}

	public := s.Router.Group(basePath)
	{
		public.GET("/events", h.event.HandleListEvents)
		public.GET("/events/:eventID", h.event.HandleGetEvent)
		public.GET("/predictions/events/:eventID", h.prediction.HandleGetPrediction)
		public.GET("/predictions/events/:eventID/insight", h.prediction.HandleGetInsight)
		public.GET("/predictions/events/:eventID/feed", s.Feed.HandleFeed)
	}

	events := s.Router.Group(basePath, verifyJWT)
	{
		events.POST("/events", h.event.HandleCreateEvent)
		events.POST("/events/:eventID/interest", h.event.HandleExpressInterest)
		events.PATCH("/events/:eventID/promotion", h.event.HandleUpdatePromotion)

		events.POST("/events/:eventID/register", h.registration.HandleRegister)
		events.DELETE("/events/:eventID/register", h.registration.HandleCancelRegistration)
		events.GET("/events/:eventID/registration", h.registration.HandleGetRegistration)
		events.GET("/events/:eventID/registered", h.registration.HandleIsRegistered)
		events.GET("/events/:eventID/registrations", h.registration.HandleListEventRegistrations)
		events.POST("/events/:eventID/registrations/:userID/attendance", h.registration.HandleMarkAttendance)
	}

	predictions := s.Router.Group(basePath, verifyJWT)
	{
		predictions.POST("/predictions/events/:eventID/generate", h.prediction.HandleGeneratePrediction)
	}

	ai := s.Router.Group(basePath, verifyJWT)
	{
		ai.POST("/ai/generate", h.ai.HandleGenerateText)
		ai.POST("/ai/generate/event-description", h.ai.HandleGenerateEventDescription)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Predictify API"
	docs.SwaggerInfo.Description = "Event registration and attendance prediction API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
