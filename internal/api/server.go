package api

import (
	"context"
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vietanh2810/greenspark-api/docs"
	v1 "github.com/vietanh2810/greenspark-api/internal/api/handler/v1"
	"github.com/vietanh2810/greenspark-api/internal/api/middleware"
	"github.com/vietanh2810/greenspark-api/internal/config"
	"github.com/vietanh2810/greenspark-api/internal/domain"
	"github.com/vietanh2810/greenspark-api/internal/repository"
	"github.com/vietanh2810/greenspark-api/internal/repository/dao"
	"github.com/vietanh2810/greenspark-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
	// Auth is exposed for the session purge job.
	Auth *service.AuthService

	redis *redis.Client
}

type handlers struct {
	auth          *v1.AuthHandler
	campaign      *v1.CampaignHandler
	participation *v1.ParticipationHandler
	user          *v1.UserHandler
	organization  *v1.OrganizationHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	sessions, err := s.initSessionStore(db)
	if err != nil {
		return nil, err
	}

	s.Auth, err = service.NewAuthService(
		repository.NewUserRepository(dao.NewUserDAO(db)),
		repository.NewOrganizationRepository(dao.NewOrganizationDAO(db)),
		sessions,
		service.AuthConfig{
			SigningKey: []byte(conf.API.JWTSigningKey),
			SessionTTL: conf.Session.TTL,
			BcryptCost: bcrypt.DefaultCost,
		},
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("service.NewAuthService -> %w", err)
	}

	s.MountMiddlewares()
	s.MountHandlers(handlers{
		auth:          v1.NewAuthHandler(s.Auth),
		campaign:      s.initCampaignHandler(db),
		participation: s.initParticipationHandler(db),
		user:          s.initUserHandler(db),
		organization:  s.initOrganizationHandler(db),
	})

	return s, nil
}

func (s *Server) initSessionStore(db *gorm.DB) (service.SessionStore, error) {
	if s.Config.Session.Store != config.SessionStoreRedis {
		return repository.NewSessionRepository(dao.NewSessionDAO(db)), nil
	}

	s.redis = redis.NewClient(&redis.Options{
		Addr:     s.Config.Redis.Addr,
		Password: s.Config.Redis.Password,
		DB:       s.Config.Redis.DB,
	})
	if err := s.redis.Ping(context.Background()).Err(); err != nil {
		s.Close()
		return nil, fmt.Errorf("redis.Ping -> %w", err)
	}

	return repository.NewRedisSessionRepository(s.redis), nil
}

func (s *Server) initCampaignHandler(db *gorm.DB) *v1.CampaignHandler {
	repo := repository.NewCampaignRepository(dao.NewCampaignDAO(db))
	svc := service.NewCampaignService(repo, s.Config.Campaign.PageSize)
	handler := v1.NewCampaignHandler(svc)

	return handler
}

func (s *Server) initParticipationHandler(db *gorm.DB) *v1.ParticipationHandler {
	repo := repository.NewParticipationRepository(dao.NewParticipationDAO(db))
	svc := service.NewParticipationService(repo)
	handler := v1.NewParticipationHandler(svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	repo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initOrganizationHandler(db *gorm.DB) *v1.OrganizationHandler {
	repo := repository.NewOrganizationRepository(dao.NewOrganizationDAO(db))
	svc := service.NewOrganizationService(repo)
	handler := v1.NewOrganizationHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	auth := middleware.NewAuthenticator(s.Auth)
	requireUser := auth.Require(domain.PrincipalUser)
	requireOrganization := auth.Require(domain.PrincipalOrganization)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/users/signup", h.auth.HandleUserSignup)
		public.POST("/auth/users/login", h.auth.HandleUserLogin)
		public.POST("/auth/organizations/signup", h.auth.HandleOrganizationSignup)
		public.POST("/auth/organizations/login", h.auth.HandleOrganizationLogin)
		public.GET("/leaderboard", h.user.HandleLeaderboard)
	}

	browse := s.Router.Group(basePath, auth.Optional())
	{
		browse.GET("/campaigns", h.campaign.HandleListCampaigns)
		browse.GET("/campaigns/:campaignID", h.campaign.HandleGetCampaign)
	}

	users := s.Router.Group(basePath, requireUser)
	{
		users.POST("/auth/users/logout", h.auth.HandleUserLogout)
		users.POST("/campaigns/:campaignID/join", h.participation.HandleJoin)
		users.POST("/campaigns/:campaignID/complete", h.participation.HandleComplete)
		users.GET("/users/me/dashboard", h.user.HandleDashboard)
		users.GET("/users/me/activities", h.user.HandleActivities)
	}

	organizations := s.Router.Group(basePath, requireOrganization)
	{
		organizations.POST("/auth/organizations/logout", h.auth.HandleOrganizationLogout)
		organizations.POST("/campaigns", h.campaign.HandleCreateCampaign)
		organizations.GET("/campaigns/:campaignID/volunteers", h.campaign.HandleGetRoster)
		organizations.POST("/campaigns/:campaignID/volunteers/:userID/verify", h.participation.HandleVerify)
		organizations.GET("/organizations/me/dashboard", h.organization.HandleDashboard)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "GreenSpark API"
	docs.SwaggerInfo.Description = "Volunteer campaigns, eco points and badges."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}

// Close releases the connections the server opened itself.
func (s *Server) Close() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
}
