package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/assohub/assohub-api/docs"
	v1 "github.com/assohub/assohub-api/internal/api/handler/v1"
	"github.com/assohub/assohub-api/internal/api/middleware"
	"github.com/assohub/assohub-api/internal/config"
	"github.com/assohub/assohub-api/internal/repository"
	"github.com/assohub/assohub-api/internal/repository/dao"
	"github.com/assohub/assohub-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authSvc := initAuthService(db)
	authHandler := v1.NewAuthHandler(s.Config.API, authSvc)
	profileHandler := v1.NewProfileHandler(authSvc)
	memberHandler := s.initMemberHandler(db, authSvc)
	feeHandler := s.initFeeHandler(db, authSvc)
	eventHandler := s.initEventHandler(db, authSvc)
	transactionHandler := s.initTransactionHandler(db, authSvc)
	dashboardHandler := s.initDashboardHandler(db, authSvc)

	s.MountHandlers(authHandler, profileHandler, memberHandler, feeHandler,
		eventHandler, transactionHandler, dashboardHandler)

	return s
}

func initAuthService(db *gorm.DB) *service.AuthService {
	accountRepo := repository.NewAccountRepository(dao.NewAccountDAO(db))

	return service.NewAuthService(accountRepo)
}

func (s *Server) initMemberHandler(db *gorm.DB, authSvc v1.AccountService) *v1.MemberHandler {
	repo := repository.NewMemberRepository(dao.NewMemberDAO(db))
	svc := service.NewMemberService(repo)

	return v1.NewMemberHandler(svc, authSvc)
}

func (s *Server) initFeeHandler(db *gorm.DB, authSvc v1.AccountService) *v1.FeeHandler {
	repo := repository.NewFeeRepository(dao.NewFeeDAO(db))
	memberRepo := repository.NewMemberRepository(dao.NewMemberDAO(db))
	svc := service.NewFeeService(repo, memberRepo)

	return v1.NewFeeHandler(svc, authSvc)
}

func (s *Server) initEventHandler(db *gorm.DB, authSvc v1.AccountService) *v1.EventHandler {
	repo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewEventService(repo)

	return v1.NewEventHandler(svc, authSvc)
}

func (s *Server) initTransactionHandler(db *gorm.DB, authSvc v1.AccountService) *v1.TransactionHandler {
	repo := repository.NewLedgerRepository(dao.NewTransactionDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewLedgerService(repo, eventRepo)

	return v1.NewTransactionHandler(svc, authSvc)
}

func (s *Server) initDashboardHandler(db *gorm.DB, authSvc v1.AccountService) *v1.DashboardHandler {
	memberRepo := repository.NewMemberRepository(dao.NewMemberDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	feeRepo := repository.NewFeeRepository(dao.NewFeeDAO(db))
	ledgerRepo := repository.NewLedgerRepository(dao.NewTransactionDAO(db))
	svc := service.NewDashboardService(memberRepo, eventRepo, feeRepo, ledgerRepo)

	return v1.NewDashboardHandler(svc, authSvc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	profileHandler *v1.ProfileHandler,
	memberHandler *v1.MemberHandler,
	feeHandler *v1.FeeHandler,
	eventHandler *v1.EventHandler,
	transactionHandler *v1.TransactionHandler,
	dashboardHandler *v1.DashboardHandler,
) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
	}

	// The event listing is public but personalizes itself for signed-in callers.
	events := s.Router.Group(basePath, authenticator.VerifyJWTOptional())
	{
		events.GET("/events", eventHandler.HandleListEvents)
		events.GET("/events/:eventID", eventHandler.HandleGetEvent)
	}

	authed := s.Router.Group(basePath, authenticator.VerifyJWT())
	{
		authed.GET("/profile", profileHandler.HandleGetProfile)
		authed.PUT("/profile", profileHandler.HandleUpdateProfile)
		authed.PUT("/profile/password", profileHandler.HandleChangePassword)

		authed.GET("/members", memberHandler.HandleListMembers)
		authed.POST("/members", memberHandler.HandleCreateMember)
		authed.PUT("/members/:memberID", memberHandler.HandleUpdateMember)
		authed.DELETE("/members/:memberID", memberHandler.HandleDeleteMember)
		authed.GET("/members/:memberID/fees", feeHandler.HandleMemberFees)

		authed.GET("/fees", feeHandler.HandleListFees)
		authed.POST("/fees", feeHandler.HandleCreateFee)

		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.PUT("/events/:eventID", eventHandler.HandleUpdateEvent)
		authed.DELETE("/events/:eventID", eventHandler.HandleDeleteEvent)
		authed.POST("/events/:eventID/participations", eventHandler.HandleRegisterParticipation)
		authed.PUT("/participations/:participationID", eventHandler.HandleUpdateParticipation)

		authed.GET("/transactions", transactionHandler.HandleListTransactions)
		authed.POST("/transactions", transactionHandler.HandleCreateTransaction)

		authed.GET("/dashboard", dashboardHandler.HandleDashboard)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "AssoHUB API"
	docs.SwaggerInfo.Description = "Membership management for small associations."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
