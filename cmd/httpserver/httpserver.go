// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/branch-bank/internal/accessguard"
	"github.com/go-petr/branch-bank/internal/accountdelivery"
	"github.com/go-petr/branch-bank/internal/accountrepo"
	"github.com/go-petr/branch-bank/internal/accountservice"
	"github.com/go-petr/branch-bank/internal/middleware"
	"github.com/go-petr/branch-bank/internal/sessiondelivery"
	"github.com/go-petr/branch-bank/internal/sessionrepo"
	"github.com/go-petr/branch-bank/internal/sessionservice"
	"github.com/go-petr/branch-bank/internal/transactiondelivery"
	"github.com/go-petr/branch-bank/internal/transactionrepo"
	"github.com/go-petr/branch-bank/internal/transactionservice"
	"github.com/go-petr/branch-bank/internal/userdelivery"
	"github.com/go-petr/branch-bank/internal/userrepo"
	"github.com/go-petr/branch-bank/internal/userservice"
	"github.com/go-petr/branch-bank/pkg/configpkg"
	"github.com/go-petr/branch-bank/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoMemory()

	tokenMaker, err := tokenpkg.New(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	userService := userservice.New(userRepo)
	accountService := accountservice.New(accountRepo)
	transactionService := transactionservice.New(transactionRepo, accountService)

	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker)
	if err != nil {
		return nil, fmt.Errorf("cannot initialize session service: %w", err)
	}

	userHandler := userdelivery.NewHandler(userService, sessionService)
	accountHandler := accountdelivery.NewHandler(accountService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)
	sessionHandler := sessiondelivery.NewHandler(sessionService)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("transactiontype", transactiondelivery.ValidTransactionType); err != nil {
			return nil, fmt.Errorf("cannot register transactiontype validator: %w", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))

	engine.POST("/users/login", userHandler.Login)

	authRoutes := engine.Group("/")
	authRoutes.Use(middleware.AuthMiddleware(sessionService))

	authRoutes.DELETE("/sessions", sessionHandler.Logout)

	authRoutes.POST("/users", middleware.RequireCapability(accessguard.EmployeeOnly), userHandler.Create)

	customerOnly := middleware.RequireCapability(accessguard.CustomerOnly)
	authRoutes.GET("/accounts", customerOnly, accountHandler.List)
	authRoutes.GET("/accounts/:number", customerOnly, accountHandler.Get)
	authRoutes.POST("/transactions", customerOnly, transactionHandler.Perform)

	authRoutes.GET("/transactions", middleware.RequireCapability(accessguard.AnyRole), transactionHandler.History)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
