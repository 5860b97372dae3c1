package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/harborbank/ledger-service/internal/command"
	"github.com/harborbank/ledger-service/internal/config"
	"github.com/harborbank/ledger-service/internal/events"
	"github.com/harborbank/ledger-service/internal/handler"
	"github.com/harborbank/ledger-service/internal/ledger"
	"github.com/harborbank/ledger-service/internal/middleware"
	"github.com/harborbank/ledger-service/internal/query"
	redisClient "github.com/harborbank/ledger-service/internal/redis"
	"github.com/harborbank/ledger-service/internal/repository"
)

func main() {
	cfg := config.Load()

	// Database connection (write store, source of truth)
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Redis connection (read model store + event streaming)
	redis, err := redisClient.NewClient(cfg.RedisAddr, "", cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	publisher := events.NewPublisher(redis.Client)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	accountWriteRepo := repository.NewAccountWriteRepository(db)
	accountReadRepo := repository.NewAccountReadRepository(db, redis.Client)
	transactionReadRepo := repository.NewTransactionReadRepository(db, redis.Client)

	// Ledger engine over the transactional Postgres store
	engine := ledger.NewEngine(repository.NewLedgerStore(db))

	// Command + Query services
	userCmd := command.NewUserCommandService(userRepo, publisher)
	accountCmd := command.NewAccountCommandService(accountWriteRepo, accountReadRepo, publisher)
	transactionCmd := command.NewTransactionCommandService(engine, accountWriteRepo, accountReadRepo, transactionReadRepo, publisher)

	userQry := query.NewUserQueryService(userRepo)
	authQry := query.NewAuthQueryService(userRepo)
	accountQry := query.NewAccountQueryService(accountReadRepo)
	transactionQry := query.NewTransactionQueryService(transactionReadRepo, accountReadRepo)

	userHandler := handler.NewUserHandler(userCmd, userQry)
	authHandler := handler.NewAuthHandler(authQry)
	accountHandler := handler.NewAccountHandler(accountCmd, accountQry)
	transactionHandler := handler.NewTransactionHandler(transactionCmd, transactionQry)

	// Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.POST("/v1/users", userHandler.CreateUser)
	router.POST("/v1/auth/login", authHandler.Login)
	router.POST("/v1/auth/refresh", authHandler.RefreshToken)

	authed := router.Group("/v1", middleware.AuthMiddleware())
	{
		authed.GET("/users/:userId", userHandler.GetUser)

		authed.POST("/accounts", accountHandler.CreateAccount)
		authed.GET("/accounts", accountHandler.ListAccounts)
		authed.GET("/accounts/:accountId", accountHandler.GetAccount)

		authed.POST("/accounts/:accountId/transactions", transactionHandler.PostTransaction)
		authed.GET("/accounts/:accountId/transactions", transactionHandler.ListTransactions)
		authed.GET("/accounts/:accountId/transactions/:transactionId", transactionHandler.GetTransaction)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Read model refresh: keep the account view cache warm after postings,
	// including postings committed by other instances.
	go func() {
		subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
			Group:    "ledger-service-group",
			Consumer: "ledger-consumer-1",
			Stream:   events.TransactionEventsStream,
			Handler:  accountCmd.HandleTransactionEvent,
		})
		if err := subscriber.Start(ctx); err != nil {
			log.Printf("Subscriber stopped: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Ledger service starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	log.Println("Ledger service stopped")
}
