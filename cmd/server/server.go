package server

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/thereayou/streamhub/internal/database"
	"github.com/thereayou/streamhub/internal/handlers"
	"github.com/thereayou/streamhub/internal/live"
	ws "github.com/thereayou/streamhub/internal/websocket"
	"github.com/thereayou/streamhub/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Registry   ws.Registry
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(
		os.Getenv("JWT_SECRET"),
		24*time.Hour,
	)

	provider := live.NewClient(
		os.Getenv("STREAM_API_TOKEN"),
		os.Getenv("STREAM_ACCOUNT_ID"),
	)

	// Один инстанс обслуживается in-memory хабом; CHAT_BUS=redis
	// включает pub/sub мост для горизонтального масштабирования
	hub := ws.NewHub()
	var registry ws.Registry = hub
	if os.Getenv("CHAT_BUS") == "redis" {
		bridge := ws.NewRedisBridge(hub, rdb)
		go func() {
			if err := bridge.Run(context.Background()); err != nil && err != context.Canceled {
				log.Printf("Chat bus stopped: %v", err)
			}
		}()
		registry = bridge
	}

	authH := handlers.NewAuthHandler(dbConn, jwtMgr, rdb, provider)
	streamH := handlers.NewStreamHandler(dbConn, provider)
	profileH := handlers.NewProfileHandler(dbConn)
	banH := handlers.NewBanHandler(dbConn)
	chatH := handlers.NewChatHandler(dbConn, registry, ws.NewGate(dbConn))

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, authH, streamH, profileH, banH, chatH)

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Registry:   registry,
	}
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
