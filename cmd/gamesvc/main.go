package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/kurogitsune/gamesofni/configs"
	"github.com/kurogitsune/gamesofni/internal/comm"
	"github.com/kurogitsune/gamesofni/internal/db"
	"github.com/kurogitsune/gamesofni/internal/gamesvc/broker"
	svcconfig "github.com/kurogitsune/gamesofni/internal/gamesvc/config"
	pgdb "github.com/kurogitsune/gamesofni/internal/gamesvc/db"
	handlers "github.com/kurogitsune/gamesofni/internal/gamesvc/handlers"
	"github.com/kurogitsune/gamesofni/internal/gamesvc/service"
	"github.com/kurogitsune/gamesofni/internal/gamesvc/store"
	nats "github.com/kurogitsune/gamesofni/internal/nats"
	"github.com/kurogitsune/gamesofni/internal/vcg"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "game"

var instanceId string

func init() {
	instanceId = "001"
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := svcconfig.Load()
	render := vcg.RenderConfig{Debug: cfg.RenderDebug}

	// mongo connection, active and completed game documents
	mongoDB, cancelMongo, err := db.ConnectToDB()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer cancelMongo()
	db.EnsureGameIndexes(mongoDB)
	log.Printf("mongo connection established successfully")

	// pg connection, team settings and oauth credentials
	dbpool, err := pgdb.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgdb.ClosePool()
	if err := pgdb.EnsureSchema(context.Background(), dbpool); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	log.Printf("pg connection established successfully")

	gameStore := store.NewGameStore(mongoDB)
	settingsStore := store.NewSettingsStore(dbpool)
	oauthStore := store.NewOAuthStore(dbpool)

	gameService := service.NewGameService(gameStore, settingsStore, render)
	oauthService := service.NewOAuthService(oauthStore, settingsStore,
		cfg.SlackClientID, cfg.SlackClientSecret)

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}

	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	// Init handlers and routes
	h := handlers.NewHandler(cfg, gameService, oauthService)
	h.InitAuth()

	// relay settlement notices to websocket feed clients
	b := broker.NewBroker(n.Conn)
	sub, err := b.SubscribeSettlements(func(notice comm.SettlementNotice) {
		data, err := json.Marshal(notice)
		if err != nil {
			log.Errorf("unable to marshal settlement notice: %s", err)
			return
		}
		h.Feed.Broadcast(comm.FeedMessage{Type: "settlement", Data: data})
	})
	if err != nil {
		log.Errorf("Error: unable to subscribe to settlements %v", err)
		os.Exit(0)
	}

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("GAME_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	sub.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
