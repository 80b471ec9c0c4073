package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"time"

	config "github.com/kurogitsune/gamesofni/configs"
	"github.com/kurogitsune/gamesofni/internal/db"
	"github.com/kurogitsune/gamesofni/internal/gamesvc/broker"
	svcconfig "github.com/kurogitsune/gamesofni/internal/gamesvc/config"
	pgdb "github.com/kurogitsune/gamesofni/internal/gamesvc/db"
	"github.com/kurogitsune/gamesofni/internal/gamesvc/service"
	"github.com/kurogitsune/gamesofni/internal/gamesvc/store"
	nats "github.com/kurogitsune/gamesofni/internal/nats"
	"github.com/kurogitsune/gamesofni/internal/notify"
	"github.com/kurogitsune/gamesofni/internal/vcg"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "sweep"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := svcconfig.Load()
	render := vcg.RenderConfig{Debug: cfg.RenderDebug}

	// mongo connection
	mongoDB, cancelMongo, err := db.ConnectToDB()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer cancelMongo()
	log.Printf("mongo connection established successfully")

	// pg connection
	dbpool, err := pgdb.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgdb.ClosePool()
	log.Printf("pg connection established successfully")

	// Connect to NATS
	n, err := nats.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}
	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	gameStore := store.NewGameStore(mongoDB)
	archiveStore := store.NewArchiveStore(mongoDB)
	oauthStore := store.NewOAuthStore(dbpool)

	sweep := service.NewSweepService(
		gameStore,
		archiveStore,
		oauthStore,
		notify.NewWebhookNotifier(),
		broker.NewBroker(n.Conn),
		render,
	)

	interval := 60 * time.Second
	if intervalStr := os.Getenv("SWEEP_INTERVAL_SECONDS"); intervalStr != "" {
		seconds, err := strconv.Atoi(intervalStr)
		if err != nil {
			log.Fatalf("Invalid SWEEP_INTERVAL_SECONDS value: %v", err)
		}
		interval = time.Duration(seconds) * time.Second
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Infof("%s service running, sweeping every %s", SERVICE_NAME, interval)

	runSweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		settled, err := sweep.Sweep(ctx, time.Now().Unix())
		if err != nil {
			log.Errorf("sweep failed: %s", err)
			return
		}
		if settled > 0 {
			log.Infof("settled %d games", settled)
		}
	}

	runSweep()

	for {
		select {
		case <-stop:
			log.Infof("%s service gracefully stopped", SERVICE_NAME)
			return
		case <-ticker.C:
			runSweep()
		}
	}
}
