// Package main is the entry point for the NoAdsHere Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/internal/commands"
	"github.com/PancyStudios/NoAdsHereGo/internal/events"
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/config"
	"github.com/PancyStudios/NoAdsHereGo/pkg/database"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/PancyStudios/NoAdsHereGo/pkg/errors"
	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/PancyStudios/NoAdsHereGo/pkg/mqtt"
	"github.com/PancyStudios/NoAdsHereGo/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()
	log.SetLevel(logger.ParseLevel(cfg.LogLevel))

	logger.System(fmt.Sprintf("Iniciando NoAdsHere Go %s (%s)...", config.Version, config.BuildTime), "Main")

	// Initialize error handler
	var (
		discordClient *discord.ExtendedClient
		svc           *moderation.Service
	)
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			_ = discordClient.Stop()
		}
		if svc != nil {
			svc.Stop()
		}
	})
	defer errors.Get().Stop()

	// Initialize storage
	store, storage, closeStore := openStore(cfg)
	defer closeStore()

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Initialize MQTT, moderation events are only published when a broker is configured
	var sink moderation.EventSink
	var mqttClient *mqtt.MqttCommunicator
	if cfg.MQTTEnabled() {
		clientID := "noadshere"
		if !cfg.IsProd() {
			clientID = "noadshere_canary"
		}
		mqttClient = mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, clientID)
		defer mqttClient.Destroy()
		sink = mqtt.NewEventPublisher(mqttClient)
	} else {
		logger.Warn("MQTT no configurado, los eventos de moderación no se publicarán", "Main")
	}

	// Moderation service
	svc = moderation.NewService(moderation.Config{
		Store:    store,
		Platform: discord.NewPlatform(discordClient.Session),
		Events:   sink,
		Masters:  cfg.Masters,
		Dispatcher: moderation.DispatcherOptions{
			Workers:   cfg.Workers,
			QueueSize: cfg.QueueSize,
			Timeout:   cfg.MessageTimeout,
		},
	})
	svc.Start(context.Background())

	if mqttClient != nil {
		mqttClient.On("guild.rules", mqtt.RulesHandler(svc))
		mqttClient.On("guild.violator", mqtt.ViolatorHandler(svc))
	}

	commands.RegisterAll(discordClient, svc, storage)
	events.RegisterAll(discordClient, svc)

	// Initialize web server
	webServer := web.NewServer(discordClient, storage, svc, web.Options{
		WebhookURL: cfg.LogsWebServerHook,
	})
	webServer.StartAsync(cfg.Port)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}

	logger.Success("NoAdsHere Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando NoAdsHere Go...", "Main")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := webServer.Shutdown(ctx); err != nil {
		logger.Warn(fmt.Sprintf("Error apagando el servidor web: %v", err), "Main")
	}

	// Stop the gateway first so no new messages reach the dispatcher
	if err := discordClient.Stop(); err != nil {
		logger.Warn(fmt.Sprintf("Error cerrando la sesión de Discord: %v", err), "Main")
	}
	svc.Stop()
}

// openStore selects the persistence backend from the configuration
func openStore(cfg *config.Config) (moderation.Store, web.StorageStatus, func()) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Usando almacenamiento en memoria, los datos se perderán al reiniciar", "Main")
		store := database.NewMemoryStore()
		return store, store, func() {}
	}

	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		// The reconnect loop keeps trying in the background
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
	}

	store := database.NewMongoStore(db)
	return store, db, func() {
		if err := db.Disconnect(); err != nil {
			logger.Warn(fmt.Sprintf("Error cerrando la base de datos: %v", err), "Main")
		}
	}
}
