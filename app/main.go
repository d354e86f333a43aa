package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ogcamping/console/internal/blogservice"
	"github.com/ogcamping/console/internal/cartservice"
	"github.com/ogcamping/console/internal/chatservice"
	"github.com/ogcamping/console/internal/common"
	"github.com/ogcamping/console/internal/mailservice"
	"github.com/ogcamping/console/internal/metrics"
	"github.com/ogcamping/console/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	sessions    *userservice.SessionService
	hub         *blogservice.Hub
	public      *blogservice.PublicReader
	carts       *cartservice.CartService
	chat        *chatservice.ChatService
	store       *common.LocalStore
	mailService *mailservice.MailService
	broker      *common.MessageBroker
}

func main() {
	logger := common.NewLogger(false, os.Stdout)

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = common.NewLogger(cfg.LogDebug, os.Stdout)

	db, err := common.NewDB(common.DBConfig{
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		User:         cfg.DBUser,
		Password:     cfg.DBPassword,
		Name:         cfg.DBName,
		SSLMode:      cfg.DBSSLMode,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		MaxIdleTime:  15 * time.Minute,
	})
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
	broker, err := common.NewMessageBroker(URI)
	if err != nil {
		logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer broker.Close()

	err = common.SetupBlogExchange(broker)
	if err != nil {
		logger.Error("failed to setup the blog exchange", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisClient := common.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()
	store := common.NewLocalStore(redisClient, cfg.LocalStoreTTL)

	cache := common.NewCache(cfg.CacheTTL, 2*cfg.CacheTTL)
	client := blogservice.NewClient(cfg.BackendURL, cfg.BackendTimeout, cache)

	hub := blogservice.NewHub(client, blogservice.HubConfig{
		AMQPURI:        URI,
		ActionTimeout:  cfg.ActionTimeout,
		ReconnectDelay: cfg.ReconnectDelay,
	}, logger)

	var completer chatservice.Completer
	if c := chatservice.NewOpenAIClient(cfg.OpenAIToken, cfg.OpenAIBaseURL); c != nil {
		completer = c
	}

	metrics.Register()

	app := &application{
		config:      cfg,
		logger:      logger,
		sessions:    userservice.NewSessionService(db, cache),
		hub:         hub,
		public:      blogservice.NewPublicReader(client, blogservice.NewRenderer(cfg.AssetBaseURL)),
		carts:       cartservice.NewCartService(store),
		chat:        chatservice.NewChatService(completer, store, cfg.OpenAIModel, cfg.ChatTimeout),
		store:       store,
		broker:      broker,
		mailService: mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailPort, cfg.SiteURL, logger),
	}

	go app.mailService.SendReviewEmails()
	go app.sweepSessions(time.Hour)

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// sweepSessions deletes expired console sessions every interval.
func (app *application) sweepSessions(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		n, err := app.sessions.DeleteExpired(ctx)
		cancel()

		if err != nil {
			app.logger.Error("failed to delete expired sessions", slog.String("error", err.Error()))
			continue
		}
		app.logger.Debug("expired sessions deleted", slog.Int64("count", n))
	}
}
