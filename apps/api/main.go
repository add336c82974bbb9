package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	echoapi "github.com/hometuition/portal/apps/api/echo"
	"github.com/hometuition/portal/core"
	"github.com/hometuition/portal/core/session"
	"github.com/hometuition/portal/core/tuition"
	"github.com/hometuition/portal/core/user"
	emailsvc "github.com/hometuition/portal/services/email"
	logsvc "github.com/hometuition/portal/services/logger"
	msgsvc "github.com/hometuition/portal/services/messaging"
	"github.com/hometuition/portal/services/notify"
	"github.com/hometuition/portal/storage/database"
	inmemdb "github.com/hometuition/portal/storage/database/inmem"
	sqlxrepos "github.com/hometuition/portal/storage/database/sqlx"
	inmemstore "github.com/hometuition/portal/storage/sessions/inmem"
	redisstore "github.com/hometuition/portal/storage/sessions/redis"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	notifyLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "NOTIFY : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	logger.Info(fmt.Sprintf("Application initializing : %s", conf))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	tuition.InitValidators(validate, translator)

	// set up metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// set up DB & repos
	var (
		db          core.DB
		usrRepo     user.Repository
		tuitionRepo tuition.Repository
	)
	switch conf.Database.Engine {
	case "memory":
		memDB := inmemdb.NewDB()
		usrRepo = inmemdb.NewUserRepository(memDB)
		tuitionRepo = inmemdb.NewTuitionRepository(memDB)
	default:
		sqlDB, err := database.Open(context.Background(), conf)
		if err != nil {
			dbLogger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err = sqlDB.Close(); err != nil {
				dbLogger.Error("Failed to close", err)
			}
		}()
		if err = database.Migrate(context.Background(), sqlDB, "up"); err != nil {
			dbLogger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
		}
		db = sqlDB
		usrRepo = sqlxrepos.NewUserRepository(sqlDB)
		tuitionRepo = sqlxrepos.NewTuitionRepository(sqlDB)
	}

	// set up sessions
	var sessStore session.Store
	if conf.Redis.Address != "" {
		client := redisstore.NewClient(conf)
		defer func() { _ = client.Close() }()
		sessStore = redisstore.NewStore(client)
	} else {
		sessStore = inmemstore.NewStore()
	}
	sessions := session.NewManager(sessStore, conf.Server.SessionTTL)

	// set up notifications
	channels := []core.NotificationChannel{
		notify.NewEmailChannel(newEmailService(conf, notifyLogger), conf.Email.DefaultFromAddress(conf.AppName), conf.Email.AdminAddress()),
		notify.NewMessagingChannel(newMessagingService(conf), conf.Messaging.AdminTo),
	}
	if conf.RabbitMQ.URL != "" {
		pub, err := msgsvc.NewRabbitMQPublisher(conf.RabbitMQ.URL, conf.RabbitMQ.Queue)
		if err != nil {
			notifyLogger.Fatal(fmt.Sprintf("setting up rabbitmq: %v", err), err)
		}
		defer func() { _ = pub.Close() }()
		channels = append(channels, notify.NewQueueChannel(pub))
	}
	dispatcher := notify.NewDispatcher(notifyLogger, notify.NewMetrics(registry), conf.NotifyTimeout, channels...)
	defer dispatcher.Wait()

	// set up services
	usrSvc := user.NewService(usrRepo, validate)
	tuitionSvc := tuition.NewService(tuitionRepo, dispatcher, validate)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UserSvc:    usrSvc,
			TuitionSvc: tuitionSvc,
			Sessions:   sessions,
			Validate:   validate,
			Translator: translator,
			DB:         db,
			Registry:   registry,
			Gatherer:   registry,
		},
	)

	go func() {
		logger.Info(fmt.Sprintf("API listening on %s", conf.Server.Address))
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newEmailService(conf *core.Config, logger *logsvc.RollbarLogger) core.EmailService {
	switch conf.Email.Backend {
	case "smtp":
		return emailsvc.NewSMTPService(conf)
	case "sendgrid":
		return emailsvc.NewSendgridService(conf)
	default:
		logger.Info("emails are printed to the console")
		return emailsvc.NewConsoleService(conf, log.New(os.Stdout, "EMAIL : ", log.LstdFlags))
	}
}

func newMessagingService(conf *core.Config) core.MessagingService {
	switch conf.Messaging.Backend {
	case "twilio":
		return msgsvc.NewTwilioService(conf)
	default:
		return msgsvc.NewConsoleService(conf, log.New(os.Stdout, "WHATSAPP : ", log.LstdFlags))
	}
}
