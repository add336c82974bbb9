package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	dbConfig struct {
		Engine     string // postgres | memory
		Host       string
		Port       int
		User       string
		Password   string
		Name       string
		DisableTLS bool
	}

	serverConfig struct {
		Address         string
		SessionTTL      time.Duration
		ShutdownTimeout time.Duration
	}

	redisConfig struct {
		Address  string
		Password string
		DB       int
	}

	emailConfig struct {
		Backend     string // console | smtp | sendgrid
		SMTPHost    string
		SMTPPort    int
		User        string
		Password    string
		DefaultFrom string
		Admin       string
		SendgridKey string
	}

	messagingConfig struct {
		Backend          string // console | twilio
		TwilioAccountSID string
		TwilioAuthToken  string
		From             string
		AdminTo          string
	}

	rabbitConfig struct {
		URL   string
		Queue string
	}

	Config struct {
		Env           string
		Debug         bool
		TestMode      bool
		AppName       string
		Build         string
		SecretKey     string
		RollbarToken  string
		NotifyTimeout time.Duration

		Server    serverConfig
		Database  dbConfig
		Redis     redisConfig
		Email     emailConfig
		Messaging messagingConfig
		RabbitMQ  rabbitConfig
	}
)

// NewConfig loads the configuration from the environment.
// `config/.env.<env>` is loaded first when it exists; env vars are prefixed by the env name, eg: DEV_DATABASE_HOST.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Home Tuition Portal")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "t7u!t1on-p0rt@l-dev-secret-change-me-in-prod")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("notifyTimeout", 15*time.Second)

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.sessionTTL", 24*time.Hour)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "tuition_db")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("email.backend", "console")
	v.SetDefault("email.smtpHost", "smtp.gmail.com")
	v.SetDefault("email.smtpPort", 465)
	v.SetDefault("email.user", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.defaultFrom", "noreply@localhost")
	v.SetDefault("email.admin", "admin@localhost")
	v.SetDefault("sendgrid.apiKey", "")

	v.SetDefault("messaging.backend", "console")
	v.SetDefault("twilio.accountSID", "")
	v.SetDefault("twilio.authToken", "")
	v.SetDefault("twilio.from", "whatsapp:+14155238886")
	v.SetDefault("messaging.adminTo", "")

	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.queue", "tuition_inquiries")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:           env,
		Debug:         v.GetBool("debug"),
		TestMode:      v.GetBool("testMode"),
		AppName:       v.GetString("appName"),
		Build:         v.GetString("build"),
		SecretKey:     v.GetString("secretKey"),
		RollbarToken:  v.GetString("rollbarToken"),
		NotifyTimeout: v.GetDuration("notifyTimeout"),
		Server: serverConfig{
			Address:         v.GetString("server.address"),
			SessionTTL:      v.GetDuration("server.sessionTTL"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: dbConfig{
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetInt("database.port"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			Name:       v.GetString("database.name"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Redis: redisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Email: emailConfig{
			Backend:     v.GetString("email.backend"),
			SMTPHost:    v.GetString("email.smtpHost"),
			SMTPPort:    v.GetInt("email.smtpPort"),
			User:        v.GetString("email.user"),
			Password:    v.GetString("email.password"),
			DefaultFrom: v.GetString("email.defaultFrom"),
			Admin:       v.GetString("email.admin"),
			SendgridKey: v.GetString("sendgrid.apiKey"),
		},
		Messaging: messagingConfig{
			Backend:          v.GetString("messaging.backend"),
			TwilioAccountSID: v.GetString("twilio.accountSID"),
			TwilioAuthToken:  v.GetString("twilio.authToken"),
			From:             v.GetString("twilio.from"),
			AdminTo:          v.GetString("messaging.adminTo"),
		},
		RabbitMQ: rabbitConfig{
			URL:   v.GetString("rabbitmq.url"),
			Queue: v.GetString("rabbitmq.queue"),
		},
	}
}

// NewTestConfig returns a Config suitable for tests: in-memory storage, console services, no env lookups.
func NewTestConfig() *Config {
	return &Config{
		Env:           "TEST",
		TestMode:      true,
		AppName:       "Home Tuition Portal",
		Build:         "test",
		SecretKey:     "secret",
		NotifyTimeout: time.Second,
		Server:        serverConfig{SessionTTL: time.Hour, ShutdownTimeout: time.Second},
		Database:      dbConfig{Engine: "memory"},
		Email: emailConfig{
			Backend:     "console",
			DefaultFrom: "noreply@test.local",
			Admin:       "admin@test.local",
		},
		Messaging: messagingConfig{
			Backend: "console",
			From:    "whatsapp:+14155238886",
			AdminTo: "whatsapp:+910000000000",
		},
	}
}

func (c dbConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c emailConfig) SMTPAddress() string {
	return net.JoinHostPort(c.SMTPHost, strconv.Itoa(c.SMTPPort))
}

func (c emailConfig) DefaultFromAddress(appName string) mail.Address {
	return mail.Address{Name: appName, Address: c.DefaultFrom}
}

func (c emailConfig) AdminAddress() mail.Address {
	return mail.Address{Address: c.Admin}
}

func (c *Config) String() string {
	return fmt.Sprintf("%s (%s) env=%s debug=%t db=%s email=%s messaging=%s",
		c.AppName, c.Build, c.Env, c.Debug, c.Database.Engine, c.Email.Backend, c.Messaging.Backend)
}
