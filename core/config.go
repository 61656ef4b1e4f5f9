package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	DatabaseConfig struct {
		Path        string
		BusyTimeout time.Duration
	}

	ServerConfig struct {
		Address         string
		ShutdownTimeout time.Duration
		SessionMaxAge   time.Duration
		SecureCookies   bool
	}

	Config struct {
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		SecretKey    string
		RollbarToken string
		Database     DatabaseConfig
		Server       ServerConfig
	}
)

// NewConfig reads the configuration from the environment (and `config/.env.<env>` when it exists).
// ENV selects the environment (DEV by default) and is used as the variables prefix: DEV_DATABASE_PATH, ...
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("build", "develop")
	conf.SetDefault("debug", true)
	conf.SetDefault("testMode", false)
	conf.SetDefault("appName", "Schooldash")
	conf.SetDefault("secretKey", "wk2e#r8-0q^hx$s)i+7cb=d9!ntf%3@1uv*ly6o_zg5&mjpa4") // overridden outside DEV
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("database.path", "database.db")
	conf.SetDefault("database.busyTimeout", 5*time.Second)
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.sessionMaxAge", 12*time.Hour)
	conf.SetDefault("server.secureCookies", false)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	case "QA", "PROD":
		conf.SetDefault("debug", false)
		conf.SetDefault("server.secureCookies", true)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	wd, _ := os.Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		SecretKey:    conf.GetString("secretKey"),
		RollbarToken: conf.GetString("rollbarToken"),
		Database: DatabaseConfig{
			Path:        conf.GetString("database.path"),
			BusyTimeout: conf.GetDuration("database.busyTimeout"),
		},
		Server: ServerConfig{
			Address:         conf.GetString("server.address"),
			ShutdownTimeout: conf.GetDuration("server.shutdownTimeout"),
			SessionMaxAge:   conf.GetDuration("server.sessionMaxAge"),
			SecureCookies:   conf.GetBool("server.secureCookies"),
		},
	}
}
