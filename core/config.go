package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type (
	Config struct {
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		WorkDir          string
		DefaultFromEmail mail.Address
		LogFormat        string // std | zap
		RollbarToken     string
		SendgridAPIKey   string
		StorageKey       string

		Storage  StorageConfig
		Database DatabaseConfig
		Server   ServerConfig
	}

	StorageConfig struct {
		Driver string // memory | file | postgres | sqlite
		Dir    string // file driver
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite
	}

	ServerConfig struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, dc.Port)
}

// NewConfig reads the configuration from the environment (prefixed with ENV, eg. DEV_DEBUG),
// optionally preloaded from config/.env.<env>.
func NewConfig() *Config {
	v := viper.New()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	wd := Getwd()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", env == "TEST")
	v.SetDefault("appName", "Autom8")
	v.SetDefault("build", "develop")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("logFormat", "std")
	v.SetDefault("storageKey", "autom8-store")
	v.SetDefault("storageDriver", StorageFile)
	v.SetDefault("storageDir", filepath.Join(wd, "data"))
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "autom8")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbUser", "autom8")
	v.SetDefault("dbPath", filepath.Join(wd, "data", "autom8.db"))
	v.SetDefault("serverHost", ":8000")
	v.SetDefault("serverDebugHost", ":8001")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)

	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		WorkDir:          wd,
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		LogFormat:        v.GetString("logFormat"),
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		StorageKey:       v.GetString("storageKey"),
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("storageDriver")),
			Dir:    v.GetString("storageDir"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Name:          v.GetString("dbName"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetString("dbPort"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			DisableTLS:    v.GetBool("dbDisableTls"),
			Path:          v.GetString("dbPath"),
		},
		Server: ServerConfig{
			Host:            v.GetString("serverHost"),
			DebugHost:       v.GetString("serverDebugHost"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
			DisableReqLogs:  v.GetBool("serverDisableReqLogs"),
		},
	}
}
