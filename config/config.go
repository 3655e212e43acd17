package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	Port            string
	Timezone        string
	DBPath          string
	DBDebug         bool
	LogLevel        string
	LogFile         string
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// Load reads .env when present, then the environment.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("[cfg] no .env file loaded")
	}

	get := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
		return def
	}

	shutdown, err := time.ParseDuration(get("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil || shutdown <= 0 {
		logrus.WithField("value", os.Getenv("SHUTDOWN_TIMEOUT")).Warn("[cfg] invalid SHUTDOWN_TIMEOUT, using 10s")
		shutdown = 10 * time.Second
	}

	var origins []string
	for _, o := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return AppConfig{
		Port:            get("PORT", "5000"),
		Timezone:        get("TZ", "Asia/Kolkata"),
		DBPath:          get("DB_PATH", "farmhouse.db"),
		DBDebug:         get("DB_DEBUG", "false") == "true",
		LogLevel:        get("LOG_LEVEL", "info"),
		LogFile:         get("LOG_FILE", ""),
		ShutdownTimeout: shutdown,
		CORSOrigins:     origins,
	}
}

// Location resolves Timezone. The farm's "today" is computed in it, so an
// unknown zone degrades to UTC rather than failing startup.
func (c AppConfig) Location(log logrus.FieldLogger) *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.WithError(err).WithField("tz", c.Timezone).Warn("[cfg] unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}
