package config

import (
	"time"

	"github.com/spf13/viper"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	AuthSecret string
	TokenTTL   time.Duration

	CORSOrigins []string

	LogLevel string
	LogFile  string
}

// FromViper reads the merged flag/env/file view. Defaults live on the serve
// command's flags; EXAMPORTAL_* env vars override them.
func FromViper(v *viper.Viper) Config {
	mode := Mode(v.GetString("mode"))
	if mode != ModeOnline {
		mode = ModeOffline
	}
	origins := v.GetStringSlice("cors-origins")
	if len(origins) == 0 {
		if mode == ModeOnline {
			origins = []string{"https://examportal.example.com"}
		} else {
			origins = []string{"http://localhost:3000"}
		}
	}
	return Config{
		Mode:        mode,
		HTTPAddr:    v.GetString("addr"),
		DBDriver:    v.GetString("db-driver"),
		DBDSN:       v.GetString("db-dsn"),
		AuthSecret:  v.GetString("auth-secret"),
		TokenTTL:    v.GetDuration("token-ttl"),
		CORSOrigins: origins,
		LogLevel:    v.GetString("log-level"),
		LogFile:     v.GetString("log-file"),
	}
}
