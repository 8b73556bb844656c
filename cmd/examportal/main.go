package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	api "github.com/examportal/examportal/internal/api/http"
	"github.com/examportal/examportal/internal/auth"
	"github.com/examportal/examportal/internal/config"
	"github.com/examportal/examportal/internal/db"
	"github.com/examportal/examportal/internal/eventlog"
	"github.com/examportal/examportal/internal/exam"
	"github.com/examportal/examportal/internal/user"
	"github.com/examportal/examportal/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "examportal",
		Short: "Online exam management server",
	}

	serve := serveCmd()
	root.AddCommand(serve)

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("mode", "offline", "Deployment mode (offline, online)")
	f.String("db-driver", "sqlite", "Database driver (sqlite, postgres)")
	f.String("db-dsn", "", "Database DSN (driver default when empty)")
	f.String("auth-secret", "", "HMAC secret for access tokens (required)")
	f.Duration("token-ttl", 8*time.Hour, "Access token lifetime")
	f.StringSlice("cors-origins", nil, "Allowed CORS origins (mode default when empty)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-file", "", "Log file path (console only when empty)")
	return cmd
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("EXAMPORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("examportal")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/examportal")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			cmd.PrintErrf("error reading config file: %v\n", err)
		}
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.FromViper(viperForCmd(cmd))

	log := logger.Init(cfg.LogLevel, cfg.LogFile)
	defer log.Sync()

	secret := cfg.AuthSecret
	if secret == "" {
		secret = "supersecret-dev-key"
		log.Warn("auth secret not set, using the dev default")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return err
	}
	defer dbh.Close()

	deps := api.Deps{
		Users:  user.NewSQLStore(dbh),
		Exams:  exam.NewSQLStore(dbh, cfg.DBDriver),
		Auth:   auth.NewService(secret, cfg.TokenTTL),
		Events: eventlog.New(dbh),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(api.RequestLogger(log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, deps)

	log.Info("listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("mode", string(cfg.Mode)),
		zap.String("db", cfg.DBDriver),
	)
	return http.ListenAndServe(cfg.HTTPAddr, r)
}
