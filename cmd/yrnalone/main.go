package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/config"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/logging"
	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	envFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "yrnalone",
		Short: "YRNAlone local companion service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)
	rootCmd.AddCommand(newServeCommand(), newCheckInCommand(), newRecordCommand(), newBannerCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to an optional dotenv file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-file", defaults.GetString("log.file"), "Rotated log file (empty disables)")
	cmd.PersistentFlags().String("storage", defaults.GetString("storage.backend"), "Storage backend (sqlite, memory, redis)")
	cmd.PersistentFlags().String("namespace", defaults.GetString("storage.namespace"), "Key namespace inside the storage backend")
	cmd.PersistentFlags().String("redis-address", defaults.GetString("redis.address"), "Redis address for the redis backend")
	cmd.PersistentFlags().String("timezone", defaults.GetString("app.timezone"), "IANA timezone used for check-in days")
	cmd.PersistentFlags().String("language", defaults.GetString("app.language"), "Default language for rendered text")
	cmd.PersistentFlags().String("display-name", defaults.GetString("app.display_name"), "Display name of the local user on first start")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "log.file", "log-file")
	bindFlag(cmd, "storage.backend", "storage")
	bindFlag(cmd, "storage.namespace", "namespace")
	bindFlag(cmd, "redis.address", "redis-address")
	bindFlag(cmd, "app.timezone", "timezone")
	bindFlag(cmd, "app.language", "language")
	bindFlag(cmd, "app.display_name", "display-name")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API for the local client",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// loadRuntime reads configuration and builds the logger shared by every command.
func loadRuntime() (config.AppConfig, *zap.Logger, error) {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	logger, err := logging.New(logging.Options{Level: appConfig.LogLevel, File: appConfig.LogFile})
	if err != nil {
		return config.AppConfig{}, nil, err
	}
	return appConfig, logger, nil
}

func runServer(ctx context.Context) error {
	appConfig, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	application, err := bootstrap(ctx, appConfig, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Model:        application.model,
		Accessors:    application.accessors,
		Streak:       application.streak,
		Translations: application.translations,
		Crisis:       application.crisis,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress), zap.String("storage", appConfig.StorageBackend))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
