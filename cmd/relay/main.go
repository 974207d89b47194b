package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/botpass/relay/bots"
	botsredis "github.com/botpass/relay/bots/redis"
	"github.com/botpass/relay/config"
	"github.com/botpass/relay/delivery"
	chihandlers "github.com/botpass/relay/internal/http/chi"
	"github.com/botpass/relay/message"
	messageredis "github.com/botpass/relay/message/redis"
	"github.com/botpass/relay/metrics"
	"github.com/botpass/relay/realtime"
	"github.com/botpass/relay/subscription"
)

var version = "1.0.0"

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:   "relay",
		Short: "BotPass webhook relay server",
	}

	var configPath string
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			log := setupLogger(cfg.Logging)

			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer client.Close()

			// The relay stays up when Redis is down: the bot verifier degrades
			// to the allow-list and store writes are best-effort anyway.
			pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
			if err := client.Ping(pingCtx).Err(); err != nil {
				log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, running on the fallback allow-list")
			}
			cancelPing()

			hub := realtime.NewHub(log)
			buffer := message.NewRecentBuffer(cfg.Relay.BufferSize)
			verifier := bots.NewVerifier(cfg.Relay.AllowedBots, botsredis.NewRepository(client), log)
			store := messageredis.NewRepository(client)
			messages := message.NewService(verifier, buffer, hub, store, log)

			registry := subscription.NewRegistry()
			if cfg.Relay.SubscriptionsFile != "" {
				n, err := subscription.LoadSeedFile(cfg.Relay.SubscriptionsFile, registry)
				if err != nil {
					return fmt.Errorf("seeding subscriptions: %w", err)
				}
				log.Info().Int("count", n).Str("path", cfg.Relay.SubscriptionsFile).Msg("seeded subscriptions")
			}

			history := delivery.NewHistory(cfg.Delivery.HistoryLimit)
			sender := delivery.NewSender(cfg.Delivery.Timeout)
			dispatcher := delivery.NewDispatcher(registry, sender, history, delivery.Config{
				MaxRetries:  cfg.Delivery.MaxRetries,
				BackoffBase: cfg.Delivery.BackoffBase,
			}, log)

			collector := metrics.NewRelayCollector(buffer, messages, hub, registry, history)
			exporter, err := metrics.NewOTelExporter(collector)
			if err != nil {
				return fmt.Errorf("setting up metrics: %w", err)
			}

			router := chihandlers.Handlers(chihandlers.Deps{
				Messages:    messages,
				Hub:         hub,
				Registry:    registry,
				Dispatcher:  dispatcher,
				History:     history,
				Metrics:     exporter.Handler(),
				AllowedBots: cfg.Relay.AllowedBots,
			})

			ln, port, err := listen(cfg.Server, log)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Handler:      router,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			ctx, stop := signal.NotifyContext(
				context.Background(),
				syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
			)
			defer stop()

			errShutdown := make(chan error, 1)
			go func() {
				<-ctx.Done()
				log.Info().Msg("shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				errShutdown <- srv.Shutdown(shutdownCtx)
			}()

			log.Info().
				Str("version", version).
				Int("port", port).
				Str("redis", cfg.Redis.Addr).
				Msg("webhook relay is running")

			if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("serving: %w", err)
			}

			if err := <-errShutdown; err != nil {
				log.Error().Err(err).Msg("server shutdown error")
			}

			dispatcher.Close()
			messages.Close()
			if err := exporter.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("metrics shutdown error")
			}

			log.Info().Msg("webhook relay stopped")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("botpass-relay v%s\n", version)
		},
	}
}

// listen binds the primary port, falling back to the configured alternate when
// the primary is already in use.
func listen(cfg config.ServerConfig, log zerolog.Logger) (net.Listener, int, error) {
	primary := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	ln, err := net.Listen("tcp", primary)
	if err == nil {
		return ln, cfg.Port, nil
	}

	log.Warn().Err(err).
		Int("port", cfg.Port).
		Int("fallback_port", cfg.FallbackPort).
		Msg("primary port unavailable, trying fallback")

	fallback := fmt.Sprintf("%s:%d", cfg.Host, cfg.FallbackPort)
	ln, fallbackErr := net.Listen("tcp", fallback)
	if fallbackErr != nil {
		return nil, 0, fmt.Errorf("binding %s and fallback %s: %w", primary, fallback, fallbackErr)
	}
	return ln, cfg.FallbackPort, nil
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
