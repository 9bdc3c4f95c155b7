package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nikoo-app/assistant/plugin/llm"
	"github.com/nikoo-app/assistant/server"
	"github.com/nikoo-app/assistant/server/profile"
	apiv1 "github.com/nikoo-app/assistant/server/router/api/v1"
	"github.com/nikoo-app/assistant/store"
	"github.com/nikoo-app/assistant/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Chat backend proxying user messages to a hosted completion API",
	RunE: func(_ *cobra.Command, _ []string) error {
		p, err := profile.GetProfile()
		if err != nil {
			return err
		}
		if p.AIAPIKey == "" {
			slog.Warn("AI API key is not configured, completions will fail until it is set")
		}

		driver, err := db.NewDriver(p)
		if err != nil {
			return err
		}
		st := store.New(driver)
		defer st.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		completer := llm.NewClient(p.AIBaseURL, p.AIAPIKey, p.AIModel, p.AITimeout, p.AIMaxRetries)
		srv := server.NewServer(p, apiv1.NewAPIV1Service(p, st, completer))

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return srv.Shutdown(context.Background())
		case err := <-errCh:
			return err
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("addr", "", "address to bind the server to")
	flags.Int("port", 8000, "port to bind the server to")
	flags.String("driver", "sqlite", "storage backend: sqlite | mysql | postgres")
	flags.String("dsn", "assistant.db", "database connection string")
	_ = viper.BindPFlag("addr", flags.Lookup("addr"))
	_ = viper.BindPFlag("port", flags.Lookup("port"))
	_ = viper.BindPFlag("driver", flags.Lookup("driver"))
	_ = viper.BindPFlag("dsn", flags.Lookup("dsn"))
}

func main() {
	// Local development convenience; real deployments set the environment.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}
