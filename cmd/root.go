package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/auth"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/config"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/logging"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/service"
	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/store"
)

var (
	configPath string
	apiURL     string
	username   string
	password   string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "borme",
	Short: "Browse companies and bulletins published in the BORME",
	Long: `borme is a client for the BORME backend service.

It lists and searches the companies extracted from the Spanish business
registry bulletin, lists processed publications, downloads their original
documents and asks the backend to process the bulletin of a given day.
The serve command starts a small web UI on top of the same operations.

Configuration is read from an optional YAML file (--config or BORME_CONFIG),
a .env file and the environment (BORME_API_URL, BORME_USERNAME,
BORME_PASSWORD, BORME_PAGE_SIZE, PORT, LOG_LEVEL). Flags take precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("api-url") {
			loaded.API.BaseURL = apiURL
		}
		if flags.Changed("username") {
			loaded.API.Username = username
		}
		if flags.Changed("password") {
			loaded.API.Password = password
		}
		if flags.Changed("log-level") {
			loaded.Logging.Level = logLevel
		}

		cfg = loaded
		logger = logging.New(cfg.Logging.Level)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&apiURL, "api-url", "", "BORME API base URL (default http://localhost:8080/api)")
	flags.StringVarP(&username, "username", "u", "", "Username for Basic auth")
	flags.StringVarP(&password, "password", "p", "", "Password for Basic auth")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// newLoader builds the session, client, state containers and loader from
// cfg. A positive pageSize replaces the configured one.
func newLoader(pageSize int) *service.Loader {
	if pageSize <= 0 {
		pageSize = cfg.API.PageSize
	}

	session := auth.NewSession(cfg.API.Username, cfg.API.Password)
	client := service.NewBormeClient(cfg.API.BaseURL, session, nil)
	state := store.NewAppState(pageSize)

	return service.NewLoader(client, state, logger.With("component", "loader"))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
