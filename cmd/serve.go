package cmd

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/Juan-Fuente-T/borme-scraper-frontend/internal/handlers"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the BORME web UI",
	Long: `Start a web UI that lists companies and publications from the BORME
backend, proxies bulletin PDFs and triggers bulletin processing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Flag wins over PORT and the config file
		if !cmd.Flags().Changed("port") {
			port = cfg.Server.Port
		}

		loader := newLoader(0)

		app := fiber.New(fiber.Config{
			AppName:               "BORME",
			DisableStartupMessage: true,
		})

		app.Use(recover.New())
		app.Use(fiberlogger.New())

		handlers.Register(app, loader)

		ctx, stop := signalContext()
		defer stop()
		go func() {
			<-ctx.Done()
			logger.Info("shutting down")
			_ = app.Shutdown()
		}()

		logger.Info("starting server", "port", port, "api", loader.Client().BaseURL())
		if err := app.Listen(":" + port); err != nil {
			logger.Error("server stopped", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "P", "3000", "Port to run the server on")
}
