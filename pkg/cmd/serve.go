package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eduardoinoa18/memorybox/pkg/api"
	"github.com/eduardoinoa18/memorybox/pkg/app"
	"github.com/eduardoinoa18/memorybox/pkg/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app.NewApp(configPath)
		defer a.Close()

		api.RegisterGroup(a.Engine)

		errCh := make(chan error, 1)
		go func() {
			errCh <- a.Run()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			log.Logger().Info().Str("signal", sig.String()).Msg("shutting down")

			return nil
		}
	},
}

func registerServeCommand() {
	rootCmd.AddCommand(serveCmd)
}
