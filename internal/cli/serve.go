package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/dshills/vigil/internal/azdevops"
	"github.com/dshills/vigil/internal/config"
	"github.com/dshills/vigil/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	Long:  "Serve listens for Azure DevOps pull request webhooks and reviews each pull request as it arrives. The webhook shared secret is read from VIGIL_WEBHOOK_SECRET.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		applyPathFlags(&cfg)

		log := newLogger(cfg)

		client, err := newGitClient(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			var verr *azdevops.ValidationError
			if errors.As(err, &verr) {
				exitCode = ExitUsageError
			} else {
				exitCode = ExitAuthError
			}
			return nil
		}

		rev, err := server.NewReviewer(client, cfg, version, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		gin.SetMode(gin.ReleaseMode)
		srv := server.New(cfg, rev, version, log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("starting server", "addr", cfg.Server.Addr)
		if err := srv.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

func init() {
	addReviewFlags(serveCmd)
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default :8080)")
}
