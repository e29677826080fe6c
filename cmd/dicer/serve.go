package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lemonberrylabs/dicer/internal/config"
	"github.com/lemonberrylabs/dicer/pkg/api"
	"github.com/lemonberrylabs/dicer/pkg/store"
	"github.com/lemonberrylabs/dicer/web"
	"github.com/spf13/cobra"
)

func newServeCmd(cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and history UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			host, _ := cmd.Flags().GetString("host")
			port, _ := cmd.Flags().GetInt("port")
			limit, _ := cmd.Flags().GetInt("history-limit")
			if err := config.ValidatePort(port); err != nil {
				return err
			}
			return serve(fmt.Sprintf("%s:%d", host, port), limit)
		},
	}
	cmd.Flags().String("host", cfg.Host, "Bind address (env DICER_HOST)")
	cmd.Flags().Int("port", cfg.Port, "HTTP server port (env DICER_PORT)")
	cmd.Flags().Int("history-limit", cfg.HistoryLimit, "Rolls kept in history, 0 for unbounded (env DICER_HISTORY_LIMIT)")
	return cmd
}

func serve(addr string, historyLimit int) error {
	s := store.New(historyLimit)
	server := api.New(s)

	web.New(s).Register(server.App())

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down dicer...")
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("dicer listening on %s (history limit %d)", addr, historyLimit)
	return server.Listen(addr)
}
