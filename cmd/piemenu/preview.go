package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/recera/piemenu/cmd/piemenu/internal/preview"
)

func newPreviewCommand() *cobra.Command {
	var port int
	var host string

	cmd := &cobra.Command{
		Use:   "preview <scene.yaml>",
		Short: "Serve the rendered scene and reload it on change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(args[0], host, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 5173, "Port to serve on")
	cmd.Flags().StringVarP(&host, "host", "H", "localhost", "Host to bind to")
	return cmd
}

func runPreview(scene, host string, port int) error {
	if _, err := os.Stat(scene); err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	server := preview.New(scene)
	addr := fmt.Sprintf("%s:%d", host, port)
	srv := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		err := preview.Watch(ctx, scene, func() {
			log.Printf("🔄 %s changed, reloading %d client(s)", scene, server.Clients())
			server.Reload()
		})
		if err != nil {
			log.Printf("❌ Watcher error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		log.Println("🛑 Shutting down preview server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("🚀 Preview at http://%s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
