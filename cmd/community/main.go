package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	communityapp "community_server/server/community/app"
	commonlog "community_server/server/common/log"
)

func main() {
	cfg, err := communityapp.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := commonlog.Configure(commonlog.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		FilePath:  cfg.Log.FilePath,
		MaxSizeMB: cfg.Log.MaxSizeMB,
	}); err != nil {
		log.Fatalf("configure logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := communityapp.NewServer(ctx, cfg)
	if err != nil {
		log.Fatalf("initialize community server: %v", err)
	}

	go func() {
		commonlog.Infof("start community http server on :%s", cfg.App.Port)
		if err := server.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("run community http server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		commonlog.Errorf("shutdown community server gracefully: %v", err)
	}
}
