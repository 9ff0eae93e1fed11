package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/mvplanning"
	"github.com/viant/mvplanning/internal/logger"
	"github.com/viant/mvplanning/service/api"
	"github.com/viant/mvplanning/service/transport/plandb"
)

func main() {
	configPath := flag.String("config", os.Getenv("MVPLANNING_CONFIG"), "path to YAML configuration")
	flag.Parse()

	config, err := mvplanning.LoadConfig(*configPath)
	if err != nil {
		logger.Default().WithError(err).Fatal("failed to load config")
	}
	log := logger.New(os.Stderr, config.Log.Level, config.Log.JSON)

	link := log.WithField("component", "link")
	srv, err := mvplanning.New(
		mvplanning.WithConfig(config),
		mvplanning.WithLogger(log),
		mvplanning.WithOutboxRelay(plandb.SenderFunc(func(ctx context.Context, request *plandb.Request) error {
			link.WithFields(logrus.Fields{"plan": request.PlanID, "vehicle": request.Vehicle, "requestId": request.RequestID}).
				Info("plan request dispatched")
			return nil
		})),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to create planner")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runtime := srv.Runtime()
	if err = runtime.Start(ctx); err != nil {
		log.WithError(err).Fatal("failed to start planner")
	}

	server := &http.Server{
		Addr:         config.API.Address,
		Handler:      api.New(runtime, srv.Gatherer(), log.WithField("component", "api")),
		ReadTimeout:  config.API.ReadTimeout,
		WriteTimeout: config.API.WriteTimeout,
	}
	go func() {
		log.WithField("address", server.Addr).Info("planner API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("planner API stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("failed to shut down API")
	}
	if err := runtime.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("failed to shut down planner")
	}
}
