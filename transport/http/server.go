package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akihiro17/kafka-ec2/assignor"
	"github.com/akihiro17/kafka-ec2/config"
	"github.com/akihiro17/kafka-ec2/logger"
	"github.com/akihiro17/kafka-ec2/storage"
	"github.com/akihiro17/kafka-ec2/transport"
)

type Http struct {
	assignor assignor.PartitionAssignor
	store    storage.MetadataStorage
	log      logger.Logger

	server *http.Server
	config config.HTTP
}

var _ transport.Transport = (*Http)(nil)

func NewTransport(
	_ context.Context,
	config config.HTTP,
	a assignor.PartitionAssignor,
	store storage.MetadataStorage,
	gatherer prometheus.Gatherer,
	log logger.Logger,
) (*Http, error) {
	transport := &Http{
		assignor: a,
		store:    store,
		log:      log,
		config:   config,
	}
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Post("/assignments", transport.assign)
	router.Get("/topics", transport.listTopics)
	router.Get("/topics/{topic}", transport.getTopic)
	router.Put("/topics/{topic}", transport.putTopic)
	router.Delete("/topics/{topic}", transport.deleteTopic)
	router.Get("/healthz", transport.healthCheck)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := http.Server{
		Addr:    config.ListenerAddr,
		Handler: router,
	}
	transport.server = &server
	return transport, nil
}

func (h *Http) Handler() http.Handler {
	return h.server.Handler
}

func (h *Http) Start(ctx context.Context) error {
	h.log.Info(ctx, "starting http transport", logger.NewAttr("addr", h.config.ListenerAddr))
	if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to serve http: %w", err)
	}
	return nil
}

func (h *Http) Close(ctx context.Context) error {
	if err := h.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
