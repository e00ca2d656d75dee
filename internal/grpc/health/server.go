// Package health поднимает gRPC health-сервис для оркестраторов контейнеров.
//
// Статус сервиса обновляется по результату периодической проверки хранилища.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/0xchsh/by-computer/internal/lib/sl"
)

// ServiceName имя сервиса в health-ответах.
const ServiceName = "bycomputer"

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	grpcServer *grpc.Server
	health     *grpchealth.Server
	listener   net.Listener
	storage    Pinger
	interval   time.Duration
	log        *slog.Logger
}

// New слушает address и регистрирует health-сервис. Проверка хранилища выполняется раз в interval.
func New(address string, storage Pinger, interval time.Duration, log *slog.Logger) (*Server, error) {
	const op = "grpc.health.New"
	lis, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	grpcServer := grpc.NewServer()
	hs := grpchealth.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{
		grpcServer: grpcServer,
		health:     hs,
		listener:   lis,
		storage:    storage,
		interval:   interval,
		log:        log,
	}, nil
}

// Addr возвращает фактический адрес, на котором слушает сервер.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Run обслуживает запросы до отмены ctx.
func (s *Server) Run(ctx context.Context) error {
	const op = "grpc.health.Run"
	errCh := make(chan error, 1)

	go func() {
		s.log.Info("gRPC health service listening on", slog.String("address", s.Addr()))
		errCh <- s.grpcServer.Serve(s.listener)
	}()

	s.check(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpcServer.GracefulStop()
			return nil
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *Server) check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := s.storage.Ping(ctx); err != nil {
		s.log.Warn("storage ping failed", sl.Err(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
	s.health.SetServingStatus("", status)
}
