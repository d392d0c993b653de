package grpcx

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthv1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Server — ops-срез для платформы: gRPC health для проб/LB. Клиентский
// протокол живёт в WS, сюда ходит только инфраструктура.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
}

func NewServer() *Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(StreamServerInterceptor()),
	)

	h := health.NewServer()
	healthv1.RegisterHealthServer(s, h)
	h.SetServingStatus("", healthv1.HealthCheckResponse_SERVING)

	return &Server{grpc: s, health: h}
}

func (s *Server) GRPC() *grpc.Server { return s.grpc }

// Shutdown переводит health в NOT_SERVING и мягко гасит сервер.
func (s *Server) Shutdown() {
	s.health.SetServingStatus("", healthv1.HealthCheckResponse_NOT_SERVING)
	s.grpc.GracefulStop()
}
