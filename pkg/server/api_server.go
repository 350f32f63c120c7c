package server

import (
	"context"
	"net"
	"strconv"

	"github.com/rdd6584/blogqa/pkg/config"
	"github.com/rdd6584/blogqa/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	APIServerDI struct {
		Config  *config.Config
		Logger  *logrus.Logger
		Routers []router.ServerRouter
	}
	APIServer struct {
		*BaseServer
	}
)

func NewAPIServer(di APIServerDI) *APIServer {
	s := &APIServer{
		BaseServer: NewBaseServer(di.Config, di.Logger).WithRouters(di.Routers...),
	}
	s.BaseServer.setupMetricsEndpoint()
	return s
}

func (s *APIServer) Run() error {
	addr := net.JoinHostPort(s.Config.Server.Host, strconv.Itoa(s.Config.Server.Port))
	s.Logger.WithField("addr", addr).Info("starting api server")
	return s.Router.Listen(addr)
}

func (s *APIServer) Shutdown(ctx context.Context) error {
	return s.shutdown(ctx)
}
