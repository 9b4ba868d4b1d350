package server

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iWorld-y/campaign_studio/app/studio/internal/conf"
	"github.com/iWorld-y/campaign_studio/app/studio/internal/service"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/metrics"
	dm "github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

func NewHTTPServer(c *conf.Server, s *service.StudioService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout != "" {
		if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	registerRoutes(srv, s)

	metrics.Register()
	srv.Handle("/metrics", promhttp.Handler())

	return srv
}

func registerRoutes(srv *http.Server, s *service.StudioService) {
	r := srv.Route("/")

	r.POST("/generate", func(ctx http.Context) error {
		var req dm.GenerationRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		http.SetOperation(ctx, "/studio.v1.Studio/Generate")
		h := ctx.Middleware(func(c context.Context, in interface{}) (interface{}, error) {
			return s.Generate(c, in.(*dm.GenerationRequest))
		})
		out, err := h(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.GET("/jobs/{id}", func(ctx http.Context) error {
		id := ctx.Vars().Get("id")
		http.SetOperation(ctx, "/studio.v1.Studio/GetJob")
		h := ctx.Middleware(func(c context.Context, in interface{}) (interface{}, error) {
			return s.GetJob(c, in.(string))
		})
		out, err := h(ctx, id)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.POST("/knowledge", func(ctx http.Context) error {
		var req service.KnowledgeRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		http.SetOperation(ctx, "/studio.v1.Studio/IngestKnowledge")
		h := ctx.Middleware(func(c context.Context, in interface{}) (interface{}, error) {
			return s.IngestKnowledge(c, in.(*service.KnowledgeRequest))
		})
		out, err := h(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	})

	r.GET("/assets/{key}", func(ctx http.Context) error {
		key := ctx.Vars().Get("key")
		data, contentType, err := s.GetAsset(ctx, key)
		if err != nil {
			return err
		}
		return ctx.Blob(200, contentType, data)
	})

	r.GET("/", func(ctx http.Context) error {
		return ctx.Result(200, map[string]interface{}{
			"ok":      true,
			"service": "campaign-studio",
			"endpoints": []string{
				"POST /generate",
				"GET /jobs/{id}",
				"GET /assets/{key}",
				"POST /knowledge",
				"GET /metrics",
			},
		})
	})
}
