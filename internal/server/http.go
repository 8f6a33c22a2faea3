package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/d0gyunkim/seveneleven-website-sub000/internal/conf"
	"github.com/d0gyunkim/seveneleven-website-sub000/internal/service"
)

func NewHTTPServer(c *conf.Server, s *service.InsightService, logger log.Logger) *http.Server {
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
	return srv
}

func registerRoutes(srv *http.Server, s *service.InsightService) {
	r := srv.Route("/api/v1")

	r.POST("/auth/login", func(ctx http.Context) error {
		var req service.LoginRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := s.Login(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/stores/{code}/overview", func(ctx http.Context) error {
		reply, err := s.Overview(ctx, ctx.Vars().Get("code"), ctx.Query().Get("month"))
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/products/recommended", func(ctx http.Context) error {
		reply, err := s.Recommendations(ctx,
			ctx.Query().Get("month"), ctx.Query().Get("category"), intQuery(ctx, "limit", 30))
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/products/underperforming", func(ctx http.Context) error {
		reply, err := s.Underperforming(ctx,
			ctx.Query().Get("month"), ctx.Query().Get("category"), intQuery(ctx, "limit", 30))
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/stores/{code}/similar", func(ctx http.Context) error {
		reply, err := s.SimilarStores(ctx, ctx.Vars().Get("code"),
			ctx.Query().Get("month"), intQuery(ctx, "limit", 5))
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.GET("/stores/{code}/comparison", func(ctx http.Context) error {
		var withCodes []string
		if with := ctx.Query().Get("with"); with != "" {
			withCodes = strings.Split(with, ",")
		}
		reply, err := s.Comparison(ctx, ctx.Vars().Get("code"), ctx.Query().Get("month"), withCodes)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})

	r.POST("/analysis", func(ctx http.Context) error {
		var req service.AnalyzeRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := s.Analyze(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(200, reply)
	})
}

func intQuery(ctx http.Context, key string, def int) int {
	v := ctx.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
