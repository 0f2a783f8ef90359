package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thurmanmarka/twilight"
	"github.com/thurmanmarka/twilight/internal/present"
)

type Server struct {
	router    *gin.Engine
	server    *http.Server
	logger    *slog.Logger
	now       func() time.Time
	location  *time.Location
	precision twilight.Precision
}

type ServerConfig struct {
	Port      int
	Logger    *slog.Logger
	Location  *time.Location     // default zone for formatted times
	Precision twilight.Precision // default precision profile
	Now       func() time.Time   // clock; time.Now when nil
}

func NewServer(cfg ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	s := &Server{
		router:    router,
		logger:    logger,
		now:       now,
		location:  loc,
		precision: cfg.Precision,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	router.Use(requestLogger(logger), errorHandlingMiddleware(logger))
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler)

	api := s.router.Group("/api/v1")
	{
		api.GET("/twilight", s.twilightHandler)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": s.now().UTC(),
	})
}

// twilightHandler serves GET /api/v1/twilight?lat=&lon=[&time=][&precision=][&tz=].
func (s *Server) twilightHandler(c *gin.Context) {
	lat, herr := requiredFloat(c, "lat")
	if herr != nil {
		abortWithError(c, herr)
		return
	}
	lon, herr := requiredFloat(c, "lon")
	if herr != nil {
		abortWithError(c, herr)
		return
	}

	var err error
	at := s.now().UnixMilli()
	if raw := c.Query("time"); raw != "" {
		at, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, codeInvalidInput, "time must be epoch milliseconds", err))
			return
		}
	}

	precision := s.precision
	if raw := c.Query("precision"); raw != "" {
		precision, err = twilight.ParsePrecision(raw)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, codeInvalidInput, err.Error(), err))
			return
		}
	}

	loc := s.location
	if raw := c.Query("tz"); raw != "" {
		loc, err = time.LoadLocation(raw)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, codeInvalidInput, "unknown time zone "+strconv.Quote(raw), err))
			return
		}
	}

	res, err := twilight.Calculate(at, lat, lon, twilight.WithPrecision(precision))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, codeInvalidInput, err.Error(), err))
		return
	}

	coords := twilight.Coordinates{Lat: lat, Lon: lon}
	c.JSON(http.StatusOK, present.NewView(res, coords, precision, loc))
}

func requiredFloat(c *gin.Context, name string) (float64, *HTTPError) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, NewHTTPError(http.StatusBadRequest, codeInvalidInput, name+" is required", nil)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, NewHTTPError(http.StatusBadRequest, codeInvalidInput, name+" must be a number", err)
	}
	return v, nil
}
