package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hwatkins/procurement-finder/internal/cache"
	"github.com/hwatkins/procurement-finder/internal/config"
	"github.com/hwatkins/procurement-finder/internal/export"
	"github.com/hwatkins/procurement-finder/internal/models"
	"github.com/hwatkins/procurement-finder/internal/notices"
	"github.com/hwatkins/procurement-finder/internal/sources"
)

type Server struct {
	Echo *echo.Echo
	CF   *sources.ContractsFinderClient
	FTS  *sources.FindTenderClient
}

func NewServer(cfg config.Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := cfg.Server.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:4200"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	pkgCache, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		time.Duration(cfg.Redis.TTLSeconds)*time.Second)
	if err != nil {
		// Caching is best-effort; run uncached rather than refuse to start.
		log.Printf("[Server] Redis unavailable, running without package cache: %v", err)
		pkgCache = nil
	}

	s := &Server{
		Echo: e,
		CF:   sources.NewContractsFinderClient(cfg.ContractsFinder),
		FTS:  sources.NewFindTenderClient(cfg.FindTender, pkgCache),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api")
	api.POST("/search", s.handleSearch)
	api.POST("/export", s.handleExport)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// SearchRequest is the /api/search body. Value bounds accept numbers or
// numeric strings; anything unparseable is treated as absent.
type SearchRequest struct {
	Keywords          []string `json:"keywords"`
	Types             []string `json:"types"`
	Statuses          []string `json:"statuses"`
	ProcurementStages []string `json:"procurementStages"`
	Sources           []string `json:"sources"`
	DateFrom          string   `json:"dateFrom"`
	DateTo            string   `json:"dateTo"`
	ValueFrom         any      `json:"valueFrom"`
	ValueTo           any      `json:"valueTo"`
	Limit             int      `json:"limit"`
}

type SearchResponse struct {
	Count int             `json:"count"`
	Items []models.Notice `json:"items"`
}

func (s *Server) handleSearch(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	criteria := notices.Criteria{
		Keywords:  req.Keywords,
		Types:     req.Types,
		Statuses:  req.Statuses,
		Stages:    req.ProcurementStages,
		Sources:   req.Sources,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		ValueFrom: flexibleNumber(req.ValueFrom),
		ValueTo:   flexibleNumber(req.ValueTo),
	}

	requestID := uuid.New().String()[:8]
	started := time.Now()
	items := sources.SearchAll(c.Request().Context(), s.CF, s.FTS, criteria)
	if req.Limit > 0 && len(items) > req.Limit {
		items = items[:req.Limit]
	}
	log.Printf("[Search %s] %d notices in %s", requestID, len(items), time.Since(started).Round(time.Millisecond))

	return c.JSON(http.StatusOK, SearchResponse{Count: len(items), Items: items})
}

type ExportRequest struct {
	Items  []models.Notice `json:"items"`
	Format string          `json:"format"`
}

func (s *Server) handleExport(c echo.Context) error {
	var req ExportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	switch req.Format {
	case "csv":
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="notices.csv"`)
		return c.Blob(http.StatusOK, "text/csv", []byte(export.RenderCSV(req.Items)))
	case "excel":
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="notices.xls"`)
		return c.Blob(http.StatusOK, "application/vnd.ms-excel", []byte(export.RenderHTML(req.Items)))
	case "json", "":
		return c.JSON(http.StatusOK, map[string]any{"items": req.Items})
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported format: " + req.Format})
	}
}

// flexibleNumber coerces a JSON number or numeric string into a bound;
// anything else means no bound.
func flexibleNumber(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return &f
		}
	}
	return nil
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}
