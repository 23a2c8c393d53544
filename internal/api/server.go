package api

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/davide/bandi-radar/internal/crawl"
	"github.com/davide/bandi-radar/internal/db"
	"github.com/davide/bandi-radar/internal/extract"
	"github.com/davide/bandi-radar/internal/match"
	"github.com/davide/bandi-radar/internal/models"
)

type Server struct {
	Store    *db.Store
	Echo     *echo.Echo
	DB       *pgxpool.Pool
	Fetcher  crawl.Fetcher
	Pipeline *extract.Pipeline
	Engine   *match.Engine
	Seeds    []string
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(pool *pgxpool.Pool, fetcher crawl.Fetcher, pipeline *extract.Pipeline, seeds []string) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-Admin-Secret"},
	}))

	store := db.NewStore(pool)

	s := &Server{
		DB:       pool,
		Store:    store,
		Echo:     e,
		Fetcher:  fetcher,
		Pipeline: pipeline,
		Engine:   match.NewEngine(store, match.DefaultConfig()),
		Seeds:    seeds,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/v1")
	api.GET("/opportunities", s.handleListOpportunities)
	api.GET("/matches", s.handleListMatches)
	api.GET("/stats", s.handleGetStats)

	admin := api.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/extract", s.handleExtract)
	admin.POST("/extract/url", s.handleExtractURL)
	admin.POST("/matches/recompute", s.handleRecomputeMatches)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleListOpportunities(c echo.Context) error {
	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	opps, err := s.Store.ListOpportunities(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"opportunities": opps, "total": len(opps)})
}

func (s *Server) handleListMatches(c echo.Context) error {
	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	matches, err := s.Store.ListMatches(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"matches": matches, "total": len(matches)})
}

func (s *Server) handleGetStats(c echo.Context) error {
	ctx := c.Request().Context()
	opps, err := s.Store.CountOpportunities(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	matches, err := s.Store.CountMatches(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]int{"opportunities": opps, "matches": matches})
}

// handleExtract runs the extraction flow. A request body holding an
// already-crawled batch is processed directly; an empty body crawls the
// configured seed URLs first.
func (s *Server) handleExtract(c echo.Context) error {
	if c.Request().ContentLength > 0 {
		var batch crawl.CrawlResult
		if err := c.Bind(&batch); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid crawl batch"})
		}
		return s.processBatch(c, batch)
	}
	return s.runExtraction(c, s.Seeds)
}

// handleExtractURL runs the same flow for one caller-supplied URL.
func (s *Server) handleExtractURL(c echo.Context) error {
	urlStr := c.QueryParam("url")
	if urlStr == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url param required"})
	}
	u, err := url.Parse(urlStr)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid url"})
	}
	return s.runExtraction(c, []string{urlStr})
}

func (s *Server) runExtraction(c echo.Context, seeds []string) error {
	if len(seeds) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no seed urls configured"})
	}
	crawled, err := s.Fetcher.FetchAll(c.Request().Context(), seeds)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": fmt.Sprintf("crawl failed: %v", err)})
	}
	return s.processBatch(c, crawled)
}

func (s *Server) processBatch(c echo.Context, crawled crawl.CrawlResult) error {
	ctx := c.Request().Context()

	opps, stats, err := s.Pipeline.Process(ctx, crawled)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	clients, err := s.Store.ListClients(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	var saved, matched int
	for _, opp := range opps {
		if err := s.Store.SaveOpportunity(ctx, opp); err != nil {
			log.Printf("[api] save opportunity failed: %v", err)
			continue
		}
		saved++
		res, err := s.Engine.MatchOpportunity(ctx, clients, opp)
		if err != nil {
			log.Printf("[api] match generation failed for %s: %v", opp.ID, err)
			continue
		}
		matched += res.Created
	}

	return c.JSON(http.StatusOK, map[string]any{
		"stats":           stats,
		"saved":           saved,
		"matches_created": matched,
	})
}

// handleRecomputeMatches rescores the full client x opportunity cross
// product. Existing rows are kept (the pair constraint makes the run
// idempotent); only missing pairs above the cutoff are added.
func (s *Server) handleRecomputeMatches(c echo.Context) error {
	ctx := c.Request().Context()

	clients, err := s.Store.ListClients(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	opps, err := s.Store.ListOpportunities(ctx, 10000)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	oppPtrs := make([]*models.Opportunity, len(opps))
	for i := range opps {
		oppPtrs[i] = &opps[i]
	}

	res, err := s.Engine.MatchAll(ctx, clients, oppPtrs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}
	return adminSecretRuntime, nil
}
