package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"graphscope/backend/internal/enrich"
	"graphscope/backend/internal/graph"
	"graphscope/backend/internal/navigate"
	"graphscope/backend/internal/render"
	"graphscope/backend/internal/services"
	"graphscope/backend/internal/sources"
	"graphscope/backend/pkg/config"
	apperrors "graphscope/backend/pkg/errors"
	"graphscope/backend/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting graph explorer API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify Neo4j connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	// Initialize dependencies
	repo := graph.NewRepository(driver)
	sessionManager := services.NewSessionManager(repo, cfg.SessionIdleTTL, log)
	previewer := sources.NewPreviewer(cfg.PreviewTimeout, log)
	enricher := enrich.NewDefinitionEnricher(cfg.EnrichBaseURL, cfg.EnrichAPIKey, cfg.EnrichModel, log)

	sweeperStop := make(chan struct{})
	sessionManager.StartSweeper(time.Minute, sweeperStop)
	defer close(sweeperStop)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": sessionManager.Count()})
	})

	// API routes
	api := router.Group("/api")
	{
		// Fixed style palette, handed to the renderer once at init
		api.GET("/palette", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"palette": render.Palette()})
		})

		// Start an explorer session
		api.POST("/sessions", func(c *gin.Context) {
			session := sessionManager.Create()
			// Stand-in for the renderer-owned handle; the hosting page
			// swaps in its own once the renderer has initialized
			session.Controller.BindNavigationHandle(func(nodeURI string) {
				log.Debug("Renderer refocus requested",
					zap.String("session_id", session.ID),
					zap.String("uri", nodeURI),
				)
			})
			c.JSON(http.StatusCreated, gin.H{"session_id": session.ID})
		})

		// Recenter on a node
		api.POST("/sessions/:id/recenter", func(c *gin.Context) {
			session, ok := resolveSession(c, sessionManager)
			if !ok {
				return
			}

			var req struct {
				NodeURI string `json:"node_uri" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.FetchTimeout)
			defer cancel()
			tree, err := session.Controller.Recenter(ctx, req.NodeURI)
			if err != nil {
				respondNavigationError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"tree":      tree,
				"inspector": session.Inspector.Rows(),
				"status":    session.Controller.Status(),
			})
		})

		// Change filters; refetches the current center under them
		api.POST("/sessions/:id/filters", func(c *gin.Context) {
			session, ok := resolveSession(c, sessionManager)
			if !ok {
				return
			}

			var req graph.Filters
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.FetchTimeout)
			defer cancel()
			tree, err := session.Controller.SetFilters(ctx, req)
			if err != nil {
				respondNavigationError(c, log, err)
				return
			}
			if tree == nil {
				// No center yet; filters are stored for the first recenter
				c.JSON(http.StatusOK, gin.H{"status": session.Controller.Status()})
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"tree":      tree,
				"inspector": session.Inspector.Rows(),
				"status":    session.Controller.Status(),
			})
		})

		// Read-only navigation state
		api.GET("/sessions/:id/state", func(c *gin.Context) {
			session, ok := resolveSession(c, sessionManager)
			if !ok {
				return
			}
			state := session.Controller.State()
			c.JSON(http.StatusOK, gin.H{
				"centered":  state.Centered,
				"adjacent":  state.Adjacent,
				"inspector": session.Inspector.Rows(),
				"filters":   session.Controller.Filters(),
				"status":    session.Controller.Status(),
			})
		})

		// End a session
		api.DELETE("/sessions/:id", func(c *gin.Context) {
			if err := sessionManager.Close(c.Param("id")); err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "closed"})
		})

		// Source preview for the sidebar
		api.GET("/sources/preview", func(c *gin.Context) {
			rawURL := c.Query("url")
			if rawURL == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
				return
			}
			c.JSON(http.StatusOK, previewer.Fetch(c.Request.Context(), rawURL))
		})

		// Definition lookup with optional enrichment
		api.GET("/nodes/definition", func(c *gin.Context) {
			uri := c.Query("uri")
			if uri == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "uri query parameter is required"})
				return
			}

			ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.FetchTimeout)
			defer cancel()
			n, err := repo.FetchNeighborhood(ctx, uri)
			if err != nil {
				respondNavigationError(c, log, err)
				return
			}

			definition, err := enricher.Enrich(c.Request.Context(), n.Center)
			if err != nil {
				// Enrichment is best-effort; fall back to what the node has
				log.Warn("Definition enrichment failed", zap.String("uri", uri), zap.Error(err))
				definition = n.Center.Definition
			}
			c.JSON(http.StatusOK, gin.H{
				"uri":        n.Center.URI,
				"label":      n.Center.Label,
				"definition": definition,
				"enriched":   definition != n.Center.Definition,
			})
		})
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func resolveSession(c *gin.Context, sm *services.SessionManager) (*services.Session, bool) {
	session, err := sm.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return session, true
}

// respondNavigationError maps domain errors onto HTTP statuses. Auth
// failures stay distinct from generic fetch failures so the UI can show
// a sign-in prompt.
func respondNavigationError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case apperrors.IsAuthRequired(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "Node not found"})
	case errors.Is(err, navigate.ErrSuperseded):
		// A newer recenter won; this response was discarded
		c.JSON(http.StatusConflict, gin.H{"superseded": true})
	default:
		log.Error("Navigation request failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch neighborhood"})
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
