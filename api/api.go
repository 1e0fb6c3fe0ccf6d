package api

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/colcast/colcast/pkg/core"
	"github.com/colcast/colcast/pkg/pipeline"
	"github.com/colcast/colcast/version"
)

// ServerOptions configures the API server.
type ServerOptions struct {
	Port    string
	Prefork bool
}

// Server holds the Fiber app instance
type Server struct {
	app  *fiber.App
	port string
}

// ConvertRequest is the body of POST /convert.
type ConvertRequest struct {
	Source            string   `json:"source"`
	Format            string   `json:"format"`
	Destination       string   `json:"destination,omitempty"`
	Recursive         bool     `json:"recursive,omitempty"`
	Overwrite         bool     `json:"overwrite,omitempty"`
	Delimiter         string   `json:"delimiter,omitempty"`
	IncludeHeader     *bool    `json:"include_header,omitempty"`
	BatchSize         int64    `json:"batch_size,omitempty"`
	ForceStringFields []string `json:"force_string_fields,omitempty"`
	Compression       string   `json:"compression,omitempty"`
}

// NewServer initializes a new Fiber instance with best practices
func NewServer(opts ServerOptions) *Server {
	app := fiber.New(fiber.Config{
		IdleTimeout:  10 * time.Second, // Prevents idle connections
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Prefork:      opts.Prefork,
	})

	// Middleware
	app.Use(recover.New())     // Auto-recovers from panics
	app.Use(fiberlogger.New()) // Logs all requests

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "Colcast API",
			"version": version.Version,
			"build":   version.BuildDate,
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	app.Post("/convert", func(c *fiber.Ctx) error {
		var req ConvertRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if req.Source == "" || req.Format == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "source and format are required"})
		}

		// Headers on unless the caller says otherwise, same default as the CLI.
		includeHeader := true
		if req.IncludeHeader != nil {
			includeHeader = *req.IncludeHeader
		}

		report, err := pipeline.Run(c.Context(), req.Source, core.ConvertOptions{
			Format:            req.Format,
			Destination:       req.Destination,
			Recursive:         req.Recursive,
			Overwrite:         req.Overwrite,
			Delimiter:         req.Delimiter,
			IncludeHeader:     includeHeader,
			BatchSize:         req.BatchSize,
			ForceStringFields: req.ForceStringFields,
			Compression:       req.Compression,
		})
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		status := fiber.StatusOK
		if report.Tally.Failed > 0 {
			status = fiber.StatusUnprocessableEntity
		}
		return c.Status(status).JSON(report)
	})

	port := opts.Port
	if port == "" {
		port = "3000" // Default port
	}

	return &Server{app: app, port: port}
}

// GetApp exposes the underlying Fiber app, mainly for tests.
func (s *Server) GetApp() *fiber.App {
	return s.app
}

// Start runs the Fiber server and handles graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS termination signals (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	// Start server in a goroutine
	go func() {
		log.Printf("Colcast API is running on port %s\n", s.port)
		if err := s.app.Listen(":" + s.port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-quit
	log.Println("Received shutdown signal, stopping server...")

	// Create a timeout context for the shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.app.ShutdownWithContext(ctx); err != nil {
		log.Fatalf("Error shutting down: %v", err)
	}

	log.Println("Server shutdown successfully")
	return nil
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
