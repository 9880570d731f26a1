package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"larder/internal/api"
	"larder/internal/database"
	"larder/internal/live"
	"larder/internal/monitoring"
)

var (
	port        = flag.Int("port", 8080, "API server port")
	metricsPort = flag.Int("metrics-port", 9090, "Metrics server port")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	if err := database.InitDB(config.Database.Driver, config.Database.DSN); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	store := database.NewStore(database.GetDB())
	metrics := monitoring.NewMetricsCollector()

	// Initialize API server and the live cost watch
	costingAPI := api.NewCostingAPI(store, metrics, config.Currency.Symbol, config.Auth.Secret)
	watch := live.NewWatchServer(store, config.Currency.Symbol)
	watch.RegisterRoutes(costingAPI.Router)

	// Start metrics server
	if config.Metrics.Enabled {
		go startMetricsServer(*metricsPort, metrics)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: costingAPI.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Starting API server on port %d", *port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return config, nil
}

func defaultConfig() *Config {
	config := &Config{}
	config.Database.Driver = "sqlite3"
	config.Database.DSN = "larder.db"
	config.Currency.Symbol = "$"
	config.Metrics.Enabled = true
	return config
}

func startMetricsServer(port int, metrics *monitoring.MetricsCollector) {
	handler := promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})

	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(handler))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}

// Config represents the application configuration
type Config struct {
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Auth struct {
		Secret string `yaml:"secret"`
	} `yaml:"auth"`
	Currency struct {
		Symbol string `yaml:"symbol"`
	} `yaml:"currency"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}
