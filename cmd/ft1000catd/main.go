package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dougsko/ft1000cat/pkg/config"
	"github.com/dougsko/ft1000cat/pkg/logging"
)

var (
	configPath = flag.String("config", "config.yaml", "Configuration file path")
	simulate   = flag.Bool("simulate", false, "Use the built-in radio simulator instead of a serial port")
	verbose    = flag.Bool("verbose", false, "Log at debug level, including every CAT frame")
	version    = flag.Bool("version", false, "Show version information")
)

const (
	Version = "0.1.0-dev"
	Build   = "development"
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("ft1000catd version %s (%s)\n", Version, Build)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *simulate {
		cfg.Radio.Simulate = true
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logging.InitGlobalLogger(cfg.LoggingOptions()); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseGlobalLogger()

	logging.Infof("main", "ft1000catd version %s starting...", Version)
	if cfg.Radio.Simulate {
		logging.Info("main", "Radio: simulated FT-1000MP")
	} else {
		logging.Infof("main", "Radio: FT-1000MP on %s at %d baud", cfg.Radio.Device, cfg.Radio.BaudRate)
	}
	logging.Infof("main", "Web interface: http://%s", cfg.ListenAddress())

	daemon, err := NewCATDaemon(cfg)
	if err != nil {
		logging.Errorf("main", "Failed to create daemon: %v", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := daemon.Start(); err != nil {
		logging.Errorf("main", "Failed to start daemon: %v", err)
		daemon.Stop()
		os.Exit(1)
	}

	logging.Info("main", "ft1000catd started successfully")

	<-sigChan
	logging.Info("main", "Shutting down...")

	if err := daemon.Stop(); err != nil {
		logging.Errorf("main", "Error during shutdown: %v", err)
	}

	logging.Info("main", "ft1000catd stopped")
}
