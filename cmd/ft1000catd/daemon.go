package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dougsko/ft1000cat/pkg/config"
	"github.com/dougsko/ft1000cat/pkg/hardware"
	"github.com/dougsko/ft1000cat/pkg/logging"
	"github.com/dougsko/ft1000cat/pkg/transport"
	"github.com/dougsko/ft1000cat/pkg/trace"
)

// CATDaemon serves the radio over HTTP. All radio access goes through
// withRadio, which allows one command at a time.
type CATDaemon struct {
	config *config.Config
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// pollerMu orders websocket poller registration against Stop
	pollerMu sync.Mutex

	radioMu sync.Mutex
	radio   hardware.RadioInterface

	recorder  *trace.FileRecorder
	router    *gin.Engine
	webServer *http.Server
}

// NewCATDaemon builds the radio described by cfg and the web server
func NewCATDaemon(cfg *config.Config) (*CATDaemon, error) {
	var opts []transport.Option
	var recorder *trace.FileRecorder

	if cfg.Trace.File != "" {
		r, err := trace.NewFileRecorder(cfg.Trace.File)
		if err != nil {
			return nil, err
		}
		recorder = r
		opts = append(opts, transport.WithRecorder(r))
		logging.Infof("main", "Tracing CAT traffic to %s", cfg.Trace.File)
	}

	var radio hardware.RadioInterface
	if cfg.Radio.Simulate {
		radio = hardware.NewSimulatedFT1000MP(hardware.NewSimulator(), cfg.TransportConfig(), opts...)
	} else {
		radio = hardware.NewSerialFT1000MP(cfg.TransportConfig(), opts...)
	}

	d := newDaemon(cfg, radio)
	d.recorder = recorder
	return d, nil
}

func newDaemon(cfg *config.Config, radio hardware.RadioInterface) *CATDaemon {
	ctx, cancel := context.WithCancel(context.Background())
	d := &CATDaemon{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
		radio:  radio,
	}
	d.setupWebServer()
	return d
}

// Start opens the radio and starts the web server
func (d *CATDaemon) Start() error {
	logging.Info("main", "Starting ft1000catd daemon...")

	if err := d.withRadio(func(r hardware.RadioInterface) error { return r.Open() }); err != nil {
		return fmt.Errorf("failed to open radio: %w", err)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		logging.Infof("web", "Starting web server on %s", d.webServer.Addr)
		if err := d.webServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Errorf("web", "Web server error: %v", err)
		}
	}()

	return nil
}

// Stop shuts down the web server, closes the radio and waits for
// websocket pollers to exit
func (d *CATDaemon) Stop() error {
	logging.Info("main", "Stopping daemon...")

	d.pollerMu.Lock()
	d.cancel()
	d.pollerMu.Unlock()

	if d.webServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.webServer.Shutdown(ctx); err != nil {
			logging.Warnf("web", "Web server shutdown error: %v", err)
		}
	}

	d.wg.Wait()

	if err := d.withRadio(func(r hardware.RadioInterface) error { return r.Close() }); err != nil {
		logging.Warnf("main", "Radio close error: %v", err)
	}

	if d.recorder != nil {
		if err := d.recorder.Close(); err != nil {
			logging.Warnf("main", "Trace close error: %v", err)
		}
	}

	logging.Info("main", "Daemon stopped")
	return nil
}

// addPoller registers a websocket poller with the shutdown wait group. It
// returns false once Stop has begun.
func (d *CATDaemon) addPoller() bool {
	d.pollerMu.Lock()
	defer d.pollerMu.Unlock()
	if d.ctx.Err() != nil {
		return false
	}
	d.wg.Add(1)
	return true
}

// withRadio runs fn with exclusive access to the radio
func (d *CATDaemon) withRadio(fn func(hardware.RadioInterface) error) error {
	d.radioMu.Lock()
	defer d.radioMu.Unlock()
	return fn(d.radio)
}

func (d *CATDaemon) setupWebServer() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.GET("/info", d.handleGetInfo)
		api.GET("/status", d.handleGetStatus)
		api.GET("/status/both", d.handleGetBothStatus)
		api.GET("/flags", d.handleGetFlags)

		api.PUT("/vfo/:vfo/frequency", d.handleSetFrequency)
		api.PUT("/vfo/:vfo/mode", d.handleSetMode)
		api.PUT("/select-vfo", d.handleSelectVFO)
		api.POST("/copy-vfo", d.handleCopyVFO)

		api.PUT("/split", d.handleToggle("split", hardware.RadioInterface.SetSplit))
		api.PUT("/clarifier", d.handleToggle("clarifier", hardware.RadioInterface.SetClarifier))
		api.PUT("/clarifier/offset", d.handleSetClarifierOffset)
		api.PUT("/ptt", d.handleToggle("ptt", hardware.RadioInterface.SetPTT))

		api.POST("/memory/:channel/recall", d.handleMemory("recall", hardware.RadioInterface.RecallMemory))
		api.POST("/memory/:channel/store", d.handleMemory("store", hardware.RadioInterface.StoreMemory))
		api.POST("/memory/:channel/transfer", d.handleMemory("transfer", hardware.RadioInterface.TransferMemory))

		api.GET("/ws", d.handleStatusWebSocket)
	}

	d.router = router
	d.webServer = &http.Server{
		Addr:    d.config.ListenAddress(),
		Handler: router,
	}
}
