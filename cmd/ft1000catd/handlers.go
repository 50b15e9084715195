package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dougsko/ft1000cat/pkg/hardware"
	"github.com/dougsko/ft1000cat/pkg/logging"
	"github.com/dougsko/ft1000cat/pkg/protocol"
	"github.com/dougsko/ft1000cat/pkg/transport"
)

// errorStatus maps radio errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case hardware.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, transport.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, transport.ErrConnection):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logging.Errorf("api", "%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func vfoParam(c *gin.Context) (protocol.VFO, bool) {
	vfo, valid := protocol.ParseVFO(c.Param("vfo"))
	if !valid {
		badRequest(c, "vfo must be A or B")
	}
	return vfo, valid
}

// handleGetInfo returns the radio description and connection state
func (d *CATDaemon) handleGetInfo(c *gin.Context) {
	var info hardware.RadioInfo
	var connected bool
	d.withRadio(func(r hardware.RadioInterface) error {
		info = r.GetRadioInfo()
		connected = r.IsConnected()
		return nil
	})

	c.JSON(http.StatusOK, gin.H{
		"version":   Version,
		"radio":     info,
		"connected": connected,
	})
}

// handleGetStatus returns the active VFO
func (d *CATDaemon) handleGetStatus(c *gin.Context) {
	var st protocol.VFOStatus
	err := d.withRadio(func(r hardware.RadioInterface) (err error) {
		st, err = r.GetVFOStatus()
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// BothStatus is the body of /status/both and of websocket updates
type BothStatus struct {
	Active   protocol.VFOStatus  `json:"active"`
	Inactive protocol.VFOStatus  `json:"inactive"`
	Flags    *protocol.RadioFlags `json:"flags,omitempty"`
	Time     time.Time           `json:"time"`
}

func (d *CATDaemon) readBoth(withFlags bool) (BothStatus, error) {
	var out BothStatus
	err := d.withRadio(func(r hardware.RadioInterface) error {
		active, inactive, err := r.GetBothVFOStatus()
		if err != nil {
			return err
		}
		out.Active, out.Inactive = active, inactive
		if withFlags {
			flags, err := r.ReadFlags()
			if err != nil {
				return err
			}
			out.Flags = &flags
		}
		return nil
	})
	out.Time = time.Now().UTC()
	return out, err
}

// handleGetBothStatus returns both VFOs, active first
func (d *CATDaemon) handleGetBothStatus(c *gin.Context) {
	st, err := d.readBoth(false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// handleGetFlags returns the status flags
func (d *CATDaemon) handleGetFlags(c *gin.Context) {
	var flags protocol.RadioFlags
	err := d.withRadio(func(r hardware.RadioInterface) (err error) {
		flags, err = r.ReadFlags()
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flags)
}

// handleSetFrequency sets one VFO's frequency
func (d *CATDaemon) handleSetFrequency(c *gin.Context) {
	vfo, valid := vfoParam(c)
	if !valid {
		return
	}

	var req struct {
		Frequency *int `json:"frequency" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	err := d.withRadio(func(r hardware.RadioInterface) error {
		return r.SetFrequency(vfo, *req.Frequency)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	logging.Infof("api", "VFO-%s frequency set to %d Hz", vfo, *req.Frequency)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"vfo":       vfo.String(),
		"frequency": *req.Frequency,
	})
}

// handleSetMode sets one VFO's mode
func (d *CATDaemon) handleSetMode(c *gin.Context) {
	vfo, valid := vfoParam(c)
	if !valid {
		return
	}

	var req struct {
		Mode string `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	err := d.withRadio(func(r hardware.RadioInterface) error {
		return r.SetModeFor(vfo, req.Mode)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"vfo":     vfo.String(),
		"mode":    req.Mode,
	})
}

// handleSelectVFO switches the active VFO
func (d *CATDaemon) handleSelectVFO(c *gin.Context) {
	var req struct {
		VFO string `json:"vfo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	vfo, valid := protocol.ParseVFO(req.VFO)
	if !valid {
		badRequest(c, "vfo must be A or B")
		return
	}

	if err := d.withRadio(func(r hardware.RadioInterface) error { return r.SelectVFO(vfo) }); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

// handleCopyVFO copies VFO-A to VFO-B
func (d *CATDaemon) handleCopyVFO(c *gin.Context) {
	if err := d.withRadio(hardware.RadioInterface.CopyVFOAToB); err != nil {
		respondError(c, err)
		return
	}
	ok(c)
}

// handleToggle builds a handler for an on/off setting
func (d *CATDaemon) handleToggle(name string, set func(hardware.RadioInterface, bool) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			On *bool `json:"on" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		err := d.withRadio(func(r hardware.RadioInterface) error { return set(r, *req.On) })
		if err != nil {
			respondError(c, err)
			return
		}

		logging.Infof("api", "%s set to %v", name, *req.On)
		c.JSON(http.StatusOK, gin.H{"success": true, name: *req.On})
	}
}

// handleSetClarifierOffset sets the clarifier offset in Hz
func (d *CATDaemon) handleSetClarifierOffset(c *gin.Context) {
	var req struct {
		Offset *int `json:"offset" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	err := d.withRadio(func(r hardware.RadioInterface) error { return r.SetClarifierOffset(*req.Offset) })
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "offset": *req.Offset})
}

// handleMemory builds a handler for a memory channel operation
func (d *CATDaemon) handleMemory(name string, op func(hardware.RadioInterface, int) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		channel, err := strconv.Atoi(c.Param("channel"))
		if err != nil {
			badRequest(c, "channel must be a number")
			return
		}

		if err := d.withRadio(func(r hardware.RadioInterface) error { return op(r, channel) }); err != nil {
			respondError(c, err)
			return
		}

		logging.Infof("api", "memory %s channel %d", name, channel)
		c.JSON(http.StatusOK, gin.H{"success": true, "channel": channel})
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleStatusWebSocket pushes both-VFO status and flags every poll
// interval until the client disconnects or the daemon stops
func (d *CATDaemon) handleStatusWebSocket(c *gin.Context) {
	if !d.addPoller() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "daemon is shutting down"})
		return
	}
	defer d.wg.Done()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warnf("web", "WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	logging.Info("web", "Status WebSocket client connected")
	defer logging.Info("web", "Status WebSocket client disconnected")

	// reads only detect the client going away
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(d.config.PollInterval())
	defer ticker.Stop()

	send := func() bool {
		st, err := d.readBoth(true)
		if err != nil {
			return conn.WriteJSON(gin.H{"error": err.Error(), "time": time.Now().UTC()}) == nil
		}
		return conn.WriteJSON(st) == nil
	}

	if !send() {
		return
	}
	for {
		select {
		case <-d.ctx.Done():
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			return
		case <-gone:
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}
