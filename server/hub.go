package server

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/heatsim/hotbox/InputParameters"
	"github.com/heatsim/hotbox/grid"
	"github.com/heatsim/hotbox/simulation"
	"github.com/heatsim/hotbox/types"
)

// Msg is the request/response envelope on the wire. Requests carry a type
// of "configure", "start", "stop" or "status"; responses echo a matching
// past-tense type or "error".
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// StepUpdate is streamed to the client while a run is in progress.
type StepUpdate struct {
	Step int     `json:"step"`
	Time float64 `json:"time"`
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// RunSummary closes a streamed run: the final volume mean and the vertical
// profile of layer means, ground to top.
type RunSummary struct {
	FinalTime float64   `json:"finalTime"`
	Mean      float64   `json:"mean"`
	ZProfile  []float64 `json:"zProfile"`
}

// Hub owns one websocket client and at most one simulation at a time.
// Requests are handled on the read goroutine; all writes to the connection
// go through the replies channel and a single writer goroutine. The replies
// channel is never closed: a run goroutine may outlive the client, so
// shutdown is signalled through done and every sender selects on it.
type Hub struct {
	conn    *websocket.Conn
	sim     *simulation.Simulation
	replies chan Msg
	done    chan struct{}
	running atomic.Bool
	muted   atomic.Bool
	log     *logrus.Entry
}

func NewHub(conn *websocket.Conn) *Hub {
	return &Hub{
		conn:    conn,
		replies: make(chan Msg, 64),
		done:    make(chan struct{}),
		log:     logrus.WithField("component", "hub"),
	}
}

// Run is the writer loop. It returns when the hub shuts down.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return
		case reply := <-h.replies:
			if err := h.conn.WriteJSON(&reply); err != nil {
				h.log.WithError(err).Warn("write failed")
				return
			}
		}
	}
}

// Close releases the writer and any in-flight senders. An in-progress run
// keeps stepping to completion; its messages are discarded.
func (h *Hub) Close() { close(h.done) }

// push never blocks the stepping loop; updates to a slow or departed
// client are dropped.
func (h *Hub) push(m Msg) {
	select {
	case h.replies <- m:
	case <-h.done:
	default:
	}
}

// send blocks until the writer takes the message or the hub shuts down.
func (h *Hub) send(m Msg) {
	select {
	case h.replies <- m:
	case <-h.done:
	}
}

func (h *Hub) pushError(err error) {
	h.send(Msg{Type: "error", Content: err.Error()})
}

// Handle dispatches one client request.
func (h *Hub) Handle(msg Msg) {
	switch msg.Type {
	case "configure":
		h.configure(msg.Content)
	case "start":
		h.start()
	case "stop":
		// Stops the update stream, not the computation
		h.muted.Store(true)
		h.send(Msg{Type: "stopped"})
	case "status":
		status := types.SIM_Uninitialized
		if h.sim != nil {
			status = h.sim.Status()
		}
		h.send(Msg{Type: "status", Content: status.String()})
	default:
		h.pushError(fmt.Errorf("%w: unknown request %q", types.ErrInvalidParameter, msg.Type))
	}
}

func (h *Hub) configure(content string) {
	if h.running.Load() {
		h.pushError(fmt.Errorf("%w: run in progress", types.ErrInvalidConfiguration))
		return
	}
	var sp InputParameters.SimParameters
	if err := sp.Parse([]byte(content)); err != nil {
		h.pushError(err)
		return
	}
	cfg := sp.Config()
	cfg.OnStep = func(step int, t float64, u *grid.Field) {
		if h.muted.Load() {
			return
		}
		b, _ := json.Marshal(StepUpdate{
			Step: step, Time: t,
			Mean: u.Mean(), Min: u.Min(), Max: u.Max(),
		})
		h.push(Msg{Type: "update", Content: string(b)})
	}
	sim, err := simulation.New(cfg)
	if err != nil {
		h.pushError(err)
		return
	}
	h.sim = sim
	h.send(Msg{Type: "configured", Content: cfg.Title})
}

func (h *Hub) start() {
	if h.sim == nil {
		h.pushError(fmt.Errorf("%w: configure before start", types.ErrInvalidConfiguration))
		return
	}
	if !h.running.CompareAndSwap(false, true) {
		h.pushError(fmt.Errorf("%w: run already in progress", types.ErrInvalidConfiguration))
		return
	}
	h.muted.Store(false)
	h.send(Msg{Type: "started"})
	go func() {
		defer h.running.Store(false)
		res, err := h.sim.Run()
		if err != nil {
			h.pushError(err)
			return
		}
		final := res.Final()
		summary := RunSummary{
			FinalTime: res.FinalTime,
			Mean:      final.Mean(),
			ZProfile:  make([]float64, final.Nz),
		}
		for k := 0; k < final.Nz; k++ {
			summary.ZProfile[k] = final.SliceMeanZ(k)
		}
		b, err := json.Marshal(summary)
		if err != nil {
			h.pushError(err)
			return
		}
		h.send(Msg{Type: "completed", Content: string(b)})
	}()
}
