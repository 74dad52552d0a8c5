package server

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var hubYAML = `
Title: hub box
Length: 1
Width: 1
Height: 1
NodeSpace: 0.25
Material:
  Diffusivity: 0.2
  HeatTransfer: 1
  Conductivity: 50
  SpecificHeat: 100
  Density: 1
  Thickness: 1
BoundaryModel: flux
AirMean: 27
GroundTemp: 27
Integrator: explicit
Dt: 0.05
Horizon: 1
InitialTemp: 20
SnapshotStride: 10
Parallel: 1
`

func awaitReply(t *testing.T, h *Hub, want string) Msg {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case m := <-h.replies:
			if m.Type == want {
				return m
			}
			assert.NotEqual(t, "error", m.Type, m.Content)
		case <-deadline:
			t.Fatalf("no %q reply", want)
		}
	}
}

func TestHubLifecycle(t *testing.T) {
	h := NewHub(nil)

	h.Handle(Msg{Type: "status"})
	m := awaitReply(t, h, "status")
	assert.Equal(t, "Uninitialized", m.Content)

	h.Handle(Msg{Type: "start"})
	m = <-h.replies
	assert.Equal(t, "error", m.Type)

	h.Handle(Msg{Type: "configure", Content: hubYAML})
	m = awaitReply(t, h, "configured")
	assert.Equal(t, "hub box", m.Content)

	h.Handle(Msg{Type: "start"})
	awaitReply(t, h, "started")
	m = awaitReply(t, h, "completed")

	var summary RunSummary
	assert.NoError(t, json.Unmarshal([]byte(m.Content), &summary))
	assert.InDelta(t, 1.0, summary.FinalTime, 1e-9)
	assert.Equal(t, 4, len(summary.ZProfile))
	assert.Greater(t, summary.Mean, 20.0) // warming toward the air temperature

	h.Handle(Msg{Type: "status"})
	m = awaitReply(t, h, "status")
	assert.Equal(t, "Completed", m.Content)
}

// A client departing mid-run must not bring the process down: the run
// goroutine keeps pushing updates and its completion message after Close.
func TestHubCloseDuringRun(t *testing.T) {
	h := NewHub(nil)

	h.Handle(Msg{Type: "configure", Content: hubYAML})
	awaitReply(t, h, "configured")
	h.Handle(Msg{Type: "start"})
	awaitReply(t, h, "started")

	h.Close()

	deadline := time.Now().Add(10 * time.Second)
	for h.running.Load() {
		if time.Now().After(deadline) {
			t.Fatal("run did not finish after close")
		}
		time.Sleep(time.Millisecond)
	}
	// Late requests against a closed hub must not block or panic either
	h.Handle(Msg{Type: "status"})
}

func TestHubBadRequests(t *testing.T) {
	h := NewHub(nil)

	h.Handle(Msg{Type: "configure", Content: "Length: [not a number"})
	m := <-h.replies
	assert.Equal(t, "error", m.Type)

	h.Handle(Msg{Type: "bogus"})
	m = <-h.replies
	assert.Equal(t, "error", m.Type)
}
