package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heatsim/hotbox/types"
)

var testYAML = `
Title: south wall box
Length: 3
Width: 2
Height: 1.5
NodeSpace: 0.05
Material:
  Diffusivity: 22.39e-6
  HeatTransfer: 1
  Conductivity: 50
  SpecificHeat: 1000
  Density: 3000
  Thickness: 0.002
BoundaryModel: flux
AirMean: 27
AirAmplitude: 8
AirPeakHour: 15
GroundTemp: 27
SolarIntensity: 1000
Latitude: 35.6
DaysSinceSolstice: 172
Integrator: explicit
Dt: 15
Horizon: 86400
InitialTemp: 27
SnapshotStride: 60
`

func TestParseAndConfig(t *testing.T) {
	var sp SimParameters
	err := sp.Parse([]byte(testYAML))
	assert.NoError(t, err)
	assert.Equal(t, "south wall box", sp.Title)
	assert.InDelta(t, 22.39e-6, sp.Material.Diffusivity, 1e-12)

	cfg := sp.Config()
	assert.Equal(t, types.BM_ConvectiveFlux, cfg.BoundaryModel)
	assert.Equal(t, types.IT_Explicit, cfg.Integrator)
	assert.NotNil(t, cfg.Solar)
	assert.InDelta(t, 35.6, cfg.Solar.LatitudeDeg, 1e-12)
	// Peak air temperature at 15:00
	assert.InDelta(t, 35, cfg.AirTemp(15*3600), 1e-9)
	assert.InDelta(t, 1.0/(1000*3000*0.002), cfg.Solar.Coef, 1e-15)
}

func TestConstantAirWhenNoAmplitude(t *testing.T) {
	sp := SimParameters{AirMean: 12}
	cfg := sp.Config()
	assert.Equal(t, 12.0, cfg.AirTemp(0))
	assert.Equal(t, 12.0, cfg.AirTemp(43200))
	assert.Nil(t, cfg.Solar)
}
