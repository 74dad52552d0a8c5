package boundary

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heatsim/hotbox/grid"
	"github.com/heatsim/hotbox/types"
)

func TestDirichletBlendLimits(t *testing.T) {
	g, err := grid.New(4, 4, 4, 1)
	assert.NoError(t, err)
	u := grid.NewField(g)
	for n := range u.Data {
		u.Data[n] = 20 + float64(n%7)
	}

	// beta = 0 reduces to a zero-gradient copy of the adjacent interior
	b := &DirichletBlend{BetaAir: 0, BetaGround: 0, AirTemp: Constant(35), GroundTemp: Constant(15)}
	assert.NoError(t, b.Validate())
	un := u.Copy()
	assert.NoError(t, b.Apply(g, un, 0))
	assert.Equal(t, un.At(1, 2, 1), un.At(0, 2, 1))
	assert.Equal(t, un.At(2, 2, 2), un.At(3, 2, 2))
	assert.Equal(t, un.At(2, 1, 2), un.At(2, 0, 2))

	// large beta pins the surface to the external temperature
	b = &DirichletBlend{BetaAir: 1e6, BetaGround: 1e6, AirTemp: Constant(35), GroundTemp: Constant(15)}
	un = u.Copy()
	assert.NoError(t, b.Apply(g, un, 0))
	assert.InDelta(t, 35, un.At(0, 2, 1), 1e-3)
	assert.InDelta(t, 35, un.At(2, 2, 3), 1e-3)
	assert.InDelta(t, 15, un.At(2, 2, 0), 1e-3)

	// interior untouched either way
	assert.Equal(t, u.At(1, 1, 1), un.At(1, 1, 1))
	assert.Equal(t, u.At(2, 2, 2), un.At(2, 2, 2))
}

func TestDirichletBlendValue(t *testing.T) {
	g, _ := grid.New(4, 4, 4, 1)
	u := grid.NewField(g)
	u.Fill(20)
	b := &DirichletBlend{BetaAir: 0.5, BetaGround: 2, AirTemp: Constant(30), GroundTemp: Constant(10)}
	assert.NoError(t, b.Apply(g, u, 0))
	// (20 + 0.5*30)/1.5 and (20 + 2*10)/3
	assert.InDelta(t, 70.0/3, u.At(0, 2, 1), 1e-12)
	assert.InDelta(t, 40.0/3, u.At(2, 2, 0), 1e-12)
}

func TestConvectiveFluxAccumulate(t *testing.T) {
	g, _ := grid.New(4, 4, 4, 1)
	u := grid.NewField(g)
	u.Fill(20)
	rhs := grid.NewField(g)

	b := &ConvectiveFlux{RateAir: 0.25, RateGround: 0.5, AirTemp: Constant(30), GroundTemp: Constant(10)}
	assert.NoError(t, b.Validate())
	assert.NoError(t, b.Accumulate(g, u, rhs, 0))

	assert.InDelta(t, 0.25*(30-20), rhs.At(0, 2, 1), 1e-12)   // west face
	assert.InDelta(t, 0.25*(30-20), rhs.At(2, 2, 3), 1e-12)   // top face
	assert.InDelta(t, 0.5*(10-20), rhs.At(2, 2, 0), 1e-12)    // ground face
	assert.InDelta(t, 0.25*(30-20), rhs.At(0, 0, 2), 1e-12)   // edge: one contribution
	assert.InDelta(t, 0.5*(10-20), rhs.At(0, 0, 0), 1e-12)    // ground corner
	assert.Equal(t, 0.0, rhs.At(1, 1, 1))                     // interior untouched
	assert.Equal(t, 0.0, rhs.At(2, 2, 2))
}

func TestValidateRejectsBadParameters(t *testing.T) {
	bad := &DirichletBlend{BetaAir: -0.1, AirTemp: Constant(20), GroundTemp: Constant(20)}
	assert.ErrorIs(t, bad.Validate(), types.ErrInvalidParameter)

	nan := &ConvectiveFlux{RateAir: 0.1, RateGround: 0.1,
		AirTemp: func(float64) float64 { return math.NaN() }, GroundTemp: Constant(20)}
	assert.ErrorIs(t, nan.Validate(), types.ErrExternalFunction)

	nilFn := &ConvectiveFlux{RateAir: 0.1, RateGround: 0.1, AirTemp: Constant(20)}
	assert.ErrorIs(t, nilFn.Validate(), types.ErrInvalidParameter)

	neg := &ConvectiveFlux{RateAir: 0.1, RateGround: -1, AirTemp: Constant(20), GroundTemp: Constant(20)}
	assert.ErrorIs(t, neg.Validate(), types.ErrInvalidParameter)
}

func TestSinusoidalDay(t *testing.T) {
	fn := SinusoidalDay(25, 8, 15*3600) // peak at 15:00
	assert.InDelta(t, 33, fn(15*3600), 1e-9)
	assert.InDelta(t, 17, fn(3*3600), 1e-9)
	assert.InDelta(t, fn(0), fn(86400), 1e-9) // 24h period
}
