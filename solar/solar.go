package solar

import (
	"fmt"
	"math"

	"github.com/heatsim/hotbox/grid"
	"github.com/heatsim/hotbox/types"
)

const (
	// OmegaDay is the angular rate of Earth's rotation, rad/s.
	OmegaDay = 2 * math.Pi / 86400
	// OmegaYear is the angular rate of the seasonal cycle, rad/day.
	OmegaYear = 2 * math.Pi / 365.25
	// MaxTilt is Earth's axial tilt in radians.
	MaxTilt = 23.5 * math.Pi / 180
)

// Model computes the sun direction in the site's local frame and the
// incident power density it deposits on the box faces. Everything is a
// function of explicit inputs (t, days since solstice, latitude); there is
// no ambient calendar state, so sweeps across latitude can run in parallel.
//
// Conventions, fixed once for the whole model:
//   - t is simulation time in seconds, t=0 at local solar midnight of the
//     reference day;
//   - DaysSinceSolstice counts from the winter solstice, so the reference
//     day 0 has the year's shortest day at positive latitudes;
//   - RayUp/RaySouth/RayEast are components of the sun-ray direction R
//     (pointing from sun toward ground); the site is illuminated when
//     r.R < 0, i.e. RayUp < 0.
type Model struct {
	LatitudeDeg       float64
	DaysSinceSolstice float64
	Intensity         float64 // I0, peak solar intensity, W/m^2
	Coef              float64 // A = 1/(c*rho*d_eff), folds material response in
}

// SunState is the sun geometry at one instant.
type SunState struct {
	Declination float64 // delta(T), radians
	RayUp       float64 // R . local vertical
	RaySouth    float64 // R . local south
	RayEast     float64 // R . local east
	Daylight    bool
}

// FacePower is the incident power density per candidate face. The ground
// face never receives sun. At most one of {North, South} and one of
// {East, West} is nonzero, and Top is nonzero iff Daylight holds.
type FacePower struct {
	Top, North, South, East, West float64
}

func (m *Model) Validate() error {
	if m.Intensity < 0 || m.Coef < 0 {
		return fmt.Errorf("%w: solar intensity %g and coefficient %g must be non-negative",
			types.ErrInvalidParameter, m.Intensity, m.Coef)
	}
	if m.LatitudeDeg < -90 || m.LatitudeDeg > 90 {
		return fmt.Errorf("%w: latitude %g out of range", types.ErrInvalidParameter, m.LatitudeDeg)
	}
	return nil
}

// Declination is the sun's declination on day T since the winter solstice:
// -MaxTilt*cos(OmegaYear*T), so T=0 gives the most negative value.
func (m *Model) Declination(tDays float64) float64 {
	return -MaxTilt * math.Cos(OmegaYear*tDays)
}

// Sun evaluates the sun geometry at simulation time t. The hour angle is
// zero at local solar noon; the declination advances continuously with t.
func (m *Model) Sun(t float64) SunState {
	var (
		lat   = m.LatitudeDeg * math.Pi / 180
		days  = m.DaysSinceSolstice + t/86400
		delta = m.Declination(days)
		h     = OmegaDay*t - math.Pi // t=0 is midnight
	)
	// Earth->sun unit vector dotted with the local frame
	var (
		up    = math.Cos(lat)*math.Cos(h)*math.Cos(delta) + math.Sin(lat)*math.Sin(delta)
		south = math.Sin(lat)*math.Cos(h)*math.Cos(delta) - math.Cos(lat)*math.Sin(delta)
		east  = -math.Sin(h) * math.Cos(delta)
	)
	// The ray direction is the negation; daylight iff r.R < 0
	return SunState{
		Declination: delta,
		RayUp:       -up,
		RaySouth:    -south,
		RayEast:     -east,
		Daylight:    -up < 0,
	}
}

// FacePower derives the per-face incident power density A*I0*dot^2 at time
// t. Opposite faces are exclusive: the sign of the horizontal ray
// components selects which of each pair is lit.
func (m *Model) FacePower(t float64) (fp FacePower) {
	s := m.Sun(t)
	if !s.Daylight {
		return
	}
	AI := m.Coef * m.Intensity
	fp.Top = AI * s.RayUp * s.RayUp
	if s.RaySouth < 0 {
		// Sun stands to the south, lighting the south wall
		fp.South = AI * s.RaySouth * s.RaySouth
	} else {
		fp.North = AI * s.RaySouth * s.RaySouth
	}
	if s.RayEast < 0 {
		fp.East = AI * s.RayEast * s.RayEast
	} else {
		fp.West = AI * s.RayEast * s.RayEast
	}
	return
}

// DayLength is the closed-form daylight duration in seconds at the given
// latitude and declination: 2*arccos(-tan(delta)*tan(lat))/OmegaDay,
// saturating at polar day and polar night.
func DayLength(latitudeDeg, declination float64) float64 {
	x := -math.Tan(declination) * math.Tan(latitudeDeg*math.Pi/180)
	if x <= -1 {
		return 86400
	}
	if x >= 1 {
		return 0
	}
	return 2 * math.Acos(x) / OmegaDay
}

// Accumulate adds the solar source term for time t into rhs. Power lands on
// the full node set of each lit face; nodes shared between two lit faces
// receive both contributions. The ground face is never lit.
func (m *Model) Accumulate(g *grid.Grid, rhs *grid.Field, t float64) error {
	fp := m.FacePower(t)
	var (
		nx = g.Nx
		ny = g.Ny
		nz = g.Nz
	)
	if fp.Top > 0 {
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				rhs.Data[g.Index(i, j, nz-1)] += fp.Top
			}
		}
	}
	if fp.South > 0 || fp.North > 0 {
		p, j := fp.South, 0
		if fp.North > 0 {
			p, j = fp.North, ny-1
		}
		for i := 0; i < nx; i++ {
			for k := 0; k < nz; k++ {
				rhs.Data[g.Index(i, j, k)] += p
			}
		}
	}
	if fp.East > 0 || fp.West > 0 {
		p, i := fp.East, nx-1
		if fp.West > 0 {
			p, i = fp.West, 0
		}
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				rhs.Data[g.Index(i, j, k)] += p
			}
		}
	}
	return nil
}
