package simulation

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/heatsim/hotbox/boundary"
	"github.com/heatsim/hotbox/grid"
	"github.com/heatsim/hotbox/integrate"
	"github.com/heatsim/hotbox/laplacian"
	"github.com/heatsim/hotbox/types"
	"github.com/heatsim/hotbox/utils"
)

// Snapshot is one recorded state of a run.
type Snapshot struct {
	Step int
	Time float64
	U    *grid.Field
}

// Result is the time-indexed output series of one run, ready for external
// reduction and plotting. The core never renders anything itself.
type Result struct {
	Snapshots []Snapshot
	FinalTime float64
}

// Final is the last recorded field.
func (r *Result) Final() *grid.Field { return r.Snapshots[len(r.Snapshots)-1].U }

// VolumeMeans reduces the series to (time, volume-mean) pairs.
func (r *Result) VolumeMeans() (times, means []float64) {
	times = make([]float64, len(r.Snapshots))
	means = make([]float64, len(r.Snapshots))
	for i, s := range r.Snapshots {
		times[i] = s.Time
		means[i] = s.U.Mean()
	}
	return
}

// Simulation owns one configured run. Lifecycle:
// Uninitialized -> Configured (New) -> Running (Run) -> Completed or
// Failed. A Failed simulation cannot be rerun; build a new one.
type Simulation struct {
	cfg    Config
	g      *grid.Grid
	op     *laplacian.Operator
	pm     *utils.PartitionMap
	blend  *boundary.DirichletBlend
	flux   *boundary.ConvectiveFlux
	status types.SimStatus
	log    *logrus.Entry
}

// New validates the full configuration and binds grid, material, boundary
// and source models. Every member of the InvalidConfiguration taxonomy is
// surfaced here, before any stepping.
func New(cfg Config) (*Simulation, error) {
	g, err := grid.New(cfg.L, cfg.W, cfg.H, cfg.Dx)
	if err != nil {
		return nil, err
	}
	if err = cfg.validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg: cfg,
		g:   g,
		op:  laplacian.New(g),
		log: logrus.WithField("sim", cfg.Title),
	}
	degree := cfg.Parallel
	if degree <= 0 {
		degree = runtime.NumCPU()
	}
	s.pm = utils.NewPartitionMap(degree, g.NumNodes())

	gf := cfg.groundFactor()
	switch cfg.BoundaryModel {
	case types.BM_DirichletBlend:
		beta := cfg.Material.Beta(g.Dx)
		s.blend = &boundary.DirichletBlend{
			BetaAir:    beta,
			BetaGround: beta * gf,
			AirTemp:    cfg.AirTemp,
			GroundTemp: cfg.GroundTemp,
		}
		err = s.blend.Validate()
	case types.BM_ConvectiveFlux:
		rate := cfg.Material.Rate()
		s.flux = &boundary.ConvectiveFlux{
			RateAir:    rate,
			RateGround: rate * gf,
			AirTemp:    cfg.AirTemp,
			GroundTemp: cfg.GroundTemp,
		}
		err = s.flux.Validate()
	}
	if err != nil {
		return nil, err
	}
	if vs, ok := cfg.Source.(interface{ Validate() error }); ok {
		if err = vs.Validate(); err != nil {
			return nil, err
		}
	}
	s.status = types.SIM_Configured
	return s, nil
}

func (s *Simulation) Grid() *grid.Grid        { return s.g }
func (s *Simulation) Status() types.SimStatus { return s.status }

// rhs assembles du/dt = alpha*Lap(u) + boundary flux + sources on the
// read-only snapshot u. out is fully overwritten.
func (s *Simulation) rhs(t float64, u, out *grid.Field) error {
	s.op.ApplyParallel(u, out, s.pm)
	floats.Scale(s.cfg.Material.Diffusivity, out.Data)
	if s.flux != nil {
		if err := s.flux.Accumulate(s.g, u, out, t); err != nil {
			return err
		}
	}
	if s.cfg.Solar != nil {
		if err := s.cfg.Solar.Accumulate(s.g, out, t); err != nil {
			return err
		}
	}
	if s.cfg.Source != nil {
		if err := s.cfg.Source.Accumulate(s.g, out, t); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) initialField() *grid.Field {
	if s.cfg.InitialField != nil {
		return s.cfg.InitialField.Copy()
	}
	u := grid.NewField(s.g)
	u.Fill(s.cfg.InitialTemp)
	return u
}

func (s *Simulation) stride() int {
	if s.cfg.SnapshotStride <= 0 {
		return 1
	}
	return s.cfg.SnapshotStride
}

// Run drives the configured integrator over the horizon and returns the
// snapshot series. A fresh field is allocated per invocation.
func (s *Simulation) Run() (*Result, error) {
	switch s.status {
	case types.SIM_Running:
		return nil, fmt.Errorf("%w: run already in progress", types.ErrInvalidConfiguration)
	case types.SIM_Failed:
		return nil, fmt.Errorf("%w: failed run must be reconfigured, not resumed", types.ErrInvalidConfiguration)
	}
	s.status = types.SIM_Running

	var (
		res *Result
		err error
	)
	if s.cfg.Integrator == types.IT_Adaptive {
		res, err = s.runAdaptive()
	} else {
		res, err = s.runExplicit()
	}
	if err != nil {
		s.status = types.SIM_Failed
		s.log.WithError(err).Error("run failed")
		return nil, err
	}
	s.status = types.SIM_Completed
	return res, nil
}

func (s *Simulation) runExplicit() (*Result, error) {
	nSteps := int(math.Ceil(s.cfg.Horizon / s.cfg.Dt))
	dt := s.cfg.Horizon / float64(nSteps)
	stepper, err := integrate.NewFixedStep(s.g, s.cfg.Material.Diffusivity, dt)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"steps": nSteps,
		"dt":    dt,
		"gamma": stepper.Gamma,
		"nodes": s.g.NumNodes(),
	}).Info("explicit run")

	u := s.initialField()
	if s.blend != nil {
		if err = s.blend.Apply(s.g, u, 0); err != nil {
			return nil, err
		}
	}
	next := grid.NewField(s.g)

	var post integrate.PostStep
	if s.blend != nil {
		post = func(t float64, v *grid.Field) error { return s.blend.Apply(s.g, v, t) }
	}

	res := &Result{Snapshots: []Snapshot{{Step: 0, Time: 0, U: u.Copy()}}}
	logEvery := nSteps / 10
	if logEvery == 0 {
		logEvery = 1
	}
	var t float64
	for step := 1; step <= nSteps; step++ {
		if err = stepper.Step(t, u, next, s.rhs, post); err != nil {
			return nil, err
		}
		u, next = next, u
		t = float64(step) * dt
		if i, j, k, bad := u.FirstNonFinite(); bad {
			return nil, &types.DivergenceError{Step: step, Time: t, I: i, J: j, K: k}
		}
		if step%s.stride() == 0 || step == nSteps {
			res.Snapshots = append(res.Snapshots, Snapshot{Step: step, Time: t, U: u.Copy()})
		}
		if s.cfg.OnStep != nil {
			s.cfg.OnStep(step, t, u)
		}
		if step%logEvery == 0 {
			s.log.WithFields(logrus.Fields{
				"step": step,
				"t":    t,
				"mean": u.Mean(),
				"max":  u.Max(),
			}).Debug("progress")
		}
	}
	res.FinalTime = t
	return res, nil
}

func (s *Simulation) runAdaptive() (*Result, error) {
	u := s.initialField()
	f := func(t float64, y, dydt []float64) error {
		uw := &grid.Field{Nx: s.g.Nx, Ny: s.g.Ny, Nz: s.g.Nz, Data: y}
		dw := &grid.Field{Nx: s.g.Nx, Ny: s.g.Ny, Nz: s.g.Nz, Data: dydt}
		return s.rhs(t, uw, dw)
	}
	a := &integrate.Adaptive{ATol: s.cfg.ATol, RTol: s.cfg.RTol}
	s.log.WithFields(logrus.Fields{
		"horizon": s.cfg.Horizon,
		"nodes":   s.g.NumNodes(),
	}).Info("adaptive run")

	sol, err := a.Integrate(f, 0, s.cfg.Horizon, u.Data)
	if err != nil {
		var nf *integrate.NonFiniteError
		if errors.As(err, &nf) {
			i, j, k := s.g.Coords(nf.Index)
			return nil, &types.DivergenceError{Step: nf.Steps, Time: nf.Time, I: i, J: j, K: k}
		}
		return nil, err
	}
	res := &Result{FinalTime: sol.T[len(sol.T)-1]}
	last := len(sol.T) - 1
	for i := range sol.T {
		if s.cfg.OnStep != nil && i > 0 {
			s.cfg.OnStep(i, sol.T[i], &grid.Field{Nx: s.g.Nx, Ny: s.g.Ny, Nz: s.g.Nz, Data: sol.Y[i]})
		}
		if i%s.stride() != 0 && i != last {
			continue
		}
		v := &grid.Field{Nx: s.g.Nx, Ny: s.g.Ny, Nz: s.g.Nz,
			Data: append([]float64(nil), sol.Y[i]...)}
		res.Snapshots = append(res.Snapshots, Snapshot{Step: i, Time: sol.T[i], U: v})
	}
	return res, nil
}
