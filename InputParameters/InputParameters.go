package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/heatsim/hotbox/boundary"
	"github.com/heatsim/hotbox/simulation"
	"github.com/heatsim/hotbox/solar"
	"github.com/heatsim/hotbox/types"
)

// Parameters obtained from the YAML input file
type SimParameters struct {
	Title string `yaml:"Title"`
	// Box geometry in meters
	Length    float64            `yaml:"Length"`
	Width     float64            `yaml:"Width"`
	Height    float64            `yaml:"Height"`
	NodeSpace float64            `yaml:"NodeSpace"`
	Material  MaterialParameters `yaml:"Material"`
	// "blend" or "flux"
	BoundaryModel string  `yaml:"BoundaryModel"`
	AirMean       float64 `yaml:"AirMean"`
	// Zero amplitude means a constant air temperature
	AirAmplitude float64 `yaml:"AirAmplitude"`
	AirPeakHour  float64 `yaml:"AirPeakHour"`
	GroundTemp   float64 `yaml:"GroundTemp"`
	GroundFactor float64 `yaml:"GroundFactor"`
	// Zero intensity disables the solar source
	SolarIntensity    float64 `yaml:"SolarIntensity"`
	Latitude          float64 `yaml:"Latitude"`
	DaysSinceSolstice float64 `yaml:"DaysSinceSolstice"`
	// "explicit" or "adaptive"
	Integrator     string  `yaml:"Integrator"`
	Dt             float64 `yaml:"Dt"`
	Horizon        float64 `yaml:"Horizon"`
	ATol           float64 `yaml:"ATol"`
	RTol           float64 `yaml:"RTol"`
	InitialTemp    float64 `yaml:"InitialTemp"`
	SnapshotStride int     `yaml:"SnapshotStride"`
	Parallel       int     `yaml:"Parallel"`
}

type MaterialParameters struct {
	Diffusivity  float64 `yaml:"Diffusivity"`
	HeatTransfer float64 `yaml:"HeatTransfer"`
	Conductivity float64 `yaml:"Conductivity"`
	SpecificHeat float64 `yaml:"SpecificHeat"`
	Density      float64 `yaml:"Density"`
	Thickness    float64 `yaml:"Thickness"`
}

func (sp *SimParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, sp)
}

func (sp *SimParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sp.Title)
	fmt.Printf("%8.3f x %.3f x %.3f\t= Box LxWxH [m]\n", sp.Length, sp.Width, sp.Height)
	fmt.Printf("%8.4f\t\t= Node Spacing [m]\n", sp.NodeSpace)
	fmt.Printf("[%s]\t\t\t= Boundary Model\n", sp.BoundaryModel)
	fmt.Printf("[%s]\t\t= Integrator\n", sp.Integrator)
	fmt.Printf("%8.2f\t\t= Horizon [s]\n", sp.Horizon)
	fmt.Printf("%8.2f\t\t= Air Mean Temp [C]\n", sp.AirMean)
	if sp.SolarIntensity > 0 {
		fmt.Printf("%8.1f\t\t= Solar Intensity [W/m2]\n", sp.SolarIntensity)
		fmt.Printf("%8.2f\t\t= Latitude [deg]\n", sp.Latitude)
		fmt.Printf("%8.1f\t\t= Days Since Winter Solstice\n", sp.DaysSinceSolstice)
	}
}

// Config maps the file parameters onto a runnable configuration. The
// resulting Config is validated by simulation.New, not here.
func (sp *SimParameters) Config() simulation.Config {
	mat := simulation.Material{
		Diffusivity:  sp.Material.Diffusivity,
		HeatTransfer: sp.Material.HeatTransfer,
		Conductivity: sp.Material.Conductivity,
		SpecificHeat: sp.Material.SpecificHeat,
		Density:      sp.Material.Density,
		Thickness:    sp.Material.Thickness,
	}
	var airTemp boundary.TempFunc
	if sp.AirAmplitude != 0 {
		airTemp = boundary.SinusoidalDay(sp.AirMean, sp.AirAmplitude, sp.AirPeakHour*3600)
	} else {
		airTemp = boundary.Constant(sp.AirMean)
	}
	cfg := simulation.Config{
		Title: sp.Title,
		L:     sp.Length, W: sp.Width, H: sp.Height, Dx: sp.NodeSpace,
		Material:       mat,
		BoundaryModel:  types.NewBoundaryModel(sp.BoundaryModel),
		AirTemp:        airTemp,
		GroundTemp:     boundary.Constant(sp.GroundTemp),
		GroundFactor:   sp.GroundFactor,
		Integrator:     types.NewIntegratorType(sp.Integrator),
		Dt:             sp.Dt,
		Horizon:        sp.Horizon,
		ATol:           sp.ATol,
		RTol:           sp.RTol,
		InitialTemp:    sp.InitialTemp,
		SnapshotStride: sp.SnapshotStride,
		Parallel:       sp.Parallel,
	}
	if sp.SolarIntensity > 0 {
		cfg.Solar = &solar.Model{
			LatitudeDeg:       sp.Latitude,
			DaysSinceSolstice: sp.DaysSinceSolstice,
			Intensity:         sp.SolarIntensity,
			Coef:              mat.SourceCoef(),
		}
	}
	return cfg
}
