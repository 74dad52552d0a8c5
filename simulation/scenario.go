package simulation

import (
	"github.com/heatsim/hotbox/boundary"
	"github.com/heatsim/hotbox/solar"
	"github.com/heatsim/hotbox/types"
)

// AluminumBox is the wall material of the toy hot-box: thin aluminum skin
// in still air.
var AluminumBox = Material{
	Diffusivity:  22.39e-6, // air-filled interior, m^2/s
	HeatTransfer: 1,        // metal to air, W/(m^2 K)
	Conductivity: 50,       // W/(m K)
	SpecificHeat: 1000,     // J/(kg K)
	Density:      3000,     // kg/m^3
	Thickness:    0.002,    // m
}

// ToyHotBox is the canned hot-box scenario: a 3 x 2 x 1.5 m closed box in
// 27 C air with the convective-flux boundary and the astronomical solar
// source, simulated for ten hours starting at solar midnight.
func ToyHotBox(latitudeDeg, daysSinceSolstice float64) Config {
	return Config{
		Title:    "toy hot box",
		L:        3,
		W:        2,
		H:        1.5,
		Dx:       0.05,
		Material: AluminumBox,

		BoundaryModel: types.BM_ConvectiveFlux,
		AirTemp:       boundary.Constant(27),
		GroundTemp:    boundary.Constant(27),

		Solar: &solar.Model{
			LatitudeDeg:       latitudeDeg,
			DaysSinceSolstice: daysSinceSolstice,
			Intensity:         1000, // W/m^2
			Coef:              AluminumBox.SourceCoef(),
		},

		Integrator:     types.IT_Explicit,
		Dt:             15,
		Horizon:        10 * 3600,
		InitialTemp:    27,
		SnapshotStride: 60,
	}
}
