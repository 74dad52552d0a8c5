package types

// BoundaryModel selects how boundary physics enters the update: as a
// post-step overwrite of the surface nodes (Robin blend) or as a flux
// contribution on the ODE right-hand side.
type BoundaryModel uint8

const (
	BM_None BoundaryModel = iota
	BM_DirichletBlend
	BM_ConvectiveFlux
)

var BoundaryModelNameMap = map[string]BoundaryModel{
	"blend":      BM_DirichletBlend,
	"dirichlet":  BM_DirichletBlend,
	"flux":       BM_ConvectiveFlux,
	"convective": BM_ConvectiveFlux,
}

func NewBoundaryModel(name string) BoundaryModel {
	if bm, ok := BoundaryModelNameMap[name]; ok {
		return bm
	}
	return BM_None
}

type IntegratorType uint8

const (
	IT_Explicit IntegratorType = iota
	IT_Adaptive
)

var IntegratorNameMap = map[string]IntegratorType{
	"explicit": IT_Explicit,
	"euler":    IT_Explicit,
	"adaptive": IT_Adaptive,
	"rk45":     IT_Adaptive,
}

func NewIntegratorType(name string) IntegratorType {
	if it, ok := IntegratorNameMap[name]; ok {
		return it
	}
	return IT_Explicit
}

// SimStatus tracks the lifecycle of one simulation run. There is no
// transition out of SIM_Failed; a failed run must be reconfigured.
type SimStatus uint8

const (
	SIM_Uninitialized SimStatus = iota
	SIM_Configured
	SIM_Running
	SIM_Completed
	SIM_Failed
)

func (s SimStatus) String() string {
	switch s {
	case SIM_Configured:
		return "Configured"
	case SIM_Running:
		return "Running"
	case SIM_Completed:
		return "Completed"
	case SIM_Failed:
		return "Failed"
	default:
		return "Uninitialized"
	}
}
