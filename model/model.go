// Package model owns the restored scene-model state: an opaque named-tensor
// parameter set plus the evaluation-time schedule values that condition it.
package model

// Params is an opaque named-tensor map. The sampling pipeline never
// interprets its contents; only the injected scene-model capability does.
type Params map[string][]float64

func (p Params) clone() Params {
	out := make(Params, len(p))
	for name, values := range p {
		cp := make([]float64, len(values))
		copy(cp, values)
		out[name] = cp
	}
	return out
}

// State bundles the model parameters with the warp-alpha schedule value and
// the optimizer step recorded at checkpoint time. It is restored once and
// never mutated afterwards; evaluation is read-only.
type State struct {
	Params    Params
	WarpAlpha float64
	Step      uint64
}

// Create an empty state suitable for passing to Restore.
func NewState() State {
	return State{Params: Params{}}
}

// Replicate produces one identical copy of the state's parameters per
// compute device so devices can evaluate in parallel without sharing.
func Replicate(state State, devices int) []Params {
	replicas := make([]Params, devices)
	for i := range replicas {
		replicas[i] = state.Params.clone()
	}
	return replicas
}
