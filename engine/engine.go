package engine

import (
	"time"

	"github.com/banachtech/volfit/model"
)

// OptionType is +1 for calls, -1 for puts, so payoff formulas can use it as
// a sign.
type OptionType int

const (
	Call OptionType = 1
	Put  OptionType = -1
)

func (t OptionType) String() string {
	if t == Call {
		return "call"
	}
	return "put"
}

// VanillaSpec is the engine's view of a European option.
type VanillaSpec struct {
	Type     OptionType
	Strike   float64
	Exercise time.Time
}

// Engine prices a European option under its backing model. Engines backed
// by the same model family must be substitutable: for one parameter set all
// applicable engines agree within their stated numerical tolerances.
type Engine interface {
	Price(spec VanillaSpec) (float64, error)
	// Model is the calibratable model backing this engine, nil for
	// model-free engines. Used for binding checks at calibration time.
	Model() model.Calibratable
}
