package option

import (
	"time"

	"github.com/banachtech/volfit/engine"
	"github.com/banachtech/volfit/errs"
)

// European is a plain-vanilla European option bound to at most one pricing
// engine at a time. The NPV is cached until the bound model notifies a
// parameter change or the engine is rebound.
type European struct {
	spec engine.VanillaSpec
	eng  engine.Engine

	npv        float64
	calculated bool
}

func NewEuropean(typ engine.OptionType, strike float64, exercise time.Time) *European {
	return &European{spec: engine.VanillaSpec{Type: typ, Strike: strike, Exercise: exercise}}
}

func (o *European) Spec() engine.VanillaSpec { return o.spec }

// SetPricingEngine replaces the prior binding. No state is discarded other
// than cached results.
func (o *European) SetPricingEngine(e engine.Engine) error {
	if e == nil {
		return errs.Configf("nil pricing engine")
	}
	if o.eng != nil {
		if m := o.eng.Model(); m != nil {
			m.Detach(o)
		}
	}
	o.eng = e
	o.calculated = false
	if m := e.Model(); m != nil {
		m.Attach(o)
	}
	return nil
}

// Update implements quote.Observer: a model mutation invalidates the cache.
func (o *European) Update() { o.calculated = false }

// NPV prices lazily through the bound engine.
func (o *European) NPV() (float64, error) {
	if o.eng == nil {
		return 0, errs.Configf("no pricing engine set")
	}
	if !o.calculated {
		v, err := o.eng.Price(o.spec)
		if err != nil {
			return 0, err
		}
		o.npv = v
		o.calculated = true
	}
	return o.npv, nil
}
