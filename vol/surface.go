package vol

import (
	"math"
	"time"

	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/errs"
)

// Backend supplies the shape-specific pieces of a volatility surface. All
// coordinates are time-based: optionTime is years from the surface
// reference date to expiry, instrumentLength is the day-count year fraction
// spanning the underlying instrument starting at expiry.
type Backend interface {
	MaxOptionTime() float64
	MaxInstrumentTenor() dates.Period
	MinStrike() float64
	MaxStrike() float64
	VolatilityAt(optionTime, instrumentLength, strike float64) float64
	SmileSectionAt(optionTime, instrumentLength float64) SmileSection
}

// Surface owns reference-date bookkeeping, coordinate conversion and domain
// validation for a volatility surface indexed by option maturity and
// underlying-instrument tenor/strike. Queries come in three flavors
// (time-based, date-based, tenor-based) that all reduce to the time-based
// form.
type Surface struct {
	backend Backend

	ctx            *dates.Context // nil when refDate is fixed
	refDate        time.Time
	settlementDays int

	cal dates.Calendar
	dc  dates.DayCounter
	bdc dates.Convention

	allowExtrapolation bool
}

// NewSurface builds a surface anchored at a fixed reference date.
func NewSurface(b Backend, refDate time.Time, cal dates.Calendar, dc dates.DayCounter, bdc dates.Convention) (*Surface, error) {
	if err := validateBackend(b); err != nil {
		return nil, err
	}
	return &Surface{backend: b, refDate: refDate, cal: cal, dc: dc, bdc: bdc}, nil
}

// NewDerivedSurface builds a surface whose reference date is re-derived on
// every query as the evaluation date advanced by settlementDays business
// days.
func NewDerivedSurface(b Backend, ctx *dates.Context, settlementDays int, cal dates.Calendar, dc dates.DayCounter, bdc dates.Convention) (*Surface, error) {
	if err := validateBackend(b); err != nil {
		return nil, err
	}
	if ctx == nil {
		return nil, errs.Configf("derived surface needs an evaluation context")
	}
	if settlementDays < 0 {
		return nil, errs.Configf("negative settlement days (%d)", settlementDays)
	}
	return &Surface{backend: b, ctx: ctx, settlementDays: settlementDays, cal: cal, dc: dc, bdc: bdc}, nil
}

func validateBackend(b Backend) error {
	if b == nil {
		return errs.Configf("nil surface backend")
	}
	min, max := b.MinStrike(), b.MaxStrike()
	if math.IsInf(min, 0) || math.IsInf(max, 0) || math.IsNaN(min) || math.IsNaN(max) {
		return errs.Configf("strike bounds must be finite, got [%v, %v]", min, max)
	}
	if min > max {
		return errs.Configf("min strike %v greater than max strike %v", min, max)
	}
	if math.IsInf(b.MaxOptionTime(), 0) {
		return errs.Configf("max option time must be finite")
	}
	return nil
}

// ReferenceDate is the anchor of all time conversions. For derived surfaces
// it follows the evaluation date held by the context.
func (s *Surface) ReferenceDate() time.Time {
	if s.ctx != nil {
		return s.cal.AdvanceDays(s.ctx.EvaluationDate(), s.settlementDays)
	}
	return s.refDate
}

func (s *Surface) DayCounter() dates.DayCounter              { return s.dc }
func (s *Surface) Calendar() dates.Calendar                  { return s.cal }
func (s *Surface) BusinessDayConvention() dates.Convention   { return s.bdc }
func (s *Surface) AllowsExtrapolation() bool                 { return s.allowExtrapolation }
func (s *Surface) SetAllowExtrapolation(allow bool)          { s.allowExtrapolation = allow }
func (s *Surface) MaxOptionTime() float64                    { return s.backend.MaxOptionTime() }
func (s *Surface) MaxInstrumentTenor() dates.Period          { return s.backend.MaxInstrumentTenor() }
func (s *Surface) MinStrike() float64                        { return s.backend.MinStrike() }
func (s *Surface) MaxStrike() float64                        { return s.backend.MaxStrike() }

// TimeFromReference converts a date to years from the reference date.
func (s *Surface) TimeFromReference(d time.Time) float64 {
	return s.dc.YearFraction(s.ReferenceDate(), d)
}

// MaxInstrumentLength converts MaxInstrumentTenor through the reference
// date with the surface's own day counter.
func (s *Surface) MaxInstrumentLength() float64 {
	ref := s.ReferenceDate()
	return s.dc.YearFraction(ref, s.backend.MaxInstrumentTenor().Add(ref))
}

// ConvertDates maps (optionDate, instrumentTenor) to the time-based
// coordinate pair. A tenor that does not move the end date strictly past
// the option date is a domain error regardless of extrapolation settings.
func (s *Surface) ConvertDates(optionDate time.Time, instrumentTenor dates.Period) (optionTime, instrumentLength float64, err error) {
	end := instrumentTenor.Add(optionDate)
	if !end.After(optionDate) {
		return 0, 0, errs.Domainf("negative instrument tenor (%s) given", instrumentTenor)
	}
	return s.TimeFromReference(optionDate), s.dc.YearFraction(optionDate, end), nil
}

// OptionDateFromTenor resolves an option tenor to an absolute date by
// advancing the reference date under the surface's calendar and
// business-day convention.
func (s *Surface) OptionDateFromTenor(optionTenor dates.Period) time.Time {
	return s.cal.Advance(s.ReferenceDate(), optionTenor, s.bdc)
}

func (s *Surface) checkRange(optionTime, instrumentLength, strike float64, extrapolate bool) error {
	if optionTime < 0 {
		return errs.Domainf("negative option time (%v) given", optionTime)
	}
	free := extrapolate || s.allowExtrapolation
	if !free && optionTime > s.backend.MaxOptionTime() {
		return errs.Domainf("option time (%v) is past max curve time (%v)", optionTime, s.backend.MaxOptionTime())
	}
	// a negative length is nonsensical, not merely outside the fitted
	// domain, so extrapolation never excuses it
	if instrumentLength < 0 {
		return errs.Domainf("negative instrument length (%v) given", instrumentLength)
	}
	if !free && instrumentLength > s.MaxInstrumentLength() {
		return errs.Domainf("instrument length (%v) is past max curve length (%v)", instrumentLength, s.MaxInstrumentLength())
	}
	if !free && (strike < s.backend.MinStrike() || strike > s.backend.MaxStrike()) {
		return errs.Domainf("strike (%v) is outside the curve domain [%v, %v]", strike, s.backend.MinStrike(), s.backend.MaxStrike())
	}
	return nil
}

func (s *Surface) checkRangeDates(optionDate time.Time, instrumentTenor dates.Period, strike float64, extrapolate bool) error {
	t := s.TimeFromReference(optionDate)
	if t < 0 {
		return errs.Domainf("option date (%s) before reference date (%s)", optionDate.Format(dates.Layout), s.ReferenceDate().Format(dates.Layout))
	}
	free := extrapolate || s.allowExtrapolation
	if !free && t > s.backend.MaxOptionTime() {
		return errs.Domainf("option date (%s) is past max curve time (%v)", optionDate.Format(dates.Layout), s.backend.MaxOptionTime())
	}
	if instrumentTenor.N <= 0 {
		return errs.Domainf("negative instrument tenor (%s) given", instrumentTenor)
	}
	if !free && instrumentTenor.Years() > s.backend.MaxInstrumentTenor().Years() {
		return errs.Domainf("instrument tenor (%s) is past max tenor (%s)", instrumentTenor, s.backend.MaxInstrumentTenor())
	}
	if !free && (strike < s.backend.MinStrike() || strike > s.backend.MaxStrike()) {
		return errs.Domainf("strike (%v) is outside the curve domain [%v, %v]", strike, s.backend.MinStrike(), s.backend.MaxStrike())
	}
	return nil
}

// Volatility returns the volatility at a time-based coordinate.
func (s *Surface) Volatility(optionTime, instrumentLength, strike float64, extrapolate bool) (float64, error) {
	if err := s.checkRange(optionTime, instrumentLength, strike, extrapolate); err != nil {
		return 0, err
	}
	return s.backend.VolatilityAt(optionTime, instrumentLength, strike), nil
}

// BlackVariance is volatility squared times option time.
func (s *Surface) BlackVariance(optionTime, instrumentLength, strike float64, extrapolate bool) (float64, error) {
	v, err := s.Volatility(optionTime, instrumentLength, strike, extrapolate)
	if err != nil {
		return 0, err
	}
	return v * v * optionTime, nil
}

// VolatilityByDate converts (optionDate, instrumentTenor) and delegates to
// the time-based form.
func (s *Surface) VolatilityByDate(optionDate time.Time, instrumentTenor dates.Period, strike float64, extrapolate bool) (float64, error) {
	if err := s.checkRangeDates(optionDate, instrumentTenor, strike, extrapolate); err != nil {
		return 0, err
	}
	t, l, err := s.ConvertDates(optionDate, instrumentTenor)
	if err != nil {
		return 0, err
	}
	return s.backend.VolatilityAt(t, l, strike), nil
}

// BlackVarianceByDate multiplies by the converted option time, not the
// instrument length.
func (s *Surface) BlackVarianceByDate(optionDate time.Time, instrumentTenor dates.Period, strike float64, extrapolate bool) (float64, error) {
	v, err := s.VolatilityByDate(optionDate, instrumentTenor, strike, extrapolate)
	if err != nil {
		return 0, err
	}
	t, _, err := s.ConvertDates(optionDate, instrumentTenor)
	if err != nil {
		return 0, err
	}
	return v * v * t, nil
}

// VolatilityByTenor resolves the option tenor to a date first.
func (s *Surface) VolatilityByTenor(optionTenor, instrumentTenor dates.Period, strike float64, extrapolate bool) (float64, error) {
	return s.VolatilityByDate(s.OptionDateFromTenor(optionTenor), instrumentTenor, strike, extrapolate)
}

func (s *Surface) BlackVarianceByTenor(optionTenor, instrumentTenor dates.Period, strike float64, extrapolate bool) (float64, error) {
	return s.BlackVarianceByDate(s.OptionDateFromTenor(optionTenor), instrumentTenor, strike, extrapolate)
}

// SmileSection converts coordinates and delegates to the backend's
// time-based smile factory.
func (s *Surface) SmileSection(optionDate time.Time, instrumentTenor dates.Period) (SmileSection, error) {
	t, l, err := s.ConvertDates(optionDate, instrumentTenor)
	if err != nil {
		return nil, err
	}
	return s.backend.SmileSectionAt(t, l), nil
}
