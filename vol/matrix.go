package vol

import (
	"sort"
	"time"

	"github.com/banachtech/volfit/dates"
	"github.com/banachtech/volfit/errs"
	"gonum.org/v1/gonum/mat"
)

// MatrixBackend interpolates a grid of at-the-money volatilities quoted per
// (option tenor, instrument tenor) node, bilinearly in the converted time
// coordinates. The smile is flat in strike.
type MatrixBackend struct {
	optionTimes []float64
	instLengths []float64
	vols        *mat.Dense
	maxTenor    dates.Period
	minK, maxK  float64
}

// NewMatrixSurface converts the quoted tenors through the reference date
// and wraps the backend in a Surface. vols must be
// len(optionTenors) x len(instrumentTenors).
func NewMatrixSurface(refDate time.Time, cal dates.Calendar, dc dates.DayCounter, bdc dates.Convention,
	optionTenors, instrumentTenors []dates.Period, vols *mat.Dense, minStrike, maxStrike float64) (*Surface, error) {

	if len(optionTenors) < 2 || len(instrumentTenors) < 2 {
		return nil, errs.Configf("tenor grid needs at least 2 pillars per axis")
	}
	r, c := vols.Dims()
	if r != len(optionTenors) || c != len(instrumentTenors) {
		return nil, errs.Configf("vol matrix is %dx%d, want %dx%d", r, c, len(optionTenors), len(instrumentTenors))
	}
	b := &MatrixBackend{
		vols:     vols,
		maxTenor: instrumentTenors[len(instrumentTenors)-1],
		minK:     minStrike,
		maxK:     maxStrike,
	}
	b.optionTimes = make([]float64, len(optionTenors))
	for i, p := range optionTenors {
		d := cal.Advance(refDate, p, bdc)
		b.optionTimes[i] = dc.YearFraction(refDate, d)
	}
	b.instLengths = make([]float64, len(instrumentTenors))
	for i, p := range instrumentTenors {
		b.instLengths[i] = p.Years()
	}
	if !sort.Float64sAreSorted(b.optionTimes) || !sort.Float64sAreSorted(b.instLengths) {
		return nil, errs.Configf("tenor grid must be increasing")
	}
	return NewSurface(b, refDate, cal, dc, bdc)
}

func (b *MatrixBackend) MaxOptionTime() float64 {
	return b.optionTimes[len(b.optionTimes)-1]
}

func (b *MatrixBackend) MaxInstrumentTenor() dates.Period { return b.maxTenor }
func (b *MatrixBackend) MinStrike() float64               { return b.minK }
func (b *MatrixBackend) MaxStrike() float64               { return b.maxK }

func (b *MatrixBackend) VolatilityAt(t, l, k float64) float64 {
	return bilinear(b.optionTimes, b.instLengths, b.vols, t, l)
}

func (b *MatrixBackend) SmileSectionAt(t, l float64) SmileSection {
	return FlatSmile{Vol: b.VolatilityAt(t, l, 0), MinK: b.minK, MaxK: b.maxK}
}

// bilinear interpolates z over the (xs, ys) grid, extrapolating flat beyond
// the edges. Range policy is the surface's job; by the time a query gets
// here it has either passed checkRange or carries extrapolation permission.
func bilinear(xs, ys []float64, z *mat.Dense, x, y float64) float64 {
	i, wx := locate(xs, x)
	j, wy := locate(ys, y)
	v00 := z.At(i, j)
	v01 := z.At(i, j+1)
	v10 := z.At(i+1, j)
	v11 := z.At(i+1, j+1)
	return (1-wx)*((1-wy)*v00+wy*v01) + wx*((1-wy)*v10+wy*v11)
}

// locate returns the left bracket index and interpolation weight for v,
// clamped to the grid.
func locate(xs []float64, v float64) (int, float64) {
	n := len(xs)
	if n == 1 || v <= xs[0] {
		return 0, 0
	}
	if v >= xs[n-1] {
		if n == 1 {
			return 0, 0
		}
		return n - 2, 1
	}
	i := sort.SearchFloat64s(xs, v)
	if xs[i] == v {
		if i == n-1 {
			return i - 1, 1
		}
		return i, 0
	}
	i--
	return i, (v - xs[i]) / (xs[i+1] - xs[i])
}
