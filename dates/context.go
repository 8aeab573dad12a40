package dates

import "time"

// Context carries the evaluation date that would otherwise live in ambient
// global state. Components whose reference date depends on it hold the same
// *Context and re-derive on each query, so a change propagates without a
// registry of observers. The evaluation date must not change during a
// calibration run.
type Context struct {
	evaluationDate time.Time
}

func NewContext(evaluationDate time.Time) *Context {
	return &Context{evaluationDate: evaluationDate}
}

func (c *Context) EvaluationDate() time.Time { return c.evaluationDate }

func (c *Context) SetEvaluationDate(d time.Time) { c.evaluationDate = d }
