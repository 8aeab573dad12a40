package quote

// Observer is notified when an observable it registered with changes.
type Observer interface {
	Update()
}

// Observable is embedded by types whose mutation must invalidate dependents:
// market quotes and calibrated model parameter vectors.
type Observable struct {
	observers []Observer
}

func (o *Observable) Attach(obs Observer) {
	for _, v := range o.observers {
		if v == obs {
			return
		}
	}
	o.observers = append(o.observers, obs)
}

func (o *Observable) Detach(obs Observer) {
	for i, v := range o.observers {
		if v == obs {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return
		}
	}
}

func (o *Observable) Notify() {
	for _, v := range o.observers {
		v.Update()
	}
}

// Quote is a read-only view of a market observable.
type Quote interface {
	Value() float64
}

// Simple is a mutable quote that notifies observers on change.
type Simple struct {
	Observable
	v float64
}

func NewSimple(v float64) *Simple { return &Simple{v: v} }

func (q *Simple) Value() float64 { return q.v }

func (q *Simple) SetValue(v float64) {
	if v == q.v {
		return
	}
	q.v = v
	q.Notify()
}
