package federation

import (
	"github.com/roach88/rtikit/internal/fom"
	"github.com/roach88/rtikit/internal/logicaltime"
)

// Federation is an open federation execution. All times and intervals that
// enter it must belong to its single time family.
type Federation struct {
	ID          string
	Name        string
	Factory     logicaltime.Factory
	Model       *fom.ObjectModel
	Fingerprint string
	Seq         int64
}

// AdmitTime checks that t belongs to the federation's time family.
func (f *Federation) AdmitTime(op string, t logicaltime.Time) error {
	if t == nil || t.ImplementationName() != f.Factory.Name() {
		return &logicaltime.MismatchError{Op: op, Want: f.Factory.Name(), Got: implementation(t), Kind: logicaltime.ErrInvalidLogicalTime}
	}
	return nil
}

// AdmitInterval checks that i belongs to the federation's time family.
func (f *Federation) AdmitInterval(op string, i logicaltime.Interval) error {
	if i == nil || i.ImplementationName() != f.Factory.Name() {
		return &logicaltime.MismatchError{Op: op, Want: f.Factory.Name(), Got: implementation(i), Kind: logicaltime.ErrInvalidLogicalTimeInterval}
	}
	return nil
}

func implementation(v interface{ ImplementationName() string }) string {
	if v == nil {
		return "<nil>"
	}
	return v.ImplementationName()
}

// Joined is a federate's view of its join: the time sentinels minted for it
// when it joined, decoded with the federation's factory.
type Joined struct {
	Federation   *Federation
	Federate     string
	InitialTime  logicaltime.Time
	ZeroInterval logicaltime.Interval
	Seq          int64
}
