package calculator

import (
	"errors"
	"sync"
)

var ErrStopped = errors.New("calculator: sweep stopped")

// CalcHub hands finished slices from a running sweep to one consumer, e.g.
// a websocket session. Closing Stop cancels the attached sweep.
type CalcHub struct {
	Stop   chan struct{}
	Slices chan SliceResult

	stopOnce  sync.Once
	closeOnce sync.Once
}

func NewCalcHub(buffer int) *CalcHub {
	return &CalcHub{
		Stop:   make(chan struct{}),
		Slices: make(chan SliceResult, buffer),
	}
}

func (ch *CalcHub) StopSignal() {
	ch.stopOnce.Do(func() { close(ch.Stop) })
}

func (ch *CalcHub) Stopped() bool {
	select {
	case <-ch.Stop:
		return true
	default:
		return false
	}
}

// WriteSlice blocks until the consumer takes the slice or the hub is
// stopped.
func (ch *CalcHub) WriteSlice(s SliceResult) error {
	select {
	case <-ch.Stop:
		return ErrStopped
	default:
	}
	select {
	case ch.Slices <- s:
		return nil
	case <-ch.Stop:
		return ErrStopped
	}
}

// Close ends the slice stream. It must only be called once the sweep has
// returned.
func (ch *CalcHub) Close() {
	ch.closeOnce.Do(func() { close(ch.Slices) })
}
