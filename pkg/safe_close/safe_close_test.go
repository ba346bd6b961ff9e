package safe_close

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestSafeClose_WaitsForAttached(t *testing.T) {
	defer goleak.VerifyNone(t)

	sc := NewSafeClose()
	var cleaned int32

	for i := 0; i < 3; i++ {
		sc.Attach(func(done func(), closeSignal <-chan struct{}) {
			defer done()
			<-closeSignal
			atomic.AddInt32(&cleaned, 1)
		})
	}

	boom := errors.New("listener failed")
	sc.SendCloseSignal(boom)
	sc.SendCloseSignal(errors.New("ignored"))

	assert.Equal(t, boom, sc.WaitClosed())
	assert.EqualValues(t, 3, atomic.LoadInt32(&cleaned))

	select {
	case <-sc.Done():
	default:
		t.Fatal("Done channel should be closed")
	}
}

func TestSafeClose_DoneIsIdempotent(t *testing.T) {
	sc := NewSafeClose()
	sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		done()
		done()
	})
	sc.SendCloseSignal(nil)
	assert.NoError(t, sc.WaitClosed())
}
