package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	sessionID = uuid.NewString()
	seq       uint64
)

func nextSeq() uint64 {
	return atomic.AddUint64(&seq, 1)
}

// SessionID identifies this editing session in log output.
func SessionID() string {
	return sessionID
}

// stamp gives a snapshot its identity at capture time.
func stamp(s *Snapshot) {
	s.ID = uuid.NewString()
	s.Seq = nextSeq()
}
