package finops

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// entropy is a process-wide monotonic ULID entropy source. ulid.Monotonic
// is itself not safe for concurrent use, so every caller goes through
// newRequestID, which serializes access.
var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// newRequestID generates a lexically sortable request identifier, used as
// an AnalysisRecord's idempotency key whenever a caller doesn't supply its
// own.
func newRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
