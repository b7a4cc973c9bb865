package server

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const (
	// RequestIDHeader carries the request ID in requests and responses
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// idSource hands out monotonically increasing ULIDs. ulid.Monotonic is not
// safe for concurrent use, hence the mutex.
type idSource struct {
	mu      sync.Mutex
	entropy io.Reader
}

func newIDSource() *idSource {
	return &idSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (s *idSource) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// RequestID keeps the caller's X-Request-ID or assigns a new ULID, and echoes
// it in the response.
func RequestID(ids *idSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = ids.next()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
