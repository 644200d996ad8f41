package analysisstore

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// cursor is opaque to callers: it encodes the (StartedAt, RequestID) of the
// last record on the previous page, so List can resume a StartedAt-DESC scan
// without relying on offsets that shift under concurrent writes.
type cursor struct {
	startedAt time.Time
	requestID string
}

func encodeCursor(c cursor) string {
	raw := fmt.Sprintf("%d|%s", c.startedAt.UnixNano(), c.requestID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (cursor, error) {
	if s == "" {
		return cursor{}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return cursor{}, fmt.Errorf("invalid cursor: %w", err)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return cursor{}, fmt.Errorf("invalid cursor: %q", s)
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return cursor{}, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	return cursor{startedAt: time.Unix(0, nanos), requestID: parts[1]}, nil
}
