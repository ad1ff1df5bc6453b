package nostrnode

import (
	"strconv"
	"time"
)

// Timestamp is a unix timestamp in seconds.
type Timestamp int64

func Now() Timestamp { return Timestamp(time.Now().Unix()) }

func (t Timestamp) Time() time.Time { return time.Unix(int64(t), 0) }

func (t Timestamp) String() string { return strconv.FormatInt(int64(t), 10) }
