package domain

import (
	"context"
	"time"
)

// RawMessage represents an unprocessed evaluation request from the source topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputMessage is the serialized form destined for the sink topic.
type OutputMessage struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// CurveSource resolves damage curves by identifier, e.g. a HAZUS DmgFnId.
type CurveSource interface {
	DamageCurve(ctx context.Context, id string) (*DamageCurve, error)
}
