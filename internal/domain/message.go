package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// QueryRequest is the wire form of a Query used by the HTTP API and the query topic.
type QueryRequest struct {
	Date         string   `json:"date"`
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	HumidityPct  *float64 `json:"humidity_pct,omitempty"`
}

// ToQuery parses the request date. It does not validate ranges; Assess does.
func (r QueryRequest) ToQuery() (Query, error) {
	date, err := ParseQueryDate(r.Date)
	if err != nil {
		return Query{}, err
	}
	return Query{Date: date, TemperatureC: r.TemperatureC, HumidityPct: r.HumidityPct}, nil
}

// RawEvent is an unprocessed query message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is a serialized assessment destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ParseQueryMessage decodes a query message.
func ParseQueryMessage(raw RawEvent) (Query, error) {
	var req QueryRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return Query{}, fmt.Errorf("parse query message: %w", err)
	}
	return req.ToQuery()
}

// SerializeAssessment encodes an assessment for the sink topic, keyed by its ID.
func SerializeAssessment(a Assessment) (OutputEvent, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return OutputEvent{
		Key:   []byte(a.ID),
		Value: data,
		Headers: map[string]string{
			"risk_level":  string(a.Verdict.Risk),
			"assessed_at": a.AssessedAt.Format(time.RFC3339),
		},
	}, nil
}
