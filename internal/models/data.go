package models

import (
	"encoding/json"
	"math"
	"time"
)

// BucketPoint represents one time bucket aggregated from raw samples
type BucketPoint struct {
	Start   time.Time
	End     time.Time
	Avg     float64 // NaN when absent
	Min     float64 // NaN when absent
	Max     float64 // NaN when absent
	Median  float64
	Samples int
	Empty   bool // no samples observed in the bucket
}

// Timestamp returns the midpoint of the bucket
func (b BucketPoint) Timestamp() time.Time {
	if b.End.IsZero() || b.End.Before(b.Start) {
		return b.Start
	}
	return b.Start.Add(b.End.Sub(b.Start) / 2)
}

// IsEmpty reports whether the bucket has no average to draw
func (b BucketPoint) IsEmpty() bool {
	return b.Empty || math.IsNaN(b.Avg)
}

// SingleValue reports whether min and max collapse to one value
func (b BucketPoint) SingleValue() bool {
	return b.Min == b.Max
}

// bucketPointJSON is the wire form used by the metrics backend
type bucketPointJSON struct {
	Start   int64    `json:"start"`
	End     int64    `json:"end"`
	Avg     *float64 `json:"avg,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Median  *float64 `json:"median,omitempty"`
	Samples int      `json:"samples,omitempty"`
	Empty   bool     `json:"empty"`
}

// UnmarshalJSON decodes epoch milliseconds and maps missing numbers to NaN
func (b *BucketPoint) UnmarshalJSON(data []byte) error {
	var raw bucketPointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = BucketPoint{
		Start:   time.UnixMilli(raw.Start).UTC(),
		End:     time.UnixMilli(raw.End).UTC(),
		Avg:     valueOrNaN(raw.Avg),
		Min:     valueOrNaN(raw.Min),
		Max:     valueOrNaN(raw.Max),
		Median:  valueOrNaN(raw.Median),
		Samples: raw.Samples,
		Empty:   raw.Empty,
	}
	return nil
}

// MarshalJSON encodes the bucket, omitting NaN values
func (b BucketPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(bucketPointJSON{
		Start:   b.Start.UnixMilli(),
		End:     b.End.UnixMilli(),
		Avg:     nanToNil(b.Avg),
		Min:     nanToNil(b.Min),
		Max:     nanToNil(b.Max),
		Median:  nanToNil(b.Median),
		Samples: b.Samples,
		Empty:   b.Empty,
	})
}

// PredictivePoint represents one forecast sample
type PredictivePoint struct {
	Timestamp time.Time
	Value     float64
	Min       *float64 // lower confidence bound, optional
	Max       *float64 // upper confidence bound, optional
	Empty     bool
}

// HasBounds reports whether the point carries both confidence bounds.
// A single bound cannot outline a cone and counts as none.
func (p PredictivePoint) HasBounds() bool {
	return p.Min != nil && p.Max != nil
}

// IsEmpty reports whether the point should be skipped when drawing
func (p PredictivePoint) IsEmpty() bool {
	return p.Empty || math.IsNaN(p.Value)
}

type predictivePointJSON struct {
	Timestamp int64    `json:"timestamp"`
	Value     *float64 `json:"value,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Empty     bool     `json:"empty,omitempty"`
}

// UnmarshalJSON decodes epoch milliseconds; a missing value marks the point empty
func (p *PredictivePoint) UnmarshalJSON(data []byte) error {
	var raw predictivePointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PredictivePoint{
		Timestamp: time.UnixMilli(raw.Timestamp).UTC(),
		Value:     valueOrNaN(raw.Value),
		Min:       raw.Min,
		Max:       raw.Max,
		Empty:     raw.Empty || raw.Value == nil,
	}
	return nil
}

// MarshalJSON encodes the point with epoch milliseconds
func (p PredictivePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(predictivePointJSON{
		Timestamp: p.Timestamp.UnixMilli(),
		Value:     nanToNil(p.Value),
		Min:       p.Min,
		Max:       p.Max,
		Empty:     p.Empty,
	})
}

// Float returns a pointer to v, for optional bounds
func Float(v float64) *float64 {
	return &v
}

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func nanToNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
