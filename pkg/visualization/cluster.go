package visualization

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brianbland/mlviz/pkg/randomizer"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog/log"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"
)

// ErrNoData is returned when a payload has nothing to draw
var ErrNoData = errors.New("no data to visualize")

// PayloadError reports a missing or malformed field of a visualization payload
type PayloadError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *PayloadError) Error() string {
	return fmt.Sprintf("invalid visualization payload: %s %s", e.Field, e.Reason)
}

// ClusterResult is the clustering payload returned by the training service
type ClusterResult struct {
	K         int
	Centroids [][]float64
	Labels    []int
	Data      [][]float64
}

// ParseClusterResult decodes and checks a raw payload field by field.
// data supplies the samples when the payload itself does not carry them.
func ParseClusterResult(raw json.RawMessage, data [][]float64) (*ClusterResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &PayloadError{Field: "payload", Reason: "is not an object"}
	}

	result := &ClusterResult{Data: data}

	if k, ok := fields["k"]; ok && string(k) != "null" {
		if err := json.Unmarshal(k, &result.K); err != nil {
			return nil, &PayloadError{Field: "k", Reason: "is not an integer"}
		}
	}

	if err := decodeField(fields, "centroids", &result.Centroids); err != nil {
		return nil, err
	}
	if err := decodeField(fields, "labels", &result.Labels); err != nil {
		return nil, err
	}
	if _, ok := fields["data"]; ok {
		if err := decodeField(fields, "data", &result.Data); err != nil {
			return nil, err
		}
	}

	return result, result.Validate()
}

func decodeField(fields map[string]json.RawMessage, name string, out interface{}) error {
	raw, ok := fields[name]
	if !ok || string(raw) == "null" {
		return &PayloadError{Field: name, Reason: "is missing"}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &PayloadError{Field: name, Reason: "is not an array"}
	}
	return nil
}

// Validate checks the payload before anything is drawn
func (r *ClusterResult) Validate() error {
	if r.Centroids == nil {
		return &PayloadError{Field: "centroids", Reason: "is missing"}
	}
	if r.Labels == nil {
		return &PayloadError{Field: "labels", Reason: "is missing"}
	}
	if r.Data == nil {
		return &PayloadError{Field: "data", Reason: "is missing"}
	}
	for i, c := range r.Centroids {
		if len(c) < 2 {
			return &PayloadError{Field: "centroids", Reason: fmt.Sprintf("entry %d has fewer than 2 features", i)}
		}
	}
	for i, label := range r.Labels {
		if label < 0 {
			return &PayloadError{Field: "labels", Reason: fmt.Sprintf("entry %d is negative", i)}
		}
	}
	if r.usable() == 0 {
		return ErrNoData
	}
	for i, sample := range r.Data[:r.usable()] {
		if len(sample) < 2 {
			return &PayloadError{Field: "data", Reason: fmt.Sprintf("sample %d has fewer than 2 features", i)}
		}
	}
	return nil
}

// usable is the number of samples that have a label
func (r *ClusterResult) usable() int {
	if len(r.Data) < len(r.Labels) {
		return len(r.Data)
	}
	return len(r.Labels)
}

// clusters is the number of colours needed
func (r *ClusterResult) clusters() int {
	k := r.K
	if k <= 0 {
		k = len(r.Centroids)
	}
	for _, label := range r.Labels {
		if label+1 > k {
			k = label + 1
		}
	}
	if k <= 0 {
		k = 1
	}
	return k
}

// RenderClusterResult draws clustered samples and their centroids on the
// first two features. Invalid payloads are rejected before the surface is touched.
func RenderClusterResult(s *Surface, result *ClusterResult, rng randomizer.Source) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if result == nil {
		return ErrNoData
	}
	if err := result.Validate(); err != nil {
		log.Error().Err(err).Msg("cluster result rejected")
		return err
	}

	n := result.usable()
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, sample := range result.Data[:n] {
		xs[i], ys[i] = sample[0], sample[1]
	}
	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)

	w, h := float64(s.Width), float64(s.Height)
	normX := func(v float64) float64 { return Normalize(v, minX, maxX, 0.1*w, 0.8*w) }
	normY := func(v float64) float64 { return h - Normalize(v, minY, maxY, 0.15*h, 0.7*h) }

	k := result.clusters()
	palette := make([]drawing.Color, k)
	for i := range palette {
		c := colorful.Color{R: rng.Float64(), G: rng.Float64(), B: rng.Float64()}
		palette[i] = fromColorful(c, 153)
	}

	s.Clear()

	for i := 0; i < n; i++ {
		color := palette[result.Labels[i]%k]
		s.outlinedDot(normX(xs[i]), normY(ys[i]), 5, color, colorText, 1)
	}

	for _, c := range result.Centroids {
		s.outlinedDot(normX(c[0]), normY(c[1]), 8, colorRed, drawing.ColorBlack, 2)
	}

	s.arrowedAxes(0.85 * h)
	s.text("K-Means clustering result", w/2, 0.1*h, 16, colorText, AlignCenter)
	s.text("Feature 0", 0.9*w, 0.88*h, 12, colorText, AlignCenter)
	s.verticalText("Feature 1", 0.07*w, 0.15*h, 12, colorText)
	return nil
}
