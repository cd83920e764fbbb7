package visualization

import (
	"fmt"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/randomizer"
	"github.com/rs/zerolog/log"
)

// ErrUnknownAlgorithm is returned for keys without a diagram
var ErrUnknownAlgorithm = algorithms.ErrUnknownAlgorithm

// Diagram draws the illustrative sketch of one algorithm.
// Coordinates are laid out in unit space and mapped onto the surface, so a
// given seed yields the same drawing scaled to any surface size.
type Diagram interface {
	Key() algorithms.Key
	Draw(s *Surface, rng randomizer.Source)
}

// Diagrams returns one diagram per algorithm key, in catalogue order
func Diagrams() []Diagram {
	return []Diagram{
		decisionTreeDiagram{},
		naiveBayesDiagram{},
		knnDiagram{},
		svmDiagram{},
		randomForestDiagram{},
		linearRegressionDiagram{},
		logisticRegressionDiagram{},
		adaBoostDiagram{},
		kMeansDiagram{},
		emDiagram{},
	}
}

// LookupDiagram finds the diagram for key
func LookupDiagram(key algorithms.Key) (Diagram, error) {
	for _, d := range Diagrams() {
		if d.Key() == key {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, key)
}

// RenderDiagram clears the surface and draws the sketch for key.
// Unknown keys and invalid surfaces are reported without drawing.
// An empty catalogue skips the membership check.
func RenderDiagram(key algorithms.Key, s *Surface, catalogue algorithms.Catalogue, rng randomizer.Source) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if catalogue.Len() > 0 {
		if _, ok := catalogue.Lookup(key); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownAlgorithm, key)
		}
	}
	diagram, err := LookupDiagram(key)
	if err != nil {
		return err
	}

	log.Debug().Str("algorithm", string(key)).Int("width", s.Width).Int("height", s.Height).Msg("drawing diagram")
	s.Clear()
	diagram.Draw(s, rng)
	return nil
}

// legend writes left-aligned 14px lines starting at (50, 50), 25px apart
func (s *Surface) legend(lines ...string) {
	for i, line := range lines {
		s.text(line, 50, float64(50+i*25), 14, colorText, AlignLeft)
	}
}

// scatter places n points around a unit-space centre and maps them onto the surface
func (s *Surface) scatter(sc randomizer.Scatter, cx, cy float64, n int) []point {
	pts := make([]point, n)
	for i := range pts {
		x, y := sc.Around(cx, cy)
		pts[i] = point{X: s.X(x), Y: s.Y(y)}
	}
	return pts
}
