package visualization

import (
	"fmt"
	"math"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/randomizer"
)

type decisionTreeDiagram struct{}

func (decisionTreeDiagram) Key() algorithms.Key { return algorithms.DecisionTree }

func (decisionTreeDiagram) Draw(s *Surface, _ randomizer.Source) {
	w := float64(s.Width)
	rootY, splitY, leafY := s.Y(0.125), s.Y(0.375), s.Y(0.625)

	s.node(w/2, rootY, 100, 40, "Feature A > 5?")

	s.link(w/2, rootY+20, w/3, splitY-30)
	s.node(w/3, splitY, 80, 40, "Yes")
	s.link(w/3, splitY+20, w/4, leafY-30)
	s.node(w/4, leafY, 80, 40, "Class 1")

	s.link(w/2, rootY+20, 2*w/3, splitY-30)
	s.node(2*w/3, splitY, 80, 40, "No")
	s.link(2*w/3, splitY+20, 3*w/4, leafY-30)
	s.node(3*w/4, leafY, 80, 40, "Class 2")
}

type naiveBayesDiagram struct{}

func (naiveBayesDiagram) Key() algorithms.Key { return algorithms.NaiveBayes }

func (naiveBayesDiagram) Draw(s *Surface, _ randomizer.Source) {
	w, h := float64(s.Width), float64(s.Height)

	s.text("P(A|B) = P(B|A) * P(A) / P(B)", w/2, h/3, 16, colorText, AlignCenter)
	s.text("posterior = likelihood * prior / evidence", w/2, h/3+30, 14, colorText, AlignCenter)

	const radius = 80
	features := []string{"Feature 1", "Feature 2", "Feature 3", "Feature 4"}
	cx, cy := w/2, h*2/3

	for i := range features {
		angle := float64(i) / float64(len(features)) * 2 * math.Pi
		s.link(cx, cy, cx+math.Cos(angle)*radius, cy+math.Sin(angle)*radius)
	}
	for i, feature := range features {
		angle := float64(i) / float64(len(features)) * 2 * math.Pi
		s.node(cx+math.Cos(angle)*radius, cy+math.Sin(angle)*radius, 70, 35, feature)
	}
	s.node(cx, cy, 80, 40, "Class")
}

type randomForestDiagram struct{}

func (randomForestDiagram) Key() algorithms.Key { return algorithms.RandomForest }

func (randomForestDiagram) Draw(s *Surface, _ randomizer.Source) {
	trees := []point{
		{s.X(0.2), s.Y(0.3)},
		{s.X(0.5), s.Y(0.2)},
		{s.X(0.8), s.Y(0.35)},
	}

	for _, t := range trees {
		s.link(t.X, t.Y+15, t.X-30, t.Y+50)
		s.link(t.X, t.Y+15, t.X+30, t.Y+50)
		s.node(t.X, t.Y, 60, 30, "Feature")
		s.node(t.X-30, t.Y+70, 50, 25, "Yes")
		s.node(t.X+30, t.Y+70, 50, 25, "No")
	}

	merge := point{s.X(0.5), s.Y(0.7)}
	for _, t := range trees {
		s.link(t.X, t.Y+85, merge.X, merge.Y-20)
	}
	s.node(merge.X, merge.Y, 100, 40, "Vote / average")

	s.link(merge.X, merge.Y+20, merge.X, merge.Y+60)
	s.node(merge.X, merge.Y+80, 80, 35, "Final result")

	s.text("Many decision trees", s.X(0.5), 30, 14, colorText, AlignCenter)
}

type adaBoostDiagram struct{}

func (adaBoostDiagram) Key() algorithms.Key { return algorithms.AdaBoost }

func (adaBoostDiagram) Draw(s *Surface, _ randomizer.Source) {
	learners := []point{
		{s.X(0.2), s.Y(0.25)},
		{s.X(0.5), s.Y(0.25)},
		{s.X(0.8), s.Y(0.25)},
	}
	combine := point{s.X(0.5), s.Y(0.55)}
	strong := point{s.X(0.5), s.Y(0.75)}

	for i, l := range learners {
		s.node(l.X, l.Y, 80, 40, fmt.Sprintf("Weak learner %d", i+1))

		// each learner gets its own toy decision boundary
		switch i {
		case 0:
			s.line(l.X-30, l.Y+60, l.X+30, l.Y+60, colorGray, 1)
		case 1:
			s.line(l.X-30, l.Y+40, l.X-30, l.Y+80, colorGray, 1)
		default:
			s.line(l.X-30, l.Y+70, l.X+30, l.Y+50, colorGray, 1)
		}
	}

	for i, l := range learners {
		s.link(l.X, l.Y+40, combine.X, combine.Y-20)
		weight := 0.3 + float64(i)*0.1
		s.text(fmt.Sprintf("weight: %.1f", weight), (l.X+combine.X)/2, (l.Y+40+combine.Y-20)/2, 12, colorText, AlignCenter)
	}

	s.node(combine.X, combine.Y, 120, 40, "Weighted sum")
	s.link(combine.X, combine.Y+20, strong.X, strong.Y-20)
	s.node(strong.X, strong.Y, 100, 40, "Strong classifier")

	s.text("Weak learners combined into a strong one", s.X(0.5), 30, 14, colorText, AlignCenter)
}
