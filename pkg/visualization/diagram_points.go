package visualization

import (
	"math"
	"sort"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/randomizer"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// The point diagrams are laid out on a 500x400 reference frame;
// ux and uy convert reference units into unit space.
const (
	refWidth  = 500.0
	refHeight = 400.0
)

func ux(v float64) float64 { return v / refWidth }
func uy(v float64) float64 { return v / refHeight }

type knnDiagram struct{}

func (knnDiagram) Key() algorithms.Key { return algorithms.KNN }

func (knnDiagram) Draw(s *Surface, rng randomizer.Source) {
	const (
		perClass  = 30
		neighbors = 5
	)

	box := randomizer.NewBoxScatter(rng, ux(150), uy(150))
	type sample struct {
		point
		class    int
		distance float64
	}

	query := point{s.X(0.5), s.Y(0.5)}
	samples := make([]sample, 0, 2*perClass)
	for i := 0; i < perClass; i++ {
		a := s.scatter(box, ux(225), uy(225), 1)[0]
		b := s.scatter(box, ux(425), uy(375), 1)[0]
		samples = append(samples, sample{point: a, class: 0}, sample{point: b, class: 1})
	}
	for i := range samples {
		samples[i].distance = math.Hypot(samples[i].X-query.X, samples[i].Y-query.Y)
	}

	nearest := make([]sample, len(samples))
	copy(nearest, samples)
	sort.SliceStable(nearest, func(i, j int) bool { return nearest[i].distance < nearest[j].distance })
	nearest = nearest[:neighbors]

	for _, p := range samples {
		color := colorBlue
		if p.class == 1 {
			color = colorRed
		}
		s.dot(p.X, p.Y, 5, color)
	}
	s.outlinedDot(query.X, query.Y, 8, colorPurple, drawing.ColorBlack, 2)

	for _, p := range nearest {
		s.ring(p.X, p.Y, 10, colorGreen, 2)
		s.line(query.X, query.Y, p.X, p.Y, colorGreen, 1)
	}

	s.legend(
		"Purple: point to classify",
		"Blue: class 0",
		"Red: class 1",
		"Green rings: 5 nearest neighbours",
	)
}

type svmDiagram struct{}

func (svmDiagram) Key() algorithms.Key { return algorithms.SVM }

func (svmDiagram) Draw(s *Surface, rng randomizer.Source) {
	const perClass = 20

	box := randomizer.NewBoxScatter(rng, ux(300), uy(100))
	classA := s.scatter(box, ux(300), uy(350), perClass)
	classB := s.scatter(box, ux(300), uy(150), perClass)

	for _, p := range classA {
		s.dot(p.X, p.Y, 6, colorBlue)
	}
	for _, p := range classB {
		s.dot(p.X, p.Y, 6, colorRed)
	}

	left, right := s.X(ux(150)), s.X(ux(450))
	s.line(left, s.Y(uy(200)), right, s.Y(uy(200)), drawing.ColorBlack, 2)

	lower, upper := s.Y(uy(150)), s.Y(uy(250))
	s.dashedLine(left, lower, right, lower, colorGray, 1, []float64{5, 5})
	s.dashedLine(left, upper, right, upper, colorGray, 1, []float64{5, 5})

	// points within 10 reference units of a margin are the support vectors
	tolerance := s.Y(uy(10))
	for _, p := range append(classA, classB...) {
		if math.Abs(p.Y-lower) < tolerance || math.Abs(p.Y-upper) < tolerance {
			s.ring(p.X, p.Y, 10, colorGreen, 2)
		}
	}

	s.legend(
		"Blue: class A",
		"Red: class B",
		"Solid black: separating hyperplane",
		"Dashed gray: margins",
		"Green rings: support vectors",
	)
}

type linearRegressionDiagram struct{}

func (linearRegressionDiagram) Key() algorithms.Key { return algorithms.LinearRegression }

// regressionLine is the reference-frame height of y = 0.3x + 50 at unit x
func regressionLine(x float64) float64 {
	return 1 - uy(50+0.3*(x*refWidth-100))
}

func (linearRegressionDiagram) Draw(s *Surface, rng randomizer.Source) {
	const numPoints = 30

	points := make([]point, numPoints)
	for i := range points {
		x := randomizer.Uniform(rng, 0.2, 0.8)
		y := regressionLine(x) - uy(randomizer.Uniform(rng, -40, 40))
		points[i] = point{s.X(x), s.Y(y)}
	}

	for _, p := range points {
		s.dot(p.X, p.Y, 5, colorBlue)
	}

	s.line(s.X(0.2), s.Y(regressionLine(0.2)), s.X(0.8), s.Y(regressionLine(0.8)), colorRed, 2)

	for _, p := range points[:5] {
		fitted := s.Y(regressionLine(p.X / float64(s.Width)))
		s.dashedLine(p.X, p.Y, p.X, fitted, colorGreen, 1, []float64{3, 3})
	}

	s.text("y = wx + b", 50, 50, 16, colorText, AlignLeft)
	s.text("Blue points: samples", 50, 80, 14, colorText, AlignLeft)
	s.text("Red line: fitted line", 50, 105, 14, colorText, AlignLeft)
	s.text("Dashed green: residuals", 50, 130, 14, colorText, AlignLeft)
}

type logisticRegressionDiagram struct{}

func (logisticRegressionDiagram) Key() algorithms.Key { return algorithms.LogisticRegression }

func (logisticRegressionDiagram) Draw(s *Surface, rng randomizer.Source) {
	const perClass = 20

	box := randomizer.NewBoxScatter(rng, ux(150), uy(200))
	for _, p := range s.scatter(box, ux(175), uy(200), perClass) {
		s.dot(p.X, p.Y, 6, colorBlue)
	}
	for _, p := range s.scatter(box, ux(375), uy(200), perClass) {
		s.dot(p.X, p.Y, 6, colorRed)
	}

	boundary := s.X(ux(250))
	s.line(boundary, s.Y(uy(100)), boundary, s.Y(uy(300)), drawing.ColorBlack, 2)

	const (
		curveStart = 100.0
		curveEnd   = 400.0
		curveBase  = 350.0
		curveRise  = 100.0
	)
	curve := make([]point, 0, int(curveEnd-curveStart)+1)
	for x := curveStart; x <= curveEnd; x++ {
		sigmoid := 1 / (1 + math.Exp(-(x-250)/50))
		curve = append(curve, point{s.X(ux(x)), s.Y(uy(curveBase - sigmoid*curveRise))})
	}
	s.polyline(curve, colorPurple, 2)

	base := s.Y(uy(curveBase))
	s.line(s.X(ux(curveStart)), base, s.X(ux(curveEnd)), base, colorGray, 1)
	s.line(boundary, s.Y(uy(curveBase-curveRise)), boundary, base, colorGray, 1)
	s.text("0.5", boundary-5, s.Y(uy(curveBase-curveRise/2))+4, 12, colorText, AlignRight)

	s.legend(
		"σ(z) = 1 / (1 + e^(-z))",
		"z = wx + b",
		"Blue: class 0",
		"Red: class 1",
		"Black line: decision boundary",
		"Purple line: sigmoid",
	)
}

type kMeansDiagram struct{}

func (kMeansDiagram) Key() algorithms.Key { return algorithms.KMeans }

func (kMeansDiagram) Draw(s *Surface, rng randomizer.Source) {
	const perCluster = 17

	centres := []struct {
		x, y  float64
		color drawing.Color
	}{
		{ux(200), uy(200), colorRed},
		{ux(400), uy(200), colorBlue},
		{ux(300), uy(350), colorGreen},
	}

	box := randomizer.NewBoxScatter(rng, ux(100), uy(100))
	for _, c := range centres {
		for _, p := range s.scatter(box, c.x, c.y, perCluster) {
			s.dot(p.X, p.Y, 5, c.color)
		}
	}

	for _, c := range centres {
		s.outlinedDot(s.X(c.x), s.Y(c.y), 10, c.color, drawing.ColorBlack, 2)
	}

	for _, c := range centres {
		s.ellipse(s.X(c.x), s.Y(c.y), s.X(ux(70)), s.Y(uy(70)), c.color, 2, []float64{5, 5})
	}

	s.legend(
		"Coloured points: samples",
		"Outlined points: cluster centres",
		"Dashed circles: cluster boundaries",
	)
}

type emDiagram struct{}

func (emDiagram) Key() algorithms.Key { return algorithms.EM }

func (emDiagram) Draw(s *Surface, rng randomizer.Source) {
	const perMixture = 30

	c1 := point{s.X(ux(200)), s.Y(uy(200))}
	c2 := point{s.X(ux(400)), s.Y(uy(250))}

	first := s.scatter(randomizer.NewBoxScatter(rng, ux(120), uy(80)), ux(200), uy(200), perMixture)
	second := s.scatter(randomizer.NewBoxScatter(rng, ux(100), uy(100)), ux(400), uy(250), perMixture)

	for _, p := range append(first, second...) {
		d1 := math.Hypot(p.X-c1.X, p.Y-c1.Y)
		d2 := math.Hypot(p.X-c2.X, p.Y-c2.Y)
		// p1 = 1 / (1 + d1/d2), written so coincident centres stay finite
		p1 := 0.5
		if d1+d2 > 0 {
			p1 = d2 / (d1 + d2)
		}
		s.dot(p.X, p.Y, 5, blend(colorRed, colorBlue, 1-p1))
	}

	s.ellipse(c1.X, c1.Y, s.X(ux(80)), s.Y(uy(50)), colorRed, 2, []float64{5, 5})
	s.ellipse(c2.X, c2.Y, s.X(ux(70)), s.Y(uy(60)), colorBlue, 2, []float64{5, 5})

	stepY := s.Y(0.78)
	e, m := s.X(0.3), s.X(0.7)
	s.arrow(e+40, stepY, m-40, stepY)
	s.arrow(m, stepY+20, m, stepY+60)
	s.arrow(m, stepY+80, e, stepY+80)
	s.arrow(e, stepY+80, e, stepY+20)
	s.node(e, stepY, 80, 40, "E-step")
	s.node(m, stepY, 80, 40, "M-step")

	s.text("Estimate latent variables", e, stepY+60, 12, colorText, AlignCenter)
	s.text("Update parameters", m, stepY+60, 12, colorText, AlignCenter)

	s.legend(
		"Red: mixture 1",
		"Blue: mixture 2",
		"Blended points: membership probability",
	)
}
