package server

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
	"github.com/brianbland/mlviz/pkg/report"
	"github.com/brianbland/mlviz/pkg/visualization"
)

const defaultTestSize = 0.2

var contentTypes = map[string]string{
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".html": "text/html; charset=utf-8",
}

func (s *Server) defaultRoutes() []Route {
	return []Route{
		{Name: "cards", Path: "/", Method: GET, Exec: s.cards},
		{Name: "diagram", Path: "/diagram/", Method: GET, Exec: s.diagram},
		{Name: "dataset", Path: "/dataset/", Method: GET, Exec: s.dataset},
		{Name: "compare", Path: "/compare", Method: GET, Exec: s.compare},
		{Name: "train", Path: "/train", Method: GET, Exec: s.train},
		{Name: "report", Path: "/report", Method: GET, Exec: s.experimentReport},
	}
}

// generator builds a chart generator, honouring a ?format= override
func (s *Server) generator(r *http.Request) (visualization.ChartGenerator, error) {
	options := s.options
	if raw := r.URL.Query().Get("format"); raw != "" {
		format, err := visualization.ParseFormat(raw)
		if err != nil {
			return nil, badRequest(err)
		}
		options.Format = format
	}
	return visualization.NewGenerator(options, s.catalogue), nil
}

// render runs a chart into a buffer and counts it
func (s *Server) render(chart string, gen visualization.ChartGenerator, interactive bool, draw func(buf *bytes.Buffer) error) (Response, error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		return Response{}, err
	}
	ext := gen.Extension(interactive)
	s.metrics.Rendered(chart, strings.TrimPrefix(ext, "."))
	return Response{Body: buf.Bytes(), ContentType: contentTypes[ext]}, nil
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeout)
}

func queryDataset(r *http.Request) (algorithms.Dataset, error) {
	raw := r.URL.Query().Get("dataset")
	if raw == "" {
		return algorithms.Iris, nil
	}
	return algorithms.ParseDataset(raw)
}

func queryTestSize(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("test_size")
	if raw == "" {
		return defaultTestSize, nil
	}
	testSize, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, badRequest(fmt.Errorf("invalid test_size '%s': %w", raw, err))
	}
	if err := api.ValidateTestSize(testSize); err != nil {
		return 0, badRequest(err)
	}
	return testSize, nil
}

var cardsTemplate = template.Must(template.New("cards").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Machine learning algorithms</title></head>
<body>
<h1>Machine learning algorithms</h1>
{{range .}}<div class="algorithm-card">
<h3><a href="/diagram/{{.Key}}">{{.Title}}</a></h3>
<p>{{.Summary}}</p>
</div>
{{end}}<p><a href="/compare">Compare</a> | <a href="/report">Report</a></p>
</body></html>
`))

type card struct {
	Key     algorithms.Key
	Title   string
	Summary string
}

func (s *Server) cards(r *http.Request) (Response, error) {
	cards := make([]card, 0, s.catalogue.Len())
	for _, info := range s.catalogue.Infos() {
		cards = append(cards, card{Key: info.Key, Title: info.Title, Summary: info.Summary(100)})
	}

	var buf bytes.Buffer
	if err := cardsTemplate.Execute(&buf, cards); err != nil {
		return Response{}, fmt.Errorf("failed to render cards: %w", err)
	}
	return Response{Body: buf.Bytes(), ContentType: contentTypes[".html"]}, nil
}

func (s *Server) diagram(r *http.Request) (Response, error) {
	key, err := algorithms.ParseKey(strings.TrimPrefix(r.URL.Path, "/diagram/"))
	if err != nil {
		return Response{}, err
	}
	gen, err := s.generator(r)
	if err != nil {
		return Response{}, err
	}
	return s.render("diagram", gen, false, func(buf *bytes.Buffer) error {
		return gen.Diagram(buf, key)
	})
}

func (s *Server) dataset(r *http.Request) (Response, error) {
	key, err := algorithms.ParseDataset(strings.TrimPrefix(r.URL.Path, "/dataset/"))
	if err != nil {
		return Response{}, err
	}

	sampleSize := 0
	if raw := r.URL.Query().Get("sample_size"); raw != "" {
		if sampleSize, err = strconv.Atoi(raw); err != nil || sampleSize < 0 {
			return Response{}, badRequest(fmt.Errorf("invalid sample_size '%s'", raw))
		}
	}
	gen, err := s.generator(r)
	if err != nil {
		return Response{}, err
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	data, err := s.client.Dataset(ctx, key, sampleSize)
	if err != nil {
		return Response{}, upstream(fmt.Errorf("failed to fetch dataset %s: %w", key, err))
	}

	return s.render("dataset", gen, true, func(buf *bytes.Buffer) error {
		return gen.Dataset(buf, key, data)
	})
}

func (s *Server) compare(r *http.Request) (Response, error) {
	dataset, err := queryDataset(r)
	if err != nil {
		return Response{}, err
	}
	info, _ := algorithms.LookupDataset(dataset)

	req := api.CompareRequest{Dataset: dataset, Metric: info.Metric}
	query := r.URL.Query()
	if raw := query.Get("metric"); raw != "" {
		if req.Metric, err = algorithms.ParseMetric(raw); err != nil {
			return Response{}, badRequest(err)
		}
	}
	if raw := query.Get("algorithms"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			key, err := algorithms.ParseKey(part)
			if err != nil {
				return Response{}, err
			}
			req.Algorithms = append(req.Algorithms, key)
		}
	} else {
		req.Algorithms = s.catalogue.Applicable(info.Task)
	}
	if query.Get("test_size") != "" {
		testSize, err := queryTestSize(r)
		if err != nil {
			return Response{}, err
		}
		req.TestSize = &testSize
	}

	gen, err := s.generator(r)
	if err != nil {
		return Response{}, err
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	result, err := s.client.Compare(ctx, req)
	if err != nil {
		return Response{}, upstream(fmt.Errorf("failed to compare on %s: %w", dataset, err))
	}

	return s.render("compare", gen, true, func(buf *bytes.Buffer) error {
		_, err := gen.Comparison(buf, result)
		return err
	})
}

func (s *Server) train(r *http.Request) (Response, error) {
	key, err := algorithms.ParseKey(r.URL.Query().Get("algorithm"))
	if err != nil {
		return Response{}, err
	}
	dataset, err := queryDataset(r)
	if err != nil {
		return Response{}, err
	}
	testSize, err := queryTestSize(r)
	if err != nil {
		return Response{}, err
	}
	gen, err := s.generator(r)
	if err != nil {
		return Response{}, err
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	resp, err := s.client.Train(ctx, api.TrainRequest{Algorithm: key, Dataset: dataset, TestSize: testSize})
	if err != nil {
		return Response{}, upstream(fmt.Errorf("failed to train %s on %s: %w", key, dataset, err))
	}

	// Cluster payloads may index into the dataset rather than carry points.
	var data *api.Dataset
	if key == algorithms.KMeans && resp.VisualizationPayload() != nil {
		if data, err = s.client.Dataset(ctx, dataset, 0); err != nil {
			return Response{}, upstream(fmt.Errorf("failed to fetch dataset %s: %w", dataset, err))
		}
	}

	return s.render("train", gen, false, func(buf *bytes.Buffer) error {
		return gen.TrainResult(buf, key, resp, data)
	})
}

var reportPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Experiment report</title></head>
<body>
{{.}}
</body></html>
`))

func (s *Server) experimentReport(r *http.Request) (Response, error) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	results, err := report.Collect(ctx, s.client)
	if err != nil {
		return Response{}, upstream(err)
	}
	fragment, err := report.Generate(s.catalogue, results)
	if err != nil {
		return Response{}, err
	}

	var buf bytes.Buffer
	if err := reportPage.Execute(&buf, fragment); err != nil {
		return Response{}, fmt.Errorf("failed to render report page: %w", err)
	}
	s.metrics.Rendered("report", "html")
	return Response{Body: buf.Bytes(), ContentType: contentTypes[".html"]}, nil
}
