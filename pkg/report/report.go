package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/brianbland/mlviz/pkg/algorithms"
	"github.com/brianbland/mlviz/pkg/api"
)

// Ranking is one ranked algorithm within a dataset section
type Ranking struct {
	Rank      int
	Algorithm algorithms.Key
	Title     string
	Value     float64
}

// Section holds the ranking of one dataset
type Section struct {
	Dataset  algorithms.Dataset
	Heading  string
	Metric   algorithms.Metric
	Rankings []Ranking
}

// Report is the experiment report across all datasets
type Report struct {
	Title    string
	Sections []Section
	Summary  []string
}

var sectionHeadings = map[algorithms.Dataset]string{
	algorithms.Iris:       "Iris dataset (classification)",
	algorithms.MNIST:      "MNIST sample dataset (classification)",
	algorithms.Regression: "Regression sample dataset (regression)",
}

var summary = []string{
	"Different algorithms have different strengths depending on the task and the dataset.",
	"For classification, SVM and random forests usually do well; for regression, random forests and linear regression are good choices.",
	"In practice the algorithm should be chosen from the problem type, the characteristics of the data and the available compute.",
}

// Rank keeps the entries with a usable value and orders them best first.
// Ties keep their input order.
func Rank(catalogue algorithms.Catalogue, metric algorithms.Metric, entries []api.ComparisonEntry) []Ranking {
	rankings := make([]Ranking, 0, len(entries))
	for _, e := range entries {
		if !e.Valid() {
			continue
		}
		rankings = append(rankings, Ranking{
			Algorithm: e.Algorithm,
			Title:     catalogue.Title(e.Algorithm),
			Value:     *e.Value,
		})
	}

	lowerIsBetter := metric.LowerIsBetter()
	sort.SliceStable(rankings, func(i, j int) bool {
		if lowerIsBetter {
			return rankings[i].Value < rankings[j].Value
		}
		return rankings[i].Value > rankings[j].Value
	})

	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return rankings
}

// Build ranks every dataset in fixed order. Datasets without a result get an empty section.
func Build(catalogue algorithms.Catalogue, results map[algorithms.Dataset]*api.ComparisonResult) Report {
	report := Report{
		Title:   "Machine learning algorithm comparison report",
		Summary: summary,
	}

	for _, info := range algorithms.Datasets() {
		section := Section{
			Dataset: info.Key,
			Heading: sectionHeadings[info.Key],
			Metric:  info.Metric,
		}
		if result, ok := results[info.Key]; ok && result != nil {
			section.Rankings = Rank(catalogue, info.Metric, result.Entries)
		}
		report.Sections = append(report.Sections, section)
	}
	return report
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc":    func(i int) int { return i + 1 },
	"value":  func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"metric": func(m algorithms.Metric) string { return m.Label() },
}).Parse(`<h3>{{.Title}}</h3>
{{range $i, $s := .Sections}}<h4>{{inc $i}}. {{$s.Heading}}</h4>
<ul>
{{range $s.Rankings}}<li>{{.Rank}}. {{.Title}}: {{metric $s.Metric}} {{value .Value}}</li>
{{end}}</ul>
{{end}}<h4>{{inc (len .Sections)}}. Summary</h4>
{{range .Summary}}<p>{{.}}</p>
{{end}}`))

// Render writes the report as an HTML fragment
func (r Report) Render() (template.HTML, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Generate builds and renders the report in one step
func Generate(catalogue algorithms.Catalogue, results map[algorithms.Dataset]*api.ComparisonResult) (template.HTML, error) {
	return Build(catalogue, results).Render()
}
