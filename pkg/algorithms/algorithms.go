package algorithms

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm is returned for keys outside the algorithm catalogue
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Key identifies one of the supported algorithms
type Key string

// Supported algorithm keys
const (
	DecisionTree       Key = "decision_tree"
	NaiveBayes         Key = "naive_bayes"
	KNN                Key = "knn"
	SVM                Key = "svm"
	RandomForest       Key = "random_forest"
	LinearRegression   Key = "linear_regression"
	LogisticRegression Key = "logistic_regression"
	AdaBoost           Key = "adaboost"
	KMeans             Key = "kmeans"
	EM                 Key = "em"
)

// TaskType is the kind of learning task an algorithm supports
type TaskType string

const (
	TaskClassification TaskType = "classification"
	TaskRegression     TaskType = "regression"
	TaskClustering     TaskType = "clustering"
	TaskBoth           TaskType = "both" // classification and regression
)

// All returns every supported algorithm key in display order
func All() []Key {
	return []Key{
		DecisionTree,
		NaiveBayes,
		KNN,
		SVM,
		RandomForest,
		LinearRegression,
		LogisticRegression,
		AdaBoost,
		KMeans,
		EM,
	}
}

// ParseKey validates a raw algorithm identifier
func ParseKey(s string) (Key, error) {
	key := Key(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range All() {
		if k == key {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w '%s', must be one of: %v", ErrUnknownAlgorithm, s, All())
}

// Info holds the static description of an algorithm
type Info struct {
	Key         Key
	Title       string
	Description string
	Task        TaskType
}

// Summary returns the first n runes of the description followed by an ellipsis
func (i Info) Summary(n int) string {
	runes := []rune(i.Description)
	if len(runes) <= n {
		return i.Description
	}
	return string(runes[:n]) + "..."
}

// SupportsClassification reports whether the algorithm can be compared on a classification dataset
func (i Info) SupportsClassification() bool {
	return i.Task == TaskClassification || i.Task == TaskBoth
}

// SupportsRegression reports whether the algorithm can be compared on a regression dataset
func (i Info) SupportsRegression() bool {
	return i.Task == TaskRegression || i.Task == TaskBoth
}

// Catalogue is an immutable lookup of algorithm descriptions.
// It is built once and passed to the renderers that need titles.
type Catalogue struct {
	order []Key
	infos map[Key]Info
}

// NewCatalogue creates a catalogue from the given descriptions, keeping their order
func NewCatalogue(infos ...Info) Catalogue {
	c := Catalogue{
		order: make([]Key, 0, len(infos)),
		infos: make(map[Key]Info, len(infos)),
	}
	for _, info := range infos {
		if _, exists := c.infos[info.Key]; !exists {
			c.order = append(c.order, info.Key)
		}
		c.infos[info.Key] = info
	}
	return c
}

// Lookup returns the description for a key
func (c Catalogue) Lookup(key Key) (Info, bool) {
	info, ok := c.infos[key]
	return info, ok
}

// Title returns the display title for a key, falling back to the raw key
func (c Catalogue) Title(key Key) string {
	if info, ok := c.infos[key]; ok {
		return info.Title
	}
	return string(key)
}

// Infos returns all descriptions in catalogue order
func (c Catalogue) Infos() []Info {
	infos := make([]Info, 0, len(c.order))
	for _, key := range c.order {
		infos = append(infos, c.infos[key])
	}
	return infos
}

// Applicable returns, in catalogue order, the keys that can be compared on a dataset of the given task
func (c Catalogue) Applicable(task TaskType) []Key {
	keys := make([]Key, 0, len(c.order))
	for _, key := range c.order {
		info := c.infos[key]
		if (task == TaskClassification && info.SupportsClassification()) ||
			(task == TaskRegression && info.SupportsRegression()) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Len returns the number of algorithms in the catalogue
func (c Catalogue) Len() int {
	return len(c.order)
}

// Default returns the built-in catalogue of the ten supported algorithms
func Default() Catalogue {
	return NewCatalogue(
		Info{
			Key:         DecisionTree,
			Title:       "Decision Tree",
			Task:        TaskClassification,
			Description: "A decision tree is a tree structure in which every internal node tests an attribute, every branch is an outcome of that test and every leaf holds a class. Trees are easy to read and explain, handle numeric and categorical data without preprocessing, and work for classification and regression, but they overfit easily.",
		},
		Info{
			Key:         NaiveBayes,
			Title:       "Naive Bayes",
			Task:        TaskClassification,
			Description: "Naive Bayes applies Bayes' theorem under the assumption that features are conditionally independent given the class. Classification picks the class with the highest posterior probability. It is cheap to train and evaluate and works well in practice, especially for text classification and spam filtering.",
		},
		Info{
			Key:         KNN,
			Title:       "K-Nearest Neighbors",
			Task:        TaskBoth,
			Description: "KNN is an instance based learner. A new sample is compared with every training sample, the K closest ones are selected and their majority class (classification) or mean value (regression) becomes the prediction. It is simple and intuitive but expensive at prediction time and sensitive to noise and outliers.",
		},
		Info{
			Key:         SVM,
			Title:       "Support Vector Machine",
			Task:        TaskClassification,
			Description: "An SVM searches for the hyperplane that maximises the margin between two classes. Kernel functions map non-linear problems into a higher dimensional space where a separating hyperplane exists. SVMs do well on small, high dimensional problems but are costly to train and sensitive to the kernel and its parameters.",
		},
		Info{
			Key:         RandomForest,
			Title:       "Random Forest",
			Task:        TaskClassification,
			Description: "A random forest is an ensemble of decision trees whose predictions are combined by voting (classification) or averaging (regression). Random sampling of rows and features reduces overfitting and improves generalisation. Forests are accurate and robust but much harder to interpret than a single tree.",
		},
		Info{
			Key:         LinearRegression,
			Title:       "Linear Regression",
			Task:        TaskRegression,
			Description: "Linear regression models a linear relationship between the inputs and a continuous target, fitting the parameters by minimising the squared error between predictions and observations. It is simple and explainable but only captures linear structure.",
		},
		Info{
			Key:         LogisticRegression,
			Title:       "Logistic Regression",
			Task:        TaskClassification,
			Description: "Despite its name logistic regression is a classifier. A linear model is passed through the sigmoid function to obtain the probability that a sample belongs to a class. It is easy to implement and interpret and suits binary problems, but its expressive power on non-linear data is limited.",
		},
		Info{
			Key:         AdaBoost,
			Title:       "AdaBoost",
			Task:        TaskClassification,
			Description: "AdaBoost trains a sequence of weak learners, re-weighting the samples each round so that later learners focus on earlier mistakes, and combines them with performance based weights into a strong learner. It is sensitive to noisy data but performs well on many practical problems.",
		},
		Info{
			Key:         KMeans,
			Title:       "K-Means Clustering",
			Task:        TaskClustering,
			Description: "K-means is an unsupervised algorithm that partitions the data into K clusters so that points in the same cluster are similar and points in different clusters are not. Cluster centres are refined iteratively. It is fast and simple but K must be chosen up front, it depends on the initial centres and it struggles with non-convex clusters.",
		},
		Info{
			Key:         EM,
			Title:       "Expectation Maximization",
			Task:        TaskClustering,
			Description: "EM estimates the parameters of models with latent variables by alternating an expectation step, which computes the posterior of the hidden variables, and a maximisation step, which updates the parameters from those posteriors. It is widely used for mixture models but can converge slowly and get stuck in local optima.",
		},
	)
}
