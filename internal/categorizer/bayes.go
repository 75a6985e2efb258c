package categorizer

import (
	"fmt"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/jbrukh/bayesian"
)

// Sample is one labelled description used for training.
type Sample struct {
	Description string
	Category    domain.Category
}

// BayesClassifier is a TF-IDF naive Bayes model over description tokens.
// It is read-only once built.
type BayesClassifier struct {
	cl      *bayesian.Classifier
	classes []bayesian.Class
	vocab   map[string]struct{}
}

func newBayesClassifier(cl *bayesian.Classifier, classes []bayesian.Class) *BayesClassifier {
	vocab := make(map[string]struct{})
	for _, class := range classes {
		for word := range cl.WordsByClass(class) {
			vocab[word] = struct{}{}
		}
	}
	return &BayesClassifier{cl: cl, classes: classes, vocab: vocab}
}

// TrainBayesClassifier learns a model from samples. At least two distinct
// valid categories must be present.
func TrainBayesClassifier(samples []Sample) (*BayesClassifier, error) {
	var classes []bayesian.Class
	seen := make(map[domain.Category]bool)
	for i, s := range samples {
		if !s.Category.IsValid() {
			return nil, fmt.Errorf("sample %d: unknown category %q", i, s.Category)
		}
		if !seen[s.Category] {
			seen[s.Category] = true
			classes = append(classes, bayesian.Class(s.Category))
		}
	}
	if len(classes) < 2 {
		return nil, fmt.Errorf("need samples for at least two categories, got %d", len(classes))
	}

	cl := bayesian.NewClassifierTfIdf(classes...)
	for _, s := range samples {
		tokens := Tokenize(s.Description)
		if len(tokens) == 0 {
			continue
		}
		cl.Learn(tokens, bayesian.Class(s.Category))
	}
	cl.ConvertTermsFreqToTfIdf()

	return newBayesClassifier(cl, classes), nil
}

// LoadBayesClassifier reads a model previously written by Save.
func LoadBayesClassifier(path string) (*BayesClassifier, error) {
	cl, err := bayesian.NewClassifierFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load classifier model %s: %w", path, err)
	}
	for _, c := range cl.Classes {
		if !domain.Category(c).IsValid() {
			return nil, fmt.Errorf("model %s: unknown category %q", path, c)
		}
	}
	return newBayesClassifier(cl, cl.Classes), nil
}

// Save writes the model to path.
func (b *BayesClassifier) Save(path string) error {
	if err := b.cl.WriteToFile(path); err != nil {
		return fmt.Errorf("write classifier model %s: %w", path, err)
	}
	return nil
}

// Classes returns the categories the model knows about.
func (b *BayesClassifier) Classes() []domain.Category {
	out := make([]domain.Category, len(b.classes))
	for i, c := range b.classes {
		out[i] = domain.Category(c)
	}
	return out
}

// Classify predicts a category. Ties, empty input, labels outside the
// category set and internal panics all surface as ErrClassifierUnavailable.
func (b *BayesClassifier) Classify(text string) (category domain.Category, err error) {
	if b == nil || b.cl == nil {
		return "", ErrClassifierUnavailable
	}
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return "", fmt.Errorf("%w: no tokens in description", ErrClassifierUnavailable)
	}

	if !b.knowsAny(tokens) {
		return "", fmt.Errorf("%w: no known terms in description", ErrClassifierUnavailable)
	}

	defer func() {
		if r := recover(); r != nil {
			category = ""
			err = fmt.Errorf("%w: %v", ErrClassifierUnavailable, r)
		}
	}()

	_, inx, strict := b.cl.LogScores(tokens)
	if !strict {
		return "", fmt.Errorf("%w: no single best category", ErrClassifierUnavailable)
	}
	if inx < 0 || inx >= len(b.classes) {
		return "", fmt.Errorf("%w: class index %d out of range", ErrClassifierUnavailable, inx)
	}
	predicted := domain.Category(b.classes[inx])
	if !predicted.IsValid() {
		return "", fmt.Errorf("%w: predicted unknown category %q", ErrClassifierUnavailable, predicted)
	}
	return predicted, nil
}

// knowsAny reports whether at least one token was seen during training.
// Without that the prediction would only reflect class priors.
func (b *BayesClassifier) knowsAny(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := b.vocab[t]; ok {
			return true
		}
	}
	return false
}

var _ Classifier = (*BayesClassifier)(nil)
