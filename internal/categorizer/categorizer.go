package categorizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/SscSPs/expense_tracker/internal/middleware"
)

// Categorizer consults an optional primary classifier and falls back to the
// keyword rules. Categorize never fails.
type Categorizer struct {
	primary  Classifier
	fallback *RuleClassifier
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithClassifier sets the primary classifier. A nil classifier means rules only.
func WithClassifier(c Classifier) Option {
	return func(cat *Categorizer) {
		if c == nil {
			cat.primary = nil
			return
		}
		cat.primary = Recovering(c)
	}
}

type recoveringClassifier struct {
	inner Classifier
}

// Recovering wraps c so that a panic inside Classify is reported as
// ErrClassifierUnavailable.
func Recovering(c Classifier) Classifier {
	if r, ok := c.(recoveringClassifier); ok {
		return r
	}
	return recoveringClassifier{inner: c}
}

func (r recoveringClassifier) Classify(text string) (category domain.Category, err error) {
	defer func() {
		if p := recover(); p != nil {
			category = ""
			err = fmt.Errorf("%w: %v", ErrClassifierUnavailable, p)
		}
	}()
	return r.inner.Classify(text)
}

// New returns a Categorizer. Without options it is rule-only.
func New(opts ...Option) *Categorizer {
	c := &Categorizer{fallback: NewRuleClassifier()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasModel reports whether a primary classifier is configured.
func (c *Categorizer) HasModel() bool {
	return c.primary != nil
}

// Categorize returns the category for description.
func (c *Categorizer) Categorize(ctx context.Context, description string) domain.Category {
	if c.primary != nil {
		category, err := c.primary.Classify(description)
		if err == nil && category.IsValid() {
			return category
		}
		logger := middleware.GetLoggerFromCtx(ctx)
		if err == nil || errors.Is(err, ErrClassifierUnavailable) {
			logger.Debug("Classifier gave no usable prediction, using keyword rules", slog.Any("error", err))
		} else {
			logger.Warn("Classifier failed, using keyword rules", slog.String("error", err.Error()))
		}
	}
	return c.fallback.Categorize(description)
}
