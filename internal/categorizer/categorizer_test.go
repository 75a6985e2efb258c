package categorizer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/SscSPs/expense_tracker/internal/categorizer"
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(text string) (domain.Category, error) {
	args := m.Called(text)
	return args.Get(0).(domain.Category), args.Error(1)
}

var _ categorizer.Classifier = (*MockClassifier)(nil)

type panickingClassifier struct{}

func (panickingClassifier) Classify(string) (domain.Category, error) {
	panic("model corrupted")
}

func TestCategorizer_RuleOnly(t *testing.T) {
	c := categorizer.New()
	assert.False(t, c.HasModel())
	assert.Equal(t, domain.CategoryTransport, c.Categorize(context.Background(), "Uber ride downtown"))
	assert.Equal(t, domain.CategoryOther, c.Categorize(context.Background(), "xyz123 unknown item"))
}

func TestCategorizer_PrimaryWins(t *testing.T) {
	primary := new(MockClassifier)
	primary.On("Classify", "Uber ride downtown").Return(domain.CategoryBills, nil).Once()

	c := categorizer.New(categorizer.WithClassifier(primary))

	assert.True(t, c.HasModel())
	assert.Equal(t, domain.CategoryBills, c.Categorize(context.Background(), "Uber ride downtown"))
	primary.AssertExpectations(t)
}

func TestCategorizer_FallsBackOnFailure(t *testing.T) {
	tests := []struct {
		name     string
		category domain.Category
		err      error
	}{
		{name: "unavailable", category: "", err: categorizer.ErrClassifierUnavailable},
		{name: "other error", category: "", err: errors.New("boom")},
		{name: "label outside category set", category: domain.Category("Travel"), err: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := new(MockClassifier)
			primary.On("Classify", "Uber ride downtown").Return(tt.category, tt.err).Once()

			c := categorizer.New(categorizer.WithClassifier(primary))
			assert.Equal(t, domain.CategoryTransport, c.Categorize(context.Background(), "Uber ride downtown"))
			primary.AssertExpectations(t)
		})
	}
}

func TestCategorizer_TrainedModelThenRules(t *testing.T) {
	samples, err := categorizer.ReadSamplesCSV(strings.NewReader(
		"chai and samosa,Food\nrickshaw home,Transport\n"))
	require.NoError(t, err)
	model, err := categorizer.TrainBayesClassifier(samples)
	require.NoError(t, err)

	c := categorizer.New(categorizer.WithClassifier(model))

	// the model knows "rickshaw"; the rules do not
	assert.Equal(t, domain.CategoryTransport, c.Categorize(context.Background(), "rickshaw"))
	// unknown to the model, handled by the rules
	assert.Equal(t, domain.CategoryEntertainment, c.Categorize(context.Background(), "netflix"))
	assert.Equal(t, domain.CategoryOther, c.Categorize(context.Background(), "xyz123 unknown item"))
}

func TestCategorizer_RecoversFromPanickingModel(t *testing.T) {
	c := categorizer.New(categorizer.WithClassifier(categorizer.Recovering(panickingClassifier{})))
	assert.Equal(t, domain.CategoryFood, c.Categorize(context.Background(), "pizza"))
}

func TestReadSamplesCSV(t *testing.T) {
	samples, err := categorizer.ReadSamplesCSV(strings.NewReader(
		"description,category\nchai, food\nmetro card,Transport\n"))
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, categorizer.Sample{Description: "chai", Category: domain.CategoryFood}, samples[0])

	_, err = categorizer.ReadSamplesCSV(strings.NewReader("chai,Food\nflight,Travel\n"))
	assert.Error(t, err)
}
