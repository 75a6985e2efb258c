package categorizer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SscSPs/expense_tracker/internal/categorizer"
	"github.com/SscSPs/expense_tracker/internal/core/domain"
	"github.com/stretchr/testify/suite"
)

type BayesClassifierTestSuite struct {
	suite.Suite
	model *categorizer.BayesClassifier
}

func (s *BayesClassifierTestSuite) SetupTest() {
	f, err := os.Open(filepath.Join("testdata", "training.csv"))
	s.Require().NoError(err)
	defer f.Close()

	samples, err := categorizer.ReadSamplesCSV(f)
	s.Require().NoError(err)
	s.Require().NotEmpty(samples)

	s.model, err = categorizer.TrainBayesClassifier(samples)
	s.Require().NoError(err)
}

func (s *BayesClassifierTestSuite) TestClassify_KnownTerms() {
	got, err := s.model.Classify("morning chai")
	s.NoError(err)
	s.Equal(domain.CategoryFood, got)

	got, err = s.model.Classify("Auto Rickshaw fare")
	s.NoError(err)
	s.Equal(domain.CategoryTransport, got)
}

func (s *BayesClassifierTestSuite) TestClassify_UnknownTermsIsUnavailable() {
	_, err := s.model.Classify("xyz123 qwerty")
	s.ErrorIs(err, categorizer.ErrClassifierUnavailable)
}

func (s *BayesClassifierTestSuite) TestClassify_EmptyIsUnavailable() {
	_, err := s.model.Classify("   ")
	s.ErrorIs(err, categorizer.ErrClassifierUnavailable)
}

func (s *BayesClassifierTestSuite) TestClassify_NilModelIsUnavailable() {
	var model *categorizer.BayesClassifier
	_, err := model.Classify("chai")
	s.ErrorIs(err, categorizer.ErrClassifierUnavailable)
}

func (s *BayesClassifierTestSuite) TestSaveAndLoad() {
	path := filepath.Join(s.T().TempDir(), "categorizer.model")
	s.Require().NoError(s.model.Save(path))

	loaded, err := categorizer.LoadBayesClassifier(path)
	s.Require().NoError(err)
	s.ElementsMatch(s.model.Classes(), loaded.Classes())

	got, err := loaded.Classify("chai")
	s.NoError(err)
	s.Equal(domain.CategoryFood, got)
}

func (s *BayesClassifierTestSuite) TestLoad_MissingFile() {
	_, err := categorizer.LoadBayesClassifier(filepath.Join(s.T().TempDir(), "missing.model"))
	s.Error(err)
}

func TestBayesClassifier(t *testing.T) {
	suite.Run(t, new(BayesClassifierTestSuite))
}

func TestTrainBayesClassifier_NeedsTwoCategories(t *testing.T) {
	_, err := categorizer.TrainBayesClassifier([]categorizer.Sample{
		{Description: "chai", Category: domain.CategoryFood},
		{Description: "samosa", Category: domain.CategoryFood},
	})
	if err == nil {
		t.Fatal("expected an error for a single-category training set")
	}
}

func TestTrainBayesClassifier_RejectsUnknownCategory(t *testing.T) {
	_, err := categorizer.TrainBayesClassifier([]categorizer.Sample{
		{Description: "chai", Category: domain.CategoryFood},
		{Description: "flight", Category: domain.Category("Travel")},
	})
	if err == nil {
		t.Fatal("expected an error for an unknown category")
	}
}
