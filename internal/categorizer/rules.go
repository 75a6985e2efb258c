package categorizer

import (
	"strings"

	"github.com/SscSPs/expense_tracker/internal/core/domain"
)

type keywordRule struct {
	category domain.Category
	keywords []string
}

// Order matters: the first rule with a matching keyword wins.
var defaultRules = []keywordRule{
	{domain.CategoryFood, []string{"zomato", "swiggy", "pizza", "burger", "restaurant", "food"}},
	{domain.CategoryTransport, []string{"uber", "bus", "train", "taxi", "metro"}},
	{domain.CategoryBills, []string{"electricity", "water", "gas", "internet", "wifi"}},
	{domain.CategoryEntertainment, []string{"movie", "netflix", "spotify", "games", "concert"}},
	{domain.CategoryShopping, []string{"clothes", "shoes", "shopping", "amazon", "flipkart"}},
	{domain.CategoryHealth, []string{"hospital", "doctor", "medicine", "pharmacy"}},
	{domain.CategoryEducation, []string{"school", "college", "course", "book", "exam"}},
}

// RuleClassifier matches case-insensitive keyword substrings. It never fails
// and returns domain.CategoryOther when nothing matches.
type RuleClassifier struct {
	rules []keywordRule
}

// NewRuleClassifier returns a RuleClassifier with the built-in keyword table.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{rules: defaultRules}
}

// Categorize is the total form of Classify.
func (r *RuleClassifier) Categorize(text string) domain.Category {
	lowered := strings.ToLower(text)
	for _, rule := range r.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.category
			}
		}
	}
	return domain.CategoryOther
}

// Classify implements Classifier; the error is always nil.
func (r *RuleClassifier) Classify(text string) (domain.Category, error) {
	return r.Categorize(text), nil
}

var _ Classifier = (*RuleClassifier)(nil)
