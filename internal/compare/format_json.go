package compare

import (
	json "github.com/goccy/go-json"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool
}

// jsonComparison adds the winning scenario to the set so consumers need not rank rows themselves.
type jsonComparison struct {
	*ComparisonSet
	HighestIncome string `json:"highestIncome,omitempty"`
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	doc := jsonComparison{ComparisonSet: compSet, HighestIncome: highestIncome(compSet)}

	marshal := json.Marshal
	if jf.Pretty {
		marshal = func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	}
	data, err := marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// highestIncome names the scenario with the largest monthly income after tax; ties keep the earlier row.
func highestIncome(compSet *ComparisonSet) string {
	rows := compSet.All()
	if len(rows) == 0 {
		return ""
	}
	best := rows[0]
	for _, r := range rows[1:] {
		if r.MonthlyIncomeAfterTax.GreaterThan(best.MonthlyIncomeAfterTax) {
			best = r
		}
	}
	return best.ScenarioName
}
