package collector

import "fmt"

// Checks defines declarative pass/fail criteria evaluated against a run
// summary. Nil fields are not checked.
type Checks struct {
	PeakInfectiousMax  *int     `yaml:"peak_infectious_max"`
	FinalInfectiousMax *int     `yaml:"final_infectious_max"`
	AttackRateMax      *float64 `yaml:"attack_rate_max"`
	AttackRateMin      *float64 `yaml:"attack_rate_min"`
	ExtinctBy          *int     `yaml:"extinct_by"`
}

// CheckResult is the outcome of a single criterion.
type CheckResult struct {
	Name      string `json:"name"`
	Passed    bool   `json:"passed"`
	Criterion string `json:"criterion"`
	Actual    string `json:"actual"`
}

// CheckResults collects all criterion outcomes.
type CheckResults struct {
	Passed  bool          `json:"passed"`
	Results []CheckResult `json:"results"`
}

// Evaluate runs every configured criterion against the summary. A nil Checks
// passes trivially.
func (c *Checks) Evaluate(s *Summary) *CheckResults {
	if c == nil {
		return &CheckResults{Passed: true}
	}

	results := &CheckResults{Passed: true, Results: make([]CheckResult, 0)}

	if c.PeakInfectiousMax != nil {
		results.add(CheckResult{
			Name:      "peak_infectious_max",
			Passed:    s.PeakInfectious <= *c.PeakInfectiousMax,
			Criterion: fmt.Sprintf("<= %d", *c.PeakInfectiousMax),
			Actual:    fmt.Sprintf("%d", s.PeakInfectious),
		})
	}
	if c.FinalInfectiousMax != nil {
		results.add(CheckResult{
			Name:      "final_infectious_max",
			Passed:    s.FinalInfectious <= *c.FinalInfectiousMax,
			Criterion: fmt.Sprintf("<= %d", *c.FinalInfectiousMax),
			Actual:    fmt.Sprintf("%d", s.FinalInfectious),
		})
	}
	if c.AttackRateMax != nil {
		results.add(CheckResult{
			Name:      "attack_rate_max",
			Passed:    s.AttackRate <= *c.AttackRateMax,
			Criterion: fmt.Sprintf("<= %.4f", *c.AttackRateMax),
			Actual:    fmt.Sprintf("%.4f", s.AttackRate),
		})
	}
	if c.AttackRateMin != nil {
		results.add(CheckResult{
			Name:      "attack_rate_min",
			Passed:    s.AttackRate >= *c.AttackRateMin,
			Criterion: fmt.Sprintf(">= %.4f", *c.AttackRateMin),
			Actual:    fmt.Sprintf("%.4f", s.AttackRate),
		})
	}
	if c.ExtinctBy != nil {
		passed := s.ExtinctionTick >= 0 && s.ExtinctionTick <= *c.ExtinctBy
		actual := "never"
		if s.ExtinctionTick >= 0 {
			actual = fmt.Sprintf("tick %d", s.ExtinctionTick)
		}
		results.add(CheckResult{
			Name:      "extinct_by",
			Passed:    passed,
			Criterion: fmt.Sprintf("by tick %d", *c.ExtinctBy),
			Actual:    actual,
		})
	}

	return results
}

func (r *CheckResults) add(result CheckResult) {
	if !result.Passed {
		r.Passed = false
	}
	r.Results = append(r.Results, result)
}
