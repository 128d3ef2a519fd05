package collector

import "testing"

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestChecks_NilPasses(t *testing.T) {
	var c *Checks
	r := c.Evaluate(&Summary{PeakInfectious: 1000})
	if !r.Passed {
		t.Error("nil checks should pass")
	}
}

func TestChecks_AllPass(t *testing.T) {
	c := &Checks{
		PeakInfectiousMax:  intPtr(50),
		FinalInfectiousMax: intPtr(0),
		AttackRateMax:      floatPtr(0.6),
		ExtinctBy:          intPtr(100),
	}
	s := &Summary{
		PeakInfectious:  30,
		FinalInfectious: 0,
		AttackRate:      0.5,
		ExtinctionTick:  80,
	}
	r := c.Evaluate(s)
	if !r.Passed {
		t.Errorf("expected pass, got %+v", r.Results)
	}
	if len(r.Results) != 4 {
		t.Errorf("expected 4 results, got %d", len(r.Results))
	}
}

func TestChecks_PeakExceeded(t *testing.T) {
	c := &Checks{PeakInfectiousMax: intPtr(10)}
	r := c.Evaluate(&Summary{PeakInfectious: 15})
	if r.Passed {
		t.Error("expected failure when peak exceeds max")
	}
	if r.Results[0].Actual != "15" {
		t.Errorf("actual = %q, want \"15\"", r.Results[0].Actual)
	}
}

func TestChecks_AttackRateBand(t *testing.T) {
	c := &Checks{AttackRateMin: floatPtr(0.2), AttackRateMax: floatPtr(0.8)}

	if r := c.Evaluate(&Summary{AttackRate: 0.5}); !r.Passed {
		t.Error("0.5 should sit inside the band")
	}
	if r := c.Evaluate(&Summary{AttackRate: 0.1}); r.Passed {
		t.Error("0.1 should fail the minimum")
	}
	if r := c.Evaluate(&Summary{AttackRate: 0.9}); r.Passed {
		t.Error("0.9 should fail the maximum")
	}
}

func TestChecks_NeverExtinct(t *testing.T) {
	c := &Checks{ExtinctBy: intPtr(50)}
	r := c.Evaluate(&Summary{ExtinctionTick: -1})
	if r.Passed {
		t.Error("expected failure when infection never dies out")
	}
	if r.Results[0].Actual != "never" {
		t.Errorf("actual = %q, want \"never\"", r.Results[0].Actual)
	}
}

func TestChecks_ExtinctTooLate(t *testing.T) {
	c := &Checks{ExtinctBy: intPtr(50)}
	if r := c.Evaluate(&Summary{ExtinctionTick: 60}); r.Passed {
		t.Error("expected failure when extinction comes after the deadline")
	}
}
