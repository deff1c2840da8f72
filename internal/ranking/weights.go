package ranking

import "fmt"

// Weights are the points each scoring component contributes to a 0-100 match score.
type Weights struct {
	Skills      int `json:"skills" mapstructure:"skills"`
	Experience  int `json:"experience" mapstructure:"experience"`
	Education   int `json:"education" mapstructure:"education"`
	Eligibility int `json:"eligibility" mapstructure:"eligibility"`
}

// DefaultWeights returns the 40/25/20/15 split.
func DefaultWeights() Weights {
	return Weights{Skills: 40, Experience: 25, Education: 20, Eligibility: 15}
}

// Sum returns the total of all component weights.
func (w Weights) Sum() int {
	return w.Skills + w.Experience + w.Education + w.Eligibility
}

// Validate checks that no weight is negative and that they sum to 100.
func (w Weights) Validate() error {
	for name, v := range map[string]int{
		"skills":      w.Skills,
		"experience":  w.Experience,
		"education":   w.Education,
		"eligibility": w.Eligibility,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative, got %d", name, v)
		}
	}
	if sum := w.Sum(); sum != 100 {
		return fmt.Errorf("weights must sum to 100, got %d", sum)
	}
	return nil
}
