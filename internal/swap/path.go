package swap

// Path is an ordered swap plan: steps plus a fee estimate per step,
// aligned index for index. Both sequences start with the fixed default
// placeholder, so len(TotalFee) == len(Steps) always holds and neither
// is ever empty. A path is built once per accepted quote and
// re-validated, never mutated, before submission.
type Path struct {
	ID       string    `json:"id"`
	Provider string    `json:"provider"`
	Steps    []Step    `json:"steps"`
	TotalFee []FeeInfo `json:"total_fee"`
}

// NewPath seeds a path with the default first step and its placeholder
// fee entry.
func NewPath(provider string) *Path {
	return &Path{
		ID:       NewProcessID(),
		Provider: provider,
		Steps: []Step{{
			ID:   0,
			Name: "Fill information",
			Type: StepTypeDefault,
		}},
		TotalFee: []FeeInfo{{Components: []FeeComponent{}}},
	}
}

// Append adds a generated step and its fee, assigning the next
// sequential id by insertion order.
func (p *Path) Append(step Step, fee FeeInfo) {
	step.ID = len(p.Steps)
	p.Steps = append(p.Steps, step)
	p.TotalFee = append(p.TotalFee, fee)
}

// StepByType returns the first step of the given type, if any.
func (p *Path) StepByType(stepType StepType) (Step, bool) {
	for _, step := range p.Steps {
		if step.Type == stepType {
			return step, true
		}
	}
	return Step{}, false
}
