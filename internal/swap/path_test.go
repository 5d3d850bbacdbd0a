package swap

import (
	"strings"
	"testing"
)

func TestNewPathSeedsDefaults(t *testing.T) {
	path := NewPath("hydradx")

	if !strings.HasPrefix(path.ID, "proc_") {
		t.Fatalf("expected a process id, got %q", path.ID)
	}
	if len(path.Steps) != 1 || len(path.TotalFee) != 1 {
		t.Fatalf("expected one seeded step and fee, got %d/%d", len(path.Steps), len(path.TotalFee))
	}
	seed := path.Steps[0]
	if seed.ID != 0 || seed.Type != StepTypeDefault || seed.Name != "Fill information" {
		t.Fatalf("unexpected seed step: %+v", seed)
	}
	if path.TotalFee[0].Components == nil || len(path.TotalFee[0].Components) != 0 {
		t.Fatalf("seed fee must be an empty component list, got %+v", path.TotalFee[0])
	}
}

func TestPathAppendAssignsSequentialIDs(t *testing.T) {
	path := NewPath("hydradx")
	path.Append(Step{Name: "Transfer DOT from polkadot", Type: StepTypeXcm, ID: 99}, FeeInfo{})
	path.Append(Step{Name: "Swap", Type: StepTypeSubmit}, FeeInfo{})

	if len(path.Steps) != len(path.TotalFee) {
		t.Fatalf("steps and fees out of alignment: %d vs %d", len(path.Steps), len(path.TotalFee))
	}
	for i, step := range path.Steps {
		if step.ID != i {
			t.Fatalf("step %d has id %d", i, step.ID)
		}
	}
}

func TestStepByType(t *testing.T) {
	path := NewPath("hydradx")
	path.Append(Step{Name: "Swap", Type: StepTypeSubmit}, FeeInfo{})

	step, ok := path.StepByType(StepTypeSubmit)
	if !ok || step.Name != "Swap" {
		t.Fatalf("expected to find the submit step, got %+v ok=%v", step, ok)
	}
	if _, ok := path.StepByType(StepTypeXcm); ok {
		t.Fatal("did not expect a transfer step")
	}
}
