package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contactfinder/contactfinder/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, report *model.ScanReport) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, report *model.ScanReport) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, report)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
	})

	t.Run("applies WithContinueOnError option", func(t *testing.T) {
		t.Parallel()

		p := New(WithContinueOnError(true))

		if !p.continueOnError {
			t.Error("expected continueOnError to be true")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("adds single step", func(t *testing.T) {
		t.Parallel()

		p := New()
		step := &mockStep{name: "test-step"}

		p.AddStep(step)

		if p.StepCount() != 1 {
			t.Errorf("expected 1 step, got %d", p.StepCount())
		}
	})

	t.Run("adds multiple steps with AddSteps", func(t *testing.T) {
		t.Parallel()

		p := New()
		step1 := &mockStep{name: "step-1"}
		step2 := &mockStep{name: "step-2"}
		step3 := &mockStep{name: "step-3"}

		p.AddSteps(step1, step2, step3)

		if p.StepCount() != 3 {
			t.Errorf("expected 3 steps, got %d", p.StepCount())
		}
	})

	t.Run("maintains step order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "first"})
		p.AddStep(&mockStep{name: "second"})
		p.AddStep(&mockStep{name: "third"})

		names := p.StepNames()

		expected := []string{"first", "second", "third"}
		for i, name := range names {
			if name != expected[i] {
				t.Errorf("step %d: got %q, expected %q", i, name, expected[i])
			}
		}
	})
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		executionOrder := make([]string, 0)

		p := New()
		p.AddStep(&mockStep{
			name: "step-1",
			doFunc: func(_ context.Context, _ *model.ScanReport) error {
				executionOrder = append(executionOrder, "step-1")
				return nil
			},
		})
		p.AddStep(&mockStep{
			name: "step-2",
			doFunc: func(_ context.Context, _ *model.ScanReport) error {
				executionOrder = append(executionOrder, "step-2")
				return nil
			},
		})

		report := model.NewScanReport("Jane Doe", "")
		err := p.Execute(context.Background(), report)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(executionOrder) != 2 {
			t.Fatalf("expected 2 executions, got %d", len(executionOrder))
		}
		if executionOrder[0] != "step-1" || executionOrder[1] != "step-2" {
			t.Errorf("wrong execution order: %v", executionOrder)
		}
	})

	t.Run("stops on first error by default", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("step failed")
		step2Called := false

		p := New()
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *model.ScanReport) error {
				return expectedErr
			},
		})
		p.AddStep(&mockStep{
			name: "should-not-run",
			doFunc: func(_ context.Context, _ *model.ScanReport) error {
				step2Called = true
				return nil
			},
		})

		report := model.NewScanReport("Jane Doe", "")
		err := p.Execute(context.Background(), report)

		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if step2Called {
			t.Error("second step should not have been called")
		}
	})

	t.Run("continues on error when configured", func(t *testing.T) {
		t.Parallel()

		step2Called := false

		p := New(WithContinueOnError(true))
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *model.ScanReport) error {
				return errors.New("step failed")
			},
		})
		p.AddStep(&mockStep{
			name: "should-run",
			doFunc: func(_ context.Context, _ *model.ScanReport) error {
				step2Called = true
				return nil
			},
		})

		report := model.NewScanReport("Jane Doe", "")
		err := p.Execute(context.Background(), report)

		if err != nil {
			t.Errorf("expected nil error with continueOnError, got %v", err)
		}
		if !step2Called {
			t.Error("second step should have been called")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		stepCalled := false
		p := New()
		p.AddStep(&mockStep{
			name: "should-not-run",
			doFunc: func(_ context.Context, _ *model.ScanReport) error {
				stepCalled = true
				return nil
			},
		})

		report := model.NewScanReport("Jane Doe", "")
		err := p.Execute(ctx, report)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if stepCalled {
			t.Error("step should not have been called")
		}
		if !report.Cancelled {
			t.Error("report.Cancelled should be true")
		}
	})

	t.Run("records performed steps", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "step-1"})
		p.AddStep(&mockStep{name: "step-2"})

		report := model.NewScanReport("Jane Doe", "")
		err := p.Execute(context.Background(), report)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.PerformedSteps) != 2 {
			t.Errorf("expected 2 performed steps, got %d", len(report.PerformedSteps))
		}
	})

	t.Run("records error in report", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("test error")

		p := New()
		p.AddStep(&mockStep{
			name: "failing-step",
			doFunc: func(_ context.Context, _ *model.ScanReport) error {
				return expectedErr
			},
		})

		report := model.NewScanReport("Jane Doe", "")
		_ = p.Execute(context.Background(), report) //nolint:errcheck // We check error via report.Error

		if report.Error == nil {
			t.Error("expected error to be recorded in report")
		}
		if report.ErrorMessage != expectedErr.Error() {
			t.Errorf("expected error message %q, got %q", expectedErr.Error(), report.ErrorMessage)
		}
	})
}

// TestPipelineStepNames tests the StepNames method.
func TestPipelineStepNames(t *testing.T) {
	t.Parallel()

	t.Run("returns empty slice for empty pipeline", func(t *testing.T) {
		t.Parallel()

		p := New()
		names := p.StepNames()

		if len(names) != 0 {
			t.Errorf("expected empty slice, got %v", names)
		}
	})

	t.Run("returns names in order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddSteps(
			&mockStep{name: "alpha"},
			&mockStep{name: "beta"},
			&mockStep{name: "gamma"},
		)

		names := p.StepNames()

		if len(names) != 3 {
			t.Fatalf("expected 3 names, got %d", len(names))
		}
		if names[0] != "alpha" || names[1] != "beta" || names[2] != "gamma" {
			t.Errorf("unexpected names: %v", names)
		}
	})
}

// TestDefaultPipelineConfig tests the DefaultPipelineConfig struct and options.
func TestDefaultPipelineConfig(t *testing.T) {
	t.Parallel()

	t.Run("WithPipelineNumResults sets result count", func(t *testing.T) {
		t.Parallel()

		cfg := &DefaultPipelineConfig{}
		opt := WithPipelineNumResults(25)
		opt(cfg)

		if cfg.NumResults != 25 {
			t.Errorf("expected NumResults 25, got %d", cfg.NumResults)
		}
	})

	t.Run("WithPipelineRestrictUK sets restriction", func(t *testing.T) {
		t.Parallel()

		cfg := &DefaultPipelineConfig{}
		opt := WithPipelineRestrictUK(true)
		opt(cfg)

		if !cfg.RestrictUK {
			t.Error("expected RestrictUK to be true")
		}
	})

	t.Run("WithPipelineFetchDelay sets delay", func(t *testing.T) {
		t.Parallel()

		cfg := &DefaultPipelineConfig{}
		opt := WithPipelineFetchDelay(2 * time.Second)
		opt(cfg)

		if cfg.FetchDelay != 2*time.Second {
			t.Errorf("expected FetchDelay 2s, got %v", cfg.FetchDelay)
		}
	})

	t.Run("WithPipelineFetchTimeout sets timeout", func(t *testing.T) {
		t.Parallel()

		cfg := &DefaultPipelineConfig{}
		opt := WithPipelineFetchTimeout(30 * time.Second)
		opt(cfg)

		if cfg.FetchTimeout != 30*time.Second {
			t.Errorf("expected FetchTimeout 30s, got %v", cfg.FetchTimeout)
		}
	})

	t.Run("WithPipelineUserAgent sets user agent", func(t *testing.T) {
		t.Parallel()

		cfg := &DefaultPipelineConfig{}
		opt := WithPipelineUserAgent("CustomAgent/2.0")
		opt(cfg)

		if cfg.UserAgent != "CustomAgent/2.0" {
			t.Errorf("expected UserAgent 'CustomAgent/2.0', got %q", cfg.UserAgent)
		}
	})

	t.Run("WithPipelineMaxBodySize sets body size cap", func(t *testing.T) {
		t.Parallel()

		cfg := &DefaultPipelineConfig{}
		opt := WithPipelineMaxBodySize(1024)
		opt(cfg)

		if cfg.MaxBodySize != 1024 {
			t.Errorf("expected MaxBodySize 1024, got %d", cfg.MaxBodySize)
		}
	})
}

// TestPipelineWithLogger tests the WithLogger option.
func TestPipelineWithLogger(t *testing.T) {
	t.Parallel()

	t.Run("sets custom logger", func(t *testing.T) {
		t.Parallel()

		// Note: We can't directly test that the logger is set
		// since it's a private field, but we test that it doesn't panic
		p := New(WithLogger(nil))
		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
	})

	t.Run("pipeline works with custom logger", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "test"})

		report := model.NewScanReport("Jane Doe", "")
		err := p.Execute(context.Background(), report)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// TestMockStep tests the mockStep helper.
func TestMockStep(t *testing.T) {
	t.Parallel()

	t.Run("increments call count", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "test"}
		report := model.NewScanReport("Jane Doe", "")

		_ = step.Do(context.Background(), report)
		_ = step.Do(context.Background(), report)
		_ = step.Do(context.Background(), report)

		if step.callCount != 3 {
			t.Errorf("expected call count 3, got %d", step.callCount)
		}
	})

	t.Run("returns name correctly", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "my-step"}
		if step.Name() != "my-step" {
			t.Errorf("expected name 'my-step', got %q", step.Name())
		}
	})

	t.Run("returns nil when no doFunc", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "test"}
		err := step.Do(context.Background(), nil)
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})
}

// TestBatchProcessorOptions tests BatchProcessor option functions.
func TestBatchProcessorOptions(t *testing.T) {
	t.Parallel()

	t.Run("WithBatchLogger sets custom logger", func(t *testing.T) {
		t.Parallel()

		factory := func() *Pipeline { return New() }
		bp := NewBatchProcessor(factory, WithBatchLogger(nil))

		if bp == nil {
			t.Fatal("expected non-nil batch processor")
		}
	})

	t.Run("WithConcurrency sets concurrency", func(t *testing.T) {
		t.Parallel()

		factory := func() *Pipeline { return New() }
		bp := NewBatchProcessor(factory, WithConcurrency(5))

		if bp.concurrency != 5 {
			t.Errorf("expected concurrency 5, got %d", bp.concurrency)
		}
	})

	t.Run("WithConcurrency ignores invalid values", func(t *testing.T) {
		t.Parallel()

		factory := func() *Pipeline { return New() }
		bp := NewBatchProcessor(factory, WithConcurrency(0))

		// Should keep default (3)
		if bp.concurrency != 3 {
			t.Errorf("expected default concurrency 3, got %d", bp.concurrency)
		}
	})
}
