package roundtrip

import (
	"context"
	"fmt"

	verskema "github.com/reoring/verskema"
	"github.com/reoring/verskema/backend"
	"github.com/reoring/verskema/store"
)

// Scenario names.
const (
	ScenarioSelfV1   = "self-v1"
	ScenarioSelfV2   = "self-v2"
	ScenarioForward  = "forward"  // v1 writes, v2 reads
	ScenarioBackward = "backward" // v2 writes, v1 reads
)

// Result is the outcome of one scenario.
type Result struct {
	Scenario    string
	Key         string
	Output      string // rendered record, e.g. "v2 = {cat=400, dog=-0.743, foo=\"default\"}"
	Diagnostics []verskema.Diagnostic
}

// DemoOptions configures RunDemo.
type DemoOptions struct {
	Store   store.Store
	Backend verskema.Backend
	// Prefix namespaces the archive keys, typically a run id.
	Prefix string
	// Sink additionally receives every diagnostic (for console rendering).
	Sink verskema.Sink
}

// RunDemo exercises same-version, forward and backward compatibility with the
// two pet revisions, writing each archive under its own key.
func RunDemo(ctx context.Context, opt DemoOptions) ([]Result, error) {
	v1 := PetV1Adapter()
	v2 := PetV2Adapter()
	ext := backend.Extension(opt.Backend.Format())
	key := func(name string) string {
		if opt.Prefix == "" {
			return name + ext
		}
		return store.JoinKey(opt.Prefix, name+ext)
	}

	type step struct {
		name string
		key  string
		run  func(sink verskema.Sink) (string, error)
	}
	steps := []step{
		{ScenarioSelfV1, key("test"), func(sink verskema.Sink) (string, error) {
			got, err := Transfer(ctx, opt.Store, opt.Backend, key("test"), v1, PetV1{Cat: 400, Dog: -0.743}, v1.WithSink(sink))
			return "v1 = " + got.String(), err
		}},
		{ScenarioSelfV2, key("test2"), func(sink verskema.Sink) (string, error) {
			got, err := Transfer(ctx, opt.Store, opt.Backend, key("test2"), v2, PetV2{Cat: 400, Dog: -0.743, Foo: "foo"}, v2.WithSink(sink))
			return "v2 = " + got.String(), err
		}},
		{ScenarioForward, key("test3"), func(sink verskema.Sink) (string, error) {
			got, err := Transfer(ctx, opt.Store, opt.Backend, key("test3"), v1, PetV1{Cat: 400, Dog: -0.743}, v2.WithSink(sink))
			return "v2 = " + got.String(), err
		}},
		{ScenarioBackward, key("test4"), func(sink verskema.Sink) (string, error) {
			got, err := Transfer(ctx, opt.Store, opt.Backend, key("test4"), v2, PetV2{Cat: 400, Dog: -0.743, Foo: "foo"}, v1.WithSink(sink))
			return "v1 = " + got.String(), err
		}},
	}

	results := make([]Result, 0, len(steps))
	for _, s := range steps {
		col := &verskema.Collector{}
		sink := verskema.Sink(col)
		if opt.Sink != nil {
			sink = tee{col, opt.Sink}
		}
		out, err := s.run(sink)
		if err != nil {
			return results, fmt.Errorf("scenario %s: %w", s.name, err)
		}
		results = append(results, Result{Scenario: s.name, Key: s.key, Output: out, Diagnostics: col.Events()})
	}
	return results, nil
}

type tee []verskema.Sink

func (t tee) Emit(d verskema.Diagnostic) {
	for _, s := range t {
		s.Emit(d)
	}
}
