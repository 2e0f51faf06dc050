package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ironsheep/image-nodes/internal/logging"
	"github.com/ironsheep/image-nodes/internal/metrics"
	"github.com/ironsheep/image-nodes/internal/node"
)

const tracerName = "github.com/ironsheep/image-nodes/internal/workflow"

// Runner executes workflows one step at a time. The zero value is usable.
type Runner struct {
	// Metrics records per-node and per-workflow timings. May be nil.
	Metrics *metrics.Recorder

	// Tracer creates one span per workflow and per step. Nil uses the
	// global tracer provider.
	Tracer trace.Tracer
}

// Result holds what a workflow run produced.
type Result struct {
	// Outputs are the values of output nodes keyed by output name.
	Outputs map[string]any `json:"outputs"`

	// Values are every step's result keyed by step name.
	Values map[string]any `json:"values"`
}

// Run executes g against pc. inputs supplies a value for every declared
// input. Steps in g are not modified.
func (r *Runner) Run(ctx context.Context, g *Graph, pc node.Context, inputs map[string]any) (res *Result, err error) {
	start := time.Now()
	defer func() { r.Metrics.ObserveWorkflow(time.Since(start), err) }()

	ctx, span := r.tracer().Start(ctx, "workflow.run", trace.WithAttributes(
		attribute.Int("workflow.steps", len(g.Steps)),
	))
	defer func() { endSpan(span, err) }()

	order, err := g.Order()
	if err != nil {
		return nil, err
	}
	if err := checkInputs(g, inputs); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	res = &Result{
		Outputs: make(map[string]any),
		Values:  make(map[string]any, len(order)),
	}

	for _, step := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		logger.Debug("Running step", "step", step.Name, "type", step.Type)
		value, err := r.runStep(ctx, step, pc, inputs, res.Values)
		if err != nil {
			return nil, fmt.Errorf("step %q (%s): %w", step.Name, step.Type, err)
		}
		res.Values[step.Name] = value

		if out, ok := step.Node.(node.Output); ok {
			name := out.OutputName()
			if name == "" {
				name = step.Name
			}
			if _, dup := res.Outputs[name]; dup {
				return nil, fmt.Errorf("%w: duplicate output %q", ErrInvalidGraph, name)
			}
			res.Outputs[name] = value
		}
	}

	logger.Info("Workflow finished", "steps", len(order), "outputs", len(res.Outputs), "elapsed", time.Since(start))
	return res, nil
}

func (r *Runner) runStep(ctx context.Context, step Step, pc node.Context, inputs, values map[string]any) (value any, err error) {
	start := time.Now()
	defer func() { r.Metrics.ObserveNode(step.Type, time.Since(start), err) }()

	ctx, span := r.tracer().Start(ctx, "workflow.step", trace.WithAttributes(
		attribute.String("step.name", step.Name),
		attribute.String("step.type", step.Type),
	))
	defer func() { endSpan(span, err) }()

	args := make(map[string]json.RawMessage, len(step.Links))
	for field, link := range step.Links {
		raw, err := resolve(link, inputs, values)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field, err)
		}
		args[field] = raw
	}

	n, err := configure(step.Node, args)
	if err != nil {
		return nil, err
	}
	return node.Invoke(ctx, n, pc)
}

func (r *Runner) tracer() trace.Tracer {
	if r.Tracer != nil {
		return r.Tracer
	}
	return otel.Tracer(tracerName)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func checkInputs(g *Graph, inputs map[string]any) error {
	for _, in := range g.Inputs {
		if _, ok := inputs[in.Name]; !ok {
			return fmt.Errorf("%w: missing workflow input %q", ErrInvalidGraph, in.Name)
		}
	}
	for name := range inputs {
		if _, ok := g.Input(name); !ok {
			return fmt.Errorf("%w: undeclared workflow input %q", ErrInvalidGraph, name)
		}
	}
	return nil
}

// resolve encodes the values a link refers to as JSON.
func resolve(link Link, inputs, values map[string]any) (json.RawMessage, error) {
	if !link.List {
		return lookup(link.Refs[0], inputs, values)
	}
	items := make([]json.RawMessage, 0, len(link.Refs))
	for _, ref := range link.Refs {
		raw, err := lookup(ref, inputs, values)
		if err != nil {
			return nil, err
		}
		items = append(items, raw)
	}
	return json.Marshal(items)
}

func lookup(ref Ref, inputs, values map[string]any) (json.RawMessage, error) {
	var v any
	if ref.Kind == RefInput {
		v = inputs[ref.Name]
	} else {
		v = values[ref.Name]
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cannot encode %s: %w", ref, err)
	}
	if ref.Field == "" {
		return raw, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s: result has no fields", ErrInvalidGraph, ref)
	}
	field, ok := fields[ref.Field]
	if !ok {
		return nil, fmt.Errorf("%w: %s: no such field", ErrInvalidGraph, ref)
	}
	return field, nil
}

// configure returns a copy of n with args applied, leaving n untouched.
func configure(n node.Node, args map[string]json.RawMessage) (node.Node, error) {
	base, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("failed to encode node: %w", err)
	}
	fresh, ok := reflect.New(reflect.TypeOf(n).Elem()).Interface().(node.Node)
	if !ok {
		return nil, fmt.Errorf("%T does not copy to a node", n)
	}
	if err := json.Unmarshal(base, fresh); err != nil {
		return nil, fmt.Errorf("failed to copy node: %w", err)
	}
	if err := node.Apply(fresh, args); err != nil {
		return nil, err
	}
	return fresh, nil
}
