// Package pipeline splits a translator chain into the maximal pipelines the
// compiled plan's execution loop iterates independently, breaking at every
// pipeline-breaking operator (hash join build, aggregation, sort) per the
// spec's pipeline composer: each breaker fully drains its upstream pipeline
// before the next one can start.
package pipeline

import (
	"context"
	"fmt"

	"ridgebase/pkg/execution/codegen/runtime"
	"ridgebase/pkg/execution/codegen/translator"
	"ridgebase/pkg/tuple"
)

// Pipeline is one maximal run of translators between breakers, identified
// by the translator that terminates it (a breaker, or the chain root).
type Pipeline struct {
	ID      int
	Root    translator.OperatorTranslator
	Breaker bool
}

// Compose walks root's chain and returns every pipeline it contains, ordered
// source-to-sink. A breaker translator (IsMaterializer() == true) ends the
// pipeline it sits in and starts a new one rooted at itself, mirroring how
// its own Produce already drains its child fully before producing output.
func Compose(root translator.OperatorTranslator) []*Pipeline {
	var pipelines []*Pipeline
	var walk func(t translator.OperatorTranslator)
	seen := map[translator.OperatorTranslator]bool{}

	walk = func(t translator.OperatorTranslator) {
		if t == nil || seen[t] {
			return
		}
		seen[t] = true
		for _, c := range children(t) {
			walk(c)
		}
		if isBreaker(t) {
			pipelines = append(pipelines, &Pipeline{ID: len(pipelines), Root: t, Breaker: true})
		}
	}
	walk(root)
	pipelines = append(pipelines, &Pipeline{ID: len(pipelines), Root: root, Breaker: false})
	return pipelines
}

func isBreaker(t translator.OperatorTranslator) bool {
	return t.IsMaterializer()
}

// children extracts a translator's child chain via the Base fields every
// concrete translator embeds. Translators with no children (leaf scans)
// return nil.
func children(t translator.OperatorTranslator) []translator.OperatorTranslator {
	type childed interface {
		ChildTranslators() []translator.OperatorTranslator
	}
	if c, ok := t.(childed); ok {
		return c.ChildTranslators()
	}
	return nil
}

// Driver executes a composed translator chain end to end, optionally
// fanning breaker pipelines out across a worker pool via the execution
// context's ThreadStateContainer for the …Parallel intrinsic family.
type Driver struct {
	EC *runtime.ExecutionContext
}

// NewDriver builds a driver bound to ec.
func NewDriver(ec *runtime.ExecutionContext) *Driver {
	return &Driver{EC: ec}
}

// Run drives root's chain to completion, invoking consume for every row the
// root translator (conventionally an OutputTranslator) produces.
func (d *Driver) Run(cb *translator.CodeBuilder, root translator.OperatorTranslator, consume translator.Consumer) error {
	if err := root.InitializeSetup(cb, d.EC); err != nil {
		return fmt.Errorf("pipeline setup: %w", err)
	}
	defer root.InitializeTeardown(cb, d.EC)

	if err := root.Produce(cb, d.EC, consume); err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}
	return nil
}

// RunParallel drives root's chain across workers goroutines via the
// execution context's thread-state container, each worker calling consume
// with its own ThreadState - the runtime backing for a breaker's …Parallel
// variant (JoinHashTableBuildParallel, SorterSortParallel,
// SorterSortTopKParallel, TableIterParallel).
func (d *Driver) RunParallel(ctx context.Context, workers int, root translator.OperatorTranslator, perWorker func(ts *runtime.ThreadState) translator.Consumer) error {
	if d.EC.Threads == nil {
		return fmt.Errorf("pipeline: execution context has no thread state container")
	}
	cb := translator.NewCodeBuilder(nil)
	return d.EC.Threads.RunParallel(ctx, workers, func(ctx context.Context, ts *runtime.ThreadState) error {
		consume := perWorker(ts)
		return root.Produce(cb, d.EC, func(row *tuple.Tuple) error {
			return consume(row)
		})
	})
}
