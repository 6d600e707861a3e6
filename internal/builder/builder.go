// Package builder assembles the generation graph for a snapshot of
// application state. Build is a pure function of its snapshot, modulo
// generated node IDs: every call starts from a fresh graph, runs the base
// pipeline pass and the optional feature passes, and returns the graph with
// stable field references for post-hoc patching.
package builder

import (
	"context"
	"fmt"

	"github.com/easelai/easel/internal/ctxlog"
	"github.com/easelai/easel/internal/graph"
	"github.com/easelai/easel/internal/metadata"
	"github.com/easelai/easel/internal/state"
)

// Result is the product of one build.
type Result struct {
	Graph *graph.Graph

	// OutputNodeID is the terminal image-output node the metadata is bound
	// to. Post-processing passes reassign it last-writer-wins.
	OutputNodeID string

	// SeedRef and PositivePromptRef let callers patch these fields in place
	// (repeat-with-new-seed workflows) without re-deriving node IDs. IDs
	// are not stable across separate builds.
	SeedRef           graph.FieldRef
	PositivePromptRef graph.FieldRef

	Metadata *metadata.Record
}

// Option configures a build.
type Option func(*builder)

// WithImagePreparer installs the preparer used by per-entity sub-builders.
func WithImagePreparer(p ImagePreparer) Option {
	return func(b *builder) { b.images = p }
}

// builder carries the working set of one Build call. The graph under
// construction is exclusively owned by this builder; nothing is shared or
// reused across calls.
type builder struct {
	g      *graph.Graph
	snap   *state.Snapshot
	meta   *metadata.Record
	images ImagePreparer

	// Base pipeline nodes.
	modelLoader *graph.Node
	posCond     *graph.Node
	negCond     *graph.Node
	posCollect  *graph.Node
	negCollect  *graph.Node
	noise       *graph.Node
	denoise     *graph.Node
	decode      *graph.Node

	// Moving sources: optional passes redirect these before the base edges
	// are wired.
	unetSource    graph.FieldRef
	clipSource    graph.FieldRef
	vaeSource     graph.FieldRef
	latentsSource graph.FieldRef

	// Reference-image collector, shared between the global pass and region
	// passes; finalized (wired or removed) once both have run.
	refCollector *graph.Node
	refAdded     int

	// output is the current terminal image-output node, reassigned by each
	// post-processing pass.
	output *graph.Node
}

// Build constructs the generation graph for the snapshot.
//
// Preconditions are programmer/state invariants, not user errors: a model
// must be selected, and a refiner may only accompany an SDXL-family model.
// Violations panic. Sub-builder failures (image fetch, transform) return an
// error and abort the build with no partial graph.
func Build(ctx context.Context, snap *state.Snapshot, opts ...Option) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	if snap.Model == nil {
		panic("builder: no model selected")
	}
	if snap.RefinerModel != nil && snap.Model.Family != state.FamilySDXL {
		panic(fmt.Sprintf("builder: refiner requires an %s model, got %s", state.FamilySDXL, snap.Model.Family))
	}

	b := &builder{
		g:      graph.New(),
		snap:   snap,
		meta:   metadata.New(),
		images: nopPreparer{},
	}
	for _, opt := range opts {
		opt(b)
	}

	b.addBaseNodes()
	logger.Debug("base nodes created", "node_count", b.g.NodeCount())

	b.addSeamless()
	b.addLoRAs()
	b.addRefiner()
	b.wireBasePipeline()
	logger.Debug("base pipeline wired", "edge_count", b.g.EdgeCount())

	if err := b.addModeSubgraph(ctx); err != nil {
		return nil, err
	}
	if err := b.addControlAdapters(ctx); err != nil {
		return nil, err
	}
	if err := b.addReferenceImages(ctx, snap.ReferenceImages, graph.FieldRef{}); err != nil {
		return nil, err
	}
	if err := b.addRegions(ctx); err != nil {
		return nil, err
	}
	b.finalizeRefCollect()

	b.addNSFWChecker()
	b.addWatermarker()

	b.accumulateMetadata()
	b.output.Fields[fieldMetadata] = b.meta

	if err := b.g.Validate(); err != nil {
		return nil, fmt.Errorf("built graph failed validation: %w", err)
	}
	logger.Debug("graph build complete",
		"nodes", b.g.NodeCount(), "edges", b.g.EdgeCount(), "output", b.output.ID)

	return &Result{
		Graph:             b.g,
		OutputNodeID:      b.output.ID,
		SeedRef:           graph.FieldRef{NodeID: b.noise.ID, Field: "seed"},
		PositivePromptRef: graph.FieldRef{NodeID: b.posCond.ID, Field: "prompt"},
		Metadata:          b.meta,
	}, nil
}

// connect wires an edge between nodes that are known to be present; any
// failure is a bug in the pass that requested it.
func (b *builder) connect(from graph.FieldRef, toID, toField string) {
	if err := b.g.Connect(from.NodeID, from.Field, toID, toField); err != nil {
		panic(fmt.Sprintf("builder: bad edge: %v", err))
	}
}

// setOutput reassigns the terminal image-output node. Each post-processor
// forwards the upstream image, so last writer wins.
func (b *builder) setOutput(n *graph.Node) {
	b.output = n
}
