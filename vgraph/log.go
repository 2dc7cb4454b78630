package vgraph

import (
	"go.uber.org/zap"
)

// defaultLogger is shared by every Graph that doesn't override it via
// WithLogger, matching the corpus's package-level *zap.Logger default.
var defaultLogger = zap.NewNop()

// Option configures a Graph at construction time.
type Option func(*Graph)

// WithLogger overrides the graph's logger. The logger is tagged with the
// graph's correlation id on every call site, so concurrent graphs in one
// process stay distinguishable in log output.
func WithLogger(l *zap.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// WithSeqPageWidth overrides the sequence store's flexible page width (in
// encoded bases). Primarily useful for tests that want to exercise
// page-boundary behavior without allocating millions of bases. Must be set
// before the graph performs its first mutation; New applies it while
// constructing the node store.
func WithSeqPageWidth(n int) Option {
	return func(g *Graph) { g.seqPageWidth = n }
}

func (g *Graph) log() *zap.Logger {
	return g.logger.With(zap.String("graph_id", g.id.String()))
}

// Logger returns the graph's tagged logger, so collaborator packages (GFA
// ingestion, the test fixture dumper) can log under the same correlation id
// instead of introducing their own.
func (g *Graph) Logger() *zap.Logger {
	return g.log()
}
