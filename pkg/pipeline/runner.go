package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodegraph/pkg/cache"
	nerrors "github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/graph/compact"
	"github.com/matzehuels/nodegraph/pkg/graph/topology"
	nio "github.com/matzehuels/nodegraph/pkg/io"
	"github.com/matzehuels/nodegraph/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, cache.None is used and nothing is cached.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.None
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.TTLRender,
	}
}

// Build validates doc and constructs its graph. Validation failures are
// reported with a coded error.
func (r *Runner) Build(doc nio.Document) (*nio.Model, error) {
	m, err := nio.Build(doc)
	if err != nil {
		if nerrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, nerrors.Wrap(nerrors.ErrCodeInvalidDocument, err, "invalid document")
	}
	return m, nil
}

// Compact builds doc and compacts the selected container.
func (r *Runner) Compact(ctx context.Context, doc nio.Document, opts CompactOptions) (*CompactResult, error) {
	if err := ValidateGroup(opts.Group); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	m, err := r.Build(doc)
	if err != nil {
		return nil, err
	}
	c, err := m.Container(opts.Group)
	if err != nil {
		return nil, err
	}
	return compactContainer(ctx, logger, m, c)
}

// compactContainer runs the compaction of c and assembles the result.
// A panic inside compaction is a defect in port accounting; it is reported
// as an internal error instead of taking down the caller.
func compactContainer(ctx context.Context, logger *log.Logger, m *nio.Model, c graph.NodeContainer) (res *CompactResult, err error) {
	hooks := observability.Pipeline()
	hooks.OnCompactStart(ctx, len(c.AllLeaves()), len(c.Groups()))
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = nerrors.New(nerrors.ErrCodeInternal, "compaction failed: %v", p)
			res = nil
		}
		dropped := 0
		if res != nil {
			dropped = res.Stats.LinksDropped
		}
		hooks.OnCompactComplete(ctx, dropped, time.Since(start), err)
	}()

	cp := compact.New(c)
	g := cp.Graph()
	stats := cp.Stats()

	ids := graph.AssignIDs(g)
	groups := make(map[string]string, stats.GroupsCompacted)
	for _, leaf := range cp.CompactedGroups() {
		if orig, ok := cp.GroupOf(leaf); ok {
			groups[ids.Leaves[leaf]] = orig.Name()
		}
	}

	res = &CompactResult{
		Model:     m,
		Compacter: cp,
		Document:  nio.FromContainer(g),
		Groups:    groups,
		Stats:     stats,
		Topology:  topology.Analyze(g),
		Duration:  time.Since(start),
	}

	logger.Debug("compacted graph",
		"groups", stats.GroupsCompacted,
		"leaves", stats.LeavesCopied,
		"links", stats.LinksCopied,
		"duration", res.Duration)
	if stats.LinksDropped > 0 {
		logger.Warn("compaction dropped links without a counterpart",
			"dropped", stats.LinksDropped,
			"considered", stats.LinksConsidered)
	}
	return res, nil
}

// Render builds doc, optionally compacts it, and renders the selected
// container. Artifacts are served from and stored in the cache unless
// opts.Refresh is set.
func (r *Runner) Render(ctx context.Context, doc nio.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	res := &Result{
		Format:       opts.Format,
		DocumentHash: nio.Hash(doc),
	}
	res.CacheInfo.Key = r.Keyer.RenderKey(res.DocumentHash, opts.RenderKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, res.CacheInfo.Key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "render")
			opts.Logger.Debug("render cache hit", "format", opts.Format)
			res.Artifact = data
			res.CacheInfo.Hit = true
			return res, nil
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	m, err := r.Build(doc)
	if err != nil {
		return nil, err
	}
	c, err := m.Container(opts.Group)
	if err != nil {
		return nil, err
	}
	if opts.Compact {
		cr, err := compactContainer(ctx, opts.Logger, m, c)
		if err != nil {
			return nil, err
		}
		res.Compaction = cr
		c = cr.Compacter.Graph()
	}

	res.Stats.Leaves = len(c.AllLeaves())
	res.Stats.Links = len(graph.AllLinks(c))

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()
	res.Artifact, err = renderContainer(ctx, c, opts)
	res.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Format, res.Stats.RenderTime, err)
	if err != nil {
		if nerrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, nerrors.Wrap(nerrors.ErrCodeInternal, err, "render %s", opts.Format)
	}

	opts.Logger.Info("rendered graph",
		"format", opts.Format,
		"leaves", res.Stats.Leaves,
		"links", res.Stats.Links,
		"duration", res.Stats.RenderTime)

	if err := r.Cache.Set(ctx, res.CacheInfo.Key, res.Artifact, r.TTL); err != nil {
		opts.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "render", len(res.Artifact))
	}
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return fmt.Errorf("close cache: %w", err)
		}
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
