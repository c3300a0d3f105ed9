package reconcile

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"stockview/internal/core/apperror"
	"stockview/internal/core/id"
	"stockview/internal/domain/catalogs/item"
	"stockview/internal/domain/documents/sales_document"
	"stockview/internal/domain/store"
	"stockview/pkg/logger"
)

var tracer = otel.Tracer("stockview/reconcile")

// Config holds the business constants of a run.
type Config struct {
	Strategy MatchStrategy

	// SettledTypes and SettledStates decide which sales documents count as revenue
	SettledTypes  []sales_document.DocType
	SettledStates []sales_document.Status

	// CommittingStates are the quote states that reserve stock
	CommittingStates []sales_document.Status

	// Parallel runs the independent components concurrently
	Parallel bool
}

// DefaultConfig returns project-level matching, invoices collected or
// accepted as settled, accepted quotes as committing, sequential execution.
func DefaultConfig() Config {
	return Config{
		Strategy:         ProjectLevelMatch,
		SettledTypes:     []sales_document.DocType{sales_document.TypeInvoice},
		SettledStates:    []sales_document.Status{sales_document.StatusCollected, sales_document.StatusAccepted},
		CommittingStates: []sales_document.Status{sales_document.StatusAccepted},
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if _, err := ParseMatchStrategy(string(c.Strategy)); err != nil {
		return err
	}
	for _, t := range c.SettledTypes {
		if !t.IsValid() {
			return apperror.NewValidation("invalid settled document type").WithDetail("value", string(t))
		}
	}
	for _, list := range [][]sales_document.Status{c.SettledStates, c.CommittingStates} {
		for _, s := range list {
			if !s.IsValid() {
				return apperror.NewValidation("invalid document status").WithDetail("value", string(s))
			}
		}
	}
	return nil
}

// RunOptions narrows a run. The zero value covers the whole catalog.
type RunOptions struct {
	Type       *item.ItemType
	ActiveOnly bool
	ItemIDs    []id.ID
	Sort       SortKey
}

// Result is the output of one run.
type Result struct {
	Items  []EnrichedItemView `json:"items"`
	Issues []Issue            `json:"issues"`
}

// Find returns the view of an item.
func (r *Result) Find(itemID id.ID) (EnrichedItemView, bool) {
	for _, v := range r.Items {
		if v.ID == itemID {
			return v, true
		}
	}
	return EnrichedItemView{}, false
}

// Engine runs reconciliations. It holds no state between runs and is safe
// for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Strategy == "" {
		cfg.Strategy = ProjectLevelMatch
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Run derives the enriched views of the in-scope items of snap.
// The same snapshot and options always give the same result.
func (e *Engine) Run(ctx context.Context, snap *store.Snapshot, opts RunOptions) (*Result, error) {
	if snap == nil {
		return nil, errors.New("reconcile: nil snapshot")
	}

	ctx, span := tracer.Start(ctx, "reconcile.run",
		trace.WithAttributes(
			attribute.String("reconcile.strategy", string(e.cfg.Strategy)),
			attribute.Bool("reconcile.parallel", e.cfg.Parallel),
			attribute.Int("reconcile.catalog_size", len(snap.Items)),
		))
	defer span.End()

	ref := NewRefData(snap)
	scope := ref.Scope(opts)

	var (
		openNotes   IDSet
		unfulfilled IDSet
		sales       map[id.ID]SalesMetrics
		salesIssues []Issue
		cost        map[id.ID]CostStat
		costIssues  []Issue
	)

	tasks := []func(){
		func() { openNotes = MatchReturns(snap.DeliveryNotes, e.cfg.Strategy) },
		func() {
			unfulfilled = MatchCommitments(snap.SalesDocuments, snap.DeliveryNotes, e.cfg.CommittingStates, e.cfg.Strategy)
		},
		func() { sales, salesIssues = AggregateSales(ref, scope, e.cfg.SettledTypes, e.cfg.SettledStates) },
		func() { cost, costIssues = AggregateCost(ref, scope) },
	}

	if e.cfg.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for _, task := range tasks {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				task()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			span.RecordError(err)
			return nil, err
		}
	} else {
		for _, task := range tasks {
			task()
		}
	}

	stock, stockIssues := ReconcileStock(ref, scope, openNotes, unfulfilled)
	views, viewIssues := BuildViews(ref, scope, Aggregates{Stock: stock, Sales: sales, Cost: cost})
	SortViews(views, opts.Sort)

	all := make([]Issue, 0, len(ref.issues)+len(stockIssues)+len(salesIssues)+len(costIssues)+len(viewIssues))
	all = append(all, ref.issues...)
	all = append(all, stockIssues...)
	all = append(all, salesIssues...)
	all = append(all, costIssues...)
	all = append(all, viewIssues...)
	issues := normalizeIssues(all)

	span.SetAttributes(
		attribute.Int("reconcile.items", len(views)),
		attribute.Int("reconcile.issues", len(issues)),
	)

	if len(issues) > 0 {
		l := logger.FromContext(ctx)
		counts := make(map[IssueKind]int)
		for _, is := range issues {
			counts[is.Kind]++
			l.Debugw("data quality issue",
				"kind", is.Kind,
				"item_id", is.ItemID,
				"record_id", is.RecordID,
				"message", is.Message)
		}
		l.Warnw("data quality issues found",
			"issues", len(issues),
			"by_kind", counts)
	}

	return &Result{Items: views, Issues: issues}, nil
}
