package core

import (
	"context"
	"log"
	"time"

	"heraldo/internal/reconcile"
	"heraldo/internal/state"
	"heraldo/internal/types"
)

// EnrichFunc optionally mutates an item right before publishing (summary,
// thumbnail). Enrichment failures are the func's own problem: it must
// leave the item publishable.
type EnrichFunc func(ctx context.Context, item *types.Item)

// AnnouncedFunc observes each confirmed publish (status feed mirror).
type AnnouncedFunc func(item types.Item, result *types.PublishResult)

type OrchestratorConfig struct {
	Sources        []types.Source
	NewPublisher   types.PublisherFactory
	Reporter       types.Reporter
	Store          state.Store
	Enrich         EnrichFunc
	OnAnnounced    AnnouncedFunc
	Sleep          time.Duration
	AlertThreshold int
}

// Orchestrator drives one reconciliation cycle: fetch both sources in
// fixed order, compute the globally ordered new-item batch, publish
// sequentially, commit confirmed IDs, flush once.
type Orchestrator struct {
	sources        []types.Source
	newPublisher   types.PublisherFactory
	reporter       types.Reporter
	store          state.Store
	enrich         EnrichFunc
	onAnnounced    AnnouncedFunc
	sleep          time.Duration
	alertThreshold int
}

func NewOrchestrator(config OrchestratorConfig) *Orchestrator {
	if config.Sleep == 0 {
		config.Sleep = 2 * time.Second
	}
	if config.AlertThreshold == 0 {
		config.AlertThreshold = 3
	}

	return &Orchestrator{
		sources:        config.Sources,
		newPublisher:   config.NewPublisher,
		reporter:       config.Reporter,
		store:          config.Store,
		enrich:         config.Enrich,
		onAnnounced:    config.OnAnnounced,
		sleep:          config.Sleep,
		alertThreshold: config.AlertThreshold,
	}
}

// Run executes one cycle. Only a state-load failure or a
// publisher-construction failure abort it; fetch and publish failures are
// isolated per source and per item.
func (o *Orchestrator) Run(ctx context.Context) error {
	sess := state.NewSession(o.store)
	if err := sess.Load(ctx); err != nil {
		// Proceeding with a fabricated empty document would re-announce
		// everything already posted, so the whole cycle aborts here.
		log.Printf("Cycle: state load failed, aborting: %v", err)
		o.report(ctx, "state_load_failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	perSource := make([][]types.Item, 0, len(o.sources))
	for _, src := range o.sources {
		items, err := src.Fetch(ctx)
		if err != nil {
			count := sess.RecordFailure(src.Key())
			log.Printf("Cycle: source %s fetch failed (consecutive failures: %d): %v", src.Name(), count, err)
			if count == o.alertThreshold {
				o.report(ctx, "source_failing", map[string]interface{}{
					"source":   src.Key().String(),
					"failures": count,
					"error":    err.Error(),
				})
			}
			continue
		}

		sess.ResetFailures(src.Key())
		fresh := reconcile.SelectNew(sess, src.Key(), items)
		log.Printf("Cycle: source %s returned %d items, %d new", src.Name(), len(items), len(fresh))
		perSource = append(perSource, fresh)
	}

	batch := reconcile.Merge(perSource...)
	if len(batch) == 0 {
		log.Printf("Cycle: nothing new to announce")
		o.finish(ctx, sess)
		return nil
	}

	publisher, err := o.newPublisher(ctx)
	if err != nil {
		log.Printf("Cycle: publisher construction failed, aborting publish step: %v", err)
		o.report(ctx, "publisher_unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		o.finish(ctx, sess)
		return err
	}

	log.Printf("Cycle: announcing %d items via %s", len(batch), publisher.Name())

	succeeded := make(map[types.SourceKey][]string)
	cancelled := false
	for i, item := range batch {
		if i > 0 {
			// Politeness pause between posts, not a correctness measure.
			select {
			case <-ctx.Done():
				cancelled = true
			case <-time.After(o.sleep):
			}
		}
		if cancelled {
			break
		}

		if o.enrich != nil {
			o.enrich(ctx, &item)
		}

		result, err := publisher.Publish(ctx, item)
		if err != nil || result == nil || !result.Success {
			if err == nil && result != nil {
				err = result.Error
			}
			pubErr := types.NewPublishError(publisher.Name(), item.ID, err)
			log.Printf("Cycle: %v", pubErr)
			o.report(ctx, "publish_failed", map[string]interface{}{
				"target": publisher.Name(),
				"item":   item.ID,
				"source": item.SourceKey.String(),
				"error":  pubErr.Error(),
			})
			continue
		}

		succeeded[item.SourceKey] = append(succeeded[item.SourceKey], item.ID)
		if o.onAnnounced != nil {
			o.onAnnounced(item, result)
		}
	}

	for _, key := range types.SourceKeys() {
		reconcile.Commit(sess, key, succeeded[key])
	}

	o.finish(ctx, sess)
	if cancelled {
		return ctx.Err()
	}
	return nil
}

// finish performs the cycle's single flush. A flush failure means the
// in-memory mutations are lost and the next cycle re-derives the same
// decisions, which is safe; it is logged and reported but not propagated.
func (o *Orchestrator) finish(ctx context.Context, sess *state.Session) {
	wrote, err := sess.Flush(ctx)
	if err != nil {
		log.Printf("Cycle: state flush failed, mutations lost until next cycle: %v", err)
		o.report(ctx, "state_flush_failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if wrote {
		log.Printf("Cycle: state persisted")
	}
}

func (o *Orchestrator) report(ctx context.Context, event string, fields map[string]interface{}) {
	if o.reporter == nil {
		return
	}
	o.reporter.Report(ctx, event, fields)
}
