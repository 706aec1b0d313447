package execution

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"mexc-connector/internal/exchange"
	"mexc-connector/internal/reconcile"
)

// Trader reads fresh positions, plans and submits. Reconciliation is best
// effort: positions may change between the read and the submission.
type Trader struct {
	exchange  exchange.FuturesExchange
	submitter *Submitter
}

func NewTrader(ex exchange.FuturesExchange) *Trader {
	return &Trader{
		exchange:  ex,
		submitter: NewSubmitter(ex),
	}
}

func (t *Trader) Execute(ctx context.Context, target reconcile.Target) ([]exchange.OrderReceipt, error) {
	if target.Volume == 0 {
		return nil, nil
	}

	positions, err := t.exchange.OpenPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch open positions: %w", err)
	}

	plan := reconcile.Plan(positions, target)
	log.WithFields(logrus.Fields{
		"bucket":       target.Bucket().String(),
		"direction":    target.Direction.String(),
		"volume":       target.Volume,
		"instructions": len(plan),
	}).Info("reconciled target")

	return t.submitter.Submit(ctx, plan)
}

type Result struct {
	Target   reconcile.Target
	Receipts []exchange.OrderReceipt
	Err      error
}

// ExecuteAll runs targets of different buckets in parallel. Targets sharing a
// bucket run one after another in input order. Every target gets a result.
func (t *Trader) ExecuteAll(ctx context.Context, targets []reconcile.Target) []Result {
	results := make([]Result, len(targets))

	order := make(map[exchange.Bucket][]int)
	var buckets []exchange.Bucket
	for i, target := range targets {
		b := target.Bucket()
		if _, ok := order[b]; !ok {
			buckets = append(buckets, b)
		}
		order[b] = append(order[b], i)
	}

	var g errgroup.Group
	for _, b := range buckets {
		idx := order[b]
		g.Go(func() error {
			for _, i := range idx {
				receipts, err := t.Execute(ctx, targets[i])
				results[i] = Result{Target: targets[i], Receipts: receipts, Err: err}
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
