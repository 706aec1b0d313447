package execution

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"mexc-connector/internal/exchange"
)

var log = logrus.WithField("component", "execution")

// OrderPlacer submits one instruction and returns the exchange receipt.
type OrderPlacer interface {
	SubmitOrder(ctx context.Context, instr exchange.OrderInstruction) (*exchange.OrderReceipt, error)
}

// PartialExecutionError reports how far a multi-instruction submission got.
// Receipts already obtained are not rolled back.
type PartialExecutionError struct {
	Receipts []exchange.OrderReceipt
	Failed   exchange.OrderInstruction
	Err      error
}

func (e *PartialExecutionError) Error() string {
	return fmt.Sprintf("submit %s failed after %d accepted order(s): %v", e.Failed, len(e.Receipts), e.Err)
}

func (e *PartialExecutionError) Unwrap() error { return e.Err }

type bucketFailure struct {
	index int
	err   error
}

func (f *bucketFailure) Error() string { return f.err.Error() }

// Submitter executes instruction lists. Instructions of one bucket run in list
// order, each awaiting the previous; distinct buckets run concurrently.
type Submitter struct {
	placer OrderPlacer
}

func NewSubmitter(placer OrderPlacer) *Submitter {
	return &Submitter{placer: placer}
}

// groupByBucket keeps list order inside each bucket and first-seen order across
// buckets.
func groupByBucket(instrs []exchange.OrderInstruction) [][]int {
	pos := make(map[exchange.Bucket]int)
	var groups [][]int
	for i, instr := range instrs {
		b := instr.Bucket()
		g, ok := pos[b]
		if !ok {
			g = len(groups)
			pos[b] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

// Submit returns the receipts of every accepted instruction in list order. On
// failure the error is a *PartialExecutionError naming the first failure; a
// bucket stops at its first failure while other buckets run to completion.
func (s *Submitter) Submit(ctx context.Context, instrs []exchange.OrderInstruction) ([]exchange.OrderReceipt, error) {
	results := make([]*exchange.OrderReceipt, len(instrs))

	var g errgroup.Group
	for _, group := range groupByBucket(instrs) {
		group := group
		g.Go(func() error {
			for _, i := range group {
				instr := instrs[i]
				if instr.Volume == 0 {
					log.WithField("instruction", instr.String()).Warn("skipping zero-volume instruction")
					continue
				}
				receipt, err := s.placer.SubmitOrder(ctx, instr)
				if err != nil {
					log.WithField("instruction", instr.String()).WithError(err).Error("order submission failed")
					return &bucketFailure{index: i, err: err}
				}
				results[i] = receipt
			}
			return nil
		})
	}
	err := g.Wait()

	receipts := make([]exchange.OrderReceipt, 0, len(instrs))
	for _, r := range results {
		if r != nil {
			receipts = append(receipts, *r)
		}
	}

	if err != nil {
		failure := err.(*bucketFailure)
		return receipts, &PartialExecutionError{
			Receipts: receipts,
			Failed:   instrs[failure.index],
			Err:      failure.err,
		}
	}
	return receipts, nil
}
