package strategy

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"mexc-connector/internal/config"
	"mexc-connector/internal/exchange"
	"mexc-connector/internal/execution"
	"mexc-connector/internal/reconcile"
)

var log = logrus.WithField("strategy", "directional")

// DirectionalStrategy executes the configured targets once. Targets are
// additive, so running it twice adds the exposure twice.
type DirectionalStrategy struct {
	cfg    config.DirectionalConfig
	trader *execution.Trader
}

func NewDirectionalStrategy(cfg config.DirectionalConfig, ex exchange.FuturesExchange) *DirectionalStrategy {
	return &DirectionalStrategy{
		cfg:    cfg,
		trader: execution.NewTrader(ex),
	}
}

// ParseTarget validates one configured target.
func ParseTarget(tc config.TargetConfig) (reconcile.Target, error) {
	if tc.Symbol == "" {
		return reconcile.Target{}, fmt.Errorf("target has no symbol")
	}
	if tc.Leverage == 0 {
		return reconcile.Target{}, fmt.Errorf("target %s: leverage must be positive", tc.Symbol)
	}
	direction, err := exchange.ParsePositionType(tc.Direction)
	if err != nil {
		return reconcile.Target{}, fmt.Errorf("target %s: %w", tc.Symbol, err)
	}
	openType, err := exchange.ParseOpenType(tc.OpenType)
	if err != nil {
		return reconcile.Target{}, fmt.Errorf("target %s: %w", tc.Symbol, err)
	}
	orderType := exchange.Market
	if tc.OrderType != "" {
		if orderType, err = exchange.ParseOrderType(tc.OrderType); err != nil {
			return reconcile.Target{}, fmt.Errorf("target %s: %w", tc.Symbol, err)
		}
	}

	t := reconcile.Target{
		Symbol:    tc.Symbol,
		Volume:    tc.Volume,
		Leverage:  tc.Leverage,
		OpenType:  openType,
		Direction: direction,
		OrderType: orderType,
	}
	if tc.Price != "" {
		p, err := decimal.NewFromString(tc.Price)
		if err != nil {
			return reconcile.Target{}, fmt.Errorf("target %s: bad price %q: %w", tc.Symbol, tc.Price, err)
		}
		t.Price = &p
	}
	return t, nil
}

// Run submits all targets and returns one result per target. Invalid targets
// abort before anything is sent.
func (s *DirectionalStrategy) Run(ctx context.Context) ([]execution.Result, error) {
	targets := make([]reconcile.Target, 0, len(s.cfg.Targets))
	for _, tc := range s.cfg.Targets {
		t, err := ParseTarget(tc)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}

	log.WithField("targets", len(targets)).Info("executing directional targets")
	results := s.trader.ExecuteAll(ctx, targets)

	for _, r := range results {
		entry := log.WithFields(logrus.Fields{
			"bucket":    r.Target.Bucket().String(),
			"direction": r.Target.Direction.String(),
			"accepted":  len(r.Receipts),
		})
		for _, receipt := range r.Receipts {
			entry.WithField("order_id", receipt.OrderID).Info("order accepted")
		}
		if r.Err != nil {
			entry.WithError(r.Err).Error("target not fully executed")
		}
	}
	return results, nil
}
