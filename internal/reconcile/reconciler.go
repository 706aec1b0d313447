// Package reconcile plans the orders that move a futures position toward a
// requested direction.
package reconcile

import (
	"github.com/shopspring/decimal"

	"mexc-connector/internal/exchange"
)

// Target is additional exposure to take in Direction. It is not a desired final
// position size: same-direction exposure is added to, never netted down.
type Target struct {
	Symbol    string
	Volume    uint64
	Price     *decimal.Decimal
	Leverage  uint64
	OpenType  exchange.OpenType
	Direction exchange.PositionType
	OrderType exchange.OrderType
}

func (t Target) Bucket() exchange.Bucket {
	return exchange.Bucket{Symbol: t.Symbol, Leverage: t.Leverage, OpenType: t.OpenType}
}

func (t Target) instruction(side exchange.OrderSide, volume uint64) exchange.OrderInstruction {
	return exchange.OrderInstruction{
		Symbol:    t.Symbol,
		Side:      side,
		Volume:    volume,
		Price:     t.Price,
		Leverage:  t.Leverage,
		OpenType:  t.OpenType,
		OrderType: t.OrderType,
	}
}

// IndexPositions keys snapshots by bucket. The first snapshot wins when the
// exchange reports a bucket twice.
func IndexPositions(positions []exchange.PositionSnapshot) map[exchange.Bucket]exchange.PositionSnapshot {
	idx := make(map[exchange.Bucket]exchange.PositionSnapshot, len(positions))
	for _, p := range positions {
		if _, ok := idx[p.Bucket()]; !ok {
			idx[p.Bucket()] = p
		}
	}
	return idx
}

// Plan returns at most two instructions, close before open. It is a pure
// function of its inputs and never emits a zero-volume instruction.
func Plan(positions []exchange.PositionSnapshot, target Target) []exchange.OrderInstruction {
	remaining := target.Volume
	if remaining == 0 {
		return nil
	}

	var out []exchange.OrderInstruction

	existing, ok := IndexPositions(positions)[target.Bucket()]
	if ok && existing.PositionType != target.Direction && existing.HoldVol > 0 {
		side := exchange.CloseSide(existing.PositionType)
		if existing.HoldVol >= remaining {
			out = append(out, target.instruction(side, remaining))
			remaining = 0
		} else {
			out = append(out, target.instruction(side, existing.HoldVol))
			remaining -= existing.HoldVol
		}
	}

	if remaining > 0 {
		out = append(out, target.instruction(exchange.OpenSide(target.Direction), remaining))
	}
	return out
}
