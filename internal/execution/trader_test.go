package execution

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mexc-connector/internal/exchange"
	"mexc-connector/internal/reconcile"
)

func target(symbol string, direction exchange.PositionType, volume uint64) reconcile.Target {
	return reconcile.Target{
		Symbol:    symbol,
		Volume:    volume,
		Leverage:  4,
		OpenType:  exchange.Cross,
		Direction: direction,
		OrderType: exchange.Market,
	}
}

func TestTrader_ExecuteFlipsPosition(t *testing.T) {
	ex := &fakeExchange{positions: []exchange.PositionSnapshot{{
		Symbol: "ETH_USDT", OpenType: exchange.Cross, Leverage: 4, PositionType: exchange.Short, HoldVol: 30,
	}}}

	receipts, err := NewTrader(ex).Execute(context.Background(), target("ETH_USDT", exchange.Long, 100))
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, "ETH_USDT-close_short-30", receipts[0].OrderID)
	assert.Equal(t, "ETH_USDT-open_long-70", receipts[1].OrderID)
}

func TestTrader_ExecuteZeroVolume(t *testing.T) {
	ex := &fakeExchange{posErr: errors.New("must not be called")}

	receipts, err := NewTrader(ex).Execute(context.Background(), target("ETH_USDT", exchange.Long, 0))
	assert.NoError(t, err)
	assert.Empty(t, receipts)
	assert.Empty(t, ex.submitted)
}

func TestTrader_ExecutePositionsError(t *testing.T) {
	down := errors.New("connection reset")
	ex := &fakeExchange{posErr: down}

	_, err := NewTrader(ex).Execute(context.Background(), target("ETH_USDT", exchange.Long, 1))
	assert.ErrorIs(t, err, down)
	assert.Empty(t, ex.submitted)
}

func TestTrader_ExecuteAll(t *testing.T) {
	rejected := errors.New("rejected")
	ex := &fakeExchange{failOn: map[exchange.OrderSide]error{exchange.OpenShort: rejected}}
	targets := []reconcile.Target{
		target("ETH_USDT", exchange.Long, 10),
		target("BTC_USDT", exchange.Short, 2),
		target("ETH_USDT", exchange.Long, 5),
	}

	results := NewTrader(ex).ExecuteAll(context.Background(), targets)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, targets[0], results[0].Target)
	require.Len(t, results[0].Receipts, 1)
	assert.Equal(t, "ETH_USDT-open_long-10", results[0].Receipts[0].OrderID)

	assert.ErrorIs(t, results[1].Err, rejected)
	assert.Empty(t, results[1].Receipts)

	assert.NoError(t, results[2].Err)
	assert.Equal(t, "ETH_USDT-open_long-5", results[2].Receipts[0].OrderID)
}

func TestTrader_ExecuteAllSameBucketInOrder(t *testing.T) {
	ex := &fakeExchange{}
	targets := []reconcile.Target{
		target("ETH_USDT", exchange.Long, 1),
		target("ETH_USDT", exchange.Long, 2),
		target("ETH_USDT", exchange.Long, 3),
	}

	NewTrader(ex).ExecuteAll(context.Background(), targets)
	require.Len(t, ex.submitted, 3)
	for i, instr := range ex.submitted {
		assert.Equal(t, uint64(i+1), instr.Volume)
	}
}
