package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mexc-connector/internal/exchange"
)

func ethTarget(direction exchange.PositionType, volume uint64) Target {
	return Target{
		Symbol:    "ETH_USDT",
		Volume:    volume,
		Leverage:  4,
		OpenType:  exchange.Cross,
		Direction: direction,
		OrderType: exchange.Market,
	}
}

func ethPosition(direction exchange.PositionType, hold uint64) exchange.PositionSnapshot {
	return exchange.PositionSnapshot{
		Symbol:       "ETH_USDT",
		OpenType:     exchange.Cross,
		Leverage:     4,
		PositionType: direction,
		HoldVol:      hold,
	}
}

func sidesAndVolumes(instrs []exchange.OrderInstruction) [][2]uint64 {
	out := make([][2]uint64, len(instrs))
	for i, instr := range instrs {
		out[i] = [2]uint64{uint64(instr.Side), instr.Volume}
	}
	return out
}

func TestPlan_NoPosition(t *testing.T) {
	plan := Plan(nil, ethTarget(exchange.Long, 100))

	require.Len(t, plan, 1)
	assert.Equal(t, exchange.OrderInstruction{
		Symbol:    "ETH_USDT",
		Side:      exchange.OpenLong,
		Volume:    100,
		Leverage:  4,
		OpenType:  exchange.Cross,
		OrderType: exchange.Market,
	}, plan[0])
}

func TestPlan_OppositeLargerThanTarget(t *testing.T) {
	plan := Plan([]exchange.PositionSnapshot{ethPosition(exchange.Short, 30)}, ethTarget(exchange.Long, 20))

	assert.Equal(t, [][2]uint64{{uint64(exchange.CloseShort), 20}}, sidesAndVolumes(plan))
}

func TestPlan_OppositeEqualToTarget(t *testing.T) {
	plan := Plan([]exchange.PositionSnapshot{ethPosition(exchange.Short, 20)}, ethTarget(exchange.Long, 20))

	assert.Equal(t, [][2]uint64{{uint64(exchange.CloseShort), 20}}, sidesAndVolumes(plan))
}

func TestPlan_OppositeSmallerThanTarget(t *testing.T) {
	plan := Plan([]exchange.PositionSnapshot{ethPosition(exchange.Short, 30)}, ethTarget(exchange.Long, 100))

	assert.Equal(t, [][2]uint64{
		{uint64(exchange.CloseShort), 30},
		{uint64(exchange.OpenLong), 70},
	}, sidesAndVolumes(plan))
	assert.True(t, plan[0].Side.IsClose())
	assert.False(t, plan[1].Side.IsClose())
}

func TestPlan_LongToShortFlip(t *testing.T) {
	plan := Plan([]exchange.PositionSnapshot{ethPosition(exchange.Long, 10)}, ethTarget(exchange.Short, 25))

	assert.Equal(t, [][2]uint64{
		{uint64(exchange.CloseLong), 10},
		{uint64(exchange.OpenShort), 15},
	}, sidesAndVolumes(plan))
}

func TestPlan_SameDirectionIsAdditive(t *testing.T) {
	plan := Plan([]exchange.PositionSnapshot{ethPosition(exchange.Long, 50)}, ethTarget(exchange.Long, 20))

	assert.Equal(t, [][2]uint64{{uint64(exchange.OpenLong), 20}}, sidesAndVolumes(plan))
}

func TestPlan_ZeroVolume(t *testing.T) {
	assert.Empty(t, Plan(nil, ethTarget(exchange.Long, 0)))
	assert.Empty(t, Plan([]exchange.PositionSnapshot{ethPosition(exchange.Short, 30)}, ethTarget(exchange.Long, 0)))
}

func TestPlan_OtherBucketsIgnored(t *testing.T) {
	otherLeverage := ethPosition(exchange.Short, 30)
	otherLeverage.Leverage = 10
	otherMode := ethPosition(exchange.Short, 30)
	otherMode.OpenType = exchange.Isolated
	otherSymbol := ethPosition(exchange.Short, 30)
	otherSymbol.Symbol = "BTC_USDT"

	plan := Plan([]exchange.PositionSnapshot{otherLeverage, otherMode, otherSymbol}, ethTarget(exchange.Long, 5))

	assert.Equal(t, [][2]uint64{{uint64(exchange.OpenLong), 5}}, sidesAndVolumes(plan))
}

func TestPlan_EmptyOppositePositionIgnored(t *testing.T) {
	plan := Plan([]exchange.PositionSnapshot{ethPosition(exchange.Short, 0)}, ethTarget(exchange.Long, 5))

	assert.Equal(t, [][2]uint64{{uint64(exchange.OpenLong), 5}}, sidesAndVolumes(plan))
}

func TestPlan_InstructionsCarryTargetFields(t *testing.T) {
	px := decimal.RequireFromString("3650.13")
	target := ethTarget(exchange.Long, 100)
	target.Price = &px
	target.OrderType = exchange.Limit

	plan := Plan([]exchange.PositionSnapshot{ethPosition(exchange.Short, 30)}, target)

	require.Len(t, plan, 2)
	for _, instr := range plan {
		assert.Equal(t, target.Bucket(), instr.Bucket())
		assert.Equal(t, exchange.Limit, instr.OrderType)
		require.NotNil(t, instr.Price)
		assert.True(t, px.Equal(*instr.Price))
		assert.NotZero(t, instr.Volume)
	}
}

func TestPlan_VolumeConservation(t *testing.T) {
	for _, hold := range []uint64{0, 1, 29, 30, 31, 100, 1000} {
		for _, vol := range []uint64{1, 30, 99, 100} {
			plan := Plan([]exchange.PositionSnapshot{ethPosition(exchange.Short, hold)}, ethTarget(exchange.Long, vol))

			var total uint64
			for _, instr := range plan {
				total += instr.Volume
			}
			assert.Equal(t, vol, total, "hold=%d vol=%d", hold, vol)
			assert.LessOrEqual(t, len(plan), 2)
		}
	}
}

func TestPlan_Deterministic(t *testing.T) {
	positions := []exchange.PositionSnapshot{ethPosition(exchange.Short, 30)}
	target := ethTarget(exchange.Long, 100)

	assert.Equal(t, Plan(positions, target), Plan(positions, target))
}

func TestIndexPositions_FirstWins(t *testing.T) {
	first := ethPosition(exchange.Short, 30)
	second := ethPosition(exchange.Long, 5)

	idx := IndexPositions([]exchange.PositionSnapshot{first, second})
	require.Len(t, idx, 1)
	assert.Equal(t, first, idx[first.Bucket()])
}

func TestPlan_Table(t *testing.T) {
	cases := []struct {
		name     string
		existing []exchange.PositionSnapshot
		target   Target
		want     [][2]uint64
	}{
		{
			name:   "flat account opens",
			target: ethTarget(exchange.Long, 100),
			want:   [][2]uint64{{uint64(exchange.OpenLong), 100}},
		},
		{
			name:     "smaller short is flattened then long opened",
			existing: []exchange.PositionSnapshot{ethPosition(exchange.Short, 50)},
			target:   ethTarget(exchange.Long, 100),
			want:     [][2]uint64{{uint64(exchange.CloseShort), 50}, {uint64(exchange.OpenLong), 50}},
		},
		{
			name:     "larger short absorbs the request",
			existing: []exchange.PositionSnapshot{ethPosition(exchange.Short, 150)},
			target:   ethTarget(exchange.Long, 100),
			want:     [][2]uint64{{uint64(exchange.CloseShort), 100}},
		},
		{
			name:     "same direction adds",
			existing: []exchange.PositionSnapshot{ethPosition(exchange.Long, 50)},
			target:   ethTarget(exchange.Long, 100),
			want:     [][2]uint64{{uint64(exchange.OpenLong), 100}},
		},
		{
			name:     "zero volume",
			existing: []exchange.PositionSnapshot{ethPosition(exchange.Short, 50)},
			target:   ethTarget(exchange.Long, 0),
			want:     [][2]uint64{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sidesAndVolumes(Plan(tc.existing, tc.target)))
		})
	}
}
