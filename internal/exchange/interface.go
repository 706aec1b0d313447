package exchange

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FuturesExchange is what the reconciliation pipeline needs from a futures venue.
type FuturesExchange interface {
	// Account
	OpenPositions(ctx context.Context) ([]PositionSnapshot, error)

	// Trading
	SubmitOrder(ctx context.Context, instr OrderInstruction) (*OrderReceipt, error)
}

// PositionType is the direction of a held position.
type PositionType int

const (
	Long  PositionType = 1
	Short PositionType = 2
)

func (p PositionType) Inverse() PositionType {
	if p == Long {
		return Short
	}
	return Long
}

func (p PositionType) String() string {
	switch p {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return fmt.Sprintf("PositionType(%d)", int(p))
	}
}

func ParsePositionType(s string) (PositionType, error) {
	switch strings.ToLower(s) {
	case "long":
		return Long, nil
	case "short":
		return Short, nil
	}
	return 0, fmt.Errorf("unknown position direction %q", s)
}

// OpenType is the margin mode. The exchange calls it "open type".
type OpenType int

const (
	Isolated OpenType = 1
	Cross    OpenType = 2
)

func (o OpenType) String() string {
	switch o {
	case Isolated:
		return "isolated"
	case Cross:
		return "cross"
	default:
		return fmt.Sprintf("OpenType(%d)", int(o))
	}
}

func ParseOpenType(s string) (OpenType, error) {
	switch strings.ToLower(s) {
	case "isolated":
		return Isolated, nil
	case "cross":
		return Cross, nil
	}
	return 0, fmt.Errorf("unknown margin mode %q", s)
}

// OrderSide distinguishes opening from closing even when both move the book the
// same way: the exchange nets close sides against the existing position.
type OrderSide int

const (
	OpenLong   OrderSide = 1
	CloseShort OrderSide = 2
	OpenShort  OrderSide = 3
	CloseLong  OrderSide = 4
)

// PositionType reports the book direction the side trades in.
func (s OrderSide) PositionType() PositionType {
	switch s {
	case OpenLong, CloseShort:
		return Long
	default:
		return Short
	}
}

func (s OrderSide) IsClose() bool {
	return s == CloseShort || s == CloseLong
}

func (s OrderSide) String() string {
	switch s {
	case OpenLong:
		return "open_long"
	case CloseShort:
		return "close_short"
	case OpenShort:
		return "open_short"
	case CloseLong:
		return "close_long"
	default:
		return fmt.Sprintf("OrderSide(%d)", int(s))
	}
}

// OpenSide returns the side that adds exposure in direction p.
func OpenSide(p PositionType) OrderSide {
	if p == Long {
		return OpenLong
	}
	return OpenShort
}

// CloseSide returns the side that reduces an existing position held in direction p.
func CloseSide(p PositionType) OrderSide {
	if p == Long {
		return CloseLong
	}
	return CloseShort
}

type OrderType int

const (
	Limit                                OrderType = 1
	PostOnly                             OrderType = 2
	TransactOrCancelInstantly            OrderType = 3
	TransactCompletelyOrCancelCompletely OrderType = 4
	Market                               OrderType = 5
	ConvertMarketToCurrentPrice          OrderType = 6
)

var orderTypeNames = map[string]OrderType{
	"limit":           Limit,
	"post_only":       PostOnly,
	"ioc":             TransactOrCancelInstantly,
	"fok":             TransactCompletelyOrCancelCompletely,
	"market":          Market,
	"market_to_limit": ConvertMarketToCurrentPrice,
}

func (t OrderType) String() string {
	for name, v := range orderTypeNames {
		if v == t {
			return name
		}
	}
	return fmt.Sprintf("OrderType(%d)", int(t))
}

func ParseOrderType(s string) (OrderType, error) {
	if t, ok := orderTypeNames[strings.ToLower(s)]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown order type %q", s)
}

// Bucket identifies a position the exchange tracks independently of other
// positions on the same symbol.
type Bucket struct {
	Symbol   string
	Leverage uint64
	OpenType OpenType
}

func (b Bucket) String() string {
	return fmt.Sprintf("%s/%dx/%s", b.Symbol, b.Leverage, b.OpenType)
}

// PositionSnapshot is authoritative at read time only.
type PositionSnapshot struct {
	Symbol       string
	OpenType     OpenType
	Leverage     uint64
	PositionType PositionType
	HoldVol      uint64
}

func (p PositionSnapshot) Bucket() Bucket {
	return Bucket{Symbol: p.Symbol, Leverage: p.Leverage, OpenType: p.OpenType}
}

type OrderInstruction struct {
	Symbol    string
	Side      OrderSide
	Volume    uint64
	Price     *decimal.Decimal // nil for market-style orders
	Leverage  uint64
	OpenType  OpenType
	OrderType OrderType
}

func (o OrderInstruction) Bucket() Bucket {
	return Bucket{Symbol: o.Symbol, Leverage: o.Leverage, OpenType: o.OpenType}
}

func (o OrderInstruction) String() string {
	s := fmt.Sprintf("%s %s %d @%dx %s %s", o.Symbol, o.Side, o.Volume, o.Leverage, o.OpenType, o.OrderType)
	if o.Price != nil {
		s += " px=" + o.Price.String()
	}
	return s
}

type OrderReceipt struct {
	OrderID   string `json:"orderId"`
	Timestamp int64  `json:"ts"` // ms since epoch
}
