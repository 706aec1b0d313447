package mexc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"mexc-connector/internal/exchange"
)

// Spot

type SpotSide string

const (
	Buy  SpotSide = "BUY"
	Sell SpotSide = "SELL"
)

type SpotOrderType string

const (
	SpotLimit             SpotOrderType = "LIMIT"
	SpotMarket            SpotOrderType = "MARKET"
	SpotLimitMaker        SpotOrderType = "LIMIT_MAKER"
	SpotImmediateOrCancel SpotOrderType = "IMMEDIATE_OR_CANCEL"
	SpotFillOrKill        SpotOrderType = "FILL_OR_KILL"
)

type ServerTime struct {
	Timestamp int64 `json:"serverTime"`
}

type ExchangeInfo struct {
	Timezone   string       `json:"timezone"`
	ServerTime int64        `json:"serverTime"`
	Symbols    []SymbolInfo `json:"symbols"`
}

type SymbolInfo struct {
	Symbol                     string          `json:"symbol"`
	Status                     string          `json:"status"`
	FullName                   string          `json:"fullName"`
	BaseAsset                  string          `json:"baseAsset"`
	BaseAssetPrecision         int             `json:"baseAssetPrecision"`
	BaseCommissionPrecision    int             `json:"baseCommissionPrecision"`
	BaseSizePrecision          decimal.Decimal `json:"baseSizePrecision"`
	QuoteAsset                 string          `json:"quoteAsset"`
	QuotePrecision             int             `json:"quotePrecision"`
	QuoteAssetPrecision        int             `json:"quoteAssetPrecision"`
	QuoteCommissionPrecision   int             `json:"quoteCommissionPrecision"`
	QuoteAmountPrecision       decimal.Decimal `json:"quoteAmountPrecision"`
	QuoteAmountPrecisionMarket decimal.Decimal `json:"quoteAmountPrecisionMarket"`
	MaxQuoteAmount             decimal.Decimal `json:"maxQuoteAmount"`
	MaxQuoteAmountMarket       decimal.Decimal `json:"maxQuoteAmountMarket"`
	MakerCommission            decimal.Decimal `json:"makerCommission"`
	TakerCommission            decimal.Decimal `json:"takerCommission"`
	IsSpotTradingAllowed       bool            `json:"isSpotTradingAllowed"`
	IsMarginTradingAllowed     bool            `json:"isMarginTradingAllowed"`
	OrderTypes                 []string        `json:"orderTypes"`
	Permissions                []string        `json:"permissions"`
}

// Level is one [price, quantity] row of an order book.
type Level struct {
	Price decimal.Decimal
	Size  decimal.Decimal
}

func (l *Level) UnmarshalJSON(b []byte) error {
	var pair []decimal.Decimal
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("order book level has %d fields, want 2", len(pair))
	}
	l.Price, l.Size = pair[0], pair[1]
	return nil
}

type Orderbook struct {
	LastUpdateID int64   `json:"lastUpdateId"`
	Timestamp    int64   `json:"timestamp"`
	Bids         []Level `json:"bids"`
	Asks         []Level `json:"asks"`
}

type SpotAccount struct {
	AccountType string        `json:"accountType"`
	CanDeposit  bool          `json:"canDeposit"`
	CanTrade    bool          `json:"canTrade"`
	CanWithdraw bool          `json:"canWithdraw"`
	Permissions []string      `json:"permissions"`
	Balances    []SpotBalance `json:"balances"`
}

type SpotBalance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}

// SpotOrder is a new spot order. Price and quantity go over the wire as strings.
type SpotOrder struct {
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	Side     SpotSide        `json:"side"`
	Type     SpotOrderType   `json:"type"`
}

type SpotOrderReceipt struct {
	Symbol       string          `json:"symbol"`
	OrderID      string          `json:"orderId"`
	OrderListID  int64           `json:"orderListId"`
	Price        decimal.Decimal `json:"price"`
	OrigQty      decimal.Decimal `json:"origQty"`
	Type         SpotOrderType   `json:"type"`
	Side         SpotSide        `json:"side"`
	TransactTime int64           `json:"transactTime"`
}

type CancelledOrder struct {
	Symbol              string          `json:"symbol"`
	OrderID             string          `json:"orderId"`
	Price               decimal.Decimal `json:"price"`
	OrigQty             decimal.Decimal `json:"origQty"`
	ExecutedQty         decimal.Decimal `json:"executedQty"`
	CummulativeQuoteQty decimal.Decimal `json:"cummulativeQuoteQty"`
	Type                SpotOrderType   `json:"type"`
	Side                SpotSide        `json:"side"`
}

// Futures

type FuturesBalance struct {
	Currency         string          `json:"currency"`
	PositionMargin   decimal.Decimal `json:"positionMargin"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	CashBalance      decimal.Decimal `json:"cashBalance"`
	FrozenBalance    decimal.Decimal `json:"frozenBalance"`
	Equity           decimal.Decimal `json:"equity"`
	Unrealized       decimal.Decimal `json:"unrealized"`
	Bonus            decimal.Decimal `json:"bonus"`
}

type FuturesPosition struct {
	PositionID     int64                 `json:"positionId"`
	Symbol         string                `json:"symbol"`
	PositionType   exchange.PositionType `json:"positionType"`
	OpenType       exchange.OpenType     `json:"openType"`
	State          int                   `json:"state"`
	HoldVol        uint64                `json:"holdVol"`
	FrozenVol      decimal.Decimal       `json:"frozenVol"`
	CloseVol       decimal.Decimal       `json:"closeVol"`
	HoldAvgPrice   decimal.Decimal       `json:"holdAvgPrice"`
	OpenAvgPrice   decimal.Decimal       `json:"openAvgPrice"`
	CloseAvgPrice  decimal.Decimal       `json:"closeAvgPrice"`
	LiquidatePrice decimal.Decimal       `json:"liquidatePrice"`
	Oim            decimal.Decimal       `json:"oim"`
	Im             decimal.Decimal       `json:"im"`
	HoldFee        decimal.Decimal       `json:"holdFee"`
	Realised       decimal.Decimal       `json:"realised"`
	MarginRatio    decimal.Decimal       `json:"marginRatio"`
	Leverage       uint64                `json:"leverage"`
	AutoAddIm      bool                  `json:"autoAddIm"`
	CreateTime     int64                 `json:"createTime"`
	UpdateTime     int64                 `json:"updateTime"`
}

func (p FuturesPosition) Snapshot() exchange.PositionSnapshot {
	return exchange.PositionSnapshot{
		Symbol:       p.Symbol,
		OpenType:     p.OpenType,
		Leverage:     p.Leverage,
		PositionType: p.PositionType,
		HoldVol:      p.HoldVol,
	}
}

type ContractInfo struct {
	Symbol                string          `json:"symbol"`
	DisplayNameEn         string          `json:"displayNameEn"`
	BaseCoin              string          `json:"baseCoin"`
	QuoteCoin             string          `json:"quoteCoin"`
	SettleCoin            string          `json:"settleCoin"`
	ContractSize          decimal.Decimal `json:"contractSize"`
	MinLeverage           int             `json:"minLeverage"`
	MaxLeverage           int             `json:"maxLeverage"`
	PriceScale            int             `json:"priceScale"`
	VolScale              int             `json:"volScale"`
	AmountScale           int             `json:"amountScale"`
	PriceUnit             decimal.Decimal `json:"priceUnit"`
	VolUnit               decimal.Decimal `json:"volUnit"`
	MinVol                decimal.Decimal `json:"minVol"`
	MaxVol                decimal.Decimal `json:"maxVol"`
	MakerFeeRate          decimal.Decimal `json:"makerFeeRate"`
	TakerFeeRate          decimal.Decimal `json:"takerFeeRate"`
	InitialMarginRate     decimal.Decimal `json:"initialMarginRate"`
	MaintenanceMarginRate decimal.Decimal `json:"maintenanceMarginRate"`
	PositionOpenType      int             `json:"positionOpenType"`
	State                 int             `json:"state"`
	APIAllowed            bool            `json:"apiAllowed"`
}

type FuturesOrder struct {
	OrderID      string             `json:"orderId"`
	Symbol       string             `json:"symbol"`
	PositionID   int64              `json:"positionId"`
	Price        decimal.Decimal    `json:"price"`
	Vol          uint64             `json:"vol"`
	Leverage     uint64             `json:"leverage"`
	Side         exchange.OrderSide `json:"side"`
	Category     int64              `json:"category"`
	OrderType    exchange.OrderType `json:"orderType"`
	OpenType     exchange.OpenType  `json:"openType"`
	DealAvgPrice decimal.Decimal    `json:"dealAvgPrice"`
	DealVol      uint64             `json:"dealVol"`
	OrderMargin  decimal.Decimal    `json:"orderMargin"`
	UsedMargin   decimal.Decimal    `json:"usedMargin"`
	TakerFee     decimal.Decimal    `json:"takerFee"`
	MakerFee     decimal.Decimal    `json:"makerFee"`
	Profit       decimal.Decimal    `json:"profit"`
	FeeCurrency  string             `json:"feeCurrency"`
	State        int64              `json:"state"`
	ExternalOid  string             `json:"externalOid"`
	ErrorCode    int64              `json:"errorCode"`
	PositionMode int64              `json:"positionMode"`
	CreateTime   int64              `json:"createTime"`
	UpdateTime   int64              `json:"updateTime"`
}

type IndexPrice struct {
	Symbol     string          `json:"symbol"`
	IndexPrice decimal.Decimal `json:"indexPrice"`
	Timestamp  int64           `json:"timestamp"`
}

// webOrderBody is the order-creation payload. Fields are declared in key order
// so the marshalled bytes are canonical.
type webOrderBody struct {
	Leverage      uint64             `json:"leverage"`
	MarketCeiling bool               `json:"marketCeiling"`
	OpenType      exchange.OpenType  `json:"openType"`
	Price         *string            `json:"price,omitempty"`
	PriceProtect  string             `json:"priceProtect"`
	ReduceOnly    bool               `json:"reduceOnly"`
	Side          exchange.OrderSide `json:"side"`
	Symbol        string             `json:"symbol"`
	Type          exchange.OrderType `json:"type"`
	Vol           uint64             `json:"vol"`
}

func newWebOrderBody(instr exchange.OrderInstruction) webOrderBody {
	body := webOrderBody{
		Leverage:     instr.Leverage,
		OpenType:     instr.OpenType,
		PriceProtect: "0",
		Side:         instr.Side,
		Symbol:       instr.Symbol,
		Type:         instr.OrderType,
		Vol:          instr.Volume,
	}
	if instr.Price != nil {
		p := instr.Price.String()
		body.Price = &p
	}
	return body
}

// ContractUnits converts a base-asset size into whole contracts, rounding down.
func ContractUnits(size, contractSize decimal.Decimal) uint64 {
	if !contractSize.IsPositive() || !size.IsPositive() {
		return 0
	}
	return uint64(size.Div(contractSize).Floor().IntPart())
}

// ReceiptTime converts the exchange millisecond stamp.
func ReceiptTime(r exchange.OrderReceipt) time.Time {
	return time.UnixMilli(r.Timestamp)
}
