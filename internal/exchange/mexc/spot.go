package mexc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Spot covers the api.mexc.com v3 endpoints. Authenticated calls use query
// signing and carry timestamp plus recvWindow.
type Spot struct {
	c *Client
}

// Ping returns the round-trip latency of the ping endpoint.
func (s *Spot) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	resp, err := s.c.do(ctx, spotPing, nil, nil)
	if err != nil {
		return 0, err
	}
	if err := decodeSpot(spotPing.Name, resp, nil); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// ServerTime returns the exchange clock in milliseconds.
func (s *Spot) ServerTime(ctx context.Context) (int64, error) {
	resp, err := s.c.do(ctx, spotTime, nil, nil)
	if err != nil {
		return 0, err
	}
	var st ServerTime
	if err := decodeSpot(spotTime.Name, resp, &st); err != nil {
		return 0, err
	}
	return st.Timestamp, nil
}

func (s *Spot) ExchangeInfo(ctx context.Context) (*ExchangeInfo, error) {
	return s.exchangeInfo(ctx, nil)
}

func (s *Spot) SymbolInfo(ctx context.Context, symbol string) (*ExchangeInfo, error) {
	return s.exchangeInfo(ctx, NewParams().Add("symbol", symbol))
}

func (s *Spot) exchangeInfo(ctx context.Context, params *Params) (*ExchangeInfo, error) {
	resp, err := s.c.do(ctx, spotExchangeInfo, params, nil)
	if err != nil {
		return nil, err
	}
	var info ExchangeInfo
	if err := decodeSpot(spotExchangeInfo.Name, resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Depth fetches the order book. limit 0 leaves the server default (100).
func (s *Spot) Depth(ctx context.Context, symbol string, limit int) (*Orderbook, error) {
	params := NewParams().Add("symbol", symbol)
	if limit > 0 {
		params.Add("limit", strconv.Itoa(limit))
	}
	resp, err := s.c.do(ctx, spotDepth, params, nil)
	if err != nil {
		return nil, err
	}
	var book Orderbook
	if err := decodeSpot(spotDepth.Name, resp, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *Spot) Account(ctx context.Context) (*SpotAccount, error) {
	resp, err := s.c.do(ctx, spotAccount, nil, nil)
	if err != nil {
		return nil, err
	}
	var acc SpotAccount
	if err := decodeSpot(spotAccount.Name, resp, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// CallOption tunes a single authenticated spot call.
type CallOption func(*Params)

// WithRecvWindow overrides the configured receive window for one call.
func WithRecvWindow(ms int64) CallOption {
	return func(p *Params) {
		p.Add("recvWindow", strconv.FormatInt(ms, 10))
	}
}

func applyCallOptions(p *Params, opts []CallOption) *Params {
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (s *Spot) PlaceOrder(ctx context.Context, order SpotOrder, opts ...CallOption) (*SpotOrderReceipt, error) {
	params := NewParams().
		Add("symbol", order.Symbol).
		Add("side", string(order.Side)).
		Add("type", string(order.Type)).
		Add("quantity", order.Quantity.String()).
		Add("price", order.Price.String())
	applyCallOptions(params, opts)

	resp, err := s.c.do(ctx, spotNewOrder, params, nil)
	if err != nil {
		return nil, err
	}
	var receipt SpotOrderReceipt
	if err := decodeSpot(spotNewOrder.Name, resp, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

var errNoOrders = errors.New("mexc: batch contains no orders")

func (s *Spot) BatchOrders(ctx context.Context, orders []SpotOrder, opts ...CallOption) ([]SpotOrderReceipt, error) {
	if len(orders) == 0 {
		return nil, errNoOrders
	}
	encoded, err := json.Marshal(orders)
	if err != nil {
		return nil, fmt.Errorf("encode batch orders: %w", err)
	}
	params := NewParams().Add("batchOrders", string(encoded))
	applyCallOptions(params, opts)

	resp, err := s.c.do(ctx, spotBatchOrders, params, nil)
	if err != nil {
		return nil, err
	}
	var receipts []SpotOrderReceipt
	if err := decodeSpot(spotBatchOrders.Name, resp, &receipts); err != nil {
		return nil, err
	}
	return receipts, nil
}

func (s *Spot) CancelOrder(ctx context.Context, symbol, orderID string, opts ...CallOption) (*CancelledOrder, error) {
	params := NewParams().Add("symbol", symbol).Add("orderId", orderID)
	applyCallOptions(params, opts)

	resp, err := s.c.do(ctx, spotCancelOrder, params, nil)
	if err != nil {
		return nil, err
	}
	var cancelled CancelledOrder
	if err := decodeSpot(spotCancelOrder.Name, resp, &cancelled); err != nil {
		return nil, err
	}
	return &cancelled, nil
}

func (s *Spot) CancelAllOrders(ctx context.Context, symbol string, opts ...CallOption) ([]CancelledOrder, error) {
	params := NewParams().Add("symbol", symbol)
	applyCallOptions(params, opts)

	resp, err := s.c.do(ctx, spotCancelAll, params, nil)
	if err != nil {
		return nil, err
	}
	var cancelled []CancelledOrder
	if err := decodeSpot(spotCancelAll.Name, resp, &cancelled); err != nil {
		return nil, err
	}
	return cancelled, nil
}
