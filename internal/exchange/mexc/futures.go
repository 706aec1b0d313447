package mexc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"mexc-connector/internal/exchange"
)

// Futures covers contract.mexc.com. Private REST calls are header signed; order
// creation goes through the web endpoint with the session token.
type Futures struct {
	c *Client
}

var _ exchange.FuturesExchange = (*Futures)(nil)

var ErrZeroVolume = errors.New("mexc: order volume must be positive")

func (f *Futures) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	resp, err := f.c.do(ctx, futuresPing, nil, nil)
	if err != nil {
		return 0, err
	}
	if err := decodeFutures(futuresPing.Name, resp, nil); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func (f *Futures) Assets(ctx context.Context) ([]FuturesBalance, error) {
	resp, err := f.c.do(ctx, futuresAssets, nil, nil)
	if err != nil {
		return nil, err
	}
	var balances []FuturesBalance
	if err := decodeFutures(futuresAssets.Name, resp, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

func (f *Futures) Asset(ctx context.Context, currency string) (*FuturesBalance, error) {
	resp, err := f.c.do(ctx, futuresAsset, nil, nil, currency)
	if err != nil {
		return nil, err
	}
	var balance FuturesBalance
	if err := decodeFutures(futuresAsset.Name, resp, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

// OpenPositionDetails returns the full position records.
func (f *Futures) OpenPositionDetails(ctx context.Context) ([]FuturesPosition, error) {
	resp, err := f.c.do(ctx, futuresOpenPositions, nil, nil)
	if err != nil {
		return nil, err
	}
	var positions []FuturesPosition
	if err := decodeFutures(futuresOpenPositions.Name, resp, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (f *Futures) OpenPositions(ctx context.Context) ([]exchange.PositionSnapshot, error) {
	positions, err := f.OpenPositionDetails(ctx)
	if err != nil {
		return nil, err
	}
	snapshots := make([]exchange.PositionSnapshot, 0, len(positions))
	for _, p := range positions {
		snapshots = append(snapshots, p.Snapshot())
	}
	return snapshots, nil
}

func (f *Futures) QueryOrder(ctx context.Context, orderID string) (*FuturesOrder, error) {
	resp, err := f.c.do(ctx, futuresQueryOrder, nil, nil, orderID)
	if err != nil {
		return nil, err
	}
	var order FuturesOrder
	if err := decodeFutures(futuresQueryOrder.Name, resp, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (f *Futures) ContractDetail(ctx context.Context, symbol string) (*ContractInfo, error) {
	resp, err := f.c.do(ctx, futuresContractDetail, NewParams().Add("symbol", symbol), nil)
	if err != nil {
		return nil, err
	}
	var info ContractInfo
	if err := decodeFutures(futuresContractDetail.Name, resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (f *Futures) IndexPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	resp, err := f.c.do(ctx, futuresIndexPrice, nil, nil, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	var data struct {
		IndexPrice *decimal.Decimal `json:"indexPrice"`
	}
	if err := decodeFutures(futuresIndexPrice.Name, resp, &data); err != nil {
		return decimal.Zero, err
	}
	if data.IndexPrice == nil {
		return decimal.Zero, &DecodeError{Endpoint: futuresIndexPrice.Name, Err: errors.New("expected indexPrice")}
	}
	return *data.IndexPrice, nil
}

// SubmitOrder places one futures order through the web order endpoint. The
// body is marshalled once and the signed bytes are the bytes sent.
func (f *Futures) SubmitOrder(ctx context.Context, instr exchange.OrderInstruction) (*exchange.OrderReceipt, error) {
	if instr.Volume == 0 {
		return nil, ErrZeroVolume
	}
	body, err := json.Marshal(newWebOrderBody(instr))
	if err != nil {
		return nil, fmt.Errorf("encode order body: %w", err)
	}

	resp, err := f.c.do(ctx, futuresCreateOrder, nil, body)
	if err != nil {
		return nil, err
	}
	var receipt exchange.OrderReceipt
	if err := decodeFutures(futuresCreateOrder.Name, resp, &receipt); err != nil {
		return nil, err
	}
	if receipt.OrderID == "" {
		return nil, &DecodeError{Endpoint: futuresCreateOrder.Name, Err: errors.New("expected orderId")}
	}

	log.WithFields(logrus.Fields{
		"symbol":   instr.Symbol,
		"side":     instr.Side.String(),
		"vol":      instr.Volume,
		"order_id": receipt.OrderID,
	}).Info("futures order accepted")
	return &receipt, nil
}

// LoginStatement returns a freshly signed websocket login message.
func (f *Futures) LoginStatement() ([]byte, error) {
	return f.c.builder.Login()
}

func (f *Futures) PingStatement() []byte {
	return PingStatement()
}

// WSURL is the configured futures websocket endpoint.
func (f *Futures) WSURL() string {
	return f.c.cfg.WSURL
}
