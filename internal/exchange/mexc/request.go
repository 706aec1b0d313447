package mexc

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultRecvWindow int64 = 5000

type family int

const (
	familySpot family = iota
	familyFutures
	familyWeb
)

// Endpoint binds a logical operation to its host family, path and signing
// scheme. The binding is static.
type Endpoint struct {
	Name   string
	Method string
	family family
	path   string // fmt template for path arguments
	Scheme Scheme
}

var (
	spotPing         = Endpoint{"spot.ping", http.MethodGet, familySpot, "/api/v3/ping", SchemeNone}
	spotTime         = Endpoint{"spot.time", http.MethodGet, familySpot, "/api/v3/time", SchemeNone}
	spotExchangeInfo = Endpoint{"spot.exchangeInfo", http.MethodGet, familySpot, "/api/v3/exchangeInfo", SchemeNone}
	spotDepth        = Endpoint{"spot.depth", http.MethodGet, familySpot, "/api/v3/depth", SchemeNone}
	spotAccount      = Endpoint{"spot.account", http.MethodGet, familySpot, "/api/v3/account", SchemeQuery}
	spotNewOrder     = Endpoint{"spot.order.new", http.MethodPost, familySpot, "/api/v3/order", SchemeQuery}
	spotBatchOrders  = Endpoint{"spot.order.batch", http.MethodPost, familySpot, "/api/v3/batchOrders", SchemeQuery}
	spotCancelOrder  = Endpoint{"spot.order.cancel", http.MethodDelete, familySpot, "/api/v3/order", SchemeQuery}
	spotCancelAll    = Endpoint{"spot.order.cancelAll", http.MethodDelete, familySpot, "/api/v3/openOrders", SchemeQuery}

	futuresPing           = Endpoint{"futures.ping", http.MethodGet, familyFutures, "/api/v1/contract/ping", SchemeNone}
	futuresIndexPrice     = Endpoint{"futures.indexPrice", http.MethodGet, familyFutures, "/api/v1/contract/index_price/%s", SchemeNone}
	futuresContractDetail = Endpoint{"futures.contractDetail", http.MethodGet, familyFutures, "/api/v1/contract/detail", SchemeNone}
	futuresAssets         = Endpoint{"futures.assets", http.MethodGet, familyFutures, "/api/v1/private/account/assets", SchemeHeader}
	futuresAsset          = Endpoint{"futures.asset", http.MethodGet, familyFutures, "/api/v1/private/account/asset/%s", SchemeHeader}
	futuresOpenPositions  = Endpoint{"futures.openPositions", http.MethodGet, familyFutures, "/api/v1/private/position/open_positions", SchemeHeader}
	futuresQueryOrder     = Endpoint{"futures.order.get", http.MethodGet, familyFutures, "/api/v1/private/order/get/%s", SchemeHeader}
	futuresCreateOrder    = Endpoint{"futures.order.create", http.MethodPost, familyWeb, "/api/v1/private/order/create", SchemeWebOrder}
)

// Params is an ordered query parameter list. Order is part of what gets signed.
type Params struct {
	keys   []string
	values []string
}

func NewParams() *Params { return &Params{} }

func (p *Params) Add(key, value string) *Params {
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
	return p
}

func (p *Params) Has(key string) bool {
	if p == nil {
		return false
	}
	for _, k := range p.keys {
		if k == key {
			return true
		}
	}
	return false
}

func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Encode joins key=value pairs with & in insertion order. Values are
// form-escaped, keys are not.
func (p *Params) Encode() string {
	if p.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.values[i]))
	}
	return sb.String()
}

// SignedRequest is produced fresh for every call. Its signature is bound to a
// timestamp and must never be replayed.
type SignedRequest struct {
	Endpoint  string
	Method    string
	URL       string
	Query     string
	Body      []byte
	Headers   map[string]string
	Signature string
	Scheme    Scheme
}

// FullURL is URL plus the (possibly signed) query string.
func (r *SignedRequest) FullURL() string {
	if r.Query == "" {
		return r.URL
	}
	return r.URL + "?" + r.Query
}

// RequestBuilder turns an endpoint plus payload into a SignedRequest using the
// endpoint's scheme. It never sends or retries anything.
type RequestBuilder struct {
	creds      Credentials
	bases      map[family]string
	recvWindow int64
	now        func() time.Time
}

func NewRequestBuilder(creds Credentials, spotURL, futuresURL, webURL string, recvWindow int64, now func() time.Time) *RequestBuilder {
	if recvWindow <= 0 {
		recvWindow = DefaultRecvWindow
	}
	if now == nil {
		now = time.Now
	}
	return &RequestBuilder{
		creds: creds,
		bases: map[family]string{
			familySpot:    strings.TrimSuffix(spotURL, "/"),
			familyFutures: strings.TrimSuffix(futuresURL, "/"),
			familyWeb:     strings.TrimSuffix(webURL, "/"),
		},
		recvWindow: recvWindow,
		now:        now,
	}
}

func (b *RequestBuilder) timestamp() int64 {
	return b.now().UnixMilli()
}

// Build assembles the request for ep. params may be nil. pathArgs fill the
// endpoint's path template and are path-escaped.
func (b *RequestBuilder) Build(ep Endpoint, params *Params, body []byte, pathArgs ...string) (*SignedRequest, error) {
	if err := b.creds.require(ep.Scheme); err != nil {
		return nil, err
	}
	if params == nil {
		params = NewParams()
	}

	path := ep.path
	if len(pathArgs) > 0 {
		args := make([]any, len(pathArgs))
		for i, a := range pathArgs {
			args[i] = url.PathEscape(a)
		}
		path = fmt.Sprintf(ep.path, args...)
	}

	req := &SignedRequest{
		Endpoint: ep.Name,
		Method:   ep.Method,
		URL:      b.bases[ep.family] + path,
		Body:     body,
		Headers:  map[string]string{},
		Scheme:   ep.Scheme,
	}

	switch ep.Scheme {
	case SchemeNone:
		req.Query = params.Encode()

	case SchemeQuery:
		if !params.Has("recvWindow") {
			params.Add("recvWindow", strconv.FormatInt(b.recvWindow, 10))
		}
		params.Add("timestamp", strconv.FormatInt(b.timestamp(), 10))
		signed, err := SignQuery(b.creds, params.Encode())
		if err != nil {
			return nil, err
		}
		req.Query = signed
		req.Signature = signed[strings.LastIndex(signed, "=")+1:]
		req.Headers[headerSpotAPIKey] = b.creds.APIKey

	case SchemeHeader:
		req.Query = params.Encode()
		payload := req.Query
		if body != nil {
			payload = string(body)
		}
		headers, err := SignHeaders(b.creds, b.timestamp(), payload)
		if err != nil {
			return nil, err
		}
		req.Headers = headers
		req.Signature = headers[headerSignature]

	case SchemeWebOrder:
		if body == nil {
			return nil, fmt.Errorf("mexc: %s requires a JSON body", ep.Name)
		}
		req.Query = params.Encode()
		headers, err := SignWebOrder(b.creds, b.timestamp(), body)
		if err != nil {
			return nil, err
		}
		req.Headers = headers
		req.Signature = headers[headerSign]

	default:
		return nil, fmt.Errorf("mexc: scheme %s is not an HTTP scheme", ep.Scheme)
	}

	return req, nil
}

// Login builds a fresh websocket login statement.
func (b *RequestBuilder) Login() ([]byte, error) {
	return LoginStatement(b.creds, b.timestamp())
}
