package mexc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func newTestBuilder(creds Credentials, ms int64) *RequestBuilder {
	return NewRequestBuilder(creds, "https://api.mexc.com/", "https://contract.mexc.com", "https://futures.mexc.com", 0, fixedClock(ms))
}

func TestParams_EncodeKeepsInsertionOrder(t *testing.T) {
	p := NewParams().Add("symbol", "BTCUSDT").Add("side", "BUY").Add("a", "1")
	assert.Equal(t, "symbol=BTCUSDT&side=BUY&a=1", p.Encode())
	assert.True(t, p.Has("side"))
	assert.False(t, p.Has("price"))
	assert.Equal(t, 3, p.Len())

	var nilParams *Params
	assert.Equal(t, "", nilParams.Encode())
	assert.False(t, nilParams.Has("x"))
}

func TestParams_EncodeEscapesValues(t *testing.T) {
	p := NewParams().Add("batchOrders", `[{"symbol":"A B"}]`)
	assert.Equal(t, "batchOrders=%5B%7B%22symbol%22%3A%22A+B%22%7D%5D", p.Encode())
}

func TestBuild_QuerySchemeAppendsWindowAndTimestamp(t *testing.T) {
	b := newTestBuilder(testCreds, 1644489390087)
	params := NewParams().
		Add("symbol", "BTCUSDT").
		Add("side", "BUY").
		Add("type", "LIMIT").
		Add("quantity", "1").
		Add("price", "11")

	req, err := b.Build(spotNewOrder, params, nil)
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://api.mexc.com/api/v3/order", req.URL)
	assert.Equal(t, SchemeQuery, req.Scheme)
	assert.Equal(t,
		"symbol=BTCUSDT&side=BUY&type=LIMIT&quantity=1&price=11&recvWindow=5000&timestamp=1644489390087&signature=28ba033f359efa9f91364321c923653ac346dfad5fdb95e5b38f41b50c31d4cf",
		req.Query)
	assert.Equal(t, "28ba033f359efa9f91364321c923653ac346dfad5fdb95e5b38f41b50c31d4cf", req.Signature)
	assert.Equal(t, "mx0vglAbc", req.Headers["X-MEXC-APIKEY"])
	assert.Equal(t, req.URL+"?"+req.Query, req.FullURL())
}

func TestBuild_QuerySchemeKeepsCallerWindow(t *testing.T) {
	b := newTestBuilder(testCreds, 1644489390087)
	params := NewParams().Add("symbol", "BTCUSDT").Add("recvWindow", "60000")

	req, err := b.Build(spotAccount, params, nil)
	require.NoError(t, err)
	assert.Contains(t, req.Query, "symbol=BTCUSDT&recvWindow=60000&timestamp=1644489390087&signature=")
	assert.NotContains(t, req.Query, "recvWindow=5000")
}

func TestBuild_ConfiguredRecvWindow(t *testing.T) {
	b := NewRequestBuilder(testCreds, "https://api.mexc.com", "", "", 7000, fixedClock(1))
	req, err := b.Build(spotAccount, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, req.Query, "recvWindow=7000&timestamp=1&signature=")
}

func TestBuild_HeaderScheme(t *testing.T) {
	b := newTestBuilder(testCreds, 1700000000000)

	req, err := b.Build(futuresAssets, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://contract.mexc.com/api/v1/private/account/assets", req.FullURL())
	assert.Equal(t, "215bfe876c4e329486f49dd2601c91fb374aca440b1762a88a867937b0645ba3", req.Signature)
	assert.Equal(t, "mx0vglAbc", req.Headers["ApiKey"])
	assert.Equal(t, "1700000000000", req.Headers["Request-Time"])
	assert.Equal(t, "application/json", req.Headers["Content-Type"])
	assert.NotContains(t, req.Query, "signature")
}

func TestBuild_HeaderSchemeSignsQuery(t *testing.T) {
	b := newTestBuilder(testCreds, 1700000000000)

	req, err := b.Build(futuresAssets, NewParams().Add("symbol", "BTC_USDT"), nil)
	require.NoError(t, err)
	assert.Equal(t, "symbol=BTC_USDT", req.Query)
	assert.Equal(t, "487ca1bca7ceaa021491128da977d1e838e99ec1687eff3856befa50a8a542c1", req.Signature)
}

func TestBuild_PathArguments(t *testing.T) {
	b := newTestBuilder(testCreds, 1700000000000)

	req, err := b.Build(futuresAsset, nil, nil, "USDT")
	require.NoError(t, err)
	assert.Equal(t, "https://contract.mexc.com/api/v1/private/account/asset/USDT", req.URL)

	req, err = b.Build(futuresIndexPrice, nil, nil, "ETH_USDT")
	require.NoError(t, err)
	assert.Equal(t, "https://contract.mexc.com/api/v1/contract/index_price/ETH_USDT", req.URL)
	assert.Empty(t, req.Headers)
	assert.Empty(t, req.Signature)
}

func TestBuild_WebOrderScheme(t *testing.T) {
	b := newTestBuilder(testCreds, 1700000000000)
	body := []byte(`{"leverage":4,"marketCeiling":false,"openType":2,"priceProtect":"0","reduceOnly":false,"side":1,"symbol":"ETH_USDT","type":5,"vol":100}`)

	req, err := b.Build(futuresCreateOrder, nil, body)
	require.NoError(t, err)
	assert.Equal(t, "https://futures.mexc.com/api/v1/private/order/create", req.URL)
	assert.Equal(t, "f22959a6f8e0ee0a71e22cb336bb1b9d", req.Signature)
	assert.Equal(t, body, req.Body)

	_, err = b.Build(futuresCreateOrder, nil, nil)
	assert.Error(t, err)
}

func TestBuild_MissingCredentialsFailBeforeSigning(t *testing.T) {
	b := newTestBuilder(Credentials{}, 1)

	_, err := b.Build(spotAccount, nil, nil)
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = b.Build(futuresOpenPositions, nil, nil)
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = b.Build(futuresCreateOrder, nil, []byte("{}"))
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = b.Login()
	assert.ErrorIs(t, err, ErrMissingCredential)

	// public endpoints need nothing
	req, err := b.Build(spotTime, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.mexc.com/api/v3/time", req.FullURL())
}

func TestBuild_WebOrderOnlyNeedsToken(t *testing.T) {
	b := newTestBuilder(Credentials{WebToken: "WEB1234abcd"}, 1700000000000)
	_, err := b.Build(futuresCreateOrder, nil, []byte("{}"))
	assert.NoError(t, err)

	_, err = b.Build(futuresAssets, nil, nil)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestBuild_RejectsWSLoginEndpoint(t *testing.T) {
	b := newTestBuilder(testCreds, 1)
	_, err := b.Build(Endpoint{Name: "bogus", Method: "GET", Scheme: SchemeWSLogin}, nil, nil)
	assert.Error(t, err)
}

func TestBuild_FreshTimestampPerRequest(t *testing.T) {
	ms := int64(1700000000000)
	b := NewRequestBuilder(testCreds, "", "https://contract.mexc.com", "", 0, func() time.Time {
		ms++
		return time.UnixMilli(ms)
	})

	first, err := b.Build(futuresAssets, nil, nil)
	require.NoError(t, err)
	second, err := b.Build(futuresAssets, nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.Headers["Request-Time"], second.Headers["Request-Time"])
	assert.NotEqual(t, first.Signature, second.Signature)
}
