package mexc

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
)

// Scheme is the closed set of signing protocols. Each endpoint family is bound
// to exactly one of them, see endpoints in request.go.
type Scheme int

const (
	SchemeNone Scheme = iota
	// SchemeQuery: spot REST, HMAC-SHA256 over the ordered query string.
	SchemeQuery
	// SchemeHeader: private futures REST, HMAC-SHA256 over key+timestamp+params.
	SchemeHeader
	// SchemeWebOrder: futures order creation with a web session token, double MD5.
	SchemeWebOrder
	// SchemeWSLogin: websocket login statement, SchemeHeader without params.
	SchemeWSLogin
)

func (s Scheme) String() string {
	switch s {
	case SchemeNone:
		return "public"
	case SchemeQuery:
		return "query"
	case SchemeHeader:
		return "header"
	case SchemeWebOrder:
		return "web-order"
	case SchemeWSLogin:
		return "ws-login"
	default:
		return "unknown"
	}
}

const (
	headerSpotAPIKey = "X-MEXC-APIKEY"

	headerAPIKey      = "ApiKey"
	headerRequestTime = "Request-Time"
	headerSignature   = "Signature"
	headerContentType = "Content-Type"

	headerNonce         = "x-mxc-nonce"
	headerSign          = "x-mxc-sign"
	headerAuthorization = "authorization"

	contentTypeJSON = "application/json"

	webUserAgent = "MEXC/7 CFNetwork/1474 Darwin/23.0.0"
	webOrigin    = "https://futures.mexc.com"
	webReferer   = "https://futures.mexc.com/exchange"

	// partialHashOffset is where the web-order nonce starts inside the token digest.
	partialHashOffset = 7
)

// Credentials are immutable for the lifetime of a client.
type Credentials struct {
	APIKey    string
	APISecret string
	// WebToken is the userToken of a logged-in web session. Only order creation
	// uses it.
	WebToken string
}

// String keeps credentials out of logs and %v output.
func (c Credentials) String() string {
	return "mexc.Credentials{redacted}"
}

func (c Credentials) require(s Scheme) error {
	switch s {
	case SchemeQuery, SchemeHeader, SchemeWSLogin:
		if c.APIKey == "" {
			return &ConfigError{Scheme: s, Credential: "api key"}
		}
		if c.APISecret == "" {
			return &ConfigError{Scheme: s, Credential: "api secret"}
		}
	case SchemeWebOrder:
		if c.WebToken == "" {
			return &ConfigError{Scheme: s, Credential: "web session token"}
		}
	}
	return nil
}

func hmacSHA256Hex(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func md5Hex(payload string) string {
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// SignQuery appends &signature=<hex> to an already ordered query string. The
// server rebuilds the string in the order it was sent, so query is signed as is.
func SignQuery(creds Credentials, query string) (string, error) {
	if err := creds.require(SchemeQuery); err != nil {
		return "", err
	}
	return query + "&signature=" + hmacSHA256Hex(creds.APISecret, query), nil
}

// HeaderSignature is HMAC-SHA256(secret, apiKey + timestamp + params), hex.
func HeaderSignature(creds Credentials, timestamp int64, params string) (string, error) {
	if err := creds.require(SchemeHeader); err != nil {
		return "", err
	}
	return hmacSHA256Hex(creds.APISecret, creds.APIKey+strconv.FormatInt(timestamp, 10)+params), nil
}

// SignHeaders produces the four headers every private futures REST call carries.
func SignHeaders(creds Credentials, timestamp int64, params string) (map[string]string, error) {
	sig, err := HeaderSignature(creds, timestamp, params)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		headerAPIKey:      creds.APIKey,
		headerRequestTime: strconv.FormatInt(timestamp, 10),
		headerSignature:   sig,
		headerContentType: contentTypeJSON,
	}, nil
}

// PartialHash is md5(token + timestamp) in lower-case hex, from offset 7 on.
func PartialHash(token, timestamp string) string {
	return md5Hex(token + timestamp)[partialHashOffset:]
}

// WebOrderSignature is md5(timestamp + body + partialHash) in lower-case hex.
func WebOrderSignature(timestamp, body, partialHash string) string {
	return md5Hex(timestamp + body + partialHash)
}

// SignWebOrder signs a canonical JSON order body with the web session token and
// returns the headers the order-creation endpoint expects.
func SignWebOrder(creds Credentials, timestamp int64, body []byte) (map[string]string, error) {
	if err := creds.require(SchemeWebOrder); err != nil {
		return nil, err
	}
	ts := strconv.FormatInt(timestamp, 10)
	sig := WebOrderSignature(ts, string(body), PartialHash(creds.WebToken, ts))
	return map[string]string{
		headerNonce:         ts,
		headerSign:          sig,
		headerAuthorization: creds.WebToken,
		"user-agent":        webUserAgent,
		"content-type":      contentTypeJSON,
		"origin":            webOrigin,
		"referer":           webReferer,
	}, nil
}

type wsLoginParam struct {
	APIKey    string `json:"apiKey"`
	ReqTime   string `json:"reqTime"`
	Signature string `json:"signature"`
}

type wsStatement struct {
	Method string        `json:"method"`
	Param  *wsLoginParam `json:"param,omitempty"`
}

// LoginStatement builds the websocket login control message.
func LoginStatement(creds Credentials, timestamp int64) ([]byte, error) {
	if err := creds.require(SchemeWSLogin); err != nil {
		return nil, err
	}
	sig := hmacSHA256Hex(creds.APISecret, creds.APIKey+strconv.FormatInt(timestamp, 10))
	return json.Marshal(wsStatement{
		Method: "login",
		Param: &wsLoginParam{
			APIKey:    creds.APIKey,
			ReqTime:   strconv.FormatInt(timestamp, 10),
			Signature: sig,
		},
	})
}

// PingStatement is the unsigned websocket keepalive.
func PingStatement() []byte {
	b, _ := json.Marshal(wsStatement{Method: "ping"})
	return b
}
