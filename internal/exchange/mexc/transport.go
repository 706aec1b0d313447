package mexc

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Transport sends a signed request and hands back the raw response. It does not
// interpret status codes.
type Transport interface {
	Send(ctx context.Context, req *SignedRequest) (*Response, error)
}

type Response struct {
	Status  int
	Body    []byte
	Elapsed time.Duration
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// RestyTransport is safe for concurrent use; one instance is shared by all calls.
type RestyTransport struct {
	client *resty.Client
}

func NewRestyTransport(timeout time.Duration, proxyURL string) *RestyTransport {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetLogger(log)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &RestyTransport{client: client}
}

func (t *RestyTransport) Send(ctx context.Context, req *SignedRequest) (*Response, error) {
	requestID := uuid.NewString()
	r := t.client.R().
		SetContext(ctx).
		SetHeaders(req.Headers)
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	log.WithFields(logrus.Fields{
		"request_id": requestID,
		"endpoint":   req.Endpoint,
		"method":     req.Method,
		"scheme":     req.Scheme.String(),
	}).Debug("sending request")

	start := time.Now()
	resp, err := r.Execute(req.Method, req.FullURL())
	elapsed := time.Since(start)
	if err != nil {
		log.WithField("request_id", requestID).WithError(err).Debug("request failed")
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Endpoint, err)
	}

	log.WithFields(logrus.Fields{
		"request_id": requestID,
		"status":     resp.StatusCode(),
		"elapsed":    elapsed,
	}).Debug("response received")

	return &Response{
		Status:  resp.StatusCode(),
		Body:    resp.Body(),
		Elapsed: elapsed,
	}, nil
}
