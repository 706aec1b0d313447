package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "ws")

const DefaultPingInterval = 15 * time.Second

// Client is a control-channel websocket: it logs in on connect, keeps the
// session alive with a ping statement and hands every text frame to a handler.
// A Client connects once.
type Client struct {
	url          string
	login        func() ([]byte, error)
	ping         []byte
	handler      func([]byte)
	PingInterval time.Duration

	mu        sync.Mutex
	conn      *websocket.Conn
	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// NewClient builds a client. login is called on every Connect so the signed
// timestamp is fresh; it may be nil for public sessions.
func NewClient(url string, login func() ([]byte, error), ping []byte, handler func([]byte)) *Client {
	return &Client{
		url:          url,
		login:        login,
		ping:         ping,
		handler:      handler,
		PingInterval: DefaultPingInterval,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

func (c *Client) Connect(ctx context.Context) error {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to websocket: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	log.WithField("url", c.url).Info("websocket connected")

	if c.login != nil {
		stmt, err := c.login()
		if err != nil {
			conn.Close()
			return fmt.Errorf("build login statement: %w", err)
		}
		if err := c.Send(stmt); err != nil {
			conn.Close()
			return fmt.Errorf("send login statement: %w", err)
		}
	}

	go c.handleMessages(conn)
	go c.handlePing()

	return nil
}

// Send writes one text frame. Writes are serialised.
func (c *Client) Send(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("websocket not connected")
	}
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Done is closed once the read loop has stopped.
func (c *Client) Done() <-chan struct{} {
	return c.doneCh
}

func (c *Client) handleMessages(conn *websocket.Conn) {
	defer close(c.doneCh)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.stopCh:
			default:
				log.WithError(err).Warn("websocket read error")
			}
			return
		}
		if c.handler != nil {
			c.handler(data)
		}
	}
}

func (c *Client) handlePing() {
	if len(c.ping) == 0 || c.PingInterval <= 0 {
		return
	}
	ticker := time.NewTicker(c.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-c.doneCh:
			return
		case <-ticker.C:
			if err := c.Send(c.ping); err != nil {
				log.WithError(err).Warn("websocket ping error")
			}
		}
	}
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stopCh)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}
