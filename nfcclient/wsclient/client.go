// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/0xngmi/nft-collateral/api/types"
	"github.com/0xngmi/nft-collateral/nfcclient/common"
)

type Client struct {
	host   string
	scheme string
}

func NewClient(url string) (*Client, error) {
	var host string
	var scheme string

	switch {
	case strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "wss://"):
		host = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "wss://")
		scheme = "wss"
	case strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "ws://"):
		host = strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "ws://")
		scheme = "ws"
	default:
		return nil, fmt.Errorf("invalid url")
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// Subscription is a live stream of messages. Close ends it and closes the channel.
type Subscription[T any] struct {
	conn      *websocket.Conn
	ch        <-chan common.EventWrapper[T]
	done      chan struct{}
	closeOnce sync.Once
}

func (s *Subscription[T]) C() <-chan common.EventWrapper[T] {
	return s.ch
}

func (s *Subscription[T]) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

// SubscribeBlocks streams blocks following the position, or starting with the best block
// when position is empty.
func (c *Client) SubscribeBlocks(position string) (*Subscription[*types.Block], error) {
	query := ""
	if position != "" {
		query = "pos=" + position
	}
	conn, err := c.connect("/subscriptions/block", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}

	return subscribe[types.Block](conn), nil
}

// subscribe pumps json messages of the connection into a channel until reading fails.
// The last value sent carries the error, unless the subscription was closed.
func subscribe[T any](conn *websocket.Conn) *Subscription[*T] {
	eventChan := make(chan common.EventWrapper[*T])
	sub := &Subscription[*T]{conn: conn, ch: eventChan, done: make(chan struct{})}

	go func() {
		defer close(eventChan)
		defer conn.Close()

		for {
			var ev common.EventWrapper[*T]
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				ev.Error = fmt.Errorf("%w: %w", common.ErrUnexpectedMsg, err)
			} else {
				ev.Data = &data
			}

			select {
			case eventChan <- ev:
			case <-sub.done:
				return
			}
			if ev.Error != nil {
				return
			}
		}
	}()

	return sub
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     endpoint,
		RawQuery: rawQuery,
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
