//
// Copyright (c) 2020-2026 Markku Rossi
//
// All rights reserved.
//

package p2p

import (
	"net"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Connection establishment defaults.
const (
	DefaultConnectRetries = 100
	DefaultRetryDelay     = 20 * time.Millisecond
	DefaultConnectTimeout = 10 * time.Second
)

// ErrConnect is returned when the dialer runs out of connect retries.
var ErrConnect = errors.New("connect failed")

// Dialer connects to a listening peer.
type Dialer struct {
	Retries int
	Delay   time.Duration
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewDialer creates a dialer with the default retry parameters.
func NewDialer(logger *zap.Logger) *Dialer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dialer{
		Retries: DefaultConnectRetries,
		Delay:   DefaultRetryDelay,
		Timeout: DefaultConnectTimeout,
		Logger:  logger,
	}
}

// Dial connects to the address. The dialer tries at most d.Retries
// times, waiting d.Delay between attempts. Running out of retries
// returns an error wrapping ErrConnect.
func (d *Dialer) Dial(addr string) (*Conn, error) {
	retries := d.Retries
	if retries <= 0 {
		retries = 1
	}
	var lastErr error
	for i := 0; i < retries; i++ {
		nc, err := net.DialTimeout("tcp", addr, d.Timeout)
		if err == nil {
			d.Logger.Debug("connected",
				zap.String("addr", addr), zap.Int("attempt", i+1))
			return NewConn(nc), nil
		}
		lastErr = err
		d.Logger.Debug("connect failed, retrying",
			zap.String("addr", addr), zap.Int("attempt", i+1),
			zap.Duration("delay", d.Delay), zap.Error(err))
		time.Sleep(d.Delay)
	}
	return nil, errors.Wrapf(ErrConnect, "%s after %d attempts: %v",
		addr, retries, lastErr)
}

// Listener accepts peer connections.
type Listener struct {
	listener net.Listener
	logger   *zap.Logger
}

// Listen creates a new listener for the TCP address.
func Listen(addr string, logger *zap.Logger) (*Listener, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %s", addr)
	}
	logger.Debug("listening", zap.Stringer("addr", listener.Addr()))
	return &Listener{
		listener: listener,
		logger:   logger,
	}, nil
}

// Addr returns the listener's network address.
func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Accept waits for the next peer connection.
func (l *Listener) Accept() (*Conn, error) {
	nc, err := l.listener.Accept()
	if err != nil {
		return nil, errors.Wrap(err, "accept")
	}
	l.logger.Debug("accepted", zap.Stringer("peer", nc.RemoteAddr()))
	return NewConn(nc), nil
}

// Close closes the listener.
func (l *Listener) Close() error {
	return l.listener.Close()
}
