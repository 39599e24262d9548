package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"

	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/dto"
)

const implicitTLSPort = 465

// transport is the subset of *gosmtp.Client the mailer uses
type transport interface {
	SendMail(from string, to []string, r io.Reader) error
	Noop() error
	Quit() error
	Close() error
}

type dialFunc func(ctx context.Context, account dto.SMTPAccount) (transport, error)

type pooled struct {
	account dto.SMTPAccount
	conn    transport
}

// Pool keeps one authenticated SMTP connection per user. A connection is
// reused while the user's account settings stay the same.
type Pool struct {
	mu    sync.Mutex
	conns map[uint]*pooled
	dial  dialFunc
}

// NewPool creates a pool dialing real SMTP servers
func NewPool(timeout time.Duration) *Pool {
	return &Pool{
		conns: make(map[uint]*pooled),
		dial: func(ctx context.Context, account dto.SMTPAccount) (transport, error) {
			return dial(ctx, account, timeout)
		},
	}
}

// Get returns the cached connection for the account's user, dialing a new
// one when none is cached, the settings changed or the server stopped
// answering.
func (p *Pool) Get(ctx context.Context, account dto.SMTPAccount) (transport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, ok := p.conns[account.UserID]; ok {
		if cached.account == account && cached.conn.Noop() == nil {
			return cached.conn, nil
		}
		cached.conn.Close()
		delete(p.conns, account.UserID)
	}

	conn, err := p.dial(ctx, account)
	if err != nil {
		return nil, err
	}
	p.conns[account.UserID] = &pooled{account: account, conn: conn}
	return conn, nil
}

// Evict closes and forgets the user's connection
func (p *Pool) Evict(userID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, ok := p.conns[userID]; ok {
		cached.conn.Close()
		delete(p.conns, userID)
	}
}

// Len returns the number of cached connections
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

// Close says goodbye to every server and empties the pool
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, cached := range p.conns {
		if err := cached.conn.Quit(); err != nil {
			cached.conn.Close()
		}
		delete(p.conns, id)
	}
	return nil
}

// dial connects according to the account: implicit TLS on port 465,
// STARTTLS when UseTLS is set, plain text otherwise. PLAIN auth follows
// when a username is configured.
func dial(ctx context.Context, account dto.SMTPAccount, timeout time.Duration) (transport, error) {
	addr := net.JoinHostPort(account.Host, strconv.Itoa(account.Port))
	tlsConfig := &tls.Config{ServerName: account.Host}

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	var client *gosmtp.Client
	switch {
	case account.Port == implicitTLSPort:
		client = gosmtp.NewClient(tls.Client(conn, tlsConfig))
	case account.UseTLS:
		client, err = gosmtp.NewClientStartTLS(conn, tlsConfig)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to start tls with %s: %w", addr, err)
		}
	default:
		client = gosmtp.NewClient(conn)
	}

	if timeout > 0 {
		client.CommandTimeout = timeout
		client.SubmissionTimeout = 4 * timeout
	}

	if account.Username != "" {
		auth := sasl.NewPlainClient("", account.Username, account.Password)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to authenticate with %s: %w", addr, err)
		}
	}

	return client, nil
}
