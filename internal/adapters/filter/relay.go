package filter

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
)

// Relayer hands an accepted message to the next hop
type Relayer interface {
	Relay(from string, to []string, data []byte) error
}

// PostfixRelay re-injects messages into Postfix over SMTP
type PostfixRelay struct {
	addr    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewPostfixRelay creates a relay to host:port
func NewPostfixRelay(host string, port int, logger *zap.Logger) *PostfixRelay {
	return &PostfixRelay{
		addr:    net.JoinHostPort(host, fmt.Sprint(port)),
		timeout: 30 * time.Second,
		logger:  logger,
	}
}

// Relay delivers the message. Recipients Postfix refuses are logged and
// skipped; the call fails only when none are accepted.
func (p *PostfixRelay) Relay(from string, to []string, data []byte) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", p.addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(p.timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	accepted := 0
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt, nil); err != nil {
			p.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", rcpt),
				zap.Error(err))
			continue
		}
		accepted++
	}
	if accepted == 0 {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		p.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}
