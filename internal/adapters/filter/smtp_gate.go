package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/email-domain-verifier/internal/core"
	"go.uber.org/zap"
)

// Verdicts written to the verdict header
const (
	VerdictDisposable = "disposable"
	VerdictSuspicious = "suspicious"
	VerdictLegitimate = "legitimate"
	VerdictInvalid    = "invalid"
)

var (
	errRejectDisposable = &smtp.SMTPError{
		Code:         550,
		EnhancedCode: smtp.EnhancedCode{5, 7, 1},
		Message:      "Sender domain is a disposable email provider",
	}
	errRejectSuspicious = &smtp.SMTPError{
		Code:         550,
		EnhancedCode: smtp.EnhancedCode{5, 7, 1},
		Message:      "Sender domain looks suspicious",
	}
	errTempUnavailable = &smtp.SMTPError{
		Code:         451,
		EnhancedCode: smtp.EnhancedCode{4, 3, 0},
		Message:      "Sender verification temporarily unavailable",
	}
)

// Classifier classifies a single address
type Classifier interface {
	Classify(ctx context.Context, email string) (*core.VerificationResult, error)
}

// SMTPGateOptions configures an SMTPGate
type SMTPGateOptions struct {
	ListenAddress    string
	Domain           string
	RejectDisposable bool
	RejectSuspicious bool
	DisposableHeader string
	SuspiciousHeader string
	VerdictHeader    string
	CheckTimeout     time.Duration
}

// SMTPGate is a Postfix content filter that gates mail on the sender domain.
// Accepted mail is stamped with verdict headers and handed to the relay.
type SMTPGate struct {
	classifier Classifier
	relay      Relayer
	logger     *zap.Logger
	opts       SMTPGateOptions
	server     *smtp.Server
}

// NewSMTPGate creates a new SMTP gate. relay may be nil, in which case
// accepted mail is dropped after classification.
func NewSMTPGate(classifier Classifier, relay Relayer, logger *zap.Logger, opts SMTPGateOptions) *SMTPGate {
	if opts.Domain == "" {
		opts.Domain = "localhost"
	}
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = 10 * time.Second
	}
	return &SMTPGate{
		classifier: classifier,
		relay:      relay,
		logger:     logger,
		opts:       opts,
	}
}

// Name returns the gateway name
func (g *SMTPGate) Name() string {
	return "smtp"
}

// Start starts the SMTP listener in the background
func (g *SMTPGate) Start() error {
	g.server = g.newServer()

	g.logger.Info("SMTP gate starting", zap.String("address", g.opts.ListenAddress))

	go func() {
		if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, smtp.ErrServerClosed) {
			g.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP listener
func (g *SMTPGate) Stop() error {
	if g.server != nil {
		return g.server.Close()
	}
	return nil
}

func (g *SMTPGate) newServer() *smtp.Server {
	s := smtp.NewServer(&gateBackend{gate: g})
	s.Addr = g.opts.ListenAddress
	s.Domain = g.opts.Domain
	s.ReadTimeout = 30 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.MaxMessageBytes = 30 * 1024 * 1024
	s.MaxRecipients = 50
	return s
}

// CheckSender classifies a sender address as MAIL FROM would
func (g *SMTPGate) CheckSender(ctx context.Context, from string) (*core.VerificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.CheckTimeout)
	defer cancel()
	return g.classifier.Classify(ctx, from)
}

// decide maps a classification onto the SMTP reply for MAIL FROM
func (g *SMTPGate) decide(result *core.VerificationResult) error {
	switch {
	case result.IsDisposable && g.opts.RejectDisposable:
		return errRejectDisposable
	case result.IsSuspicious && g.opts.RejectSuspicious:
		return errRejectSuspicious
	}
	return nil
}

// Verdict names the classification for the verdict header
func Verdict(result *core.VerificationResult) string {
	switch {
	case !result.IsValid:
		return VerdictInvalid
	case result.IsDisposable:
		return VerdictDisposable
	case result.IsSuspicious:
		return VerdictSuspicious
	}
	return VerdictLegitimate
}

// stampHeaders prefixes the verdict headers to a raw message, dropping any
// copies of them the sender already supplied
func (g *SMTPGate) stampHeaders(raw []byte, result *core.VerificationResult) []byte {
	names := []string{g.opts.DisposableHeader, g.opts.SuspiciousHeader, g.opts.VerdictHeader}

	var buf bytes.Buffer
	if g.opts.DisposableHeader != "" {
		fmt.Fprintf(&buf, "%s: %t\r\n", g.opts.DisposableHeader, result.IsDisposable)
	}
	if g.opts.SuspiciousHeader != "" {
		fmt.Fprintf(&buf, "%s: %t\r\n", g.opts.SuspiciousHeader, result.IsSuspicious)
	}
	if g.opts.VerdictHeader != "" {
		verdict := Verdict(result)
		if len(result.Reasons) > 0 {
			verdict += " (" + strings.Join(result.Reasons, ", ") + ")"
		}
		fmt.Fprintf(&buf, "%s: %s\r\n", g.opts.VerdictHeader, verdict)
	}
	buf.Write(stripHeaders(raw, names))
	return buf.Bytes()
}

// stripHeaders removes the named header fields, and their folded
// continuation lines, from the header section of a raw message
func stripHeaders(raw []byte, names []string) []byte {
	end := bytes.Index(raw, []byte("\r\n\r\n"))
	if end < 0 {
		end = bytes.Index(raw, []byte("\n\n"))
	}
	if end < 0 {
		end = len(raw)
	}

	var out bytes.Buffer
	skipping := false
	lines := bytes.SplitAfter(raw[:end], []byte("\n"))
	for _, line := range lines {
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
			if !skipping {
				out.Write(line)
			}
			continue
		}
		skipping = false
		if i := bytes.IndexByte(line, ':'); i > 0 {
			field := strings.TrimSpace(string(line[:i]))
			for _, name := range names {
				if name != "" && strings.EqualFold(field, name) {
					skipping = true
					break
				}
			}
		}
		if !skipping {
			out.Write(line)
		}
	}
	out.Write(raw[end:])
	return out.Bytes()
}

// gateBackend implements the go-smtp Backend interface
type gateBackend struct {
	gate *SMTPGate
}

// NewSession creates a new SMTP session
func (b *gateBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &gateSession{gate: b.gate}, nil
}

// gateSession implements the go-smtp Session interface
type gateSession struct {
	gate       *SMTPGate
	sender     string
	result     *core.VerificationResult
	recipients []string
}

// Reset resets the session state
func (s *gateSession) Reset() {
	s.sender = ""
	s.result = nil
	s.recipients = nil
}

// Mail classifies the sender and rejects it when configured to
func (s *gateSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	if from == "" {
		// null reverse-path, used by bounces
		return nil
	}

	result, err := s.gate.CheckSender(context.Background(), from)
	if err != nil {
		s.gate.logger.Error("Failed to classify sender",
			zap.String("from", from),
			zap.Error(err))
		return errTempUnavailable
	}

	if rejectErr := s.gate.decide(result); rejectErr != nil {
		s.gate.logger.Info("Rejecting sender",
			zap.String("from", from),
			zap.String("domain", result.Domain),
			zap.String("verdict", Verdict(result)),
			zap.Strings("reasons", result.Reasons))
		return rejectErr
	}

	s.result = result
	return nil
}

// Rcpt adds a recipient
func (s *gateSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data stamps the verdict headers and relays the message
func (s *gateSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.gate.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg := raw
	verdict := "none"
	if s.result != nil {
		msg = s.gate.stampHeaders(raw, s.result)
		verdict = Verdict(s.result)
	}

	if s.gate.relay == nil {
		s.gate.logger.Warn("Relay disabled, accepted message is dropped", zap.String("from", s.sender))
		return nil
	}

	if err := s.gate.relay.Relay(s.sender, s.recipients, msg); err != nil {
		s.gate.logger.Error("Failed to relay message",
			zap.String("from", s.sender),
			zap.Error(err))
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 4, 0},
			Message:      "Relay failed, try again later",
		}
	}

	s.gate.logger.Info("Relayed message",
		zap.String("from", s.sender),
		zap.Int("recipients", len(s.recipients)),
		zap.String("verdict", verdict))

	return nil
}

// Logout handles SMTP logout
func (s *gateSession) Logout() error {
	return nil
}
