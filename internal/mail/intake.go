package mail

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/whitelist"
)

// IntakeConfig holds the SMTP listener settings
type IntakeConfig struct {
	ListenAddress   string
	Domain          string
	MaxMessageBytes int64
	LabelTimeout    time.Duration

	// TrustedDomains are sender domains labeled Safe without analysis
	TrustedDomains []string
}

// Intake accepts forwarded messages over SMTP and adds them to the inbox
type Intake struct {
	scanner  *Scanner
	trusted  *whitelist.Checker
	cfg      IntakeConfig
	logger   *zap.Logger
	server   *smtp.Server
	listener net.Listener
}

// NewIntake creates a new SMTP intake
func NewIntake(scanner *Scanner, cfg IntakeConfig, logger *zap.Logger) *Intake {
	if cfg.Domain == "" {
		cfg.Domain = "localhost"
	}
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = 10 * 1024 * 1024
	}
	if cfg.LabelTimeout <= 0 {
		cfg.LabelTimeout = 30 * time.Second
	}
	return &Intake{
		scanner: scanner,
		trusted: whitelist.NewChecker(cfg.TrustedDomains, logger),
		cfg:     cfg,
		logger:  logger,
	}
}

// Start begins accepting connections
func (i *Intake) Start() error {
	l, err := net.Listen("tcp", i.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", i.cfg.ListenAddress, err)
	}
	i.listener = l

	i.server = smtp.NewServer(&smtpBackend{intake: i})
	i.server.Domain = i.cfg.Domain
	i.server.ReadTimeout = 30 * time.Second
	i.server.WriteTimeout = 30 * time.Second
	i.server.MaxMessageBytes = i.cfg.MaxMessageBytes
	i.server.MaxRecipients = 50

	i.logger.Info("Mail intake starting", zap.String("address", l.Addr().String()))

	go func() {
		if err := i.server.Serve(l); err != nil && err != smtp.ErrServerClosed {
			i.logger.Error("SMTP server error", zap.Error(err))
		}
	}()
	return nil
}

// Stop closes the listener
func (i *Intake) Stop() error {
	if i.server != nil {
		return i.server.Close()
	}
	return nil
}

// Addr returns the bound address once started
func (i *Intake) Addr() net.Addr {
	if i.listener == nil {
		return nil
	}
	return i.listener.Addr()
}

// Deliver parses, labels and stores one raw message
func (i *Intake) Deliver(ctx context.Context, raw []byte) (*Email, error) {
	email, err := ParseMessage(raw)
	if err != nil {
		return nil, err
	}

	if i.trusted.IsTrustedSender(email.SenderEmail) {
		email.InitialRiskLabel = LabelSafe
	} else {
		ctx, cancel := context.WithTimeout(ctx, i.cfg.LabelTimeout)
		defer cancel()
		if label, ok := i.scanner.Label(ctx, fmt.Sprintf("%s\n\n%s", email.Subject, email.Body)); ok {
			email.InitialRiskLabel = label
		}
	}

	i.scanner.Ingest(*email)

	i.logger.Info("Accepted forwarded message",
		zap.String("from", email.SenderEmail),
		zap.String("subject", email.Subject),
		zap.String("label", string(email.DisplayLabel())))
	return email, nil
}

type smtpBackend struct {
	intake *Intake
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{intake: b.intake}, nil
}

type smtpSession struct {
	intake     *Intake
	sender     string
	recipients []string
}

func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}
	if _, err := s.intake.Deliver(context.Background(), raw); err != nil {
		s.intake.logger.Warn("Rejected forwarded message",
			zap.String("sender", s.sender),
			zap.Error(err))
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "Message could not be parsed",
		}
	}
	return nil
}

func (s *smtpSession) Logout() error {
	return nil
}
