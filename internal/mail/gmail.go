package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Provider reads messages from a mailbox on behalf of an access token
type Provider interface {
	Profile(ctx context.Context, token string) (string, error)
	ListMessageIDs(ctx context.Context, token string, limit int) ([]string, error)
	GetMessage(ctx context.Context, token, id string) (*Email, error)
}

// GmailProvider reads messages through the Gmail REST API
type GmailProvider struct {
	endpoint string
	logger   *zap.Logger
}

// NewGmailProvider creates a Gmail provider. An empty endpoint uses the public API.
func NewGmailProvider(endpoint string, logger *zap.Logger) *GmailProvider {
	return &GmailProvider{
		endpoint: endpoint,
		logger:   logger,
	}
}

func (p *GmailProvider) service(ctx context.Context, token string) (*gmail.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return svc, nil
}

// Profile returns the mailbox address
func (p *GmailProvider) Profile(ctx context.Context, token string) (string, error) {
	svc, err := p.service(ctx, token)
	if err != nil {
		return "", err
	}
	profile, err := svc.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return "", classify("failed to fetch profile", err)
	}
	return profile.EmailAddress, nil
}

// ListMessageIDs returns the ids of the most recent messages
func (p *GmailProvider) ListMessageIDs(ctx context.Context, token string, limit int) ([]string, error) {
	svc, err := p.service(ctx, token)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Users.Messages.List("me").MaxResults(int64(limit)).Context(ctx).Do()
	if err != nil {
		return nil, classify("failed to list messages", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		if m != nil && m.Id != "" {
			ids = append(ids, m.Id)
		}
	}
	return ids, nil
}

// GetMessage fetches one message and converts it for the inbox
func (p *GmailProvider) GetMessage(ctx context.Context, token, id string) (*Email, error) {
	svc, err := p.service(ctx, token)
	if err != nil {
		return nil, err
	}
	msg, err := svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, classify("failed to fetch message "+id, err)
	}
	return convertMessage(msg), nil
}

func convertMessage(msg *gmail.Message) *Email {
	var headers []*gmail.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}

	subject := headerValue(headers, "Subject")
	if subject == "" {
		subject = NoSubject
	}
	name, address := ParseSender(headerValue(headers, "From"))

	return &Email{
		ID:          msg.Id,
		Sender:      name,
		SenderEmail: address,
		Subject:     subject,
		Body:        ExtractBody(msg.Payload, msg.Snippet),
		Date:        FormatDate(headerValue(headers, "Date")),
		IsRead:      !slices.Contains(msg.LabelIds, "UNREAD"),
	}
}

func headerValue(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if h != nil && strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func classify(msg string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden) {
		return fmt.Errorf("%s: %w", msg, ErrUnauthorized)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
