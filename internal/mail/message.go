package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/htmlindex"
)

type mimeHeader interface {
	Get(key string) string
}

var wordDecoder = &mime.WordDecoder{CharsetReader: charsetReader}

// ParseMessage converts a raw RFC 5322 message into an inbox entry
func ParseMessage(raw []byte) (*Email, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	subject := decodeHeader(msg.Header.Get("Subject"))
	if subject == "" {
		subject = NoSubject
	}
	name, address := ParseSender(decodeHeader(msg.Header.Get("From")))

	var text textParts
	if err := text.collect(msg.Header, msg.Body, 0); err != nil && text.empty() {
		return nil, fmt.Errorf("failed to extract text content: %w", err)
	}

	return &Email{
		ID:          uuid.NewString(),
		Sender:      name,
		SenderEmail: address,
		Subject:     subject,
		Body:        text.best(),
		Date:        FormatDate(msg.Header.Get("Date")),
	}, nil
}

func decodeHeader(v string) string {
	decoded, err := wordDecoder.DecodeHeader(v)
	if err != nil {
		return v
	}
	return decoded
}

type textParts struct {
	plain string
	html  string
}

func (t *textParts) empty() bool {
	return t.plain == "" && t.html == ""
}

func (t *textParts) best() string {
	if t.plain != "" {
		return strings.TrimSpace(t.plain)
	}
	return HTMLToText(t.html)
}

// collect records the first text/plain and text/html parts below header
func (t *textParts) collect(header mimeHeader, body io.Reader, depth int) error {
	if depth >= maxPartDepth {
		return nil
	}

	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		mediaType, params = "text/plain", map[string]string{}
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return fmt.Errorf("multipart message without boundary")
		}
		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if err := t.collect(part.Header, part, depth+1); err != nil {
				return err
			}
			if t.plain != "" {
				return nil
			}
		}
	}

	if mediaType != "text/plain" && mediaType != "text/html" {
		return nil
	}
	if (mediaType == "text/plain" && t.plain != "") || (mediaType == "text/html" && t.html != "") {
		return nil
	}

	r, err := charsetReader(params["charset"], transferDecoder(header.Get("Content-Transfer-Encoding"), body))
	if err != nil {
		r = transferDecoder(header.Get("Content-Transfer-Encoding"), body)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	if mediaType == "text/plain" {
		t.plain = string(content)
	} else {
		t.html = string(content)
	}
	return nil
}

func transferDecoder(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

// charsetReader converts text in the named charset to UTF-8
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf-8" || charset == "us-ascii" {
		return input, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
