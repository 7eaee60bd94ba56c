package mail

import (
	"strings"
	"testing"
)

func TestParseMessagePlain(t *testing.T) {
	raw := "From: \"Bank Alerts\" <alerts@bank-secure.example>\r\n" +
		"Subject: =?UTF-8?B?VXJnZW50OiB2ZXJpZnk=?=\r\n" +
		"Date: Tue, 03 Feb 2026 10:00:00 +0000\r\n" +
		"\r\n" +
		"Verify your account now.\r\n"

	email, err := ParseMessage([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if email.Sender != "Bank Alerts" || email.SenderEmail != "alerts@bank-secure.example" {
		t.Errorf("unexpected sender %q <%q>", email.Sender, email.SenderEmail)
	}
	if email.Subject != "Urgent: verify" {
		t.Errorf("unexpected subject %q", email.Subject)
	}
	if email.Date != "Feb 3" {
		t.Errorf("unexpected date %q", email.Date)
	}
	if email.Body != "Verify your account now." {
		t.Errorf("unexpected body %q", email.Body)
	}
	if email.ID == "" {
		t.Error("expected an id")
	}
}

func TestParseMessageNestedMultipart(t *testing.T) {
	raw := strings.Join([]string{
		"From: sender@example.com",
		"Content-Type: multipart/mixed; boundary=outer",
		"",
		"--outer",
		"Content-Type: multipart/alternative; boundary=inner",
		"",
		"--inner",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>html version</p>",
		"--inner",
		"Content-Type: text/plain; charset=iso-8859-1",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"Caf=E9 prize",
		"--inner--",
		"--outer",
		"Content-Type: application/pdf",
		"",
		"binary",
		"--outer--",
		"",
	}, "\r\n")

	email, err := ParseMessage([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if email.Body != "Café prize" {
		t.Errorf("unexpected body %q", email.Body)
	}
	if email.Subject != NoSubject {
		t.Errorf("unexpected subject %q", email.Subject)
	}
}

func TestParseMessageHTMLOnly(t *testing.T) {
	raw := "Content-Type: text/html\r\nContent-Transfer-Encoding: base64\r\n\r\n" +
		"PGI+V2lubmVyITwvYj4=\r\n"
	email, err := ParseMessage([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if email.Body != "Winner!" {
		t.Errorf("unexpected body %q", email.Body)
	}
}

func TestParseMessageInvalid(t *testing.T) {
	if _, err := ParseMessage([]byte("no headers here")); err == nil {
		t.Fatal("expected parse error")
	}
}
