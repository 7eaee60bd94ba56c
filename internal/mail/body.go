package mail

import (
	"encoding/base64"
	"strings"

	"golang.org/x/net/html"
	"google.golang.org/api/gmail/v1"
)

const maxPartDepth = 32

// ExtractBody returns the readable body of a provider message payload.
// Direct body data wins, then the first text/plain part, then text/html
// stripped to text, then the snippet.
func ExtractBody(payload *gmail.MessagePart, snippet string) string {
	if payload == nil {
		return snippet
	}
	if payload.Body != nil && payload.Body.Data != "" {
		return decodeBase64URL(payload.Body.Data)
	}
	if len(payload.Parts) == 0 {
		return snippet
	}
	if text, ok := findPart(payload.Parts, "text/plain"); ok {
		return text
	}
	if markup, ok := findPart(payload.Parts, "text/html"); ok {
		return HTMLToText(markup)
	}
	return snippet
}

type partNode struct {
	part  *gmail.MessagePart
	depth int
}

// findPart walks the part tree in document order without recursion
func findPart(parts []*gmail.MessagePart, mimeType string) (string, bool) {
	var stack []partNode
	push := func(parts []*gmail.MessagePart, depth int) {
		for i := len(parts) - 1; i >= 0; i-- {
			if parts[i] != nil {
				stack = append(stack, partNode{part: parts[i], depth: depth})
			}
		}
	}
	push(parts, 1)

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if strings.EqualFold(n.part.MimeType, mimeType) && n.part.Body != nil && n.part.Body.Data != "" {
			if text := decodeBase64URL(n.part.Body.Data); text != "" {
				return text, true
			}
		}
		if n.depth < maxPartDepth {
			push(n.part.Parts, n.depth+1)
		}
	}
	return "", false
}

// decodeBase64URL decodes provider body data, tolerating missing or extra padding
func decodeBase64URL(data string) string {
	data = strings.TrimRight(strings.TrimSpace(data), "=")
	data = strings.NewReplacer("-", "+", "_", "/").Replace(data)
	raw, err := base64.RawStdEncoding.DecodeString(data)
	if err != nil {
		return ""
	}
	return strings.ToValidUTF8(string(raw), "�")
}

// HTMLToText returns the visible text of an HTML document
func HTMLToText(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	stack := []*html.Node{doc}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "head") {
			continue
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return strings.TrimSpace(sb.String())
}
