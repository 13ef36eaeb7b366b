// Package parser turns raw email input into core.Email values.
//
// Input is read as a MIME message first. When the header block or any part
// boundary is malformed, or no body part can be found, the parser falls back
// to treating the input as loosely formatted "Name: value" headers followed
// by a blank line and a body.
package parser

import (
	"bytes"
	"errors"
	"io"
	"net/textproto"
	"regexp"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/utils"
)

var errNoBodyPart = errors.New("no text part or attachment found")

var (
	blankLinePattern  = regexp.MustCompile(`\n[ \t]*\n`)
	headerLinePattern = regexp.MustCompile(`(?m)^([A-Za-z0-9][A-Za-z0-9_-]*):[ \t]*(.*)$`)
)

// Parser implements core.EmailParser
type Parser struct {
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	maxBodySize   int
}

// New creates a parser that keeps bodies whole
func New(logger *zap.Logger, textProcessor *utils.TextProcessor) *Parser {
	return NewWithLimit(logger, textProcessor, 0)
}

// NewWithLimit creates a parser that truncates bodies longer than
// maxBodySize bytes. Zero disables truncation.
func NewWithLimit(logger *zap.Logger, textProcessor *utils.TextProcessor, maxBodySize int) *Parser {
	return &Parser{
		logger:        logger,
		textProcessor: textProcessor,
		maxBodySize:   maxBodySize,
	}
}

// Parse parses raw email bytes. The only error is core.ErrEmptyInput.
func (p *Parser) Parse(raw []byte) (*core.Email, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, core.ErrEmptyInput
	}

	email, err := p.parseMIME(raw)
	if err == nil {
		return email, nil
	}

	p.logger.Debug("Falling back to raw text parsing", zap.Error(err))
	return p.parseRaw(raw), nil
}

func (p *Parser) parseMIME(raw []byte) (*core.Email, error) {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err) {
		return nil, &core.ParseError{Stage: "mime", Err: err}
	}
	if entity == nil {
		return nil, &core.ParseError{Stage: "mime", Err: io.ErrUnexpectedEOF}
	}

	email := &core.Email{
		Headers: p.mimeHeaders(entity.Header),
		Format:  core.FormatMIME,
	}
	fillStandardHeaders(email)

	var (
		plain, html           string
		hasPlain, hasHTMLPart bool
	)

	walkErr := entity.Walk(func(path []int, part *message.Entity, err error) error {
		if part == nil {
			p.logger.Debug("Skipping unreadable MIME part", zap.Ints("path", path), zap.Error(err))
			return nil
		}

		mediaType := contentType(part.Header)
		if strings.HasPrefix(mediaType, "multipart/") {
			if len(path) == 0 {
				email.IsMultipart = true
			}
			return nil
		}
		if mediaType == "text/html" {
			email.HasHTML = true
		}
		if isAttachment(part.Header) {
			email.AttachmentCount++
			return nil
		}

		switch {
		case mediaType == "text/plain" && !hasPlain:
			plain = p.readPart(part)
			hasPlain = true
		case mediaType == "text/html" && !hasHTMLPart:
			html = p.readPart(part)
			hasHTMLPart = true
		}
		return nil
	})
	if walkErr != nil {
		return nil, &core.ParseError{Stage: "mime parts", Err: walkErr}
	}
	if !hasPlain && !hasHTMLPart && email.AttachmentCount == 0 {
		return nil, &core.ParseError{Stage: "mime parts", Err: errNoBodyPart}
	}

	switch {
	case hasPlain:
		email.Body = plain
	case hasHTMLPart:
		email.Body = utils.StripHTML(html)
	}
	email.Body = p.textProcessor.ProcessText(email.Body, p.maxBodySize)

	return email, nil
}

// mimeHeaders collects every header, keeping the first value of repeated keys
func (p *Parser) mimeHeaders(h message.Header) map[string]string {
	headers := make(map[string]string)
	fields := h.Fields()
	for fields.Next() {
		key := textproto.CanonicalMIMEHeaderKey(fields.Key())
		if _, seen := headers[key]; seen {
			continue
		}
		value, err := h.Text(key)
		if err != nil {
			value = h.Get(key)
		}
		headers[key] = p.textProcessor.SanitizeUTF8(strings.TrimSpace(value))
	}
	return headers
}

func (p *Parser) readPart(part *message.Entity) string {
	body, err := io.ReadAll(part.Body)
	if err != nil {
		p.logger.Debug("Failed to read MIME part", zap.Error(err))
		return ""
	}
	return string(body)
}

func (p *Parser) parseRaw(raw []byte) *core.Email {
	text := strings.ReplaceAll(p.textProcessor.SanitizeUTF8(string(raw)), "\r\n", "\n")

	headerText, body := text, text
	if loc := blankLinePattern.FindStringIndex(text); loc != nil {
		headerText = text[:loc[0]]
		body = text[loc[1]:]
	}

	headers := make(map[string]string)
	for _, m := range headerLinePattern.FindAllStringSubmatch(headerText, -1) {
		key := textproto.CanonicalMIMEHeaderKey(m[1])
		if _, seen := headers[key]; !seen {
			headers[key] = strings.TrimSpace(m[2])
		}
	}

	lower := strings.ToLower(text)
	email := &core.Email{
		Headers: headers,
		Body:    p.textProcessor.TruncateText(body, p.maxBodySize),
		HasHTML: strings.Contains(lower, "<html") || strings.Contains(lower, "<body"),
		Format:  core.FormatRaw,
	}
	fillStandardHeaders(email)

	return email
}

func fillStandardHeaders(email *core.Email) {
	email.From = email.Header("From")
	email.To = email.Header("To")
	email.Subject = email.Header("Subject")
	email.Date = email.Header("Date")
	email.ReturnPath = email.Header("Return-Path")
	email.ReplyTo = email.Header("Reply-To")
}

// contentType returns the media type of a part. A missing or unparseable
// Content-Type means text/plain.
func contentType(h message.Header) string {
	if t, _, err := h.ContentType(); err == nil && t != "" {
		return strings.ToLower(t)
	}
	t, _, _ := strings.Cut(h.Get("Content-Type"), ";")
	t = strings.ToLower(strings.TrimSpace(t))
	if !strings.Contains(t, "/") {
		return "text/plain"
	}
	return t
}

func isAttachment(h message.Header) bool {
	return strings.Contains(strings.ToLower(h.Get("Content-Disposition")), "attachment")
}
