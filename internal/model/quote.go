package model

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyResponse is returned when the backend produced no text at all.
	ErrEmptyResponse = errors.New("empty generation response")
	// ErrMalformedQuote is returned by strict extraction when the first line
	// is not of the form "Quote: <text>".
	ErrMalformedQuote = errors.New("malformed quote response")
)

const (
	labelQuote   = "Quote:"
	labelAuthor  = "Author:"
	labelContext = "Context:"
)

// Quote is the parsed form of a generation response.
type Quote struct {
	Text    string `json:"quote"`
	Author  string `json:"author"`
	Context string `json:"context"`
}

// ParseQuote reads the labeled "Quote:", "Author:" and "Context:" lines of a
// response. Lines are matched by prefix after trimming surrounding whitespace,
// so indented output still parses. When no "Quote:" line exists, the whole
// trimmed response becomes the quote text and Author/Context stay empty.
func ParseQuote(raw string) (Quote, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Quote{}, ErrEmptyResponse
	}

	var q Quote
	var sawQuote bool
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, labelQuote) && !sawQuote:
			q.Text = strings.TrimSpace(strings.TrimPrefix(line, labelQuote))
			sawQuote = true
		case strings.HasPrefix(line, labelAuthor) && q.Author == "":
			q.Author = strings.TrimSpace(strings.TrimPrefix(line, labelAuthor))
		case strings.HasPrefix(line, labelContext) && q.Context == "":
			q.Context = strings.TrimSpace(strings.TrimPrefix(line, labelContext))
		}
	}

	if !sawQuote || q.Text == "" {
		q.Text = trimmed
	}
	return q, nil
}

// ExtractQuoteStrict returns the text after the first colon of the first line,
// requiring that line to carry the "Quote:" label.
func ExtractQuoteStrict(raw string) (string, error) {
	first, _, _ := strings.Cut(raw, "\n")
	if !strings.HasPrefix(first, labelQuote) {
		return "", ErrMalformedQuote
	}
	_, text, _ := strings.Cut(first, ":")
	return strings.TrimSpace(text), nil
}
