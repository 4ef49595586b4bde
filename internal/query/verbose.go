// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/pdfctx/internal/builder"
)

const (
	dataURLPrefix   = "data:"
	keepDataChars   = 50
	truncatedMarker = "...[BASE64 TRUNCATED]"
	payloadTitle    = "REQUEST PAYLOAD (verbose mode)"
)

var rule = strings.Repeat("=", 60)

// PrintPayload writes req as indented JSON between rules. Every data URL is
// cut to its first 50 characters; req itself is left untouched.
func PrintPayload(w io.Writer, req *builder.Request) error {
	data, err := json.MarshalIndent(TruncatePayload(req), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}
	_, err = fmt.Fprintf(w, "\n%s\n%s\n%s\n%s\n%s\n\n", rule, payloadTitle, rule, data, rule)
	return err
}

// TruncatePayload returns a copy of req with image data shortened for
// display.
func TruncatePayload(req *builder.Request) *builder.Request {
	out := *req
	out.Messages = make([]builder.Message, len(req.Messages))
	for i, m := range req.Messages {
		out.Messages[i] = m
		if m.Parts == nil {
			continue
		}
		parts := make([]builder.ContentPart, len(m.Parts))
		for j, p := range m.Parts {
			parts[j] = p
			if p.ImageURL == nil || !strings.HasPrefix(p.ImageURL.URL, dataURLPrefix) {
				continue
			}
			img := *p.ImageURL
			if len(img.URL) > keepDataChars {
				img.URL = img.URL[:keepDataChars]
			}
			img.URL += truncatedMarker
			parts[j].ImageURL = &img
		}
		out.Messages[i].Parts = parts
	}
	return &out
}
