// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package builder

import (
	"fmt"

	"github.com/cloudwego/eino/schema"
)

// BuildHistory returns the same context as BuildMessages in eino's message
// format, for seeding an agent conversation. Page images travel as base64
// attachments with a MIME type instead of data URLs.
func (b *Builder) BuildHistory(question string) ([]*schema.Message, error) {
	if len(b.entries) == 0 {
		return nil, ErrNoDocuments
	}

	system, err := b.systemText()
	if err != nil {
		return nil, err
	}

	var parts []schema.MessageInputPart
	for _, e := range b.entries {
		pages, err := e.doc.Pages()
		if err != nil {
			return nil, err
		}
		for _, p := range pages {
			data := p.ImageBase64
			parts = append(parts,
				schema.MessageInputPart{
					Type: schema.ChatMessagePartTypeText,
					Text: fmt.Sprintf(pageImageFormat, p.Number, e.name),
				},
				schema.MessageInputPart{
					Type: schema.ChatMessagePartTypeImageURL,
					Image: &schema.MessageInputImage{
						MessagePartCommon: schema.MessagePartCommon{
							Base64Data: &data,
							MIMEType:   p.MIMEType,
						},
						Detail: schema.ImageURLDetail(b.detail),
					},
				},
			)
		}
	}
	parts = append(parts, schema.MessageInputPart{
		Type: schema.ChatMessagePartTypeText,
		Text: fmt.Sprintf(questionFormat, question),
	})

	return []*schema.Message{
		schema.SystemMessage(system),
		{Role: schema.User, UserInputMultiContent: parts},
	}, nil
}
