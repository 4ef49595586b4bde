// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package builder

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdfctx/internal/document"
	"github.com/pdiddy/pdfctx/internal/document/documenttest"
	"github.com/pdiddy/pdfctx/pkg/types"
)

func TestAddDisambiguatesNames(t *testing.T) {
	b := New()
	got := b.Add(documenttest.New("x/a.pdf", "p")).
		Add(documenttest.New("y/a.pdf", "p")).
		Add(documenttest.New("b.pdf", "p")).
		Add(documenttest.New("a.pdf", "p")).
		Documents()

	assert.Equal(t, []string{"a.pdf", "a.pdf (2)", "b.pdf", "a.pdf (3)"}, got)
}

func TestBuildWithoutDocuments(t *testing.T) {
	b := New()

	_, err := b.BuildMessages("Q?")
	assert.ErrorIs(t, err, ErrNoDocuments)

	_, err = b.BuildRequestPayload("Q?", DefaultRequestOptions())
	assert.ErrorIs(t, err, ErrNoDocuments)

	_, err = b.BuildHistory("Q?")
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestBuildMessagesScenario(t *testing.T) {
	b := New(WithTextLayer(true))
	b.Add(documenttest.New("a.pdf", "Intro", ""))

	msgs, err := b.BuildMessages("Q?")
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	system := msgs[0]
	assert.Equal(t, RoleSystem, system.Role)
	assert.True(t, strings.HasPrefix(system.Text, DefaultSystemPrompt))
	assert.Contains(t, system.Text, "## Document Metadata")
	assert.Contains(t, system.Text, "### Document: a.pdf")
	assert.Contains(t, system.Text, "- Total pages: 2")
	assert.Contains(t, system.Text, "- Source file: a.pdf")
	assert.Contains(t, system.Text, "#### Extracted Text Content:")
	assert.Contains(t, system.Text, "Page 1 extracted text from a.pdf:\n\"\"\"\nIntro\n\"\"\"")
	assert.Contains(t, system.Text, "Page 2 from a.pdf: [No extracted text - use image]")

	user := msgs[1]
	assert.Equal(t, RoleUser, user.Role)
	require.Len(t, user.Parts, 5)

	assert.Equal(t, ContentPart{Type: PartText, Text: "Page 1 image from a.pdf:"}, user.Parts[0])
	require.NotNil(t, user.Parts[1].ImageURL)
	assert.Equal(t, PartImageURL, user.Parts[1].Type)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte("img1")), user.Parts[1].ImageURL.URL)
	assert.Equal(t, types.DetailHigh, user.Parts[1].ImageURL.Detail)
	assert.Equal(t, "Page 2 image from a.pdf:", user.Parts[2].Text)

	last := user.Parts[len(user.Parts)-1]
	assert.Equal(t, PartText, last.Type)
	assert.True(t, strings.HasSuffix(last.Text, "Question: Q?"))
}

func TestSystemTextLayout(t *testing.T) {
	b := New(WithSystemPrompt("PROMPT"))
	b.Add(documenttest.New("a.pdf", "Intro", " "))

	msgs, err := b.BuildMessages("Q?")
	require.NoError(t, err)

	want := strings.Join([]string{
		"PROMPT",
		"\n\n## Document Metadata\n",
		"\n### Document: a.pdf",
		"- Total pages: 2",
		"- Source file: a.pdf\n",
		"#### Extracted Text Content:\n",
		"Page 1 extracted text from a.pdf:\n\"\"\"\nIntro\n\"\"\"\n",
		"Page 2 from a.pdf: [No extracted text - use image]\n",
	}, "\n")
	assert.Equal(t, want, msgs[0].Text)
}

func TestTextLayerDisabled(t *testing.T) {
	b := New(WithTextLayer(false))
	b.Add(documenttest.New("a.pdf", "secret text", "more"))

	msgs, err := b.BuildMessages("Q?")
	require.NoError(t, err)

	assert.NotContains(t, msgs[0].Text, "secret text")
	assert.NotContains(t, msgs[0].Text, "Extracted Text Content")
	assert.Contains(t, msgs[0].Text, "- Total pages: 2")
}

func TestImageBlockCount(t *testing.T) {
	for _, include := range []bool{true, false} {
		b := New(WithTextLayer(include))
		b.Add(documenttest.New("a.pdf", "1", "", "3"))
		b.Add(documenttest.New("b.pdf", ""))

		msgs, err := b.BuildMessages("Q?")
		require.NoError(t, err)

		images, texts := 0, 0
		for _, p := range msgs[1].Parts {
			switch p.Type {
			case PartImageURL:
				images++
			case PartText:
				texts++
			}
		}
		assert.Equal(t, 4, images, "include text layer: %v", include)
		assert.Equal(t, 4+1, texts, "one label per page plus the question")
	}
}

func TestDocumentOrderInUserMessage(t *testing.T) {
	b := New(WithImageDetail(types.DetailLow))
	b.Add(documenttest.New("a.pdf", "x")).Add(documenttest.New("a.pdf", "y", "z"))

	msgs, err := b.BuildMessages("Q?")
	require.NoError(t, err)

	var labels []string
	for _, p := range msgs[1].Parts {
		if p.Type == PartImageURL {
			assert.Equal(t, types.DetailLow, p.ImageURL.Detail)
			continue
		}
		labels = append(labels, p.Text)
	}
	assert.Equal(t, []string{
		"Page 1 image from a.pdf:",
		"Page 1 image from a.pdf (2):",
		"Page 2 image from a.pdf (2):",
		"\n\nQuestion: Q?",
	}, labels)
}

func TestBuildRequestPayloadJSON(t *testing.T) {
	b := New()
	b.Add(documenttest.New("a.pdf", "Intro"))

	req, err := b.BuildRequestPayload("Q?", RequestOptions{Model: "gpt-4o-mini", MaxTokens: 1000, Temperature: 0.2})
	require.NoError(t, err)

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "gpt-4o-mini", decoded.Model)
	assert.Equal(t, 1000, decoded.MaxTokens)
	assert.InDelta(t, 0.2, decoded.Temperature, 1e-9)
	require.Len(t, decoded.Messages, 2)

	var systemContent string
	require.NoError(t, json.Unmarshal(decoded.Messages[0].Content, &systemContent))
	assert.Contains(t, systemContent, "Intro")

	var userContent []map[string]any
	require.NoError(t, json.Unmarshal(decoded.Messages[1].Content, &userContent))
	require.Len(t, userContent, 3)
	assert.Equal(t, "image_url", userContent[1]["type"])
	imageURL := userContent[1]["image_url"].(map[string]any)
	assert.Equal(t, "high", imageURL["detail"])
	assert.True(t, strings.HasPrefix(imageURL["url"].(string), "data:image/png;base64,"))
}

func TestDefaultRequestOptions(t *testing.T) {
	opts := DefaultRequestOptions()
	assert.Equal(t, "gpt-4o", opts.Model)
	assert.Equal(t, 4096, opts.MaxTokens)
	assert.Zero(t, opts.Temperature)
}

func TestLoaderErrorsPropagate(t *testing.T) {
	cause := errors.New("corrupt xref")
	doc := document.New("bad.pdf",
		document.WithTextReader(&documenttest.StaticText{Err: cause}),
		document.WithRasterizer(&documenttest.StaticImages{}),
	)
	b := New().Add(doc)

	_, err := b.BuildMessages("Q?")
	assert.ErrorIs(t, err, cause)

	_, err = b.BuildHistory("Q?")
	assert.ErrorIs(t, err, cause)
}

func TestBuildHistory(t *testing.T) {
	b := New(WithImageDetail(types.DetailAuto))
	b.Add(documenttest.New("a.pdf", "Intro", ""))

	msgs, err := b.BuildMessages("Q?")
	require.NoError(t, err)
	history, err := b.BuildHistory("Q?")
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, schema.System, history[0].Role)
	assert.Equal(t, msgs[0].Text, history[0].Content)

	user := history[1]
	assert.Equal(t, schema.User, user.Role)
	require.Len(t, user.UserInputMultiContent, 5)

	images := 0
	for i, part := range user.UserInputMultiContent {
		if part.Type != schema.ChatMessagePartTypeImageURL {
			assert.Equal(t, msgs[1].Parts[i].Text, part.Text)
			continue
		}
		images++
		require.NotNil(t, part.Image)
		assert.Nil(t, part.Image.URL, "images travel as attachments, not URLs")
		require.NotNil(t, part.Image.Base64Data)
		assert.Equal(t, "image/png", part.Image.MIMEType)
		assert.Equal(t, schema.ImageURLDetail("auto"), part.Image.Detail)
	}
	assert.Equal(t, 2, images)

	last := user.UserInputMultiContent[len(user.UserInputMultiContent)-1]
	assert.Equal(t, "\n\nQuestion: Q?", last.Text)
}
