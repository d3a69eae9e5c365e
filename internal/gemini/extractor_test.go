package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// mockGenerator is a test double for ContentGenerator.
type mockGenerator struct {
	response *genai.GenerateContentResponse
	err      error

	lastModel    string
	lastContents []*genai.Content
}

func (m *mockGenerator) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	m.lastModel = model
	m.lastContents = contents
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func textResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, len(texts))
	for i, text := range texts {
		parts[i] = &genai.Part{Text: text}
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	t.Parallel()

	prompt := buildExtractionPrompt()

	require.Contains(t, prompt, "date")
	require.Contains(t, prompt, "merchant")
	require.Contains(t, prompt, "amount")
	require.Contains(t, prompt, "currency")
	require.Contains(t, prompt, "category")
	require.Contains(t, prompt, "subtotal")
	require.Contains(t, prompt, "taxAmount")
	require.Contains(t, prompt, "itemsTotal")
	require.Contains(t, prompt, "confidence")
	require.Contains(t, prompt, "YYYY-MM-DD")
	require.Contains(t, prompt, "ISO 4217")
}

func TestExtractReceipt(t *testing.T) {
	t.Parallel()

	t.Run("successful response returns raw text", func(t *testing.T) {
		t.Parallel()

		raw := `{"date": "2024-01-15", "merchant": "Corner Grocery", "amount": 12.85, "currency": "USD", "category": "Groceries", "confidence": 0.92}`
		mock := &mockGenerator{response: textResponse(raw)}

		client := NewClientWithGenerator(mock)
		text, err := client.ExtractReceipt(context.Background(), []byte("fake-image"), "image/jpeg")

		require.NoError(t, err)
		require.Equal(t, raw, text)
		require.Equal(t, ModelName, mock.lastModel)
	})

	t.Run("markdown fences are passed through untouched", func(t *testing.T) {
		t.Parallel()

		raw := "```json\n{\"amount\": 5.50}\n```"
		mock := &mockGenerator{response: textResponse(raw)}

		client := NewClientWithGenerator(mock)
		text, err := client.ExtractReceipt(context.Background(), []byte("fake-image"), "image/png")

		require.NoError(t, err)
		require.Equal(t, raw, text)
	})

	t.Run("multiple parts concatenated", func(t *testing.T) {
		t.Parallel()

		mock := &mockGenerator{response: textResponse(`{"amount": `, `12.85}`)}

		client := NewClientWithGenerator(mock)
		text, err := client.ExtractReceipt(context.Background(), []byte("fake-image"), "image/jpeg")

		require.NoError(t, err)
		require.Equal(t, `{"amount": 12.85}`, text)
	})

	t.Run("request carries image and prompt", func(t *testing.T) {
		t.Parallel()

		mock := &mockGenerator{response: textResponse("{}")}
		client := NewClientWithGenerator(mock)
		_, err := client.ExtractReceipt(context.Background(), []byte{0xff, 0xd8}, "image/jpeg")

		require.NoError(t, err)
		require.Len(t, mock.lastContents, 1)
		parts := mock.lastContents[0].Parts
		require.Len(t, parts, 2)
		require.NotNil(t, parts[0].InlineData)
		require.Equal(t, "image/jpeg", parts[0].InlineData.MIMEType)
		require.Equal(t, []byte{0xff, 0xd8}, parts[0].InlineData.Data)
		require.Contains(t, parts[1].Text, "receipt")
	})

	t.Run("default MIME type when empty", func(t *testing.T) {
		t.Parallel()

		mock := &mockGenerator{response: textResponse("{}")}
		client := NewClientWithGenerator(mock)
		_, err := client.ExtractReceipt(context.Background(), []byte("fake-image"), "")

		require.NoError(t, err)
		require.Equal(t, "image/jpeg", mock.lastContents[0].Parts[0].InlineData.MIMEType)
	})

	t.Run("empty image returns error", func(t *testing.T) {
		t.Parallel()

		mock := &mockGenerator{}
		client := NewClientWithGenerator(mock)
		_, err := client.ExtractReceipt(context.Background(), nil, "image/jpeg")

		require.Error(t, err)
		require.Contains(t, err.Error(), "image data is required")
	})

	t.Run("timeout returns ErrExtractTimeout", func(t *testing.T) {
		t.Parallel()

		mock := &mockGenerator{err: context.DeadlineExceeded}
		client := NewClientWithGenerator(mock)
		_, err := client.ExtractReceipt(context.Background(), []byte("fake-image"), "image/jpeg")

		require.ErrorIs(t, err, ErrExtractTimeout)
	})

	t.Run("API error returns wrapped error", func(t *testing.T) {
		t.Parallel()

		mock := &mockGenerator{err: errors.New("API rate limit exceeded")}
		client := NewClientWithGenerator(mock)
		_, err := client.ExtractReceipt(context.Background(), []byte("fake-image"), "image/jpeg")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to generate content")
	})

	t.Run("nil response returns error", func(t *testing.T) {
		t.Parallel()

		mock := &mockGenerator{response: nil}
		client := NewClientWithGenerator(mock)
		_, err := client.ExtractReceipt(context.Background(), []byte("fake-image"), "image/jpeg")

		require.Error(t, err)
		require.Contains(t, err.Error(), "no response from Gemini")
	})

	t.Run("empty candidates returns error", func(t *testing.T) {
		t.Parallel()

		mock := &mockGenerator{response: &genai.GenerateContentResponse{}}
		client := NewClientWithGenerator(mock)
		_, err := client.ExtractReceipt(context.Background(), []byte("fake-image"), "image/jpeg")

		require.Error(t, err)
		require.Contains(t, err.Error(), "no response from Gemini")
	})

	t.Run("empty text returns error", func(t *testing.T) {
		t.Parallel()

		mock := &mockGenerator{response: textResponse("")}
		client := NewClientWithGenerator(mock)
		_, err := client.ExtractReceipt(context.Background(), []byte("fake-image"), "image/jpeg")

		require.Error(t, err)
		require.Contains(t, err.Error(), "empty response from Gemini")
	})
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(context.Background(), "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "API key is required")
}
