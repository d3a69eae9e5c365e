package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// ExtractTimeout is the timeout for Gemini API calls.
const ExtractTimeout = 30 * time.Second

// ErrExtractTimeout indicates the Gemini API call timed out.
var ErrExtractTimeout = errors.New("receipt extraction timed out")

// ExtractReceipt sends a receipt image to Gemini and returns the RAW text
// of the response. The text is not parsed here: models routinely wrap it
// in markdown fences or truncate it, and the parser package owns the
// repair path for both.
func (c *Client) ExtractReceipt(ctx context.Context, imageBytes []byte, mimeType string) (string, error) {
	if len(imageBytes) == 0 {
		return "", fmt.Errorf("image data is required")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, ExtractTimeout)
	defer cancel()

	resp, err := c.generator.GenerateContent(timeoutCtx, ModelName, []*genai.Content{
		{
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageBytes}},
				{Text: buildExtractionPrompt()},
			},
		},
	}, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrExtractTimeout
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from Gemini")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}

	return text, nil
}

func buildExtractionPrompt() string {
	return `Analyze this receipt image and extract the expense details.
Return ONLY a JSON object with no additional text or markdown formatting.

Required fields:
- date: The date of purchase in YYYY-MM-DD format
- merchant: The merchant/store name
- amount: The total amount paid (number, e.g. 54.60)
- currency: The ISO 4217 currency code (e.g. "USD")
- category: A short expense category (e.g. "Groceries", "Dining", "Transportation")

Optional fields (omit any you cannot determine):
- description: A short free-text description
- paymentMethod: How the expense was paid (e.g. "card", "cash")
- items: Array of line items, each with "name", "totalPrice" (number) and
  optionally "quantity", "unitPrice", "category", "description"
- subtotal, discounts, fees, tip, taxAmount, itemsTotal: numbers from the
  receipt's financial breakdown
- confidence: Your confidence in the extraction accuracy (0.0 to 1.0)

Example response:
{"date": "2024-01-15", "merchant": "Corner Grocery", "amount": 23.47, "currency": "USD", "category": "Groceries", "subtotal": 21.90, "taxAmount": 1.57, "confidence": 0.95}`
}
