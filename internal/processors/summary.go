package processors

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ollama/ollama/api"

	"heraldo/internal/platforms"
	"heraldo/internal/types"
)

// SummaryProcessor replaces an article's description with a one-sentence
// model-written summary of the full article text. Every failure degrades
// to announcing the item with its original description.
type SummaryProcessor struct {
	name         string
	ollamaClient *platforms.OllamaPlatform
	extractText  func(url string) (string, error)
}

func NewSummaryProcessor(name string, ollamaClient *platforms.OllamaPlatform, extractText func(string) (string, error)) *SummaryProcessor {
	return &SummaryProcessor{
		name:         name,
		ollamaClient: ollamaClient,
		extractText:  extractText,
	}
}

func (d *SummaryProcessor) Name() string {
	return d.name
}

func (d *SummaryProcessor) Enrich(ctx context.Context, item *types.Item) {
	if item.SourceKey != types.SourceArticle || item.URL == "" {
		return
	}

	content, err := d.extractText(item.URL)
	if err != nil {
		log.Printf("SummaryProcessor %s: couldn't get article text for item %s, keeping original description: %v", d.name, item.ID, err)
		return
	}

	prompt := fmt.Sprintf(`<|im_start|>system
You are a professional news editor. Provide a single, information-dense sentence that summarizes the main event. Avoid fluff like "This article is about."<|im_end|>
<|im_start|>user
Article Content:
"""
%s
"""

Short Summary:<|im_end|>
<|im_start|>assistant`, content)

	var summary strings.Builder
	req := &api.GenerateRequest{
		Prompt: prompt,
		Stream: new(bool),
	}

	err = d.ollamaClient.Generate(ctx, req, func(resp api.GenerateResponse) error {
		summary.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		log.Printf("SummaryProcessor %s: generation failed for item %s, keeping original description: %v", d.name, item.ID, err)
		return
	}

	text := strings.TrimSpace(summary.String())
	if text == "" {
		return
	}

	item.Description = text
}
