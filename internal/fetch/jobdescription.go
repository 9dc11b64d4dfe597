package fetch

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
)

// JobPosting is a job description extracted from a web page
type JobPosting struct {
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
	Text     string   `json:"text"`
	Rendered bool     `json:"rendered"`
}

// JobOptions configures JobDescription
type JobOptions struct {
	Fetch *Options
	// Renderer is used when the HTTP response holds too little text. Nil disables rendering.
	Renderer Renderer
	Logger   *zap.Logger
}

// JobDescription fetches a job posting and extracts its description text
// using platform-specific selectors. Pages with too little server-rendered
// text are retried through the Renderer when one is configured.
func JobDescription(ctx context.Context, urlStr string, opts JobOptions) (*JobPosting, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	platform := DetectPlatform(urlStr)
	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	result, err := URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return nil, err
	}

	text, err := ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return nil, fmt.Errorf("failed to extract job description: %w", err)
	}
	logger.Debug("fetched job description",
		zap.String("url", urlStr),
		zap.String("platform", string(platform)),
		zap.Int("html_bytes", len(result.HTML)),
		zap.Int("text_chars", utf8.RuneCountInString(text)))

	posting := &JobPosting{URL: urlStr, Platform: platform, Text: text}

	if opts.Renderer == nil || !ShouldUseBrowser(text) {
		return posting, nil
	}

	html, err := opts.Renderer.Render(ctx, urlStr)
	if err != nil {
		logger.Warn("browser rendering failed, using HTTP content", zap.Error(err))
		return posting, nil
	}
	rendered, err := ExtractMainText(html, content, noise...)
	if err != nil {
		logger.Warn("failed to extract rendered content", zap.Error(err))
		return posting, nil
	}
	if utf8.RuneCountInString(rendered) > utf8.RuneCountInString(text) {
		posting.Text = rendered
		posting.Rendered = true
	}
	return posting, nil
}
