package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shycli/shy/internal/config"
)

// Client talks to an OpenRouter-compatible chat-completions endpoint.
// Responses are streamed server-side; callers only ever see the final
// concatenated text.
type Client struct {
	http  *resty.Client
	model string
}

func NewClient(cfg config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(5 * time.Minute)

	return &Client{
		http:  httpClient,
		model: cfg.DefaultModel,
	}
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) SetModel(model string) {
	c.model = model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Stream sends prompt and accumulates the streamed response into one
// string. Non-2xx statuses become a single descriptive error.
func (c *Client) Stream(ctx context.Context, prompt string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:    c.model,
			Messages: []chatMessage{{Role: "user", Content: prompt}},
			Stream:   true,
		}).
		SetDoNotParseResponse(true).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("could not reach chat API: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(body, 4096))
		detail := strings.TrimSpace(string(payload))
		if detail == "" {
			detail = resp.Status()
		}
		return "", fmt.Errorf("chat API request failed: %s", detail)
	}

	var full strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}
		full.WriteString(deltaContent(data))
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("chat stream interrupted: %w", err)
	}
	return full.String(), nil
}

func deltaContent(data string) string {
	var chunk streamChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return ""
	}
	if len(chunk.Choices) == 0 {
		return ""
	}
	return chunk.Choices[0].Delta.Content
}

// Progress receives the elapsed time on a fixed short interval while a
// request is in flight; it drives the REPL's waiting indicator.
type Progress func(elapsed time.Duration)

// StreamWithProgress runs Stream while repeatedly timing out against
// the in-flight call so the indicator can update. Only one logical
// operation is ever outstanding.
func (c *Client) StreamWithProgress(ctx context.Context, prompt string, interval time.Duration, progress Progress) (string, error) {
	if interval <= 0 {
		interval = 80 * time.Millisecond
	}

	type outcome struct {
		text string
		err  error
	}
	results := make(chan outcome, 1)
	start := time.Now()
	go func() {
		text, err := c.Stream(ctx, prompt)
		results <- outcome{text: text, err: err}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case r := <-results:
			return r.text, r.err
		case <-ticker.C:
			if progress != nil {
				progress(time.Since(start))
			}
		}
	}
}
