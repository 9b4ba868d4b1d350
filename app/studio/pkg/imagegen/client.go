package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/config"
)

// Client OpenAI 兼容的图片生成 API 客户端
type Client struct {
	baseURL string
	apiKey  string
	model   string
	quality string
	client  *http.Client
}

// NewClient 创建图片生成客户端；apiKey 为空表示能力不可用
func NewClient(cfg config.ImageConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "dall-e-3"
	}
	quality := cfg.Quality
	if quality == "" {
		quality = "standard"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   model,
		quality: quality,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Available 是否配置了调用凭证
func (c *Client) Available() bool {
	return c != nil && c.apiKey != ""
}

// generationRequest 图片生成请求参数
type generationRequest struct {
	Prompt  string `json:"prompt"`
	Model   string `json:"model"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality,omitempty"`
}

// generationResponse 图片生成响应
type generationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Generate 调用图片生成接口，返回图片的临时 URL
func (c *Client) Generate(ctx context.Context, prompt string, width, height int) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("image api key is missing")
	}

	payload, err := json.Marshal(generationRequest{
		Prompt:  prompt,
		Model:   c.model,
		N:       1,
		Size:    fmt.Sprintf("%dx%d", width, height),
		Quality: c.quality,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Add("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image api error (status %d): %s", res.StatusCode, string(body))
	}

	var genResp generationResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("unmarshal response failed: %w", err)
	}
	if len(genResp.Data) == 0 || genResp.Data[0].URL == "" {
		return "", fmt.Errorf("image api returned no image")
	}

	return genResp.Data[0].URL, nil
}

// Download 拉取生成的图片字节
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download error (status %d)", res.StatusCode)
	}
	return io.ReadAll(res.Body)
}
