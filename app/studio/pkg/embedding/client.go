package embedding

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

const defaultDimension = 1536

// Client OpenAI 兼容的 Embeddings API 客户端
type Client struct {
	baseURL   string
	apiKey    string
	model     string
	dimension int
	client    *http.Client
}

// NewClient 创建一个新的 Embeddings 客户端；apiKey 为空表示能力不可用
func NewClient(cfg config.EmbeddingConfig) *Client {
	dim := cfg.Dimension
	if dim == 0 {
		dim = defaultDimension
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "text-embedding-ada-002"
	}
	return &Client{
		baseURL:   baseURL,
		apiKey:    cfg.APIKey,
		model:     model,
		dimension: dim,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Available 是否配置了调用凭证
func (c *Client) Available() bool {
	return c != nil && c.apiKey != ""
}

// Dimension 向量维度
func (c *Client) Dimension() int {
	if c == nil {
		return defaultDimension
	}
	return c.dimension
}

// embeddingRequest Embeddings 请求参数
type embeddingRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

// embeddingResponse Embeddings 响应
type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed 计算文本向量
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if !c.Available() {
		return nil, fmt.Errorf("embedding api key is missing")
	}

	payload, err := json.Marshal(embeddingRequest{Input: text, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Add("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embeddings api error (status %d): %s", res.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	if len(embResp.Data) == 0 {
		return nil, fmt.Errorf("embeddings api returned no data")
	}

	return embResp.Data[0].Embedding, nil
}
