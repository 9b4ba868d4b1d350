package knowledge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/embedding"
)

// 片段超过该长度时截断，避免超出向量模型的输入上限
const maxPassageLen = 5000

// Ingester 将文档写入向量知识库
type Ingester struct {
	embedder *embedding.Client
	index    Index
}

// NewIngester 创建知识入库器
func NewIngester(embedder *embedding.Client, index Index) *Ingester {
	return &Ingester{embedder: embedder, index: index}
}

// Ready 入库能力是否可用
func (in *Ingester) Ready() bool {
	return in != nil && in.index != nil && in.embedder.Available()
}

// IngestText 将文本片段写入知识库
func (in *Ingester) IngestText(ctx context.Context, brandID, text string) (int, error) {
	if !in.Ready() {
		return 0, fmt.Errorf("knowledge base is not configured")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("empty passage")
	}
	if len(text) > maxPassageLen {
		text = text[:maxPassageLen]
	}

	vec, err := in.embedder.Embed(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("embed passage failed: %w", err)
	}
	return in.index.Add(ctx, brandID, text, vec)
}

// IngestURL 抓取网页正文并写入知识库
func (in *Ingester) IngestURL(ctx context.Context, brandID, url string) (int, error) {
	if !in.Ready() {
		return 0, fmt.Errorf("knowledge base is not configured")
	}
	text, err := fetchAndCleanContent(url)
	if err != nil {
		return 0, fmt.Errorf("fetch url failed: %w", err)
	}
	return in.IngestText(ctx, brandID, text)
}

// fetchAndCleanContent 抓取 URL 并提取核心文本
func fetchAndCleanContent(url string) (string, error) {
	article, err := readability.FromURL(url, 30*time.Second)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}
