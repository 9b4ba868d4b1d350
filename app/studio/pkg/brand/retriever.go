package brand

import (
	"context"
	"fmt"
	"strings"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/embedding"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/knowledge"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/logger"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/metrics"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

// 向量检索召回的片段数量
const topK = 3

// Retriever 品牌上下文检索器。静态档案查询永不失败；
// 向量检索只在 embedder 与知识库都可用时参与，任何失败都静默降级。
type Retriever struct {
	embedder *embedding.Client
	index    knowledge.Index
}

// NewRetriever 创建检索器；embedder、index 允许为 nil
func NewRetriever(embedder *embedding.Client, index knowledge.Index) *Retriever {
	return &Retriever{embedder: embedder, index: index}
}

// Retrieve 计算一次请求的品牌上下文快照
func (r *Retriever) Retrieve(ctx context.Context, profileID, title, brief string) model.BrandContext {
	bc := Lookup(profileID)

	if r == nil || r.index == nil || !r.embedder.Available() {
		return bc
	}

	query := title + " " + brief
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		logger.Log.Warnf("向量化查询失败，降级为静态品牌上下文: %v", err)
		metrics.FallbacksTotal.WithLabelValues("retrieve").Inc()
		return bc
	}

	passages, err := r.index.TopK(ctx, vec, topK)
	if err != nil {
		logger.Log.Warnf("知识库检索失败，降级为静态品牌上下文: %v", err)
		metrics.FallbacksTotal.WithLabelValues("retrieve").Inc()
		return bc
	}

	for _, p := range passages {
		if strings.TrimSpace(p.Content) == "" {
			continue
		}
		bc.Knowledge = append(bc.Knowledge, p.Content)
	}
	return bc
}

// RenderAssets 将请求随附的品牌资产渲染为提示词文本块；nil 时返回空串
func RenderAssets(ba *model.BrandAssets) string {
	if ba == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Brand Assets:\n")
	if ba.PrimaryColor != "" || ba.SecondaryColor != "" {
		fmt.Fprintf(&sb, "- Colors: %s %s\n", ba.PrimaryColor, ba.SecondaryColor)
	}
	if ba.BrandVoice != "" {
		fmt.Fprintf(&sb, "- Voice: %s\n", ba.BrandVoice)
	}
	if ba.Tone != "" {
		fmt.Fprintf(&sb, "- Tone: %s\n", ba.Tone)
	}
	if len(ba.BrandValues) > 0 {
		fmt.Fprintf(&sb, "- Values: %s\n", strings.Join(ba.BrandValues, ", "))
	}
	return sb.String()
}

// Render 将品牌上下文渲染为提示词中使用的文本块
func Render(bc model.BrandContext, title, brief string) string {
	var sb strings.Builder
	sb.WriteString("Brand Context:\n")
	fmt.Fprintf(&sb, "- Voice: %s\n", bc.Voice)
	fmt.Fprintf(&sb, "- Target Audience: %s\n", bc.TargetAudience)
	fmt.Fprintf(&sb, "- Key Messages: %s\n", strings.Join(bc.KeyMessages, ", "))
	fmt.Fprintf(&sb, "- Tone: %s\n", bc.Tone)
	fmt.Fprintf(&sb, "- Values: %s\n", strings.Join(bc.Values, ", "))

	if len(bc.Knowledge) > 0 {
		sb.WriteString("\nRelevant Knowledge:\n")
		sb.WriteString(strings.Join(bc.Knowledge, "\n"))
		sb.WriteString("\n")
	} else {
		sb.WriteString("\nCampaign Context:\n")
		fmt.Fprintf(&sb, "- Title: %s\n", title)
		fmt.Fprintf(&sb, "- Brief: %s\n", brief)
	}
	return sb.String()
}
