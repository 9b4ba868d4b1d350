package textgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/logger"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/metrics"
	dm "github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

// 文案生成的系统人设
const systemPersona = "You are a senior marketing copywriter. You write sharp, on-brand copy tailored to the requested channel. Output only the copy itself, no commentary."

// 备选框架；最多请求 maxVariations 个
var variationFramings = []string{
	"an emotional framing that leads with feeling and storytelling",
	"a data-driven framing that leads with concrete numbers and proof points",
	"an urgency-driven framing that leads with scarcity and time pressure",
}

const maxVariations = 2

// Input 单渠道文案生成的输入
type Input struct {
	Channel            string
	Prompt             string // 组装好的生成指令
	Title              string
	Brief              string
	Audience           *dm.AudienceTarget
	GenerateVariations bool
	ContentLength      string
}

// Result 单渠道文案生成的产出
type Result struct {
	Primary          string
	Variations       []string
	EngagementScore  float64
	OptimizationTips []string
	// Degraded 为 true 时 Primary 来自确定性兜底模板
	Degraded bool
	Reason   string
}

// Generator 渠道文案生成器。chatModel 为 nil 表示生成能力不可用，
// 所有请求都走确定性兜底，绝不向编排器抛错。
type Generator struct {
	chatModel model.ChatModel
	limiter   *rate.Limiter
}

// NewGenerator 创建文案生成器；chatModel、limiter 允许为 nil
func NewGenerator(chatModel model.ChatModel, limiter *rate.Limiter) *Generator {
	return &Generator{chatModel: chatModel, limiter: limiter}
}

// Generate 生成主文案、备选文案、互动评分与优化建议
func (g *Generator) Generate(ctx context.Context, in Input) Result {
	res := Result{}

	primary, err := g.complete(ctx, systemPersona, in.Prompt, tokenBudget(in.ContentLength))
	if err != nil {
		logger.Log.Warnf("文案生成失败 [%s]，使用兜底模板: %v", in.Channel, err)
		metrics.FallbacksTotal.WithLabelValues("text").Inc()
		res.Primary = FallbackCopy(in.Channel, in.Title, in.Brief)
		res.Degraded = true
		res.Reason = err.Error()
	} else {
		res.Primary = primary
	}

	if in.GenerateVariations && !res.Degraded {
		res.Variations = g.variations(ctx, in)
	}
	if res.Variations == nil {
		res.Variations = []string{}
	}

	res.EngagementScore = EngagementScore(in.Channel, res.Primary)
	res.OptimizationTips = OptimizationTips(in.Channel, res.Primary, in.Audience)
	return res
}

// variations 请求备选框架；任一调用失败则整体返回空列表
func (g *Generator) variations(ctx context.Context, in Input) []string {
	var out []string
	for _, framing := range variationFramings {
		if len(out) >= maxVariations {
			break
		}
		prompt := fmt.Sprintf("%s\n\nRewrite the copy with %s. Keep the channel requirements.", in.Prompt, framing)
		v, err := g.complete(ctx, systemPersona, prompt, tokenBudget(in.ContentLength))
		if err != nil {
			logger.Log.Warnf("备选文案生成失败 [%s]: %v", in.Channel, err)
			metrics.FallbacksTotal.WithLabelValues("text").Inc()
			return []string{}
		}
		out = append(out, v)
	}
	return out
}

// complete 调用聊天模型，带限流与 429 退避重试
func (g *Generator) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if g == nil || g.chatModel == nil {
		return "", fmt.Errorf("text model is not configured")
	}

	maxRetries := 3
	baseDelay := 2 * time.Second
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: system},
			{Role: schema.User, Content: user},
		}

		resp, err := g.chatModel.Generate(ctx, messages,
			model.WithMaxTokens(maxTokens),
			model.WithTemperature(0.7),
		)
		if err != nil {
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				lastErr = err
				if i < maxRetries {
					time.Sleep(baseDelay * time.Duration(1<<i))
					continue
				}
			}
			return "", err
		}

		content := strings.TrimSpace(resp.Content)
		if content == "" {
			return "", fmt.Errorf("model returned empty content")
		}
		return content, nil
	}
	return "", lastErr
}

// FallbackCopy 确定性兜底文案
func FallbackCopy(channel, title, brief string) string {
	return fmt.Sprintf("Generated copy for %s: %s — %s", channel, title, brief)
}

// tokenBudget 按目标篇幅映射 token 预算
func tokenBudget(contentLength string) int {
	switch contentLength {
	case "short":
		return 150
	case "long":
		return 600
	default:
		return 300
	}
}
