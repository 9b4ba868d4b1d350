package scorer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/imagegen"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/logger"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/metrics"
	dm "github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

// 评估模式的五个文案子维度
var copyCriteria = []string{"clarity", "compelling", "cta", "length", "tone"}

// 各类评估失败时的默认分
const (
	defaultCriterionScore   = 0.7
	defaultBrandConsistency = 0.8
	defaultEngagement       = 0.7
)

// 综合分权重：文案 0.4，图片 0.3，品牌一致性 0.2，互动潜力 0.1
const (
	weightCopy        = 0.4
	weightImage       = 0.3
	weightConsistency = 0.2
	weightEngagement  = 0.1
)

// Scorer 内容评分器。chatModel 为 nil 时使用启发式评分，
// 评估模式的任何失败都降级为启发式结果并附带诊断信息。
type Scorer struct {
	chatModel model.ChatModel
	limiter   *rate.Limiter
}

// NewScorer 创建评分器；chatModel、limiter 允许为 nil
func NewScorer(chatModel model.ChatModel, limiter *rate.Limiter) *Scorer {
	return &Scorer{chatModel: chatModel, limiter: limiter}
}

// Score 对整批文案与图片计算评分报告
func (s *Scorer) Score(ctx context.Context, copies []string, images []string) dm.ScoreReport {
	if s == nil || s.chatModel == nil {
		return s.heuristic(copies, images, "")
	}

	report, err := s.evaluated(ctx, copies, images)
	if err != nil {
		logger.Log.Warnf("评估模式失败，降级为启发式评分: %v", err)
		metrics.FallbacksTotal.WithLabelValues("score").Inc()
		return s.heuristic(copies, images, err.Error())
	}
	return report
}

// heuristic 启发式评分：overall = min(1.0, 0.5 + 0.05*文案数 + 0.02*图片数)
func (s *Scorer) heuristic(copies []string, images []string, errNote string) dm.ScoreReport {
	return dm.ScoreReport{
		OverallScore:        round2(math.Min(1.0, 0.5+0.05*float64(len(copies))+0.02*float64(len(images)))),
		CopyScore:           0.7,
		ImageScore:          0.6,
		BrandConsistency:    0.8,
		EngagementPotential: 0.7,
		Metrics:             buildMetrics(copies, images),
		Error:               errNote,
	}
}

// evaluated 评估模式：逐条文案五维打分 + 图片规则分 + 两次标量评估
func (s *Scorer) evaluated(ctx context.Context, copies []string, images []string) (dm.ScoreReport, error) {
	copyScores := make([]float64, 0, len(copies))
	for _, c := range copies {
		copyScores = append(copyScores, s.scoreCopy(ctx, c))
		if err := ctx.Err(); err != nil {
			return dm.ScoreReport{}, err
		}
	}

	imageScores := make([]float64, 0, len(images))
	for _, u := range images {
		if imagegen.IsPlaceholder(u) {
			imageScores = append(imageScores, 0.5)
		} else {
			imageScores = append(imageScores, 0.8)
		}
	}

	brandConsistency := s.scoreScalar(ctx, consistencyPrompt(copies), defaultBrandConsistency)
	engagement := s.scoreScalar(ctx, engagementPrompt(copies), defaultEngagement)
	if err := ctx.Err(); err != nil {
		return dm.ScoreReport{}, err
	}

	avgCopy := avg(copyScores)
	avgImage := avg(imageScores)
	overall := avgCopy*weightCopy + avgImage*weightImage +
		brandConsistency*weightConsistency + engagement*weightEngagement

	return dm.ScoreReport{
		OverallScore:        round2(overall),
		CopyScore:           round2(avgCopy),
		ImageScore:          round2(avgImage),
		BrandConsistency:    round2(brandConsistency),
		EngagementPotential: round2(engagement),
		CopyScores:          copyScores,
		ImageScores:         imageScores,
		Metrics:             buildMetrics(copies, images),
	}, nil
}

// scoreCopy 请求五个子维度的 JSON 评分并取平均；解析失败的维度取默认分
func (s *Scorer) scoreCopy(ctx context.Context, copyText string) float64 {
	prompt := fmt.Sprintf(`请以营销专家的视角评估以下文案，五个维度各打 0-1 的分数。
请务必严格按照以下 JSON 格式返回，不要包含任何 markdown 标记：
{"clarity": 0.8, "compelling": 0.8, "cta": 0.8, "length": 0.8, "tone": 0.8}

评估维度：clarity 清晰易读，compelling 吸引力，cta 行动号召，length 篇幅合理，tone 语气专业。

文案内容：
%s`, copyText)

	resp, err := s.generate(ctx, "你是一个 JSON 生成器。请只输出 JSON 字符串。", prompt)
	if err != nil {
		return defaultCriterionScore
	}

	var parsed map[string]float64
	if err := json.Unmarshal([]byte(trimFences(resp)), &parsed); err != nil {
		return defaultCriterionScore
	}

	var sum float64
	for _, criterion := range copyCriteria {
		v, ok := parsed[criterion]
		if !ok || v < 0 || v > 1 {
			v = defaultCriterionScore
		}
		sum += v
	}
	return sum / float64(len(copyCriteria))
}

// scoreScalar 请求单个 [0,1] 标量评分；解析失败取默认分
func (s *Scorer) scoreScalar(ctx context.Context, prompt string, def float64) float64 {
	resp, err := s.generate(ctx, "你是一个评分器。请只输出一个 0 到 1 之间的数字。", prompt)
	if err != nil {
		return def
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(trimFences(resp)), 64)
	if err != nil || v < 0 || v > 1 {
		return def
	}
	return v
}

func consistencyPrompt(copies []string) string {
	return fmt.Sprintf(`请评估以下多条营销文案在语气、信息与品牌风格上的一致性，输出一个 0-1 之间的分数。

文案列表：
%s`, numbered(copies))
}

func engagementPrompt(copies []string) string {
	return fmt.Sprintf(`请评估以下营销文案的互动潜力（情感吸引、传播性、转化潜力），输出一个 0-1 之间的分数。

文案列表：
%s`, numbered(copies))
}

// generate 调用聊天模型，带限流
func (s *Scorer) generate(ctx context.Context, system, user string) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	messages := []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	}
	resp, err := s.chatModel.Generate(ctx, messages,
		model.WithMaxTokens(100),
		model.WithTemperature(0.3),
	)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func trimFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func numbered(items []string) string {
	var sb strings.Builder
	for i, item := range items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, item)
	}
	return sb.String()
}

func buildMetrics(copies []string, images []string) dm.ScoreMetrics {
	var totalLen int
	for _, c := range copies {
		totalLen += len(c)
	}
	n := len(copies)
	if n == 0 {
		n = 1
	}
	return dm.ScoreMetrics{
		TotalCopies:   len(copies),
		TotalImages:   len(images),
		AvgCopyLength: float64(totalLen) / float64(n),
	}
}

func avg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
