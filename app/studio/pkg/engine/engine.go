package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/brand"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/imagegen"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/jobstore"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/logger"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/metrics"
	dm "github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/prompt"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/scorer"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/textgen"
)

// Engine 内容生成编排器。对任务存储而言它是唯一的写方：
// 任务创建后只会被它推进一次到终态，此后记录不可变。
type Engine struct {
	store     jobstore.Store
	retriever *brand.Retriever
	textGen   *textgen.Generator
	imageGen  *imagegen.Generator
	scorer    *scorer.Scorer
}

// NewEngine 创建编排器实例
func NewEngine(store jobstore.Store, retriever *brand.Retriever, textGen *textgen.Generator, imageGen *imagegen.Generator, sc *scorer.Scorer) *Engine {
	return &Engine{
		store:     store,
		retriever: retriever,
		textGen:   textGen,
		imageGen:  imageGen,
		scorer:    sc,
	}
}

// Submit 受理一次生成请求：创建任务记录后同步执行流水线，
// 返回时任务必然已处于终态。状态与进度字段的形状为将来的
// 异步执行保留：progress 单调到 100，终态只写一次。
func (e *Engine) Submit(ctx context.Context, req *dm.GenerationRequest) (string, error) {
	req.Normalize()

	job := &dm.Job{
		ID:        uuid.NewString(),
		Status:    dm.JobStatusProcessing,
		Progress:  0,
		Input:     *req,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := e.store.Put(ctx, job); err != nil {
		return "", fmt.Errorf("create job failed: %w", err)
	}

	logger.Log.Infof("开始处理生成任务 [%s]，包含 %d 个渠道", job.ID, len(req.Channels))
	start := time.Now()

	if err := e.runPipeline(ctx, job.ID, req); err != nil {
		logger.Log.Errorf("生成任务失败 [%s]: %v", job.ID, err)
		e.terminate(ctx, job.ID, dm.JobStatusFailed, &dm.JobResult{Error: err.Error()})
		metrics.JobsTotal.WithLabelValues(dm.JobStatusFailed).Inc()
	} else {
		metrics.JobsTotal.WithLabelValues(dm.JobStatusCompleted).Inc()
	}
	metrics.PipelineDurationSeconds.Observe(time.Since(start).Seconds())

	return job.ID, nil
}

// Get 按 ID 查询任务快照；不存在时返回 jobstore.ErrNotFound
func (e *Engine) Get(ctx context.Context, id string) (*dm.Job, error) {
	return e.store.Get(ctx, id)
}

// runPipeline 执行六步流水线。组件内部各自兜底，这里只会
// 因为存储故障或意外 panic 失败；失败即整体失败，不保留部分渠道结果。
func (e *Engine) runPipeline(ctx context.Context, jobID string, req *dm.GenerationRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	// 1. 品牌上下文每个请求只取一次，不按渠道重复检索
	bc := e.retriever.Retrieve(ctx, req.BrandProfileID, req.Title, req.Brief)
	if err := e.setProgress(ctx, jobID, 10); err != nil {
		return err
	}

	// 2-3. 按请求顺序逐渠道组装提示词并生成文案与配图
	total := len(req.Channels)
	results := make([]dm.ChannelResult, 0, total)
	for i, channel := range req.Channels {
		composed := prompt.Compose(channel, req, bc)

		textRes := e.textGen.Generate(ctx, textgen.Input{
			Channel:            channel,
			Prompt:             composed,
			Title:              req.Title,
			Brief:              req.Brief,
			Audience:           req.AudienceTarget,
			GenerateVariations: req.GenerateVariations,
			ContentLength:      req.ContentLength,
		})

		imageURL := e.imageGen.Generate(ctx, channel, req.Title, req.Brief)

		results = append(results, dm.ChannelResult{
			ChannelCopy: dm.ChannelCopy{
				Channel:          channel,
				Primary:          textRes.Primary,
				Variations:       textRes.Variations,
				EngagementScore:  textRes.EngagementScore,
				OptimizationTips: textRes.OptimizationTips,
				Degraded:         textRes.Degraded,
				Reason:           textRes.Reason,
			},
			ImageURL: imageURL,
		})
		metrics.ChannelsTotal.WithLabelValues(channel).Inc()
		logger.Log.Debugf("渠道 [%s] 处理完成 (engagement: %.2f)", channel, textRes.EngagementScore)

		if err := e.setProgress(ctx, jobID, 10+70*(i+1)/max(total, 1)); err != nil {
			return err
		}
	}

	// 4. 对整批产出运行一次评分
	copies := make([]string, len(results))
	images := make([]string, len(results))
	for i, r := range results {
		copies[i] = r.Primary
		images[i] = r.ImageURL
	}
	report := e.scorer.Score(ctx, copies, images)
	if err := e.setProgress(ctx, jobID, 85); err != nil {
		return err
	}

	// 5-6. 组装最终结果并写入终态
	result := &dm.JobResult{
		Copy:                 make([]dm.ChannelCopy, len(results)),
		Images:               images,
		PredictedPerformance: performanceNotes(results),
		Meta:                 &dm.ResultMeta{Score: report},
	}
	for i, r := range results {
		result.Copy[i] = r.ChannelCopy
	}

	if err := e.terminate(ctx, jobID, dm.JobStatusCompleted, result); err != nil {
		return err
	}
	logger.Log.Infof("生成任务完成 [%s] (overall: %.2f)", jobID, report.OverallScore)
	return nil
}

// terminate 将任务推进到终态，progress 固定为 100
func (e *Engine) terminate(ctx context.Context, jobID, status string, result *dm.JobResult) error {
	progress := 100
	err := e.store.Update(ctx, jobID, jobstore.Update{
		Status:   &status,
		Progress: &progress,
		Result:   result,
	})
	if err != nil {
		logger.Log.Errorf("写入任务终态失败 [%s]: %v", jobID, err)
	}
	return err
}

func (e *Engine) setProgress(ctx context.Context, jobID string, progress int) error {
	return e.store.Update(ctx, jobID, jobstore.Update{Progress: &progress})
}

// performanceNotes 由各渠道互动评分推导的表现预测
func performanceNotes(results []dm.ChannelResult) []string {
	notes := make([]string, 0, len(results))
	for _, r := range results {
		band := "moderate"
		switch {
		case r.EngagementScore >= 0.9:
			band = "high"
		case r.EngagementScore >= 0.8:
			band = "good"
		}
		notes = append(notes, fmt.Sprintf("%s: %s engagement expected (%.2f)", r.Channel, band, r.EngagementScore))
	}
	return notes
}
