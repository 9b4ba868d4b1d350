package jobstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

// ErrNotFound 查询的任务不存在
var ErrNotFound = errors.New("job not found")

// Store 任务存储抽象。编排器是唯一的写方，读方只能观察到完整的任务快照。
// 进程内存储不保证跨重启持久化，调用方不得依赖持久性。
type Store interface {
	// Put 写入一条任务记录
	Put(ctx context.Context, job *model.Job) error
	// Get 按 ID 查询任务，不存在时返回 ErrNotFound
	Get(ctx context.Context, id string) (*model.Job, error)
	// Update 对任务做部分更新，任务不存在时返回 ErrNotFound
	Update(ctx context.Context, id string, upd Update) error
}

// Update 任务的部分更新，nil 字段保持原值
type Update struct {
	Status   *string
	Progress *int
	Result   *model.JobResult
}

// MemoryStore 进程内任务表。存取都走深拷贝，
// 保证终态任务的快照在外部不可变。
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

// NewMemoryStore 创建内存任务存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*model.Job)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Put(ctx context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = cloneJob(job)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneJob(job), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, upd Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	applyUpdate(job, upd)
	return nil
}

func applyUpdate(job *model.Job, upd Update) {
	if upd.Status != nil {
		job.Status = *upd.Status
	}
	if upd.Progress != nil {
		job.Progress = *upd.Progress
	}
	if upd.Result != nil {
		job.Result = cloneResult(upd.Result)
	}
	job.UpdatedAt = time.Now()
}

// cloneJob 深拷贝任务记录
func cloneJob(job *model.Job) *model.Job {
	c := *job
	c.Input.Channels = append([]string(nil), job.Input.Channels...)
	if job.Input.AudienceTarget != nil {
		at := *job.Input.AudienceTarget
		at.Interests = append([]string(nil), at.Interests...)
		c.Input.AudienceTarget = &at
	}
	if job.Input.BrandAssets != nil {
		ba := *job.Input.BrandAssets
		ba.BrandValues = append([]string(nil), ba.BrandValues...)
		c.Input.BrandAssets = &ba
	}
	c.Result = cloneResult(job.Result)
	return &c
}

func cloneResult(r *model.JobResult) *model.JobResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Copy = make([]model.ChannelCopy, len(r.Copy))
	for i, cc := range r.Copy {
		c.Copy[i] = cc
		c.Copy[i].Variations = append([]string(nil), cc.Variations...)
		c.Copy[i].OptimizationTips = append([]string(nil), cc.OptimizationTips...)
	}
	c.Images = append([]string(nil), r.Images...)
	c.PredictedPerformance = append([]string(nil), r.PredictedPerformance...)
	if r.Meta != nil {
		m := *r.Meta
		m.Score.CopyScores = append([]float64(nil), r.Meta.Score.CopyScores...)
		m.Score.ImageScores = append([]float64(nil), r.Meta.Score.ImageScores...)
		c.Meta = &m
	}
	return &c
}
