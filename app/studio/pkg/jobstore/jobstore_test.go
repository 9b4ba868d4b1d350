package jobstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

func sampleJob(id string) *model.Job {
	return &model.Job{
		ID:       id,
		Status:   model.JobStatusProcessing,
		Progress: 0,
		Input: model.GenerationRequest{
			Title:    "Launch",
			Brief:    "New product",
			Channels: []string{"email", "instagram"},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, sampleJob("j1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	job, err := s.Get(ctx, "j1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if job.ID != "j1" || job.Status != model.JobStatusProcessing {
		t.Errorf("Get() = %+v", job)
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_UpdateNotFound(t *testing.T) {
	s := NewMemoryStore()
	p := 50
	err := s.Update(context.Background(), "missing", Update{Progress: &p})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_PartialUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Put(ctx, sampleJob("j1"))

	p := 42
	if err := s.Update(ctx, "j1", Update{Progress: &p}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	job, _ := s.Get(ctx, "j1")
	if job.Progress != 42 {
		t.Errorf("Progress = %d, want 42", job.Progress)
	}
	// 未涉及的字段保持原值
	if job.Status != model.JobStatusProcessing {
		t.Errorf("Status = %q, want processing", job.Status)
	}
}

func TestMemoryStore_TerminalUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Put(ctx, sampleJob("j1"))

	status := model.JobStatusCompleted
	p := 100
	result := &model.JobResult{Images: []string{"https://placehold.co/600x400"}}
	if err := s.Update(ctx, "j1", Update{Status: &status, Progress: &p, Result: result}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	job, _ := s.Get(ctx, "j1")
	if !job.Terminal() || job.Progress != 100 || job.Result == nil {
		t.Errorf("terminal job = %+v", job)
	}
}

func TestMemoryStore_SnapshotIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Put(ctx, sampleJob("j1"))

	// 修改取出的快照不能影响存储内的记录
	first, _ := s.Get(ctx, "j1")
	first.Status = "mutated"
	first.Input.Channels[0] = "mutated"

	second, _ := s.Get(ctx, "j1")
	if second.Status != model.JobStatusProcessing {
		t.Error("stored status was mutated through a snapshot")
	}
	if second.Input.Channels[0] != "email" {
		t.Error("stored channels were mutated through a snapshot")
	}
}
