package engine

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/brand"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/imagegen"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/jobstore"
	dm "github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/scorer"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/textgen"
)

// newOfflineEngine 无外部能力的引擎：文案兜底、占位配图、启发式评分
func newOfflineEngine() *Engine {
	return NewEngine(
		jobstore.NewMemoryStore(),
		brand.NewRetriever(nil, nil),
		textgen.NewGenerator(nil, nil),
		imagegen.NewGenerator(nil, nil, false),
		scorer.NewScorer(nil, nil),
	)
}

func sampleRequest() *dm.GenerationRequest {
	return &dm.GenerationRequest{
		Title:    "Summer Sale",
		Brief:    "Up to 50% off sitewide",
		Channels: []string{"instagram", "email"},
	}
}

func TestSubmit_OfflineCompletes(t *testing.T) {
	e := newOfflineEngine()
	ctx := context.Background()

	id, err := e.Submit(ctx, sampleRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	job, err := e.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if job.Status != dm.JobStatusCompleted {
		t.Fatalf("Status = %q, want completed", job.Status)
	}
	if job.Progress != 100 {
		t.Errorf("Progress = %d, want 100", job.Progress)
	}
	if job.Result == nil {
		t.Fatal("Result is nil for completed job")
	}
	if len(job.Result.Copy) != 2 || len(job.Result.Images) != 2 {
		t.Errorf("Result has %d copies and %d images, want 2 and 2", len(job.Result.Copy), len(job.Result.Images))
	}

	// 无凭证时：2 条文案 + 2 张图 → 0.5 + 0.05*2 + 0.02*2 = 0.64
	if job.Result.Meta == nil {
		t.Fatal("Result.Meta is nil")
	}
	if got := job.Result.Meta.Score.OverallScore; math.Abs(got-0.64) > 1e-9 {
		t.Errorf("OverallScore = %v, want 0.64", got)
	}
}

func TestSubmit_PreservesChannelOrder(t *testing.T) {
	e := newOfflineEngine()
	ctx := context.Background()

	req := sampleRequest()
	req.Channels = []string{"twitter", "email", "linkedin"}
	id, _ := e.Submit(ctx, req)
	job, _ := e.Get(ctx, id)

	got := make([]string, 0, len(job.Result.Copy))
	for _, c := range job.Result.Copy {
		got = append(got, c.Channel)
	}
	if !reflect.DeepEqual(got, req.Channels) {
		t.Errorf("result channels = %v, want request order %v", got, req.Channels)
	}
}

func TestSubmit_OfflineCopyIsDegradedFallback(t *testing.T) {
	e := newOfflineEngine()
	ctx := context.Background()

	id, _ := e.Submit(ctx, sampleRequest())
	job, _ := e.Get(ctx, id)

	first := job.Result.Copy[0]
	if !first.Degraded {
		t.Error("offline copy should be marked degraded")
	}
	want := textgen.FallbackCopy("instagram", "Summer Sale", "Up to 50% off sitewide")
	if first.Primary != want {
		t.Errorf("Primary = %q, want %q", first.Primary, want)
	}
	for _, img := range job.Result.Images {
		if !imagegen.IsPlaceholder(img) {
			t.Errorf("offline image = %q, want placeholder", img)
		}
	}
}

func TestSubmit_UnknownChannelStillCompletes(t *testing.T) {
	e := newOfflineEngine()
	ctx := context.Background()

	req := sampleRequest()
	req.Channels = []string{"carrier_pigeon"}
	id, err := e.Submit(ctx, req)
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	job, _ := e.Get(ctx, id)
	if job.Status != dm.JobStatusCompleted {
		t.Errorf("Status = %q, want completed for unknown channel", job.Status)
	}
	if job.Result.Copy[0].Channel != "carrier_pigeon" {
		t.Errorf("Channel = %q, raw channel name must be preserved", job.Result.Copy[0].Channel)
	}
}

func TestSubmit_AppliesRequestDefaults(t *testing.T) {
	e := newOfflineEngine()
	ctx := context.Background()

	req := sampleRequest()
	req.BrandProfileID = ""
	req.ContentLength = ""
	id, _ := e.Submit(ctx, req)
	job, _ := e.Get(ctx, id)

	if job.Input.BrandProfileID != "demo" {
		t.Errorf("BrandProfileID = %q, want demo", job.Input.BrandProfileID)
	}
	if job.Input.ContentLength != "medium" {
		t.Errorf("ContentLength = %q, want medium", job.Input.ContentLength)
	}
}

func TestSubmit_PredictedPerformancePerChannel(t *testing.T) {
	e := newOfflineEngine()
	ctx := context.Background()

	id, _ := e.Submit(ctx, sampleRequest())
	job, _ := e.Get(ctx, id)

	if len(job.Result.PredictedPerformance) != 2 {
		t.Fatalf("PredictedPerformance = %v", job.Result.PredictedPerformance)
	}
	if !strings.HasPrefix(job.Result.PredictedPerformance[0], "instagram:") {
		t.Errorf("note = %q, want instagram prefix", job.Result.PredictedPerformance[0])
	}
}

func TestGet_RepeatedReadsAreIdentical(t *testing.T) {
	e := newOfflineEngine()
	ctx := context.Background()

	id, _ := e.Submit(ctx, sampleRequest())

	first, err := e.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := e.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("terminal job snapshots must be identical across reads")
	}
}

// faultyStore 第一次进度更新失败的任务存储，终态写入仍然放行
type faultyStore struct {
	jobstore.Store
	progressCalls int
}

func (s *faultyStore) Update(ctx context.Context, id string, upd jobstore.Update) error {
	if upd.Status == nil {
		s.progressCalls++
		if s.progressCalls == 1 {
			return errors.New("storage write failed")
		}
	}
	return s.Store.Update(ctx, id, upd)
}

func TestSubmit_StoreFailureFailsWholeJob(t *testing.T) {
	store := &faultyStore{Store: jobstore.NewMemoryStore()}
	e := NewEngine(
		store,
		brand.NewRetriever(nil, nil),
		textgen.NewGenerator(nil, nil),
		imagegen.NewGenerator(nil, nil, false),
		scorer.NewScorer(nil, nil),
	)
	ctx := context.Background()

	id, err := e.Submit(ctx, sampleRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	job, err := e.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if job.Status != dm.JobStatusFailed {
		t.Fatalf("Status = %q, want failed", job.Status)
	}
	if job.Progress != 100 {
		t.Errorf("Progress = %d, want 100 for a failed job", job.Progress)
	}
	if job.Result == nil || job.Result.Error == "" {
		t.Fatalf("Result = %+v, want error payload", job.Result)
	}
	// 整体失败，不保留部分渠道结果
	if len(job.Result.Copy) != 0 || len(job.Result.Images) != 0 {
		t.Errorf("failed job carries partial results: %d copies, %d images", len(job.Result.Copy), len(job.Result.Images))
	}
	if job.Result.Meta != nil {
		t.Errorf("failed job carries score meta: %+v", job.Result.Meta)
	}
}

func TestGet_UnknownJob(t *testing.T) {
	e := newOfflineEngine()
	_, err := e.Get(context.Background(), "no-such-job")
	if !errors.Is(err, jobstore.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}
