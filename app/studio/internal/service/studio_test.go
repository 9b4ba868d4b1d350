package service

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/brand"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/engine"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/imagegen"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/jobstore"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/knowledge"
	dm "github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/scorer"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/textgen"
)

func newTestService() *StudioService {
	eng := engine.NewEngine(
		jobstore.NewMemoryStore(),
		brand.NewRetriever(nil, nil),
		textgen.NewGenerator(nil, nil),
		imagegen.NewGenerator(nil, nil, false),
		scorer.NewScorer(nil, nil),
	)
	return NewStudioService(eng, knowledge.NewIngester(nil, nil), nil, log.DefaultLogger)
}

func TestGenerate_Validation(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		req  *dm.GenerationRequest
	}{
		{"missing title", &dm.GenerationRequest{Brief: "b", Channels: []string{"email"}}},
		{"missing brief", &dm.GenerationRequest{Title: "t", Channels: []string{"email"}}},
		{"no channels", &dm.GenerationRequest{Title: "t", Brief: "b"}},
	}
	for _, c := range cases {
		_, err := s.Generate(ctx, c.req)
		if !errors.IsBadRequest(err) {
			t.Errorf("Generate(%s) error = %v, want bad request", c.name, err)
		}
	}
}

func TestGenerate_ReturnsTerminalJob(t *testing.T) {
	s := newTestService()
	job, err := s.Generate(context.Background(), &dm.GenerationRequest{
		Title:    "Launch",
		Brief:    "New product",
		Channels: []string{"email"},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !job.Terminal() || job.Progress != 100 {
		t.Errorf("Generate() job = %+v, want terminal with progress 100", job)
	}
	if job.ID == "" {
		t.Error("Generate() job id is empty")
	}
}

func TestGetJob_RoundTrip(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	created, err := s.Generate(ctx, &dm.GenerationRequest{
		Title:    "Launch",
		Brief:    "New product",
		Channels: []string{"twitter"},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, err := s.GetJob(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.ID != created.ID || got.Status != dm.JobStatusCompleted {
		t.Errorf("GetJob() = %+v", got)
	}
}

func TestGetJob_NotFound(t *testing.T) {
	s := newTestService()
	_, err := s.GetJob(context.Background(), "missing")
	if !errors.IsNotFound(err) {
		t.Errorf("GetJob() error = %v, want 404", err)
	}
}

func TestIngestKnowledge_Unavailable(t *testing.T) {
	s := newTestService()
	_, err := s.IngestKnowledge(context.Background(), &KnowledgeRequest{Text: "brand fact"})
	if !errors.IsServiceUnavailable(err) {
		t.Errorf("IngestKnowledge() error = %v, want 503", err)
	}
}

func TestGetAsset_NoStorage(t *testing.T) {
	s := newTestService()
	_, _, err := s.GetAsset(context.Background(), "img.png")
	if !errors.IsNotFound(err) {
		t.Errorf("GetAsset() error = %v, want 404", err)
	}
}
