package service

import (
	"context"
	stderrors "errors"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/assets"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/engine"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/jobstore"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/knowledge"
	dm "github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

type StudioService struct {
	eng        *engine.Engine
	ingester   *knowledge.Ingester
	assetStore assets.Store
	log        *log.Helper
}

func NewStudioService(eng *engine.Engine, ingester *knowledge.Ingester, assetStore assets.Store, logger log.Logger) *StudioService {
	return &StudioService{
		eng:        eng,
		ingester:   ingester,
		assetStore: assetStore,
		log:        log.NewHelper(logger),
	}
}

// Generate 受理生成请求，同步执行后返回终态任务记录
func (s *StudioService) Generate(ctx context.Context, req *dm.GenerationRequest) (*dm.Job, error) {
	if req.Title == "" || req.Brief == "" {
		return nil, errors.BadRequest("INVALID_REQUEST", "title and brief are required")
	}
	if len(req.Channels) == 0 {
		return nil, errors.BadRequest("INVALID_REQUEST", "at least one channel is required")
	}

	id, err := s.eng.Submit(ctx, req)
	if err != nil {
		s.log.Errorf("submit generation failed: %v", err)
		return nil, errors.InternalServer("SUBMIT_FAILED", err.Error())
	}
	return s.GetJob(ctx, id)
}

// GetJob 按 ID 查询任务
func (s *StudioService) GetJob(ctx context.Context, id string) (*dm.Job, error) {
	job, err := s.eng.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, jobstore.ErrNotFound) {
			return nil, errors.NotFound("JOB_NOT_FOUND", "job not found: "+id)
		}
		return nil, errors.InternalServer("JOB_QUERY_FAILED", err.Error())
	}
	return job, nil
}

// KnowledgeRequest 知识入库请求；Text 与 URL 二选一
type KnowledgeRequest struct {
	BrandProfileID string `json:"brand_profile_id"`
	Text           string `json:"text"`
	URL            string `json:"url"`
}

type KnowledgeReply struct {
	PassageID int    `json:"passage_id"`
	BrandID   string `json:"brand_profile_id"`
}

// IngestKnowledge 将品牌知识写入向量库
func (s *StudioService) IngestKnowledge(ctx context.Context, req *KnowledgeRequest) (*KnowledgeReply, error) {
	if !s.ingester.Ready() {
		return nil, errors.ServiceUnavailable("KNOWLEDGE_UNAVAILABLE", "knowledge base is not configured")
	}
	brandID := req.BrandProfileID
	if brandID == "" {
		brandID = "demo"
	}

	var (
		id  int
		err error
	)
	switch {
	case req.Text != "":
		id, err = s.ingester.IngestText(ctx, brandID, req.Text)
	case req.URL != "":
		id, err = s.ingester.IngestURL(ctx, brandID, req.URL)
	default:
		return nil, errors.BadRequest("INVALID_REQUEST", "either text or url is required")
	}
	if err != nil {
		s.log.Errorf("ingest knowledge failed: %v", err)
		return nil, errors.InternalServer("INGEST_FAILED", err.Error())
	}
	return &KnowledgeReply{PassageID: id, BrandID: brandID}, nil
}

// GetAsset 读取已落盘的生成资产
func (s *StudioService) GetAsset(ctx context.Context, key string) ([]byte, string, error) {
	if s.assetStore == nil {
		return nil, "", errors.NotFound("ASSET_NOT_FOUND", "asset storage is not configured")
	}
	data, contentType, err := s.assetStore.Get(ctx, key)
	if err != nil {
		if stderrors.Is(err, assets.ErrNotFound) {
			return nil, "", errors.NotFound("ASSET_NOT_FOUND", "asset not found: "+key)
		}
		return nil, "", errors.InternalServer("ASSET_QUERY_FAILED", err.Error())
	}
	return data, contentType, nil
}
