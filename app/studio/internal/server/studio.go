package server

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/campaign_studio/app/studio/internal/conf"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/assets"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/brand"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/config"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/embedding"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/engine"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/imagegen"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/jobstore"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/knowledge"
	csLogger "github.com/iWorld-y/campaign_studio/app/studio/pkg/logger"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/scorer"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/textgen"
)

// NewStudioEngine 初始化内容生成引擎及其依赖。
// 外部能力（LLM、图片生成、向量检索、数据库）均为可选：
// 对应配置缺失时相应组件以空实现接入，流水线走确定性兜底。
func NewStudioEngine(c *conf.Studio, logger log.Logger) (*engine.Engine, *knowledge.Ingester, assets.Store, func(), error) {
	helper := log.NewHelper(logger)
	if c == nil {
		c = &conf.Studio{}
	}

	// 将 internal/conf.Studio 转换为 pkg/config.Config
	cfg := toConfig(c)

	// 初始化日志
	if err := csLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init studio logger: %v", err)
		_ = csLogger.InitLogger("info", "") // 降级处理
	}

	cleanups := make([]func(), 0, 4)
	cleanup := func() {
		helper.Info("Cleaning up studio engine")
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// 任务存储
	var store jobstore.Store
	if cfg.JobStore.Backend == "redis" {
		rs, err := jobstore.NewRedisStore(cfg.JobStore.RedisAddr, cfg.JobStore.RedisPassword)
		if err != nil {
			helper.Errorf("Failed to init redis job store: %v", err)
			cleanup()
			return nil, nil, nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = rs.Close() })
		store = rs
	} else {
		store = jobstore.NewMemoryStore()
	}

	// LLM 与限流器；未配置密钥时走兜底文案与启发式评分
	var chatModel model.ChatModel
	if cfg.LLM.APIKey != "" {
		cm, err := openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
		})
		if err != nil {
			helper.Errorf("Failed to init chat model: %v", err)
			cleanup()
			return nil, nil, nil, nil, err
		}
		chatModel = cm
	}

	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	if cfg.Concurrency.RPM <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Concurrency.QPS
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(limit, burst)

	// 向量检索层；数据库未配置时品牌上下文只含静态画像
	embedder := embedding.NewClient(cfg.Embedding)
	var index knowledge.Index
	if cfg.DB.Host != "" {
		pg, err := knowledge.NewPGIndex(cfg.DB)
		if err != nil {
			helper.Errorf("Failed to init knowledge index: %v", err)
		} else {
			cleanups = append(cleanups, func() { _ = pg.Close() })
			index = pg
		}
	}
	retriever := brand.NewRetriever(embedder, index)
	ingester := knowledge.NewIngester(embedder, index)

	// 图片生成与资产存储
	var assetStore assets.Store
	persist := cfg.Image.Persist
	if cfg.DB.Host != "" {
		ps, err := assets.NewPGStore(cfg.DB, cfg.Storage)
		if err != nil {
			helper.Errorf("Failed to init asset store: %v", err)
		} else {
			cleanups = append(cleanups, func() { _ = ps.Close() })
			assetStore = ps
		}
	}
	if assetStore == nil {
		persist = false
	}
	imageGen := imagegen.NewGenerator(imagegen.NewClient(cfg.Image), assetStore, persist)

	textGen := textgen.NewGenerator(chatModel, limiter)
	sc := scorer.NewScorer(chatModel, limiter)

	eng := engine.NewEngine(store, retriever, textGen, imageGen, sc)
	return eng, ingester, assetStore, cleanup, nil
}

func toConfig(c *conf.Studio) *config.Config {
	cfg := &config.Config{}
	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{BaseURL: c.Llm.BaseUrl, APIKey: c.Llm.ApiKey, Model: c.Llm.Model}
	}
	if c.Embedding != nil {
		cfg.Embedding = config.EmbeddingConfig{
			BaseURL:   c.Embedding.BaseUrl,
			APIKey:    c.Embedding.ApiKey,
			Model:     c.Embedding.Model,
			Dimension: int(c.Embedding.Dimension),
		}
	}
	if c.Image != nil {
		cfg.Image = config.ImageConfig{
			BaseURL: c.Image.BaseUrl,
			APIKey:  c.Image.ApiKey,
			Model:   c.Image.Model,
			Quality: c.Image.Quality,
			Persist: c.Image.Persist,
		}
	}
	if c.Storage != nil {
		cfg.Storage = config.StorageConfig{PublicBaseURL: c.Storage.PublicBaseUrl}
	}
	if c.JobStore != nil {
		cfg.JobStore = config.JobStoreConfig{
			Backend:       c.JobStore.Backend,
			RedisAddr:     c.JobStore.RedisAddr,
			RedisPassword: c.JobStore.RedisPassword,
		}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{QPS: int(c.Concurrency.Qps), RPM: int(c.Concurrency.Rpm)}
	}
	if c.Db != nil {
		cfg.DB = config.DBConfig{
			Host:     c.Db.Host,
			Port:     int(c.Db.Port),
			User:     c.Db.User,
			Password: c.Db.Password,
			Name:     c.Db.Name,
		}
	}
	return cfg
}
