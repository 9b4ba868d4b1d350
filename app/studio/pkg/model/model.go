package model

import "time"

// Channel 渠道的封闭枚举。模板选择只依赖枚举值，
// 未识别的渠道统一落在 ChannelGeneral 上。
type Channel int

const (
	ChannelGeneral Channel = iota
	ChannelEmail
	ChannelInstagram
	ChannelFacebook
	ChannelTwitter
	ChannelLinkedIn
)

// ParseChannel 将渠道标识解析为枚举值，未知标识返回 ChannelGeneral
func ParseChannel(name string) Channel {
	switch name {
	case "email":
		return ChannelEmail
	case "instagram":
		return ChannelInstagram
	case "facebook":
		return ChannelFacebook
	case "twitter":
		return ChannelTwitter
	case "linkedin":
		return ChannelLinkedIn
	default:
		return ChannelGeneral
	}
}

// IsSocial 是否属于社交媒体渠道族
func (c Channel) IsSocial() bool {
	switch c {
	case ChannelInstagram, ChannelFacebook, ChannelTwitter, ChannelLinkedIn:
		return true
	}
	return false
}

// AudienceTarget 目标受众描述
type AudienceTarget struct {
	AgeRange           string   `json:"age_range"`
	Gender             string   `json:"gender"`
	Location           string   `json:"location"`
	Interests          []string `json:"interests"`
	PlatformPreference string   `json:"platform_preference"`
}

// BrandAssets 品牌资产描述
type BrandAssets struct {
	PrimaryColor   string   `json:"primary_color"`
	SecondaryColor string   `json:"secondary_color"`
	LogoURL        string   `json:"logo_url,omitempty"`
	BrandVoice     string   `json:"brand_voice"`
	Tone           string   `json:"tone"`
	BrandValues    []string `json:"brand_values"`
}

// GenerationRequest 一次内容生成请求
type GenerationRequest struct {
	Title              string          `json:"title"`
	Brief              string          `json:"brief"`
	BrandProfileID     string          `json:"brand_profile_id"`
	Channels           []string        `json:"channels"`
	AudienceTarget     *AudienceTarget `json:"audience_target,omitempty"`
	BrandAssets        *BrandAssets    `json:"brand_assets,omitempty"`
	GenerateVariations bool            `json:"generate_variations"`
	ContentLength      string          `json:"content_length"` // short, medium, long
	IncludeEmoji       bool            `json:"include_emoji"`
}

// Normalize 填充请求的默认字段
func (r *GenerationRequest) Normalize() {
	if r.BrandProfileID == "" {
		r.BrandProfileID = "demo"
	}
	if r.ContentLength == "" {
		r.ContentLength = "medium"
	}
}

// BrandContext 每次请求计算出的品牌上下文快照，只读
type BrandContext struct {
	Voice          string   `json:"voice"`
	TargetAudience string   `json:"target_audience"`
	KeyMessages    []string `json:"key_messages"`
	Tone           string   `json:"tone"`
	Values         []string `json:"values"`
	// Knowledge 向量检索召回的相关知识片段，按相关性排序；可能为空
	Knowledge []string `json:"knowledge,omitempty"`
}

// ChannelCopy 单个渠道的文案产出
type ChannelCopy struct {
	Channel          string   `json:"channel"`
	Primary          string   `json:"primary"`
	Variations       []string `json:"variations"`
	EngagementScore  float64  `json:"engagement_score"`
	OptimizationTips []string `json:"optimization_tips"`
	// Degraded 标记文案来自确定性兜底模板而不是模型
	Degraded bool   `json:"degraded,omitempty"`
	Reason   string `json:"degraded_reason,omitempty"`
}

// ChannelResult 单个渠道的完整产出，生成后不再修改
type ChannelResult struct {
	ChannelCopy
	ImageURL string `json:"image_url"`
}

// ScoreMetrics 评分报告的基础统计
type ScoreMetrics struct {
	TotalCopies   int     `json:"total_copies"`
	TotalImages   int     `json:"total_images"`
	AvgCopyLength float64 `json:"avg_copy_length"`
}

// ScoreReport 整批内容的质量评分报告，所有分值位于 [0,1]
type ScoreReport struct {
	OverallScore        float64      `json:"overall_score"`
	CopyScore           float64      `json:"copy_score"`
	ImageScore          float64      `json:"image_score"`
	BrandConsistency    float64      `json:"brand_consistency"`
	EngagementPotential float64      `json:"engagement_potential"`
	CopyScores          []float64    `json:"copy_scores,omitempty"`
	ImageScores         []float64    `json:"image_scores,omitempty"`
	Metrics             ScoreMetrics `json:"metrics"`
	// Error 评估模式失败降级为启发式评分时附带的诊断信息
	Error string `json:"error,omitempty"`
}

// ResultMeta 结果的附加信息
type ResultMeta struct {
	Score ScoreReport `json:"score"`
}

// JobResult 任务的最终产出；失败任务只携带 Error
type JobResult struct {
	Copy                 []ChannelCopy `json:"copy,omitempty"`
	Images               []string      `json:"images,omitempty"`
	PredictedPerformance []string      `json:"predicted_performance,omitempty"`
	Meta                 *ResultMeta   `json:"meta,omitempty"`
	Error                string        `json:"error,omitempty"`
}

// 任务状态
const (
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Job 生成任务记录。进入终态后不再变化，读方只能通过 ID 查询观察
type Job struct {
	ID        string            `json:"job_id"`
	Status    string            `json:"status"`
	Progress  int               `json:"progress"`
	Input     GenerationRequest `json:"input"`
	Result    *JobResult        `json:"result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Terminal 任务是否已进入终态
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
