package imagegen

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/assets"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/logger"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/metrics"
	dm "github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

// dimensions 渠道对应的目标尺寸
type dimensions struct {
	width, height int
}

func dimensionsFor(channel string) dimensions {
	switch ch := dm.ParseChannel(channel); ch {
	case dm.ChannelInstagram:
		return dimensions{1024, 1024}
	case dm.ChannelFacebook:
		return dimensions{1200, 630}
	case dm.ChannelTwitter:
		return dimensions{1200, 675}
	case dm.ChannelLinkedIn:
		return dimensions{1200, 627}
	default:
		// email 与通用渠道共用横版配图
		return dimensions{600, 400}
	}
}

// imagePrompt 渠道对应的图片提示词
func imagePrompt(channel, title, brief string) string {
	ch := dm.ParseChannel(channel)
	switch {
	case ch == dm.ChannelEmail:
		return fmt.Sprintf("Clean marketing banner for an email campaign titled %q. %s. Flat design, generous whitespace, no text overlay.", title, brief)
	case ch.IsSocial():
		return fmt.Sprintf("Eye-catching %s visual for the campaign %q. %s. Vibrant colors, social-media friendly composition.", channel, title, brief)
	default:
		return fmt.Sprintf("Marketing illustration for the campaign %q. %s.", title, brief)
	}
}

// Generator 渠道配图生成器。任何失败都返回确定性占位图 URL，绝不抛错。
type Generator struct {
	client  *Client
	store   assets.Store
	persist bool
}

// NewGenerator 创建配图生成器；client、store 允许为 nil
func NewGenerator(client *Client, store assets.Store, persist bool) *Generator {
	return &Generator{client: client, store: store, persist: persist}
}

// Generate 生成渠道配图并返回可访问的 URL
func (g *Generator) Generate(ctx context.Context, channel, title, brief string) string {
	d := dimensionsFor(channel)

	if g == nil || !g.client.Available() {
		metrics.FallbacksTotal.WithLabelValues("image").Inc()
		return PlaceholderURL(channel, title, d.width, d.height)
	}

	providerURL, err := g.client.Generate(ctx, imagePrompt(channel, title, brief), d.width, d.height)
	if err != nil {
		logger.Log.Warnf("图片生成失败 [%s]，使用占位图: %v", channel, err)
		metrics.FallbacksTotal.WithLabelValues("image").Inc()
		return PlaceholderURL(channel, title, d.width, d.height)
	}

	if !g.persist || g.store == nil {
		return providerURL
	}

	// 落盘失败时退回供应商 URL，不影响流水线
	data, err := g.client.Download(ctx, providerURL)
	if err != nil {
		logger.Log.Warnf("图片下载失败 [%s]，返回供应商 URL: %v", channel, err)
		return providerURL
	}
	key := uuid.NewString() + ".png"
	storedURL, err := g.store.Put(ctx, key, "image/png", data)
	if err != nil {
		logger.Log.Warnf("图片落盘失败 [%s]，返回供应商 URL: %v", channel, err)
		return providerURL
	}
	return storedURL
}

// PlaceholderURL 确定性占位图 URL，编码渠道与标题
func PlaceholderURL(channel, title string, width, height int) string {
	label := url.QueryEscape(channel + " " + title)
	return fmt.Sprintf("https://placehold.co/%dx%d?text=%s", width, height, label)
}

// IsPlaceholder 是否为占位图 URL
func IsPlaceholder(imageURL string) bool {
	u, err := url.Parse(imageURL)
	if err != nil {
		return true
	}
	return u.Host == "placehold.co"
}
