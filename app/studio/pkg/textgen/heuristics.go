package textgen

import (
	"fmt"
	"strings"

	dm "github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

// channelBounds 渠道的篇幅与话题标签约束
type channelBounds struct {
	minLen, maxLen   int
	minTags, maxTags int
}

func boundsFor(channel string) channelBounds {
	switch ch := dm.ParseChannel(channel); ch {
	case dm.ChannelEmail:
		return channelBounds{minLen: 200, maxLen: 2000, minTags: 0, maxTags: 0}
	case dm.ChannelTwitter:
		return channelBounds{minLen: 50, maxLen: 280, minTags: 1, maxTags: 3}
	case dm.ChannelInstagram:
		return channelBounds{minLen: 50, maxLen: 2200, minTags: 2, maxTags: 10}
	case dm.ChannelFacebook:
		return channelBounds{minLen: 50, maxLen: 500, minTags: 0, maxTags: 5}
	case dm.ChannelLinkedIn:
		return channelBounds{minLen: 100, maxLen: 1300, minTags: 0, maxTags: 5}
	default:
		return channelBounds{minLen: 50, maxLen: 1000, minTags: 0, maxTags: 5}
	}
}

// ctaVocabulary 行动号召词表
var ctaVocabulary = []string{
	"buy", "shop", "order", "sign up", "subscribe", "register",
	"learn more", "get started", "join", "discover", "claim", "try",
	"download", "book now", "don't miss",
}

func hasCallToAction(copyText string) bool {
	lower := strings.ToLower(copyText)
	for _, word := range ctaVocabulary {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func countHashtags(copyText string) int {
	count := 0
	for _, field := range strings.Fields(copyText) {
		if len(field) > 1 && strings.HasPrefix(field, "#") {
			count++
		}
	}
	return count
}

// EngagementScore 确定性互动评分启发式。
// 基础分 0.7；篇幅合规 +0.1；话题标签密度合规 +0.1；含行动号召 +0.1；上限 1.0。
func EngagementScore(channel, copyText string) float64 {
	b := boundsFor(channel)
	score := 0.7

	if n := len(copyText); n >= b.minLen && n <= b.maxLen {
		score += 0.1
	}
	if tags := countHashtags(copyText); tags >= b.minTags && tags <= b.maxTags {
		score += 0.1
	}
	if hasCallToAction(copyText) {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// OptimizationTips 固定规则产出的优化建议，最多 3 条
func OptimizationTips(channel, copyText string, audience *dm.AudienceTarget) []string {
	b := boundsFor(channel)
	tips := []string{}

	if n := len(copyText); n < b.minLen {
		tips = append(tips, fmt.Sprintf("Copy is short for %s; add more detail to reach at least %d characters.", channel, b.minLen))
	} else if n > b.maxLen {
		tips = append(tips, fmt.Sprintf("Copy is long for %s; tighten it to under %d characters.", channel, b.maxLen))
	}

	if !hasCallToAction(copyText) {
		tips = append(tips, "Add a clear call to action.")
	}

	if tags := countHashtags(copyText); tags < b.minTags {
		tips = append(tips, fmt.Sprintf("Add at least %d relevant hashtags for %s.", b.minTags, channel))
	} else if tags > b.maxTags {
		if b.maxTags == 0 {
			tips = append(tips, fmt.Sprintf("Remove hashtags; they do not belong in %s copy.", channel))
		} else {
			tips = append(tips, fmt.Sprintf("Reduce hashtags to at most %d for %s.", b.maxTags, channel))
		}
	}

	if audience != nil {
		if strings.HasPrefix(audience.AgeRange, "18") {
			tips = append(tips, "Lean into trends and a playful voice for a younger audience.")
		} else if strings.HasPrefix(audience.AgeRange, "45") || strings.HasPrefix(audience.AgeRange, "55") {
			tips = append(tips, "Keep the language clear and direct for an older audience.")
		}
	}

	if len(tips) > 3 {
		tips = tips[:3]
	}
	return tips
}
