package textgen

import (
	"math"
	"strings"
	"testing"

	dm "github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

func TestCountHashtags(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"no tags here", 0},
		{"launch day #GoLive #Sale", 2},
		{"# not a tag, #real one", 1},
		{"#a #b #c", 3},
	}
	for _, c := range cases {
		if got := countHashtags(c.text); got != c.want {
			t.Errorf("countHashtags(%q) = %d, want %d", c.text, got, c.want)
		}
	}
}

func TestEngagementScore_Base(t *testing.T) {
	// 短文本、无标签、无行动号召：只有基础分 0.7
	got := EngagementScore("twitter", "hi")
	if got != 0.7 {
		t.Errorf("EngagementScore() = %v, want 0.7", got)
	}
}

func TestEngagementScore_AllBonuses(t *testing.T) {
	// 长度在 50-280、带 1-3 个标签、含行动号召：0.7 + 0.1*3 = 1.0
	copyText := "Our summer collection just dropped. Shop the looks everyone is talking about today. #Summer #Style"
	got := EngagementScore("twitter", copyText)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("EngagementScore() = %v, want 1.0", got)
	}
}

func TestEngagementScore_EmailRejectsHashtags(t *testing.T) {
	withTags := strings.Repeat("Great offer inside. ", 15) + "#Deal"
	noTags := strings.Repeat("Great offer inside. ", 15)
	if EngagementScore("email", withTags) >= EngagementScore("email", noTags) {
		t.Errorf("email copy with hashtags should score lower")
	}
}

func TestOptimizationTips_ShortCopy(t *testing.T) {
	tips := OptimizationTips("email", "too short", nil)
	if len(tips) == 0 {
		t.Fatal("expected tips for short email copy")
	}
	found := false
	for _, tip := range tips {
		if strings.Contains(tip, "short") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a length tip, got %v", tips)
	}
}

func TestOptimizationTips_CappedAtThree(t *testing.T) {
	// 短文本、无标签、无行动号召、年轻受众：触发超过 3 条规则
	audience := &dm.AudienceTarget{AgeRange: "18-24"}
	tips := OptimizationTips("instagram", "hi", audience)
	if len(tips) > 3 {
		t.Errorf("OptimizationTips() returned %d tips, want at most 3", len(tips))
	}
}

func TestOptimizationTips_NeverNil(t *testing.T) {
	copyText := "Discover our new collection today and sign up for early access. " + strings.Repeat("More detail. ", 5)
	tips := OptimizationTips("general", copyText, nil)
	if tips == nil {
		t.Error("OptimizationTips() = nil, want empty slice")
	}
}
