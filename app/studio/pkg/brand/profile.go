package brand

import "github.com/iWorld-y/campaign_studio/app/studio/pkg/model"

// DefaultProfileID 未知品牌的兜底档案
const DefaultProfileID = "demo"

// profiles 静态品牌档案表。生产环境中由品牌库服务维护，
// 这里内置种子数据，查询永不失败。
var profiles = map[string]model.BrandContext{
	"demo": {
		Voice:          "Professional, friendly, and approachable",
		TargetAudience: "Tech-savvy professionals aged 25-45",
		KeyMessages:    []string{"Innovation", "Quality", "Customer-first approach"},
		Tone:           "Conversational yet professional",
		Values:         []string{"Trust", "Innovation", "Excellence"},
	},
	"tech_startup": {
		Voice:          "Innovative, energetic, and forward-thinking",
		TargetAudience: "Early adopters and tech enthusiasts",
		KeyMessages:    []string{"Cutting-edge technology", "Disruption", "Future-focused"},
		Tone:           "Bold and confident",
		Values:         []string{"Innovation", "Speed", "Disruption"},
	},
	"fashion_brand": {
		Voice:          "Trendy, stylish, and aspirational",
		TargetAudience: "Fashion-conscious individuals aged 18-35",
		KeyMessages:    []string{"Style", "Self-expression", "Trend-setting"},
		Tone:           "Inspirational and trendy",
		Values:         []string{"Creativity", "Individuality", "Style"},
	},
}

// Lookup 查询品牌档案，未知 ID 回退到默认档案
func Lookup(profileID string) model.BrandContext {
	if ctx, ok := profiles[profileID]; ok {
		return cloneContext(ctx)
	}
	return cloneContext(profiles[DefaultProfileID])
}

func cloneContext(c model.BrandContext) model.BrandContext {
	c.KeyMessages = append([]string(nil), c.KeyMessages...)
	c.Values = append([]string(nil), c.Values...)
	c.Knowledge = append([]string(nil), c.Knowledge...)
	return c
}
