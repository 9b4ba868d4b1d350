package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/iWorld-y/campaign_studio/app/studio/pkg/brand"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/logger"
	"github.com/iWorld-y/campaign_studio/app/studio/pkg/model"
)

// templateData 模板渲染参数
type templateData struct {
	Channel        string
	Title          string
	Brief          string
	BrandProfileID string
	BrandContext   string
	ContentLength  string
	IncludeEmoji   bool
}

// 三个模板族：email、社交媒体、通用兜底。
// 未识别的渠道统一使用通用模板，不因为拼写错误选错模板族。
var (
	emailTpl = template.Must(template.New("email").Parse(`You are writing a marketing email for the campaign "{{.Title}}".

Campaign brief: {{.Brief}}
Brand profile: {{.BrandProfileID}}

{{.BrandContext}}
Requirements:
- Write a compelling subject line of at most 60 characters, on its own first line prefixed with "Subject: ".
- Follow with the email body ({{.ContentLength}} length), a clear call to action and a sign-off.
- No hashtags.{{if .IncludeEmoji}}
- A small number of tasteful emoji is allowed.{{end}}`))

	socialTpl = template.Must(template.New("social").Parse(`You are writing a {{.Channel}} post for the campaign "{{.Title}}".

Campaign brief: {{.Brief}}
Brand profile: {{.BrandProfileID}}

{{.BrandContext}}
Requirements:
- Keep it {{.ContentLength}} and platform-appropriate for {{.Channel}}.
- Include 2 to 5 relevant hashtags.
- End with a clear call to action.{{if .IncludeEmoji}}
- Use emoji where they add energy.{{end}}`))

	generalTpl = template.Must(template.New("general").Parse(`You are writing marketing copy for the "{{.Channel}}" channel for the campaign "{{.Title}}".

Campaign brief: {{.Brief}}
Brand profile: {{.BrandProfileID}}

{{.BrandContext}}
Requirements:
- Keep it {{.ContentLength}} length with a clear call to action.{{if .IncludeEmoji}}
- Emoji are allowed.{{end}}`))
)

// Compose 按渠道选择模板族并渲染最终的生成指令。
// 渲染失败时回退到最小确定性提示词，而不是向上抛错。
func Compose(channelName string, req *model.GenerationRequest, bc model.BrandContext) string {
	// 请求随附的品牌资产追加在档案上下文之后
	context := brand.Render(bc, req.Title, req.Brief)
	if assets := brand.RenderAssets(req.BrandAssets); assets != "" {
		context += "\n" + assets
	}

	data := templateData{
		Channel:        channelName,
		Title:          req.Title,
		Brief:          req.Brief,
		BrandProfileID: req.BrandProfileID,
		BrandContext:   context,
		ContentLength:  req.ContentLength,
		IncludeEmoji:   req.IncludeEmoji,
	}

	var tpl *template.Template
	switch ch := model.ParseChannel(channelName); {
	case ch == model.ChannelEmail:
		tpl = emailTpl
	case ch.IsSocial():
		tpl = socialTpl
	default:
		tpl = generalTpl
	}

	var sb strings.Builder
	if err := tpl.Execute(&sb, data); err != nil {
		logger.Log.Warnf("提示词渲染失败 [%s]，使用最小提示词: %v", channelName, err)
		return Fallback(channelName, req.Title, req.Brief)
	}
	return sb.String()
}

// Fallback 最小确定性提示词
func Fallback(channel, title, brief string) string {
	return fmt.Sprintf("generate content for %s: %s — %s", channel, title, brief)
}
