package genai

// AdSuggestion 营销文案
type AdSuggestion struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
	CTA      string `json:"cta"`
	// Platform 请求时的目标平台，不由模型生成
	Platform string `json:"-"`
}

// Image 生成或编辑后的图片
type Image struct {
	Data     []byte
	MIMEType string
}

// Audio 合成的语音，通常是 audio/L16 裸 PCM
type Audio struct {
	Data     []byte
	MIMEType string
}

// Trends 基于搜索的市场趋势
type Trends struct {
	Text string
	// Sources 去重后的来源链接，保持首次出现的顺序
	Sources []string
}

// ChatRole 对话角色
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatTurn 一条历史消息
type ChatTurn struct {
	Role ChatRole
	Text string
}

// CampaignRequest 一次完整营销活动的输入
type CampaignRequest struct {
	ServiceName  string
	BusinessName string
	Platform     string
	Tone         string
	// Speak 为 true 时同时合成文案语音
	Speak bool
}

// Campaign 文案、配图和语音
// Image 和 Speech 在对应请求失败时为 nil
type Campaign struct {
	Copy   *AdSuggestion
	Image  *Image
	Speech *Audio
}
