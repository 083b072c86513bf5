package site

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/genai"
)

// 对话中使用的固定文本
const (
	LockedMessage   = "🔒 Sorry, you have used up your free questions.\n\nSubscribe to keep chatting with the assistant."
	UnlockedMessage = "Subscription activated! 💎\nThank you for your trust. Ask me anything, without limits."
	DefaultGreeting = "Welcome! I'm your smart assistant. How can I help you today? ✨"
)

var (
	// ErrChatBusy 上一条消息还在等待回复
	ErrChatBusy = errors.New("site: chat is waiting for a reply")
	// ErrEmptyMessage 空消息
	ErrEmptyMessage = errors.New("site: empty message")
)

// ChatReplier 生成回复，失败时返回兜底文本
// *genai.Gateway 满足此接口
type ChatReplier interface {
	Chat(ctx context.Context, history []genai.ChatTurn, message string) string
}

// ChatMessage 一条对话消息
type ChatMessage struct {
	ID   string
	Role genai.ChatRole
	Text string
	At   time.Time
}

// ChatSession 对话窗口状态
//
// 免费次数只是内存计数，没有持久化也没有服务端校验；Unlock 直接解除限制。
// 这是展示用的付费墙，不是安全边界。
// 方法可以在后台 goroutine 中调用，所有状态由互斥锁保护。
type ChatSession struct {
	mu       sync.Mutex
	replier  ChatReplier
	limit    int
	used     int
	premium  bool
	busy     bool
	open     bool
	messages []ChatMessage
	now      func() time.Time
}

// NewChatSession 创建对话会话，首条消息为问候语
func NewChatSession(replier ChatReplier, cfg config.ChatConfig) *ChatSession {
	greeting := cfg.Greeting
	if greeting == "" {
		greeting = DefaultGreeting
	}
	s := &ChatSession{
		replier: replier,
		limit:   cfg.FreeLimit,
		now:     time.Now,
	}
	s.appendLocked(genai.ChatRoleModel, greeting)
	return s
}

func (s *ChatSession) appendLocked(role genai.ChatRole, text string) ChatMessage {
	m := ChatMessage{ID: uuid.NewString(), Role: role, Text: text, At: s.now()}
	s.messages = append(s.messages, m)
	return m
}

// Open 打开对话窗口
func (s *ChatSession) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
}

// OpenWithContext 打开对话窗口并插入一条上下文提示（例如刚生成的市场趋势）
func (s *ChatSession) OpenWithContext(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
	if text = strings.TrimSpace(text); text != "" {
		s.appendLocked(genai.ChatRoleModel, "💡 "+text)
	}
}

// Close 关闭对话窗口，历史保留
func (s *ChatSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

// IsOpen 窗口是否打开
func (s *ChatSession) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Send 发送一条消息并等待回复
// 免费次数用完且未解锁时，不调用模型，直接返回付费提示
func (s *ChatSession) Send(ctx context.Context, text string) (ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ChatMessage{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ChatMessage{}, ErrChatBusy
	}
	if s.lockedLocked() {
		m := s.appendLocked(genai.ChatRoleModel, LockedMessage)
		s.mu.Unlock()
		return m, nil
	}
	history := s.historyLocked()
	s.appendLocked(genai.ChatRoleUser, text)
	s.busy = true
	s.mu.Unlock()

	reply := s.replier.Chat(ctx, history, text)
	if strings.TrimSpace(reply) == "" {
		reply = genai.FallbackReply
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.used++
	return s.appendLocked(genai.ChatRoleModel, reply), nil
}

// historyLocked 转换为模型历史，去掉开头的模型消息（问候语和上下文提示）
func (s *ChatSession) historyLocked() []genai.ChatTurn {
	var turns []genai.ChatTurn
	for _, m := range s.messages {
		if len(turns) == 0 && m.Role != genai.ChatRoleUser {
			continue
		}
		turns = append(turns, genai.ChatTurn{Role: m.Role, Text: m.Text})
	}
	return turns
}

func (s *ChatSession) lockedLocked() bool {
	return !s.premium && s.limit > 0 && s.used >= s.limit
}

// Unlock 解除免费次数限制
func (s *ChatSession) Unlock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.premium {
		return
	}
	s.premium = true
	s.appendLocked(genai.ChatRoleModel, UnlockedMessage)
}

// Locked 是否已达到免费上限
func (s *ChatSession) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockedLocked()
}

// Busy 是否在等待回复
func (s *ChatSession) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Premium 是否已解锁
func (s *ChatSession) Premium() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.premium
}

// Remaining 剩余免费次数，解锁或无限制时返回 -1
func (s *ChatSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.premium || s.limit <= 0 {
		return -1
	}
	if r := s.limit - s.used; r > 0 {
		return r
	}
	return 0
}

// Messages 返回消息副本
func (s *ChatSession) Messages() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}
