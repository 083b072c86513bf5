package leads

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// Opener 把链接交给系统处理
type Opener interface {
	Open(link string) error
}

// OpenerFunc 函数适配器
type OpenerFunc func(link string) error

// Open 实现 Opener
func (f OpenerFunc) Open(link string) error { return f(link) }

// 可在测试中替换
var (
	clipboardWriteAll = clipboard.WriteAll
	startCommand      = func(cmd *exec.Cmd) error { return cmd.Start() }
)

// SystemOpener 用系统默认浏览器打开链接
type SystemOpener struct {
	// GOOS 为空时使用 runtime.GOOS
	GOOS string
}

// Open 实现 Opener
func (o SystemOpener) Open(link string) error {
	goos := o.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	var cmd *exec.Cmd
	switch goos {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	case "darwin":
		cmd = exec.Command("open", link)
	default:
		cmd = exec.Command("xdg-open", link)
	}
	if err := startCommand(cmd); err != nil {
		return fmt.Errorf("failed to open %s: %w", link, err)
	}
	return nil
}

// Dispatcher 组装链接并交给 Opener，打开失败时退回到复制到剪贴板
type Dispatcher struct {
	phone  string
	opener Opener
	log    *zap.Logger
}

// NewDispatcher 创建分发器。opener 为 nil 时只复制链接。
func NewDispatcher(phone string, opener Opener) *Dispatcher {
	return &Dispatcher{phone: phone, opener: opener, log: zap.L().Named("leads")}
}

// Result 分发结果
type Result struct {
	Link   string
	Opened bool
	Copied bool
}

// Send 为 message 生成链接并打开
func (d *Dispatcher) Send(message string) (Result, error) {
	link, err := Link(d.phone, message)
	if err != nil {
		return Result{}, err
	}
	res := Result{Link: link}
	if d.opener != nil {
		err := d.opener.Open(link)
		if err == nil {
			res.Opened = true
			d.log.Info("lead link opened", zap.Int("message_len", len(message)))
			return res, nil
		}
		d.log.Warn("open failed, copying link instead", zap.Error(err))
	}
	if err := CopyLink(link); err != nil {
		return res, err
	}
	res.Copied = true
	return res, nil
}

// CopyLink 将链接写入系统剪贴板
func CopyLink(link string) error {
	if err := clipboardWriteAll(link); err != nil {
		return fmt.Errorf("failed to copy link: %w", err)
	}
	return nil
}
