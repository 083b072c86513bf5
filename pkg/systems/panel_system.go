package systems

import (
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/ecs"
)

// StepInterval 加载步骤的切换间隔（秒）
const StepInterval = 1.5

// PanelSystem 面板系统
//
// 职责：
//   - 加载期间循环切换处理步骤文本
//   - 提示面板到期后自动隐藏
type PanelSystem struct {
	entityManager *ecs.EntityManager
}

// NewPanelSystem 创建面板系统
func NewPanelSystem(em *ecs.EntityManager) *PanelSystem {
	return &PanelSystem{entityManager: em}
}

// Update 推进加载步骤和提示计时
func (s *PanelSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.PanelComponent](s.entityManager) {
		panel, _ := ecs.GetComponent[*components.PanelComponent](s.entityManager, id)
		if !panel.Visible {
			continue
		}

		if panel.Loading && len(panel.Steps) > 0 {
			panel.StepElapsed += deltaTime
			for panel.StepElapsed >= StepInterval {
				panel.StepElapsed -= StepInterval
				panel.StepIndex = (panel.StepIndex + 1) % len(panel.Steps)
			}
		}

		if panel.TTL > 0 {
			panel.TTL -= deltaTime
			if panel.TTL <= 0 {
				panel.TTL = 0
				panel.Visible = false
			}
		}
	}
}

// CurrentStep 返回面板当前显示的处理步骤
func CurrentStep(p *components.PanelComponent) string {
	if !p.Loading || len(p.Steps) == 0 {
		return ""
	}
	return p.Steps[p.StepIndex%len(p.Steps)]
}

// StartLoading 进入加载状态并清除旧结果
func StartLoading(p *components.PanelComponent, title string) {
	p.Title = title
	p.Visible = true
	p.Loading = true
	p.StepIndex = 0
	p.StepElapsed = 0
	p.Error = ""
	p.Lines = nil
	if p.Image != nil {
		p.Image.Deallocate()
		p.Image = nil
	}
	p.TTL = 0
}

// ShowResult 显示结果文本
func ShowResult(p *components.PanelComponent, lines ...string) {
	p.Loading = false
	p.Visible = true
	p.Error = ""
	p.Lines = lines
}

// ShowError 显示失败提示
func ShowError(p *components.PanelComponent, msg string) {
	p.Loading = false
	p.Visible = true
	p.Error = msg
}

// ShowToast 显示一条短暂提示
func ShowToast(p *components.PanelComponent, ttl float64, lines ...string) {
	ShowResult(p, lines...)
	p.TTL = ttl
}
