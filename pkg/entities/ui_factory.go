package entities

import (
	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/ecs"
)

// PanelZ 面板层级，高于按钮
const PanelZ = 20

// NewCursor 创建自定义光标实体
func NewCursor(em *ecs.EntityManager) ecs.EntityID {
	entity := em.CreateEntity()
	ecs.AddComponent(em, entity, &components.CursorComponent{})
	return entity
}

// NewPanel 创建文本面板实体（默认隐藏）
//
// 参数：
//   - em: 实体管理器
//   - kind: 面板类型
//   - title: 标题
//   - rect: 面板区域
//   - steps: 加载期间循环显示的处理步骤
func NewPanel(em *ecs.EntityManager, kind components.PanelKind, title string, rect host.Rect, steps []string) ecs.EntityID {
	entity := em.CreateEntity()
	ecs.AddComponent(em, entity, &components.BoundsComponent{Rect: rect})
	ecs.AddComponent(em, entity, &components.PanelComponent{
		Kind:  kind,
		Title: title,
		Steps: steps,
	})
	ecs.AddComponent(em, entity, &components.ZIndexComponent{Z: PanelZ})
	return entity
}
