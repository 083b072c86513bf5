package entities

import (
	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/ecs"
)

// ButtonZ 按钮的绘制和点击层级，高于卡片
const ButtonZ = 10

// NewButton 创建按钮实体
//
// 参数：
//   - em: 实体管理器
//   - label: 按钮文字
//   - hint: 快捷键提示，可为空
//   - rect: 按钮区域（屏幕坐标）
//   - primary: 是否使用强调色
//   - onClick: 点击回调函数
func NewButton(em *ecs.EntityManager, label, hint string, rect host.Rect, primary bool, onClick func()) ecs.EntityID {
	entity := em.CreateEntity()

	ecs.AddComponent(em, entity, &components.BoundsComponent{Rect: rect})
	ecs.AddComponent(em, entity, &components.ButtonComponent{
		Label:   label,
		Hint:    hint,
		Primary: primary,
		State:   components.UINormal,
		Enabled: true,
		OnClick: onClick,
	})
	ecs.AddComponent(em, entity, &components.ZIndexComponent{Z: ButtonZ})

	// 添加 UI 组件标记（方便过滤）
	ecs.AddComponent(em, entity, &components.UIComponent{State: components.UINormal})
	return entity
}
