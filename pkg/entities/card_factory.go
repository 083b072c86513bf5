package entities

import (
	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/internal/pointer"
	"github.com/decker502/halabi/internal/tilt"
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/config"
	"github.com/decker502/halabi/pkg/ecs"
	"github.com/decker502/halabi/pkg/utils/easing"
)

// NewServiceCard 创建服务卡片实体
//
// 参数：
//   - em: 实体管理器
//   - target: 宿主事件源（指针追踪器在其上注册监听）
//   - caps: 设备能力，触屏设备上卡片不倾斜
//   - svc: 服务配置
//   - tiltCfg: 倾斜参数
//   - onOrder: 点击卡片时的回调
//
// 卡片区域在布局前为空，此时追踪器不产生样本。
func NewServiceCard(
	em *ecs.EntityManager,
	target host.EventTarget,
	caps host.Capabilities,
	svc config.ServiceConfig,
	tiltCfg config.TiltConfig,
	onOrder func(config.ServiceConfig),
) ecs.EntityID {
	card := &components.CardComponent{
		Kind:        components.CardService,
		ItemID:      svc.ID,
		Title:       svc.Title,
		Category:    svc.Category,
		Description: svc.Description,
		Price:       svc.Price,
		Icon:        svc.Icon,
		Badge:       svc.Badge,
	}
	card.Rating, card.Reviews = averageRating(svc.Reviews)
	return newTiltCard(em, target, caps, tiltCfg, card, func() {
		if onOrder != nil {
			onOrder(svc)
		}
	})
}

// NewPortfolioCard 创建作品集卡片实体
// 倾斜、光晕和悬停缩放与服务卡片相同，点击时把作品交给 onOrder
func NewPortfolioCard(
	em *ecs.EntityManager,
	target host.EventTarget,
	caps host.Capabilities,
	item config.PortfolioConfig,
	tiltCfg config.TiltConfig,
	onOrder func(config.PortfolioConfig),
) ecs.EntityID {
	card := &components.CardComponent{
		Kind:        components.CardPortfolio,
		ItemID:      item.ID,
		Title:       item.Title,
		Category:    item.Category,
		Description: item.Description,
	}
	return newTiltCard(em, target, caps, tiltCfg, card, func() {
		if onOrder != nil {
			onOrder(item)
		}
	})
}

// newTiltCard 为卡片接上指针追踪器和倾斜光晕，并创建实体
func newTiltCard(
	em *ecs.EntityManager,
	target host.EventTarget,
	caps host.Capabilities,
	tiltCfg config.TiltConfig,
	card *components.CardComponent,
	onClick func(),
) ecs.EntityID {
	entity := em.CreateEntity()

	bounds := &components.BoundsComponent{}
	tracker := pointer.New(target, bounds.Box, caps)
	glow := tilt.New(tiltCfg.MaxTilt)

	card.Tracker = tracker
	card.Glow = glow
	card.Easer = tilt.NewEaser(tiltCfg.EaseMs, easing.OutCubic)
	card.Scale = 1
	card.Dirty = true
	card.Unbind = tilt.Bind(tracker, glow, nil)

	ecs.AddComponent(em, entity, bounds)
	ecs.AddComponent(em, entity, card)
	ecs.AddComponent(em, entity, &components.UIComponent{State: components.UINormal})
	ecs.AddComponent(em, entity, &components.ClickableComponent{
		IsEnabled: true,
		OnClick:   onClick,
	})
	return entity
}

// DestroyCard 解除卡片的指针绑定并销毁实体
func DestroyCard(em *ecs.EntityManager, id ecs.EntityID) {
	if card, ok := ecs.GetComponent[*components.CardComponent](em, id); ok {
		if card.Unbind != nil {
			card.Unbind()
		}
		if card.Tracker != nil {
			card.Tracker.Close()
		}
		if card.Face != nil {
			card.Face.Deallocate()
			card.Face = nil
		}
		if card.Composite != nil {
			card.Composite.Deallocate()
			card.Composite = nil
		}
	}
	em.DestroyEntity(id)
}

func averageRating(reviews []config.ReviewConfig) (float64, int) {
	if len(reviews) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews)), len(reviews)
}
