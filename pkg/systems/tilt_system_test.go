package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/internal/pointer"
	"github.com/decker502/halabi/internal/tilt"
	"github.com/decker502/halabi/pkg/components"
	"github.com/decker502/halabi/pkg/ecs"
)

func newTiltCard(em *ecs.EntityManager, easeMs float64) *components.CardComponent {
	card := &components.CardComponent{
		Glow:  tilt.New(10),
		Easer: tilt.NewEaser(easeMs, nil),
		Scale: 1,
	}
	ecs.AddComponent(em, em.CreateEntity(), card)
	return card
}

func TestTiltSystem_EasesTowardsGlowState(t *testing.T) {
	em := ecs.NewEntityManager()
	card := newTiltCard(em, 100)
	sys := NewTiltSystem(em, 1.05)

	box := host.Rect{W: 200, H: 100}
	exact := card.Glow.OnPointerMove(pointer.Sample{Local: pointer.Point{X: 200, Y: 0}, Box: box})

	sys.Update(0.05)
	assert.True(t, card.Hovered)
	assert.Greater(t, card.Displayed.RotateY, 0.0)
	assert.Less(t, card.Displayed.RotateY, exact.RotateY)

	sys.Update(0.05)
	assert.Equal(t, exact, card.Displayed)
}

func TestTiltSystem_ZeroDurationSnaps(t *testing.T) {
	em := ecs.NewEntityManager()
	card := newTiltCard(em, 0)
	sys := NewTiltSystem(em, 1.05)

	exact := card.Glow.OnPointerMove(pointer.Sample{Local: pointer.Point{X: 50, Y: 25}, Box: host.Rect{W: 100, H: 100}})
	sys.Update(1.0 / 60)
	assert.Equal(t, exact, card.Displayed)

	card.Glow.OnPointerLeave()
	sys.Update(1.0 / 60)
	assert.Equal(t, tilt.Rest, card.Displayed)
	assert.False(t, card.Hovered)
}

func TestTiltSystem_HoverScaleConverges(t *testing.T) {
	em := ecs.NewEntityManager()
	card := newTiltCard(em, 0)
	sys := NewTiltSystem(em, 1.1)

	card.Glow.OnPointerMove(pointer.Sample{Local: pointer.Point{X: 10, Y: 10}, Box: host.Rect{W: 100, H: 100}})
	for i := 0; i < 60; i++ {
		sys.Update(1.0 / 60)
	}
	assert.Equal(t, 1.1, card.Scale)

	card.Glow.OnPointerLeave()
	for i := 0; i < 60; i++ {
		sys.Update(1.0 / 60)
	}
	assert.Equal(t, 1.0, card.Scale)
}

func TestTiltSystem_NonPositiveHoverScaleDisablesScaling(t *testing.T) {
	em := ecs.NewEntityManager()
	card := newTiltCard(em, 0)
	sys := NewTiltSystem(em, 0)
	sys.SetHoverScale(-1)

	card.Glow.OnPointerMove(pointer.Sample{Local: pointer.Point{X: 10, Y: 10}, Box: host.Rect{W: 100, H: 100}})
	sys.Update(1.0 / 60)
	assert.Equal(t, 1.0, card.Scale)
}
