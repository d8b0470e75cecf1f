package event

import (
	"testing"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
)

func TestBusDeliversByKind(t *testing.T) {
	bus := NewBus()
	var matches, upgrades int
	bus.Subscribe(KindMatchFound, func(Event) { matches++ })
	bus.Subscribe(KindTowerUpgraded, func(Event) { upgrades++ })

	bus.Publish(MatchFound{TileID: "wood", Count: 3})
	bus.Publish(MatchFound{TileID: "stone", Count: 4})
	bus.Publish(TowerUpgraded{At: core.C(1, 1), NewID: "watchtower", NewLevel: 1})

	if matches != 2 || upgrades != 1 {
		t.Errorf("matches=%d upgrades=%d, want 2 and 1", matches, upgrades)
	}
}

func TestBusOrderAndUnsubscribe(t *testing.T) {
	bus := NewBus()
	var got []string
	first := bus.Subscribe(KindGameOver, func(Event) { got = append(got, "first") })
	bus.Subscribe(KindGameOver, func(Event) { got = append(got, "second") })
	bus.SubscribeAll(func(e Event) { got = append(got, "all:"+e.Kind().String()) })

	bus.Publish(GameOver{Day: 3})
	bus.Unsubscribe(first)
	bus.Publish(GameOver{Day: 4})

	want := []string{"first", "second", "all:game_over", "second", "all:game_over"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNilBusPublish(t *testing.T) {
	var bus *Bus
	bus.Publish(DayStarted{Day: 1})
}

func TestTowerUpgradedBuilt(t *testing.T) {
	if !(TowerUpgraded{OldLevel: 0, NewLevel: 1}).Built() {
		t.Error("resource to tower should count as built")
	}
	if (TowerUpgraded{OldLevel: 1, NewLevel: 2}).Built() {
		t.Error("level 1 to 2 is an upgrade, not a build")
	}
}
