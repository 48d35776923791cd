package game

import "testing"

func TestBoostExpiresAtTick(t *testing.T) {
	var b Boosts
	b.Activate(BoostSpeed, 10, 5)

	for tick := uint64(10); tick < 15; tick++ {
		if !b.Active(BoostSpeed, tick) {
			t.Errorf("inactive at tick %d", tick)
		}
	}
	if b.Active(BoostSpeed, 15) {
		t.Error("still active at expiry tick")
	}
	if b.Active(BoostShield, 10) {
		t.Error("shield active without activation")
	}
}

func TestBoostExtendAndConsume(t *testing.T) {
	var b Boosts
	b.Activate(BoostShield, 0, 10)
	b.Activate(BoostShield, 2, 3) // shorter, keeps the later expiry

	if got := b.Remaining(BoostShield, 4); got != 6 {
		t.Errorf("Remaining = %d, want 6", got)
	}
	if !b.Consume(BoostShield, 4) {
		t.Fatal("Consume on an active boost returned false")
	}
	if b.Consume(BoostShield, 4) {
		t.Error("boost consumed twice")
	}

	b.Activate(BoostSpeed, 0, 3)
	snap := b.Snapshot(1)
	if len(snap) != 1 || snap[0].Kind != BoostSpeed || snap[0].Remaining != 2 {
		t.Errorf("Snapshot = %+v", snap)
	}

	b.Reset()
	if b.Active(BoostSpeed, 1) {
		t.Error("active after Reset")
	}
}
