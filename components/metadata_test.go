package components

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindPlayer, "Player"},
		{KindShark, "Shark"},
		{KindFortBoss, "FortBoss"},
		{Kind(200), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}

	if len(KindNames()) != int(NumKinds) {
		t.Errorf("len(KindNames()) = %d, want %d", len(KindNames()), NumKinds)
	}
}

func TestAgentAlliedAndAlive(t *testing.T) {
	a := Agent{Alliance: 3, Health: 10}
	b := Agent{Alliance: 3, Health: 0}
	c := Agent{Alliance: 0}
	d := Agent{Alliance: 0}

	if !a.Allied(&b) {
		t.Error("agents in the same alliance should be allied")
	}
	if c.Allied(&d) {
		t.Error("alliance zero must never count as allied")
	}
	if !a.Alive() {
		t.Error("agent with health should be alive")
	}
	if b.Alive() {
		t.Error("agent with zero health should not be alive")
	}
	a.Dead = true
	if a.Alive() {
		t.Error("agent marked dead should not be alive")
	}
}
