package models

import "testing"

func TestCrew_Capacity(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 5},
		{2, 7},
		{5, 13},
		{6, 15},
		{10, 15},
	}
	for _, tt := range tests {
		c := &Crew{Level: tt.level}
		if got := c.Capacity(); got != tt.want {
			t.Errorf("Capacity() at level %d = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestCrewXPForLevel(t *testing.T) {
	if got := CrewXPForLevel(1); got != 300 {
		t.Errorf("CrewXPForLevel(1) = %d, want 300", got)
	}
	if got := CrewXPForLevel(4); got != 1200 {
		t.Errorf("CrewXPForLevel(4) = %d, want 1200", got)
	}
}

func TestCrew_GrantXP(t *testing.T) {
	c := &Crew{Level: 1}
	// 300 clears level 1, 600 clears level 2, 100 left over.
	if got := c.GrantXP(1000); got != 2 {
		t.Errorf("GrantXP(1000) levels = %d, want 2", got)
	}
	if c.Level != 3 || c.XP != 100 {
		t.Errorf("after grant: level %d xp %d, want level 3 xp 100", c.Level, c.XP)
	}
}

func TestCrew_AddMember(t *testing.T) {
	c := &Crew{ID: "c1", Level: 1, CaptainID: 1}
	if !c.AddMember(CrewMember{CharacterID: 1, Role: RoleCaptain}) {
		t.Fatal("adding captain should succeed")
	}
	if c.AddMember(CrewMember{CharacterID: 2, Role: RoleCaptain}) {
		t.Error("second captain must be rejected")
	}
	if c.AddMember(CrewMember{CharacterID: 1, Role: RoleFighter}) {
		t.Error("duplicate member must be rejected")
	}
	for id := int64(2); id <= 5; id++ {
		if !c.AddMember(CrewMember{CharacterID: id, Role: RoleFighter}) {
			t.Fatalf("member %d should fit", id)
		}
	}
	if c.AddMember(CrewMember{CharacterID: 6, Role: RoleFighter}) {
		t.Error("level 1 crew caps at 5 members")
	}
}

func TestCrew_RemoveMember(t *testing.T) {
	c := &Crew{CaptainID: 1, Level: 1}
	c.AddMember(CrewMember{CharacterID: 1, Role: RoleCaptain})
	c.AddMember(CrewMember{CharacterID: 2, Role: RoleFighter})

	if c.RemoveMember(1) {
		t.Error("captain must not be removable")
	}
	if !c.RemoveMember(2) {
		t.Error("regular member should be removable")
	}
	if c.RemoveMember(2) {
		t.Error("removing twice should fail")
	}
}

func TestCrew_ChangeRole(t *testing.T) {
	c := &Crew{CaptainID: 1, Level: 1}
	c.AddMember(CrewMember{CharacterID: 1, Role: RoleCaptain})
	c.AddMember(CrewMember{CharacterID: 2, Role: RoleFighter})

	if c.ChangeRole(2, RoleCaptain) {
		t.Error("Captain role must not be grantable")
	}
	if c.ChangeRole(1, RoleFighter) {
		t.Error("the captain must keep the Captain role")
	}
	if !c.ChangeRole(2, RoleNavigator) {
		t.Error("regular role change should succeed")
	}
	m, _ := c.Member(2)
	if m.Role != RoleNavigator {
		t.Errorf("role = %q, want %q", m.Role, RoleNavigator)
	}
}

func TestCrew_RecordBounty(t *testing.T) {
	c := &Crew{}
	c.RecordBounty(5_000_000)
	if c.TotalBounty != 5_000_000 {
		t.Errorf("TotalBounty = %d, want 5000000", c.TotalBounty)
	}
	if c.Reputation != 5000 {
		t.Errorf("Reputation = %d, want 5000", c.Reputation)
	}
}

func TestCrew_Bonuses(t *testing.T) {
	c := &Crew{CaptainID: 1, Level: 3}
	c.AddMember(CrewMember{CharacterID: 1, Role: RoleCaptain})
	c.AddMember(CrewMember{CharacterID: 2, Role: RoleMusician})
	c.AddMember(CrewMember{CharacterID: 3, Role: RoleCook})

	got := c.Bonuses()
	// Captain 0.1 and Musician 0.15 both raise morale.
	if got["morale"] != 1.25 {
		t.Errorf("morale = %v, want 1.25", got["morale"])
	}
	if got["cooking"] != 1.2 {
		t.Errorf("cooking = %v, want 1.2", got["cooking"])
	}
	if got["combat"] != 1.0 {
		t.Errorf("combat = %v, want 1.0", got["combat"])
	}
}
