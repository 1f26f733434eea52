package persona

import "testing"

func TestCatalogShape(t *testing.T) {
	all := List()
	if len(all) < 5 {
		t.Fatalf("catalog has %d personas, want at least 5", len(all))
	}

	seen := map[string]bool{}
	moderators := 0
	for _, p := range all {
		if seen[p.ID] {
			t.Errorf("duplicate persona id %q", p.ID)
		}
		seen[p.ID] = true
		if p.SystemPrompt == "" || p.DisplayName == "" {
			t.Errorf("persona %q missing prompt or name", p.ID)
		}
		if p.FunctionalRole == RoleModerator {
			moderators++
		}
	}
	if moderators != 1 {
		t.Errorf("catalog has %d moderators, want exactly 1", moderators)
	}
	if Moderator().ID != "arbiter" {
		t.Errorf("moderator = %q", Moderator().ID)
	}
	if len(Debaters()) != len(all)-1 {
		t.Errorf("debater pool size = %d", len(Debaters()))
	}
}

func TestGet(t *testing.T) {
	if p := Get("sentinel"); p == nil || p.DisplayName != "The Sentinel" {
		t.Errorf("Get(sentinel) = %+v", p)
	}
	if p := Get("nobody"); p != nil {
		t.Errorf("Get(nobody) = %+v, want nil", p)
	}
}

func TestScoreForTopicsCaseInsensitive(t *testing.T) {
	p := Definition{TopicAffinityTags: []string{"Finance", "risk"}}
	if got := ScoreForTopics(p, []string{"FINANCE", "cooking"}); got != 1 {
		t.Errorf("score = %d, want 1", got)
	}
	// Substring overlap counts in both directions
	if got := ScoreForTopics(p, []string{"financial risk analysis"}); got != 2 {
		t.Errorf("substring score = %d, want 2", got)
	}
	if got := ScoreForTopics(p, nil); got != 0 {
		t.Errorf("empty topics score = %d, want 0", got)
	}
}

func TestAutoStaffDeterministic(t *testing.T) {
	topics := []string{"career", "learning", "risk"}
	first := AutoStaff(topics)
	for i := 0; i < 50; i++ {
		again := AutoStaff(topics)
		if again.VisionarySeat.ID != first.VisionarySeat.ID ||
			again.SkepticSeat.ID != first.SkepticSeat.ID {
			t.Fatalf("call %d differs: %s/%s vs %s/%s", i,
				again.VisionarySeat.ID, again.SkepticSeat.ID,
				first.VisionarySeat.ID, first.SkepticSeat.ID)
		}
	}
	if first.VisionarySeat.ID == first.SkepticSeat.ID {
		t.Error("seats share a persona")
	}
}

func TestAutoStaffMatchesAffinity(t *testing.T) {
	s := AutoStaff([]string{"career", "learning"})
	// Both career-tagged personas should win the seats
	got := map[string]bool{s.VisionarySeat.ID: true, s.SkepticSeat.ID: true}
	if !got["navigator"] || !got["quartermaster"] {
		t.Errorf("staffing = %s/%s, want navigator and quartermaster seated",
			s.VisionarySeat.ID, s.SkepticSeat.ID)
	}
}

func TestAutoStaffNoOverlapStillDistinct(t *testing.T) {
	s := AutoStaff([]string{"zzyzx", "qwertyuiop"})
	if s.VisionarySeat.ID == s.SkepticSeat.ID {
		t.Fatal("no-overlap staffing returned the same persona twice")
	}
	if s.VisionarySeat.FunctionalRole == RoleModerator ||
		s.SkepticSeat.FunctionalRole == RoleModerator {
		t.Error("moderator persona must not be staffed on an adversarial seat")
	}
}

func TestRandomizeNeverPairsSamePersona(t *testing.T) {
	for i := 0; i < 1000; i++ {
		s := Randomize()
		if s.VisionarySeat.ID == s.SkepticSeat.ID {
			t.Fatalf("trial %d: both seats got %q", i, s.VisionarySeat.ID)
		}
		if s.VisionarySeat.FunctionalRole == RoleModerator ||
			s.SkepticSeat.FunctionalRole == RoleModerator {
			t.Fatalf("trial %d: moderator persona seated", i)
		}
	}
}

func TestRandomizeCoversPool(t *testing.T) {
	hit := map[string]bool{}
	for i := 0; i < 1000; i++ {
		s := Randomize()
		hit[s.VisionarySeat.ID] = true
		hit[s.SkepticSeat.ID] = true
	}
	if len(hit) != len(Debaters()) {
		t.Errorf("1000 trials reached %d personas, pool has %d", len(hit), len(Debaters()))
	}
}
