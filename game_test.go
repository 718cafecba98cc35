package main

import "testing"

func TestGame_JoinIsUpsertByName(t *testing.T) {
	g := newGame(5)

	g.join("alice")
	g.find("alice").Round[0] = 3
	g.leave("alice")
	g.join("alice")
	g.join("alice")

	if len(g.Players) != 1 {
		t.Fatalf("got %d players, want 1", len(g.Players))
	}

	alice := g.Players[0]
	if !alice.Joined {
		t.Error("alice should be joined again")
	}
	if alice.Round != [3]int{3, 0, 0} {
		t.Errorf("scores %v, want [3 0 0] preserved across leave", alice.Round)
	}
}

func TestGame_NewPlayerDefaults(t *testing.T) {
	g := newGame(5)
	p := g.join("bob")

	if !p.Joined || p.Ready || p.Guessed || p.Round != [3]int{} {
		t.Errorf("new player %+v, want joined with zeroed state", p)
	}
}

func TestGame_JoinOrderIsKept(t *testing.T) {
	g := newGame(5)
	for _, name := range []string{"c", "a", "b", "a"} {
		g.join(name)
	}

	var got []string
	for _, p := range g.Players {
		got = append(got, p.Name)
	}
	if len(got) != 3 || got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Errorf("order %v, want [c a b]", got)
	}
}

func TestGame_LeaveClearsReady(t *testing.T) {
	g := newGame(5)
	g.join("alice")
	g.markReady("alice")
	g.leave("alice")

	if p := g.find("alice"); p.Joined || p.Ready {
		t.Errorf("alice %+v, want neither joined nor ready", p)
	}

	g.leave("nobody")
	g.markReady("nobody")
	if len(g.Players) != 1 {
		t.Error("unknown names should not create players")
	}
}

func TestGame_AllJoinedReady(t *testing.T) {
	g := newGame(5)

	if g.allJoinedReady(0) {
		t.Error("empty roster should never be ready")
	}

	for _, name := range []string{"a", "b", "c", "d"} {
		g.join(name)
	}
	if g.allJoinedReady(4) {
		t.Error("nobody is ready yet")
	}

	for _, name := range []string{"a", "b", "c"} {
		g.markReady(name)
	}
	if g.allJoinedReady(4) {
		t.Error("d is not ready")
	}

	g.markReady("d")
	if !g.allJoinedReady(4) {
		t.Error("everyone joined is ready")
	}

	g.leave("d")
	if g.allJoinedReady(4) {
		t.Error("only three joined players, below the minimum")
	}
	if !g.allJoinedReady(3) {
		t.Error("departed players should not block readiness")
	}
}

func TestGame_AllJoined(t *testing.T) {
	g := newGame(5)

	if g.allJoined(1) {
		t.Error("empty roster is below the minimum")
	}

	g.join("a")
	g.join("b")
	if g.allJoined(3) {
		t.Error("two players are below a minimum of three")
	}
	if !g.allJoined(2) {
		t.Error("two joined players meet a minimum of two")
	}

	g.join("c")
	g.leave("c")
	if g.allJoined(2) {
		t.Error("a departed player should hold the lobby")
	}
}

func TestGame_ClearReadyAndCount(t *testing.T) {
	g := newGame(5)
	g.join("a")
	g.join("b")
	g.markReady("a")
	g.markReady("b")

	if n := g.readyCount(); n != 2 {
		t.Errorf("readyCount %d, want 2", n)
	}

	g.clearReady()
	if n := g.readyCount(); n != 0 {
		t.Errorf("readyCount %d, want 0", n)
	}
}
