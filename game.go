/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

type Phase string

const (
	PhaseGameWaiting       Phase = "GAME_WAITING"
	PhaseGameInstructions  Phase = "GAME_INSTRUCTIONS"
	PhaseRoundStart        Phase = "ROUND_START"
	PhaseQuestionReady     Phase = "QUESTION_READY"
	PhaseQuestionStart     Phase = "QUESTION_START"
	PhaseQuestionAnswered  Phase = "QUESTION_ANSWERED"
	PhaseQuestionMissed    Phase = "QUESTION_MISSED"
	PhaseRoundInterstitial Phase = "ROUND_INTERSTITIAL"
	PhaseRoundEnd          Phase = "ROUND_END"
	PhaseGameOver          Phase = "GAME_OVER"
)

const (
	scoredRounds = 3
	finalRound   = 4
)

func (p Phase) valid() bool {
	switch p {
	case PhaseGameWaiting, PhaseGameInstructions, PhaseRoundStart,
		PhaseQuestionReady, PhaseQuestionStart, PhaseQuestionAnswered,
		PhaseQuestionMissed, PhaseRoundInterstitial, PhaseRoundEnd, PhaseGameOver:
		return true
	}
	return false
}

// holdsQuestion reports whether the active question survives in this phase.
func (p Phase) holdsQuestion() bool {
	switch p {
	case PhaseQuestionReady, PhaseQuestionStart, PhaseQuestionAnswered, PhaseQuestionMissed:
		return true
	}
	return false
}

type Player struct {
	Name    string            `json:"name"`
	Joined  bool              `json:"joined"`
	Ready   bool              `json:"ready"`
	Guessed bool              `json:"guessed"`
	Round   [scoredRounds]int `json:"round"`
}

// Game is the whole shared state of one show. It is only ever touched from
// the Machine's run loop.
type Game struct {
	Phase         Phase
	RoundNumber   int
	QuestionsLeft int
	LastAnswer    string
	Ready         bool
	Question      *Question
	Timer         int
	Players       []*Player
}

func newGame(questionCount int) *Game {
	return &Game{
		Phase:         PhaseGameWaiting,
		RoundNumber:   1,
		QuestionsLeft: questionCount,
	}
}

func (g *Game) find(name string) *Player {
	for _, p := range g.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// join marks an existing player as joined, or appends a new one.
func (g *Game) join(name string) *Player {
	if p := g.find(name); p != nil {
		p.Joined = true
		return p
	}

	p := &Player{Name: name, Joined: true}
	g.Players = append(g.Players, p)

	return p
}

// leave keeps the record so scores survive a reconnect.
func (g *Game) leave(name string) {
	if p := g.find(name); p != nil {
		p.Joined = false
		p.Ready = false
	}
}

func (g *Game) markReady(name string) {
	if p := g.find(name); p != nil {
		p.Ready = true
	}
}

func (g *Game) clearReady() {
	for _, p := range g.Players {
		p.Ready = false
	}
}

func (g *Game) readyCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Ready {
			n++
		}
	}
	return n
}

// allJoined requires every tracked player, including departed ones, to be
// present again.
func (g *Game) allJoined(minPlayers int) bool {
	if len(g.Players) < minPlayers {
		return false
	}
	for _, p := range g.Players {
		if !p.Joined {
			return false
		}
	}
	return true
}

func (g *Game) allJoinedReady(minPlayers int) bool {
	joined := 0
	for _, p := range g.Players {
		if !p.Joined {
			continue
		}
		if !p.Ready {
			return false
		}
		joined++
	}
	return joined > 0 && joined >= minPlayers
}

func (g *Game) playersCopy() []Player {
	players := make([]Player, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, *p)
	}
	return players
}
