/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// Phase timers, in seconds.
const (
	roundStartTime    = 5
	questionReadyTime = 7
	questionTime      = 20
	answeredTime      = 10
	missedTime        = 10
	roundEndTime      = 10
)

// Rules are the tunable parameters of a show.
type Rules struct {
	MinPlayers    int
	IdealPlayers  int
	QuestionCount int
	WaitTime      int
}

// transition describes what one evaluation of an expired phase should do.
// An empty next phase means the game stays where it is.
type transition struct {
	next    Phase
	seconds int

	// ping clears every ready flag and asks clients to re-affirm.
	ping bool
	// banner clears every ready flag and raises the round-ready banner.
	banner bool
	// nextRound refills questionsLeft and advances roundNumber.
	nextRound bool
	// draw pulls a fresh question and clears lastAnswer.
	draw bool
}

func (t transition) moves() bool {
	return t.next != ""
}

// shortcut reports whether a running countdown should be cut to zero.
func shortcut(g *Game, r Rules) bool {
	return g.Phase == PhaseGameInstructions && g.readyCount() >= r.IdealPlayers
}

// decide evaluates the current phase once its countdown has expired. It does
// not mutate g.
func decide(g *Game, r Rules) transition {
	switch g.Phase {
	case PhaseGameWaiting:
		if g.allJoined(r.MinPlayers) {
			return transition{next: PhaseGameInstructions, seconds: r.WaitTime, banner: true}
		}

	case PhaseGameInstructions:
		if g.allJoinedReady(r.MinPlayers) {
			return transition{next: PhaseRoundStart, seconds: roundStartTime}
		}

	case PhaseRoundStart, PhaseQuestionAnswered, PhaseQuestionMissed:
		if g.QuestionsLeft == 0 {
			if g.RoundNumber+1 == 2 {
				return transition{next: PhaseRoundInterstitial, nextRound: true, banner: true}
			}
			return transition{next: PhaseRoundEnd, seconds: roundEndTime, nextRound: true}
		}
		return transition{next: PhaseQuestionReady, seconds: questionReadyTime, ping: true}

	case PhaseQuestionReady:
		if g.allJoinedReady(r.MinPlayers) {
			return transition{next: PhaseQuestionStart, seconds: questionTime, draw: true}
		}
		return transition{ping: true}

	case PhaseQuestionStart:
		return transition{next: PhaseQuestionMissed, seconds: missedTime}

	case PhaseRoundInterstitial:
		if g.allJoinedReady(r.MinPlayers) {
			return transition{next: PhaseRoundEnd, seconds: roundEndTime}
		}

	case PhaseRoundEnd:
		if g.RoundNumber == finalRound {
			return transition{next: PhaseGameOver}
		}
		return transition{next: PhaseRoundStart, seconds: roundStartTime}
	}

	return transition{}
}
