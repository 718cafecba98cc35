/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
)

// Messages coming from clients. Each concrete type is one action.
type Event interface {
	action() string
}

type JoinEvent struct{ Player string }
type LeaveEvent struct{ Player string }
type ReadyEvent struct{ Player string }
type StartEvent struct{}
type EndEvent struct{}

type AnswerEvent struct {
	Player string
	Answer Answer
}

func (JoinEvent) action() string { return "joinPlayer" }
func (LeaveEvent) action() string { return "leavePlayer" }
func (ReadyEvent) action() string { return "reportReady" }
func (AnswerEvent) action() string { return "answer" }
func (StartEvent) action() string { return "start" }
func (EndEvent) action() string { return "end" }

type clientMessage struct {
	Action string  `json:"action"`
	Player *string `json:"player"`
	Answer Answer  `json:"answer"`
}

// parseEvent decodes one inbound frame. Anything that is not a JSON object,
// lacks a player name where one is required, or names an unknown action is
// reported as not ok and should be dropped without a reply.
func parseEvent(data []byte) (Event, bool) {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, false
	}

	switch msg.Action {
	case "start":
		return StartEvent{}, true
	case "end":
		return EndEvent{}, true
	}

	if msg.Player == nil || *msg.Player == "" {
		return nil, false
	}

	switch msg.Action {
	case "joinPlayer":
		return JoinEvent{Player: *msg.Player}, true
	case "leavePlayer":
		return LeaveEvent{Player: *msg.Player}, true
	case "reportReady":
		return ReadyEvent{Player: *msg.Player}, true
	case "answer":
		return AnswerEvent{Player: *msg.Player, Answer: msg.Answer}, true
	}

	return nil, false
}

// Messages sent to clients
type ServerMessage struct {
	Action string       `json:"action"`
	Params *PhaseParams `json:"params,omitempty"`
}

type PhaseParams struct {
	Phase Phase     `json:"phase"`
	Game  GameState `json:"game"`
}

type GameState struct {
	RoundNumber   int       `json:"roundNumber"`
	QuestionsLeft int       `json:"questionsLeft"`
	Players       []Player  `json:"players"`
	Timer         int       `json:"timer"`
	Question      *Question `json:"question"`
	Ready         bool      `json:"ready"`
	LastAnswer    *string   `json:"lastAnswer"`
}

func phaseMessage(g *Game, seconds int) ServerMessage {
	var last *string
	if g.LastAnswer != "" {
		name := g.LastAnswer
		last = &name
	}

	var question *Question
	if g.Question != nil {
		q := *g.Question
		question = &q
	}

	return ServerMessage{
		Action: "setPhase",
		Params: &PhaseParams{
			Phase: g.Phase,
			Game: GameState{
				RoundNumber:   g.RoundNumber,
				QuestionsLeft: g.QuestionsLeft,
				Players:       g.playersCopy(),
				Timer:         seconds,
				Question:      question,
				Ready:         g.Ready,
				LastAnswer:    last,
			},
		},
	}
}

func pingMessage() ServerMessage {
	return ServerMessage{Action: "ping"}
}

func incorrectMessage() ServerMessage {
	return ServerMessage{Action: "incorrect"}
}
