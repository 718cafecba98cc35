package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		in   string
		want Event
		ok   bool
	}{
		{`{"action":"joinPlayer","player":"alice"}`, JoinEvent{Player: "alice"}, true},
		{`{"action":"leavePlayer","player":"alice"}`, LeaveEvent{Player: "alice"}, true},
		{`{"action":"reportReady","player":"alice"}`, ReadyEvent{Player: "alice"}, true},
		{`{"action":"answer","player":"alice","answer":"Paris"}`, AnswerEvent{Player: "alice", Answer: "Paris"}, true},
		{`{"action":"answer","player":"alice","answer":2}`, AnswerEvent{Player: "alice", Answer: "2"}, true},
		{`{"action":"start"}`, StartEvent{}, true},
		{`{"action":"end"}`, EndEvent{}, true},
		{`{"action":"joinPlayer"}`, nil, false},
		{`{"action":"joinPlayer","player":null}`, nil, false},
		{`{"action":"joinPlayer","player":""}`, nil, false},
		{`{"action":"dance","player":"alice"}`, nil, false},
		{`"joinPlayer"`, nil, false},
		{`[1, 2]`, nil, false},
		{`null`, nil, false},
		{`not json at all`, nil, false},
	}

	for _, tt := range tests {
		got, ok := parseEvent([]byte(tt.in))
		if ok != tt.ok {
			t.Errorf("%s: ok %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestPhaseMessage_Shape(t *testing.T) {
	g := newGame(5)
	g.Phase = PhaseQuestionAnswered
	g.LastAnswer = "alice"
	g.join("alice")

	data, err := json.Marshal(phaseMessage(g, 10))
	if err != nil {
		t.Fatal(err)
	}

	out := string(data)
	for _, want := range []string{
		`"action":"setPhase"`,
		`"phase":"QUESTION_ANSWERED"`,
		`"lastAnswer":"alice"`,
		`"timer":10`,
		`"round":[0,0,0]`,
		`"question":null`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("message missing %s: %s", want, out)
		}
	}

	g.LastAnswer = ""
	data, _ = json.Marshal(phaseMessage(g, 0))
	if !strings.Contains(string(data), `"lastAnswer":null`) {
		t.Errorf("empty lastAnswer should encode as null: %s", data)
	}
}

func TestPhaseMessage_CopiesState(t *testing.T) {
	g := newGame(5)
	g.join("alice")

	msg := phaseMessage(g, 0)
	g.find("alice").Round[0] = 7

	if msg.Params.Game.Players[0].Round[0] != 0 {
		t.Error("queued messages should not see later mutations")
	}
}

func TestSimpleMessages(t *testing.T) {
	for msg, want := range map[string]string{
		"ping":      `{"action":"ping"}`,
		"incorrect": `{"action":"incorrect"}`,
	} {
		var m ServerMessage
		if msg == "ping" {
			m = pingMessage()
		} else {
			m = incorrectMessage()
		}

		data, err := json.Marshal(m)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != want {
			t.Errorf("%s encoded as %s, want %s", msg, data, want)
		}
	}
}
