/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
)

var errMachineStopped = errors.New("game loop is not running")

type inbound struct {
	client *Client
	event  Event
}

// Machine owns the Game and every collaborator that touches it. All state
// changes happen on the goroutine running Run, so none of it is locked.
type Machine struct {
	cfg    *Config
	rules  Rules
	game   *Game
	store  *Store
	source QuestionSource
	clock  *Clock
	conns  *Channel

	connects    chan *Client
	disconnects chan *Client
	events      chan inbound
	resets      chan chan struct{}
	done        chan struct{}
}

// newMachine restores the last snapshot from store, or starts a fresh game
// when there is none.
func newMachine(cfg *Config, rules Rules, store *Store, source QuestionSource, clock *Clock) (*Machine, error) {
	m := &Machine{
		cfg:         cfg,
		rules:       rules,
		store:       store,
		source:      source,
		clock:       clock,
		conns:       newChannel(),
		connects:    make(chan *Client),
		disconnects: make(chan *Client),
		events:      make(chan inbound, 64),
		resets:      make(chan chan struct{}),
		done:        make(chan struct{}),
	}

	snap, found, err := store.Load()
	if err != nil {
		return nil, err
	}

	if found {
		m.game = snap.restore(rules.QuestionCount)
		logf(cfg, "STORE: Restored %s in round %d with %d players", m.game.Phase, m.game.RoundNumber, len(m.game.Players))
	} else {
		m.game = newGame(rules.QuestionCount)
	}

	return m, nil
}

// Run drives the game until ctx is cancelled. It only returns an error when
// the game cannot continue, such as an exhausted question bank.
func (m *Machine) Run(ctx context.Context) error {
	ticker := m.clock.newTicker()

	defer close(m.done)
	defer ticker.Stop()
	defer m.conns.closeAll()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.Chan():
			if err := m.tick(); err != nil {
				return err
			}

		case c := <-m.connects:
			m.conns.add(c)

		case c := <-m.disconnects:
			m.conns.remove(c)

		case in := <-m.events:
			m.handle(in.client, in.event)

		case done := <-m.resets:
			m.reset()
			close(done)
		}
	}
}

func (m *Machine) connect(c *Client) bool {
	select {
	case m.connects <- c:
		return true
	case <-m.done:
		return false
	}
}

func (m *Machine) disconnect(c *Client) {
	select {
	case m.disconnects <- c:
	case <-m.done:
	}
}

func (m *Machine) submit(c *Client, ev Event) bool {
	select {
	case m.events <- inbound{client: c, event: ev}:
		return true
	case <-m.done:
		return false
	}
}

// Reset discards the game and its snapshot and waits for the loop to
// broadcast the fresh lobby.
func (m *Machine) Reset(ctx context.Context) error {
	done := make(chan struct{})

	select {
	case m.resets <- done:
	case <-m.done:
		return errMachineStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Machine) tick() error {
	g := m.game

	if g.Timer > 0 {
		g.Timer--
		if shortcut(g, m.rules) {
			g.Timer = 0
		}
		return nil
	}

	return m.apply(decide(g, m.rules))
}

func (m *Machine) apply(t transition) error {
	g := m.game

	if t.ping {
		m.ping()
	}

	if !t.moves() {
		return nil
	}

	if t.nextRound {
		g.QuestionsLeft = m.rules.QuestionCount
		g.RoundNumber = min(g.RoundNumber+1, finalRound)
	}

	if t.banner {
		g.clearReady()
		g.Ready = true
	}

	if t.draw {
		q, err := m.source.Next()
		if err != nil {
			return fmt.Errorf("draw question for round %d: %w", g.RoundNumber, err)
		}

		g.Question = &q
		g.LastAnswer = ""

		logf(m.cfg, "GAMES: Drew question %q", q.Prompt)
	}

	m.setPhase(t.next, t.seconds)

	return nil
}

// setPhase enters phase, persists the result and tells every client. The
// broadcast timer is the number of seconds just assigned.
func (m *Machine) setPhase(phase Phase, seconds int) {
	g := m.game

	g.Phase = phase
	if !phase.holdsQuestion() {
		g.Question = nil
	}
	if phase != PhaseQuestionAnswered {
		g.LastAnswer = ""
	}
	g.Timer = m.clock.ticksFor(seconds)

	m.persist()
	m.conns.publish(phaseMessage(g, seconds))

	logf(m.cfg, "GAMES: Entered %s (round %d, %d questions left, %ds)", phase, g.RoundNumber, g.QuestionsLeft, seconds)
}

func (m *Machine) ping() {
	m.game.clearReady()
	m.conns.publish(pingMessage())
}

func (m *Machine) persist() {
	written, err := m.store.Save(snapshotOf(m.game))
	if err != nil {
		logErr(err)

		return
	}

	logf(m.cfg, "STORE: Saved %s snapshot (%s)", m.game.Phase, humanReadableSize(written))
}

func (m *Machine) reset() {
	if err := m.store.Reset(); err != nil {
		logErr(err)
	}

	m.game = newGame(m.rules.QuestionCount)
	m.setPhase(PhaseGameWaiting, 0)

	logf(m.cfg, "GAMES: Game reset")
}

func (m *Machine) handle(from *Client, ev Event) {
	g := m.game

	switch ev := ev.(type) {
	case JoinEvent:
		g.join(ev.Player)
		if g.Phase != PhaseGameWaiting {
			m.conns.unicast(from, phaseMessage(g, m.clock.secondsFor(g.Timer)))
		}
		m.persist()

		logf(m.cfg, "GAMES: Player %q joined", ev.Player)

	case LeaveEvent:
		g.leave(ev.Player)
		m.persist()

		logf(m.cfg, "GAMES: Player %q left", ev.Player)

	case ReadyEvent:
		g.join(ev.Player)
		g.markReady(ev.Player)

	case AnswerEvent:
		m.submitAnswer(from, ev.Player, ev.Answer)

	case StartEvent, EndEvent:
	}
}

// submitAnswer scores the first correct answer to the open question. Once a
// player has scored, later answers are ignored until the next question.
func (m *Machine) submitAnswer(from *Client, name string, answer Answer) {
	g := m.game

	if g.LastAnswer != "" || g.Question == nil || g.Phase != PhaseQuestionStart {
		return
	}

	p := g.find(name)
	if p == nil {
		return
	}

	if answer != g.Question.Answer {
		m.conns.unicast(from, incorrectMessage())
		return
	}

	g.QuestionsLeft = max(g.QuestionsLeft-1, 0)

	if i := g.RoundNumber - 1; i >= 0 && i < len(p.Round) {
		p.Round[i]++
	} else {
		logf(m.cfg, "GAMES: Round %d is not scored, %q gets no point", g.RoundNumber, p.Name)
	}

	g.LastAnswer = p.Name

	logf(m.cfg, "GAMES: Player %q answered correctly", p.Name)

	m.setPhase(PhaseQuestionAnswered, answeredTime)
}
