/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"time"

	"github.com/jonboulle/clockwork"
)

const defaultTick = 100 * time.Millisecond

// Clock is the fixed-interval heartbeat of the show. Phase timers are counted
// in ticks of this clock.
type Clock struct {
	clock    clockwork.Clock
	interval time.Duration
}

func newClock(clock clockwork.Clock, interval time.Duration) *Clock {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = defaultTick
	}

	return &Clock{clock: clock, interval: interval}
}

func (c *Clock) newTicker() clockwork.Ticker {
	return c.clock.NewTicker(c.interval)
}

func (c *Clock) ticksPerSecond() int {
	return max(int(time.Second/c.interval), 1)
}

// ticksFor converts a phase duration in whole seconds to ticks.
func (c *Clock) ticksFor(seconds int) int {
	return seconds * c.ticksPerSecond()
}

// secondsFor rounds a tick count up to whole seconds.
func (c *Clock) secondsFor(ticks int) int {
	tps := c.ticksPerSecond()
	return (ticks + tps - 1) / tps
}
