package automation

import (
	"github.com/san-kum/particlesim/internal/dynamo"
)

// timeEpsilon lets a command scheduled on a frame boundary fire on that
// frame despite rounding in the accumulated clock.
const timeEpsilon = 1e-9

// Player replays a script against a target, firing each command once.
type Player struct {
	cmds  []Command
	next  int
	apply func(Command) error
	err   error
	fired []Command
}

func NewPlayer(s *Script, apply func(Command) error) *Player {
	return &Player{cmds: append([]Command(nil), s.Commands...), apply: apply}
}

// Advance applies, in order, every pending command due at or before t. It
// stops at the first failing command.
func (p *Player) Advance(t float64) error {
	for p.next < len(p.cmds) && p.cmds[p.next].At <= t+timeEpsilon {
		c := p.cmds[p.next]
		p.next++
		if err := p.apply(c); err != nil {
			return err
		}
		p.fired = append(p.fired, c)
	}
	return nil
}

// OnStep lets a Player ride along a simulator run as an observer. The first
// error is kept and no further commands fire.
func (p *Player) OnStep(x dynamo.State, t float64) {
	if p.err != nil {
		return
	}
	p.err = p.Advance(t)
}

func (p *Player) Err() error { return p.err }

// Done reports whether every command has fired.
func (p *Player) Done() bool { return p.next >= len(p.cmds) }

// Fired lists the commands applied so far.
func (p *Player) Fired() []Command { return append([]Command(nil), p.fired...) }
