package main

import (
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/flocking-geese/constant"
	"github.com/lixenwraith/flocking-geese/engine"
	"github.com/lixenwraith/flocking-geese/flock"
)

const keyLegend = "spc pause · r reset · +/- size · s policy · c clear · q quit"

type action uint8

const (
	actionNone action = iota
	actionQuit
	actionPause
	actionReset
	actionGrow
	actionShrink
	actionTogglePolicy
	actionClearAttractors
)

// keyAction maps a key press to its action
func keyAction(ev *tcell.EventKey) action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyRune:
	default:
		return actionNone
	}

	switch ev.Rune() {
	case 'q', 'Q':
		return actionQuit
	case ' ', 'p':
		return actionPause
	case 'r', 'R':
		return actionReset
	case '+', '=':
		return actionGrow
	case '-', '_':
		return actionShrink
	case 's', 'S':
		return actionTogglePolicy
	case 'c', 'C':
		return actionClearAttractors
	}
	return actionNone
}

// mouseAttractor maps a button press to an attractor slot
// Left click places attractor 0, right click attractor 1
func mouseAttractor(buttons tcell.ButtonMask) (int, bool) {
	switch {
	case buttons&tcell.Button1 != 0:
		return 0, true
	case buttons&tcell.Button2 != 0:
		return 1, true
	}
	return 0, false
}

// applyAction runs act against sim; call on the scheduler goroutine
func applyAction(sim *engine.Simulation, act action, log *zap.Logger) {
	var err error
	switch act {
	case actionPause:
		sim.ToggleMode()
	case actionReset:
		err = sim.ResetCentered(sim.Size())
	case actionGrow:
		err = sim.ResetCentered(min(sim.Size()+constant.FlockSizeStep, constant.FlockSizeMax))
	case actionShrink:
		err = sim.ResetCentered(max(sim.Size()-constant.FlockSizeStep, 0))
	case actionTogglePolicy:
		if sim.Flock().Policy() == flock.NeighborsLive {
			sim.SetPolicy(flock.NeighborsSnapshot)
		} else {
			sim.SetPolicy(flock.NeighborsLive)
		}
	case actionClearAttractors:
		sim.ClearAttractors()
	}
	if err != nil {
		log.Warn("input action failed", zap.Error(err))
	}
}
