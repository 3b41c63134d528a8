// Package stringutils contains quote-aware string splitters used by the header codec.
package stringutils

import "github.com/qmuntal/stateless"

type regionState int

const (
	regionOutside regionState = iota
	regionInside
)

const triggerSurrounder = "surrounder"

func newRegionMachine() *stateless.StateMachine {
	sm := stateless.NewStateMachine(regionOutside)
	sm.Configure(regionOutside).Permit(triggerSurrounder, regionInside)
	sm.Configure(regionInside).Permit(triggerSurrounder, regionOutside)
	return sm
}

// SplitIfNotBetween splits str on delim except inside regions opened and closed by surrounder.
//
// Delimiters seen inside a region are held back and dropped once the region is closed.
// When str ends inside an unterminated region, the held back delimiters become split points.
// Empty pieces are dropped.
func SplitIfNotBetween(str string, delim, surrounder byte) []string {
	sm := newRegionMachine()

	var splits, pending []int
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case delim:
			if sm.MustState() == regionInside {
				pending = append(pending, i)
			} else {
				splits = append(splits, i)
			}
		case surrounder:
			if sm.MustState() == regionInside {
				pending = pending[:0]
			}
			fire(sm, triggerSurrounder)
		}
	}
	splits = append(splits, pending...)

	pieces := make([]string, 0, len(splits)+1)
	start := 0
	for _, i := range splits {
		if i > start {
			pieces = append(pieces, str[start:i])
		}
		start = i + 1
	}
	if start < len(str) {
		pieces = append(pieces, str[start:])
	}
	return pieces
}

func fire(sm *stateless.StateMachine, trigger any) {
	if err := sm.Fire(trigger); err != nil {
		panic(err)
	}
}
