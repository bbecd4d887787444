package pitstop

import (
	"fmt"
	"time"
)

type (
	PartType int
	// Part is a section of the remaining race, either a stint or a pit stop
	Part interface {
		Type() PartType
		Output() string
	}
	StintPart interface {
		Part
		Laps() int
		LapStart() int
		LapEnd() int
		StartAge() int
		StintTime() time.Duration
	}
	PitPart interface {
		Part
		Lap() int
		PitTime() time.Duration
	}
)

const (
	PartTypeStint PartType = iota
	PartTypePit
)

type (
	stintPart struct {
		laps      int
		lapStart  int
		lapEnd    int
		startAge  int
		stintTime time.Duration
	}
	pitPart struct {
		lap     int
		pitTime time.Duration
	}
)

func toDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

func (s stintPart) Type() PartType {
	return PartTypeStint
}

func (s stintPart) Laps() int {
	return s.laps
}

func (s stintPart) LapStart() int {
	return s.lapStart
}

func (s stintPart) LapEnd() int {
	return s.lapEnd
}

func (s stintPart) StartAge() int {
	return s.startAge
}

func (s stintPart) StintTime() time.Duration {
	return s.stintTime
}

func (s stintPart) Output() string {
	return fmt.Sprintf("%d-%d (%d, age %d): %s",
		s.lapStart, s.lapEnd, s.laps, s.startAge, s.stintTime.Round(time.Millisecond))
}

func (p pitPart) Type() PartType {
	return PartTypePit
}

func (p pitPart) Lap() int {
	return p.lap
}

func (p pitPart) PitTime() time.Duration {
	return p.pitTime
}

func (p pitPart) Output() string {
	return fmt.Sprintf("Pit after lap %d: %s", p.lap, p.pitTime.Round(time.Millisecond))
}
