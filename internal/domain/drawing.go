package domain

type StrokeKind string

const (
	StrokeStart StrokeKind = "start"
	StrokeDraw  StrokeKind = "draw"
)

type DrawStroke struct {
	Kind  StrokeKind `json:"kind"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	Color string     `json:"color"`
	Width float64    `json:"width"`
}
