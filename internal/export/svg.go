// Package export renders stored body trajectories as standalone SVG plots.
package export

import (
	"fmt"
	"strings"
)

// Point is one projected trajectory sample.
type Point struct {
	X, Y float64
}

// TrajectoryToSVG draws a polyline through the points, auto-scaled with
// 10% padding, on a dark background.
func TrajectoryToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// Axis indices accepted by BodyTrajectory.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

// BodyTrajectory projects one body's stored coordinates onto a pair of
// axes. Each state row holds x,y,z triples in body order.
func BodyTrajectory(states [][]float64, bodyIndex, axisA, axisB int) ([]Point, error) {
	if axisA < AxisX || axisA > AxisZ || axisB < AxisX || axisB > AxisZ {
		return nil, fmt.Errorf("export: axis out of range (0-2)")
	}

	points := make([]Point, 0, len(states))
	for _, row := range states {
		base := bodyIndex * 3
		if base+2 >= len(row) {
			return nil, fmt.Errorf("export: body index %d out of range for %d columns", bodyIndex, len(row))
		}
		points = append(points, Point{X: row[base+axisA], Y: row[base+axisB]})
	}
	return points, nil
}
