package draw

import (
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tomz197/spaceshooter/internal/physics"
)

// Point is a position in world coordinates.
type Point = physics.Vec

// Color is a 256-colour palette index. Zero means "no pixel".
type Color uint8

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. Drawing happens in world coordinates: the origin is the centre
// of the field and y grows upward.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]

	bounds physics.Bounds
	scaleX float64 // termWidth / (2 * bounds.Width)
	scaleY float64 // subPixelHeight / (2 * bounds.Height)

	// Offset for centering the render area when the terminal is larger than
	// the render resolution. 0-based columns/rows to skip.
	offsetCol int
	offsetRow int

	// Reusable buffers to reduce allocations
	renderBuf       strings.Builder
	scaledBuf       []Point
	intersectionBuf []float64
	numBuf          [20]byte
}

// NewCanvas creates a canvas of termWidth x termHeight cells showing bounds.
func NewCanvas(termWidth, termHeight int, bounds physics.Bounds) *Canvas {
	c := &Canvas{bounds: bounds}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// world bounds.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 1)
	termHeight = max(termHeight, 1)
	subPixelHeight := termHeight * 2

	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.pixels = make([]Color, subPixelHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
	}

	c.scaleX = float64(termWidth) / (2 * c.bounds.Width)
	c.scaleY = float64(subPixelHeight) / (2 * c.bounds.Height)
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// toPixel converts world coordinates to sub-pixel coordinates (not rounded).
func (c *Canvas) toPixel(p Point) (float64, float64) {
	return (p.X + c.bounds.Width) * c.scaleX, (c.bounds.Height - p.Y) * c.scaleY
}

func (c *Canvas) setPixel(x, y int, col Color) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = col
	}
}

// At returns the colour of a sub-pixel, or 0 outside the canvas.
func (c *Canvas) At(x, y int) Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return 0
	}
	return c.pixels[y*c.termWidth+x]
}

// Set sets the pixel containing world point p.
func (c *Canvas) Set(p Point, col Color) {
	px, py := c.toPixel(p)
	c.setPixel(int(math.Floor(px)), int(math.Floor(py)), col)
}

// FillRect fills every pixel whose centre lies inside r. Rectangles smaller
// than a pixel still light the pixel under their centre.
func (c *Canvas) FillRect(r physics.Rect, col Color) {
	x0, y0 := c.toPixel(Point{X: r.Center.X - r.HalfW, Y: r.Center.Y + r.HalfH})
	x1, y1 := c.toPixel(Point{X: r.Center.X + r.HalfW, Y: r.Center.Y - r.HalfH})

	xs, xe := int(math.Round(x0)), int(math.Round(x1))-1
	ys, ye := int(math.Round(y0)), int(math.Round(y1))-1
	if xe < xs || ye < ys {
		c.Set(r.Center, col)
		return
	}
	for y := ys; y <= ye; y++ {
		for x := xs; x <= xe; x++ {
			c.setPixel(x, y, col)
		}
	}
}

// FillCircle fills a circle, at least one pixel.
func (c *Canvas) FillCircle(circle physics.Circle, col Color) {
	cx, cy := c.toPixel(circle.Center)
	rx := circle.Radius * c.scaleX
	ry := circle.Radius * c.scaleY

	c.setPixel(int(math.Floor(cx)), int(math.Floor(cy)), col)
	for y := int(math.Floor(cy - ry)); y <= int(math.Ceil(cy+ry)); y++ {
		for x := int(math.Floor(cx - rx)); x <= int(math.Ceil(cx+rx)); x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				c.setPixel(x, y, col)
			}
		}
	}
}

// FillPolygon fills a polygon given in world coordinates using a scanline
// pass in pixel space.
func (c *Canvas) FillPolygon(points []Point, col Color) {
	if len(points) < 3 {
		return
	}

	if cap(c.scaledBuf) < len(points) {
		c.scaledBuf = make([]Point, len(points))
	}
	scaled := c.scaledBuf[:len(points)]
	for i, p := range points {
		x, y := c.toPixel(p)
		scaled[i] = Point{X: x, Y: y}
	}

	minY, maxY := scaled[0].Y, scaled[0].Y
	for _, p := range scaled {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		n := len(scaled)
		for i := 0; i < n; i++ {
			p1 := scaled[i]
			p2 := scaled[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				t := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+t*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections

		sort.Float64s(intersections)
		for i := 0; i+1 < len(intersections); i += 2 {
			for x := int(math.Ceil(intersections[i] - 0.5)); x <= int(math.Floor(intersections[i+1]-0.5)); x++ {
				c.setPixel(x, y, col)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
const maxChunkSize = 1400

// Render outputs the canvas using coloured half-block characters.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 16)

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			if top == 0 && bottom == 0 {
				continue
			}

			c.moveTo(col+1+c.offsetCol, row+1+c.offsetRow)
			switch {
			case top == bottom:
				c.fg(top)
				c.renderBuf.WriteRune(BlockFull)
			case bottom == 0:
				c.fg(top)
				c.renderBuf.WriteRune(BlockUpperHalf)
			case top == 0:
				c.fg(bottom)
				c.renderBuf.WriteRune(BlockLowerHalf)
			default:
				c.fg(top)
				c.bg(bottom)
				c.renderBuf.WriteRune(BlockUpperHalf)
			}
			c.renderBuf.WriteString(ResetColor)
		}
	}

	writeChunked(w, c.renderBuf.String())
}

func (c *Canvas) moveTo(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

func (c *Canvas) fg(col Color) {
	c.renderBuf.WriteString("\033[38;5;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('m')
}

func (c *Canvas) bg(col Color) {
	c.renderBuf.WriteString("\033[48;5;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('m')
}

// RenderBorder draws a box border around the canvas area when there is room
// for it on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	line := strings.Repeat("─", c.termWidth)

	if hasV {
		if hasH {
			buf.WriteString(cursor(left, top) + "┌" + line + "┐")
			buf.WriteString(cursor(left, bottom) + "└" + line + "┘")
		} else {
			buf.WriteString(cursor(c.offsetCol+1, top) + line)
			buf.WriteString(cursor(c.offsetCol+1, bottom) + line)
		}
	}

	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			buf.WriteString(cursor(left, row) + "│" + cursor(right, row) + "│")
		}
	}

	io.WriteString(w, buf.String())
}

// WorldToCell converts world coordinates to a 1-based terminal position
// (col, row), offset included. Useful for text overlays on drawn objects.
func (c *Canvas) WorldToCell(p Point) (col, row int) {
	px, py := c.toPixel(p)
	return int(math.Floor(px)) + 1 + c.offsetCol, int(math.Floor(py))/2 + 1 + c.offsetRow
}

// CellsCovering returns the 1-based column and row ranges of the terminal
// cells that cover r, clipped to the canvas. ok is false when r is off-canvas.
func (c *Canvas) CellsCovering(r physics.Rect) (col0, col1, row0, row1 int, ok bool) {
	x0, y0 := c.toPixel(Point{X: r.Center.X - r.HalfW, Y: r.Center.Y + r.HalfH})
	x1, y1 := c.toPixel(Point{X: r.Center.X + r.HalfW, Y: r.Center.Y - r.HalfH})

	col0 = max(int(math.Round(x0)), 0)
	col1 = min(max(int(math.Round(x1))-1, col0), c.termWidth-1)
	row0 = max(int(math.Round(y0))/2, 0)
	row1 = min(max((int(math.Round(y1))-1)/2, row0), c.termHeight-1)

	if col0 >= c.termWidth || row0 >= c.termHeight || x1 < 0 || y1 < 0 {
		return 0, 0, 0, 0, false
	}
	return col0 + 1 + c.offsetCol, col1 + 1 + c.offsetCol, row0 + 1 + c.offsetRow, row1 + 1 + c.offsetRow, true
}

// TerminalWidth returns the canvas column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the canvas row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// Bounds returns the world area shown by the canvas.
func (c *Canvas) Bounds() physics.Bounds {
	return c.bounds
}
