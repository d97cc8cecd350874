package multiautocomplete

import (
	"errors"

	zone "github.com/lrstanley/bubblezone"
)

// ErrMissingAnchor is returned when the entry has not been laid out yet.
var ErrMissingAnchor = errors.New("dropdown anchor not rendered")

const (
	DefaultMinHeight = 3
	DefaultMaxHeight = 10
)

// Rect is a cell rectangle on screen.
type Rect struct {
	X, Y, W, H int
}

// Geometry locates the entry and the screen the dropdown is drawn on.
type Geometry interface {
	Anchor(id string) (Rect, error)
	Viewport() Rect
}

// ZoneGeometry reads anchor bounds from the zones marked by the last frame.
type ZoneGeometry struct {
	zones    *zone.Manager
	viewport Rect
}

func NewZoneGeometry(zones *zone.Manager) *ZoneGeometry {
	return &ZoneGeometry{zones: zones}
}

func (g *ZoneGeometry) SetViewport(width, height int) {
	g.viewport = Rect{W: width, H: height}
}

func (g *ZoneGeometry) Viewport() Rect {
	return g.viewport
}

func (g *ZoneGeometry) Anchor(id string) (Rect, error) {
	if g.zones == nil {
		return Rect{}, ErrMissingAnchor
	}
	z := g.zones.Get(id)
	if z == nil || z.IsZero() {
		return Rect{}, ErrMissingAnchor
	}
	return Rect{
		X: z.StartX,
		Y: z.StartY,
		W: z.EndX - z.StartX + 1,
		H: z.EndY - z.StartY + 1,
	}, nil
}

// Placement is where the dropdown goes for one render.
type Placement struct {
	Height int
	Above  bool
}

// Place sizes the dropdown from the room left above and below the anchor.
// The larger side wins; the result never drops under minHeight and never
// exceeds maxHeight.
func Place(g Geometry, anchorID string, minHeight, maxHeight int) (Placement, error) {
	anchor, err := g.Anchor(anchorID)
	if err != nil {
		return Placement{}, err
	}
	if minHeight <= 0 {
		minHeight = DefaultMinHeight
	}
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}
	top := anchor.Y
	bottom := g.Viewport().H - top - anchor.H
	// two rows go to the border
	h := min(max(max(top, bottom)-2, minHeight), maxHeight)
	return Placement{Height: max(h, 1), Above: top > bottom}, nil
}
