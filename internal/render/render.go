// Package render draws game snapshots to images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"

	"neon-snake/internal/game"
	"neon-snake/internal/weapon"
)

var (
	background = color.RGBA{10, 10, 20, 255}
	gridLine   = color.RGBA{25, 25, 45, 255}
	snakeBody  = color.RGBA{0, 200, 120, 255}
	snakeHead  = color.RGBA{120, 255, 190, 255}
	shieldRing = color.RGBA{120, 180, 255, 200}
	hpBack     = color.RGBA{51, 51, 51, 255}
	hudText    = color.RGBA{230, 230, 255, 255}
)

// FrameRenderer draws snapshots onto a reusable gg context.
// Render calls are serialized; the returned image is only valid until the
// next call.
type FrameRenderer struct {
	mu       sync.Mutex
	dc       *gg.Context
	width    int
	height   int
	fontPath string
}

// NewFrameRenderer creates a renderer for a width×height pixel field.
func NewFrameRenderer(width, height int) *FrameRenderer {
	return &FrameRenderer{
		dc:       gg.NewContext(width, height),
		width:    width,
		height:   height,
		fontPath: fontPath(),
	}
}

func (r *FrameRenderer) Size() (int, int) { return r.width, r.height }

// Render draws snap and returns the frame.
func (r *FrameRenderer) Render(snap *game.GameSnapshot) image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draw(snap)
	return r.dc.Image()
}

// EncodePNG draws snap and writes it to w as PNG.
func (r *FrameRenderer) EncodePNG(w io.Writer, snap *game.GameSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draw(snap)
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

func (r *FrameRenderer) draw(snap *game.GameSnapshot) {
	dc := r.dc
	dc.SetColor(background)
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()

	if snap == nil {
		return
	}
	cell := float64(snap.CellSize)
	if cell <= 0 {
		return
	}

	r.drawGrid(dc, snap, cell)
	r.drawFood(dc, snap.Food, cell)
	r.drawSnake(dc, snap, cell)
	r.drawProjectiles(dc, snap.Projectiles)
	r.drawHUD(dc, snap)
}

func (r *FrameRenderer) drawGrid(dc *gg.Context, snap *game.GameSnapshot, cell float64) {
	dc.SetColor(gridLine)
	dc.SetLineWidth(1)
	for x := range snap.Cols + 1 {
		dc.DrawLine(float64(x)*cell, 0, float64(x)*cell, float64(snap.Rows)*cell)
		dc.Stroke()
	}
	for y := range snap.Rows + 1 {
		dc.DrawLine(0, float64(y)*cell, float64(snap.Cols)*cell, float64(y)*cell)
		dc.Stroke()
	}
}

func (r *FrameRenderer) drawFood(dc *gg.Context, items []game.Food, cell float64) {
	for _, f := range items {
		c := ParseHexColor(f.Kind.Spec().Color)
		if f.Frozen > 0 {
			c = color.RGBA{c.R/2 + 60, c.G/2 + 90, 255, 255}
		}
		x, y := float64(f.Cell.X)*cell, float64(f.Cell.Y)*cell
		dc.SetColor(c)
		dc.DrawRectangle(x+2, y+2, cell-4, cell-4)
		dc.Fill()

		// HP bar once damaged
		if f.MaxHP > 0 && f.HP < f.MaxHP {
			dc.SetColor(hpBack)
			dc.DrawRectangle(x, y-4, cell, 3)
			dc.Fill()
			dc.SetColor(c)
			dc.DrawRectangle(x, y-4, cell*f.HP/f.MaxHP, 3)
			dc.Fill()
		}
	}
}

func (r *FrameRenderer) drawSnake(dc *gg.Context, snap *game.GameSnapshot, cell float64) {
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		seg := snap.Snake[i]
		if i == 0 {
			dc.SetColor(snakeHead)
		} else {
			dc.SetColor(snakeBody)
		}
		dc.DrawRectangle(float64(seg.X)*cell+1, float64(seg.Y)*cell+1, cell-2, cell-2)
		dc.Fill()
	}

	for _, b := range snap.Boosts {
		if b.Kind != game.BoostShield || len(snap.Snake) == 0 {
			continue
		}
		head := snap.Snake[0].Center(cell)
		dc.SetColor(shieldRing)
		dc.SetLineWidth(2)
		dc.DrawCircle(head.X, head.Y, cell)
		dc.Stroke()
	}
}

func (r *FrameRenderer) drawProjectiles(dc *gg.Context, ps []weapon.ProjectileSnapshot) {
	for _, p := range ps {
		c := ParseHexColor(p.Color)
		switch {
		case p.BeamDir != nil:
			reach := float64(max(r.width, r.height))
			end := weapon.Vec{X: p.X, Y: p.Y}.Add(p.BeamDir.Unit().Scale(reach))
			c.A = uint8(80 + 175*p.Life)
			dc.SetColor(c)
			dc.SetLineWidth(max(2, p.BeamWidth))
			dc.DrawLine(p.X, p.Y, end.X, end.Y)
			dc.Stroke()

		case p.PullRadius > 0:
			dc.SetColor(color.RGBA{c.R, c.G, c.B, 60})
			dc.DrawCircle(p.X, p.Y, p.PullRadius)
			dc.Fill()
			dc.SetColor(color.Black)
			dc.DrawCircle(p.X, p.Y, p.Radius)
			dc.Fill()
			dc.SetColor(c)
			dc.SetLineWidth(2)
			dc.DrawCircle(p.X, p.Y, p.Radius)
			dc.Stroke()

		default:
			dc.SetColor(c)
			dc.DrawCircle(p.X, p.Y, max(1, p.Radius))
			dc.Fill()
			if p.BlastRadius > 0 {
				dc.SetColor(color.RGBA{c.R, c.G, c.B, 90})
				dc.SetLineWidth(1)
				dc.DrawCircle(p.X, p.Y, p.BlastRadius)
				dc.Stroke()
			}
		}
	}
}

func (r *FrameRenderer) drawHUD(dc *gg.Context, snap *game.GameSnapshot) {
	// Without a font the frame is still useful; skip text.
	if r.fontPath == "" {
		return
	}
	if err := dc.LoadFontFace(r.fontPath, 14); err != nil {
		return
	}
	dc.SetColor(hudText)
	dc.DrawString(fmt.Sprintf("SCORE %d  LEVEL %d  LIVES %d", snap.Score, snap.Level, snap.Lives), 8, 18)
	dc.DrawStringAnchored(fmt.Sprintf("%s L%d  AMMO %.0f/%.0f", snap.Weapon.Name, snap.Weapon.Level, snap.Ammo, snap.MaxAmmo),
		float64(r.width)-8, 18, 1, 0)
	if snap.State != game.StatePlaying {
		dc.DrawStringAnchored(snap.State.String(), float64(r.width)/2, float64(r.height)/2, 0.5, 0.5)
	}
}

// ParseHexColor parses "#rrggbb" or "#rgb". Anything else is white.
func ParseHexColor(hex string) color.RGBA {
	white := color.RGBA{255, 255, 255, 255}
	if len(hex) == 0 || hex[0] != '#' {
		return white
	}
	var r, g, b uint8
	switch len(hex) {
	case 7:
		if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
			return white
		}
	case 4:
		if _, err := fmt.Sscanf(hex[1:], "%1x%1x%1x", &r, &g, &b); err != nil {
			return white
		}
		r, g, b = r*17, g*17, b*17
	default:
		return white
	}
	return color.RGBA{r, g, b, 255}
}

func fontPath() string {
	if p := os.Getenv("FONT_PATH"); p != "" {
		return p
	}
	paths := []string{
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/System/Library/Fonts/Helvetica.ttc",
		"C:\\Windows\\Fonts\\arial.ttf",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	matches, _ := filepath.Glob("*.ttf")
	if len(matches) > 0 {
		return matches[0]
	}
	return ""
}
