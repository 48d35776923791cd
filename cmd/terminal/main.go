package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"

	"neon-snake/internal/config"
	"neon-snake/internal/game"
	"neon-snake/internal/render"
	"neon-snake/internal/weapon"
)

const (
	frameMs = 16
	hudRows = 2
)

type client struct {
	screen tcell.Screen
	engine *game.Engine

	holdFire bool
	message  string
	msgUntil time.Time
}

func newClient(engine *game.Engine) (*client, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	return &client{screen: screen, engine: engine}, nil
}

func rgb(hex string) tcell.Color {
	c := render.ParseHexColor(hex)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (c *client) flash(format string, args ...any) {
	c.message = fmt.Sprintf(format, args...)
	c.msgUntil = time.Now().Add(2 * time.Second)
}

// put draws one board cell as two terminal columns.
func (c *client) put(cell weapon.Cell, r rune, style tcell.Style) {
	x, y := (cell.X+1)*2, cell.Y+1+hudRows
	c.screen.SetContent(x, y, r, nil, style)
	c.screen.SetContent(x+1, y, r, nil, style)
}

func (c *client) draw() {
	snap := c.engine.GetSnapshot()
	s := c.screen
	s.Clear()

	border := tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	for x := -1; x <= snap.Cols; x++ {
		c.put(weapon.Cell{X: x, Y: -1}, '▀', border)
		c.put(weapon.Cell{X: x, Y: snap.Rows}, '▄', border)
	}
	for y := range snap.Rows {
		c.put(weapon.Cell{X: -1, Y: y}, '█', border)
		c.put(weapon.Cell{X: snap.Cols, Y: y}, '█', border)
	}

	for _, f := range snap.Food {
		style := tcell.StyleDefault.Foreground(rgb(f.Kind.Spec().Color))
		r := '●'
		if f.Frozen > 0 {
			r = '❄'
		}
		c.put(f.Cell, r, style)
	}

	for i, seg := range snap.Snake {
		style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
		if i == 0 {
			style = tcell.StyleDefault.Foreground(tcell.ColorLightGreen).Bold(true)
		}
		c.put(seg, '█', style)
	}

	cell := float64(snap.CellSize)
	for _, p := range snap.Projectiles {
		style := tcell.StyleDefault.Foreground(rgb(p.Color))
		if p.BeamDir != nil {
			at := weapon.Cell{X: int(p.X / cell), Y: int(p.Y / cell)}
			for at.X >= 0 && at.Y >= 0 && at.X < snap.Cols && at.Y < snap.Rows {
				c.put(at, '░', style)
				at = p.BeamDir.Step(at)
			}
			continue
		}
		at := weapon.Cell{X: int(p.X / cell), Y: int(p.Y / cell)}
		if at.X >= 0 && at.Y >= 0 && at.X < snap.Cols && at.Y < snap.Rows {
			c.put(at, '•', style)
		}
	}

	hud := fmt.Sprintf(" %s  SCORE %d  LEVEL %d  LIVES %d  %s L%d/%d  AMMO %.0f/%.0f",
		snap.State, snap.Score, snap.Level, snap.Lives,
		snap.Weapon.Name, snap.Weapon.Level, snap.Weapon.MaxLevel, snap.Ammo, snap.MaxAmmo)
	for _, b := range snap.Boosts {
		hud += fmt.Sprintf("  %s %d", b.Kind, b.Remaining)
	}
	drawText(s, 0, 0, hud, tcell.StyleDefault.Foreground(tcell.ColorWhite))

	if time.Now().Before(c.msgUntil) {
		drawText(s, 0, 1, " "+c.message, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	} else {
		help := " arrows/wasd move  space fire  f hold  1-9 weapon  u upgrade  p pause  enter start  esc quit"
		drawText(s, 0, 1, help, tcell.StyleDefault.Foreground(tcell.ColorGray))
	}
	s.Show()
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

var keyDirections = map[tcell.Key]weapon.Direction{
	tcell.KeyUp:    weapon.Up,
	tcell.KeyDown:  weapon.Down,
	tcell.KeyLeft:  weapon.Left,
	tcell.KeyRight: weapon.Right,
}

var runeDirections = map[rune]weapon.Direction{
	'w': weapon.Up,
	's': weapon.Down,
	'a': weapon.Left,
	'd': weapon.Right,
}

// handleInput returns false when the player quits.
func (c *client) handleInput(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		if _, resized := ev.(*tcell.EventResize); resized {
			c.screen.Sync()
		}
		return true
	}

	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		if c.engine.State() != game.StatePaused {
			c.holdFire = false
		}
		c.engine.Begin()
		return true
	}
	if d, ok := keyDirections[key.Key()]; ok {
		c.engine.Turn(d)
		return true
	}
	if key.Key() != tcell.KeyRune {
		return true
	}

	r := key.Rune()
	if d, ok := runeDirections[r]; ok {
		c.engine.Turn(d)
		return true
	}

	switch {
	case r == ' ':
		c.engine.FireOnce()
	case r == 'f':
		if err := c.engine.SetFire(!c.holdFire); err == nil {
			c.holdFire = !c.holdFire
		}
	case r == 'p':
		c.engine.TogglePause()
	case r == 'u':
		id := c.engine.GetSnapshot().Weapon.ID
		if lvl, err := c.engine.Upgrade(id); err != nil {
			c.flash("%s: %v", id, err)
		} else {
			c.flash("%s upgraded to level %d", id, lvl)
		}
	case r >= '1' && r <= '9':
		unlocked := c.engine.GetSnapshot().Unlocked
		i := int(r - '1')
		if i >= len(unlocked) {
			c.flash("no weapon in slot %c", r)
			break
		}
		if w, err := c.engine.Equip(unlocked[i].ID); err != nil {
			c.flash("%v", err)
		} else {
			c.flash("equipped %s", w.Name)
		}
	}
	return true
}

func (c *client) run() {
	frame := time.NewTicker(frameMs * time.Millisecond)
	defer frame.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	nextStep := time.Now()
	for {
		select {
		case ev := <-events:
			if !c.handleInput(ev) {
				return
			}
		case now := <-frame.C:
			// The engine speeds up with level and boosts; follow its interval.
			if !now.Before(nextStep) {
				sum := c.engine.Step()
				if sum.State == game.StateOver {
					c.holdFire = false
				}
				nextStep = now.Add(time.Duration(c.engine.GetSnapshot().TickMs) * time.Millisecond)
			}
			c.draw()
		}
	}
}

func main() {
	if err := godotenv.Load(".env"); err == nil {
		log.Println("✅ Loaded environment from .env")
	}

	// The screen owns stdout; logs go to a file.
	if f, err := os.OpenFile("neon-snake.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	appConfig := config.Load()
	engine, err := game.NewEngine(game.EngineConfig{
		Game:     appConfig.Game,
		Ammo:     appConfig.Ammo,
		Limits:   appConfig.Limits,
		EventLog: appConfig.EventLog,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create engine: %v\n", err)
		os.Exit(1)
	}
	if appConfig.EventLog.Path != "" {
		if err := engine.StartEventLog(); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		}
		defer engine.StopEventLog()
	}

	c, err := newClient(engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer c.screen.Fini()

	c.run()
	log.Printf("🏁 Final score %d", engine.GetSnapshot().Score)
}
