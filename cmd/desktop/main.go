package main

import (
	"image/color"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"minilang/pkg/config"
	"minilang/pkg/grid"
	"minilang/pkg/utils"
)

const (
	screenWidth  = 1024
	screenHeight = 640
	charWidth    = 7
	charHeight   = 13
	paneCols     = screenWidth / 2 / charWidth
	paneRows     = screenHeight / charHeight
	cursorBlink  = 30
)

var (
	sourceColor = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	outputColor = color.RGBA{0x9c, 0xdc, 0xfe, 0xff}
	background  = color.RGBA{0x1e, 0x1e, 0x1e, 0xff}
	divider     = color.RGBA{0x44, 0x44, 0x44, 0xff}
)

type Game struct {
	ed      *editor
	face    *text.GoXFace
	divider *ebiten.Image
	ticks   int
}

func newGame(ed *editor) *Game {
	div := ebiten.NewImage(1, screenHeight)
	div.Fill(divider)
	return &Game{
		ed:      ed,
		face:    text.NewGoXFace(basicfont.Face7x13),
		divider: div,
	}
}

func (g *Game) Update() error {
	g.ticks++
	for _, r := range ebiten.AppendInputChars(nil) {
		g.ed.insert(r)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.ed.newline()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.ed.insert(' ')
		g.ed.insert(' ')
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.ed.backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.ed.runInterpreter()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF6) {
		g.ed.runCompiler()
	}
	return nil
}

func (g *Game) drawRune(screen *ebiten.Image, r rune, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x*charWidth), float64(y*charHeight))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, string(r), g.face, op)
}

// drawPane lays txt out in a column band starting at offsetCols. Rows past
// the bottom of the screen scroll the pane so the last row stays visible.
func (g *Game) drawPane(screen *ebiten.Image, txt string, offsetCols int, clr color.Color, cursor bool) {
	cells, endX, endY := grid.Layout(txt, paneCols)
	scroll := grid.FirstVisibleRow(endY+1, paneRows)
	for _, c := range cells {
		if c.Y < scroll || c.R == ' ' || c.R == '\t' {
			continue
		}
		g.drawRune(screen, c.R, offsetCols+c.X, c.Y-scroll, clr)
	}
	if cursor && (g.ticks/cursorBlink)%2 == 0 {
		g.drawRune(screen, '_', offsetCols+endX, endY-scroll, clr)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.drawPane(screen, g.ed.source(), 0, sourceColor, true)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(screenWidth/2-1, 0)
	screen.DrawImage(g.divider, op)

	g.drawPane(screen, joinLines(g.ed.output), paneCols+1, outputColor, false)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

const demoSource = `x = 1;
if (x == 1) {
  x = 10;
} else {
  x = 20;
}
y = (x + 4) / 3;
`

// installLogger makes the default configuration's logger the slog default
// and returns a func that restores the previous one.
func installLogger(w io.Writer) func() {
	logger, err := config.Default().Logger(w)
	if err != nil {
		return func() {}
	}
	prev := slog.Default()
	slog.SetDefault(logger)
	return func() { slog.SetDefault(prev) }
}

func main() {
	defer installLogger(os.Stderr)()
	src := demoSource
	listingPath := ""
	if len(os.Args) > 1 {
		fullPath, _, err := utils.GetPathInfo(os.Args[1])
		if err != nil {
			log.Fatalf("Bad path: %v", err)
		}
		sourceBytes, err := os.ReadFile(fullPath)
		if err != nil {
			log.Fatalf("Failed to read source file: %v", err)
		}
		src = string(sourceBytes)
		listingPath = utils.ListingPathFor(fullPath)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("minilang")

	if err := ebiten.RunGame(newGame(newEditor(src, listingPath))); err != nil {
		log.Fatal(err)
	}
}
