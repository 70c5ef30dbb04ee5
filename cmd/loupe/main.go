// Command loupe opens one or more images in a zoomable, pannable viewer.
//
// Wheel, +/- or the on-screen buttons zoom, dragging pans once zoomed in,
// double click toggles between 100% and the inspect zoom, Left/Right cycles
// images, 0 or the percent button resets, S saves the displayed file to the
// export directory, Escape quits.
//
// Viewport tuning comes from LOUPE_* environment variables (see
// loupe.LoadConfig).
package main

import (
	"errors"
	"flag"
	"fmt"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/loupe"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	windowTitle = "loupe"
	screenW     = 1280
	screenH     = 800
)

var errQuit = errors.New("quit")

type viewer struct {
	host     *loupe.Host
	files    []string
	index    int
	exporter *loupe.Exporter
	status   string
	width    int
}

// loadImage decodes the content file for display. Documents have no image.
func loadImage(content loupe.Content) (*ebiten.Image, error) {
	if content.Kind != loupe.ContentImage {
		return nil, nil
	}
	img, _, err := ebitenutil.NewImageFromFile(content.ID)
	return img, err
}

func (v *viewer) show(i int) {
	v.index = (i + len(v.files)) % len(v.files)
	path := v.files[v.index]
	content := loupe.Content{ID: path, Kind: loupe.KindFromPath(path)}

	img, err := loadImage(content)
	switch {
	case err != nil:
		v.status = fmt.Sprintf("open %s: %v", filepath.Base(path), err)
		slog.Error("open image", "path", path, "err", err)
	case content.Kind == loupe.ContentDocument:
		v.status = "document: open in a document viewer"
	default:
		v.status = ""
	}
	v.host.Show(content, img)
}

func (v *viewer) export() {
	content := v.host.Controller().Content()
	f, err := os.Open(content.ID)
	if err != nil {
		v.status = fmt.Sprintf("export: %v", err)
		return
	}
	defer f.Close()
	path, err := v.exporter.Export(content, f)
	if err != nil {
		v.status = err.Error()
		slog.Error("export", "err", err)
		return
	}
	v.status = "saved " + path
}

func (v *viewer) Update() error {
	ctrl := v.host.Controller()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		v.host.Close()
		return errQuit
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		v.show(v.index + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		v.show(v.index - 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyKPAdd):
		ctrl.ZoomIn()
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract):
		ctrl.ZoomOut()
	case inpututil.IsKeyJustPressed(ebiten.Key0):
		ctrl.ResetZoom()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		v.export()
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		x, y := ebiten.CursorPosition()
		if i := buttonAt(x, y, v.width); i >= 0 {
			zoomButtons[i].action(ctrl)
		}
	}
	if err := v.host.Update(); err != nil {
		return err
	}
	ebiten.SetCursorShape(v.host.Cursor())
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	v.host.Draw(screen)
	ctrl := v.host.Controller()
	msg := fmt.Sprintf("[%d/%d]  %s", v.index+1, len(v.files), filepath.Base(ctrl.Content().ID))
	if v.status != "" {
		msg += "\n" + v.status
	}
	ebitenutil.DebugPrintAt(screen, msg, 4, 4)
	if ctrl.Content().Kind == loupe.ContentImage {
		drawButtons(screen, ctrl)
	}
}

func (v *viewer) Layout(w, h int) (int, int) {
	v.width = w
	return w, h
}

func main() {
	var (
		exportDir  = flag.String("export-dir", "downloads", "directory the S key saves the displayed file into")
		scriptPath = flag.String("script", "", "JSON gesture script to replay")
		toggle     = flag.Float64("toggle-duration", 0.15, "seconds to ease a double-click toggle (0 snaps)")
		debug      = flag.Bool("debug", false, "log gesture transitions to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] image...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	loupe.SetLogger(logger)

	cfg, err := loupe.LoadConfig("loupe")
	if err != nil {
		log.Fatal(err)
	}
	ctrl, err := loupe.NewController(cfg)
	if err != nil {
		log.Fatal(err)
	}

	host := loupe.NewHost(ctrl)
	host.ToggleDuration = float32(*toggle)
	host.Load = loadImage
	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			log.Fatalf("read script: %v", err)
		}
		script, err := loupe.LoadScript(data)
		if err != nil {
			log.Fatal(err)
		}
		host.SetScript(script)
	}

	v := &viewer{
		host:     host,
		files:    flag.Args(),
		exporter: &loupe.Exporter{Dir: *exportDir},
		width:    screenW,
	}
	host.HitUI = func(x, y float64) bool {
		return buttonAt(int(x), int(y), v.width) >= 0
	}
	v.show(0)

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}
