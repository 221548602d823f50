// Command ggviewdemo shows a pannable, zoomable scene built on ggview.
//
// Drag with the left button to pan, use the wheel to zoom around the
// cursor, click to drop a marker. The scene runs in a desktop window, in the
// terminal, or headless with scripted input written to a PNG.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggview"
	"github.com/gogpu/ggview/event"
	"github.com/gogpu/ggview/integration/ebitenhost"
	"github.com/gogpu/ggview/integration/termhost"
	"github.com/gogpu/ggview/loop"
	"github.com/gogpu/ggview/plugin"
	"github.com/gogpu/ggview/plugin/script"
	colorful "github.com/lucasb-eyer/go-colorful"
)

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	level, _ := cfg.Level()
	ggview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

// parseArgs loads the config file named by -config and overlays the
// flags that were set explicitly.
func parseArgs(args []string) (Config, error) {
	fs := flag.NewFlagSet("ggviewdemo", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "TOML config file")
		host       = fs.String("host", "", "host: window, terminal or png")
		width      = fs.Int("width", 0, "surface width")
		height     = fs.Int("height", 0, "surface height")
		output     = fs.String("output", "", "PNG output file (png host)")
		frames     = fs.Int("frames", 0, "frames to render (png host)")
		scriptPath = fs.String("script", "", "Lua plugin script")
	)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		return cfg, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "output":
			cfg.Output = *output
		case "frames":
			cfg.Frames = *frames
		case "script":
			cfg.Script = *scriptPath
		}
	})
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg Config) error {
	switch cfg.Host {
	case HostPNG:
		return runPNG(cfg)
	case HostTerminal:
		return runTerminal(ctx, cfg)
	default:
		return runWindow(ctx, cfg)
	}
}

// app is a configured canvas and the scene drawn on it.
type app struct {
	canvas *ggview.Canvas
	scene  *scene
	script *script.Plugin
}

func (a *app) close() {
	if a.script != nil {
		a.script.Close()
	}
}

func (a *app) frame(time.Duration, time.Duration) {
	if err := a.canvas.Frame(a.scene.draw); err != nil {
		ggview.Logger().Warn("ggviewdemo: frame failed", "err", err)
	}
}

func newApp(el ggview.Element, width, height int, cfg Config, fullscreen bool) (*app, error) {
	bg, err := colorful.Hex(cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("%w: background %q: %v", ErrConfig, cfg.Background, err)
	}

	pointer := plugin.NewPointer()
	viewport := plugin.NewViewport(plugin.WithSensitivity(cfg.Sensitivity))
	plugins := []ggview.Plugin{pointer, viewport}
	if fullscreen {
		plugins = append(plugins, plugin.NewFullscreen(nil))
	}

	a := &app{scene: &scene{pointer: pointer, viewport: viewport}}
	if cfg.Script != "" {
		src, err := os.ReadFile(cfg.Script)
		if err != nil {
			return nil, fmt.Errorf("%w: script: %v", ErrConfig, err)
		}
		a.script, err = script.New("script", string(src))
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, a.script)
	}

	a.canvas, err = ggview.New(el, width, height,
		ggview.WithClearColor(gg.FromColor(bg)),
		ggview.WithPlugins(plugins...),
	)
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// pngInput is the scripted input of the png host, one batch per frame:
// zoom in at the center, drag, then click.
func pngInput(w, h float64) [][]event.Event {
	return [][]event.Event{
		{event.Move(w/2, h/2), event.Scroll(-300)},
		{event.Down(event.ButtonLeft)},
		{event.Move(w/2+40, h/2+20)},
		{event.Up(event.ButtonLeft), event.ClickOf(event.ButtonLeft)},
	}
}

func runPNG(cfg Config) error {
	q := event.NewQueue()
	a, err := newApp(q, cfg.Width, cfg.Height, cfg, false)
	if err != nil {
		return err
	}
	defer a.close()

	input := pngInput(float64(cfg.Width), float64(cfg.Height))
	// One extra frame so the last batch is visible.
	for i := range cfg.Frames + 1 {
		if i < len(input) {
			for _, ev := range input[i] {
				q.Post(ev)
			}
		}
		a.frame(0, 0)
	}

	if err := a.canvas.Context().SavePNG(cfg.Output); err != nil {
		return fmt.Errorf("ggviewdemo: save %s: %w", cfg.Output, err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", cfg.Output, cfg.Width, cfg.Height)
	return nil
}

func runWindow(ctx context.Context, cfg Config) error {
	host, err := ebitenhost.New(cfg.Width, cfg.Height,
		ebitenhost.WithTitle(cfg.Title),
		ebitenhost.WithTPS(cfg.FPS),
	)
	if err != nil {
		return err
	}
	a, err := newApp(host, cfg.Width, cfg.Height, cfg, true)
	if err != nil {
		return err
	}
	defer a.close()

	l := loop.New(a.frame, loop.WithRequester(host))
	if err := l.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if l.Running() {
			l.Stop()
		}
	}()
	stop := context.AfterFunc(ctx, host.Close)
	defer stop()

	return host.Run(a.canvas)
}

func runTerminal(ctx context.Context, cfg Config) error {
	bg, err := colorful.Hex(cfg.Background)
	if err != nil {
		return fmt.Errorf("%w: background %q: %v", ErrConfig, cfg.Background, err)
	}
	host, err := termhost.New(nil, termhost.WithBackground(bg))
	if err != nil {
		return err
	}
	if err := host.Init(); err != nil {
		return err
	}
	defer host.Close()

	w, h := host.PixelSize()
	a, err := newApp(host, w, h, cfg, true)
	if err != nil {
		return err
	}
	defer a.close()
	// A terminal has few pixels; start zoomed out.
	a.scene.viewport.ZoomAt(ggview.Vec2{}, 900)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	l := loop.New(func(dt, t time.Duration) {
		a.frame(dt, t)
		host.Blit(a.canvas.Surface)
	}, loop.WithFPS(cfg.FPS))
	if err := l.Start(ctx); err != nil {
		return err
	}

	err = host.Run(ctx)
	cancel()
	// The deferred teardown must not overlap a running frame.
	l.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
