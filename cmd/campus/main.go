// Command campus renders the procedural campus in an OpenGL window, or
// exports it as a binary glTF file with -export.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/profile"

	"campus3d/app"
	"campus3d/campus"
	"campus3d/config"
	"campus3d/controls"
	"campus3d/core"
	"campus3d/math"
	"campus3d/renderer"
	"campus3d/scene"
)

type options struct {
	configPath string
	exportPath string
	seed       int64
	grass      int
	cpuProfile string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML settings file")
	flag.StringVar(&opts.exportPath, "export", "", "write the campus to this .glb file and exit")
	flag.Int64Var(&opts.seed, "seed", 0, "grass placement seed (0 = from the clock)")
	flag.IntVar(&opts.grass, "grass", 0, "number of grass blades")
	flag.StringVar(&opts.cpuProfile, "cpuprofile", "", "write a CPU profile into this directory")
	flag.Parse()

	if err := run(opts); err != nil {
		slog.Error("campus failed", "err", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	// Flags override the file only when given on the command line.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Campus.Seed = opts.seed
		case "grass":
			cfg.Campus.GrassCount = opts.grass
		}
	})
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if opts.cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.cpuProfile), profile.NoShutdownHook).Stop()
	}

	s, err := buildScene(cfg)
	if err != nil {
		return err
	}

	if opts.exportPath != "" {
		if err := scene.ExportGLTF(s, opts.exportPath); err != nil {
			return err
		}
		slog.Info("campus exported", "path", opts.exportPath, "objects", s.ObjectCount())
		return nil
	}
	return view(cfg, s)
}

func buildScene(cfg config.Config) (*scene.Scene, error) {
	seed := cfg.Campus.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := scene.NewScene()
	stats, err := campus.Assemble(s, campus.DefaultLayout(cfg.Campus), rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	models, err := campus.LoadModels(s, cfg.Models)
	if err != nil {
		return nil, err
	}
	slog.Info("campus built",
		"seed", seed,
		"objects", stats.Objects+models,
		"grass", stats.Instances,
		"lights", stats.Lights)
	return s, nil
}

func view(cfg config.Config, s *scene.Scene) error {
	winCfg := core.DefaultWindowConfig()
	winCfg.Width = cfg.Window.Width
	winCfg.Height = cfg.Window.Height
	winCfg.Title = cfg.Window.Title
	winCfg.VSync = cfg.Window.VSync
	winCfg.Fullscreen = cfg.Window.Fullscreen
	winCfg.Samples = cfg.Window.Samples

	window, err := core.NewWindow(winCfg)
	if err != nil {
		return err
	}
	defer window.Destroy()

	width, height := window.GetFramebufferSize()
	engine, err := renderer.NewRenderEngine(width, height)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	cam := scene.NewPerspectiveCamera(cfg.Camera.FOV, float32(width)/float32(height), cfg.Camera.Near, cfg.Camera.Far)
	p := cfg.Camera.Position
	cam.SetPosition(math.NewVec3(p[0], p[1], p[2]))
	cam.LookAt(math.Vec3Zero)

	orbit := controls.NewOrbit(cam)
	orbit.EnableDamping = cfg.Controls.EnableDamping
	orbit.DampingFactor = cfg.Controls.DampingFactor
	orbit.RotateSpeed = cfg.Controls.RotateSpeed
	orbit.ZoomSpeed = cfg.Controls.ZoomSpeed
	orbit.PanSpeed = cfg.Controls.PanSpeed
	orbit.MinDistance = cfg.Controls.MinDistance
	orbit.MaxDistance = cfg.Controls.MaxDistance
	controls.Bind(window, orbit)

	appCtx := app.NewContext(s, cam, orbit, engine, width, height)
	appCtx.ResizeWindow(window.GetSize())
	window.OnResize(appCtx.Resize)
	window.OnWindowResize(appCtx.ResizeWindow)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := appCtx.Run(ctx, app.WindowPresenter{Window: window}); err != nil {
		return err
	}
	objects, instances, triangles, culled := engine.DrawStats()
	slog.Info("viewer closed",
		"frames", appCtx.FrameCount(),
		"objects", objects,
		"instances", instances,
		"triangles", triangles,
		"culled", culled)
	return nil
}
