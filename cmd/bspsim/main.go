package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"reflect"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"github.com/setanarut/bsp"
	"github.com/setanarut/bsp/internal/featureflag"
	"github.com/setanarut/bsp/internal/sim"
	"github.com/setanarut/bsp/internal/view"
)

var (
	// The bspsim version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "bspsim_info",
		Help:        "Simulator information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// Keeps the config field names readable by the cli package when the binary
// is obfuscated.
var _ = reflect.TypeOf(config{})

type config struct {
	AdminAddr    string        `cli:""        env:"BSPSIM_ADMIN_ADDR"     help:"Admin listening address for metrics. Empty disables it."`
	LogLevel     string        `cli:""        env:"BSPSIM_LOG_LEVEL"      help:"Log level (debug|info|warning|error)."`
	LogIndent    bool          `cli:""        env:"BSPSIM_LOG_INDENT"     help:"Indent logs."`
	Bodies       int           `cli:""        env:"BSPSIM_BODIES"         help:"The number of simulated bodies."`
	Frames       int           `cli:""        env:"BSPSIM_FRAMES"         help:"The number of frames to run. 0 runs until interrupted."`
	Seed         int64         `cli:""        env:"BSPSIM_SEED"           help:"Random seed of the initial layout."`
	Arena        arenaConfig   `cli:",hidden" env:"-"                     help:"Arena configuration."`
	MaxHalfSize  float64       `cli:",hidden" env:"BSPSIM_MAX_HALF_SIZE"  help:"The largest half size of a body."`
	MaxSpeed     float64       `cli:",hidden" env:"BSPSIM_MAX_SPEED"      help:"The largest speed of a body along an axis, in units per second."`
	ProbeRadius  float64       `cli:",hidden" env:"BSPSIM_PROBE_RADIUS"   help:"The radius of the range and neighbor probe queries."`
	PoolChunk    int           `cli:",hidden" env:"BSPSIM_POOL_CHUNK"     help:"The number of tree nodes allocated at once."`
	FrameTime    time.Duration `cli:",hidden" env:"BSPSIM_FRAME_DURATION" help:"The duration of a frame."`
	View         bool          `cli:""        env:"BSPSIM_VIEW"           help:"Draw the simulation in the terminal."`
	Dump         bool          `cli:""        env:"-"                     help:"Print the final tree stats as JSON."`
	FeatureFlags []string      `cli:",hidden" env:"BSPSIM_FEATURE_FLAGS"  help:"Comma separated feature flags"`
	Version      bool          `cli:""        env:"-"                     help:"Show version."`
	Help         bool          `cli:""        env:"-"                     help:"Show help."`
}

type arenaConfig struct {
	Width  float64 `cli:",hidden" env:"BSPSIM_ARENA_WIDTH"  help:"Arena width."`
	Height float64 `cli:",hidden" env:"BSPSIM_ARENA_HEIGHT" help:"Arena height."`
}

func main() {
	conf := config{
		AdminAddr:   ":18290",
		LogLevel:    logs.InfoLevel.String(),
		Bodies:      200,
		Seed:        1,
		MaxHalfSize: 6,
		MaxSpeed:    40,
		ProbeRadius: 25,
		FrameTime:   time.Millisecond * 16,
		Arena: arenaConfig{
			Width:  640,
			Height: 360,
		},
	}

	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Runs a box simulation over a BSP collision index.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	flags := featureflag.New(conf.FeatureFlags)

	opts := indexOptions(conf, flags)

	arena := bsp.NewRect(-conf.Arena.Width/2, -conf.Arena.Height/2, conf.Arena.Width, conf.Arena.Height)
	world := sim.NewWorld(arena, opts...)
	rnd := rand.New(rand.NewSource(conf.Seed))
	if err := world.Populate(rnd, conf.Bodies, conf.MaxHalfSize, conf.MaxSpeed); err != nil {
		logs.Fatal(err)
	}

	if conf.AdminAddr != "" {
		go serveAdmin(ctx, conf.AdminAddr)
	}

	var v *view.View
	if conf.View && !flags.IsSet(featureflag.FlagDisableView) {
		screen, err := openScreen()
		if err != nil {
			logs.Fatal(errors.New("opening terminal failed").Wrap(err))
		}
		defer screen.Fini()
		v = view.New(screen, world)
	}

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("bodies", conf.Bodies).
		WithTag("arena", arena.String()).
		WithTag("feature_flags", conf.FeatureFlags).
		Info("starting bspsim")

	r := runner{
		world:  world,
		view:   v,
		flags:  flags,
		frame:  conf.FrameTime,
		frames: conf.Frames,
		radius: conf.ProbeRadius,
		rnd:    rnd,
	}
	r.run(ctx, cancel)

	stats := world.Stats()
	if conf.Dump {
		b, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			logs.Fatal(errors.New("encoding stats failed").Wrap(err))
		}
		fmt.Println(string(b))
	}

	logs.WithTag("frames", world.Stamp()).
		WithTag("objects", stats.Objects).
		WithTag("nodes", stats.Nodes).
		WithTag("depth", stats.Depth).
		Info("bspsim stopped")
}

func openScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}

func serveAdmin(ctx context.Context, addr string) {
	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: &admin}
	go func() {
		<-ctx.Done()
		server.Close()
	}()

	logs.WithTag("addr", addr).Info("starting admin server")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logs.WithTag("addr", addr).
			Error(errors.New("admin server failed").Wrap(err))
	}
}

// indexOptions builds the index options. Invariant checks walk the whole
// tree after every mutation, so CHECK_INVARIANTS only takes effect in
// bspdebug builds.
func indexOptions(conf config, flags featureflag.FeatureFlag) []bsp.Option {
	opts := []bsp.Option{bsp.WithPoolChunk(conf.PoolChunk)}
	flags.IfSet(featureflag.FlagCheckInvariants, func() {
		if !debugBuild {
			logs.WithTag("flag", featureflag.FlagCheckInvariants).
				Warn("ignoring feature flag outside bspdebug builds")
			return
		}
		logs.WithTag("flag", featureflag.FlagCheckInvariants).
			Warn("verifying the index after every mutation")
		opts = append(opts, bsp.WithInvariantChecks(true))
	})
	return opts
}

func validateConfig(conf config) error {
	if conf.Bodies < 0 {
		return errors.New("body count is negative").WithTag("bodies", conf.Bodies)
	}
	if conf.Frames < 0 {
		return errors.New("frame count is negative").WithTag("frames", conf.Frames)
	}
	if conf.Arena.Width <= 0 || conf.Arena.Height <= 0 {
		return errors.New("arena is empty").
			WithTag("width", conf.Arena.Width).
			WithTag("height", conf.Arena.Height)
	}
	if conf.MaxHalfSize <= 0 || 2*conf.MaxHalfSize >= conf.Arena.Width || 2*conf.MaxHalfSize >= conf.Arena.Height {
		return errors.New("bodies do not fit the arena").
			WithTag("max_half_size", conf.MaxHalfSize)
	}
	if conf.FrameTime <= 0 {
		return errors.New("frame duration must be positive").
			WithTag("frame_duration", conf.FrameTime)
	}
	return nil
}
