// fogsign — an LED dot-matrix phrase board.
//
// Drives a HUB75-style panel (or a terminal emulator of one) through a
// scripted dissolve → thinking → typewriter cycle, rotating canned
// phrases until live text arrives over USB serial, a NUS-style stream,
// HTTP, or the console prompt.
//
// Usage:
//
//	fogsign [-mode flow|fixed] [-headless] [-verbose]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/hkmoud/fogsign/internal/animator"
	"github.com/hkmoud/fogsign/internal/board"
	"github.com/hkmoud/fogsign/internal/display"
	"github.com/hkmoud/fogsign/internal/domain"
	"github.com/hkmoud/fogsign/internal/ingest"
	"github.com/hkmoud/fogsign/internal/logger"
	"github.com/hkmoud/fogsign/internal/panel"
	"github.com/hkmoud/fogsign/internal/phrases"
)

func main() {
	_ = godotenv.Load()

	modeFlag := flag.String("mode", "flow", "payload framing: flow (free-form) or fixed (legacy 6x10)")
	panelW := flag.Int("panel-width", 64, "width of one panel in pixels")
	panelH := flag.Int("panel-height", 64, "height of the panel in pixels")
	chain := flag.Int("chain", 0, "number of chained panels (0 = mode default: 2 flow, 1 fixed)")
	brightness := flag.Int("brightness", 0, "panel brightness 1-255 (0 = mode default: 120 flow, 60 fixed)")
	listen := flag.String("listen", "", "http listen address (default: :8080 in fixed mode, disabled in flow mode)")
	nusAddr := flag.String("nus", ":3333", "NUS-style stream listen address (\"off\" to disable)")
	serialPath := flag.String("serial", "", "USB serial device to read live text from")
	headless := flag.Bool("headless", false, "run without the terminal emulator")
	spiName := flag.String("spi", "", "SPI port name for a hardware panel (implies -headless)")
	spiDC := flag.String("spi-dc", "GPIO25", "data/command GPIO pin for the SPI panel")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".fogsign/fogsign.log", "file to write logs to (use \"stderr\" to log to console)")
	flag.Parse()

	var mode domain.Mode
	switch *modeFlag {
	case "flow":
		mode = domain.ModeFlow
	case "fixed":
		mode = domain.ModeFixed
	default:
		fmt.Fprintf(os.Stderr, "error: unknown mode %q (want flow or fixed)\n", *modeFlag)
		os.Exit(2)
	}

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the emulator stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Third-party libs log through the stdlib logger; keep them off
	// the terminal too.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	// Mode-dependent defaults mirror the two firmware variants.
	if *chain == 0 {
		*chain = 2
		if mode == domain.ModeFixed {
			*chain = 1
		}
	}
	if *brightness == 0 {
		*brightness = 120
		if mode == domain.ModeFixed {
			*brightness = 60
		}
	}
	if *listen == "" && mode == domain.ModeFixed {
		*listen = ":8080"
	}
	if addr := os.Getenv("FOGSIGN_HTTP_ADDR"); addr != "" && *listen == "" {
		*listen = addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// One process-wide random source, seeded per boot.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	clock := domain.SystemClock{}

	// Wire dependencies.
	book := phrases.NewBook(log, rng)
	brd := board.New(mode, book, log)
	mbx := board.NewMailbox()
	fb := panel.NewFramebuffer(*panelW**chain, *panelH)
	fb.SetBrightness(uint8(*brightness))

	opts := []animator.Option{animator.WithBrightness(uint8(*brightness))}
	if mode == domain.ModeFixed {
		opts = append(opts, animator.WithCharDelay(70*time.Millisecond))
	}
	anim := animator.New(fb, brd, mbx, rng, clock, log, opts...)

	// ── Ingestion transports ─────────────────────────────────────
	// Bring-up failures are non-fatal: log and keep the rest running.

	if *listen != "" {
		mux := http.NewServeMux()
		ingest.NewHandler(mode, mbx, log).Register(mux)
		srv := &http.Server{Addr: *listen, Handler: mux}
		go func() {
			log.Info("http: listening on %s", *listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http: %v (continuing without http)", err)
			}
		}()
		go func() {
			<-ctx.Done()
			srv.Close()
		}()
	}

	if *nusAddr != "" && *nusAddr != "off" {
		nus := ingest.NewStreamServer(*nusAddr, mode, mbx, log)
		go func() {
			if err := nus.Run(ctx); err != nil {
				log.Error("%v (continuing without nus)", err)
			}
		}()
	}

	if *serialPath != "" {
		f, err := os.Open(*serialPath)
		if err != nil {
			log.Error("serial open %s: %v (continuing without usb)", *serialPath, err)
		} else {
			defer f.Close()
			go ingest.NewLineReader(f, mode, mbx, "usb", log).Run(ctx)
			log.Info("usb: reading from %s", *serialPath)
		}
	}

	// ── Hardware panel ───────────────────────────────────────────

	if *spiName != "" {
		*headless = true
		if _, err := host.Init(); err != nil {
			log.Error("periph host init: %v (continuing with framebuffer only)", err)
		} else if err := attachSPI(ctx, *spiName, *spiDC, fb, log); err != nil {
			log.Error("%v (continuing with framebuffer only)", err)
		}
	}

	// First frame: draw the starting phrase before the idle wait.
	anim.ShowCurrent()

	if *headless {
		log.Info("running headless (%s mode, %dx%d)", mode, fb.Width(), fb.Height())
		anim.Run(ctx)
		return
	}

	// ── Terminal emulator ────────────────────────────────────────

	ui := display.NewUI(fb)

	// Prompt lines feed a console stream with the same framing as the
	// other ingestors.
	console := ingest.NewStream(mode, mbx, "console", log)
	go func() {
		for line := range ui.InputChan() {
			console.Write([]byte(line + "\n"))
		}
	}()

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  " + mode.String() + " mode — type a line to send it to the panel."))
	fmt.Println()

	go func() {
		ui.WaitReady()
		anim.Run(ctx)
	}()
	go func() {
		<-ctx.Done()
		ui.Quit()
	}()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

// attachSPI opens the SPI port and starts the hardware flush loop.
func attachSPI(ctx context.Context, portName, dcName string, fb *panel.Framebuffer, log *logger.Logger) error {
	port, err := spireg.Open(portName)
	if err != nil {
		return fmt.Errorf("spi open %s: %w", portName, err)
	}
	dc := gpioreg.ByName(dcName)
	if dc == nil {
		return fmt.Errorf("gpio pin %s not found", dcName)
	}
	dev, err := panel.NewSPI(port, dc, fb, log, nil)
	if err != nil {
		return err
	}
	go dev.Run(ctx, 60)
	log.Info("spi: panel attached on %s (dc=%s)", portName, dcName)
	return nil
}
