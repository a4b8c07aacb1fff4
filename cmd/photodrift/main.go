package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/skip2/go-qrcode"

	"photodrift/internal/camera"
	"photodrift/internal/config"
	"photodrift/internal/layout"
	"photodrift/internal/scene"
	"photodrift/internal/server"
	"photodrift/internal/source"
	"photodrift/internal/system"
)

const rescanInterval = 5 * time.Second

func main() {
	system.InitResourceLimits()

	photosPtr := flag.String("photos", "", "Directory of images to hang in the gallery")
	pdfPtr := flag.String("pdf", "", "PDF whose pages fill the gallery (file, or directory holding PDFs)")
	addrPtr := flag.String("addr", "", "Listen address (default :8080)")
	settingsPtr := flag.String("settings", "", "YAML settings file")
	headlessPtr := flag.Bool("headless", false, "Run the simulation without a server")
	durationPtr := flag.Float64("duration", 10, "Headless run length in simulated seconds")
	tickPtr := flag.Int("tick", 0, "Tick rate in Hz (overrides settings)")
	exportPtr := flag.String("export-track", "", "Write each camera tour to PREFIX-<type>.yaml and exit")
	statsPtr := flag.Bool("stats", false, "Print a performance report on shutdown")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		fmt.Println("[*] Loaded .env")
	}

	cfg := config.Default()
	if *settingsPtr != "" {
		loaded, err := config.LoadFile(*settingsPtr)
		if err != nil {
			log.Printf("[!] Settings file: %v", err)
		}
		cfg = loaded
	}
	config.ApplyEnv(&cfg)
	if *addrPtr != "" {
		cfg.Server.Addr = *addrPtr
	}
	if *tickPtr > 0 {
		cfg.Server.TickRate = *tickPtr
	}
	cfg.Clamp()

	src, err := openSource(*pdfPtr, *photosPtr)
	if err != nil {
		log.Fatalf("[-] Photo source: %v", err)
	}
	if src != nil {
		defer src.Close()
	}

	if *exportPtr != "" {
		if err := exportTracks(cfg, src, *exportPtr); err != nil {
			log.Fatalf("[-] Track export: %v", err)
		}
		return
	}

	eng := scene.NewEngine(cfg)
	loadPhotos(eng, src)

	if *headlessPtr {
		runHeadless(eng, cfg, *durationPtr, *statsPtr)
		return
	}
	serve(eng, cfg, src, *statsPtr)
}

// openSource picks the photo feed: a PDF beats a directory when both are
// given, and a PDF directory resolves to its newest document.
func openSource(pdfPath, photosPath string) (source.Source, error) {
	switch {
	case pdfPath != "":
		path := pdfPath
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			latest, err := system.FindLatestPDF(path)
			if err != nil {
				return nil, err
			}
			path = latest
			fmt.Printf("[*] Selected document: %s\n", path)
		}
		return source.NewPDFSource(path)
	case photosPath != "":
		return source.NewDirectorySource(photosPath)
	}
	return nil, nil
}

func loadPhotos(eng *scene.Engine, src source.Source) {
	if src == nil {
		fmt.Println("[*] No photo source; hanging placeholders only")
		return
	}
	photos, err := src.List(context.Background())
	if err != nil {
		log.Printf("[!] Initial scan: %v", err)
		return
	}
	fmt.Printf("[*] Loaded %d photos\n", len(photos))
	eng.SetPhotos(photos)
}

func serve(eng *scene.Engine, cfg config.Settings, src source.Source, showStats bool) {
	mon := system.NewMonitor()
	srv := server.New(eng, src, mon, cfg.Server.Addr)
	printBanner(cfg.Server.Addr)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("[-] Server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Server.TickRate))
	defer ticker.Stop()
	rescan := time.NewTicker(rescanInterval)
	defer rescan.Stop()

	var scanning atomic.Bool
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\n[*] Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("[!] Shutdown: %v", err)
			}
			if showStats {
				mon.Report()
			}
			return
		case now := <-ticker.C:
			start := time.Now()
			frame := eng.Tick(now)
			mon.ObserveTick(time.Since(start))
			srv.Broadcast(frame)
		case <-rescan.C:
			if src == nil || !scanning.CompareAndSwap(false, true) {
				continue
			}
			go func() {
				defer scanning.Store(false)
				photos, err := src.List(context.Background())
				if err != nil {
					log.Printf("[!] Rescan: %v", err)
					return
				}
				eng.SetPhotos(photos)
			}()
		}
	}
}

func runHeadless(eng *scene.Engine, cfg config.Settings, duration float64, showStats bool) {
	mon := system.NewMonitor()
	step := time.Second / time.Duration(cfg.Server.TickRate)
	ticks := int(duration * float64(cfg.Server.TickRate))
	fmt.Printf("[*] Headless run: %.1fs at %d Hz (%d ticks)\n", duration, cfg.Server.TickRate, ticks)

	now := time.Now()
	for i := 0; i < ticks; i++ {
		now = now.Add(step)
		start := time.Now()
		eng.Tick(now)
		mon.ObserveTick(time.Since(start))
	}

	frame := eng.Snapshot()
	fmt.Printf("[*] Final frame: tick %d, %d photos, camera %s at (%.2f, %.2f, %.2f)\n",
		frame.Tick, frame.PhotoCount, frame.CameraState,
		frame.Camera.Position.X(), frame.Camera.Position.Y(), frame.Camera.Position.Z())
	if showStats {
		mon.Report()
	}
}

// exportTracks writes one YAML camera track per tour type for the configured
// pattern, for debugging viewers without running the full engine.
func exportTracks(cfg config.Settings, src source.Source, prefix string) error {
	n := cfg.Gallery.TotalSlots
	occupied := make([]int, n)
	for i := range occupied {
		occupied[i] = i
	}
	if src != nil {
		photos, err := src.List(context.Background())
		if err != nil {
			return err
		}
		if len(photos) > 0 && len(photos) < n {
			occupied = occupied[:len(photos)]
		}
	}

	state := layout.SafeGenerate(layout.ForPattern(cfg.Gallery.Pattern), n, 0,
		layout.ParamsFromSettings(cfg.Gallery))

	types := []config.AnimationType{
		config.AnimationShowcase,
		config.AnimationGalleryWalk,
		config.AnimationSpiralTour,
		config.AnimationWaveFollow,
		config.AnimationGridSweep,
		config.AnimationPhotoFocus,
	}
	prefix = strings.TrimSuffix(prefix, ".yaml")
	for _, typ := range types {
		p, err := camera.BuildPath(typ, state, occupied, cfg.Camera)
		if err != nil {
			log.Printf("[!] %s: %v", typ, err)
			continue
		}
		out := fmt.Sprintf("%s-%s.yaml", prefix, typ)
		if err := camera.WriteTrack(p.Track(), out); err != nil {
			return err
		}
		fmt.Printf("[*] Track written: %s\n", out)
	}
	return nil
}

func printBanner(addr string) {
	host := addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	viewURL := "http://" + host + "/"

	fmt.Println("--- [PHOTODRIFT] ---")
	fmt.Printf("[*] Viewer: %s\n", viewURL)
	fmt.Printf("[*] Stream: ws://%s/ws\n", host)
	if qr, err := qrcode.New(viewURL, qrcode.Low); err == nil {
		fmt.Print(qr.ToSmallString(false))
	}
}
