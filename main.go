package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	emubridge "traceboy/bridge/ebiten"
	"traceboy/cli"
	"traceboy/gbc"
)

func main() {
	scenePath := flag.String("scene", "", "path to scene cartridge (built-in scene if omitted)")
	regionFlag := flag.String("region", "auto", "region: auto, ntsc, or pal")
	turbo := flag.Bool("turbo", false, "render a whole view per frame instead of one tile row")
	flag.Parse()

	var cart []byte
	if *scenePath != "" {
		data, err := os.ReadFile(*scenePath)
		if err != nil {
			log.Fatalf("Failed to load scene cartridge: %v", err)
		}
		cart = data
	}

	// Determine region
	var region gbc.Region
	switch strings.ToLower(*regionFlag) {
	case "auto":
		region = gbc.DetectRegion(cart)
	case "ntsc":
		region = gbc.RegionNTSC
	case "pal":
		region = gbc.RegionPAL
	default:
		log.Fatalf("Invalid region: %s (use auto, ntsc, or pal)", *regionFlag)
	}

	m, err := emubridge.NewMachine(cart, region)
	if err != nil {
		log.Fatalf("Failed to initialize machine: %v", err)
	}

	if *turbo {
		m.SetOption("turbo_render", "true")
	}

	ebiten.SetWindowSize(gbc.ScreenWidth*4, gbc.ScreenHeight*4)
	ebiten.SetWindowTitle(gbc.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(gbc.ScreenWidth, gbc.ScreenHeight, -1, -1)
	ebiten.SetTPS(60)

	runner := cli.NewRunner(m)
	defer runner.Close()
	defer m.Close()

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}
}
