//go:build !libretro && !ios

package main

import (
	"flag"
	"log"

	"github.com/user-none/eblitui/standalone"

	"traceboy/adapter"
)

func main() {
	scenePath := flag.String("scene", "", "path to scene cartridge (opens UI if not provided)")
	regionFlag := flag.String("region", "auto", "region: auto, ntsc, or pal")
	turbo := flag.Bool("turbo", false, "render a whole view per frame")
	flag.Parse()

	factory := &adapter.Factory{}

	if *scenePath != "" {
		options := map[string]string{}
		if *turbo {
			options["turbo_render"] = "true"
		} else {
			options["turbo_render"] = "false"
		}
		if err := standalone.RunDirect(factory, *scenePath, *regionFlag, options); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
