package main

import (
	libretro "github.com/user-none/eblitui/libretro"

	"traceboy/adapter"
	"traceboy/gbc"
)

func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{
		{RetroID: libretro.JoypadA, BitID: gbc.ButtonA},
	})
}

func main() {}
