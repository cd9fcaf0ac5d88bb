package gbc

// LCD geometry.
const (
	ScreenWidth  = 160
	ScreenHeight = 144
)

// Render window: 96x96 pixels (12x12 tiles) centered on the LCD.
const (
	RenderWidth  = 96
	RenderHeight = 96

	RenderTilesX = RenderWidth / 8  // 12
	RenderTilesY = RenderHeight / 8 // 12

	RenderOffsetX = (ScreenWidth - RenderWidth) / 2   // 32
	RenderOffsetY = (ScreenHeight - RenderHeight) / 2 // 24

	// Tile 0 is the border tile; render tiles occupy 1..MaxRenderTiles.
	RenderTileBase = 1
	MaxRenderTiles = RenderTilesX * RenderTilesY // 144
)

// Color indices. The core never touches actual colors, only these four
// palette slots; the PPU maps them to RGB at composite time.
const (
	ColorShadow = 0
	ColorSphere = 1
	ColorGround = 2
	ColorSky    = 3
)

// View identifies one of the two camera viewpoints. The back view flips
// the light's horizontal component, which moves the shaded side of the
// sphere and the shadow to the opposite side.
type View uint8

const (
	ViewFront View = 0
	ViewBack  View = 1

	NumViews = 2
)

// Scene holds the immutable scene description: a single sphere above an
// infinite ground plane at y=0, lit by one directional light. Positions
// are in integer world units, the light vector in 8.8 fixed point.
type Scene struct {
	SphereCX  int // sphere center X
	SphereCY  int // sphere center Y (height above ground)
	SphereCZ  int // sphere center Z (distance from camera)
	SphereR   int
	SphereRSq int

	CamY int // camera height; camera X/Z are the origin

	// Light direction, unit-scaled 8.8 fixed point. LightX is the front
	// view's value; the back view negates it.
	LightX Fixed
	LightY Fixed
	LightZ Fixed
}

// DefaultScene is the built-in scene used when no cartridge is loaded:
// sphere at (0,2,6) radius 2, camera at height 2, light (-0.5, 0.7, 0.5).
func DefaultScene() Scene {
	return Scene{
		SphereCX:  0,
		SphereCY:  2,
		SphereCZ:  6,
		SphereR:   2,
		SphereRSq: 4,
		CamY:      2,
		LightX:    -128,
		LightY:    179,
		LightZ:    128,
	}
}
