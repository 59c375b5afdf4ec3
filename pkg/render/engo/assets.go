// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo/common"
)

// AssetManager builds the textures the flight view needs. There are no
// image files on disk; every sprite is generated from a pixel pattern.
type AssetManager struct {
	aircraftSprite common.Drawable
	crashSprite    common.Drawable
	skyTexture     common.Drawable
	groundTexture  common.Drawable
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{}
}

// LoadAssets generates all textures used by the flight view.
func (am *AssetManager) LoadAssets() error {
	if err := am.loadAircraftSprites(); err != nil {
		return err
	}
	return am.loadSceneryAssets()
}

// loadAircraftSprites creates the aircraft arrowhead and the crash
// marker.
func (am *AssetManager) loadAircraftSprites() error {
	// Arrowhead pointing up, matching the 3:4 aspect of the base
	// aircraft shape
	aircraftPattern := [][]int{
		{0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0},
		{0, 0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0},
		{0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0},
		{0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0},
		{0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0},
		{0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0},
		{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
		{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	}

	// X marker shown at the crash site
	crashPattern := [][]int{
		{1, 1, 0, 0, 0, 0, 1, 1},
		{1, 1, 1, 0, 0, 1, 1, 1},
		{0, 1, 1, 1, 1, 1, 1, 0},
		{0, 0, 1, 1, 1, 1, 0, 0},
		{0, 0, 1, 1, 1, 1, 0, 0},
		{0, 1, 1, 1, 1, 1, 1, 0},
		{1, 1, 1, 0, 0, 1, 1, 1},
		{1, 1, 0, 0, 0, 0, 1, 1},
	}

	am.aircraftSprite = am.createSprite(16, 16, aircraftPattern)
	am.crashSprite = am.createSprite(8, 8, crashPattern)
	return nil
}

// loadSceneryAssets creates the sky and ground fill textures.
func (am *AssetManager) loadSceneryAssets() error {
	solid := [][]int{{1, 1}, {1, 1}}
	am.skyTexture = am.createSprite(2, 2, solid)
	am.groundTexture = am.createSprite(2, 2, solid)
	return nil
}

// createSprite creates a sprite from a 2D pixel pattern
func (am *AssetManager) createSprite(width, height int, pattern [][]int) common.Drawable {
	img := am.createBaseImage(width, height)
	am.drawPatternOnImage(img, pattern, width, height)
	return am.convertToEngoTexture(img)
}

// createBaseImage creates a transparent RGBA image with the specified dimensions.
func (am *AssetManager) createBaseImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)
	return img
}

// drawPatternOnImage draws a 2D pixel pattern onto the provided RGBA image.
func (am *AssetManager) drawPatternOnImage(img *image.RGBA, pattern [][]int, width, height int) {
	for y, row := range pattern {
		if y >= height {
			break
		}
		for x, pixel := range row {
			if x >= width {
				break
			}
			if pixel == 1 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			}
		}
	}
}

// convertToEngoTexture converts an RGBA image to an Engo-compatible texture.
func (am *AssetManager) convertToEngoTexture(img *image.RGBA) common.Drawable {
	bounds := img.Bounds()
	nrgbaImg := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			nrgbaImg.Set(x, y, img.At(x, y))
		}
	}

	texture := common.NewImageObject(nrgbaImg)
	return common.NewTextureSingle(texture)
}

// GetAircraftSprite returns the aircraft texture.
func (am *AssetManager) GetAircraftSprite() common.Drawable {
	return am.aircraftSprite
}

// GetCrashSprite returns the crash marker texture.
func (am *AssetManager) GetCrashSprite() common.Drawable {
	return am.crashSprite
}

// GetSkyTexture returns the sky fill texture.
func (am *AssetManager) GetSkyTexture() common.Drawable {
	return am.skyTexture
}

// GetGroundTexture returns the ground fill texture.
func (am *AssetManager) GetGroundTexture() common.Drawable {
	return am.groundTexture
}
