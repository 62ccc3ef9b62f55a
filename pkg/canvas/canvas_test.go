package canvas

import (
	"image"
	"image/color"
	"testing"
)

func newTransparent(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func TestFillRectOpaque(t *testing.T) {
	img := newTransparent(40, 30)
	cv := New(img)

	red := color.NRGBA{255, 0, 0, 255}
	cv.FillRect(10, 5, 20, 15, red)

	inside := img.RGBAAt(15, 10)
	if inside.R < 250 || inside.A < 250 || inside.G != 0 {
		t.Errorf("Expected opaque red inside, got %v", inside)
	}

	for _, pt := range []image.Point{{9, 10}, {20, 10}, {15, 4}, {15, 15}, {0, 0}} {
		if got := img.RGBAAt(pt.X, pt.Y); got.A != 0 {
			t.Errorf("Expected transparent pixel at %v, got %v", pt, got)
		}
	}
}

func TestFillRectTranslucent(t *testing.T) {
	img := newTransparent(20, 20)
	cv := New(img)

	cv.FillRect(0, 0, 20, 20, color.NRGBA{180, 180, 180, 30})
	got := img.RGBAAt(10, 10)
	if got.A < 29 || got.A > 31 {
		t.Errorf("Expected alpha near 30, got %d", got.A)
	}

	// a second layer blends over the first
	cv.FillRect(0, 0, 20, 20, color.NRGBA{180, 180, 180, 30})
	again := img.RGBAAt(10, 10)
	if again.A <= got.A {
		t.Errorf("Expected alpha to grow after blending, got %d then %d", got.A, again.A)
	}
}

func TestFillRectClipped(t *testing.T) {
	img := newTransparent(20, 20)
	cv := New(img)

	// partially and fully outside rectangles must not panic
	cv.FillRect(-10, -5, 5, 5, color.NRGBA{0, 0, 255, 255})
	cv.FillRect(30, 30, 40, 40, color.NRGBA{0, 0, 255, 255})
	cv.FillRect(5, 5, 5, 10, color.NRGBA{0, 0, 255, 255})

	if got := img.RGBAAt(0, 0); got.B < 250 {
		t.Errorf("Expected clipped fill at origin, got %v", got)
	}
	if got := img.RGBAAt(5, 5); got.A != 0 {
		t.Errorf("Expected nothing drawn at (5,5), got %v", got)
	}
}

func TestLines(t *testing.T) {
	img := newTransparent(100, 100)
	cv := New(img)
	white := color.NRGBA{255, 255, 255, 255}

	cv.VLine(50, 0, 100, 8, white)
	for x := 46; x < 54; x++ {
		if img.RGBAAt(x, 50).A < 250 {
			t.Errorf("Expected vertical line to cover x=%d", x)
		}
	}
	if img.RGBAAt(45, 50).A != 0 || img.RGBAAt(54, 50).A != 0 {
		t.Error("Vertical line is wider than 8px")
	}

	cv.HLine(20, 0, 100, 10, white)
	for y := 15; y < 25; y++ {
		if img.RGBAAt(10, y).A < 250 {
			t.Errorf("Expected horizontal line to cover y=%d", y)
		}
	}
	if img.RGBAAt(10, 14).A != 0 || img.RGBAAt(10, 25).A != 0 {
		t.Error("Horizontal line is wider than 10px")
	}
}

func TestStrokeRect(t *testing.T) {
	img := newTransparent(100, 100)
	cv := New(img)
	green := color.NRGBA{0, 255, 0, 200}

	cv.StrokeRect(20, 20, 80, 80, 6, green)

	// border pixels, including corners, share one opacity
	corner := img.RGBAAt(21, 21)
	edge := img.RGBAAt(50, 22)
	if corner.A == 0 || corner.A != edge.A {
		t.Errorf("Expected uniform border alpha, corner=%d edge=%d", corner.A, edge.A)
	}
	if got := img.RGBAAt(50, 50); got.A != 0 {
		t.Errorf("Expected unfilled interior, got %v", got)
	}
	if got := img.RGBAAt(19, 50); got.A != 0 {
		t.Errorf("Expected nothing outside the rectangle, got %v", got)
	}
	if got := img.RGBAAt(79, 50); got.A == 0 {
		t.Error("Expected right border inside the rectangle")
	}
}

func TestStrokeRectTooThin(t *testing.T) {
	img := newTransparent(50, 50)
	cv := New(img)

	cv.StrokeRect(10, 10, 18, 40, 6, color.NRGBA{0, 255, 0, 255})
	if got := img.RGBAAt(14, 25); got.G < 250 {
		t.Errorf("Expected narrow rectangle to be filled, got %v", got)
	}
}

func BenchmarkFillRect(b *testing.B) {
	img := newTransparent(1920, 1080)
	cv := New(img)
	col := color.NRGBA{180, 180, 180, 30}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cv.FillRect(0, 0, 180, 1080, col)
	}
}
