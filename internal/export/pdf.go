package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// encodePDF writes a single page the size of img (1px = 1pt) with img
// embedded as a lossless PNG.
func encodePDF(w io.Writer, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("could not encode page image: %w", err)
	}

	b := img.Bounds()
	wd, ht := float64(b.Dx()), float64(b.Dy())
	// Landscape would swap Wd and Ht; the size already has the right shape.
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("drawing", opts, &buf)
	p.ImageOptions("drawing", 0, 0, wd, ht, false, opts, 0, "")
	if err := p.Error(); err != nil {
		return fmt.Errorf("could not build pdf: %w", err)
	}
	return p.Output(w)
}
