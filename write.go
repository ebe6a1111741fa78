// seehuhn.de/go/labelstack - rasterise contour annotations into label stacks
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package labelstack

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"
)

// Format selects the image encoding for file-mode output.  Both formats
// store labels losslessly as 16-bit grayscale.
type Format int

const (
	// FormatPNG writes 16-bit grayscale PNG images.
	FormatPNG Format = iota

	// FormatTIFF writes deflate-compressed 16-bit grayscale TIFF images.
	FormatTIFF
)

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatTIFF:
		return ".tif"
	default:
		return ".png"
	}
}

// ParseFormat converts a format name ("png" or "tiff") to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "png":
		return FormatPNG, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	default:
		return 0, fmt.Errorf("unknown image format %q", name)
	}
}

// WriteStack writes one label image per section into dir, creating the
// directory if absent.  File names encode the section index with
// fixed-width zero padding ("0000.png", "0001.png", ...) so that
// lexicographic and numeric order agree.
//
// Both encodings store 16 bits per pixel; a stack with labels above 65535
// cannot be written and fails before any file is produced.  Environment
// failures are wrapped as ErrIO.
func WriteStack(s *Stack, dir string, format Format) error {
	if maxLabel := s.MaxLabel(); maxLabel > 0xffff {
		return fmt.Errorf("label %d exceeds the 16-bit range of %s images",
			maxLabel, format.Ext()[1:])
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ioErr("creating "+dir, err)
	}

	for i, r := range s.Rasters {
		name := fmt.Sprintf("%04d%s", s.Indices[i], format.Ext())
		if err := writeImage(filepath.Join(dir, name), r, format); err != nil {
			return err
		}
	}
	return nil
}

func writeImage(path string, r *Raster, format Format) (err error) {
	img := image.NewGray16(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16(r.At(x, y))})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return ioErr("creating "+path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = ioErr("closing "+path, cerr)
		}
	}()

	switch format {
	case FormatTIFF:
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		err = ioErr("writing "+path, err)
	}
	return err
}
