// Package raster turns one source PDF into per-page image files for the
// annotation tool. It is the boundary collaborator of the converter: page N
// of the document becomes the image referenced by page N's task.
package raster

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Options configures page image extraction.
type Options struct {
	// OutputDir receives the page images. Empty means next to the PDF.
	OutputDir string
	// Scale resizes extracted images by this factor. Values <= 0 or == 1
	// keep the original size.
	Scale float64
	// PageRange restricts extraction, e.g. "1-3" or "2,5". Empty means all.
	PageRange string
}

// PageImages extracts page images from pdfPath and writes one PNG per page
// named <stem>_<page>.png. It returns the written paths in page order.
func PageImages(pdfPath string, opts Options) ([]string, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, fmt.Errorf("PDF file not found: %w", err)
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(pdfPath)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	pageNumbers, err := parsePageRange(opts.PageRange)
	if err != nil {
		return nil, fmt.Errorf("invalid page range %q: %w", opts.PageRange, err)
	}

	tempDir, err := os.MkdirTemp("", "labelbridge-raster-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	var pageStrings []string
	for _, p := range pageNumbers {
		pageStrings = append(pageStrings, strconv.Itoa(p))
	}

	if err := api.ExtractImagesFile(pdfPath, tempDir, pageStrings, nil); err != nil {
		return nil, fmt.Errorf("failed to extract page images from PDF: %w", err)
	}

	pages, err := collectPageImages(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to process extracted images: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return writePageImages(pages, outDir, stem, opts.Scale)
}

// writePageImages saves one PNG per page in ascending page order.
func writePageImages(pages map[int]image.Image, outDir, stem string, scale float64) ([]string, error) {
	pageNums := make([]int, 0, len(pages))
	for p := range pages {
		pageNums = append(pageNums, p)
	}
	sort.Ints(pageNums)

	paths := make([]string, 0, len(pageNums))
	for _, p := range pageNums {
		img := pages[p]
		if scale > 0 && scale != 1 {
			bounds := img.Bounds()
			img = imaging.Resize(img,
				int(float64(bounds.Dx())*scale),
				int(float64(bounds.Dy())*scale),
				imaging.Lanczos)
		}
		out := filepath.Join(outDir, PageImageName(stem, p))
		if err := imaging.Save(img, out); err != nil {
			return nil, fmt.Errorf("saving page %d image: %w", p, err)
		}
		paths = append(paths, out)
	}
	return paths, nil
}

// PageImageName returns the image file name for one page of a document. The
// same convention feeds the {page} image locator template on the task side.
func PageImageName(stem string, page int) string {
	return fmt.Sprintf("%s_%d.png", stem, page)
}

// ImageTemplate returns the {page} locator template matching PageImageName.
func ImageTemplate(stem string) string {
	return stem + "_{page}.png"
}

// collectPageImages walks the extraction directory and keeps the first image
// found per page. pdfcpu names extracted files page_<num>_image_<idx>.<ext>.
func collectPageImages(dir string) (map[int]image.Image, error) {
	result := make(map[int]image.Image)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		page, err := parsePageFromFilename(info.Name())
		if err != nil {
			return nil
		}
		if _, ok := result[page]; ok {
			return nil
		}

		img, err := loadImageFile(path)
		if err != nil {
			// Skip unreadable images.
			return nil
		}
		result[page] = img
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func loadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: reading files we just extracted
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	return img, err
}

// parsePageFromFilename extracts the page number from a pdfcpu extracted
// filename like page_1_image_1.png.
func parsePageFromFilename(filename string) (int, error) {
	if !strings.HasPrefix(filename, "page_") {
		return 0, errors.New("not a page file")
	}

	parts := strings.Split(filename, "_")
	if len(parts) < 2 {
		return 0, errors.New("invalid filename format")
	}

	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.New("invalid page number")
	}
	return page, nil
}

// parsePageRange parses a page range string like "1-5" or "1,3,5". Empty
// input means all pages.
func parsePageRange(pageRange string) ([]int, error) {
	if pageRange == "" {
		return nil, nil
	}

	var pages []int
	for _, part := range strings.Split(pageRange, ",") {
		tokenPages, err := parseRangeToken(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		pages = append(pages, tokenPages...)
	}
	return pages, nil
}

func parseRangeToken(part string) ([]int, error) {
	if strings.Contains(part, "-") {
		rangeParts := strings.Split(part, "-")
		if len(rangeParts) != 2 {
			return nil, fmt.Errorf("invalid range format: %s", part)
		}
		start, err := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid start page: %s", rangeParts[0])
		}
		end, err := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid end page: %s", rangeParts[1])
		}
		if start > end {
			return nil, fmt.Errorf("start page %d greater than end page %d", start, end)
		}
		out := make([]int, 0, end-start+1)
		for i := start; i <= end; i++ {
			out = append(out, i)
		}
		return out, nil
	}
	page, err := strconv.Atoi(part)
	if err != nil {
		return nil, fmt.Errorf("invalid page number: %s", part)
	}
	return []int{page}, nil
}
