package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"sort"

	_ "image/gif"
	_ "image/jpeg"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"
)

const (
	renderDPI = 150

	// Embedded images covering at least this share of their page are
	// background scans, not illustrations.
	maxIllustrationCoverage = 0.8
)

// Extractor turns raw PDF bytes into images. RenderPages produces one
// full-page raster per physical page; ExtractIllustrations inventories the
// sub-page figures embedded on each page, keyed by 1-based page number.
// All images are returned as data URLs.
type Extractor interface {
	RenderPages(pdfBytes []byte) ([]string, error)
	ExtractIllustrations(pdfBytes []byte) map[int][]string
}

type extractor struct{}

func NewExtractor() Extractor {
	return &extractor{}
}

func (e *extractor) RenderPages(pdfBytes []byte) ([]string, error) {
	doc, err := fitz.NewFromMemory(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for rendering: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.ImageDPI(n, renderDPI)
		if err != nil {
			log.Warn().Err(err).Int("page", n+1).Msg("Failed to render page, skipping")
			continue
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			log.Warn().Err(err).Int("page", n+1).Msg("Failed to encode page raster, skipping")
			continue
		}
		pages = append(pages, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(buf.Bytes()))
	}
	return pages, nil
}

// ExtractIllustrations never fails the upload: any fault here degrades to
// fewer (or zero) illustrations for the affected pages.
func (e *extractor) ExtractIllustrations(pdfBytes []byte) map[int][]string {
	byPage := make(map[int][]string)

	rs := bytes.NewReader(pdfBytes)
	dims, err := api.PageDims(rs, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read page dimensions, no illustrations extracted")
		return byPage
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return byPage
	}
	pageMaps, err := api.ExtractImagesRaw(rs, nil, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to extract embedded images, no illustrations extracted")
		return byPage
	}

	for _, objs := range pageMaps {
		// Map keys are PDF object numbers; ascending order follows the
		// document's embedding order.
		objNrs := make([]int, 0, len(objs))
		for nr := range objs {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)

		for _, nr := range objNrs {
			obj := objs[nr]
			if obj.PageNr < 1 || obj.PageNr > len(dims) {
				continue
			}
			data, err := io.ReadAll(obj)
			if err != nil {
				log.Warn().Err(err).Int("page", obj.PageNr).Int("obj", nr).Msg("Failed to read embedded image, skipping")
				continue
			}
			cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				log.Debug().Err(err).Int("page", obj.PageNr).Int("obj", nr).Msg("Undecodable embedded image, skipping")
				continue
			}
			pageArea := dims[obj.PageNr-1].Width * dims[obj.PageNr-1].Height
			if !keepAsIllustration(cfg.Width, cfg.Height, pageArea) {
				continue
			}
			byPage[obj.PageNr] = append(byPage[obj.PageNr], dataURL(obj.FileType, data))
		}
	}

	for pageNr, imgs := range byPage {
		log.Info().Int("page", pageNr).Int("count", len(imgs)).Msg("Extracted illustrations")
	}
	return byPage
}

// keepAsIllustration compares the image's pixel area against the page's
// native geometry. Page area comes from the PDF's own dimensions, not the
// render resolution.
func keepAsIllustration(imgWidth, imgHeight int, pageArea float64) bool {
	if pageArea <= 0 {
		return false
	}
	coverage := float64(imgWidth*imgHeight) / pageArea
	return coverage < maxIllustrationCoverage
}

func dataURL(fileType string, data []byte) string {
	if fileType == "" {
		fileType = "png"
	}
	return "data:image/" + fileType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
