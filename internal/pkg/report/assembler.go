package report

import (
	"bytes"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/filterbench/internal/entity"
)

type Layout struct {
	PageWidth   float64
	PageHeight  float64
	Margin      float64
	TargetWidth float64
	ColumnGap   float64
	LineHeight  float64

	TitleSize  float64
	HeaderSize float64
	TextSize   float64
}

// DefaultLayout matches an A4 portrait page with two 85mm columns.
func DefaultLayout() Layout {
	return Layout{
		PageWidth:   210,
		PageHeight:  297,
		Margin:      10,
		TargetWidth: 85,
		ColumnGap:   10,
		LineHeight:  7,
		TitleSize:   18,
		HeaderSize:  14,
		TextSize:    11,
	}
}

// ScaledHeight keeps the aspect ratio of d at the given width.
func ScaledHeight(targetWidth float64, d entity.Dimensions) float64 {
	if d.Width <= 0 || d.Height <= 0 {
		return 0
	}
	return targetWidth * float64(d.Height) / float64(d.Width)
}

// Build places every ready image on its own page, the first one sharing its
// page with the title. Images without a successful evaluation are skipped.
func Build(images []*entity.LoadedImage, title string, layout Layout) (*Document, error) {
	doc := &Document{
		Title:      title,
		PageWidth:  layout.PageWidth,
		PageHeight: layout.PageHeight,
	}

	for _, img := range images {
		artifact := img.VisibleArtifact()
		if artifact == nil {
			continue
		}
		withTitle := title != "" && len(doc.Pages) == 0
		doc.Pages = append(doc.Pages, layoutImage(img, artifact, withTitle, title, layout)...)
		doc.ImageIDs = append(doc.ImageIDs, img.ID)
	}

	if len(doc.ImageIDs) == 0 {
		return nil, entity.ErrEmptyReport
	}
	return doc, nil
}

func layoutImage(img *entity.LoadedImage, artifact *entity.Artifact, withTitle bool, title string, l Layout) []Page {
	var pages []Page
	page := Page{}
	y := l.Margin

	if withTitle {
		page.Texts = append(page.Texts, Text{Value: title, X: l.Margin, Y: y, Size: l.TitleSize})
		y += 2 * l.LineHeight
	}

	page.Texts = append(page.Texts, Text{Value: "Image: " + img.Name, X: l.Margin, Y: y, Size: l.HeaderSize})
	y += l.LineHeight

	leftX := l.Margin
	rightX := l.Margin + l.TargetWidth + l.ColumnGap
	page.Texts = append(page.Texts,
		Text{Value: "Original", X: leftX, Y: y, Size: l.TextSize},
		Text{Value: "Processed", X: rightX, Y: y, Size: l.TextSize},
	)
	y += l.LineHeight

	bottom := l.PageHeight - l.Margin
	width := l.TargetWidth
	originalHeight := ScaledHeight(width, originalDimensions(img))
	processedHeight := ScaledHeight(width, artifact.Dimensions)

	// A pair taller than the rest of the page shrinks, keeping its aspect
	// ratio, so that the filters heading and one line still fit below it.
	pairHeight := max(originalHeight, processedHeight)
	if room := bottom - y - 3*l.LineHeight; pairHeight > room && room > 0 {
		scale := room / pairHeight
		width *= scale
		originalHeight *= scale
		processedHeight *= scale
	}
	page.Images = append(page.Images,
		Image{ImageID: img.ID, Role: RoleOriginal, Data: img.Source, X: leftX, Y: y, Width: width, Height: originalHeight},
		Image{ImageID: img.ID, Role: RoleProcessed, Data: artifact.Data, X: rightX, Y: y, Width: width, Height: processedHeight},
	)
	y += max(originalHeight, processedHeight) + l.LineHeight

	if y+l.LineHeight > bottom {
		pages = append(pages, page)
		page = Page{}
		y = l.Margin
	}
	page.Texts = append(page.Texts, Text{Value: "Applied filters:", X: l.Margin, Y: y, Size: l.TextSize})
	y += l.LineHeight

	ops := img.AppliedPipeline
	if len(ops) == 0 {
		ops = []entity.Operation{{Kind: entity.KindOriginal}}
	}
	for _, op := range ops {
		if y+l.LineHeight > bottom {
			pages = append(pages, page)
			page = Page{}
			y = l.Margin
		}
		page.Texts = append(page.Texts, Text{Value: op.Label(), X: l.Margin, Y: y, Size: l.TextSize})
		y += l.LineHeight
	}
	return append(pages, page)
}

func originalDimensions(img *entity.LoadedImage) entity.Dimensions {
	if img.Dimensions != nil {
		return *img.Dimensions
	}
	decoded, err := imaging.Decode(bytes.NewReader(img.Source))
	if err != nil {
		return entity.Dimensions{}
	}
	b := decoded.Bounds()
	return entity.Dimensions{Width: b.Dx(), Height: b.Dy()}
}
