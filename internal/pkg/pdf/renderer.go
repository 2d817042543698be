// Package pdf renders a report document through pdfcpu's JSON content API.
package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/filterbench/internal/pkg/report"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const pointsPerMillimetre = 72 / 25.4

type Renderer struct {
	conf    *model.Configuration
	maxEdge int
}

// NewRenderer downsizes embedded images whose longest edge exceeds maxEdge
// pixels; zero keeps them as they are.
func NewRenderer(maxEdge int) *Renderer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Renderer{conf: conf, maxEdge: maxEdge}
}

func (r *Renderer) Render(ctx context.Context, doc *report.Document, w io.Writer) error {
	tempDir, err := os.MkdirTemp("", "filterbench-report-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	sources, err := r.prepareImages(ctx, tempDir, doc)
	if err != nil {
		return err
	}

	spec, err := json.Marshal(buildSpec(doc, sources))
	if err != nil {
		return err
	}
	if err := api.Create(nil, bytes.NewReader(spec), w, r.conf); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	logrus.WithField("pages", len(doc.Pages)).Debug("report rendered")
	return nil
}

// prepareImages normalizes every embedded image to PNG on disk, since the
// content API references images by path. Keys are "<page>/<index>".
func (r *Renderer) prepareImages(ctx context.Context, dir string, doc *report.Document) (map[string]string, error) {
	sources := make(map[string]string)
	for p, page := range doc.Pages {
		for i := range page.Images {
			key := imageKey(p, i)
			sources[key] = filepath.Join(dir, fmt.Sprintf("page%03d_%d.png", p+1, i))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for p, page := range doc.Pages {
		for i, img := range page.Images {
			path := sources[imageKey(p, i)]
			data := img.Data
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return r.writePNG(data, path)
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to prepare report images: %w", err)
	}
	return sources, nil
}

func (r *Renderer) writePNG(data []byte, path string) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	b := img.Bounds()
	if r.maxEdge > 0 && (b.Dx() > r.maxEdge || b.Dy() > r.maxEdge) {
		img = imaging.Fit(img, r.maxEdge, r.maxEdge, imaging.Lanczos)
	}
	return imaging.Save(img, path)
}

type pdfSpec struct {
	Paper  string              `json:"paper"`
	Origin string              `json:"origin"`
	Pages  map[string]pageSpec `json:"pages"`
}

type pageSpec struct {
	Content contentSpec `json:"content"`
}

type contentSpec struct {
	Text  []textSpec  `json:"text,omitempty"`
	Image []imageSpec `json:"image,omitempty"`
}

type textSpec struct {
	Value    string     `json:"value"`
	Position [2]float64 `json:"pos"`
	Font     fontSpec   `json:"font"`
}

type fontSpec struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type imageSpec struct {
	Src      string     `json:"src"`
	Position [2]float64 `json:"pos"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
}

// buildSpec converts top-left millimetre coordinates into pdfcpu's lower-left
// point space.
func buildSpec(doc *report.Document, sources map[string]string) pdfSpec {
	pageHeight := doc.PageHeight * pointsPerMillimetre
	spec := pdfSpec{
		Paper:  "A4",
		Origin: "LowerLeft",
		Pages:  make(map[string]pageSpec, len(doc.Pages)),
	}

	for p, page := range doc.Pages {
		var content contentSpec
		for _, t := range page.Texts {
			size := int(t.Size)
			content.Text = append(content.Text, textSpec{
				Value:    t.Value,
				Position: [2]float64{mm(t.X), pageHeight - mm(t.Y) - float64(size)},
				Font:     fontSpec{Name: "Helvetica", Size: size},
			})
		}
		for i, img := range page.Images {
			content.Image = append(content.Image, imageSpec{
				Src:      sources[imageKey(p, i)],
				Position: [2]float64{mm(img.X), pageHeight - mm(img.Y+img.Height)},
				Width:    mm(img.Width),
				Height:   mm(img.Height),
			})
		}
		spec.Pages[strconv.Itoa(p+1)] = pageSpec{Content: content}
	}
	return spec
}

func imageKey(page, index int) string {
	return fmt.Sprintf("%d/%d", page, index)
}

func mm(v float64) float64 {
	return v * pointsPerMillimetre
}
