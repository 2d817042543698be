// Package report lays out processed images into a paginated document model.
// Coordinates are millimetres from the top-left corner of the page.
package report

const (
	RoleOriginal  = "original"
	RoleProcessed = "processed"
)

type Document struct {
	Title      string
	PageWidth  float64
	PageHeight float64
	Pages      []Page
	ImageIDs   []string
}

type Page struct {
	Texts  []Text
	Images []Image
}

// Text is a single line; Y is the top of the line box.
type Text struct {
	Value string
	X, Y  float64
	Size  float64
}

type Image struct {
	ImageID string
	Role    string
	Data    []byte
	X, Y    float64
	Width   float64
	Height  float64
}

// Lines returns every text value of the document in page order.
func (d *Document) Lines() []string {
	var out []string
	for _, p := range d.Pages {
		for _, t := range p.Texts {
			out = append(out, t.Value)
		}
	}
	return out
}
