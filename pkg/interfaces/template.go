package interfaces

import "io"

// TemplateRenderer renders a named view template with the supplied data. When
// out is provided the result is written there as well as returned.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}
