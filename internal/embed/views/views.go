// Package views renders primary-source embeds as templ components.
package views

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/DjordjeVuckovic/encyc-front/internal/embed"
	"github.com/a-h/templ"
)

// Renderer is the templ-backed embed.TemplateRenderer.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) RenderEmbed(ctx context.Context, ec embed.Context) (string, error) {
	c, err := Embed(ec)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Embed picks the component for the context's media kind.
func Embed(ec embed.Context) (templ.Component, error) {
	switch v := ec.(type) {
	case embed.ImageEmbed:
		return Image(v), nil
	case embed.DocumentEmbed:
		return Document(v), nil
	case embed.VideoEmbed:
		return Video(v), nil
	}
	return nil, fmt.Errorf("no embed template for %T", ec)
}

func Image(e embed.ImageEmbed) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		openFigure(&buf, e.CommonEmbed)
		buf.WriteString(`<a class="source-link" href="` + safeURL(e.Href) + `">`)
		buf.WriteString(`<img class="source-thumb" src="` + safeURL(thumb(e.Multiple, e.ThumbSm, e.ThumbLg)) +
			`" data-large="` + safeURL(e.ThumbLg) + `" alt="` + attr(e.Caption) + `"/>`)
		buf.WriteString(`</a>`)
		closeFigure(&buf, e.CommonEmbed)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func Document(e embed.DocumentEmbed) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		openFigure(&buf, e.CommonEmbed)
		buf.WriteString(`<a class="source-link" href="` + safeURL(e.Href) + `">`)
		buf.WriteString(`<img class="source-thumb document" src="` + safeURL(e.ThumbSm) +
			`" data-large="` + safeURL(e.ThumbLg) + `" alt="` + attr(e.Caption) + `"/>`)
		buf.WriteString(`</a>`)
		closeFigure(&buf, e.CommonEmbed)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Video renders a player placeholder; the page script starts the stream from
// the data attributes.
func Video(e embed.VideoEmbed) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		openFigure(&buf, e.CommonEmbed)
		buf.WriteString(`<div class="source-player" id="player-` + attr(e.EncyclopediaID) + `"`)
		buf.WriteString(` data-streamer="` + attr(e.Streamer) + `"`)
		buf.WriteString(` data-file="` + attr(e.StreamingPath) + `"`)
		buf.WriteString(` data-image="` + safeURL(e.ThumbLg) + `"`)
		buf.WriteString(` data-width="` + strconv.Itoa(e.Width) + `" data-height="` + strconv.Itoa(e.Height) + `">`)
		buf.WriteString(`<a class="source-link" href="` + safeURL(e.Href) + `">`)
		buf.WriteString(`<img class="source-thumb" src="` + safeURL(e.ThumbSm) + `" alt="` + attr(e.Caption) +
			`" width="` + strconv.Itoa(e.Width) + `"/>`)
		buf.WriteString(`</a></div>`)
		closeFigure(&buf, e.CommonEmbed)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func openFigure(buf *bytes.Buffer, c embed.CommonEmbed) {
	class := "primary-source " + string(c.MediaFormat)
	if c.Multiple {
		class += " multiple"
	}
	buf.WriteString(`<div class="` + attr(class) + `" data-source="` + attr(c.EncyclopediaID) + `">`)
}

func closeFigure(buf *bytes.Buffer, c embed.CommonEmbed) {
	if c.Caption != "" {
		buf.WriteString(`<div class="source-caption">` + templ.EscapeString(c.Caption) + `</div>`)
	}
	if c.Courtesy != "" {
		buf.WriteString(`<div class="source-courtesy">` + templ.EscapeString(c.Courtesy) + `</div>`)
	}
	buf.WriteString(`<a class="source-more" href="` + safeURL(c.Href) + `">More info</a>`)
	buf.WriteString(`</div>`)
}

func thumb(multiple bool, sm, lg string) string {
	if multiple || lg == "" {
		return sm
	}
	return lg
}

func attr(s string) string {
	return templ.EscapeString(s)
}

func safeURL(s string) string {
	return templ.EscapeString(string(templ.URL(s)))
}
