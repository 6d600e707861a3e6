package canvas

import "github.com/easelai/easel/internal/geom"

// RenderDocumentBounds darkens everything outside the document's pixel
// bounds: an outer translucent rectangle covers the whole viewport and an
// inner rectangle at the document bounds is cut out of it with a
// subtractive composite.
func (c *Controller) RenderDocumentBounds(doc, viewport geom.Rect, visible bool) {
	group := c.node(IDBoundsGroup)
	group.Visible = visible
	if !visible {
		return
	}

	outer := c.node(IDBoundsOuter)
	outer.X = float64(viewport.X)
	outer.Y = float64(viewport.Y)
	outer.Width = float64(viewport.Width)
	outer.Height = float64(viewport.Height)

	inner := c.node(IDBoundsInner)
	inner.X = float64(doc.X)
	inner.Y = float64(doc.Y)
	inner.Width = float64(doc.Width)
	inner.Height = float64(doc.Height)
}
