package canvas

// Tool is the active canvas tool.
type Tool string

const (
	ToolBrush  Tool = "brush"
	ToolEraser Tool = "eraser"
	ToolRect   Tool = "rect"
	ToolMove   Tool = "move"
	ToolView   Tool = "view"
	ToolBbox   Tool = "bbox"
)

// CursorStyle derives the pointer cursor from the current tool and layer
// state. It is a pure function, recomputed every render.
func CursorStyle(tool Tool, layerCount int, activeLayerDrawable, grabbing bool) string {
	switch tool {
	case ToolView:
		if grabbing {
			return "grabbing"
		}
		return "grab"
	case ToolMove, ToolBbox:
		return "default"
	case ToolRect:
		if layerCount == 0 || !activeLayerDrawable {
			return "not-allowed"
		}
		return "crosshair"
	case ToolBrush, ToolEraser:
		if layerCount == 0 || !activeLayerDrawable {
			return "not-allowed"
		}
		// The circular preview replaces the pointer cursor.
		return "none"
	}
	return "default"
}
