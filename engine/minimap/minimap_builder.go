package minimap

// MinimapBuilderOption is a functional option for configuring a Minimap via NewMinimap.
type MinimapBuilderOption func(*minimap)

// WithSize sets the edge length of the minimap in pixels.
//
// Parameters:
//   - size: the edge length, non-positive values are ignored
//
// Returns:
//   - MinimapBuilderOption: a function that applies the size option to a minimap
func WithSize(size int) MinimapBuilderOption {
	return func(m *minimap) {
		if size > 0 {
			m.size = size
		}
	}
}

// WithMargin sets the distance from the top and right surface edges in pixels.
//
// Parameters:
//   - margin: the margin, negative values are ignored
//
// Returns:
//   - MinimapBuilderOption: a function that applies the margin option to a minimap
func WithMargin(margin int) MinimapBuilderOption {
	return func(m *minimap) {
		if margin >= 0 {
			m.margin = margin
		}
	}
}
