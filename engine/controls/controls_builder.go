package controls

import "github.com/Carmen-Shannon/oxy-pano/common"

// PanelBuilderOption is a functional option for configuring a Panel via NewPanel.
type PanelBuilderOption func(*panel)

// WithLogger sets the logger used for command feedback.
func WithLogger(logger common.Logger) PanelBuilderOption {
	return func(p *panel) {
		if logger != nil {
			p.logger = logger
		}
	}
}
