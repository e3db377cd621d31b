package propanel

// Widget names understood by the panel renderer
const (
	WidgetSelect      = "select"
	WidgetInputNumber = "inputNumber"
	WidgetDivider     = "divider"
	WidgetColor       = "color"
)

// Option is one entry of a select widget
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Props carries widget specific settings
type Props struct {
	Options []Option `json:"options,omitempty"`
	Step    float64  `json:"step,omitempty"`
}

// Rule is a validation rule applied to the field value
type Rule struct {
	Pattern string `json:"pattern"`
	Message string `json:"message"`
}

// Descriptor describes one property panel field
type Descriptor struct {
	Title        string   `json:"title,omitempty"`
	Type         string   `json:"type,omitempty"`
	Widget       string   `json:"widget"`
	Default      any      `json:"default,omitempty"`
	ClassName    string   `json:"className,omitempty"`
	Disabled     *bool    `json:"disabled,omitempty"`
	Props        *Props   `json:"props,omitempty"`
	Span         int      `json:"span,omitempty"`
	Rules        []Rule   `json:"rules,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// IsDisabled reports whether the field is rendered read-only
func (d Descriptor) IsDisabled() bool {
	return d.Disabled != nil && *d.Disabled
}

// Bool returns a pointer to b, for Descriptor.Disabled
func Bool(b bool) *bool {
	return &b
}
