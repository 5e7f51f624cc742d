package piemenu

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/recera/piemenu/pkg/canvas"
	"github.com/recera/piemenu/pkg/command"
	"github.com/recera/piemenu/pkg/geometry"
	"github.com/recera/piemenu/pkg/gesture"
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/scheduler"
)

// Options configures a menu. Zero-valued fields take the value from
// Defaults(), except numeric fields marked with Keep or given explicitly
// in YAML.
type Options struct {
	MenuRadius          float64  `yaml:"menuRadius"`
	Selector            string   `yaml:"selector"`
	FillColor           string   `yaml:"fillColor"`
	ActiveFillColor     string   `yaml:"activeFillColor"`
	ActivePadding       float64  `yaml:"activePadding"`
	IndicatorSize       float64  `yaml:"indicatorSize"`
	SeparatorWidth      float64  `yaml:"separatorWidth"`
	SpotlightPadding    float64  `yaml:"spotlightPadding"`
	AdaptiveSpotlight   bool     `yaml:"adaptiveNodeSpotlightRadius"`
	MinSpotlightRadius  float64  `yaml:"minSpotlightRadius"`
	MaxSpotlightRadius  float64  `yaml:"maxSpotlightRadius"`
	OpenMenuEvents      []string `yaml:"openMenuEvents"`
	SelectCommandEvents []string `yaml:"selectCommandEvents"`
	ItemColor           string   `yaml:"itemColor"`
	ItemTextShadowColor string   `yaml:"itemTextShadowColor"`
	ZIndex              int      `yaml:"zIndex"`
	AtMouse             bool     `yaml:"atMouse"`
	// OutsideMenuCancel accepts a distance or false in YAML
	OutsideMenuCancel OutsideCancel `yaml:"outsideMenuCancel"`

	Commands []command.Command `yaml:"-"`
	// Clock drives the render loop; nil uses the platform default
	Clock scheduler.Clock `yaml:"-"`

	kept Field
}

// Field names a numeric option whose zero value would otherwise be read
// as unset
type Field uint16

const (
	FieldMenuRadius Field = 1 << iota
	FieldActivePadding
	FieldIndicatorSize
	FieldSeparatorWidth
	FieldSpotlightPadding
	FieldMinSpotlightRadius
	FieldMaxSpotlightRadius
	FieldZIndex
)

var yamlFields = map[string]Field{
	"menuRadius":         FieldMenuRadius,
	"activePadding":      FieldActivePadding,
	"indicatorSize":      FieldIndicatorSize,
	"separatorWidth":     FieldSeparatorWidth,
	"spotlightPadding":   FieldSpotlightPadding,
	"minSpotlightRadius": FieldMinSpotlightRadius,
	"maxSpotlightRadius": FieldMaxSpotlightRadius,
	"zIndex":             FieldZIndex,
}

// Keep marks fields as explicitly set, so a zero value survives
// WithDefaults
func (o Options) Keep(fields ...Field) Options {
	for _, f := range fields {
		o.kept |= f
	}
	return o
}

// Kept reports whether f was marked with Keep or present in YAML
func (o Options) Kept(f Field) bool {
	return o.kept&f != 0
}

// UnmarshalYAML decodes the mapping and marks every numeric key it names
func (o *Options) UnmarshalYAML(value *yaml.Node) error {
	type plain Options
	if err := value.Decode((*plain)(o)); err != nil {
		return err
	}
	if value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if f, ok := yamlFields[value.Content[i].Value]; ok {
			o.kept |= f
		}
	}
	return nil
}

// Defaults returns the stock configuration
func Defaults() Options {
	return Options{
		MenuRadius:          100,
		Selector:            "node",
		FillColor:           "rgba(255, 255, 255, 0.75)",
		ActiveFillColor:     "rgba(68, 3, 129, 0.75)",
		ActivePadding:       20,
		IndicatorSize:       24,
		SeparatorWidth:      3,
		SpotlightPadding:    4,
		MinSpotlightRadius:  24,
		MaxSpotlightRadius:  38,
		OpenMenuEvents:      []string{"cxttapstart"},
		SelectCommandEvents: []string{"tap"},
		ItemColor:           "black",
		ItemTextShadowColor: "transparent",
		ZIndex:              9999,
		OutsideMenuCancel:   CancelAt(1),
	}
}

// WithDefaults returns o with every zero-valued field filled from Defaults.
// Kept numeric fields stay as they are, zero included. Event lists may hold
// space separated names.
func (o Options) WithDefaults() Options {
	d := Defaults()
	out := o

	if out.MenuRadius == 0 && !o.Kept(FieldMenuRadius) {
		out.MenuRadius = d.MenuRadius
	}
	if out.Selector == "" {
		out.Selector = d.Selector
	}
	if out.FillColor == "" {
		out.FillColor = d.FillColor
	}
	if out.ActiveFillColor == "" {
		out.ActiveFillColor = d.ActiveFillColor
	}
	if out.ActivePadding == 0 && !o.Kept(FieldActivePadding) {
		out.ActivePadding = d.ActivePadding
	}
	if out.IndicatorSize == 0 && !o.Kept(FieldIndicatorSize) {
		out.IndicatorSize = d.IndicatorSize
	}
	if out.SeparatorWidth == 0 && !o.Kept(FieldSeparatorWidth) {
		out.SeparatorWidth = d.SeparatorWidth
	}
	if out.SpotlightPadding == 0 && !o.Kept(FieldSpotlightPadding) {
		out.SpotlightPadding = d.SpotlightPadding
	}
	if out.MinSpotlightRadius == 0 && !o.Kept(FieldMinSpotlightRadius) {
		out.MinSpotlightRadius = d.MinSpotlightRadius
	}
	if out.MaxSpotlightRadius == 0 && !o.Kept(FieldMaxSpotlightRadius) {
		out.MaxSpotlightRadius = d.MaxSpotlightRadius
	}
	out.OpenMenuEvents = host.SplitEvents(out.OpenMenuEvents...)
	if len(out.OpenMenuEvents) == 0 {
		out.OpenMenuEvents = d.OpenMenuEvents
	}
	out.SelectCommandEvents = host.SplitEvents(out.SelectCommandEvents...)
	if len(out.SelectCommandEvents) == 0 {
		out.SelectCommandEvents = d.SelectCommandEvents
	}
	if out.ItemColor == "" {
		out.ItemColor = d.ItemColor
	}
	if out.ItemTextShadowColor == "" {
		out.ItemTextShadowColor = d.ItemTextShadowColor
	}
	if out.ZIndex == 0 && !o.Kept(FieldZIndex) {
		out.ZIndex = d.ZIndex
	}
	if !out.OutsideMenuCancel.set {
		out.OutsideMenuCancel = d.OutsideMenuCancel
	}
	return out
}

// renderConfig returns the fixed drawing parameters of the wheel
func (o Options) renderConfig() canvas.Config {
	colors := make([]string, len(o.Commands))
	for i, cmd := range o.Commands {
		colors[i] = cmd.FillColor
	}
	return canvas.Config{
		FillColor:        o.FillColor,
		ActiveFillColor:  o.ActiveFillColor,
		WedgeColors:      colors,
		ActivePadding:    o.ActivePadding,
		IndicatorSize:    o.IndicatorSize,
		SeparatorWidth:   o.SeparatorWidth,
		SpotlightPadding: o.SpotlightPadding,
	}
}

func (o Options) gestureConfig() gesture.Config {
	return gesture.Config{
		Commands:         o.Commands,
		Selector:         o.Selector,
		OpenEvents:       o.OpenMenuEvents,
		SelectEvents:     o.SelectCommandEvents,
		MenuRadius:       o.MenuRadius,
		ActivePadding:    o.ActivePadding,
		SpotlightPadding: o.SpotlightPadding,
		Spotlight: geometry.Spotlight{
			Min:      o.MinSpotlightRadius,
			Max:      o.MaxSpotlightRadius,
			Adaptive: o.AdaptiveSpotlight,
		},
		AtMouse:               o.AtMouse,
		OutsideCancel:         o.OutsideMenuCancel.distance,
		OutsideCancelDisabled: o.OutsideMenuCancel.disabled,
		ItemColor:             o.ItemColor,
		ItemTextShadowColor:   o.ItemTextShadowColor,
		InitialRadius:         gesture.DefaultInitialRadius,
	}
}

// OutsideCancel is either a distance past the wheel edge beyond which a
// drag stops selecting, or disabled. The zero value means "use the
// default".
type OutsideCancel struct {
	set      bool
	disabled bool
	distance float64
}

// CancelAt returns a cancel threshold of the given distance
func CancelAt(distance float64) OutsideCancel {
	return OutsideCancel{set: true, distance: distance}
}

// NoCancel disables outside cancelling: distance alone never cancels
func NoCancel() OutsideCancel {
	return OutsideCancel{set: true, disabled: true}
}

// Disabled reports whether outside cancelling is off
func (c OutsideCancel) Disabled() bool {
	return c.disabled
}

// Distance returns the threshold and whether one applies
func (c OutsideCancel) Distance() (float64, bool) {
	return c.distance, c.set && !c.disabled
}

func (c OutsideCancel) String() string {
	switch {
	case !c.set:
		return "default"
	case c.disabled:
		return "false"
	default:
		return strconv.FormatFloat(c.distance, 'f', -1, 64)
	}
}

// UnmarshalYAML accepts a number or false
func (c *OutsideCancel) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("outsideMenuCancel: expected a number or false, line %d", value.Line)
	}

	if value.Tag == "!!bool" {
		var b bool
		if err := value.Decode(&b); err != nil {
			return fmt.Errorf("outsideMenuCancel: %w", err)
		}
		if b {
			return fmt.Errorf("outsideMenuCancel: true is not a distance, line %d", value.Line)
		}
		*c = NoCancel()
		return nil
	}

	var d float64
	if err := value.Decode(&d); err != nil {
		return fmt.Errorf("outsideMenuCancel: %w", err)
	}
	*c = CancelAt(d)
	return nil
}

// MarshalYAML writes false or the distance
func (c OutsideCancel) MarshalYAML() (interface{}, error) {
	if c.disabled {
		return false, nil
	}
	if !c.set {
		return nil, nil
	}
	return c.distance, nil
}
