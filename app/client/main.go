//go:build js && wasm
// +build js,wasm

// Command client is the browser build of the radial menu. Loading it
// registers the circularMenu extension on the global cytoscape function
// and exposes piemenu(cy, options) for pages that load cytoscape as a
// module.
package main

import (
	"fmt"
	"syscall/js"

	"gopkg.in/yaml.v3"

	"github.com/recera/piemenu/pkg/command"
	"github.com/recera/piemenu/pkg/debug"
	"github.com/recera/piemenu/pkg/host"
	"github.com/recera/piemenu/pkg/host/cytoscape"
	"github.com/recera/piemenu/pkg/piemenu"
	"github.com/recera/piemenu/pkg/styling"
)

var console js.Value

func main() {
	console = js.Global().Get("console")

	if js.Global().Get("PIEMENU_DEBUG").Truthy() {
		debug.EnableLogging()
	}

	js.Global().Set("piemenu", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) == 0 {
			console.Call("error", "piemenu: missing cytoscape instance")
			return nil
		}
		opts := js.Undefined()
		if len(args) > 1 {
			opts = args[1]
		}
		return attach(args[0], opts)
	}))

	if cy := js.Global().Get("cytoscape"); cy.Type() == js.TypeFunction {
		cy.Invoke("core", "circularMenu", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			opts := js.Undefined()
			if len(args) > 0 {
				opts = args[0]
			}
			return attach(this, opts)
		}))
	}

	console.Call("log", "piemenu ready")

	// Keep the WASM runtime alive
	select {}
}

// attach builds a menu on cy and returns {destroy}
func attach(cy, opts js.Value) interface{} {
	options, err := decodeOptions(opts)
	if err != nil {
		console.Call("error", "piemenu:", err.Error())
		return nil
	}

	menu := piemenu.New(cytoscape.New(cy), options)

	var destroy js.Func
	destroy = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		menu.Destroy()
		destroy.Release()
		return nil
	})
	return js.ValueOf(map[string]interface{}{"destroy": destroy})
}

// decodeOptions reads the plain fields through JSON, which YAML accepts,
// and the commands by hand since they carry functions
func decodeOptions(opts js.Value) (piemenu.Options, error) {
	var o piemenu.Options
	if !opts.Truthy() {
		return o, nil
	}

	plain := js.Global().Get("Object").Call("assign", js.ValueOf(map[string]interface{}{}), opts)
	plain.Delete("commands")
	for _, k := range []string{"openMenuEvents", "selectCommandEvents"} {
		if v := plain.Get(k); v.Type() == js.TypeString {
			plain.Set(k, js.ValueOf([]interface{}{v.String()}))
		}
	}
	if v := plain.Get("adaptativeNodeSpotlightRadius"); !v.IsUndefined() {
		plain.Set("adaptiveNodeSpotlightRadius", v)
	}

	raw := js.Global().Get("JSON").Call("stringify", plain).String()
	if err := yaml.Unmarshal([]byte(raw), &o); err != nil {
		return o, fmt.Errorf("options: %w", err)
	}

	cmds := opts.Get("commands")
	if cmds.Truthy() {
		for i := 0; i < cmds.Length(); i++ {
			o.Commands = append(o.Commands, decodeCommand(cmds.Index(i)))
		}
	}
	return o, nil
}

func decodeCommand(c js.Value) command.Command {
	cmd := command.Command{}

	switch content := c.Get("content"); {
	case content.Type() == js.TypeString:
		cmd.Content = command.HTML(content.String())
	case content.Truthy() && content.Get("outerHTML").Type() == js.TypeString:
		cmd.Content = command.HTML(content.Get("outerHTML").String())
	}

	if fill := c.Get("fillColor"); fill.Type() == js.TypeString {
		cmd.FillColor = fill.String()
	}

	if style := c.Get("contentStyle"); style.Type() == js.TypeObject {
		props := map[string]string{}
		keys := js.Global().Get("Object").Call("keys", style)
		for i := 0; i < keys.Length(); i++ {
			k := keys.Index(i).String()
			props[k] = style.Get(k).String()
		}
		cmd.ContentStyle = styling.FromProperties(props)
	}

	if sel := c.Get("select"); sel.Type() == js.TypeFunction {
		cmd.Select = func(target host.Element) {
			sel.Invoke(elementValue(target))
		}
	}

	switch disabled := c.Get("disabled"); disabled.Type() {
	case js.TypeBoolean:
		cmd.Disabled = command.Static(disabled.Bool())
	case js.TypeFunction:
		cmd.Disabled = command.When(func(target host.Element) bool {
			return disabled.Invoke(elementValue(target)).Truthy()
		})
	}
	return cmd
}

// elementValue hands the cytoscape element back to page callbacks
func elementValue(target host.Element) interface{} {
	if v, ok := target.(interface{ Value() js.Value }); ok {
		return v.Value()
	}
	return js.Undefined()
}
