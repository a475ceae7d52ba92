package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wippyai/scriptbridge/config"
	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/host"
	"github.com/wippyai/scriptbridge/object"
	"github.com/wippyai/scriptbridge/proxy"
)

// builtinUnits are the Go scripts that ship with the bridge.
var builtinUnits = map[string]func() host.Unit{
	"greeter":  newGreeter,
	"dccwatch": newDCCWatch,
}

func builtinNames() []string {
	names := make([]string, 0, len(builtinUnits))
	for n := range builtinUnits {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// unitFor resolves a configured script: a path means a WASM unit, otherwise
// the name must be a builtin.
func unitFor(cfg *config.Config, s config.Script) (host.Unit, error) {
	if path := cfg.ScriptPath(s); path != "" {
		return host.LoadWASMFile(s.Name, path)
	}
	newUnit, ok := builtinUnits[s.Name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseLoad, "script", s.Name)
	}
	return newUnit(), nil
}

func newGreeter() host.Unit {
	return &host.FuncUnit{
		UnitName: "greeter",
		OnLoad: func(_ context.Context, env *host.Env) error {
			err := env.Bind("hello", "", func(args ...object.Object) (object.Object, error) {
				who := "world"
				if len(args) > 0 {
					words := make([]string, len(args))
					for i, a := range args {
						words[i] = fmt.Sprint(a)
					}
					who = strings.Join(words, " ")
				}
				env.Print("hello " + who)
				return nil, nil
			})
			if err != nil {
				return err
			}
			return env.Bind("args", "", func(args ...object.Object) (object.Object, error) {
				env.Print(fmt.Sprintf("%s argv: %q", env.Name(), env.Instance.Argv()))
				return nil, nil
			})
		},
	}
}

// dccAttrs are printed by dccinfo, in order.
var dccAttrs = []string{"type", "nick", "addr", "port", "transfd", "servertag"}

func newDCCWatch() host.Unit {
	var stop func()
	return &host.FuncUnit{
		UnitName: "dccwatch",
		OnLoad: func(_ context.Context, env *host.Env) error {
			irssi := object.NewModule("irssi")
			env.Instance.Import("irssi", irssi)
			irssi.DecRef()

			stop = env.Factory().Watch(func(d *proxy.DCC) {
				nick, _ := d.GetAttr("nick")
				env.Print(fmt.Sprintf("new %s from %v", d.TypeName(), nick))
				object.Release(nick)
				d.DecRef()
			})

			return env.Bind("dccinfo", "DCC", func(args ...object.Object) (object.Object, error) {
				dccs := env.Factory().DCCs()
				if len(dccs) == 0 {
					env.Print("no DCC connections")
				}
				for _, d := range dccs {
					var parts []string
					for _, name := range dccAttrs {
						v, _ := d.GetAttr(name)
						parts = append(parts, fmt.Sprintf("%s=%v", name, v))
						object.Release(v)
					}
					env.Print(strings.Join(parts, " "))
					d.DecRef()
				}
				return nil, nil
			})
		},
		OnUnload: func(context.Context, *host.Env) error {
			if stop != nil {
				stop()
				stop = nil
			}
			return nil
		},
	}
}
