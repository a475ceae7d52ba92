package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/scriptbridge/command"
	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/irc"
	"github.com/wippyai/scriptbridge/object"
	"github.com/wippyai/scriptbridge/script"
	"github.com/wippyai/scriptbridge/signal"
)

// HostModuleName is the import module WASM scripts use to reach the host.
const HostModuleName = "irssi"

// Config holds configuration for host creation
type Config struct {
	// Output receives script output. Defaults to os.Stdout.
	Output io.Writer

	// DefaultCategory is the command category used when a script names
	// none. Empty means command.DefaultCategory.
	DefaultCategory string

	// MemoryLimitPages caps the memory of each WASM script in 64KB pages.
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

type loaded struct {
	unit Unit
	env  *Env
}

// Host wires the native core, the command registry and loaded scripts
// together.
type Host struct {
	bus       *signal.Bus
	core      *irc.Core
	commands  *command.Registry
	collector *object.Collector
	factory   *Factory
	out       io.Writer
	scripts   map[string]*loaded
	order     []string
	runtime   wazero.Runtime
	memLimit  uint32
}

// New creates a host with a fresh bus and native core.
func New(cfg *Config) *Host {
	if cfg == nil {
		cfg = &Config{}
	}
	bus := signal.NewBus()
	core := irc.NewCore(bus)

	var opts []command.Option
	if cfg.DefaultCategory != "" {
		opts = append(opts, command.WithDefaultCategory(cfg.DefaultCategory))
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	return &Host{
		bus:       bus,
		core:      core,
		commands:  command.NewRegistry(opts...),
		collector: object.NewCollector(),
		factory:   NewFactory(core),
		out:       out,
		scripts:   make(map[string]*loaded),
		memLimit:  cfg.MemoryLimitPages,
	}
}

func (h *Host) Bus() *signal.Bus { return h.bus }

func (h *Host) Core() *irc.Core { return h.core }

func (h *Host) Commands() *command.Registry { return h.commands }

func (h *Host) Collector() *object.Collector { return h.collector }

func (h *Host) Factory() *Factory { return h.factory }

// Print writes msg and a newline to the host output.
func (h *Host) Print(msg string) {
	fmt.Fprintln(h.out, msg)
}

// Scripts returns the names of loaded scripts in load order.
func (h *Host) Scripts() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Script returns the instance of a loaded script, borrowed.
func (h *Host) Script(name string) (*script.Instance, bool) {
	l, ok := h.scripts[name]
	if !ok {
		return nil, false
	}
	return l.env.Instance, true
}

// Load creates a module and script instance for unit and runs its entry
// point. If the entry point fails the script is torn down again and nothing
// it bound stays registered.
func (h *Host) Load(ctx context.Context, unit Unit, args []string) error {
	name := unit.Name()
	if name == "" {
		return errors.InvalidInput(errors.PhaseHost, "script name cannot be empty")
	}
	if _, ok := h.scripts[name]; ok {
		return errors.InvalidInput(errors.PhaseHost, fmt.Sprintf("script %q is already loaded", name))
	}

	module := object.NewModule(name)
	inst, err := script.New(h.commands, module, args)
	if err != nil {
		module.DecRef()
		return errors.Instantiation(errors.PhaseHost, "script "+name, err)
	}
	// The namespace refers back to the instance; the collector breaks the
	// cycle on unload.
	if err := module.SetAttr("_script", inst); err != nil {
		inst.DecRef()
		module.DecRef()
		return errors.Instantiation(errors.PhaseHost, "script "+name, err)
	}

	l := &loaded{
		unit: unit,
		env:  &Env{Instance: inst, Module: module, host: h},
	}
	if err := unit.Load(ctx, l.env); err != nil {
		if uerr := h.teardown(ctx, l); uerr != nil {
			Logger().Warn("teardown after failed load", zap.String("script", name), zap.Error(uerr))
		}
		return errors.Load(fmt.Sprintf("script %q", name), err)
	}

	h.scripts[name] = l
	h.order = append(h.order, name)
	Logger().Info("script loaded",
		zap.String("script", name),
		zap.Strings("args", args),
		zap.Int("commands", inst.BindingCount()))
	return nil
}

// Unload removes a loaded script: its commands are unbound, its imports
// cleared and its objects collected.
func (h *Host) Unload(ctx context.Context, name string) error {
	l, ok := h.scripts[name]
	if !ok {
		return errors.NotFound(errors.PhaseHost, "script", name)
	}
	delete(h.scripts, name)
	for i, n := range h.order {
		if n == name {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}

	err := h.teardown(ctx, l)
	Logger().Info("script unloaded", zap.String("script", name))
	return err
}

func (h *Host) teardown(ctx context.Context, l *loaded) error {
	inst := l.env.Instance
	inst.UnbindAll()
	inst.ClearImports()

	var err error
	if u, ok := l.unit.(Unloader); ok {
		err = u.Unload(ctx, l.env)
	}

	h.collector.TrackAll(inst)
	inst.DecRef()
	l.env.Module.DecRef()
	n := h.collector.Collect()
	Logger().Debug("script collected",
		zap.String("script", inst.Name()),
		zap.Int("cleared", n))
	return err
}

// Run dispatches a command line: the first word names the command and the
// rest are passed as string arguments.
func (h *Host) Run(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return errors.InvalidInput(errors.PhaseHost, "empty command line")
	}

	args := make([]object.Object, 0, len(fields)-1)
	for _, f := range fields[1:] {
		args = append(args, object.NewStr(f))
	}
	defer func() {
		for _, a := range args {
			a.DecRef()
		}
	}()

	return h.commands.Run(fields[0], args...)
}

// Close unloads every script in reverse load order, destroys all native
// records and shuts the WASM runtime down.
func (h *Host) Close(ctx context.Context) error {
	var errs []error
	for i := len(h.order) - 1; i >= 0; i-- {
		if err := h.Unload(ctx, h.order[i]); err != nil {
			errs = append(errs, err)
		}
	}
	if err := h.core.Close(); err != nil {
		errs = append(errs, err)
	}
	if h.runtime != nil {
		if err := h.runtime.Close(ctx); err != nil {
			errs = append(errs, err)
		}
		h.runtime = nil
	}
	return errors.Join(errs...)
}

// wasmRuntime returns the shared wazero runtime, creating it and the host
// modules scripts import on first use.
func (h *Host) wasmRuntime(ctx context.Context) (wazero.Runtime, error) {
	if h.runtime != nil {
		return h.runtime, nil
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if h.memLimit > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(h.memLimit)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, errors.Instantiation(errors.PhaseHost, "wasi", err)
	}

	_, err := rt.NewHostModuleBuilder(HostModuleName).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, m api.Module, stack []uint64) {
			ptr, size := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
			mem := m.Memory()
			if mem == nil {
				return
			}
			if buf, ok := mem.Read(ptr, size); ok {
				h.Print(string(buf))
			}
		}), []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil).
		Export("print").
		Instantiate(ctx)
	if err != nil {
		rt.Close(ctx)
		return nil, errors.Instantiation(errors.PhaseHost, HostModuleName, err)
	}

	h.runtime = rt
	return rt, nil
}
