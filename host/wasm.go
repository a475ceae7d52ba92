package host

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/object"
)

// CommandExportPrefix marks WASM exports that are bound as commands.
// An export cmd_hello with no parameters becomes the command "hello".
const CommandExportPrefix = "cmd_"

// WASMUnit is a script compiled to a WebAssembly core module.
//
// The module may import print(ptr, len i32) from the "irssi" host module
// and the wasi_snapshot_preview1 functions. Its start function, if any,
// runs at load time.
type WASMUnit struct {
	name     string
	code     []byte
	compiled wazero.CompiledModule
	module   api.Module
}

// NewWASMUnit returns a unit running code under name.
func NewWASMUnit(name string, code []byte) *WASMUnit {
	return &WASMUnit{name: name, code: code}
}

// LoadWASMFile reads a unit from path. An empty name defaults to the file
// name without its extension.
func LoadWASMFile(name, path string) (*WASMUnit, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return NewWASMUnit(name, code), nil
}

func (u *WASMUnit) Name() string { return u.name }

// Load compiles and instantiates the module, then binds every command
// export in name order.
func (u *WASMUnit) Load(ctx context.Context, env *Env) error {
	rt, err := env.host.wasmRuntime(ctx)
	if err != nil {
		return err
	}

	compiled, err := rt.CompileModule(ctx, u.code)
	if err != nil {
		return errors.Load("compile "+u.name, err)
	}

	modConfig := wazero.NewModuleConfig().
		WithName(u.name).
		WithStdout(env.host.out).
		WithStderr(env.host.out).
		WithArgs(append([]string{u.name}, env.Instance.Argv()...)...)
	mod, err := rt.InstantiateModule(ctx, compiled, modConfig)
	if err != nil {
		compiled.Close(ctx)
		return errors.Instantiation(errors.PhaseLoad, u.name, err)
	}
	u.compiled = compiled
	u.module = mod

	// Commands run synchronously from the host loop, not under the load
	// call's deadline.
	callCtx := context.WithoutCancel(ctx)

	exports := compiled.ExportedFunctions()
	names := make([]string, 0, len(exports))
	for name := range exports {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, export := range names {
		cmd, ok := strings.CutPrefix(export, CommandExportPrefix)
		if !ok || cmd == "" {
			continue
		}
		if len(exports[export].ParamTypes()) != 0 {
			Logger().Warn("skipping command export with parameters",
				zap.String("script", u.name),
				zap.String("export", export))
			continue
		}

		fn := mod.ExportedFunction(export)
		err := env.Bind(cmd, "", func(args ...object.Object) (object.Object, error) {
			if _, err := fn.Call(callCtx); err != nil {
				return nil, errors.New(errors.PhaseScript, errors.KindInvalidData).
					Path(u.name, export).
					Detail("call failed").
					Cause(err).
					Build()
			}
			return nil, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Unload closes the module instance and its compiled code.
func (u *WASMUnit) Unload(ctx context.Context, _ *Env) error {
	var errs []error
	if u.module != nil {
		if err := u.module.Close(ctx); err != nil {
			errs = append(errs, err)
		}
		u.module = nil
	}
	if u.compiled != nil {
		if err := u.compiled.Close(ctx); err != nil {
			errs = append(errs, err)
		}
		u.compiled = nil
	}
	return errors.Join(errs...)
}
