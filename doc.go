// Package scriptbridge exposes native chat-client records to embedded
// scripts through lifetime-bridged proxy objects, and tracks each loaded
// script together with the commands it registers.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	scriptbridge/
//	├── errors/      Structured error types with phase and kind
//	├── signal/      Synchronous named-signal bus
//	├── irc/         Native core: server and DCC records in a handle table
//	├── object/      Refcounted script object model and cycle collector
//	├── command/     Command registry keyed by name and category
//	├── proxy/       Bridged proxies for DCC and server records
//	├── script/      Script instance: argv, module, imports, bindings
//	├── host/        Loads script units (Go or WASM) and routes commands
//	├── config/      TOML configuration
//	└── cmd/bridge/  Console and TUI front end
//
// # Quick Start
//
// Load a script unit and run one of its commands:
//
//	h := host.New(&host.Config{Output: os.Stdout})
//	defer h.Close(ctx)
//
//	unit := &host.FuncUnit{
//	    UnitName: "greeter",
//	    OnLoad: func(ctx context.Context, env *host.Env) error {
//	        return env.Bind("hello", "", func(args ...object.Object) (object.Object, error) {
//	            env.Print("hello")
//	            return object.None, nil
//	        })
//	    },
//	}
//	if err := h.Load(ctx, unit, nil); err != nil {
//	    log.Fatal(err)
//	}
//	h.Run("hello")
//
// # Proxy Lifetime
//
// A proxy holds the handle of a native record and subscribes to that
// record's destroy signal. When the signal names its handle the proxy
// drops the handle and unsubscribes, so later reads report absence
// instead of touching a freed or reused slot. Dropping the last
// reference to a proxy never destroys the native record.
//
// # Script Teardown
//
// Unloading a script unbinds its commands in registration order, clears
// its imports and releases the instance. Cycles between the instance and
// its module are broken by the collector.
//
// # Thread Safety
//
// The core, the bus and the object model are single-threaded. Signals are
// delivered synchronously on the emitting goroutine; callers that share a
// Host across goroutines must serialize access.
package scriptbridge
