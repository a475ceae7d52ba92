package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/scriptbridge/config"
	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/host"
	"github.com/wippyai/scriptbridge/irc"
	"github.com/wippyai/scriptbridge/proxy"
)

const helpText = `builtin commands:
  dcc                          list DCC proxies
  dcc new <type> <nick> <addr> <port>
                               create a native DCC record
  dcc close <n>                tear down DCC n
  dcc drop                     release proxies whose record is gone
  load <name> [args...]        load a configured or builtin script
  unload <name>                unload a script
  scripts                      list loaded scripts
  gc                           run a cycle collection
  quit                         exit
anything else runs a script command`

// console interprets builtin commands and forwards the rest to the host.
type console struct {
	host    *host.Host
	cfg     *config.Config
	proxies []*proxy.DCC
	stop    func()
}

func newConsole(h *host.Host, cfg *config.Config) *console {
	c := &console{host: h, cfg: cfg}
	c.proxies = h.Factory().DCCs()
	c.stop = h.Factory().Watch(func(d *proxy.DCC) {
		c.proxies = append(c.proxies, d)
	})
	return c
}

// close releases every proxy the console holds.
func (c *console) close() {
	c.stop()
	for _, d := range c.proxies {
		d.DecRef()
	}
	c.proxies = nil
}

// exec runs one line. It reports quit for the quit command.
func (c *console) exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "quit", "exit":
		return true, nil
	case "help":
		c.host.Print(helpText)
		return false, nil
	case "dcc":
		return false, c.dcc(fields[1:])
	case "load":
		if len(fields) < 2 {
			return false, errors.InvalidInput(errors.PhaseHost, "usage: load <name> [args...]")
		}
		return false, c.load(ctx, fields[1], fields[2:])
	case "unload":
		if len(fields) != 2 {
			return false, errors.InvalidInput(errors.PhaseHost, "usage: unload <name>")
		}
		if err := c.host.Unload(ctx, fields[1]); err != nil {
			return false, err
		}
		c.host.Print("unloaded " + fields[1])
		return false, nil
	case "scripts":
		c.scripts()
		return false, nil
	case "gc":
		c.host.Print(fmt.Sprintf("collected %d objects", c.host.Collector().Collect()))
		return false, nil
	default:
		return false, c.host.Run(line)
	}
}

func (c *console) load(ctx context.Context, name string, args []string) error {
	s := config.Script{Name: name, Args: args}
	for _, cs := range c.cfg.Scripts {
		if cs.Name == name {
			s = cs
			if len(args) > 0 {
				s.Args = args
			}
			break
		}
	}
	if strings.HasSuffix(name, ".wasm") {
		s = config.Script{Path: name, Args: args}
	}

	unit, err := unitFor(c.cfg, s)
	if err != nil {
		return err
	}
	if err := c.host.Load(ctx, unit, s.Args); err != nil {
		return err
	}
	c.host.Print("loaded " + unit.Name())
	return nil
}

func (c *console) scripts() {
	names := c.host.Scripts()
	if len(names) == 0 {
		c.host.Print("no scripts loaded (builtins: " + strings.Join(builtinNames(), ", ") + ")")
		return
	}
	for _, name := range names {
		inst, _ := c.host.Script(name)
		var cmds []string
		for _, b := range inst.Bindings() {
			cmds = append(cmds, b.Name)
		}
		c.host.Print(fmt.Sprintf("%-12s argv=%q commands=%s", name, inst.Argv(), strings.Join(cmds, ",")))
	}
}

func (c *console) dcc(args []string) error {
	if len(args) == 0 {
		c.listDCC()
		return nil
	}

	switch args[0] {
	case "close":
		if len(args) != 2 {
			return errors.InvalidInput(errors.PhaseHost, "usage: dcc close <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 || n >= len(c.proxies) {
			return errors.InvalidInput(errors.PhaseHost, fmt.Sprintf("no DCC %q", args[1]))
		}
		return c.proxies[n].Teardown()
	case "new":
		if len(args) != 5 {
			return errors.InvalidInput(errors.PhaseHost, "usage: dcc new <chat|send|get> <nick> <addr> <port>")
		}
		return c.newDCC(args[1], args[2], args[3], args[4])
	case "drop":
		live := c.proxies[:0]
		dropped := 0
		for _, d := range c.proxies {
			if d.Valid() {
				live = append(live, d)
				continue
			}
			d.DecRef()
			dropped++
		}
		c.proxies = live
		c.host.Print(fmt.Sprintf("released %d proxies", dropped))
		return nil
	default:
		return errors.InvalidInput(errors.PhaseHost, "unknown dcc subcommand "+args[0])
	}
}

func (c *console) newDCC(typ, nick, addr, port string) error {
	var t irc.DCCType
	switch strings.ToUpper(typ) {
	case "CHAT":
		t = irc.DCCChat
	case "SEND":
		t = irc.DCCSend
	case "GET":
		t = irc.DCCGet
	default:
		return errors.InvalidInput(errors.PhaseHost, "unknown DCC type "+typ)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return errors.InvalidInput(errors.PhaseHost, "bad port "+port)
	}

	core := c.host.Core()
	rec := irc.DCCRecord{Type: t, Nick: irc.Str(nick), Addr: irc.Str(addr), Port: p}
	if servers := core.Servers(); len(servers) > 0 {
		srv, _ := core.Server(servers[0])
		rec.Server = servers[0]
		rec.ServerTag = irc.Str(srv.Tag)
		rec.MyNick = irc.Str(srv.Nick)
	}
	_, err = core.AddDCC(rec)
	return err
}

func (c *console) listDCC() {
	if len(c.proxies) == 0 {
		c.host.Print("no DCC proxies")
		return
	}
	for i, d := range c.proxies {
		c.host.Print(fmt.Sprintf("%2d %s", i, describeDCC(d)))
	}
}

func describeDCC(d *proxy.DCC) string {
	if !d.Valid() {
		return d.TypeName() + " (destroyed)"
	}
	nick, _ := d.Nick()
	addr, _ := d.Addr()
	port, _ := d.Port()
	transfd, _ := d.Transfd()
	return fmt.Sprintf("%-9s %-8s %s:%d transferred=%d", d.TypeName(), nick, addr, port, transfd)
}

// seedDemo fills the native core with a server and a few DCC records.
func seedDemo(core *irc.Core) error {
	srv := core.AddServer(irc.ServerRecord{
		Tag:       "libera",
		Nick:      "me",
		Address:   "irc.libera.chat",
		Port:      6697,
		Connected: true,
	})
	chat, err := core.AddDCC(irc.DCCRecord{
		Type:      irc.DCCChat,
		Server:    srv,
		ServerTag: irc.Str("libera"),
		MyNick:    irc.Str("me"),
		Nick:      irc.Str("alice"),
		Addr:      irc.Str("10.0.0.5"),
		Port:      1234,
		ID:        irc.Str("alice"),
	})
	if err != nil {
		return err
	}
	get, err := core.AddDCC(irc.DCCRecord{
		Type:      irc.DCCGet,
		Server:    srv,
		ServerTag: irc.Str("libera"),
		MyNick:    irc.Str("me"),
		Nick:      irc.Str("alice"),
		Chat:      chat,
		Arg:       irc.Str("notes.txt"),
		Addr:      irc.Str("10.0.0.5"),
		Port:      1235,
		Size:      4096,
		File:      irc.Str("/tmp/notes.txt"),
	})
	if err != nil {
		return err
	}
	core.Transfer(get, 1024)
	return nil
}
