package proxy

import (
	"slices"
	"sort"

	"github.com/wippyai/scriptbridge/errors"
	"github.com/wippyai/scriptbridge/irc"
	"github.com/wippyai/scriptbridge/object"
	"github.com/wippyai/scriptbridge/signal"
)

// Variant selects the attribute set of a DCC proxy.
type Variant uint8

const (
	VariantDCC Variant = iota
	VariantChat
	VariantSend
	VariantGet
)

// DisplayName is the type name scripts see for the variant.
func (v Variant) DisplayName() string {
	switch v {
	case VariantChat:
		return "DCC CHAT"
	case VariantSend:
		return "DCC SEND"
	case VariantGet:
		return "DCC GET"
	default:
		return "DCC"
	}
}

// VariantFor picks the variant matching a native DCC type.
func VariantFor(t irc.DCCType) Variant {
	switch t {
	case irc.DCCChat:
		return VariantChat
	case irc.DCCSend:
		return VariantSend
	case irc.DCCGet:
		return VariantGet
	default:
		return VariantDCC
	}
}

// DCC mirrors an irc.DCCRecord.
type DCC struct {
	object.Base
	Bridge
	core    *irc.Core
	server  *Server
	chat    *DCC
	variant Variant
}

// NewDCC creates a proxy for DCC record h. Companion proxies are built
// first; if one cannot be built, the ones already built are released and
// ErrCompanionConstructionFailed is returned. A chat link that leads back to
// a record already being built is such a failure.
func NewDCC(core *irc.Core, h irc.Handle, name string, variant Variant) (*DCC, error) {
	return newDCC(core, h, name, variant, nil)
}

// newDCC builds the proxy for h. chain holds the handles whose proxies are
// waiting on this one as their chat companion.
func newDCC(core *irc.Core, h irc.Handle, name string, variant Variant, chain []irc.Handle) (*DCC, error) {
	rec, ok := core.DCC(h)
	if !ok {
		return nil, errors.InvalidHandle(errors.PhaseProxy, name)
	}
	chain = append(chain, h)

	var server *Server
	if rec.Server != irc.InvalidHandle {
		s, err := NewServer(core, rec.Server)
		if err != nil {
			return nil, errors.CompanionConstructionFailed(errors.PhaseProxy, "server", err)
		}
		server = s
	}

	var chat *DCC
	if rec.Chat != irc.InvalidHandle {
		c, err := newChat(core, rec.Chat, chain)
		if err != nil {
			if server != nil {
				server.DecRef()
			}
			return nil, errors.CompanionConstructionFailed(errors.PhaseProxy, "chat", err)
		}
		chat = c
	}

	d := &DCC{
		core:    core,
		server:  server,
		chat:    chat,
		variant: variant,
	}
	d.Init(d.dealloc)
	d.attach(core.Bus(), signal.DCCDestroyed, h, name)
	return d, nil
}

// newChat builds the chat companion for the record linked as h. Its variant
// follows the linked record's own type.
func newChat(core *irc.Core, h irc.Handle, chain []irc.Handle) (*DCC, error) {
	if slices.Contains(chain, h) {
		return nil, errors.New(errors.PhaseProxy, errors.KindInvalidInput).
			Path("chat").
			Detail("chat link loops back to handle %d", uint32(h)).
			Build()
	}
	variant := VariantChat
	if rec, ok := core.DCC(h); ok {
		variant = VariantFor(rec.Type)
	}
	return newDCC(core, h, variant.DisplayName(), variant, chain)
}

func (d *DCC) dealloc() {
	d.release()
	if d.server != nil {
		d.server.DecRef()
		d.server = nil
	}
	if d.chat != nil {
		d.chat.DecRef()
		d.chat = nil
	}
}

func (d *DCC) TypeName() string { return d.Name() }

// Variant returns the variant the proxy was created with.
func (d *DCC) Variant() Variant {
	return d.variant
}

func (d *DCC) record() (*irc.DCCRecord, bool) {
	if !d.Valid() {
		return nil, false
	}
	return d.core.DCC(d.Handle())
}

// Teardown asks the native side to destroy the connection. The proxy is
// invalidated by the destruction notification, not by this call.
func (d *DCC) Teardown() error {
	if !d.Valid() {
		return errors.AlreadyInvalid(errors.PhaseProxy, d.Name())
	}
	return d.core.DestroyDCC(d.Handle())
}

// Type is the DCC type name.
func (d *DCC) Type() (string, bool) {
	rec, ok := d.record()
	if !ok {
		return "", false
	}
	name := irc.TypeName(rec.Type)
	return name, name != ""
}

// OrigType is the DCC type the peer sent: Type with SEND and GET swapped.
func (d *DCC) OrigType() (string, bool) {
	rec, ok := d.record()
	if !ok {
		return "", false
	}
	name := irc.TypeName(rec.OrigType)
	return name, name != ""
}

// Created is the Unix time the record was created.
func (d *DCC) Created() (int64, bool) {
	rec, ok := d.record()
	if !ok {
		return 0, false
	}
	return rec.Created, true
}

// Server is the proxy of the server the DCC was initiated on.
func (d *DCC) Server() (*Server, bool) {
	if !d.Valid() || d.server == nil {
		return nil, false
	}
	return d.server, true
}

// ServerTag is the tag of the server the DCC was initiated on.
func (d *DCC) ServerTag() (string, bool) {
	return d.stringField(func(r *irc.DCCRecord) *string { return r.ServerTag })
}

// MyNick is our nick in the DCC chat.
func (d *DCC) MyNick() (string, bool) {
	return d.stringField(func(r *irc.DCCRecord) *string { return r.MyNick })
}

// Nick is the other side's nick.
func (d *DCC) Nick() (string, bool) {
	return d.stringField(func(r *irc.DCCRecord) *string { return r.Nick })
}

// Chat is the proxy of the DCC CHAT the request came through.
func (d *DCC) Chat() (*DCC, bool) {
	if !d.Valid() || d.chat == nil {
		return nil, false
	}
	return d.chat, true
}

// Target is who the request was sent to: our nick, a channel, or unset if
// we sent it.
func (d *DCC) Target() (string, bool) {
	return d.stringField(func(r *irc.DCCRecord) *string { return r.Target })
}

// Arg is the request argument, usually a file name.
func (d *DCC) Arg() (string, bool) {
	return d.stringField(func(r *irc.DCCRecord) *string { return r.Arg })
}

// Addr is the other side's IP address.
func (d *DCC) Addr() (string, bool) {
	return d.stringField(func(r *irc.DCCRecord) *string { return r.Addr })
}

// Port is the port we are connecting on.
func (d *DCC) Port() (int, bool) {
	rec, ok := d.record()
	if !ok {
		return 0, false
	}
	return rec.Port, true
}

// StartTime is the Unix time the transfer started.
func (d *DCC) StartTime() (int64, bool) {
	rec, ok := d.record()
	if !ok {
		return 0, false
	}
	return rec.StartTime, true
}

// Transfd is the number of bytes transferred.
func (d *DCC) Transfd() (uint64, bool) {
	rec, ok := d.record()
	if !ok {
		return 0, false
	}
	return rec.Transfd, true
}

// Size is the file size of a SEND or GET.
func (d *DCC) Size() (uint64, bool) {
	rec, ok := d.fileRecord()
	if !ok {
		return 0, false
	}
	return rec.Size, true
}

// Skipped is the number of bytes skipped when a SEND or GET was resumed.
func (d *DCC) Skipped() (uint64, bool) {
	rec, ok := d.fileRecord()
	if !ok {
		return 0, false
	}
	return rec.Skipped, true
}

// File is the local file name of a SEND or GET.
func (d *DCC) File() (string, bool) {
	rec, ok := d.fileRecord()
	if !ok {
		return "", false
	}
	return optString(rec.File)
}

// ChatID is the unique id of a DCC CHAT.
func (d *DCC) ChatID() (string, bool) {
	if d.variant != VariantChat {
		return "", false
	}
	return d.stringField(func(r *irc.DCCRecord) *string { return r.ID })
}

// MircCTCP reports whether a DCC CHAT sends CTCPs in mIRC format.
func (d *DCC) MircCTCP() (bool, bool) {
	if d.variant != VariantChat {
		return false, false
	}
	rec, ok := d.record()
	if !ok {
		return false, false
	}
	return rec.MircCTCP, true
}

func (d *DCC) fileRecord() (*irc.DCCRecord, bool) {
	if d.variant != VariantSend && d.variant != VariantGet {
		return nil, false
	}
	return d.record()
}

func (d *DCC) stringField(field func(*irc.DCCRecord) *string) (string, bool) {
	rec, ok := d.record()
	if !ok {
		return "", false
	}
	return optString(field(rec))
}

var dccAttrs = map[string]attrFunc[*DCC]{
	"type":      func(d *DCC) object.Object { return strOrNone(d.Type()) },
	"orig_type": func(d *DCC) object.Object { return strOrNone(d.OrigType()) },
	"created": func(d *DCC) object.Object {
		v, ok := d.Created()
		return intOrNone(v, ok)
	},
	"server": func(d *DCC) object.Object {
		if s, ok := d.Server(); ok {
			s.IncRef()
			return s
		}
		return object.None
	},
	"servertag": func(d *DCC) object.Object { return strOrNone(d.ServerTag()) },
	"mynick":    func(d *DCC) object.Object { return strOrNone(d.MyNick()) },
	"nick":      func(d *DCC) object.Object { return strOrNone(d.Nick()) },
	"chat": func(d *DCC) object.Object {
		if c, ok := d.Chat(); ok {
			c.IncRef()
			return c
		}
		return object.None
	},
	"target": func(d *DCC) object.Object { return strOrNone(d.Target()) },
	"arg":    func(d *DCC) object.Object { return strOrNone(d.Arg()) },
	"addr":   func(d *DCC) object.Object { return strOrNone(d.Addr()) },
	"port": func(d *DCC) object.Object {
		v, ok := d.Port()
		return intOrNone(int64(v), ok)
	},
	"starttime": func(d *DCC) object.Object {
		v, ok := d.StartTime()
		return intOrNone(v, ok)
	},
	"transfd": func(d *DCC) object.Object {
		v, ok := d.Transfd()
		return intOrNone(int64(v), ok)
	},
}

var fileAttrs = map[string]attrFunc[*DCC]{
	"size": func(d *DCC) object.Object {
		v, ok := d.Size()
		return intOrNone(int64(v), ok)
	},
	"skipped": func(d *DCC) object.Object {
		v, ok := d.Skipped()
		return intOrNone(int64(v), ok)
	},
	"file": func(d *DCC) object.Object { return strOrNone(d.File()) },
}

var chatAttrs = map[string]attrFunc[*DCC]{
	"id": func(d *DCC) object.Object { return strOrNone(d.ChatID()) },
	"mirc_ctcp": func(d *DCC) object.Object {
		v, _ := d.MircCTCP()
		return object.BoolOf(v)
	},
}

func (d *DCC) variantAttrs() map[string]attrFunc[*DCC] {
	switch d.variant {
	case VariantSend, VariantGet:
		return fileAttrs
	case VariantChat:
		return chatAttrs
	default:
		return nil
	}
}

// GetAttr implements object.AttrGetter; the caller owns the result. The
// "destroy" method stays reachable after invalidation so that calling it
// reports AlreadyInvalid.
func (d *DCC) GetAttr(name string) (object.Object, bool) {
	if name == "destroy" {
		return object.NewFunc("destroy", func(args ...object.Object) (object.Object, error) {
			return nil, d.Teardown()
		}), true
	}
	if v, ok := lookupAttr(d, d.Valid(), dccAttrs, name); ok {
		return v, true
	}
	return lookupAttr(d, d.Valid(), d.variantAttrs(), name)
}

// Attr is GetAttr with errors: ErrInvalidHandle once the record is gone,
// ErrNotFound for a name the variant does not have. The caller owns the
// result.
func (d *DCC) Attr(name string) (object.Object, error) {
	if err := d.Check(); err != nil {
		return nil, err
	}
	v, ok := d.GetAttr(name)
	if !ok {
		return nil, errors.NotFound(errors.PhaseProxy, "attribute", name)
	}
	return v, nil
}

// AttrNames lists the attributes of the proxy's variant, sorted.
func (d *DCC) AttrNames() []string {
	names := []string{"destroy"}
	for n := range dccAttrs {
		names = append(names, n)
	}
	for n := range d.variantAttrs() {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
