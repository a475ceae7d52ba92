package irc

// DCCType identifies the kind of DCC connection.
type DCCType uint8

const (
	DCCUnknown DCCType = iota
	DCCChat
	DCCSend
	DCCGet
)

var dccTypeNames = map[DCCType]string{
	DCCChat: "CHAT",
	DCCSend: "SEND",
	DCCGet:  "GET",
}

// TypeName returns the registered name of a DCC type, or "" when the id
// was never registered.
func TypeName(t DCCType) string {
	return dccTypeNames[t]
}

func (t DCCType) String() string {
	if name := TypeName(t); name != "" {
		return name
	}
	return "UNKNOWN"
}

// ServerRecord is a connected (or connecting) IRC server.
type ServerRecord struct {
	Tag       string
	Nick      string
	Address   string
	Port      int
	Connected bool
}

// DCCRecord is a DCC connection. Optional text fields are pointers: a nil
// pointer is the native "not set", distinct from an empty string.
type DCCRecord struct {
	// Type is the DCC type as seen locally; OrigType is what the peer sent,
	// identical except that SEND and GET are swapped.
	Type     DCCType
	OrigType DCCType

	// Created and StartTime are Unix seconds.
	Created   int64
	StartTime int64

	// Server is the server the request came through, InvalidHandle if none.
	Server    Handle
	ServerTag *string
	MyNick    *string
	Nick      *string

	// Chat is the DCC CHAT the request came through, InvalidHandle if none.
	Chat   Handle
	Target *string
	Arg    *string
	Addr   *string
	Port   int

	Transfd uint64

	// File transfer fields (SEND/GET).
	Size    uint64
	Skipped uint64
	File    *string

	// Chat fields (CHAT).
	ID       *string
	MircCTCP bool
}

// Str returns a pointer to s, for filling optional record fields.
func Str(s string) *string {
	return &s
}
