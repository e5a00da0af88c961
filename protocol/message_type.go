package protocol

type MessageType byte

const (
	Hello         MessageType = 'a'
	Goodbye       MessageType = 'b'
	Status        MessageType = 'c'
	Start         MessageType = 'd'
	Stop          MessageType = 'e'
	Dcp           MessageType = 'f'
	Criteria      MessageType = 'g'
	GetOutages    MessageType = 'h'
	Idle          MessageType = 'i'
	PutNetlist    MessageType = 'j'
	GetNetlist    MessageType = 'k'
	AssertOutages MessageType = 'l'
	AuthHello     MessageType = 'm'
	DcpBlock      MessageType = 'n'
	Events        MessageType = 'o'
	RetConfig     MessageType = 'p'
	InstConfig    MessageType = 'q'
	DcpBlockExt   MessageType = 'r'
	Unused6       MessageType = 's'
	Unused7       MessageType = 't'
	User          MessageType = 'u'
)

var messageTypeNames = map[MessageType]string{
	Hello:         "hello",
	Goodbye:       "goodbye",
	Status:        "status",
	Start:         "start",
	Stop:          "stop",
	Dcp:           "dcp",
	Criteria:      "criteria",
	GetOutages:    "get-outages",
	Idle:          "idle",
	PutNetlist:    "put-netlist",
	GetNetlist:    "get-netlist",
	AssertOutages: "assert-outages",
	AuthHello:     "auth-hello",
	DcpBlock:      "dcp-block",
	Events:        "events",
	RetConfig:     "ret-config",
	InstConfig:    "inst-config",
	DcpBlockExt:   "dcp-block-ext",
	Unused6:       "unused-6",
	Unused7:       "unused-7",
	User:          "user",
}

// Valid reports whether t is part of the LDDS message alphabet.
func (t MessageType) Valid() bool {
	return t >= Hello && t <= User
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}

	return "unknown"
}
