package wire

import "fmt"

// Kind identifies both the wire tag and the field schema of a message.
type Kind uint16

const (
	KindStartGame Kind = iota + 1
	KindGameDef
	KindGuess
	KindAnswer
	KindGetHint
	KindHint
	KindExit
	KindAck
	KindError
	KindHeartbeat
)

var kindNames = map[Kind]string{
	KindStartGame: "startGame",
	KindGameDef:   "gameDef",
	KindGuess:     "guess",
	KindAnswer:    "answer",
	KindGetHint:   "getHint",
	KindHint:      "hint",
	KindExit:      "exit",
	KindAck:       "ack",
	KindError:     "error",
	KindHeartbeat: "heartbeat",
}

// Kinds returns every known message kind in tag order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := KindStartGame; k <= KindHeartbeat; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k is one of the ten known kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint16(k))
}

// ParseKind looks up a kind by its protocol name (e.g. "getHint").
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
