package friendship

import "fmt"

// Operation is a caller's request against a relationship.
type Operation string

const (
	OpSend     Operation = "send"
	OpAccept   Operation = "accept"
	OpBlock    Operation = "block"
	OpUnblock  Operation = "unblock"
	OpUnfriend Operation = "unfriend"
)

// Operations lists every valid operation.
var Operations = []Operation{OpSend, OpAccept, OpBlock, OpUnblock, OpUnfriend}

// ParseOperation rejects anything outside the closed set.
func ParseOperation(s string) (Operation, error) {
	op := Operation(s)
	switch op {
	case OpSend, OpAccept, OpBlock, OpUnblock, OpUnfriend:
		return op, nil
	}
	return "", fmt.Errorf("unknown friendship operation %q", s)
}
