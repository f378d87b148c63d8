package result

import (
	"fmt"
	"strconv"
)

// Status is the outcome tag of a Result. The zero value is not a valid status.
type Status uint8

const (
	Success Status = iota + 1
	Failure
	Forbidden
	Unauthorized
	Invalid
	NotFound
	Conflict
	Unsupported

	statusEnd
)

// Deprecated: Ok is the retired name for Success.
const Ok = Success

// Deprecated: Error is the retired name for Failure.
const Error = Failure

var statusNames = [...]string{
	Success:      "Success",
	Failure:      "Failure",
	Forbidden:    "Forbidden",
	Unauthorized: "Unauthorized",
	Invalid:      "Invalid",
	NotFound:     "NotFound",
	Conflict:     "Conflict",
	Unsupported:  "Unsupported",
}

// Statuses returns every valid status in declaration order.
func Statuses() []Status {
	out := make([]Status, 0, int(statusEnd)-1)
	for s := Success; s < statusEnd; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s belongs to the closed set of statuses.
func (s Status) Valid() bool {
	return s >= Success && s < statusEnd
}

func (s Status) String() string {
	if !s.Valid() {
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
	return statusNames[s]
}

// ParseStatus returns the status with the given name.
func ParseStatus(name string) (Status, error) {
	for s := Success; s < statusEnd; s++ {
		if statusNames[s] == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown result status %q", name)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid result status %d", uint8(s))
	}
	return []byte(statusNames[s]), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
