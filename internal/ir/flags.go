package ir

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"
)

// Flags is a set of structural modifiers relevant to a member's binary shape.
type Flags uint32

const (
	FlagOpen Flags = 1 << iota
	FlagFinal
	FlagAbstract
	FlagInline
	FlagSuspend
	FlagStatic
	FlagSynthetic
	FlagPrivate
	FlagVarargs
	FlagSynchronized
	FlagInterface
)

// Comparable holds the flags that are visible on a JVM method and can be
// correlated against source modifiers.
const Comparable = FlagFinal | FlagAbstract | FlagStatic | FlagSynthetic | FlagPrivate | FlagVarargs | FlagSynchronized

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagOpen, "open"},
	{FlagFinal, "final"},
	{FlagAbstract, "abstract"},
	{FlagInline, "inline"},
	{FlagSuspend, "suspend"},
	{FlagStatic, "static"},
	{FlagSynthetic, "synthetic"},
	{FlagPrivate, "private"},
	{FlagVarargs, "varargs"},
	{FlagSynchronized, "synchronized"},
	{FlagInterface, "interface"},
}

func (f Flags) Has(o Flags) bool {
	return f&o == o
}

func (f Flags) Count() int {
	return bits.OnesCount32(uint32(f))
}

// Names lists the set flags in declaration order.
func (f Flags) Names() []string {
	names := make([]string, 0, f.Count())
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

func (f Flags) String() string {
	return strings.Join(f.Names(), "|")
}

// ParseFlag maps a modifier name to its flag.
func ParseFlag(name string) (Flags, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, fn := range flagNames {
		if fn.name == n {
			return fn.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown flag %q", name)
}

// ParseFlags parses a list of modifier names.
func ParseFlags(names []string) (Flags, error) {
	var out Flags
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		f, err := ParseFlag(n)
		if err != nil {
			return 0, err
		}
		out |= f
	}
	return out, nil
}

func (f Flags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

func (f *Flags) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		var raw uint32
		if err2 := json.Unmarshal(data, &raw); err2 != nil {
			return err
		}
		*f = Flags(raw)
		return nil
	}
	parsed, err := ParseFlags(names)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
