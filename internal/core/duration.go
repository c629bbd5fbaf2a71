package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Unit is the time unit a Duration is expressed in.
type Unit int

const (
	Microseconds Unit = iota
	Milliseconds
	Seconds
	Minutes
	Hours
)

var (
	// ErrInvalidUnit is returned when a duration is built with an unknown unit.
	ErrInvalidUnit = errors.New("core: invalid duration unit")
	// ErrNegativeDuration is returned when a duration is built with a negative magnitude.
	ErrNegativeDuration = errors.New("core: negative duration")
	// ErrUnitMismatch is returned when combining durations of different units.
	ErrUnitMismatch = errors.New("core: duration unit mismatch")
)

// microsPer holds how many microseconds make up one of each unit.
var microsPer = [...]float64{
	Microseconds: 1,
	Milliseconds: 1_000,
	Seconds:      1_000_000,
	Minutes:      60_000_000,
	Hours:        3_600_000_000,
}

var unitSuffix = [...]string{
	Microseconds: "us",
	Milliseconds: "ms",
	Seconds:      "s",
	Minutes:      "m",
	Hours:        "h",
}

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	return u >= Microseconds && u <= Hours
}

func (u Unit) String() string {
	if !u.Valid() {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitSuffix[u]
}

// Duration is a non-negative time quantity tagged with its unit.
// The zero value is zero microseconds.
type Duration struct {
	unit      Unit
	magnitude int64
}

// NewDuration builds a duration, failing fast on a bad unit or a negative magnitude.
func NewDuration(magnitude int64, unit Unit) (Duration, error) {
	if !unit.Valid() {
		return Duration{}, fmt.Errorf("%w: %d", ErrInvalidUnit, int(unit))
	}
	if magnitude < 0 {
		return Duration{}, fmt.Errorf("%w: %d%s", ErrNegativeDuration, magnitude, unit)
	}
	return Duration{unit: unit, magnitude: magnitude}, nil
}

// MustDuration is like NewDuration but panics on invalid input.
// Intended for package-level constants in game code.
func MustDuration(magnitude int64, unit Unit) Duration {
	d, err := NewDuration(magnitude, unit)
	if err != nil {
		panic(err)
	}
	return d
}

// Ms is shorthand for a millisecond duration.
func Ms(n int64) Duration {
	return MustDuration(n, Milliseconds)
}

// Unit returns the unit the duration was built with.
func (d Duration) Unit() Unit {
	return d.unit
}

// Magnitude returns the raw count of units.
func (d Duration) Magnitude() int64 {
	return d.magnitude
}

// In converts the duration into the given unit.
func (d Duration) In(u Unit) float64 {
	if !u.Valid() {
		return 0
	}
	return float64(d.magnitude) * microsPer[d.unit] / microsPer[u]
}

// Milliseconds is the comparison unit used by the effect scheduler.
func (d Duration) Milliseconds() float64 {
	return d.In(Milliseconds)
}

// Std converts to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d.In(Microseconds)) * time.Microsecond
}

// Add returns d + o. Both must share a unit.
func (d Duration) Add(o Duration) (Duration, error) {
	if d.unit != o.unit {
		return d, fmt.Errorf("%w: %s + %s", ErrUnitMismatch, d.unit, o.unit)
	}
	return Duration{unit: d.unit, magnitude: d.magnitude + o.magnitude}, nil
}

// Sub returns d - o, saturating at zero. Both must share a unit.
func (d Duration) Sub(o Duration) (Duration, error) {
	if d.unit != o.unit {
		return d, fmt.Errorf("%w: %s - %s", ErrUnitMismatch, d.unit, o.unit)
	}
	return Duration{unit: d.unit, magnitude: max(d.magnitude-o.magnitude, 0)}, nil
}

// AddMagnitude adds n units of u. The unit must match the receiver's.
func (d Duration) AddMagnitude(n int64, u Unit) (Duration, error) {
	other, err := NewDuration(Abs64(n), u)
	if err != nil {
		return d, err
	}
	if n < 0 {
		return d.Sub(other)
	}
	return d.Add(other)
}

func (d Duration) String() string {
	return strconv.FormatInt(d.magnitude, 10) + d.unit.String()
}

// ParseDuration reads strings such as "250ms", "2s" or "1500us".
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	// Longest suffixes first so "ms" is not read as "s".
	for _, u := range []Unit{Microseconds, Milliseconds, Seconds, Minutes, Hours} {
		suffix := unitSuffix[u]
		if !strings.HasSuffix(s, suffix) {
			continue
		}
		num := strings.TrimSuffix(s, suffix)
		if num == "" || strings.ContainsAny(num, "umsh") {
			continue
		}
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return Duration{}, fmt.Errorf("core: parse duration %q: %w", s, err)
		}
		return NewDuration(n, u)
	}
	return Duration{}, fmt.Errorf("core: parse duration %q: %w", s, ErrInvalidUnit)
}

// UnmarshalYAML accepts scalar strings like "90ms".
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML writes the duration in the same form ParseDuration reads.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Abs64 returns the absolute value of an int64.
func Abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
