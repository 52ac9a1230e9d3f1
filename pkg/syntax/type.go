// Package syntax defines element types shared by lexers, the tree builder and
// the assembled trees.
package syntax

import (
	"fmt"
	"sync"
)

// ElementType identifies the kind of a token or a tree node.
// Values are handles into a process-wide registry; use Register to create them.
type ElementType uint16

// Flags describe how the builder treats an element type.
type Flags uint8

const (
	// FlagLeftBound makes an empty or trivia-only node stick to the preceding trivia.
	FlagLeftBound Flags = 1 << iota

	// FlagLeaf keeps zero-length tokens of this type as tree leaves.
	FlagLeaf

	// FlagLazy marks a token whose contents are parsed on demand.
	FlagLazy

	// FlagFile marks a root type.
	FlagFile

	// FlagWrapper marks a synthetic type standing in for another type with fixed text.
	FlagWrapper
)

// Predefined element types.
const (
	// None is returned by cursor queries at end of input.
	None ElementType = iota

	// Error is the type of error nodes.
	Error

	// BadCharacter is the type lexers use for input they cannot classify.
	BadCharacter
)

type typeInfo struct {
	name     string
	flags    Flags
	delegate ElementType
	value    string
}

//nolint:gochecknoglobals // Element types are registered process-wide.
var (
	registryMu sync.RWMutex
	registry   = []typeInfo{
		None:         {name: "NONE"},
		Error:        {name: "ERROR_ELEMENT"},
		BadCharacter: {name: "BAD_CHARACTER"},
	}
	byName = map[string]ElementType{
		"NONE":          None,
		"ERROR_ELEMENT": Error,
		"BAD_CHARACTER": BadCharacter,
	}
)

// Option configures a type during registration.
type Option func(*typeInfo)

// LeftBound sets FlagLeftBound.
func LeftBound() Option {
	return func(info *typeInfo) { info.flags |= FlagLeftBound }
}

// ZeroLengthLeaf sets FlagLeaf.
func ZeroLengthLeaf() Option {
	return func(info *typeInfo) { info.flags |= FlagLeaf }
}

// Lazy sets FlagLazy.
func Lazy() Option {
	return func(info *typeInfo) { info.flags |= FlagLazy }
}

// File sets FlagFile.
func File() Option {
	return func(info *typeInfo) { info.flags |= FlagFile }
}

// WrapperOf makes the type a wrapper around delegate whose text is always value.
// Wrappers are leaves by construction.
func WrapperOf(delegate ElementType, value string) Option {
	return func(info *typeInfo) {
		info.flags |= FlagWrapper | FlagLeaf
		info.delegate = delegate
		info.value = value
	}
}

// Register creates a new element type.
// Registration normally happens from package-level variable initialisers.
// Registering a name twice panics.
func Register(name string, opts ...Option) ElementType {
	info := typeInfo{name: name}
	for _, opt := range opts {
		opt(&info)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := byName[name]; exists {
		panic(fmt.Sprintf("syntax: element type %q already registered", name))
	}
	if len(registry) > int(^ElementType(0)) {
		panic("syntax: element type registry is full")
	}

	t := ElementType(len(registry))
	registry = append(registry, info)
	byName[name] = t

	return t
}

// Lookup returns the type registered under name.
func Lookup(name string) (ElementType, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	t, ok := byName[name]
	return t, ok
}

func (t ElementType) info() typeInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if int(t) >= len(registry) {
		return typeInfo{name: fmt.Sprintf("ElementType(%d)", uint16(t))}
	}
	return registry[t]
}

// String returns the registered name.
func (t ElementType) String() string {
	return t.info().name
}

// Flags returns the type's flags.
func (t ElementType) Flags() Flags {
	return t.info().flags
}

// Has reports whether all of flags are set on the type.
func (t ElementType) Has(flags Flags) bool {
	return t.info().flags&flags == flags
}

// IsLeftBound reports whether FlagLeftBound is set.
func (t ElementType) IsLeftBound() bool {
	return t.Has(FlagLeftBound)
}

// IsLazy reports whether FlagLazy is set.
func (t ElementType) IsLazy() bool {
	return t.Has(FlagLazy)
}

// IsWrapper reports whether the type is a wrapper.
func (t ElementType) IsWrapper() bool {
	return t.Has(FlagWrapper)
}

// WrapperValue returns the fixed text of a wrapper type.
func (t ElementType) WrapperValue() (string, bool) {
	info := t.info()
	if info.flags&FlagWrapper == 0 {
		return "", false
	}
	return info.value, true
}

// Deref follows the wrapper chain down to a non-wrapper type.
func (t ElementType) Deref() ElementType {
	for {
		info := t.info()
		if info.flags&FlagWrapper == 0 {
			return t
		}
		t = info.delegate
	}
}
