// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ecs provides a minimal entity / component container:
// an [Entity] holds at most one [Component] of each type, keyed
// by a stable per-type [ComponentID].
package ecs

import (
	"fmt"
	"hash/fnv"
	"sort"
)

// ComponentID is a stable identifier for a component type
// (not a component instance), computed from the type name
// with the 32-bit FNV-1a hash.
type ComponentID uint32

// Component is the capability shared by everything that can be
// attached to an [Entity]. ComponentID must not dereference its
// receiver, so that a nil pointer of the component type reports
// the id of the type.
type Component interface {
	ComponentID() ComponentID
}

// registry of ids created by NewComponentID, for collision detection.
var registry = map[ComponentID]string{}

// HashName returns the 32-bit FNV-1a hash of the given name.
func HashName(name string) ComponentID {
	h := fnv.New32a()
	h.Write([]byte(name))
	return ComponentID(h.Sum32())
}

// NewComponentID returns the [ComponentID] for the component type
// with the given name, registering it. It is meant to be called once
// per type, in a package level var. Calling it again with the same
// name returns the same id. It panics if a different name already
// registered the same id, so that collisions surface at init.
func NewComponentID(name string) ComponentID {
	id := HashName(name)
	if prev, ok := registry[id]; ok && prev != name {
		panic(fmt.Sprintf("ecs: component %q collides with %q (id %#08x)", name, prev, uint32(id)))
	}
	registry[id] = name
	return id
}

// ComponentName returns the name registered for the given id,
// and false if it was never registered.
func ComponentName(id ComponentID) (string, bool) {
	nm, ok := registry[id]
	return nm, ok
}

// RegisteredComponents returns the names of all registered
// component types, sorted.
func RegisteredComponents() []string {
	names := make([]string, 0, len(registry))
	for _, nm := range registry {
		names = append(names, nm)
	}
	sort.Strings(names)
	return names
}

// String returns the registered name of the component type,
// or the hex id if it is not registered.
func (id ComponentID) String() string {
	if nm, ok := registry[id]; ok {
		return nm
	}
	return fmt.Sprintf("%#08x", uint32(id))
}

// IDOf returns the [ComponentID] of component type T.
func IDOf[T Component]() ComponentID {
	var zero T
	return zero.ComponentID()
}
