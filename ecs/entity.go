// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecs

import (
	"slices"

	"github.com/jinzhu/copier"
)

// Entity is an identity-less aggregate of components, holding
// at most one [Component] per type. The zero value is an empty
// entity ready to use.
//
// Entities are passed around by pointer. [Entity.Clone] makes
// another entity sharing the same component instances, so a
// mutation through one is visible through the other, while
// [Entity.DeepClone] makes independent copies of the components.
type Entity struct {
	// Name is an optional label, used only for logging.
	Name string

	components map[ComponentID]Component
}

// NewEntity returns a new entity with the given name
// and components.
func NewEntity(name string, comps ...Component) *Entity {
	e := &Entity{Name: name}
	for _, c := range comps {
		e.Set(c)
	}
	return e
}

// Set stores the given component under its type id, replacing
// any component of the same type. Nil components are ignored.
func (e *Entity) Set(c Component) {
	if c == nil {
		return
	}
	if e.components == nil {
		e.components = make(map[ComponentID]Component)
	}
	e.components[c.ComponentID()] = c
}

// Component returns the component with the given type id,
// or nil if the entity does not have one.
func (e *Entity) Component(id ComponentID) Component {
	if e == nil {
		return nil
	}
	return e.components[id]
}

// Delete removes the component with the given type id,
// returning whether there was one.
func (e *Entity) Delete(id ComponentID) bool {
	if _, ok := e.components[id]; !ok {
		return false
	}
	delete(e.components, id)
	return true
}

// Len returns the number of components on the entity.
func (e *Entity) Len() int {
	if e == nil {
		return 0
	}
	return len(e.components)
}

// IDs returns the type ids of the components on the entity,
// in ascending order.
func (e *Entity) IDs() []ComponentID {
	if e == nil {
		return nil
	}
	ids := make([]ComponentID, 0, len(e.components))
	for id := range e.components {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clone returns a new entity holding the same component
// instances as this one. Adding or removing components on
// the clone does not affect this entity, but the components
// themselves are shared.
func (e *Entity) Clone() *Entity {
	ne := &Entity{Name: e.Name}
	for _, c := range e.components {
		ne.Set(c)
	}
	return ne
}

// DeepClone returns a new entity holding independent copies
// of the components of this one. Components implementing
// [Copier] are copied with their own Copy method, all others
// with a deep field-by-field copy.
func (e *Entity) DeepClone() (*Entity, error) {
	ne := &Entity{Name: e.Name}
	for _, id := range e.IDs() {
		c, err := CopyComponent(e.components[id])
		if err != nil {
			return nil, err
		}
		ne.Set(c)
	}
	return ne, nil
}

// Copier is implemented by components that need custom
// copy logic for [Entity.DeepClone], for example to reset
// identity fields.
type Copier interface {
	CopyComponent() Component
}

// CopyComponent returns an independent copy of the given component.
func CopyComponent(c Component) (Component, error) {
	if cp, ok := c.(Copier); ok {
		return cp.CopyComponent(), nil
	}
	nc := newOfSameType(c)
	if err := copier.CopyWithOption(nc, c, copier.Option{CaseSensitive: true, DeepCopy: true}); err != nil {
		return nil, err
	}
	return nc, nil
}
