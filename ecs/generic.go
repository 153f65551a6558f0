// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecs

import "reflect"

// Add stores the given component on the entity,
// replacing any existing component of type T.
func Add[T Component](e *Entity, c T) {
	e.Set(c)
}

// Get returns the component of type T on the entity,
// or the zero value of T (nil for pointer types) if there
// is none. It never panics, including on a nil entity.
func Get[T Component](e *Entity) T {
	c, _ := Lookup[T](e)
	return c
}

// Lookup returns the component of type T on the entity,
// and whether it was present.
func Lookup[T Component](e *Entity) (T, bool) {
	c, ok := e.Component(IDOf[T]()).(T)
	return c, ok
}

// Has returns whether the entity has a component of type T.
func Has[T Component](e *Entity) bool {
	_, ok := Lookup[T](e)
	return ok
}

// Remove removes the component of type T from the entity,
// returning whether there was one.
func Remove[T Component](e *Entity) bool {
	return e.Delete(IDOf[T]())
}

// Each calls fun for every entity that has a component of type T,
// in order, passing the entity and its component.
func Each[T Component](entities []*Entity, fun func(e *Entity, c T)) {
	for _, e := range entities {
		if c, ok := Lookup[T](e); ok {
			fun(e, c)
		}
	}
}

// newOfSameType returns a new zero component with the same
// dynamic type as c (a pointer to a new value if c is a pointer).
func newOfSameType(c Component) Component {
	typ := reflect.TypeOf(c)
	if typ.Kind() == reflect.Pointer {
		return reflect.New(typ.Elem()).Interface().(Component)
	}
	return reflect.New(typ).Interface().(Component)
}
