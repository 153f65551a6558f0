// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vkhuman/human3d/base/errors"
	"github.com/vkhuman/human3d/ecs"
	"github.com/vkhuman/human3d/math32"
	"gopkg.in/yaml.v3"
)

// Built-in mesh names usable in scene files.
const (
	MeshTriangle = "triangle"
	MeshCube     = "cube"
)

// Default camera values for scene files that omit them.
const (
	DefaultFOV    = 60
	DefaultAspect = 4.0 / 3.0
)

// SceneFile is the YAML form of a scene.
// All angles are in degrees.
type SceneFile struct {
	Entities []EntityFile `yaml:"entities"`
}

// EntityFile is the YAML form of one entity.
type EntityFile struct {
	Name     string        `yaml:"name"`
	CoordSys *CoordSysFile `yaml:"coordsys,omitempty"`

	// Mesh is a built-in mesh name ([MeshTriangle], [MeshCube]),
	// or a mesh file path relative to the scene file.
	Mesh string `yaml:"mesh,omitempty"`

	// Spin in degrees per second about each axis.
	Spin   *[3]float32 `yaml:"spin,omitempty"`
	Camera *CameraFile `yaml:"camera,omitempty"`
}

// CoordSysFile is the YAML form of a [CoordSys].
type CoordSysFile struct {
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`
}

// CameraFile is the YAML form of a [Camera].
type CameraFile struct {
	FOV         float32    `yaml:"fov"`
	Aspect      float32    `yaml:"aspect"`
	Position    [3]float32 `yaml:"position"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Sensitivity float32    `yaml:"sensitivity"`
}

// Scene is the result of loading a scene file.
type Scene struct {

	// Entities in file order.
	Entities []*ecs.Entity

	// Files has the scene file and every mesh file it references,
	// for watching.
	Files []string
}

// LoadScene loads the entities of the YAML scene file at the given path,
// using loader for mesh files. Errors wrap [ErrConfig].
func LoadScene(path string, loader MeshLoader) ([]*ecs.Entity, error) {
	sc, err := OpenScene(path, loader)
	if err != nil {
		return nil, err
	}
	return sc.Entities, nil
}

// OpenScene loads the YAML scene file at the given path,
// using loader for mesh files. Errors wrap [ErrConfig].
func OpenScene(path string, loader MeshLoader) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: xyz.OpenScene: %w", ErrConfig, err)
	}
	defer f.Close()
	sc, err := ReadScene(f, filepath.Dir(path), loader)
	if err != nil {
		return nil, fmt.Errorf("xyz.OpenScene %s: %w", path, err)
	}
	sc.Files = append([]string{path}, sc.Files...)
	return sc, nil
}

// ReadScene reads a YAML scene from r. Mesh paths are relative to dir.
// Unknown fields are an error.
func ReadScene(r io.Reader, dir string, loader MeshLoader) (*Scene, error) {
	var sf SceneFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return sf.Build(dir, loader)
}

// Build makes the entities of the scene. Meshes named by
// several entities are loaded once and share one [Visual].
func (sf *SceneFile) Build(dir string, loader MeshLoader) (*Scene, error) {
	sc := &Scene{}
	visuals := make(map[string]*Visual)
	for i, ef := range sf.Entities {
		name := ef.Name
		if name == "" {
			name = fmt.Sprintf("entity%d", i)
		}
		e := ecs.NewEntity(name)
		if ef.CoordSys != nil {
			ecs.Add(e, &CoordSys{
				Position: math32.Vector3FromArray(ef.CoordSys.Position),
				Rotation: degToRad3(ef.CoordSys.Rotation),
			})
		}
		if ef.Mesh != "" {
			vi, file, err := sc.visual(visuals, ef.Mesh, dir, loader)
			if err != nil {
				return nil, fmt.Errorf("entity %q: %w", name, err)
			}
			if file != "" {
				sc.Files = append(sc.Files, file)
			}
			ecs.Add(e, vi)
		}
		if ef.Spin != nil {
			ecs.Add(e, &Spin{Rate: degToRad3(*ef.Spin)})
		}
		if ef.Camera != nil {
			ecs.Add(e, ef.Camera.Camera())
		}
		sc.Entities = append(sc.Entities, e)
	}
	return sc, nil
}

// visual returns the shared Visual for the given mesh name,
// and the file it was loaded from if it is newly loaded.
func (sc *Scene) visual(visuals map[string]*Visual, mesh, dir string, loader MeshLoader) (*Visual, string, error) {
	file := ""
	key := mesh
	if filepath.Ext(mesh) != "" {
		file = mesh
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		key = file
	}
	if vi, ok := visuals[key]; ok {
		return vi, "", nil
	}
	var vi *Visual
	switch {
	case mesh == MeshTriangle:
		vi = NewTriangle()
	case mesh == MeshCube:
		vi = NewCube(1)
	case file == "":
		return nil, "", fmt.Errorf("%w: unknown built-in mesh %q", ErrConfig, mesh)
	case loader == nil:
		return nil, "", fmt.Errorf("%w: no mesh loader for %q", ErrConfig, file)
	default:
		vs, ixs, err := loader.LoadFromFile(file)
		if err == nil {
			err = ValidateMesh(vs, ixs)
		}
		if err != nil {
			if !errors.Is(err, ErrConfig) {
				err = fmt.Errorf("%w: %w", ErrConfig, err)
			}
			return nil, "", err
		}
		vi = NewVisual(vs, ixs)
		vi.Source = file
		slog.Debug("loaded mesh", "file", file, "vertices", len(vs), "indices", len(ixs))
	}
	visuals[key] = vi
	return vi, file, nil
}

// Camera returns a new [Camera] from the file values,
// applying defaults for missing ones.
func (cf *CameraFile) Camera() *Camera {
	fov, aspect := cf.FOV, cf.Aspect
	if fov <= 0 {
		fov = DefaultFOV
	}
	if aspect <= 0 {
		aspect = DefaultAspect
	}
	cm := NewCamera(aspect, fov)
	cm.Position = math32.Vector3FromArray(cf.Position)
	cm.Yaw = math32.DegToRad(cf.Yaw)
	cm.Pitch = math32.DegToRad(cf.Pitch)
	if cf.Sensitivity > 0 {
		cm.Sensitivity = cf.Sensitivity
	}
	return cm
}

func degToRad3(a [3]float32) math32.Vector3 {
	return math32.Vec3(math32.DegToRad(a[0]), math32.DegToRad(a[1]), math32.DegToRad(a[2]))
}

// DefaultScene returns a triangle at the origin and a camera
// looking at it from slightly above and behind.
func DefaultScene(aspect float32) []*ecs.Entity {
	tri := ecs.NewEntity("triangle", &CoordSys{}, NewTriangle())
	cm := NewCamera(aspect, DefaultFOV)
	cm.Position = math32.Vec3(0, 1, -3)
	cm.Pitch = math32.DegToRad(-15)
	return []*ecs.Entity{tri, ecs.NewEntity("camera", cm)}
}
