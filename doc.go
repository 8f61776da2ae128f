// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package cx is a retained-mode GPU draw-list runtime: a drawing context
// that hosts a tree of draw-lists, each holding draw-calls whose payload
// is a packed per-instance attribute buffer fed to GPU shaders. Widgets
// describe themselves each frame by appending instance records and
// binding uniforms/textures against Area handles — stable identifiers
// into instance storage that let layout, animation, and hit-testing code
// patch attributes in place without rebuilding the scene.
//
// The root package owns the Cx context: the draw-list/shader/texture
// tables, the per-frame dirty-tracking state, and the wiring between the
// shader transpiler (package transpile), the frame executor (package
// exec), and the Area attribute I/O contract (package area). Math
// primitives live in the cxmath leaf package and are re-exported here as
// type aliases so callers only ever import cx.
package cx
