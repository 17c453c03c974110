// Package gpu renders draw command sequences through per-shape shader programs.
//
// # Overview
//
// A [Session] owns one rendering surface and every GPU resource created
// against it: compiled programs, per-element vertex buffers and the
// projection and model-view matrices. It turns a []draw.Command into exactly
// one frame per [Session.Render] call; there is no animation loop.
//
// The package never talks to a graphics API directly. It drives a [Context],
// a small WebGL-shaped interface implemented by the glbackend package (OpenGL
// 4.1 core through go-gl) and by gputest (a recorder for tests).
//
// # Shader Families
//
// Each shape family has one [Shader]. A shader is initialized once per
// program to cache its uniform locations, then asked to PreProcess every
// element of its family right before the element's draw call:
//
//	quad, polygon  flat color, no per-element uniforms
//	circle         center and radius, fragments outside are discarded
//	ring-slice     circle + near radius, start/end angle and view rotation
//
// # State Machine
//
//	Uninitialized → Initializing → Ready ⇄ Rendering
//	Uninitialized | Initializing | Ready | Rendering → Errored
//
// Errored is terminal. A session enters it on SURFACE_UNAVAILABLE,
// SHADER_COMPILE_FAILURE or SHADER_LINK_FAILURE, logs the error once, stops
// issuing GPU calls and writes the message onto the surface's 2D fallback
// [Canvas]. Every later Render repeats the fallback and returns nil.
//
// # Coordinates
//
// Vertex buffers are computed once against the fixed logical 16:9 space
// (x ∈ [-800, 800], y ∈ [-450, 450]) scaled into [-1, 1]. Resizing only
// changes the viewport, see [Letterbox].
package gpu
