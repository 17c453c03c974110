package gpu

// GLSL sources. Vertex positions arrive pre-scaled into [-1, 1]; vLogical
// restores logical units so fragment shaders can test against geometry
// expressed in the same space as draw commands.

const vertexSource = `#version 410 core
in vec2 aPosition;
in vec4 aColor;

uniform mat4 uModelView;
uniform mat4 uProjection;

out vec4 vColor;
out vec2 vLogical;

void main() {
	vColor = aColor;
	vLogical = aPosition * vec2(800.0, 450.0);
	gl_Position = uModelView * vec4(aPosition, 0.0, 1.0);
}
`

const flatFragmentSource = `#version 410 core
in vec4 vColor;
in vec2 vLogical;
out vec4 fragColor;

void main() {
	fragColor = vColor;
}
`

const circleFragmentSource = `#version 410 core
in vec4 vColor;
in vec2 vLogical;

uniform vec2 uCenter;
uniform float uRadius;

out vec4 fragColor;

void main() {
	if (distance(vLogical, uCenter) > uRadius) {
		discard;
	}
	fragColor = vColor;
}
`

const ringSliceFragmentSource = `#version 410 core
in vec4 vColor;
in vec2 vLogical;

uniform vec2 uCenter;
uniform float uRadius;
uniform float uNear;
uniform float uStart;
uniform float uEnd;
uniform float uRotation;

out vec4 fragColor;

const float TAU = 6.28318530718;

void main() {
	vec2 d = vLogical - uCenter;
	float r = length(d);
	if (r < uNear || r > uRadius) {
		discard;
	}
	float span = uEnd - uStart;
	if (span < TAU) {
		float a = mod(atan(d.y, d.x) - uRotation - uStart, TAU);
		if (a > span) {
			discard;
		}
	}
	fragColor = vColor;
}
`
