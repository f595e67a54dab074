package renderer

// GLSL sources for the forward model pipeline. Strings passed to the GL
// driver must be null-terminated.

const modelVertexShader = `#version 410 core

layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aTexCoord;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vTexCoord;

void main() {
    vec4 worldPos = uModel * vec4(aPosition, 1.0);
    vWorldPos = worldPos.xyz;
    // Normal matrix computed on the GPU; model transforms here are TRS only
    // so the inverse-transpose is always defined.
    vNormal = mat3(transpose(inverse(uModel))) * aNormal;
    vTexCoord = aTexCoord;
    gl_Position = uProjection * uView * worldPos;
}
` + "\x00"

const modelFragmentShader = `#version 410 core

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vTexCoord;

uniform vec4 uBaseColor;
uniform float uMetallic;
uniform float uRoughness;
uniform bool uHasTexture;
uniform sampler2D uBaseColorTexture;
uniform vec3 uCameraPos;
uniform vec3 uLightDir;

out vec4 fragColor;

void main() {
    vec4 base = uBaseColor;
    if (uHasTexture) {
        base *= texture(uBaseColorTexture, vTexCoord);
    }

    vec3 n = normalize(vNormal);
    vec3 l = normalize(-uLightDir);
    vec3 v = normalize(uCameraPos - vWorldPos);
    vec3 h = normalize(l + v);

    float ndotl = max(dot(n, l), 0.0);
    float shininess = mix(256.0, 4.0, clamp(uRoughness, 0.0, 1.0));
    float spec = pow(max(dot(n, h), 0.0), shininess) * mix(0.04, 0.6, uMetallic);

    vec3 ambient = base.rgb * 0.18;
    vec3 diffuse = base.rgb * ndotl;
    vec3 color = ambient + diffuse + vec3(spec) * ndotl;

    fragColor = vec4(color, base.a);
}
` + "\x00"
