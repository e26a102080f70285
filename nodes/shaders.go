package nodes

import (
	"embed"
)

//go:embed shaders/*.kage
var shaderFS embed.FS

var shaderFiles = map[string]string{
	MaterialSSAO:     "shaders/ssao.kage",
	MaterialSSAOBlur: "shaders/ssao_blur.kage",
	MaterialCombine:  "shaders/combine.kage",
}

// ShaderSources returns the Kage source of every material the passes use,
// keyed by material name.
func ShaderSources() map[string][]byte {
	out := make(map[string][]byte, len(shaderFiles))
	for name, file := range shaderFiles {
		src, err := shaderFS.ReadFile(file)
		if err != nil {
			panic("nodes: missing embedded shader " + file)
		}
		out[name] = src
	}
	return out
}
