package chart

import (
	"bytes"
	"embed"
)

//go:embed assets
var assets embed.FS

const runtimeAsset = "assets/echarts.min.js"

// BundledRuntime returns the ECharts runtime compiled into the binary, or
// nil when the build carries none.
func BundledRuntime() []byte {
	runtime, err := assets.ReadFile(runtimeAsset)
	if err != nil {
		return nil
	}

	return runtime
}

// inlineScript wraps js in a script element. Closing tags inside the source
// are escaped so they cannot end the element early.
func inlineScript(js []byte) string {
	js = bytes.ReplaceAll(js, []byte("</script"), []byte(`<\/script`))

	return "<script type=\"text/javascript\">\n" + string(js) + "\n</script>"
}
