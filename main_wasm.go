//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/compiler"
	"github.com/epoll-reactor/weak-compiler-sub000/internal/config"
)

func main() {
	js.Global().Set("weakCompile", js.FuncOf(compile))
	js.Global().Set("weakWasmVersion", "0.1.0")
	println("weak WASM compiler ready")
	<-make(chan struct{})
}

// compile(code: string, emit?: string) returns {success, output}.
func compile(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{
			"success": false,
			"output":  "Invalid arguments: expected (code: string, emit?: string)",
		}
	}

	conf := config.Default()
	conf.Jobs = 1
	if len(args) > 1 && args[1].Type() == js.TypeString {
		conf.Emit = []string{args[1].String()}
	}
	if err := conf.Validate(); err != nil {
		return map[string]any{"success": false, "output": err.Error()}
	}

	result := compiler.Compile(&compiler.Options{
		Code:      args[0].String(),
		Config:    conf,
		LogFormat: compiler.HTML,
	})

	return map[string]any{
		"success": result.Success,
		"output":  result.Output,
	}
}
