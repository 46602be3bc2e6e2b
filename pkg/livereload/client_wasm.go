//go:build js && wasm
// +build js,wasm

package livereload

import (
	"syscall/js"

	"github.com/recera/inkview/pkg/debug"
)

// Connect opens the livereload socket from the WASM client and reloads
// the page when the dev server announces a new build. No-ops quietly if
// WebSocket is unavailable; livereload is best-effort.
func Connect(path string) {
	ws := js.Global().Get("WebSocket")
	if !ws.Truthy() {
		return
	}
	loc := js.Global().Get("location")
	scheme := "ws:"
	if loc.Get("protocol").String() == "https:" {
		scheme = "wss:"
	}
	sock := ws.New(scheme + "//" + loc.Get("host").String() + path)

	onMsg := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		data := args[0].Get("data").String()
		parsed := js.Global().Get("JSON").Call("parse", data)
		switch parsed.Get("type").String() {
		case "RELOAD":
			debug.Log("🔄 rebuild complete, reloading")
			loc.Call("reload")
		case "ERROR":
			debug.Warnf("build error: %s", parsed.Get("data").String())
		}
		return nil
	})
	sock.Call("addEventListener", "message", onMsg)

	onOpen := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		sock.Call("send", `{"type":"HELLO"}`)
		return nil
	})
	sock.Call("addEventListener", "open", onOpen)
}
