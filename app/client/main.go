//go:build js && wasm
// +build js,wasm

// The demo client: mounts the viewport engine on #viewport, wires the
// toolbar chrome, and forwards backing-store resolutions to the canvas.
package main

import (
	"fmt"
	"syscall/js"
	"time"

	"github.com/recera/inkview/pkg/camera"
	"github.com/recera/inkview/pkg/debug"
	"github.com/recera/inkview/pkg/fitmode"
	"github.com/recera/inkview/pkg/geom"
	"github.com/recera/inkview/pkg/livereload"
	"github.com/recera/inkview/pkg/resolution"
	"github.com/recera/inkview/pkg/viewport"
)

var (
	document = js.Global().Get("document")
	window   = js.Global().Get("window")
)

func main() {
	debug.Log("🚀 Inkview client starting...")

	if document.Get("readyState").String() != "loading" {
		onReady()
	} else {
		var ready js.Func
		ready = js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			ready.Release()
			onReady()
			return nil
		})
		document.Call("addEventListener", "DOMContentLoaded", ready)
	}

	// Keep the WASM runtime alive
	select {}
}

func onReady() {
	opts := optionsFromConfig()
	opts.OnResolution = applyCanvasResolution

	engine := viewport.New(opts)
	sizePageCanvas(opts.PageSize)
	if !engine.Mount("#viewport") {
		return
	}

	bindToolbar(engine)
	livereload.Connect("/livereload")
	debug.Log("✅ Inkview mounted")
}

// optionsFromConfig reads window.__INKVIEW_CONFIG__, injected into the
// page by the dev server and the production build.
func optionsFromConfig() viewport.Options {
	var opts viewport.Options
	cfg := window.Get("__INKVIEW_CONFIG__")
	if !cfg.Truthy() {
		return opts
	}

	if page := cfg.Get("page"); page.Truthy() {
		opts.PageSize = geom.Size{W: page.Get("width").Float(), H: page.Get("height").Float()}
		opts.Gutter = page.Get("gutter").Float()
		opts.Tuning.FitPaddingPx = page.Get("padding").Float()
	}
	if c := cfg.Get("constraints"); c.Truthy() {
		opts.Constraints = camera.Constraints{
			MinScale:   c.Get("minScale").Float(),
			MaxScale:   c.Get("maxScale").Float(),
			EnablePan:  c.Get("enablePan").Bool(),
			EnableZoom: c.Get("enableZoom").Bool(),
		}
	}
	if t := cfg.Get("tuning"); t.Truthy() {
		opts.Tuning = fitmode.Tuning{
			DeviationEpsilon: t.Get("deviationEpsilon").Float(),
			NudgeThreshold:   t.Get("nudgeThreshold").Int(),
			NudgeWindow:      time.Duration(t.Get("nudgeWindowMs").Int()) * time.Millisecond,
			FitPaddingPx:     opts.Tuning.FitPaddingPx,
		}
		opts.ScaleEpsilon = t.Get("scaleEpsilon").Float()
		opts.ResizeDebounce = time.Duration(t.Get("resizeDebounceMs").Int()) * time.Millisecond
	}
	if r := cfg.Get("resolution"); r.Truthy() {
		opts.Limits = resolution.Limits{
			MaxWidth:  r.Get("maxWidth").Int(),
			MaxHeight: r.Get("maxHeight").Int(),
			MaxPixels: r.Get("maxPixels").Int(),
		}
	}
	return opts
}

// sizePageCanvas pins the canvas's CSS size to the logical page so the
// transform math and the layout agree.
func sizePageCanvas(page geom.Size) {
	if page.W <= 0 || page.H <= 0 {
		return
	}
	canvas := document.Call("querySelector", "#page-canvas")
	if !canvas.Truthy() {
		return
	}
	style := canvas.Get("style")
	style.Set("width", fmt.Sprintf("%.0fpx", page.W))
	style.Set("height", fmt.Sprintf("%.0fpx", page.H))
}

// applyCanvasResolution resizes the page canvas's backing store. The CSS
// size stays the logical page; only the pixel density changes.
func applyCanvasResolution(res resolution.Resolution) {
	canvas := document.Call("querySelector", "#page-canvas")
	if !canvas.Truthy() {
		return
	}
	canvas.Set("width", res.PhysicalWidth)
	canvas.Set("height", res.PhysicalHeight)
	drawPage(canvas, res)
}

// drawPage renders placeholder document content so zoom sharpness is
// visible at any ratio.
func drawPage(canvas js.Value, res resolution.Resolution) {
	ctx := canvas.Call("getContext", "2d")
	if !ctx.Truthy() {
		return
	}
	w := float64(res.PhysicalWidth)
	h := float64(res.PhysicalHeight)

	ctx.Set("fillStyle", "#ffffff")
	ctx.Call("fillRect", 0, 0, w, h)

	// Rule lines, spaced in page units so they track the zoom.
	ctx.Set("strokeStyle", "#d8d8e0")
	ctx.Set("lineWidth", res.EffectiveDPR)
	step := 40.0 * res.EffectiveDPR
	ctx.Call("beginPath")
	for y := step; y < h; y += step {
		ctx.Call("moveTo", 0.06*w, y)
		ctx.Call("lineTo", 0.94*w, y)
	}
	ctx.Call("stroke")

	ctx.Set("fillStyle", "#32324a")
	ctx.Set("font", fmt.Sprintf("%.0fpx serif", 28*res.EffectiveDPR))
	ctx.Call("fillText", "Inkview demo page", 0.06*w, step*1.5)
}

func bindToolbar(engine *viewport.Engine) {
	onClick("#zoom-in", engine.ZoomIn)
	onClick("#zoom-out", engine.ZoomOut)
	onClick("#zoom-fit", engine.FitWidth)

	panActive := false
	panBtn := document.Call("querySelector", "#pan-tool")
	if panBtn.Truthy() {
		fn := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
			panActive = !panActive
			engine.SetPanTool(panActive)
			panBtn.Get("classList").Call("toggle", "active", panActive)
			return nil
		})
		panBtn.Call("addEventListener", "click", fn)
	}

	label := document.Call("querySelector", "#zoom-label")
	engine.Subscribe(func(s viewport.Snapshot) {
		if !label.Truthy() {
			return
		}
		text := fmt.Sprintf("%.0f%%", s.Scale*100)
		if s.FitMode == camera.FitWidth {
			text += " · fit"
		}
		label.Set("textContent", text)
	})
}

func onClick(selector string, fn func()) {
	el := document.Call("querySelector", selector)
	if !el.Truthy() {
		return
	}
	handler := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		fn()
		return nil
	})
	el.Call("addEventListener", "click", handler)
}
