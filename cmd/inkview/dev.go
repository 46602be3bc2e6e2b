package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/recera/inkview/cmd/inkview/internal/config"
	"github.com/recera/inkview/internal/cache"
	"github.com/recera/inkview/pkg/livereload"
	"github.com/spf13/cobra"
)

type devServer struct {
	port       int
	host       string
	watcher    *fsnotify.Watcher
	hub        *livereload.Hub
	buildMutex sync.Mutex
	lastBuild  time.Time
	buildCache *cache.Cache
	config     *config.Config
}

func newDevCommand() *cobra.Command {
	var port int
	var host string
	var cwd string

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long:  `Starts a development server with file watching, incremental WASM rebuilds, and live reloading.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cwd != "" {
				if err := os.Chdir(cwd); err != nil {
					return fmt.Errorf("failed to change directory to %s: %w", cwd, err)
				}
			}
			return runDev(host, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run the dev server on (overrides inkview.yml)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind the dev server to (overrides inkview.yml)")
	cmd.Flags().StringVar(&cwd, "cwd", "", "Working directory of the app (defaults to current)")

	return cmd
}

func runDev(host string, port int) error {
	cfg, err := config.Load(".")
	if err != nil {
		log.Printf("⚠️  Failed to load %s: %v (using defaults)\n", config.FileName, err)
		cfg = config.Default()
	}

	// CLI flags take precedence over config
	if port != 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}

	buildCache, err := cache.New("")
	if err != nil {
		log.Printf("⚠️  Failed to initialize build cache: %v", err)
		// Continue without cache
	}

	server := &devServer{
		port:       cfg.Dev.Port,
		host:       cfg.Dev.Host,
		hub:        livereload.NewHub(),
		buildCache: buildCache,
		config:     cfg,
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()
	server.watcher = watcher

	if err := server.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}

	log.Println("🚀 Starting Inkview dev server...")
	if err := server.buildWASM(); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	go server.watchFiles()

	mux := http.NewServeMux()
	mux.HandleFunc("/livereload", server.hub.Handle)
	mux.HandleFunc("/app.wasm", server.serveWASM)
	mux.HandleFunc("/wasm_exec.js", server.serveWasmExec)
	mux.HandleFunc("/favicon.ico", server.serveFavicon)
	mux.HandleFunc("/", server.serveStatic)

	addr := fmt.Sprintf("%s:%d", server.host, server.port)
	log.Printf("✨ Dev server running at http://%s\n", addr)

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\n🛑 Shutting down dev server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	return srv.ListenAndServe()
}

func (s *devServer) setupWatcher() error {
	return filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories, build outputs, and node_modules
		if info.IsDir() && (strings.HasPrefix(info.Name(), ".") || info.Name() == "node_modules" || info.Name() == "dist") {
			return filepath.SkipDir
		}

		if info.IsDir() {
			return s.watcher.Add(path)
		}

		return nil
	})
}

func (s *devServer) watchFiles() {
	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	var pendingEvents []fsnotify.Event
	var mu sync.Mutex

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if !s.isRelevantFile(event.Name) {
				continue
			}

			mu.Lock()
			pendingEvents = append(pendingEvents, event)
			mu.Unlock()

			debounce.Reset(100 * time.Millisecond)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Println("Watcher error:", err)

		case <-debounce.C:
			mu.Lock()
			events := pendingEvents
			pendingEvents = nil
			mu.Unlock()

			if len(events) > 0 {
				s.handleFileChanges(events)
			}
		}
	}
}

func (s *devServer) isRelevantFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".go" || ext == ".css" || ext == ".js" || ext == ".html" {
		return true
	}
	return filepath.Base(path) == config.FileName
}

func (s *devServer) handleFileChanges(events []fsnotify.Event) {
	var hasGoChanges, hasStaticChanges, hasConfigChanges bool

	for _, event := range events {
		switch strings.ToLower(filepath.Ext(event.Name)) {
		case ".go":
			hasGoChanges = true
		case ".css", ".js", ".html":
			hasStaticChanges = true
		}
		if filepath.Base(event.Name) == config.FileName {
			hasConfigChanges = true
		}
	}

	if hasConfigChanges {
		log.Println("⚙️  Config changed, reloading...")
		if cfg, err := config.Load("."); err != nil {
			log.Printf("❌ Failed to reload %s: %v\n", config.FileName, err)
		} else {
			cfg.Dev = s.config.Dev // keep the running server's bind address
			s.config = cfg
		}
	}

	if hasGoChanges {
		log.Println("🔄 Go files changed, rebuilding WASM...")
		if err := s.buildWASM(); err != nil {
			log.Printf("❌ Build failed: %v\n", err)
			s.hub.NotifyError(err.Error())
		} else {
			log.Println("✅ Build succeeded, reloading...")
			s.hub.Reload()
		}
		return
	}

	if hasStaticChanges || hasConfigChanges {
		log.Println("📄 Static files changed, reloading...")
		s.hub.Reload()
	}
}

func (s *devServer) buildWASM() error {
	s.buildMutex.Lock()
	defer s.buildMutex.Unlock()

	os.MkdirAll("public", 0755)
	wasmPath := filepath.Join("public", "app.wasm")

	var hash string
	if s.buildCache != nil {
		var err error
		hash, err = cache.HashTree(".", ".go", ".mod", ".sum")
		if err != nil {
			log.Printf("⚠️  Cache fingerprint failed: %v", err)
		} else if s.buildCache.Fresh("wasm", hash) {
			if _, err := os.Stat(wasmPath); err == nil {
				log.Println("⚡ Sources unchanged, using cached WASM build")
				return nil
			}
		}
	}

	log.Println("🔨 Building WASM...")
	cmd := exec.Command("go", "build", "-o", wasmPath, "./app/client")
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	output, err := cmd.CombinedOutput()
	if err != nil {
		if s.buildCache != nil {
			s.buildCache.Invalidate("wasm")
		}
		return fmt.Errorf("go build failed: %w\nOutput: %s", err, output)
	}

	if s.buildCache != nil && hash != "" {
		s.buildCache.Store("wasm", hash)
	}
	s.lastBuild = time.Now()

	if info, err := os.Stat(wasmPath); err == nil {
		log.Printf("📦 WASM size: %.2f KB\n", float64(info.Size())/1024)
	}

	return nil
}

func (s *devServer) serveWASM(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/wasm")
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, "public/app.wasm")
}

func (s *devServer) serveWasmExec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")

	content, err := loadWasmExec()
	if err != nil {
		http.Error(w, "Failed to resolve wasm_exec.js", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(content)
}

// loadWasmExec finds the Go runtime's wasm_exec.js. Its location moved
// from misc/wasm to lib/wasm in Go 1.24.
func loadWasmExec() ([]byte, error) {
	output, err := exec.Command("go", "env", "GOROOT").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve GOROOT: %w", err)
	}
	goroot := strings.TrimSpace(string(output))

	for _, rel := range []string{"lib/wasm/wasm_exec.js", "misc/wasm/wasm_exec.js"} {
		if content, err := os.ReadFile(filepath.Join(goroot, rel)); err == nil {
			return content, nil
		}
	}
	return nil, fmt.Errorf("wasm_exec.js not found under %s", goroot)
}

func (s *devServer) serveStatic(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/" {
		path = "/index.html"
	}

	// Security: prevent directory traversal
	if strings.Contains(path, "..") {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	filePath := filepath.Join("app", "static", strings.TrimPrefix(path, "/"))
	content, err := os.ReadFile(filePath)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	ext := filepath.Ext(filePath)
	switch ext {
	case ".html":
		w.Header().Set("Content-Type", "text/html")
	case ".js":
		w.Header().Set("Content-Type", "application/javascript")
	case ".css":
		w.Header().Set("Content-Type", "text/css")
	case ".wasm":
		w.Header().Set("Content-Type", "application/wasm")
	default:
		// Let Go's default MIME type detection handle it
	}

	if ext == ".html" {
		content = injectConfig(content, s.config)
	}

	w.Header().Set("Cache-Control", "no-cache")
	w.Write(content)
}

// serveFavicon serves a project favicon if present, otherwise returns 204 to avoid noisy 404.
func (s *devServer) serveFavicon(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat("app/static/favicon.ico"); err == nil {
		http.ServeFile(w, r, "app/static/favicon.ico")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// injectConfig embeds the project configuration into served HTML as
// window.__INKVIEW_CONFIG__ so the WASM client picks it up at boot.
func injectConfig(html []byte, cfg *config.Config) []byte {
	data, err := json.Marshal(cfg)
	if err != nil {
		return html
	}
	script := fmt.Sprintf("<script>window.__INKVIEW_CONFIG__ = %s;</script>\n</head>", data)
	return []byte(strings.Replace(string(html), "</head>", script, 1))
}
