package main

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/recera/inkview/cmd/inkview/internal/config"
	"github.com/spf13/cobra"
)

func newBuildCommand() *cobra.Command {
	var output string
	var optimize bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the application for production",
		Long:  `Creates an optimized production build: the WASM binary, the Go runtime shim, and the static assets with the configuration baked in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(output, optimize)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "dist", "Output directory")
	cmd.Flags().BoolVar(&optimize, "optimize", true, "Strip debug info from the WASM binary")

	return cmd
}

func runBuild(output string, optimize bool) error {
	log.Println("🚀 Building Inkview application for production...")

	cfg, err := config.Load(".")
	if err != nil {
		log.Printf("⚠️  Failed to load %s: %v (using defaults)", config.FileName, err)
		cfg = config.Default()
	}

	if err := os.RemoveAll(output); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clean output directory: %w", err)
	}
	if err := os.MkdirAll(output, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	log.Println("🔨 Building WASM...")
	wasmPath := filepath.Join(output, "app.wasm")
	args := []string{"build", "-o", wasmPath}
	if optimize {
		args = append(args, "-ldflags", "-s -w", "-trimpath")
	}
	args = append(args, "./app/client")

	buildCmd := exec.Command("go", args...)
	buildCmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")
	if cmdOutput, err := buildCmd.CombinedOutput(); err != nil {
		return fmt.Errorf("go build failed: %w\nOutput: %s", err, cmdOutput)
	}

	log.Println("📄 Copying wasm_exec.js...")
	wasmExec, err := loadWasmExec()
	if err != nil {
		return fmt.Errorf("failed to copy wasm_exec.js: %w", err)
	}
	if err := os.WriteFile(filepath.Join(output, "wasm_exec.js"), wasmExec, 0644); err != nil {
		return fmt.Errorf("failed to write wasm_exec.js: %w", err)
	}

	log.Println("📄 Copying static assets...")
	if err := copyStaticFiles(output, cfg); err != nil {
		return fmt.Errorf("failed to copy static files: %w", err)
	}

	log.Println("\n📊 Build complete!")
	reportBuildSizes(output)

	return nil
}

// copyStaticFiles copies app/static into the output, baking the
// configuration into every HTML page.
func copyStaticFiles(output string, cfg *config.Config) error {
	staticDir := filepath.Join("app", "static")
	info, err := os.Stat(staticDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	return filepath.Walk(staticDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, ".html") {
			content = injectConfig(content, cfg)
		}

		destPath := filepath.Join(output, relPath)
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}
		return os.WriteFile(destPath, content, 0644)
	})
}

func reportBuildSizes(output string) {
	wasmPath := filepath.Join(output, "app.wasm")
	if info, err := os.Stat(wasmPath); err == nil {
		log.Printf("  WASM:        %s", formatSize(info.Size()))
		log.Printf("  WASM (gzip): %s", formatSize(getGzippedSize(wasmPath)))
	}

	var totalSize int64
	filepath.Walk(output, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			totalSize += info.Size()
		}
		return nil
	})

	log.Printf("  Total:       %s", formatSize(totalSize))
	log.Printf("\n✨ Build output: %s", output)
}

func getGzippedSize(path string) int64 {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write(content)
	gz.Close()

	return int64(buf.Len())
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
