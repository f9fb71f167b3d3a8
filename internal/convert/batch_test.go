package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// buildTree creates a.png, b.jpg and notes.txt in root, plus
// sub/c.png, and returns root.
func buildTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeTestPNG(t, filepath.Join(root, "a.png"), 64, 48)
	writeTestJPEG(t, filepath.Join(root, "b.jpg"), 64, 48)
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("notes"), 0o644); err != nil {
		t.Fatalf("write notes.txt: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir sub: %v", err)
	}
	writeTestPNG(t, filepath.Join(root, "sub", "c.png"), 64, 48)
	return root
}

func TestFindImagesNonRecursive(t *testing.T) {
	root := buildTree(t)

	files, err := FindImages(root, false)
	if err != nil {
		t.Fatalf("find images: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
	for _, f := range files {
		if filepath.Base(f) == "notes.txt" {
			t.Fatal("enumerator included notes.txt")
		}
		if filepath.Dir(f) != root {
			t.Fatalf("non-recursive mode returned nested file %s", f)
		}
	}
}

func TestFindImagesRecursiveIncludesNested(t *testing.T) {
	root := buildTree(t)

	files, err := FindImages(root, true)
	if err != nil {
		t.Fatalf("find images: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(files), files)
	}

	found := false
	for _, f := range files {
		if f == filepath.Join(root, "sub", "c.png") {
			found = true
		}
	}
	if !found {
		t.Fatal("recursive enumeration missed sub/c.png")
	}
}

func TestFindImagesCaseInsensitiveExtensions(t *testing.T) {
	root := t.TempDir()
	writeTestPNG(t, filepath.Join(root, "UPPER.PNG"), 16, 16)

	files, err := FindImages(root, false)
	if err != nil {
		t.Fatalf("find images: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected UPPER.PNG to match, got %v", files)
	}
}

func TestConvertDirEmpty(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "out")

	converter := NewConverter(zap.NewNop())
	result, err := converter.ConvertDir(context.Background(), root, out, BatchOptions{Format: PNG})
	if err != nil {
		t.Fatalf("convert dir: %v", err)
	}
	if result.Total != 0 || result.Converted != 0 {
		t.Fatalf("expected (0, 0), got (%d, %d)", result.Converted, result.Total)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatal("expected no output directory for an empty run")
	}
}

func TestConvertDirFlatToWebp(t *testing.T) {
	root := buildTree(t)
	out := filepath.Join(t.TempDir(), "out")

	converter := NewConverter(zap.NewNop())
	result, err := converter.ConvertDir(context.Background(), root, out, BatchOptions{
		Format:  WEBP,
		Quality: 90,
	})
	if err != nil {
		t.Fatalf("convert dir: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Total)
	}
	if result.Converted != 2 {
		t.Fatalf("expected 2 conversions, got %d", result.Converted)
	}

	for _, name := range []string{"a.webp", "b.webp"} {
		img := decodeFile(t, filepath.Join(out, name))
		if img.Bounds().Dx() != 64 {
			t.Fatalf("%s: unexpected bounds %v", name, img.Bounds())
		}
	}
	if _, err := os.Stat(filepath.Join(out, "notes.webp")); !os.IsNotExist(err) {
		t.Fatal("notes.txt should not have been converted")
	}
}

func TestConvertDirRecursiveMirrorsTree(t *testing.T) {
	root := buildTree(t)
	out := filepath.Join(t.TempDir(), "out")

	converter := NewConverter(zap.NewNop())
	result, err := converter.ConvertDir(context.Background(), root, out, BatchOptions{
		Format:    JPEG,
		Quality:   90,
		Recursive: true,
	})
	if err != nil {
		t.Fatalf("convert dir: %v", err)
	}
	if result.Converted != 3 || result.Total != 3 {
		t.Fatalf("expected (3, 3), got (%d, %d)", result.Converted, result.Total)
	}
	if _, err := os.Stat(filepath.Join(out, "sub", "c.jpg")); err != nil {
		t.Fatalf("expected mirrored sub/c.jpg: %v", err)
	}
}

func TestConvertDirCountsFailures(t *testing.T) {
	root := t.TempDir()
	writeTestPNG(t, filepath.Join(root, "good.png"), 32, 32)
	if err := os.WriteFile(filepath.Join(root, "bad.png"), []byte("junk"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	out := filepath.Join(t.TempDir(), "out")

	converter := NewConverter(zap.NewNop())
	result, err := converter.ConvertDir(context.Background(), root, out, BatchOptions{Format: PNG})
	if err != nil {
		t.Fatalf("convert dir: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Total)
	}
	if result.Converted != 1 {
		t.Fatalf("expected 1 conversion, got %d", result.Converted)
	}
}

func TestConvertDirStopsOnCancelledContext(t *testing.T) {
	root := buildTree(t)
	out := filepath.Join(t.TempDir(), "out")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	converter := NewConverter(zap.NewNop())
	result, err := converter.ConvertDir(ctx, root, out, BatchOptions{Format: PNG})
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Converted != 0 {
		t.Fatalf("expected no conversions after cancellation, got %d", result.Converted)
	}
}
