package intake

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantKind Kind
		wantName string
		wantExt  string
		wantErr  bool
	}{
		{"Uppercase JPG", "C:/x/photo.JPG", KindImage, "photo.JPG", "jpg", false},
		{"Jpeg", "/home/u/pic.jpeg", KindImage, "pic.jpeg", "jpeg", false},
		{"Png", "a/b/c.png", KindImage, "c.png", "png", false},
		{"Webp", "logo.webp", KindImage, "logo.webp", "webp", false},
		{"PDF", "C:/x/doc.pdf", KindPDF, "doc.pdf", "pdf", false},
		{"Uppercase PDF", "doc.PDF", KindPDF, "doc.PDF", "pdf", false},
		{"Backslash separators", `C:\photos\shot.png`, KindImage, "shot.png", "png", false},
		{"Video rejected", "C:/x/movie.mp4", "", "", "", true},
		{"Whitespace only", "   ", "", "", "", true},
		{"No extension", "C:/x/no-ext", "", "", "", true},
		{"Trailing dot", "weird.", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Classify(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Classify(%q).Kind = %q, want %q", tt.path, got.Kind, tt.wantKind)
			}
			if got.Name != tt.wantName {
				t.Errorf("Classify(%q).Name = %q, want %q", tt.path, got.Name, tt.wantName)
			}
			if got.Ext != tt.wantExt {
				t.Errorf("Classify(%q).Ext = %q, want %q", tt.path, got.Ext, tt.wantExt)
			}
		})
	}
}

func TestClassifyPreservesOriginalPath(t *testing.T) {
	got, err := Classify(`C:\Photos\Shot.PNG`)
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if got.Path != `C:\Photos\Shot.PNG` {
		t.Errorf("Path = %q, separators or casing were not preserved", got.Path)
	}
}

func TestAddUnique(t *testing.T) {
	existing := []InputFile{mustClassify(t, "a.jpg")}

	result := AddUnique(existing, []string{"a.jpg", "A.jpg", "b.png", "bad.txt", ""})

	wantAccepted := []string{"a.jpg", "A.jpg", "b.png"}
	var gotAccepted []string
	for _, f := range result.Accepted {
		gotAccepted = append(gotAccepted, f.Path)
	}
	if !reflect.DeepEqual(gotAccepted, wantAccepted) {
		t.Errorf("accepted paths = %v, want %v", gotAccepted, wantAccepted)
	}

	wantRejected := []string{"bad.txt", ""}
	if !reflect.DeepEqual(result.Rejected, wantRejected) {
		t.Errorf("rejected = %v, want %v", result.Rejected, wantRejected)
	}
}

func TestAddUniqueDropsDuplicateWithinCall(t *testing.T) {
	result := AddUnique(nil, []string{"x.png", "x.png", "x.png"})

	if len(result.Accepted) != 1 {
		t.Errorf("accepted %d entries, want 1", len(result.Accepted))
	}
	if len(result.Rejected) != 0 {
		t.Errorf("rejected = %v, duplicates must not be reported as rejected", result.Rejected)
	}
}

func TestAddUniquePreservesExistingOrder(t *testing.T) {
	existing := []InputFile{
		mustClassify(t, "one.jpg"),
		mustClassify(t, "two.pdf"),
	}

	result := AddUnique(existing, []string{"three.webp"})

	want := []string{"one.jpg", "two.pdf", "three.webp"}
	var got []string
	for _, f := range result.Accepted {
		got = append(got, f.Path)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("accepted order = %v, want %v", got, want)
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a/b/c.png", "c.png"},
		{`C:\a\b\c.png`, "c.png"},
		{"plain.pdf", "plain.pdf"},
		{"mixed/style\\name.jpg", "name.jpg"},
	}

	for _, tt := range tests {
		if got := BaseName(tt.path); got != tt.want {
			t.Errorf("BaseName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	files := []string{"b.png", "a.jpg", "doc.pdf", "skip.txt", ".hidden.png"}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ScanDirectory(dir)
	if err != nil {
		t.Fatalf("ScanDirectory returned error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "doc.pdf"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ScanDirectory = %v, want %v", got, want)
	}
}

func TestScanDirectoryMissing(t *testing.T) {
	if _, err := ScanDirectory(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("ScanDirectory(missing) returned nil error")
	}
}

func TestEnrichMetadataIgnoresFailures(t *testing.T) {
	f := mustClassify(t, filepath.Join(t.TempDir(), "missing.jpg"))
	EnrichMetadata(&f)
	if f.Meta != nil {
		t.Errorf("Meta = %+v, want nil for unreadable file", f.Meta)
	}
}

func mustClassify(t *testing.T, path string) InputFile {
	t.Helper()
	f, err := Classify(path)
	if err != nil {
		t.Fatalf("Classify(%q) failed: %v", path, err)
	}
	return f
}
