package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []Entry
		wantErr     bool
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "paths with options",
			fileContent: `cat.png = jpeg
dog.jpg = 200
bird.gif`,
			want: []Entry{
				{Path: "cat.png", Option: "jpeg"},
				{Path: "dog.jpg", Option: "200"},
				{Path: "bird.gif"},
			},
		},
		{
			name: "comments, blank lines and CRLF",
			fileContent: "# holiday pictures\r\n\r\n  beach.png  \r\n#skip.png\r\nsunset.png =  tiff \r\n",
			want: []Entry{
				{Path: "beach.png"},
				{Path: "sunset.png", Option: "tiff"},
			},
		},
		{
			name:        "option without path",
			fileContent: "a.png\n= jpeg\n",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.fileContent))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile(t *testing.T) {
	tmpDir := t.TempDir()
	batchFile := filepath.Join(tmpDir, "images.txt")
	abs := filepath.Join(tmpDir, "elsewhere", "abs.png")
	content := "rel.png = png\n" + abs + "\n"

	if err := os.WriteFile(batchFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create batch file: %v", err)
	}

	got, err := ReadBatchFile(batchFile)
	if err != nil {
		t.Fatalf("ReadBatchFile() error = %v", err)
	}

	want := []Entry{
		{Path: filepath.Join(tmpDir, "rel.png"), Option: "png"},
		{Path: abs},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadBatchFile() = %+v, want %+v", got, want)
	}
}

func TestReadBatchFileMissing(t *testing.T) {
	if _, err := ReadBatchFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("Expected error for missing batch file")
	}
}
