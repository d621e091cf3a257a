package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peaceding/recordium/internal/models"
)

func testExport() *BoxExport {
	box := models.NewBox(1, "space1", "Jazz Classics")
	box.SetID("box1")

	pop := 85
	first := models.NewAlbum(1, "user1", models.AlbumMetadata{
		Name:        "Kind of Blue",
		Artists:     []string{"Miles Davis"},
		ReleaseDate: "1959-08-17",
		AlbumType:   "album",
		TotalTracks: 5,
		Popularity:  &pop,
		Source:      "spotify",
		SourceID:    "src1",
	})
	first.SetID("album1")

	second := models.NewAlbum(2, "user1", models.AlbumMetadata{
		Name:     "Nameless Session",
		Source:   "spotify",
		SourceID: "src2",
	})
	second.SetID("album2")

	return &BoxExport{
		Box:    box,
		Albums: []*models.Album{first, second},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Name,Artists,Release Date,Type,Tracks,Popularity,Source,Source ID") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "album1") {
			t.Error("CSV missing album ID")
		}
		if !strings.Contains(output, "Kind of Blue") {
			t.Error("CSV missing album name")
		}
		if !strings.Contains(output, "Miles Davis") {
			t.Error("CSV missing artist")
		}
		if !strings.Contains(output, "85") {
			t.Error("CSV missing popularity")
		}

		// empty popularity stays an empty column
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testExport(), "")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "# Jazz Classics") {
			t.Error("markdown missing box heading")
		}
		if !strings.Contains(output, "**Albums**: 2") {
			t.Error("markdown missing album count")
		}
		if !strings.Contains(output, "1. Miles Davis - Kind of Blue (1959-08-17) [5 tracks]") {
			t.Errorf("markdown missing album line, got: %s", output)
		}
		// albums with no artist fall back to the placeholder
		if !strings.Contains(output, "未知艺术家 - Nameless Session") {
			t.Errorf("markdown missing placeholder artist, got: %s", output)
		}
		if strings.Contains(output, "![Cover]") {
			t.Error("markdown should omit cover without an image")
		}
	})

	t.Run("ExportToMarkdownWithCover", func(t *testing.T) {
		data, err := ExportToMarkdown(testExport(), "cover.jpg")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if !strings.Contains(string(data), "![Cover](cover.jpg)") {
			t.Error("markdown missing cover reference")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Box: Jazz Classics") {
			t.Error("text missing box name")
		}
		if !strings.Contains(output, "1. Miles Davis - Kind of Blue") {
			t.Error("text missing album line")
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(testExport())
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		var meta map[string]any
		if err := json.Unmarshal(data, &meta); err != nil {
			t.Fatalf("metadata is not valid JSON: %v", err)
		}
		if meta["name"] != "Jazz Classics" {
			t.Errorf("unexpected name: %v", meta["name"])
		}
		if meta["album_count"] != float64(2) {
			t.Errorf("unexpected album count: %v", meta["album_count"])
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "jazz")

		result, err := WriteCSVExport(testExport(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		if result.AlbumsFile != base+"_albums.csv" {
			t.Errorf("unexpected albums file: %s", result.AlbumsFile)
		}
		for _, f := range []string{result.AlbumsFile, result.MetadataFile} {
			if _, err := os.Stat(f); err != nil {
				t.Errorf("expected file %s: %v", f, err)
			}
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "jazz")

		result, err := WriteMarkdownExport(testExport(), dir, "")
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		readme := filepath.Join(dir, "README.md")
		if len(result.Files) != 1 || result.Files[0] != readme {
			t.Errorf("unexpected files: %v", result.Files)
		}

		data, err := os.ReadFile(readme)
		if err != nil {
			t.Fatalf("failed to read README: %v", err)
		}
		if !strings.Contains(string(data), "# Jazz Classics") {
			t.Error("README missing heading")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jazz.txt")

		written, err := WriteTextExport(testExport(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if written != path {
			t.Errorf("unexpected path: %s", written)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected text file: %v", err)
		}
	})
}
