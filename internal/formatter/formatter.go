// package formatter provides functions to export a box's albums to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/peaceding/recordium/internal/models"
	"github.com/peaceding/recordium/internal/shared"
)

// BoxExport bundles a box with its member albums for export.
type BoxExport struct {
	Box    *models.Box
	Albums []*models.Album
}

// boxMetadata is the JSON shape written alongside CSV exports.
type boxMetadata struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SpaceID    string `json:"space_id"`
	AlbumCount int    `json:"album_count"`
	CreatedAt  string `json:"created_at"`
}

// ExportToCSV converts a BoxExport to CSV format with columns: ID, Name, Artists, Release Date, Type, Tracks, Popularity, Source, Source ID
func ExportToCSV(export *BoxExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artists", "Release Date", "Type", "Tracks", "Popularity", "Source", "Source ID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, album := range export.Albums {
		popularity := ""
		if p := album.Popularity(); p != nil {
			popularity = strconv.Itoa(*p)
		}

		record := []string{
			album.ID(),
			album.Name(),
			album.ArtistsString(),
			album.ReleaseDate(),
			album.AlbumType(),
			strconv.Itoa(album.TotalTracks()),
			popularity,
			album.Source(),
			album.SourceID(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a BoxExport to Markdown format with optional cover image
func ExportToMarkdown(export *BoxExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Box.Name()))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Albums**: %d\n\n", len(export.Albums)))

	buf.WriteString("## Albums\n\n")
	for i, album := range export.Albums {
		releasePart := ""
		if album.ReleaseDate() != "" {
			releasePart = fmt.Sprintf(" (%s)", album.ReleaseDate())
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%d tracks]\n",
			i+1, album.PrimaryArtist(), album.Name(), releasePart, album.TotalTracks()))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a BoxExport to plain text format
func ExportToText(export *BoxExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Box: %s\n", export.Box.Name()))
	buf.WriteString(fmt.Sprintf("Albums: %d\n\n", len(export.Albums)))

	for i, album := range export.Albums {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, album.PrimaryArtist(), album.Name()))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of box metadata (without albums)
func ToMetadataJSON(export *BoxExport) ([]byte, error) {
	return shared.MarshalJSON(boxMetadata{
		ID:         export.Box.ID(),
		Name:       export.Box.Name(),
		SpaceID:    export.Box.SpaceID(),
		AlbumCount: len(export.Albums),
		CreatedAt:  export.Box.CreatedAt().Format(time.RFC3339),
	}, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	AlbumsFile   string
	MetadataFile string
}

// WriteCSVExport exports a box to CSV format with accompanying metadata JSON file.
//
// Defaults to box ID as the base filename & creates {base}_albums.csv and {base}_metadata.json
func WriteCSVExport(export *BoxExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Box.ID()
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	albumsFile := baseFilepath + "_albums.csv"
	if err := os.WriteFile(albumsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		AlbumsFile:   albumsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a box to Markdown format in a dedicated directory.
//
// Directory name defaults to the box ID.
// The imageURL parameter is optional - if provided, attempts to download a cover image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(export *BoxExport, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Box.ID()
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := fmt.Sprintf("%s/%s", outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a box to plain text format.
//
// Defaults to {box.ID}_albums.txt as the filename.
func WriteTextExport(export *BoxExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_albums.txt", export.Box.ID())
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
