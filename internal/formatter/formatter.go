// package formatter exports a sync result to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sonicmood/sonicmood/internal/models"
	"github.com/sonicmood/sonicmood/internal/shared"
)

// ExportToCSV converts a SyncResult's tracks to CSV format with columns: Position, ID, Name, Artist, URI
func ExportToCSV(result *models.SyncResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Name", "Artist", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, track := range result.Tracks {
		record := []string{
			fmt.Sprintf("%d", i+1),
			track.ID,
			track.Name,
			track.PrimaryArtist(),
			track.URI,
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

// ExportToMarkdown converts a SyncResult to Markdown format with optional cover image
func ExportToMarkdown(result *models.SyncResult, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# SonicMood - %s %s\n\n", result.Weather.City, result.Weather.Condition))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Weather**: %s\n", SnapshotLine(&result.Weather)))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(result.Tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range result.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, TrackLine(&track)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a SyncResult to plain text format
func ExportToText(result *models.SyncResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Weather: %s\n", SnapshotLine(&result.Weather)))
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(result.Tracks)))

	for i, track := range result.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.PrimaryArtist(), track.Name))
	}

	return buf.Bytes(), nil
}

// SnapshotLine renders a weather snapshot as a single human-readable line,
// e.g. "Rain, 12.5°C in Seattle, US (night)".
func SnapshotLine(snapshot *models.WeatherSnapshot) string {
	daypart := "day"
	if !snapshot.IsDay {
		daypart = "night"
	}

	place := snapshot.City
	if snapshot.Country != "" {
		place = fmt.Sprintf("%s, %s", snapshot.City, snapshot.Country)
	}

	return fmt.Sprintf("%s, %.1f°C in %s (%s)", snapshot.Condition, snapshot.Temperature, place, daypart)
}

// TrackLine renders a track as "Artist - Name".
func TrackLine(track *models.Track) string {
	return strings.TrimSpace(fmt.Sprintf("%s - %s", track.PrimaryArtist(), track.Name))
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

// ToMetadataJSON generates a JSON representation of the weather snapshot
func ToMetadataJSON(snapshot models.WeatherSnapshot) ([]byte, error) {
	return shared.MarshalJSON(snapshot, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a sync result to CSV format with an accompanying metadata JSON file.
//
// Defaults to the result ID as the base filename & creates {base}_tracks.csv and {base}_weather.json
func WriteCSVExport(result *models.SyncResult, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = result.ID
	}

	csvData, err := ExportToCSV(result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(result.Weather)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_weather.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a sync result to Markdown format in a dedicated directory.
//
// Directory name defaults to the result ID. When the first track carries an
// album cover URL, the cover is downloaded into the directory best-effort.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(result *models.SyncResult, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = result.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	out := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL := coverURL(result); imageURL != "" {
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
				out.CoverImage = coverImagePath
				out.Files = append(out.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(result, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	out.Files = append(out.Files, mdFile)

	return out, nil
}

// WriteTextExport exports a sync result to plain text format.
//
// Defaults to {result.ID}_tracks.txt as the filename.
func WriteTextExport(result *models.SyncResult, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_tracks.txt", result.ID)
	}

	textData, err := ExportToText(result)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

func coverURL(result *models.SyncResult) string {
	for _, t := range result.Tracks {
		if u := t.CoverURL(); u != "" {
			return u
		}
	}
	return ""
}
