package formatter

import (
	"strings"
	"testing"

	"github.com/sonicmood/sonicmood/internal/models"
	th "github.com/sonicmood/sonicmood/internal/testing"
)

func sampleResult() *models.SyncResult {
	return &models.SyncResult{
		ID: "result123",
		Weather: models.WeatherSnapshot{
			Temperature: 12.5,
			Condition:   "Rain",
			City:        "Seattle",
			Country:     "US",
			IsDay:       false,
		},
		Tracks: []models.Track{
			{
				ID:      "track1",
				Name:    "Song One",
				Artists: []models.Artist{{Name: "Artist One"}},
				Album:   models.Album{Images: []models.Image{{URL: "https://i.example/cover1"}}},
				URI:     "spotify:track:track1",
			},
			{
				ID:      "track2",
				Name:    "Song Two",
				Artists: []models.Artist{{Name: "Artist Two"}},
				URI:     "spotify:track:track2",
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleResult())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Position,ID,Name,Artist,URI") {
			t.Errorf("CSV missing headers, got: %s", output)
		}

		if !strings.Contains(output, "1,track1,Song One,Artist One,spotify:track:track1") {
			t.Errorf("CSV missing track1 record, got: %s", output)
		}
		if !strings.Contains(output, "2,track2,Song Two,Artist Two,spotify:track:track2") {
			t.Errorf("CSV missing track2 record")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleResult(), "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)

			if !strings.Contains(output, "# SonicMood - Seattle Rain") {
				t.Errorf("Markdown missing title, got: %s", output)
			}
			if !strings.Contains(output, "**Weather**: Rain, 12.5°C in Seattle, US (night)") {
				t.Errorf("Markdown missing weather line")
			}
			if !strings.Contains(output, "**Tracks**: 2") {
				t.Errorf("Markdown missing track count")
			}
			if !strings.Contains(output, "## Tracks") {
				t.Errorf("Markdown missing tracks section")
			}
			if !strings.Contains(output, "1. Artist One - Song One") {
				t.Errorf("Markdown missing track1, got: %s", output)
			}
			if strings.Contains(output, "![Cover]") {
				t.Errorf("unexpected cover reference without image")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleResult(), "cover.jpg")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			if !strings.Contains(string(data), "![Cover](cover.jpg)") {
				t.Errorf("Markdown missing cover image reference")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleResult())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Weather: Rain, 12.5°C in Seattle, US (night)") {
			t.Errorf("Text missing weather line, got: %s", output)
		}
		if !strings.Contains(output, "Tracks: 2") {
			t.Errorf("Text missing track count")
		}
		if !strings.Contains(output, "1. Artist One - Song One") {
			t.Errorf("Text missing track1")
		}
		if !strings.Contains(output, "2. Artist Two - Song Two") {
			t.Errorf("Text missing track2")
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(sampleResult().Weather)
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, `"city"`) || !strings.Contains(output, `"Seattle"`) {
			t.Errorf("JSON missing city field, got: %s", output)
		}
		if !strings.Contains(output, `"condition"`) || !strings.Contains(output, `"Rain"`) {
			t.Errorf("JSON missing condition field")
		}
	})
}

func TestLines(t *testing.T) {
	t.Run("SnapshotLine", func(t *testing.T) {
		snapshot := models.WeatherSnapshot{
			Temperature: 21.3,
			Condition:   "Clear",
			City:        "Lisbon",
			Country:     "PT",
			IsDay:       true,
		}

		if got := SnapshotLine(&snapshot); got != "Clear, 21.3°C in Lisbon, PT (day)" {
			t.Errorf("unexpected snapshot line: %s", got)
		}

		snapshot.Country = ""
		snapshot.IsDay = false
		if got := SnapshotLine(&snapshot); got != "Clear, 21.3°C in Lisbon (night)" {
			t.Errorf("unexpected snapshot line without country: %s", got)
		}
	})

	t.Run("TrackLine", func(t *testing.T) {
		track := models.Track{
			Name:    "Song One",
			Artists: []models.Artist{{Name: "Artist One"}},
		}

		if got := TrackLine(&track); got != "Artist One - Song One" {
			t.Errorf("unexpected track line: %s", got)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		_, err := DownloadImage("")
		if err == nil {
			t.Error("DownloadImage with empty URL should return error")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			result, err := WriteCSVExport(sampleResult(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.TracksFile != "result123_tracks.csv" {
				t.Errorf("Expected tracks file 'result123_tracks.csv', got '%s'", result.TracksFile)
			}
			if result.MetadataFile != "result123_weather.json" {
				t.Errorf("Expected metadata file 'result123_weather.json', got '%s'", result.MetadataFile)
			}

			th.AssertFileExists(t, result.TracksFile)
			th.AssertFileExists(t, result.MetadataFile)

			csvContent := th.MustReadFile(t, result.TracksFile)
			if !strings.Contains(csvContent, "Position,ID,Name,Artist,URI") {
				t.Errorf("CSV missing headers")
			}
			if !strings.Contains(csvContent, "track1") || !strings.Contains(csvContent, "Song One") {
				t.Errorf("CSV missing track data")
			}

			metadataContent := th.MustReadFile(t, result.MetadataFile)
			if !strings.Contains(metadataContent, "Seattle") || !strings.Contains(metadataContent, "Rain") {
				t.Errorf("Weather JSON missing expected fields")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			result, err := WriteCSVExport(sampleResult(), "custom_export")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.TracksFile != "custom_export_tracks.csv" {
				t.Errorf("Expected 'custom_export_tracks.csv', got '%s'", result.TracksFile)
			}
			if result.MetadataFile != "custom_export_weather.json" {
				t.Errorf("Expected 'custom_export_weather.json', got '%s'", result.MetadataFile)
			}
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		// drop cover URLs so no download is attempted
		result := sampleResult()
		result.Tracks[0].Album = models.Album{}

		t.Run("WithDefaultDirectory", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			out, err := WriteMarkdownExport(result, "")
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			if out.Directory != "result123" {
				t.Errorf("Expected directory 'result123', got '%s'", out.Directory)
			}
			th.AssertDirExists(t, out.Directory)

			readmePath := out.Directory + "/README.md"
			th.AssertFileExists(t, readmePath)

			content := th.MustReadFile(t, readmePath)
			if !strings.Contains(content, "# SonicMood - Seattle Rain") {
				t.Errorf("Markdown missing title")
			}
			if !strings.Contains(content, "1. Artist One - Song One") {
				t.Errorf("Markdown missing track listing")
			}

			if out.CoverImage != "" {
				t.Errorf("Expected no cover image, got '%s'", out.CoverImage)
			}
		})

		t.Run("WithCustomDirectory", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			out, err := WriteMarkdownExport(result, "custom_dir")
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			if out.Directory != "custom_dir" {
				t.Errorf("Expected directory 'custom_dir', got '%s'", out.Directory)
			}
			th.AssertFileExists(t, out.Directory+"/README.md")
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			filepath, err := WriteTextExport(sampleResult(), "")
			if err != nil {
				t.Fatalf("WriteTextExport failed: %v", err)
			}

			if filepath != "result123_tracks.txt" {
				t.Errorf("Expected 'result123_tracks.txt', got '%s'", filepath)
			}

			th.AssertFileExists(t, filepath)

			content := th.MustReadFile(t, filepath)
			if !strings.Contains(content, "Weather: Rain, 12.5°C in Seattle, US (night)") {
				t.Errorf("Text missing weather line")
			}
			if !strings.Contains(content, "1. Artist One - Song One") {
				t.Errorf("Text missing track listing")
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			tempDir := t.TempDir()
			originalDir := th.MustGetwd(t)
			th.MustChdir(t, tempDir)
			defer th.MustChdir(t, originalDir)

			filepath, err := WriteTextExport(sampleResult(), "my_tracks.txt")
			if err != nil {
				t.Fatalf("WriteTextExport failed: %v", err)
			}

			if filepath != "my_tracks.txt" {
				t.Errorf("Expected 'my_tracks.txt', got '%s'", filepath)
			}

			th.AssertFileExists(t, filepath)
		})
	})
}
