package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/sonicmood/sonicmood/internal/shared"
	"github.com/sonicmood/sonicmood/internal/state"
	"github.com/sonicmood/sonicmood/internal/tasks"
	tu "github.com/sonicmood/sonicmood/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			input := &bytes.Buffer{}
			music := &tu.MockMusicService{}
			weather := &tu.MockWeatherService{}
			locator := &tu.MockLocator{}
			store := state.NewStore(nil, nil)
			engine := tasks.NewEngine(tasks.EngineOpts{Music: music, Weather: weather, Store: store})

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Music:   music,
				Weather: weather,
				Locator: locator,
				Store:   store,
				Engine:  engine,
				Logger:  logger,
				Output:  output,
				Input:   input,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.music != music {
				t.Error("expected music service to be set")
			}
			if runner.weather != weather {
				t.Error("expected weather service to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
			if runner.engine != engine {
				t.Error("expected engine to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil store uses memory store", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Store: nil})

			if runner.store == nil {
				t.Error("expected memory store to be set")
			}
		})

		t.Run("with nil engine builds one", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Music:   &tu.MockMusicService{},
				Weather: &tu.MockWeatherService{},
			})

			if runner.engine == nil {
				t.Error("expected engine to be built from opts")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlainln", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlainln("done %d", 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if output.String() != "\ndone 3\n" {
			t.Errorf("expected padded line, got %q", output.String())
		}
	})

	t.Run("writePlainHeader", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlainHeader("Playlist Saved!")

		result := output.String()
		if !strings.Contains(result, "Playlist Saved!") {
			t.Errorf("expected title in header, got %q", result)
		}
		if strings.Count(result, "═") == 0 {
			t.Error("expected header rule lines")
		}
	})

	t.Run("confirm", func(t *testing.T) {
		cases := []struct {
			name  string
			input string
			want  bool
		}{
			{"yes short", "y\n", true},
			{"yes long", "YES\n", true},
			{"no", "n\n", false},
			{"empty defaults to no", "\n", false},
			{"garbage", "sure\n", false},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				output := &bytes.Buffer{}
				runner := NewRunner(RunnerOpts{
					Output: output,
					Input:  strings.NewReader(tc.input),
				})

				if got := runner.confirm("Save playlist?"); got != tc.want {
					t.Errorf("confirm(%q) = %v, want %v", tc.input, got, tc.want)
				}

				if !strings.Contains(output.String(), "Save playlist? [y/N]: ") {
					t.Errorf("expected prompt in output, got %q", output.String())
				}
			})
		}

		t.Run("EOF defaults to no", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: &bytes.Buffer{},
				Input:  strings.NewReader(""),
			})

			if runner.confirm("Save playlist?") {
				t.Error("expected false on EOF")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 6 {
			t.Errorf("expected 6 commands, got %d", len(commands))
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}
