package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bridgegad/bridgegad/pkg/errors"
	"github.com/bridgegad/bridgegad/pkg/layout"
	"github.com/bridgegad/bridgegad/pkg/pipeline"
)

func artifacts(formats ...string) map[string][]byte {
	m := make(map[string][]byte, len(formats))
	for _, f := range formats {
		m[f] = []byte(f)
	}
	return m
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"defaults", "", "", defaultBase},
		{"next to input", "", filepath.Join("jobs", "ring_road.xlsx"), filepath.Join("jobs", "ring_road")},
		{"directory output", "out" + string(filepath.Separator), "bridge.toml", filepath.Join("out", "bridge")},
		{"directory without input", "out" + string(filepath.Separator), "", filepath.Join("out", defaultBase)},
		{"format extension dropped", "drawing.pdf", "", "drawing"},
		{"other extension kept", "drawing.v2", "", "drawing.v2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		input     string
		artifacts map[string][]byte
		want      map[string]string
	}{
		{
			name:      "single format exact path",
			output:    "sheet.dxf",
			artifacts: artifacts("dxf"),
			want:      map[string]string{"dxf": "sheet.dxf"},
		},
		{
			name:      "single format mismatched extension",
			output:    "sheet.pdf",
			artifacts: artifacts("dxf"),
			want:      map[string]string{"dxf": "sheet.dxf"},
		},
		{
			name:      "multiple formats share a stem",
			output:    "sheet",
			artifacts: artifacts("dxf", "pdf"),
			want:      map[string]string{"dxf": "sheet.dxf", "pdf": "sheet.pdf"},
		},
		{
			name:      "derived from input",
			input:     "bridge.xlsx",
			artifacts: artifacts("svg"),
			want:      map[string]string{"svg": "bridge.svg"},
		},
		{
			name:      "json drawing beside json parameters",
			input:     filepath.Join("examples", "skewed.json"),
			artifacts: artifacts("json", "dxf"),
			want: map[string]string{
				"json": filepath.Join("examples", "skewed.drawing.json"),
				"dxf":  filepath.Join("examples", "skewed.dxf"),
			},
		},
		{
			name:      "directory output onto the input",
			output:    "examples" + string(filepath.Separator),
			input:     filepath.Join("examples", "skewed.json"),
			artifacts: artifacts("json"),
			want:      map[string]string{"json": filepath.Join("examples", "skewed.drawing.json")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPaths(tt.output, tt.input, tt.artifacts)
			if err != nil {
				t.Fatalf("outputPaths() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutputPathsRefusesInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bridge.json")
	if err := os.WriteFile(input, []byte(`{"NSPAN": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, output := range []string{input, filepath.Join(dir, ".", "bridge.json")} {
		_, err := outputPaths(output, input, artifacts("json"))
		if !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("outputPaths(%q) error = %v, want %s", output, err, errors.ErrCodeInvalidPath)
		}
	}

	data, err := os.ReadFile(input)
	if err != nil || string(data) != `{"NSPAN": 3}` {
		t.Errorf("parameter file changed: %q, %v", data, err)
	}
}

func TestBuildPipelineOptions(t *testing.T) {
	c := New(&syncBuffer{}, LogInfo)
	c.config.Drawing.Project = "From Config"
	c.config.Drawing.Scale = "1:200"

	t.Run("config only", func(t *testing.T) {
		var opts generateOpts
		cmd := c.generateCommand()
		got, err := c.buildPipelineOptions(cmd, &opts)
		if err != nil {
			t.Fatal(err)
		}
		if got.Layout.Project != "From Config" || got.Layout.Scale != "1:200" {
			t.Errorf("layout = %+v, want config values", got.Layout)
		}
		if !reflect.DeepEqual(got.Formats, []string{pipeline.FormatDXF}) {
			t.Errorf("Formats = %v, want [dxf]", got.Formats)
		}
	})

	t.Run("flags override config", func(t *testing.T) {
		var opts generateOpts
		cmd := c.generateCommand()
		if err := cmd.ParseFlags([]string{"-f", "PDF,svg", "--project", "Ring Road", "--no-plan", "--schedule"}); err != nil {
			t.Fatal(err)
		}
		// generateCommand binds to its own opts; re-read the parsed values.
		opts.formats, _ = cmd.Flags().GetString("format")
		opts.project, _ = cmd.Flags().GetString("project")
		opts.noPlan, _ = cmd.Flags().GetBool("no-plan")
		opts.schedule, _ = cmd.Flags().GetBool("schedule")

		got, err := c.buildPipelineOptions(cmd, &opts)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got.Formats, []string{"pdf", "svg"}) {
			t.Errorf("Formats = %v, want [pdf svg]", got.Formats)
		}
		if got.Layout.Project != "Ring Road" {
			t.Errorf("Project = %q, want flag value", got.Layout.Project)
		}
		if got.Layout.Scale != "1:200" {
			t.Errorf("Scale = %q, want config value kept", got.Layout.Scale)
		}
		if !got.Layout.NoPlan || !got.Schedule {
			t.Error("boolean flags not applied")
		}
	})

	t.Run("bad format", func(t *testing.T) {
		var opts generateOpts
		cmd := c.generateCommand()
		if err := cmd.ParseFlags([]string{"-f", "png"}); err != nil {
			t.Fatal(err)
		}
		opts.formats = "png"
		if _, err := c.buildPipelineOptions(cmd, &opts); err == nil {
			t.Error("expected an error for png")
		}
	})
}

func TestDefaultScaleFromConfig(t *testing.T) {
	c := New(&syncBuffer{}, LogInfo)
	var opts generateOpts
	got, err := c.buildPipelineOptions(c.generateCommand(), &opts)
	if err != nil {
		t.Fatal(err)
	}
	got.Layout.SetDefaults()
	if got.Layout.Scale != layout.DefaultScale {
		t.Errorf("Scale = %q, want %q", got.Layout.Scale, layout.DefaultScale)
	}
}
