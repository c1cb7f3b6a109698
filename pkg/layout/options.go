package layout

import (
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/bridgegad/bridgegad/pkg/errors"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultScale is the sheet scale printed in the title block.
	DefaultScale = "1:100"

	// DefaultTitle is the drawing title used when none is given.
	DefaultTitle = "BRIDGE GENERAL ARRANGEMENT"

	// DefaultProject is the project name used when none is given.
	DefaultProject = "Bridge Project"

	// DefaultGridStep is the level interval of grid lines, in metres.
	DefaultGridStep = 5.0

	// MinGridStep is the finest grid interval accepted, in metres.
	MinGridStep = 0.5

	// MaxGridLevels caps the number of level lines; a finer step over a
	// tall section is widened to a whole multiple of itself.
	MaxGridLevels = 200

	// ClearanceRatio bounds the half width of any element centred on a
	// support, and the reach of abutment footing toes, as a fraction of the
	// span length. Two neighbours therefore keep at least
	// (1 - 2*ClearanceRatio) * span between them.
	ClearanceRatio = 0.45
)

// =============================================================================
// Options
// =============================================================================

// Options controls what the generator draws and the title block text.
// The zero value draws everything except the grid.
type Options struct {
	Scale      string    `json:"scale,omitempty" toml:"scale"`
	Project    string    `json:"project,omitempty" toml:"project"`
	Title      string    `json:"title,omitempty" toml:"title"`
	PreparedBy string    `json:"prepared_by,omitempty" toml:"prepared_by"`
	Time       time.Time `json:"time,omitempty" toml:"-"`   // Title block date; defaults to now
	Number     string    `json:"number,omitempty" toml:"-"` // Drawing number; derived from the parameters when empty

	NoDimensions  bool    `json:"no_dimensions,omitempty" toml:"no_dimensions"`
	NoAnnotations bool    `json:"no_annotations,omitempty" toml:"no_annotations"`
	NoTitleBlock  bool    `json:"no_title_block,omitempty" toml:"no_title_block"`
	NoPlan        bool    `json:"no_plan,omitempty" toml:"no_plan"`
	Grid          bool    `json:"grid,omitempty" toml:"grid"`
	GridStep      float64 `json:"grid_step,omitempty" toml:"grid_step"`

	// Runtime options (not serialized)
	ID     string      `json:"-" toml:"-"` // Document ID; a random UUID when empty
	Logger *log.Logger `json:"-" toml:"-"`
}

// SetDefaults fills empty fields.
func (o *Options) SetDefaults() {
	if o.Scale == "" {
		o.Scale = DefaultScale
	}
	if o.Project == "" {
		o.Project = DefaultProject
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Time.IsZero() {
		o.Time = time.Now()
	}
	if o.GridStep == 0 {
		o.GridStep = DefaultGridStep
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks the free-text and scale fields.
func (o *Options) Validate() error {
	o.SetDefaults()
	if _, err := ParseScale(o.Scale); err != nil {
		return err
	}
	if math.IsNaN(o.GridStep) || math.IsInf(o.GridStep, 0) || o.GridStep < MinGridStep {
		return errors.New(errors.ErrCodeInvalidInput, "grid step must be a finite length of at least %v m, got %v", MinGridStep, o.GridStep)
	}
	for _, f := range []struct{ name, value string }{
		{"project", o.Project},
		{"title", o.Title},
		{"prepared_by", o.PreparedBy},
		{"number", o.Number},
	} {
		if err := errors.ValidateLabel(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// ParseScale parses a sheet scale of the form "1:N" and returns N.
func ParseScale(s string) (int, error) {
	left, right, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || strings.TrimSpace(left) != "1" {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q (want 1:N)", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil || n <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q (want 1:N)", s)
	}
	return n, nil
}
