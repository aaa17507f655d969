package magfactor

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/magfactor/factor"
	"go.viam.com/magfactor/spatialmath"
)

// Config describes one magnetometer factor.
type Config[P any] struct {
	PoseKey   string    `json:"pose_key"`
	Measured  []float64 `json:"measured"`
	Scale     float64   `json:"scale"`
	Direction []float64 `json:"direction"`
	// Bias defaults to zero.
	Bias []float64 `json:"bias,omitempty"`
	// Sigmas holds either one sigma per measurement component or a single isotropic sigma.
	Sigmas      []float64 `json:"sigmas"`
	BodyPSensor *P        `json:"body_P_sensor,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config[P]) Validate(path string) error {
	var errs error
	if cfg.PoseKey == "" {
		errs = multierr.Append(errs, newFieldRequiredError(path, "pose_key"))
	} else if _, err := factor.ParseSymbol(cfg.PoseKey); err != nil {
		errs = multierr.Append(errs, errors.Wrapf(err, "%s: pose_key", path))
	}
	if len(cfg.Measured) == 0 {
		errs = multierr.Append(errs, newFieldRequiredError(path, "measured"))
	}
	if len(cfg.Direction) == 0 {
		errs = multierr.Append(errs, newFieldRequiredError(path, "direction"))
	}
	if cfg.Scale == 0 {
		errs = multierr.Append(errs, newFieldRequiredError(path, "scale"))
	}
	if len(cfg.Sigmas) == 0 {
		errs = multierr.Append(errs, newFieldRequiredError(path, "sigmas"))
	} else if len(cfg.Sigmas) != 1 && len(cfg.Sigmas) != len(cfg.Measured) {
		errs = multierr.Append(errs, errors.Errorf("%s: sigmas must have 1 or %d entries, got %d",
			path, len(cfg.Measured), len(cfg.Sigmas)))
	}
	return errs
}

func newFieldRequiredError(path, field string) error {
	return errors.Errorf("%s: %q is required", path, field)
}

// NoiseModel builds the diagonal noise model described by Sigmas.
func (cfg *Config[P]) NoiseModel() (*factor.Diagonal, error) {
	if len(cfg.Sigmas) == 1 {
		return factor.NewIsotropic(len(cfg.Measured), cfg.Sigmas[0])
	}
	return factor.NewDiagonalSigmas(cfg.Sigmas...)
}

// NewFromConfig validates cfg and builds the factor it describes.
func NewFromConfig[P spatialmath.RigidPose[P, R], R spatialmath.Rotation[R]](cfg *Config[P]) (*MagPoseFactor[P, R], error) {
	if err := cfg.Validate("magfactor"); err != nil {
		return nil, multierr.Append(factor.ErrInvalidArgument, err)
	}
	key, err := factor.ParseSymbol(cfg.PoseKey)
	if err != nil {
		return nil, err
	}
	model, err := cfg.NoiseModel()
	if err != nil {
		return nil, err
	}
	bias := cfg.Bias
	if bias == nil {
		bias = make([]float64, len(cfg.Measured))
	}
	return New[P, R](key, cfg.Measured, cfg.Scale, cfg.Direction, bias, model, cfg.BodyPSensor)
}

// ReadJSONFile decodes the JSON document at path into v.
func ReadJSONFile(path string, v interface{}) error {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}
