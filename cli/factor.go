package cli

import (
	"math"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/magfactor/factor"
	"go.viam.com/magfactor/logging"
	"go.viam.com/magfactor/magfactor"
	"go.viam.com/magfactor/spatialmath"
)

// Document is the file read by the evaluate and check commands: a factor and the pose to
// evaluate it at.
type Document[P any] struct {
	Planar bool                `json:"planar"`
	Factor magfactor.Config[P] `json:"factor"`
	Pose   P                   `json:"pose"`
}

type documentHeader struct {
	Planar bool `json:"planar"`
}

// loadDocument reads the factor document at path and builds its factor.
func loadDocument[P spatialmath.RigidPose[P, R], R spatialmath.Rotation[R]](
	path string,
	logger logging.Logger,
) (*magfactor.MagPoseFactor[P, R], P, error) {
	var doc Document[P]
	if err := magfactor.ReadJSONFile(path, &doc); err != nil {
		return nil, doc.Pose, err
	}
	f, err := magfactor.NewFromConfig[P, R](&doc.Factor)
	if err != nil {
		return nil, doc.Pose, errors.Wrapf(err, "building factor from %s", path)
	}
	logger.Debugw("loaded factor", "path", path, "planar", doc.Planar, "pose_key", doc.Factor.PoseKey)
	return f, doc.Pose, nil
}

func isPlanar(path string) (bool, error) {
	var header documentHeader
	if err := magfactor.ReadJSONFile(path, &header); err != nil {
		return false, err
	}
	return header.Planar, nil
}

// EvaluateAction is the corresponding action for 'evaluate'.
func EvaluateAction(c *cli.Context, logger logging.Logger) error {
	path := c.String(flagConfig)
	planar, err := isPlanar(path)
	if err != nil {
		return err
	}
	if planar {
		return evaluate[spatialmath.Pose2, spatialmath.Rot2](c, path, logger)
	}
	return evaluate[spatialmath.Pose3, spatialmath.Rot3](c, path, logger)
}

func evaluate[P spatialmath.RigidPose[P, R], R spatialmath.Rotation[R]](
	c *cli.Context,
	path string,
	logger logging.Logger,
) error {
	f, pose, err := loadDocument[P, R](path, logger)
	if err != nil {
		return err
	}
	residual, _, err := f.EvaluateError(pose, false)
	if err != nil {
		return errors.Wrap(err, "evaluating factor")
	}
	values := factor.NewValues()
	if err := values.Insert(f.PoseKey(), pose); err != nil {
		return err
	}
	// nil logs through the global logger installed by the app
	linear, err := factor.Graph{f}.Linearize(c.Context, values, nil)
	if err != nil {
		return err
	}
	jf := linear[0]
	whitened := mat.NewVecDense(jf.B.Len(), nil)
	whitened.ScaleVec(-1, jf.B)

	w := c.App.Writer
	printf(w, "%s", f.String())
	printf(w, "pose: %v", pose)
	printf(w, "%s", vectorTable([]string{"residual", "whitened"}, residual, whitened))
	printf(w, "error: %g", 0.5*mat.Dot(jf.B, jf.B))
	printf(w, "whitened jacobian:\n%s", matrixTable(poseColumns(pose.Dim()), jf.A[0]))
	return nil
}

// CheckAction is the corresponding action for 'check'.
func CheckAction(c *cli.Context, logger logging.Logger) error {
	path := c.String(flagConfig)
	planar, err := isPlanar(path)
	if err != nil {
		return err
	}
	if planar {
		return check[spatialmath.Pose2, spatialmath.Rot2](c, path, logger)
	}
	return check[spatialmath.Pose3, spatialmath.Rot3](c, path, logger)
}

func check[P spatialmath.RigidPose[P, R], R spatialmath.Rotation[R]](
	c *cli.Context,
	path string,
	logger logging.Logger,
) error {
	step, tol := c.Float64(flagStep), c.Float64(flagTol)
	if step < 0 || tol < 0 {
		return errors.Errorf("step and tol must not be negative, got %g and %g", step, tol)
	}
	f, pose, err := loadDocument[P, R](path, logger)
	if err != nil {
		return err
	}
	result, err := magfactor.CheckJacobian(f, pose, step)
	if err != nil {
		return errors.Wrap(err, "checking jacobian")
	}

	field := floats.Norm(f.NM(), 2)
	if field == 0 {
		warningf(c.App.ErrWriter, "field %s is zero, the Jacobian is identically zero", formatVector(f.NM()))
	}
	threshold := tol * math.Max(1, field)
	logger.Debugw("checked jacobian", "max_abs_diff", result.MaxAbsDiff, "threshold", threshold)

	w := c.App.Writer
	columns := poseColumns(pose.Dim())
	printf(w, "analytic:\n%s", matrixTable(columns, result.Analytic))
	printf(w, "numeric:\n%s", matrixTable(columns, result.Numeric))
	if result.MaxAbsDiff > threshold {
		return errors.Errorf("jacobian check failed: max abs diff %g exceeds %g", result.MaxAbsDiff, threshold)
	}
	infof(w, "jacobian check passed: max abs diff %g within %g", result.MaxAbsDiff, threshold)
	return nil
}
