package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/magfactor/logging"
)

const spatialDoc = `{
	"factor": {
		"pose_key": "x1",
		"measured": [0, -50000, 0],
		"scale": 50000,
		"direction": [1, 0, 0],
		"sigmas": [0.1]
	},
	"pose": {
		"translation": {"X": 1, "Y": 2, "Z": 3},
		"orientation": {"th": 1.5707963267948966, "x": 0, "y": 0, "z": 1}
	}
}`

const planarDoc = `{
	"planar": true,
	"factor": {
		"pose_key": "x7",
		"measured": [0, -10],
		"scale": 10,
		"direction": [3, 0],
		"bias": [0, 0],
		"sigmas": [0.5, 0.5],
		"body_P_sensor": {"x": 0.1, "y": 0, "theta": 0.2}
	},
	"pose": {"x": 4, "y": -7, "theta": 1.3707963267948966}
}`

func writeDoc(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factor.json")
	test.That(t, os.WriteFile(path, []byte(doc), 0o600), test.ShouldBeNil)
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"magfactor"}, args...))
	return out.String(), errOut.String(), err
}

func TestEvaluateAction(t *testing.T) {
	out, _, err := run(t, "evaluate", "--config", writeDoc(t, spatialDoc))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "MagPoseFactor")
	test.That(t, out, test.ShouldContainSubstring, "keys = { x1 }")
	test.That(t, out, test.ShouldContainSubstring, "error: ")
	lower := strings.ToLower(out)
	test.That(t, lower, test.ShouldContainSubstring, "residual")
	test.That(t, lower, test.ShouldContainSubstring, "whitened")
	test.That(t, lower, test.ShouldContainSubstring, "wz")
	test.That(t, lower, test.ShouldContainSubstring, "vz")
	test.That(t, out, test.ShouldContainSubstring, "whitened jacobian:")

	out, _, err = run(t, "--debug", "evaluate", "-c", writeDoc(t, planarDoc))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "keys = { x7 }")
	test.That(t, out, test.ShouldContainSubstring, "body_P_sensor: (0.1, 0, 0.2)")
	test.That(t, strings.ToLower(out), test.ShouldContainSubstring, "theta")
}

func TestCheckAction(t *testing.T) {
	for _, doc := range []string{spatialDoc, planarDoc} {
		out, _, err := run(t, "check", "--config", writeDoc(t, doc))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "analytic:")
		test.That(t, out, test.ShouldContainSubstring, "numeric:")
		test.That(t, out, test.ShouldContainSubstring, "Info: jacobian check passed")
	}

	_, _, err := run(t, "check", "--config", writeDoc(t, spatialDoc), "--tol", "-1")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "must not be negative")
}

func TestActionErrors(t *testing.T) {
	_, _, err := run(t, "evaluate")
	test.That(t, err, test.ShouldNotBeNil)

	_, _, err = run(t, "evaluate", "--config", filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "reading")

	invalid := strings.Replace(spatialDoc, `"sigmas": [0.1]`, `"sigmas": [0.1, 0.1]`, 1)
	_, _, err = run(t, "evaluate", "--config", writeDoc(t, invalid))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "sigmas must have 1 or 3 entries")

	// Planar vectors under a spatial document.
	mixed := strings.Replace(planarDoc, `"planar": true`, `"planar": false`, 1)
	_, _, err = run(t, "check", "--config", writeDoc(t, mixed))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid argument")
}

func TestMatrixTable(t *testing.T) {
	test.That(t, poseColumns(3), test.ShouldResemble, []string{"x", "y", "theta"})
	test.That(t, poseColumns(2), test.ShouldResemble, []string{"d0", "d1"})
	test.That(t, formatVector([]float64{1, -0.5}), test.ShouldEqual, "[1, -0.5]")
}

func TestDebugLogsGoToErrWriter(t *testing.T) {
	prev := logging.Global()
	defer logging.ReplaceGlobal(prev)

	out, errOut, err := run(t, "--debug", "evaluate", "--config", writeDoc(t, spatialDoc))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "loaded factor")
	test.That(t, errOut, test.ShouldContainSubstring, "linearized graph")
	test.That(t, out, test.ShouldNotContainSubstring, "loaded factor")
	test.That(t, out, test.ShouldNotContainSubstring, "linearized graph")

	// without --debug nothing is logged at debug level
	_, errOut, err = run(t, "evaluate", "--config", writeDoc(t, spatialDoc))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldNotContainSubstring, "loaded factor")
}
