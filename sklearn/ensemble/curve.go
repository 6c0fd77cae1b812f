package ensemble

import (
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

const (
	curveWidth  = 6 * vg.Inch
	curveHeight = 4 * vg.Inch
)

// learningCurvePlot draws the weighted error, ensemble error and vote weight
// of every round.
func (e *ensemble) learningCurvePlot() (*plot.Plot, error) {
	if len(e.curve) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "learning curve")
	}

	weighted := make(plotter.XYs, len(e.curve))
	training := make(plotter.XYs, len(e.curve))
	alphas := make(plotter.XYs, len(e.curve))
	for i, info := range e.curve {
		x := float64(info.Round + 1)
		weighted[i] = plotter.XY{X: x, Y: info.Error}
		training[i] = plotter.XY{X: x, Y: info.EnsembleError}
		alphas[i] = plotter.XY{X: x, Y: info.Alpha}
	}

	p := plot.New()
	p.Title.Text = "AdaBoost learning curve"
	p.X.Label.Text = "round"
	p.Y.Label.Text = "value"
	p.Add(plotter.NewGrid())

	if err := plotutil.AddLinePoints(p,
		"weighted error", weighted,
		"ensemble error", training,
		"alpha", alphas,
	); err != nil {
		return nil, errors.Wrap(err, "add learning curve lines")
	}
	return p, nil
}

// WriteLearningCurve renders the learning curve to w. format is an image
// format understood by gonum/plot such as "png", "svg" or "pdf".
func (e *ensemble) WriteLearningCurve(w io.Writer, format string) error {
	p, err := e.learningCurvePlot()
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(curveWidth, curveHeight, strings.ToLower(format))
	if err != nil {
		return errors.Wrap(err, "learning curve writer")
	}
	_, err = wt.WriteTo(w)
	return errors.Wrap(err, "write learning curve")
}

// SaveLearningCurve renders the learning curve into path. The image format
// follows the file extension.
func (e *ensemble) SaveLearningCurve(path string) error {
	if filepath.Ext(path) == "" {
		return errors.NewInvalidArgumentError("path", "needs an image extension", path)
	}
	p, err := e.learningCurvePlot()
	if err != nil {
		return err
	}
	return errors.Wrapf(p.Save(curveWidth, curveHeight, path), "save learning curve to %s", path)
}
