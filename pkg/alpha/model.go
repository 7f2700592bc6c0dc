package alpha

import (
	"context"
	"io"

	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/frame"
)

// Model is implemented by concrete alpha models. Base calls Train only with a
// dataset that passed validation; the other methods act on what Train kept.
type Model interface {
	// Name returns the identifier of the model implementation.
	Name() string
	// Train fits the model on the realized dataset.
	Train(ctx context.Context, dataset *types.RealizedDataset) error
	// Predict returns in-sample predicted returns, one column per instrument.
	Predict(ctx context.Context) (*frame.Frame, error)
	// PredictionQuality scores Predict against realized returns. An empty
	// statistic selects the model's default.
	PredictionQuality(statistic string) (float64, error)
	// PredictNext returns predicted returns for the dates after the dataset.
	PredictNext(ctx context.Context) (*frame.Frame, error)
	// ShowResults writes a human readable summary of the predictions.
	ShowResults(w io.Writer) error
}
