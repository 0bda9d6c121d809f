package edge

import "image"

// Documented safe ranges. Values outside them are accepted but have not been
// tuned for radiographs.
const (
	MinLowThreshold  = 10
	MaxLowThreshold  = 200
	MinHighThreshold = 100
	MaxHighThreshold = 300
	MinDilationSize  = 1
	MaxDilationSize  = 5
	MinClosingIters  = 1
	MaxClosingIters  = 5
)

// Params controls one extraction run.
type Params struct {
	// LowThreshold admits candidate edge pixels whose gradient magnitude
	// exceeds it. Lower values admit more candidates.
	LowThreshold float64 `json:"low_threshold"`

	// HighThreshold promotes candidates above it to definite edges.
	HighThreshold float64 `json:"high_threshold"`

	// DilationSize is the side of the square element used to dilate the
	// grayscale image before detection. Values below 1 behave as 1.
	DilationSize int `json:"dilation_size"`

	// ClosingIterations is the number of 3x3 closing passes applied to the
	// edge map. Zero disables closing.
	ClosingIterations int `json:"closing_iterations"`

	// Exclude lists rectangles whose edge pixels are cleared before closing,
	// typically burned-in labels found by OCR.
	Exclude []image.Rectangle `json:"exclude,omitempty"`
}

// DefaultParams returns the thresholds the refinement screens start from.
func DefaultParams() Params {
	return Params{
		LowThreshold:      50,
		HighThreshold:     165,
		DilationSize:      2,
		ClosingIterations: 2,
	}
}

// InRange reports whether every parameter lies within its safe range.
func (p Params) InRange() bool {
	return p.LowThreshold >= MinLowThreshold && p.LowThreshold <= MaxLowThreshold &&
		p.HighThreshold >= MinHighThreshold && p.HighThreshold <= MaxHighThreshold &&
		p.DilationSize >= MinDilationSize && p.DilationSize <= MaxDilationSize &&
		p.ClosingIterations >= MinClosingIters && p.ClosingIterations <= MaxClosingIters
}
