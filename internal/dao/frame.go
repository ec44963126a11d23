package dao

// FramePackage is the unit of transport between the capture producer and the
// frame processor. ImageBytes is a JPEG, base64-encoded on the wire by
// encoding/json. The package itself is never persisted.
type FramePackage struct {
	CaptureTimestamp float64 `json:"captureTimestamp"` // seconds, UTC epoch
	FrameSequence    int64   `json:"frameSequence"`
	SessionId        string  `json:"sessionId,omitempty"`
	ImageBytes       []byte  `json:"imageBytes"`
}

// BoundingBox coordinates are ratios of the full frame, all in [0, 1].
type BoundingBox struct {
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
}

type DetectedLabel struct {
	Name        string        `json:"name"`
	Confidence  float64       `json:"confidence"` // percent, [0, 100]
	OnWatchList bool          `json:"onWatchList"`
	Instances   []BoundingBox `json:"instances,omitempty"`
}

type Orientation string

const (
	Rotate0   Orientation = "ROTATE_0"
	Rotate90  Orientation = "ROTATE_90"
	Rotate180 Orientation = "ROTATE_180"
	Rotate270 Orientation = "ROTATE_270"
)

// AlertPayload is published to the alert topic when watch-list labels match.
type AlertPayload struct {
	Message string          `json:"message"`
	Labels  []DetectedLabel `json:"labels"`
}
