package detect

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Trendyol/go-triton-client/base"
	tritonGrpc "github.com/Trendyol/go-triton-client/client/grpc"

	"framewatch/internal/config"
	"framewatch/internal/dao"
)

// Detection is the result of one label-detection call: labels ranked by
// confidence, already bounded by the configured max count and threshold.
type Detection struct {
	Labels      []dao.DetectedLabel
	Orientation dao.Orientation
}

// Detector is the label-detection surface the processor depends on.
type Detector interface {
	DetectLabels(ctx context.Context, imageBytes []byte) (*Detection, error)
}

// TritonDetector runs JPEG frames through a Triton-hosted detection model.
// The model takes an IMAGE byte tensor and returns DETECTIONS as float32
// rows of [x, y, w, h, confidence, class_id] with normalized coordinates.
type TritonDetector struct {
	cli           base.Client
	modelName     string
	maxLabels     int
	minConfidence float64
	labelMap      map[int]string
}

func NewTritonDetector(conf *config.TritonConfig, detect *config.DetectConfig) (*TritonDetector, error) {
	cli, err := tritonGrpc.NewClient(
		conf.ServerAddr,
		false, // verbose logging
		30,    // connection timeout in seconds
		30,    // network timeout in seconds
		false, // use ssl
		true,  // insecure connection
		nil,   // existing grpc connection
		nil,   // logger
	)
	if err != nil {
		return nil, err
	}

	labelMap := DefaultLabelMap()
	if conf.LabelFile != "" {
		labelMap, err = LoadLabelMap(conf.LabelFile)
		if err != nil {
			return nil, err
		}
	}

	return &TritonDetector{
		cli:           cli,
		modelName:     conf.ModelName,
		maxLabels:     detect.MaxLabels,
		minConfidence: detect.MinConfidence,
		labelMap:      labelMap,
	}, nil
}

// CheckReady verifies server and model readiness before consuming frames.
func (d *TritonDetector) CheckReady(ctx context.Context) error {
	if isLive, err := d.cli.IsServerLive(ctx, nil); err != nil {
		return err
	} else if !isLive {
		return errors.New("triton server is not live")
	}

	if isReady, err := d.cli.IsServerReady(ctx, nil); err != nil {
		return err
	} else if !isReady {
		return errors.New("triton server is not ready")
	}

	if isReady, err := d.cli.IsModelReady(ctx, d.modelName, "1", nil); err != nil {
		return err
	} else if !isReady {
		return errors.New("triton model is not ready")
	}

	return nil
}

func (d *TritonDetector) DetectLabels(ctx context.Context, imageBytes []byte) (*Detection, error) {
	imageInput := tritonGrpc.NewInferInput("IMAGE", "BYTES", []int64{int64(len(imageBytes))}, nil)
	if err := imageInput.SetData(imageBytes, true); err != nil {
		return nil, fmt.Errorf("failed to set IMAGE input data: %v", err)
	}
	imageInput.SetDatatype("UINT8")

	outputs := []base.InferOutput{
		tritonGrpc.NewInferOutput("DETECTIONS", map[string]any{"binary_data": false}),
	}

	response, err := d.cli.Infer(
		ctx,
		d.modelName,
		"1",
		[]base.InferInput{imageInput},
		outputs,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %v", err)
	}

	detections, err := response.AsFloat32Slice("DETECTIONS")
	if err != nil {
		return nil, fmt.Errorf("failed to get detection data: %v", err)
	}

	return &Detection{
		Labels:      d.collectLabels(detections),
		Orientation: dao.Rotate0,
	}, nil
}

// collectLabels groups raw detection rows by class into ranked labels. A
// label's confidence is its strongest instance, scaled to [0, 100].
func (d *TritonDetector) collectLabels(detections []float32) []dao.DetectedLabel {
	byName := make(map[string]*dao.DetectedLabel)
	order := make([]string, 0)

	// detections: slice of float32 values with shape [N, 6] containing
	// [x, y, w, h, confidence, class_id], coordinates normalized to [0, 1]
	for i := 0; i+5 < len(detections); i += 6 {
		confidence := float64(detections[i+4]) * 100
		classID := int(detections[i+5])

		className, exists := d.labelMap[classID]
		if !exists || className == "" {
			continue
		}
		if confidence < d.minConfidence {
			continue
		}

		box := dao.BoundingBox{
			Left:       float64(detections[i]),
			Top:        float64(detections[i+1]),
			Width:      float64(detections[i+2]),
			Height:     float64(detections[i+3]),
			Confidence: confidence,
		}

		label, ok := byName[className]
		if !ok {
			label = &dao.DetectedLabel{Name: className}
			byName[className] = label
			order = append(order, className)
		}
		if confidence > label.Confidence {
			label.Confidence = confidence
		}
		label.Instances = append(label.Instances, box)
	}

	labels := make([]dao.DetectedLabel, 0, len(order))
	for _, name := range order {
		labels = append(labels, *byName[name])
	}
	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Confidence > labels[j].Confidence
	})
	if d.maxLabels > 0 && len(labels) > d.maxLabels {
		labels = labels[:d.maxLabels]
	}
	return labels
}
