package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(x, y, w, h, conf float32, class int) []float32 {
	return []float32{x, y, w, h, conf, float32(class)}
}

func TestCollectLabelsGroupsInstancesByClass(t *testing.T) {
	d := &TritonDetector{
		maxLabels:     10,
		minConfidence: 50,
		labelMap:      map[int]string{0: "person", 16: "dog"},
	}

	var detections []float32
	detections = append(detections, row(0.1, 0.1, 0.2, 0.3, 0.91, 16)...)
	detections = append(detections, row(0.5, 0.5, 0.1, 0.1, 0.62, 16)...)
	detections = append(detections, row(0.2, 0.2, 0.3, 0.6, 0.80, 0)...)

	labels := d.collectLabels(detections)

	require.Len(t, labels, 2)
	assert.Equal(t, "dog", labels[0].Name)
	// Confidences arrive as float32, so only ~7 digits are meaningful.
	assert.InDelta(t, 91, labels[0].Confidence, 1e-4)
	assert.Len(t, labels[0].Instances, 2)
	assert.Equal(t, "person", labels[1].Name)
	assert.Len(t, labels[1].Instances, 1)
	assert.InDelta(t, 0.2, labels[1].Instances[0].Left, 1e-6)
}

func TestCollectLabelsThresholdAndUnknownClass(t *testing.T) {
	d := &TritonDetector{
		maxLabels:     10,
		minConfidence: 50,
		labelMap:      map[int]string{0: "person"},
	}

	var detections []float32
	detections = append(detections, row(0, 0, 1, 1, 0.49, 0)...)  // below threshold
	detections = append(detections, row(0, 0, 1, 1, 0.99, 77)...) // unknown class

	assert.Empty(t, d.collectLabels(detections))
}

func TestCollectLabelsMaxLabelsCap(t *testing.T) {
	d := &TritonDetector{
		maxLabels:     2,
		minConfidence: 0,
		labelMap:      map[int]string{0: "a", 1: "b", 2: "c"},
	}

	var detections []float32
	detections = append(detections, row(0, 0, 1, 1, 0.60, 0)...)
	detections = append(detections, row(0, 0, 1, 1, 0.90, 1)...)
	detections = append(detections, row(0, 0, 1, 1, 0.70, 2)...)

	labels := d.collectLabels(detections)

	require.Len(t, labels, 2)
	assert.Equal(t, "b", labels[0].Name)
	assert.Equal(t, "c", labels[1].Name)
}

func TestCollectLabelsIgnoresTruncatedRow(t *testing.T) {
	d := &TritonDetector{
		labelMap: map[int]string{0: "person"},
	}

	labels := d.collectLabels([]float32{0.1, 0.2, 0.3})

	assert.Empty(t, labels)
}
