package detect

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// cocoClassNames is the default label map when no label file is configured.
var cocoClassNames = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat", "traffic light",
	"fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse", "sheep", "cow",
	"elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie", "suitcase", "frisbee",
	"skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket", "bottle",
	"wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple", "sandwich", "orange",
	"broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair", "couch", "potted plant", "bed",
	"dining table", "toilet", "tv", "laptop", "mouse", "remote", "keyboard", "cell phone", "microwave", "oven",
	"toaster", "sink", "refrigerator", "book", "clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}

// DefaultLabelMap returns the COCO class id to name mapping.
func DefaultLabelMap() map[int]string {
	m := make(map[int]string, len(cocoClassNames))
	for i, name := range cocoClassNames {
		m[i] = name
	}
	return m
}

// LoadLabelMap reads one class name per line; the line number is the class id.
// Blank lines keep their id but never match a detection.
func LoadLabelMap(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open label file: %w", err)
	}
	defer f.Close()

	m := make(map[int]string)
	scanner := bufio.NewScanner(f)
	id := 0
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name != "" {
			m[id] = name
		}
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read label file: %w", err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("label file %s is empty", path)
	}
	return m, nil
}
