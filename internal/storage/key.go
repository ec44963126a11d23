package storage

import (
	"fmt"
	"strings"
	"time"
)

// FrameKey derives the deterministic object key for one processed frame:
// <root>/<year>/<month>/<day>/<hour>/<frameId>.jpg, with the date parts
// taken from t's location.
func FrameKey(root string, t time.Time, frameId string) string {
	root = strings.Trim(root, "/")
	key := fmt.Sprintf("%s/%s.jpg", t.Format("2006/01/02/15"), frameId)
	if root == "" {
		return key
	}
	return root + "/" + key
}
