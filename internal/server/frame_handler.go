package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"framewatch/internal/model"
)

type FramesRequest struct {
	// Hours overrides the configured fetch horizon.
	Hours float64 `form:"hours" binding:"omitempty,gt=0,lte=720"`
	// Limit overrides the configured fetch limit.
	Limit int `form:"limit" binding:"omitempty,gt=0,lte=1000"`
	// Month selects a whole archive partition ("YYYYMM") instead of the
	// recency window.
	Month string `form:"month" binding:"omitempty,yearmonth"`
}

// FrameItem is a frame record enriched with a time-limited link to its
// stored image. The link is synthesized per response and never persisted.
type FrameItem struct {
	model.FrameRecord
	PresignedUrl string `json:"presignedUrl"`
}

// handleListFrames lists recently processed frames
// @Summary List recent frames
// @Description Returns frames processed within the fetch horizon, most recent first, each with a presigned image URL
// @Tags frames
// @Produce json
// @Param hours query number false "override fetch horizon in hours"
// @Param limit query int false "override fetch limit"
// @Param month query string false "browse one archive month (YYYYMM) instead of the recency window"
// @Success 200 {array} FrameItem "frames"
// @Failure 400 {object} ErrorResponse "error"
// @Router /api/v1/frames [get]
func (s *Server) handleListFrames(c *gin.Context) {
	var req FramesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	hours := s.conf.Fetch.HorizonHours
	if req.Hours > 0 {
		hours = req.Hours
	}
	limit := s.conf.Fetch.Limit
	if req.Limit > 0 {
		limit = req.Limit
	}

	now := time.Now()
	horizon := time.Duration(hours * float64(time.Hour))

	var partitions []string
	var horizonTs float64
	if req.Month != "" {
		partitions = []string{req.Month}
	} else {
		partitions = model.WindowPartitions(now, horizon, s.loc)
		horizonTs = model.TimeToTs(now.Add(-horizon))
	}

	recs, err := s.index.RecentFrames(partitions, horizonTs, limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to query frame records")
		s.writeError(c, http.StatusBadRequest, err)
		return
	}

	expiry := time.Duration(s.conf.Fetch.PresignExpiry) * time.Second
	items := make([]FrameItem, 0, len(recs))
	for _, rec := range recs {
		u, err := s.store.PresignFrame(c.Request.Context(), rec.ObjectBucket, rec.ObjectKey, expiry)
		if err != nil {
			s.logger.WithError(err).Errorf("failed to presign %s", rec.ObjectKey)
			s.writeError(c, http.StatusBadRequest, err)
			return
		}
		items = append(items, FrameItem{
			FrameRecord:  rec,
			PresignedUrl: u,
		})
	}

	c.JSON(http.StatusOK, items)
}
