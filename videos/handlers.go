package videos

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/vigneshnagarajan93/MoneyPrinter/models"
	"github.com/vigneshnagarajan93/MoneyPrinter/processing"
	"github.com/vigneshnagarajan93/MoneyPrinter/tasks"
	"gorm.io/gorm"
)

type Handler struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHandler(db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{DB: db, Redis: rdb}
}

// CreateVideo stores a pending video and queues it for script generation.
func (h *Handler) CreateVideo(c *gin.Context) {
	userID := c.GetUint("user_id")
	var req processing.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video := req.Video(userID)
	if video.Subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject must not be empty"})
		return
	}

	if err := h.DB.Create(&video).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create video"})
		return
	}

	payload, err := tasks.Marshal(tasks.VideoTaskPayload{VideoID: video.ID})
	if err == nil {
		err = h.Redis.LPush(c.Request.Context(), tasks.QueueVideoScript, payload).Err()
	}
	if err != nil {
		log.Printf("Error queueing video %d: %v", video.ID, err)
		updateErr := h.DB.Model(&video).Updates(map[string]interface{}{
			"status": "failed_queue_script",
			"error":  err.Error(),
		}).Error
		if updateErr != nil {
			log.Printf("Error recording queue failure on video %d: %v", video.ID, updateErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue video"})
		return
	}

	log.Printf("Queued video %d for script generation", video.ID)
	c.JSON(http.StatusAccepted, video)
}

func (h *Handler) GetUserVideos(c *gin.Context) {
	userID := c.GetUint("user_id")
	var videos []models.Video
	if err := h.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&videos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve videos"})
		return
	}

	c.JSON(http.StatusOK, videos)
}

func (h *Handler) GetVideo(c *gin.Context) {
	video, ok := h.findUserVideo(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, video)
}

// GetVideoFile streams the rendered mp4 of a video.
func (h *Handler) GetVideoFile(c *gin.Context) {
	video, ok := h.findUserVideo(c)
	if !ok {
		return
	}

	// A render survives a later metadata failure, so a done video with an
	// output path is served whatever its final status.
	rendered := video.OutputPath != "" && (video.IsDone() ||
		video.Status == models.StatusPendingMetadata ||
		video.Status == models.StatusProcessingMetadata)
	if !rendered {
		if models.IsFailed(video.Status) {
			c.JSON(http.StatusConflict, gin.H{"error": "Video generation failed", "status": video.Status, "reason": video.Error})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Video is not rendered yet", "status": video.Status})
		return
	}
	if _, err := os.Stat(video.OutputPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video file not found"})
		return
	}

	c.FileAttachment(video.OutputPath, filepath.Base(video.OutputPath))
}

func (h *Handler) findUserVideo(c *gin.Context) (models.Video, bool) {
	videoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video ID"})
		return models.Video{}, false
	}

	userID := c.GetUint("user_id")

	var video models.Video
	if err := h.DB.Preload("Clips").First(&video, "id = ? AND user_id = ?", videoID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return models.Video{}, false
	}
	return video, true
}
