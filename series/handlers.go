package series

import (
	"log"
	"net/http"
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

type CreateSeriesRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	PostsPerDay int    `json:"posts_per_day" binding:"required,min=1,max=3"`

	// Generation defaults copied onto every video of the series.
	AIModel           string `json:"ai_model"`
	Voice             string `json:"voice"`
	Language          string `json:"language"`
	SubtitlesPosition string `json:"subtitles_position"`
	TextColor         string `json:"text_color"`
}

func (h *Handler) CreateSeries(c *gin.Context) {
	userID := c.GetUint("user_id")
	var req CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	series := models.Series{
		UserID:            userID,
		Title:             req.Title,
		Description:       req.Description,
		PostsPerDay:       req.PostsPerDay,
		IsActive:          true,
		AIModel:           req.AIModel,
		Voice:             req.Voice,
		Language:          orDefault(req.Language, processing.DefaultLanguage),
		SubtitlesPosition: orDefault(req.SubtitlesPosition, processing.DefaultSubtitlesPosition),
		TextColor:         orDefault(req.TextColor, processing.DefaultTextColor),
	}

	if err := h.DB.Create(&series).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create series"})
		return
	}

	// Publish message to Redis
	message := tasks.SeriesCreatedMessage{
		SeriesID:    series.ID,
		PostsPerDay: series.PostsPerDay,
	}
	payload, err := tasks.Marshal(message)
	if err != nil {
		log.Printf("Error marshalling json: %v", err)
	} else {
		err := h.Redis.Publish(c.Request.Context(), tasks.ChannelSeriesCreated, payload).Err()
		if err != nil {
			log.Printf("Error publishing to redis: %v", err)
		}
	}

	c.JSON(http.StatusOK, series)
}

func (h *Handler) GetUserSeries(c *gin.Context) {
	userID := c.GetUint("user_id")
	var series []models.Series
	if err := h.DB.Where("user_id = ?", userID).Find(&series).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve series"})
		return
	}

	for i := range series {
		var count int64
		h.DB.Model(&models.Video{}).Where("series_id = ?", series[i].ID).Count(&count)
		series[i].VideoCount = int(count)
	}

	c.JSON(http.StatusOK, series)
}

func (h *Handler) GetSeriesVideos(c *gin.Context) {
	seriesIDStr := c.Param("id")
	seriesID, err := strconv.ParseUint(seriesIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid series ID"})
		return
	}

	userID := c.GetUint("user_id")

	// First, verify the series belongs to the user
	var series models.Series
	if err := h.DB.First(&series, "id = ? AND user_id = ?", seriesID, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Series not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	var videos []models.Video
	if err := h.DB.Where("series_id = ?", seriesID).Order("created_at desc").Find(&videos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve videos"})
		return
	}

	c.JSON(http.StatusOK, videos)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
