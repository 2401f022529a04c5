// Package scheduler turns active series into pending videos on a cron
// schedule.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/vigneshnagarajan93/MoneyPrinter/models"
	"github.com/vigneshnagarajan93/MoneyPrinter/tasks"
	"gorm.io/gorm"
)

type Scheduler struct {
	DB   *gorm.DB
	RDB  *redis.Client
	Cron *cron.Cron
	// Spec is the cron schedule of every series, e.g. "@daily".
	Spec string

	mu      sync.Mutex
	entries map[uint]cron.EntryID
}

func New(db *gorm.DB, rdb *redis.Client, c *cron.Cron, spec string) *Scheduler {
	return &Scheduler{
		DB:      db,
		RDB:     rdb,
		Cron:    c,
		Spec:    spec,
		entries: make(map[uint]cron.EntryID),
	}
}

// ScheduleActive adds a job for every active series.
func (s *Scheduler) ScheduleActive(ctx context.Context) error {
	var series []models.Series
	if err := s.DB.Where("is_active = ?", true).Find(&series).Error; err != nil {
		return fmt.Errorf("loading active series: %w", err)
	}
	for _, sr := range series {
		if err := s.Schedule(ctx, sr.ID); err != nil {
			return err
		}
	}
	log.Printf("Scheduled %d active series", len(series))
	return nil
}

// Schedule adds the cron job of a series. A series is scheduled at most
// once.
func (s *Scheduler) Schedule(ctx context.Context, seriesID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[seriesID]; ok {
		return nil
	}

	id, err := s.Cron.AddFunc(s.Spec, func() {
		if _, err := s.QueueSeriesVideos(ctx, seriesID); err != nil {
			log.Printf("Error running job for series %d: %v", seriesID, err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling series %d: %w", seriesID, err)
	}
	s.entries[seriesID] = id
	return nil
}

// QueueSeriesVideos creates PostsPerDay pending videos for the series and
// pushes each onto the script queue. Inactive series are skipped.
func (s *Scheduler) QueueSeriesVideos(ctx context.Context, seriesID uint) ([]uint, error) {
	var series models.Series
	if err := s.DB.First(&series, seriesID).Error; err != nil {
		return nil, err
	}
	if !series.IsActive {
		log.Printf("Series %d is inactive, skipping", series.ID)
		return nil, nil
	}

	log.Printf("Running job for series %d: queuing %d videos", series.ID, series.PostsPerDay)

	var queued []uint
	for i := 0; i < series.PostsPerDay; i++ {
		video := series.NewVideo()
		if err := s.DB.Create(&video).Error; err != nil {
			log.Printf("Error creating pending video record: %v", err)
			continue
		}

		payload, err := tasks.Marshal(tasks.VideoTaskPayload{VideoID: video.ID})
		if err != nil {
			log.Printf("Error marshalling video task: %v", err)
			continue
		}

		// Use LPUSH to add the task to the queue
		if err := s.RDB.LPush(ctx, tasks.QueueVideoScript, payload).Err(); err != nil {
			log.Printf("Error pushing task to queue %s: %v", tasks.QueueVideoScript, err)
			s.DB.Model(&video).Updates(map[string]interface{}{"status": "failed_queue_script", "error": err.Error()})
			continue
		}
		queued = append(queued, video.ID)
	}
	return queued, nil
}

// Listen subscribes to new-series announcements and schedules each one.
// Pub/Sub delivers to every subscriber, so only one scheduler should run.
func (s *Scheduler) Listen(ctx context.Context) {
	pubsub := s.RDB.Subscribe(ctx, tasks.ChannelSeriesCreated)
	defer pubsub.Close()
	ch := pubsub.Channel()

	log.Println("Scheduler listening for new series...")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handleMessage(ctx, msg.Payload)
		}
	}
}

func (s *Scheduler) handleMessage(ctx context.Context, payload string) {
	var message tasks.SeriesCreatedMessage
	if err := json.Unmarshal([]byte(payload), &message); err != nil {
		log.Printf("Error unmarshalling %s message: %v", tasks.ChannelSeriesCreated, err)
		return
	}

	log.Printf("Received new series %d, scheduling %d posts per run", message.SeriesID, message.PostsPerDay)
	if err := s.Schedule(ctx, message.SeriesID); err != nil {
		log.Printf("Error scheduling cron job for series %d: %v", message.SeriesID, err)
	}
}
