package worker

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/vigneshnagarajan93/MoneyPrinter/models"
	"github.com/vigneshnagarajan93/MoneyPrinter/tasks"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// stage describes one queue-driven step: the status it runs under, the
// columns it produces and where the video goes next.
type stage struct {
	name       string
	processing string
	columns    []string
	run        func(ctx context.Context, v *models.Video) error
	// nextQueue is empty for the last stage.
	nextQueue   string
	nextPending string
}

// HandleScriptGeneration processes tasks from the QueueVideoScript.
func (p *Processor) HandleScriptGeneration(ctx context.Context, payload string) error {
	return p.runStage(ctx, payload, stage{
		name:        "script",
		processing:  models.StatusProcessingScript,
		columns:     []string{"script"},
		run:         p.Pipeline.WriteScript,
		nextQueue:   tasks.QueueVideoFootage,
		nextPending: models.StatusPendingFootage,
	})
}

// HandleFootage processes tasks from the QueueVideoFootage.
func (p *Processor) HandleFootage(ctx context.Context, payload string) error {
	return p.runStage(ctx, payload, stage{
		name:        "footage",
		processing:  models.StatusProcessingFootage,
		columns:     []string{"search_terms"},
		run:         p.Pipeline.FindFootage,
		nextQueue:   tasks.QueueVideoNarration,
		nextPending: models.StatusPendingNarration,
	})
}

// HandleNarration processes tasks from the QueueVideoNarration.
func (p *Processor) HandleNarration(ctx context.Context, payload string) error {
	return p.runStage(ctx, payload, stage{
		name:        "narration",
		processing:  models.StatusProcessingNarration,
		columns:     []string{"narration_path", "subtitles_path"},
		run:         p.Pipeline.Narrate,
		nextQueue:   tasks.QueueVideoRender,
		nextPending: models.StatusPendingRender,
	})
}

// HandleRenderVideo processes tasks from the QueueVideoRender.
func (p *Processor) HandleRenderVideo(ctx context.Context, payload string) error {
	return p.runStage(ctx, payload, stage{
		name:       "render",
		processing: models.StatusRendering,
		columns:    []string{"combined_path", "output_path"},
		run: func(ctx context.Context, v *models.Video) error {
			return p.Pipeline.Render(ctx, v, p.outputPath(v))
		},
		nextQueue:   tasks.QueueVideoMetadata,
		nextPending: models.StatusPendingMetadata,
	})
}

// HandleMetadata processes tasks from the QueueVideoMetadata. This is the
// final step.
func (p *Processor) HandleMetadata(ctx context.Context, payload string) error {
	return p.runStage(ctx, payload, stage{
		name:       "metadata",
		processing: models.StatusProcessingMetadata,
		columns:    []string{"title", "description", "keywords"},
		run:        p.Pipeline.Describe,
	})
}

func (p *Processor) outputPath(v *models.Video) string {
	return filepath.Join(p.OutputDir, fmt.Sprintf("video_%d.mp4", v.ID))
}

func (p *Processor) runStage(ctx context.Context, payload string, s stage) error {
	task, err := tasks.Unmarshal(payload)
	if err != nil {
		return err
	}

	log.Printf("Processing %s for video %d", s.name, task.VideoID)
	var video models.Video
	if err := p.DB.Preload("Clips").First(&video, task.VideoID).Error; err != nil {
		return err
	}

	// Update status
	p.setStatus(&video, s.processing)

	// Call business logic
	if err := s.run(ctx, &video); err != nil {
		p.fail(&video, "failed_"+s.name, err)
		return err
	}

	// Save results
	if err := p.save(&video, s); err != nil {
		p.fail(&video, "failed_save_"+s.name, err)
		return err
	}
	log.Printf("Finished %s for video %d", s.name, video.ID)

	if s.nextQueue == "" {
		p.setStatus(&video, models.StatusComplete)
		log.Printf("Completed video %d", video.ID)
		return nil
	}

	// Chain to the next step
	nextTask := tasks.VideoTaskPayload{VideoID: video.ID}
	if err := p.Enqueue(ctx, s.nextQueue, nextTask); err != nil {
		p.fail(&video, "failed_queue_"+s.name, err)
		return err
	}

	log.Printf("Queued video %d on %s", video.ID, s.nextQueue)
	p.setStatus(&video, s.nextPending)
	return nil
}

func (p *Processor) save(video *models.Video, s stage) error {
	return p.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(video).Select(s.columns).Omit(clause.Associations).Updates(video).Error; err != nil {
			return err
		}
		if s.name != "footage" {
			return nil
		}

		// Replace the clip list of a retried footage stage.
		if err := tx.Where("video_id = ?", video.ID).Delete(&models.VideoClip{}).Error; err != nil {
			return err
		}
		for i := range video.Clips {
			video.Clips[i].ID = 0
			video.Clips[i].VideoID = video.ID
			if err := tx.Create(&video.Clips[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// setStatus records the video's status. A failed write is logged and
// returned; the stage result itself stands.
func (p *Processor) setStatus(video *models.Video, status string) error {
	if err := p.DB.Model(video).Update("status", status).Error; err != nil {
		log.Printf("Error setting status %s on video %d: %v", status, video.ID, err)
		return err
	}
	return nil
}

func (p *Processor) fail(video *models.Video, status string, err error) {
	log.Printf("Video %d failed (%s): %v", video.ID, status, err)
	updateErr := p.DB.Model(video).Updates(map[string]interface{}{
		"status": status,
		"error":  err.Error(),
	}).Error
	if updateErr != nil {
		log.Printf("Error recording failure on video %d: %v", video.ID, updateErr)
	}
}
