package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/vigneshnagarajan93/MoneyPrinter/models"
	"github.com/vigneshnagarajan93/MoneyPrinter/tasks"
	"gorm.io/gorm"
)

// pollTimeout bounds each BRPOP so a cancelled worker stops promptly.
const pollTimeout = time.Second

// TaskHandler is a function that processes a task payload.
type TaskHandler func(ctx context.Context, payload string) error

// Stages is the generation pipeline the handlers drive.
type Stages interface {
	WriteScript(ctx context.Context, v *models.Video) error
	FindFootage(ctx context.Context, v *models.Video) error
	Narrate(ctx context.Context, v *models.Video) error
	Render(ctx context.Context, v *models.Video, outputPath string) error
	Describe(ctx context.Context, v *models.Video) error
}

// Processor holds dependencies and registered task handlers.
type Processor struct {
	DB       *gorm.DB
	RDB      *redis.Client
	Pipeline Stages
	// OutputDir receives the rendered video_<id>.mp4 files.
	OutputDir string
	handlers  map[string]TaskHandler
}

// NewProcessor creates a new worker processor.
func NewProcessor(db *gorm.DB, rdb *redis.Client, pipeline Stages, outputDir string) *Processor {
	return &Processor{
		DB:        db,
		RDB:       rdb,
		Pipeline:  pipeline,
		OutputDir: outputDir,
		handlers:  make(map[string]TaskHandler),
	}
}

// Register maps a queue name (task type) to a handler function.
func (p *Processor) Register(queueName string, handler TaskHandler) {
	p.handlers[queueName] = handler
	log.Printf("Registered handler for queue: %s", queueName)
}

// RegisterAll registers the handler of every pipeline stage.
func (p *Processor) RegisterAll() {
	p.Register(tasks.QueueVideoScript, p.HandleScriptGeneration)
	p.Register(tasks.QueueVideoFootage, p.HandleFootage)
	p.Register(tasks.QueueVideoNarration, p.HandleNarration)
	p.Register(tasks.QueueVideoRender, p.HandleRenderVideo)
	p.Register(tasks.QueueVideoMetadata, p.HandleMetadata)
}

// Enqueue is a helper to add a new task to a queue.
func (p *Processor) Enqueue(ctx context.Context, queueName string, payload interface{}) error {
	payloadStr, err := tasks.Marshal(payload)
	if err != nil {
		return err
	}
	return p.RDB.LPush(ctx, queueName, payloadStr).Err()
}

// Dispatch runs the handler registered for queueName.
func (p *Processor) Dispatch(ctx context.Context, queueName, payload string) error {
	handler, ok := p.handlers[queueName]
	if !ok {
		return fmt.Errorf("no handler registered for queue %s", queueName)
	}
	return handler(ctx, payload)
}

// Listen starts the worker, listening on all registered queues until ctx
// is cancelled.
func (p *Processor) Listen(ctx context.Context, queueNames ...string) {
	log.Printf("Worker listening on %d queues: %v", len(queueNames), queueNames)

	for {
		if ctx.Err() != nil {
			log.Println("Worker stopped")
			return
		}

		// BRPop blocks until a task is available on any of the listed queues.
		result, err := p.RDB.BRPop(ctx, pollTimeout, queueNames...).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("Error popping from queue: %v", err)
				time.Sleep(1 * time.Second)
			}
			continue
		}

		// result[0] is the queue name, result[1] is the payload
		queueName := result[0]
		payload := result[1]

		log.Printf("Received task from queue %s", queueName)

		if err := p.Dispatch(ctx, queueName, payload); err != nil {
			log.Printf("Error processing task from %s: %v", queueName, err)
			// TODO: move tasks that fail to load or unmarshal to a dead-letter queue
		}
	}
}
