package tasks

import "encoding/json"

// ---
// QUEUE DEFINITIONS
// ---
// One queue per pipeline stage. Each handler chains to the next queue.
const (
	// QueueVideoScript is the first step: write the narration script.
	QueueVideoScript = "q_video_script"

	// QueueVideoFootage derives search terms and downloads stock clips.
	QueueVideoFootage = "q_video_footage"

	// QueueVideoNarration synthesizes the narration and its subtitles.
	QueueVideoNarration = "q_video_narration"

	// QueueVideoRender combines the clips and composes the final video.
	QueueVideoRender = "q_video_render"

	// QueueVideoMetadata generates title, description and keywords.
	QueueVideoMetadata = "q_video_metadata"
)

// Queues lists every stage queue in pipeline order.
var Queues = []string{
	QueueVideoScript,
	QueueVideoFootage,
	QueueVideoNarration,
	QueueVideoRender,
	QueueVideoMetadata,
}

// ChannelSeriesCreated is the pub/sub channel the API announces new series
// on. The scheduler subscribes to it.
const ChannelSeriesCreated = "series_created"

// ---
// TASK PAYLOADS
// ---

// VideoTaskPayload is the payload of every stage queue.
type VideoTaskPayload struct {
	VideoID uint `json:"video_id"`
}

// SeriesCreatedMessage is published on ChannelSeriesCreated.
type SeriesCreatedMessage struct {
	SeriesID    uint `json:"series_id"`
	PostsPerDay int  `json:"posts_per_day"`
}

// ---
// HELPER FUNCTIONS
// ---

// Marshal creates a JSON payload for a task.
func Marshal(payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Unmarshal decodes a stage payload.
func Unmarshal(payload string) (VideoTaskPayload, error) {
	var task VideoTaskPayload
	err := json.Unmarshal([]byte(payload), &task)
	return task, err
}
