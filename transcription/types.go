package transcription

// Request holds parameters for a transcription call. The payload is
// one chunk of audio, already sliced to fit the backend's size limit.
type Request struct {
	// AudioData is the raw audio bytes to transcribe.
	AudioData []byte `json:"-"`
	// Filename is an optional name hint for the upload ("chunk_3.mp3").
	Filename string `json:"filename,omitempty"`
	// Language is the expected language of the audio (e.g. "en").
	// Empty or "auto" requests backend auto-detection.
	Language string `json:"language,omitempty"`
	// Model is the transcription model to use.
	Model string `json:"model,omitempty"`
	// Format is the desired output format (e.g. "text", "json").
	Format string `json:"format,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Segments contains time-aligned transcript segments, ordered by
	// start time relative to the submitted audio.
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
}
