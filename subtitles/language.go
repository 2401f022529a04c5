package subtitles

// voiceLanguages maps voice codes that differ from the transcription
// service's language codes.
var voiceLanguages = map[string]string{
	"br": "pt",
	"id": "en",
	"jp": "ja",
	"kr": "ko",
}

// LanguageCode resolves a voice code to a transcription language code.
// Unmapped codes pass through unchanged.
func LanguageCode(voice string) string {
	if code, ok := voiceLanguages[voice]; ok {
		return code
	}
	return voice
}
