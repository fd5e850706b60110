package domain

// Settings mirrors settings.json, the user-facing preferences shared with the GUI.
type Settings struct {
	WakeWord              string `json:"wake_word" validate:"max=64"`
	Language              string `json:"language" validate:"required,bcp47_language_tag"`
	VoiceFeedback         bool   `json:"voice_feedback"`
	RunInBackground       bool   `json:"run_in_background"`
	AutoStartListening    bool   `json:"auto_start_listening"`
	MicrophoneSensitivity int    `json:"microphone_sensitivity" validate:"gte=0,lte=100"`
	SelectedMicrophone    string `json:"selected_microphone" validate:"required"`
	CommandFeedback       bool   `json:"command_feedback"`
	VoiceConfirmation     bool   `json:"voice_confirmation"`
	DarkMode              bool   `json:"dark_mode"`
}

// DefaultSettings returns the settings used when nothing is persisted.
func DefaultSettings() Settings {
	return Settings{
		WakeWord:              "hey pc",
		Language:              "en-US",
		VoiceFeedback:         true,
		RunInBackground:       true,
		AutoStartListening:    false,
		MicrophoneSensitivity: 75,
		SelectedMicrophone:    "default",
		CommandFeedback:       true,
		VoiceConfirmation:     true,
		DarkMode:              true,
	}
}

// SettingKeys lists every recognised settings key in file order.
func SettingKeys() []string {
	return []string{
		"wake_word",
		"language",
		"voice_feedback",
		"run_in_background",
		"auto_start_listening",
		"microphone_sensitivity",
		"selected_microphone",
		"command_feedback",
		"voice_confirmation",
		"dark_mode",
	}
}

// IsSettingKey reports whether key is a recognised settings key.
func IsSettingKey(key string) bool {
	for _, k := range SettingKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// Microphone is an input device as reported by the speech input adapter.
type Microphone struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Status is the control-surface view of the engine.
type Status struct {
	IsListening bool     `json:"is_listening"`
	WakeWord    string   `json:"wake_word"`
	Settings    Settings `json:"settings"`
	Reason      string   `json:"reason,omitempty"`
	Awake       bool     `json:"awake"`
}
