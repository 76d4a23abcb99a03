package entities

// OperatorConfig - настройки одного контекста оператора. Хранятся локально
// и намеренно НЕ рассылаются по шине синхронизации.
type OperatorConfig struct {
	DeskID   string `json:"desk_id"`
	VoiceURI string `json:"voice_uri,omitempty"`
}
