package dto

// UpdateOperatorConfigDTO: частичное обновление настроек контекста.
type UpdateOperatorConfigDTO struct {
	DeskID   *string `json:"desk_id,omitempty" validate:"omitempty,min=1"`
	VoiceURI *string `json:"voice_uri,omitempty"`
}
